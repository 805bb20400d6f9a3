package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/chainplan/pkg/plan"
)

// UnknownResourceError reports a recipe rate naming a resource the world
// document never declared.
type UnknownResourceError struct {
	RecipeName   string
	ResourceName string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("recipe %q references unknown resource %q", e.RecipeName, e.ResourceName)
}

// UnknownNameError reports a rule or factory entry naming a catalog entity
// that does not exist.
type UnknownNameError struct {
	Kind string // "resource" or "recipe"
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Loader reads and writes planner documents and translates names to catalog
// ids at this boundary; the core only ever sees resolved ids.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a document loader.
func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

// LoadWorld reads a world document, resolves resource names, scales rates by
// each recipe's per-minute multiplier, and builds the validated catalog.
func (l *Loader) LoadWorld(path string) (*plan.World, error) {
	var doc WorldDocument
	if err := l.read(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to load world %s: %w", path, err)
	}

	index := make(map[string]plan.ResourceID, len(doc.Resources))
	resources := make([]plan.Resource, len(doc.Resources))
	for i, name := range doc.Resources {
		resources[i] = plan.Resource{Name: name}
		if _, ok := index[name]; !ok {
			index[name] = plan.ResourceID(i)
		}
	}

	recipes := make([]plan.Recipe, 0, len(doc.Recipes))
	for _, recipeDoc := range doc.Recipes {
		recipe := plan.Recipe{
			Name: recipeDoc.Name,
			Tags: recipeDoc.Tags,
		}
		for _, rate := range recipeDoc.Rates {
			id, ok := index[rate.Name]
			if !ok {
				return nil, &UnknownResourceError{
					RecipeName:   recipeDoc.Name,
					ResourceName: rate.Name,
				}
			}
			recipe.Rates = append(recipe.Rates, plan.RateEntry{
				Resource: id,
				Rate:     rate.Rate * recipeDoc.PerMinute,
			})
		}
		recipes = append(recipes, recipe)
	}

	world, err := plan.BuildWorld(resources, recipes)
	if err != nil {
		return nil, fmt.Errorf("invalid world %s: %w", path, err)
	}
	return world, nil
}

// LoadRuleList reads a rule-list document and resolves its names against the
// world.
func (l *Loader) LoadRuleList(world *plan.World, path string) (*plan.RuleList, error) {
	var doc RuleListDocument
	if err := l.read(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to load rule list %s: %w", path, err)
	}

	list := &plan.RuleList{}
	for i, ruleDoc := range doc.Rules {
		variable, err := resolveVariable(world, ruleDoc.Kind, ruleDoc.Name)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		constraint, err := decodeConstraint(ruleDoc.Constraint)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		list.Rules = append(list.Rules, plan.Rule{Variable: variable, Constraint: constraint})
	}
	return list, nil
}

// SaveRuleList writes a rule list, translating ids back to names.
func (l *Loader) SaveRuleList(world *plan.World, list *plan.RuleList, path string) error {
	doc := RuleListDocument{}
	for _, rule := range list.Rules {
		ruleDoc := RuleDocument{Constraint: encodeConstraint(rule.Constraint)}
		switch rule.Variable.Kind {
		case plan.VariableResource:
			ruleDoc.Kind = "resource"
			ruleDoc.Name = world.NameOfResource(rule.Variable.Resource)
		case plan.VariableRecipe:
			ruleDoc.Kind = "recipe"
			ruleDoc.Name = world.NameOfRecipe(rule.Variable.Recipe)
		default:
			panic(fmt.Sprintf("document: unknown variable kind %d", rule.Variable.Kind))
		}
		doc.Rules = append(doc.Rules, ruleDoc)
	}

	if err := l.write(path, doc); err != nil {
		return fmt.Errorf("failed to save rule list %s: %w", path, err)
	}
	return nil
}

// LoadFactory reads a factory document and resolves its recipe names.
func (l *Loader) LoadFactory(world *plan.World, path string) (*plan.Factory, error) {
	var doc FactoryDocument
	if err := l.read(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to load factory %s: %w", path, err)
	}

	factory := &plan.Factory{}
	for _, entry := range doc.Recipes {
		id, ok := world.RecipeIDOfName(entry.Name)
		if !ok {
			return nil, &UnknownNameError{Kind: "recipe", Name: entry.Name}
		}
		factory.Recipes = append(factory.Recipes, plan.RecipeRate{Recipe: id, Rate: entry.Rate})
	}
	return factory, nil
}

// SaveFactory writes a factory, translating recipe ids back to names.
func (l *Loader) SaveFactory(world *plan.World, factory *plan.Factory, path string) error {
	doc := FactoryDocument{}
	for _, entry := range factory.Recipes {
		doc.Recipes = append(doc.Recipes, NameRateDocument{
			Name: world.NameOfRecipe(entry.Recipe),
			Rate: entry.Rate,
		})
	}

	if err := l.write(path, doc); err != nil {
		return fmt.Errorf("failed to save factory %s: %w", path, err)
	}
	return nil
}

func resolveVariable(world *plan.World, kind, name string) (plan.VariableID, error) {
	switch kind {
	case "resource":
		id, ok := world.ResourceIDOfName(name)
		if !ok {
			return plan.VariableID{}, &UnknownNameError{Kind: "resource", Name: name}
		}
		return id.Variable(), nil
	case "recipe":
		id, ok := world.RecipeIDOfName(name)
		if !ok {
			return plan.VariableID{}, &UnknownNameError{Kind: "recipe", Name: name}
		}
		return id.Variable(), nil
	default:
		return plan.VariableID{}, fmt.Errorf("unknown rule kind %q", kind)
	}
}

func decodeConstraint(doc ConstraintDocument) (plan.Constraint, error) {
	if doc.Op == "unconstrained" {
		return plan.NoConstraint(), nil
	}
	if doc.Threshold == nil {
		return plan.Constraint{}, fmt.Errorf("constraint %q requires a threshold", doc.Op)
	}
	switch doc.Op {
	case "less":
		return plan.LessThan(*doc.Threshold), nil
	case "equal":
		return plan.EqualTo(*doc.Threshold), nil
	case "greater":
		return plan.GreaterThan(*doc.Threshold), nil
	default:
		return plan.Constraint{}, fmt.Errorf("unknown constraint op %q", doc.Op)
	}
}

func encodeConstraint(c plan.Constraint) ConstraintDocument {
	switch c.Op {
	case plan.Unconstrained:
		return ConstraintDocument{Op: "unconstrained"}
	case plan.Less:
		threshold := c.Threshold
		return ConstraintDocument{Op: "less", Threshold: &threshold}
	case plan.Equal:
		threshold := c.Threshold
		return ConstraintDocument{Op: "equal", Threshold: &threshold}
	case plan.Greater:
		threshold := c.Threshold
		return ConstraintDocument{Op: "greater", Threshold: &threshold}
	default:
		panic(fmt.Sprintf("document: unknown constraint op %d", c.Op))
	}
}

// read decodes and validates a document, picking the codec by file extension.
func (l *Loader) read(path string, doc interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, doc); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, doc); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	if err := l.validate.Struct(doc); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}

func (l *Loader) write(path string, doc interface{}) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
