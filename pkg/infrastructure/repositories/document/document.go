// Package document loads and saves the planner's file formats: world
// catalogs, rule lists, and factories. Documents are JSON or YAML, chosen by
// file extension, and are validated before any name is resolved against the
// core model.
package document

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// WorldDocument is the serialized catalog: a list of resource names and the
// recipes over them. Recipe rates are raw per-batch figures; PerMinute scales
// them to per-minute rates at load time.
type WorldDocument struct {
	Resources []string         `json:"resources" yaml:"resources" validate:"required,min=1,dive,required"`
	Recipes   []RecipeDocument `json:"recipes" yaml:"recipes" validate:"dive"`
}

// RecipeDocument is one serialized recipe.
type RecipeDocument struct {
	Name      string             `json:"name" yaml:"name" validate:"required"`
	Tags      []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
	PerMinute float64            `json:"per_minute" yaml:"per_minute" validate:"required,gt=0"`
	Rates     []NameRateDocument `json:"rates" yaml:"rates" validate:"dive"`
}

// RuleListDocument is the serialized form of a rule list. Rules reference
// catalog entities by name; ids never leave the process.
type RuleListDocument struct {
	Rules []RuleDocument `json:"rules" yaml:"rules" validate:"dive"`
}

// RuleDocument is one serialized rule.
type RuleDocument struct {
	Kind       string             `json:"kind" yaml:"kind" validate:"required,oneof=resource recipe"`
	Name       string             `json:"name" yaml:"name" validate:"required"`
	Constraint ConstraintDocument `json:"constraint" yaml:"constraint"`
}

// ConstraintDocument is a tagged constraint value: an op plus a numeric
// threshold for less/equal/greater, and no threshold for unconstrained.
type ConstraintDocument struct {
	Op        string   `json:"op" yaml:"op" validate:"required,oneof=less equal greater unconstrained"`
	Threshold *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// FactoryDocument is the serialized form of a solved factory.
type FactoryDocument struct {
	Recipes []NameRateDocument `json:"recipes" yaml:"recipes" validate:"dive"`
}

// NameRateDocument is a (name, rate) pair, serialized as a two-element array
// rather than an object.
type NameRateDocument struct {
	Name string `validate:"required"`
	Rate float64
}

func (r NameRateDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{r.Name, r.Rate})
}

func (r *NameRateDocument) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [name, rate] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Name); err != nil {
		return fmt.Errorf("pair name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Rate); err != nil {
		return fmt.Errorf("pair rate: %w", err)
	}
	return nil
}

func (r NameRateDocument) MarshalYAML() (interface{}, error) {
	return [2]interface{}{r.Name, r.Rate}, nil
}

func (r *NameRateDocument) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: expected [name, rate] pair", value.Line)
	}
	if err := value.Content[0].Decode(&r.Name); err != nil {
		return fmt.Errorf("pair name: %w", err)
	}
	if err := value.Content[1].Decode(&r.Rate); err != nil {
		return fmt.Errorf("pair rate: %w", err)
	}
	return nil
}
