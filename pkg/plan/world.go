// Package plan models a crafting economy as a catalog of resources and
// recipes, and computes optimal production plans for it by linear
// programming: callers constrain per-variable flows, pick an objective, and
// solve for the recipe throughputs that maximize it.
package plan

import "fmt"

// ResourceID identifies a resource within one World. IDs are dense,
// zero-based, and only meaningful for the World that produced them.
type ResourceID int

// RecipeID identifies a recipe within one World.
type RecipeID int

// VariableKind discriminates the two kinds of solver variables.
type VariableKind int

const (
	VariableResource VariableKind = iota
	VariableRecipe
)

func (k VariableKind) String() string {
	switch k {
	case VariableResource:
		return "Resource"
	case VariableRecipe:
		return "Recipe"
	default:
		return "Unknown"
	}
}

// VariableID identifies either a resource's net-flow variable or a recipe's
// throughput variable. Construct values with ResourceID.Variable or
// RecipeID.Variable.
type VariableID struct {
	Kind     VariableKind
	Resource ResourceID
	Recipe   RecipeID
}

// Variable returns the net-flow variable of a resource.
func (r ResourceID) Variable() VariableID {
	return VariableID{Kind: VariableResource, Resource: r}
}

// Variable returns the throughput variable of a recipe.
func (r RecipeID) Variable() VariableID {
	return VariableID{Kind: VariableRecipe, Recipe: r}
}

// Resource is a material that recipes produce or consume.
type Resource struct {
	Name string
}

// RateEntry is one resource flow of a recipe: positive rates produce, negative
// rates consume, in resource units per unit of recipe throughput.
type RateEntry struct {
	Resource ResourceID
	Rate     float64
}

// Recipe transforms resources at fixed per-unit rates.
type Recipe struct {
	Name  string
	Tags  []string
	Rates []RateEntry
}

// World is the validated, immutable catalog of one planning session. Treat a
// built World as read-only; it may be shared across concurrent solves.
type World struct {
	Resources []Resource
	Recipes   []Recipe
}

// InvalidRateError reports a recipe rate entry whose resource id is not part
// of the World under construction.
type InvalidRateError struct {
	RecipeName string
	Resource   ResourceID
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("recipe %q references unknown resource id %d", e.RecipeName, e.Resource)
}

// DuplicateNameError reports two resources or two recipes sharing a name.
// Names are rejected at build time so that name lookups are unambiguous.
type DuplicateNameError struct {
	Kind string // "resource" or "recipe"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate %s name %q", e.Kind, e.Name)
}

// BuildWorld validates resources and recipes and assembles them into a World.
// Every rate entry must reference a resource in the same catalog, and names
// must be unique per kind.
func BuildWorld(resources []Resource, recipes []Recipe) (*World, error) {
	seen := make(map[string]struct{}, len(resources))
	for _, resource := range resources {
		if _, ok := seen[resource.Name]; ok {
			return nil, &DuplicateNameError{Kind: "resource", Name: resource.Name}
		}
		seen[resource.Name] = struct{}{}
	}

	seen = make(map[string]struct{}, len(recipes))
	for _, recipe := range recipes {
		if _, ok := seen[recipe.Name]; ok {
			return nil, &DuplicateNameError{Kind: "recipe", Name: recipe.Name}
		}
		seen[recipe.Name] = struct{}{}

		for _, entry := range recipe.Rates {
			if entry.Resource < 0 || int(entry.Resource) >= len(resources) {
				return nil, &InvalidRateError{RecipeName: recipe.Name, Resource: entry.Resource}
			}
		}
	}

	return &World{Resources: resources, Recipes: recipes}, nil
}

// ResourceIDOfName returns the id of the named resource.
func (w *World) ResourceIDOfName(name string) (ResourceID, bool) {
	for i, resource := range w.Resources {
		if resource.Name == name {
			return ResourceID(i), true
		}
	}
	return 0, false
}

// RecipeIDOfName returns the id of the named recipe.
func (w *World) RecipeIDOfName(name string) (RecipeID, bool) {
	for i, recipe := range w.Recipes {
		if recipe.Name == name {
			return RecipeID(i), true
		}
	}
	return 0, false
}

// NameOfResource returns the name of a resource. Passing an id that this
// World did not produce is a programmer error and panics.
func (w *World) NameOfResource(id ResourceID) string {
	if id < 0 || int(id) >= len(w.Resources) {
		panic(fmt.Sprintf("plan: invalid resource id %d", id))
	}
	return w.Resources[id].Name
}

// NameOfRecipe returns the name of a recipe. Passing an id that this World
// did not produce is a programmer error and panics.
func (w *World) NameOfRecipe(id RecipeID) string {
	if id < 0 || int(id) >= len(w.Recipes) {
		panic(fmt.Sprintf("plan: invalid recipe id %d", id))
	}
	return w.Recipes[id].Name
}

// NameOfVariable formats a variable for display, e.g. "Resource Iron Ore" or
// "Recipe Smelt Iron".
func (w *World) NameOfVariable(v VariableID) string {
	switch v.Kind {
	case VariableResource:
		return fmt.Sprintf("Resource %s", w.NameOfResource(v.Resource))
	case VariableRecipe:
		return fmt.Sprintf("Recipe %s", w.NameOfRecipe(v.Recipe))
	default:
		panic(fmt.Sprintf("plan: unknown variable kind %d", v.Kind))
	}
}
