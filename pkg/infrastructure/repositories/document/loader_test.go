package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/chainplan/pkg/plan"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const worldJSON = `{
  "resources": ["Iron Ore", "Iron Ingot"],
  "recipes": [
    {
      "name": "Smelt Iron",
      "tags": ["smelter"],
      "per_minute": 30,
      "rates": [["Iron Ore", -1], ["Iron Ingot", 1]]
    }
  ]
}`

func TestLoadWorld_JSON(t *testing.T) {
	loader := NewLoader()

	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	require.Len(t, world.Resources, 2)
	require.Len(t, world.Recipes, 1)

	smelt := world.Recipes[0]
	assert.Equal(t, "Smelt Iron", smelt.Name)
	assert.Equal(t, []string{"smelter"}, smelt.Tags)

	// Raw rates are scaled by the per-minute multiplier at load time.
	ore, _ := world.ResourceIDOfName("Iron Ore")
	ingot, _ := world.ResourceIDOfName("Iron Ingot")
	require.Len(t, smelt.Rates, 2)
	assert.Equal(t, plan.RateEntry{Resource: ore, Rate: -30}, smelt.Rates[0])
	assert.Equal(t, plan.RateEntry{Resource: ingot, Rate: 30}, smelt.Rates[1])
}

func TestLoadWorld_YAML(t *testing.T) {
	loader := NewLoader()

	path := writeFile(t, "world.yaml", `
resources:
  - Iron Ore
  - Iron Ingot
recipes:
  - name: Smelt Iron
    per_minute: 30
    rates:
      - [Iron Ore, -1]
      - [Iron Ingot, 1]
`)

	world, err := loader.LoadWorld(path)
	require.NoError(t, err)
	require.Len(t, world.Recipes, 1)
	assert.InDelta(t, -30, world.Recipes[0].Rates[0].Rate, 1e-9)
}

func TestLoadWorld_UnknownResource(t *testing.T) {
	loader := NewLoader()

	path := writeFile(t, "world.json", `{
  "resources": ["Iron Ore"],
  "recipes": [
    {"name": "Smelt Iron", "per_minute": 30, "rates": [["Copper Ore", -1]]}
  ]
}`)

	_, err := loader.LoadWorld(path)
	require.Error(t, err)

	var unknown *UnknownResourceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Smelt Iron", unknown.RecipeName)
	assert.Equal(t, "Copper Ore", unknown.ResourceName)
}

func TestLoadWorld_InvalidDocument(t *testing.T) {
	loader := NewLoader()

	// No resources at all fails validation before any name resolution.
	path := writeFile(t, "world.json", `{"resources": [], "recipes": []}`)
	_, err := loader.LoadWorld(path)
	assert.Error(t, err)
}

func TestLoadWorld_MissingFile(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadWorld(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestRuleList_RoundTrip(t *testing.T) {
	loader := NewLoader()
	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	ore, _ := world.ResourceIDOfName("Iron Ore")
	smelt, _ := world.RecipeIDOfName("Smelt Iron")

	list := &plan.RuleList{Rules: []plan.Rule{
		{Variable: ore.Variable(), Constraint: plan.GreaterThan(-60)},
		{Variable: smelt.Variable(), Constraint: plan.LessThan(4)},
		{Variable: ore.Variable(), Constraint: plan.NoConstraint()},
	}}

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, loader.SaveRuleList(world, list, path))

	loaded, err := loader.LoadRuleList(world, path)
	require.NoError(t, err)
	assert.Equal(t, list.Rules, loaded.Rules)
}

func TestLoadRuleList_UnknownName(t *testing.T) {
	loader := NewLoader()
	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	path := writeFile(t, "rules.json", `{
  "rules": [
    {"kind": "resource", "name": "Copper Ore", "constraint": {"op": "equal", "threshold": 0}}
  ]
}`)

	_, err = loader.LoadRuleList(world, path)
	require.Error(t, err)

	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "resource", unknown.Kind)
	assert.Equal(t, "Copper Ore", unknown.Name)
}

func TestLoadRuleList_MissingThreshold(t *testing.T) {
	loader := NewLoader()
	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	path := writeFile(t, "rules.json", `{
  "rules": [
    {"kind": "resource", "name": "Iron Ore", "constraint": {"op": "less"}}
  ]
}`)

	_, err = loader.LoadRuleList(world, path)
	assert.Error(t, err)
}

func TestFactory_RoundTrip(t *testing.T) {
	loader := NewLoader()
	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	smelt, _ := world.RecipeIDOfName("Smelt Iron")
	factory := &plan.Factory{Recipes: []plan.RecipeRate{{Recipe: smelt, Rate: 2.5}}}

	path := filepath.Join(t.TempDir(), "factory.json")
	require.NoError(t, loader.SaveFactory(world, factory, path))

	loaded, err := loader.LoadFactory(world, path)
	require.NoError(t, err)
	assert.Equal(t, factory.Recipes, loaded.Recipes)
}

func TestLoadFactory_UnknownRecipe(t *testing.T) {
	loader := NewLoader()
	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	path := writeFile(t, "factory.json", `{"recipes": [["Transmute", 1]]}`)

	_, err = loader.LoadFactory(world, path)
	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "recipe", unknown.Kind)
}

func TestFactory_RoundTripYAML(t *testing.T) {
	loader := NewLoader()
	world, err := loader.LoadWorld(writeFile(t, "world.json", worldJSON))
	require.NoError(t, err)

	smelt, _ := world.RecipeIDOfName("Smelt Iron")
	factory := &plan.Factory{Recipes: []plan.RecipeRate{{Recipe: smelt, Rate: 2}}}

	path := filepath.Join(t.TempDir(), "factory.yaml")
	require.NoError(t, loader.SaveFactory(world, factory, path))

	loaded, err := loader.LoadFactory(world, path)
	require.NoError(t, err)
	assert.Equal(t, factory.Recipes, loaded.Recipes)
}
