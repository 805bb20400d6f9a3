package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetResources_Breakdown(t *testing.T) {
	world, err := BuildWorld(
		[]Resource{
			{Name: "Ore"},
			{Name: "Ingot"},
			{Name: "Coal"},
		},
		[]Recipe{
			{
				Name: "Smelt",
				Rates: []RateEntry{
					{Resource: 0, Rate: -30},
					{Resource: 1, Rate: 30},
				},
			},
			{
				Name: "Coal Smelt",
				Rates: []RateEntry{
					{Resource: 0, Rate: -15},
					{Resource: 2, Rate: -15},
					{Resource: 1, Rate: 15},
				},
			},
		},
	)
	require.NoError(t, err)

	factory := &Factory{Recipes: []RecipeRate{
		{Recipe: 0, Rate: 2},
		{Recipe: 1, Rate: 1},
	}}

	net := factory.NetResources(world)
	require.Len(t, net.Resources, 3)

	ore := net.Resources[0]
	assert.InDelta(t, -75, ore.Net, 1e-9)
	require.Len(t, ore.Contributions, 2)
	assert.Equal(t, RecipeRate{Recipe: 0, Rate: -60}, ore.Contributions[0])
	assert.Equal(t, RecipeRate{Recipe: 1, Rate: -15}, ore.Contributions[1])

	ingot := net.Resources[1]
	assert.InDelta(t, 75, ingot.Net, 1e-9)
	require.Len(t, ingot.Contributions, 2)

	coal := net.Resources[2]
	assert.InDelta(t, -15, coal.Net, 1e-9)
	require.Len(t, coal.Contributions, 1)
}

func TestNetResources_UntouchedResourceKeptEmpty(t *testing.T) {
	world, err := BuildWorld(
		[]Resource{{Name: "Ore"}, {Name: "Water"}},
		[]Recipe{{
			Name:  "Mine",
			Rates: []RateEntry{{Resource: 0, Rate: 60}},
		}},
	)
	require.NoError(t, err)

	factory := &Factory{Recipes: []RecipeRate{{Recipe: 0, Rate: 1}}}
	net := factory.NetResources(world)

	// No filtering: water stays in the report with a zero net and no
	// contributions.
	require.Len(t, net.Resources, 2)
	assert.Zero(t, net.Resources[1].Net)
	assert.Empty(t, net.Resources[1].Contributions)
}

func TestNetResources_EmptyFactory(t *testing.T) {
	world := testWorld(t)

	net := (&Factory{}).NetResources(world)
	require.Len(t, net.Resources, len(world.Resources))
	for _, flow := range net.Resources {
		assert.Zero(t, flow.Net)
		assert.Empty(t, flow.Contributions)
	}
}

func TestNetResources_Idempotent(t *testing.T) {
	world := testWorld(t)
	factory := &Factory{Recipes: []RecipeRate{{Recipe: 0, Rate: 1.5}}}

	first := factory.NetResources(world)
	second := factory.NetResources(world)
	assert.Equal(t, first, second)
}
