package main

import (
	"fmt"
	"os"

	"github.com/vsinha/chainplan/pkg/interfaces/cli/output"
	"github.com/vsinha/chainplan/pkg/plan"
)

func main() {
	// Build a small iron chain in code: ore is mined, smelted into ingots,
	// and rolled into plates.
	world, err := plan.BuildWorld(
		[]plan.Resource{
			{Name: "Iron Ore"},
			{Name: "Iron Ingot"},
			{Name: "Iron Plate"},
		},
		[]plan.Recipe{
			{
				Name: "Mine Iron",
				Tags: []string{"miner"},
				Rates: []plan.RateEntry{
					{Resource: 0, Rate: 60},
				},
			},
			{
				Name: "Smelt Iron",
				Tags: []string{"smelter"},
				Rates: []plan.RateEntry{
					{Resource: 0, Rate: -30},
					{Resource: 1, Rate: 30},
				},
			},
			{
				Name: "Roll Plate",
				Tags: []string{"constructor"},
				Rates: []plan.RateEntry{
					{Resource: 1, Rate: -30},
					{Resource: 2, Rate: 20},
				},
			},
		},
	)
	if err != nil {
		fmt.Printf("Failed to build world: %v\n", err)
		return
	}

	ore, _ := world.ResourceIDOfName("Iron Ore")
	plate, _ := world.ResourceIDOfName("Iron Plate")
	miner, _ := world.RecipeIDOfName("Mine Iron")

	// At most two miners; plates may accumulate; maximize plate output.
	problem := &plan.Problem{
		Rules: []plan.Rule{
			{Variable: miner.Variable(), Constraint: plan.LessThan(2)},
			{Variable: plate.Variable(), Constraint: plan.GreaterThan(0)},
			{Variable: ore.Variable(), Constraint: plan.EqualTo(0)},
		},
		Optimizations: []plan.Optimization{
			{Variable: plate.Variable(), Coefficient: 1},
		},
	}

	fmt.Println("Solving the iron chain...")
	fmt.Println()

	factory, err := problem.Solve(world)
	if err != nil {
		fmt.Printf("Solve failed: %v\n", err)
		return
	}

	if err := output.Render(os.Stdout, world, factory, output.Config{Format: "text"}); err != nil {
		fmt.Printf("Failed to render plan: %v\n", err)
	}
}
