// Package output renders solved factories and their net-resource reports for
// the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/chainplan/pkg/plan"
)

// Config holds configuration for report rendering.
type Config struct {
	Format    string // "text" or "json"
	ShowAll   bool   // include resources with no contributing recipes
	SolveTime time.Duration
}

// Render writes the factory and its derived net-resource report.
func Render(w io.Writer, world *plan.World, factory *plan.Factory, config Config) error {
	net := factory.NetResources(world)

	switch config.Format {
	case "", "text":
		return renderText(w, world, factory, net, config)
	case "json":
		return renderJSON(w, world, factory, net, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func renderText(w io.Writer, world *plan.World, factory *plan.Factory, net *plan.NetResources, config Config) error {
	fmt.Fprintf(w, "Production Plan\n")
	fmt.Fprintf(w, "===============\n\n")

	if config.SolveTime > 0 {
		fmt.Fprintf(w, "Solve Time: %v\n\n", config.SolveTime)
	}

	fmt.Fprintf(w, "Recipes:\n")
	fmt.Fprintf(w, "%-30s %12s\n", "Recipe", "Throughput")
	fmt.Fprintf(w, "%-30s %12s\n", "------------------------------", "------------")
	for _, entry := range factory.Recipes {
		fmt.Fprintf(w, "%-30s %12s\n",
			world.NameOfRecipe(entry.Recipe),
			formatRate(entry.Rate))
	}

	fmt.Fprintf(w, "\nNet Resources:\n")
	fmt.Fprintf(w, "%-30s %12s\n", "Resource", "Net/min")
	fmt.Fprintf(w, "%-30s %12s\n", "------------------------------", "------------")
	for i, flow := range net.Resources {
		if !config.ShowAll && len(flow.Contributions) == 0 {
			continue
		}
		fmt.Fprintf(w, "%-30s %12s\n",
			world.NameOfResource(plan.ResourceID(i)),
			formatRate(flow.Net))
		for _, contribution := range flow.Contributions {
			fmt.Fprintf(w, "  %-28s %12s\n",
				world.NameOfRecipe(contribution.Recipe),
				formatRate(contribution.Rate))
		}
	}

	return nil
}

type jsonReport struct {
	Recipes   []jsonRecipe   `json:"recipes"`
	Resources []jsonResource `json:"resources"`
}

type jsonRecipe struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type jsonResource struct {
	Name          string       `json:"name"`
	Net           float64      `json:"net"`
	Contributions []jsonRecipe `json:"contributions,omitempty"`
}

func renderJSON(w io.Writer, world *plan.World, factory *plan.Factory, net *plan.NetResources, config Config) error {
	report := jsonReport{}
	for _, entry := range factory.Recipes {
		report.Recipes = append(report.Recipes, jsonRecipe{
			Name: world.NameOfRecipe(entry.Recipe),
			Rate: entry.Rate,
		})
	}
	for i, flow := range net.Resources {
		if !config.ShowAll && len(flow.Contributions) == 0 {
			continue
		}
		resource := jsonResource{
			Name: world.NameOfResource(plan.ResourceID(i)),
			Net:  flow.Net,
		}
		for _, contribution := range flow.Contributions {
			resource.Contributions = append(resource.Contributions, jsonRecipe{
				Name: world.NameOfRecipe(contribution.Recipe),
				Rate: contribution.Rate,
			})
		}
		report.Resources = append(report.Resources, resource)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// formatRate renders a rate without trailing float noise, e.g. "2" and
// "-62.5" rather than "2.000000".
func formatRate(rate float64) string {
	return decimal.NewFromFloat(rate).Round(6).String()
}
