// Package commands implements the planner's command-line operations.
package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/chainplan/pkg/infrastructure/repositories/document"
	"github.com/vsinha/chainplan/pkg/interfaces/cli/output"
	"github.com/vsinha/chainplan/pkg/plan"
)

// Config holds configuration for the solve command.
type Config struct {
	WorldFile string
	RulesFile string
	Maximize  string // comma-separated variable=coefficient list
	OutFile   string
	Format    string
	ShowAll   bool
	Verbose   bool
	Help      bool
}

// SolveCommand loads a world and rule list, solves the resulting problem, and
// renders the plan.
type SolveCommand struct {
	config Config
	logger *zap.SugaredLogger
}

// NewSolveCommand creates a solve command with the given configuration.
func NewSolveCommand(config Config, logger *zap.SugaredLogger) *SolveCommand {
	return &SolveCommand{config: config, logger: logger}
}

// Execute runs the solve command.
func (c *SolveCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.WorldFile == "" {
		return fmt.Errorf("no world file specified (use -world)")
	}

	loader := document.NewLoader()

	world, err := loader.LoadWorld(c.config.WorldFile)
	if err != nil {
		return fmt.Errorf("error loading world: %w", err)
	}
	if c.config.Verbose {
		c.logger.Infow("loaded world",
			"path", c.config.WorldFile,
			"resources", len(world.Resources),
			"recipes", len(world.Recipes))
	}

	problem := &plan.Problem{}

	if c.config.RulesFile != "" {
		rules, err := loader.LoadRuleList(world, c.config.RulesFile)
		if err != nil {
			return fmt.Errorf("error loading rule list: %w", err)
		}
		problem.Rules = rules.Rules
		if c.config.Verbose {
			c.logger.Infow("loaded rule list",
				"path", c.config.RulesFile,
				"rules", len(rules.Rules))
		}
	}

	optimizations, err := parseOptimizations(world, c.config.Maximize)
	if err != nil {
		return fmt.Errorf("invalid -maximize: %w", err)
	}
	problem.Optimizations = optimizations

	start := time.Now()
	factory, err := problem.Solve(world)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	solveTime := time.Since(start)

	if c.config.Verbose {
		c.logger.Infow("solved", "recipes", len(factory.Recipes), "elapsed", solveTime)
	}

	renderConfig := output.Config{
		Format:    c.config.Format,
		ShowAll:   c.config.ShowAll,
		SolveTime: solveTime,
	}
	if err := output.Render(os.Stdout, world, factory, renderConfig); err != nil {
		return fmt.Errorf("error rendering output: %w", err)
	}

	if c.config.OutFile != "" {
		if err := loader.SaveFactory(world, factory, c.config.OutFile); err != nil {
			c.logger.Warnw("failed to save factory", "path", c.config.OutFile, "error", err)
		} else if c.config.Verbose {
			c.logger.Infow("saved factory", "path", c.config.OutFile)
		}
	}

	return nil
}

// parseOptimizations parses a comma-separated list of objective entries. Each
// entry is "name", "name=coefficient", or disambiguated "resource:name" /
// "recipe:name"; a bare name tries resources first, then recipes.
func parseOptimizations(world *plan.World, spec string) ([]plan.Optimization, error) {
	var optimizations []plan.Optimization

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name := entry
		coefficient := 1.0
		if i := strings.LastIndex(entry, "="); i >= 0 {
			var err error
			coefficient, err = strconv.ParseFloat(strings.TrimSpace(entry[i+1:]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid coefficient in %q: %w", entry, err)
			}
			name = strings.TrimSpace(entry[:i])
		}

		variable, err := resolveVariable(world, name)
		if err != nil {
			return nil, err
		}
		optimizations = append(optimizations, plan.Optimization{
			Variable:    variable,
			Coefficient: coefficient,
		})
	}

	return optimizations, nil
}

func resolveVariable(world *plan.World, name string) (plan.VariableID, error) {
	switch {
	case strings.HasPrefix(name, "resource:"):
		id, ok := world.ResourceIDOfName(strings.TrimPrefix(name, "resource:"))
		if !ok {
			return plan.VariableID{}, fmt.Errorf("unknown resource %q", strings.TrimPrefix(name, "resource:"))
		}
		return id.Variable(), nil
	case strings.HasPrefix(name, "recipe:"):
		id, ok := world.RecipeIDOfName(strings.TrimPrefix(name, "recipe:"))
		if !ok {
			return plan.VariableID{}, fmt.Errorf("unknown recipe %q", strings.TrimPrefix(name, "recipe:"))
		}
		return id.Variable(), nil
	default:
		if id, ok := world.ResourceIDOfName(name); ok {
			return id.Variable(), nil
		}
		if id, ok := world.RecipeIDOfName(name); ok {
			return id.Variable(), nil
		}
		return plan.VariableID{}, fmt.Errorf("unknown resource or recipe %q", name)
	}
}

func (c *SolveCommand) showHelp() {
	fmt.Println(`chainplan - linear-programming production planner

Usage:
  planner -world <file> [-rules <file>] [-maximize <spec>] [options]

Files are JSON or YAML, chosen by extension.

Options:
  -world <file>     World catalog: resources and recipes
  -rules <file>     Rule list constraining resource/recipe variables
  -maximize <spec>  Objective, e.g. "Iron Ingot" or "Ingot=1,recipe:Smelt=0.5"
  -out <file>       Save the solved factory to this file
  -format <fmt>     Output format: text, json
  -show-all         Include resources no recipe touches in the report
  -verbose          Log progress
  -config <file>    Config file with defaults (also PLANNER_* env vars)

Examples:
  planner -world world.json -rules rules.json -maximize "Iron Ingot"
  planner -world world.yaml -format json -maximize "recipe:Smelt=2"`)
}
