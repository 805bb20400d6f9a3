package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vsinha/chainplan/pkg/interfaces/cli/commands"
)

func main() {
	// Defaults come from an optional planner.{json,yaml,toml} config file
	// and PLANNER_* environment variables; flags override both.
	v := viper.New()
	v.SetDefault("format", "text")
	v.SetDefault("show_all", false)
	v.SetConfigName("planner")
	v.AddConfigPath(".")
	v.SetEnvPrefix("PLANNER")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Command line flags
	var (
		worldFile = flag.String("world", v.GetString("world"), "Path to world file (JSON or YAML)")
		rulesFile = flag.String("rules", v.GetString("rules"), "Path to rule list file")
		maximize  = flag.String("maximize", v.GetString("maximize"), "Objective: comma-separated variable=coefficient list")
		outFile   = flag.String("out", v.GetString("out"), "Save the solved factory to this file (optional)")
		format    = flag.String("format", v.GetString("format"), "Output format: text, json")
		showAll   = flag.Bool("show-all", v.GetBool("show_all"), "Include untouched resources in the report")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create command configuration
	config := commands.Config{
		WorldFile: *worldFile,
		RulesFile: *rulesFile,
		Maximize:  *maximize,
		OutFile:   *outFile,
		Format:    *format,
		ShowAll:   *showAll,
		Verbose:   *verbose,
		Help:      *help,
	}

	// Create and execute command
	cmd := commands.NewSolveCommand(config, logger.Sugar())
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
