package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nestegg/nestegg/internal/calculation"
	"github.com/nestegg/nestegg/internal/config"
	"github.com/nestegg/nestegg/internal/output"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [plan file]",
		Short: "Run a net worth projection from a plan file",
		Long: `Loads a YAML plan file (profile, accounts, scenarios), runs the
projection for the chosen scenario, and prints the result.

Use --format to choose the output format and --output to also write it
to a timestamped file.`,
		Args: cobra.ExactArgs(1),
		RunE: runProject,
	}
	cmd.Flags().String("scenario", "", "scenario name (defaults to the plan's default scenario)")
	cmd.Flags().String("format", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().Int("start-year", 0, "first projection year (defaults to the current year)")
	cmd.Flags().Int("end-year", 0, "last projection year (defaults to start + 60)")
	cmd.Flags().Bool("output", false, "write the result to a timestamped file as well")
	return cmd
}

func runProject(cmd *cobra.Command, args []string) error {
	scenarioName, _ := cmd.Flags().GetString("scenario")
	formatName, _ := cmd.Flags().GetString("format")
	startYear, _ := cmd.Flags().GetInt("start-year")
	endYear, _ := cmd.Flags().GetInt("end-year")
	toFile, _ := cmd.Flags().GetBool("output")

	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: %s)",
			formatName, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	parser := config.NewPlanParser()
	plan, err := parser.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	scenario := plan.DefaultScenario()
	if scenarioName != "" {
		scenario = nil
		for i := range plan.Scenarios {
			if plan.Scenarios[i].Name == scenarioName {
				scenario = &plan.Scenarios[i]
				break
			}
		}
	}
	if scenario == nil {
		return fmt.Errorf("scenario %q not found in plan", scenarioName)
	}

	if startYear == 0 {
		startYear = time.Now().Year()
	}
	if endYear == 0 {
		endYear = startYear + 60
	}

	engine := calculation.NewProjectionEngine()
	engine.SetLogger(calculation.SlogLogger{L: slog.Default()})

	result, err := engine.Project(cmd.Context(), scenario, &plan.Profile, plan.Accounts, startYear, endYear)
	if err != nil {
		return fmt.Errorf("projection failed: %w", err)
	}

	data, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return err
	}

	if toFile {
		ext := output.NormalizeFormatName(formatName)
		if ext == "console" {
			ext = "txt"
		}
		name, err := output.WriteFormatted(formatter, result, ext)
		if err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		slog.Info("wrote projection", "file", name)
	}
	return nil
}
