package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nestegg/nestegg/internal/config"
)

func exampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example plan file",
		Long:  `Writes a complete example plan (profile, accounts, scenario) to use as a starting point.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			filename := "plan.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			parser := config.NewPlanParser()
			if err := parser.WriteExamplePlan(filename); err != nil {
				return fmt.Errorf("failed to write example plan: %w", err)
			}
			fmt.Printf("wrote %s\n", filename)
			return nil
		},
	}
	return cmd
}
