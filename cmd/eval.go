package cmd

import (
	"github.com/spf13/cobra"
	"github.com/verdantlabs/plantid/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Identification accuracy evaluation tools",
		Long: `Evaluation tools for measuring the accuracy of LLM-based plant
identification.

Supports running labeled datasets through the identification pipeline,
scoring the results against ground truth names, and generating detailed
comparison reports.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())
	cmd.AddCommand(evalcmd.NewDownloadCmd())

	return cmd
}
