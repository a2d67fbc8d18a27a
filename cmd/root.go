package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plantid",
		Short: "Plant identification tool powered by multimodal LLMs",
		Long: `Plantid identifies houseplants and garden plants from photos using
vision-capable LLMs.

Point it at an image file, a URL, or a webcam and it returns the plant's
common name, scientific name, and a short description. It also ships a
web interface and an evaluation harness for measuring identification
accuracy against labeled datasets.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newIdentifyCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
