package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/verdantlabs/plantid/internal/eval/results"
)

// NewReportCmd creates the report command for inspecting saved eval results
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a detailed report from saved evaluation results",
		Example: `  # Text report
  plantid eval report --results evals/gemini-2.0-flash-2026-08-30_10-00-00.yaml

  # CSV for a spreadsheet
  plantid eval report --results evals/llava-13b-2026-08-30_10-00-00.yaml --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resultsPath == "" {
				return fmt.Errorf("--results is required")
			}
			return executeReport(resultsPath, format)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to a saved results YAML file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, or csv)")

	_ = cmd.MarkFlagRequired("results")
	return cmd
}

func executeReport(resultsPath, format string) error {
	spec, err := results.LoadFromYAML(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(spec)
	case "json":
		return printJSONReport(spec)
	case "csv":
		return printCSVReport(spec)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(spec *results.EvalSpec) error {
	fmt.Println("========================================")
	fmt.Println("Plant Identification Evaluation Report")
	fmt.Println("========================================")
	fmt.Printf("Provider: %s\n", spec.Config.Provider)
	fmt.Printf("Model:    %s\n", spec.Config.Model)
	fmt.Printf("Dataset:  %s\n", spec.Config.DatasetPath)
	fmt.Printf("Items:    %d\n", spec.Config.SampleSize)
	fmt.Println()

	fmt.Println("Detailed Results:")
	fmt.Println("========================================")

	for i, result := range spec.Results {
		fmt.Printf("\n[%d] Item ID: %s\n", i+1, result.Identifier)
		fmt.Printf("  Expected:   %s (%s)\n", result.CommonName, result.ScientificName)

		if result.Error != "" {
			fmt.Printf("  Error: %s\n", result.Error)
			continue
		}

		fmt.Printf("  Identified: %s (%s)\n", result.IdentifiedCommon, result.IdentifiedSciName)
		fmt.Printf("  Overall Score: %.2f%%\n", result.OverallScore*100)

		if len(result.FieldScores) > 0 {
			fmt.Println("  Field Scores:")
			var fields []string
			for field := range result.FieldScores {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Printf("    %s: %.2f%%\n", field, result.FieldScores[field]*100)
			}
		}

		// Show the raw reply when the score is poor, to make parser and
		// prompt failures easy to spot.
		if result.OverallScore < 0.5 {
			fmt.Printf("  Raw Response:\n    %s\n", truncate(result.ProviderResponse, 200))
		}
	}

	return nil
}

func printJSONReport(spec *results.EvalSpec) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(spec)
}

func printCSVReport(spec *results.EvalSpec) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	header := []string{
		"ID", "Expected Common", "Expected Scientific",
		"Identified Common", "Identified Scientific",
		"Overall Score", "Common Score", "Scientific Score", "Alternative Score",
		"Seconds", "Error",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range spec.Results {
		row := []string{
			result.Identifier,
			result.CommonName,
			result.ScientificName,
			result.IdentifiedCommon,
			result.IdentifiedSciName,
			fmt.Sprintf("%.4f", result.OverallScore),
			fieldScore(result.FieldScores, "common_name"),
			fieldScore(result.FieldScores, "scientific_name"),
			fieldScore(result.FieldScores, "alternative_name"),
			fmt.Sprintf("%.2f", result.ProcessingSeconds),
			result.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func fieldScore(scores map[string]float64, key string) string {
	score, ok := scores[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.4f", score)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
