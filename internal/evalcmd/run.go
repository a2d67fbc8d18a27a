package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/verdantlabs/plantid/internal/config"
	"github.com/verdantlabs/plantid/internal/eval/dataset"
	"github.com/verdantlabs/plantid/internal/eval/metrics"
	"github.com/verdantlabs/plantid/internal/eval/results"
	"github.com/verdantlabs/plantid/internal/identify"
	"github.com/verdantlabs/plantid/internal/parser"
	"github.com/verdantlabs/plantid/internal/providers"
	"github.com/verdantlabs/plantid/internal/source"
)

// NewRunCmd creates the run command for evaluating identification accuracy
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var provider string
	var model string
	var sampleSize int
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run identification accuracy evaluation against a labeled dataset",
		Long: `Run each dataset image through the identification pipeline and score
the parsed fields against the dataset's ground truth names.

Datasets can be parquet, JSONL, or YAML files; each item carries a local
image path or an image URL plus the expected common, alternative, and
scientific names.`,
		Example: `  # Evaluate 10 items with the default provider
  plantid eval run --dataset ./datasets/houseplants.parquet --sample 10

  # Evaluate the full dataset with Ollama
  plantid eval run --dataset ./datasets/houseplants.jsonl --provider ollama --sample -1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}
			return executeRun(cmd.Context(), datasetPath, provider, model, sampleSize, concurrency)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "./datasets/plants.parquet", "Path to dataset file (parquet, jsonl, or yaml)")
	cmd.Flags().StringVar(&provider, "provider", "", "Inference provider (gemini, ollama, or openai; defaults to configured provider)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's configured model)")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of items to evaluate (-1 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 3, "Number of items to process in parallel")

	return cmd
}

func executeRun(ctx context.Context, datasetPath, providerName, model string, sampleSize, concurrency int) error {
	cfg := config.Load()
	if providerName == "" {
		providerName = cfg.Provider
	}
	if model == "" {
		model = cfg.ModelFor(providerName)
	}

	slog.Info("Starting evaluation run", "dataset", datasetPath, "provider", providerName, "model", model)

	loader := dataset.NewLoader(datasetPath)
	items, err := loader.LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "items", len(items))

	provider, err := identify.NewProvider(providerName, cfg)
	if err != nil {
		return err
	}

	slog.Info("Processing items", "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan metrics.EvaluationResult, len(items))

	for i, item := range items {
		wg.Add(1)
		go func(idx int, item dataset.Item) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing item", "id", item.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(items)))

			resultsChan <- processItem(ctx, item, loader.Dir(), provider, model, cfg)
		}(i, item)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	evalResults := make([]metrics.EvaluationResult, 0, len(items))
	for result := range resultsChan {
		evalResults = append(evalResults, result)
	}
	sort.Slice(evalResults, func(i, j int) bool { return evalResults[i].ItemID < evalResults[j].ItemID })

	agg := metrics.AggregateEvaluationResults(evalResults, providerName, model)
	printSummary(agg)

	path, err := results.SaveToYAML(providerName, model, datasetPath, cfg.Temperature, len(evalResults), evalResults)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	fmt.Printf("\nResults saved to: %s\n", path)
	fmt.Printf("\nGenerate detailed report with:\n")
	fmt.Printf("  plantid eval report --results %s\n", path)

	return nil
}

func processItem(ctx context.Context, item dataset.Item, datasetDir string, provider providers.Provider, model string, cfg *config.Config) metrics.EvaluationResult {
	result := metrics.EvaluationResult{
		ItemID:         item.ID,
		CommonName:     item.CommonName,
		ScientificName: item.ScientificName,
	}

	payload, err := loadItemPayload(item, datasetDir)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load image: %v", err)
		return result
	}
	payload = payload.Downscale(cfg.MaxImageDimension)

	start := time.Now()
	reply, err := provider.Analyze(ctx, providers.Request{
		Model:         model,
		Temperature:   cfg.Temperature,
		Prompt:        identify.Prompt,
		ImageData:     payload.Data,
		ImageMIMEType: payload.MIMEType,
	})
	result.ProcessingTime = time.Since(start)
	if err != nil {
		result.Error = fmt.Sprintf("inference failed: %v", err)
		return result
	}
	result.RawResponse = reply

	// Lenient parsing: a reply missing a field still gets scored on the
	// fields it did produce.
	record := parser.ParseLenient(reply)
	result.Record = record
	result.Comparison = metrics.CompareRecord(record, item)

	return result
}

func loadItemPayload(item dataset.Item, datasetDir string) (*source.Payload, error) {
	if item.ImagePath != "" {
		return source.FromFile(item.ResolveImagePath(datasetDir))
	}
	if item.ImageURL != "" {
		return source.FromURL(item.ImageURL)
	}
	return nil, fmt.Errorf("item %s has no image path or URL", item.ID)
}

func printSummary(agg *metrics.AggregateResults) {
	fmt.Println("\n========================================")
	fmt.Println("Evaluation Summary")
	fmt.Println("========================================")
	fmt.Printf("Total Items:        %d\n", agg.TotalRecords)
	fmt.Printf("Successful:         %d\n", agg.SuccessCount)
	fmt.Printf("Failed:             %d\n", agg.FailureCount)
	fmt.Println()
	fmt.Printf("Overall Accuracy:   %.2f%%\n", agg.OverallAccuracy*100)
	fmt.Println()
	fmt.Println("Field Accuracies:")
	printFieldStats("Common Name", agg.CommonNameAccuracy)
	printFieldStats("Scientific Name", agg.ScientificNameAccuracy)
	printFieldStats("Alternative Name", agg.AlternativeNameAccuracy)
	fmt.Println()
	fmt.Printf("Avg Time Per Item:  %s\n", agg.AverageProcessingTime.Round(time.Millisecond))
	fmt.Printf("Total Time:         %s\n", agg.TotalProcessingTime.Round(time.Millisecond))
	fmt.Println("========================================")
}

func printFieldStats(name string, stats metrics.FieldStats) {
	scored := len(stats.Scores)
	if scored == 0 {
		fmt.Printf("  %-17s no ground truth\n", name+":")
		return
	}
	fmt.Printf("  %-17s %.2f%% (%d exact, %d fuzzy, %d wrong, %d missing)\n",
		name+":", stats.AverageScore*100,
		stats.ExactMatches, stats.FuzzyMatches, stats.NoMatches, stats.MissingFields)
}
