package evalcmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/verdantlabs/plantid/internal/eval/dataset"
)

// NewDownloadCmd creates the download command for caching dataset images locally
func NewDownloadCmd() *cobra.Command {
	var datasetPath string
	var outputDir string
	var outputDataset string
	var sampleSize int

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download dataset images for offline evaluation runs",
		Long: `Download the image for every dataset item that only carries an image
URL, and write a copy of the dataset pointing at the local files.

Subsequent eval runs against the rewritten dataset read images from disk
instead of refetching them.`,
		Example: `  # Cache images for the first 50 items
  plantid eval download --dataset ./datasets/plants.jsonl --sample 50

  # Cache the full dataset into a custom directory
  plantid eval download --dataset ./datasets/plants.parquet --output ./plant_images --sample -1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}
			return executeDownload(datasetPath, outputDir, outputDataset, sampleSize)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "./datasets/plants.parquet", "Path to dataset file (parquet, jsonl, or yaml)")
	cmd.Flags().StringVar(&outputDir, "output", "./plant_images", "Output directory for downloaded images")
	cmd.Flags().StringVar(&outputDataset, "output-dataset", "./datasets/plants.local.jsonl", "Path to write the rewritten dataset")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of items to process (-1 for all)")

	return cmd
}

func executeDownload(datasetPath, outputDir, outputDataset string, sampleSize int) error {
	items, err := dataset.NewLoader(datasetPath).LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	downloader := dataset.NewDownloader()
	items, err = downloader.DownloadImages(items, outputDir)
	if err != nil {
		return err
	}

	out, err := os.Create(outputDataset)
	if err != nil {
		return fmt.Errorf("failed to create output dataset: %w", err)
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return fmt.Errorf("failed to write output dataset: %w", err)
		}
	}

	fmt.Printf("Downloaded images to %s\n", outputDir)
	fmt.Printf("Rewritten dataset saved to %s\n", outputDataset)
	return nil
}
