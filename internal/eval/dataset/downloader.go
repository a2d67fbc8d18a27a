package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Downloader fetches dataset item images so evaluation runs can work
// offline.
type Downloader struct {
	HTTPClient *http.Client
}

// NewDownloader creates a new image downloader
func NewDownloader() *Downloader {
	return &Downloader{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DownloadImages fetches the image for every item that has an ImageURL
// and no local copy yet, storing them under outputDir named by item ID.
// It returns the items rewritten to point at the local files.
func (d *Downloader) DownloadImages(items []Item, outputDir string) ([]Item, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	downloaded := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ImageURL == "" || item.ImagePath != "" {
			downloaded = append(downloaded, item)
			continue
		}

		// Absolute paths survive the rewritten dataset being loaded
		// from a different directory.
		path, err := filepath.Abs(filepath.Join(outputDir, item.ID+".jpg"))
		if err != nil {
			path = filepath.Join(outputDir, item.ID+".jpg")
		}
		if _, err := os.Stat(path); err == nil {
			slog.Debug("Image already downloaded", "id", item.ID, "path", path)
			item.ImagePath = path
			downloaded = append(downloaded, item)
			continue
		}

		if err := d.downloadImage(item.ImageURL, path); err != nil {
			slog.Warn("Failed to download image", "id", item.ID, "url", item.ImageURL, "err", err)
			downloaded = append(downloaded, item)
			continue
		}

		slog.Info("Downloaded image", "id", item.ID, "path", path)
		item.ImagePath = path
		downloaded = append(downloaded, item)
	}

	return downloaded, nil
}

func (d *Downloader) downloadImage(imageURL, path string) error {
	resp, err := d.HTTPClient.Get(imageURL)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write image: %w", err)
	}

	return nil
}
