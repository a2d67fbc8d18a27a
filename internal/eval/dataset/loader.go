package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Loader loads an evaluation dataset from disk. Supported formats are
// Parquet, JSONL, and YAML, detected by file extension.
type Loader struct {
	datasetPath string
}

// NewLoader creates a loader for the given dataset file.
func NewLoader(datasetPath string) *Loader {
	return &Loader{datasetPath: datasetPath}
}

// Dir returns the directory containing the dataset file, used to
// resolve relative image paths.
func (l *Loader) Dir() string {
	return filepath.Dir(l.datasetPath)
}

// Load reads all items from the dataset file.
func (l *Loader) Load() ([]Item, error) {
	switch ext := strings.ToLower(filepath.Ext(l.datasetPath)); ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl", ".json":
		return l.loadJSONL()
	case ".yaml", ".yml":
		return l.loadYAML()
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s (supported: .parquet, .jsonl, .yaml)", ext)
	}
}

// LoadSample reads at most limit items; limit <= 0 means all.
func (l *Loader) LoadSample(limit int) ([]Item, error) {
	items, err := l.Load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (l *Loader) loadJSONL() ([]Item, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var items []Item
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item Item
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Loaded JSONL dataset", "path", l.datasetPath, "items", len(items))
	return items, nil
}

func (l *Loader) loadYAML() ([]Item, error) {
	data, err := os.ReadFile(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse YAML dataset: %w", err)
	}

	slog.Debug("Loaded YAML dataset", "path", l.datasetPath, "items", len(items))
	return items, nil
}

func (l *Loader) loadParquet() ([]Item, error) {
	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Item](pf)
	defer reader.Close()

	var items []Item
	rows := make([]Item, 128)
	for {
		n, err := reader.Read(rows)
		if n > 0 {
			items = append(items, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Loaded parquet dataset", "path", l.datasetPath, "items", len(items))
	return items, nil
}
