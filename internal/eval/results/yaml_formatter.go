package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verdantlabs/plantid/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier        string             `yaml:"identifier"`
	CommonName        string             `yaml:"commonname"`
	ScientificName    string             `yaml:"scientificname"`
	ProviderResponse  string             `yaml:"providerresponse"`
	IdentifiedCommon  string             `yaml:"identifiedcommon,omitempty"`
	IdentifiedSciName string             `yaml:"identifiedsciname,omitempty"`
	OverallScore      float64            `yaml:"overallscore"`
	FieldScores       map[string]float64 `yaml:"fieldscores,omitempty"`
	ProcessingSeconds float64            `yaml:"processingseconds"`
	Error             string             `yaml:"error,omitempty"`
}

// EvalSpec represents the complete evaluation specification
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves evaluation results to a YAML file in evals/ directory
func SaveToYAML(provider, model, datasetPath string, temperature float64, sampleSize int, results []metrics.EvaluationResult) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    provider,
			Model:       model,
			Temperature: temperature,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Results: make([]EvalResult, 0, len(results)),
	}

	for _, r := range results {
		evalResult := EvalResult{
			Identifier:        r.ItemID,
			CommonName:        r.CommonName,
			ScientificName:    r.ScientificName,
			ProviderResponse:  r.RawResponse,
			ProcessingSeconds: r.ProcessingTime.Seconds(),
			Error:             r.Error,
		}

		if r.Record != nil {
			evalResult.IdentifiedCommon = r.Record.Name
			evalResult.IdentifiedSciName = r.Record.ScientificName
		}

		if r.Comparison != nil {
			evalResult.OverallScore = r.Comparison.OverallScore
			evalResult.FieldScores = r.Comparison.FieldScores
		}

		spec.Results = append(spec.Results, evalResult)
	}

	filename := fmt.Sprintf("evals/%s-%s.yaml", sanitizeFilename(model), timestamp)

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		absPath = filename
	}
	return absPath, nil
}

// LoadFromYAML reads a previously saved evaluation results file.
func LoadFromYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &spec, nil
}

// sanitizeFilename keeps model names like "llava:13b" filesystem safe.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ':', '/', '\\', ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
