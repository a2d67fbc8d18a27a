// Package identify runs the identification pipeline: a normalized image
// payload is submitted to a multimodal inference provider together with
// a fixed prompt, and the reply is parsed into a structured record.
package identify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/verdantlabs/plantid/internal/config"
	"github.com/verdantlabs/plantid/internal/gemini"
	"github.com/verdantlabs/plantid/internal/models"
	"github.com/verdantlabs/plantid/internal/ollama"
	"github.com/verdantlabs/plantid/internal/openai"
	"github.com/verdantlabs/plantid/internal/parser"
	"github.com/verdantlabs/plantid/internal/providers"
	"github.com/verdantlabs/plantid/internal/source"
)

// Service orchestrates one identification exchange at a time. The
// provider is injected so tests can substitute a fake.
type Service struct {
	provider    providers.Provider
	model       string
	temperature float64
	maxDim      int
}

// NewService returns a Service using the given provider and settings.
func NewService(provider providers.Provider, model string, temperature float64, maxDimension int) *Service {
	return &Service{
		provider:    provider,
		model:       model,
		temperature: temperature,
		maxDim:      maxDimension,
	}
}

// NewServiceFromConfig builds the configured provider and wraps it in a
// Service.
func NewServiceFromConfig(cfg *config.Config) (*Service, error) {
	provider, err := NewProvider(cfg.Provider, cfg)
	if err != nil {
		return nil, err
	}
	return NewService(provider, cfg.ModelFor(cfg.Provider), cfg.Temperature, cfg.MaxImageDimension), nil
}

// NewProvider constructs an inference provider by name.
func NewProvider(name string, cfg *config.Config) (providers.Provider, error) {
	switch name {
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL)
	case "openai":
		return openai.New(cfg.OpenAIAPIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// Model returns the model name requests are submitted with.
func (s *Service) Model() string { return s.model }

// Identify submits one payload and returns the parsed record. Oversized
// images are downscaled before submission. A reply that lacks a
// required field fails with *parser.MalformedResponseError rather than
// producing a partial record.
func (s *Service) Identify(ctx context.Context, payload *source.Payload) (*models.Record, error) {
	submitted := payload.Downscale(s.maxDim)
	if len(submitted.Data) != len(payload.Data) {
		slog.Debug("Downscaled payload before submission",
			"original_bytes", len(payload.Data), "submitted_bytes", len(submitted.Data))
	}

	reply, err := s.provider.Analyze(ctx, providers.Request{
		Model:         s.model,
		Temperature:   s.temperature,
		Prompt:        Prompt,
		ImageData:     submitted.Data,
		ImageMIMEType: submitted.MIMEType,
	})
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	record, err := parser.Parse(reply)
	if err != nil {
		return nil, err
	}

	slog.Info("Identified plant", "name", record.Name, "scientific_name", record.ScientificName, "model", s.model)
	return record, nil
}
