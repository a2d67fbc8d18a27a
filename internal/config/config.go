// Package config reads process-wide configuration from the environment
// once at startup. A missing inference credential is logged as a warning
// here and surfaced as an authentication error on the first call.
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds all runtime settings for the identification pipeline.
type Config struct {
	Provider string // "gemini", "ollama", or "openai"

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	OllamaURL   string
	OllamaModel string

	Temperature float64

	// Images larger than MaxImageDimension on either axis are
	// downscaled before submission.
	MaxImageDimension int
}

// Load reads configuration from environment variables, applying
// defaults for everything optional.
func Load() *Config {
	cfg := &Config{
		Provider:          getEnv("PLANTID_PROVIDER", "gemini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llava:13b"),
		Temperature:       getEnvFloat("PLANTID_TEMPERATURE", 0.4),
		MaxImageDimension: getEnvInt("PLANTID_MAX_IMAGE_DIMENSION", 2000),
	}

	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.Warn("GEMINI_API_KEY not set; identification requests will fail until it is configured")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("OPENAI_API_KEY not set; identification requests will fail until it is configured")
		}
	}

	return cfg
}

// ModelFor returns the configured model name for a provider, falling
// back to the provider defaults.
func (c *Config) ModelFor(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiModel
	case "openai":
		return c.OpenAIModel
	case "ollama":
		return c.OllamaModel
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
