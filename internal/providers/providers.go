package providers

import (
	"context"
)

// Request carries one inference exchange: a fixed prompt plus a single
// inline image. No user-supplied text is ever injected into the prompt.
type Request struct {
	Model       string
	Temperature float64
	Prompt      string

	// Inline image payload submitted alongside the prompt.
	ImageData     []byte
	ImageMIMEType string
}

// Provider defines the interface for a multimodal inference provider.
// Implementations submit the request and return the model's raw text
// reply without interpreting it.
type Provider interface {
	Analyze(ctx context.Context, req Request) (string, error)
}
