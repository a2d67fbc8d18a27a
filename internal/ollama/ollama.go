package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/verdantlabs/plantid/internal/providers"
)

// Ollama is a provider backed by a local or remote Ollama server.
type Ollama struct {
	client *api.Client
}

// New returns a new Ollama provider talking to the server at baseURL
// (e.g. "http://localhost:11434").
func New(baseURL string) (*Ollama, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", baseURL, err)
	}

	// Strip any path so paths like /api/chat in the configured URL
	// don't double up.
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}

	return &Ollama{client: api.NewClient(base, http.DefaultClient)}, nil
}

// Analyze submits the prompt and image to the Ollama chat API and
// returns the raw text reply.
func (o *Ollama) Analyze(ctx context.Context, req providers.Request) (string, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model: req.Model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: req.Prompt,
				Images:  []api.ImageData{api.ImageData(req.ImageData)},
			},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}

	var reply string
	err := o.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		reply = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	if reply == "" {
		return "", fmt.Errorf("empty response from ollama")
	}
	return reply, nil
}
