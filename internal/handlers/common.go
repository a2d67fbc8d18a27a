package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/verdantlabs/plantid/internal/models"
	"github.com/verdantlabs/plantid/internal/source"
	"github.com/verdantlabs/plantid/internal/storage"
)

// previewLimit caps the thumbnail data URL embedded in attempt state so
// polling responses stay small.
const previewLimit = 256 * 1024

// Identifier runs one identification exchange. *identify.Service
// implements it; tests substitute a fake.
type Identifier interface {
	Identify(ctx context.Context, payload *source.Payload) (*models.Record, error)
}

type Handler struct {
	store      *storage.AttemptStore
	identifier Identifier
	provider   string
	model      string
}

// New returns a Handler running identifications through the given
// identifier.
func New(identifier Identifier, provider, model string) *Handler {
	return &Handler{
		store:      storage.New(),
		identifier: identifier,
		provider:   provider,
		model:      model,
	}
}

// beginIdentification starts an attempt for the payload and runs the
// pipeline in the background. The attempt store discards outcomes of
// superseded attempts, so a slow response can never overwrite a newer
// one.
func (h *Handler) beginIdentification(payload *source.Payload) *models.Attempt {
	preview := payload.Preview
	if len(preview) > previewLimit {
		preview = ""
	}

	attempt, token := h.store.Begin(preview, h.provider, h.model)
	slog.Info("Identification started", "attempt_id", attempt.ID, "provider", h.provider, "model", h.model)

	go func() {
		record, err := h.identifier.Identify(context.Background(), payload)
		if err != nil {
			slog.Error("Identification failed", "attempt_id", attempt.ID, "err", err)
			h.store.Fail(token, err.Error())
			return
		}
		if !h.store.Resolve(token, record) {
			slog.Debug("Discarded stale identification response", "attempt_id", attempt.ID)
		}
	}()

	return attempt
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
