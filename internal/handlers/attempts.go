package handlers

import (
	"net/http"
	"strings"
)

// HandleAttempts returns retained attempts, newest first.
func (h *Handler) HandleAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.store.History())
}

// HandleAttemptDetail returns one attempt by ID, or the latest attempt
// for the reserved ID "latest". The latest attempt is what the UI polls
// while an identification is in flight.
func (h *Handler) HandleAttemptDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/attempts/")
	if id == "latest" {
		h.writeJSON(w, h.store.Latest())
		return
	}

	attempt, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, "Attempt not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, attempt)
}
