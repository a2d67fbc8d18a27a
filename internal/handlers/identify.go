package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/verdantlabs/plantid/internal/source"
)

// HandleIdentify accepts a plant image as a multipart file upload or as
// a JSON body with an image URL, and starts an identification attempt.
// The attempt is returned immediately; clients poll the attempts
// endpoint for the outcome.
func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		h.handleURLIdentify(w, r)
		return
	}
	h.handleFileIdentify(w, r)
}

func (h *Handler) handleURLIdentify(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	payload, err := source.FromURL(request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to fetch image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.beginIdentification(payload))
}

func (h *Handler) handleFileIdentify(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := source.FromReader(file, header.Filename)
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.beginIdentification(payload))
}

// HandleCapture accepts a single camera frame exported by the browser
// as a data URL. The browser owns the camera hardware and stops its
// tracks the moment the frame is captured; the server only receives the
// finished frame.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Frame string `json:"frame"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Frame == "" {
		h.writeError(w, "frame is required", http.StatusBadRequest)
		return
	}

	payload, err := source.FromDataURL(request.Frame)
	if err != nil {
		h.writeError(w, "Invalid frame data: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.beginIdentification(payload))
}
