package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ChatRequest is the body of the AI chat endpoint
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// Handler exposes the assistant over HTTP
type Handler struct {
	service ServiceInterface
}

// NewHandler creates an assistant handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Chat handles POST /api/ai-chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	answer, err := h.service.Ask(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			respondError(w, http.StatusBadRequest, "validation_error", "Prompt is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to answer prompt")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(answer)
}

func respondError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
