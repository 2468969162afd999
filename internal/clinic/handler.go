package clinic

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler exposes clinic settings over HTTP
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a clinic settings handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetSettings handles GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to get clinic settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// UpdateSettings handles PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	settings, err := h.service.Update(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidColor) || errors.Is(err, ErrInvalidEmail) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to update clinic settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func respondError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
