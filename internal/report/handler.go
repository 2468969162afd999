package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinicore/patient-management-service/internal/auth"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

// ReportBundle is the list response for reports
type ReportBundle struct {
	Reports    []*Report       `json:"reports"`
	Pagination pagination.Meta `json:"pagination"`
}

// Handler exposes report generation and retrieval over HTTP
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a report handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateReport handles POST /api/reports
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	requestedBy := ""
	if pr, ok := auth.FromContext(r.Context()); ok {
		requestedBy = pr.UserID
	}

	rep, err := h.service.Generate(r.Context(), req, requestedBy)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidFormat):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, ErrGenerationFailed):
			respondError(w, http.StatusInternalServerError, "generation_failed", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "Failed to generate report")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rep)
}

// ListReports handles GET /api/reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	filters := Filters{
		Status:     r.URL.Query().Get("status"),
		ReportType: r.URL.Query().Get("report_type"),
	}
	if r.URL.Query().Get("mine") == "true" {
		if pr, ok := auth.FromContext(r.Context()); ok {
			filters.RequestedBy = pr.UserID
		}
	}
	params := pagination.ParseParams(r)

	result, err := h.service.List(r.Context(), filters, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportBundle{
		Reports:    result.Reports,
		Pagination: result.Pagination,
	})
}

// GetReport handles GET /api/reports/{id}
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rep, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to get report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

// DownloadReport handles GET /api/reports/{id}/download
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	download, err := h.service.Download(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrReportNotFound):
			respondError(w, http.StatusNotFound, "not_found", "Report not found")
		case errors.Is(err, ErrReportNotReady):
			respondError(w, http.StatusConflict, "invalid_state", "Report has no payload to download")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "Failed to download report")
		}
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, download.Filename))
	w.Write(download.Payload)
}

// DeleteReport handles DELETE /api/reports/{id}
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOptions handles GET /api/reports/options
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Options())
}

func respondError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
