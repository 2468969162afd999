package practitioner

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/patient-management-service/internal/fhir"
	"github.com/clinicore/patient-management-service/internal/pagination"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// PractitionerBundle is the paginated list response in FHIR shape
type PractitionerBundle struct {
	Practitioners []fhir.Practitioner `json:"practitioners"`
	Pagination    pagination.Meta     `json:"pagination"`
}

func toBundle(result *PaginatedPractitioners) PractitionerBundle {
	bundle := PractitionerBundle{
		Practitioners: make([]fhir.Practitioner, 0, len(result.Practitioners)),
		Pagination:    result.Pagination,
	}
	for i := range result.Practitioners {
		bundle.Practitioners = append(bundle.Practitioners, *ToFHIR(&result.Practitioners[i]))
	}
	return bundle
}

func (h *Handler) CreatePractitioner(w http.ResponseWriter, r *http.Request) {
	var res fhir.Practitioner
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	p, err := FromFHIR(&res)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		if errors.Is(err, ErrNPITaken) {
			respondError(w, http.StatusConflict, "duplicate_npi", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToFHIR(created))
}

func (h *Handler) ListPractitioners(w http.ResponseWriter, r *http.Request) {
	var f Filters
	if activeStr := r.URL.Query().Get("active"); activeStr != "" {
		active := activeStr == "true"
		f.Active = &active
	}
	f.Specialization = r.URL.Query().Get("specialization")
	f.Name = r.URL.Query().Get("name")

	params := pagination.ParseParams(r)

	result, err := h.service.List(r.Context(), f, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBundle(result))
}

func (h *Handler) SearchPractitioners(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Query parameter q is required")
		return
	}

	params := pagination.ParseParams(r)

	result, err := h.service.Search(r.Context(), query, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "search_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBundle(result))
}

func (h *Handler) GetPractitioner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Practitioner not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(p))
}

func (h *Handler) UpdatePractitioner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var res fhir.Practitioner
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	p, err := FromFHIR(&res)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	p.ID = id

	updated, err := h.service.Update(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, ErrPractitionerNotFound):
			respondError(w, http.StatusNotFound, "not_found", "Practitioner not found")
		case errors.Is(err, ErrNPITaken):
			respondError(w, http.StatusConflict, "duplicate_npi", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

func (h *Handler) DeletePractitioner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPractitionerNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Practitioner not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "deletion_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Practitioner deleted successfully",
	})
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
