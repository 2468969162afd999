package clinicalrecord

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinicore/patient-management-service/internal/fhir"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

// RecordBundle is the list response for clinical records
type RecordBundle struct {
	Records    []interface{}   `json:"records"`
	Pagination pagination.Meta `json:"pagination"`
}

// Handler exposes clinical records over HTTP
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a clinical record handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// decodeRecord reads a Condition or Observation body depending on its
// resourceType field.
func decodeRecord(r *http.Request) (*Record, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var peek struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return nil, err
	}

	switch peek.ResourceType {
	case fhir.TypeCondition:
		var c fhir.Condition
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return FromConditionFHIR(&c)
	case fhir.TypeObservation:
		var o fhir.Observation
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		return FromObservationFHIR(&o)
	default:
		return nil, ErrInvalidResourceType
	}
}

// CreateRecord handles POST /fhir/ClinicalRecord
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to create clinical record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToFHIR(created))
}

// ListRecords handles GET /fhir/ClinicalRecord
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	filters := Filters{
		PatientID:  r.URL.Query().Get("patient"),
		RecordType: r.URL.Query().Get("record_type"),
		Status:     r.URL.Query().Get("status"),
	}
	params := pagination.ParseParams(r)

	result, err := h.service.List(r.Context(), filters, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to list clinical records")
		return
	}

	bundle := RecordBundle{
		Records:    make([]interface{}, 0, len(result.Records)),
		Pagination: result.Pagination,
	}
	for _, rec := range result.Records {
		bundle.Records = append(bundle.Records, ToFHIR(rec))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundle)
}

// GetRecord handles GET /fhir/ClinicalRecord/{id}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Clinical record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to get clinical record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(rec))
}

// UpdateRecord handles PUT /fhir/ClinicalRecord/{id}
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := decodeRecord(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	rec.ID = id

	updated, err := h.service.Update(r.Context(), rec)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Clinical record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to update clinical record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

// DeleteRecord handles DELETE /fhir/ClinicalRecord/{id}
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Clinical record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to delete clinical record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
