package prescription

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

// PrescriptionBundle is the paginated list response in FHIR shape
type PrescriptionBundle struct {
	Prescriptions []fhir.MedicationRequest `json:"prescriptions"`
	Pagination    pagination.Meta          `json:"pagination"`
}

func (h *Handler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var res fhir.MedicationRequest
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
		respondError(w, http.StatusInternalServerError, "creation_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToFHIR(created))
}

func (h *Handler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	f := Filters{
		Status:       r.URL.Query().Get("status"),
		PatientID:    r.URL.Query().Get("patient"),
		PrescriberID: r.URL.Query().Get("prescriber"),
	}

	result, err := h.service.List(r.Context(), f, pagination.ParseParams(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	bundle := PrescriptionBundle{
		Prescriptions: make([]fhir.MedicationRequest, 0, len(result.Prescriptions)),
		Pagination:    result.Pagination,
	}
	for i := range result.Prescriptions {
		bundle.Prescriptions = append(bundle.Prescriptions, *ToFHIR(&result.Prescriptions[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundle)
}

func (h *Handler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPrescriptionNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Prescription not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(p))
}

func (h *Handler) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var res fhir.MedicationRequest
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
		if errors.Is(err, ErrPrescriptionNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Prescription not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

func (h *Handler) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPrescriptionNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Prescription not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "deletion_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Prescription deleted successfully",
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
