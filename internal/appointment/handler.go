package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

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

// AppointmentBundle is the paginated list response in FHIR shape
type AppointmentBundle struct {
	Appointments []fhir.Appointment `json:"appointments"`
	Pagination   pagination.Meta    `json:"pagination"`
}

func toBundle(result *PaginatedAppointments) AppointmentBundle {
	bundle := AppointmentBundle{
		Appointments: make([]fhir.Appointment, 0, len(result.Appointments)),
		Pagination:   result.Pagination,
	}
	for i := range result.Appointments {
		bundle.Appointments = append(bundle.Appointments, *ToFHIR(&result.Appointments[i]))
	}
	return bundle
}

func parseFilters(r *http.Request) Filters {
	f := Filters{
		Status:         r.URL.Query().Get("status"),
		PatientID:      r.URL.Query().Get("patient"),
		PractitionerID: r.URL.Query().Get("practitioner"),
	}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			f.From = &from
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			f.To = &to
		}
	}
	return f
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var res fhir.Appointment
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	a, err := FromFHIR(&res)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), a)
	if err != nil {
		respondServiceError(w, err, "creation_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToFHIR(created))
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.List)
}

func (h *Handler) ListUpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.Upcoming)
}

func (h *Handler) ListTodayAppointments(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.Today)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, f Filters, params pagination.Params) (*PaginatedAppointments, error)) {
	result, err := list(r.Context(), parseFilters(r), pagination.ParseParams(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBundle(result))
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "fetch_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(a))
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var res fhir.Appointment
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	a, err := FromFHIR(&res)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	a.ID = id

	updated, err := h.service.Update(r.Context(), a)
	if err != nil {
		respondServiceError(w, err, "update_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "deletion_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Appointment deleted successfully",
	})
}

func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	h.respondAction(w, r, func(id string) (*Appointment, error) {
		return h.service.Book(r.Context(), id)
	})
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if r.Body != nil {
		// Body is optional for cancellations
		json.NewDecoder(r.Body).Decode(&req)
	}

	h.respondAction(w, r, func(id string) (*Appointment, error) {
		return h.service.Cancel(r.Context(), id, req.Reason)
	})
}

func (h *Handler) CheckInAppointment(w http.ResponseWriter, r *http.Request) {
	h.respondAction(w, r, func(id string) (*Appointment, error) {
		return h.service.CheckIn(r.Context(), id)
	})
}

func (h *Handler) ArriveAppointment(w http.ResponseWriter, r *http.Request) {
	h.respondAction(w, r, func(id string) (*Appointment, error) {
		return h.service.Arrive(r.Context(), id)
	})
}

func (h *Handler) FulfillAppointment(w http.ResponseWriter, r *http.Request) {
	h.respondAction(w, r, func(id string) (*Appointment, error) {
		return h.service.Fulfill(r.Context(), id)
	})
}

func (h *Handler) NoShowAppointment(w http.ResponseWriter, r *http.Request) {
	h.respondAction(w, r, func(id string) (*Appointment, error) {
		return h.service.NoShow(r.Context(), id)
	})
}

func (h *Handler) respondAction(w http.ResponseWriter, r *http.Request, action func(id string) (*Appointment, error)) {
	id := mux.Vars(r)["id"]

	updated, err := action(id)
	if err != nil {
		respondServiceError(w, err, "action_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	practitionerID := r.URL.Query().Get("practitioner")
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	excludeID := r.URL.Query().Get("exclude")

	start, startErr := time.Parse(time.RFC3339, startStr)
	end, endErr := time.Parse(time.RFC3339, endStr)
	if practitionerID == "" || startErr != nil || endErr != nil {
		respondError(w, http.StatusBadRequest, "validation_error", ErrInvalidAvailabilityRange.Error())
		return
	}

	result, err := h.service.Availability(r.Context(), practitionerID, start, end, excludeID)
	if err != nil {
		if errors.Is(err, ErrInvalidAvailabilityRange) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "availability_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "from must be an RFC3339 timestamp")
			return
		}
		from = &parsed
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "to must be an RFC3339 timestamp")
			return
		}
		to = &parsed
	}

	stats, err := h.service.Statistics(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidStatisticsRange) {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "statistics_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func respondServiceError(w http.ResponseWriter, err error, fallbackType string) {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Appointment not found")
	case errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrStartInPast),
		errors.Is(err, ErrDurationTooLong):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrTimeConflict):
		respondError(w, http.StatusConflict, "time_conflict", err.Error())
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDeleteFulfilled),
		errors.Is(err, ErrDeletePast),
		errors.Is(err, ErrBookFromStatus),
		errors.Is(err, ErrCancelFromStatus),
		errors.Is(err, ErrCheckInNotBooked),
		errors.Is(err, ErrCheckInOutsideWindow),
		errors.Is(err, ErrNoShowBeforeEnd):
		respondError(w, http.StatusConflict, "invalid_state", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallbackType, err.Error())
	}
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	})
}
