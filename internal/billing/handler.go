package billing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinicore/patient-management-service/internal/fhir"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

// InvoiceBundle is the list response for invoices
type InvoiceBundle struct {
	Invoices   []*fhir.Invoice `json:"invoices"`
	Pagination pagination.Meta `json:"pagination"`
}

// Handler exposes invoices over HTTP
type Handler struct {
	service ServiceInterface
}

// NewHandler creates an invoice handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// CreateInvoice handles POST /fhir/Invoice
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var resource fhir.Invoice
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	inv, err := FromFHIR(&resource)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), inv)
	if err != nil {
		if errors.Is(err, ErrDuplicateInvoiceNumber) {
			respondError(w, http.StatusConflict, "duplicate_invoice_number", "Invoice number already in use")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to create invoice")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ToFHIR(created))
}

// ListInvoices handles GET /fhir/Invoice
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filters := Filters{
		Status:    r.URL.Query().Get("status"),
		PatientID: r.URL.Query().Get("patient"),
		Overdue:   r.URL.Query().Get("overdue") == "true",
	}
	params := pagination.ParseParams(r)

	result, err := h.service.List(r.Context(), filters, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to list invoices")
		return
	}

	bundle := InvoiceBundle{
		Invoices:   make([]*fhir.Invoice, 0, len(result.Invoices)),
		Pagination: result.Pagination,
	}
	for _, inv := range result.Invoices {
		bundle.Invoices = append(bundle.Invoices, ToFHIR(inv))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundle)
}

// GetInvoice handles GET /fhir/Invoice/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Invoice not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to get invoice")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(inv))
}

// UpdateInvoice handles PUT /fhir/Invoice/{id}
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var resource fhir.Invoice
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	inv, err := FromFHIR(&resource)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	inv.ID = id

	updated, err := h.service.Update(r.Context(), inv)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvoiceNotFound):
			respondError(w, http.StatusNotFound, "not_found", "Invoice not found")
		case errors.Is(err, ErrDuplicateInvoiceNumber):
			respondError(w, http.StatusConflict, "duplicate_invoice_number", "Invoice number already in use")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "Failed to update invoice")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

// DeleteInvoice handles DELETE /fhir/Invoice/{id}
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Invoice not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to delete invoice")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordPayment handles POST /fhir/Invoice/{id}/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var payment PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	updated, err := h.service.RecordPayment(r.Context(), id, payment)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvoiceNotFound):
			respondError(w, http.StatusNotFound, "not_found", "Invoice not found")
		case errors.Is(err, ErrInvalidPaymentAmount), errors.Is(err, ErrOverpayment):
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, ErrInvoiceNotPayable):
			respondError(w, http.StatusConflict, "invalid_state", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "Failed to record payment")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ToFHIR(updated))
}

func respondError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
