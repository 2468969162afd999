package messaging

import (
	"fmt"
	"time"
)

// Event routing keys as constants
const (
	// Patient events
	EventPatientCreated = "patient.created"
	EventPatientUpdated = "patient.updated"
	EventPatientDeleted = "patient.deleted"

	// Appointment events
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentFulfilled = "appointment.fulfilled"
	EventAppointmentNoShow    = "appointment.noshow"

	// Prescription events
	EventPrescriptionCreated = "prescription.created"

	// Invoice events
	EventInvoiceIssued = "invoice.issued"
	EventInvoicePaid   = "invoice.paid"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// PatientEvent represents a patient lifecycle event
type PatientEvent struct {
	BaseEvent
	Data PatientEventData `json:"data"`
}

type PatientEventData struct {
	PatientID  string `json:"patient_id"`
	FamilyName string `json:"family_name"`
	GivenName  string `json:"given_name"`
	Email      string `json:"email,omitempty"`
	Active     bool   `json:"active"`
}

// AppointmentEvent represents an appointment workflow event
type AppointmentEvent struct {
	BaseEvent
	Data AppointmentEventData `json:"data"`
}

type AppointmentEventData struct {
	AppointmentID  string    `json:"appointment_id"`
	PatientID      string    `json:"patient_id"`
	PractitionerID string    `json:"practitioner_id"`
	Status         string    `json:"status"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Reason         string    `json:"reason,omitempty"`
}

// PrescriptionEvent represents a prescription creation event
type PrescriptionEvent struct {
	BaseEvent
	Data PrescriptionEventData `json:"data"`
}

type PrescriptionEventData struct {
	PrescriptionID string `json:"prescription_id"`
	PatientID      string `json:"patient_id"`
	PrescriberID   string `json:"prescriber_id"`
	MedicationName string `json:"medication_name"`
	Status         string `json:"status"`
}

// InvoiceEvent represents an invoice lifecycle event
type InvoiceEvent struct {
	BaseEvent
	Data InvoiceEventData `json:"data"`
}

type InvoiceEventData struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	PatientID     string `json:"patient_id"`
	Status        string `json:"status"`
	TotalGross    string `json:"total_gross"`
	AmountPaid    string `json:"amount_paid"`
	BalanceDue    string `json:"balance_due"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     fmt.Sprintf("%d", time.Now().UnixNano()),
		Timestamp:   time.Now().UTC(), // Explicitly set to UTC
		ServiceName: "patient-management-service",
	}
}
