package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice status codes, following the FHIR invoice-status value set
const (
	StatusDraft          = "draft"
	StatusIssued         = "issued"
	StatusBalanced       = "balanced"
	StatusCancelled      = "cancelled"
	StatusEnteredInError = "entered-in-error"
)

// ValidStatuses lists the accepted invoice statuses
var ValidStatuses = map[string]bool{
	StatusDraft:          true,
	StatusIssued:         true,
	StatusBalanced:       true,
	StatusCancelled:      true,
	StatusEnteredInError: true,
}

// Invoice is the internal flat representation stored in the database
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	PatientID     string          `json:"patient_id"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	TotalNet      decimal.Decimal `json:"total_net"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// Recompute derives the dependent money fields. The gross total falls back
// to net plus tax when not supplied, and the balance is always gross minus
// whatever has been paid.
func (i *Invoice) Recompute() {
	if i.TotalGross.IsZero() {
		i.TotalGross = i.TotalNet.Add(i.TaxAmount)
	}
	i.BalanceDue = i.TotalGross.Sub(i.AmountPaid)
}

// IsPaid reports whether the invoice has been settled in full
func (i *Invoice) IsPaid() bool {
	if i.Status == StatusBalanced {
		return true
	}
	return i.TotalGross.IsPositive() && !i.BalanceDue.IsPositive()
}

// IsOverdue reports whether the invoice is past its due date with an
// outstanding balance. Cancelled and voided invoices never count.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil || i.IsPaid() {
		return false
	}
	if i.Status == StatusCancelled || i.Status == StatusEnteredInError {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return i.DueDate.Before(today)
}

// PaymentRequest is the body of the record-payment action
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method,omitempty"`
	Date   *time.Time      `json:"date,omitempty"`
}

// Filters narrows invoice list queries
type Filters struct {
	Status    string
	PatientID string
	Overdue   bool
}
