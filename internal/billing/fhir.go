package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clinicore/patient-management-service/internal/fhir"
)

// invoiceNumberSystem is the identifier system for locally assigned invoice numbers
const invoiceNumberSystem = "http://clinicore.io/fhir/invoice-number"

const currency = "USD"

func money(d decimal.Decimal) *fhir.Money {
	return &fhir.Money{Value: d.InexactFloat64(), Currency: currency}
}

// ToFHIR converts an internal invoice to its FHIR resource representation
func ToFHIR(inv *Invoice) *fhir.Invoice {
	resource := &fhir.Invoice{
		ResourceType: fhir.TypeInvoice,
		ID:           inv.ID,
		Status:       inv.Status,
		Subject: fhir.Reference{
			Reference: "Patient/" + inv.PatientID,
		},
		TotalNet:   money(inv.TotalNet),
		TaxAmount:  money(inv.TaxAmount),
		TotalGross: money(inv.TotalGross),
		AmountPaid: money(inv.AmountPaid),
		BalanceDue: money(inv.BalanceDue),
		DueDate:    fhir.FormatDate(inv.DueDate),
		IsPaid:     inv.IsPaid(),
	}

	if inv.InvoiceNumber != "" {
		resource.Identifier = []fhir.Identifier{
			{System: invoiceNumberSystem, Value: inv.InvoiceNumber},
		}
	}
	if !inv.InvoiceDate.IsZero() {
		date := inv.InvoiceDate
		resource.Date = &date
	}
	if inv.Description != "" {
		resource.Note = []fhir.Annotation{{Text: inv.Description}}
	}

	if !inv.CreatedAt.IsZero() {
		created := inv.CreatedAt
		resource.CreatedAt = &created
	}
	resource.UpdatedAt = inv.UpdatedAt
	return resource
}

// FromFHIR converts a FHIR Invoice into the internal representation,
// validating the value sets and recomputing the derived money fields.
func FromFHIR(resource *fhir.Invoice) (*Invoice, error) {
	if resource.ResourceType != fhir.TypeInvoice {
		return nil, ErrInvalidResourceType
	}

	inv := &Invoice{
		ID:     resource.ID,
		Status: resource.Status,
	}

	if inv.Status == "" {
		inv.Status = StatusDraft
	}
	if !ValidStatuses[inv.Status] {
		return nil, ErrInvalidStatus
	}

	if !strings.HasPrefix(resource.Subject.Reference, "Patient/") {
		return nil, ErrMissingSubject
	}
	inv.PatientID = strings.TrimPrefix(resource.Subject.Reference, "Patient/")
	if inv.PatientID == "" {
		return nil, ErrMissingSubject
	}

	for _, id := range resource.Identifier {
		if id.System == invoiceNumberSystem {
			inv.InvoiceNumber = id.Value
		}
	}

	if resource.Date != nil {
		inv.InvoiceDate = *resource.Date
	}

	due, err := fhir.ParseDate(resource.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	inv.DueDate = due

	inv.TotalNet = moneyValue(resource.TotalNet)
	inv.TaxAmount = moneyValue(resource.TaxAmount)
	inv.TotalGross = moneyValue(resource.TotalGross)
	inv.AmountPaid = moneyValue(resource.AmountPaid)

	if inv.TotalNet.IsNegative() || inv.TaxAmount.IsNegative() ||
		inv.TotalGross.IsNegative() || inv.AmountPaid.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if len(resource.Note) > 0 {
		inv.Description = resource.Note[0].Text
	}

	inv.Recompute()
	return inv, nil
}

func moneyValue(m *fhir.Money) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(m.Value)
}
