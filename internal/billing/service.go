package billing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

// PaginatedInvoices bundles a page of invoices with its metadata
type PaginatedInvoices struct {
	Invoices   []*Invoice
	Pagination pagination.Meta
}

// Service implements the invoice business logic
type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	now       func() time.Time
}

var _ ServiceInterface = (*Service)(nil)

// NewService creates an invoice service
func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create stores a new invoice, assigning an invoice number when absent
func (s *Service) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = s.generateInvoiceNumber()
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = s.now().UTC()
	}
	inv.Recompute()

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, err
	}

	if created.Status == StatusIssued {
		s.publishEvent(ctx, messaging.EventInvoiceIssued, created)
	}
	return created, nil
}

// Get fetches an invoice by ID
func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// List returns invoices matching the filters
func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedInvoices, error) {
	params.Validate()
	invoices, total, err := s.repo.List(ctx, f, params)
	if err != nil {
		return nil, err
	}
	return &PaginatedInvoices{
		Invoices:   invoices,
		Pagination: params.CalculateMeta(total),
	}, nil
}

// Update replaces an existing invoice, recomputing the derived money fields.
// Payment bookkeeping recorded through the payment action is preserved.
func (s *Service) Update(ctx context.Context, inv *Invoice) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = existing.InvoiceNumber
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = existing.InvoiceDate
	}
	inv.AmountPaid = existing.AmountPaid
	inv.PaymentMethod = existing.PaymentMethod
	inv.PaymentDate = existing.PaymentDate
	inv.TotalGross = inv.TotalNet.Add(inv.TaxAmount)
	inv.Recompute()

	updated, err := s.repo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}

	if existing.Status != StatusIssued && updated.Status == StatusIssued {
		s.publishEvent(ctx, messaging.EventInvoiceIssued, updated)
	}
	return updated, nil
}

// Delete removes an invoice
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RecordPayment applies a payment to an invoice. The invoice flips to
// balanced once the outstanding balance reaches zero.
func (s *Service) RecordPayment(ctx context.Context, id string, payment PaymentRequest) (*Invoice, error) {
	if !payment.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}

	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status != StatusIssued && inv.Status != StatusBalanced {
		return nil, ErrInvoiceNotPayable
	}
	if payment.Amount.GreaterThan(inv.BalanceDue) {
		return nil, ErrOverpayment
	}

	inv.AmountPaid = inv.AmountPaid.Add(payment.Amount)
	inv.Recompute()
	if payment.Method != "" {
		inv.PaymentMethod = payment.Method
	}
	if payment.Date != nil {
		inv.PaymentDate = payment.Date
	} else {
		paidAt := s.now().UTC()
		inv.PaymentDate = &paidAt
	}

	fullyPaid := !inv.BalanceDue.IsPositive()
	if fullyPaid {
		inv.Status = StatusBalanced
	}

	updated, err := s.repo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}

	if fullyPaid {
		s.publishEvent(ctx, messaging.EventInvoicePaid, updated)
	}
	return updated, nil
}

// generateInvoiceNumber builds an INV-YYYYMMDD-XXXXXX number with a random
// suffix. Uniqueness is enforced by the database.
func (s *Service) generateInvoiceNumber() string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("INV-%s-%s", s.now().UTC().Format("20060102"), suffix)
}

func (s *Service) publishEvent(ctx context.Context, routingKey string, inv *Invoice) {
	if s.publisher == nil {
		return
	}

	event := messaging.InvoiceEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.InvoiceEventData{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			PatientID:     inv.PatientID,
			Status:        inv.Status,
			TotalGross:    inv.TotalGross.StringFixed(2),
			AmountPaid:    inv.AmountPaid.StringFixed(2),
			BalanceDue:    inv.BalanceDue.StringFixed(2),
		},
	}

	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
