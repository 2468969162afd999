package billing

import "errors"

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrInvalidResourceType    = errors.New("resourceType must be Invoice")
	ErrInvalidStatus          = errors.New("invalid invoice status")
	ErrMissingSubject         = errors.New("subject patient reference is required")
	ErrInvalidDueDate         = errors.New("due date must be in YYYY-MM-DD format")
	ErrNegativeAmount         = errors.New("money amounts cannot be negative")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already in use")
	ErrInvalidPaymentAmount   = errors.New("payment amount must be positive")
	ErrInvoiceNotPayable      = errors.New("invoice does not accept payments in its current status")
	ErrOverpayment            = errors.New("payment exceeds the outstanding balance")
)
