package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Storage limits of a payment record. Amounts are held as decimal(15,2).
const (
	AmountScale       = 2
	MaxCurrencyLength = 10
	MaxMethodLength   = 50
)

// maxAmount is the first value that no longer fits 13 integer digits
var maxAmount = decimal.New(1, 13)

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "PENDING"
	StatusApproved PaymentStatus = "APPROVED"
	StatusRejected PaymentStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is a known status
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
// PENDING is only entered at creation.
func CanTransition(from, to PaymentStatus) bool {
	return from == StatusPending && to.IsTerminal()
}

// OutcomeStatus maps a gateway decision to the terminal status it produces
func OutcomeStatus(approved bool) PaymentStatus {
	if approved {
		return StatusApproved
	}
	return StatusRejected
}

// Payment is a payment record. Values are never mutated in place;
// Resolve returns a new record.
type Payment struct {
	ID          uint
	Amount      decimal.Decimal
	Currency    string
	Method      string
	Status      PaymentStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
	OwnerID     *uint
}

// NewPayment validates the input and returns a PENDING payment
func NewPayment(amount decimal.Decimal, currency, method string, ownerID *uint, now time.Time) (*Payment, error) {
	switch {
	case !amount.IsPositive():
		return nil, NewValidationError("amount", "must be greater than zero")
	case !amount.Equal(amount.Truncate(AmountScale)):
		return nil, NewValidationError("amount", "must have at most 2 decimal places")
	case amount.GreaterThanOrEqual(maxAmount):
		return nil, NewValidationError("amount", "must be less than 10000000000000")
	}

	currency = strings.TrimSpace(currency)
	switch {
	case currency == "":
		return nil, NewValidationError("currency", "is required")
	case utf8.RuneCountInString(currency) > MaxCurrencyLength:
		return nil, NewValidationError("currency", "must be at most 10 characters")
	}

	method = strings.TrimSpace(method)
	switch {
	case method == "":
		return nil, NewValidationError("method", "is required")
	case utf8.RuneCountInString(method) > MaxMethodLength:
		return nil, NewValidationError("method", "must be at most 50 characters")
	}

	var owner *uint
	if ownerID != nil {
		id := *ownerID
		owner = &id
	}

	return &Payment{
		Amount:    amount,
		Currency:  currency,
		Method:    method,
		Status:    StatusPending,
		CreatedAt: now,
		OwnerID:   owner,
	}, nil
}

// Resolve returns a copy of p moved to the outcome of the gateway decision.
// processed_at never precedes created_at.
func (p Payment) Resolve(approved bool, at time.Time) (*Payment, error) {
	to := OutcomeStatus(approved)
	if !CanTransition(p.Status, to) {
		return nil, ErrInvalidTransition
	}

	if at.Before(p.CreatedAt) {
		at = p.CreatedAt
	}

	next := p
	next.Status = to
	next.ProcessedAt = &at
	return &next, nil
}

// OwnedBy reports whether userID owns the payment
func (p *Payment) OwnedBy(userID uint) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}
