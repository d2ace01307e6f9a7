package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionKindExpense = "expense"
	TransactionKindIncome  = "income"

	PaymentMethodCash    = "cash"
	PaymentMethodVoucher = "voucher"

	SyncStateConfirmed = "confirmed"
	SyncStatePending   = "pending"
	SyncStateFailed    = "failed"
)

var (
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrInvalidSyncState       = errors.New("invalid sync state")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrMissingOwner           = errors.New("owner ID is required")
)

// Transaction is the canonical financial event. ID is assigned by the remote
// store once a write is confirmed; unconfirmed transactions carry uuid.Nil
// and are identified by their outbox correlation key instead.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          string          `json:"kind"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Description   string          `json:"description,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SyncState     string          `json:"sync_state"`
}

// Validate checks the transaction fields
func (t *Transaction) Validate() error {
	if !IsValidTransactionKind(t.Kind) {
		return ErrInvalidTransactionKind
	}

	if !IsValidPaymentMethod(t.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}

	if t.SyncState != "" && !IsValidSyncState(t.SyncState) {
		return ErrInvalidSyncState
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.OwnerID == uuid.Nil {
		return ErrMissingOwner
	}

	return nil
}

// IsConfirmed returns true once the remote store has acknowledged the write
func (t *Transaction) IsConfirmed() bool {
	return t.SyncState == SyncStateConfirmed && t.ID != uuid.Nil
}

// Confirm stamps the server-assigned ID on a locally created transaction
func (t *Transaction) Confirm(id uuid.UUID) {
	t.ID = id
	t.SyncState = SyncStateConfirmed
}

// Signed returns the amount with its balance effect applied: positive for
// income, negative for expense.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Kind == TransactionKindIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// InMonth reports whether the transaction occurred within the given calendar month
func (t *Transaction) InMonth(year int, month time.Month) bool {
	return t.OccurredAt.Year() == year && t.OccurredAt.Month() == month
}

// IsValidTransactionKind checks if the transaction kind is valid
func IsValidTransactionKind(kind string) bool {
	switch kind {
	case TransactionKindExpense, TransactionKindIncome:
		return true
	default:
		return false
	}
}

// IsValidPaymentMethod checks if the payment method is valid
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodVoucher:
		return true
	default:
		return false
	}
}

// IsValidSyncState checks if the sync state is valid
func IsValidSyncState(state string) bool {
	switch state {
	case SyncStateConfirmed, SyncStatePending, SyncStateFailed:
		return true
	default:
		return false
	}
}
