package dto

import (
	"time"

	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitTransactionRequest is the payload for recording a new transaction
type SubmitTransactionRequest struct {
	Amount        string    `json:"amount" validate:"required"`
	Kind          string    `json:"kind" validate:"required,oneof=expense income"`
	Category      string    `json:"category" validate:"required,max=100"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=cash voucher"`
	OwnerID       string    `json:"owner_id" validate:"required,uuid"`
	Description   string    `json:"description" validate:"max=500"`
	OccurredAt    time.Time `json:"occurred_at" validate:"required"`
}

// ToModel converts the request into a transaction model
func (r *SubmitTransactionRequest) ToModel() (models.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Transaction{}, err
	}

	ownerID, err := uuid.Parse(r.OwnerID)
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		Amount:        amount,
		Kind:          r.Kind,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
		OwnerID:       ownerID,
		Description:   r.Description,
		OccurredAt:    r.OccurredAt,
	}, nil
}

// TransactionResponse is the wire representation of one transaction
type TransactionResponse struct {
	ID            uuid.UUID `json:"id,omitempty"`
	Amount        string    `json:"amount"`
	Kind          string    `json:"kind"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Description   string    `json:"description,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	SyncState     string    `json:"sync_state"`
}

// FromTransaction converts a transaction model to its wire representation
func FromTransaction(t models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Amount:        t.Amount.String(),
		Kind:          t.Kind,
		Category:      t.Category,
		PaymentMethod: t.PaymentMethod,
		OwnerID:       t.OwnerID,
		Description:   t.Description,
		OccurredAt:    t.OccurredAt,
		SyncState:     t.SyncState,
	}
}

// FromTransactions converts a slice of transaction models
func FromTransactions(transactions []models.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		result = append(result, FromTransaction(transactions[i]))
	}
	return result
}

// ListTransactionsResponse is the response for transaction listings
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// SubmitTransactionResponse reports how a submission was handled: confirmed
// immediately, or queued with a correlation key
type SubmitTransactionResponse struct {
	Status         string               `json:"status"`
	Transaction    *TransactionResponse `json:"transaction,omitempty"`
	CorrelationKey string               `json:"correlation_key,omitempty"`
}
