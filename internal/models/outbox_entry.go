package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OutboxEntry is a transaction awaiting confirmation by the remote store.
// Entries are persisted locally so that a crash or restart before a
// successful drain never loses a submitted transaction. Seq provides strict
// FIFO replay order.
type OutboxEntry struct {
	Seq            int64           `gorm:"primaryKey;autoIncrement" json:"seq"`
	CorrelationKey uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"correlation_key"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Kind           string          `gorm:"type:varchar(20);not null" json:"kind"`
	Category       string          `gorm:"type:varchar(100);not null" json:"category"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`
	OccurredAt     time.Time       `gorm:"not null" json:"occurred_at"`
	RetryCount     int             `gorm:"not null;default:0" json:"retry_count"`
	LastError      string          `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func (*OutboxEntry) TableName() string {
	return "outbox_entries"
}

func (e *OutboxEntry) BeforeCreate(tx *gorm.DB) error {
	if e.CorrelationKey == uuid.Nil {
		e.CorrelationKey = uuid.New()
	}
	return nil
}

// NewOutboxEntry flattens a not-yet-confirmed transaction into a durable entry
func NewOutboxEntry(t Transaction) *OutboxEntry {
	return &OutboxEntry{
		CorrelationKey: uuid.New(),
		Amount:         t.Amount,
		Kind:           t.Kind,
		Category:       t.Category,
		PaymentMethod:  t.PaymentMethod,
		OwnerID:        t.OwnerID,
		Description:    t.Description,
		OccurredAt:     t.OccurredAt,
	}
}

// Transaction reconstructs the pending transaction carried by the entry
func (e *OutboxEntry) Transaction() Transaction {
	return Transaction{
		Amount:        e.Amount,
		Kind:          e.Kind,
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		OwnerID:       e.OwnerID,
		Description:   e.Description,
		OccurredAt:    e.OccurredAt,
		SyncState:     SyncStatePending,
	}
}
