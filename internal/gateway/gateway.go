package gateway

import (
	"context"
	"errors"

	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable marks connectivity-class failures: the write (or read)
	// never reached the remote store, or the store could not answer. These
	// are recoverable and routed to the outbox.
	ErrUnavailable = errors.New("remote gateway unavailable")

	// ErrRejected marks writes the remote store refused as invalid. These
	// are not retried; the entry is discarded with a notice.
	ErrRejected = errors.New("remote gateway rejected the request")
)

// IsUnavailable reports whether err is a connectivity-class failure
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsRejection reports whether err is a remote validation rejection
func IsRejection(err error) bool {
	return errors.Is(err, ErrRejected)
}

// RemoteGateway is the narrow interface onto the remote persistence API.
// Every method may fail with ErrUnavailable; writes may additionally fail
// with ErrRejected. Timeout and retry policy live behind this interface.
type RemoteGateway interface {
	// FetchTransactions returns the full confirmed transaction set for the
	// scope. Used for the initial load only.
	FetchTransactions(ctx context.Context, scope uuid.UUID) ([]models.Transaction, error)

	// CreateTransaction persists a transaction remotely and returns the
	// confirmed record carrying its server-assigned ID
	CreateTransaction(ctx context.Context, transaction models.Transaction) (models.Transaction, error)

	// DeleteTransaction removes a confirmed transaction by server ID
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	// FetchSavingsGoals returns the scope's savings goals (external
	// collaborator data feeding the real-available-balance derivation)
	FetchSavingsGoals(ctx context.Context, scope uuid.UUID) ([]models.SavingsGoal, error)

	// FetchRecurringExpenses returns the scope's fixed monthly commitments
	FetchRecurringExpenses(ctx context.Context, scope uuid.UUID) ([]models.RecurringExpense, error)

	// Ping probes reachability of the remote store
	Ping(ctx context.Context) error
}

// ChangeFeed delivers push notifications about remote transaction changes.
// Close is idempotent and must not leak the subscription after teardown.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error)
	Close() error
}
