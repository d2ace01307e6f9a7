package repositories

import (
	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
)

// OutboxRepositoryInterface is the durable queue of transactions awaiting
// remote confirmation. Entries are replayed in strict FIFO insertion order.
type OutboxRepositoryInterface interface {
	// Enqueue persists a not-yet-confirmed transaction and returns its
	// correlation key. The entry is durable before Enqueue returns.
	Enqueue(transaction models.Transaction) (uuid.UUID, error)

	// ListPending returns all entries in FIFO insertion order
	ListPending() ([]*models.OutboxEntry, error)

	// Remove drops a confirmed or discarded entry. Removing an absent key
	// is not an error.
	Remove(correlationKey uuid.UUID) error

	// RecordFailure increments the retry count and stores the last error
	// without disturbing the entry's position in the queue
	RecordFailure(correlationKey uuid.UUID, errorMessage string) error

	// PendingCount returns the number of entries waiting for confirmation
	PendingCount() (int64, error)
}
