package repositories

import (
	"errors"
	"fmt"

	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrOutboxEntryNotFound = errors.New("outbox entry not found")

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepositoryInterface {
	return &outboxRepository{
		db: db,
	}
}

func (r *outboxRepository) Enqueue(transaction models.Transaction) (uuid.UUID, error) {
	entry := models.NewOutboxEntry(transaction)

	if err := r.db.Create(entry).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist outbox entry: %w", err)
	}

	return entry.CorrelationKey, nil
}

func (r *outboxRepository) ListPending() ([]*models.OutboxEntry, error) {
	var entries []*models.OutboxEntry

	err := r.db.Order("seq ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending entries: %w", err)
	}

	return entries, nil
}

func (r *outboxRepository) Remove(correlationKey uuid.UUID) error {
	result := r.db.Where("correlation_key = ?", correlationKey).
		Delete(&models.OutboxEntry{})

	if result.Error != nil {
		return fmt.Errorf("failed to remove outbox entry: %w", result.Error)
	}

	return nil
}

func (r *outboxRepository) RecordFailure(correlationKey uuid.UUID, errorMessage string) error {
	var entry models.OutboxEntry
	if err := r.db.Where("correlation_key = ?", correlationKey).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOutboxEntryNotFound
		}
		return fmt.Errorf("failed to find outbox entry: %w", err)
	}

	entry.RetryCount++
	entry.LastError = errorMessage

	if err := r.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to record outbox failure: %w", err)
	}

	return nil
}

func (r *outboxRepository) PendingCount() (int64, error) {
	var count int64
	err := r.db.Model(&models.OutboxEntry{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending entries: %w", err)
	}

	return count, nil
}
