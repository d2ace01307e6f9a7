package services

import (
	"context"
	"time"

	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConnectivityMonitorInterface exposes the boolean online signal and a
// transition stream with exactly one notification per actual state change
type ConnectivityMonitorInterface interface {
	IsOnline() bool
	SetOnline(online bool)
	Subscribe() <-chan bool
	RunProber(ctx context.Context)
}

// SubmitStatus describes how a submitted transaction was handled
type SubmitStatus string

const (
	SubmitConfirmed SubmitStatus = "confirmed"
	SubmitQueued    SubmitStatus = "queued"
)

// SubmitResult reports the outcome of a transaction submission: either the
// confirmed record, or the correlation key of the queued outbox entry
type SubmitResult struct {
	Status         SubmitStatus       `json:"status"`
	Transaction    models.Transaction `json:"transaction,omitempty"`
	CorrelationKey uuid.UUID          `json:"correlation_key,omitempty"`
}

// SyncCoordinatorInterface is the single owner of the canonical transaction
// set and the outbox. All operations are serialized onto the coordinator's
// event loop; Run must be active before any other method is called.
type SyncCoordinatorInterface interface {
	Run(ctx context.Context) error
	Bootstrap(ctx context.Context) error
	SubmitTransaction(ctx context.Context, transaction models.Transaction) (SubmitResult, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	CancelPending(ctx context.Context, key uuid.UUID) error
	SyncNow(ctx context.Context) error
	SetScope(ctx context.Context, scope uuid.UUID) error
	SetFilter(ctx context.Context, window models.MonthWindow, userScope string) error
	Snapshot(ctx context.Context) ([]models.Transaction, error)
	FilteredTransactions(ctx context.Context) ([]models.Transaction, error)
	PendingTransactions(ctx context.Context) ([]models.Transaction, error)
	Balances(ctx context.Context) (models.BalanceSummary, error)
	CategoryTotal(ctx context.Context, category string) (decimal.Decimal, error)
	Projection(ctx context.Context, now time.Time) (models.SpendProjection, error)
	PendingCount(ctx context.Context) (int64, error)
}

// AggregationServiceInterface derives monetary views from a canonical-set
// snapshot. Implementations hold no state; every method is a pure function
// of its arguments.
type AggregationServiceInterface interface {
	Filter(snapshot []models.Transaction, filter models.FilterState) []models.Transaction
	Balance(filtered []models.Transaction, method string) decimal.Decimal
	CategoryTotal(filtered []models.Transaction, category string) decimal.Decimal
	Balances(filtered []models.Transaction, goals []models.SavingsGoal) models.BalanceSummary
	Project(filtered []models.Transaction, recurring []models.RecurringExpense, window models.MonthWindow, now time.Time) models.SpendProjection
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// SyncLoggerInterface records sync lifecycle events as structured logs
type SyncLoggerInterface interface {
	LogInitialLoadStarted(ctx context.Context, scope uuid.UUID)
	LogInitialLoadCompleted(ctx context.Context, scope uuid.UUID, count int, durationMs int64)
	LogChangeEventApplied(ctx context.Context, eventType string, transactionID uuid.UUID)
	LogChangeEventDropped(ctx context.Context, eventType string, reason string)
	LogOutboxEnqueued(ctx context.Context, correlationKey uuid.UUID, reason string)
	LogEntryDiscarded(ctx context.Context, correlationKey uuid.UUID, reason string, retryCount int)
	LogDrainStarted(ctx context.Context, trigger string, pending int)
	LogDrainCompleted(ctx context.Context, trigger string, synced, failed, discarded int, durationMs int64)
	LogConnectivityChanged(ctx context.Context, online bool)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() BreakerState
	Reset()
	GetFailureCount() int
}
