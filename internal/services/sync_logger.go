package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// SyncLogger emits one structured record per sync lifecycle event so the
// engine's behavior is reconstructable from logs alone
type SyncLogger struct {
	logger *slog.Logger
}

func NewSyncLogger(logger *slog.Logger) SyncLoggerInterface {
	return &SyncLogger{
		logger: logger,
	}
}

func (sl *SyncLogger) LogInitialLoadStarted(ctx context.Context, scope uuid.UUID) {
	sl.logger.InfoContext(ctx, "initial load started",
		slog.String("event_type", "initial_load_started"),
		slog.String("scope", scope.String()),
	)
}

func (sl *SyncLogger) LogInitialLoadCompleted(ctx context.Context, scope uuid.UUID, count int, durationMs int64) {
	sl.logger.InfoContext(ctx, "initial load completed",
		slog.String("event_type", "initial_load_completed"),
		slog.String("scope", scope.String()),
		slog.Int("transaction_count", count),
		slog.Int64("duration_ms", durationMs),
	)
}

func (sl *SyncLogger) LogChangeEventApplied(ctx context.Context, eventType string, transactionID uuid.UUID) {
	sl.logger.InfoContext(ctx, "change event applied",
		slog.String("event_type", "change_event_applied"),
		slog.String("change_type", eventType),
		slog.String("transaction_id", transactionID.String()),
	)
}

func (sl *SyncLogger) LogChangeEventDropped(ctx context.Context, eventType string, reason string) {
	sl.logger.WarnContext(ctx, "change event dropped",
		slog.String("event_type", "change_event_dropped"),
		slog.String("change_type", eventType),
		slog.String("reason", reason),
	)
}

func (sl *SyncLogger) LogOutboxEnqueued(ctx context.Context, correlationKey uuid.UUID, reason string) {
	sl.logger.InfoContext(ctx, "transaction queued to outbox",
		slog.String("event_type", "outbox_enqueued"),
		slog.String("correlation_key", correlationKey.String()),
		slog.String("reason", reason),
	)
}

func (sl *SyncLogger) LogEntryDiscarded(ctx context.Context, correlationKey uuid.UUID, reason string, retryCount int) {
	sl.logger.WarnContext(ctx, "outbox entry discarded",
		slog.String("event_type", "outbox_entry_discarded"),
		slog.String("correlation_key", correlationKey.String()),
		slog.String("reason", reason),
		slog.Int("retry_count", retryCount),
	)
}

func (sl *SyncLogger) LogDrainStarted(ctx context.Context, trigger string, pending int) {
	sl.logger.InfoContext(ctx, "outbox drain started",
		slog.String("event_type", "outbox_drain_started"),
		slog.String("trigger", trigger),
		slog.Int("pending", pending),
	)
}

func (sl *SyncLogger) LogDrainCompleted(ctx context.Context, trigger string, synced, failed, discarded int, durationMs int64) {
	sl.logger.InfoContext(ctx, "outbox drain completed",
		slog.String("event_type", "outbox_drain_completed"),
		slog.String("trigger", trigger),
		slog.Int("synced", synced),
		slog.Int("failed", failed),
		slog.Int("discarded", discarded),
		slog.Int64("duration_ms", durationMs),
	)
}

func (sl *SyncLogger) LogConnectivityChanged(ctx context.Context, online bool) {
	sl.logger.InfoContext(ctx, "connectivity changed",
		slog.String("event_type", "connectivity_changed"),
		slog.Bool("online", online),
	)
}
