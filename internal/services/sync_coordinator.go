package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/KimJesus22/LanaSync/internal/gateway"
	"github.com/KimJesus22/LanaSync/internal/models"
	"github.com/KimJesus22/LanaSync/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotBootstrapped = errors.New("initial load has not completed")
	ErrOffline         = errors.New("operation requires connectivity")
	ErrScopeMismatch   = errors.New("transaction does not belong to the active scope")
	ErrInvalidScope    = errors.New("user scope must be \"all\" or a user ID")
)

// SyncCoordinator is the single writer over the canonical transaction set.
// Three inputs converge on it: the initial load, the push change feed and
// locally submitted writes. All of them are serialized onto one event loop,
// so the canonical set never needs a lock and merge decisions are total-ordered.
type SyncCoordinator struct {
	scope      uuid.UUID
	maxRetries int

	gateway    gateway.RemoteGateway
	feed       gateway.ChangeFeed
	outbox     repositories.OutboxRepositoryInterface
	monitor    ConnectivityMonitorInterface
	aggregator AggregationServiceInterface
	breaker    CircuitBreakerInterface
	syncLog    SyncLoggerInterface
	metrics    MetricsRecorderInterface
	logger     *slog.Logger

	commands chan func()

	// Loop-owned state. Only the Run goroutine touches these.
	canonical    []models.Transaction
	pendingByKey map[uuid.UUID]models.Transaction
	pendingKeys  []uuid.UUID
	filter       models.FilterState
	goals        []models.SavingsGoal
	recurring    []models.RecurringExpense
	bootstrapped bool
}

// NewSyncCoordinator wires the coordinator. Run must be started before any
// other method is called; every operation is executed on the Run goroutine.
func NewSyncCoordinator(
	scope uuid.UUID,
	maxRetries int,
	gw gateway.RemoteGateway,
	feed gateway.ChangeFeed,
	outbox repositories.OutboxRepositoryInterface,
	monitor ConnectivityMonitorInterface,
	aggregator AggregationServiceInterface,
	breaker CircuitBreakerInterface,
	syncLog SyncLoggerInterface,
	metrics MetricsRecorderInterface,
) SyncCoordinatorInterface {
	return &SyncCoordinator{
		scope:        scope,
		maxRetries:   maxRetries,
		gateway:      gw,
		feed:         feed,
		outbox:       outbox,
		monitor:      monitor,
		aggregator:   aggregator,
		breaker:      breaker,
		syncLog:      syncLog,
		metrics:      metrics,
		logger:       slog.Default(),
		commands:     make(chan func(), 64),
		pendingByKey: make(map[uuid.UUID]models.Transaction),
		filter: models.FilterState{
			MonthWindow: models.CurrentMonthWindow(time.Now()),
			UserScope:   models.ScopeAll,
		},
	}
}

// Run is the coordinator's event loop. It consumes submitted commands, push
// feed events and connectivity transitions until the context is cancelled.
func (c *SyncCoordinator) Run(ctx context.Context) error {
	var events <-chan models.ChangeEvent
	if c.feed != nil {
		ch, err := c.feed.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("subscribing to change feed: %w", err)
		}
		events = ch
		defer c.feed.Close()
	}

	transitions := c.monitor.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-c.commands:
			cmd()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.applyChange(ctx, event)

		case online := <-transitions:
			c.syncLog.LogConnectivityChanged(ctx, online)
			c.recordConnectivityGauge(online)
			if online {
				if !c.bootstrapped {
					// loadInitialState drains on success; a failure here
					// leaves the next transition to try again
					if err := c.loadInitialState(ctx); err != nil {
						c.logger.Error("initial load on reconnect", slog.String("error", err.Error()))
					}
					continue
				}
				c.drainOutbox(ctx, "reconnect")
			}
		}
	}
}

// do posts fn onto the event loop and waits for it to finish
func (c *SyncCoordinator) do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)

	select {
	case c.commands <- func() { done <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bootstrap performs the initial load: the full confirmed set for the scope
// plus the collaborator records feeding aggregation. Feed events arriving
// during the load stay buffered and are merged afterwards; the idempotent
// apply rules make the overlap harmless.
func (c *SyncCoordinator) Bootstrap(ctx context.Context) error {
	return c.do(ctx, func() error {
		return c.loadInitialState(ctx)
	})
}

// SetScope switches the engine to a different owner scope and reloads the
// canonical set for it. Pending outbox entries are unaffected; they drain as
// usual on the next pass.
func (c *SyncCoordinator) SetScope(ctx context.Context, scope uuid.UUID) error {
	return c.do(ctx, func() error {
		if scope == c.scope {
			return nil
		}
		c.scope = scope
		c.bootstrapped = false
		return c.loadInitialState(ctx)
	})
}

// loadInitialState runs on the event loop
func (c *SyncCoordinator) loadInitialState(ctx context.Context) error {
	started := time.Now()
	c.syncLog.LogInitialLoadStarted(ctx, c.scope)

	transactions, err := c.gateway.FetchTransactions(ctx, c.scope)
	if err != nil {
		return c.classifyReadFailure("fetching transactions", err)
	}

	goals, err := c.gateway.FetchSavingsGoals(ctx, c.scope)
	if err != nil {
		return c.classifyReadFailure("fetching savings goals", err)
	}

	recurring, err := c.gateway.FetchRecurringExpenses(ctx, c.scope)
	if err != nil {
		return c.classifyReadFailure("fetching recurring expenses", err)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].OccurredAt.After(transactions[j].OccurredAt)
	})

	c.canonical = transactions
	c.goals = goals
	c.recurring = recurring
	c.bootstrapped = true

	if err := c.rebuildPendingView(); err != nil {
		return fmt.Errorf("rebuilding pending view: %w", err)
	}

	c.recordCanonicalGauge()

	elapsed := time.Since(started)
	c.metrics.RecordProcessingTime("sync.initial_load", elapsed)
	c.syncLog.LogInitialLoadCompleted(ctx, c.scope, len(c.canonical), elapsed.Milliseconds())

	if c.monitor.IsOnline() {
		c.drainOutbox(ctx, "bootstrap")
	}

	return nil
}

func (c *SyncCoordinator) classifyReadFailure(op string, err error) error {
	if gateway.IsUnavailable(err) {
		c.monitor.SetOnline(false)
		c.breaker.RecordFailure()
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rebuildPendingView restores the in-memory pending view from the durable
// outbox, preserving FIFO order. Called once after the initial load so
// entries queued before a restart stay visible.
func (c *SyncCoordinator) rebuildPendingView() error {
	entries, err := c.outbox.ListPending()
	if err != nil {
		return err
	}

	c.pendingByKey = make(map[uuid.UUID]models.Transaction, len(entries))
	c.pendingKeys = c.pendingKeys[:0]
	for _, entry := range entries {
		c.pendingByKey[entry.CorrelationKey] = entry.Transaction()
		c.pendingKeys = append(c.pendingKeys, entry.CorrelationKey)
	}

	c.metrics.RecordGauge("outbox.depth", float64(len(entries)), nil)
	return nil
}

// applyChange merges one push feed event into the canonical set. The apply
// rules are idempotent and commutative with direct-write admission, so the
// final state does not depend on which path reported a change first.
func (c *SyncCoordinator) applyChange(ctx context.Context, event models.ChangeEvent) {
	if err := event.Validate(); err != nil {
		c.syncLog.LogChangeEventDropped(ctx, event.Type, err.Error())
		c.metrics.IncrementCounter("sync.event.dropped", map[string]string{"reason": "malformed"})
		return
	}

	if event.Type != models.ChangeEventDelete && c.scope != uuid.Nil && event.Transaction.OwnerID != c.scope {
		c.syncLog.LogChangeEventDropped(ctx, event.Type, "scope mismatch")
		c.metrics.IncrementCounter("sync.event.dropped", map[string]string{"reason": "scope_mismatch"})
		return
	}

	switch event.Type {
	case models.ChangeEventInsert, models.ChangeEventUpdate:
		c.admit(event.Transaction)
	case models.ChangeEventDelete:
		c.removeByID(event.Transaction.ID)
	}

	c.recordCanonicalGauge()
	c.syncLog.LogChangeEventApplied(ctx, event.Type, event.Transaction.ID)
	c.metrics.IncrementCounter("sync.event.applied", map[string]string{"type": event.Type})
}

// admit upserts one confirmed transaction into the canonical set. A record
// already present is replaced in place of its ordering slot; an unknown
// record is inserted, which also covers updates that raced ahead of their
// insert notification.
func (c *SyncCoordinator) admit(t models.Transaction) {
	t.SyncState = models.SyncStateConfirmed
	c.removeByID(t.ID)
	c.insertOrdered(t)
}

// insertOrdered places t into the reverse-chronological canonical set.
// Entries sharing an OccurredAt keep arrival order: the newcomer lands after
// the existing equals.
func (c *SyncCoordinator) insertOrdered(t models.Transaction) {
	idx := sort.Search(len(c.canonical), func(i int) bool {
		return c.canonical[i].OccurredAt.Before(t.OccurredAt)
	})

	c.canonical = append(c.canonical, models.Transaction{})
	copy(c.canonical[idx+1:], c.canonical[idx:])
	c.canonical[idx] = t
}

// removeByID drops the transaction with the given ID; absent IDs are a no-op
func (c *SyncCoordinator) removeByID(id uuid.UUID) {
	for i := range c.canonical {
		if c.canonical[i].ID == id {
			c.canonical = append(c.canonical[:i], c.canonical[i+1:]...)
			return
		}
	}
}

// SubmitTransaction records a new transaction. Online with a healthy breaker
// it writes directly to the remote store and admits the confirmed record;
// otherwise (or when the write fails on connectivity) the transaction is
// queued durably and surfaces as pending until a later drain confirms it.
// Remote rejections are terminal and reported to the caller.
func (c *SyncCoordinator) SubmitTransaction(ctx context.Context, transaction models.Transaction) (SubmitResult, error) {
	if err := transaction.Validate(); err != nil {
		return SubmitResult{}, err
	}

	var result SubmitResult
	err := c.do(ctx, func() error {
		if c.scope != uuid.Nil && transaction.OwnerID != c.scope {
			return ErrScopeMismatch
		}

		if c.monitor.IsOnline() && !c.breaker.IsOpen() {
			confirmed, err := c.gateway.CreateTransaction(ctx, transaction)
			switch {
			case err == nil:
				c.breaker.RecordSuccess()
				c.metrics.IncrementCounter("sync.remote_write", map[string]string{"result": "success"})
				c.admit(confirmed)
				c.recordCanonicalGauge()
				result = SubmitResult{Status: SubmitConfirmed, Transaction: confirmed}
				return nil

			case gateway.IsRejection(err):
				c.metrics.IncrementCounter("sync.remote_write", map[string]string{"result": "rejected"})
				return err

			default:
				c.breaker.RecordFailure()
				c.monitor.SetOnline(false)
				c.metrics.IncrementCounter("sync.remote_write", map[string]string{"result": "unavailable"})
			}
		}

		key, err := c.enqueuePending(ctx, transaction)
		if err != nil {
			return err
		}

		result = SubmitResult{Status: SubmitQueued, CorrelationKey: key}
		return nil
	})

	return result, err
}

// enqueuePending persists the transaction to the durable outbox and mirrors
// it into the in-memory pending view. A persistence failure is propagated to
// the caller; the submission is then lost and the caller must retry.
func (c *SyncCoordinator) enqueuePending(ctx context.Context, transaction models.Transaction) (uuid.UUID, error) {
	key, err := c.outbox.Enqueue(transaction)
	if err != nil {
		return uuid.Nil, fmt.Errorf("persisting pending transaction: %w", err)
	}

	transaction.SyncState = models.SyncStatePending
	c.pendingByKey[key] = transaction
	c.pendingKeys = append(c.pendingKeys, key)

	c.syncLog.LogOutboxEnqueued(ctx, key, "remote store unavailable")
	c.metrics.IncrementCounter("outbox.enqueued", nil)
	c.metrics.RecordGauge("outbox.depth", float64(len(c.pendingKeys)), nil)

	return key, nil
}

// DeleteTransaction removes a confirmed transaction remotely and locally.
// Deletes have no offline path: without connectivity the call fails and the
// canonical set is left untouched.
func (c *SyncCoordinator) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return models.ErrChangeEventMissingID
	}

	return c.do(ctx, func() error {
		if !c.monitor.IsOnline() || c.breaker.IsOpen() {
			return ErrOffline
		}

		err := c.gateway.DeleteTransaction(ctx, id)
		switch {
		case err == nil:
			c.breaker.RecordSuccess()
			c.removeByID(id)
			c.recordCanonicalGauge()
			return nil

		case gateway.IsRejection(err):
			return err

		default:
			c.breaker.RecordFailure()
			c.monitor.SetOnline(false)
			return err
		}
	})
}

// CancelPending withdraws a queued submission before a drain confirms it.
// The entry leaves the durable outbox and the pending view; the remote store
// never sees it.
func (c *SyncCoordinator) CancelPending(ctx context.Context, key uuid.UUID) error {
	return c.do(ctx, func() error {
		if _, ok := c.pendingByKey[key]; !ok {
			return repositories.ErrOutboxEntryNotFound
		}

		c.forgetPending(key)
		c.syncLog.LogEntryDiscarded(ctx, key, "cancelled", 0)
		c.metrics.IncrementCounter("outbox.discarded", map[string]string{"reason": "cancelled"})
		c.metrics.RecordGauge("outbox.depth", float64(len(c.pendingKeys)), nil)
		return nil
	})
}

// SyncNow forces an immediate drain pass, regardless of what the monitor
// believes about connectivity. The remote store's answers are authoritative.
func (c *SyncCoordinator) SyncNow(ctx context.Context) error {
	return c.do(ctx, func() error {
		c.drainOutbox(ctx, "manual")
		return nil
	})
}

// drainOutbox replays pending entries in FIFO order. Each entry resolves
// independently: a confirmed write is admitted and removed, a remote
// rejection is discarded with a notice, and a connectivity failure leaves
// the entry queued for the next pass. One failing entry never blocks the
// entries behind it.
func (c *SyncCoordinator) drainOutbox(ctx context.Context, trigger string) {
	entries, err := c.outbox.ListPending()
	if err != nil {
		c.logger.Error("listing outbox entries", slog.String("error", err.Error()))
		return
	}
	if len(entries) == 0 {
		return
	}

	started := time.Now()
	c.syncLog.LogDrainStarted(ctx, trigger, len(entries))
	c.metrics.IncrementCounter("outbox.drain", map[string]string{"trigger": trigger})

	var synced, failed, discarded int
	for _, entry := range entries {
		confirmed, err := c.gateway.CreateTransaction(ctx, entry.Transaction())
		switch {
		case err == nil:
			c.breaker.RecordSuccess()
			c.admit(confirmed)
			c.forgetPending(entry.CorrelationKey)
			synced++

		case gateway.IsRejection(err):
			c.forgetPending(entry.CorrelationKey)
			c.syncLog.LogEntryDiscarded(ctx, entry.CorrelationKey, "remote rejection", entry.RetryCount)
			c.metrics.IncrementCounter("outbox.discarded", map[string]string{"reason": "rejected"})
			discarded++

		default:
			c.breaker.RecordFailure()
			failed++
			if c.maxRetries > 0 && entry.RetryCount+1 >= c.maxRetries {
				c.forgetPending(entry.CorrelationKey)
				c.syncLog.LogEntryDiscarded(ctx, entry.CorrelationKey, "retry cap reached", entry.RetryCount+1)
				c.metrics.IncrementCounter("outbox.discarded", map[string]string{"reason": "retry_cap"})
				discarded++
				failed--
				continue
			}
			if recordErr := c.outbox.RecordFailure(entry.CorrelationKey, err.Error()); recordErr != nil {
				c.logger.Error("recording outbox failure",
					slog.String("correlation_key", entry.CorrelationKey.String()),
					slog.String("error", recordErr.Error()),
				)
			}
		}
	}

	c.recordCanonicalGauge()
	c.metrics.RecordGauge("outbox.depth", float64(len(c.pendingKeys)), nil)

	elapsed := time.Since(started)
	c.metrics.RecordProcessingTime("outbox.drain", elapsed)
	c.syncLog.LogDrainCompleted(ctx, trigger, synced, failed, discarded, elapsed.Milliseconds())
}

// forgetPending removes one entry from the outbox and the in-memory pending view
func (c *SyncCoordinator) forgetPending(key uuid.UUID) {
	if err := c.outbox.Remove(key); err != nil {
		c.logger.Error("removing outbox entry",
			slog.String("correlation_key", key.String()),
			slog.String("error", err.Error()),
		)
	}

	delete(c.pendingByKey, key)
	for i := range c.pendingKeys {
		if c.pendingKeys[i] == key {
			c.pendingKeys = append(c.pendingKeys[:i], c.pendingKeys[i+1:]...)
			break
		}
	}
}

// SetFilter replaces the active month window and user scope. Filtering is a
// pure view concern; it never touches the canonical set or the outbox.
func (c *SyncCoordinator) SetFilter(ctx context.Context, window models.MonthWindow, userScope string) error {
	if userScope != models.ScopeAll {
		if _, err := uuid.Parse(userScope); err != nil {
			return ErrInvalidScope
		}
	}
	if window.Month < time.January || window.Month > time.December {
		return fmt.Errorf("month out of range: %d", window.Month)
	}

	return c.do(ctx, func() error {
		c.filter = models.FilterState{MonthWindow: window, UserScope: userScope}
		return nil
	})
}

// Snapshot returns a copy of the full canonical set in reverse-chronological order
func (c *SyncCoordinator) Snapshot(ctx context.Context) ([]models.Transaction, error) {
	var snapshot []models.Transaction
	err := c.do(ctx, func() error {
		if !c.bootstrapped {
			return ErrNotBootstrapped
		}
		snapshot = append([]models.Transaction(nil), c.canonical...)
		return nil
	})
	return snapshot, err
}

// FilteredTransactions returns the confirmed transactions matching the
// active filter, in reverse-chronological order. Queued submissions are not
// part of this view; they surface only through PendingTransactions until a
// drain confirms them.
func (c *SyncCoordinator) FilteredTransactions(ctx context.Context) ([]models.Transaction, error) {
	var filtered []models.Transaction
	err := c.do(ctx, func() error {
		if !c.bootstrapped {
			return ErrNotBootstrapped
		}
		filtered = c.aggregator.Filter(c.canonical, c.filter)
		return nil
	})
	return filtered, err
}

// PendingTransactions returns the queued-but-unconfirmed transactions in
// submission order
func (c *SyncCoordinator) PendingTransactions(ctx context.Context) ([]models.Transaction, error) {
	var pending []models.Transaction
	err := c.do(ctx, func() error {
		pending = make([]models.Transaction, 0, len(c.pendingKeys))
		for _, key := range c.pendingKeys {
			pending = append(pending, c.pendingByKey[key])
		}
		return nil
	})
	return pending, err
}

// Balances computes the per-method balances for the active filter over the
// confirmed set only
func (c *SyncCoordinator) Balances(ctx context.Context) (models.BalanceSummary, error) {
	var summary models.BalanceSummary
	err := c.do(ctx, func() error {
		if !c.bootstrapped {
			return ErrNotBootstrapped
		}
		filtered := c.aggregator.Filter(c.canonical, c.filter)
		summary = c.aggregator.Balances(filtered, c.goals)
		return nil
	})
	return summary, err
}

// CategoryTotal computes total expense spend for one category under the
// active filter
func (c *SyncCoordinator) CategoryTotal(ctx context.Context, category string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := c.do(ctx, func() error {
		if !c.bootstrapped {
			return ErrNotBootstrapped
		}
		filtered := c.aggregator.Filter(c.canonical, c.filter)
		total = c.aggregator.CategoryTotal(filtered, category)
		return nil
	})
	return total, err
}

// Projection computes the month-end spend estimate for the active filter
func (c *SyncCoordinator) Projection(ctx context.Context, now time.Time) (models.SpendProjection, error) {
	var projection models.SpendProjection
	err := c.do(ctx, func() error {
		if !c.bootstrapped {
			return ErrNotBootstrapped
		}
		filtered := c.aggregator.Filter(c.canonical, c.filter)
		projection = c.aggregator.Project(filtered, c.recurring, c.filter.MonthWindow, now)
		return nil
	})
	return projection, err
}

// PendingCount returns the durable outbox depth
func (c *SyncCoordinator) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := c.do(ctx, func() error {
		var countErr error
		count, countErr = c.outbox.PendingCount()
		return countErr
	})
	return count, err
}

func (c *SyncCoordinator) recordCanonicalGauge() {
	c.metrics.RecordGauge("sync.canonical_size", float64(len(c.canonical)), nil)
}

func (c *SyncCoordinator) recordConnectivityGauge(online bool) {
	value := 0.0
	if online {
		value = 1.0
	}
	c.metrics.RecordGauge("sync.connectivity", value, nil)
}
