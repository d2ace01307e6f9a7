package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type OutboxRepositoryTestSuite struct {
	suite.Suite
	dbPath string
	db     *gorm.DB
	repo   OutboxRepositoryInterface
}

func TestOutboxRepositorySuite(t *testing.T) {
	suite.Run(t, new(OutboxRepositoryTestSuite))
}

func (s *OutboxRepositoryTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.T().TempDir(), "outbox.db")
	s.db = s.open()
	s.repo = NewOutboxRepository(s.db)
}

func (s *OutboxRepositoryTestSuite) open() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(s.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(db.AutoMigrate(&models.OutboxEntry{}))
	return db
}

func (s *OutboxRepositoryTestSuite) TearDownTest() {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func (s *OutboxRepositoryTestSuite) transaction(amount int64) models.Transaction {
	return models.Transaction{
		Amount:        decimal.NewFromInt(amount),
		Kind:          models.TransactionKindExpense,
		Category:      "Food",
		PaymentMethod: models.PaymentMethodCash,
		OwnerID:       uuid.New(),
		Description:   gofakeit.ProductName(),
		OccurredAt:    time.Now().UTC(),
	}
}

func (s *OutboxRepositoryTestSuite) TestEnqueue_AssignsCorrelationKey() {
	key, err := s.repo.Enqueue(s.transaction(10))
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, key)

	count, err := s.repo.PendingCount()
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *OutboxRepositoryTestSuite) TestListPending_FIFOOrder() {
	var keys []uuid.UUID
	for _, amount := range []int64{10, 20, 30} {
		key, err := s.repo.Enqueue(s.transaction(amount))
		s.Require().NoError(err)
		keys = append(keys, key)
	}

	entries, err := s.repo.ListPending()
	s.Require().NoError(err)
	s.Require().Len(entries, 3)

	for i, key := range keys {
		s.Equal(key, entries[i].CorrelationKey)
	}
	s.Less(entries[0].Seq, entries[1].Seq)
	s.Less(entries[1].Seq, entries[2].Seq)
}

func (s *OutboxRepositoryTestSuite) TestRemove_Idempotent() {
	key, err := s.repo.Enqueue(s.transaction(10))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Remove(key))
	s.Require().NoError(s.repo.Remove(key))
	s.Require().NoError(s.repo.Remove(uuid.New()))

	count, err := s.repo.PendingCount()
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *OutboxRepositoryTestSuite) TestRecordFailure_TracksRetries() {
	key, err := s.repo.Enqueue(s.transaction(10))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.RecordFailure(key, "connection refused"))
	s.Require().NoError(s.repo.RecordFailure(key, "timeout"))

	entries, err := s.repo.ListPending()
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(2, entries[0].RetryCount)
	s.Equal("timeout", entries[0].LastError)
}

func (s *OutboxRepositoryTestSuite) TestRecordFailure_UnknownKey() {
	err := s.repo.RecordFailure(uuid.New(), "whatever")
	s.ErrorIs(err, ErrOutboxEntryNotFound)
}

func (s *OutboxRepositoryTestSuite) TestEntriesSurviveReopen() {
	original := s.transaction(42)
	key, err := s.repo.Enqueue(original)
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	s.db = s.open()
	s.repo = NewOutboxRepository(s.db)

	entries, err := s.repo.ListPending()
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(key, entries[0].CorrelationKey)

	restored := entries[0].Transaction()
	s.True(restored.Amount.Equal(original.Amount))
	s.Equal(original.Category, restored.Category)
	s.Equal(models.SyncStatePending, restored.SyncState)
}

func (s *OutboxRepositoryTestSuite) TestRetryBookkeepingDoesNotReorder() {
	firstKey, err := s.repo.Enqueue(s.transaction(10))
	s.Require().NoError(err)
	secondKey, err := s.repo.Enqueue(s.transaction(20))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.RecordFailure(firstKey, "unreachable"))

	entries, err := s.repo.ListPending()
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(firstKey, entries[0].CorrelationKey)
	s.Equal(secondKey, entries[1].CorrelationKey)
}
