package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KimJesus22/LanaSync/internal/config"
	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RESTGatewayTestSuite struct {
	suite.Suite
	scope uuid.UUID
}

func TestRESTGatewaySuite(t *testing.T) {
	suite.Run(t, new(RESTGatewayTestSuite))
}

func (s *RESTGatewayTestSuite) SetupTest() {
	s.scope = uuid.New()
}

func (s *RESTGatewayTestSuite) gatewayFor(server *httptest.Server) RemoteGateway {
	return NewRESTGateway(&config.GatewayConfig{
		BaseURL:        server.URL,
		RequestTimeout: 2 * time.Second,
		APIKey:         "test-key",
	})
}

func (s *RESTGatewayTestSuite) transaction() models.Transaction {
	return models.Transaction{
		Amount:        decimal.NewFromInt(45),
		Kind:          models.TransactionKindExpense,
		Category:      "Food",
		PaymentMethod: models.PaymentMethodCash,
		OwnerID:       s.scope,
		OccurredAt:    time.Now().UTC(),
	}
}

func (s *RESTGatewayTestSuite) TestFetchTransactions() {
	expected := []models.Transaction{
		{ID: uuid.New(), Amount: decimal.NewFromInt(10), Kind: models.TransactionKindExpense,
			Category: "Food", PaymentMethod: models.PaymentMethodCash, OwnerID: s.scope,
			OccurredAt: time.Now().UTC(), SyncState: models.SyncStateConfirmed},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodGet, r.Method)
		s.Equal("/transactions", r.URL.Path)
		s.Equal(s.scope.String(), r.URL.Query().Get("owner_id"))
		s.Equal("Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	transactions, err := s.gatewayFor(server).FetchTransactions(context.Background(), s.scope)
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Equal(expected[0].ID, transactions[0].ID)
}

func (s *RESTGatewayTestSuite) TestCreateTransaction_ConfirmsRecord() {
	serverID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)

		var received models.Transaction
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&received))
		received.ID = serverID

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(received)
	}))
	defer server.Close()

	confirmed, err := s.gatewayFor(server).CreateTransaction(context.Background(), s.transaction())
	s.Require().NoError(err)
	s.Equal(serverID, confirmed.ID)
	s.Equal(models.SyncStateConfirmed, confirmed.SyncState)
}

func (s *RESTGatewayTestSuite) TestServerErrorIsUnavailable() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := s.gatewayFor(server).CreateTransaction(context.Background(), s.transaction())
	s.True(IsUnavailable(err))
	s.False(IsRejection(err))
}

func (s *RESTGatewayTestSuite) TestClientErrorIsRejection() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "amount exceeds limit", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := s.gatewayFor(server).CreateTransaction(context.Background(), s.transaction())
	s.True(IsRejection(err))
	s.False(IsUnavailable(err))
	s.Contains(err.Error(), "amount exceeds limit")
}

func (s *RESTGatewayTestSuite) TestTransportFailureIsUnavailable() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := s.gatewayFor(server).Ping(context.Background())
	s.True(IsUnavailable(err))
}

func (s *RESTGatewayTestSuite) TestMalformedResponseIsUnavailable() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	_, err := s.gatewayFor(server).FetchTransactions(context.Background(), s.scope)
	s.True(IsUnavailable(err))
}

func (s *RESTGatewayTestSuite) TestDeleteTransaction() {
	id := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodDelete, r.Method)
		s.Equal("/transactions/"+id.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	s.NoError(s.gatewayFor(server).DeleteTransaction(context.Background(), id))
}

type ChangeEventDecodeTestSuite struct {
	suite.Suite
}

func TestChangeEventDecodeSuite(t *testing.T) {
	suite.Run(t, new(ChangeEventDecodeTestSuite))
}

func (s *ChangeEventDecodeTestSuite) TestDecodeValidEvent() {
	record := models.Transaction{
		ID:            uuid.New(),
		Amount:        decimal.NewFromInt(30),
		Kind:          models.TransactionKindExpense,
		Category:      "Transport",
		PaymentMethod: models.PaymentMethodVoucher,
		OwnerID:       uuid.New(),
		OccurredAt:    time.Now().UTC(),
		SyncState:     models.SyncStateConfirmed,
	}
	body, err := json.Marshal(models.ChangeEvent{Type: models.ChangeEventInsert, Transaction: record})
	s.Require().NoError(err)

	event, err := decodeChangeEvent(body)
	s.Require().NoError(err)
	s.Equal(models.ChangeEventInsert, event.Type)
	s.Equal(record.ID, event.Transaction.ID)
}

func (s *ChangeEventDecodeTestSuite) TestDecodeMalformed() {
	testCases := []struct {
		name string
		body string
	}{
		{"not json", "{oops"},
		{"unknown type", `{"type":"upsert","record":{"id":"` + uuid.NewString() + `"}}`},
		{"missing record id", `{"type":"delete","record":{}}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := decodeChangeEvent([]byte(tc.body))
			s.Error(err)
		})
	}
}
