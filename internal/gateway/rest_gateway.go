package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/KimJesus22/LanaSync/internal/config"
	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/google/uuid"
)

// restGateway talks to the remote store's REST API. Transport failures and
// 5xx responses classify as ErrUnavailable, 4xx responses as ErrRejected.
type restGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTGateway(cfg *config.GatewayConfig) RemoteGateway {
	return &restGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

func (g *restGateway) FetchTransactions(ctx context.Context, scope uuid.UUID) ([]models.Transaction, error) {
	endpoint := fmt.Sprintf("/transactions?owner_id=%s", url.QueryEscape(scope.String()))

	var transactions []models.Transaction
	if err := g.doJSON(ctx, http.MethodGet, endpoint, nil, &transactions); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	return transactions, nil
}

func (g *restGateway) CreateTransaction(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	var confirmed models.Transaction
	if err := g.doJSON(ctx, http.MethodPost, "/transactions", transaction, &confirmed); err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	confirmed.SyncState = models.SyncStateConfirmed
	return confirmed, nil
}

func (g *restGateway) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	endpoint := fmt.Sprintf("/transactions/%s", id)
	if err := g.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	return nil
}

func (g *restGateway) FetchSavingsGoals(ctx context.Context, scope uuid.UUID) ([]models.SavingsGoal, error) {
	endpoint := fmt.Sprintf("/savings-goals?owner_id=%s", url.QueryEscape(scope.String()))

	var goals []models.SavingsGoal
	if err := g.doJSON(ctx, http.MethodGet, endpoint, nil, &goals); err != nil {
		return nil, fmt.Errorf("fetch savings goals: %w", err)
	}

	return goals, nil
}

func (g *restGateway) FetchRecurringExpenses(ctx context.Context, scope uuid.UUID) ([]models.RecurringExpense, error) {
	endpoint := fmt.Sprintf("/recurring-expenses?owner_id=%s", url.QueryEscape(scope.String()))

	var expenses []models.RecurringExpense
	if err := g.doJSON(ctx, http.MethodGet, endpoint, nil, &expenses); err != nil {
		return nil, fmt.Errorf("fetch recurring expenses: %w", err)
	}

	return expenses, nil
}

func (g *restGateway) Ping(ctx context.Context) error {
	return g.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

func (g *restGateway) doJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return nil
}
