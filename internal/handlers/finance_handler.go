package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/KimJesus22/LanaSync/internal/dto"
	"github.com/KimJesus22/LanaSync/internal/errors"
	"github.com/KimJesus22/LanaSync/internal/gateway"
	"github.com/KimJesus22/LanaSync/internal/models"
	"github.com/KimJesus22/LanaSync/internal/repositories"
	"github.com/KimJesus22/LanaSync/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// FinanceHandler exposes the canonical transaction views and write operations
type FinanceHandler struct {
	coordinator services.SyncCoordinatorInterface
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(coordinator services.SyncCoordinatorInterface) *FinanceHandler {
	return &FinanceHandler{coordinator: coordinator}
}

// ListTransactions returns the confirmed transactions matching the active
// filter. Queued submissions are listed separately by ListPendingTransactions.
func (h *FinanceHandler) ListTransactions(c echo.Context) error {
	transactions, err := h.coordinator.FilteredTransactions(c.Request().Context())
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.FromTransactions(transactions),
		Count:        len(transactions),
	})
}

// ListPendingTransactions returns queued-but-unconfirmed transactions in
// submission order
func (h *FinanceHandler) ListPendingTransactions(c echo.Context) error {
	pending, err := h.coordinator.PendingTransactions(c.Request().Context())
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.FromTransactions(pending),
		Count:        len(pending),
	})
}

// SubmitTransaction records a new transaction, writing through to the remote
// store when possible and queueing durably otherwise
func (h *FinanceHandler) SubmitTransaction(c echo.Context) error {
	var req dto.SubmitTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	transaction, err := req.ToModel()
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))
	}

	result, err := h.coordinator.SubmitTransaction(c.Request().Context(), transaction)
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	response := dto.SubmitTransactionResponse{Status: string(result.Status)}
	if result.Status == services.SubmitConfirmed {
		confirmed := dto.FromTransaction(result.Transaction)
		response.Transaction = &confirmed
		return c.JSON(http.StatusCreated, response)
	}

	response.CorrelationKey = result.CorrelationKey.String()
	return c.JSON(http.StatusAccepted, response)
}

// DeleteTransaction removes a confirmed transaction. Deletes require
// connectivity; without it the request fails with SYNC_001.
func (h *FinanceHandler) DeleteTransaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	if err := h.coordinator.DeleteTransaction(c.Request().Context(), id); err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CancelPendingTransaction withdraws a queued submission by its correlation
// key before any drain confirms it
func (h *FinanceHandler) CancelPendingTransaction(c echo.Context) error {
	key, err := uuid.Parse(c.Param("key"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Correlation key must be a valid UUID"))
	}

	if err := h.coordinator.CancelPending(c.Request().Context(), key); err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetBalances returns the derived balances for the active filter
func (h *FinanceHandler) GetBalances(c echo.Context) error {
	summary, err := h.coordinator.Balances(c.Request().Context())
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.FromBalanceSummary(summary))
}

// GetCategoryTotal returns total expense spend for one category under the
// active filter
func (h *FinanceHandler) GetCategoryTotal(c echo.Context) error {
	category := c.Param("category")
	if category == "" {
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails("Category is required"))
	}

	total, err := h.coordinator.CategoryTotal(c.Request().Context(), category)
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CategoryTotalResponse{
		Category: category,
		Total:    total.String(),
	})
}

// GetProjection returns the month-end spend estimate for the active filter
func (h *FinanceHandler) GetProjection(c echo.Context) error {
	projection, err := h.coordinator.Projection(c.Request().Context(), nowUTC())
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.FromSpendProjection(projection))
}

// sendCoordinatorError maps coordinator and gateway failures onto the
// standardized error codes
func sendCoordinatorError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrNotBootstrapped):
		return SendError(c, errors.SyncNotBootstrapped)

	case stderrors.Is(err, services.ErrOffline):
		return SendError(c, errors.SyncOffline)

	case stderrors.Is(err, services.ErrScopeMismatch):
		return SendError(c, errors.SyncScopeMismatch)

	case stderrors.Is(err, services.ErrInvalidScope):
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails(err.Error()))

	case stderrors.Is(err, repositories.ErrOutboxEntryNotFound):
		return SendError(c, errors.OutboxEntryNotFound)

	case gateway.IsRejection(err):
		return SendError(c, errors.TransactionRejected, errors.WithDetails(err.Error()))

	case gateway.IsUnavailable(err):
		return SendError(c, errors.SystemGatewayUnavailable)

	case stderrors.Is(err, models.ErrInvalidAmount):
		return SendError(c, errors.TransactionInvalidAmount)

	case stderrors.Is(err, models.ErrInvalidTransactionKind),
		stderrors.Is(err, models.ErrInvalidPaymentMethod):
		return SendError(c, errors.TransactionInvalidKind)

	case stderrors.Is(err, models.ErrMissingOwner),
		stderrors.Is(err, models.ErrChangeEventMissingID):
		return SendError(c, errors.ValidationRequiredField, errors.WithDetails(err.Error()))

	default:
		return SendSystemError(c, err)
	}
}
