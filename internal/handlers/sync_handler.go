package handlers

import (
	"net/http"
	"time"

	"github.com/KimJesus22/LanaSync/internal/dto"
	"github.com/KimJesus22/LanaSync/internal/errors"
	"github.com/KimJesus22/LanaSync/internal/models"
	"github.com/KimJesus22/LanaSync/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SyncHandler exposes sync engine controls: forced drains, filter changes
// and outbox introspection
type SyncHandler struct {
	coordinator services.SyncCoordinatorInterface
	monitor     services.ConnectivityMonitorInterface
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(coordinator services.SyncCoordinatorInterface, monitor services.ConnectivityMonitorInterface) *SyncHandler {
	return &SyncHandler{
		coordinator: coordinator,
		monitor:     monitor,
	}
}

// SyncNow forces an immediate outbox drain pass
func (h *SyncHandler) SyncNow(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.coordinator.SyncNow(ctx); err != nil {
		return sendCoordinatorError(c, err)
	}

	pending, err := h.coordinator.PendingCount(ctx)
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.SyncNowResponse{
		Status:  "completed",
		Pending: pending,
	})
}

// SetFilter replaces the active month window and user scope
func (h *SyncHandler) SetFilter(c echo.Context) error {
	var req dto.SetFilterRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	window := models.MonthWindow{Year: req.Year, Month: time.Month(req.Month)}
	if err := h.coordinator.SetFilter(c.Request().Context(), window, req.UserScope); err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetScope switches the engine to a different owner scope and reloads the
// canonical set for it
func (h *SyncHandler) SetScope(c echo.Context) error {
	var req dto.SetScopeRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	}

	scope, err := uuid.Parse(req.Scope)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid scope identifier"))
	}

	if err := h.coordinator.SetScope(c.Request().Context(), scope); err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetPendingCount returns the durable outbox depth
func (h *SyncHandler) GetPendingCount(c echo.Context) error {
	pending, err := h.coordinator.PendingCount(c.Request().Context())
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, dto.PendingCountResponse{Pending: pending})
}

// GetStatus reports the engine's connectivity view and outbox depth
func (h *SyncHandler) GetStatus(c echo.Context) error {
	pending, err := h.coordinator.PendingCount(c.Request().Context())
	if err != nil {
		return sendCoordinatorError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"online":  h.monitor.IsOnline(),
		"pending": pending,
	})
}
