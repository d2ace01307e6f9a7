package handlers

import (
	"net/http"
	"time"

	"github.com/KimJesus22/LanaSync/internal/errors"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db *gorm.DB
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db *gorm.DB) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

// HealthCheck reports process health. The outbox store must be reachable;
// remote connectivity is reported separately through the sync status endpoint.
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return SendError(c, errors.SystemGatewayUnavailable, errors.WithDetails("Outbox store unavailable"))
	}

	if err := sqlDB.Ping(); err != nil {
		return SendError(c, errors.SystemGatewayUnavailable, errors.WithDetails("Outbox store unavailable"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
