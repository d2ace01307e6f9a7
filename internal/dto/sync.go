package dto

import (
	"github.com/KimJesus22/LanaSync/internal/models"
)

// SetFilterRequest selects the month window and user scope for derived views
type SetFilterRequest struct {
	Year      int    `json:"year" validate:"required,min=2000,max=2200"`
	Month     int    `json:"month" validate:"required,min=1,max=12"`
	UserScope string `json:"user_scope" validate:"required"`
}

// SetScopeRequest switches the engine to a different owner scope
type SetScopeRequest struct {
	Scope string `json:"scope" validate:"required,uuid"`
}

// BalancesResponse carries the derived per-method balances
type BalancesResponse struct {
	Cash          string `json:"cash"`
	Voucher       string `json:"voucher"`
	RealAvailable string `json:"real_available"`
}

// FromBalanceSummary converts the balance summary to its wire representation
func FromBalanceSummary(s models.BalanceSummary) BalancesResponse {
	return BalancesResponse{
		Cash:          s.Cash.String(),
		Voucher:       s.Voucher.String(),
		RealAvailable: s.RealAvailable.String(),
	}
}

// CategoryTotalResponse carries one category's expense total
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// ProjectionResponse carries the month-end spend estimate
type ProjectionResponse struct {
	DailyAverage      string `json:"daily_average"`
	ProjectedVariable string `json:"projected_variable"`
	TotalFixed        string `json:"total_fixed"`
	TotalProjected    string `json:"total_projected"`
	ProjectedBalance  string `json:"projected_balance"`
	DaysInMonth       int    `json:"days_in_month"`
	ElapsedDays       int    `json:"elapsed_days"`
	Overspending      bool   `json:"overspending"`
}

// FromSpendProjection converts the projection to its wire representation
func FromSpendProjection(p models.SpendProjection) ProjectionResponse {
	return ProjectionResponse{
		DailyAverage:      p.DailyAverage.String(),
		ProjectedVariable: p.ProjectedVariable.String(),
		TotalFixed:        p.TotalFixed.String(),
		TotalProjected:    p.TotalProjected.String(),
		ProjectedBalance:  p.ProjectedBalance.String(),
		DaysInMonth:       p.DaysInMonth,
		ElapsedDays:       p.ElapsedDays,
		Overspending:      p.Overspending,
	}
}

// PendingCountResponse carries the durable outbox depth
type PendingCountResponse struct {
	Pending int64 `json:"pending"`
}

// SyncNowResponse acknowledges a forced drain pass
type SyncNowResponse struct {
	Status  string `json:"status"`
	Pending int64  `json:"pending"`
}
