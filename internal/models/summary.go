package models

import "github.com/shopspring/decimal"

// BalanceSummary holds the derived per-method balances for the active filter.
// RealAvailable is the cash balance minus the total committed to savings
// goals; it can go negative.
type BalanceSummary struct {
	Cash          decimal.Decimal `json:"cash"`
	Voucher       decimal.Decimal `json:"voucher"`
	RealAvailable decimal.Decimal `json:"real_available"`
}

// SpendProjection is the month-end estimate derived from spend so far:
// fixed commitments plus the variable daily average extrapolated across the
// whole month.
type SpendProjection struct {
	DailyAverage      decimal.Decimal `json:"daily_average"`
	ProjectedVariable decimal.Decimal `json:"projected_variable"`
	TotalFixed        decimal.Decimal `json:"total_fixed"`
	TotalProjected    decimal.Decimal `json:"total_projected"`
	ProjectedBalance  decimal.Decimal `json:"projected_balance"`
	DaysInMonth       int             `json:"days_in_month"`
	ElapsedDays       int             `json:"elapsed_days"`
	Overspending      bool            `json:"overspending"`
}
