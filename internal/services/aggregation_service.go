package services

import (
	"time"

	"github.com/KimJesus22/LanaSync/internal/models"

	"github.com/shopspring/decimal"
)

// AggregationService derives balances, category totals and spend projections
// from canonical-set snapshots. It holds no state of its own; every method is
// a pure function of its inputs, so results are stable for a given snapshot
// regardless of when or how often they are computed.
type AggregationService struct{}

func NewAggregationService() AggregationServiceInterface {
	return &AggregationService{}
}

// Filter returns the transactions matching the month window and user scope,
// preserving the snapshot's ordering
func (s *AggregationService) Filter(snapshot []models.Transaction, filter models.FilterState) []models.Transaction {
	filtered := make([]models.Transaction, 0, len(snapshot))
	for i := range snapshot {
		if filter.Matches(&snapshot[i]) {
			filtered = append(filtered, snapshot[i])
		}
	}
	return filtered
}

// Balance sums signed amounts for one payment method: income adds, expense
// subtracts. An empty input yields exactly zero.
func (s *AggregationService) Balance(filtered []models.Transaction, method string) decimal.Decimal {
	total := decimal.Zero
	for i := range filtered {
		if filtered[i].PaymentMethod != method {
			continue
		}
		total = total.Add(filtered[i].Signed())
	}
	return total
}

// CategoryTotal sums expense amounts for one category. Income is never
// attributed to a category total.
func (s *AggregationService) CategoryTotal(filtered []models.Transaction, category string) decimal.Decimal {
	total := decimal.Zero
	for i := range filtered {
		if filtered[i].Kind != models.TransactionKindExpense {
			continue
		}
		if filtered[i].Category != category {
			continue
		}
		total = total.Add(filtered[i].Amount)
	}
	return total
}

// Balances computes the per-method balances plus the real available amount:
// cash minus everything already committed to savings goals. RealAvailable can
// go negative when commitments exceed the cash balance.
func (s *AggregationService) Balances(filtered []models.Transaction, goals []models.SavingsGoal) models.BalanceSummary {
	cash := s.Balance(filtered, models.PaymentMethodCash)
	voucher := s.Balance(filtered, models.PaymentMethodVoucher)

	return models.BalanceSummary{
		Cash:          cash,
		Voucher:       voucher,
		RealAvailable: cash.Sub(models.TotalCommitted(goals)),
	}
}

// Project estimates month-end spend. Variable spend so far (expenses whose
// description does not name a recurring commitment) is averaged over elapsed
// days and extrapolated across the whole month, then fixed commitments are
// added on top. The projected balance is month income minus total projected
// spend.
func (s *AggregationService) Project(filtered []models.Transaction, recurring []models.RecurringExpense, window models.MonthWindow, now time.Time) models.SpendProjection {
	daysInMonth := time.Date(window.Year, window.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	elapsedDays := daysInMonth
	if window.Contains(now) {
		elapsedDays = now.Day()
	}
	if elapsedDays < 1 {
		elapsedDays = 1
	}

	variableSpent := decimal.Zero
	income := decimal.Zero
	for i := range filtered {
		t := &filtered[i]
		if t.Kind == models.TransactionKindIncome {
			income = income.Add(t.Amount)
			continue
		}
		if models.MatchesRecurring(t.Description, recurring) {
			continue
		}
		variableSpent = variableSpent.Add(t.Amount)
	}

	dailyAverage := variableSpent.Div(decimal.NewFromInt(int64(elapsedDays)))
	projectedVariable := dailyAverage.Mul(decimal.NewFromInt(int64(daysInMonth)))
	totalFixed := models.TotalFixed(recurring)
	totalProjected := projectedVariable.Add(totalFixed)
	projectedBalance := income.Sub(totalProjected)

	return models.SpendProjection{
		DailyAverage:      dailyAverage,
		ProjectedVariable: projectedVariable,
		TotalFixed:        totalFixed,
		TotalProjected:    totalProjected,
		ProjectedBalance:  projectedBalance,
		DaysInMonth:       daysInMonth,
		ElapsedDays:       elapsedDays,
		Overspending:      projectedBalance.IsNegative(),
	}
}
