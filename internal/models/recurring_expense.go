package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringExpense is an external-collaborator record: a fixed monthly
// commitment (rent, subscriptions). The projection treats these as fixed
// spend and excludes matching transactions from the variable daily average.
type RecurringExpense struct {
	ID         uuid.UUID       `json:"id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	DayOfMonth int             `json:"day_of_month"`
}

// TotalFixed sums the fixed monthly commitments
func TotalFixed(expenses []RecurringExpense) decimal.Decimal {
	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}
	return total
}

// MatchesRecurring reports whether a transaction description names one of
// the recurring expenses. Matching is exact by name; fuzzier reconciliation
// belongs to the collaborator that owns the recurring records.
func MatchesRecurring(description string, expenses []RecurringExpense) bool {
	for i := range expenses {
		if expenses[i].Name == description {
			return true
		}
	}
	return false
}
