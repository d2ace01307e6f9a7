package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsGoal is an external-collaborator record: money the user has already
// committed toward a goal. Only CurrentAmount participates in the
// real-available-balance derivation.
type SavingsGoal struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
}

// TotalCommitted sums the current amounts across all goals
func TotalCommitted(goals []SavingsGoal) decimal.Decimal {
	total := decimal.Zero
	for i := range goals {
		total = total.Add(goals[i].CurrentAmount)
	}
	return total
}
