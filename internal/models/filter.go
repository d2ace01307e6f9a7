package models

import (
	"time"

	"github.com/google/uuid"
)

// ScopeAll selects transactions from every household member
const ScopeAll = "all"

// MonthWindow identifies one calendar month
type MonthWindow struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CurrentMonthWindow returns the window containing now
func CurrentMonthWindow(now time.Time) MonthWindow {
	return MonthWindow{Year: now.Year(), Month: now.Month()}
}

// Contains reports calendar-month equality for the given instant
func (w MonthWindow) Contains(t time.Time) bool {
	return t.Year() == w.Year && t.Month() == w.Month
}

// FilterState is the user-selected month and user-scope filter pair. It is
// mutated only through the coordinator and read by the aggregation engine.
type FilterState struct {
	MonthWindow MonthWindow
	UserScope   string // ScopeAll or a user UUID string
}

// ScopeUserID parses the user scope; ok is false when the scope is "all"
func (f FilterState) ScopeUserID() (uuid.UUID, bool) {
	if f.UserScope == "" || f.UserScope == ScopeAll {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(f.UserScope)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Matches reports whether a transaction falls inside the filter window and scope
func (f FilterState) Matches(t *Transaction) bool {
	if !f.MonthWindow.Contains(t.OccurredAt) {
		return false
	}

	if scopeID, scoped := f.ScopeUserID(); scoped && t.OwnerID != scopeID {
		return false
	}

	return true
}
