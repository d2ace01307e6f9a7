package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type FilterStateTestSuite struct {
	suite.Suite
}

func TestFilterStateSuite(t *testing.T) {
	suite.Run(t, new(FilterStateTestSuite))
}

func (s *FilterStateTestSuite) TestScopeUserID() {
	userID := uuid.New()

	id, scoped := FilterState{UserScope: userID.String()}.ScopeUserID()
	s.True(scoped)
	s.Equal(userID, id)

	_, scoped = FilterState{UserScope: ScopeAll}.ScopeUserID()
	s.False(scoped)

	_, scoped = FilterState{UserScope: ""}.ScopeUserID()
	s.False(scoped)

	_, scoped = FilterState{UserScope: "not-a-uuid"}.ScopeUserID()
	s.False(scoped)
}

func (s *FilterStateTestSuite) TestMatches() {
	owner := uuid.New()
	other := uuid.New()
	window := MonthWindow{Year: 2026, Month: time.May}

	inWindow := Transaction{
		OwnerID:    owner,
		OccurredAt: time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
	}
	outOfWindow := Transaction{
		OwnerID:    owner,
		OccurredAt: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	}

	all := FilterState{MonthWindow: window, UserScope: ScopeAll}
	s.True(all.Matches(&inWindow))
	s.False(all.Matches(&outOfWindow))

	scoped := FilterState{MonthWindow: window, UserScope: owner.String()}
	s.True(scoped.Matches(&inWindow))

	foreign := FilterState{MonthWindow: window, UserScope: other.String()}
	s.False(foreign.Matches(&inWindow))
}

func (s *FilterStateTestSuite) TestCurrentMonthWindow() {
	now := time.Date(2026, time.September, 1, 8, 30, 0, 0, time.UTC)
	window := CurrentMonthWindow(now)

	s.Equal(2026, window.Year)
	s.Equal(time.September, window.Month)
	s.True(window.Contains(now))
	s.False(window.Contains(now.AddDate(0, 1, 0)))
}
