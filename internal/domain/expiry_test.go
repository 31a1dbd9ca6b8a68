package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveExpiry(t *testing.T) {
	start := date(2022, time.March, 10)

	t.Run("ExplicitEndDateWins", func(t *testing.T) {
		end := date(2027, time.June, 30)
		got := EffectiveExpiry(&end, 2021, &start, 5)
		require.NotNil(t, got)
		assert.Equal(t, end, *got)
	})

	t.Run("CohortHorizonFromSession", func(t *testing.T) {
		// Admitted in the 2021-2022 session: the seat runs to Jan 1, 2026.
		got := EffectiveExpiry(nil, 2021, &start, 5)
		require.NotNil(t, got)
		assert.Equal(t, date(2026, time.January, 1), *got)
	})

	t.Run("LateGrantIntoExpiredCohort", func(t *testing.T) {
		// Horizon (Jan 1, 2026) precedes the start date: fall back to one
		// year from start.
		lateStart := date(2026, time.September, 1)
		got := EffectiveExpiry(nil, 2021, &lateStart, 5)
		require.NotNil(t, got)
		assert.Equal(t, date(2027, time.September, 1), *got)
	})

	t.Run("NoSessionFallsBackToStartPlusYear", func(t *testing.T) {
		got := EffectiveExpiry(nil, 0, &start, 5)
		require.NotNil(t, got)
		assert.Equal(t, date(2023, time.March, 10), *got)
	})

	t.Run("NothingKnownIsUndetermined", func(t *testing.T) {
		assert.Nil(t, EffectiveExpiry(nil, 0, nil, 5))
	})
}

func TestAddMonthsClamped(t *testing.T) {
	t.Run("PlainAddition", func(t *testing.T) {
		got := AddMonthsClamped(date(2026, time.January, 15), 12)
		assert.Equal(t, date(2027, time.January, 15), got)
	})

	t.Run("ClampsToShorterMonth", func(t *testing.T) {
		got := AddMonthsClamped(date(2026, time.January, 31), 1)
		assert.Equal(t, date(2026, time.February, 28), got)
	})

	t.Run("LeapYearFebruary", func(t *testing.T) {
		got := AddMonthsClamped(date(2028, time.January, 31), 1)
		assert.Equal(t, date(2028, time.February, 29), got)
	})

	t.Run("YearRollover", func(t *testing.T) {
		got := AddMonthsClamped(date(2026, time.November, 30), 3)
		assert.Equal(t, date(2027, time.February, 28), got)
	})
}

func TestDaysUntil(t *testing.T) {
	t.Run("WholeDays", func(t *testing.T) {
		assert.Equal(t, 90, DaysUntil(date(2026, time.January, 1), date(2026, time.April, 1)))
	})

	t.Run("PartialDaysDoNotShift", func(t *testing.T) {
		from := time.Date(2026, time.January, 1, 23, 59, 0, 0, time.UTC)
		to := time.Date(2026, time.January, 2, 0, 1, 0, 0, time.UTC)
		assert.Equal(t, 1, DaysUntil(from, to))
	})

	t.Run("NegativeWhenPast", func(t *testing.T) {
		assert.Equal(t, -5, DaysUntil(date(2026, time.January, 10), date(2026, time.January, 5)))
	})

	t.Run("SameDayIsZero", func(t *testing.T) {
		assert.Equal(t, 0, DaysUntil(date(2026, time.January, 10), date(2026, time.January, 10)))
	})
}
