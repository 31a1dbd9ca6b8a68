package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcademicYear(t *testing.T) {
	cases := []struct {
		label string
		start int
		end   int
	}{
		{"2025-2026", 2025, 2026},
		{"2025/2026", 2025, 2026},
		{"2025/26", 2025, 2026},
		{"2025 - 2026", 2025, 2026},
		{"2025", 2025, 2026},
		{"Session 2021-2022", 2021, 2022},
	}
	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			ay, err := ParseAcademicYear(c.label)
			require.NoError(t, err)
			assert.Equal(t, c.start, ay.Start)
			assert.Equal(t, c.end, ay.End)
		})
	}

	t.Run("Rejects", func(t *testing.T) {
		for _, label := range []string{"", "abc", "2026-2025", "2020-2030"} {
			_, err := ParseAcademicYear(label)
			assert.Error(t, err, "label %q", label)
		}
	})
}

func TestAcademicYearMatchesCancelYear(t *testing.T) {
	ay, err := ParseAcademicYear("2025-2026")
	require.NoError(t, err)

	assert.True(t, ay.MatchesCancelYear(2026)) // ends in the cancel year
	assert.False(t, ay.MatchesCancelYear(2025))
	assert.False(t, ay.MatchesCancelYear(2027))

	single, err := ParseAcademicYear("2025")
	require.NoError(t, err)
	assert.True(t, single.MatchesCancelYear(2026))
}

func TestWaitlistEntryBefore(t *testing.T) {
	a := &WaitlistEntry{ID: 1, Score: 80, AddedAt: date(2026, 1, 1)}
	b := &WaitlistEntry{ID: 2, Score: 90, AddedAt: date(2026, 1, 2)}
	c := &WaitlistEntry{ID: 3, Score: 80, AddedAt: date(2026, 1, 2)}
	d := &WaitlistEntry{ID: 4, Score: 80, AddedAt: date(2026, 1, 2)}

	assert.True(t, b.Before(a), "higher score ranks first")
	assert.True(t, a.Before(c), "earlier enqueue breaks score ties")
	assert.True(t, c.Before(d), "entry id breaks exact ties")
	assert.False(t, d.Before(c))
}
