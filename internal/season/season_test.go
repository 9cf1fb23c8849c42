package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "first day of season", date: day(2024, time.September, 1), want: "2024-2025"},
		{name: "last day of season", date: day(2025, time.August, 31), want: "2024-2025"},
		{name: "december", date: day(2024, time.December, 31), want: "2024-2025"},
		{name: "january", date: day(2025, time.January, 1), want: "2024-2025"},
		{name: "day after season end", date: day(2025, time.September, 1), want: "2025-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.date).String())
		})
	}
}

func TestParse(t *testing.T) {
	id, err := Parse("2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 2024, id.StartYear)

	for _, bad := range []string{"", "2024", "2024-2026", "abcd-abce", "2024-2025-2026", "2025-2024"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidSeason, bad)
	}
}

func TestBounds(t *testing.T) {
	w, err := Bounds("2024-2025")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.September, 1), w.Start)
	assert.Equal(t, day(2025, time.August, 31), w.End)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(day(2024, time.August, 31)))
	assert.False(t, w.Contains(day(2025, time.September, 1)))

	_, err = Bounds("bogus")
	assert.ErrorIs(t, err, ErrInvalidSeason)
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-10-05")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.October, 5), got)

	got, ok = ParseDate("2024-10-05T13:45:00.000Z")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.October, 5), got)

	got, ok = ParseDate("2024-10-05 08:00:00")
	require.True(t, ok)
	assert.Equal(t, day(2024, time.October, 5), got)

	for _, bad := range []string{"", "05-10-2024", "2024/10/05", "not a date", "2024-13-01", "2024-10-01xyz", "2024-10-011"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestSort(t *testing.T) {
	ids := []ID{{StartYear: 2022}, {StartYear: 2024}, {StartYear: 2023}, {StartYear: 2024}}
	assert.Equal(t, []string{"2024-2025", "2023-2024", "2022-2023"}, Sort(ids))
	assert.Empty(t, Sort(nil))
}
