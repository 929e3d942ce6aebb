package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 14, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("14/03/2026")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	min, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, min)

	min, err = ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, min)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("6pm")
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "18:30", FormatClock(18*60+30))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(9*60+5))
}

func TestTimeWindowValidate(t *testing.T) {
	d := mustDate(t, "2026-03-14")

	assert.NoError(t, NewTimeWindow(d, 600, 660).Validate())

	err := NewTimeWindow(d, 660, 600).Validate()
	require.Error(t, err)
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "validation", de.Code)

	// Zero-length windows are invalid too.
	assert.Error(t, NewTimeWindow(d, 600, 600).Validate())
}

func TestTimeWindowOverlaps(t *testing.T) {
	d := mustDate(t, "2026-03-14")
	other := mustDate(t, "2026-03-15")

	base := NewTimeWindow(d, 600, 720) // 10:00-12:00

	cases := []struct {
		name string
		w    TimeWindow
		want bool
	}{
		{"identical", NewTimeWindow(d, 600, 720), true},
		{"contained", NewTimeWindow(d, 630, 690), true},
		{"containing", NewTimeWindow(d, 540, 780), true},
		{"partial left", NewTimeWindow(d, 540, 630), true},
		{"partial right", NewTimeWindow(d, 690, 780), true},
		{"touching before", NewTimeWindow(d, 480, 600), false},
		{"touching after", NewTimeWindow(d, 720, 840), false},
		{"disjoint", NewTimeWindow(d, 60, 120), false},
		{"same clock other date", NewTimeWindow(other, 600, 720), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.w))
			assert.Equal(t, tc.want, tc.w.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestTimeWindowDurationMinutes(t *testing.T) {
	d := mustDate(t, "2026-03-14")
	assert.Equal(t, 120, NewTimeWindow(d, 600, 720).DurationMinutes())
	assert.Equal(t, 30, NewTimeWindow(d, 0, 30).DurationMinutes())
}

func TestTimeWindowStartsAfter(t *testing.T) {
	d := mustDate(t, "2026-03-14")
	w := NewTimeWindow(d, 600, 720)

	assert.True(t, w.StartsAfter(time.Date(2026, 3, 14, 9, 59, 0, 0, time.UTC)))
	assert.False(t, w.StartsAfter(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)), "exact start is not in the future")
	assert.False(t, w.StartsAfter(time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)))
}

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got := Midnight(time.Date(2026, 3, 14, 0, 30, 0, 0, loc))
	// 00:30 CET is 23:30 UTC on the previous day.
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), got)
}
