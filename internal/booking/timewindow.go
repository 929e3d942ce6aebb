// Package booking implements the reservation engine: time-window overlap
// detection, pricing-rule evaluation, the reservation status state
// machine and the create/update/cancel orchestration.  It talks to
// persistence only through the store interfaces in stores.go so the
// engine itself carries no transport or driver dependencies.
package booking

import (
    "fmt"
    "time"
)

// Layouts accepted for dates and times-of-day in requests.
const (
    DateLayout  = "2006-01-02"
    ClockLayout = "15:04"
)

// TimeWindow is a calendar date plus a start/end time-of-day pair.
// Date must be a UTC midnight value; Start and End are minutes from
// midnight.  The type does not self-validate so it can be built while
// parsing; engine operations reject windows where End <= Start.
type TimeWindow struct {
    Date  time.Time
    Start int
    End   int
}

// NewTimeWindow normalizes date to UTC midnight and builds a window.
func NewTimeWindow(date time.Time, startMin, endMin int) TimeWindow {
    return TimeWindow{Date: Midnight(date), Start: startMin, End: endMin}
}

// Midnight truncates t to its UTC calendar date.
func Midnight(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date string into a UTC midnight value.
func ParseDate(s string) (time.Time, error) {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
    }
    return t, nil
}

// ParseClock parses an HH:MM time-of-day string into minutes from midnight.
func ParseClock(s string) (int, error) {
    t, err := time.Parse(ClockLayout, s)
    if err != nil {
        return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
    }
    return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes from midnight as HH:MM for messages and
// persistence.
func FormatClock(minutes int) string {
    return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Validate rejects windows whose end does not come after their start.
func (w TimeWindow) Validate() error {
    if w.End <= w.Start {
        return Validation("end time must be after start time")
    }
    return nil
}

// DurationMinutes returns the window length in minutes.
func (w TimeWindow) DurationMinutes() int { return w.End - w.Start }

// Overlaps reports whether two windows intersect under half-open
// semantics: windows that merely touch (one ends exactly when the other
// starts) do not overlap.  Windows on different dates never overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
    if !w.Date.Equal(other.Date) {
        return false
    }
    return w.Start < other.End && other.Start < w.End
}

// StartInstant returns the absolute UTC time at which the window opens.
func (w TimeWindow) StartInstant() time.Time {
    return w.Date.Add(time.Duration(w.Start) * time.Minute)
}

// StartsAfter reports whether the window opens strictly after now.
func (w TimeWindow) StartsAfter(now time.Time) bool {
    return w.StartInstant().After(now.UTC())
}

// Weekday returns the day of week of the window's date.
func (w TimeWindow) Weekday() time.Weekday { return w.Date.Weekday() }
