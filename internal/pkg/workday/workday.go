// Package workday implements work-day resolution and segment arithmetic.
//
// A "work-day" is the calendar date a punch or planned segment logically
// belongs to. An instant whose local civil time is before the cutoff hour
// belongs to the previous calendar day's work-day, so a night shift that
// starts at 22:00 and ends at 05:30 stays on a single work-day.
//
// All duration arithmetic is done in minutes on a normalized timeline where
// minute 0 is local midnight of the work-day; values past 1440 fall on the
// next calendar day.
package workday

import (
	"fmt"
	"sort"
	"time"
)

// DefaultCutoffHour is the before-this-hour rollback boundary.
const DefaultCutoffHour = 6

// MinutesPerDay is the length of one calendar day on the normalized timeline.
const MinutesPerDay = 24 * 60

// Resolve returns the work-day an instant belongs to, as a date at midnight
// UTC. The timezone is always passed explicitly; this package never reads
// ambient global state.
func Resolve(instant time.Time, loc *time.Location, cutoffHour int) time.Time {
	local := instant.In(loc)
	if local.Hour() < cutoffHour {
		local = local.AddDate(0, 0, -1)
	}
	return Date(local.Year(), local.Month(), local.Day())
}

// Date returns the canonical representation of a work-day: midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Bounds returns the UTC instants [start, end) covered by a work-day: from
// the cutoff hour on that local date to the cutoff hour on the next.
func Bounds(day time.Time, loc *time.Location, cutoffHour int) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), cutoffHour, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

// Elapsed reports whether a work-day has fully passed at the given instant.
func Elapsed(day time.Time, loc *time.Location, cutoffHour int, now time.Time) bool {
	_, end := Bounds(day, loc, cutoffHour)
	return !now.Before(end)
}

// MinuteOf places an instant on the work-day timeline: minutes since local
// midnight of the work-day. The result exceeds 1440 for instants past
// midnight and is negative for instants before the work-day (callers treat
// those as out of range).
func MinuteOf(instant time.Time, day time.Time, loc *time.Location) int {
	local := instant.In(loc)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return int(local.Sub(midnight).Minutes())
}

// ParseClock parses a "HH:MM" wall-clock value into minutes since midnight.
// The format is strict: exactly two digits, a colon, two digits.
func ParseClock(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, fmt.Errorf("invalid clock value %q: want HH:MM", clock)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if clock[i] < '0' || clock[i] > '9' {
			return 0, fmt.Errorf("invalid clock value %q: want HH:MM", clock)
		}
	}
	h := int(clock[0]-'0')*10 + int(clock[1]-'0')
	m := int(clock[3]-'0')*10 + int(clock[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q: out of range", clock)
	}
	return h*60 + m, nil
}

// FormatMinutes renders a timeline minute back as "HH:MM" wall-clock time.
func FormatMinutes(min int) string {
	min = ((min % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Span is one planned segment normalized onto the work-day timeline.
type Span struct {
	Index    int
	StartMin int
	EndMin   int
	IsExtra  bool
	Note     string
}

// Duration returns the span length in minutes.
func (s Span) Duration() int {
	return s.EndMin - s.StartMin
}

// Overlaps reports whether two spans share any time.
func (s Span) Overlaps(o Span) bool {
	return s.StartMin < o.EndMin && o.StartMin < s.EndMin
}

// OverlapError reports two planned segments that share time. Shifts carrying
// overlapping segments are rejected at save time, before reconciliation ever
// sees them.
type OverlapError struct {
	First  int
	Second int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("segments %d and %d overlap", e.First, e.Second)
}

// NormalizeWindow converts a planned "HH:MM" window to timeline minutes.
// A window whose end reads at or before its start crosses midnight and gets
// its end pushed onto the next calendar day; equal start and end therefore
// means a full 24-hour window, never an empty one.
func NormalizeWindow(start, end string) (int, int, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if endMin <= startMin {
		endMin += MinutesPerDay
	}
	return startMin, endMin, nil
}

// ValidateSpans checks that spans are non-overlapping. The input order does
// not matter; the returned spans are sorted by start time.
func ValidateSpans(spans []Span) ([]Span, error) {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartMin < sorted[j].StartMin
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return nil, &OverlapError{First: sorted[i-1].Index, Second: sorted[i].Index}
		}
	}
	return sorted, nil
}
