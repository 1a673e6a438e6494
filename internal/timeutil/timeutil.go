// Package timeutil provides the time arithmetic shared by the schedule and
// layout packages: unit truncation, week math and interval queries.
package timeutil

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from two instants.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Overlaps reports whether the two intervals share any instant.
// Comparisons are strict, so touching intervals (iv.End == other.Start)
// do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval (Start inclusive,
// End exclusive).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Intersect returns the overlapping portion of the two intervals.
// The second return value is false when they do not overlap.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	out := iv
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out, true
}

// Duration returns End - Start. A degenerate interval (End before Start)
// yields a negative duration; callers treat those as zero-length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// WholeDays returns the number of whole 24-hour days contained in the
// interval, never negative.
func (iv Interval) WholeDays() int {
	d := iv.Duration()
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// IsZero reports whether the interval has no extent.
func (iv Interval) IsZero() bool {
	return !iv.End.After(iv.Start)
}

// StartOfHour truncates t to the beginning of its hour.
func StartOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns midnight of the following day, so [StartOfDay, EndOfDay)
// covers the whole civil day including DST transitions.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// StartOfWeek truncates t to midnight of the most recent firstDay.
// If t already falls on firstDay, t's own midnight is returned.
func StartOfWeek(t time.Time, firstDay time.Weekday) time.Time {
	day := StartOfDay(t)
	diff := (int(day.Weekday()) - int(firstDay) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// StartOfMonth truncates t to midnight of the first day of its month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeekOfYear returns the ISO 8601 week number of t.
func WeekOfYear(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// SpansMultipleDays reports whether [from, to) touches more than one civil
// day. An occurrence ending exactly at midnight is considered to end on the
// previous day, so a 09:00-24:00 event does not span.
func SpansMultipleDays(from, to time.Time) bool {
	if !to.After(from) {
		return false
	}
	last := to
	if to.Equal(StartOfDay(to)) {
		last = to.Add(-time.Nanosecond)
	}
	return !sameDate(from, last)
}

// IsAllDay reports whether [from, to) is aligned to whole civil days.
func IsAllDay(from, to time.Time) bool {
	return to.After(from) && from.Equal(StartOfDay(from)) && to.Equal(StartOfDay(to))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
