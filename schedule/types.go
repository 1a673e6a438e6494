// Package schedule turns event records into the concrete occurrences the
// layout engine consumes: recurrence expansion, all-day normalization and
// iCalendar ingestion.
package schedule

import (
	"errors"
	"time"
)

// RecurrenceInfo contains all recurrence-related information for an event.
type RecurrenceInfo struct {
	RRule        string      // The RRULE string (without "RRULE:" prefix)
	RDates       []time.Time // Additional recurrence dates
	ExDates      []time.Time // Exception dates (excluded occurrences)
	RecurrenceID *time.Time  // For exception instances - which occurrence this overrides
}

// IsRecurring reports whether the event repeats at all.
func (r RecurrenceInfo) IsRecurring() bool {
	return r.RRule != "" || len(r.RDates) > 0
}

// Event is a logical schedule entity. Recurring events expand into several
// occurrences; plain events produce exactly one.
type Event struct {
	// Key identifies the event. Occurrence keys are derived from it.
	Key string

	Title        string
	Color        string
	IconName     string
	ResourceName string

	Start time.Time
	End   time.Time

	AllDay bool
	// Disabled marks blocked-time events (laid out independently from
	// normal events).
	Disabled bool
	// ReferenceLine marks a zero-duration visual marker.
	ReferenceLine bool

	Recurrence RecurrenceInfo

	// IsOverride marks an exception instance that replaces one
	// occurrence of the event sharing its Key; Recurrence.RecurrenceID
	// names the occurrence being replaced.
	IsOverride bool
}

// Duration returns the event's base duration, applied to every expanded
// occurrence of a timed recurring event.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when creating a record whose key is taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrInvalidInput is returned when the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input parameters")
)
