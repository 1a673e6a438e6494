package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/schedgrid/schedgrid/internal/timeutil"
	"github.com/schedgrid/schedgrid/layout"
)

// Expander turns events into the concrete occurrences of a time window.
// It handles plain events, RRULE recurrence with RDATE additions and
// EXDATE exclusions, RECURRENCE-ID overrides and all-day normalization.
type Expander struct {
	cache  *ExpansionCache
	config ExpanderConfig
	logger *slog.Logger
}

// NewExpander creates an expander with the default configuration.
func NewExpander(logger *slog.Logger) *Expander {
	return NewExpanderWithConfig(DefaultExpanderConfig, logger)
}

// NewExpanderWithConfig creates an expander with custom configuration.
func NewExpanderWithConfig(config ExpanderConfig, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	var cache *ExpansionCache
	if config.CacheEnabled {
		cache = NewExpansionCache(config.CacheConfig)
	}
	return &Expander{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Close releases the expander's cache resources.
func (x *Expander) Close() {
	if x.cache != nil {
		x.cache.Close()
	}
}

// ExpandResult wraps the expanded occurrences and information about
// truncation.
type ExpandResult struct {
	Occurrences []layout.Occurrence
	// TruncatedEvents records keys of events that hit the
	// MaxOccurrencesPerEvent cap.
	TruncatedEvents []string
}

// Expand produces every occurrence of the given events inside the window,
// converted into loc (UTC when nil). Events whose recurrence rule fails
// to parse are logged and skipped; the layout must stay usable even when
// one event's data is bad.
func (x *Expander) Expand(events []Event, window timeutil.Interval, loc *time.Location) (ExpandResult, error) {
	var result ExpandResult

	if window.End.Before(window.Start) {
		return result, fmt.Errorf("expand: window end before start: %w", ErrInvalidInput)
	}
	if loc == nil {
		loc = time.UTC
	}
	if window.Duration() > x.config.LargeRangeThreshold {
		window.End = window.Start.Add(x.config.LargeRangeLimit)
		x.logger.Debug("expand: window limited",
			"threshold", x.config.LargeRangeThreshold,
			"limit", x.config.LargeRangeLimit)
	}

	// Group base events and overrides by key.
	var bases []Event
	overridesByKey := make(map[string][]Event)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence.RecurrenceID != nil {
			overridesByKey[ev.Key] = append(overridesByKey[ev.Key], ev)
		} else {
			bases = append(bases, ev)
		}
	}

	for _, ev := range bases {
		if ev.Key == "" {
			// A keyless event still needs stable occurrence identity
			// within this pass.
			ev.Key = uuid.NewString()
		}

		overrides := overridesByKey[ev.Key]
		if x.cache != nil && len(overrides) == 0 {
			if cached, ok := x.cache.Get(ev, window.Start, window.End, loc); ok {
				result.Occurrences = append(result.Occurrences, cached...)
				continue
			}
		}

		occs, truncated, err := x.expandEvent(ev, overrides, window, loc)
		if err != nil {
			x.logger.Error("expand: skipping event",
				"key", ev.Key,
				"rrule", ev.Recurrence.RRule,
				"err", err)
			continue
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.Key)
			x.logger.Warn("expand: occurrences truncated",
				"key", ev.Key,
				"cap", x.config.MaxOccurrencesPerEvent)
		}

		if x.cache != nil && len(overrides) == 0 {
			x.cache.Set(ev, window.Start, window.End, loc, occs)
		}
		result.Occurrences = append(result.Occurrences, occs...)
	}

	return result, nil
}

// expandEvent expands a single base event with its overrides.
func (x *Expander) expandEvent(ev Event, overrides []Event, window timeutil.Interval, loc *time.Location) ([]layout.Occurrence, bool, error) {
	if !ev.Recurrence.IsRecurring() {
		return x.expandSingle(ev, overrides, window, loc), false, nil
	}
	return x.expandRecurring(ev, overrides, window, loc)
}

// expandSingle handles non-recurring events: at most one occurrence,
// present iff the event intersects the window.
func (x *Expander) expandSingle(ev Event, overrides []Event, window timeutil.Interval, loc *time.Location) []layout.Occurrence {
	start, end := ev.Start, ev.End
	if ov, ok := findOverride(overrides, start); ok {
		ev, start, end = ov, ov.Start, ov.End
	}

	visible := window.Overlaps(timeutil.Interval{Start: start, End: end})
	if ev.ReferenceLine || !end.After(start) {
		visible = window.Contains(start)
	}
	if !visible {
		return nil
	}
	return []layout.Occurrence{makeOccurrence(ev, start, end, loc)}
}

// expandRecurring handles RRULE/RDATE recurrence. The second return value
// reports whether the per-event cap truncated the expansion.
func (x *Expander) expandRecurring(ev Event, overrides []Event, window timeutil.Interval, loc *time.Location) ([]layout.Occurrence, bool, error) {
	var set rrule.Set

	if ev.Recurrence.RRule != "" {
		r, err := rrule.StrToRRule(ev.Recurrence.RRule)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse RRULE %q: %w", ev.Recurrence.RRule, err)
		}
		r.DTStart(ev.Start)
		set.RRule(r)
	} else {
		// RDATE-only recurrence still includes the master start.
		set.DTStart(ev.Start)
		set.RDate(ev.Start)
	}
	for _, rdate := range ev.Recurrence.RDates {
		set.RDate(rdate.In(ev.Start.Location()))
	}
	for _, exdate := range ev.Recurrence.ExDates {
		// Best effort: align EXDATE location with the event's start.
		set.ExDate(exdate.In(ev.Start.Location()))
	}

	// Between is run in the event's own location so day boundaries of the
	// rule stay put across DST.
	rangeStart := window.Start.In(ev.Start.Location())
	rangeEnd := window.End.In(ev.Start.Location())
	starts := set.Between(rangeStart, rangeEnd, true)

	truncated := false
	if len(starts) > x.config.MaxOccurrencesPerEvent {
		starts = starts[:x.config.MaxOccurrencesPerEvent]
		truncated = true
	}

	duration := ev.Duration()
	out := make([]layout.Occurrence, 0, len(starts))
	for _, start := range starts {
		end := start.Add(duration)
		base := ev
		if ov, ok := findOverride(overrides, start); ok {
			base, start, end = ov, ov.Start, ov.End
		}
		out = append(out, makeOccurrence(base, start, end, loc))
	}
	return out, truncated, nil
}

// findOverride returns the override event whose RECURRENCE-ID matches the
// given occurrence start with exact time equality.
func findOverride(overrides []Event, start time.Time) (Event, bool) {
	for _, ov := range overrides {
		if ov.Recurrence.RecurrenceID == nil {
			continue
		}
		if ov.Recurrence.RecurrenceID.In(start.Location()).Equal(start) {
			return ov, true
		}
	}
	return Event{}, false
}

// makeOccurrence converts one (possibly overridden) event instance into a
// layout occurrence normalized into loc. All-day instances cover
// [midnight, next midnight) in loc regardless of the stored clock time.
func makeOccurrence(ev Event, start, end time.Time, loc *time.Location) layout.Occurrence {
	from := start.In(loc)
	to := end.In(loc)

	if ev.AllDay {
		from = timeutil.StartOfDay(from)
		to = timeutil.StartOfDay(to)
		if !to.After(from) {
			to = timeutil.EndOfDay(from)
		}
	}

	return layout.Occurrence{
		Key:           fmt.Sprintf("%s/%s", ev.Key, from.UTC().Format(time.RFC3339)),
		EventKey:      ev.Key,
		Title:         ev.Title,
		Color:         ev.Color,
		IconName:      ev.IconName,
		ResourceName:  ev.ResourceName,
		From:          from,
		To:            to,
		AllDay:        ev.AllDay,
		Disabled:      ev.Disabled,
		ReferenceLine: ev.ReferenceLine,
	}
}

// HasOccurrenceInRange checks whether an event has any occurrence in the
// window without doing a full expansion; useful for pre-filtering events
// before a layout pass.
func (x *Expander) HasOccurrenceInRange(ev Event, window timeutil.Interval) (bool, error) {
	// Fast path: the master instance itself.
	master := timeutil.Interval{Start: ev.Start, End: ev.End}
	if window.Overlaps(master) && !isExcluded(ev.Start, ev.Recurrence.ExDates) {
		return true, nil
	}

	if ev.Recurrence.RRule != "" {
		limited := window
		if limited.Duration() > x.config.LargeRangeThreshold {
			limited.End = limited.Start.Add(x.config.LargeRangeLimit)
		}
		occs, _, err := x.expandRecurring(ev, nil, limited, time.UTC)
		if err != nil {
			return false, fmt.Errorf("failed to check RRULE occurrences: %w", err)
		}
		if len(occs) > 0 {
			return true, nil
		}
	}

	duration := ev.Duration()
	for _, rdate := range ev.Recurrence.RDates {
		inst := timeutil.Interval{Start: rdate, End: rdate.Add(duration)}
		if window.Overlaps(inst) && !isExcluded(rdate, ev.Recurrence.ExDates) {
			return true, nil
		}
	}

	return false, nil
}

// isExcluded checks whether a given time is in the EXDATE list. Date-only
// exceptions (stored as midnight UTC) match any instance on the same date.
func isExcluded(t time.Time, exdates []time.Time) bool {
	for _, exdate := range exdates {
		if t.Equal(exdate) {
			return true
		}
		if exdate.Hour() == 0 && exdate.Minute() == 0 && exdate.Second() == 0 && exdate.Location() == time.UTC {
			atMidnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			if atMidnight.Equal(exdate) {
				return true
			}
		}
	}
	return false
}
