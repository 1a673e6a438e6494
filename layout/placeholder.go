package layout

import (
	"fmt"
	"time"

	"github.com/schedgrid/schedgrid/internal/timeutil"
)

// Placeholder is a derived, single-week visual segment of a multi-week
// occurrence in a month view. The occurrence itself stands for its first
// week; one placeholder is produced for every following week it reaches
// into. Placeholders are rebuilt on every layout pass and never persisted.
type Placeholder struct {
	// Occurrence is a copy of the origin clipped to this segment's week,
	// keeping the rendering metadata (color, icon, title) so the renderer
	// can draw each week's continuation without re-deriving style.
	Occurrence

	// WeekStart is the first instant of the week this segment covers.
	WeekStart time.Time

	// OriginOccurrenceKey links back to the occurrence this segment was
	// cut from. It is a plain foreign key, not an object reference;
	// renderers resolve it when drag or resize has to act on the whole
	// logical event.
	OriginOccurrenceKey string

	// Hidden marks segments that start before the visible range and must
	// not be rendered at all.
	Hidden bool
}

// OverflowsColumn reports whether the segment is hidden in the given grid
// column of its week. A segment draws a single bar anchored in the
// first column (index 0); every other column only shows pass-through.
func (p *Placeholder) OverflowsColumn(index int) bool {
	return p.Hidden || index != 0
}

// CrossesWeekBoundary reports whether occ reaches into a week after the
// one containing its start, given the configured first weekday.
func CrossesWeekBoundary(occ *Occurrence, firstDay time.Weekday) bool {
	if occ.ZeroDuration() {
		return false
	}
	last := occ.To.Add(-time.Nanosecond)
	return !timeutil.StartOfWeek(occ.From, firstDay).Equal(timeutil.StartOfWeek(last, firstDay))
}

// ExpandPlaceholders splits a multi-week occurrence at week boundaries and
// returns one placeholder per week after the first. The origin occurrence
// keeps standing for its own week, so an occurrence crossing two week
// boundaries yields exactly two placeholders.
//
// Segments starting before visibleFrom (typically the first instant of
// the visible month) come back marked Hidden. Occurrences that do not
// span multiple days or never leave their starting week yield nothing.
func ExpandPlaceholders(occ *Occurrence, firstDay time.Weekday, visibleFrom time.Time) []*Placeholder {
	if !occ.SpansMultipleDays() || !CrossesWeekBoundary(occ, firstDay) {
		return nil
	}

	var out []*Placeholder
	week := timeutil.StartOfWeek(occ.From, firstDay).AddDate(0, 0, 7)
	for n := 1; week.Before(occ.To); n++ {
		nextWeek := week.AddDate(0, 0, 7)

		segment := *occ
		segment.Key = fmt.Sprintf("%s/w%d", occ.Key, n)
		segment.From = week
		if occ.To.Before(nextWeek) {
			segment.To = occ.To
		} else {
			segment.To = nextWeek
		}

		out = append(out, &Placeholder{
			Occurrence:          segment,
			WeekStart:           week,
			OriginOccurrenceKey: occ.Key,
			Hidden:              week.Before(visibleFrom),
		})

		week = nextWeek
	}
	return out
}
