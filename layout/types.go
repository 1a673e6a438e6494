package layout

import (
	"fmt"
	"time"

	"github.com/schedgrid/schedgrid/internal/timeutil"
)

// Orientation selects which axis carries time and which geometry formulas
// apply during a layout pass.
type Orientation int

const (
	OrientationUnknown Orientation = iota
	TimelineHorizontal
	TimelineVertical
	CalendarHorizontal
	CalendarVertical
	CalendarMonth
	Agenda
)

var orientationNames = map[Orientation]string{
	TimelineHorizontal: "timeline-horizontal",
	TimelineVertical:   "timeline-vertical",
	CalendarHorizontal: "calendar-horizontal",
	CalendarVertical:   "calendar-vertical",
	CalendarMonth:      "calendar-month",
	Agenda:             "agenda",
}

// String provides a human-readable representation of the Orientation.
func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOrientation maps the configuration string form back to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if name == s {
			return o, nil
		}
	}
	return OrientationUnknown, fmt.Errorf("unknown orientation %q", s)
}

// TimeOnY reports whether the time axis runs vertically for this
// orientation. Agenda views are lists and carry no pixel axis, but the
// daily geometry they do use is vertical.
func (o Orientation) TimeOnY() bool {
	switch o {
	case TimelineVertical, CalendarVertical, Agenda:
		return true
	default:
		return false
	}
}

// Occurrence is one concrete time-bound instance of an event on the
// schedule. Recurring events produce several occurrences sharing an
// EventKey. The Offset, ConcurrentCount and OverflowsCell fields are
// outputs of the layout pass; everything else is input.
type Occurrence struct {
	// Key is unique among all occurrences of one parent event.
	Key      string
	EventKey string

	Title        string
	Color        string
	IconName     string
	ResourceName string

	From time.Time
	To   time.Time

	// AllDay marks occurrences aligned to whole civil days.
	AllDay bool
	// Disabled marks blocked-time occurrences. They are laid out in a
	// pass separate from normal occurrences and the two never count
	// toward each other's offsets.
	Disabled bool
	// ReferenceLine marks a zero-duration visual marker such as a
	// "now" line. Reference lines report zero length and never take
	// part in offset packing.
	ReferenceLine bool

	// Offset is the lateral displacement index among concurrently
	// overlapping occurrences, assigned first-fit.
	Offset int
	// ConcurrentCount is the peak number of simultaneously overlapping
	// occurrences in this occurrence's cluster, shared by every member
	// so renderers can divide the available width evenly. At least 1.
	ConcurrentCount int
	// OverflowsCell marks occurrences whose leading edge falls outside
	// the visible range and must not be rendered in their first cell.
	OverflowsCell bool
}

// Interval returns the occurrence's [From, To) range.
func (o *Occurrence) Interval() timeutil.Interval {
	return timeutil.Interval{Start: o.From, End: o.To}
}

// ZeroDuration reports whether the occurrence has no extent on the time
// axis. Reference lines are always zero-duration; so is any occurrence
// whose To does not come after its From (for example after clipping).
func (o *Occurrence) ZeroDuration() bool {
	return o.ReferenceLine || !o.To.After(o.From)
}

// SpansMultipleDays reports whether the occurrence touches more than one
// civil day.
func (o *Occurrence) SpansMultipleDays() bool {
	return timeutil.SpansMultipleDays(o.From, o.To)
}

// Resource is a lane (person, room, asset) against which occurrences are
// plotted in timeline orientations.
type Resource struct {
	Name  string
	Color string
	// Height is the lane height in pixels used for vertical stacking in
	// horizontal timelines.
	Height float64
}

// ReferenceCell is one fixed time-boundary slot of the grid (an hour, a
// day, a week-in-month) together with the occurrences overlapping it.
// The occurrence list is kept sorted by From ascending at all times.
type ReferenceCell struct {
	Start time.Time
	End   time.Time

	Occurrences []*Occurrence
}

// Overlaps reports whether occ strictly overlaps the cell. Touching
// (occ.To == cell.Start or occ.From == cell.End) does not count.
// Zero-duration occurrences belong to the single cell containing From.
func (c *ReferenceCell) Overlaps(occ *Occurrence) bool {
	if occ.ZeroDuration() {
		return !occ.From.Before(c.Start) && occ.From.Before(c.End)
	}
	return occ.To.After(c.Start) && occ.From.Before(c.End)
}

// insertSorted adds occ keeping the list ordered by From ascending.
// Equal starts keep insertion order.
func (c *ReferenceCell) insertSorted(occ *Occurrence) {
	i := len(c.Occurrences)
	for i > 0 && c.Occurrences[i-1].From.After(occ.From) {
		i--
	}
	c.Occurrences = append(c.Occurrences, nil)
	copy(c.Occurrences[i+1:], c.Occurrences[i:])
	c.Occurrences[i] = occ
}

// remove splices out the occurrence with the given key, reporting whether
// it was present. Order of the remaining occurrences is preserved.
func (c *ReferenceCell) remove(key string) bool {
	for i, occ := range c.Occurrences {
		if occ.Key == key {
			c.Occurrences = append(c.Occurrences[:i], c.Occurrences[i+1:]...)
			return true
		}
	}
	return false
}

// newCells builds fresh reference cells from host-supplied boundaries.
// Cells are rebuilt on every layout pass; the engine never mutates the
// caller's slice.
func newCells(bounds []timeutil.Interval) []*ReferenceCell {
	cells := make([]*ReferenceCell, 0, len(bounds))
	for _, b := range bounds {
		cells = append(cells, &ReferenceCell{Start: b.Start, End: b.End})
	}
	return cells
}
