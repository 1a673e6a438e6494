package layout

import (
	"time"

	"github.com/schedgrid/schedgrid/internal/timeutil"
)

// Snapshot is everything a layout pass depends on: the host's header cell
// boundaries, the occurrence and resource records, and the grid geometry.
// The engine reads it and never keeps a reference past Recompute.
type Snapshot struct {
	Orientation Orientation

	// Cells are the header time boundaries, sorted ascending. One per
	// grid column (vertical time) or grid row (horizontal time); week
	// rows in a month view.
	Cells []timeutil.Interval

	Occurrences []Occurrence
	Resources   []Resource

	// CellSizePx and CellDuration describe one header cell in pixels
	// and in time. Non-positive values short-circuit geometry; the
	// buckets and offsets are still computed.
	CellSizePx   float64
	CellDuration time.Duration

	// VisibleStart is the first visible instant, used in month views to
	// suppress segments of occurrences that begin before the month.
	VisibleStart time.Time

	// FirstDayOfWeek controls week splitting in month views.
	// The zero value is time.Sunday.
	FirstDayOfWeek time.Weekday
}

// Placement is the final per-occurrence output of a pass: the pixel
// position along the time axis plus the packing attributes the renderer
// needs to divide the cross axis.
type Placement struct {
	X      float64
	Y      float64
	Length float64

	// Lane is the row index in timeline orientations, 0 otherwise.
	Lane int

	Offset          int
	ConcurrentCount int
	OverflowsCell   bool
}

// Result is the rebuilt output of one layout pass. Columns is populated
// for calendar and agenda orientations, Rows for timelines, Placeholders
// for month views. Placements is keyed by occurrence (or placeholder
// segment) key.
type Result struct {
	Columns      []*Column
	Rows         []*Row
	Placeholders []*Placeholder
	Placements   map[string]Placement
}

// Engine recomputes the full layout from a snapshot. A pass is a pure,
// synchronous computation: identical snapshots produce identical results
// and nothing is carried over between passes.
//
// The engine owns no shared mutable state, but callers must not mutate a
// snapshot's occurrence times while Recompute runs. Single-writer
// discipline is a precondition, not something the engine enforces.
type Engine struct{}

// NewEngine creates a layout engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Recompute performs one full layout pass. Degenerate input (no cells,
// non-positive geometry) produces an empty or geometry-less result, never
// an error: incorrect layout is a visual bug, not a runtime fault.
func (e *Engine) Recompute(snap Snapshot) *Result {
	res := &Result{Placements: make(map[string]Placement)}
	if len(snap.Cells) == 0 {
		return res
	}

	occs := make([]*Occurrence, 0, len(snap.Occurrences))
	for i := range snap.Occurrences {
		occ := snap.Occurrences[i] // fresh copy per pass
		occ.Offset = 0
		occ.ConcurrentCount = 1
		occ.OverflowsCell = false
		occs = append(occs, &occ)
	}

	switch snap.Orientation {
	case TimelineHorizontal, TimelineVertical:
		e.layoutTimeline(snap, occs, res)
	case CalendarMonth:
		e.layoutMonth(snap, occs, res)
	default:
		e.layoutCalendar(snap, occs, res)
	}

	return res
}

// layoutTimeline builds one lane per resource. Without resources
// everything lands in a single implicit lane; with resources present,
// each occurrence goes to the lane matching its resource name and
// resource-less occurrences drop out of the view.
func (e *Engine) layoutTimeline(snap Snapshot, occs []*Occurrence, res *Result) {
	resources := snap.Resources
	if len(resources) == 0 {
		resources = []Resource{{}}
	}

	laneTop := 0.0
	for lane, resource := range resources {
		row := NewRow(resource, snap.Cells)
		for _, occ := range occs {
			row.Assign(occ)
		}
		ComputeGridOffsets(row.Cells)
		res.Rows = append(res.Rows, row)

		for key := range row.occurrences {
			e.place(snap, row.occurrences[key], row.Cells, lane, laneTop, res)
		}
		laneTop += resource.Height
	}
}

// layoutCalendar buckets everything into a single column of header cells.
func (e *Engine) layoutCalendar(snap Snapshot, occs []*Occurrence, res *Result) {
	col := NewColumn(snap.Cells)
	for _, occ := range occs {
		col.Assign(occ)
	}
	ComputeGridOffsets(col.Cells)
	res.Columns = append(res.Columns, col)

	for _, occ := range occs {
		if _, ok := col.Occurrence(occ.Key); !ok {
			continue
		}
		e.place(snap, occ, col.Cells, 0, 0, res)
	}
}

// layoutMonth is layoutCalendar over week cells plus multi-week
// placeholder expansion. Visible placeholder segments take part in cell
// assignment and offset packing like ordinary occurrences; hidden
// segments are reported but never placed.
func (e *Engine) layoutMonth(snap Snapshot, occs []*Occurrence, res *Result) {
	col := NewColumn(snap.Cells)
	all := make([]*Occurrence, 0, len(occs))

	for _, occ := range occs {
		if !snap.VisibleStart.IsZero() && occ.From.Before(snap.VisibleStart) {
			// Leading segment starts before the visible month.
			occ.OverflowsCell = true
		}

		phs := ExpandPlaceholders(occ, snap.FirstDayOfWeek, snap.VisibleStart)
		if len(phs) > 0 {
			// The span past the first week boundary belongs to the
			// placeholder segments; clip the origin to its own week so it
			// never overlaps them in the continuation-week cells.
			occ.To = timeutil.StartOfWeek(occ.From, snap.FirstDayOfWeek).AddDate(0, 0, 7)
		}
		all = append(all, occ)

		for _, ph := range phs {
			res.Placeholders = append(res.Placeholders, ph)
			if ph.Hidden {
				continue
			}
			all = append(all, &ph.Occurrence)
		}
	}

	for _, occ := range all {
		col.Assign(occ)
	}
	ComputeGridOffsets(col.Cells)
	res.Columns = append(res.Columns, col)

	for _, occ := range all {
		if _, ok := col.Occurrence(occ.Key); !ok {
			continue
		}
		e.place(snap, occ, col.Cells, 0, 0, res)
	}
}

// place computes the pixel geometry for one occurrence and records its
// placement. Occurrences outside the header cells simply get none.
func (e *Engine) place(snap Snapshot, occ *Occurrence, cells []*ReferenceCell, lane int, laneTop float64, res *Result) {
	geo, ok := CellGeometry(occ, cells, snap.CellSizePx, snap.CellDuration).Get()
	if !ok {
		return
	}

	p := Placement{
		Lane:            lane,
		Length:          geo.Length,
		Offset:          occ.Offset,
		ConcurrentCount: occ.ConcurrentCount,
		OverflowsCell:   occ.OverflowsCell,
	}
	if snap.Orientation.TimeOnY() {
		p.Y = geo.Position(snap.CellSizePx)
		p.X = laneTop
	} else {
		p.X = geo.Position(snap.CellSizePx)
		p.Y = laneTop
	}
	res.Placements[occ.Key] = p
}
