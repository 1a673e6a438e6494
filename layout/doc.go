/*
Package layout computes where time-bound occurrences go on a scheduler
grid: which header cells each one occupies, how concurrently overlapping
occurrences are offset from one another, and the pixel position and
length of every occurrence.

# Basic Usage

Build a snapshot from the host's current data and geometry and run a
pass whenever anything changes:

	engine := layout.NewEngine()
	result := engine.Recompute(layout.Snapshot{
		Orientation:  layout.CalendarVertical,
		Cells:        dayCells,       // header boundaries, sorted
		Occurrences:  occurrences,    // from the schedule package
		CellSizePx:   48,
		CellDuration: time.Hour,
	})
	for key, p := range result.Placements {
		// p.X / p.Y, p.Length, p.Offset, p.ConcurrentCount
		_ = key
	}

A pass is a pure function of the snapshot: nothing persists between
passes and recomputing an unchanged snapshot reproduces the same result.
The caller must not mutate occurrence times while a pass runs.

# Orientations

The Orientation selects which axis carries time and which formulas
apply. Timelines lay one Row per resource; calendar orientations bucket
into a single Column of header cells; CalendarMonth additionally expands
occurrences crossing week boundaries into per-week Placeholder segments.

# Degenerate input

Out-of-range occurrences are silently dropped from the view and
non-positive cell geometry suppresses placements. There is no
user-visible failure mode; the priority is deterministic, reproducible
output for a given snapshot.
*/
package layout
