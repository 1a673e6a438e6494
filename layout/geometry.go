package layout

import (
	"time"

	"github.com/samber/mo"
)

// Geometry is the pixel placement of one occurrence along the time axis.
// The engine translates it into X or Y depending on orientation; the
// cross-axis split between concurrent occurrences is the renderer's job,
// driven by Offset and ConcurrentCount.
type Geometry struct {
	// FirstCellIndex is the index of the first header cell the
	// occurrence overlaps.
	FirstCellIndex int
	// StartOffset is the translation in pixels from that cell's leading
	// edge to the occurrence's leading edge.
	StartOffset float64
	// Length is the occurrence's extent along the time axis in pixels.
	// Always 0 for reference lines.
	Length float64
}

// Position returns the absolute pixel position along the time axis,
// assuming header cells of uniform size.
func (g Geometry) Position(cellSizePx float64) float64 {
	return float64(g.FirstCellIndex)*cellSizePx + g.StartOffset
}

// CellGeometry computes an occurrence's pixel placement against the
// supplied header cells. All divisions are floating point; no rounding is
// applied, consumers round at render time.
//
// The result is None when the occurrence lies outside every header cell
// or when cellSizePx or cellDuration is not positive. Callers treat None
// as "not currently visible", not as an error.
func CellGeometry(occ *Occurrence, cells []*ReferenceCell, cellSizePx float64, cellDuration time.Duration) mo.Option[Geometry] {
	if cellSizePx <= 0 || cellDuration <= 0 || len(cells) == 0 {
		return mo.None[Geometry]()
	}

	first := -1
	for i, cell := range cells {
		if cell.End.After(occ.From) {
			first = i
			break
		}
	}
	if first < 0 {
		// Starts after the last cell's end.
		return mo.None[Geometry]()
	}

	lead := cells[first]
	if occ.ZeroDuration() {
		if occ.From.Before(lead.Start) {
			return mo.None[Geometry]()
		}
	} else if !occ.To.After(lead.Start) {
		// Ends at or before the first cell's start.
		return mo.None[Geometry]()
	}

	dur := float64(cellDuration)

	// Fraction of the leading cell still ahead of the start. Starts
	// before the first cell clamp to the cell's leading edge.
	from := occ.From
	if from.Before(lead.Start) {
		from = lead.Start
	}
	offsetPct := float64(lead.End.Sub(from)) / dur
	geo := Geometry{
		FirstCellIndex: first,
		StartOffset:    (1 - offsetPct) * cellSizePx,
	}

	// Reference lines report the start offset only.
	if occ.ZeroDuration() {
		return mo.Some(geo)
	}

	if !occ.To.After(lead.End) {
		geo.Length = float64(occ.To.Sub(from)) / dur * cellSizePx
		return mo.Some(geo)
	}
	geo.Length = offsetPct * cellSizePx

	for _, cell := range cells[first+1:] {
		if !cell.Start.Before(occ.To) {
			break
		}
		if !cell.Start.Add(cellDuration).After(occ.To) {
			// Whole cell covered.
			geo.Length += cellSizePx
			continue
		}
		// Trailing partial cell.
		geo.Length += float64(occ.To.Sub(cell.Start)) / dur * cellSizePx
		break
	}

	return mo.Some(geo)
}
