package layout

import (
	"github.com/schedgrid/schedgrid/internal/timeutil"
)

// Column owns the ordered reference cells of one vertical grid lane (a
// day column in a week view, the single lane of an agenda) and the
// occurrences bucketed into them.
type Column struct {
	Cells []*ReferenceCell

	occurrences map[string]*Occurrence
}

// NewColumn creates a column over the given cell boundaries. Boundaries
// must be sorted ascending and non-overlapping; the host's header
// component produces them that way.
func NewColumn(bounds []timeutil.Interval) *Column {
	return &Column{
		Cells:       newCells(bounds),
		occurrences: make(map[string]*Occurrence),
	}
}

// Assign buckets occ into every cell it strictly overlaps, keeping each
// cell's occurrence list sorted by From. An occurrence outside all cells
// is silently dropped from this view; excluding out-of-range events
// upstream is the host's responsibility.
func (c *Column) Assign(occ *Occurrence) {
	if assignToCells(c.Cells, occ) {
		c.occurrences[occ.Key] = occ
	}
}

// Remove splices the occurrence with the given key out of every cell and
// out of the column's occurrence collection. Removing an unknown key is
// a no-op.
func (c *Column) Remove(key string) {
	occ, ok := c.occurrences[key]
	if !ok {
		return
	}
	removeFromCells(c.Cells, occ)
	delete(c.occurrences, key)
}

// Occurrence looks up an assigned occurrence by key.
func (c *Column) Occurrence(key string) (*Occurrence, bool) {
	occ, ok := c.occurrences[key]
	return occ, ok
}

// Len returns the number of occurrences currently assigned.
func (c *Column) Len() int {
	return len(c.occurrences)
}

// assignToCells inserts occ into every cell it overlaps and reports
// whether it landed anywhere. Cells are sorted, so the walk stops at the
// first cell starting at or after occ's end.
func assignToCells(cells []*ReferenceCell, occ *Occurrence) bool {
	placed := false
	for _, cell := range cells {
		if !occ.ZeroDuration() && !cell.Start.Before(occ.To) {
			break
		}
		if cell.Overlaps(occ) {
			cell.insertSorted(occ)
			placed = true
			if occ.ZeroDuration() {
				// Zero-duration markers live in exactly one cell.
				break
			}
		}
	}
	return placed
}

// removeFromCells is the inverse of assignToCells: it locates the same
// cell range and splices the occurrence out by key.
func removeFromCells(cells []*ReferenceCell, occ *Occurrence) {
	for _, cell := range cells {
		if !occ.ZeroDuration() && !cell.Start.Before(occ.To) {
			break
		}
		if cell.Overlaps(occ) {
			cell.remove(occ.Key)
		}
	}
}
