package layout

import (
	"time"

	"github.com/schedgrid/schedgrid/internal/timeutil"
)

// Row is one resource lane in a horizontal timeline. It carries the same
// cell bookkeeping as Column plus the owning resource and a lookup of
// occurrences by start time, which renderers use to anchor lane labels.
type Row struct {
	Resource Resource
	Cells    []*ReferenceCell

	occurrences map[string]*Occurrence
}

// NewRow creates a lane for the given resource over the given cell
// boundaries.
func NewRow(res Resource, bounds []timeutil.Interval) *Row {
	return &Row{
		Resource:    res,
		Cells:       newCells(bounds),
		occurrences: make(map[string]*Occurrence),
	}
}

// Assign buckets occ into every cell of the lane it strictly overlaps.
// The occurrence's resource name must match the lane's exactly, so a
// resource-less occurrence only lands in the implicit unnamed lane a
// host uses when it has no resources.
func (r *Row) Assign(occ *Occurrence) {
	if occ.ResourceName != r.Resource.Name {
		return
	}
	if assignToCells(r.Cells, occ) {
		r.occurrences[occ.Key] = occ
	}
}

// Remove splices the occurrence with the given key out of the lane.
func (r *Row) Remove(key string) {
	occ, ok := r.occurrences[key]
	if !ok {
		return
	}
	removeFromCells(r.Cells, occ)
	delete(r.occurrences, key)
}

// Occurrence looks up an assigned occurrence by key.
func (r *Row) Occurrence(key string) (*Occurrence, bool) {
	occ, ok := r.occurrences[key]
	return occ, ok
}

// OccurrencesStartingAt returns the lane's occurrences whose From equals
// t exactly, in cell order.
func (r *Row) OccurrencesStartingAt(t time.Time) []*Occurrence {
	var out []*Occurrence
	seen := make(map[string]struct{})
	for _, cell := range r.Cells {
		for _, occ := range cell.Occurrences {
			if !occ.From.Equal(t) {
				continue
			}
			if _, dup := seen[occ.Key]; dup {
				continue
			}
			seen[occ.Key] = struct{}{}
			out = append(out, occ)
		}
	}
	return out
}

// Len returns the number of occurrences currently assigned to the lane.
func (r *Row) Len() int {
	return len(r.occurrences)
}
