package layout

import "sort"

// ComputeOffsets assigns each occurrence in the cell a lateral offset and
// a cluster-wide concurrency count, so that occurrences overlapping in
// time never share an offset and offsets reuse the lowest free index.
// The engine packs whole lanes through ComputeGridOffsets instead, which
// keeps multi-cell occurrences on one offset; this per-cell variant is
// for hosts laying out isolated cells themselves.
//
// Disabled occurrences are packed in an independent pass: a blocked-time
// marker never pushes a normal occurrence sideways, and vice versa.
// Reference lines and other zero-duration occurrences stay at offset 0
// with a count of 1; a zero-width interval overlaps nothing.
func ComputeOffsets(cell *ReferenceCell) {
	var normal, disabled []*Occurrence
	for _, occ := range cell.Occurrences {
		if occ.Disabled {
			disabled = append(disabled, occ)
		} else {
			normal = append(normal, occ)
		}
	}
	packOffsets(normal)
	packOffsets(disabled)
}

// ComputeGridOffsets packs offsets across a whole lane at once. An
// occurrence spanning several cells must hold one offset everywhere it
// appears, so the pack runs over the deduplicated union of all cells'
// occurrences instead of cell by cell.
func ComputeGridOffsets(cells []*ReferenceCell) {
	seen := make(map[string]struct{})
	var normal, disabled []*Occurrence
	for _, cell := range cells {
		for _, occ := range cell.Occurrences {
			if _, dup := seen[occ.Key]; dup {
				continue
			}
			seen[occ.Key] = struct{}{}
			if occ.Disabled {
				disabled = append(disabled, occ)
			} else {
				normal = append(normal, occ)
			}
		}
	}
	sort.SliceStable(normal, func(i, j int) bool { return normal[i].From.Before(normal[j].From) })
	sort.SliceStable(disabled, func(i, j int) bool { return disabled[i].From.Before(disabled[j].From) })
	packOffsets(normal)
	packOffsets(disabled)
}

// packOffsets greedily colors the occurrences, which must be sorted by
// From ascending. It keeps the set of still-active occurrences; each new
// occurrence first retires everything that ended at or before its start
// (touching intervals do not collide), then takes the smallest offset not
// held by a remaining active occurrence. The peak size of the active set
// is the cluster's concurrency count, written to every member once the
// cluster closes.
func packOffsets(occs []*Occurrence) {
	var active, cluster []*Occurrence
	peak := 0

	closeCluster := func() {
		for _, member := range cluster {
			member.ConcurrentCount = peak
		}
		cluster = cluster[:0]
		peak = 0
	}

	for _, occ := range occs {
		if occ.ZeroDuration() {
			occ.Offset = 0
			occ.ConcurrentCount = 1
			continue
		}

		kept := active[:0]
		for _, a := range active {
			if a.To.After(occ.From) {
				kept = append(kept, a)
			}
		}
		active = kept

		if len(active) == 0 && len(cluster) > 0 {
			closeCluster()
		}

		occ.Offset = lowestFreeOffset(active)
		active = append(active, occ)
		cluster = append(cluster, occ)
		if len(active) > peak {
			peak = len(active)
		}
	}

	if len(cluster) > 0 {
		closeCluster()
	}
}

// lowestFreeOffset returns the smallest nonnegative index not held by any
// active occurrence.
func lowestFreeOffset(active []*Occurrence) int {
	used := make(map[int]bool, len(active))
	for _, a := range active {
		used[a.Offset] = true
	}
	for off := 0; ; off++ {
		if !used[off] {
			return off
		}
	}
}
