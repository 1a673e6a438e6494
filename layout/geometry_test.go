package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoCells(n int, width time.Duration) []*ReferenceCell {
	cells := make([]*ReferenceCell, 0, n)
	for i := 0; i < n; i++ {
		cells = append(cells, &ReferenceCell{
			Start: testDay.Add(time.Duration(i) * width),
			End:   testDay.Add(time.Duration(i+1) * width),
		})
	}
	return cells
}

func TestCellGeometry_PartialSingleCell(t *testing.T) {
	// One 100-minute cell rendered at 200px; occurrence covers minutes
	// 10 through 50. Start offset 20px, length 80px.
	cellDur := 100 * time.Minute
	cells := geoCells(1, cellDur)
	o := occ("a", testDay.Add(10*time.Minute), testDay.Add(50*time.Minute))

	geo, ok := CellGeometry(o, cells, 200, cellDur).Get()
	require.True(t, ok)
	assert.Equal(t, 0, geo.FirstCellIndex)
	assert.InDelta(t, 20.0, geo.StartOffset, 1e-9)
	assert.InDelta(t, 80.0, geo.Length, 1e-9)
	assert.InDelta(t, 20.0, geo.Position(200), 1e-9)
}

// Geometry round-trip: an occurrence exactly aligned to cell boundaries
// spans exactly (j-i+1) whole cells of pixels.
func TestCellGeometry_AlignedToBoundaries(t *testing.T) {
	cells := geoCells(8, time.Hour)

	tests := []struct {
		name string
		i, j int
	}{
		{name: "Single cell", i: 2, j: 2},
		{name: "Three cells", i: 1, j: 3},
		{name: "Full grid", i: 0, j: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := occ("a", cells[tt.i].Start, cells[tt.j].End)
			geo, ok := CellGeometry(o, cells, 48, time.Hour).Get()
			require.True(t, ok)
			assert.Equal(t, tt.i, geo.FirstCellIndex)
			assert.Equal(t, 0.0, geo.StartOffset)
			assert.Equal(t, float64(tt.j-tt.i+1)*48, geo.Length)
		})
	}
}

func TestCellGeometry_PartialLeadAndTrail(t *testing.T) {
	cells := geoCells(4, time.Hour)
	// 00:30 - 02:15 at 60px per hour: 30px lead + 60px + 15px trail.
	o := occ("a", testDay.Add(30*time.Minute), testDay.Add(135*time.Minute))

	geo, ok := CellGeometry(o, cells, 60, time.Hour).Get()
	require.True(t, ok)
	assert.Equal(t, 0, geo.FirstCellIndex)
	assert.InDelta(t, 30.0, geo.StartOffset, 1e-9)
	assert.InDelta(t, 105.0, geo.Length, 1e-9)
}

func TestCellGeometry_ReferenceLine(t *testing.T) {
	cells := geoCells(4, time.Hour)
	line := occ("now", testDay.Add(90*time.Minute), testDay.Add(90*time.Minute))
	line.ReferenceLine = true

	for _, cellDur := range []time.Duration{time.Hour, 30 * time.Minute, 24 * time.Hour} {
		geo, ok := CellGeometry(line, cells, 60, cellDur).Get()
		require.True(t, ok, "cellDuration %v", cellDur)
		assert.Equal(t, 0.0, geo.Length, "reference line must have zero length")
	}

	geo, ok := CellGeometry(line, cells, 60, time.Hour).Get()
	require.True(t, ok)
	assert.Equal(t, 1, geo.FirstCellIndex)
	assert.InDelta(t, 30.0, geo.StartOffset, 1e-9)
	assert.InDelta(t, 90.0, geo.Position(60), 1e-9)
}

func TestCellGeometry_NotVisible(t *testing.T) {
	cells := geoCells(4, time.Hour)

	tests := []struct {
		name string
		occ  *Occurrence
	}{
		{name: "Starts after grid", occ: occ("a", at(10), at(11))},
		{name: "Ends before grid", occ: occ("b", at(-2), at(-1))},
		{name: "Ends exactly at grid start", occ: occ("c", at(-1), at(0))},
		{name: "Reference line before grid", occ: func() *Occurrence {
			o := occ("d", at(-1), at(-1))
			o.ReferenceLine = true
			return o
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CellGeometry(tt.occ, cells, 60, time.Hour).IsAbsent())
		})
	}
}

func TestCellGeometry_DegenerateGeometry(t *testing.T) {
	cells := geoCells(4, time.Hour)
	o := occ("a", at(1), at(2))

	assert.True(t, CellGeometry(o, cells, 0, time.Hour).IsAbsent())
	assert.True(t, CellGeometry(o, cells, -5, time.Hour).IsAbsent())
	assert.True(t, CellGeometry(o, cells, 60, 0).IsAbsent())
	assert.True(t, CellGeometry(o, cells, 60, -time.Hour).IsAbsent())
	assert.True(t, CellGeometry(o, nil, 60, time.Hour).IsAbsent())
}

func TestCellGeometry_StartClampedToGrid(t *testing.T) {
	cells := geoCells(4, time.Hour)
	// Starts an hour before the grid, ends mid cell 1.
	o := occ("a", at(-1), at(1).Add(30*time.Minute))

	geo, ok := CellGeometry(o, cells, 60, time.Hour).Get()
	require.True(t, ok)
	assert.Equal(t, 0, geo.FirstCellIndex)
	assert.Equal(t, 0.0, geo.StartOffset)
	assert.InDelta(t, 90.0, geo.Length, 1e-9)
}
