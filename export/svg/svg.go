// Package svg renders a computed layout to a standalone SVG document. The
// output is a debugging and reporting artifact: one rectangle per placed
// occurrence, lane backgrounds for resources, and thin lines for
// zero-duration markers. Hosts with their own rendering pipeline do not
// need it.
package svg

import (
	"errors"
	"fmt"
	"sort"

	"github.com/beevik/etree"

	"github.com/schedgrid/schedgrid/layout"
)

// ErrNoLayout is returned when Render is handed a nil or empty result.
var ErrNoLayout = errors.New("no layout to render")

// Options control the visual defaults the layout itself does not carry.
type Options struct {
	// LaneSize is the cross-axis extent in pixels of a lane without an
	// explicit resource height, and of the single lane calendar
	// orientations use.
	LaneSize float64

	Background         string
	GridColor          string
	DefaultEventColor  string
	ReferenceLineColor string

	// ShowTitles adds a text element over each rectangle.
	ShowTitles bool
}

// DefaultOptions are used by NewRenderer.
var DefaultOptions = Options{
	LaneSize:           40,
	Background:         "#ffffff",
	GridColor:          "#e0e0e0",
	DefaultEventColor:  "#4a90d9",
	ReferenceLineColor: "#d0021b",
	ShowTitles:         true,
}

// Renderer turns layout results into SVG documents. It is stateless and
// safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer with DefaultOptions.
func NewRenderer() *Renderer {
	return NewRendererWithOptions(DefaultOptions)
}

// NewRendererWithOptions creates a renderer with the given options. Zero
// values fall back to their defaults.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.LaneSize <= 0 {
		opts.LaneSize = DefaultOptions.LaneSize
	}
	if opts.Background == "" {
		opts.Background = DefaultOptions.Background
	}
	if opts.GridColor == "" {
		opts.GridColor = DefaultOptions.GridColor
	}
	if opts.DefaultEventColor == "" {
		opts.DefaultEventColor = DefaultOptions.DefaultEventColor
	}
	if opts.ReferenceLineColor == "" {
		opts.ReferenceLineColor = DefaultOptions.ReferenceLineColor
	}
	return &Renderer{opts: opts}
}

// lane is the renderer's cross-axis bookkeeping for one row or column.
type lane struct {
	top   float64
	size  float64
	color string
}

// Render produces an SVG document for one layout pass. The snapshot must be
// the same one the result was computed from; the renderer reads its grid
// geometry and orientation.
func (r *Renderer) Render(snap layout.Snapshot, result *layout.Result) ([]byte, error) {
	if result == nil || (len(result.Rows) == 0 && len(result.Columns) == 0) {
		return nil, ErrNoLayout
	}
	if snap.CellSizePx <= 0 || len(snap.Cells) == 0 {
		return nil, fmt.Errorf("%w: grid has no pixel geometry", ErrNoLayout)
	}

	lanes := r.buildLanes(result)
	timeExtent := float64(len(snap.Cells)) * snap.CellSizePx
	crossExtent := lanes[len(lanes)-1].top + lanes[len(lanes)-1].size

	width, height := timeExtent, crossExtent
	if snap.Orientation.TimeOnY() {
		width, height = crossExtent, timeExtent
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("width", format(width))
	root.CreateAttr("height", format(height))

	bg := root.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", r.opts.Background)

	r.drawLaneBackgrounds(root, snap, lanes, timeExtent)
	r.drawGrid(root, snap, crossExtent)
	r.drawPlacements(root, snap, result, lanes)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// buildLanes maps lane indexes to cross-axis positions. Resource heights
// are honored when present; anything else gets the default lane size.
func (r *Renderer) buildLanes(result *layout.Result) []lane {
	if len(result.Rows) == 0 {
		return []lane{{size: r.opts.LaneSize}}
	}

	lanes := make([]lane, 0, len(result.Rows))
	top := 0.0
	for _, row := range result.Rows {
		size := row.Resource.Height
		if size <= 0 {
			size = r.opts.LaneSize
		}
		lanes = append(lanes, lane{top: top, size: size, color: row.Resource.Color})
		top += size
	}
	return lanes
}

func (r *Renderer) drawLaneBackgrounds(root *etree.Element, snap layout.Snapshot, lanes []lane, timeExtent float64) {
	for _, l := range lanes {
		if l.color == "" {
			continue
		}
		rect := root.CreateElement("rect")
		if snap.Orientation.TimeOnY() {
			rect.CreateAttr("x", format(l.top))
			rect.CreateAttr("y", "0")
			rect.CreateAttr("width", format(l.size))
			rect.CreateAttr("height", format(timeExtent))
		} else {
			rect.CreateAttr("x", "0")
			rect.CreateAttr("y", format(l.top))
			rect.CreateAttr("width", format(timeExtent))
			rect.CreateAttr("height", format(l.size))
		}
		rect.CreateAttr("fill", l.color)
		rect.CreateAttr("fill-opacity", "0.15")
	}
}

// drawGrid draws one line per interior cell boundary.
func (r *Renderer) drawGrid(root *etree.Element, snap layout.Snapshot, crossExtent float64) {
	for i := 1; i < len(snap.Cells); i++ {
		pos := float64(i) * snap.CellSizePx
		line := root.CreateElement("line")
		if snap.Orientation.TimeOnY() {
			line.CreateAttr("x1", "0")
			line.CreateAttr("y1", format(pos))
			line.CreateAttr("x2", format(crossExtent))
			line.CreateAttr("y2", format(pos))
		} else {
			line.CreateAttr("x1", format(pos))
			line.CreateAttr("y1", "0")
			line.CreateAttr("x2", format(pos))
			line.CreateAttr("y2", format(crossExtent))
		}
		line.CreateAttr("stroke", r.opts.GridColor)
		line.CreateAttr("stroke-width", "1")
	}
}

func (r *Renderer) drawPlacements(root *etree.Element, snap layout.Snapshot, result *layout.Result, lanes []lane) {
	occs := collectOccurrences(result)

	keys := make([]string, 0, len(result.Placements))
	for key := range result.Placements {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		p := result.Placements[key]
		occ := occs[key]
		if occ == nil {
			continue
		}

		l := lanes[0]
		if p.Lane < len(lanes) {
			l = lanes[p.Lane]
		}
		sub := l.size / float64(p.ConcurrentCount)
		cross := l.top + float64(p.Offset)*sub

		timePos := p.X
		if snap.Orientation.TimeOnY() {
			timePos = p.Y
		}

		if occ.ReferenceLine || p.Length == 0 {
			r.drawMarker(root, snap, timePos, l)
			continue
		}
		r.drawOccurrence(root, snap, occ, timePos, p.Length, cross, sub, p.OverflowsCell)
	}
}

// drawMarker draws a zero-duration occurrence as a 1px line across its lane.
func (r *Renderer) drawMarker(root *etree.Element, snap layout.Snapshot, timePos float64, l lane) {
	line := root.CreateElement("line")
	if snap.Orientation.TimeOnY() {
		line.CreateAttr("x1", format(l.top))
		line.CreateAttr("y1", format(timePos))
		line.CreateAttr("x2", format(l.top+l.size))
		line.CreateAttr("y2", format(timePos))
	} else {
		line.CreateAttr("x1", format(timePos))
		line.CreateAttr("y1", format(l.top))
		line.CreateAttr("x2", format(timePos))
		line.CreateAttr("y2", format(l.top+l.size))
	}
	line.CreateAttr("stroke", r.opts.ReferenceLineColor)
	line.CreateAttr("stroke-width", "1")
}

func (r *Renderer) drawOccurrence(root *etree.Element, snap layout.Snapshot, occ *layout.Occurrence, timePos, length, cross, sub float64, overflows bool) {
	color := occ.Color
	if color == "" {
		color = r.opts.DefaultEventColor
	}

	rect := root.CreateElement("rect")
	if snap.Orientation.TimeOnY() {
		rect.CreateAttr("x", format(cross))
		rect.CreateAttr("y", format(timePos))
		rect.CreateAttr("width", format(sub))
		rect.CreateAttr("height", format(length))
	} else {
		rect.CreateAttr("x", format(timePos))
		rect.CreateAttr("y", format(cross))
		rect.CreateAttr("width", format(length))
		rect.CreateAttr("height", format(sub))
	}
	rect.CreateAttr("fill", color)
	if occ.Disabled {
		rect.CreateAttr("fill-opacity", "0.4")
	}
	if overflows {
		// Continuation of a segment whose start lies off screen.
		rect.CreateAttr("stroke", color)
		rect.CreateAttr("stroke-dasharray", "4 2")
		rect.CreateAttr("fill-opacity", "0.6")
	}

	if r.opts.ShowTitles && occ.Title != "" {
		text := root.CreateElement("text")
		if snap.Orientation.TimeOnY() {
			text.CreateAttr("x", format(cross+2))
			text.CreateAttr("y", format(timePos+12))
		} else {
			text.CreateAttr("x", format(timePos+2))
			text.CreateAttr("y", format(cross+12))
		}
		text.CreateAttr("font-size", "10")
		text.SetText(occ.Title)
	}
}

// collectOccurrences walks the result's cells and indexes every placed
// occurrence by key. Placeholder segments appear like any other occurrence.
func collectOccurrences(result *layout.Result) map[string]*layout.Occurrence {
	occs := make(map[string]*layout.Occurrence)
	for _, col := range result.Columns {
		for _, cell := range col.Cells {
			for _, occ := range cell.Occurrences {
				occs[occ.Key] = occ
			}
		}
	}
	for _, row := range result.Rows {
		for _, cell := range row.Cells {
			for _, occ := range cell.Occurrences {
				occs[occ.Key] = occ
			}
		}
	}
	return occs
}

func format(v float64) string {
	return fmt.Sprintf("%g", v)
}
