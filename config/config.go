// Package config loads grid and view settings from YAML files. A host
// embedding the layout engine typically keeps the visual knobs (orientation,
// cell size, timezone, week start) in a small config file next to its own
// settings; this package turns that file into the values layout.Snapshot
// expects.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/schedgrid/schedgrid/internal/timeutil"
	"github.com/schedgrid/schedgrid/layout"
)

// ErrInvalid is wrapped by all validation failures.
var ErrInvalid = errors.New("invalid view configuration")

// Duration is a time.Duration that marshals to and from YAML as a string
// such as "30m" or "1h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ViewConfig describes one scheduler view: which axis carries time, how
// large a cell is on screen and in time, and the calendar conventions used
// when slicing the visible range into cells.
type ViewConfig struct {
	// Orientation selects the view variant. Accepted values are
	// "timeline-horizontal", "timeline-vertical", "calendar-horizontal",
	// "calendar-vertical", "calendar-month" and "agenda".
	Orientation string `yaml:"orientation"`

	// CellSizePx is the on-screen size of one cell along the time axis.
	CellSizePx float64 `yaml:"cell_size_px"`

	// CellDuration is the span of time one cell covers, e.g. "30m" or "24h".
	CellDuration Duration `yaml:"cell_duration"`

	// Timezone is the IANA zone the visible range is anchored in,
	// e.g. "Europe/Paris". Empty means UTC.
	Timezone string `yaml:"timezone"`

	// WeekStart is "sunday" or "monday". Month views use it to decide where
	// rows break; the spill-over segments of multi-week events follow it too.
	WeekStart string `yaml:"week_start"`

	// VisibleDays is the number of days the view shows at once.
	VisibleDays int `yaml:"visible_days"`
}

// Default returns the configuration used when no file is present: a
// horizontal timeline of one day in hour cells, weeks starting on Sunday.
func Default() ViewConfig {
	return ViewConfig{
		Orientation:  layout.TimelineHorizontal.String(),
		CellSizePx:   50,
		CellDuration: Duration(time.Hour),
		Timezone:     "UTC",
		WeekStart:    "sunday",
		VisibleDays:  1,
	}
}

// Normalize fills zero values with their defaults so that partial config
// files keep working.
func (c *ViewConfig) Normalize() {
	def := Default()
	if c.Orientation == "" {
		c.Orientation = def.Orientation
	}
	if c.CellSizePx <= 0 {
		c.CellSizePx = def.CellSizePx
	}
	if c.CellDuration <= 0 {
		c.CellDuration = def.CellDuration
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.WeekStart == "" {
		c.WeekStart = def.WeekStart
	}
	if c.VisibleDays <= 0 {
		c.VisibleDays = def.VisibleDays
	}
}

// Validate reports the first problem with the configuration. Call it after
// Normalize; a normalized default config always validates.
func (c *ViewConfig) Validate() error {
	if _, err := layout.ParseOrientation(c.Orientation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		return fmt.Errorf("%w: week_start must be \"sunday\" or \"monday\", got %q", ErrInvalid, c.WeekStart)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalid, c.Timezone, err)
	}
	return nil
}

// View returns the parsed orientation. The config must have been validated.
func (c *ViewConfig) View() layout.Orientation {
	o, _ := layout.ParseOrientation(c.Orientation)
	return o
}

// Location returns the configured timezone. The config must have been
// validated.
func (c *ViewConfig) Location() *time.Location {
	loc, _ := time.LoadLocation(c.Timezone)
	return loc
}

// FirstDay returns the configured first day of the week.
func (c *ViewConfig) FirstDay() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// Cells slices the visible range starting at visibleStart into contiguous
// intervals of CellDuration, ready to hand to the layout engine. The start
// is truncated to the start of its day in the configured timezone.
func (c *ViewConfig) Cells(visibleStart time.Time) []timeutil.Interval {
	start := timeutil.StartOfDay(visibleStart.In(c.Location()))
	end := start.AddDate(0, 0, c.VisibleDays)

	n := int(end.Sub(start) / time.Duration(c.CellDuration))
	cells := make([]timeutil.Interval, 0, n)
	for t := start; t.Before(end); t = t.Add(time.Duration(c.CellDuration)) {
		cells = append(cells, timeutil.Interval{Start: t, End: t.Add(time.Duration(c.CellDuration))})
	}
	return cells
}

// Parse decodes a YAML document into a normalized, validated ViewConfig.
func Parse(data []byte) (ViewConfig, error) {
	var cfg ViewConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ViewConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return ViewConfig{}, err
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path. A missing file yields the
// default configuration rather than an error, so hosts can treat the file
// as optional.
func Load(path string) (ViewConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return ViewConfig{}, fmt.Errorf("reading view config: %w", err)
	}
	return Parse(data)
}
