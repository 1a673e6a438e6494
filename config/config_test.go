package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedgrid/schedgrid/layout"
)

func TestParse(t *testing.T) {
	doc := []byte(`
orientation: calendar-month
cell_size_px: 120
cell_duration: 24h
timezone: Europe/Paris
week_start: monday
visible_days: 35
`)
	cfg, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, layout.CalendarMonth, cfg.View())
	assert.Equal(t, 120.0, cfg.CellSizePx)
	assert.Equal(t, 24*time.Hour, time.Duration(cfg.CellDuration))
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
	assert.Equal(t, time.Monday, cfg.FirstDay())
	assert.Equal(t, 35, cfg.VisibleDays)
}

func TestParse_PartialGetsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("orientation: agenda\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, layout.Agenda, cfg.View())
	assert.Equal(t, def.CellSizePx, cfg.CellSizePx)
	assert.Equal(t, def.CellDuration, cfg.CellDuration)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, time.Sunday, cfg.FirstDay())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad orientation", "orientation: diagonal\n"},
		{"bad week start", "week_start: wednesday\n"},
		{"bad timezone", "timezone: Atlantis/Lost\n"},
		{"bad duration", "cell_duration: soon\n"},
		{"not yaml", ": : :\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields default", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "view.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cell_size_px: 80\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 80.0, cfg.CellSizePx)
	})
}

func TestCells(t *testing.T) {
	cfg := Default()
	cfg.CellDuration = Duration(30 * time.Minute)
	cfg.VisibleDays = 2

	// 10:15 truncates to midnight of the same day.
	start := time.Date(2024, 3, 4, 10, 15, 0, 0, time.UTC)
	cells := cfg.Cells(start)

	require.Len(t, cells, 96)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), cells[0].Start)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), cells[95].End)
	for i := 1; i < len(cells); i++ {
		assert.Equal(t, cells[i-1].End, cells[i].Start, "cells must be contiguous")
	}
}
