package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedgrid/schedgrid/internal/timeutil"
	"github.com/schedgrid/schedgrid/layout"
	"github.com/schedgrid/schedgrid/schedule"
)

func hourCells(day time.Time, n int) []timeutil.Interval {
	cells := make([]timeutil.Interval, n)
	for i := range cells {
		cells[i] = timeutil.Interval{
			Start: day.Add(time.Duration(i) * time.Hour),
			End:   day.Add(time.Duration(i+1) * time.Hour),
		}
	}
	return cells
}

func storeEvent(key string) schedule.Event {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return schedule.Event{Key: key, Start: start, End: start.Add(time.Hour)}
}

func TestStore_Events(t *testing.T) {
	store := New()

	require.NoError(t, store.PutEvent(storeEvent("a")))

	got, err := store.GetEvent("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Key)

	_, err = store.GetEvent("missing")
	assert.ErrorIs(t, err, schedule.ErrNotFound)

	err = store.PutEvent(schedule.Event{})
	assert.ErrorIs(t, err, schedule.ErrInvalidInput)

	require.NoError(t, store.DeleteEvent("a"))
	_, err = store.GetEvent("a")
	assert.ErrorIs(t, err, schedule.ErrNotFound)

	assert.ErrorIs(t, store.DeleteEvent("a"), schedule.ErrNotFound)
}

func TestStore_DeleteEventRemovesOverrides(t *testing.T) {
	store := New()

	master := storeEvent("daily")
	master.Recurrence.RRule = "FREQ=DAILY;COUNT=5"
	require.NoError(t, store.PutEvent(master))

	recID := master.Start.AddDate(0, 0, 1)
	override := storeEvent("daily")
	override.IsOverride = true
	override.Recurrence.RecurrenceID = &recID
	require.NoError(t, store.PutEvent(override))

	events, _ := store.Snapshot()
	assert.Len(t, events, 2, "master and override stored separately")

	require.NoError(t, store.DeleteEvent("daily"))
	events, _ = store.Snapshot()
	assert.Empty(t, events)
}

func TestStore_ResourcesKeepOrder(t *testing.T) {
	store := New()

	require.NoError(t, store.PutResource(layout.Resource{Name: "room-a", Height: 40}))
	require.NoError(t, store.PutResource(layout.Resource{Name: "room-b", Height: 60}))
	require.NoError(t, store.PutResource(layout.Resource{Name: "room-a", Height: 50})) // replace

	_, resources := store.Snapshot()
	require.Len(t, resources, 2)
	assert.Equal(t, "room-a", resources[0].Name)
	assert.Equal(t, 50.0, resources[0].Height, "replacement keeps lane position")
	assert.Equal(t, "room-b", resources[1].Name)

	require.NoError(t, store.DeleteResource("room-a"))
	_, resources = store.Snapshot()
	require.Len(t, resources, 1)
	assert.Equal(t, "room-b", resources[0].Name)

	assert.ErrorIs(t, store.DeleteResource("room-a"), schedule.ErrNotFound)
	assert.ErrorIs(t, store.PutResource(layout.Resource{}), schedule.ErrInvalidInput)
}

func TestStore_SnapshotFeedsLayout(t *testing.T) {
	store := New()
	require.NoError(t, store.PutResource(layout.Resource{Name: "room-a", Height: 40}))

	ev := storeEvent("a")
	ev.ResourceName = "room-a"
	require.NoError(t, store.PutEvent(ev))

	events, resources := store.Snapshot()

	x := schedule.NewExpander(nil)
	t.Cleanup(x.Close)
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	res, err := x.Expand(events, timeutil.Interval{Start: day, End: day.AddDate(0, 0, 1)}, time.UTC)
	require.NoError(t, err)

	engine := layout.NewEngine()
	result := engine.Recompute(layout.Snapshot{
		Orientation:  layout.TimelineHorizontal,
		Cells:        hourCells(day, 24),
		Occurrences:  res.Occurrences,
		Resources:    resources,
		CellSizePx:   50,
		CellDuration: time.Hour,
	})

	require.Len(t, result.Rows, 1)
	require.Len(t, result.Placements, 1)
	for _, p := range result.Placements {
		assert.Equal(t, 450.0, p.X)
		assert.Equal(t, 50.0, p.Length)
	}
}
