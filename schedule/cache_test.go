package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedgrid/schedgrid/layout"
)

func cacheTestEvent(key string) Event {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return Event{
		Key:        key,
		Start:      start,
		End:        start.Add(time.Hour),
		Recurrence: RecurrenceInfo{RRule: "FREQ=DAILY;COUNT=3"},
	}
}

func TestExpansionCache_SetGet(t *testing.T) {
	cache := NewExpansionCache(CacheConfig{
		TTL:             time.Minute,
		MaxEntries:      10,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(cache.Close)

	ev := cacheTestEvent("evt")
	rangeStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 7)
	occs := []layout.Occurrence{{Key: "evt/0", EventKey: "evt"}}

	_, ok := cache.Get(ev, rangeStart, rangeEnd, time.UTC)
	assert.False(t, ok, "empty cache must miss")

	cache.Set(ev, rangeStart, rangeEnd, time.UTC, occs)

	got, ok := cache.Get(ev, rangeStart, rangeEnd, time.UTC)
	require.True(t, ok)
	assert.Equal(t, occs, got)

	// A different window is a different entry.
	_, ok = cache.Get(ev, rangeStart, rangeEnd.AddDate(0, 0, 1), time.UTC)
	assert.False(t, ok)

	// So is the same event with different recurrence data.
	changed := ev
	changed.Recurrence.RRule = "FREQ=WEEKLY"
	_, ok = cache.Get(changed, rangeStart, rangeEnd, time.UTC)
	assert.False(t, ok)
}

func TestExpansionCache_Expiry(t *testing.T) {
	cache := NewExpansionCache(CacheConfig{
		TTL:             10 * time.Millisecond,
		MaxEntries:      10,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(cache.Close)

	ev := cacheTestEvent("evt")
	rangeStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 7)

	cache.Set(ev, rangeStart, rangeEnd, time.UTC, []layout.Occurrence{{Key: "evt/0"}})
	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get(ev, rangeStart, rangeEnd, time.UTC)
	assert.False(t, ok, "expired entry must miss")
}

func TestExpansionCache_EvictsOverLimit(t *testing.T) {
	cache := NewExpansionCache(CacheConfig{
		TTL:             time.Minute,
		MaxEntries:      3,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(cache.Close)

	rangeStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 7)
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		cache.Set(cacheTestEvent(key), rangeStart, rangeEnd, time.UTC, nil)
	}

	stats := cache.Stats()
	assert.LessOrEqual(t, stats.TotalEntries, 3)
}

func TestExpansionCache_Stats(t *testing.T) {
	cache := NewExpansionCache(DefaultCacheConfig)
	t.Cleanup(cache.Close)

	rangeStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 7)
	cache.Set(cacheTestEvent("a"), rangeStart, rangeEnd, time.UTC, nil)
	cache.Set(cacheTestEvent("b"), rangeStart, rangeEnd, time.UTC, nil)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 2, stats.ActiveEntries)
	assert.Equal(t, 0, stats.ExpiredEntries)
}

func TestExpander_UsesCache(t *testing.T) {
	x := NewExpanderWithConfig(DefaultExpanderConfig, nil)
	t.Cleanup(x.Close)

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	ev := Event{
		Key:        "daily",
		Start:      start,
		End:        start.Add(time.Hour),
		Recurrence: RecurrenceInfo{RRule: "FREQ=DAILY;COUNT=3"},
	}
	win := window(start, 7)

	first, err := x.Expand([]Event{ev}, win, time.UTC)
	require.NoError(t, err)
	second, err := x.Expand([]Event{ev}, win, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, first.Occurrences, second.Occurrences)
	assert.Equal(t, 1, x.cache.Stats().TotalEntries)
}
