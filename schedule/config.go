package schedule

import (
	"time"
)

// ExpanderConfig holds configuration options for the occurrence expander.
type ExpanderConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// Performance tuning
	MaxOccurrencesPerEvent int           // Cap on occurrences expanded from one event
	LargeRangeThreshold    time.Duration // Threshold for "large" windows that get limited expansion
	LargeRangeLimit        time.Duration // Limit for expansion when the window exceeds the threshold
}

// DefaultExpanderConfig provides sensible defaults for production use.
var DefaultExpanderConfig = ExpanderConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,

	MaxOccurrencesPerEvent: 1000,
	LargeRangeThreshold:    90 * 24 * time.Hour, // 90 days
	LargeRangeLimit:        90 * 24 * time.Hour, // Limit to 90 days expansion
}

// HighPerformanceConfig is optimized for hosts that re-run layout passes
// on every interaction.
var HighPerformanceConfig = ExpanderConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             30 * time.Minute, // Longer cache TTL
		MaxEntries:      5000,             // More cache entries
		CleanupInterval: 10 * time.Minute, // Less frequent cleanup
	},

	MaxOccurrencesPerEvent: 500,
	LargeRangeThreshold:    30 * 24 * time.Hour,
	LargeRangeLimit:        30 * 24 * time.Hour,
}

// LowMemoryConfig is optimized for memory-constrained environments.
var LowMemoryConfig = ExpanderConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute, // Shorter cache TTL
		MaxEntries:      100,             // Fewer cache entries
		CleanupInterval: 2 * time.Minute, // More frequent cleanup
	},

	MaxOccurrencesPerEvent: 2000,
	LargeRangeThreshold:    180 * 24 * time.Hour,
	LargeRangeLimit:        180 * 24 * time.Hour,
}

// DisabledCacheConfig turns off caching entirely.
var DisabledCacheConfig = ExpanderConfig{
	CacheEnabled: false,
	CacheConfig:  CacheConfig{}, // Not used

	MaxOccurrencesPerEvent: 1000,
	LargeRangeThreshold:    365 * 24 * time.Hour,
	LargeRangeLimit:        365 * 24 * time.Hour,
}
