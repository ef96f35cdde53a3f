// Package cache memoizes filter and aggregation results keyed by a
// fingerprint of the input rows and the query parameters. Entries live until
// the caller invalidates them; the engine is synchronous, so the mutex only
// guards against callers sharing one cache across goroutines of their own.
package cache

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ResultCache is a process-local memoization map with hit/miss accounting.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]any
	logger  *slog.Logger

	hits   prometheus.Counter
	misses prometheus.Counter
	size   prometheus.Gauge
}

// New creates a result cache. A nil registerer skips metric registration; a
// nil logger uses slog.Default().
func New(reg prometheus.Registerer, logger *slog.Logger) *ResultCache {
	if logger == nil {
		logger = slog.Default()
	}

	c := &ResultCache{
		entries: make(map[string]any),
		logger:  logger,
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surveybench_cache_hits_total",
			Help: "Number of result cache hits.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "surveybench_cache_misses_total",
			Help: "Number of result cache misses.",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "surveybench_cache_entries",
			Help: "Current number of result cache entries.",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.hits, c.misses, c.size)
	}

	return c
}

// Get returns the cached value for key, if any.
func (c *ResultCache) Get(key string) (any, bool) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Inc()
		c.logger.Debug("cache hit", slog.String("key", key))
	} else {
		c.misses.Inc()
		c.logger.Debug("cache miss", slog.String("key", key))
	}
	return value, ok
}

// Set stores a value under key, replacing any previous entry.
func (c *ResultCache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = value
	c.size.Set(float64(len(c.entries)))
	c.mu.Unlock()
}

// Clear drops every entry. Callers invoke this when mappings or source rows
// change; the cache has no expiry of its own.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]any)
	c.size.Set(0)
	c.mu.Unlock()

	c.logger.Debug("cache cleared", slog.Int("dropped", n))
}

// Len returns the current entry count.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
