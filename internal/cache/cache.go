package cache

import (
	"encoding/json"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"auralis.core/internal/fingerprint"
	"auralis.core/internal/logger"
)

const (
	defaultDBFile        = "fingerprints.db"
	defaultMaxMemory     = 50
	defaultPreloadRecent = 1000
)

// Stats reports the cache's current counters, matching the fields the
// original persistent cache exposes via get_stats() plus the spec's own
// requirements (hits, misses, insertions, L1 size, L2 row count, L2 size,
// configured limits).
type Stats struct {
	Hits              int64
	Misses            int64
	Insertions        int64
	MemoryEntries     int
	PersistentEntries int64
	PersistentSizeMB  float64
	MaxMemoryEntries  int
	MaxSizeGB         float64
	HitRatePercent    float64
}

// Cache is the two-level fingerprint cache (C2): an in-memory LRU in front
// of a persistent SQLite table. The process owns one persistentStore for
// its lifetime (see SPEC_FULL.md §9 on the two legitimate singletons);
// Cache itself may be constructed more than once in tests against
// different temp directories.
type Cache struct {
	memory *memoryCache
	store  *persistentStore

	hits       atomic.Int64
	misses     atomic.Int64
	insertions atomic.Int64
}

// Option configures a Cache under construction.
type Option func(*options)

type options struct {
	dbPath        string
	maxMemory     int
	maxSizeGB     float64
	preloadRecent int
}

// WithDBPath overrides the SQLite file location (default: <dir>/fingerprints.db).
func WithDBPath(path string) Option { return func(o *options) { o.dbPath = path } }

// WithMaxMemory overrides the L1 in-memory entry cap.
func WithMaxMemory(n int) Option { return func(o *options) { o.maxMemory = n } }

// WithMaxSizeGB overrides the L2 database size limit.
func WithMaxSizeGB(gb float64) Option { return func(o *options) { o.maxSizeGB = gb } }

// WithPreloadCount overrides how many recently-accessed rows are loaded
// into L1 at startup (0 disables preload).
func WithPreloadCount(n int) Option { return func(o *options) { o.preloadRecent = n } }

// New opens (creating if needed) the persistent cache rooted at dir and
// wraps it with an in-memory LRU, per §4.2 and §6.
func New(dir string, opts ...Option) (*Cache, error) {
	o := &options{
		dbPath:        filepath.Join(dir, defaultDBFile),
		maxMemory:     defaultMaxMemory,
		maxSizeGB:     defaultMaxSizeGB,
		preloadRecent: defaultPreloadRecent,
	}
	for _, opt := range opts {
		opt(o)
	}

	store, err := openPersistentStore(o.dbPath, o.maxSizeGB)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		memory: newMemoryCache(o.maxMemory),
		store:  store,
	}

	if o.preloadRecent > 0 {
		c.preload(o.preloadRecent)
	}
	return c, nil
}

func (c *Cache) preload(n int) {
	rows, err := c.store.mostRecentlyAccessed(n)
	if err != nil {
		logger.WarnWithFields("cache preload failed", zap.Error(err))
		return
	}
	for _, row := range rows {
		var fp fingerprint.Fingerprint
		if err := json.Unmarshal([]byte(row.FingerprintJSON), &fp); err != nil {
			continue
		}
		c.memory.set(row.CacheKey, fp)
	}
}

// Get looks up audioBytes's fingerprint: memory tier first, then the
// persistent tier (repopulating memory on an L2 hit). A persistent I/O
// error degrades to a cache miss — it never reaches the caller, per the
// error-handling design; it is only logged.
func (c *Cache) Get(audioBytes []byte) (fingerprint.Fingerprint, bool) {
	key := Key(audioBytes)

	if fp, ok := c.memory.get(key); ok {
		c.hits.Add(1)
		return fp, true
	}

	fp, _, ok, err := c.store.get(key)
	if err != nil {
		logger.WarnWithFields("persistent cache read failed, treating as miss",
			logger.WithCacheKey(key), zap.Error(err))
		c.misses.Add(1)
		return fingerprint.Fingerprint{}, false
	}
	if !ok {
		c.misses.Add(1)
		return fingerprint.Fingerprint{}, false
	}

	c.memory.set(key, fp)
	c.hits.Add(1)
	return fp, true
}

// Set writes fp to both cache levels, keyed by audioBytes.
func (c *Cache) Set(audioBytes []byte, fp fingerprint.Fingerprint, audioLength int64) error {
	key := Key(audioBytes)
	c.memory.set(key, fp)

	if err := c.store.set(key, fp, audioLength); err != nil {
		logger.WarnWithFields("persistent cache write failed",
			logger.WithCacheKey(key), zap.Error(err))
		return nil
	}
	c.insertions.Add(1)
	return nil
}

// Stats returns the current cache counters.
func (c *Cache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = 100 * float64(hits) / float64(total)
	}

	sizeBytes, _ := c.store.fileSizeBytes()
	return Stats{
		Hits:              hits,
		Misses:            misses,
		Insertions:        c.insertions.Load(),
		MemoryEntries:     c.memory.len(),
		PersistentEntries: c.store.count(),
		PersistentSizeMB:  float64(sizeBytes) / 1e6,
		MaxMemoryEntries:  c.memory.maxEntries,
		MaxSizeGB:         c.store.maxGB,
		HitRatePercent:    hitRate,
	}
}

// Clear empties both cache levels.
func (c *Cache) Clear() error {
	c.memory.clear()
	return c.store.clear()
}

// CleanupOldEntries removes persistent rows not accessed within the given
// number of days, returning the count removed.
func (c *Cache) CleanupOldEntries(days int) (int64, error) {
	return c.store.cleanupOlderThan(time.Duration(days) * 24 * time.Hour)
}
