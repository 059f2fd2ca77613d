package towercache

import (
	"sync"
	"time"

	"vacancy-analytics/internal/models"
)

// Snapshot is one complete aggregation pass: the tower graph plus the global
// stats reduced from it. Snapshots are immutable once built; a new pass
// produces a new snapshot.
type Snapshot struct {
	Towers  []models.Tower
	Stats   models.GlobalStats
	BuiltAt time.Time
}

// BuildFunc materializes a fresh snapshot from the row source.
type BuildFunc func() (*Snapshot, error)

// Cache holds the current snapshot and rebuilds it lazily after an explicit
// invalidation. It is owned by the caller that wires the pipeline; there is
// no process-wide state and no implicit expiry.
type Cache struct {
	mu    sync.Mutex
	build BuildFunc
	snap  *Snapshot
}

// New creates an empty cache; the first Get builds the snapshot.
func New(build BuildFunc) *Cache {
	return &Cache{build: build}
}

// Get returns the current snapshot, building one if none is cached.
func (c *Cache) Get() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil {
		return c.snap, nil
	}
	snap, err := c.build()
	if err != nil {
		return nil, err
	}
	c.snap = snap
	return snap, nil
}

// Invalidate drops the cached snapshot. The next Get rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Refresh rebuilds the snapshot immediately and swaps it in. On build failure
// the previous snapshot stays in place.
func (c *Cache) Refresh() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.build()
	if err != nil {
		return nil, err
	}
	c.snap = snap
	return snap, nil
}
