package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker tracks usage statistics per component (proximity cache, terrain window, ...).
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*Stats
}

// Stats holds counters for one component.
// Fields are accessed atomically.
type Stats struct {
	CacheHits   int64
	CacheMisses int64
	Evictions   int64
	Rebuilds    int64
}

// HitRate returns hits / (hits + misses), or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*Stats),
	}
}

// getStats returns the stats object for a component, creating it if needed.
func (t *Tracker) getStats(name string) *Stats {
	t.mu.RLock()
	s, ok := t.stats[name]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[name]; ok {
		return s
	}
	s = &Stats{}
	t.stats[name] = s
	return s
}

// TrackCacheHit increments the cache hit counter. A nil tracker is a no-op.
func (t *Tracker) TrackCacheHit(name string) {
	if t == nil {
		return
	}
	atomic.AddInt64(&t.getStats(name).CacheHits, 1)
}

func (t *Tracker) TrackCacheMiss(name string) {
	if t == nil {
		return
	}
	atomic.AddInt64(&t.getStats(name).CacheMisses, 1)
}

func (t *Tracker) TrackEviction(name string) {
	if t == nil {
		return
	}
	atomic.AddInt64(&t.getStats(name).Evictions, 1)
}

func (t *Tracker) TrackRebuild(name string) {
	if t == nil {
		return
	}
	atomic.AddInt64(&t.getStats(name).Rebuilds, 1)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]Stats {
	result := make(map[string]Stats)
	if t == nil {
		return result
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	for k, v := range t.stats {
		result[k] = Stats{
			CacheHits:   atomic.LoadInt64(&v.CacheHits),
			CacheMisses: atomic.LoadInt64(&v.CacheMisses),
			Evictions:   atomic.LoadInt64(&v.Evictions),
			Rebuilds:    atomic.LoadInt64(&v.Rebuilds),
		}
	}
	return result
}
