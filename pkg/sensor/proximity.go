package sensor

import (
	"log/slog"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"landersim/pkg/geom"
	"landersim/pkg/terrain"
	"landersim/pkg/tracker"
)

const (
	DefaultProximityCapacity = 256
	DefaultProximityQuantize = 1.0
	DefaultProximityRange    = 500.0

	trackerName = "proximity"
)

// ProximityContact is the nearest terrain point within sensor range.
type ProximityContact struct {
	X        float64
	Y        float64
	Angle    float64 // from the query origin to the contact point
	Distance float64
	Normal   geom.Vec2
	Slope    float64
}

type proximityKey struct {
	x, y, rng float64
}

type proximityEntry struct {
	x, y, dist float64
}

// Proximity answers nearest-terrain queries through a bounded LRU cache
// keyed by the quantized query origin and range.
type Proximity struct {
	quantize float64
	cache    *lru.Cache[proximityKey, proximityEntry]
	tracker  *tracker.Tracker
}

// NewProximity creates a sensor. Non-positive capacity or quantize select the
// defaults. tr may be nil.
func NewProximity(capacity int, quantize float64, tr *tracker.Tracker) *Proximity {
	if capacity <= 0 {
		capacity = DefaultProximityCapacity
	}
	if quantize <= 0 {
		quantize = DefaultProximityQuantize
	}
	quantize = math.Max(1e-6, quantize)

	p := &Proximity{quantize: quantize, tracker: tr}
	cache, err := lru.NewWithEvict(capacity, func(proximityKey, proximityEntry) {
		p.tracker.TrackEviction(trackerName)
	})
	if err != nil {
		// only reachable with a non-positive size
		slog.Error("Proximity cache init failed", "capacity", capacity, "error", err)
		return nil
	}
	p.cache = cache
	return p
}

// Len returns the number of cached entries.
func (p *Proximity) Len() int { return p.cache.Len() }

func (p *Proximity) key(pos geom.Vec2, rng float64) proximityKey {
	q := p.quantize
	return proximityKey{
		x:   math.Round(pos.X/q) * q,
		y:   math.Round(pos.Y/q) * q,
		rng: math.Round(rng/q) * q,
	}
}

// Contact returns the closest terrain point within rng of pos. It reports
// false when nothing is in range. Out-of-range results are never cached.
func (p *Proximity) Contact(s terrain.Sampler, pos geom.Vec2, rng float64) (ProximityContact, bool) {
	k := p.key(pos, rng)

	if e, ok := p.cache.Get(k); ok {
		p.tracker.TrackCacheHit(trackerName)
		if !isFinite(e.dist) || e.dist > rng {
			return ProximityContact{}, false
		}
		return contactFrom(s, pos, e), true
	}
	p.tracker.TrackCacheMiss(trackerName)

	cx, cy, dist := ClosestPointOnTerrain(s, pos, 0, rng)
	if !isFinite(dist) || dist > rng {
		return ProximityContact{}, false
	}
	e := proximityEntry{x: cx, y: cy, dist: dist}
	p.cache.Add(k, e)
	return contactFrom(s, pos, e), true
}

func contactFrom(s terrain.Sampler, pos geom.Vec2, e proximityEntry) ProximityContact {
	normal, slope := SurfaceMetrics(s, e.x)
	return ProximityContact{
		X:        e.x,
		Y:        e.y,
		Angle:    math.Atan2(e.y-pos.Y, e.x-pos.X),
		Distance: e.dist,
		Normal:   normal,
		Slope:    slope,
	}
}

// SurfaceMetrics estimates the terrain normal and slope at x with a
// symmetric finite difference at the lod 0 resolution (at least 0.5).
func SurfaceMetrics(s terrain.Sampler, x float64) (geom.Vec2, float64) {
	step := math.Max(0.5, s.Resolution(0))
	y0 := s.Height(x-step, 0)
	y1 := s.Height(x+step, 0)
	slope := (y1 - y0) / (2 * step)

	n := geom.V(-slope, 1)
	if l := n.Len(); l > 1e-9 && isFinite(l) {
		return n.Scale(1 / l), slope
	}
	return geom.V(0, 1), slope
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
