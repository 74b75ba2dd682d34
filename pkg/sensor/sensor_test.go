package sensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landersim/pkg/geom"
	"landersim/pkg/sites"
	"landersim/pkg/terrain"
	"landersim/pkg/tracker"
)

// spike is flat at 0 except for a single raised sample at x=0.
type spike struct{}

func (spike) Height(x float64, _ int) float64 {
	if x == 0 {
		return 40
	}
	return 0
}

func (spike) Resolution(int) float64 { return 10 }

type countingSampler struct {
	terrain.Sampler
	calls int
}

func (c *countingSampler) Height(x float64, lod int) float64 {
	c.calls++
	return c.Sampler.Height(x, lod)
}

func TestClosestPointOnTerrain(t *testing.T) {
	slope := terrain.Func{F: func(x float64) float64 { return x }, Base: 1}

	tests := []struct {
		name     string
		s        terrain.Sampler
		pos      geom.Vec2
		radius   float64
		wantX    float64
		wantY    float64
		wantDist float64
	}{
		{"Flat Directly Below", terrain.Flat{Y: 0}, geom.V(123, 50), 200, 123, 0, 50},
		{"Flat Unaligned Origin", terrain.Flat{Y: 0}, geom.V(3.7, 50), 100, 3.7, 0, 50},
		{"Zero Radius", terrain.Flat{Y: 10}, geom.V(5, 50), 0, 5, 10, 40},
		{"Diagonal Slope", slope, geom.V(0, 10), 50, 5, 5, math.Sqrt(50)},
		{"Lone Spike At Origin", spike{}, geom.V(0, 50), 100, 0, 40, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, d := ClosestPointOnTerrain(tt.s, tt.pos, 0, tt.radius)
			assert.InDelta(t, tt.wantX, x, 1e-6)
			assert.InDelta(t, tt.wantY, y, 1e-6)
			assert.InDelta(t, tt.wantDist, d, 1e-6)
		})
	}
}

// zeroRes reports a degenerate resolution.
type zeroRes struct{ terrain.Flat }

func (zeroRes) Resolution(int) float64 { return 0 }

func TestClosestPointOnTerrain_ClampsStep(t *testing.T) {
	x, y, d := ClosestPointOnTerrain(zeroRes{}, geom.V(0, 5), 0, 1e-5)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.Equal(t, 0.0, y)
	assert.Equal(t, 5.0, d)
}

func TestRadarContacts(t *testing.T) {
	candidates := []sites.Site{
		{UID: "far", X: 3000, Y: 0, Size: 50, Award: 10, FuelPrice: 5},
		{UID: "mid", X: 0, Y: 1500, Size: 60, Award: 20, FuelPrice: 6},
		{UID: "near", X: 300, Y: 400, Size: 70, Award: 30, FuelPrice: 7, Visited: true},
		{UID: "tieA", X: -1500, Y: 0, Size: 10, Award: 1},
		{UID: "tieB", X: 1500, Y: 0, Size: 10, Award: 1},
	}

	got := RadarContacts(geom.V(0, 0), candidates, 1000, 2000)
	require.Len(t, got, 4)

	uids := make([]string, len(got))
	for i, c := range got {
		uids[i] = c.UID
	}
	assert.Equal(t, []string{"near", "mid", "tieA", "tieB"}, uids)

	near := got[0]
	assert.Equal(t, 500.0, near.Distance)
	assert.True(t, near.IsInnerLock)
	assert.Equal(t, 300.0, near.RelX)
	assert.Equal(t, 400.0, near.RelY)
	assert.InDelta(t, math.Atan2(400, 300), near.Angle, 1e-12)
	assert.Equal(t, sites.Info{Award: 0, FuelPrice: 7}, near.Info)

	mid := got[1]
	assert.False(t, mid.IsInnerLock)
	assert.Equal(t, 60.0, mid.Size)
	assert.Equal(t, sites.Info{Award: 20, FuelPrice: 6}, mid.Info)
}

func TestRadarContacts_Boundaries(t *testing.T) {
	candidates := []sites.Site{{UID: "edge", X: 2000}, {UID: "inner", X: -1000}}
	got := RadarContacts(geom.V(0, 0), candidates, 1000, 2000)
	require.Len(t, got, 2)
	assert.True(t, got[0].IsInnerLock, "distance == inner locks")
	assert.False(t, got[1].IsInnerLock)

	assert.Empty(t, RadarContacts(geom.V(0, 0), candidates, 1000, 999))
}

func TestRadar_UsesReadModel(t *testing.T) {
	model := sites.NewSurfaceModel(
		sites.Site{UID: "a", X: 100, Y: 0, Size: 20},
		sites.Site{UID: "b", X: 5000, Y: 0, Size: 20},
	)
	got := Radar(geom.V(0, 0), model, 1000, 2000)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].UID)
	assert.Nil(t, Radar(geom.V(0, 0), nil, 1, 2))
}

func TestProximity_FlatContact(t *testing.T) {
	tr := tracker.New()
	p := NewProximity(0, 0, tr)

	c, ok := p.Contact(terrain.Flat{Y: 0}, geom.V(10, 50), 100)
	require.True(t, ok)
	assert.InDelta(t, 10.0, c.X, 1e-9)
	assert.Equal(t, 0.0, c.Y)
	assert.Equal(t, 50.0, c.Distance)
	assert.InDelta(t, -math.Pi/2, c.Angle, 1e-9)
	assert.Equal(t, geom.V(0, 1), c.Normal)
	assert.Equal(t, 0.0, c.Slope)

	_, ok = p.Contact(terrain.Flat{Y: 0}, geom.V(10.2, 49.9), 100)
	require.True(t, ok)

	stats := tr.Snapshot()["proximity"]
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestProximity_OutOfRangeIsNotCached(t *testing.T) {
	s := &countingSampler{Sampler: terrain.Flat{Y: 0}}
	p := NewProximity(8, 1, nil)

	_, ok := p.Contact(s, geom.V(0, 50), 40)
	assert.False(t, ok)
	assert.Equal(t, 0, p.Len())

	before := s.calls
	_, ok = p.Contact(s, geom.V(0, 50), 40)
	assert.False(t, ok)
	assert.Greater(t, s.calls, before, "a rejected query must be recomputed, not served from cache")
}

func TestProximity_ShrunkRangeReturnsFalse(t *testing.T) {
	p := NewProximity(8, 1, nil)
	s := terrain.Flat{Y: 0}

	_, ok := p.Contact(s, geom.V(0, 50), 100)
	require.True(t, ok)

	_, ok = p.Contact(s, geom.V(0, 50), 30)
	assert.False(t, ok)
}

func TestProximity_CachedHitRevalidatesRange(t *testing.T) {
	// quantize 10 folds range 52 and 48 onto the same key (50)
	p := NewProximity(8, 10, nil)
	s := terrain.Flat{Y: 0}

	c, ok := p.Contact(s, geom.V(0, 50), 52)
	require.True(t, ok)
	assert.Equal(t, 50.0, c.Distance)

	_, ok = p.Contact(s, geom.V(0, 50), 48)
	assert.False(t, ok, "cached distance beyond the requested range must be rejected")
}

func TestProximity_Eviction(t *testing.T) {
	tr := tracker.New()
	p := NewProximity(2, 1, tr)
	s := terrain.Flat{Y: 0}

	for i := 0; i < 5; i++ {
		_, ok := p.Contact(s, geom.V(float64(i*10), 5), 20)
		require.True(t, ok)
	}
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, int64(3), tr.Snapshot()["proximity"].Evictions)
}

func TestSurfaceMetrics(t *testing.T) {
	s := terrain.Func{F: func(x float64) float64 { return x }, Base: 10}
	n, slope := SurfaceMetrics(s, 0)
	assert.InDelta(t, 1.0, slope, 1e-12)
	assert.InDelta(t, -1/math.Sqrt2, n.X, 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, n.Y, 1e-12)
}

func TestRaycast(t *testing.T) {
	flat := terrain.Flat{Y: 0}

	tests := []struct {
		name     string
		origin   geom.Vec2
		angle    float64
		maxDist  float64
		wantHit  bool
		wantX    float64
		wantDist float64
	}{
		{"Straight Down", geom.V(0, 100), -math.Pi / 2, 500, true, 0, 100},
		{"Diagonal", geom.V(0, 100), -math.Pi / 4, 500, true, 100, 100 * math.Sqrt2},
		{"Too Short", geom.V(0, 100), -math.Pi / 2, 50, false, 0, 0},
		{"Pointing Up", geom.V(0, 100), math.Pi / 2, 500, false, 0, 0},
		{"Exactly Reaches", geom.V(0, 100), -math.Pi / 2, 100, true, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := Raycast(flat, tt.origin, tt.angle, tt.maxDist, 7)
			assert.Equal(t, tt.wantHit, hit.Hit)
			if tt.wantHit {
				assert.InDelta(t, tt.wantX, hit.X, 1e-3)
				assert.InDelta(t, 0.0, hit.Y, 1e-3)
				assert.InDelta(t, tt.wantDist, hit.Distance, 1e-3)
			}
		})
	}

	under := Raycast(flat, geom.V(0, -5), 0, 100, 1)
	assert.True(t, under.Hit)
	assert.Equal(t, 0.0, under.Distance)
}
