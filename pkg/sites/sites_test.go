package sites

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landersim/pkg/geom"
)

func TestSurfaceModel_Sites(t *testing.T) {
	m := NewSurfaceModel(
		Site{UID: "a", X: 0, Size: 20},
		Site{UID: "b", X: 100, Size: 20},
		Site{UID: "c", X: 30, Size: 20},
	)

	tests := []struct {
		name string
		span geom.Range1D
		want []string
	}{
		{"Centre Inside Footprint", geom.RangeFromCenter(5, 0), []string{"a"}},
		{"Footprint Edge Inclusive", geom.RangeFromCenter(10, 0), []string{"a"}},
		{"Widened By Half Span", geom.RangeFromCenter(15, 5), []string{"a", "c"}},
		{"Nearest First", geom.RangeFromCenter(60, 50), []string{"c", "b", "a"}},
		{"Nothing Nearby", geom.RangeFromCenter(-500, 10), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range m.Sites(tt.span) {
				got = append(got, s.UID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSurfaceModel_ConsumeAward(t *testing.T) {
	m := NewSurfaceModel(
		Site{UID: "a", Award: 100, FuelPrice: 7},
		Site{UID: "free", Award: 0},
	)
	var consumed []string
	m.OnConsume = func(uid string) { consumed = append(consumed, uid) }

	assert.Equal(t, 100.0, m.ConsumeAward("a"))
	assert.Equal(t, 0.0, m.ConsumeAward("a"))
	assert.Equal(t, 0.0, m.ConsumeAward("free"))
	assert.Equal(t, 0.0, m.ConsumeAward("missing"))
	assert.Equal(t, []string{"a"}, consumed)

	s, ok := m.Site("a")
	require.True(t, ok)
	assert.True(t, s.Visited)
	assert.Equal(t, Info{Award: 0, FuelPrice: 7}, s.Info())
	// still queryable after the visit
	assert.Len(t, m.Sites(geom.RangeFromCenter(0, 1)), 2)
}

func TestTerrainModifier(t *testing.T) {
	flush := Site{UID: "f", X: 0, Y: 50, Size: 20, Mode: ModeFlushFlatten, TerrainBound: true, BlendMargin: 20, CutDepth: 30}

	tests := []struct {
		name  string
		site  Site
		x     float64
		baseY float64
		lod   int
		want  float64
	}{
		{"Flush Inside", flush, 5, 0, 0, 50},
		{"Flush Edge", flush, 10, 0, 0, 50},
		{"Flush Blend Midpoint", flush, 20, 0, 0, 25},
		{"Flush Blend End", flush, 30, 0, 0, 0},
		{"Flush Outside", flush, 31, 0, 0, 0},
		{"Flush Blend Scales With LOD", flush, 30, 0, 1, 25},
		{"Cut In Below Site", Site{X: 0, Y: 50, Size: 20, Mode: ModeCutIn, TerrainBound: true, CutDepth: 30}, 0, 100, 0, 50},
		{"Cut In Digs Below Ground", Site{X: 0, Y: 50, Size: 20, Mode: ModeCutIn, TerrainBound: true, CutDepth: 30}, 0, 60, 0, 30},
		{"Cut In Negative Depth", Site{X: 0, Y: 50, Size: 20, Mode: ModeCutIn, TerrainBound: true, CutDepth: -5}, 0, 60, 0, 50},
		{"Elevated Ignored", Site{X: 0, Y: 50, Size: 20, Mode: ModeElevatedSupports, TerrainBound: true}, 0, 7, 0, 7},
		{"Not Terrain Bound Ignored", Site{X: 0, Y: 50, Size: 20, Mode: ModeFlushFlatten}, 0, 7, 0, 7},
		{"Zero Blend Is Hard Edge", Site{X: 0, Y: 50, Size: 20, Mode: ModeFlushFlatten, TerrainBound: true}, 10.5, 7, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.site.UID = "s"
			mod := TerrainModifier{Sites: NewSurfaceModel(tt.site)}
			assert.InDelta(t, tt.want, mod.Modify(tt.x, tt.baseY, tt.lod), 1e-9)
		})
	}
}

func TestTerrainModifier_SequentialOverlap(t *testing.T) {
	// the nearer site is applied first, the farther one blends against its output
	a := Site{UID: "a", X: 0, Y: 40, Size: 20, Mode: ModeFlushFlatten, TerrainBound: true, BlendMargin: 20}
	b := Site{UID: "b", X: 35, Y: 10, Size: 20, Mode: ModeFlushFlatten, TerrainBound: true, BlendMargin: 20}
	mod := TerrainModifier{Sites: NewSurfaceModel(a, b)}

	// x=15: a gives lerp(40, 0, 0.25)=30, then b gives lerp(10, 30, 0.5)=20
	assert.InDelta(t, 20.0, mod.Modify(15, 0, 0), 1e-9)
	assert.Equal(t, mod.Modify(15, 0, 0), mod.Modify(15, 0, 0))
}

func TestBuildSeeded(t *testing.T) {
	height := func(x float64) float64 { return math.Sin(x/500) * 100 }

	a := BuildSeeded(height, 1234, 8)
	b := BuildSeeded(height, 1234, 8)
	require.Len(t, a, 17)
	assert.Equal(t, a, b)

	for i, s := range a[:16] {
		assert.GreaterOrEqual(t, s.Size, 50.0)
		assert.Less(t, s.Size, 100.0)
		assert.Equal(t, 0.0, math.Mod(s.FuelPrice*2, 1), "price rounds to 0.5")
		assert.GreaterOrEqual(t, s.Award, 100.0)
		assert.Less(t, s.Award, 500.0)
		if i < 8 {
			assert.Greater(t, s.X, 0.0)
		} else {
			assert.Less(t, s.X, 0.0)
		}
		ground := height(s.X)
		switch s.Mode {
		case ModeFlushFlatten:
			assert.True(t, s.TerrainBound)
			assert.LessOrEqual(t, math.Abs(s.Y-ground), 40.0)
		case ModeCutIn:
			assert.True(t, s.TerrainBound)
			assert.Less(t, s.Y, ground)
		case ModeElevatedSupports:
			assert.False(t, s.TerrainBound)
			assert.GreaterOrEqual(t, s.Y-ground, 60.0)
		default:
			t.Fatalf("unexpected mode %q", s.Mode)
		}
	}

	moving := a[16]
	assert.Equal(t, MovingSiteUID, moving.UID)
	assert.Equal(t, geom.V(35, 0), moving.Velocity)
	assert.InDelta(t, height(moving.X)+140, moving.Y, 1e-9)
}

type fakeParents map[string]struct {
	pose geom.Transform
	vel  geom.Vec2
}

func (f fakeParents) ParentState(uid string) (geom.Transform, geom.Vec2, bool) {
	p, ok := f[uid]
	return p.pose, p.vel, ok
}

func TestRegistry_AdvanceAndProject(t *testing.T) {
	r := NewRegistry(nil,
		Seed{UID: "drift", X: 0, Y: 10, Size: 40, Award: 50, Velocity: geom.V(10, 0), Mode: ModeElevatedSupports},
		Seed{UID: "ride", Size: 30, Award: 20, ParentUID: "carrier", LocalOffset: geom.V(0, 5), Mode: ModeElevatedSupports},
	)
	parents := fakeParents{"carrier": {pose: geom.Transform{Pos: geom.V(100, 200)}, vel: geom.V(-15, 0)}}

	r.Advance(0.5, parents)

	model := NewSurfaceModel()
	r.Project(model, parents)

	drift, ok := model.Site("drift")
	require.True(t, ok)
	assert.Equal(t, 5.0, drift.X)
	assert.Equal(t, geom.V(10, 0), drift.Vel)
	assert.Equal(t, DefaultFuelPrice, drift.FuelPrice)

	ride, ok := model.Site("ride")
	require.True(t, ok)
	assert.Equal(t, geom.V(100, 205), ride.Pos())
	assert.Equal(t, geom.V(-15, 0), ride.Vel)

	// visits survive re-projection
	assert.Equal(t, 50.0, model.ConsumeAward("drift"))
	r.Project(model, parents)
	drift, _ = model.Site("drift")
	assert.True(t, drift.Visited)
	assert.Equal(t, 0.0, model.ConsumeAward("drift"))
}

func TestRegistry_SpawnGeneratesUID(t *testing.T) {
	r := NewRegistry(nil)
	uid := r.Spawn(Seed{X: 1, Size: 10})
	assert.Contains(t, uid, "site_")
	assert.Equal(t, 1, r.Len())

	e, ok := r.Entity(uid)
	require.True(t, ok)
	assert.Equal(t, ModeFlushFlatten, e.Seed.Mode)
	assert.True(t, e.Seed.TerrainBound)
	assert.Equal(t, DefaultBlendMargin, e.Seed.BlendMargin)

	r.Spawn(Seed{UID: uid, X: 2, Size: 10})
	assert.Equal(t, []string{uid}, r.UIDs())
}
