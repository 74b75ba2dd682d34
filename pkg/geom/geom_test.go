package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestOnSegment(t *testing.T) {
	tests := []struct {
		name     string
		p, a, b  Vec2
		want     Vec2
		wantDist float64
	}{
		{"Perpendicular", V(5, 5), V(0, 0), V(10, 0), V(5, 0), 5},
		{"Clamped Before Start", V(-3, 4), V(0, 0), V(10, 0), V(0, 0), 5},
		{"Clamped After End", V(13, 4), V(0, 0), V(10, 0), V(10, 0), 5},
		{"Zero Length", V(3, 4), V(0, 0), V(0, 0), V(0, 0), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, d := ClosestOnSegment(tt.p, tt.a, tt.b)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.wantDist, d, 1e-9)
		})
	}
}

func TestPolygonArea(t *testing.T) {
	assert.InDelta(t, 64.0, PolygonArea(Box(8, 8)), 1e-9)

	// clockwise winding must not flip the sign
	cw := []Vec2{{-4, 4}, {4, 4}, {4, -4}, {-4, -4}}
	assert.InDelta(t, 64.0, PolygonArea(cw), 1e-9)

	assert.Equal(t, 0.0, PolygonArea([]Vec2{{0, 0}, {1, 1}}))
	assert.Equal(t, 0.0, PolygonArea([]Vec2{{-2, 0}, {0, 0}, {2, 0}}))
}

func TestExtent(t *testing.T) {
	w, h := Extent([][]Vec2{Box(8, 6), {{10, 0}, {11, 1}, {10, 1}}})
	assert.InDelta(t, 15.0, w, 1e-9)
	assert.InDelta(t, 6.0, h, 1e-9)

	w, h = Extent(nil)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestTransform(t *testing.T) {
	tr := Transform{Pos: V(10, 0), Angle: math.Pi / 2}
	// local +Y rotated clockwise by 90 degrees points along world +X
	got := tr.Apply(V(0, 1))
	assert.InDelta(t, 11.0, got.X, 1e-9)
	assert.InDelta(t, 0.0, got.Y, 1e-9)

	h := Heading(math.Pi / 2)
	assert.InDelta(t, 1.0, h.X, 1e-9)
	assert.InDelta(t, 0.0, h.Y, 1e-9)
}

func TestRange1D(t *testing.T) {
	r := RangeFromCenter(100, 10)
	assert.Equal(t, Range1D{Min: 90, Max: 110}, r)
	assert.Equal(t, 100.0, r.Center())
	assert.Equal(t, 10.0, r.HalfSpan())
	assert.True(t, r.Contains(110))
	assert.False(t, r.Contains(110.01))
	assert.True(t, r.Overlaps(Range1D{Min: 110, Max: 200}))
	assert.False(t, r.Overlaps(Range1D{Min: 111, Max: 200}))

	assert.Equal(t, Range1D{Min: 5, Max: 5}, RangeFromCenter(5, -1))
}

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"Zero", 0, 0, 0},
		{"Positive", 0, 0.5, 0.5},
		{"Wrap", Rad(170), Rad(-170), Rad(20)},
		{"Wrap Negative", Rad(-170), Rad(170), Rad(-20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AngleDiff(tt.a, tt.b), 1e-9)
		})
	}
}
