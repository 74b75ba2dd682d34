package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func (v Vec2) point() orb.Point { return orb.Point{v.X, v.Y} }

// ClosestOnSegment projects p onto segment ab with the parameter clamped to
// [0,1] and returns the projected point and its distance to p. A zero-length
// segment yields a.
func ClosestOnSegment(p, a, b Vec2) (Vec2, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		return a, planar.Distance(p.point(), a.point())
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Vec2{a.X + t*dx, a.Y + t*dy}
	return closest, planar.Distance(p.point(), closest.point())
}

func ring(poly []Vec2) orb.Ring {
	r := make(orb.Ring, 0, len(poly)+1)
	for _, v := range poly {
		r = append(r, v.point())
	}
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// PolygonArea returns the unsigned area of a simple polygon.
func PolygonArea(poly []Vec2) float64 {
	if len(poly) < 3 {
		return 0
	}
	return math.Abs(planar.Area(ring(poly)))
}

// Extent returns the width and height of the axis-aligned box around all polygons.
func Extent(polys [][]Vec2) (width, height float64) {
	var b orb.Bound
	first := true
	for _, poly := range polys {
		for _, v := range poly {
			if first {
				b = v.point().Bound()
				first = false
				continue
			}
			b = b.Extend(v.point())
		}
	}
	if first {
		return 0, 0
	}
	return b.Right() - b.Left(), b.Top() - b.Bottom()
}

// Box returns a centred axis-aligned rectangle in counter-clockwise order.
func Box(width, height float64) []Vec2 {
	hw, hh := width/2, height/2
	return []Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
}
