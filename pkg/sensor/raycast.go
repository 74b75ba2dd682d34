package sensor

import (
	"math"

	"landersim/pkg/geom"
	"landersim/pkg/terrain"
)

const bisectIterations = 20

// RayHit is the result of a ray query. Distance is only meaningful when Hit is set.
type RayHit struct {
	Hit      bool
	X        float64
	Y        float64
	Distance float64
}

// Raycast marches a ray from origin along angle (radians, counter-clockwise
// from +X) and refines the first terrain crossing by bisection. A
// non-positive step uses the lod 0 resolution. An origin already below the
// terrain hits at distance 0.
func Raycast(s terrain.Sampler, origin geom.Vec2, angle, maxDist, step float64) RayHit {
	if maxDist <= 0 {
		return RayHit{}
	}
	if step <= 0 {
		step = s.Resolution(0)
	}
	step = math.Max(1e-3, step)
	dir := geom.V(math.Cos(angle), math.Sin(angle))

	below := func(d float64) bool {
		p := origin.Add(dir.Scale(d))
		return p.Y <= s.Height(p.X, 0)
	}

	if below(0) {
		return RayHit{Hit: true, X: origin.X, Y: s.Height(origin.X, 0)}
	}

	prev := 0.0
	for d := step; ; d += step {
		if d > maxDist {
			d = maxDist
		}
		if below(d) {
			lo, hi := prev, d
			for i := 0; i < bisectIterations; i++ {
				mid := 0.5 * (lo + hi)
				if below(mid) {
					hi = mid
				} else {
					lo = mid
				}
			}
			p := origin.Add(dir.Scale(hi))
			return RayHit{Hit: true, X: p.X, Y: p.Y, Distance: hi}
		}
		if d >= maxDist {
			return RayHit{}
		}
		prev = d
	}
}
