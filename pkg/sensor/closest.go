// Package sensor implements the geometric queries a lander uses to perceive
// terrain and landing sites.
package sensor

import (
	"math"

	"landersim/pkg/geom"
	"landersim/pkg/terrain"
)

// ClosestPointOnTerrain samples s across [x-radius, x+radius] at the
// sampler's resolution for lod and projects pos onto each segment of the
// resulting polyline. It returns the closest point and its distance.
func ClosestPointOnTerrain(s terrain.Sampler, pos geom.Vec2, lod int, radius float64) (cx, cy, dist float64) {
	step := math.Max(1e-6, s.Resolution(lod))
	radius = math.Max(0, radius)
	minX, maxX := pos.X-radius, pos.X+radius

	// Directly below the origin is always a candidate, which also covers a
	// zero radius.
	best := geom.V(pos.X, s.Height(pos.X, lod))
	bestDist := math.Abs(pos.Y - best.Y)

	n := int(math.Floor((maxX-minX)/step)) + 1
	prev := geom.V(minX, s.Height(minX, lod))
	for i := 1; i <= n; i++ {
		x := minX + float64(i)*step
		if i == n || x > maxX {
			if prev.X >= maxX {
				break
			}
			x = maxX
		}
		cur := geom.V(x, s.Height(x, lod))
		if p, d := geom.ClosestOnSegment(pos, prev, cur); d < bestDist {
			best, bestDist = p, d
		}
		prev = cur
	}
	return best.X, best.Y, bestDist
}
