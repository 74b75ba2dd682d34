package physics

import (
	"math"

	"github.com/jakecoffman/cp"

	"landersim/pkg/geom"
	"landersim/pkg/logging"
	"landersim/pkg/terrain"
)

const (
	rebuildFraction = 0.25
	windowTracker   = "terrain_window"
)

// window is the rolling set of static terrain segments around the anchor.
// Vertices sit on multiples of the segment step, so two rebuilds produce
// identical vertices wherever they overlap.
type window struct {
	e      *Engine
	shapes []*cp.Shape
	verts  []geom.Vec2
	center float64
	built  bool
}

func newWindow(e *Engine) *window {
	return &window{e: e}
}

// ensure rebuilds the window when x has drifted a quarter of the half width
// from the last centre.
func (w *window) ensure(x float64) {
	if w.built && math.Abs(x-w.center) < rebuildFraction*w.e.opts.HalfWidth {
		return
	}
	w.rebuild(x)
}

func (w *window) rebuild(center float64) {
	e := w.e
	for _, s := range w.shapes {
		e.space.RemoveShape(s)
	}
	w.shapes = w.shapes[:0]

	hw := e.opts.HalfWidth
	samples := terrain.Profile(e.sampler, center-hw, center+hw, 0, e.opts.SegmentStep)

	w.verts = w.verts[:0]
	for i, p := range samples {
		w.verts = append(w.verts, geom.V(p.X, p.Y))
		if i == 0 {
			continue
		}
		prev := samples[i-1]
		seg := cp.NewSegment(e.space.StaticBody, cp.Vector{X: prev.X, Y: prev.Y}, cp.Vector{X: p.X, Y: p.Y}, TerrainRadius)
		seg.SetFriction(e.opts.TerrainFriction)
		seg.SetElasticity(0)
		seg.SetCollisionType(collisionTerrain)
		e.space.AddShape(seg)
		w.shapes = append(w.shapes, seg)
	}

	previous := w.center
	w.center = center
	w.built = true

	e.tracker.TrackRebuild(windowTracker)
	logging.Trace(e.logger, "Terrain window rebuilt",
		"center", center,
		"previous", previous,
		"segments", len(w.shapes))
}
