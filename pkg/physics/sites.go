package physics

import (
	"github.com/jakecoffman/cp"

	"landersim/pkg/sites"
)

// siteRadius keeps the pad surface within the landing tolerance of the site height.
const siteRadius = 0.25

type siteCollider struct {
	shape      *cp.Shape
	x, y, size float64
}

// SetLandingSiteColliders replaces the static site platforms. Each
// free-standing or elevated site gets one segment across its footprint at
// the site height. Terrain-bound sites are carried by the terrain itself.
// Unchanged platforms keep their shapes, so resting contacts survive.
func (e *Engine) SetLandingSiteColliders(list []sites.Site) {
	keep := make(map[string]bool, len(list))
	for _, s := range list {
		if s.TerrainBound && s.Mode != sites.ModeElevatedSupports {
			continue
		}
		keep[s.UID] = true

		if old, ok := e.sites[s.UID]; ok {
			if old.x == s.X && old.y == s.Y && old.size == s.Size {
				continue
			}
			e.space.RemoveShape(old.shape)
		}

		fp := s.Footprint()
		seg := cp.NewSegment(e.space.StaticBody,
			cp.Vector{X: fp.Min, Y: s.Y},
			cp.Vector{X: fp.Max, Y: s.Y},
			siteRadius)
		seg.SetFriction(e.opts.TerrainFriction)
		seg.SetElasticity(0)
		seg.SetCollisionType(collisionSite)
		seg.UserData = s.UID
		e.space.AddShape(seg)
		e.sites[s.UID] = siteCollider{shape: seg, x: s.X, y: s.Y, size: s.Size}
	}

	for uid, c := range e.sites {
		if !keep[uid] {
			e.space.RemoveShape(c.shape)
			delete(e.sites, uid)
		}
	}
}

// SiteColliderCount returns the number of registered site platforms.
func (e *Engine) SiteColliderCount() int { return len(e.sites) }
