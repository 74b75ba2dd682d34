package sensor

import (
	"math"
	"sort"

	"landersim/pkg/geom"
	"landersim/pkg/sites"
)

const (
	DefaultRadarInner = 1000.0
	DefaultRadarOuter = 2000.0
)

// RadarContact is one landing site seen by the radar.
type RadarContact struct {
	UID         string
	X           float64
	Y           float64
	Size        float64
	Angle       float64 // atan2(RelY, RelX)
	Distance    float64
	RelX        float64
	RelY        float64
	IsInnerLock bool
	Info        sites.Info
}

// SiteQuery is the part of the site read model the radar needs.
type SiteQuery interface {
	Sites(span geom.Range1D) []sites.Site
}

// RadarContacts returns the candidates within outer range of pos, nearest
// first. Ties keep the candidate order.
func RadarContacts(pos geom.Vec2, candidates []sites.Site, inner, outer float64) []RadarContact {
	contacts := make([]RadarContact, 0, len(candidates))
	for _, s := range candidates {
		rel := s.Pos().Sub(pos)
		dx, dy := rel.X, rel.Y
		dist := math.Hypot(dx, dy)
		if dist > outer {
			continue
		}
		contacts = append(contacts, RadarContact{
			UID:         s.UID,
			X:           s.X,
			Y:           s.Y,
			Size:        s.Size,
			Angle:       math.Atan2(dy, dx),
			Distance:    dist,
			RelX:        dx,
			RelY:        dy,
			IsInnerLock: dist <= inner,
			Info:        s.Info(),
		})
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Distance < contacts[j].Distance
	})
	return contacts
}

// Radar queries the read model around pos and builds contacts from the result.
func Radar(pos geom.Vec2, model SiteQuery, inner, outer float64) []RadarContact {
	if model == nil {
		return nil
	}
	return RadarContacts(pos, model.Sites(geom.RangeFromCenter(pos.X, outer)), inner, outer)
}
