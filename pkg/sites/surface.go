package sites

import (
	"math"
	"sort"

	"landersim/pkg/geom"
)

// SurfaceModel is the landing-site read model used by sensors, the terrain
// modifier and contact resolution.
type SurfaceModel struct {
	sites map[string]Site

	// OnConsume is called after an award has been paid, with the site uid.
	OnConsume func(uid string)
}

// NewSurfaceModel creates a model holding the given views.
func NewSurfaceModel(initial ...Site) *SurfaceModel {
	m := &SurfaceModel{sites: make(map[string]Site)}
	m.Update(initial)
	return m
}

// Update replaces the model contents.
func (m *SurfaceModel) Update(views []Site) {
	next := make(map[string]Site, len(views))
	for _, v := range views {
		next[v.UID] = v
	}
	m.sites = next
}

// Sites returns every site whose footprint, widened by the span's half
// width, contains the span centre. Results are nearest first.
func (m *SurfaceModel) Sites(span geom.Range1D) []Site {
	center := span.Center()
	half := span.HalfSpan()

	out := make([]Site, 0, 4)
	for _, s := range m.sites {
		fp := s.Footprint()
		if fp.Min-half <= center && center <= fp.Max+half {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := math.Abs(out[i].X-center), math.Abs(out[j].X-center)
		if di != dj {
			return di < dj
		}
		return out[i].UID < out[j].UID
	})
	return out
}

// All returns every site ordered by uid.
func (m *SurfaceModel) All() []Site {
	out := make([]Site, 0, len(m.sites))
	for _, s := range m.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

// Site looks up one site by uid.
func (m *SurfaceModel) Site(uid string) (Site, bool) {
	s, ok := m.sites[uid]
	return s, ok
}

// ConsumeAward pays the site's award once. Later calls, unknown uids and
// zero-award sites return 0.
func (m *SurfaceModel) ConsumeAward(uid string) float64 {
	s, ok := m.sites[uid]
	if !ok || s.Visited || s.Award == 0 {
		return 0
	}
	s.Visited = true
	m.sites[uid] = s
	if m.OnConsume != nil {
		m.OnConsume(uid)
	}
	return s.Award
}
