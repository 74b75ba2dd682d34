// Package sites models landing sites: their seeds, the read model queried by
// sensors and contact resolution, and the terrain they carve.
package sites

import "landersim/pkg/geom"

// Mode describes how a site shapes the terrain around it.
type Mode string

const (
	// ModeFlushFlatten levels the terrain to the site height.
	ModeFlushFlatten Mode = "flush_flatten"
	// ModeCutIn digs the site into the terrain.
	ModeCutIn Mode = "cut_in"
	// ModeElevatedSupports raises a platform above the terrain. It never modifies the ground.
	ModeElevatedSupports Mode = "elevated_supports"
)

const (
	DefaultBlendMargin   = 20.0
	DefaultCutDepth      = 30.0
	DefaultSupportHeight = 40.0
	DefaultFuelPrice     = 10.0
)

// Info is the economy view exposed to sensors.
type Info struct {
	Award     float64
	FuelPrice float64
}

// Site is a read-only projection of one landing site.
type Site struct {
	UID           string
	X             float64
	Y             float64
	Size          float64
	Vel           geom.Vec2
	Award         float64
	FuelPrice     float64
	Mode          Mode
	TerrainBound  bool
	BlendMargin   float64
	CutDepth      float64
	SupportHeight float64
	Visited       bool
}

// Info reports the award as zero once the site has been visited.
func (s Site) Info() Info {
	award := s.Award
	if s.Visited {
		award = 0
	}
	return Info{Award: award, FuelPrice: s.FuelPrice}
}

// Footprint is the x interval covered by the landing pad.
func (s Site) Footprint() geom.Range1D {
	return geom.RangeFromCenter(s.X, s.Size/2)
}

func (s Site) Pos() geom.Vec2 { return geom.V(s.X, s.Y) }

// Seed is the initial description of a site.
type Seed struct {
	UID           string
	X             float64
	Y             float64
	Size          float64
	Award         float64
	FuelPrice     float64
	Mode          Mode
	TerrainBound  bool
	BlendMargin   float64
	CutDepth      float64
	SupportHeight float64
	Velocity      geom.Vec2
	ParentUID     string
	LocalOffset   geom.Vec2
}

// WithDefaults fills zero terrain-shaping fields.
func (s Seed) WithDefaults() Seed {
	if s.BlendMargin == 0 {
		s.BlendMargin = DefaultBlendMargin
	}
	if s.CutDepth == 0 {
		s.CutDepth = DefaultCutDepth
	}
	if s.SupportHeight == 0 {
		s.SupportHeight = DefaultSupportHeight
	}
	if s.Mode == "" {
		s.Mode = ModeFlushFlatten
		s.TerrainBound = true
	}
	return s
}

// View converts a seed to its initial read-model projection.
func (s Seed) View() Site {
	return Site{
		UID:           s.UID,
		X:             s.X,
		Y:             s.Y,
		Size:          s.Size,
		Vel:           s.Velocity,
		Award:         s.Award,
		FuelPrice:     s.FuelPrice,
		Mode:          s.Mode,
		TerrainBound:  s.TerrainBound,
		BlendMargin:   s.BlendMargin,
		CutDepth:      s.CutDepth,
		SupportHeight: s.SupportHeight,
	}
}
