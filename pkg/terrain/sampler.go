package terrain

import "math"

// DefaultBaseResolution is the sample spacing at lod 0.
const DefaultBaseResolution = 10.0

// Sampler defines height retrieval for the 2D world.
// Height must be deterministic for a given x and lod.
type Sampler interface {
	Height(x float64, lod int) float64
	Resolution(lod int) float64
}

// HeightModifier rewrites a base height at x.
type HeightModifier interface {
	Modify(x, baseY float64, lod int) float64
}

// ResolutionAt returns base * 2^lod. Negative lods are treated as 0.
func ResolutionAt(base float64, lod int) float64 {
	if lod < 0 {
		lod = 0
	}
	return base * math.Pow(2, float64(lod))
}

// Flat is a constant-height sampler.
type Flat struct {
	Y    float64
	Base float64 // lod 0 resolution, DefaultBaseResolution when zero
}

func (f Flat) Height(float64, int) float64 { return f.Y }

func (f Flat) Resolution(lod int) float64 {
	base := f.Base
	if base <= 0 {
		base = DefaultBaseResolution
	}
	return ResolutionAt(base, lod)
}

// Func adapts a plain height function that ignores lod.
type Func struct {
	F    func(x float64) float64
	Base float64
}

func (f Func) Height(x float64, _ int) float64 { return f.F(x) }

func (f Func) Resolution(lod int) float64 {
	base := f.Base
	if base <= 0 {
		base = DefaultBaseResolution
	}
	return ResolutionAt(base, lod)
}

// Modified applies a HeightModifier on top of a base sampler.
type Modified struct {
	Base     Sampler
	Modifier HeightModifier
}

func (m Modified) Height(x float64, lod int) float64 {
	y := m.Base.Height(x, lod)
	if m.Modifier == nil {
		return y
	}
	return m.Modifier.Modify(x, y, lod)
}

func (m Modified) Resolution(lod int) float64 { return m.Base.Resolution(lod) }

// Sample is one (x, height) pair of a profile.
type Sample struct {
	X float64
	Y float64
}

// Profile samples s on a world-space grid of the given step, from
// floor(min/step)*step to ceil(max/step)*step inclusive. A step <= 0 uses
// s.Resolution(lod). Two profiles over overlapping spans share identical
// samples on the overlap.
func Profile(s Sampler, x0, x1 float64, lod int, step float64) []Sample {
	if step <= 0 {
		step = s.Resolution(lod)
	}
	step = math.Max(1e-6, step)

	minX, maxX := math.Min(x0, x1), math.Max(x0, x1)
	first := int64(math.Floor(minX / step))
	last := int64(math.Ceil(maxX / step))

	out := make([]Sample, 0, last-first+1)
	for i := first; i <= last; i++ {
		x := float64(i) * step
		out = append(out, Sample{X: x, Y: s.Height(x, lod)})
	}
	return out
}
