package sites

import (
	"math"

	"landersim/pkg/geom"
)

const modifierQuerySpan = 80.0

// TerrainModifier flattens or cuts the terrain under terrain-bound sites.
// It satisfies terrain.HeightModifier.
type TerrainModifier struct {
	Sites *SurfaceModel
}

func (m TerrainModifier) Modify(x, baseY float64, lod int) float64 {
	if m.Sites == nil {
		return baseY
	}
	scale := lodScale(lod)
	y := baseY
	for _, s := range m.Sites.Sites(geom.RangeFromCenter(x, modifierQuerySpan*scale)) {
		if !s.TerrainBound || s.Mode == ModeElevatedSupports {
			continue
		}
		y = applySite(y, x, s, scale)
	}
	return y
}

func lodScale(lod int) float64 {
	if lod < 0 {
		lod = 0
	}
	return math.Pow(2, float64(lod))
}

func applySite(current, x float64, s Site, scale float64) float64 {
	half := s.Size / 2
	dx := math.Abs(x - s.X)
	blend := math.Max(0, s.BlendMargin*scale)
	if dx > half+blend {
		return current
	}

	target := s.Y
	if s.Mode == ModeCutIn {
		target = math.Min(s.Y, current-math.Max(0, s.CutDepth))
	}

	if dx <= half || blend <= 1e-6 {
		return target
	}
	t := geom.Clamp((dx-half)/blend, 0, 1)
	return geom.Lerp(target, current, t)
}
