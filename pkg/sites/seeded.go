package sites

import (
	"fmt"
	"math"
	"math/rand"

	"landersim/pkg/geom"
)

// MovingSiteUID names the drifting platform added by BuildSeeded.
const MovingSiteUID = "site_moving_1"

// BuildSeeded lays out eachSide sites on both sides of the origin plus one
// moving elevated platform. The layout depends only on seed and height.
func BuildSeeded(height func(x float64) float64, seed int64, eachSide int) []Seed {
	rng := rand.New(rand.NewSource(seed))
	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	makeSite := func(idx int, x float64) Seed {
		size := uniform(50, 100)
		price := math.Round(uniform(5, 15)*2) / 2
		award := uniform(100, 500)
		ground := height(x)

		var (
			mode  Mode
			y     float64
			bound bool
		)
		switch roll := rng.Float64(); {
		case roll < 0.55:
			mode, y, bound = ModeFlushFlatten, ground+uniform(-40, 40), true
		case roll < 0.8:
			mode, y, bound = ModeCutIn, ground-uniform(20, 80), true
		default:
			mode, y, bound = ModeElevatedSupports, ground+uniform(60, 180), false
		}

		return Seed{
			UID:           fmt.Sprintf("site_%d", idx),
			X:             x,
			Y:             y,
			Size:          size,
			Award:         award,
			FuelPrice:     price,
			Mode:          mode,
			TerrainBound:  bound,
			BlendMargin:   DefaultBlendMargin,
			CutDepth:      DefaultCutDepth,
			SupportHeight: math.Max(20, y-ground),
		}
	}

	out := make([]Seed, 0, 2*eachSide+1)
	right := uniform(400, 1200)
	left := -uniform(400, 1200)
	idx := 0
	for i := 0; i < eachSide; i++ {
		idx++
		out = append(out, makeSite(idx, right))
		right += uniform(1000, 3000)
	}
	for i := 0; i < eachSide; i++ {
		idx++
		out = append(out, makeSite(idx, left))
		left -= uniform(1000, 3000)
	}

	mx := uniform(-600, 600)
	my := height(mx) + 140
	out = append(out, Seed{
		UID:           MovingSiteUID,
		X:             mx,
		Y:             my,
		Size:          110,
		Award:         300,
		FuelPrice:     11,
		Mode:          ModeElevatedSupports,
		BlendMargin:   DefaultBlendMargin,
		CutDepth:      DefaultCutDepth,
		SupportHeight: math.Max(20, my-height(mx)),
		Velocity:      geom.V(35, 0),
	})
	return out
}
