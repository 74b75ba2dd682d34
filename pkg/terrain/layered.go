package terrain

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/ojrac/opensimplex-go"
)

// LayeredOptions shapes the procedural generator. Zero values take the defaults.
type LayeredOptions struct {
	BaseHeight float64

	MacroAmplitude float64
	MacroFrequency float64

	StructureAmplitude   float64
	StructureFrequency   float64
	StructureOctaves     int
	StructurePersistence float64
	StructureLacunarity  float64
	RidgeMix             float64

	WarpAmplitude float64
	WarpFrequency float64

	FeatureCellSize float64
	FeatureDensity  float64
}

// DefaultLayeredOptions returns the stock generator shape.
func DefaultLayeredOptions() LayeredOptions {
	return LayeredOptions{
		MacroAmplitude:       900,
		MacroFrequency:       0.00008,
		StructureAmplitude:   1800,
		StructureFrequency:   0.00023,
		StructureOctaves:     4,
		StructurePersistence: 0.45,
		StructureLacunarity:  2.1,
		RidgeMix:             0.55,
		WarpAmplitude:        450,
		WarpFrequency:        0.00015,
		FeatureCellSize:      900,
		FeatureDensity:       0.38,
	}
}

// Layered is a seeded height function built from a macro noise layer, a
// domain-warped structure layer and sparse craters, mesas and basins.
type Layered struct {
	seed int64
	opts LayeredOptions

	macro     opensimplex.Noise
	structure opensimplex.Noise
	ridge     opensimplex.Noise
	warp      opensimplex.Noise
}

// NewLayered creates a generator. Identical seeds produce identical terrain.
func NewLayered(seed int64, opts LayeredOptions) *Layered {
	def := DefaultLayeredOptions()
	if opts.MacroFrequency == 0 && opts.StructureFrequency == 0 {
		base := opts.BaseHeight
		opts = def
		opts.BaseHeight = base
	}
	if opts.StructureOctaves < 1 {
		opts.StructureOctaves = 1
	}
	opts.RidgeMix = math.Max(0, math.Min(1, opts.RidgeMix))
	opts.FeatureCellSize = math.Max(200, opts.FeatureCellSize)
	opts.FeatureDensity = math.Max(0, math.Min(1, opts.FeatureDensity))

	return &Layered{
		seed:      seed,
		opts:      opts,
		macro:     opensimplex.New(seed + 101),
		structure: opensimplex.New(seed + 211),
		ridge:     opensimplex.New(seed + 307),
		warp:      opensimplex.New(seed + 401),
	}
}

// At returns the raw height at x.
func (l *Layered) At(x float64) float64 {
	return l.opts.BaseHeight + l.macroLayer(x) + l.structureLayer(x) + l.features(x)
}

func (l *Layered) macroLayer(x float64) float64 {
	return l.macro.Eval2(x*l.opts.MacroFrequency, 0) * l.opts.MacroAmplitude
}

func (l *Layered) structureLayer(x float64) float64 {
	o := l.opts
	xx := x + l.warp.Eval2(x*o.WarpFrequency, 91)*o.WarpAmplitude

	amp, freq := o.StructureAmplitude, o.StructureFrequency
	var regular, ridged, ampSum float64
	for i := 0; i < o.StructureOctaves; i++ {
		regular += l.structure.Eval2(xx*freq, 23) * amp

		r := 1 - math.Abs(l.ridge.Eval2(xx*freq, 67))
		ridged += (r*r*2 - 1) * amp

		ampSum += amp
		amp *= o.StructurePersistence
		freq *= o.StructureLacunarity
	}
	if ampSum <= 1e-9 {
		return 0
	}
	mix := o.RidgeMix
	return (regular/ampSum*(1-mix) + ridged/ampSum*mix) * o.StructureAmplitude
}

// rand01 hashes (seed, cell, salt) into [0,1].
func (l *Layered) rand01(cell int64, salt uint64) float64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(l.seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(cell))
	binary.LittleEndian.PutUint64(buf[16:], salt)
	return float64(xxhash.Sum64(buf[:])>>11) / float64(1<<53)
}

func smoothstep(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

func (l *Layered) featureFromCell(x float64, cell int64) float64 {
	o := l.opts
	if l.rand01(cell, 0) >= o.FeatureDensity {
		return 0
	}

	jitter := (l.rand01(cell, 1) - 0.5) * o.FeatureCellSize * 0.7
	center := (float64(cell)+0.5)*o.FeatureCellSize + jitter
	dx := math.Abs(x - center)

	radius := o.FeatureCellSize * (0.18 + 0.30*l.rand01(cell, 2))
	if dx >= radius {
		return 0
	}
	t := dx / radius

	switch int(l.rand01(cell, 3) * 3) {
	case 0: // crater
		depth := o.StructureAmplitude * (0.08 + 0.10*l.rand01(cell, 4))
		k := 1 - t*t
		return -depth * k * k
	case 1: // mesa
		height := o.StructureAmplitude * (0.06 + 0.10*l.rand01(cell, 5))
		const core = 0.45
		if t <= core {
			return height
		}
		return height * (1 - smoothstep((t-core)/(1-core)))
	default: // basin
		depth := o.StructureAmplitude * (0.05 + 0.08*l.rand01(cell, 6))
		return -depth * (1 - smoothstep(t))
	}
}

func (l *Layered) features(x float64) float64 {
	// Feature radii stay below one cell, so neighbours are enough.
	c := int64(math.Floor(x / l.opts.FeatureCellSize))
	return l.featureFromCell(x, c-1) + l.featureFromCell(x, c) + l.featureFromCell(x, c+1)
}
