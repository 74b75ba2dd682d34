package terrain

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultChunkElements = 100
	maxCachedChunks      = 2048
)

type chunkKey struct {
	lod   int
	index int64
}

// LodGrid samples a raw height function on a uniform grid per level of
// detail and interpolates linearly between grid points. Chunks of samples
// are kept in an LRU cache shared by all levels; the result depends only on
// x and lod. Safe for concurrent use.
type LodGrid struct {
	raw           func(x float64) float64
	base          float64
	chunkElements int

	chunks *lru.Cache[chunkKey, []float64]
}

// NewLodGrid wraps raw. base <= 0 uses DefaultBaseResolution and
// chunkElements <= 0 uses 100 samples per chunk.
func NewLodGrid(raw func(x float64) float64, base float64, chunkElements int) *LodGrid {
	if base <= 0 {
		base = DefaultBaseResolution
	}
	if chunkElements <= 0 {
		chunkElements = defaultChunkElements
	}
	// lru.New only fails for a non-positive size.
	chunks, _ := lru.New[chunkKey, []float64](maxCachedChunks)
	return &LodGrid{
		raw:           raw,
		base:          base,
		chunkElements: chunkElements,
		chunks:        chunks,
	}
}

// Len returns the number of cached chunks.
func (g *LodGrid) Len() int { return g.chunks.Len() }

func (g *LodGrid) Resolution(lod int) float64 { return ResolutionAt(g.base, lod) }

// Height interpolates between the two grid samples around x.
func (g *LodGrid) Height(x float64, lod int) float64 {
	if lod < 0 {
		lod = 0
	}
	res := g.Resolution(lod)
	i := int64(math.Floor(x / res))
	x0 := float64(i) * res
	y0 := g.sample(lod, i)
	if x == x0 {
		return y0
	}
	y1 := g.sample(lod, i+1)
	t := (x - x0) / res
	return y0*(1-t) + y1*t
}

// sample returns the raw height at grid index i, going through the chunk cache.
func (g *LodGrid) sample(lod int, i int64) float64 {
	n := int64(g.chunkElements)
	ci := floorDiv(i, n)
	key := chunkKey{lod: lod, index: ci}

	chunk, ok := g.chunks.Get(key)
	if !ok {
		res := g.Resolution(lod)
		chunk = make([]float64, n)
		for k := int64(0); k < n; k++ {
			chunk[k] = g.raw(float64(ci*n+k) * res)
		}
		g.chunks.Add(key, chunk)
	}
	return chunk[i-ci*n]
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
