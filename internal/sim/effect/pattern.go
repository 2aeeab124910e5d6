// Dissolve/emerge threshold patterns. The client's full-scene shader samples
// this grid against the transition's progress uniform: a cell whose threshold
// is below the uniform is already dissolved (or, for emerge, already visible).
// The server owns the pattern so every client of a scene sees the same
// dissolve shape for the same seed.
package effect

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Pattern is a square grid of thresholds in [0,1].
type Pattern struct {
	Size   int       `json:"size"`
	Seed   int64     `json:"seed"`
	Values []float64 `json:"values"` // row-major, Size*Size entries
}

const (
	defaultOctaves     = 3
	defaultFrequency   = 0.09
	defaultPersistence = 0.5
)

// NewPattern generates a deterministic threshold grid for a scene seed.
func NewPattern(seed int64, size int) Pattern {
	if size <= 0 {
		size = 32
	}
	noise := opensimplex.NewNormalized(seed)

	p := Pattern{
		Size:   size,
		Seed:   seed,
		Values: make([]float64, size*size),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p.Values[y*size+x] = octaveNoise(noise, float64(x), float64(y), defaultOctaves, defaultFrequency, defaultPersistence)
		}
	}
	return p
}

// At returns the threshold at grid cell (x, y).
func (p Pattern) At(x, y int) float64 {
	return p.Values[y*p.Size+x]
}

// octaveNoise layers multiple noise frequencies so the dissolve edge looks
// organic instead of blobby single-octave simplex.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
