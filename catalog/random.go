package catalog

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NewUniform returns a catalog of n unit-weight particles drawn uniformly
// from a periodic cubic box of side boxsize. The same seed always produces
// the same catalog.
func NewUniform(n int, boxsize float64, seed int64) (*ArrayCatalog, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}

	if boxsize <= 0 {
		return nil, ErrInvalidBox
	}

	rng := rand.New(rand.NewSource(seed))

	positions := make([][3]float64, n)
	for i := range positions {
		positions[i] = [3]float64{
			rng.Float64() * boxsize,
			rng.Float64() * boxsize,
			rng.Float64() * boxsize,
		}
	}

	return &ArrayCatalog{positions: positions}, nil
}

// SimplexOptions controls the synthetic clustered catalog generator.
type SimplexOptions struct {
	// Frequency scales box coordinates into noise space. Larger values
	// produce smaller clustering features. Zero selects the default.
	Frequency float64

	// Octaves of noise summed with halved amplitude per octave.
	// Zero selects the default.
	Octaves int

	// Contrast exponent applied to the normalized density. Values above 1
	// sharpen overdense regions. Zero selects the default.
	Contrast float64
}

func (o SimplexOptions) withDefaults() SimplexOptions {
	if o.Frequency <= 0 {
		o.Frequency = 4
	}

	if o.Octaves <= 0 {
		o.Octaves = 3
	}

	if o.Contrast <= 0 {
		o.Contrast = 2
	}

	return o
}

// NewSimplexDensity returns a catalog of n unit-weight particles sampled
// from a smooth clustered density built from 3D simplex noise, by rejection
// sampling against the normalized density. Useful as a deterministic stand-in
// for clustered survey data in tests and demos.
func NewSimplexDensity(n int, boxsize float64, seed int64, opts SimplexOptions) (*ArrayCatalog, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}

	if boxsize <= 0 {
		return nil, ErrInvalidBox
	}

	opts = opts.withDefaults()

	noise := opensimplex.NewNormalized(seed)
	rng := rand.New(rand.NewSource(seed + 1))

	density := func(x, y, z float64) float64 {
		freq := opts.Frequency / boxsize
		amp := 1.0
		total := 0.0
		norm := 0.0

		for o := 0; o < opts.Octaves; o++ {
			total += amp * noise.Eval3(x*freq, y*freq, z*freq)
			norm += amp
			amp *= 0.5
			freq *= 2
		}

		d := total / norm
		// Contrast-sharpened density in (0, 1].
		p := d
		for e := 1.0; e < opts.Contrast; e++ {
			p *= d
		}

		return p
	}

	positions := make([][3]float64, 0, n)
	for len(positions) < n {
		x := rng.Float64() * boxsize
		y := rng.Float64() * boxsize
		z := rng.Float64() * boxsize

		if rng.Float64() < density(x, y, z) {
			positions = append(positions, [3]float64{x, y, z})
		}
	}

	return &ArrayCatalog{positions: positions}, nil
}
