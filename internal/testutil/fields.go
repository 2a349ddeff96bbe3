package testutil

import "math/rand"

// DeterministicNoise fills a slice of length n with uniform noise in
// [-amplitude, amplitude] from a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC returns a slice of length n filled with value.
func DC(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Impulse returns a slice of length n with a single 1.0 at pos.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}
	return out
}

// RandomPositions returns n deterministic points uniformly distributed in a
// periodic box of the given side lengths.
func RandomPositions(seed int64, n int, boxsize [3]float64) [][3]float64 {
	out := make([][3]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = [3]float64{
			rng.Float64() * boxsize[0],
			rng.Float64() * boxsize[1],
			rng.Float64() * boxsize[2],
		}
	}
	return out
}
