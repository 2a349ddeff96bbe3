// Package core provides shared numeric helpers and engine configuration
// used across the mesh packages.
package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// WrapIndex folds idx into [0, n) with periodic boundary conditions.
// Handles offsets within one period: idx must lie in [-n, 2n).
func WrapIndex(idx, n int) int {
	if idx >= n {
		return idx - n
	}

	if idx < 0 {
		return idx + n
	}

	return idx
}

// WrapCoordinate folds a physical coordinate into [0, length).
func WrapCoordinate(x, length float64) float64 {
	x = math.Mod(x, length)
	if x < 0 {
		x += length
	}

	return x
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
