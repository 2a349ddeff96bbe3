// Package catalog provides particle catalog sources for mesh painting.
//
// A Catalog exposes particle positions and weights without prescribing
// storage: catalogs may live in memory, be generated on the fly from a
// seeded random process, or be loaded from a persistent store.
package catalog

import (
	"errors"
	"fmt"
)

// Errors returned by catalog constructors.
var (
	ErrEmptyCatalog   = errors.New("catalog: catalog has no particles")
	ErrWeightMismatch = errors.New("catalog: weights length does not match positions")
	ErrInvalidCount   = errors.New("catalog: particle count must be positive")
	ErrInvalidBox     = errors.New("catalog: box side must be positive")
)

// Catalog is a read-only source of weighted particle positions.
//
// Implementations must be safe for concurrent reads; painting iterates
// catalogs from multiple goroutines.
type Catalog interface {
	// Len returns the number of particles.
	Len() int

	// Position returns the physical coordinates of particle i.
	Position(i int) [3]float64

	// Weight returns the mass (or number) weight of particle i.
	Weight(i int) float64
}

// ArrayCatalog is an in-memory catalog over position and weight slices.
type ArrayCatalog struct {
	positions [][3]float64
	weights   []float64
}

// NewArray creates a catalog from positions with optional per-particle
// weights. A nil weights slice means unit weight for every particle.
func NewArray(positions [][3]float64, weights []float64) (*ArrayCatalog, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyCatalog
	}

	if weights != nil && len(weights) != len(positions) {
		return nil, fmt.Errorf("%w: %d weights for %d positions",
			ErrWeightMismatch, len(weights), len(positions))
	}

	return &ArrayCatalog{positions: positions, weights: weights}, nil
}

// Len returns the number of particles.
func (c *ArrayCatalog) Len() int { return len(c.positions) }

// Position returns the physical coordinates of particle i.
func (c *ArrayCatalog) Position(i int) [3]float64 { return c.positions[i] }

// Weight returns the weight of particle i (1 when no weights were supplied).
func (c *ArrayCatalog) Weight(i int) float64 {
	if c.weights == nil {
		return 1
	}

	return c.weights[i]
}

// TotalWeight returns the sum of all particle weights.
func TotalWeight(c Catalog) float64 {
	total := 0.0
	for i := 0; i < c.Len(); i++ {
		total += c.Weight(i)
	}

	return total
}
