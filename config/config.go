package config

import (
	"fmt"

	"github.com/michaelJwilson/meshkit/mesh/core"
	"github.com/michaelJwilson/meshkit/mesh/paint"
)

// Catalog kinds accepted by Config.Catalog.Kind.
const (
	KindUniform = "uniform"
	KindSimplex = "simplex"
	KindStore   = "store"
)

// BinConfig controls power-spectrum shells. Zero values select mesh-derived
// defaults.
type BinConfig struct {
	Dk   float64 `yaml:"dk"`
	Kmin float64 `yaml:"kmin"`
	Kmax float64 `yaml:"kmax"`
}

// CatalogConfig selects the particle source.
type CatalogConfig struct {
	// Kind is one of "uniform", "simplex", or "store".
	Kind string `yaml:"kind"`

	// Path locates the SQLite store for kind "store".
	Path string `yaml:"path"`

	// Name selects the stored run for kind "store".
	Name string `yaml:"name"`

	// Count is the particle count for generated kinds.
	Count int `yaml:"count"`
}

// Config is the top-level run configuration.
type Config struct {
	Nmesh    int           `yaml:"nmesh"`
	BoxSize  float64       `yaml:"boxsize"`
	Window   string        `yaml:"window"`
	Workers  int           `yaml:"workers"`
	Seed     int64         `yaml:"seed"`
	Subtract bool          `yaml:"subtract_shot_noise"`
	Bins     BinConfig     `yaml:"bins"`
	Catalog  CatalogConfig `yaml:"catalog"`
}

// DefaultConfig returns a runnable configuration for quick-look spectra.
func DefaultConfig() *Config {
	return &Config{
		Nmesh:   64,
		BoxSize: 1000,
		Window:  "cic",
		Workers: 0, // resolved to NumCPU by consumers
		Seed:    42,
		Catalog: CatalogConfig{
			Kind:  KindUniform,
			Count: 100000,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !core.IsPowerOfTwo(c.Nmesh) {
		return fmt.Errorf("%w: %d", ErrInvalidNmesh, c.Nmesh)
	}

	if c.BoxSize <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidBoxSize, c.BoxSize)
	}

	if _, err := paint.ParseWindow(c.Window); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidWindow, c.Window)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}

	if c.Bins.Dk < 0 || c.Bins.Kmin < 0 {
		return fmt.Errorf("%w: dk %v, kmin %v", ErrInvalidBins, c.Bins.Dk, c.Bins.Kmin)
	}

	if c.Bins.Kmax != 0 && c.Bins.Kmax <= c.Bins.Kmin {
		return fmt.Errorf("%w: kmin %v, kmax %v", ErrInvalidBins, c.Bins.Kmin, c.Bins.Kmax)
	}

	switch c.Catalog.Kind {
	case KindUniform, KindSimplex:
		if c.Catalog.Count <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidCount, c.Catalog.Count)
		}
	case KindStore:
		if c.Catalog.Path == "" {
			return fmt.Errorf("%w: %q", ErrMissingPath, c.Catalog.Kind)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCatalogKind, c.Catalog.Kind)
	}

	return nil
}
