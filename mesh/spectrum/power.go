package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/michaelJwilson/meshkit/catalog"
	"github.com/michaelJwilson/meshkit/mesh/core"
	"github.com/michaelJwilson/meshkit/mesh/field"
	"github.com/michaelJwilson/meshkit/mesh/paint"
)

// Errors returned by spectrum estimation.
var (
	ErrMeshMismatch = errors.New("spectrum: field mesh does not match estimator mesh")
	ErrInvalidBins  = errors.New("spectrum: invalid bin configuration")
	ErrNilField     = errors.New("spectrum: nil field")
	ErrNoModes      = errors.New("spectrum: no modes fall inside the requested range")
)

// Option configures an Estimator.
type Option func(*config)

type config struct {
	dk       float64
	kmin     float64
	kmax     float64
	workers  int
	subtract bool
}

// WithBinWidth sets the shell width dk. The default is the largest
// fundamental wavenumber of the mesh.
func WithBinWidth(dk float64) Option {
	return func(c *config) {
		if dk > 0 {
			c.dk = dk
		}
	}
}

// WithKRange restricts shells to [kmin, kmax). The default range spans zero
// to the largest resolvable |k| of the mesh.
func WithKRange(kmin, kmax float64) Option {
	return func(c *config) {
		c.kmin = kmin
		c.kmax = kmax
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithSubtractShotNoise makes FromCatalog subtract the Poisson shot-noise
// level from every shell. The estimated level is reported either way.
func WithSubtractShotNoise(subtract bool) Option {
	return func(c *config) {
		c.subtract = subtract
	}
}

// Result holds a binned isotropic power spectrum.
type Result struct {
	// K is the mean |k| of the modes in each shell.
	K []float64

	// Power is the mean power in each shell. Empty shells hold NaN.
	Power []float64

	// Modes counts the Fourier modes in each shell, including the implied
	// conjugate half.
	Modes []int64

	// ShotNoise is the Poisson noise level V/N for catalog-derived spectra,
	// zero otherwise. When subtraction was requested it has already been
	// removed from Power.
	ShotNoise float64
}

// Estimator computes isotropic power spectra on a fixed mesh.
type Estimator struct {
	mesh field.Mesh
	cfg  config
}

// New creates an estimator for the given mesh.
func New(m field.Mesh, opts ...Option) (*Estimator, error) {
	nyq := m.Nyquist()
	fund := m.Fundamental()

	cfg := config{
		dk:      math.Max(fund[0], math.Max(fund[1], fund[2])),
		kmin:    0,
		kmax:    math.Sqrt(nyq[0]*nyq[0]+nyq[1]*nyq[1]+nyq[2]*nyq[2]) + 1e-12,
		workers: core.DefaultEngineConfig().Workers,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.kmin < 0 || cfg.kmax <= cfg.kmin {
		return nil, fmt.Errorf("%w: kmin %v, kmax %v", ErrInvalidBins, cfg.kmin, cfg.kmax)
	}

	return &Estimator{mesh: m, cfg: cfg}, nil
}

// Bins returns the number of shells the estimator will produce. A range
// that is an exact multiple of dk yields exactly that many shells; the
// epsilon absorbs the rounding error of the division.
func (e *Estimator) Bins() int {
	bins := int(math.Ceil((e.cfg.kmax-e.cfg.kmin)/e.cfg.dk - 1e-9))
	if bins < 1 {
		bins = 1
	}

	return bins
}

// binAccum accumulates per-shell sums.
type binAccum struct {
	sumK     []float64
	sumPower []float64
	modes    []int64
}

func newBinAccum(bins int) *binAccum {
	return &binAccum{
		sumK:     make([]float64, bins),
		sumPower: make([]float64, bins),
		modes:    make([]int64, bins),
	}
}

func (a *binAccum) merge(other *binAccum) {
	for i := range a.sumK {
		a.sumK[i] += other.sumK[i]
		a.sumPower[i] += other.sumPower[i]
		a.modes[i] += other.modes[i]
	}
}

// Compute estimates the power spectrum of a density contrast field in
// Fourier space. The field is taken to be the unnormalized forward
// transform of delta; power carries units of volume.
func (e *Estimator) Compute(cf *field.ComplexField) (*Result, error) {
	if cf == nil {
		return nil, ErrNilField
	}

	if !cf.Mesh().Equal(e.mesh) {
		return nil, ErrMeshMismatch
	}

	bins := e.Bins()
	shape := e.mesh.ComplexShape()
	data := cf.Data()

	// Power normalization: P(k) = V |delta_k|^2 / N^2.
	norm := e.mesh.Volume() / (float64(e.mesh.Size()) * float64(e.mesh.Size()))

	accums := make([]*binAccum, e.cfg.workers)

	var wg sync.WaitGroup
	wg.Add(e.cfg.workers)

	for workerID := 0; workerID < e.cfg.workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			acc := newBinAccum(bins)
			accums[id] = acc

			start, end := core.ChunkBounds(id, e.cfg.workers, shape[0])
			for i := start; i < end; i++ {
				kx := e.mesh.Wavenumber(0, i)
				for j := 0; j < shape[1]; j++ {
					ky := e.mesh.Wavenumber(1, j)
					kxy2 := kx*kx + ky*ky
					row := (i*shape[1] + j) * shape[2]

					for k := 0; k < shape[2]; k++ {
						if i == 0 && j == 0 && k == 0 {
							continue
						}

						kz := e.mesh.Wavenumber(2, k)
						kmag := math.Sqrt(kxy2 + kz*kz)

						if kmag < e.cfg.kmin || kmag >= e.cfg.kmax {
							continue
						}

						bin := int((kmag - e.cfg.kmin) / e.cfg.dk)
						if bin >= bins {
							continue
						}

						w := cf.HermitianWeight(k)
						v := data[row+k]
						p := real(v)*real(v) + imag(v)*imag(v)

						acc.sumK[bin] += w * kmag
						acc.sumPower[bin] += w * p * norm
						acc.modes[bin] += int64(w)
					}
				}
			}
		}(workerID)
	}

	wg.Wait()

	total := accums[0]
	for _, acc := range accums[1:] {
		total.merge(acc)
	}

	result := &Result{
		K:     make([]float64, bins),
		Power: make([]float64, bins),
		Modes: total.modes,
	}

	anyModes := false

	for i := 0; i < bins; i++ {
		if total.modes[i] == 0 {
			result.K[i] = math.NaN()
			result.Power[i] = math.NaN()
			continue
		}

		anyModes = true
		n := float64(total.modes[i])
		result.K[i] = total.sumK[i] / n
		result.Power[i] = total.sumPower[i] / n
	}

	if !anyModes {
		return nil, ErrNoModes
	}

	return result, nil
}

// FromCatalog estimates the power spectrum of a particle catalog: paint with
// the painter's window, form the density contrast, transform, compensate the
// assignment window, and spherically average. The shot-noise level V/N is
// reported and, when configured, subtracted from every shell.
func (e *Estimator) FromCatalog(cat catalog.Catalog, tr *field.Transform, p *paint.Painter) (*Result, error) {
	if tr == nil || p == nil {
		return nil, ErrNilField
	}

	if !tr.Mesh().Equal(e.mesh) || !p.Mesh().Equal(e.mesh) {
		return nil, ErrMeshMismatch
	}

	dens := field.NewReal(e.mesh)

	stats, err := p.Paint(dens, cat)
	if err != nil {
		return nil, fmt.Errorf("spectrum: paint catalog: %w", err)
	}

	if err := dens.ToDelta(); err != nil {
		return nil, fmt.Errorf("spectrum: density contrast: %w", err)
	}

	cf := field.NewComplex(e.mesh)
	if err := tr.Forward(cf, dens); err != nil {
		return nil, fmt.Errorf("spectrum: forward transform: %w", err)
	}

	cf.MulTransfer(paint.CompensationTransfer(e.mesh, p.Window()), core.WithWorkers(e.cfg.workers))

	result, err := e.Compute(cf)
	if err != nil {
		return nil, err
	}

	if stats.TotalWeight > 0 {
		result.ShotNoise = e.mesh.Volume() / stats.TotalWeight
	}

	if e.cfg.subtract {
		for i := range result.Power {
			result.Power[i] -= result.ShotNoise
		}
	}

	return result, nil
}
