package field

import (
	"fmt"
	"sync"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/michaelJwilson/meshkit/mesh/core"
)

// Transform converts fields between configuration space and Fourier space
// on a fixed mesh.
//
// The 3D transform is decomposed into one-dimensional FFTs applied along
// each axis over all pencils, parallelized by chunking pencils across a
// bounded worker pool with per-worker scratch. Plans are created once per
// axis and reused; the full complex work cube is pooled across calls.
//
// The forward transform is an unnormalized DFT; the inverse carries the
// 1/N normalization, so Forward followed by Inverse reproduces the input
// to floating-point tolerance.
type Transform struct {
	mesh    Mesh
	workers int

	plans [3]*algofft.Plan[complex128]

	workPool sync.Pool
}

// NewTransform creates a transform engine for the given mesh.
func NewTransform(m Mesh, opts ...core.EngineOption) (*Transform, error) {
	cfg := core.ApplyEngineOptions(opts...)

	t := &Transform{
		mesh:    m,
		workers: cfg.Workers,
	}

	for axis, n := range m.Nmesh() {
		plan, err := algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("field: create FFT plan for axis %d: %w", axis, err)
		}

		t.plans[axis] = plan
	}

	size := m.Size()
	t.workPool.New = func() any {
		buf := make([]complex128, size)
		return &buf
	}

	return t, nil
}

// Mesh returns the mesh the transform is bound to.
func (t *Transform) Mesh() Mesh { return t.mesh }

// Forward computes the real-to-complex transform of src into dst.
// dst holds the half spectrum; the conjugate half is implied.
func (t *Transform) Forward(dst *ComplexField, src *RealField) error {
	if dst == nil || src == nil {
		return ErrNilField
	}

	if !src.mesh.Equal(t.mesh) || !dst.mesh.Equal(t.mesh) {
		return ErrTransformMismatch
	}

	workPtr := t.workPool.Get().(*[]complex128)
	work := *workPtr
	defer t.workPool.Put(workPtr)

	for i, v := range src.data {
		work[i] = complex(v, 0)
	}

	for axis := 2; axis >= 0; axis-- {
		if err := t.fftAxis(work, axis, false); err != nil {
			return err
		}
	}

	t.packHalf(dst, work)

	return nil
}

// Inverse computes the complex-to-real transform of src into dst,
// reconstructing the conjugate-symmetric half before transforming.
// Imaginary residue from a non-Hermitian input is discarded.
func (t *Transform) Inverse(dst *RealField, src *ComplexField) error {
	if dst == nil || src == nil {
		return ErrNilField
	}

	if !src.mesh.Equal(t.mesh) || !dst.mesh.Equal(t.mesh) {
		return ErrTransformMismatch
	}

	workPtr := t.workPool.Get().(*[]complex128)
	work := *workPtr
	defer t.workPool.Put(workPtr)

	t.unpackHalf(work, src)

	for axis := 0; axis < 3; axis++ {
		if err := t.fftAxis(work, axis, true); err != nil {
			return err
		}
	}

	for i := range dst.data {
		dst.data[i] = real(work[i])
	}

	return nil
}

// pencilLayout returns the pencil count, base-offset step layout, and
// element stride for transforms along the given axis.
func (t *Transform) pencilLayout(axis int) (count, length, stride int) {
	n := t.mesh.nmesh

	switch axis {
	case 0:
		return n[1] * n[2], n[0], n[1] * n[2]
	case 1:
		return n[0] * n[2], n[1], n[2]
	default:
		return n[0] * n[1], n[2], 1
	}
}

// pencilOffset returns the flat index of the first element of pencil p
// along the given axis.
func (t *Transform) pencilOffset(axis, p int) int {
	n := t.mesh.nmesh

	switch axis {
	case 0:
		// Pencil over x, indexed by (j, k).
		return p
	case 1:
		// Pencil over y, indexed by (i, k): p = i*Nz + k.
		i := p / n[2]
		k := p % n[2]
		return i*n[1]*n[2] + k
	default:
		// Pencil over z, indexed by (i, j): contiguous rows.
		return p * n[2]
	}
}

// fftAxis applies the 1D transform along one axis to every pencil of work,
// chunking pencils across the worker pool.
func (t *Transform) fftAxis(work []complex128, axis int, inverse bool) error {
	count, length, stride := t.pencilLayout(axis)
	plan := t.plans[axis]

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	wg.Add(t.workers)

	for workerID := 0; workerID < t.workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			src := make([]complex128, length)
			out := make([]complex128, length)

			start, end := core.ChunkBounds(id, t.workers, count)
			for p := start; p < end; p++ {
				off := t.pencilOffset(axis, p)

				if stride == 1 {
					row := work[off : off+length]

					var err error
					if inverse {
						err = plan.Inverse(out, row)
					} else {
						err = plan.Forward(out, row)
					}

					if err != nil {
						errOnce.Do(func() { firstErr = err })
						return
					}

					copy(row, out)

					continue
				}

				for i := 0; i < length; i++ {
					src[i] = work[off+i*stride]
				}

				var err error
				if inverse {
					err = plan.Inverse(out, src)
				} else {
					err = plan.Forward(out, src)
				}

				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}

				for i := 0; i < length; i++ {
					work[off+i*stride] = out[i]
				}
			}
		}(workerID)
	}

	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("field: FFT along axis %d: %w", axis, firstErr)
	}

	return nil
}

// packHalf copies the kz in [0, Nz/2] planes of the full work cube into the
// half-spectrum field.
func (t *Transform) packHalf(dst *ComplexField, work []complex128) {
	n := t.mesh.nmesh
	nzc := n[2]/2 + 1

	var wg sync.WaitGroup
	wg.Add(t.workers)

	for workerID := 0; workerID < t.workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			start, end := core.ChunkBounds(id, t.workers, n[0])
			for i := start; i < end; i++ {
				for j := 0; j < n[1]; j++ {
					fullRow := (i*n[1] + j) * n[2]
					halfRow := (i*n[1] + j) * nzc
					copy(dst.data[halfRow:halfRow+nzc], work[fullRow:fullRow+nzc])
				}
			}
		}(workerID)
	}

	wg.Wait()
}

// unpackHalf expands the half-spectrum field into the full work cube using
// conjugate symmetry for kz-bins above Nz/2.
func (t *Transform) unpackHalf(work []complex128, src *ComplexField) {
	n := t.mesh.nmesh
	nzc := n[2]/2 + 1

	var wg sync.WaitGroup
	wg.Add(t.workers)

	for workerID := 0; workerID < t.workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			start, end := core.ChunkBounds(id, t.workers, n[0])
			for i := start; i < end; i++ {
				iConj := (n[0] - i) % n[0]

				for j := 0; j < n[1]; j++ {
					jConj := (n[1] - j) % n[1]
					fullRow := (i*n[1] + j) * n[2]
					halfRow := (i*n[1] + j) * nzc

					copy(work[fullRow:fullRow+nzc], src.data[halfRow:halfRow+nzc])

					conjRow := (iConj*n[1] + jConj) * nzc
					for k := nzc; k < n[2]; k++ {
						v := src.data[conjRow+n[2]-k]
						work[fullRow+k] = complex(real(v), -imag(v))
					}
				}
			}
		}(workerID)
	}

	wg.Wait()
}
