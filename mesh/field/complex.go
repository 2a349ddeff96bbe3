package field

import (
	"fmt"
	"math"
	"sync"

	"github.com/michaelJwilson/meshkit/mesh/core"
)

// ComplexField is a complex-valued field over the Fourier-space half
// spectrum of a mesh. Only modes with kz-bin in [0, Nz/2] are stored; the
// remainder is implied by conjugate symmetry of real-valued input:
//
//	X(-kx, -ky, -kz) = conj(X(kx, ky, kz))
//
// Data is stored row-major with the truncated z axis fastest.
type ComplexField struct {
	mesh Mesh
	data []complex128
}

// NewComplex allocates a zeroed half-spectrum field on the given mesh.
func NewComplex(m Mesh) *ComplexField {
	return &ComplexField{
		mesh: m,
		data: make([]complex128, m.ComplexSize()),
	}
}

// NewComplexFromData wraps existing data as a complex field. The slice is
// not copied; its length must match the half-spectrum shape.
func NewComplexFromData(m Mesh, data []complex128) (*ComplexField, error) {
	if len(data) != m.ComplexSize() {
		return nil, fmt.Errorf("%w: got %d modes for %s", ErrShapeMismatch, len(data), m)
	}

	return &ComplexField{mesh: m, data: data}, nil
}

// Mesh returns the mesh the field is defined on.
func (f *ComplexField) Mesh() Mesh { return f.mesh }

// Data returns the backing slice. Mutations are visible to the field.
func (f *ComplexField) Data() []complex128 { return f.data }

// Index returns the flat index of mode (i, j, k) with k in [0, Nz/2].
func (f *ComplexField) Index(i, j, k int) int {
	s := f.mesh.ComplexShape()
	return (i*s[1]+j)*s[2] + k
}

// At returns the mode value at half-spectrum index (i, j, k).
func (f *ComplexField) At(i, j, k int) complex128 {
	return f.data[f.Index(i, j, k)]
}

// Set stores value at half-spectrum index (i, j, k).
func (f *ComplexField) Set(i, j, k int, value complex128) {
	f.data[f.Index(i, j, k)] = value
}

// Scale multiplies every stored mode by s.
func (f *ComplexField) Scale(s complex128) {
	for i := range f.data {
		f.data[i] *= s
	}
}

// Clone returns a deep copy of the field.
func (f *ComplexField) Clone() *ComplexField {
	out := NewComplex(f.mesh)
	copy(out.data, f.data)

	return out
}

// KMagnitude returns |k| of the mode at half-spectrum index (i, j, k).
func (f *ComplexField) KMagnitude(i, j, k int) float64 {
	kx := f.mesh.Wavenumber(0, i)
	ky := f.mesh.Wavenumber(1, j)
	kz := f.mesh.Wavenumber(2, k)

	return math.Sqrt(kx*kx + ky*ky + kz*kz)
}

// HermitianWeight returns the multiplicity of the stored mode with kz-bin k
// when summing over the full spectrum: modes on the kz=0 and kz=Nyquist
// planes are their own conjugates and count once, all others twice.
func (f *ComplexField) HermitianWeight(k int) float64 {
	if k == 0 || k == f.mesh.nmesh[2]/2 {
		return 1
	}

	return 2
}

// Transfer maps a wavevector to a multiplicative factor.
type Transfer func(kx, ky, kz float64) complex128

// MulTransfer multiplies every stored mode by transfer(kx, ky, kz), applied
// in parallel over x-slabs.
func (f *ComplexField) MulTransfer(transfer Transfer, opts ...core.EngineOption) {
	cfg := core.ApplyEngineOptions(opts...)
	shape := f.mesh.ComplexShape()

	var wg sync.WaitGroup
	wg.Add(cfg.Workers)

	for workerID := 0; workerID < cfg.Workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			start, end := core.ChunkBounds(id, cfg.Workers, shape[0])
			for i := start; i < end; i++ {
				kx := f.mesh.Wavenumber(0, i)
				for j := 0; j < shape[1]; j++ {
					ky := f.mesh.Wavenumber(1, j)
					row := (i*shape[1] + j) * shape[2]
					for k := 0; k < shape[2]; k++ {
						kz := f.mesh.Wavenumber(2, k)
						f.data[row+k] *= transfer(kx, ky, kz)
					}
				}
			}
		}(workerID)
	}

	wg.Wait()
}
