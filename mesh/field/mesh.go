package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/michaelJwilson/meshkit/mesh/core"
)

// Errors returned by mesh construction and field operations.
var (
	ErrInvalidNmesh      = errors.New("field: mesh extent must be a positive power of two")
	ErrInvalidBoxSize    = errors.New("field: box size must be positive and finite")
	ErrMeshMismatch      = errors.New("field: fields are defined on different meshes")
	ErrZeroMean          = errors.New("field: cannot form density contrast of zero-mean field")
	ErrShapeMismatch     = errors.New("field: data length does not match mesh shape")
	ErrIndexOutOfRange   = errors.New("field: index out of range")
	ErrNilField          = errors.New("field: nil field")
	ErrTransformMismatch = errors.New("field: field mesh does not match transform mesh")
)

// Mesh describes a periodic 3D grid: Nmesh cells per axis spanning a box of
// physical side BoxSize. Mesh values are immutable after construction and
// safe to share.
type Mesh struct {
	nmesh   [3]int
	boxsize [3]float64
}

// New returns a cubic mesh with n cells per side over a box of side boxsize.
func New(n int, boxsize float64) (Mesh, error) {
	return NewAnisotropic([3]int{n, n, n}, [3]float64{boxsize, boxsize, boxsize})
}

// NewAnisotropic returns a mesh with independent extent and box side per axis.
// Every extent must be a positive power of two so that FFT plans exist.
func NewAnisotropic(nmesh [3]int, boxsize [3]float64) (Mesh, error) {
	for axis, n := range nmesh {
		if !core.IsPowerOfTwo(n) {
			return Mesh{}, fmt.Errorf("%w: axis %d has %d", ErrInvalidNmesh, axis, n)
		}
	}

	for axis, l := range boxsize {
		if l <= 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return Mesh{}, fmt.Errorf("%w: axis %d has %v", ErrInvalidBoxSize, axis, l)
		}
	}

	return Mesh{nmesh: nmesh, boxsize: boxsize}, nil
}

// Nmesh returns the cell count per axis.
func (m Mesh) Nmesh() [3]int { return m.nmesh }

// BoxSize returns the physical box side per axis.
func (m Mesh) BoxSize() [3]float64 { return m.boxsize }

// Size returns the total number of configuration-space cells.
func (m Mesh) Size() int {
	return m.nmesh[0] * m.nmesh[1] * m.nmesh[2]
}

// ComplexShape returns the half-spectrum shape Nx x Ny x (Nz/2+1).
func (m Mesh) ComplexShape() [3]int {
	return [3]int{m.nmesh[0], m.nmesh[1], m.nmesh[2]/2 + 1}
}

// ComplexSize returns the number of half-spectrum modes.
func (m Mesh) ComplexSize() int {
	s := m.ComplexShape()
	return s[0] * s[1] * s[2]
}

// CellSize returns the physical cell side per axis.
func (m Mesh) CellSize() [3]float64 {
	return [3]float64{
		m.boxsize[0] / float64(m.nmesh[0]),
		m.boxsize[1] / float64(m.nmesh[1]),
		m.boxsize[2] / float64(m.nmesh[2]),
	}
}

// CellVolume returns the physical volume of a single cell.
func (m Mesh) CellVolume() float64 {
	h := m.CellSize()
	return h[0] * h[1] * h[2]
}

// Volume returns the physical box volume.
func (m Mesh) Volume() float64 {
	return m.boxsize[0] * m.boxsize[1] * m.boxsize[2]
}

// Fundamental returns the fundamental wavenumber 2*pi/L per axis, the
// spacing between adjacent Fourier modes.
func (m Mesh) Fundamental() [3]float64 {
	return [3]float64{
		2 * math.Pi / m.boxsize[0],
		2 * math.Pi / m.boxsize[1],
		2 * math.Pi / m.boxsize[2],
	}
}

// Nyquist returns the Nyquist wavenumber pi*N/L per axis, the largest
// resolvable wavenumber magnitude.
func (m Mesh) Nyquist() [3]float64 {
	return [3]float64{
		math.Pi * float64(m.nmesh[0]) / m.boxsize[0],
		math.Pi * float64(m.nmesh[1]) / m.boxsize[1],
		math.Pi * float64(m.nmesh[2]) / m.boxsize[2],
	}
}

// Wavenumber returns the physical wavenumber of frequency bin on the given
// axis, following the usual FFT convention: bins above N/2 map to negative
// frequencies.
func (m Mesh) Wavenumber(axis, bin int) float64 {
	n := m.nmesh[axis]
	if bin > n/2 {
		bin -= n
	}

	return float64(bin) * 2 * math.Pi / m.boxsize[axis]
}

// Position returns the physical coordinate of the grid point (i, j, k).
// Grid point i sits at i*H along its axis.
func (m Mesh) Position(i, j, k int) [3]float64 {
	h := m.CellSize()
	return [3]float64{float64(i) * h[0], float64(j) * h[1], float64(k) * h[2]}
}

// Equal reports whether two meshes have identical shape and box.
func (m Mesh) Equal(other Mesh) bool {
	return m.nmesh == other.nmesh && m.boxsize == other.boxsize
}

// String implements fmt.Stringer.
func (m Mesh) String() string {
	return fmt.Sprintf("mesh %dx%dx%d over box %gx%gx%g",
		m.nmesh[0], m.nmesh[1], m.nmesh[2],
		m.boxsize[0], m.boxsize[1], m.boxsize[2])
}
