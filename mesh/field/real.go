package field

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// RealField is a real-valued field over the full configuration-space mesh.
// Data is stored row-major with the z axis fastest.
type RealField struct {
	mesh Mesh
	data []float64
}

// NewReal allocates a zeroed real field on the given mesh.
func NewReal(m Mesh) *RealField {
	return &RealField{
		mesh: m,
		data: make([]float64, m.Size()),
	}
}

// NewRealFromData wraps existing data as a real field. The slice is not
// copied; its length must match the mesh shape.
func NewRealFromData(m Mesh, data []float64) (*RealField, error) {
	if len(data) != m.Size() {
		return nil, fmt.Errorf("%w: got %d values for %s", ErrShapeMismatch, len(data), m)
	}

	return &RealField{mesh: m, data: data}, nil
}

// Mesh returns the mesh the field is defined on.
func (f *RealField) Mesh() Mesh { return f.mesh }

// Data returns the backing slice. Mutations are visible to the field.
func (f *RealField) Data() []float64 { return f.data }

// Index returns the flat index of grid point (i, j, k).
func (f *RealField) Index(i, j, k int) int {
	n := f.mesh.nmesh
	return (i*n[1]+j)*n[2] + k
}

// At returns the value at grid point (i, j, k).
func (f *RealField) At(i, j, k int) float64 {
	return f.data[f.Index(i, j, k)]
}

// Set stores value at grid point (i, j, k).
func (f *RealField) Set(i, j, k int, value float64) {
	f.data[f.Index(i, j, k)] = value
}

// Fill sets every cell to value.
func (f *RealField) Fill(value float64) {
	for i := range f.data {
		f.data[i] = value
	}
}

// Scale multiplies every cell by s.
func (f *RealField) Scale(s float64) {
	for i := range f.data {
		f.data[i] *= s
	}
}

// Shift adds s to every cell.
func (f *RealField) Shift(s float64) {
	for i := range f.data {
		f.data[i] += s
	}
}

// AddField accumulates other into f element-wise.
func (f *RealField) AddField(other *RealField) error {
	if other == nil {
		return ErrNilField
	}

	if !f.mesh.Equal(other.mesh) {
		return ErrMeshMismatch
	}

	vecmath.AddBlockInPlace(f.data, other.data)

	return nil
}

// MulField multiplies f by other element-wise.
func (f *RealField) MulField(other *RealField) error {
	if other == nil {
		return ErrNilField
	}

	if !f.mesh.Equal(other.mesh) {
		return ErrMeshMismatch
	}

	vecmath.MulBlockInPlace(f.data, other.data)

	return nil
}

// Sum returns the sum over all cells.
func (f *RealField) Sum() float64 {
	s := 0.0
	for _, v := range f.data {
		s += v
	}

	return s
}

// Mean returns the mean cell value.
func (f *RealField) Mean() float64 {
	return f.Sum() / float64(len(f.data))
}

// Variance returns the population variance of cell values.
func (f *RealField) Variance() float64 {
	mean := f.Mean()

	s := 0.0
	for _, v := range f.data {
		d := v - mean
		s += d * d
	}

	return s / float64(len(f.data))
}

// Clone returns a deep copy of the field.
func (f *RealField) Clone() *RealField {
	out := NewReal(f.mesh)
	copy(out.data, f.data)

	return out
}

// CopyFrom copies the cell values of other into f.
func (f *RealField) CopyFrom(other *RealField) error {
	if other == nil {
		return ErrNilField
	}

	if !f.mesh.Equal(other.mesh) {
		return ErrMeshMismatch
	}

	copy(f.data, other.data)

	return nil
}

// ToDelta converts the field in place from a mass (or number) field to the
// density contrast delta = rho/rhobar - 1. The mean must be non-zero.
func (f *RealField) ToDelta() error {
	mean := f.Mean()
	if mean == 0 {
		return ErrZeroMean
	}

	inv := 1 / mean
	for i := range f.data {
		f.data[i] = f.data[i]*inv - 1
	}

	return nil
}
