package paint

import (
	"sync"

	"github.com/michaelJwilson/meshkit/mesh/core"
	"github.com/michaelJwilson/meshkit/mesh/field"
)

// Readout interpolates src at the given positions using the painter's
// window, the adjoint of Paint. Positions outside the box wrap periodically.
func (p *Painter) Readout(src *field.RealField, positions [][3]float64) ([]float64, error) {
	if src == nil {
		return nil, ErrNilField
	}

	if !src.Mesh().Equal(p.mesh) {
		return nil, ErrMeshMismatch
	}

	out := make([]float64, len(positions))
	data := src.Data()

	var wg sync.WaitGroup
	wg.Add(p.workers)

	for workerID := 0; workerID < p.workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			start, end := core.ChunkBounds(id, p.workers, len(positions))
			for i := start; i < end; i++ {
				out[i] = p.interpolate(data, positions[i])
			}
		}(workerID)
	}

	wg.Wait()

	return out, nil
}

// interpolate evaluates the window-weighted sum of grid values at pos.
func (p *Painter) interpolate(data []float64, pos [3]float64) float64 {
	nmesh := p.mesh.Nmesh()
	box := p.mesh.BoxSize()
	h := p.mesh.CellSize()

	var (
		cells   [3][3]int
		wgts    [3][3]float64
		support [3]int
	)

	for axis := 0; axis < 3; axis++ {
		x := core.WrapCoordinate(pos[axis], box[axis]) / h[axis]
		support[axis] = p.window.axisWeights(x, nmesh[axis], &cells[axis], &wgts[axis])
	}

	ny, nz := nmesh[1], nmesh[2]
	value := 0.0

	for a := 0; a < support[0]; a++ {
		wa := wgts[0][a]
		rowA := cells[0][a] * ny

		for b := 0; b < support[1]; b++ {
			wab := wa * wgts[1][b]
			row := (rowA + cells[1][b]) * nz

			for c := 0; c < support[2]; c++ {
				value += wab * wgts[2][c] * data[row+cells[2][c]]
			}
		}
	}

	return value
}
