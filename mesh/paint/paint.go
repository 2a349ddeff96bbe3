package paint

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/michaelJwilson/meshkit/catalog"
	"github.com/michaelJwilson/meshkit/mesh/core"
	"github.com/michaelJwilson/meshkit/mesh/field"
)

// Painter deposits particle catalogs onto a mesh with a fixed assignment
// window.
//
// Painting is parallelized over particle ranges: each worker accumulates
// into a private grid and the grids are reduced afterwards, so catalogs may
// be read concurrently but are never written.
type Painter struct {
	mesh    field.Mesh
	window  Window
	workers int

	gridPool sync.Pool
}

// Stats summarizes a painting pass.
type Stats struct {
	// Particles is the number of particles deposited.
	Particles int

	// TotalWeight is the summed weight deposited onto the mesh.
	TotalWeight float64
}

// NewPainter creates a painter for the given mesh and window.
func NewPainter(m field.Mesh, w Window, opts ...core.EngineOption) (*Painter, error) {
	if !w.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, int(w))
	}

	cfg := core.ApplyEngineOptions(opts...)

	p := &Painter{
		mesh:    m,
		window:  w,
		workers: cfg.Workers,
	}

	size := m.Size()
	p.gridPool.New = func() any {
		buf := make([]float64, size)
		return &buf
	}

	return p, nil
}

// Mesh returns the mesh the painter is bound to.
func (p *Painter) Mesh() field.Mesh { return p.mesh }

// Window returns the assignment window.
func (p *Painter) Window() Window { return p.window }

// Paint deposits cat onto dst, accumulating on top of existing values.
// Positions outside the box wrap periodically. Total deposited weight equals
// the catalog's total weight for every window.
func (p *Painter) Paint(dst *field.RealField, cat catalog.Catalog) (Stats, error) {
	if dst == nil {
		return Stats{}, ErrNilField
	}

	if cat == nil {
		return Stats{}, ErrNilCatalog
	}

	if !dst.Mesh().Equal(p.mesh) {
		return Stats{}, ErrMeshMismatch
	}

	n := cat.Len()
	weights := make(chan float64, p.workers)
	grids := make([]*[]float64, p.workers)

	var wg sync.WaitGroup
	wg.Add(p.workers)

	for workerID := 0; workerID < p.workers; workerID++ {
		grid := p.gridPool.Get().(*[]float64)
		core.Zero(*grid)
		grids[workerID] = grid

		go func(id int, grid []float64) {
			defer wg.Done()

			local := 0.0

			start, end := core.ChunkBounds(id, p.workers, n)
			for i := start; i < end; i++ {
				w := cat.Weight(i)
				p.deposit(grid, cat.Position(i), w)
				local += w
			}

			weights <- local
		}(workerID, *grid)
	}

	go func() {
		wg.Wait()
		close(weights)
	}()

	total := 0.0
	for w := range weights {
		total += w
	}

	p.reduce(dst.Data(), grids)

	for _, grid := range grids {
		p.gridPool.Put(grid)
	}

	return Stats{Particles: n, TotalWeight: total}, nil
}

// deposit spreads one particle's weight over the window stencil.
func (p *Painter) deposit(grid []float64, pos [3]float64, weight float64) {
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

	for a := 0; a < support[0]; a++ {
		wa := weight * wgts[0][a]
		rowA := cells[0][a] * ny

		for b := 0; b < support[1]; b++ {
			wab := wa * wgts[1][b]
			row := (rowA + cells[1][b]) * nz

			for c := 0; c < support[2]; c++ {
				grid[row+cells[2][c]] += wab * wgts[2][c]
			}
		}
	}
}

// reduce sums the per-worker grids into dst, parallelized over cell chunks.
func (p *Painter) reduce(dst []float64, grids []*[]float64) {
	var wg sync.WaitGroup
	wg.Add(p.workers)

	for workerID := 0; workerID < p.workers; workerID++ {
		go func(id int) {
			defer wg.Done()

			start, end := core.ChunkBounds(id, p.workers, len(dst))
			if start == end {
				return
			}

			for _, grid := range grids {
				vecmath.AddBlockInPlace(dst[start:end], (*grid)[start:end])
			}
		}(workerID)
	}

	wg.Wait()
}
