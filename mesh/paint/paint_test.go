package paint

import (
	"errors"
	"math"
	"testing"

	"github.com/michaelJwilson/meshkit/catalog"
	"github.com/michaelJwilson/meshkit/internal/testutil"
	"github.com/michaelJwilson/meshkit/mesh/core"
	"github.com/michaelJwilson/meshkit/mesh/field"
)

func TestParseWindow(t *testing.T) {
	cases := map[string]Window{
		"ngp": NGP, "NGP": NGP, "nearest": NGP,
		"cic": CIC, " CIC ": CIC, "cloud": CIC,
		"tsc": TSC, "triangular": TSC,
	}

	for name, want := range cases {
		got, err := ParseWindow(name)
		if err != nil {
			t.Errorf("ParseWindow(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWindow(%q): got %v, want %v", name, got, want)
		}
	}

	if _, err := ParseWindow("spline"); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("unknown window: got %v, want ErrUnknownWindow", err)
	}
}

func TestWindowProperties(t *testing.T) {
	if NGP.Support() != 1 || CIC.Support() != 2 || TSC.Support() != 3 {
		t.Error("window supports: want 1, 2, 3")
	}

	if NGP.Power() != 2 || CIC.Power() != 4 || TSC.Power() != 6 {
		t.Error("window powers: want 2, 4, 6")
	}
}

func TestPaintMassConservation(t *testing.T) {
	m, _ := field.New(8, 100)

	cat, err := catalog.NewUniform(500, 100, 13)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}

	for _, w := range []Window{NGP, CIC, TSC} {
		t.Run(w.String(), func(t *testing.T) {
			p, err := NewPainter(m, w, core.WithWorkers(4))
			if err != nil {
				t.Fatalf("NewPainter: %v", err)
			}

			dst := field.NewReal(m)

			stats, err := p.Paint(dst, cat)
			if err != nil {
				t.Fatalf("Paint: %v", err)
			}

			if stats.Particles != 500 {
				t.Errorf("Particles: got %d, want 500", stats.Particles)
			}

			if !core.NearlyEqual(stats.TotalWeight, 500, 1e-9) {
				t.Errorf("TotalWeight: got %v, want 500", stats.TotalWeight)
			}

			if !core.NearlyEqual(dst.Sum(), 500, 1e-9) {
				t.Errorf("painted mass: got %v, want 500", dst.Sum())
			}

			testutil.RequireFinite(t, dst.Data())
		})
	}
}

func TestPaintSingleParticleNGP(t *testing.T) {
	m, _ := field.New(8, 80) // cell size 10

	p, _ := NewPainter(m, NGP, core.WithWorkers(1))
	dst := field.NewReal(m)

	cat, _ := catalog.NewArray([][3]float64{{20, 30, 40}}, nil)
	if _, err := p.Paint(dst, cat); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	// Particle sits exactly on grid point (2, 3, 4).
	if got := dst.At(2, 3, 4); got != 1 {
		t.Errorf("target cell: got %v, want 1", got)
	}

	if got := dst.Sum(); got != 1 {
		t.Errorf("total: got %v, want 1", got)
	}
}

func TestPaintSingleParticleCIC(t *testing.T) {
	m, _ := field.New(8, 80)

	p, _ := NewPainter(m, CIC, core.WithWorkers(1))
	dst := field.NewReal(m)

	// Halfway between grid points along x only.
	cat, _ := catalog.NewArray([][3]float64{{25, 30, 40}}, nil)
	if _, err := p.Paint(dst, cat); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if got := dst.At(2, 3, 4); math.Abs(got-0.5) > 1e-14 {
		t.Errorf("left cell: got %v, want 0.5", got)
	}

	if got := dst.At(3, 3, 4); math.Abs(got-0.5) > 1e-14 {
		t.Errorf("right cell: got %v, want 0.5", got)
	}
}

func TestPaintSingleParticleTSC(t *testing.T) {
	m, _ := field.New(8, 80)

	p, _ := NewPainter(m, TSC, core.WithWorkers(1))
	dst := field.NewReal(m)

	// Exactly on a grid point: per-axis weights (1/8, 3/4, 1/8).
	cat, _ := catalog.NewArray([][3]float64{{20, 30, 40}}, nil)
	if _, err := p.Paint(dst, cat); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if got := dst.At(2, 3, 4); math.Abs(got-0.75*0.75*0.75) > 1e-14 {
		t.Errorf("center cell: got %v, want %v", got, 0.75*0.75*0.75)
	}

	if got := dst.At(1, 3, 4); math.Abs(got-0.125*0.75*0.75) > 1e-14 {
		t.Errorf("neighbor cell: got %v, want %v", got, 0.125*0.75*0.75)
	}

	if got := dst.Sum(); math.Abs(got-1) > 1e-12 {
		t.Errorf("total: got %v, want 1", got)
	}
}

func TestPaintPeriodicWrap(t *testing.T) {
	m, _ := field.New(8, 80)

	p, _ := NewPainter(m, CIC, core.WithWorkers(1))
	dst := field.NewReal(m)

	// Position in the last half-cell splits across the periodic boundary.
	cat, _ := catalog.NewArray([][3]float64{{75, 0, 0}}, nil)
	if _, err := p.Paint(dst, cat); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if got := dst.At(7, 0, 0); math.Abs(got-0.5) > 1e-14 {
		t.Errorf("cell 7: got %v, want 0.5", got)
	}

	if got := dst.At(0, 0, 0); math.Abs(got-0.5) > 1e-14 {
		t.Errorf("wrapped cell 0: got %v, want 0.5", got)
	}

	// Positions outside [0, L) wrap too.
	dst2 := field.NewReal(m)
	cat2, _ := catalog.NewArray([][3]float64{{-5, 90, 160}}, nil)

	if _, err := p.Paint(dst2, cat2); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if got := dst2.Sum(); math.Abs(got-1) > 1e-12 {
		t.Errorf("wrapped total: got %v, want 1", got)
	}
}

func TestPaintWeights(t *testing.T) {
	m, _ := field.New(8, 80)

	p, _ := NewPainter(m, NGP, core.WithWorkers(2))
	dst := field.NewReal(m)

	cat, _ := catalog.NewArray(
		[][3]float64{{10, 10, 10}, {10, 10, 10}, {50, 50, 50}},
		[]float64{2, 3, 4},
	)

	stats, err := p.Paint(dst, cat)
	if err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if stats.TotalWeight != 9 {
		t.Errorf("TotalWeight: got %v, want 9", stats.TotalWeight)
	}

	if got := dst.At(1, 1, 1); got != 5 {
		t.Errorf("stacked cell: got %v, want 5", got)
	}
}

func TestPaintWorkerCountsAgree(t *testing.T) {
	m, _ := field.New(8, 100)
	cat, _ := catalog.NewUniform(333, 100, 21)

	var reference []float64

	for _, workers := range []int{1, 3, 8} {
		p, err := NewPainter(m, TSC, core.WithWorkers(workers))
		if err != nil {
			t.Fatalf("NewPainter: %v", err)
		}

		dst := field.NewReal(m)
		if _, err := p.Paint(dst, cat); err != nil {
			t.Fatalf("Paint: %v", err)
		}

		if reference == nil {
			reference = append([]float64(nil), dst.Data()...)
			continue
		}

		testutil.RequireSliceNearlyEqual(t, dst.Data(), reference, 1e-12)
	}
}

func TestPaintValidation(t *testing.T) {
	m, _ := field.New(8, 100)
	other, _ := field.New(16, 100)

	p, _ := NewPainter(m, CIC)
	cat, _ := catalog.NewUniform(10, 100, 1)

	if _, err := p.Paint(nil, cat); !errors.Is(err, ErrNilField) {
		t.Errorf("nil field: got %v, want ErrNilField", err)
	}

	if _, err := p.Paint(field.NewReal(m), nil); !errors.Is(err, ErrNilCatalog) {
		t.Errorf("nil catalog: got %v, want ErrNilCatalog", err)
	}

	if _, err := p.Paint(field.NewReal(other), cat); !errors.Is(err, ErrMeshMismatch) {
		t.Errorf("mesh mismatch: got %v, want ErrMeshMismatch", err)
	}

	if _, err := NewPainter(m, Window(99)); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("bad window: got %v, want ErrUnknownWindow", err)
	}
}
