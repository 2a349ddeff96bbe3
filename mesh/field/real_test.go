package field

import (
	"errors"
	"math"
	"testing"

	"github.com/michaelJwilson/meshkit/internal/testutil"
)

func TestRealFieldAccessors(t *testing.T) {
	m, _ := New(4, 10)
	f := NewReal(m)

	f.Set(1, 2, 3, 7.5)
	if got := f.At(1, 2, 3); got != 7.5 {
		t.Errorf("At: got %v, want 7.5", got)
	}

	// z is the fastest axis.
	if got := f.Index(0, 0, 1); got != 1 {
		t.Errorf("Index(0,0,1): got %d, want 1", got)
	}

	if got := f.Index(0, 1, 0); got != 4 {
		t.Errorf("Index(0,1,0): got %d, want 4", got)
	}

	if got := f.Index(1, 0, 0); got != 16 {
		t.Errorf("Index(1,0,0): got %d, want 16", got)
	}
}

func TestNewRealFromData(t *testing.T) {
	m, _ := New(4, 10)

	data := testutil.Ones(m.Size())
	f, err := NewRealFromData(m, data)
	if err != nil {
		t.Fatalf("NewRealFromData: %v", err)
	}

	if f.Mean() != 1 {
		t.Errorf("Mean: got %v, want 1", f.Mean())
	}

	if _, err := NewRealFromData(m, make([]float64, 7)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short data: got %v, want ErrShapeMismatch", err)
	}
}

func TestRealFieldStatistics(t *testing.T) {
	m, _ := New(4, 10)
	f := NewReal(m)

	f.Fill(2)
	if got := f.Sum(); got != 2*64 {
		t.Errorf("Sum: got %v, want 128", got)
	}

	if got := f.Variance(); got != 0 {
		t.Errorf("Variance of constant field: got %v, want 0", got)
	}

	// Half the cells at 0, half at 2: mean 1, variance 1.
	for i := range f.data {
		if i%2 == 0 {
			f.data[i] = 0
		} else {
			f.data[i] = 2
		}
	}

	if got := f.Mean(); got != 1 {
		t.Errorf("Mean: got %v, want 1", got)
	}

	if got := f.Variance(); got != 1 {
		t.Errorf("Variance: got %v, want 1", got)
	}
}

func TestRealFieldArithmetic(t *testing.T) {
	m, _ := New(4, 10)

	a := NewReal(m)
	a.Fill(3)
	a.Scale(2)
	a.Shift(-1)

	// 3*2 - 1 = 5 everywhere.
	if got := a.At(0, 0, 0); got != 5 {
		t.Errorf("Scale/Shift: got %v, want 5", got)
	}

	b := NewReal(m)
	b.Fill(0.5)

	if err := a.AddField(b); err != nil {
		t.Fatalf("AddField: %v", err)
	}

	if got := a.At(1, 1, 1); got != 5.5 {
		t.Errorf("AddField: got %v, want 5.5", got)
	}

	if err := a.MulField(b); err != nil {
		t.Fatalf("MulField: %v", err)
	}

	if got := a.At(2, 2, 2); got != 2.75 {
		t.Errorf("MulField: got %v, want 2.75", got)
	}
}

func TestRealFieldMeshMismatch(t *testing.T) {
	a, _ := New(4, 10)
	b, _ := New(8, 10)

	fa := NewReal(a)
	fb := NewReal(b)

	if err := fa.AddField(fb); !errors.Is(err, ErrMeshMismatch) {
		t.Errorf("AddField: got %v, want ErrMeshMismatch", err)
	}

	if err := fa.CopyFrom(fb); !errors.Is(err, ErrMeshMismatch) {
		t.Errorf("CopyFrom: got %v, want ErrMeshMismatch", err)
	}

	if err := fa.AddField(nil); !errors.Is(err, ErrNilField) {
		t.Errorf("AddField(nil): got %v, want ErrNilField", err)
	}
}

func TestToDelta(t *testing.T) {
	m, _ := New(4, 10)
	f := NewReal(m)

	f.Fill(4)
	if err := f.ToDelta(); err != nil {
		t.Fatalf("ToDelta: %v", err)
	}

	// Uniform field has zero contrast everywhere.
	for _, v := range f.data {
		if v != 0 {
			t.Fatalf("uniform contrast: got %v, want 0", v)
		}
	}

	g := NewReal(m)
	if err := g.ToDelta(); !errors.Is(err, ErrZeroMean) {
		t.Errorf("zero-mean field: got %v, want ErrZeroMean", err)
	}
}

func TestToDeltaMeanIsZero(t *testing.T) {
	m, _ := New(8, 10)

	data := testutil.DeterministicNoise(11, 1, m.Size())
	for i := range data {
		data[i] += 10 // keep strictly positive mass
	}

	f, _ := NewRealFromData(m, data)
	if err := f.ToDelta(); err != nil {
		t.Fatalf("ToDelta: %v", err)
	}

	if got := math.Abs(f.Mean()); got > 1e-14 {
		t.Errorf("contrast mean: got %v, want ~0", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m, _ := New(4, 10)
	f := NewReal(m)
	f.Fill(1)

	g := f.Clone()
	g.Fill(2)

	if f.At(0, 0, 0) != 1 {
		t.Error("mutating clone must not affect original")
	}
}
