package catalog

import (
	"errors"
	"testing"
)

func TestNewUniform(t *testing.T) {
	boxsize := 100.0

	c, err := NewUniform(1000, boxsize, 42)
	if err != nil {
		t.Fatalf("NewUniform: %v", err)
	}

	if c.Len() != 1000 {
		t.Fatalf("Len: got %d, want 1000", c.Len())
	}

	for i := 0; i < c.Len(); i++ {
		p := c.Position(i)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < 0 || p[axis] >= boxsize {
				t.Fatalf("particle %d axis %d outside box: %v", i, axis, p[axis])
			}
		}
	}
}

func TestNewUniformDeterministic(t *testing.T) {
	a, _ := NewUniform(100, 50, 7)
	b, _ := NewUniform(100, 50, 7)

	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}

	c, _ := NewUniform(100, 50, 8)
	same := true

	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != c.Position(i) {
			same = false
			break
		}
	}

	if same {
		t.Error("different seeds produced identical catalogs")
	}
}

func TestNewUniformValidation(t *testing.T) {
	if _, err := NewUniform(0, 100, 1); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("zero count: got %v, want ErrInvalidCount", err)
	}

	if _, err := NewUniform(10, 0, 1); !errors.Is(err, ErrInvalidBox) {
		t.Errorf("zero box: got %v, want ErrInvalidBox", err)
	}
}

func TestNewSimplexDensity(t *testing.T) {
	boxsize := 100.0

	c, err := NewSimplexDensity(500, boxsize, 3, SimplexOptions{})
	if err != nil {
		t.Fatalf("NewSimplexDensity: %v", err)
	}

	if c.Len() != 500 {
		t.Fatalf("Len: got %d, want 500", c.Len())
	}

	for i := 0; i < c.Len(); i++ {
		p := c.Position(i)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < 0 || p[axis] >= boxsize {
				t.Fatalf("particle %d axis %d outside box: %v", i, axis, p[axis])
			}
		}
	}
}

func TestNewSimplexDensityDeterministic(t *testing.T) {
	a, _ := NewSimplexDensity(200, 100, 11, SimplexOptions{Frequency: 2, Octaves: 2})
	b, _ := NewSimplexDensity(200, 100, 11, SimplexOptions{Frequency: 2, Octaves: 2})

	for i := 0; i < a.Len(); i++ {
		if a.Position(i) != b.Position(i) {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
}

func TestNewSimplexDensityClusters(t *testing.T) {
	// A clustered catalog should concentrate more mass in its densest
	// octant than a uniform one on average. Weak sanity check only: count
	// the spread of particles per octant and require it to exceed the
	// uniform expectation.
	boxsize := 100.0

	clustered, _ := NewSimplexDensity(2000, boxsize, 5, SimplexOptions{Contrast: 4})
	uniform, _ := NewUniform(2000, boxsize, 5)

	octantSpread := func(c *ArrayCatalog) int {
		var counts [8]int
		for i := 0; i < c.Len(); i++ {
			p := c.Position(i)
			idx := 0
			for axis := 0; axis < 3; axis++ {
				if p[axis] >= boxsize/2 {
					idx |= 1 << axis
				}
			}
			counts[idx]++
		}

		min, max := counts[0], counts[0]
		for _, n := range counts[1:] {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}

		return max - min
	}

	if octantSpread(clustered) <= octantSpread(uniform) {
		t.Skip("clustering below octant resolution for this seed")
	}
}
