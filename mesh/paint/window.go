// Package paint interpolates particle catalogs onto mesh grids and back.
//
// Painting deposits each particle's weight over the cells covered by a mass
// assignment window with periodic wrapping; readout is the matching
// interpolation of mesh values at particle positions. The package also
// provides the Fourier-space compensation transfer that deconvolves the
// assignment window from a painted field.
package paint

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/michaelJwilson/meshkit/mesh/core"
)

// Errors returned by painting operations.
var (
	ErrUnknownWindow = errors.New("paint: unknown assignment window")
	ErrMeshMismatch  = errors.New("paint: field mesh does not match painter mesh")
	ErrNilCatalog    = errors.New("paint: nil catalog")
	ErrNilField      = errors.New("paint: nil field")
)

// Window identifies a mass assignment scheme.
type Window int

const (
	// NGP assigns each particle wholly to its nearest grid point.
	NGP Window = iota

	// CIC distributes each particle linearly over the 2x2x2 nearest cells
	// (cloud-in-cell).
	CIC

	// TSC distributes each particle quadratically over the 3x3x3 nearest
	// cells (triangular-shaped cloud).
	TSC
)

// ParseWindow maps a case-insensitive name to a Window.
func ParseWindow(name string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ngp", "nearest":
		return NGP, nil
	case "cic", "cloud":
		return CIC, nil
	case "tsc", "triangular":
		return TSC, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
	}
}

// String implements fmt.Stringer.
func (w Window) String() string {
	switch w {
	case NGP:
		return "ngp"
	case CIC:
		return "cic"
	case TSC:
		return "tsc"
	default:
		return fmt.Sprintf("window(%d)", int(w))
	}
}

// Support returns the number of cells the window touches per axis.
func (w Window) Support() int {
	switch w {
	case NGP:
		return 1
	case CIC:
		return 2
	case TSC:
		return 3
	default:
		return 0
	}
}

// Power returns the exponent p of the window's Fourier transfer sinc^p,
// used by the compensation transfer. One factor of sinc per convolution
// order per axis, squared for the power spectrum.
func (w Window) Power() float64 {
	switch w {
	case NGP:
		return 2
	case CIC:
		return 4
	case TSC:
		return 6
	default:
		return 0
	}
}

// valid reports whether w names a known scheme.
func (w Window) valid() bool {
	return w == NGP || w == CIC || w == TSC
}

// axisWeights fills cells and weights with the window stencil for one axis.
// x is the particle position in grid units; n is the axis extent. It returns
// the number of stencil points written.
//
// Grid point i sits at coordinate i; CIC interpolates between floor(x) and
// floor(x)+1, NGP and TSC center on the nearest grid point.
func (w Window) axisWeights(x float64, n int, cells *[3]int, weights *[3]float64) int {
	switch w {
	case NGP:
		i := int(math.Floor(x + 0.5))
		cells[0] = core.WrapIndex(i, n)
		weights[0] = 1
		return 1

	case CIC:
		i := int(math.Floor(x))
		f := x - float64(i)
		cells[0] = core.WrapIndex(i, n)
		cells[1] = core.WrapIndex(i+1, n)
		weights[0] = 1 - f
		weights[1] = f
		return 2

	case TSC:
		i := int(math.Floor(x + 0.5))
		d := x - float64(i)
		cells[0] = core.WrapIndex(i-1, n)
		cells[1] = core.WrapIndex(i, n)
		cells[2] = core.WrapIndex(i+1, n)
		weights[0] = 0.5 * (0.5 - d) * (0.5 - d)
		weights[1] = 0.75 - d*d
		weights[2] = 0.5 * (0.5 + d) * (0.5 + d)
		return 3

	default:
		return 0
	}
}
