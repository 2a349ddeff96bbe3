package paint

import (
	"math"

	"github.com/michaelJwilson/meshkit/mesh/field"
)

// CompensationTransfer returns the Fourier-space transfer that deconvolves
// the assignment window from a painted field: the product over axes of
// 1/sinc^(p/2)(k*H/2), with p the window's power-spectrum exponent and H the
// cell size. The k = 0 factor is exactly 1.
//
// Apply it to the transformed field via ComplexField.MulTransfer before
// estimating spectra.
func CompensationTransfer(m field.Mesh, w Window) field.Transfer {
	h := m.CellSize()
	order := w.Power() / 2

	return func(kx, ky, kz float64) complex128 {
		t := compensateAxis(kx*h[0]/2, order) *
			compensateAxis(ky*h[1]/2, order) *
			compensateAxis(kz*h[2]/2, order)

		return complex(t, 0)
	}
}

// compensateAxis returns 1/sinc^order(x) with the x = 0 singularity
// removed analytically.
func compensateAxis(x, order float64) float64 {
	if x == 0 {
		return 1
	}

	s := math.Sin(x) / x

	return 1 / math.Pow(s, order)
}
