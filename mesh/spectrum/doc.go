// Package spectrum estimates isotropic power spectra from Fourier-space
// mesh fields.
//
// The estimator spherically averages the squared modulus of density
// contrast modes over shells of |k|, weighting half-spectrum modes by their
// Hermitian multiplicity so the truncated storage counts the full sphere.
// The DC mode is always excluded. Results carry the mean wavenumber, mean
// power, and mode count per shell plus the shot-noise level where known.
package spectrum
