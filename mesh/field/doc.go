// Package field provides periodic 3D mesh geometry and the dual field
// representations defined on it.
//
// A Mesh discretizes a periodic box into Nmesh cells per axis. A field over
// the mesh exists in two numerically consistent representations:
//
//   - RealField: real values over the full Nx x Ny x Nz grid, indexed by
//     configuration-space cell coordinates.
//   - ComplexField: complex values over the half-spectrum
//     Nx x Ny x (Nz/2+1), indexed by wavevector. The missing half is implied
//     by conjugate symmetry of real-valued input.
//
// Transform converts between the two via forward (real-to-complex) and
// inverse (complex-to-real) fast Fourier transforms, parallelized over mesh
// pencils. The round trip recovers the original field to floating-point
// tolerance.
//
// The package intentionally does not implement FFT kernels itself. It plans
// one-dimensional transforms through an external FFT backend and handles the
// 3D decomposition, half-spectrum packing, and parallel execution.
package field
