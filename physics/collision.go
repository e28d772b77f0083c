// Package physics implements the pure D2Q9 kernels: collision, streaming
// propagation, and the boundary operators that run before collision on
// special cells. Every kernel here is a pure function over mesh.Mesh /
// mesh.TypeGrid; none of them block or allocate per-cell.
package physics

import (
	"math"

	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
)

// Equilibrium returns the equilibrium population for direction k given
// macroscopic density rho and velocity u.
func Equilibrium(k int, rho float64, u [2]float64) float64 {
	eu := lattice.DotE(k, u)
	uu := u[0]*u[0] + u[1]*u[1]
	return lattice.W[k] * rho * (1 + 3*eu + 4.5*eu*eu - 1.5*uu)
}

// collideCell writes the BGK-relaxed populations of src into dst.
func collideCell(dst, src *mesh.Cell, omega float64) {
	rho := src.Density()
	u := src.Velocity(rho)
	for k := 0; k < lattice.Directions; k++ {
		feq := Equilibrium(k, rho, u)
		dst[k] = src[k] - omega*(src[k]-feq)
	}
}

// Collide applies BGK collision to every interior cell of src, writing the
// result into the same coordinates of dst. src and dst must be
// pointer-distinct meshes of identical dimensions; the ghost ring of
// either is left untouched.
func Collide(dst, src *mesh.Mesh, omega float64) {
	CollideRows(dst, src, omega, 1, src.H+1)
}

// CollideRows applies BGK collision to interior rows in [yStart, yEnd),
// using local mesh row coordinates (1 <= yStart, yEnd <= H+1). This
// entry point lets a driver statically partition the interior row range
// across goroutines, mirroring the teacher's worker-index partitioning of
// a flat cell slice.
func CollideRows(dst, src *mesh.Mesh, omega float64, yStart, yEnd int) {
	for y := yStart; y < yEnd; y++ {
		for x := 1; x <= src.W; x++ {
			collideCell(dst.At(x, y), src.At(x, y), omega)
		}
	}
}

// Speed returns the kinetic speed ||u||_2 reported in frames, for a cell
// with precomputed density and velocity.
func Speed(u [2]float64) float64 {
	return math.Sqrt(u[0]*u[0] + u[1]*u[1])
}
