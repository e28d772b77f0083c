// Package mesh holds the owning storage for one process's local lattice
// tile: the Cell population array and the CellType tags attached to it.
// It performs no physics of its own; physics reads and writes the storage
// mesh exposes here.
package mesh

import "github.com/lbmflow/lbmflow/lattice"

// Cell is the nine microscopic populations f_0..f_8 at one lattice site.
type Cell [lattice.Directions]float64

// Density returns rho = sum_k f_k.
func (c *Cell) Density() float64 {
	var rho float64
	for k := 0; k < lattice.Directions; k++ {
		rho += c[k]
	}
	return rho
}

// Velocity returns the macroscopic velocity (u_x, u_y) given a
// precomputed density.
func (c *Cell) Velocity(rho float64) [2]float64 {
	var u [2]float64
	for k := 0; k < lattice.Directions; k++ {
		u[0] += c[k] * lattice.E[k][0]
		u[1] += c[k] * lattice.E[k][1]
	}
	u[0] /= rho
	u[1] /= rho
	return u
}

// Mesh is an owning, contiguous, row-major store of (W+2)x(H+2) cells: the
// local interior tile plus its 1-cell ghost ring on every side. A Mesh is
// created once per process and mutated only by the physics kernels and the
// halo exchange; it is never read and written by the same kernel call.
type Mesh struct {
	W, H  int // interior dimensions, ghosts excluded
	cells []Cell
}

// New allocates a mesh with interior size w x h (ghost ring added
// automatically on every side).
func New(w, h int) *Mesh {
	return &Mesh{
		W:     w,
		H:     h,
		cells: make([]Cell, (w+2)*(h+2)),
	}
}

// Stride is the total width including the ghost ring on both sides.
func (m *Mesh) Stride() int { return m.W + 2 }

// Rows is the total height including the ghost ring on both sides.
func (m *Mesh) Rows() int { return m.H + 2 }

func (m *Mesh) index(x, y int) int {
	return y*m.Stride() + x
}

// At returns a pointer to the cell at local coordinates (x, y), where
// 0 <= x < W+2 and 0 <= y < H+2 (coordinate 0 and W+1/H+1 are ghosts).
func (m *Mesh) At(x, y int) *Cell {
	return &m.cells[m.index(x, y)]
}

// CopyFrom overwrites m's storage with src's. Both meshes must have
// identical dimensions; used by sim.InitialState to install the same
// starting state on both live meshes.
func (m *Mesh) CopyFrom(src *Mesh) {
	copy(m.cells, src.cells)
}

// Raw exposes the backing cell slice, ghost ring included, in row-major
// order. The halo exchange and frame sink do not use it; they read cells
// through At.
func (m *Mesh) Raw() []Cell { return m.cells }
