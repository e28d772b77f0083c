package physics

import (
	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
)

// BounceBack reflects a cell's populations back the way they arrived by
// permuting them through the opposite map. Applying it twice is the
// identity.
func BounceBack(c *mesh.Cell) {
	var tmp mesh.Cell
	for k := 0; k < lattice.Directions; k++ {
		tmp[k] = c[lattice.Opposite[k]]
	}
	*c = tmp
}

// poiseuille returns the parabolic inflow velocity, peaking at vMax
// mid-channel, at global row yGlobal within a channel of global height
// hGlobal.
func poiseuille(vMax float64, yGlobal, hGlobal int) float64 {
	l := float64(hGlobal - 1)
	yRel := float64(yGlobal - 1)
	return 4.0 * vMax / (l * l) * (l*yRel - yRel*yRel)
}

// ZouHeInflow fills the unknown populations of a left-edge cell given the
// global row yGlobal, global channel height hGlobal, and peak inflow
// velocity vMax.
func ZouHeInflow(c *mesh.Cell, yGlobal, hGlobal int, vMax float64) {
	v := poiseuille(vMax, yGlobal, hGlobal)
	rho := (c[0] + c[2] + c[4] + 2*(c[3]+c[6]+c[7])) / (1 - v)

	c[1] = c[3]
	c[5] = c[7] - 0.5*(c[2]-c[4]) + (1.0/6.0)*(rho*v)
	c[8] = c[6] + 0.5*(c[2]-c[4]) + (1.0/6.0)*(rho*v)
}

// ZouHeOutflow fills the unknown populations of a right-edge cell to
// enforce rho=1 with zero cross-channel velocity.
func ZouHeOutflow(c *mesh.Cell) {
	c[3] = c[1]
	c[6] = c[8] + 0.5*(c[4]-c[2])
	c[7] = c[5] + 0.5*(c[2]-c[4])
}

// ApplyBoundary dispatches the boundary operator for every interior cell
// of m according to its type in types, before collision runs. yOrigin is
// the mesh's global row origin, needed to compute the global row for
// Zou/He inflow; hGlobal is the global channel height.
func ApplyBoundary(m *mesh.Mesh, types *mesh.TypeGrid, yOrigin, hGlobal int, vMax float64) {
	for y := 1; y <= m.H; y++ {
		for x := 1; x <= m.W; x++ {
			switch types.At(x, y) {
			case mesh.Fluid:
				// no-op
			case mesh.BounceBack:
				BounceBack(m.At(x, y))
			case mesh.Inflow:
				ZouHeInflow(m.At(x, y), yOrigin+y, hGlobal, vMax)
			case mesh.Outflow:
				ZouHeOutflow(m.At(x, y))
			}
		}
	}
}
