// Package lattice defines the D2Q9 discretization constants shared by the
// mesh and physics packages: the nine direction vectors, their equilibrium
// weights, and the bounce-back opposite map. The index order here is
// load-bearing for every equation in physics.Collide and the boundary
// operators of package physics;
// it must never be reordered independently in one place and not the other.
package lattice

// Directions is the number of discrete velocities in the D2Q9 scheme.
const Directions = 9

// E holds the nine D2Q9 direction vectors, indexed in the canonical order:
// rest, four cardinals, four diagonals.
var E = [Directions][2]float64{
	{0, 0},
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
}

// W holds the equilibrium weight for each direction: 4/9 for rest, 1/9 for
// the cardinals, 1/36 for the diagonals.
var W = [Directions]float64{
	4.0 / 9.0,
	1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
	1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
}

// Opposite maps each direction index to its antipodal direction, used by
// the bounce-back boundary operator.
var Opposite = [Directions]int{0, 3, 4, 1, 2, 7, 8, 5, 6}

// DotE returns the dot product of velocity u with direction k's vector.
func DotE(k int, u [2]float64) float64 {
	return E[k][0]*u[0] + E[k][1]*u[1]
}
