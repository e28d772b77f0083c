package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbmflow/lbmflow/config"
	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
	"github.com/lbmflow/lbmflow/physics"
	"github.com/lbmflow/lbmflow/transport/local"
)

// closedBox builds a fully walled-in type grid (every border cell
// BounceBack, no Inflow/Outflow) so the rest-equilibrium fixed point
// property (testable property 2) can be exercised without the inflow
// boundary perturbing the field.
func closedBox(w, h int) *mesh.TypeGrid {
	types := mesh.NewTypeGrid(w, h)
	for x := 1; x <= w; x++ {
		types.Set(x, 1, mesh.BounceBack)
		types.Set(x, h, mesh.BounceBack)
	}
	for y := 1; y <= h; y++ {
		types.Set(1, y, mesh.BounceBack)
		types.Set(w, y, mesh.BounceBack)
	}
	return types
}

func TestRestEquilibriumIsAFixedPointInAClosedBox(t *testing.T) {
	const w, h = 6, 5
	info, err := domain.Decompose(0, 1, w, h)
	require.NoError(t, err)
	types := closedBox(w, h)

	a := mesh.New(w, h)
	b := mesh.New(w, h)
	for x := 1; x <= w; x++ {
		for y := 1; y <= h; y++ {
			cell := a.At(x, y)
			for k := 0; k < lattice.Directions; k++ {
				cell[k] = lattice.W[k]
			}
		}
	}

	hub := local.NewHub(1)
	sc := &StepController{
		Transport: hub.Rank(0),
		Info:      info,
		Config:    &config.Config{Iterations: 21, Omega: 1.7, WriteInterval: 0},
		Types:     types,
	}
	require.NoError(t, sc.Run(context.Background(), a, b))

	// The wall ring itself sits between a propagate write and the next
	// ApplyBoundary fix-up, so only cells strictly inside it (never
	// touched by a neighboring ghost) are checked for bit-identical
	// equilibrium at this point in the pipeline.
	for x := 2; x < w; x++ {
		for y := 2; y < h; y++ {
			cell := a.At(x, y)
			for k := 0; k < lattice.Directions; k++ {
				assert.Equalf(t, lattice.W[k], cell[k], "cell (%d,%d)[%d]", x, y, k)
			}
		}
	}
}

func TestRunKeepsInitialPoiseuilleStatePhysical(t *testing.T) {
	const w, h = 8, 4
	info, err := domain.Decompose(0, 1, w, h)
	require.NoError(t, err)
	cfg := &config.Config{
		Iterations: 10, Width: w, Height: h,
		ObstacleR:         0,
		InflowMaxVelocity: 0.1,
		Reynolds:          100,
		WriteInterval:     50,
	}
	a, b, types := InitialState(cfg, info)

	hub := local.NewHub(1)
	sc := &StepController{
		Transport: hub.Rank(0),
		Info:      info,
		Config:    cfg,
		Types:     types,
	}
	require.NoError(t, sc.Run(context.Background(), a, b))

	// No Sink is configured, so no frame is written; this just exercises
	// the full pipeline for a few steps and checks the state stays physical.
	mid := a.At(4, 2)
	rho := mid.Density()
	assert.Greater(t, rho, 0.0)
	speed := physics.Speed(mid.Velocity(rho))
	assert.GreaterOrEqual(t, speed, 0.0)
	assert.LessOrEqual(t, speed, 1.0)
}
