package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbmflow/lbmflow/config"
	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/mesh"
)

func TestInitialStateTagsBordersAndObstacle(t *testing.T) {
	info, err := domain.Decompose(0, 1, 8, 4)
	require.NoError(t, err)
	cfg := &config.Config{
		Width: 8, Height: 4,
		ObstacleX: 3, ObstacleY: 2, ObstacleR: 1,
		InflowMaxVelocity: 0.1,
		Reynolds:          100,
	}

	_, _, types := InitialState(cfg, info)

	for x := 1; x <= 8; x++ {
		assert.Equalf(t, mesh.BounceBack, types.At(x, 1), "top row (%d,1)", x)
		assert.Equalf(t, mesh.BounceBack, types.At(x, 4), "bottom row (%d,4)", x)
	}
	for y := 2; y <= 3; y++ {
		assert.Equalf(t, mesh.Inflow, types.At(1, y), "left col (1,%d)", y)
		assert.Equalf(t, mesh.Outflow, types.At(8, y), "right col (8,%d)", y)
	}
	// obstacle centred at (3,2) radius 1 covers (3,2) and its four
	// axis neighbors within radius 1.
	assert.Equal(t, mesh.BounceBack, types.At(3, 2), "obstacle centre")
	assert.Equal(t, mesh.BounceBack, types.At(4, 2), "obstacle edge (4,2)")
	assert.Equal(t, mesh.Fluid, types.At(6, 2), "far from obstacle (6,2)")
}

func TestInitialStateVelocityIsPoiseuilleAtRestDensity(t *testing.T) {
	info, err := domain.Decompose(0, 1, 8, 4)
	require.NoError(t, err)
	cfg := &config.Config{
		Width: 8, Height: 4,
		ObstacleR:         0,
		InflowMaxVelocity: 0.1,
		Reynolds:          100,
	}

	a, b, _ := InitialState(cfg, info)

	// Top and bottom rows are walls: rest equilibrium, rho=1, u=0.
	rho := a.At(4, 1).Density()
	assert.InDelta(t, 1.0, rho, 1e-12)
	u := a.At(4, 1).Velocity(rho)
	assert.Equal(t, [2]float64{0, 0}, u)

	// An interior row should carry the nonzero Poiseuille profile value.
	mid := a.At(4, 2)
	midRho := mid.Density()
	midU := mid.Velocity(midRho)
	assert.Greater(t, midU[0], 0.0)

	// b starts out identical to a, since either mesh may serve as the
	// pipeline's source on iteration 1.
	assert.Equal(t, a.Raw(), b.Raw())
}
