// Package sim assembles the per-rank lattice state and drives the
// iteration loop: InitialState builds the starting meshes and cell-type
// tags, and StepController runs the collide/exchange/propagate pipeline
// each iteration, optionally recording frames through a frame.Sink.
package sim

import (
	"github.com/lbmflow/lbmflow/config"
	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
	"github.com/lbmflow/lbmflow/physics"
)

// InitialState builds the pair of live meshes and the cell-type grid for
// one rank's tile. Every cell starts at the global Poiseuille equilibrium
// profile; the channel's physical top and bottom rows are then overwritten
// with the rest-equilibrium and tagged BounceBack, the global left/right
// edges are tagged Inflow/Outflow, and the obstacle disk is tagged
// BounceBack last so it takes precedence over any border tag it overlaps.
// The finished state is installed on both a and b, since the pipeline reads
// whichever of the two a given iteration treats as its source.
// Grounded on setup_init_state in original_source's lbm_init.c, adapted to
// this mesh's ghost-ring convention: the original stores a wall directly in
// the ghost slot it owns, this mesh keeps walls as ordinary interior cells
// instead since domain.Info already tracks which rank owns a global edge.
func InitialState(cfg *config.Config, info *domain.Info) (a, b *mesh.Mesh, types *mesh.TypeGrid) {
	a = mesh.New(info.W, info.H)
	b = mesh.New(info.W, info.H)
	types = mesh.NewTypeGrid(info.W, info.H)

	for y := 1; y <= info.H; y++ {
		yGlobal := info.OriginY + y
		v := [2]float64{poiseuilleVelocity(cfg.InflowMaxVelocity, yGlobal, info.GlobalH), 0}
		for x := 1; x <= info.W; x++ {
			setEquilibrium(a.At(x, y), 1.0, v)
		}
	}

	if info.IsTopEdge() {
		for x := 1; x <= info.W; x++ {
			setEquilibrium(a.At(x, 1), 1.0, [2]float64{})
			types.Set(x, 1, mesh.BounceBack)
		}
	}
	if info.IsBottomEdge() {
		for x := 1; x <= info.W; x++ {
			setEquilibrium(a.At(x, info.H), 1.0, [2]float64{})
			types.Set(x, info.H, mesh.BounceBack)
		}
	}
	if info.IsLeftEdge() {
		for y := 1; y <= info.H; y++ {
			if types.At(1, y) == mesh.Fluid {
				types.Set(1, y, mesh.Inflow)
			}
		}
	}
	if info.IsRightEdge() {
		for y := 1; y <= info.H; y++ {
			if types.At(info.W, y) == mesh.Fluid {
				types.Set(info.W, y, mesh.Outflow)
			}
		}
	}

	for y := 1; y <= info.H; y++ {
		yGlobal := info.OriginY + y
		dy := float64(yGlobal) - cfg.ObstacleY
		for x := 1; x <= info.W; x++ {
			xGlobal := info.OriginX + x
			dx := float64(xGlobal) - cfg.ObstacleX
			if dx*dx+dy*dy <= cfg.ObstacleR*cfg.ObstacleR {
				types.Set(x, y, mesh.BounceBack)
			}
		}
	}

	b.CopyFrom(a)
	return a, b, types
}

func setEquilibrium(c *mesh.Cell, rho float64, u [2]float64) {
	for k := 0; k < lattice.Directions; k++ {
		c[k] = physics.Equilibrium(k, rho, u)
	}
}

// poiseuilleVelocity mirrors the unexported helper in physics/boundary.go:
// yGlobal is the 1-based global row, hGlobal the global channel height.
func poiseuilleVelocity(vMax float64, yGlobal, hGlobal int) float64 {
	l := float64(hGlobal - 1)
	yRel := float64(yGlobal - 1)
	return 4.0 * vMax / (l * l) * (l*yRel - yRel*yRel)
}
