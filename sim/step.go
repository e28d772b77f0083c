package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lbmflow/lbmflow/config"
	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/frame"
	"github.com/lbmflow/lbmflow/halo"
	"github.com/lbmflow/lbmflow/mesh"
	"github.com/lbmflow/lbmflow/physics"
	"github.com/lbmflow/lbmflow/transport"
)

// StepController drives one rank's iteration loop: boundary operators,
// collision, halo exchange, and propagation, with optional frame capture
// every Config.WriteInterval iterations. The goroutine fan-out for
// collision is grounded on the teacher's worker-pool partitioning in its
// Calculations function, adapted from a flat cell-slice partition to a row
// range over physics.CollideRows.
type StepController struct {
	Transport transport.Transport
	Info      *domain.Info
	Config    *config.Config
	Types     *mesh.TypeGrid
	Sink      *frame.Sink // nil disables frame capture
	Log       *logrus.Entry

	// Workers bounds the goroutine fan-out for collision; 0 selects
	// runtime.GOMAXPROCS(0).
	Workers int
}

// Run executes the iteration loop starting from the already-installed
// initial state in a (with b as its ping-pong partner), writing frame 0
// before any stepping and frame i whenever i is a nonzero multiple of
// Config.WriteInterval and a Sink is configured.
func (sc *StepController) Run(ctx context.Context, a, b *mesh.Mesh) error {
	if sc.Sink != nil {
		if err := sc.Sink.WriteFrame(a); err != nil {
			return fmt.Errorf("sim: writing frame 0: %w", err)
		}
	}

	for i := uint32(1); i < sc.Config.Iterations; i++ {
		physics.ApplyBoundary(a, sc.Types, sc.Info.OriginY, sc.Info.GlobalH, sc.Config.InflowMaxVelocity)

		if err := sc.Transport.Barrier(); err != nil {
			return fmt.Errorf("sim: pre-collide barrier: %w", err)
		}

		if err := sc.collide(ctx, b, a); err != nil {
			return fmt.Errorf("sim: collide at iteration %d: %w", i, err)
		}

		if err := sc.Transport.Barrier(); err != nil {
			return fmt.Errorf("sim: pre-exchange barrier: %w", err)
		}

		if err := halo.Exchange(sc.Transport, sc.Info, b); err != nil {
			return fmt.Errorf("sim: halo exchange at iteration %d: %w", i, err)
		}

		physics.Propagate(a, b)

		if err := sc.Transport.Barrier(); err != nil {
			return fmt.Errorf("sim: iteration-end barrier: %w", err)
		}

		if sc.shouldWriteFrame(i) {
			if err := sc.Sink.WriteFrame(a); err != nil {
				return fmt.Errorf("sim: writing frame %d: %w", i, err)
			}
			if sc.Log != nil && sc.Transport.Rank() == 0 {
				sc.Log.WithField("iteration", i).Info("frame written")
			}
		}
	}
	return nil
}

func (sc *StepController) shouldWriteFrame(i uint32) bool {
	return sc.Sink != nil && sc.Config.WriteInterval > 0 && i%sc.Config.WriteInterval == 0
}

// collide applies BGK collision to src's interior, writing into dst, using
// up to Workers goroutines each owning a disjoint row range, joined with a
// WaitGroup the way the teacher's Calculations function joins its own
// worker pool. Falls back to the unpartitioned kernel when only one
// worker is left, i.e. Workers (or GOMAXPROCS) is 1 or the tile has a
// single row.
func (sc *StepController) collide(ctx context.Context, dst, src *mesh.Mesh) error {
	workers := sc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > src.H {
		workers = src.H
	}
	if workers <= 1 {
		physics.Collide(dst, src, sc.Config.Omega)
		return nil
	}

	var wg sync.WaitGroup
	rowsPerWorker := (src.H + workers - 1) / workers
	for w := 0; w < workers; w++ {
		yStart := 1 + w*rowsPerWorker
		yEnd := yStart + rowsPerWorker
		if yEnd > src.H+1 {
			yEnd = src.H + 1
		}
		if yStart >= yEnd {
			continue
		}
		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			physics.CollideRows(dst, src, sc.Config.Omega, yStart, yEnd)
		}(yStart, yEnd)
	}
	wg.Wait()
	return ctx.Err()
}
