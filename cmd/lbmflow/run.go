package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lbmflow/lbmflow/config"
	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/frame"
	"github.com/lbmflow/lbmflow/sim"
	"github.com/lbmflow/lbmflow/transport"
	"github.com/lbmflow/lbmflow/transport/local"
	"github.com/lbmflow/lbmflow/transport/rpcmesh"
)

// runInProcess runs procs ranks as goroutines over transport/local,
// joined with a WaitGroup the way the teacher's worker pools join.
func runInProcess(cfg *config.Config, procs int) error {
	hub := local.NewHub(procs)
	errs := make([]error, procs)

	var wg sync.WaitGroup
	wg.Add(procs)
	for r := 0; r < procs; r++ {
		go func(r int) {
			defer wg.Done()
			errs[r] = runRank(hub.Rank(r), cfg, r, procs)
		}(r)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// runMultiProcess runs this single process as one rank of a larger
// communicator, connecting to its peers over transport/rpcmesh.
func runMultiProcess(cfg *config.Config, rank int, peers []string) error {
	if len(peers) == 0 {
		return fmt.Errorf("--rank requires --peers")
	}
	t, err := rpcmesh.Listen(rank, peers)
	if err != nil {
		return fmt.Errorf("starting transport: %w", err)
	}
	return runRank(t, cfg, rank, len(peers))
}

// runRank decomposes the domain for one rank, installs its initial state,
// and drives it to completion, opening the trace file only on rank 0.
func runRank(t transport.Transport, cfg *config.Config, rank, size int) error {
	info, err := domain.Decompose(rank, size, int(cfg.Width), int(cfg.Height))
	if err != nil {
		t.Abort(err.Error())
		return fmt.Errorf("domain decomposition: %w", err)
	}

	a, b, types := sim.InitialState(cfg, info)

	var sink *frame.Sink
	if cfg.OutputEnabled() {
		var w io.Writer
		if rank == 0 {
			f, err := os.Create(cfg.OutputFilename)
			if err != nil {
				t.Abort(err.Error())
				return fmt.Errorf("opening output file: %w", err)
			}
			defer f.Close()
			w = f
		}
		sink = &frame.Sink{Transport: t, Info: info, W: w}
	}

	sc := &sim.StepController{
		Transport: t,
		Info:      info,
		Config:    cfg,
		Types:     types,
		Sink:      sink,
		Log:       logrus.WithField("rank", rank),
	}
	if err := sc.Run(context.Background(), a, b); err != nil {
		t.Abort(err.Error())
		return err
	}
	return nil
}
