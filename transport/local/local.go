// Package local provides an in-process Transport where every rank is a
// goroutine in the same binary, wired together over channels. It is the
// single-process analogue of the teacher's distributed RPC worker
// (sr/distributed.go's Worker.Calculate): same request/response shape,
// no network hop. Used by the local CLI mode (--procs) and by every
// package test that exercises multi-rank behavior without spawning
// processes.
package local

import (
	"fmt"
	"os"
	"sync"

	"github.com/lbmflow/lbmflow/transport"
)

// Hub is the shared rendezvous point for a set of in-process ranks. Create
// one Hub per simulation run and derive one Transport per rank from it
// with Hub.Rank.
type Hub struct {
	size  int
	chans [][]chan []byte

	barMu    sync.Mutex
	barCond  *sync.Cond
	barCount int
	barGen   int

	redMu     sync.Mutex
	redValues []float64
}

// NewHub allocates a Hub for size in-process ranks.
func NewHub(size int) *Hub {
	h := &Hub{
		size:      size,
		chans:     make([][]chan []byte, size),
		redValues: make([]float64, size),
	}
	h.barCond = sync.NewCond(&h.barMu)
	for i := range h.chans {
		h.chans[i] = make([]chan []byte, size)
		for j := range h.chans[i] {
			h.chans[i][j] = make(chan []byte)
		}
	}
	return h
}

// Rank returns the Transport for the given rank within this Hub.
func (h *Hub) Rank(rank int) transport.Transport {
	return &Transport{hub: h, rank: rank}
}

func (h *Hub) wait() {
	h.barMu.Lock()
	gen := h.barGen
	h.barCount++
	if h.barCount == h.size {
		h.barCount = 0
		h.barGen++
		h.barCond.Broadcast()
	} else {
		for gen == h.barGen {
			h.barCond.Wait()
		}
	}
	h.barMu.Unlock()
}

// Transport is the Hub-backed transport.Transport for one rank.
type Transport struct {
	hub  *Hub
	rank int
}

var _ transport.Transport = (*Transport)(nil)

// Rank returns this transport's rank.
func (t *Transport) Rank() int { return t.rank }

// Size returns the communicator size.
func (t *Transport) Size() int { return t.hub.size }

// Send blocks until the peer rank posts a matching Recv. The tag is
// unused: program order within the fixed halo-exchange protocol already
// disambiguates which message a channel carries.
func (t *Transport) Send(to, tag int, payload []byte) error {
	if to < 0 || to >= t.hub.size {
		return fmt.Errorf("local: send to out-of-range rank %d", to)
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	t.hub.chans[t.rank][to] <- buf
	return nil
}

// Recv blocks until the peer rank posts a matching Send.
func (t *Transport) Recv(from, tag int, buf []byte) error {
	if from < 0 || from >= t.hub.size {
		return fmt.Errorf("local: recv from out-of-range rank %d", from)
	}
	data := <-t.hub.chans[from][t.rank]
	if len(data) != len(buf) {
		return fmt.Errorf("local: recv size mismatch: got %d bytes, want %d", len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// Barrier blocks until every rank has called it.
func (t *Transport) Barrier() error {
	t.hub.wait()
	return nil
}

// ReduceSum sums v across every rank and returns the identical result on
// all of them.
func (t *Transport) ReduceSum(v float64) (float64, error) {
	t.hub.redMu.Lock()
	t.hub.redValues[t.rank] = v
	t.hub.redMu.Unlock()
	t.hub.wait()

	t.hub.redMu.Lock()
	var sum float64
	for _, x := range t.hub.redValues {
		sum += x
	}
	t.hub.redMu.Unlock()
	t.hub.wait()

	return sum, nil
}

// Abort terminates the whole process: in a single-binary local run every
// rank lives in the same process, so there is no partial-cluster state to
// reconcile.
func (t *Transport) Abort(reason string) {
	fmt.Fprintf(os.Stderr, "fatal: rank %d aborting communicator: %s\n", t.rank, reason)
	os.Exit(1)
}
