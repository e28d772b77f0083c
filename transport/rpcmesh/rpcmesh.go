// Package rpcmesh provides a multi-process Transport built on net/rpc
// over net/http, directly grounded on the teacher's distributed worker
// (sr/distributed.go's Worker type and its net/rpc + net/http
// registration). Each rank runs a small RPC service other ranks dial
// into; point-to-point Send/Recv are modeled as a push to the
// destination's inbox, and Barrier/ReduceSum are coordinated through
// rank 0 the way a master rank gathers frames in frame.Sink.
package rpcmesh

import (
	"fmt"
	"net"
	"net/http"
	"net/rpc"
	"os"
	"sync"

	"github.com/lbmflow/lbmflow/transport"
)

// Message is the payload delivered by one rank's Send to another rank's
// Recv.
type Message struct {
	From, Tag int
	Payload   []byte
}

// Empty is used for content-less RPC replies, matching sr.Empty.
type Empty struct{}

type inboxKey struct {
	from, tag int
}

// service is the RPC receiver registered on every rank's HTTP server.
type service struct {
	mu     sync.Mutex
	cond   *sync.Cond
	inbox  map[inboxKey][][]byte
	arrive int
	gen    int
}

func newService() *service {
	s := &service{inbox: make(map[inboxKey][][]byte)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Deliver implements the RPC method peers call to perform a Send.
func (s *service) Deliver(msg *Message, _ *Empty) error {
	s.mu.Lock()
	key := inboxKey{msg.From, msg.Tag}
	s.inbox[key] = append(s.inbox[key], msg.Payload)
	s.cond.Broadcast()
	s.mu.Unlock()
	return nil
}

func (s *service) take(from, tag int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := inboxKey{from, tag}
	for len(s.inbox[key]) == 0 {
		s.cond.Wait()
	}
	data := s.inbox[key][0]
	s.inbox[key] = s.inbox[key][1:]
	return data
}

// Transport is a multi-process Transport. Rank 0 additionally acts as the
// barrier/reduce coordinator, exactly as it acts as the frame-gather
// master in frame.Sink.
type Transport struct {
	rank  int
	addrs []string // addrs[r] is the host:port of rank r's RPC server

	svc      *service
	listener net.Listener

	mu      sync.Mutex
	clients map[int]*rpc.Client

	coord *coordinator // non-nil only on rank 0
}

var _ transport.Transport = (*Transport)(nil)

// coordinator tracks barrier arrivals and reduction values; it lives only
// on rank 0.
type coordinator struct {
	mu       sync.Mutex
	cond     *sync.Cond
	arrived  int
	gen      int
	size     int
	reduceBuf []float64
}

// Listen starts this rank's RPC server on addrs[rank] (e.g. ":7000") and returns
// a Transport once it is accepting connections. addrs must list every
// rank's address in rank order, including this one.
func Listen(rank int, addrs []string) (*Transport, error) {
	t := &Transport{
		rank:    rank,
		addrs:   addrs,
		svc:     newService(),
		clients: make(map[int]*rpc.Client),
	}
	if rank == 0 {
		c := &coordinator{size: len(addrs), reduceBuf: make([]float64, len(addrs))}
		c.cond = sync.NewCond(&c.mu)
		t.coord = c
	}

	server := rpc.NewServer()
	if err := server.RegisterName("Mesh", t.svc); err != nil {
		return nil, fmt.Errorf("rpcmesh: register service: %w", err)
	}
	if t.coord != nil {
		if err := server.RegisterName("Coordinator", t.coord); err != nil {
			return nil, fmt.Errorf("rpcmesh: register coordinator: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, server)
	ln, err := net.Listen("tcp", addrs[rank])
	if err != nil {
		return nil, fmt.Errorf("rpcmesh: listen on %s: %w", addrs[rank], err)
	}
	t.listener = ln
	go http.Serve(ln, mux)
	return t, nil
}

func (t *Transport) client(to int) (*rpc.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.clients[to]; ok {
		return c, nil
	}
	c, err := rpc.DialHTTP("tcp", t.addrs[to])
	if err != nil {
		return nil, fmt.Errorf("rpcmesh: dial rank %d at %s: %w", to, t.addrs[to], err)
	}
	t.clients[to] = c
	return c, nil
}

// Rank returns this transport's rank.
func (t *Transport) Rank() int { return t.rank }

// Size returns the communicator size.
func (t *Transport) Size() int { return len(t.addrs) }

// Send delivers payload to rank `to`'s inbox over RPC.
func (t *Transport) Send(to, tag int, payload []byte) error {
	c, err := t.client(to)
	if err != nil {
		return err
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	var reply Empty
	if err := c.Call("Mesh.Deliver", &Message{From: t.rank, Tag: tag, Payload: buf}, &reply); err != nil {
		return fmt.Errorf("rpcmesh: send to rank %d: %w", to, err)
	}
	return nil
}

// Recv blocks until rank `from` has delivered a matching tagged message.
func (t *Transport) Recv(from, tag int, buf []byte) error {
	data := t.svc.take(from, tag)
	if len(data) != len(buf) {
		return fmt.Errorf("rpcmesh: recv size mismatch from rank %d: got %d bytes, want %d", from, len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// BarrierArrive is the RPC method non-zero ranks call on rank 0's
// coordinator to join a barrier.
func (c *coordinator) BarrierArrive(_ *Empty, _ *Empty) error {
	c.mu.Lock()
	gen := c.gen
	c.arrived++
	if c.arrived == c.size {
		c.arrived = 0
		c.gen++
		c.cond.Broadcast()
	} else {
		for gen == c.gen {
			c.cond.Wait()
		}
	}
	c.mu.Unlock()
	return nil
}

// Barrier blocks until every rank has called it.
func (t *Transport) Barrier() error {
	if t.rank == 0 {
		return t.coord.BarrierArrive(&Empty{}, &Empty{})
	}
	c, err := t.client(0)
	if err != nil {
		return err
	}
	var reply Empty
	if err := c.Call("Coordinator.BarrierArrive", &Empty{}, &reply); err != nil {
		return fmt.Errorf("rpcmesh: barrier: %w", err)
	}
	return nil
}

// reduceRequest carries one rank's contribution to a sum reduction.
type reduceRequest struct {
	Rank  int
	Value float64
}

type reduceReply struct {
	Sum float64
}

// ReduceSum is the RPC method called on rank 0's coordinator.
func (c *coordinator) ReduceSum(req *reduceRequest, reply *reduceReply) error {
	c.mu.Lock()
	gen := c.gen
	c.reduceBuf[req.Rank] = req.Value
	c.arrived++
	if c.arrived == c.size {
		var sum float64
		for _, v := range c.reduceBuf {
			sum += v
		}
		c.reduceBuf[0] = sum // stash for rank 0's own call below
		c.arrived = 0
		c.gen++
		c.cond.Broadcast()
	} else {
		for gen == c.gen {
			c.cond.Wait()
		}
	}
	reply.Sum = c.reduceBuf[0]
	c.mu.Unlock()
	return nil
}

// ReduceSum sums v across every rank and returns the identical result on
// all of them.
func (t *Transport) ReduceSum(v float64) (float64, error) {
	if t.rank == 0 {
		var reply reduceReply
		if err := t.coord.ReduceSum(&reduceRequest{Rank: 0, Value: v}, &reply); err != nil {
			return 0, err
		}
		return reply.Sum, nil
	}
	c, err := t.client(0)
	if err != nil {
		return 0, err
	}
	var reply reduceReply
	if err := c.Call("Coordinator.ReduceSum", &reduceRequest{Rank: t.rank, Value: v}, &reply); err != nil {
		return 0, fmt.Errorf("rpcmesh: reduce sum: %w", err)
	}
	return reply.Sum, nil
}

// Abort logs the reason and force-exits this process. Transport errors
// are fatal (spec §7): a rank that cannot exchange halos cannot continue.
// Peer processes are not notified.
func (t *Transport) Abort(reason string) {
	fmt.Fprintf(os.Stderr, "fatal: rank %d aborting communicator: %s\n", t.rank, reason)
	os.Exit(1)
}
