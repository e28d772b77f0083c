package frame

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
	"github.com/lbmflow/lbmflow/physics"
	"github.com/lbmflow/lbmflow/transport"
)

const (
	flushEntries = 4096
	entryBytes   = 8 // float32 v + float32 rho
	cellBytes    = lattice.Directions * 8
)

// Sink writes the trace file on rank 0 and forwards tiles to rank 0 from
// every other rank. The header is written once; each frame concatenates
// one tile per rank in ascending rank order, rank 0's own tile first.
type Sink struct {
	Transport transport.Transport
	Info      *domain.Info
	W         io.Writer // nil on every rank but 0

	headerWritten bool
}

func tileBytes(w, h int) int { return w * h * cellBytes }

// WriteFrame serializes one frame of m's interior into the trace. On rank
// 0 it also receives and serializes every other rank's raw tile, in
// ascending rank order; on every other rank it sends its raw tile to rank
// 0 and returns.
func (s *Sink) WriteFrame(m *mesh.Mesh) error {
	if s.Transport.Rank() != 0 {
		if err := s.Transport.Send(0, transport.TagFrameGather, packTile(m)); err != nil {
			return fmt.Errorf("frame: sending tile to rank 0: %w", err)
		}
		return nil
	}

	if !s.headerWritten {
		if err := writeHeader(s.W, Header{
			Magic:      Magic,
			MeshWidth:  uint32(s.Info.GlobalW),
			MeshHeight: uint32(s.Info.GlobalH),
			Lines:      uint32(s.Info.Py),
		}); err != nil {
			return err
		}
		s.headerWritten = true
	}

	bw := bufio.NewWriterSize(s.W, flushEntries*entryBytes)
	if err := emitTile(bw, m); err != nil {
		return fmt.Errorf("frame: serializing rank 0 tile: %w", err)
	}

	for r := 1; r < s.Transport.Size(); r++ {
		buf := make([]byte, tileBytes(m.W, m.H))
		if err := s.Transport.Recv(r, transport.TagFrameGather, buf); err != nil {
			return fmt.Errorf("frame: receiving tile from rank %d: %w", r, err)
		}
		if err := emitTileBytes(bw, buf, m.W, m.H); err != nil {
			return fmt.Errorf("frame: serializing rank %d tile: %w", r, err)
		}
	}
	return bw.Flush()
}

// packTile serializes m's interior, column-major (x outer, y inner), as
// DIRECTIONS little-endian float64 per cell — the raw population vector,
// not the precomputed (v, rho) pair, so the master computes macroscopic
// quantities identically for its own tile and every received one.
func packTile(m *mesh.Mesh) []byte {
	buf := make([]byte, tileBytes(m.W, m.H))
	i := 0
	for x := 1; x <= m.W; x++ {
		for y := 1; y <= m.H; y++ {
			cell := m.At(x, y)
			for k := 0; k < lattice.Directions; k++ {
				binary.LittleEndian.PutUint64(buf[i:], math.Float64bits(cell[k]))
				i += 8
			}
		}
	}
	return buf
}

func emitEntry(w io.Writer, rho float64, u [2]float64) error {
	return putEntry(w, Entry{V: float32(physics.Speed(u)), Rho: float32(rho)})
}

func putEntry(w io.Writer, e Entry) error {
	var buf [entryBytes]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(e.V))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(e.Rho))
	_, err := w.Write(buf[:])
	return err
}

func emitTile(w io.Writer, m *mesh.Mesh) error {
	for x := 1; x <= m.W; x++ {
		for y := 1; y <= m.H; y++ {
			cell := m.At(x, y)
			rho := cell.Density()
			if err := emitEntry(w, rho, cell.Velocity(rho)); err != nil {
				return err
			}
		}
	}
	return nil
}

func emitTileBytes(w io.Writer, buf []byte, width, height int) error {
	var cell mesh.Cell
	i := 0
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			for k := 0; k < lattice.Directions; k++ {
				cell[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i:]))
				i += 8
			}
			rho := cell.Density()
			if err := emitEntry(w, rho, cell.Velocity(rho)); err != nil {
				return err
			}
		}
	}
	return nil
}
