// Package checksum is a minimal offline reader for the trace format
// written by frame.Sink: enough to decode the header and walk every
// frame's aggregate density/speed statistics for a sanity check. A full
// gnuplot/octave-style viewer is out of scope; this only closes the loop
// on the FrameHeader/FrameEntry wire contract.
package checksum

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/lbmflow/lbmflow/frame"
)

// FrameStats summarizes one decoded frame.
type FrameStats struct {
	Entries                int
	SumSpeed, SumDensity   float64
	MinDensity, MaxDensity float64
}

// ReadHeader reads and validates the 16-byte trace header.
func ReadHeader(r io.Reader) (frame.Header, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return frame.Header{}, fmt.Errorf("checksum: reading header: %w", err)
	}
	h := frame.Header{
		Magic:      binary.LittleEndian.Uint32(buf[0:4]),
		MeshWidth:  binary.LittleEndian.Uint32(buf[4:8]),
		MeshHeight: binary.LittleEndian.Uint32(buf[8:12]),
		Lines:      binary.LittleEndian.Uint32(buf[12:16]),
	}
	if h.Magic != frame.Magic {
		return h, fmt.Errorf("checksum: bad magic %#x, want %#x", h.Magic, frame.Magic)
	}
	return h, nil
}

// ReadFrame reads exactly one frame's worth of entries — mesh_width times
// mesh_height of them, per h, regardless of how many ranks produced it —
// and returns their aggregate statistics.
func ReadFrame(r io.Reader, h frame.Header) (FrameStats, error) {
	entries := int(h.MeshWidth) * int(h.MeshHeight)
	buf := make([]byte, entries*8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return FrameStats{}, err
	}

	stats := FrameStats{Entries: entries, MinDensity: math.Inf(1), MaxDensity: math.Inf(-1)}
	for i := 0; i < entries; i++ {
		e := decodeEntry(buf[i*8:])
		stats.SumSpeed += float64(e.V)
		stats.SumDensity += float64(e.Rho)
		if float64(e.Rho) < stats.MinDensity {
			stats.MinDensity = float64(e.Rho)
		}
		if float64(e.Rho) > stats.MaxDensity {
			stats.MaxDensity = float64(e.Rho)
		}
	}
	return stats, nil
}

// decodeEntry is the read-side inverse of frame.Sink's putEntry: one
// little-endian (v, rho) float32 pair.
func decodeEntry(buf []byte) frame.Entry {
	return frame.Entry{
		V:   math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		Rho: math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
	}
}

// ReadAll decodes the header and every complete frame that follows it,
// stopping cleanly at EOF (a partially written final frame, the one
// failure mode §7 allows to remain on disk, is reported as an error).
func ReadAll(r io.Reader) (frame.Header, []FrameStats, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return h, nil, err
	}
	var frames []FrameStats
	for {
		fs, err := ReadFrame(r, h)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return h, frames, fmt.Errorf("checksum: trace ends mid-frame after %d complete frames: %w", len(frames), err)
		}
		if err != nil {
			return h, frames, fmt.Errorf("checksum: reading frame %d: %w", len(frames), err)
		}
		frames = append(frames, fs)
	}
	return h, frames, nil
}
