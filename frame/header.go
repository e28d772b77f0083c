// Package frame serializes macroscopic simulation state to the on-disk
// trace format: one FrameHeader followed by a sequence of frames, each a
// concatenation of every rank's tile in ascending rank order. Only rank 0
// ever touches the underlying writer; every other rank contributes its
// tile over the transport.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic identifies the trace format in the header's first four bytes.
const Magic uint32 = 0x12345

// Header is written once, before any frame, little-endian and packed.
type Header struct {
	Magic      uint32
	MeshWidth  uint32
	MeshHeight uint32
	Lines      uint32
}

func writeHeader(w io.Writer, h Header) error {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.MeshWidth)
	binary.LittleEndian.PutUint32(buf[8:12], h.MeshHeight)
	binary.LittleEndian.PutUint32(buf[12:16], h.Lines)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("frame: writing header: %w", err)
	}
	return nil
}

// Entry is one interior cell's recorded state: kinetic speed and density,
// both truncated to single precision at emit time.
type Entry struct {
	V   float32
	Rho float32
}
