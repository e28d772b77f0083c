// Package halo implements the per-iteration ghost-cell exchange that
// makes the physics kernels consistent across ranks: after collision
// writes a mesh's interior, Exchange refreshes its 1-cell ghost ring from
// the eight neighboring ranks so propagation can read neighbor
// contributions. The five-phase schedule (horizontal, vertical, then the
// four diagonal corners) is fixed by spec; see domain.Info for neighbor
// lookup and transport.Transport for the substrate it runs over.
//
// This mesh stores cells row-major (index = y*stride+x), the opposite of
// the original C solver's column-major layout. Every phase, column, row
// and corner alike, packs its cells into a scratch byte buffer before
// sending.
package halo

import (
	"fmt"

	"github.com/lbmflow/lbmflow/domain"
	"github.com/lbmflow/lbmflow/mesh"
	"github.com/lbmflow/lbmflow/transport"
)

// Exchange refreshes m's ghost ring in place from m's neighbors in info,
// using t to communicate. Any transport error stops the exchange and is
// returned to the caller, which treats it as fatal: the simulation cannot
// proceed with a partially exchanged halo (spec §4.6 failure model).
func Exchange(t transport.Transport, info *domain.Info, m *mesh.Mesh) error {
	if err := exchangeColumn(t, info.R, info.L, transport.TagHaloLR, m, m.W, 0); err != nil {
		return fmt.Errorf("halo: left-to-right phase: %w", err)
	}
	if err := exchangeColumn(t, info.L, info.R, transport.TagHaloRL, m, 1, m.W+1); err != nil {
		return fmt.Errorf("halo: right-to-left phase: %w", err)
	}
	if err := exchangeRow(t, info.B, info.T, transport.TagHaloTB, m, m.H, 0); err != nil {
		return fmt.Errorf("halo: top-to-bottom phase: %w", err)
	}
	if err := exchangeRow(t, info.T, info.B, transport.TagHaloBT, m, 1, m.H+1); err != nil {
		return fmt.Errorf("halo: bottom-to-top phase: %w", err)
	}
	if err := exchangeCorner(t, info.BR, info.TL, transport.TagHaloTLBR, m, m.W, m.H, 0, 0); err != nil {
		return fmt.Errorf("halo: top-left/bottom-right corner: %w", err)
	}
	if err := exchangeCorner(t, info.BL, info.TR, transport.TagHaloTRBL, m, 1, m.H, m.W+1, 0); err != nil {
		return fmt.Errorf("halo: top-right/bottom-left corner: %w", err)
	}
	if err := exchangeCorner(t, info.TR, info.BL, transport.TagHaloBLTR, m, m.W, 1, 0, m.H+1); err != nil {
		return fmt.Errorf("halo: bottom-left/top-right corner: %w", err)
	}
	if err := exchangeCorner(t, info.TL, info.BR, transport.TagHaloBRTL, m, 1, 1, m.W+1, m.H+1); err != nil {
		return fmt.Errorf("halo: bottom-right/top-left corner: %w", err)
	}
	return nil
}

// exchangeColumn sends m's column sendX (full interior row range) to
// rank sendTo, and receives into column recvX from rank recvFrom. Either
// leg is skipped when the corresponding rank is domain.None.
func exchangeColumn(t transport.Transport, sendTo, recvFrom, tag int, m *mesh.Mesh, sendX, recvX int) error {
	if sendTo != domain.None {
		cells := make([]*mesh.Cell, m.H)
		for y := 1; y <= m.H; y++ {
			cells[y-1] = m.At(sendX, y)
		}
		if err := t.Send(sendTo, tag, packCells(cells)); err != nil {
			return err
		}
	}
	if recvFrom != domain.None {
		buf := make([]byte, cellBytes*m.H)
		if err := t.Recv(recvFrom, tag, buf); err != nil {
			return err
		}
		cells := make([]*mesh.Cell, m.H)
		for y := 1; y <= m.H; y++ {
			cells[y-1] = m.At(recvX, y)
		}
		unpackCells(buf, cells)
	}
	return nil
}

// exchangeRow sends m's row sendY (full interior column range) to rank
// sendTo, and receives into row recvY from rank recvFrom.
func exchangeRow(t transport.Transport, sendTo, recvFrom, tag int, m *mesh.Mesh, sendY, recvY int) error {
	if sendTo != domain.None {
		cells := make([]*mesh.Cell, m.W)
		for x := 1; x <= m.W; x++ {
			cells[x-1] = m.At(x, sendY)
		}
		if err := t.Send(sendTo, tag, packCells(cells)); err != nil {
			return err
		}
	}
	if recvFrom != domain.None {
		buf := make([]byte, cellBytes*m.W)
		if err := t.Recv(recvFrom, tag, buf); err != nil {
			return err
		}
		cells := make([]*mesh.Cell, m.W)
		for x := 1; x <= m.W; x++ {
			cells[x-1] = m.At(x, recvY)
		}
		unpackCells(buf, cells)
	}
	return nil
}

// exchangeCorner sends m's cell at (sendX, sendY) to rank sendTo, and
// receives a single cell from rank recvFrom into (recvX, recvY).
func exchangeCorner(t transport.Transport, sendTo, recvFrom, tag int, m *mesh.Mesh, sendX, sendY, recvX, recvY int) error {
	if sendTo != domain.None {
		if err := t.Send(sendTo, tag, packCell(m.At(sendX, sendY))); err != nil {
			return err
		}
	}
	if recvFrom != domain.None {
		buf := make([]byte, cellBytes)
		if err := t.Recv(recvFrom, tag, buf); err != nil {
			return err
		}
		unpackCell(buf, m.At(recvX, recvY))
	}
	return nil
}
