// Package domain computes the 2-D process grid decomposition that maps a
// global (W, H) lattice and a process count P onto per-rank tiles and
// their 8-neighborhood, grounded on the original solver's
// lbm_comm_init (original_source/v6-fine_tuning/src/lbm_comm.c).
package domain

import "fmt"

// None marks the absence of a neighbor rank at a domain edge.
const None = -1

// Info is the per-process decomposition record: global origin, local
// interior dimensions, the process grid shape, and the eight
// neighborhood ranks (any of which may be None).
type Info struct {
	Rank int
	Px, Py int
	Rx, Ry int

	// OriginX, OriginY are the global coordinates of this rank's first
	// interior cell.
	OriginX, OriginY int

	// W, H are local interior dimensions (ghost ring excluded).
	W, H int

	// GlobalW, GlobalH are the full domain dimensions.
	GlobalW, GlobalH int

	L, R, T, B             int
	TL, TR, BL, BR         int
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Decompose computes the decomposition for rank out of p total processes
// over a globalW x globalH domain. Px, the number of tiles along the
// width, is chosen as gcd(p, globalH), matching the original solver, and
// Py = p / Px tiles run along the height. It fails if the resulting grid
// can't tile the domain evenly.
func Decompose(rank, p, globalW, globalH int) (*Info, error) {
	if rank < 0 || rank >= p {
		return nil, fmt.Errorf("domain.Decompose: rank %d out of range [0,%d)", rank, p)
	}

	px := gcd(p, globalH)
	py := p / px
	if px*py != p {
		return nil, fmt.Errorf("domain.Decompose: could not factor %d processes into a 2-D grid", p)
	}
	if globalH%py != 0 {
		return nil, fmt.Errorf("domain.Decompose: height %d is not divisible by %d processes along y", globalH, py)
	}
	if globalW%px != 0 {
		return nil, fmt.Errorf("domain.Decompose: width %d is not divisible by %d processes along x", globalW, px)
	}

	rx := rank % px
	ry := rank / px

	w := globalW / px
	h := globalH / py

	info := &Info{
		Rank:    rank,
		Px:      px,
		Py:      py,
		Rx:      rx,
		Ry:      ry,
		OriginX: rx * w,
		OriginY: ry * h,
		W:       w,
		H:       h,
		GlobalW: globalW,
		GlobalH: globalH,
	}

	info.L = info.neighborRank(rx-1, ry)
	info.R = info.neighborRank(rx+1, ry)
	info.T = info.neighborRank(rx, ry-1)
	info.B = info.neighborRank(rx, ry+1)
	info.TL = info.neighborRank(rx-1, ry-1)
	info.TR = info.neighborRank(rx+1, ry-1)
	info.BL = info.neighborRank(rx-1, ry+1)
	info.BR = info.neighborRank(rx+1, ry+1)

	return info, nil
}

func (info *Info) neighborRank(rx, ry int) int {
	if rx < 0 || rx >= info.Px || ry < 0 || ry >= info.Py {
		return None
	}
	return rx + ry*info.Px
}

// IsLeftEdge reports whether this rank owns the global left column.
func (info *Info) IsLeftEdge() bool { return info.L == None }

// IsRightEdge reports whether this rank owns the global right column.
func (info *Info) IsRightEdge() bool { return info.R == None }

// IsTopEdge reports whether this rank owns the global top row.
func (info *Info) IsTopEdge() bool { return info.T == None }

// IsBottomEdge reports whether this rank owns the global bottom row.
func (info *Info) IsBottomEdge() bool { return info.B == None }
