package halo

import (
	"encoding/binary"
	"math"

	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
)

const cellBytes = lattice.Directions * 8

func packCell(c *mesh.Cell) []byte {
	buf := make([]byte, cellBytes)
	for k := 0; k < lattice.Directions; k++ {
		binary.LittleEndian.PutUint64(buf[k*8:], math.Float64bits(c[k]))
	}
	return buf
}

func unpackCell(buf []byte, c *mesh.Cell) {
	for k := 0; k < lattice.Directions; k++ {
		c[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[k*8:]))
	}
}

func packCells(cells []*mesh.Cell) []byte {
	buf := make([]byte, cellBytes*len(cells))
	for i, c := range cells {
		for k := 0; k < lattice.Directions; k++ {
			binary.LittleEndian.PutUint64(buf[(i*lattice.Directions+k)*8:], math.Float64bits(c[k]))
		}
	}
	return buf
}

func unpackCells(buf []byte, cells []*mesh.Cell) {
	for i, c := range cells {
		for k := 0; k < lattice.Directions; k++ {
			c[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[(i*lattice.Directions+k)*8:]))
		}
	}
}
