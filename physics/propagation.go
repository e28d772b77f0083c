package physics

import (
	"github.com/lbmflow/lbmflow/lattice"
	"github.com/lbmflow/lbmflow/mesh"
)

// Propagate streams every population of every cell of src (including its
// ghost ring) one step along its direction vector into dst. Destinations
// that fall outside dst's bounds are dropped. src and dst must refer to
// different buffers; this is how neighbor contributions delivered by halo
// exchange into src's ghost ring enter dst's interior.
func Propagate(dst, src *mesh.Mesh) {
	stride, rows := src.Stride(), src.Rows()
	for y := 0; y < rows; y++ {
		for x := 0; x < stride; x++ {
			srcCell := src.At(x, y)
			for k := 0; k < lattice.Directions; k++ {
				xx := x + int(lattice.E[k][0])
				yy := y + int(lattice.E[k][1])
				if xx >= 0 && xx < stride && yy >= 0 && yy < rows {
					dst.At(xx, yy)[k] = srcCell[k]
				}
			}
		}
	}
}
