package mesh

// CellType tags an interior cell with the boundary operator that applies
// to it. It is set once during initialization and never changes
// thereafter.
type CellType uint8

const (
	// Fluid cells are untouched by boundary operators; only collision and
	// propagation act on them.
	Fluid CellType = iota
	// BounceBack cells reflect populations back the way they came,
	// modeling a no-slip wall or the obstacle surface.
	BounceBack
	// Inflow cells sit on the left edge of the global domain and enforce
	// a Poiseuille velocity profile via Zou/He.
	Inflow
	// Outflow cells sit on the right edge of the global domain and
	// enforce a constant density via Zou/He.
	Outflow
)

// TypeGrid is a same-shaped companion to Mesh that tags every cell
// (including ghosts, which are always Fluid and unused) with a CellType.
type TypeGrid struct {
	W, H  int
	types []CellType
}

// NewTypeGrid allocates a type grid with interior size w x h.
func NewTypeGrid(w, h int) *TypeGrid {
	return &TypeGrid{
		W:     w,
		H:     h,
		types: make([]CellType, (w+2)*(h+2)),
	}
}

func (g *TypeGrid) index(x, y int) int {
	return y*(g.W+2) + x
}

// At returns the cell type at local coordinates (x, y).
func (g *TypeGrid) At(x, y int) CellType {
	return g.types[g.index(x, y)]
}

// Set assigns the cell type at local coordinates (x, y).
func (g *TypeGrid) Set(x, y int, t CellType) {
	g.types[g.index(x, y)] = t
}
