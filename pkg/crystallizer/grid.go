package crystallizer

// DefaultMaxCrystalSize is the upper edge of the size axis in meters.
// Sucrose crystals from batch cooling rarely exceed 1 mm.
const DefaultMaxCrystalSize = 1e-3

// SizeGrid is the uniform discretization of the crystal size axis used by
// the population balance solver. Node i sits at L_i = i·Delta, with node 0
// at size zero receiving the nucleation flux.
type SizeGrid struct {
	Nodes []float64 // node positions, m
	Delta float64   // node spacing, m
}

// NewSizeGrid builds a grid of n nodes spanning [0, maxSize].
func NewSizeGrid(n int, maxSize float64) SizeGrid {
	delta := maxSize / float64(n-1)
	nodes := make([]float64, n)
	for i := range nodes {
		nodes[i] = float64(i) * delta
	}
	return SizeGrid{Nodes: nodes, Delta: delta}
}

// Len returns the number of nodes.
func (g SizeGrid) Len() int { return len(g.Nodes) }
