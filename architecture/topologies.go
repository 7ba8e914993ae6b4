package architecture

import "github.com/quivercomp/quiver/unitid"

// Built-in topologies. Each keeps its nodes in a canonical order so
// that index-based qubit placement is stable.

// FullyConnectedNodes is the canonical node order of FullyConnected.
func FullyConnectedNodes(n int) []unitid.UnitID {
	nodes := make([]unitid.UnitID, n)
	for i := range nodes {
		nodes[i] = unitid.New("fcNode", i)
	}
	return nodes
}

// FullyConnected builds the complete graph on n nodes.
func FullyConnected(n int) *Architecture {
	nodes := FullyConnectedNodes(n)
	var links [][2]unitid.UnitID
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			links = append(links, [2]unitid.UnitID{nodes[i], nodes[j]})
		}
	}
	a, err := New(nodes, links)
	if err != nil {
		panic(err)
	}
	return a
}

// RingArchNodes is the canonical node order of RingArch.
func RingArchNodes(n int) []unitid.UnitID {
	nodes := make([]unitid.UnitID, n)
	for i := range nodes {
		nodes[i] = unitid.New("ringNode", i)
	}
	return nodes
}

// RingArch builds the n-cycle.
func RingArch(n int) *Architecture {
	nodes := RingArchNodes(n)
	var links [][2]unitid.UnitID
	switch {
	case n == 2:
		links = append(links, [2]unitid.UnitID{nodes[0], nodes[1]})
	case n >= 3:
		for i := 0; i < n; i++ {
			links = append(links, [2]unitid.UnitID{nodes[i], nodes[(i+1)%n]})
		}
	}
	a, err := New(nodes, links)
	if err != nil {
		panic(err)
	}
	return a
}

// SquareGrid is a rows x cols grid, optionally stacked in layers, with
// nearest-neighbor couplings within a layer and vertical couplings
// between adjacent layers.
type SquareGrid struct {
	*Architecture
	rows, cols, layers int
}

// SquareGridNodes is the canonical node order of NewSquareGrid: layer
// major, then row, then column.
func SquareGridNodes(rows, cols, layers int) []unitid.UnitID {
	nodes := make([]unitid.UnitID, 0, rows*cols*layers)
	for l := 0; l < layers; l++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				nodes = append(nodes, unitid.New("gridNode", r, c, l))
			}
		}
	}
	return nodes
}

func NewSquareGrid(rows, cols, layers int) *SquareGrid {
	g := &SquareGrid{rows: rows, cols: cols, layers: layers}
	nodes := SquareGridNodes(rows, cols, layers)
	var links [][2]unitid.UnitID
	at := func(r, c, l int) unitid.UnitID {
		return nodes[g.SquindToQind(r, c, l)]
	}
	for l := 0; l < layers; l++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					links = append(links, [2]unitid.UnitID{at(r, c, l), at(r, c+1, l)})
				}
				if r+1 < rows {
					links = append(links, [2]unitid.UnitID{at(r, c, l), at(r+1, c, l)})
				}
				if l+1 < layers {
					links = append(links, [2]unitid.UnitID{at(r, c, l), at(r, c, l+1)})
				}
			}
		}
	}
	a, err := New(nodes, links)
	if err != nil {
		panic(err)
	}
	g.Architecture = a
	return g
}

func (g *SquareGrid) Rows() int   { return g.rows }
func (g *SquareGrid) Cols() int   { return g.cols }
func (g *SquareGrid) Layers() int { return g.layers }

// SquindToQind converts grid coordinates to the canonical node index.
func (g *SquareGrid) SquindToQind(row, col, layer int) int {
	return row*g.cols + col + layer*g.rows*g.cols
}

// QindToSquind converts a node index back to its in-layer coordinates.
func (g *SquareGrid) QindToSquind(q int) (row, col int) {
	q %= g.rows * g.cols
	col = q % g.cols
	row = (q - col) / g.cols
	return row, col
}
