// Package motionplan is a path planning library for a vehicle moving through
// a 3D field of box obstacles. It builds searchable representations of free
// space (a regular lattice or a probabilistic roadmap), grows rapidly
// exploring random trees, and finds minimum-cost waypoint paths with A*.
package motionplan

import (
	"github.com/golang/geo/r3"
)

// Path is an ordered sequence of positions from start to goal inclusive,
// with no repeated consecutive points.
type Path []r3.Vector

// Length returns the summed Euclidean length of the path's segments.
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i].Sub(p[i-1]).Norm()
	}
	return total
}

// newPath copies positions into a Path, dropping repeated consecutive points.
func newPath(positions []r3.Vector) Path {
	path := make(Path, 0, len(positions))
	for _, pt := range positions {
		if len(path) > 0 && path[len(path)-1] == pt {
			continue
		}
		path = append(path, pt)
	}
	return path
}

// Edge is a weighted connection to a neighboring graph node.
type Edge struct {
	To     int
	Weight float64
}

// Graph is an undirected free-space graph. Nodes are positions addressed by
// dense integer IDs; adjacency is kept as per-node ordered edge slices so
// iteration order, and therefore search behavior, is deterministic.
// An edge is only ever added when the straight segment between its endpoints
// has been verified collision-free.
type Graph struct {
	positions []r3.Vector
	adjacency [][]Edge
	numEdges  int
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode adds a node at the given position and returns its ID.
func (g *Graph) AddNode(position r3.Vector) int {
	g.positions = append(g.positions, position)
	g.adjacency = append(g.adjacency, nil)
	return len(g.positions) - 1
}

// AddEdge connects nodes a and b in both directions with the given weight.
func (g *Graph) AddEdge(a, b int, weight float64) {
	g.adjacency[a] = append(g.adjacency[a], Edge{To: b, Weight: weight})
	g.adjacency[b] = append(g.adjacency[b], Edge{To: a, Weight: weight})
	g.numEdges++
}

// HasNode reports whether id addresses a node in the graph.
func (g *Graph) HasNode(id int) bool {
	return id >= 0 && id < len(g.positions)
}

// Position returns the position of the node with the given ID.
func (g *Graph) Position(id int) r3.Vector {
	return g.positions[id]
}

// Neighbors returns the edges leaving the given node, in insertion order.
func (g *Graph) Neighbors(id int) []Edge {
	return g.adjacency[id]
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int {
	return len(g.positions)
}

// NumEdges returns the number of undirected edges in the graph.
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// Nearest returns the ID of the node closest to pt by Euclidean distance,
// or false if the graph is empty.
func (g *Graph) Nearest(pt r3.Vector) (int, bool) {
	if len(g.positions) == 0 {
		return 0, false
	}
	tree := newPositionTree(g.positions)
	return nearestPosition(tree, pt), true
}
