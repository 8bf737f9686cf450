package motionplan

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// diamondGraph has two routes from node 0 to node 3; the route through node 2
// is strictly shorter.
func diamondGraph() *Graph {
	g := NewGraph()
	p := []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 1, Y: -0.5, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	for _, pt := range p {
		g.AddNode(pt)
	}
	connect := func(a, b int) {
		g.AddEdge(a, b, p[a].Sub(p[b]).Norm())
	}
	connect(0, 1)
	connect(1, 3)
	connect(0, 2)
	connect(2, 3)
	return g
}

func TestSearchOptimality(t *testing.T) {
	g := diamondGraph()
	path, err := Search(g, 0, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldResemble, Path{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: -0.5, Z: 0},
		{X: 2, Y: 0, Z: 0},
	})
	expected := 2 * r3.Vector{X: 1, Y: -0.5}.Norm()
	test.That(t, path.Length(), test.ShouldAlmostEqual, expected, 1e-12)
}

func TestSearchDeterminism(t *testing.T) {
	// a symmetric square where both routes cost the same; repeated searches
	// must resolve the tie identically every time
	g := NewGraph()
	p := []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 1, Y: -1, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	for _, pt := range p {
		g.AddNode(pt)
	}
	for _, e := range [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}} {
		g.AddEdge(e[0], e[1], p[e[0]].Sub(p[e[1]]).Norm())
	}

	first, err := Search(g, 0, 3)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 10; i++ {
		again, err := Search(g, 0, 3)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, again, test.ShouldResemble, first)
	}
}

func TestSearchTrivial(t *testing.T) {
	g := diamondGraph()
	path, err := Search(g, 2, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldResemble, Path{{X: 1, Y: -0.5, Z: 0}})
}

func TestSearchVertexNotFound(t *testing.T) {
	g := diamondGraph()
	_, err := Search(g, 0, 99)
	test.That(t, errors.Is(err, ErrVertexNotFound), test.ShouldBeTrue)
	_, err = Search(g, -1, 3)
	test.That(t, errors.Is(err, ErrVertexNotFound), test.ShouldBeTrue)
}

func TestSearchNoPath(t *testing.T) {
	g := diamondGraph()
	island := g.AddNode(r3.Vector{X: 50, Y: 50, Z: 50})
	_, err := Search(g, 0, island)
	test.That(t, errors.Is(err, ErrNoPath), test.ShouldBeTrue)
}
