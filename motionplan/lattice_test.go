package motionplan

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/skyfield-uas/flightplan/environment"
)

func emptyEnvironment(t *testing.T) *environment.Environment {
	t.Helper()
	env, err := environment.New(nil, 0)
	test.That(t, err, test.ShouldBeNil)
	return env
}

func TestBuildLatticeEmptySpace(t *testing.T) {
	env := emptyEnvironment(t)
	center := r3.Vector{}
	halfSizes := r3.Vector{X: 10, Y: 10, Z: 10}

	face, err := BuildLattice(env, center, halfSizes, 10, ConnectivityFace)
	test.That(t, err, test.ShouldBeNil)
	// a 3x3x3 grid with 6-connectivity has 54 undirected edges
	test.That(t, face.NumNodes(), test.ShouldEqual, 27)
	test.That(t, face.NumEdges(), test.ShouldEqual, 54)

	full, err := BuildLattice(env, center, halfSizes, 10, ConnectivityFull)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, full.NumNodes(), test.ShouldEqual, 27)
	test.That(t, full.NumEdges(), test.ShouldBeGreaterThan, face.NumEdges())
}

func TestBuildLatticeValidation(t *testing.T) {
	env := emptyEnvironment(t)
	_, err := BuildLattice(env, r3.Vector{}, r3.Vector{X: 10, Y: 10, Z: 10}, 0, ConnectivityFace)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = BuildLattice(env, r3.Vector{}, r3.Vector{X: 10, Y: -1, Z: 10}, 1, ConnectivityFace)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBuildLatticeFreeCells(t *testing.T) {
	env, err := environment.New([]environment.Obstacle{
		{Center: r3.Vector{X: 0, Y: 0, Z: 0}, HalfSize: r3.Vector{X: 1.4, Y: 1.4, Z: 1.4}},
	}, 0.5)
	test.That(t, err, test.ShouldBeNil)

	g, err := BuildLattice(env, r3.Vector{}, r3.Vector{X: 5, Y: 5, Z: 5}, 5, ConnectivityFull)
	test.That(t, err, test.ShouldBeNil)

	// every retained cell is free, and every edge round-trips the segment check
	for id := 0; id < g.NumNodes(); id++ {
		test.That(t, env.IsFree(g.Position(id)), test.ShouldBeTrue)
		for _, e := range g.Neighbors(id) {
			test.That(t, env.IsSegmentFree(g.Position(id), g.Position(e.To)), test.ShouldBeTrue)
			test.That(t, env.IsSegmentFree(g.Position(e.To), g.Position(id)), test.ShouldBeTrue)
			test.That(t, e.Weight, test.ShouldAlmostEqual, g.Position(id).Sub(g.Position(e.To)).Norm(), 1e-12)
		}
	}
	// the obstacle knocked out the center cell
	test.That(t, g.NumNodes(), test.ShouldEqual, 26)
}

func TestBuildLatticeDeterminism(t *testing.T) {
	env, err := environment.New([]environment.Obstacle{
		{Center: r3.Vector{X: 3, Y: 3, Z: 3}, HalfSize: r3.Vector{X: 2, Y: 2, Z: 2}},
	}, 0.5)
	test.That(t, err, test.ShouldBeNil)

	first, err := BuildLattice(env, r3.Vector{}, r3.Vector{X: 8, Y: 8, Z: 8}, 2, ConnectivityFull)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 3; i++ {
		again, err := BuildLattice(env, r3.Vector{}, r3.Vector{X: 8, Y: 8, Z: 8}, 2, ConnectivityFull)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, again, test.ShouldResemble, first)
	}
}

// corridorEnvironment builds two floor-to-ceiling walls separated by a gap
// along the x axis, plus a pillar well away from the corridor.
func corridorEnvironment(t *testing.T, margin float64) *environment.Environment {
	t.Helper()
	env, err := environment.New([]environment.Obstacle{
		{Center: r3.Vector{X: 0, Y: -6, Z: 5}, HalfSize: r3.Vector{X: 2, Y: 4.5, Z: 6}},
		{Center: r3.Vector{X: 0, Y: 6, Z: 5}, HalfSize: r3.Vector{X: 2, Y: 4.5, Z: 6}},
		{Center: r3.Vector{X: 6, Y: -7, Z: 5}, HalfSize: r3.Vector{X: 1, Y: 1, Z: 6}},
	}, margin)
	test.That(t, err, test.ShouldBeNil)
	return env
}

func TestCorridorScenario(t *testing.T) {
	center := r3.Vector{X: 0, Y: 0, Z: 5}
	halfSizes := r3.Vector{X: 8, Y: 8, Z: 4}

	// with a small margin the corridor is passable
	env := corridorEnvironment(t, 0.4)
	g, err := BuildLattice(env, center, halfSizes, 1, ConnectivityFull)
	test.That(t, err, test.ShouldBeNil)
	start, ok := g.Nearest(r3.Vector{X: -6, Y: 0, Z: 5})
	test.That(t, ok, test.ShouldBeTrue)
	goal, _ := g.Nearest(r3.Vector{X: 6, Y: 0, Z: 5})
	path, err := Search(g, start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(path), test.ShouldBeGreaterThan, 1)

	// widening the margin past the corridor's half width seals it shut
	blocked := corridorEnvironment(t, 2)
	g, err = BuildLattice(blocked, center, halfSizes, 1, ConnectivityFull)
	test.That(t, err, test.ShouldBeNil)
	start, ok = g.Nearest(r3.Vector{X: -6, Y: 0, Z: 5})
	test.That(t, ok, test.ShouldBeTrue)
	goal, _ = g.Nearest(r3.Vector{X: 6, Y: 0, Z: 5})
	_, err = Search(g, start, goal)
	test.That(t, errors.Is(err, ErrNoPath), test.ShouldBeTrue)
}

func TestParseConnectivity(t *testing.T) {
	conn, err := ParseConnectivity("full")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conn, test.ShouldEqual, ConnectivityFull)

	conn, err = ParseConnectivity("partial")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conn, test.ShouldEqual, ConnectivityFace)

	_, err = ParseConnectivity("both")
	test.That(t, err, test.ShouldNotBeNil)
}
