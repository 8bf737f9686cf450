package motionplan

import (
	"context"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/skyfield-uas/flightplan/environment"
)

// PathPlanner provides an interface to the path planning methods, letting
// downstream stages such as trajectory generation stay agnostic to whether a
// path came from lattice search, roadmap search, or tree growth.
type PathPlanner interface {
	// Plan returns a collision-free path from start to goal, both given in
	// the environment's local frame.
	Plan(ctx context.Context, start, goal r3.Vector) (Path, error)
}

type latticePlanner struct {
	env    *environment.Environment
	graph  *Graph
	logger golog.Logger
}

// NewLatticePlanner builds a lattice over the given volume and returns a
// planner that snaps start and goal to their nearest free cells and searches
// the lattice with A*.
func NewLatticePlanner(
	env *environment.Environment,
	center, halfSizes r3.Vector,
	resolution float64,
	connectivity Connectivity,
	logger golog.Logger,
) (PathPlanner, error) {
	graph, err := BuildLattice(env, center, halfSizes, resolution, connectivity)
	if err != nil {
		return nil, err
	}
	logger.Debugf("lattice built with %d nodes, %d edges", graph.NumNodes(), graph.NumEdges())
	return &latticePlanner{env: env, graph: graph, logger: logger}, nil
}

func (mp *latticePlanner) Plan(ctx context.Context, start, goal r3.Vector) (Path, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	startID, ok := mp.graph.Nearest(start)
	if !ok {
		return nil, errors.New("lattice contains no free cells")
	}
	goalID, _ := mp.graph.Nearest(goal)
	return Search(mp.graph, startID, goalID)
}

type roadmapPlanner struct {
	env       *environment.Environment
	graph     *Graph
	neighbors int
	logger    golog.Logger
}

// NewRoadmapPlanner samples a probabilistic roadmap over the given volume and
// returns a planner that inserts start and goal as roadmap vertices and
// searches with A*. Roadmap sampling draws from randseed.
func NewRoadmapPlanner(
	env *environment.Environment,
	center, halfSizes r3.Vector,
	opts *RoadmapOptions,
	randseed *rand.Rand,
	logger golog.Logger,
) (PathPlanner, error) {
	if opts == nil {
		opts = NewRoadmapOptions()
	}
	graph, err := BuildRoadmap(env, center, halfSizes, opts, randseed)
	if err != nil {
		return nil, err
	}
	logger.Debugf("roadmap built with %d nodes, %d edges", graph.NumNodes(), graph.NumEdges())
	return &roadmapPlanner{env: env, graph: graph, neighbors: opts.Neighbors, logger: logger}, nil
}

func (mp *roadmapPlanner) Plan(ctx context.Context, start, goal r3.Vector) (Path, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	startID, err := ConnectWaypoint(mp.graph, mp.env, start, mp.neighbors)
	if err != nil {
		return nil, errors.Wrap(err, "connecting start")
	}
	goalID, err := ConnectWaypoint(mp.graph, mp.env, goal, mp.neighbors)
	if err != nil {
		return nil, errors.Wrap(err, "connecting goal")
	}
	return Search(mp.graph, startID, goalID)
}

type rrtPlanner struct {
	env      *environment.Environment
	opts     *RRTOptions
	randseed *rand.Rand
	logger   golog.Logger
}

// NewRRTPlanner returns a planner that grows a tree from start toward goal on
// every Plan call, drawing randomness from randseed.
func NewRRTPlanner(
	env *environment.Environment,
	opts *RRTOptions,
	randseed *rand.Rand,
	logger golog.Logger,
) PathPlanner {
	if opts == nil {
		opts = NewRRTOptions()
	}
	return &rrtPlanner{env: env, opts: opts, randseed: randseed, logger: logger}
}

func (mp *rrtPlanner) Plan(ctx context.Context, start, goal r3.Vector) (Path, error) {
	return GrowRRT(ctx, mp.env, start, goal, mp.opts, mp.randseed)
}
