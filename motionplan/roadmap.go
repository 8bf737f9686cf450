package motionplan

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/skyfield-uas/flightplan/environment"
)

// Multiple of the target sample count allowed as rejection-sampling attempts
// before roadmap construction reports failure.
const sampleRetryMultiple = 100

// RoadmapOptions configures probabilistic roadmap construction.
type RoadmapOptions struct {
	// Count is the absolute number of free samples to place. If zero,
	// Density is used instead.
	Count int
	// Density is the target number of samples per unit volume, used when
	// Count is zero.
	Density float64
	// Neighbors is the budget of nearest neighbors each sample may connect to.
	Neighbors int
}

// NewRoadmapOptions returns RoadmapOptions with the default neighbor budget.
func NewRoadmapOptions() *RoadmapOptions {
	return &RoadmapOptions{Neighbors: 5}
}

func (opts *RoadmapOptions) targetCount(halfSizes r3.Vector) (int, error) {
	if opts.Count > 0 {
		return opts.Count, nil
	}
	if opts.Density <= 0 {
		return 0, errors.New("roadmap requires a positive sample count or density")
	}
	volume := 8 * halfSizes.X * halfSizes.Y * halfSizes.Z
	count := int(math.Ceil(opts.Density * volume))
	if count < 2 {
		count = 2
	}
	return count, nil
}

// BuildRoadmap samples free points uniformly at random inside the volume
// spanned by center±halfSizes until the target count is reached, then
// connects each sample to its nearest free neighbors wherever the connecting
// segment is collision-free. Sampling draws exclusively from randseed so a
// fixed seed reproduces the roadmap exactly. If the rejection-sampling retry
// budget runs out before the target count is met, for instance in a volume
// that is almost fully occluded, ErrSamplingExhausted is returned rather
// than a silently undersized roadmap.
func BuildRoadmap(
	env *environment.Environment,
	center, halfSizes r3.Vector,
	opts *RoadmapOptions,
	randseed *rand.Rand,
) (*Graph, error) {
	if opts == nil {
		opts = NewRoadmapOptions()
	}
	if opts.Neighbors <= 0 {
		return nil, errors.Errorf("roadmap neighbor budget must be positive, got %d", opts.Neighbors)
	}
	target, err := opts.targetCount(halfSizes)
	if err != nil {
		return nil, err
	}

	min := center.Sub(halfSizes)
	size := halfSizes.Mul(2)
	samples := make([]r3.Vector, 0, target)
	for attempts := 0; len(samples) < target; attempts++ {
		if attempts >= sampleRetryMultiple*target {
			return nil, errors.Wrapf(ErrSamplingExhausted,
				"placed %d of %d samples after %d attempts", len(samples), target, attempts)
		}
		pt := r3.Vector{
			X: min.X + randseed.Float64()*size.X,
			Y: min.Y + randseed.Float64()*size.Y,
			Z: min.Z + randseed.Float64()*size.Z,
		}
		if env.IsFree(pt) {
			samples = append(samples, pt)
		}
	}

	graph := NewGraph()
	for _, pt := range samples {
		graph.AddNode(pt)
	}
	tree := newPositionTree(samples)
	for id, pt := range samples {
		for _, neighborID := range kNearestPositions(tree, pt, opts.Neighbors, id) {
			// Neighbor pairs come up twice, once from each side.
			if neighborID <= id {
				continue
			}
			neighborPt := samples[neighborID]
			if env.IsSegmentFree(pt, neighborPt) {
				graph.AddEdge(id, neighborID, pt.Sub(neighborPt).Norm())
			}
		}
	}
	return graph, nil
}

// ConnectWaypoint inserts pt as a new roadmap vertex and wires it to its k
// nearest existing vertices under the same collision-check rule used during
// construction, returning the new vertex ID. This is how start and goal
// positions join a roadmap before search.
func ConnectWaypoint(graph *Graph, env *environment.Environment, pt r3.Vector, k int) (int, error) {
	if !env.IsFree(pt) {
		return 0, errors.Errorf("waypoint (%.1f, %.1f, %.1f) is inside an obstacle", pt.X, pt.Y, pt.Z)
	}
	if graph.NumNodes() == 0 {
		return 0, errors.New("cannot connect a waypoint to an empty roadmap")
	}
	tree := newPositionTree(graph.positions)
	id := graph.AddNode(pt)
	for _, neighborID := range kNearestPositions(tree, pt, k, -1) {
		neighborPt := graph.Position(neighborID)
		if env.IsSegmentFree(pt, neighborPt) {
			graph.AddEdge(id, neighborID, pt.Sub(neighborPt).Norm())
		}
	}
	return id, nil
}
