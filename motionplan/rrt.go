package motionplan

import (
	"context"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/skyfield-uas/flightplan/environment"
)

const (
	defaultRRTStepSize = 5.0
	// Number of tree growth iterations before giving up.
	defaultRRTPlanIter = 10000
)

// RRTOptions configures tree growth.
type RRTOptions struct {
	// StepSize is the fixed distance by which the tree is extended toward
	// each sampled point.
	StepSize float64
	// GoalTolerance is the radius around the goal within which a tree node
	// counts as having reached it.
	GoalTolerance float64
	// PlanIter is the number of growth iterations before giving up.
	PlanIter int
}

// NewRRTOptions returns RRTOptions with default values.
func NewRRTOptions() *RRTOptions {
	return &RRTOptions{
		StepSize:      defaultRRTStepSize,
		GoalTolerance: defaultRRTStepSize,
		PlanIter:      defaultRRTPlanIter,
	}
}

// treeNode is one vertex of the search tree. The parent back-reference is an
// index into the flat node arena, -1 for the root.
type treeNode struct {
	position r3.Vector
	parent   int
}

// GrowRRT grows a rapidly exploring random tree from start toward goal.
// Each iteration samples a point uniformly inside the environment's bounding
// volume (stretched to contain start and goal), steps from the nearest
// existing tree node a fixed distance toward it, and keeps the new node when
// the connecting segment is collision-free. Growth succeeds when a node
// lands within the goal tolerance; the returned path walks the parent links
// back to the root and ends exactly at goal. Exhausting the iteration limit
// returns ErrNoPath, a normal outcome of incomplete sampling rather than a
// fault. All randomness is drawn from randseed.
func GrowRRT(
	ctx context.Context,
	env *environment.Environment,
	start, goal r3.Vector,
	opts *RRTOptions,
	randseed *rand.Rand,
) (Path, error) {
	if opts == nil {
		opts = NewRRTOptions()
	}
	if opts.StepSize <= 0 {
		return nil, errors.Errorf("RRT step size must be positive, got %v", opts.StepSize)
	}
	if !env.IsFree(start) {
		return nil, errors.Errorf("start (%.1f, %.1f, %.1f) is inside an obstacle", start.X, start.Y, start.Z)
	}
	if !env.IsFree(goal) {
		return nil, errors.Errorf("goal (%.1f, %.1f, %.1f) is inside an obstacle", goal.X, goal.Y, goal.Z)
	}

	min, max := env.Bounds()
	min = vectorFloor(min, start, goal)
	max = vectorCeil(max, start, goal)
	size := max.Sub(min)

	arena := []treeNode{{position: start, parent: -1}}
	for iter := 0; iter < opts.PlanIter; iter++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		sample := r3.Vector{
			X: min.X + randseed.Float64()*size.X,
			Y: min.Y + randseed.Float64()*size.Y,
			Z: min.Z + randseed.Float64()*size.Z,
		}
		nearest := nearestTreeNode(arena, sample)
		candidate := stepToward(arena[nearest].position, sample, opts.StepSize)
		if !env.IsFree(candidate) || !env.IsSegmentFree(arena[nearest].position, candidate) {
			continue
		}
		arena = append(arena, treeNode{position: candidate, parent: nearest})
		if candidate.Sub(goal).Norm() <= opts.GoalTolerance {
			return extractTreePath(arena, len(arena)-1, goal, env), nil
		}
	}
	return nil, errors.Wrapf(ErrNoPath, "tree growth exhausted %d iterations", opts.PlanIter)
}

func nearestTreeNode(arena []treeNode, pt r3.Vector) int {
	best := 0
	bestDist := arena[0].position.Sub(pt).Norm2()
	for i := 1; i < len(arena); i++ {
		if dist := arena[i].position.Sub(pt).Norm2(); dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// stepToward returns the point at most step away from origin in the
// direction of target. A sample closer than step is returned as is.
func stepToward(origin, target r3.Vector, step float64) r3.Vector {
	delta := target.Sub(origin)
	dist := delta.Norm()
	if dist <= step {
		return target
	}
	return origin.Add(delta.Mul(step / dist))
}

// extractTreePath walks parent links from the reaching node back to the root,
// reverses the result, and appends the exact goal when the final hop is
// collision-free.
func extractTreePath(arena []treeNode, reached int, goal r3.Vector, env *environment.Environment) Path {
	var reversed []r3.Vector
	for i := reached; i >= 0; i = arena[i].parent {
		reversed = append(reversed, arena[i].position)
	}
	positions := make([]r3.Vector, 0, len(reversed)+1)
	for i := len(reversed) - 1; i >= 0; i-- {
		positions = append(positions, reversed[i])
	}
	last := positions[len(positions)-1]
	if last != goal && env.IsSegmentFree(last, goal) {
		positions = append(positions, goal)
	}
	return newPath(positions)
}

func vectorFloor(v r3.Vector, pts ...r3.Vector) r3.Vector {
	for _, pt := range pts {
		if pt.X < v.X {
			v.X = pt.X
		}
		if pt.Y < v.Y {
			v.Y = pt.Y
		}
		if pt.Z < v.Z {
			v.Z = pt.Z
		}
	}
	return v
}

func vectorCeil(v r3.Vector, pts ...r3.Vector) r3.Vector {
	for _, pt := range pts {
		if pt.X > v.X {
			v.X = pt.X
		}
		if pt.Y > v.Y {
			v.Y = pt.Y
		}
		if pt.Z > v.Z {
			v.Z = pt.Z
		}
	}
	return v
}
