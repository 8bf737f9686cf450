// Package environment models the obstacle field a vehicle must fly through
// and answers the collision queries every planner depends on.
package environment

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"

	"github.com/skyfield-uas/flightplan/spatialmath"
)

// Obstacle is a single axis-aligned box obstacle record, positioned in the
// local tangent-plane frame relative to the environment's geodetic home.
type Obstacle struct {
	Center   r3.Vector
	HalfSize r3.Vector
}

// Environment holds a validated, immutable obstacle collection together with
// the safety margin applied to every collision query. The expanded boxes and
// the bounding extents are computed once at construction.
type Environment struct {
	obstacles []Obstacle
	expanded  []spatialmath.AxisAlignedBox
	margin    float64
	home      *geo.Point
	homeAlt   float64
	min, max  r3.Vector
}

// New validates the given obstacle records and constructs an Environment with
// the given safety margin. Records with degenerate half sizes are rejected.
func New(obstacles []Obstacle, margin float64) (*Environment, error) {
	if margin < 0 {
		return nil, errors.Errorf("safety margin must be non-negative, got %v", margin)
	}
	env := &Environment{
		obstacles: make([]Obstacle, len(obstacles)),
		expanded:  make([]spatialmath.AxisAlignedBox, 0, len(obstacles)),
		margin:    margin,
		min:       r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		max:       r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	copy(env.obstacles, obstacles)
	for i, o := range obstacles {
		box, err := spatialmath.NewAxisAlignedBox(o.Center, o.HalfSize)
		if err != nil {
			return nil, errors.Wrapf(err, "obstacle %d", i)
		}
		env.expanded = append(env.expanded, box.Expanded(margin))
		env.min = vectorMin(env.min, box.Min())
		env.max = vectorMax(env.max, box.Max())
	}
	return env, nil
}

// SetHome records the geodetic point and altitude to which the local frame
// origin corresponds. It is optional; LocalFromGeo fails without it.
func (env *Environment) SetHome(home *geo.Point, altitude float64) {
	env.home = home
	env.homeAlt = altitude
}

// Home returns the geodetic home of the local frame, or nil if none was set.
func (env *Environment) Home() *geo.Point {
	return env.home
}

// LocalFromGeo converts a geodetic coordinate to the local frame: X northing
// and Y easting in meters from home, Z altitude above the home altitude.
func (env *Environment) LocalFromGeo(lat, lng, altitude float64) (r3.Vector, error) {
	if env.home == nil {
		return r3.Vector{}, errors.New("environment has no geodetic home set")
	}
	pt := spatialmath.GeoPointToPoint(geo.NewPoint(lat, lng), env.home)
	pt.Z = altitude - env.homeAlt
	return pt, nil
}

// Margin returns the safety margin applied to collision queries.
func (env *Environment) Margin() float64 {
	return env.margin
}

// Obstacles returns a copy of the raw obstacle records.
func (env *Environment) Obstacles() []Obstacle {
	obstacles := make([]Obstacle, len(env.obstacles))
	copy(obstacles, env.obstacles)
	return obstacles
}

// Bounds returns the minimum and maximum corners of the axis-aligned volume
// enclosing every obstacle, without the margin applied. Both are zero vectors
// for an empty environment.
func (env *Environment) Bounds() (r3.Vector, r3.Vector) {
	if len(env.obstacles) == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	return env.min, env.max
}

// IsFree reports whether pt lies outside every obstacle expanded by the
// safety margin. Points on an expanded boundary count as occupied.
func (env *Environment) IsFree(pt r3.Vector) bool {
	for _, box := range env.expanded {
		if box.ContainsPoint(pt) {
			return false
		}
	}
	return true
}

// IsSegmentFree reports whether the straight segment from a to b stays
// outside every obstacle expanded by the safety margin. The test is analytic
// (slab clipping per box), not sampled, so thin boxes cannot be stepped over.
func (env *Environment) IsSegmentFree(a, b r3.Vector) bool {
	for _, box := range env.expanded {
		if box.IntersectsSegment(a, b) {
			return false
		}
	}
	return true
}

// Summary returns a short human-readable description of the environment.
func (env *Environment) Summary() string {
	min, max := env.Bounds()
	return fmt.Sprintf("%d obstacles, margin %.1f m, extents X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]",
		len(env.obstacles), env.margin, min.X, max.X, min.Y, max.Y, min.Z, max.Z)
}

func vectorMin(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func vectorMax(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}
