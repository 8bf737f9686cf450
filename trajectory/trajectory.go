// Package trajectory converts an ordered waypoint path into a smooth,
// time-parameterized motion profile. Each path segment carries one degree-7
// polynomial per axis, fitted so position meets every waypoint exactly, the
// trajectory starts and ends at rest, and derivatives stay continuous across
// interior waypoints through snap.
package trajectory

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// polyDegree is the per-segment polynomial degree; 8 coefficients give
	// enough freedom to pin positions, clamp the endpoints, and hold
	// derivative continuity through order 6 at interior waypoints.
	polyDegree = 7
	numCoeffs  = polyDegree + 1

	// minSegmentDuration is the floor applied during time allocation so
	// coincident waypoints cannot produce a degenerate zero-duration
	// segment and an unsolvable system.
	minSegmentDuration = 0.1
)

// Segment is one piece of a fitted trajectory: the waypoints it spans, its
// duration, and the per-axis polynomial coefficients in ascending powers of
// segment-local time t ∈ [0, Duration].
type Segment struct {
	Start        r3.Vector
	End          r3.Vector
	Duration     float64
	Coefficients [3][numCoeffs]float64
}

// AllocateTime assigns each segment a duration of segment length divided by
// the target average speed, floored at minSegmentDuration.
func AllocateTime(waypoints []r3.Vector, averageSpeed float64) ([]float64, error) {
	if len(waypoints) < 2 {
		return nil, errors.Errorf("trajectory needs at least 2 waypoints, got %d", len(waypoints))
	}
	if averageSpeed <= 0 {
		return nil, errors.Errorf("average speed must be positive, got %v", averageSpeed)
	}
	durations := make([]float64, len(waypoints)-1)
	for i := range durations {
		d := waypoints[i+1].Sub(waypoints[i]).Norm() / averageSpeed
		if d < minSegmentDuration {
			d = minSegmentDuration
		}
		durations[i] = d
	}
	return durations, nil
}

// Fit computes a piecewise degree-7 polynomial trajectory through the given
// waypoints with segment durations allocated from the target average speed.
// For each axis independently it solves one dense linear system whose
// constraints are: position pinned at both ends of every segment, zero
// velocity, acceleration, and jerk at the trajectory start and end, and
// continuity of derivative orders 1 through 6 at every interior waypoint.
// With N segments that is exactly 8N equations for 8N coefficients.
func Fit(waypoints []r3.Vector, averageSpeed float64) ([]Segment, error) {
	durations, err := AllocateTime(waypoints, averageSpeed)
	if err != nil {
		return nil, err
	}
	n := len(durations)
	segments := make([]Segment, n)
	for i := range segments {
		segments[i] = Segment{Start: waypoints[i], End: waypoints[i+1], Duration: durations[i]}
	}

	for axis := 0; axis < 3; axis++ {
		coords := make([]float64, len(waypoints))
		for i, wp := range waypoints {
			coords[i] = axisValue(wp, axis)
		}
		coeffs, err := solveAxis(coords, durations)
		if err != nil {
			return nil, errors.Wrapf(err, "fitting axis %d", axis)
		}
		for i := range segments {
			copy(segments[i].Coefficients[axis][:], coeffs[i*numCoeffs:(i+1)*numCoeffs])
		}
	}
	return segments, nil
}

// solveAxis builds and solves the 8N×8N constraint system for one axis.
// Unknown 8i+j is the coefficient of t^j on segment i.
func solveAxis(coords, durations []float64) ([]float64, error) {
	n := len(durations)
	dim := numCoeffs * n
	a := mat.NewDense(dim, dim, nil)
	b := mat.NewVecDense(dim, nil)
	row := 0

	// Position at the head and tail of every segment.
	for i := 0; i < n; i++ {
		a.Set(row, i*numCoeffs, 1)
		b.SetVec(row, coords[i])
		row++
		for j := 0; j < numCoeffs; j++ {
			a.Set(row, i*numCoeffs+j, math.Pow(durations[i], float64(j)))
		}
		b.SetVec(row, coords[i+1])
		row++
	}

	// Rest at the start: velocity, acceleration, jerk all zero at t=0 of
	// the first segment.
	for order := 1; order <= 3; order++ {
		a.Set(row, order, fallingFactorial(order, order))
		row++
	}

	// Rest at the end of the final segment.
	tail := durations[n-1]
	for order := 1; order <= 3; order++ {
		for j := order; j < numCoeffs; j++ {
			a.Set(row, (n-1)*numCoeffs+j, fallingFactorial(j, order)*math.Pow(tail, float64(j-order)))
		}
		row++
	}

	// Continuity of derivative orders 1..6 at each interior waypoint: the
	// left segment evaluated at its full duration minus the right segment
	// at zero.
	for i := 1; i < n; i++ {
		left := durations[i-1]
		for order := 1; order <= 6; order++ {
			for j := order; j < numCoeffs; j++ {
				a.Set(row, (i-1)*numCoeffs+j, fallingFactorial(j, order)*math.Pow(left, float64(j-order)))
			}
			a.Set(row, i*numCoeffs+order, -fallingFactorial(order, order))
			row++
		}
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, errors.Wrap(err, "polynomial constraint system is singular")
	}
	return x.RawVector().Data, nil
}

// fallingFactorial returns j·(j−1)···(j−order+1), the factor produced by
// differentiating t^j order times.
func fallingFactorial(j, order int) float64 {
	result := 1.0
	for k := 0; k < order; k++ {
		result *= float64(j - k)
	}
	return result
}

// Derivative evaluates the polynomial derivative of the given order on one
// axis at segment-local time t. Order 0 is position.
func (s *Segment) Derivative(axis, order int, t float64) float64 {
	var value float64
	for j := order; j < numCoeffs; j++ {
		value += s.Coefficients[axis][j] * fallingFactorial(j, order) * math.Pow(t, float64(j-order))
	}
	return value
}

// At evaluates the segment's position and its first four derivatives at
// segment-local time t.
func (s *Segment) At(t float64) (pos, vel, acc, jerk, snap r3.Vector) {
	out := [5]r3.Vector{}
	for order := 0; order <= 4; order++ {
		out[order] = r3.Vector{
			X: s.Derivative(0, order, t),
			Y: s.Derivative(1, order, t),
			Z: s.Derivative(2, order, t),
		}
	}
	return out[0], out[1], out[2], out[3], out[4]
}

// TotalDuration returns the summed duration of the segments.
func TotalDuration(segments []Segment) float64 {
	var total float64
	for _, s := range segments {
		total += s.Duration
	}
	return total
}

func axisValue(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
