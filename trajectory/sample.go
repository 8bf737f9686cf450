package trajectory

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// MotionSample is one row of the sampled motion profile.
type MotionSample struct {
	T            float64
	Position     r3.Vector
	Velocity     r3.Vector
	Acceleration r3.Vector
	Jerk         r3.Vector
	Snap         r3.Vector
}

// Sample evaluates the fitted trajectory at a fixed time step from zero
// through the total duration inclusive. Sampling is stateless: the same
// segments and dt always produce the same profile, and the final sample
// lands exactly on the total duration even when it is not a multiple of dt.
func Sample(segments []Segment, dt float64) ([]MotionSample, error) {
	if len(segments) == 0 {
		return nil, errors.New("no trajectory segments to sample")
	}
	if dt <= 0 {
		return nil, errors.Errorf("sampling interval must be positive, got %v", dt)
	}
	total := TotalDuration(segments)
	samples := make([]MotionSample, 0, int(total/dt)+2)

	segment := 0
	elapsed := 0.0 // summed durations of segments before the current one
	for step := 0; ; step++ {
		t := float64(step) * dt
		if t > total {
			break
		}
		for segment < len(segments)-1 && t > elapsed+segments[segment].Duration {
			elapsed += segments[segment].Duration
			segment++
		}
		samples = append(samples, sampleAt(&segments[segment], t, t-elapsed))
	}
	if last := samples[len(samples)-1].T; total-last > 1e-9 {
		final := &segments[len(segments)-1]
		samples = append(samples, sampleAt(final, total, final.Duration))
	}
	return samples, nil
}

func sampleAt(s *Segment, t, local float64) MotionSample {
	pos, vel, acc, jerk, snap := s.At(local)
	return MotionSample{T: t, Position: pos, Velocity: vel, Acceleration: acc, Jerk: jerk, Snap: snap}
}
