// Package spatialmath provides the geometric primitives used by the planning
// and trajectory packages: axis-aligned boxes and geodetic conversions.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// AxisAlignedBox is a 3D rectangular prism whose faces are normal to the
// coordinate axes, fully defined by a center point and per-axis half sizes.
type AxisAlignedBox struct {
	center   r3.Vector
	halfSize r3.Vector
}

// NewAxisAlignedBox instantiates a new AxisAlignedBox. Zero or negative
// half sizes describe a degenerate volume and are rejected.
func NewAxisAlignedBox(center, halfSize r3.Vector) (AxisAlignedBox, error) {
	if halfSize.X <= 0 || halfSize.Y <= 0 || halfSize.Z <= 0 {
		return AxisAlignedBox{}, errors.Errorf(
			"box half sizes must be positive, got (%v, %v, %v)", halfSize.X, halfSize.Y, halfSize.Z)
	}
	return AxisAlignedBox{center: center, halfSize: halfSize}, nil
}

// Center returns the center point of the box.
func (b AxisAlignedBox) Center() r3.Vector {
	return b.center
}

// HalfSize returns the per-axis half sizes of the box.
func (b AxisAlignedBox) HalfSize() r3.Vector {
	return b.halfSize
}

// Min returns the corner of the box with the smallest coordinate on every axis.
func (b AxisAlignedBox) Min() r3.Vector {
	return b.center.Sub(b.halfSize)
}

// Max returns the corner of the box with the largest coordinate on every axis.
func (b AxisAlignedBox) Max() r3.Vector {
	return b.center.Add(b.halfSize)
}

// Expanded returns a copy of the box grown by margin on all three axes.
func (b AxisAlignedBox) Expanded(margin float64) AxisAlignedBox {
	return AxisAlignedBox{
		center:   b.center,
		halfSize: b.halfSize.Add(r3.Vector{X: margin, Y: margin, Z: margin}),
	}
}

// ContainsPoint reports whether pt lies inside or on the boundary of the box.
func (b AxisAlignedBox) ContainsPoint(pt r3.Vector) bool {
	d := pt.Sub(b.center)
	return math.Abs(d.X) <= b.halfSize.X &&
		math.Abs(d.Y) <= b.halfSize.Y &&
		math.Abs(d.Z) <= b.halfSize.Z
}

// IntersectsSegment reports whether the straight segment from a to c passes
// through the box. This is the slab method: the segment is clipped against
// the three pairs of parallel planes bounding the box, and an intersection
// exists iff the clipped parameter interval within [0,1] is nonempty.
func (b AxisAlignedBox) IntersectsSegment(a, c r3.Vector) bool {
	d := c.Sub(a)
	o := a.Sub(b.center)
	tMin, tMax := 0.0, 1.0
	for axis := 0; axis < 3; axis++ {
		var origin, dir, half float64
		switch axis {
		case 0:
			origin, dir, half = o.X, d.X, b.halfSize.X
		case 1:
			origin, dir, half = o.Y, d.Y, b.halfSize.Y
		default:
			origin, dir, half = o.Z, d.Z, b.halfSize.Z
		}
		if dir == 0 {
			// Segment runs parallel to this slab; either always inside it or never.
			if math.Abs(origin) > half {
				return false
			}
			continue
		}
		t1 := (-half - origin) / dir
		t2 := (half - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

// String returns a human readable string that represents the box.
func (b AxisAlignedBox) String() string {
	return fmt.Sprintf("Box | Center: X:%.1f, Y:%.1f, Z:%.1f | HalfSize: X:%.1f, Y:%.1f, Z:%.1f",
		b.center.X, b.center.Y, b.center.Z, b.halfSize.X, b.halfSize.Y, b.halfSize.Z)
}
