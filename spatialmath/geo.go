package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
)

// GetCartesianDistance calculates the latitude and longitude displacement
// between p and q in meters. This is an approximation since we are projecting
// points on a spheroid onto a plane; the closer the points, the more accurate
// the approximation.
func GetCartesianDistance(p, q *geo.Point) (float64, float64) {
	mod := geo.NewPoint(p.Lat(), q.Lng())
	// Haversine distance between two points in kilometers, converted to meters.
	distAlongLat := 1e3 * p.GreatCircleDistance(mod)
	distAlongLng := 1e3 * q.GreatCircleDistance(mod)
	return distAlongLat, distAlongLng
}

// GeoPointToPoint returns the local tangent-plane offset, in meters, which
// translates origin to point. X is the northing and Y the easting of the
// offset; Z is always zero since geodetic points carry no altitude. Because
// the projection from spheroid to plane is nonlinear, the result is
// linearized about the origin point.
func GeoPointToPoint(point, origin *geo.Point) r3.Vector {
	latDist, lngDist := GetCartesianDistance(origin, point)
	azimuth := origin.BearingTo(point)

	switch {
	case azimuth >= 0 && azimuth <= 90:
		return r3.Vector{X: latDist, Y: lngDist, Z: 0}
	case azimuth > 90 && azimuth <= 180:
		return r3.Vector{X: -latDist, Y: lngDist, Z: 0}
	case azimuth >= -90 && azimuth < 0:
		return r3.Vector{X: latDist, Y: -lngDist, Z: 0}
	default:
		return r3.Vector{X: -latDist, Y: -lngDist, Z: 0}
	}
}

// PointToGeoPoint is the inverse of GeoPointToPoint: it returns the geodetic
// point reached by travelling the given local offset (meters, X north, Y east)
// from origin. The Z component of the offset is ignored.
func PointToGeoPoint(pt r3.Vector, origin *geo.Point) *geo.Point {
	distKm := math.Hypot(pt.X, pt.Y) / 1e3
	if distKm == 0 {
		return geo.NewPoint(origin.Lat(), origin.Lng())
	}
	bearing := math.Atan2(pt.Y, pt.X) * 180 / math.Pi
	return origin.PointAtDistanceAndBearing(distKm, bearing)
}
