package geo

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// EarthRadius is the mean earth radius in meters used for all geodesic
// lengths. orb works with the WGS84 equatorial radius, so its results are
// rescaled.
const EarthRadius = 6371000.0

// EdgeLength returns the great-circle (haversine) distance in meters between
// two [lon, lat] points.
func EdgeLength(p1, p2 orb.Point) float64 {
	return orbgeo.DistanceHaversine(p1, p2) * EarthRadius / orb.EarthRadius
}

// Bearing returns the initial bearing from one point to another in degrees,
// normalized to [0, 360).
func Bearing(from, to orb.Point) float64 {
	b := math.Mod(orbgeo.Bearing(from, to)+360, 360)
	if b >= 360 {
		b -= 360
	}
	return b
}

// Cardinal maps a bearing in degrees to one of N, NE, E, SE, S, SW, W, NW.
func Cardinal(bearing float64) string {
	b := math.Mod(math.Mod(bearing, 360)+360, 360)
	switch {
	case b >= 337.5 || b < 22.5:
		return "N"
	case b < 67.5:
		return "NE"
	case b < 112.5:
		return "E"
	case b < 157.5:
		return "SE"
	case b < 202.5:
		return "S"
	case b < 247.5:
		return "SW"
	case b < 292.5:
		return "W"
	default:
		return "NW"
	}
}

// VertexCentroid returns the arithmetic mean of the ring's distinct vertices.
// It is not the area centroid; for irregular rings the two differ.
func VertexCentroid(ring orb.Ring) orb.Point {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n <= 0 {
		return orb.Point{}
	}
	var lon, lat float64
	for i := 0; i < n; i++ {
		lon += ring[i][0]
		lat += ring[i][1]
	}
	return orb.Point{lon / float64(n), lat / float64(n)}
}

// PointToSegmentDistance returns the distance in meters from p to the segment
// a-b. The projection parameter is computed in angular space and clamped to
// the segment; the distance to the projected point is haversine.
func PointToSegmentDistance(p, a, b orb.Point) float64 {
	d := r2.Point{X: b[0] - a[0], Y: b[1] - a[1]}
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return 0
	}
	v := r2.Point{X: p[0] - a[0], Y: p[1] - a[1]}
	t := math.Max(0, math.Min(1, v.Dot(d)/lenSq))
	closest := orb.Point{a[0] + t*d.X, a[1] + t*d.Y}
	return EdgeLength(p, closest)
}

// AngleBetween returns the angle in degrees in [0, 180] between the
// direction vectors of edge a1->a2 and edge b1->b2. A zero-length edge
// yields 0. The angle comes from atan2 of the cross and dot products, so
// nearly parallel edges keep their precision.
func AngleBetween(a1, a2, b1, b2 orb.Point) float64 {
	u := r3.Vector{X: a2[0] - a1[0], Y: a2[1] - a1[1]}
	v := r3.Vector{X: b2[0] - b1[0], Y: b2[1] - b1[1]}
	if u.Norm() == 0 || v.Norm() == 0 {
		return 0
	}
	return u.Angle(v).Degrees()
}

// CornerAngle folds AngleBetween into [0, 90] so that a corner reads the
// same regardless of edge direction.
func CornerAngle(a1, a2, b1, b2 orb.Point) float64 {
	deg := AngleBetween(a1, a2, b1, b2)
	return math.Min(deg, 180-deg)
}
