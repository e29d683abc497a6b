package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point2D is a point in the local site plane, in meters. X runs across the
// lot (left to right when facing the street) and Z runs from the street toward
// the rear. Y is reserved for height in the scene graph.
type Point2D struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Pt is a shorthand constructor for Point2D.
func Pt(x, z float64) Point2D {
	return Point2D{X: x, Z: z}
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{p.X + q.X, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{p.X - q.X, p.Z - q.Z}
}

// Scale returns p * s.
func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Z * s}
}

// Length returns the Euclidean length of the vector.
func (p Point2D) Length() float64 {
	return math.Hypot(p.X, p.Z)
}

// Normalize returns the unit vector in the same direction.
// Returns zero vector if length is zero.
func (p Point2D) Normalize() Point2D {
	l := p.Length()
	if l < 1e-12 {
		return Point2D{}
	}
	return Point2D{p.X / l, p.Z / l}
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Z*q.Z
}

// Cross returns the 2D cross product (z-component of 3D cross).
func (p Point2D) Cross(q Point2D) float64 {
	return p.X*q.Z - p.Z*q.X
}

// Distance returns the Euclidean distance from p to q.
func (p Point2D) Distance(q Point2D) float64 {
	return p.Sub(q).Length()
}

// Perp returns p rotated 90 degrees counterclockwise.
func (p Point2D) Perp() Point2D {
	return Point2D{-p.Z, p.X}
}

// R2 converts p to an r2.Point for use with r2.Rect bounds.
func (p Point2D) R2() r2.Point {
	return r2.Point{X: p.X, Y: p.Z}
}

// FromR2 converts an r2.Point back to the site plane.
func FromR2(p r2.Point) Point2D {
	return Point2D{X: p.X, Z: p.Y}
}

// DistanceToSegment returns the planar distance from p to the segment a-b.
func (p Point2D) DistanceToSegment(a, b Point2D) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < 1e-12 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(d)/lenSq))
	return p.Distance(a.Add(d.Scale(t)))
}
