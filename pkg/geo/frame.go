package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Frame maps [lon, lat] coordinates onto the local site plane. Coordinates
// are first projected equirectangularly about the parcel's mean latitude,
// then rotated so the street frontage runs along +X with the lot on the +Z
// side, then shifted so the parcel's bounding box starts at the origin.
type Frame struct {
	Origin     orb.Point `json:"origin"`
	MPerDegLon float64   `json:"m_per_deg_lon"`
	MPerDegLat float64   `json:"m_per_deg_lat"`
	Rotation   float64   `json:"rotation"` // radians, counterclockwise
	Offset     Point2D   `json:"offset"`
}

// NewFrame returns a north-up frame for the ring.
func NewFrame(ring orb.Ring) Frame {
	f := baseFrame(ring)
	f.Offset = f.minCorner(ring)
	return f
}

// NewAlignedFrame returns a frame where the edge front1->front2 lies along
// the X axis and the rest of the ring has positive Z.
func NewAlignedFrame(ring orb.Ring, front1, front2 orb.Point) Frame {
	f := baseFrame(ring)
	a, b := f.project(front1), f.project(front2)
	d := b.Sub(a)
	if d.Length() < minEdge {
		f.Offset = f.minCorner(ring)
		return f
	}
	f.Rotation = math.Atan2(d.Z, d.X)

	c := f.rotate(f.project(VertexCentroid(ring)))
	if c.Z < f.rotate(a).Z {
		f.Rotation += math.Pi
	}
	f.Offset = f.minCorner(ring)
	return f
}

func baseFrame(ring orb.Ring) Frame {
	var f Frame
	if len(ring) == 0 {
		return f
	}
	bound := ring.Bound()
	f.Origin = bound.Min
	lat := VertexCentroid(ring)[1]
	f.MPerDegLat = math.Pi / 180 * EarthRadius
	f.MPerDegLon = f.MPerDegLat * math.Cos(lat*math.Pi/180)
	return f
}

func (f Frame) project(p orb.Point) Point2D {
	return Pt((p[0]-f.Origin[0])*f.MPerDegLon, (p[1]-f.Origin[1])*f.MPerDegLat)
}

// rotate applies -Rotation.
func (f Frame) rotate(p Point2D) Point2D {
	s, c := math.Sincos(-f.Rotation)
	return Pt(p.X*c-p.Z*s, p.X*s+p.Z*c)
}

func (f Frame) unrotate(p Point2D) Point2D {
	s, c := math.Sincos(f.Rotation)
	return Pt(p.X*c-p.Z*s, p.X*s+p.Z*c)
}

func (f Frame) minCorner(ring orb.Ring) Point2D {
	if len(ring) == 0 {
		return Point2D{}
	}
	minX, minZ := math.Inf(1), math.Inf(1)
	for _, p := range ring {
		q := f.rotate(f.project(p))
		minX = math.Min(minX, q.X)
		minZ = math.Min(minZ, q.Z)
	}
	return Pt(minX, minZ)
}

// ToLocal converts a [lon, lat] point to site coordinates.
func (f Frame) ToLocal(p orb.Point) Point2D {
	return f.rotate(f.project(p)).Sub(f.Offset)
}

// ToLonLat converts site coordinates back to [lon, lat].
func (f Frame) ToLonLat(p Point2D) orb.Point {
	q := f.unrotate(p.Add(f.Offset))
	if f.MPerDegLon == 0 || f.MPerDegLat == 0 {
		return f.Origin
	}
	return orb.Point{f.Origin[0] + q.X/f.MPerDegLon, f.Origin[1] + q.Z/f.MPerDegLat}
}

// Polygon converts a [lon, lat] ring to a counterclockwise site polygon.
func (f Frame) Polygon(ring orb.Ring) Polygon {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	pts := make([]Point2D, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, f.ToLocal(ring[i]))
	}
	return Polygon{Vertices: pts}.EnsureCCW()
}

// LonLatRing converts a site polygon back to a closed [lon, lat] ring.
func (f Frame) LonLatRing(p Polygon) orb.Ring {
	if p.IsEmpty() {
		return nil
	}
	r := make(orb.Ring, 0, p.Len()+1)
	for _, v := range p.Vertices {
		r = append(r, f.ToLonLat(v))
	}
	return append(r, r[0])
}

// RingArea returns the area in square meters enclosed by a [lon, lat] ring,
// using the local equirectangular projection.
func RingArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	return NewFrame(ring).Polygon(ring).Area()
}
