package geo

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Polygon is a simple polygon in the site plane. The closing vertex is not
// repeated.
type Polygon struct {
	Vertices []Point2D `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// Rect returns the axis-aligned rectangle with corners (x0,z0) and (x1,z1),
// wound counterclockwise.
func Rect(x0, z0, x1, z1 float64) Polygon {
	return NewPolygon(Pt(x0, z0), Pt(x1, z0), Pt(x1, z1), Pt(x0, z1))
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Z
		area -= p.Vertices[j].X * p.Vertices[i].Z
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Bounds returns the axis-aligned bounding rectangle.
func (p Polygon) Bounds() r2.Rect {
	if len(p.Vertices) == 0 {
		return r2.EmptyRect()
	}
	pts := make([]r2.Point, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = v.R2()
	}
	return r2.RectFromPoints(pts...)
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	b := p.Bounds()
	return FromR2(b.Lo()), FromR2(b.Hi())
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Z > pt.Z) != (vj.Z > pt.Z) &&
			pt.X < (vj.X-vi.X)*(pt.Z-vi.Z)/(vj.Z-vi.Z)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		total += a.Distance(b)
	}
	return total
}

// IsConvex reports whether every turn of the polygon has the same sign.
// Collinear vertices are ignored.
func (p Polygon) IsConvex() bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := p.Vertices[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) < 1e-9 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// Simplify removes vertices that deviate less than tol meters from the
// outline, using Douglas-Peucker. The result keeps at least three vertices
// or returns p unchanged.
func (p Polygon) Simplify(tol float64) Polygon {
	if p.IsEmpty() || tol <= 0 {
		return p
	}
	ring := p.Ring()
	out := simplify.DouglasPeucker(tol).Ring(ring.Clone())
	if len(out) < 4 {
		return p
	}
	return PolygonFromRing(out)
}

// Ring converts p to a closed orb.Ring with X as the first coordinate and Z
// as the second.
func (p Polygon) Ring() orb.Ring {
	if len(p.Vertices) == 0 {
		return nil
	}
	r := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		r = append(r, orb.Point{v.X, v.Z})
	}
	return append(r, r[0])
}

// PolygonFromRing converts a planar orb.Ring (closed or open) into a Polygon.
func PolygonFromRing(r orb.Ring) Polygon {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	pts := make([]Point2D, n)
	for i := 0; i < n; i++ {
		pts[i] = Pt(r[i][0], r[i][1])
	}
	return Polygon{Vertices: pts}
}

// Translate returns p shifted by d.
func (p Polygon) Translate(d Point2D) Polygon {
	out := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.Add(d)
	}
	return Polygon{Vertices: out}
}
