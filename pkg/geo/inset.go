package geo

import "math"

// minEdge is the shortest edge kept when cleaning polygons before an inset.
const minEdge = 1e-6

// Inset shrinks the polygon inward by d meters on every edge.
//
// Convex polygons are intersected with each edge's shifted half-plane, which
// is exact. Concave polygons use mitered edge offsets; if any offset edge
// flips direction the inset has collapsed somewhere and an empty polygon is
// returned. An empty result means the caller must relax or fall back.
func (p Polygon) Inset(d float64) Polygon {
	clean := dedupe(p)
	if clean.IsEmpty() {
		return Polygon{}
	}
	if d <= 0 {
		return clean
	}
	ccw := clean.EnsureCCW()
	if ccw.IsConvex() {
		return insetConvex(ccw, d)
	}
	return insetMiter(ccw, d)
}

func insetConvex(p Polygon, d float64) Polygon {
	out := p
	for i := 0; i < p.Len(); i++ {
		a, b := p.Edge(i)
		n := b.Sub(a).Normalize().Perp().Scale(d)
		out = clipHalfPlane(out, a.Add(n), b.Add(n))
		if out.IsEmpty() {
			return Polygon{}
		}
	}
	if out.Area() < minEdge {
		return Polygon{}
	}
	return out
}

func insetMiter(p Polygon, d float64) Polygon {
	n := p.Len()
	type line struct{ a, b Point2D }
	lines := make([]line, n)
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		off := b.Sub(a).Normalize().Perp().Scale(d)
		lines[i] = line{a.Add(off), b.Add(off)}
	}

	out := make([]Point2D, n)
	for i := 0; i < n; i++ {
		prev := lines[(i+n-1)%n]
		cur := lines[i]
		if ix, ok := lineIntersection(prev.a, prev.b, cur.a, cur.b); ok {
			out[i] = ix
		} else {
			// Collinear neighbours: the shifted vertex is the start of cur.
			out[i] = cur.a
		}
	}

	res := Polygon{Vertices: out}
	for i := 0; i < n; i++ {
		oa, ob := p.Edge(i)
		ra, rb := res.Edge(i)
		if ob.Sub(oa).Dot(rb.Sub(ra)) <= 0 {
			return Polygon{}
		}
	}
	if res.SignedArea() <= minEdge {
		return Polygon{}
	}
	return res
}

// dedupe drops consecutive duplicate vertices and a repeated closing vertex.
func dedupe(p Polygon) Polygon {
	out := make([]Point2D, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		if len(out) > 0 && v.Distance(out[len(out)-1]) < minEdge {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].Distance(out[len(out)-1]) < minEdge {
		out = out[:len(out)-1]
	}
	return Polygon{Vertices: out}
}

// InsetRect is the axis-aligned rectangle left after insetting the box
// [x0,x1]x[z0,z1] by the given amounts. Sizes are clamped at zero.
func InsetRect(x0, z0, x1, z1, left, front, right, rear float64) (Point2D, float64, float64) {
	w := math.Max(0, (x1-x0)-left-right)
	h := math.Max(0, (z1-z0)-front-rear)
	return Pt(x0+left, z0+front), w, h
}
