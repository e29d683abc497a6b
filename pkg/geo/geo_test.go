package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// metersToLonLat builds a ring from local meter offsets around a fixed
// Vancouver-area origin.
func metersToLonLat(pts ...Point2D) orb.Ring {
	const lon0, lat0 = -123.1, 49.25
	mLat := math.Pi / 180 * EarthRadius
	mLon := mLat * math.Cos(lat0*math.Pi/180)
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, orb.Point{lon0 + p.X/mLon, lat0 + p.Z/mLat})
	}
	return append(r, r[0])
}

// --- Point2D tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
}

func TestPointPerp(t *testing.T) {
	r := Pt(1, 0).Perp()
	if !approxEqual(r.X, 0, tolerance) || !approxEqual(r.Z, 1, tolerance) {
		t.Errorf("expected (0,1), got (%f,%f)", r.X, r.Z)
	}
}

func TestPointNormalize(t *testing.T) {
	n := Pt(3, 4).Normalize()
	if !approxEqual(n.Length(), 1.0, tolerance) {
		t.Errorf("expected unit length, got %f", n.Length())
	}
	if z := Pt(0, 0).Normalize(); z.X != 0 || z.Z != 0 {
		t.Errorf("expected zero vector, got %v", z)
	}
}

func TestDistanceToSegment(t *testing.T) {
	p := Pt(5, 3)
	if d := p.DistanceToSegment(Pt(0, 0), Pt(10, 0)); !approxEqual(d, 3, tolerance) {
		t.Errorf("expected 3, got %f", d)
	}
	// Beyond the end clamps to the endpoint.
	if d := Pt(13, 4).DistanceToSegment(Pt(0, 0), Pt(10, 0)); !approxEqual(d, 5, tolerance) {
		t.Errorf("expected 5, got %f", d)
	}
}

// --- Polygon tests ---

func TestPolygonArea(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	if !approxEqual(sq.Area(), 100, tolerance) {
		t.Errorf("expected area 100, got %f", sq.Area())
	}
	if sq.SignedArea() <= 0 {
		t.Errorf("expected Rect to be counterclockwise, signed area %f", sq.SignedArea())
	}
	if rev := sq.Reverse(); rev.SignedArea() >= 0 {
		t.Errorf("expected reversed rect to be clockwise")
	}
	if sq.Reverse().EnsureCCW().SignedArea() <= 0 {
		t.Errorf("EnsureCCW did not restore counterclockwise order")
	}
}

func TestPolygonContains(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	if !sq.Contains(Pt(5, 5)) {
		t.Error("expected (5,5) inside")
	}
	if sq.Contains(Pt(15, 5)) {
		t.Error("expected (15,5) outside")
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	tri := NewPolygon(Pt(1, 2), Pt(7, 3), Pt(4, 9))
	lo, hi := tri.BoundingBox()
	if lo.X != 1 || lo.Z != 2 || hi.X != 7 || hi.Z != 9 {
		t.Errorf("unexpected bounds %v %v", lo, hi)
	}
	if w := tri.Bounds().Size().X; !approxEqual(w, 6, tolerance) {
		t.Errorf("expected width 6, got %f", w)
	}
}

func TestPolygonConvexity(t *testing.T) {
	if !Rect(0, 0, 4, 4).IsConvex() {
		t.Error("rectangle should be convex")
	}
	l := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 4), Pt(4, 4), Pt(4, 10), Pt(0, 10))
	if l.IsConvex() {
		t.Error("L shape should be concave")
	}
}

func TestPolygonSimplify(t *testing.T) {
	// A nearly collinear midpoint on the bottom edge is dropped.
	p := NewPolygon(Pt(0, 0), Pt(5, 0.01), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	s := p.Simplify(0.1)
	if s.Len() != 4 {
		t.Errorf("expected 4 vertices after simplify, got %d", s.Len())
	}
	if !approxEqual(s.Area(), 100, 0.1) {
		t.Errorf("expected area ~100, got %f", s.Area())
	}
}

func TestPolygonRingRoundTrip(t *testing.T) {
	p := Rect(0, 0, 3, 2)
	r := p.Ring()
	if len(r) != 5 || r[0] != r[4] {
		t.Fatalf("expected closed ring of 5 points, got %v", r)
	}
	back := PolygonFromRing(r)
	if back.Len() != 4 || !approxEqual(back.Area(), 6, tolerance) {
		t.Errorf("round trip lost geometry: %v", back)
	}
}

// --- Clip and inset tests ---

func TestClipToConvex(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(5, 5, 15, 15)
	out := ClipToConvex(a, b)
	if !approxEqual(out.Area(), 25, tolerance) {
		t.Errorf("expected overlap area 25, got %f", out.Area())
	}
	if !ClipToConvex(a, Rect(20, 20, 30, 30)).IsEmpty() {
		t.Error("expected empty intersection for disjoint rects")
	}
}

func TestInsetRectangle(t *testing.T) {
	p := Rect(0, 0, 15, 30)
	in := p.Inset(1.2)
	lo, hi := in.BoundingBox()
	if !approxEqual(lo.X, 1.2, tolerance) || !approxEqual(lo.Z, 1.2, tolerance) {
		t.Errorf("unexpected inset min %v", lo)
	}
	if !approxEqual(hi.X, 13.8, tolerance) || !approxEqual(hi.Z, 28.8, tolerance) {
		t.Errorf("unexpected inset max %v", hi)
	}
	if !approxEqual(in.Area(), 12.6*27.6, 0.1) {
		t.Errorf("expected area %f, got %f", 12.6*27.6, in.Area())
	}
}

func TestInsetClockwiseInput(t *testing.T) {
	in := Rect(0, 0, 10, 10).Reverse().Inset(1)
	if !approxEqual(in.Area(), 64, 0.1) {
		t.Errorf("expected area 64, got %f", in.Area())
	}
}

func TestInsetCollapses(t *testing.T) {
	if !Rect(0, 0, 4, 4).Inset(2.5).IsEmpty() {
		t.Error("expected inset larger than half-width to collapse")
	}
}

func TestInsetConcave(t *testing.T) {
	l := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 4), Pt(4, 4), Pt(4, 10), Pt(0, 10))
	in := l.Inset(1)
	if in.IsEmpty() {
		t.Fatal("expected non-empty inset")
	}
	// Inner L: arms are 2 wide. (8x2) + (2x6) = 28.
	if !approxEqual(in.Area(), 28, 0.1) {
		t.Errorf("expected area 28, got %f", in.Area())
	}
}

func TestInsetZeroReturnsClean(t *testing.T) {
	p := NewPolygon(Pt(0, 0), Pt(0, 0), Pt(5, 0), Pt(5, 5), Pt(0, 5), Pt(0, 0))
	out := p.Inset(0)
	if out.Len() != 4 {
		t.Errorf("expected duplicates removed, got %d vertices", out.Len())
	}
}

func TestInsetRect(t *testing.T) {
	origin, w, h := InsetRect(0, 0, 15, 30, 1.2, 4.9, 1.2, 10.7)
	if !approxEqual(origin.X, 1.2, tolerance) || !approxEqual(origin.Z, 4.9, tolerance) {
		t.Errorf("unexpected origin %v", origin)
	}
	if !approxEqual(w, 12.6, tolerance) || !approxEqual(h, 14.4, tolerance) {
		t.Errorf("unexpected size %f x %f", w, h)
	}
	_, w, h = InsetRect(0, 0, 2, 2, 5, 5, 5, 5)
	if w != 0 || h != 0 {
		t.Errorf("expected clamped size, got %f x %f", w, h)
	}
}

// --- Geodesic tests ---

func TestEdgeLength(t *testing.T) {
	// One degree of latitude on the mean-radius sphere.
	d := EdgeLength(orb.Point{0, 0}, orb.Point{0, 1})
	want := math.Pi / 180 * EarthRadius
	if !approxEqual(d, want, 1) {
		t.Errorf("expected %f, got %f", want, d)
	}
	if EdgeLength(orb.Point{10, 10}, orb.Point{10, 10}) != 0 {
		t.Error("expected zero length for identical points")
	}
}

func TestBearingAndCardinal(t *testing.T) {
	tests := []struct {
		to   orb.Point
		want string
	}{
		{orb.Point{0, 1}, "N"},
		{orb.Point{1, 0}, "E"},
		{orb.Point{0, -1}, "S"},
		{orb.Point{-1, 0}, "W"},
		{orb.Point{1, 1}, "NE"},
		{orb.Point{-1, -1}, "SW"},
	}
	for _, tt := range tests {
		b := Bearing(orb.Point{0, 0}, tt.to)
		if b < 0 || b >= 360 {
			t.Errorf("bearing %f out of range", b)
		}
		if got := Cardinal(b); got != tt.want {
			t.Errorf("Cardinal(%f) = %s, want %s", b, got, tt.want)
		}
	}
	if Cardinal(350) != "N" || Cardinal(-10) != "N" || Cardinal(22.5) != "NE" {
		t.Error("unexpected sector boundaries")
	}
}

func TestAngleBetween(t *testing.T) {
	o := orb.Point{0, 0}
	if a := AngleBetween(o, orb.Point{1, 0}, o, orb.Point{0, 1}); !approxEqual(a, 90, tolerance) {
		t.Errorf("expected 90, got %f", a)
	}
	if a := AngleBetween(o, orb.Point{1, 0}, o, orb.Point{-1, 0}); !approxEqual(a, 180, tolerance) {
		t.Errorf("expected 180, got %f", a)
	}
	if a := AngleBetween(o, o, o, orb.Point{1, 0}); a != 0 {
		t.Errorf("expected 0 for degenerate edge, got %f", a)
	}
	if a := CornerAngle(o, orb.Point{1, 0}, o, orb.Point{-1, 1}); !approxEqual(a, 45, tolerance) {
		t.Errorf("expected folded 45, got %f", a)
	}
}

func TestAngleBetweenNearlyParallel(t *testing.T) {
	o := orb.Point{0, 0}
	want := 1e-9 * 180 / math.Pi
	a := AngleBetween(o, orb.Point{1, 0}, o, orb.Point{1, 1e-9})
	if a == 0 || math.Abs(a-want) > want*1e-6 {
		t.Errorf("expected %g degrees, got %g", want, a)
	}
	a = AngleBetween(o, orb.Point{1, 0}, o, orb.Point{-1, 1e-9})
	if math.Abs(a-(180-want)) > 1e-9 {
		t.Errorf("expected just under 180, got %.12f", a)
	}
}

func TestPointToSegmentDistance(t *testing.T) {
	a, b := orb.Point{0, 0}, orb.Point{0, 1}
	p := orb.Point{0, 0.5}
	if d := PointToSegmentDistance(p, a, b); !approxEqual(d, 0, tolerance) {
		t.Errorf("expected 0 on segment, got %f", d)
	}
	beyond := orb.Point{0, 2}
	want := EdgeLength(beyond, b)
	if d := PointToSegmentDistance(beyond, a, b); !approxEqual(d, want, 1) {
		t.Errorf("expected %f, got %f", want, d)
	}
}

func TestVertexCentroid(t *testing.T) {
	r := orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	c := VertexCentroid(r)
	if c[0] != 1 || c[1] != 1 {
		t.Errorf("expected (1,1), got %v", c)
	}
}

// --- Frame tests ---

func TestRingArea(t *testing.T) {
	r := metersToLonLat(Pt(0, 0), Pt(15, 0), Pt(15, 30), Pt(0, 30))
	if a := RingArea(r); !approxEqual(a, 450, 1) {
		t.Errorf("expected ~450 m², got %f", a)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	r := metersToLonLat(Pt(0, 0), Pt(20, 3), Pt(18, 40), Pt(-2, 35))
	f := NewAlignedFrame(r, r[0], r[1])
	for _, p := range r {
		back := f.ToLonLat(f.ToLocal(p))
		if !approxEqual(back[0], p[0], 1e-9) || !approxEqual(back[1], p[1], 1e-9) {
			t.Errorf("round trip %v -> %v", p, back)
		}
	}
}

func TestAlignedFrameFrontageOnXAxis(t *testing.T) {
	// A 15 x 30 lot rotated 30 degrees.
	rot := func(p Point2D) Point2D {
		s, c := math.Sincos(math.Pi / 6)
		return Pt(p.X*c-p.Z*s, p.X*s+p.Z*c)
	}
	r := metersToLonLat(rot(Pt(0, 0)), rot(Pt(15, 0)), rot(Pt(15, 30)), rot(Pt(0, 30)))
	f := NewAlignedFrame(r, r[0], r[1])
	poly := f.Polygon(r)
	lo, hi := poly.BoundingBox()
	if !approxEqual(lo.X, 0, 0.05) || !approxEqual(lo.Z, 0, 0.05) {
		t.Errorf("expected bbox at origin, got %v", lo)
	}
	if !approxEqual(hi.X, 15, 0.05) || !approxEqual(hi.Z, 30, 0.05) {
		t.Errorf("expected 15 x 30 bbox, got %v", hi)
	}
	a := f.ToLocal(r[0])
	b := f.ToLocal(r[1])
	if !approxEqual(a.Z, 0, 0.05) || !approxEqual(b.Z, 0, 0.05) {
		t.Errorf("frontage not on X axis: %v %v", a, b)
	}
}

func TestAlignedFrameFlipsToPositiveZ(t *testing.T) {
	// Frontage given in the reverse direction still puts the lot at +Z.
	r := metersToLonLat(Pt(0, 0), Pt(15, 0), Pt(15, 30), Pt(0, 30))
	f := NewAlignedFrame(r, r[1], r[0])
	c := f.ToLocal(VertexCentroid(r))
	if !approxEqual(c.Z, 15, 0.05) || !approxEqual(c.X, 7.5, 0.05) {
		t.Errorf("expected centroid (7.5, 15), got %v", c)
	}
}
