package geo

import "math"

// ClipToConvex clips the subject polygon to a convex clip polygon using
// the Sutherland-Hodgman algorithm. The clipper must be counterclockwise.
// Returns the intersection polygon.
func ClipToConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	out := subject
	n := len(clipper.Vertices)
	for i := 0; i < n; i++ {
		s, e := clipper.Edge(i)
		out = clipHalfPlane(out, s, e)
		if out.IsEmpty() {
			return Polygon{}
		}
	}
	return out
}

// clipHalfPlane keeps the part of subject on the left of the directed line
// edgeStart->edgeEnd.
func clipHalfPlane(subject Polygon, edgeStart, edgeEnd Point2D) Polygon {
	input := subject.Vertices
	output := make([]Point2D, 0, len(input)+1)
	for j := 0; j < len(input); j++ {
		current := input[j]
		next := input[(j+1)%len(input)]
		curInside := isInsideEdge(current, edgeStart, edgeEnd)
		nextInside := isInsideEdge(next, edgeStart, edgeEnd)

		switch {
		case curInside && nextInside:
			output = append(output, next)
		case curInside && !nextInside:
			if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
				output = append(output, ix)
			}
		case !curInside && nextInside:
			if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
				output = append(output, ix)
			}
			output = append(output, next)
		}
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// isInsideEdge returns true if the point is on the inside (left) of the
// directed edge from edgeStart to edgeEnd.
func isInsideEdge(p, edgeStart, edgeEnd Point2D) bool {
	return (edgeEnd.X-edgeStart.X)*(p.Z-edgeStart.Z)-
		(edgeEnd.Z-edgeStart.Z)*(p.X-edgeStart.X) >= -1e-9
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	d := (p1.X-p2.X)*(p3.Z-p4.Z) - (p1.Z-p2.Z)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Z-p4.Z) - (p1.Z-p3.Z)*(p3.X-p4.X)) / d
	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Z: p1.Z + t*(p2.Z-p1.Z),
	}, true
}
