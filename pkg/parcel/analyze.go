package parcel

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
)

const (
	// rectangularTolerance is how far, in degrees, a turn may deviate from 90
	// for the lot to count as rectangular.
	rectangularTolerance = 15.0
	// frontageTolerance is how far an edge bearing may be from 0 or 180
	// degrees to count as street frontage.
	frontageTolerance = 45.0

	narrowAspect = 3.0
	wideAspect   = 0.5
)

// Analyze decomposes a closed [lon, lat] ring into edges and derives the lot
// dimensions, shape, frontage and lot type. Rings with fewer than four points
// or that are not closed yield a *GeometryError.
func Analyze(ring orb.Ring) (*Profile, error) {
	return AnalyzeWithPolicy(ring, DefaultCornerPolicy())
}

// AnalyzeWithPolicy is Analyze with explicit corner-lot thresholds.
func AnalyzeWithPolicy(ring orb.Ring, policy CornerPolicy) (*Profile, error) {
	if len(ring) < 4 {
		return nil, &GeometryError{Reason: "polygon needs at least 4 points", Points: len(ring)}
	}
	if ring[0] != ring[len(ring)-1] {
		return nil, &GeometryError{Reason: "ring is not closed", Points: len(ring)}
	}

	p := &Profile{
		Ring:     ring,
		Centroid: geo.VertexCentroid(ring),
		Area:     geo.RingArea(ring),
	}

	p.Edges = make([]Edge, len(ring)-1)
	for i := range p.Edges {
		a, b := ring[i], ring[i+1]
		p.Edges[i] = Edge{
			Index:   i,
			Start:   a,
			End:     b,
			Length:  geo.EdgeLength(a, b),
			Bearing: geo.Bearing(a, b),
		}
	}

	// Angles are measured in a local metric frame so that longitude
	// compression does not skew them.
	frame := geo.NewFrame(ring)
	local := make([]orb.Point, len(ring))
	for i, pt := range ring {
		l := frame.ToLocal(pt)
		local[i] = orb.Point{l.X, l.Z}
	}
	n := len(p.Edges)
	p.Angles = make([]float64, 0, n-1)
	for i := 0; i < n-1; i++ {
		p.Angles = append(p.Angles, geo.AngleBetween(local[i], local[i+1], local[i+1], local[i+2]))
	}
	p.CornerAngles = make([]float64, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		p.CornerAngles[i] = geo.CornerAngle(local[i], local[i+1], local[j], local[j+1])
	}

	p.IsRectangular = len(p.Angles) > 0
	for _, a := range p.Angles {
		if math.Abs(a-90) >= rectangularTolerance {
			p.IsRectangular = false
			break
		}
	}

	p.Width, p.Depth = dimensions(p.EdgeLengths(), p.IsRectangular)

	p.LongestEdge = p.Edges[0]
	for _, e := range p.Edges[1:] {
		if e.Length > p.LongestEdge.Length {
			p.LongestEdge = e
		}
	}
	p.StreetFrontage = p.LongestEdge
	for _, e := range p.Edges {
		if isFrontageBearing(e.Bearing) {
			p.StreetFrontage = e
			break
		}
	}
	p.Orientation = Orientation{
		Primary: geo.Cardinal(p.LongestEdge.Bearing),
		Street:  geo.Cardinal(p.StreetFrontage.Bearing),
	}

	p.AspectRatio = 1
	if p.Width > 0 {
		p.AspectRatio = p.Depth / p.Width
	}
	p.Shape = classifyShape(p.AspectRatio, p.IsRectangular)

	p.Corner = policy.Classify(p.EdgeLengths(), p.CornerAngles)
	p.LotType = p.Corner.LotType
	return p, nil
}

// FallbackProfile builds a profile from caller-supplied dimensions when no
// usable geometry exists. The lot is assumed rectangular and standard.
func FallbackProfile(width, depth float64) *Profile {
	if width > depth {
		width, depth = depth, width
	}
	p := &Profile{
		Width:         width,
		Depth:         depth,
		Area:          width * depth,
		IsRectangular: true,
		AspectRatio:   1,
		LotType:       LotStandard,
		Corner:        CornerAnalysis{LotType: LotStandard, Failed: CriterionEdgeCount},
		Fallback:      true,
	}
	if width > 0 {
		p.AspectRatio = depth / width
	}
	p.Shape = classifyShape(p.AspectRatio, true)
	return p
}

// dimensions derives width and depth from edge lengths. Rectangular lots
// average the two shortest and the two longest edges; other lots use the
// shortest and longest edge.
func dimensions(lengths []float64, rectangular bool) (width, depth float64) {
	sorted := append([]float64(nil), lengths...)
	sort.Float64s(sorted)
	if rectangular && len(sorted) >= 4 {
		width = (sorted[0] + sorted[1]) / 2
		depth = (sorted[2] + sorted[3]) / 2
		if width > depth {
			width, depth = depth, width
		}
		return width, depth
	}
	return sorted[0], sorted[len(sorted)-1]
}

func isFrontageBearing(b float64) bool {
	return b < frontageTolerance || b > 360-frontageTolerance ||
		math.Abs(b-180) < frontageTolerance
}

func classifyShape(aspect float64, rectangular bool) Shape {
	switch {
	case aspect > narrowAspect:
		return ShapeNarrow
	case aspect < wideAspect:
		return ShapeWide
	case rectangular:
		return ShapeRectangular
	default:
		return ShapeIrregular
	}
}
