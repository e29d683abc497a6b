package setback

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// MinViableArea is the smallest inset polygon, in square meters, accepted
// before setbacks are relaxed.
const MinViableArea = 10.0

// Method records how the buildable area was derived.
type Method string

const (
	MethodPolygon     Method = "polygon"
	MethodRelaxed     Method = "relaxed"
	MethodRectangular Method = "rectangular"
)

// BuildableArea is the part of the parcel a building may occupy, in local
// site coordinates (meters, X across the lot, Z from the street).
type BuildableArea struct {
	Polygon      geo.Polygon `json:"polygon"`
	Width        float64     `json:"width"`
	Depth        float64     `json:"depth"`
	Area         float64     `json:"area"`
	MinX         float64     `json:"min_x"`
	MaxX         float64     `json:"max_x"`
	MinZ         float64     `json:"min_z"`
	MaxZ         float64     `json:"max_z"`
	Relaxed      bool        `json:"relaxed"`
	AppliedInset float64     `json:"applied_inset"`
	Applied      Values      `json:"applied_setbacks"`
	Method       Method      `json:"method"`
}

// Origin returns the buildable corner nearest the street on the left.
func (b BuildableArea) Origin() geo.Point2D {
	return geo.Pt(b.MinX, b.MinZ)
}

// Rect returns the bounding box, with Y standing for site Z.
func (b BuildableArea) Rect() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: b.MinX, Y: b.MinZ}, r2.Point{X: b.MaxX, Y: b.MaxZ})
}

// ComputeBuildable applies setbacks to a parcel polygon given in a site
// frame whose street frontage lies along the minimum Z.
//
// The parcel is first shrunk uniformly by the smallest setback. If that
// collapses the polygon or leaves less than MinViableArea, the inset is
// retried at half distance and every setback is halved. The result is then
// trimmed so that each side keeps its own setback from the parcel's bounding
// box. When no polygon can be produced, a rectangle of lot width minus both
// sides by lot depth minus front and rear is used instead.
func ComputeBuildable(parcel geo.Polygon, v Values, lotWidth, lotDepth float64) (BuildableArea, *validation.Report) {
	report := validation.NewReport()
	clean := parcel.Inset(0)
	if clean.IsEmpty() || clean.Area() < 1e-6 {
		report.AddWarning(validation.Result{
			Stage:   validation.StageSetback,
			Code:    validation.CodeRectangularFallback,
			Message: "parcel polygon is degenerate, using rectangular setback approximation",
		})
		return Rectangular(v, lotWidth, lotDepth), report
	}

	applied := v
	inset := v.Min()
	envelope := clean.Inset(inset)
	method := MethodPolygon
	if envelope.IsEmpty() || envelope.Area() < MinViableArea {
		applied = v.Scale(0.5)
		inset = applied.Min()
		envelope = clean.Inset(inset)
		method = MethodRelaxed
		report.AddWarning(validation.Result{
			Stage:       validation.StageSetback,
			Code:        validation.CodeSetbacksRelaxed,
			Message:     fmt.Sprintf("setbacks too large for parcel, relaxed to half (inset %.2fm)", inset),
			ActualValue: v.Min(),
			Suggestions: []string{"Check the zoning district or the setback overrides"},
		})
	}

	var poly geo.Polygon
	if !envelope.IsEmpty() {
		lo, hi := clean.BoundingBox()
		x0, x1 := lo.X+applied.Side, hi.X-applied.Side
		z0, z1 := lo.Z+applied.Front, hi.Z-applied.Rear
		if x1 > x0 && z1 > z0 {
			poly = geo.ClipToConvex(envelope, geo.Rect(x0, z0, x1, z1))
		}
	}
	if poly.IsEmpty() || poly.Area() < 1e-6 {
		report.AddWarning(validation.Result{
			Stage:   validation.StageSetback,
			Code:    validation.CodeRectangularFallback,
			Message: "setback inset collapsed the parcel, using rectangular setback approximation",
		})
		lo, _ := clean.BoundingBox()
		b := Rectangular(v, lotWidth, lotDepth)
		b.Polygon = b.Polygon.Translate(lo)
		b.MinX, b.MaxX = b.MinX+lo.X, b.MaxX+lo.X
		b.MinZ, b.MaxZ = b.MinZ+lo.Z, b.MaxZ+lo.Z
		return b, report
	}

	return fromPolygon(poly, applied, inset, method), report
}

// Rectangular is the buildable area of a rectangular lot of the given size,
// with the lot's corner at the origin. Sizes are clamped at zero.
func Rectangular(v Values, lotWidth, lotDepth float64) BuildableArea {
	origin, w, d := geo.InsetRect(0, 0, lotWidth, lotDepth, v.Side, v.Front, v.Side, v.Rear)
	b := BuildableArea{
		Width:   w,
		Depth:   d,
		Area:    w * d,
		MinX:    origin.X,
		MaxX:    origin.X + w,
		MinZ:    origin.Z,
		MaxZ:    origin.Z + d,
		Applied: v,
		Method:  MethodRectangular,
	}
	if w > 0 && d > 0 {
		b.Polygon = geo.Rect(b.MinX, b.MinZ, b.MaxX, b.MaxZ)
	}
	return b
}

func fromPolygon(p geo.Polygon, applied Values, inset float64, method Method) BuildableArea {
	bounds := p.Bounds()
	size := bounds.Size()
	return BuildableArea{
		Polygon:      p,
		Width:        size.X,
		Depth:        size.Y,
		Area:         math.Abs(p.SignedArea()),
		MinX:         bounds.Lo().X,
		MaxX:         bounds.Hi().X,
		MinZ:         bounds.Lo().Y,
		MaxZ:         bounds.Hi().Y,
		Relaxed:      method == MethodRelaxed,
		AppliedInset: inset,
		Applied:      applied,
		Method:       method,
	}
}
