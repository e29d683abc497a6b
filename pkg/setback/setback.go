// Package setback resolves front, side and rear setbacks and computes the
// buildable area left inside a parcel once they are applied.
package setback

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
)

// Spec is a set of optional setback distances in meters. A nil side is
// unknown.
type Spec struct {
	Front *float64 `json:"front"`
	Side  *float64 `json:"side"`
	Rear  *float64 `json:"rear"`
}

// Meters returns a pointer to v, for building a Spec.
func Meters(v float64) *float64 { return &v }

// Source records where an effective setback came from.
type Source string

const (
	SourceRequired   Source = "required"
	SourceCalculated Source = "calculated"
	SourceBoth       Source = "both"
	SourceNone       Source = "none"
)

// Sources holds the Source of each side.
type Sources struct {
	Front Source `json:"front"`
	Side  Source `json:"side"`
	Rear  Source `json:"rear"`
}

// Resolved is the effective setback per side along with both inputs.
type Resolved struct {
	Effective  Spec    `json:"effective"`
	Sources    Sources `json:"sources"`
	Required   Spec    `json:"required"`
	Calculated Spec    `json:"calculated"`
}

// Values is a complete set of setbacks.
type Values struct {
	Front float64 `json:"front"`
	Side  float64 `json:"side"`
	Rear  float64 `json:"rear"`
}

// Min returns the smallest of the three setbacks.
func (v Values) Min() float64 {
	return math.Min(v.Front, math.Min(v.Side, v.Rear))
}

// Scale returns every setback multiplied by f.
func (v Values) Scale(f float64) Values {
	return Values{Front: v.Front * f, Side: v.Side * f, Rear: v.Rear * f}
}

// Defaults returns the single-family setbacks used when no zoning or
// observed value is available.
func Defaults() Values {
	return Values{Front: 4.9, Side: 1.2, Rear: 10.7}
}

// Resolve combines zoning-required and footprint-calculated setbacks. Each
// side takes the larger of the two values; if only one is known it is used,
// and if neither is known the side stays nil.
func Resolve(required, calculated Spec) Resolved {
	r := Resolved{Required: required, Calculated: calculated}
	r.Effective.Front, r.Sources.Front = pick(required.Front, calculated.Front)
	r.Effective.Side, r.Sources.Side = pick(required.Side, calculated.Side)
	r.Effective.Rear, r.Sources.Rear = pick(required.Rear, calculated.Rear)
	return r
}

func pick(req, calc *float64) (*float64, Source) {
	switch {
	case req != nil && calc != nil:
		return Meters(math.Max(*req, *calc)), SourceBoth
	case req != nil:
		return Meters(*req), SourceRequired
	case calc != nil:
		return Meters(*calc), SourceCalculated
	}
	return nil, SourceNone
}

// Values fills any unknown side from defaults.
func (r Resolved) Values(defaults Values) Values {
	v := defaults
	if r.Effective.Front != nil {
		v.Front = *r.Effective.Front
	}
	if r.Effective.Side != nil {
		v.Side = *r.Effective.Side
	}
	if r.Effective.Rear != nil {
		v.Rear = *r.Effective.Rear
	}
	return v
}

// Cap limits setbacks to half the lot: front plus rear may take at most half
// the lot depth, scaled proportionally, and both sides together at most half
// the lot width. The second return value reports whether anything changed.
func Cap(v Values, lotWidth, lotDepth float64) (Values, bool) {
	capped := false
	maxFrontRear := lotDepth * 0.5
	maxSide := lotWidth * 0.5

	if total := v.Front + v.Rear; total > maxFrontRear && total > 0 {
		v.Front = v.Front / total * maxFrontRear
		v.Rear = v.Rear / total * maxFrontRear
		capped = true
	}
	if v.Side*2 > maxSide {
		v.Side = maxSide / 2
		capped = true
	}
	return v, capped
}

// Observed measures the setbacks of an existing building footprint. The
// longest parcel edge is taken as the front; of the remaining edges, sorted
// by length, the first is the side and the second the rear. Each setback is
// the smallest distance from any footprint vertex to that edge.
func Observed(parcel, footprint orb.Ring) Spec {
	if len(parcel) < 4 || len(footprint) == 0 {
		return Spec{}
	}

	type edge struct {
		a, b   orb.Point
		length float64
	}
	edges := make([]edge, 0, len(parcel)-1)
	for i := 0; i < len(parcel)-1; i++ {
		edges = append(edges, edge{parcel[i], parcel[i+1], geo.EdgeLength(parcel[i], parcel[i+1])})
	}

	front := 0
	for i, e := range edges {
		if e.length > edges[front].length {
			front = i
		}
	}
	distance := func(e edge) *float64 {
		best := math.Inf(1)
		for _, p := range footprint {
			best = math.Min(best, geo.PointToSegmentDistance(p, e.a, e.b))
		}
		if math.IsInf(best, 1) {
			return nil
		}
		return Meters(best)
	}

	s := Spec{Front: distance(edges[front])}
	rest := make([]edge, 0, len(edges)-1)
	rest = append(rest, edges[:front]...)
	rest = append(rest, edges[front+1:]...)
	if len(rest) >= 2 {
		sort.SliceStable(rest, func(i, j int) bool { return rest[i].length < rest[j].length })
		s.Side = distance(rest[0])
		s.Rear = distance(rest[1])
	}
	return s
}
