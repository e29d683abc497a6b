// Package parcel analyzes a land parcel boundary: its edges, dimensions,
// shape, street frontage and whether it is a corner lot.
package parcel

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Shape classifies a lot by its proportions.
type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapeNarrow      Shape = "narrow"
	ShapeWide        Shape = "wide"
	ShapeIrregular   Shape = "irregular"
)

// LotType is either a standard (interior) lot or a corner lot.
type LotType string

const (
	LotStandard LotType = "standard"
	LotCorner   LotType = "corner"
)

// Edge is one side of the parcel ring.
type Edge struct {
	Index   int       `json:"index"`
	Start   orb.Point `json:"start"`
	End     orb.Point `json:"end"`
	Length  float64   `json:"length"`  // meters
	Bearing float64   `json:"bearing"` // degrees, [0, 360)
}

// Orientation holds the cardinal directions of the longest edge and of the
// street frontage.
type Orientation struct {
	Primary string `json:"primary_direction"`
	Street  string `json:"street_direction"`
}

// Profile is the analysis of one parcel. It is computed once and not
// modified afterwards.
type Profile struct {
	Ring           orb.Ring       `json:"-"`
	Edges          []Edge         `json:"edges"`
	Centroid       orb.Point      `json:"centroid"`
	Width          float64        `json:"width"`
	Depth          float64        `json:"depth"`
	AspectRatio    float64        `json:"aspect_ratio"`
	Area           float64        `json:"area"`
	Shape          Shape          `json:"lot_shape"`
	IsRectangular  bool           `json:"is_rectangular"`
	Angles         []float64      `json:"angles"`
	CornerAngles   []float64      `json:"corner_angles"`
	StreetFrontage Edge           `json:"street_frontage"`
	LongestEdge    Edge           `json:"longest_edge"`
	Orientation    Orientation    `json:"orientation"`
	LotType        LotType        `json:"lot_type"`
	Corner         CornerAnalysis `json:"corner_analysis"`

	// Fallback is set when the profile was built from caller-supplied
	// dimensions instead of geometry.
	Fallback bool `json:"fallback,omitempty"`
}

// EdgeLengths returns the length of every edge in ring order.
func (p *Profile) EdgeLengths() []float64 {
	out := make([]float64, len(p.Edges))
	for i, e := range p.Edges {
		out[i] = e.Length
	}
	return out
}

// GeometryError reports parcel input that cannot be analyzed. Callers should
// fall back to explicit lot dimensions.
type GeometryError struct {
	Reason string
	Points int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("parcel geometry: %s (%d points)", e.Reason, e.Points)
}
