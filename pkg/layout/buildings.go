package layout

import (
	"github.com/golang/geo/r2"

	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/setback"
)

// LayoutType says whether units share a building footprint.
type LayoutType string

const (
	Multiplex LayoutType = "multiplex"
	Separate  LayoutType = "separate"
)

// BuildingLayout is the arrangement of buildings on the lot.
type BuildingLayout string

const (
	StandardRowLayout BuildingLayout = "standard_row"
	CourtyardLayout   BuildingLayout = "courtyard"
	LShapedLayout     BuildingLayout = "l_shaped"
	UShapedLayout     BuildingLayout = "u_shaped"
)

// Row tags which arm of a topology a building belongs to.
type Row string

const (
	RowFront Row = "front"
	RowRear  Row = "rear"
	RowSide  Row = "side"
	RowLeft  Row = "left"
	RowRight Row = "right"
)

// BindingConstraint names what limited the building area.
type BindingConstraint string

const (
	BindingPhysical BindingConstraint = "physical"
	BindingCoverage BindingConstraint = "coverage"
)

// Configuration is the requested building program.
type Configuration struct {
	NumBuildings       int                `json:"num_buildings"`
	UnitsPerBuilding   []int              `json:"units_per_building"`
	LayoutType         LayoutType         `json:"layout_type"`
	BuildingLayout     BuildingLayout     `json:"building_layout"`
	Coverage           float64            `json:"coverage"`
	IncludeCoachHouse  bool               `json:"include_coach_house"`
	CoachHousePosition accessory.Position `json:"coach_house_position,omitempty"`
	AccessoryType      accessory.Kind     `json:"accessory_type,omitempty"`
}

// TotalUnits returns the sum of UnitsPerBuilding.
func (c Configuration) TotalUnits() int {
	n := 0
	for _, u := range c.UnitsPerBuilding {
		n += u
	}
	return n
}

// LargestBuilding returns the highest unit count of any one building.
func (c Configuration) LargestBuilding() int {
	n := 0
	for _, u := range c.UnitsPerBuilding {
		if u > n {
			n = u
		}
	}
	return n
}

// Unit is one dwelling unit. X and Z locate its street-side left corner.
type Unit struct {
	Index    int     `json:"index"`
	Building int     `json:"building"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Row      Row     `json:"row"`
}

// Building is a placed volume owning one or more units.
type Building struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Units  []Unit  `json:"units"`
	Row    Row     `json:"row"`
}

// Footprint returns the plan area.
func (b Building) Footprint() float64 { return b.Width * b.Depth }

// Bounds returns the plan rectangle, with Y standing for Z.
func (b Building) Bounds() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: b.X, Y: b.Z}, r2.Point{X: b.X + b.Width, Y: b.Z + b.Depth})
}

// Diagnostics explains how the result differs from the request.
type Diagnostics struct {
	Topology                BuildingLayout    `json:"topology"`
	AppliedSetbacks         setback.Values    `json:"applied_setbacks"`
	BindingConstraint       BindingConstraint `json:"binding_constraint"`
	CoverageScale           float64           `json:"coverage_scale"`
	ConfigurationDowngraded bool              `json:"configuration_downgraded"`
	FallbackTopologyUsed    bool              `json:"fallback_topology_used"`
	EligibilityFailures     []string          `json:"eligibility_failures"`
	RequestedUnits          int               `json:"requested_units"`
	PlacedUnits             int               `json:"placed_units"`
	UnitWidth               float64           `json:"unit_width"`
	BelowRecommendedWidth   bool              `json:"below_recommended_width"`
	FireTravelDistance      float64           `json:"fire_travel_distance,omitempty"`
}

// Result is a complete, feasible layout.
type Result struct {
	ID          string               `json:"id"`
	Config      Configuration        `json:"config"`
	Buildings   []Building           `json:"buildings"`
	Accessory   *accessory.Structure `json:"accessory,omitempty"`
	Diagnostics Diagnostics          `json:"diagnostics"`
}

// Units returns every unit in building order.
func (r *Result) Units() []Unit {
	var out []Unit
	for _, b := range r.Buildings {
		out = append(out, b.Units...)
	}
	return out
}

// Footprint returns the total plan area of the main buildings.
func (r *Result) Footprint() float64 {
	total := 0.0
	for _, b := range r.Buildings {
		total += b.Footprint()
	}
	return total
}

// Box is an axis-aligned placement region in site coordinates.
type Box struct {
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// BoxFromRect converts a plan rectangle, with Y standing for Z.
func BoxFromRect(r r2.Rect) Box {
	size := r.Size()
	return Box{X: r.X.Lo, Z: r.Y.Lo, Width: size.X, Depth: size.Y}
}

// Rect returns the box as a plan rectangle.
func (b Box) Rect() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: b.X, Y: b.Z}, r2.Point{X: b.X + b.Width, Y: b.Z + b.Depth})
}

// Area returns Width times Depth.
func (b Box) Area() float64 { return b.Width * b.Depth }

// Input is everything the planner needs for one request.
type Input struct {
	Buildable setback.BuildableArea `json:"buildable"`
	SiteArea  float64               `json:"site_area"`
	LotWidth  float64               `json:"lot_width"`
	LotDepth  float64               `json:"lot_depth"`
	MaxHeight float64               `json:"max_height"`
	MaxFAR    float64               `json:"max_far"`
	Units     int                   `json:"units"`
	Config    Configuration         `json:"config"`
}
