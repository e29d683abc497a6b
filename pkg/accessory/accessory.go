// Package accessory decides whether a lot can take a coach house or other
// accessory building next to its main dwellings, and where it goes.
package accessory

import (
	"fmt"
	"sort"

	"github.com/blairjdaniel/parcelplanner/pkg/setback"
)

// Kind is the type of accessory building.
type Kind string

const (
	KindCoachHouse Kind = "coach_house"
	KindGarage     Kind = "garage"
	KindOther      Kind = "other"
)

// Label is the human-readable name used in reasons.
func (k Kind) Label() string {
	switch k {
	case KindCoachHouse, "":
		return "coach house"
	case KindGarage:
		return "garage"
	default:
		return "accessory building"
	}
}

// Position is where the accessory sits inside the buildable area.
type Position string

const (
	PositionRear   Position = "rear"
	PositionSide   Position = "side"
	PositionCorner Position = "corner"
)

// Policy holds the per-kind thresholds.
type Policy struct {
	MinSiteArea    float64 `json:"min_site_area"`
	MinLotDepth    float64 `json:"min_lot_depth"`
	Separation     float64 `json:"separation"`
	RearSeparation float64 `json:"rear_separation"`
	FootprintDepth float64 `json:"footprint_depth"`
	AreaEstimate   float64 `json:"area_estimate"`
	WidthFraction  float64 `json:"width_fraction"`
	DepthFraction  float64 `json:"depth_fraction"`
	Height         float64 `json:"height"`
}

// PolicyFor returns the thresholds for a kind. Garages and other
// accessory buildings share one policy.
func PolicyFor(k Kind) Policy {
	if k == KindCoachHouse || k == "" {
		return Policy{
			MinSiteArea:    400,
			MinLotDepth:    35,
			Separation:     2.4,
			RearSeparation: 6.1,
			FootprintDepth: 8.5,
			AreaEstimate:   80,
			WidthFraction:  0.4,
			DepthFraction:  0.5,
			Height:         8.5,
		}
	}
	return Policy{
		MinSiteArea:    300,
		MinLotDepth:    25,
		Separation:     1.2,
		RearSeparation: 3.0,
		FootprintDepth: 6.0,
		AreaEstimate:   40,
		WidthFraction:  0.3,
		DepthFraction:  0.3,
		Height:         4.5,
	}
}

// RequiredSeparation is the gap kept from the main buildings.
func (p Policy) RequiredSeparation(pos Position) float64 {
	if pos == PositionRear || pos == "" {
		return p.RearSeparation
	}
	return p.Separation
}

var minSiteAreaForUnits = map[int]float64{
	2: 0,
	3: 306,
	4: 306,
	5: 464,
	6: 557,
	7: 557,
	8: 557,
}

// MinSiteAreaForUnits returns the site area required for a main-unit
// count. Counts outside the table report false.
func MinSiteAreaForUnits(units int) (float64, bool) {
	v, ok := minSiteAreaForUnits[units]
	return v, ok
}

// UnitCounts lists the main-unit counts with a site-area requirement.
func UnitCounts() []int {
	out := make([]int, 0, len(minSiteAreaForUnits))
	for n := range minSiteAreaForUnits {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Request describes the lot and main development an accessory would join.
type Request struct {
	Kind      Kind           `json:"kind"`
	Position  Position       `json:"position"`
	SiteArea  float64        `json:"site_area"`
	LotWidth  float64        `json:"lot_width"`
	LotDepth  float64        `json:"lot_depth"`
	MainUnits int            `json:"main_units"`
	Setbacks  setback.Values `json:"setbacks"`

	// MainFootprint and MainFloorArea describe the planned main buildings.
	// Zero means unknown; the coverage limit and a 0.5 FAR are assumed.
	MainFootprint float64 `json:"main_footprint,omitempty"`
	MainFloorArea float64 `json:"main_floor_area,omitempty"`

	// Coverage and MaxFAR default to 0.5 and 0.7.
	Coverage float64 `json:"coverage,omitempty"`
	MaxFAR   float64 `json:"max_far,omitempty"`
}

// Eligibility is the outcome of Check. Reasons block the accessory;
// Warnings do not.
type Eligibility struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
	Warnings []string `json:"warnings"`
}

// Check runs every eligibility test and collects all failures.
func Check(req Request) Eligibility {
	res := Eligibility{Eligible: true, Reasons: []string{}, Warnings: []string{}}
	fail := func(format string, args ...any) {
		res.Eligible = false
		res.Reasons = append(res.Reasons, fmt.Sprintf(format, args...))
	}
	pol := PolicyFor(req.Kind)
	label := req.Kind.Label()

	if minArea, ok := MinSiteAreaForUnits(req.MainUnits); ok && req.SiteArea < minArea {
		fail("Site area (%.1fm²) below minimum required for %d units (%.0fm²)", req.SiteArea, req.MainUnits, minArea)
	}
	if req.SiteArea < pol.MinSiteArea {
		fail("Site area (%.1fm²) below minimum required for %s (%.0fm²)", req.SiteArea, label, pol.MinSiteArea)
	}
	if req.LotDepth < pol.MinLotDepth {
		fail("Lot depth (%.1fm) below minimum required for %s (%.0fm)", req.LotDepth, label, pol.MinLotDepth)
	}

	sb := req.Setbacks
	if sb == (setback.Values{}) {
		sb = setback.Defaults()
	}
	residual := req.LotDepth - sb.Front - sb.Rear
	need := pol.RequiredSeparation(req.Position) + pol.FootprintDepth
	if residual < need {
		fail("Insufficient depth for %s separation (need %.1fm, have %.1fm)", label, need, residual)
	}

	coverage := req.Coverage
	if coverage <= 0 {
		coverage = 0.5
	}
	maxFAR := req.MaxFAR
	if maxFAR <= 0 {
		maxFAR = 0.7
	}
	limit := req.SiteArea * coverage
	main := req.MainFootprint
	if main <= 0 {
		main = limit
	}
	if total := main + pol.AreaEstimate; total > limit {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%s may exceed coverage limits (estimated total: %.1fm² vs limit: %.1fm²)", capitalize(label), total, limit))
	}
	if req.SiteArea > 0 {
		mainFAR := 0.5
		if req.MainFloorArea > 0 {
			mainFAR = req.MainFloorArea / req.SiteArea
		}
		if total := mainFAR + pol.AreaEstimate/req.SiteArea; total > maxFAR {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"%s may exceed FAR limits (estimated total: %.2f vs limit: %.1f)", capitalize(label), total, maxFAR))
		}
	}
	return res
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
