// Package analytics computes floor area, FAR, coverage and height figures for
// a site and its planned layout, and checks them against the zoning district.
package analytics

import (
	"github.com/paulmach/orb"

	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// Input is everything Resolve needs. Footprint and Layout are optional.
type Input struct {
	SiteArea  float64
	Footprint orb.Ring
	Zone      site.Zone
	Layout    *layout.Result
}

// Resolve computes site metrics. The existing footprint yields reference
// estimates; the planned layout, when given, is compared to the zoning
// maxima and any excess is reported as a warning.
func Resolve(in Input) (*SiteMetrics, *validation.Report) {
	report := validation.NewReport()

	m := &SiteMetrics{
		SiteArea: in.SiteArea,
		Zoning: ZoningLimits{
			District:    in.Zone.District,
			MaxHeight:   in.Zone.MaxHeight,
			MaxFAR:      in.Zone.FAR,
			MaxCoverage: in.Zone.Coverage,
		},
		Method: "zoning_maximums",
	}

	// 1. Existing building reference
	if len(in.Footprint) >= 4 {
		m.Existing = estimateExisting(in.Footprint, in.SiteArea)
		if m.Existing != nil {
			m.Method = "zoning_maximums_with_calculated_reference"
		}
	}

	// 2. Planned layout
	if in.Layout != nil {
		m.Plan = planMetrics(in.Layout, in.SiteArea)
		validatePlan(m, report)
	}

	return m, report
}

func planMetrics(res *layout.Result, siteArea float64) *PlanMetrics {
	p := &PlanMetrics{Buildings: len(res.Buildings)}
	unitFloorArea := 0.0
	for _, b := range res.Buildings {
		floors := EstimateFloors(b.Height)
		p.Footprint += b.Footprint()
		p.FloorArea += b.Footprint() * float64(floors)
		unitFloorArea += b.Footprint() * float64(floors)
		p.Units += len(b.Units)
		p.MaxHeight = max(p.MaxHeight, b.Height)
		p.Floors = max(p.Floors, floors)
	}
	if a := res.Accessory; a != nil {
		p.AccessoryFootprint = a.Footprint()
		p.FloorArea += a.Footprint() * float64(EstimateFloors(a.Height))
		p.MaxHeight = max(p.MaxHeight, a.Height)
	}
	if p.Units > 0 {
		p.AvgUnitSize = unitFloorArea / float64(p.Units)
	}
	if siteArea > 0 {
		p.FAR = p.FloorArea / siteArea
		p.Coverage = (p.Footprint + p.AccessoryFootprint) / siteArea
	}
	return p
}
