package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

var resultNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("parcelplanner.layout"))

// Plan lays out the requested program on the buildable area.
//
// The request is degraded rather than rejected wherever possible: units are
// cut to what the coverage allowance and the frontage can hold, an
// ineligible accessory is dropped, and a topology whose preconditions fail
// falls back to a standard row. Every such change is recorded in the
// result's Diagnostics and in the report. An error is returned only when no
// unit can be placed at all.
func Plan(in Input) (*Result, *validation.Report, error) {
	report := validation.NewReport()
	id := uuid.NewSHA1(resultNamespace, []byte(fmt.Sprintf("%+v", in))).String()

	cfg, err := normalize(in)
	if err != nil {
		return nil, report, err
	}
	requested := cfg.TotalUnits()
	diag := Diagnostics{
		AppliedSetbacks:     in.Buildable.Applied,
		BindingConstraint:   BindingPhysical,
		CoverageScale:       1,
		EligibilityFailures: []string{},
		RequestedUnits:      requested,
	}

	if limit := MaxUnitsPerBuilding(cfg.LayoutType); cfg.LargestBuilding() > limit {
		largest := cfg.LargestBuilding()
		cfg.UnitsPerBuilding = splitOversized(cfg.UnitsPerBuilding, limit)
		cfg.NumBuildings = len(cfg.UnitsPerBuilding)
		diag.ConfigurationDowngraded = true
		report.AddInfo(validation.Result{
			Stage:       validation.StageLayout,
			Code:        validation.CodeCapacity,
			Message:     fmt.Sprintf("Building of %d units exceeds the %s maximum of %d; split into %d buildings", largest, cfg.LayoutType, limit, cfg.NumBuildings),
			Field:       "building.units_per_building",
			ActualValue: largest,
			Expected:    fmt.Sprintf("<= %d", limit),
		})
	}

	if in.SiteArea > 0 {
		c := CheckCapacity(in.SiteArea, cfg)
		if !c.Sufficient() {
			if c.MaxViableUnits < 1 {
				return nil, report, &InfeasibleLayoutError{
					Requested: requested,
					Reason:    fmt.Sprintf("coverage allows %.1fm² of building, one unit needs %.0fm²", c.AvailableArea, MinUnitSize),
				}
			}
			report.AddWarning(validation.Result{
				Stage:       validation.StageLayout,
				Code:        validation.CodeCapacity,
				Message:     fmt.Sprintf("Insufficient building area: need %.1fm² for %d units, %.1fm² available; reducing to %d units", c.RequiredArea, c.Units, c.AvailableArea, c.MaxViableUnits),
				Field:       "building.units",
				ActualValue: c.Units,
				Expected:    fmt.Sprintf("<= %d", c.MaxViableUnits),
			})
			cfg.UnitsPerBuilding = redistribute(c.MaxViableUnits, len(cfg.UnitsPerBuilding))
			cfg.NumBuildings = len(cfg.UnitsPerBuilding)
		}
	}

	box := Box{X: in.Buildable.MinX, Z: in.Buildable.MinZ, Width: in.Buildable.Width, Depth: in.Buildable.Depth}
	if box.Width <= 0 || box.Depth <= 0 {
		return nil, report, &InfeasibleLayoutError{Requested: requested, Reason: "buildable area is empty"}
	}
	if in.SiteArea > 0 {
		box = applyCoverage(box, in.SiteArea*cfg.Coverage, &diag, report)
	}

	var structure *accessory.Structure
	if cfg.IncludeCoachHouse {
		structure, box = planAccessory(in, cfg, box, &diag, report)
		cfg.IncludeCoachHouse = structure != nil
	}

	in.Config = cfg
	topo, err := TopologyFor(cfg.BuildingLayout)
	if err != nil {
		return nil, report, err
	}
	if err := topo.Feasible(in, box); err != nil {
		if topo.Kind() == StandardRowLayout {
			return nil, report, &InfeasibleLayoutError{Requested: requested, Reason: err.Error()}
		}
		report.AddWarning(validation.Result{
			Stage:   validation.StageLayout,
			Code:    validation.CodeFallbackTopology,
			Message: fmt.Sprintf("%s layout not feasible (%v); using standard row", topo.Kind(), err),
			Field:   "building.building_layout",
		})
		topo = StandardRow{}
		diag.FallbackTopologyUsed = true
	}
	diag.Topology = topo.Kind()
	cfg.BuildingLayout = topo.Kind()

	buildings, err := topo.Place(in, box)
	if err != nil {
		return nil, report, err
	}
	if topo.Kind() == StandardRowLayout && len(buildings) < cfg.NumBuildings {
		diag.ConfigurationDowngraded = true
		report.AddInfo(validation.Result{
			Stage:       validation.StageLayout,
			Code:        validation.CodeDowngraded,
			Message:     fmt.Sprintf("Frontage of %.1fm cannot separate %d buildings; placed %d", box.Width, cfg.NumBuildings, len(buildings)),
			Field:       "building.num_buildings",
			ActualValue: len(buildings),
			Expected:    fmt.Sprint(cfg.NumBuildings),
		})
	}

	cfg.UnitsPerBuilding = make([]int, len(buildings))
	for i, b := range buildings {
		cfg.UnitsPerBuilding[i] = len(b.Units)
	}
	cfg.NumBuildings = len(buildings)
	diagnoseUnits(buildings, &diag, report)

	if diag.Topology == CourtyardLayout {
		d := FireTravelDistance(in.Buildable.Applied.Front, box.Depth)
		diag.FireTravelDistance = d
		if d > MaxTravelDistance {
			report.AddWarning(validation.Result{
				Stage:       validation.StageLayout,
				Code:        validation.CodeFireTravelDistance,
				Message:     fmt.Sprintf("Estimated travel distance to rear building (%.1fm) exceeds maximum (%.0fm); additional egress requirements may apply", d, MaxTravelDistance),
				ActualValue: d,
				Expected:    fmt.Sprintf("<= %.0f", MaxTravelDistance),
			})
		}
	}

	return &Result{
		ID:          id,
		Config:      cfg,
		Buildings:   buildings,
		Accessory:   structure,
		Diagnostics: diag,
	}, report, nil
}

// normalize fills defaults and makes UnitsPerBuilding agree with the unit
// count.
func normalize(in Input) (Configuration, error) {
	cfg := in.Config
	cfg.UnitsPerBuilding = append([]int(nil), cfg.UnitsPerBuilding...)
	if cfg.LayoutType == "" {
		cfg.LayoutType = Multiplex
	}
	if cfg.BuildingLayout == "" {
		cfg.BuildingLayout = StandardRowLayout
	}
	cfg.Coverage = coverageOrDefault(cfg.Coverage)

	n := in.Units
	if n <= 0 {
		n = cfg.TotalUnits()
	}
	if n <= 0 {
		return cfg, &InfeasibleLayoutError{Reason: "no units requested"}
	}

	valid := cfg.TotalUnits() == n
	for _, u := range cfg.UnitsPerBuilding {
		if u <= 0 {
			valid = false
		}
	}
	switch {
	case cfg.LayoutType == Separate && cfg.NumBuildings <= 0:
		cfg.UnitsPerBuilding = redistribute(n, n)
	case !valid:
		b := cfg.NumBuildings
		if b <= 0 {
			b = len(cfg.UnitsPerBuilding)
		}
		cfg.UnitsPerBuilding = redistribute(n, b)
	}
	cfg.NumBuildings = len(cfg.UnitsPerBuilding)

	if cfg.IncludeCoachHouse {
		if cfg.AccessoryType == "" {
			cfg.AccessoryType = accessory.KindCoachHouse
		}
		if cfg.CoachHousePosition == "" {
			cfg.CoachHousePosition = accessory.PositionRear
		}
	}
	return cfg, nil
}

// splitOversized breaks every group above limit into the fewest buildings
// that each hold at most limit units.
func splitOversized(groups []int, limit int) []int {
	out := make([]int, 0, len(groups))
	for _, g := range groups {
		if g <= limit {
			out = append(out, g)
			continue
		}
		out = append(out, redistribute(g, (g+limit-1)/limit)...)
	}
	return out
}

// applyCoverage shrinks the box, keeping its aspect ratio, until its area
// fits the coverage allowance. The allowance never drops below
// MinBuildingArea.
func applyCoverage(box Box, limit float64, diag *Diagnostics, report *validation.Report) Box {
	physical := box.Area()
	if math.Min(physical, limit) < MinBuildingArea {
		report.AddWarning(validation.Result{
			Stage:       validation.StageLayout,
			Code:        validation.CodeBelowMinimumArea,
			Message:     fmt.Sprintf("Building area (%.1fm²) is below the minimum viable area (%.0fm²)", math.Min(physical, limit), MinBuildingArea),
			ActualValue: math.Min(physical, limit),
			Expected:    fmt.Sprintf(">= %.0f", MinBuildingArea),
		})
		limit = math.Max(limit, MinBuildingArea)
	}
	if limit >= physical {
		return box
	}
	scale := math.Sqrt(limit / physical)
	diag.BindingConstraint = BindingCoverage
	diag.CoverageScale = scale
	report.AddInfo(validation.Result{
		Stage:       validation.StageLayout,
		Code:        validation.CodeCoverageBinding,
		Message:     fmt.Sprintf("Coverage limit (%.1fm²) is below the buildable area (%.1fm²); scaling footprint by %.3f", limit, physical, scale),
		ActualValue: physical,
		Expected:    fmt.Sprintf("<= %.1f", limit),
	})
	box.Width *= scale
	box.Depth *= scale
	return box
}

// planAccessory checks and places the accessory, returning the box left for
// the main buildings. An ineligible accessory yields nil and the box
// unchanged.
func planAccessory(in Input, cfg Configuration, box Box, diag *Diagnostics, report *validation.Report) (*accessory.Structure, Box) {
	el := accessory.Check(accessory.Request{
		Kind:          cfg.AccessoryType,
		Position:      cfg.CoachHousePosition,
		SiteArea:      in.SiteArea,
		LotWidth:      in.LotWidth,
		LotDepth:      in.LotDepth,
		MainUnits:     cfg.TotalUnits(),
		Setbacks:      in.Buildable.Applied,
		MainFootprint: box.Area(),
		Coverage:      cfg.Coverage,
		MaxFAR:        in.MaxFAR,
	})
	for _, w := range el.Warnings {
		code := validation.CodeAccessoryCoverage
		if strings.Contains(w, "FAR") {
			code = validation.CodeAccessoryFAR
		}
		report.AddWarning(validation.Result{Stage: validation.StageAccessory, Code: code, Message: w})
	}

	var s accessory.Structure
	main := box
	if el.Eligible {
		s = accessory.Place(box.Rect(), cfg.AccessoryType, cfg.CoachHousePosition)
		main = BoxFromRect(accessory.Reserve(box.Rect(), s))
		if main.Width < MinUnitWidth || main.Depth < MinUnitWidth {
			el.Eligible = false
			el.Reasons = append(el.Reasons, fmt.Sprintf(
				"Insufficient space for %s beside the main buildings (%.1fm x %.1fm left)", cfg.AccessoryType.Label(), main.Width, main.Depth))
		}
	}
	if !el.Eligible {
		diag.EligibilityFailures = append(diag.EligibilityFailures, el.Reasons...)
		for _, r := range el.Reasons {
			report.AddWarning(validation.Result{
				Stage:   validation.StageAccessory,
				Code:    validation.CodeAccessoryIneligible,
				Message: r,
				Field:   "building.include_coach_house",
			})
		}
		return nil, box
	}
	return &s, main
}

func diagnoseUnits(buildings []Building, diag *Diagnostics, report *validation.Report) {
	placed := 0
	narrowest := math.Inf(1)
	for _, b := range buildings {
		for _, u := range b.Units {
			placed++
			narrowest = math.Min(narrowest, u.Width)
		}
	}
	diag.PlacedUnits = placed
	if placed == 0 {
		return
	}
	diag.UnitWidth = narrowest

	if placed < diag.RequestedUnits {
		diag.ConfigurationDowngraded = true
		report.AddInfo(validation.Result{
			Stage:       validation.StageLayout,
			Code:        validation.CodeDowngraded,
			Message:     fmt.Sprintf("Configuration downgraded from %d to %d units to keep units at least %.1fm wide", diag.RequestedUnits, placed, MinUnitWidth),
			Field:       "building.units",
			ActualValue: placed,
			Expected:    fmt.Sprintf("%d", diag.RequestedUnits),
		})
	}
	switch {
	case narrowest < MinUnitWidth:
		report.AddWarning(validation.Result{
			Stage:       validation.StageLayout,
			Code:        validation.CodeBelowRecommendedWidth,
			Message:     fmt.Sprintf("Buildable width only fits a single %.2fm unit, below the %.1fm minimum", narrowest, MinUnitWidth),
			ActualValue: narrowest,
			Expected:    fmt.Sprintf(">= %.1f", MinUnitWidth),
		})
		diag.BelowRecommendedWidth = true
	case narrowest < RecommendedWidth:
		report.AddWarning(validation.Result{
			Stage:       validation.StageLayout,
			Code:        validation.CodeBelowRecommendedWidth,
			Message:     fmt.Sprintf("Unit width (%.2fm) is below recommended width (%.1fm)", narrowest, RecommendedWidth),
			ActualValue: narrowest,
			Expected:    fmt.Sprintf(">= %.1f", RecommendedWidth),
		})
		diag.BelowRecommendedWidth = true
	}
}
