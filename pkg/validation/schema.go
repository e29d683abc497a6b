package validation

import (
	"fmt"

	"github.com/blairjdaniel/parcelplanner/pkg/site"
)

var (
	validLayoutTypes     = map[string]bool{"": true, "multiplex": true, "separate": true}
	validBuildingLayouts = map[string]bool{"": true, "standard_row": true, "courtyard": true, "l_shaped": true, "u_shaped": true}
	validCoachPositions  = map[string]bool{"": true, "rear": true, "side": true, "corner": true}
	validAccessoryTypes  = map[string]bool{"": true, "coach_house": true, "garage": true, "other": true}
	validLotTypes        = map[string]bool{"": true, "standard": true, "corner": true}
)

// ValidateProject performs schema validation on a parsed project. It checks
// structural correctness before any geometry is computed.
func ValidateProject(p *site.Project) *Report {
	r := NewReport()

	validateInputs(p, r)
	validateLot(p, r)
	validateSetbackOverrides(p, r)
	validateBuilding(&p.Building, r)

	return r
}

func validateInputs(p *site.Project, r *Report) {
	if p.Parcel == "" && (p.Lot.Width <= 0 || p.Lot.Depth <= 0) {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     "either parcel or lot.width and lot.depth must be given",
			Field:       "parcel",
			Suggestions: []string{"Add a parcel GeoJSON file", "Set lot.width and lot.depth"},
		})
	}
	if p.District == "" {
		r.AddWarning(Result{
			Stage:    StageSchema,
			Code:     CodeSchema,
			Message:  fmt.Sprintf("no zoning district given, assuming %s", site.DefaultDistrict),
			Field:    "district",
			Expected: site.DefaultDistrict,
		})
	}
	if !validLotTypes[p.LotType] {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     fmt.Sprintf("lot_type %q must be standard or corner", p.LotType),
			Field:       "lot_type",
			ActualValue: p.LotType,
		})
	}
	if p.Frontage != nil && *p.Frontage < 0 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     "frontage_edge must be >= 0",
			Field:       "frontage_edge",
			ActualValue: *p.Frontage,
			Expected:    ">= 0",
		})
	}
}

func validateLot(p *site.Project, r *Report) {
	if p.Lot.Width < 0 || p.Lot.Depth < 0 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     fmt.Sprintf("lot dimensions must be non-negative (got %.1f x %.1f)", p.Lot.Width, p.Lot.Depth),
			Field:       "lot",
			ActualValue: fmt.Sprintf("%.1fx%.1f", p.Lot.Width, p.Lot.Depth),
		})
	}
	if p.SiteArea < 0 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     "site_area must be non-negative",
			Field:       "site_area",
			ActualValue: p.SiteArea,
			Expected:    ">= 0",
		})
	}
}

func validateSetbackOverrides(p *site.Project, r *Report) {
	check := func(name string, v *float64) {
		if v != nil && *v < 0 {
			r.AddError(Result{
				Stage:       StageSchema,
				Code:        CodeSchema,
				Message:     fmt.Sprintf("setbacks.%s must be non-negative", name),
				Field:       "setbacks." + name,
				ActualValue: *v,
				Expected:    ">= 0",
			})
		}
	}
	check("front", p.Setbacks.Front)
	check("side", p.Setbacks.Side)
	check("rear", p.Setbacks.Rear)
}

func validateBuilding(b *site.BuildingConfig, r *Report) {
	if b.Units <= 0 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     "building.units must be greater than 0",
			Field:       "building.units",
			ActualValue: b.Units,
			Expected:    "> 0",
		})
	}
	if b.NumBuildings < 0 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     "building.num_buildings must be non-negative",
			Field:       "building.num_buildings",
			ActualValue: b.NumBuildings,
		})
	}
	if len(b.UnitsPerBuilding) > 0 {
		sum := 0
		for i, n := range b.UnitsPerBuilding {
			if n <= 0 {
				r.AddError(Result{
					Stage:       StageSchema,
					Code:        CodeSchema,
					Message:     fmt.Sprintf("building.units_per_building[%d] must be > 0", i),
					Field:       fmt.Sprintf("building.units_per_building[%d]", i),
					ActualValue: n,
				})
			}
			sum += n
		}
		if sum != b.Units {
			r.AddError(Result{
				Stage:       StageSchema,
				Code:        CodeSchema,
				Message:     fmt.Sprintf("building.units_per_building sums to %d but units is %d", sum, b.Units),
				Field:       "building.units_per_building",
				ActualValue: sum,
				Expected:    fmt.Sprintf("%d", b.Units),
			})
		}
		if b.NumBuildings > 0 && len(b.UnitsPerBuilding) != b.NumBuildings {
			r.AddError(Result{
				Stage:       StageSchema,
				Code:        CodeSchema,
				Message:     fmt.Sprintf("building.units_per_building has %d entries for %d buildings", len(b.UnitsPerBuilding), b.NumBuildings),
				Field:       "building.units_per_building",
				ActualValue: len(b.UnitsPerBuilding),
			})
		}
	}
	if b.Coverage < 0 || b.Coverage > 1 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     fmt.Sprintf("building.coverage %.2f must be between 0 and 1", b.Coverage),
			Field:       "building.coverage",
			ActualValue: b.Coverage,
			Expected:    "0-1",
			Suggestions: []string{"Coverage is a fraction: use 0.5 for 50%"},
		})
	}
	enums := []struct {
		field string
		value string
		valid map[string]bool
	}{
		{"building.layout_type", b.LayoutType, validLayoutTypes},
		{"building.building_layout", b.BuildingLayout, validBuildingLayouts},
		{"building.coach_house_position", b.CoachHousePosition, validCoachPositions},
		{"building.accessory_type", b.AccessoryType, validAccessoryTypes},
	}
	for _, e := range enums {
		if !e.valid[e.value] {
			r.AddError(Result{
				Stage:       StageSchema,
				Code:        CodeSchema,
				Message:     fmt.Sprintf("%s: unknown value %q", e.field, e.value),
				Field:       e.field,
				ActualValue: e.value,
			})
		}
	}
}

// ValidateZone checks a zoning district's rules for impossible values.
func ValidateZone(z site.Zone) *Report {
	r := NewReport()
	for name, v := range map[string]float64{"front": z.Front, "side": z.Side, "rear": z.Rear, "max_height": z.MaxHeight, "far": z.FAR} {
		if v < 0 {
			r.AddError(Result{
				Stage:       StageSchema,
				Code:        CodeSchema,
				Message:     fmt.Sprintf("zoning %s: %s must be non-negative", z.District, name),
				Field:       "zoning." + name,
				ActualValue: v,
			})
		}
	}
	if z.Coverage < 0 || z.Coverage > 1 {
		r.AddError(Result{
			Stage:       StageSchema,
			Code:        CodeSchema,
			Message:     fmt.Sprintf("zoning %s: coverage %.2f must be between 0 and 1", z.District, z.Coverage),
			Field:       "zoning.coverage",
			ActualValue: z.Coverage,
		})
	}
	return r
}
