// Package cost estimates the construction cost of a planned layout from its
// massing. The estimate is order-of-magnitude: floor area, foundations, party
// walls and site work priced at flat unit rates.
package cost

import (
	"math"

	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/analytics"
	"github.com/blairjdaniel/parcelplanner/pkg/layout"
)

// Breakdown itemizes costs by category.
type Breakdown struct {
	Excavation float64 `json:"excavation"`
	Foundation float64 `json:"foundation"`
	Buildings  float64 `json:"buildings"`
	PartyWalls float64 `json:"party_walls"`
	Accessory  float64 `json:"accessory"`
	SiteWork   float64 `json:"site_work"`
	Total      float64 `json:"total"`
}

// Financing holds the loan and operating assumptions behind the summary.
type Financing struct {
	InterestRate   float64 `json:"interest_rate"`
	DebtTermYears  int     `json:"debt_term_years"`
	OpsPerUnitYear float64 `json:"ops_per_unit_year"`
}

// DefaultFinancing returns the package defaults.
func DefaultFinancing() Financing {
	return Financing{
		InterestRate:   DefaultInterestRate,
		DebtTermYears:  DefaultDebtTermYears,
		OpsPerUnitYear: DefaultOpsPerUnitYear,
	}
}

// Report is the complete cost output.
type Report struct {
	Estimate  Breakdown `json:"estimate"`
	Financing Financing `json:"financing"`

	Summary struct {
		TotalConstruction    float64 `json:"total_construction"`
		FloorArea            float64 `json:"floor_area"`
		PerUnit              float64 `json:"per_unit"`
		PerM2                float64 `json:"per_m2"`
		AnnualDebtService    float64 `json:"annual_debt_service"`
		AnnualOperations     float64 `json:"annual_operations"`
		BreakEvenMonthlyRent float64 `json:"break_even_monthly_rent"`
	} `json:"summary"`
}

// Estimate prices a layout on a site of siteArea m². A nil layout yields an
// empty report.
func Estimate(res *layout.Result, siteArea float64, fin Financing) *Report {
	report := &Report{Financing: fin}
	if res == nil {
		return report
	}

	var footprint, floorArea, wallArea float64
	for _, b := range res.Buildings {
		footprint += b.Footprint()
		floorArea += b.Footprint() * float64(analytics.EstimateFloors(b.Height))
		if res.Config.LayoutType != layout.Separate && len(b.Units) > 1 {
			wallArea += float64(len(b.Units)-1) * b.Depth * b.Height
		}
	}

	var accessoryArea, accessoryCost float64
	if a := res.Accessory; a != nil {
		footprint += a.Width * a.Depth
		accessoryArea = a.Width * a.Depth * float64(analytics.EstimateFloors(a.Height))
		rate := CoachHouseCostPerM2
		if a.Kind == accessory.KindGarage {
			rate = GarageCostPerM2
		}
		accessoryCost = accessoryArea * rate
	}

	report.Estimate = makeBreakdown(
		footprint*FoundationDepth*ExcavationCostPerM3,
		footprint*SlabCostPerM2,
		floorArea*ResidentialCostPerM2,
		wallArea*PartyWallCostPerM2,
		accessoryCost,
		math.Max(0, siteArea-footprint)*SiteWorkCostPerM2,
	)
	floorArea += accessoryArea

	total := report.Estimate.Total
	units := len(res.Units())
	annualDebt := computeAnnualDebtService(total, fin.InterestRate, fin.DebtTermYears)
	annualOps := fin.OpsPerUnitYear * float64(units)

	report.Summary.TotalConstruction = total
	report.Summary.FloorArea = floorArea
	if units > 0 {
		report.Summary.PerUnit = total / float64(units)
		report.Summary.BreakEvenMonthlyRent = (annualDebt + annualOps) / float64(units) / 12.0
	}
	if floorArea > 0 {
		report.Summary.PerM2 = total / floorArea
	}
	report.Summary.AnnualDebtService = annualDebt
	report.Summary.AnnualOperations = annualOps
	return report
}

// computeAnnualDebtService uses the standard annuity formula.
// P * r(1+r)^n / ((1+r)^n - 1)
// At 0% interest, returns principal / term.
func computeAnnualDebtService(principal, rate float64, termYears int) float64 {
	if termYears <= 0 {
		return 0
	}
	if rate <= 0 {
		return principal / float64(termYears)
	}
	n := float64(termYears)
	factor := math.Pow(1+rate, n)
	return principal * rate * factor / (factor - 1)
}

func makeBreakdown(excavation, foundation, buildings, walls, outbuilding, site float64) Breakdown {
	return Breakdown{
		Excavation: excavation,
		Foundation: foundation,
		Buildings:  buildings,
		PartyWalls: walls,
		Accessory:  outbuilding,
		SiteWork:   site,
		Total:      excavation + foundation + buildings + walls + outbuilding + site,
	}
}
