package analytics

import (
	"fmt"

	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// tolerance absorbs rounding in the layout arithmetic.
const tolerance = 1e-6

// validatePlan compares the plan metrics to the zoning maxima.
func validatePlan(m *SiteMetrics, report *validation.Report) {
	validateFAR(m, report)
	validateCoverage(m, report)
	validateHeight(m, report)
	validateUnitSize(m, report)
}

func validateFAR(m *SiteMetrics, report *validation.Report) {
	p, z := m.Plan, m.Zoning
	if z.MaxFAR <= 0 || m.SiteArea <= 0 || p.FAR <= z.MaxFAR+tolerance {
		return
	}
	allowed := z.MaxFAR * m.SiteArea
	report.AddWarning(validation.Result{
		Stage:       validation.StageMetrics,
		Code:        validation.CodeZoningExceeded,
		Message:     fmt.Sprintf("planned FAR %.2f exceeds %s maximum %.2f", p.FAR, z.District, z.MaxFAR),
		Field:       "zoning.far",
		ActualValue: p.FAR,
		Expected:    fmt.Sprintf("<= %.2f", z.MaxFAR),
		Suggestions: []string{
			fmt.Sprintf("Reduce total floor area to %.0fm² or less", allowed),
			"Lower the building height or the number of units",
		},
	})
}

func validateCoverage(m *SiteMetrics, report *validation.Report) {
	p, z := m.Plan, m.Zoning
	if z.MaxCoverage <= 0 || m.SiteArea <= 0 || p.Coverage <= z.MaxCoverage+tolerance {
		return
	}
	report.AddWarning(validation.Result{
		Stage:       validation.StageMetrics,
		Code:        validation.CodeZoningExceeded,
		Message:     fmt.Sprintf("planned coverage %.1f%% exceeds %s maximum %.1f%%", p.Coverage*100, z.District, z.MaxCoverage*100),
		Field:       "zoning.coverage",
		ActualValue: p.Coverage,
		Expected:    fmt.Sprintf("<= %.2f", z.MaxCoverage),
		Suggestions: []string{"Set building.coverage at or below the district maximum"},
	})
}

func validateHeight(m *SiteMetrics, report *validation.Report) {
	p, z := m.Plan, m.Zoning
	if z.MaxHeight <= 0 || p.MaxHeight <= z.MaxHeight+tolerance {
		return
	}
	report.AddWarning(validation.Result{
		Stage:       validation.StageMetrics,
		Code:        validation.CodeZoningExceeded,
		Message:     fmt.Sprintf("planned height %.1fm exceeds %s maximum %.1fm", p.MaxHeight, z.District, z.MaxHeight),
		Field:       "zoning.max_height",
		ActualValue: p.MaxHeight,
		Expected:    fmt.Sprintf("<= %.1f", z.MaxHeight),
	})
}

func validateUnitSize(m *SiteMetrics, report *validation.Report) {
	p := m.Plan
	if p.Units == 0 {
		return
	}
	report.AddInfo(validation.Result{
		Stage:       validation.StageMetrics,
		Message:     fmt.Sprintf("%d units averaging %.0fm² over %d floors", p.Units, p.AvgUnitSize, p.Floors),
		ActualValue: p.AvgUnitSize,
	})
}
