package analytics

import (
	"testing"

	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

func defaultZone() site.Zone {
	return site.Zone{District: "RT-7", Front: 6, Side: 1.2, Rear: 7.5, MaxHeight: 10.7, FAR: 0.7, Coverage: 0.5}
}

// fourplex is one 12 x 10 m building of four units plus a 4 x 5 m coach house.
func fourplex() *layout.Result {
	b := layout.Building{Width: 12, Depth: 10, Height: 11.5}
	for i := 0; i < 4; i++ {
		b.Units = append(b.Units, layout.Unit{Index: i, Width: 3, Depth: 10, Height: 11.5, X: float64(i) * 3})
	}
	return &layout.Result{
		Buildings: []layout.Building{b},
		Accessory: &accessory.Structure{Kind: accessory.KindCoachHouse, Width: 4, Depth: 5, Height: 8.5},
	}
}

func TestResolveSiteOnly(t *testing.T) {
	m, report := Resolve(Input{SiteArea: 450, Zone: defaultZone()})

	if m.Plan != nil || m.Existing != nil {
		t.Errorf("expected no plan or existing metrics, got %+v", m)
	}
	if m.Method != "zoning_maximums" {
		t.Errorf("Method = %q", m.Method)
	}
	if m.Zoning.MaxFAR != 0.7 || m.Zoning.District != "RT-7" {
		t.Errorf("Zoning = %+v", m.Zoning)
	}
	if !report.Valid || len(report.Info) != 0 {
		t.Errorf("unexpected findings: %s", report.Summary)
	}
}

func TestResolveExistingReference(t *testing.T) {
	m, _ := Resolve(Input{SiteArea: 500, Footprint: squareRing(10), Zone: defaultZone()})
	if m.Existing == nil {
		t.Fatal("expected existing building estimate")
	}
	if m.Method != "zoning_maximums_with_calculated_reference" {
		t.Errorf("Method = %q", m.Method)
	}
	if m.Existing.Floors != 3 {
		t.Errorf("Floors = %d, want 3", m.Existing.Floors)
	}
}

func TestResolvePlanMetrics(t *testing.T) {
	m, report := Resolve(Input{SiteArea: 450, Zone: defaultZone(), Layout: fourplex()})
	p := m.Plan
	if p == nil {
		t.Fatal("expected plan metrics")
	}

	// 120 m² x 4 floors + 20 m² x 3 floors
	if !approxEqual(p.FloorArea, 540, 1e-9) {
		t.Errorf("FloorArea = %v, want 540", p.FloorArea)
	}
	if !approxEqual(p.FAR, 1.2, 1e-9) {
		t.Errorf("FAR = %v, want 1.2", p.FAR)
	}
	if !approxEqual(p.Coverage, 140.0/450, 1e-9) {
		t.Errorf("Coverage = %v, want %v", p.Coverage, 140.0/450)
	}
	if p.Units != 4 || p.Buildings != 1 || p.Floors != 4 {
		t.Errorf("units/buildings/floors = %d/%d/%d", p.Units, p.Buildings, p.Floors)
	}
	if !approxEqual(p.AvgUnitSize, 120, 1e-9) {
		t.Errorf("AvgUnitSize = %v, want 120", p.AvgUnitSize)
	}

	// FAR and height exceed RT-7, coverage does not.
	if len(report.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(report.Warnings), report.Messages(validation.SeverityWarning))
	}
	for _, w := range report.Warnings {
		if w.Code != validation.CodeZoningExceeded || w.Stage != validation.StageMetrics {
			t.Errorf("unexpected warning %+v", w)
		}
	}
	if !report.Contains("planned FAR 1.20 exceeds RT-7 maximum 0.70") {
		t.Errorf("missing FAR warning: %v", report.Messages(validation.SeverityWarning))
	}
	if !report.Contains("planned height 11.5m exceeds RT-7 maximum 10.7m") {
		t.Errorf("missing height warning: %v", report.Messages(validation.SeverityWarning))
	}
	if !report.Valid {
		t.Error("zoning excess should not invalidate the report")
	}
}

func TestResolvePlanWithinLimits(t *testing.T) {
	z := defaultZone()
	z.FAR = 1.5
	z.MaxHeight = 12
	_, report := Resolve(Input{SiteArea: 450, Zone: z, Layout: fourplex()})
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Messages(validation.SeverityWarning))
	}
	if len(report.Info) != 1 {
		t.Errorf("expected one info summary, got %d", len(report.Info))
	}
}

func TestResolveCoverageExceeded(t *testing.T) {
	z := defaultZone()
	z.FAR = 0
	z.MaxHeight = 0
	z.Coverage = 0.25
	_, report := Resolve(Input{SiteArea: 450, Zone: z, Layout: fourplex()})
	if r := report.Find(validation.CodeZoningExceeded); r == nil || r.Field != "zoning.coverage" {
		t.Errorf("expected coverage finding, got %v", report.Messages(validation.SeverityWarning))
	}
}
