package layout

import (
	"fmt"
	"math"
)

// Unit-size rules.
const (
	MinUnitSize       = 35.0 // m² per unit
	DefaultCoverage   = 0.5
	CourtyardMinUnits = 4
	CourtyardMaxUnits = 6

	courtyardFrontArea  = 0.55
	courtyardFrontShare = 0.45
	courtyardRearShare  = 0.35
)

// InfeasibleLayoutError is returned when no unit can be placed at all.
type InfeasibleLayoutError struct {
	Requested      int
	MaxViableUnits int
	Reason         string
}

func (e *InfeasibleLayoutError) Error() string {
	return fmt.Sprintf("layout infeasible for %d units (max viable %d): %s",
		e.Requested, e.MaxViableUnits, e.Reason)
}

// MaxUnitsPerBuilding is 8 for multiplex buildings and 3 otherwise.
func MaxUnitsPerBuilding(t LayoutType) int {
	if t == Separate {
		return 3
	}
	return 8
}

func coverageOrDefault(c float64) float64 {
	if c <= 0 {
		return DefaultCoverage
	}
	return c
}

// Capacity compares the floor area a program needs against what the
// site's coverage allows.
type Capacity struct {
	Units           int     `json:"units"`
	RequiredArea    float64 `json:"required_area"`
	AvailableArea   float64 `json:"available_area"`
	AvgUnitSize     float64 `json:"avg_unit_size"`
	MaxViableUnits  int     `json:"max_viable_units"`
	LargestBuilding int     `json:"largest_building"`
	MaxPerBuilding  int     `json:"max_per_building"`
}

// Sufficient reports whether every unit gets at least MinUnitSize.
func (c Capacity) Sufficient() bool { return c.RequiredArea <= c.AvailableArea }

// WithinBuildingLimit reports whether the largest building respects the
// per-building unit cap.
func (c Capacity) WithinBuildingLimit() bool { return c.LargestBuilding <= c.MaxPerBuilding }

// CheckCapacity sizes the program in cfg against a site.
func CheckCapacity(siteArea float64, cfg Configuration) Capacity {
	c := Capacity{
		Units:          cfg.TotalUnits(),
		AvailableArea:  siteArea * coverageOrDefault(cfg.Coverage),
		MaxPerBuilding: MaxUnitsPerBuilding(cfg.LayoutType),
	}
	c.RequiredArea = float64(c.Units) * MinUnitSize
	c.MaxViableUnits = int(math.Floor(c.AvailableArea/MinUnitSize + 1e-9))
	if c.Units > 0 {
		c.AvgUnitSize = c.AvailableArea / float64(c.Units)
	}
	for _, n := range cfg.UnitsPerBuilding {
		if n > c.LargestBuilding {
			c.LargestBuilding = n
		}
	}
	return c
}

// Allocation splits a courtyard program's floor area between its rows.
type Allocation struct {
	FrontUnits    int     `json:"front_units"`
	RearUnits     int     `json:"rear_units"`
	FrontArea     float64 `json:"front_area"`
	RearArea      float64 `json:"rear_area"`
	FrontUnitSize float64 `json:"front_unit_size"`
	RearUnitSize  float64 `json:"rear_unit_size"`
}

// CourtyardSplit puts the larger half of the units in the front row.
func CourtyardSplit(units int) (front, rear int) {
	front = (units + 1) / 2
	return front, units - front
}

// CourtyardAllocation gives the front row 55% of the allowed building area
// and the rear row the rest, and checks both rows' units against
// MinUnitSize.
func CourtyardAllocation(siteArea, coverage float64, units int) (Allocation, error) {
	if units < CourtyardMinUnits || units > CourtyardMaxUnits {
		return Allocation{}, fmt.Errorf("courtyard layout supports %d to %d units, got %d",
			CourtyardMinUnits, CourtyardMaxUnits, units)
	}
	total := siteArea * coverageOrDefault(coverage)
	a := Allocation{
		FrontArea: total * courtyardFrontArea,
		RearArea:  total * (1 - courtyardFrontArea),
	}
	a.FrontUnits, a.RearUnits = CourtyardSplit(units)
	a.FrontUnitSize = a.FrontArea / float64(a.FrontUnits)
	a.RearUnitSize = a.RearArea / float64(a.RearUnits)
	if a.FrontUnitSize < MinUnitSize || a.RearUnitSize < MinUnitSize {
		return a, fmt.Errorf("courtyard units too small: front %.1fm², rear %.1fm², minimum %.0fm²",
			a.FrontUnitSize, a.RearUnitSize, MinUnitSize)
	}
	return a, nil
}
