package analytics

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
)

// FloorHeight is the assumed storey height in meters.
const FloorHeight = 3.0

// heightBands map a footprint area upper bound (m²) to a typical building
// height for residential stock.
var heightBands = []struct {
	below  float64
	height float64
}{
	{80, 6.0},
	{150, 8.1},
	{300, 10.5},
	{600, 12.0},
}

const tallestBand = 15.0

// EstimateHeight guesses a building's height from its footprint area.
// A non-positive area has no estimate.
func EstimateHeight(footprint float64) float64 {
	if footprint <= 0 {
		return 0
	}
	for _, b := range heightBands {
		if footprint < b.below {
			return b.height
		}
	}
	return tallestBand
}

// EstimateFloors converts a height to a storey count, at least one.
func EstimateFloors(height float64) int {
	return max(1, int(math.Round(height/FloorHeight)))
}

// estimateExisting derives height, floors, FAR and coverage for an existing
// footprint on a site of siteArea m².
func estimateExisting(footprint orb.Ring, siteArea float64) *ExistingBuilding {
	area := geo.RingArea(footprint)
	if area <= 0 {
		return nil
	}
	h := EstimateHeight(area)
	floors := EstimateFloors(h)
	e := &ExistingBuilding{
		FootprintArea:   area,
		EstimatedHeight: h,
		Floors:          floors,
		FloorArea:       area * float64(floors),
	}
	if siteArea > 0 {
		e.FAR = e.FloorArea / siteArea
		e.CoveragePercent = area / siteArea * 100
	}
	return e
}
