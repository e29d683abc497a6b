package layout

import "math"

// Spacing and size constants, in meters.
const (
	Separation          = 2.4
	CourtyardGap        = 6.1
	CourtyardRowSpacing = 3.0
	MinUnitWidth        = 3.0
	RecommendedWidth    = 4.5
	MinCourtyardDepth   = 33.5
	MinBuildingArea     = 25.0
	MaxTravelDistance   = 45.0

	// MainHeight caps frontage buildings regardless of the zone.
	MainHeight = 11.5
)

// BuildingHeight returns the height of the main buildings under a zone's
// maximum. A zero maximum means unknown.
func BuildingHeight(zoneMax float64) float64 {
	if zoneMax <= 0 {
		return MainHeight
	}
	return math.Min(zoneMax, MainHeight)
}

// FireTravelDistance estimates the walk from the street to the entrance of
// a courtyard's rear row: front setback, front row, courtyard, then half of
// the rear row.
func FireTravelDistance(frontSetback, depth float64) float64 {
	return frontSetback + depth*courtyardFrontShare + CourtyardGap + depth*courtyardRearShare*0.5
}
