package parcel

// laneDedicationDistricts are the zoning districts where a lane dedication
// is routinely requested.
var laneDedicationDistricts = map[string]bool{
	"R1-1": true,
	"RT-7": true,
	"RT-9": true,
}

// Dedication flags land the owner may have to cede as a development
// condition. The assessment is a heuristic; directions are defaults for the
// user to edit.
type Dedication struct {
	LaneDedication      bool   `json:"potential_lane_dedication"`
	StreetWidening      bool   `json:"potential_street_widening"`
	StatutoryRightOfWay bool   `json:"potential_statutory_right_of_way"`
	LaneDirection       string `json:"lane_dedication_direction,omitempty"`
	WideningDirection   string `json:"street_widening_direction,omitempty"`
}

// AssessDedication returns the likely dedications for a lot. Corner lots may
// owe both a lane and a street widening; some districts always flag a lane.
// A statutory right of way needs legal survey data and is never flagged.
func AssessDedication(lot LotType, district string) Dedication {
	corner := lot == LotCorner
	d := Dedication{
		LaneDedication: corner || laneDedicationDistricts[district],
		StreetWidening: corner,
	}
	if d.LaneDedication {
		d.LaneDirection = "N"
	}
	if d.StreetWidening {
		d.WideningDirection = "E"
	}
	return d
}
