// Package routing lays out the underground service connections that join
// each placed building to the mains in the street or lane.
package routing

import (
	"fmt"
	"math"

	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// NetworkType identifies a utility service.
type NetworkType string

const (
	NetworkSewer      NetworkType = "sewer"
	NetworkWater      NetworkType = "water"
	NetworkElectrical NetworkType = "electrical"
	NetworkTelecom    NetworkType = "telecom"
)

// Segment is one straight run of service pipe or conduit. Start and End are
// [x, y, z] site coordinates with y as burial depth below grade.
type Segment struct {
	ID          string      `json:"id"`
	Network     NetworkType `json:"network"`
	Building    int         `json:"building"`
	Start       [3]float64  `json:"start"`
	End         [3]float64  `json:"end"`
	Diameter    float64     `json:"diameter"`
	Capacity    float64     `json:"capacity"` // network-specific units
	IsLateral   bool        `json:"is_lateral"`
	ConnectedTo []string    `json:"connected_to,omitempty"`
}

// Length returns the plan length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.End[0]-s.Start[0], s.End[2]-s.Start[2])
}

// MaxLateralLength is the longest lateral accepted without a warning.
const MaxLateralLength = 30.0

// networkDef holds the sizing parameters for one network.
type networkDef struct {
	net       NetworkType
	depth     float64
	lateralD  float64
	branchD   float64
	perUnit   float64
	fromLane  bool // served from the lane when one exists
	dwellings bool // only dwellings are connected
}

var networks = []networkDef{
	{NetworkSewer, -2.4, 0.150, 0.100, 1.5, false, true},     // L/s per unit
	{NetworkWater, -1.8, 0.050, 0.025, 0.6, false, true},     // L/s per unit
	{NetworkElectrical, -0.9, 0.100, 0.050, 12, true, false}, // kVA per unit
	{NetworkTelecom, -0.6, 0.050, 0.025, 1, true, true},      // lines per unit
}

// Input locates the property lines the services run to.
type Input struct {
	Layout  *layout.Result
	StreetZ float64
	LaneZ   float64
	HasLane bool
}

// served is one structure that needs connecting.
type served struct {
	index    int
	name     string
	x, z     float64
	width    float64
	depth    float64
	units    []float64 // unit centre x along the facing edge
	dwelling bool
}

// RouteServices runs a lateral from the property line to the facing wall of
// every building, with branches along that wall to each unit.
func RouteServices(in Input) ([]Segment, *validation.Report) {
	report := validation.NewReport()
	if in.Layout == nil || len(in.Layout.Buildings) == 0 {
		report.AddWarning(validation.Result{
			Stage:   validation.StageServices,
			Message: "no buildings to connect to services",
		})
		return nil, report
	}

	targets := collectTargets(in.Layout)
	var all []Segment
	for _, nd := range networks {
		lineZ := in.StreetZ
		if nd.fromLane && in.HasLane {
			lineZ = in.LaneZ
		}
		for _, t := range targets {
			if nd.dwellings && !t.dwelling {
				continue
			}
			all = append(all, routeTarget(nd, t, lineZ)...)
		}
	}

	conn := BuildConnectivity(all)
	for i := range all {
		all[i].ConnectedTo = conn[all[i].ID]
	}

	counts := map[NetworkType]int{}
	total := 0.0
	for _, seg := range all {
		counts[seg.Network]++
		total += seg.Length()
		if seg.IsLateral && seg.Length() > MaxLateralLength {
			report.AddWarning(validation.Result{
				Stage:       validation.StageServices,
				Code:        validation.CodeLongLateral,
				Message:     fmt.Sprintf("%s lateral is %.1fm long", seg.ID, seg.Length()),
				Field:       seg.ID,
				ActualValue: math.Round(seg.Length()*10) / 10,
				Expected:    fmt.Sprintf("<= %.0fm", MaxLateralLength),
				Suggestions: []string{"move the building toward the service property line"},
			})
		}
	}

	report.AddInfo(validation.Result{
		Stage: validation.StageServices,
		Message: fmt.Sprintf("routed %d service segments (%.1fm): sewer=%d water=%d electrical=%d telecom=%d",
			len(all), total, counts[NetworkSewer], counts[NetworkWater],
			counts[NetworkElectrical], counts[NetworkTelecom]),
	})
	return all, report
}

// TotalLength sums the plan length of the segments.
func TotalLength(segments []Segment) float64 {
	total := 0.0
	for _, s := range segments {
		total += s.Length()
	}
	return total
}

func collectTargets(res *layout.Result) []served {
	var out []served
	for _, b := range res.Buildings {
		t := served{
			index:    b.Index,
			name:     fmt.Sprintf("b%d", b.Index+1),
			x:        b.X,
			z:        b.Z,
			width:    b.Width,
			depth:    b.Depth,
			dwelling: true,
		}
		for _, u := range b.Units {
			t.units = append(t.units, u.X+u.Width/2)
		}
		out = append(out, t)
	}
	if a := res.Accessory; a != nil {
		t := served{
			index:    len(res.Buildings),
			name:     "accessory",
			x:        a.X,
			z:        a.Z,
			width:    a.Width,
			depth:    a.Depth,
			dwelling: a.Kind == accessory.KindCoachHouse,
		}
		t.units = []float64{a.X + a.Width/2}
		out = append(out, t)
	}
	return out
}

// routeTarget connects one structure. The lateral meets the facing wall at
// its midpoint; unit branches run along the wall from there.
func routeTarget(nd networkDef, t served, lineZ float64) []Segment {
	wallZ := t.z
	if math.Abs(lineZ-(t.z+t.depth)) < math.Abs(lineZ-t.z) {
		wallZ = t.z + t.depth
	}
	entryX := t.x + t.width/2
	n := len(t.units)
	if n == 0 {
		n = 1
	}

	prefix := fmt.Sprintf("%s-%s", nd.net, t.name)
	segs := []Segment{{
		ID:        prefix + "-lateral",
		Network:   nd.net,
		Building:  t.index,
		Start:     [3]float64{entryX, nd.depth, lineZ},
		End:       [3]float64{entryX, nd.depth, wallZ},
		Diameter:  nd.lateralD,
		Capacity:  nd.perUnit * float64(n),
		IsLateral: true,
	}}
	if len(t.units) < 2 {
		return segs
	}
	for i, ux := range t.units {
		if math.Abs(ux-entryX) < 1e-6 {
			continue
		}
		segs = append(segs, Segment{
			ID:       fmt.Sprintf("%s-unit%d", prefix, i+1),
			Network:  nd.net,
			Building: t.index,
			Start:    [3]float64{entryX, nd.depth, wallZ},
			End:      [3]float64{ux, nd.depth, wallZ},
			Diameter: nd.branchD,
			Capacity: nd.perUnit,
		})
	}
	return segs
}
