package routing

import (
	"math"
	"strings"
	"testing"

	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// fourplex is one 12m x 10m building set 6m back, with four 3m units.
func fourplex() *layout.Result {
	b := layout.Building{Width: 12, Depth: 10, Height: 11.5, X: 1.5, Z: 6}
	for i := 0; i < 4; i++ {
		b.Units = append(b.Units, layout.Unit{Index: i, Width: 3, Depth: 10, Height: 11.5, X: 1.5 + 3*float64(i), Z: 6})
	}
	return &layout.Result{Buildings: []layout.Building{b}}
}

func setupRouting(t *testing.T, hasLane bool) ([]Segment, *validation.Report) {
	t.Helper()
	segments, report := RouteServices(Input{Layout: fourplex(), StreetZ: 0, LaneZ: 30, HasLane: hasLane})
	if len(segments) == 0 {
		t.Fatal("no segments routed")
	}
	return segments, report
}

func find(segments []Segment, id string) (Segment, bool) {
	for _, s := range segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

func TestRouteServicesSegmentCount(t *testing.T) {
	segments, report := setupRouting(t, true)
	// One lateral and four unit branches per network.
	if len(segments) != 20 {
		t.Fatalf("got %d segments, want 20", len(segments))
	}
	if len(report.Info) != 1 || !strings.Contains(report.Info[0].Message, "sewer=5") {
		t.Errorf("unexpected info: %+v", report.Info)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", report.Warnings)
	}
}

func TestRouteServicesStreetAndLane(t *testing.T) {
	segments, _ := setupRouting(t, true)

	sewer, ok := find(segments, "sewer-b1-lateral")
	if !ok {
		t.Fatal("sewer lateral missing")
	}
	if sewer.Start[2] != 0 || sewer.End[2] != 6 || sewer.Start[0] != 7.5 {
		t.Errorf("sewer lateral runs %v -> %v, want street to front wall at x=7.5", sewer.Start, sewer.End)
	}
	if sewer.Capacity != 6 {
		t.Errorf("sewer lateral capacity = %.1f, want 6", sewer.Capacity)
	}

	elec, ok := find(segments, "electrical-b1-lateral")
	if !ok {
		t.Fatal("electrical lateral missing")
	}
	if elec.Start[2] != 30 || elec.End[2] != 16 {
		t.Errorf("electrical lateral runs %v -> %v, want lane to rear wall", elec.Start, elec.End)
	}
	if math.Abs(elec.Length()-14) > 1e-9 {
		t.Errorf("electrical lateral length = %.2f, want 14", elec.Length())
	}

	segments, _ = setupRouting(t, false)
	elec, _ = find(segments, "electrical-b1-lateral")
	if elec.Start[2] != 0 || elec.End[2] != 6 {
		t.Errorf("without a lane the electrical lateral should come from the street, got %v -> %v", elec.Start, elec.End)
	}
}

func TestRouteServicesConnectivity(t *testing.T) {
	segments, _ := setupRouting(t, true)
	for _, seg := range segments {
		if len(seg.ConnectedTo) != 4 {
			t.Errorf("%s: %d connections, want 4", seg.ID, len(seg.ConnectedTo))
		}
		for _, id := range seg.ConnectedTo {
			if !strings.HasPrefix(id, string(seg.Network)+"-") {
				t.Errorf("%s connected across networks to %s", seg.ID, id)
			}
		}
	}
}

func TestRouteServicesDepthOrder(t *testing.T) {
	segments, _ := setupRouting(t, true)
	depth := map[NetworkType]float64{}
	for _, seg := range segments {
		if seg.Start[1] != seg.End[1] {
			t.Errorf("%s is not level", seg.ID)
		}
		depth[seg.Network] = seg.Start[1]
	}
	if !(depth[NetworkSewer] < depth[NetworkWater] && depth[NetworkWater] < depth[NetworkElectrical] &&
		depth[NetworkElectrical] < depth[NetworkTelecom] && depth[NetworkTelecom] < 0) {
		t.Errorf("unexpected burial depths: %v", depth)
	}
}

func TestRouteServicesAccessory(t *testing.T) {
	res := fourplex()
	res.Accessory = &accessory.Structure{Kind: accessory.KindGarage, X: 3, Z: 24, Width: 6, Depth: 5, Height: 4}
	segments, _ := RouteServices(Input{Layout: res, LaneZ: 30, HasLane: true})

	var garage []Segment
	for _, s := range segments {
		if s.Building == 1 {
			garage = append(garage, s)
		}
	}
	if len(garage) != 1 || garage[0].Network != NetworkElectrical {
		t.Fatalf("garage should only get power, got %+v", garage)
	}
	if garage[0].End[2] != 29 {
		t.Errorf("garage lateral ends at z=%.1f, want rear wall 29", garage[0].End[2])
	}

	res.Accessory.Kind = accessory.KindCoachHouse
	segments, _ = RouteServices(Input{Layout: res, LaneZ: 30, HasLane: true})
	count := 0
	for _, s := range segments {
		if s.Building == 1 {
			count++
		}
	}
	if count != 4 {
		t.Errorf("coach house segments = %d, want a lateral per network", count)
	}
}

func TestRouteServicesLongLateral(t *testing.T) {
	res := fourplex()
	res.Buildings[0].Z = 40
	_, report := RouteServices(Input{Layout: res, LaneZ: 60})

	found := false
	for _, w := range report.Warnings {
		if w.Code == validation.CodeLongLateral && w.Field == "sewer-b1-lateral" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a long lateral warning, got %+v", report.Warnings)
	}
}

func TestRouteServicesNoLayout(t *testing.T) {
	segments, report := RouteServices(Input{})
	if segments != nil {
		t.Errorf("expected no segments, got %d", len(segments))
	}
	if len(report.Warnings) != 1 {
		t.Errorf("expected one warning, got %+v", report.Warnings)
	}
}

func TestTotalLength(t *testing.T) {
	segs := []Segment{
		{Start: [3]float64{0, -1, 0}, End: [3]float64{3, -1, 4}},
		{Start: [3]float64{0, -1, 0}, End: [3]float64{0, -1, 2}},
	}
	if got := TotalLength(segs); math.Abs(got-7) > 1e-9 {
		t.Errorf("total length = %.2f, want 7", got)
	}
}

func TestBuildConnectivitySymmetric(t *testing.T) {
	segs := []Segment{
		{ID: "a", Network: NetworkWater, Start: [3]float64{0, -1, 0}, End: [3]float64{5, -1, 0}},
		{ID: "b", Network: NetworkWater, Start: [3]float64{5.01, -1, 0}, End: [3]float64{5, -1, 5}},
		{ID: "c", Network: NetworkSewer, Start: [3]float64{5, -2, 0}, End: [3]float64{9, -2, 0}},
		{ID: "d", Network: NetworkWater, Start: [3]float64{20, -1, 0}, End: [3]float64{25, -1, 0}},
	}
	conn := BuildConnectivity(segs)

	if got := conn["a"]; len(got) != 1 || got[0] != "b" {
		t.Errorf("a connects to %v, want [b]", got)
	}
	if got := conn["b"]; len(got) != 1 || got[0] != "a" {
		t.Errorf("b connects to %v, want [a]", got)
	}
	if _, ok := conn["c"]; ok {
		t.Errorf("c is on another network and should have no connections, got %v", conn["c"])
	}
	if _, ok := conn["d"]; ok {
		t.Errorf("d is isolated, got %v", conn["d"])
	}
}
