package layout

import (
	"fmt"
	"math"
)

// StandardRow places buildings left to right along the frontage, each unit
// spanning the full buildable depth. It is also the fallback for every
// other topology.
type StandardRow struct{}

func (StandardRow) Kind() BuildingLayout { return StandardRowLayout }

func (StandardRow) Feasible(_ Input, box Box) error {
	if box.Width <= 0 || box.Depth <= 0 {
		return fmt.Errorf("buildable box %.1fm x %.1fm is empty", box.Width, box.Depth)
	}
	return nil
}

// Place splits the width left after building separations evenly between
// units. When units come out narrower than MinUnitWidth the unit count is
// cut to what fits and spread back over the buildings; when not even one
// unit fits, a single unit takes the full width. A frontage too narrow for
// the separations gets a single building.
func (StandardRow) Place(in Input, box Box) ([]Building, error) {
	groups := append([]int(nil), in.Config.UnitsPerBuilding...)
	n := sum(groups)
	if n <= 0 {
		return nil, &InfeasibleLayoutError{Reason: "no units requested"}
	}
	if box.Width <= 0 || box.Depth <= 0 {
		return nil, &InfeasibleLayoutError{Requested: n, Reason: "buildable area is empty"}
	}

	avail := box.Width - Separation*float64(len(groups)-1)
	if avail <= 0 {
		// Separations alone fill the frontage; one building, still capped.
		n = min(n, MaxUnitsPerBuilding(in.Config.LayoutType))
		groups = []int{n}
		avail = box.Width
	}
	unitWidth := avail / float64(n)
	if unitWidth < MinUnitWidth {
		viable := int(math.Floor(avail / MinUnitWidth))
		if viable > 0 {
			groups = redistribute(viable, len(groups))
			n = viable
		} else {
			groups = []int{1}
			n = 1
		}
		avail = box.Width - Separation*float64(len(groups)-1)
		unitWidth = avail / float64(n)
	}
	return placeRow(groups, unitWidth, box, BuildingHeight(in.MaxHeight)), nil
}

func placeRow(groups []int, unitWidth float64, box Box, height float64) []Building {
	out := make([]Building, 0, len(groups))
	x := box.X
	unit := 0
	for i, g := range groups {
		b := Building{
			Index:  i,
			Width:  unitWidth * float64(g),
			Depth:  box.Depth,
			Height: height,
			X:      x,
			Z:      box.Z,
			Row:    RowFront,
		}
		for j := 0; j < g; j++ {
			b.Units = append(b.Units, Unit{
				Index:    unit,
				Building: i,
				Width:    unitWidth,
				Depth:    box.Depth,
				Height:   height,
				X:        x + float64(j)*unitWidth,
				Z:        box.Z,
				Row:      RowFront,
			})
			unit++
		}
		out = append(out, b)
		x += b.Width + Separation
	}
	return out
}

// redistribute spreads units over at most the given number of buildings,
// giving any remainder to the later buildings.
func redistribute(units, buildings int) []int {
	if buildings > units {
		buildings = units
	}
	if buildings < 1 {
		buildings = 1
	}
	out := make([]int, buildings)
	base, extra := units/buildings, units%buildings
	for i := range out {
		out[i] = base
		if i >= buildings-extra {
			out[i]++
		}
	}
	return out
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
