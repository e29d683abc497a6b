package layout

import (
	"fmt"
)

// Topology is one way of arranging buildings on the lot. Feasible reports
// why the topology cannot be used for a request; Place is only called once
// Feasible has passed.
type Topology interface {
	Kind() BuildingLayout
	Feasible(in Input, box Box) error
	Place(in Input, box Box) ([]Building, error)
}

// TopologyMinUnits is the fewest units an L- or U-shaped layout takes.
const TopologyMinUnits = 3

// TopologyFor returns the topology for a layout name. The empty name is a
// standard row.
func TopologyFor(kind BuildingLayout) (Topology, error) {
	switch kind {
	case StandardRowLayout, "":
		return StandardRow{}, nil
	case CourtyardLayout:
		return Courtyard{}, nil
	case LShapedLayout:
		return LShaped{}, nil
	case UShapedLayout:
		return UShaped{}, nil
	}
	return nil, fmt.Errorf("unknown building layout %q", kind)
}

// rowUnitWidth is the width of each of count units sharing width with gap
// between neighbours.
func rowUnitWidth(width float64, count int, gap float64) float64 {
	if count <= 0 {
		return 0
	}
	return (width - gap*float64(count-1)) / float64(count)
}

// appendDetached adds count single-unit buildings, the i-th offset by
// (i*stepX, i*stepZ) from (x, z).
func appendDetached(out []Building, count int, x, z, w, d, stepX, stepZ, height float64, row Row) []Building {
	for i := 0; i < count; i++ {
		idx := len(out)
		bx, bz := x+float64(i)*stepX, z+float64(i)*stepZ
		out = append(out, Building{
			Index:  idx,
			Width:  w,
			Depth:  d,
			Height: height,
			X:      bx,
			Z:      bz,
			Row:    row,
			Units: []Unit{{
				Index:    idx,
				Building: idx,
				Width:    w,
				Depth:    d,
				Height:   height,
				X:        bx,
				Z:        bz,
				Row:      row,
			}},
		})
	}
	return out
}

func checkDims(what string, w, d float64) error {
	if w < MinUnitWidth {
		return fmt.Errorf("%s units would be %.2fm wide, below %.1fm", what, w, MinUnitWidth)
	}
	if d < MinUnitWidth {
		return fmt.Errorf("%s units would be %.2fm deep, below %.1fm", what, d, MinUnitWidth)
	}
	return nil
}

// Courtyard puts a front row and a shallower rear row of detached units on
// either side of an open courtyard.
type Courtyard struct{}

func (Courtyard) Kind() BuildingLayout { return CourtyardLayout }

func (Courtyard) Feasible(in Input, box Box) error {
	n := in.Config.TotalUnits()
	lotDepth := in.LotDepth
	if lotDepth <= 0 {
		lotDepth = box.Depth
	}
	if lotDepth < MinCourtyardDepth {
		return fmt.Errorf("lot depth %.1fm is below the %.1fm courtyard minimum", lotDepth, MinCourtyardDepth)
	}
	if n < CourtyardMinUnits || n > CourtyardMaxUnits {
		return fmt.Errorf("courtyard layout supports %d to %d units, got %d", CourtyardMinUnits, CourtyardMaxUnits, n)
	}
	if in.SiteArea > 0 {
		if _, err := CourtyardAllocation(in.SiteArea, in.Config.Coverage, n); err != nil {
			return err
		}
	}
	if need := box.Depth*(courtyardFrontShare+courtyardRearShare) + CourtyardGap; need > box.Depth {
		return fmt.Errorf("buildable depth %.1fm cannot hold both rows and the courtyard (%.1fm)", box.Depth, need)
	}
	front, _ := CourtyardSplit(n)
	return checkDims("front row", rowUnitWidth(box.Width, front, CourtyardRowSpacing), box.Depth*courtyardFrontShare)
}

func (Courtyard) Place(in Input, box Box) ([]Building, error) {
	front, rear := CourtyardSplit(in.Config.TotalUnits())
	h := BuildingHeight(in.MaxHeight)
	fd := box.Depth * courtyardFrontShare
	rd := box.Depth * courtyardRearShare

	fw := rowUnitWidth(box.Width, front, CourtyardRowSpacing)
	rw := rowUnitWidth(box.Width, rear, CourtyardRowSpacing)
	var out []Building
	out = appendDetached(out, front, box.X, box.Z, fw, fd, fw+CourtyardRowSpacing, 0, h, RowFront)
	out = appendDetached(out, rear, box.X, box.Z+fd+CourtyardGap, rw, rd, rw+CourtyardRowSpacing, 0, h, RowRear)
	return out, nil
}

// LShaped runs a row along the frontage and a perpendicular arm down the
// right side.
type LShaped struct{}

const (
	lFrontShare = 0.6
	lSideShare  = 0.4
)

func (LShaped) Kind() BuildingLayout { return LShapedLayout }

// LSplit puts the larger half of the units on the frontage.
func LSplit(units int) (front, side int) {
	front = (units + 1) / 2
	return front, units - front
}

func (l LShaped) dims(in Input, box Box) (front, side int, fw, fd, sw, sd float64) {
	front, side = LSplit(in.Config.TotalUnits())
	fw = rowUnitWidth(box.Width, front, Separation)
	fd = box.Depth * lFrontShare
	sw = box.Width * lSideShare
	if side > 0 {
		sd = (box.Depth - fd - Separation*float64(side)) / float64(side)
	}
	return
}

func (l LShaped) Feasible(in Input, box Box) error {
	if n := in.Config.TotalUnits(); n < TopologyMinUnits {
		return fmt.Errorf("L-shaped layout needs at least %d units, got %d", TopologyMinUnits, n)
	}
	_, _, fw, fd, sw, sd := l.dims(in, box)
	if err := checkDims("frontage", fw, fd); err != nil {
		return err
	}
	return checkDims("side", sw, sd)
}

func (l LShaped) Place(in Input, box Box) ([]Building, error) {
	front, side, fw, fd, sw, sd := l.dims(in, box)
	h := BuildingHeight(in.MaxHeight)
	var out []Building
	out = appendDetached(out, front, box.X, box.Z, fw, fd, fw+Separation, 0, h, RowFront)
	out = appendDetached(out, side, box.X+box.Width-sw, box.Z+fd+Separation, sw, sd, 0, sd+Separation, h, RowSide)
	return out, nil
}

// UShaped runs a row along the frontage and an arm down each side around a
// central void.
type UShaped struct{}

const (
	uFrontShare = 0.4
	uSideShare  = 0.3
)

func (UShaped) Kind() BuildingLayout { return UShapedLayout }

// USplit divides units between the frontage and the left and right arms,
// roughly in thirds.
func USplit(units int) (front, left, right int) {
	switch units {
	case 3:
		return 1, 1, 1
	case 4:
		return 2, 1, 1
	case 5:
		return 2, 2, 1
	}
	front = units / 3
	rest := units - front
	left = rest / 2
	return front, left, rest - left
}

func (u UShaped) dims(in Input, box Box) (front, left, right int, fw, fd, sw, sd float64) {
	front, left, right = USplit(in.Config.TotalUnits())
	fw = rowUnitWidth(box.Width, front, Separation)
	fd = box.Depth * uFrontShare
	sw = box.Width * uSideShare
	if k := max(left, right); k > 0 {
		sd = (box.Depth - fd - Separation*float64(k)) / float64(k)
	}
	return
}

func (u UShaped) Feasible(in Input, box Box) error {
	if n := in.Config.TotalUnits(); n < TopologyMinUnits {
		return fmt.Errorf("U-shaped layout needs at least %d units, got %d", TopologyMinUnits, n)
	}
	_, _, _, fw, fd, sw, sd := u.dims(in, box)
	if err := checkDims("frontage", fw, fd); err != nil {
		return err
	}
	return checkDims("side", sw, sd)
}

func (u UShaped) Place(in Input, box Box) ([]Building, error) {
	front, left, right, fw, fd, sw, sd := u.dims(in, box)
	h := BuildingHeight(in.MaxHeight)
	armZ := box.Z + fd + Separation
	var out []Building
	out = appendDetached(out, front, box.X, box.Z, fw, fd, fw+Separation, 0, h, RowFront)
	out = appendDetached(out, left, box.X, armZ, sw, sd, 0, sd+Separation, h, RowLeft)
	out = appendDetached(out, right, box.X+box.Width-sw, armZ, sw, sd, 0, sd+Separation, h, RowRight)
	return out, nil
}
