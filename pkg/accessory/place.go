package accessory

import (
	"github.com/golang/geo/r2"
)

// Structure is a placed accessory building in site coordinates.
type Structure struct {
	Kind     Kind     `json:"kind"`
	Position Position `json:"position"`
	X        float64  `json:"x"`
	Z        float64  `json:"z"`
	Width    float64  `json:"width"`
	Depth    float64  `json:"depth"`
	Height   float64  `json:"height"`
}

// Footprint returns the structure's plan area.
func (s Structure) Footprint() float64 { return s.Width * s.Depth }

// Bounds returns the structure's plan rectangle, with Y standing for Z.
func (s Structure) Bounds() r2.Rect {
	return r2.RectFromPoints(r2.Point{X: s.X, Y: s.Z}, r2.Point{X: s.X + s.Width, Y: s.Z + s.Depth})
}

// Place sizes the accessory as a fraction of the box and puts it at the
// rear centre, the right side halfway back, or the right rear corner.
// Unknown positions are treated as rear.
func Place(box r2.Rect, kind Kind, pos Position) Structure {
	pol := PolicyFor(kind)
	size := box.Size()
	w := size.X * pol.WidthFraction
	d := size.Y * pol.DepthFraction
	lo, hi := box.Lo(), box.Hi()

	s := Structure{Kind: kind, Position: pos, Width: w, Depth: d, Height: pol.Height}
	switch pos {
	case PositionSide:
		s.X = hi.X - w
		s.Z = lo.Y + (size.Y-d)/2
	case PositionCorner:
		s.X = hi.X - w
		s.Z = hi.Y - d
	default:
		s.Position = PositionRear
		s.X = lo.X + (size.X-w)/2
		s.Z = hi.Y - d
	}
	if s.Kind == "" {
		s.Kind = KindCoachHouse
	}
	return s
}

// Reserve returns the part of the box left for the main buildings once the
// structure and its separation are set aside. Rear and corner placements
// take a strip off the back; side placements take one off the right.
func Reserve(box r2.Rect, s Structure) r2.Rect {
	sep := PolicyFor(s.Kind).RequiredSeparation(s.Position)
	out := box
	switch s.Position {
	case PositionSide:
		out.X.Hi = s.X - sep
	default:
		out.Y.Hi = s.Z - sep
	}
	if out.X.Hi < out.X.Lo {
		out.X.Hi = out.X.Lo
	}
	if out.Y.Hi < out.Y.Lo {
		out.Y.Hi = out.Y.Lo
	}
	return out
}
