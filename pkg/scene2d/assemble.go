// Package scene2d projects a scene graph onto the ground plane for site-plan
// output, as GeoJSON in lon/lat or as a PNG drawing.
package scene2d

import (
	"github.com/golang/geo/r2"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
	"github.com/blairjdaniel/parcelplanner/pkg/scene"
)

// Assemble2D flattens a scene graph and the local parcel polygon into a
// site plan. Heights and party walls are kept as attributes and segments.
func Assemble2D(parcel geo.Polygon, g *scene.Graph) *SitePlan {
	p := &SitePlan{
		Parcel:    polygonToCoords(parcel),
		Buildings: []Footprint2D{},
	}
	p.Metadata.ParcelArea = parcel.Area()
	if g == nil {
		return p
	}
	p.Metadata.LayoutID = g.Metadata.LayoutID
	p.Metadata.Topology = g.Metadata.Topology
	p.Metadata.Units = g.Metadata.Units

	for _, e := range g.Entities {
		rect := e.Footprint()
		switch e.Type {
		case scene.EntityBuildable:
			p.Buildable = rectToCoords(rect)
			p.Metadata.BuildableArea = rect.Size().X * rect.Size().Y
		case scene.EntityBuilding:
			units, _ := e.Metadata["units"].(int)
			row, _ := e.Metadata["row"].(string)
			p.Buildings = append(p.Buildings, Footprint2D{
				ID:      e.ID,
				Kind:    string(e.Type),
				Polygon: rectToCoords(rect),
				Units:   units,
				Height:  e.Dimensions.Y,
				Row:     row,
			})
			p.Metadata.BuiltArea += rect.Size().X * rect.Size().Y
		case scene.EntityWall:
			p.Partitions = append(p.Partitions, [2][2]float64{
				{e.Position.X, rect.Y.Lo},
				{e.Position.X, rect.Y.Hi},
			})
		case scene.EntityAccessory:
			kind, _ := e.Metadata["kind"].(string)
			p.Accessory = &Footprint2D{
				ID:      e.ID,
				Kind:    kind,
				Polygon: rectToCoords(rect),
				Height:  e.Dimensions.Y,
			}
			p.Metadata.BuiltArea += rect.Size().X * rect.Size().Y
		}
	}
	return p
}

// Bounds returns the plan extent: the parcel if known, otherwise everything
// drawn on it.
func (p *SitePlan) Bounds() r2.Rect {
	b := r2.EmptyRect()
	add := func(coords [][2]float64) {
		for _, c := range coords {
			b = b.AddPoint(r2.Point{X: c[0], Y: c[1]})
		}
	}
	add(p.Parcel)
	if !b.IsEmpty() {
		return b
	}
	add(p.Buildable)
	for _, f := range p.Buildings {
		add(f.Polygon)
	}
	if p.Accessory != nil {
		add(p.Accessory.Polygon)
	}
	return b
}

func rectToCoords(r r2.Rect) [][2]float64 {
	return polygonToCoords(geo.Rect(r.X.Lo, r.Y.Lo, r.X.Hi, r.Y.Hi))
}

// polygonToCoords converts a geo.Polygon to a [][2]float64 coordinate list.
func polygonToCoords(p geo.Polygon) [][2]float64 {
	coords := make([][2]float64, len(p.Vertices))
	for i, v := range p.Vertices {
		coords[i] = [2]float64{v.X, v.Z}
	}
	return coords
}
