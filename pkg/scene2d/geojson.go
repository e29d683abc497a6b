package scene2d

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
)

// GeoJSON converts the plan to a FeatureCollection in [lon, lat] using the
// frame the site was analyzed in. Every feature carries a "kind" property:
// parcel, buildable_area, building, partition_wall or the accessory kind.
func GeoJSON(p *SitePlan, f geo.Frame) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if p == nil {
		return fc
	}

	if len(p.Parcel) >= 3 {
		feat := polygonFeature(p.Parcel, f)
		feat.Properties["kind"] = "parcel"
		feat.Properties["area"] = p.Metadata.ParcelArea
		fc.Append(feat)
	}
	if len(p.Buildable) >= 3 {
		feat := polygonFeature(p.Buildable, f)
		feat.Properties["kind"] = "buildable_area"
		feat.Properties["area"] = p.Metadata.BuildableArea
		fc.Append(feat)
	}
	for _, b := range p.Buildings {
		feat := polygonFeature(b.Polygon, f)
		feat.ID = b.ID
		feat.Properties["kind"] = b.Kind
		feat.Properties["units"] = b.Units
		feat.Properties["height"] = b.Height
		feat.Properties["row"] = b.Row
		fc.Append(feat)
	}
	for _, seg := range p.Partitions {
		line := orb.LineString{
			f.ToLonLat(geo.Pt(seg[0][0], seg[0][1])),
			f.ToLonLat(geo.Pt(seg[1][0], seg[1][1])),
		}
		feat := geojson.NewFeature(line)
		feat.Properties["kind"] = "partition_wall"
		fc.Append(feat)
	}
	if a := p.Accessory; a != nil {
		feat := polygonFeature(a.Polygon, f)
		feat.ID = a.ID
		feat.Properties["kind"] = a.Kind
		feat.Properties["height"] = a.Height
		fc.Append(feat)
	}
	return fc
}

func polygonFeature(coords [][2]float64, f geo.Frame) *geojson.Feature {
	pts := make([]geo.Point2D, len(coords))
	for i, c := range coords {
		pts[i] = geo.Pt(c[0], c[1])
	}
	return geojson.NewFeature(orb.Polygon{f.LonLatRing(geo.NewPolygon(pts...))})
}
