package parcel

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/blairjdaniel/parcelplanner/pkg/geo"
)

// LoadGeoJSON extracts the outer ring of a parcel from GeoJSON. The input may
// be a bare geometry, a Feature, or a FeatureCollection, in which case the
// first polygonal feature wins. For a MultiPolygon the largest member is
// used. Input without a polygon yields a *GeometryError.
func LoadGeoJSON(data []byte) (orb.Ring, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "decoding GeoJSON")
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(err, "decoding feature collection")
		}
		for _, f := range fc.Features {
			if ring, ok := outerRing(f.Geometry); ok {
				return ring, nil
			}
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(err, "decoding feature")
		}
		if ring, ok := outerRing(f.Geometry); ok {
			return ring, nil
		}
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(err, "decoding geometry")
		}
		if ring, ok := outerRing(g.Geometry()); ok {
			return ring, nil
		}
	}
	return nil, &GeometryError{Reason: "no polygon in GeoJSON input"}
}

func outerRing(g orb.Geometry) (orb.Ring, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, false
		}
		return v[0], true
	case orb.MultiPolygon:
		var best orb.Ring
		bestArea := -1.0
		for _, poly := range v {
			if len(poly) == 0 {
				continue
			}
			if a := geo.RingArea(poly[0]); a > bestArea {
				best, bestArea = poly[0], a
			}
		}
		return best, best != nil
	case orb.Ring:
		return v, true
	}
	return nil, false
}
