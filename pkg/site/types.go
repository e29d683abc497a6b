package site

import "sort"

// Project is the top-level description of one planning run: which parcel,
// which zoning district, and what to build on it. Paths are relative to the
// project directory.
type Project struct {
	Name      string           `yaml:"name" toml:"name" json:"name"`
	Parcel    string           `yaml:"parcel" toml:"parcel" json:"parcel"`
	Footprint string           `yaml:"footprint,omitempty" toml:"footprint,omitempty" json:"footprint,omitempty"`
	Zoning    string           `yaml:"zoning,omitempty" toml:"zoning,omitempty" json:"zoning,omitempty"`
	District  string           `yaml:"district" toml:"district" json:"district"`
	SiteArea  float64          `yaml:"site_area,omitempty" toml:"site_area,omitempty" json:"site_area,omitempty"`
	Lot       LotDims          `yaml:"lot" toml:"lot" json:"lot"`
	LotType   string           `yaml:"lot_type,omitempty" toml:"lot_type,omitempty" json:"lot_type,omitempty"`
	Frontage  *int             `yaml:"frontage_edge,omitempty" toml:"frontage_edge,omitempty" json:"frontage_edge,omitempty"`
	Setbacks  SetbackOverrides `yaml:"setbacks" toml:"setbacks" json:"setbacks"`
	Building  BuildingConfig   `yaml:"building" toml:"building" json:"building"`

	// Dir is the directory the project was loaded from. Not serialized.
	Dir string `yaml:"-" toml:"-" json:"-"`
}

// LotDims are the fallback lot dimensions used when the parcel geometry is
// missing or cannot be analyzed.
type LotDims struct {
	Width float64 `yaml:"width" toml:"width" json:"width"`
	Depth float64 `yaml:"depth" toml:"depth" json:"depth"`
}

// SetbackOverrides replace the zoning table values for one project. A nil
// field keeps the zoning value.
type SetbackOverrides struct {
	Front *float64 `yaml:"front,omitempty" toml:"front,omitempty" json:"front,omitempty"`
	Side  *float64 `yaml:"side,omitempty" toml:"side,omitempty" json:"side,omitempty"`
	Rear  *float64 `yaml:"rear,omitempty" toml:"rear,omitempty" json:"rear,omitempty"`
}

// BuildingConfig is the requested building program. String enums are parsed
// by the layout package; empty values take its defaults.
type BuildingConfig struct {
	Units              int     `yaml:"units" toml:"units" json:"units"`
	NumBuildings       int     `yaml:"num_buildings" toml:"num_buildings" json:"num_buildings"`
	UnitsPerBuilding   []int   `yaml:"units_per_building,omitempty" toml:"units_per_building,omitempty" json:"units_per_building,omitempty"`
	LayoutType         string  `yaml:"layout_type" toml:"layout_type" json:"layout_type"`
	BuildingLayout     string  `yaml:"building_layout" toml:"building_layout" json:"building_layout"`
	Coverage           float64 `yaml:"coverage" toml:"coverage" json:"coverage"`
	IncludeCoachHouse  bool    `yaml:"include_coach_house" toml:"include_coach_house" json:"include_coach_house"`
	CoachHousePosition string  `yaml:"coach_house_position,omitempty" toml:"coach_house_position,omitempty" json:"coach_house_position,omitempty"`
	AccessoryType      string  `yaml:"accessory_type,omitempty" toml:"accessory_type,omitempty" json:"accessory_type,omitempty"`
}

// Zone holds the rules of one zoning district. Setbacks and heights are in
// meters; Coverage is a fraction of site area.
type Zone struct {
	District  string  `yaml:"district" json:"district"`
	Front     float64 `yaml:"front" json:"front"`
	Side      float64 `yaml:"side" json:"side"`
	Rear      float64 `yaml:"rear" json:"rear"`
	MaxHeight float64 `yaml:"max_height" json:"max_height"`
	FAR       float64 `yaml:"far" json:"far"`
	Coverage  float64 `yaml:"coverage" json:"coverage"`
}

// ZoningTable maps district codes to their rules.
type ZoningTable map[string]Zone

// Lookup returns the zone for a district.
func (t ZoningTable) Lookup(district string) (Zone, bool) {
	z, ok := t[district]
	return z, ok
}

// Districts returns the district codes in the table, sorted.
func (t ZoningTable) Districts() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
