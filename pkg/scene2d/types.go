package scene2d

// SitePlan is the top-down view of one layout in local site meters: X along
// the street frontage, Z into the lot.
type SitePlan struct {
	Metadata   Metadata        `json:"metadata"`
	Parcel     [][2]float64    `json:"parcel"`
	Buildable  [][2]float64    `json:"buildable"`
	Buildings  []Footprint2D   `json:"buildings"`
	Partitions [][2][2]float64 `json:"partitions,omitempty"`
	Accessory  *Footprint2D    `json:"accessory,omitempty"`
}

// Metadata holds plan-level summary data.
type Metadata struct {
	LayoutID      string  `json:"layout_id"`
	Topology      string  `json:"topology"`
	Units         int     `json:"units"`
	ParcelArea    float64 `json:"parcel_area"`
	BuildableArea float64 `json:"buildable_area"`
	BuiltArea     float64 `json:"built_area"`
}

// Footprint2D is the outline of one building or accessory structure.
type Footprint2D struct {
	ID      string       `json:"id"`
	Kind    string       `json:"kind"`
	Polygon [][2]float64 `json:"polygon"`
	Units   int          `json:"units,omitempty"`
	Height  float64      `json:"height"`
	Row     string       `json:"row,omitempty"`
}
