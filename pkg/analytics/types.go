package analytics

// ExistingBuilding holds estimates for the structure already on the parcel,
// derived from its footprint alone.
type ExistingBuilding struct {
	FootprintArea   float64 `json:"building_area"`
	EstimatedHeight float64 `json:"height_calculated"`
	Floors          int     `json:"floors"`
	FloorArea       float64 `json:"estimated_floor_area"`
	FAR             float64 `json:"far_calculated"`
	CoveragePercent float64 `json:"coverage_calculated"`
}

// ZoningLimits are the maxima of the parcel's district. Zero means the
// district does not limit that metric.
type ZoningLimits struct {
	District  string  `json:"zoning_district"`
	MaxHeight float64 `json:"height_max_allowed"`
	MaxFAR    float64 `json:"far_max_allowed"`
	// MaxCoverage is a fraction of site area.
	MaxCoverage float64 `json:"coverage_max_allowed"`
}

// PlanMetrics summarizes a planned layout against its site.
type PlanMetrics struct {
	Units              int     `json:"units"`
	Buildings          int     `json:"buildings"`
	Footprint          float64 `json:"footprint_m2"`
	AccessoryFootprint float64 `json:"accessory_footprint_m2"`
	FloorArea          float64 `json:"floor_area_m2"`
	AvgUnitSize        float64 `json:"avg_unit_size_m2"`
	MaxHeight          float64 `json:"max_height_m"`
	Floors             int     `json:"floors"`
	FAR                float64 `json:"far"`
	// Coverage is a fraction of site area.
	Coverage float64 `json:"coverage"`
}

// SiteMetrics is the analytical summary of one planning run.
type SiteMetrics struct {
	SiteArea float64           `json:"parcel_area"`
	Existing *ExistingBuilding `json:"existing,omitempty"`
	Zoning   ZoningLimits      `json:"zoning"`
	Plan     *PlanMetrics      `json:"plan,omitempty"`
	Method   string            `json:"method"`
}
