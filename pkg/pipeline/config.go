package pipeline

import (
	"github.com/blairjdaniel/parcelplanner/pkg/accessory"
	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// Configuration converts the project's building program to the layout
// package's typed form. Schema validation has already rejected unknown enum
// values.
func Configuration(b site.BuildingConfig) layout.Configuration {
	return layout.Configuration{
		NumBuildings:       b.NumBuildings,
		UnitsPerBuilding:   append([]int(nil), b.UnitsPerBuilding...),
		LayoutType:         layout.LayoutType(b.LayoutType),
		BuildingLayout:     layout.BuildingLayout(b.BuildingLayout),
		Coverage:           b.Coverage,
		IncludeCoachHouse:  b.IncludeCoachHouse,
		CoachHousePosition: accessory.Position(b.CoachHousePosition),
		AccessoryType:      accessory.Kind(b.AccessoryType),
	}
}

func layoutFor(p *site.Project, res *Result) (*layout.Result, *validation.Report, error) {
	w, d := lotSize(res)
	return layout.Plan(layout.Input{
		Buildable: res.Buildable,
		SiteArea:  siteArea(p, res.Parcel),
		LotWidth:  w,
		LotDepth:  d,
		MaxHeight: res.Zone.MaxHeight,
		MaxFAR:    res.Zone.FAR,
		Units:     p.Building.Units,
		Config:    Configuration(p.Building),
	})
}
