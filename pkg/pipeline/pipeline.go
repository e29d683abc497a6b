// Package pipeline chains the planning stages for one project: schema
// checks, zoning lookup, parcel analysis, setbacks, layout, site metrics and
// the scene graph.
//
// Engine packages never log. The Runner logs each stage and merges every
// stage's validation report into the Result.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/blairjdaniel/parcelplanner/pkg/analytics"
	"github.com/blairjdaniel/parcelplanner/pkg/cost"
	"github.com/blairjdaniel/parcelplanner/pkg/geo"
	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/parcel"
	"github.com/blairjdaniel/parcelplanner/pkg/routing"
	"github.com/blairjdaniel/parcelplanner/pkg/scene"
	"github.com/blairjdaniel/parcelplanner/pkg/scene2d"
	"github.com/blairjdaniel/parcelplanner/pkg/setback"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// ErrInvalidProject is returned when schema validation fails. The Result
// still carries the report.
var ErrInvalidProject = errors.New("project has validation errors")

// Result holds the output of every stage of one run.
type Result struct {
	Project    *site.Project          `json:"project"`
	Zone       site.Zone              `json:"zone"`
	Parcel     *parcel.Profile        `json:"parcel"`
	Dedication parcel.Dedication      `json:"dedication"`
	Frame      geo.Frame              `json:"frame"`
	Site       geo.Polygon            `json:"site_polygon"`
	Setbacks   setback.Resolved       `json:"setbacks"`
	Buildable  setback.BuildableArea  `json:"buildable"`
	Layout     *layout.Result         `json:"layout"`
	Metrics    *analytics.SiteMetrics `json:"metrics"`
	Cost       *cost.Report           `json:"cost"`
	Services   []routing.Segment      `json:"services"`
	Scene      *scene.Graph           `json:"scene"`
	Report     *validation.Report     `json:"validation"`
	Elapsed    time.Duration          `json:"elapsed"`
}

// SitePlan returns the plan view of the result.
func (r *Result) SitePlan() *scene2d.SitePlan {
	return scene2d.Assemble2D(r.Site, r.Scene)
}

// Runner executes the pipeline. It holds no per-run state, so one Runner may
// serve concurrent runs.
type Runner struct {
	Logger    *log.Logger
	Financing cost.Financing
}

// NewRunner creates a runner with the default financing assumptions. A nil
// logger uses the package default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Financing: cost.DefaultFinancing()}
}

// Run plans one project. Non-fatal findings go to Result.Report. An error is
// returned for invalid projects, unreadable inputs and infeasible layouts;
// the partial Result is returned alongside it whenever one exists.
func (r *Runner) Run(ctx context.Context, p *site.Project) (*Result, error) {
	start := time.Now()
	res := &Result{Project: p, Report: validation.NewReport()}

	res.Report.Merge(validation.ValidateProject(p))
	if !res.Report.Valid {
		r.Logger.Warn("project failed schema validation", "name", p.Name, "errors", len(res.Report.Errors))
		return res, ErrInvalidProject
	}

	table, err := p.ZoningTable()
	if err != nil {
		return res, errors.Wrap(err, "zoning")
	}
	if p.District == "" {
		cp := *p
		cp.District = site.DefaultDistrict
		p, res.Project = &cp, &cp
	}
	res.Zone, err = p.Zone(table)
	if err != nil {
		return res, err
	}
	res.Report.Merge(validation.ValidateZone(res.Zone))
	r.Logger.Debug("resolved zoning", "district", res.Zone.District,
		"front", res.Zone.Front, "side", res.Zone.Side, "rear", res.Zone.Rear)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	ring, footprint, err := r.readGeometry(p, res.Report)
	if err != nil {
		return res, err
	}
	if err := r.analyzeParcel(p, ring, res); err != nil {
		return res, err
	}
	r.resolveSetbacks(p, ring, footprint, res)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	plan, report, err := layoutFor(p, res)
	res.Report.Merge(report)
	if err != nil {
		r.Logger.Error("layout failed", "err", err)
		return res, errors.Wrap(err, "layout")
	}
	res.Layout = plan
	r.Logger.Info("planned layout",
		"topology", plan.Diagnostics.Topology,
		"buildings", len(plan.Buildings),
		"units", len(plan.Units()),
		"binding", plan.Diagnostics.BindingConstraint)
	if plan.Diagnostics.FallbackTopologyUsed {
		r.Logger.Warn("requested topology not feasible", "requested", p.Building.BuildingLayout, "used", plan.Diagnostics.Topology)
	}
	if plan.Diagnostics.ConfigurationDowngraded {
		r.Logger.Warn("configuration downgraded", "requested", plan.Diagnostics.RequestedUnits, "placed", plan.Diagnostics.PlacedUnits)
	}

	street, lane := propertyLines(res)
	services, report := routing.RouteServices(routing.Input{
		Layout:  plan,
		StreetZ: street,
		LaneZ:   lane,
		HasLane: res.Dedication.LaneDedication,
	})
	res.Services = services
	res.Report.Merge(report)
	r.Logger.Debug("routed services", "segments", len(services), "length", round2(routing.TotalLength(services)))

	area := siteArea(p, res.Parcel)
	metrics, report := analytics.Resolve(analytics.Input{
		SiteArea:  area,
		Footprint: footprint,
		Zone:      res.Zone,
		Layout:    plan,
	})
	res.Metrics = metrics
	res.Report.Merge(report)
	res.Cost = cost.Estimate(plan, area, r.Financing)
	r.Logger.Debug("estimated cost", "total", math.Round(res.Cost.Summary.TotalConstruction), "per_unit", math.Round(res.Cost.Summary.PerUnit))

	res.Scene = scene.Assemble(plan, res.Buildable)
	res.Report.Merge(scene.ValidateGraph(res.Scene))
	r.Logger.Debug("assembled scene", "entities", len(res.Scene.Entities))

	res.Elapsed = time.Since(start)
	r.Logger.Info("run complete", "name", p.Name, "summary", res.Report.Summary, "duration", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// readGeometry loads the parcel and footprint rings. A missing or unusable
// parcel yields a nil ring and a warning so that the lot dimensions are used
// instead; a bad footprint is dropped with a warning.
func (r *Runner) readGeometry(p *site.Project, report *validation.Report) (orb.Ring, orb.Ring, error) {
	var ring orb.Ring
	if p.Parcel != "" {
		data, err := p.ReadParcel()
		if err != nil {
			return nil, nil, err
		}
		ring, err = parcel.LoadGeoJSON(data)
		if err != nil {
			r.Logger.Warn("parcel geometry unusable", "err", err)
			report.AddWarning(validation.Result{
				Stage:   validation.StageParcel,
				Code:    validation.CodeNoGeometry,
				Message: err.Error(),
				Field:   "parcel",
			})
			ring = nil
		}
	}

	var footprint orb.Ring
	data, err := p.ReadFootprint()
	if err != nil {
		return nil, nil, err
	}
	if data != nil {
		footprint, err = parcel.LoadGeoJSON(data)
		if err != nil {
			report.AddWarning(validation.Result{
				Stage:   validation.StageParcel,
				Message: "ignoring footprint: " + err.Error(),
				Field:   "footprint",
			})
			footprint = nil
		}
	}
	return ring, footprint, nil
}

// analyzeParcel builds the parcel profile and the site frame. Geometry that
// cannot be analyzed falls back to the project's lot dimensions.
func (r *Runner) analyzeParcel(p *site.Project, ring orb.Ring, res *Result) error {
	var prof *parcel.Profile
	if ring != nil {
		var err error
		prof, err = parcel.Analyze(ring)
		var gerr *parcel.GeometryError
		if errors.As(err, &gerr) {
			r.Logger.Warn("parcel analysis failed, using lot dimensions", "reason", gerr.Reason)
			res.Report.AddWarning(validation.Result{
				Stage:   validation.StageParcel,
				Code:    validation.CodeNoGeometry,
				Message: gerr.Error(),
				Field:   "parcel",
			})
			prof = nil
		} else if err != nil {
			return errors.Wrap(err, "parcel")
		}
	}

	if prof == nil {
		if p.Lot.Width <= 0 || p.Lot.Depth <= 0 {
			return &parcel.GeometryError{Reason: "no usable parcel geometry and no lot dimensions", Points: len(ring)}
		}
		prof = parcel.FallbackProfile(p.Lot.Width, p.Lot.Depth)
	} else {
		front := prof.StreetFrontage
		if p.Frontage != nil {
			if i := *p.Frontage; i < len(prof.Edges) {
				front = prof.Edges[i]
			} else {
				res.Report.AddWarning(validation.Result{
					Stage:       validation.StageParcel,
					Message:     "frontage_edge out of range, using detected frontage",
					Field:       "frontage_edge",
					ActualValue: i,
					Expected:    fmt.Sprintf("< %d", len(prof.Edges)),
				})
			}
		}
		res.Frame = geo.NewAlignedFrame(ring, front.Start, front.End)
		res.Site = res.Frame.Polygon(ring)
	}

	prof.LotType = parcel.ResolveLotType(prof.LotType, p.LotType)
	res.Parcel = prof
	res.Dedication = parcel.AssessDedication(prof.LotType, res.Zone.District)
	r.Logger.Info("analyzed parcel",
		"width", round2(prof.Width),
		"depth", round2(prof.Depth),
		"area", round2(prof.Area),
		"shape", prof.Shape,
		"lot_type", prof.LotType,
		"fallback", prof.Fallback)
	return nil
}

// resolveSetbacks combines zoning and observed setbacks, caps them to the
// lot and computes the buildable area.
func (r *Runner) resolveSetbacks(p *site.Project, ring, footprint orb.Ring, res *Result) {
	required := setback.Spec{
		Front: setback.Meters(res.Zone.Front),
		Side:  setback.Meters(res.Zone.Side),
		Rear:  setback.Meters(res.Zone.Rear),
	}
	var calculated setback.Spec
	if ring != nil && footprint != nil {
		calculated = setback.Observed(ring, footprint)
	}
	res.Setbacks = setback.Resolve(required, calculated)

	w, d := lotSize(res)
	values, capped := setback.Cap(res.Setbacks.Values(setback.Defaults()), w, d)
	if capped {
		r.Logger.Warn("setbacks capped to lot size", "front", round2(values.Front), "side", round2(values.Side), "rear", round2(values.Rear))
		res.Report.AddWarning(validation.Result{
			Stage:       validation.StageSetback,
			Code:        validation.CodeSetbacksCapped,
			Message:     fmt.Sprintf("setbacks exceed half the lot and were reduced to front %.2fm, side %.2fm, rear %.2fm", values.Front, values.Side, values.Rear),
			ActualValue: fmt.Sprintf("%.1fx%.1f", w, d),
		})
	}

	var report *validation.Report
	if res.Site.IsEmpty() {
		res.Buildable = setback.Rectangular(values, w, d)
	} else {
		res.Buildable, report = setback.ComputeBuildable(res.Site, values, w, d)
		res.Report.Merge(report)
	}
	if res.Buildable.Relaxed {
		r.Logger.Warn("setbacks relaxed", "inset", round2(res.Buildable.AppliedInset))
	}
	r.Logger.Info("computed buildable area",
		"method", res.Buildable.Method,
		"width", round2(res.Buildable.Width),
		"depth", round2(res.Buildable.Depth),
		"area", round2(res.Buildable.Area))
}

// lotSize is the extent of the lot in the site frame: across the frontage
// and away from it. Without geometry the project's lot dimensions are taken
// as given.
func lotSize(res *Result) (float64, float64) {
	if res.Site.IsEmpty() {
		return res.Project.Lot.Width, res.Project.Lot.Depth
	}
	lo, hi := res.Site.BoundingBox()
	return hi.X - lo.X, hi.Z - lo.Z
}

// propertyLines returns the z of the street line and of the rear line.
func propertyLines(res *Result) (float64, float64) {
	if res.Site.IsEmpty() {
		return 0, res.Project.Lot.Depth
	}
	lo, hi := res.Site.BoundingBox()
	return lo.Z, hi.Z
}

// siteArea prefers the project override, then the measured parcel, then the
// lot dimensions.
func siteArea(p *site.Project, prof *parcel.Profile) float64 {
	switch {
	case p.SiteArea > 0:
		return p.SiteArea
	case prof != nil && prof.Area > 0:
		return prof.Area
	}
	return p.Lot.Width * p.Lot.Depth
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Outcome is one entry of RunMany.
type Outcome struct {
	Config site.BuildingConfig `json:"config"`
	Result *Result             `json:"result,omitempty"`
	Err    error               `json:"-"`
}

// RunMany plans the project once per building configuration, concurrently.
// Outcomes are returned in the order of configs.
func (r *Runner) RunMany(ctx context.Context, p *site.Project, configs []site.BuildingConfig) []Outcome {
	out := make([]Outcome, len(configs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	for i, cfg := range configs {
		wg.Add(1)
		go func(idx int, cfg site.BuildingConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cp := *p
			cp.Building = cfg
			cp.Building.UnitsPerBuilding = append([]int(nil), cfg.UnitsPerBuilding...)
			res, err := r.Run(ctx, &cp)
			out[idx] = Outcome{Config: cfg, Result: res, Err: err}
		}(i, cfg)
	}

	wg.Wait()
	return out
}
