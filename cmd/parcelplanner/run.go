package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/blairjdaniel/parcelplanner/pkg/mesh"
	"github.com/blairjdaniel/parcelplanner/pkg/pipeline"
	"github.com/blairjdaniel/parcelplanner/pkg/scene2d"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
)

// loadAndRun opens the project and runs the pipeline. The result is returned
// even when the run fails, so that callers can print its report.
func loadAndRun(ctx context.Context, projectPath string) (*pipeline.Result, error) {
	p, err := site.Open(projectPath)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(loggerFromContext(ctx)).Run(ctx, p)
}

func runSolve(ctx context.Context, w io.Writer, projectPath string) error {
	res, err := loadAndRun(ctx, projectPath)
	if err != nil {
		if res != nil {
			printValidationReport(os.Stderr, res.Report)
		}
		return err
	}

	output := map[string]any{
		"parcel":      res.Parcel,
		"dedication":  res.Dedication,
		"zone":        res.Zone,
		"setbacks":    res.Setbacks,
		"buildable":   res.Buildable,
		"layout":      res.Layout,
		"metrics":     res.Metrics,
		"cost":        res.Cost,
		"services":    res.Services,
		"validation":  res.Report,
		"scene_graph": res.Scene,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func runValidate(ctx context.Context, w io.Writer, projectPath string) error {
	res, err := loadAndRun(ctx, projectPath)
	if res == nil {
		return err
	}

	printValidationReport(w, res.Report)
	if err != nil {
		return err
	}
	if !res.Report.Valid {
		return pipeline.ErrInvalidProject
	}
	return nil
}

func runCost(ctx context.Context, w io.Writer, projectPath string) error {
	res, err := loadAndRun(ctx, projectPath)
	if err != nil {
		if res != nil {
			printValidationReport(os.Stderr, res.Report)
		}
		return errors.Wrap(err, "project must plan before computing cost")
	}

	printCostReport(w, res.Cost)
	if len(res.Report.Warnings) > 0 {
		fmt.Fprintln(w)
		printValidationReport(w, res.Report)
	}
	return nil
}

type exportOptions struct {
	Format string
	Out    string
	Size   int
}

func runExport(ctx context.Context, stdout io.Writer, projectPath string, opts exportOptions) (err error) {
	format := strings.ToLower(opts.Format)
	switch format {
	case "obj", "stl", "geojson", "png":
	default:
		return errors.Errorf("unknown export format %q", opts.Format)
	}

	res, err := loadAndRun(ctx, projectPath)
	if err != nil {
		return err
	}
	if format == "geojson" && res.Site.IsEmpty() {
		return errors.New("project has no parcel geometry to georeference")
	}

	w := stdout
	if opts.Out != "" {
		f, ferr := os.Create(opts.Out)
		if ferr != nil {
			return errors.Wrap(ferr, "creating output file")
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	switch format {
	case "obj":
		err = mesh.WriteOBJ(w, res.Scene)
	case "stl":
		err = mesh.WriteSTL(w, res.Scene)
	case "geojson":
		var data []byte
		data, err = scene2d.GeoJSON(res.SitePlan(), res.Frame).MarshalJSON()
		if err == nil {
			_, err = w.Write(data)
		}
	case "png":
		err = scene2d.RenderPNG(w, res.SitePlan(), opts.Size)
	}
	if err != nil {
		return err
	}
	if opts.Out != "" {
		loggerFromContext(ctx).Info("exported", "format", format, "path", opts.Out)
	}
	return nil
}

func runCompare(ctx context.Context, w io.Writer, projectPath string, units []int) error {
	if len(units) == 0 {
		return errors.New("no unit counts given")
	}
	p, err := site.Open(projectPath)
	if err != nil {
		return err
	}

	configs := make([]site.BuildingConfig, len(units))
	for i, n := range units {
		c := p.Building
		c.Units = n
		c.UnitsPerBuilding = nil
		configs[i] = c
	}
	outcomes := pipeline.NewRunner(loggerFromContext(ctx)).RunMany(ctx, p, configs)
	printComparison(w, outcomes)
	return nil
}

func runZoning(w io.Writer, projectPath string) error {
	table := site.DefaultZoning()
	if projectPath != "" {
		p, err := site.Open(projectPath)
		if err != nil {
			return err
		}
		if table, err = p.ZoningTable(); err != nil {
			return err
		}
	}
	printZoningTable(w, table)
	return nil
}
