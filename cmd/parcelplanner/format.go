package main

import (
	"fmt"
	"io"

	"github.com/blairjdaniel/parcelplanner/pkg/cost"
	"github.com/blairjdaniel/parcelplanner/pkg/pipeline"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, e := range r.Warnings {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Stage, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, e validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", e.Stage, e.Message)
	if e.Field != "" {
		fmt.Fprintf(w, "    -> %s = %v\n", e.Field, e.ActualValue)
	}
	if e.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", e.Expected)
	}
	for _, s := range e.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printComparison(w io.Writer, outcomes []pipeline.Outcome) {
	fmt.Fprintf(w, "%-9s %7s %-13s %10s %7s %9s %9s %10s  %s\n",
		"Requested", "Placed", "Topology", "Floor area", "FAR", "Coverage", "Height", "Per unit", "Notes")
	fmt.Fprintf(w, "%-9s %7s %-13s %10s %7s %9s %9s %10s  %s\n",
		"---------", "-------", "-------------", "----------", "-------", "---------", "---------", "----------", "-----")

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%-9d %7s %-13s %10s %7s %9s %9s %10s  %v\n",
				o.Config.Units, "-", "-", "-", "-", "-", "-", "-", o.Err)
			continue
		}
		plan := o.Result.Metrics.Plan
		notes := ""
		if d := o.Result.Layout.Diagnostics; d.ConfigurationDowngraded {
			notes = "downgraded"
		} else if d.FallbackTopologyUsed {
			notes = "fallback topology"
		}
		if n := len(o.Result.Report.Warnings); n > 0 {
			if notes != "" {
				notes += ", "
			}
			notes += fmt.Sprintf("%d warnings", n)
		}
		fmt.Fprintf(w, "%-9d %7d %-13s %10s %7.2f %8.1f%% %8.1fm %10s  %s\n",
			o.Config.Units, plan.Units, o.Result.Layout.Diagnostics.Topology,
			formatArea(plan.FloorArea), plan.FAR, plan.Coverage*100, plan.MaxHeight,
			formatMoney(o.Result.Cost.Summary.PerUnit), notes)
	}
}

func printCostReport(w io.Writer, r *cost.Report) {
	if r == nil || r.Estimate.Total == 0 {
		fmt.Fprintln(w, "No cost estimate available.")
		return
	}

	fmt.Fprintln(w, "Construction Cost Estimate")
	fmt.Fprintln(w, "==========================")
	fmt.Fprintln(w)

	e := r.Estimate
	rows := []struct {
		label string
		value float64
	}{
		{"Excavation", e.Excavation},
		{"Foundation", e.Foundation},
		{"Buildings", e.Buildings},
		{"Party walls", e.PartyWalls},
		{"Accessory", e.Accessory},
		{"Site work", e.SiteWork},
		{"TOTAL", e.Total},
	}
	fmt.Fprintf(w, "%-14s %14s %8s\n", "Category", "Cost", "Share")
	fmt.Fprintf(w, "%-14s %14s %8s\n", "--------------", "--------------", "--------")
	for _, row := range rows {
		fmt.Fprintf(w, "%-14s %14s %7.1f%%\n", row.label, formatMoney(row.value), row.value/e.Total*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Total construction:     $%s\n", formatMoney(r.Summary.TotalConstruction))
	fmt.Fprintf(w, "  Floor area:             %s\n", formatArea(r.Summary.FloorArea))
	fmt.Fprintf(w, "  Per unit:               $%s\n", formatMoney(r.Summary.PerUnit))
	fmt.Fprintf(w, "  Per m²:                 $%s\n", formatMoney(r.Summary.PerM2))
	fmt.Fprintf(w, "  Annual debt service:    $%s (%.1f%% over %d years)\n",
		formatMoney(r.Summary.AnnualDebtService), r.Financing.InterestRate*100, r.Financing.DebtTermYears)
	fmt.Fprintf(w, "  Annual operations:      $%s\n", formatMoney(r.Summary.AnnualOperations))
	fmt.Fprintf(w, "  Break-even rent/month:  $%s\n", formatMoney(r.Summary.BreakEvenMonthlyRent))
}

func printZoningTable(w io.Writer, t site.ZoningTable) {
	fmt.Fprintf(w, "%-10s %7s %7s %7s %11s %6s %9s\n",
		"District", "Front", "Side", "Rear", "Max height", "FAR", "Coverage")
	for _, d := range t.Districts() {
		z := t[d]
		fmt.Fprintf(w, "%-10s %6.1fm %6.1fm %6.1fm %10.1fm %6.2f %8.0f%%\n",
			z.District, z.Front, z.Side, z.Rear, z.MaxHeight, z.FAR, z.Coverage*100)
	}
}

func formatArea(v float64) string {
	if v >= 10_000 {
		return fmt.Sprintf("%.2fha", v/10_000)
	}
	return fmt.Sprintf("%.0fm²", v)
}

func formatMoney(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
