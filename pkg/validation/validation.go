package validation

import (
	"fmt"
	"strings"
)

// Stage indicates which pipeline stage produced the result.
type Stage string

const (
	StageSchema    Stage = "schema"
	StageParcel    Stage = "parcel"
	StageSetback   Stage = "setback"
	StageLayout    Stage = "layout"
	StageAccessory Stage = "accessory"
	StageMetrics   Stage = "metrics"
	StageScene     Stage = "scene"
	StageServices  Stage = "services"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Code is a stable identifier for a diagnostic, for callers that branch on
// findings instead of parsing messages.
type Code string

const (
	CodeSchema                Code = "schema"
	CodeNoGeometry            Code = "no_geometry"
	CodeSetbacksRelaxed       Code = "setbacks_relaxed"
	CodeRectangularFallback   Code = "rectangular_fallback"
	CodeSetbacksCapped        Code = "setbacks_capped"
	CodeCoverageBinding       Code = "coverage_binding"
	CodeDowngraded            Code = "configuration_downgraded"
	CodeFallbackTopology      Code = "fallback_topology"
	CodeBelowRecommendedWidth Code = "below_recommended_width"
	CodeBelowMinimumArea      Code = "below_minimum_area"
	CodeFireTravelDistance    Code = "fire_travel_distance"
	CodeCapacity              Code = "capacity"
	CodeAccessoryIneligible   Code = "accessory_ineligible"
	CodeAccessoryCoverage     Code = "accessory_coverage"
	CodeAccessoryFAR          Code = "accessory_far"
	CodeZoningExceeded        Code = "zoning_exceeded"
	CodeLongLateral           Code = "long_lateral"
	CodeEntityOverlap         Code = "entity_overlap"
)

// Result is a single finding.
type Result struct {
	Stage       Stage    `json:"stage"`
	Severity    Severity `json:"severity"`
	Code        Code     `json:"code,omitempty"`
	Message     string   `json:"message"`
	Field       string   `json:"field,omitempty"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Report collects every finding of one run.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	return &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
		Summary:  "0 errors, 0 warnings, 0 info",
	}
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// Has reports whether any result carries the given code.
func (r *Report) Has(code Code) bool {
	return r.Find(code) != nil
}

// Find returns the first result with the given code, searching errors, then
// warnings, then info.
func (r *Report) Find(code Code) *Result {
	for _, list := range [][]Result{r.Errors, r.Warnings, r.Info} {
		for i := range list {
			if list[i].Code == code {
				return &list[i]
			}
		}
	}
	return nil
}

// Messages returns every message of the given severity, in insertion order.
func (r *Report) Messages(sev Severity) []string {
	var list []Result
	switch sev {
	case SeverityError:
		list = r.Errors
	case SeverityWarning:
		list = r.Warnings
	default:
		list = r.Info
	}
	out := make([]string, len(list))
	for i, res := range list {
		out[i] = res.Message
	}
	return out
}

// Contains reports whether any message of any severity contains substr.
func (r *Report) Contains(substr string) bool {
	for _, list := range [][]Result{r.Errors, r.Warnings, r.Info} {
		for _, res := range list {
			if strings.Contains(res.Message, substr) {
				return true
			}
		}
	}
	return false
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
