package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

const exampleProject = "../../examples/westside-fourplex"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestZoningCommand(t *testing.T) {
	out, err := execute(t, "zoning")
	require.NoError(t, err)
	assert.Contains(t, out, "District")
	assert.Contains(t, out, "R1-1")
	assert.Contains(t, out, "RT-7")

	out, err = execute(t, "zoning", exampleProject)
	require.NoError(t, err)
	assert.Contains(t, out, "RT-7")
	assert.NotContains(t, out, "RM-4")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", exampleProject)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: VALID")
	assert.Contains(t, out, "WARNINGS")
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "solve", exampleProject)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	for _, key := range []string{"parcel", "buildable", "layout", "metrics", "cost", "validation", "scene_graph"} {
		assert.Contains(t, decoded, key)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "plan.png")
	_, err := execute(t, "export", exampleProject, "--format", "png", "--size", "256", "--out", png)
	require.NoError(t, err)
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	out, err := execute(t, "export", exampleProject, "-f", "obj")
	require.NoError(t, err)
	assert.Contains(t, out, "o building_1")

	out, err = execute(t, "export", exampleProject, "-f", "geojson")
	require.NoError(t, err)
	assert.Contains(t, out, `"FeatureCollection"`)

	_, err = execute(t, "export", exampleProject, "-f", "dwg")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", exampleProject, "--units", "1,2,4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Requested"))
	assert.True(t, strings.HasPrefix(lines[4], "4"))
	assert.Contains(t, lines[4], "downgraded")
}

func TestMissingProject(t *testing.T) {
	_, err := execute(t, "solve", "testdata/no-such-project")
	assert.Error(t, err)
}

func TestPrintValidationReport(t *testing.T) {
	r := validation.NewReport()
	r.AddError(validation.Result{
		Stage:       validation.StageSchema,
		Message:     "building.units must be greater than 0",
		Field:       "building.units",
		ActualValue: 0,
		Expected:    "> 0",
	})
	r.AddWarning(validation.Result{
		Stage:       validation.StageLayout,
		Message:     "courtyard layout not feasible",
		Suggestions: []string{"add depth"},
	})
	r.AddInfo(validation.Result{Stage: validation.StageMetrics, Message: "4 units"})

	var buf bytes.Buffer
	printValidationReport(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "ERRORS (1):")
	assert.Contains(t, out, "  [schema] building.units must be greater than 0")
	assert.Contains(t, out, "    -> building.units = 0")
	assert.Contains(t, out, "    expected: > 0")
	assert.Contains(t, out, "WARNINGS (1):")
	assert.Contains(t, out, "    * add depth")
	assert.Contains(t, out, "INFO (1):")
	assert.Contains(t, out, "Result: INVALID")
}

func TestCostCommand(t *testing.T) {
	out, err := execute(t, "cost", exampleProject)
	require.NoError(t, err)
	assert.Contains(t, out, "Construction Cost Estimate")
	assert.Contains(t, out, "Party walls")
	assert.Contains(t, out, "Break-even rent/month:")
}

func TestFormatArea(t *testing.T) {
	assert.Equal(t, "450m²", formatArea(450))
	assert.Equal(t, "1.25ha", formatArea(12_500))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "950", formatMoney(950))
	assert.Equal(t, "392K", formatMoney(392_272.5))
	assert.Equal(t, "1.57M", formatMoney(1_569_090))
}
