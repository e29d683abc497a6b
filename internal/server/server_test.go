package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleProject = "../../examples/westside-fourplex"

func newTestServer(t *testing.T, project string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(project, 0, log.New(io.Discard)).Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestPlan(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := get(t, ts.URL+"/api/plan")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out, "layout")
	assert.Contains(t, out, "buildable")
	assert.Contains(t, out, "validation")
}

func TestScene(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := get(t, ts.URL+"/api/scene")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Entities []map[string]any `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out.Entities)
}

func TestServicesAndCost(t *testing.T) {
	ts := newTestServer(t, exampleProject)

	resp, body := get(t, ts.URL+"/api/services")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var segs []struct {
		ID        string `json:"id"`
		IsLateral bool   `json:"is_lateral"`
	}
	require.NoError(t, json.Unmarshal(body, &segs))
	assert.NotEmpty(t, segs)

	resp, body = get(t, ts.URL+"/api/cost")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		Summary struct {
			TotalConstruction float64 `json:"total_construction"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Greater(t, report.Summary.TotalConstruction, 0.0)
}

func TestValidation(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := get(t, ts.URL+"/api/validation")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Valid   bool   `json:"valid"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Valid)
	assert.NotEmpty(t, out.Summary)
}

func TestGeoJSON(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := get(t, ts.URL+"/api/plan.geojson")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))

	var out struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "FeatureCollection", out.Type)
	assert.NotEmpty(t, out.Features)
}

func TestPNG(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := get(t, ts.URL+"/api/plan.png?size=200")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	resp, _ = get(t, ts.URL+"/api/plan.png?size=10")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestModelExports(t *testing.T) {
	ts := newTestServer(t, exampleProject)

	resp, body := get(t, ts.URL+"/api/model.obj")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "o building_1")

	resp, body = get(t, ts.URL+"/api/model.stl")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, len(body), 84)
}

func TestSolve(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := post(t, ts.URL+"/api/solve",
		`{"units": 1, "num_buildings": 1, "layout_type": "multiplex", "building_layout": "standard_row", "coverage": 0.4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Layout struct {
			Buildings []struct {
				Units []any `json:"units"`
			} `json:"buildings"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Layout.Buildings, 1)
	assert.Len(t, out.Layout.Buildings[0].Units, 1)
}

func TestSolveRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, exampleProject)

	resp, _ := post(t, ts.URL+"/api/solve", `{"units": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := post(t, ts.URL+"/api/solve", `{"units": 2, "layout_type": "tower"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "validation")
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := post(t, ts.URL+"/api/compare",
		`[{"units": 1, "num_buildings": 1}, {"units": 2, "num_buildings": 1}]`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out []struct {
		Units int    `json:"units"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out, 2)
	assert.Empty(t, out[0].Error)
	assert.Equal(t, 1, out[0].Units)
	assert.Equal(t, 2, out[1].Units)

	resp, _ = post(t, ts.URL+"/api/compare", `[]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissingProject(t *testing.T) {
	ts := newTestServer(t, "testdata/no-such-project")
	resp, body := get(t, ts.URL+"/api/plan")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "error")
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, exampleProject)
	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Parcel Planner")
}
