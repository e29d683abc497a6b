// Package server is the local development server. Every request reloads the
// project from disk and reruns the pipeline, so edits to site.yaml or the
// GeoJSON inputs show up on the next refresh.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/mesh"
	"github.com/blairjdaniel/parcelplanner/pkg/parcel"
	"github.com/blairjdaniel/parcelplanner/pkg/pipeline"
	"github.com/blairjdaniel/parcelplanner/pkg/scene2d"
	"github.com/blairjdaniel/parcelplanner/pkg/site"
)

const (
	defaultPlanSize = 800
	maxPlanSize     = 4096
	maxBodyBytes    = 1 << 20
)

// Server serves plans for one project.
type Server struct {
	projectPath string
	port        int
	runner      *pipeline.Runner
	logger      *log.Logger
}

// New creates a server for the given project directory or file.
func New(projectPath string, port int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		projectPath: projectPath,
		port:        port,
		runner:      pipeline.NewRunner(logger.WithPrefix("pipeline")),
		logger:      logger,
	}
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/plan", s.handlePlan)
		r.Get("/scene", s.handleScene)
		r.Get("/services", s.handleServices)
		r.Get("/cost", s.handleCost)
		r.Get("/validation", s.handleValidation)
		r.Get("/plan.geojson", s.handleGeoJSON)
		r.Get("/plan.png", s.handlePNG)
		r.Get("/model.obj", s.handleOBJ)
		r.Get("/model.stl", s.handleSTL)
		r.Post("/solve", s.handleSolve)
		r.Post("/compare", s.handleCompare)
	})
	r.Get("/", s.handleIndex)
	return r
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("server starting", "url", "http://localhost"+addr, "project", s.projectPath)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

// run loads the project and runs the pipeline, optionally with a different
// building program. On failure it writes the error response and returns nil.
func (s *Server) run(w http.ResponseWriter, r *http.Request, building *site.BuildingConfig) *pipeline.Result {
	p, err := site.Open(s.projectPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil
	}
	if building != nil {
		p.Building = *building
	}
	res, err := s.runner.Run(r.Context(), p)
	if err != nil {
		s.writeRunError(w, res, err)
		return nil
	}
	return res
}

// writeRunError maps pipeline failures to status codes. Input problems are
// 422 and carry the validation report when there is one.
func (s *Server) writeRunError(w http.ResponseWriter, res *pipeline.Result, err error) {
	status := http.StatusInternalServerError
	var infeasible *layout.InfeasibleLayoutError
	var geom *parcel.GeometryError
	switch {
	case errors.Is(err, pipeline.ErrInvalidProject),
		errors.As(err, &infeasible),
		errors.As(err, &geom):
		status = http.StatusUnprocessableEntity
	default:
		s.logger.Error("pipeline failed", "err", err)
	}

	body := map[string]any{"error": err.Error()}
	if res != nil {
		body["validation"] = res.Report
	}
	writeJSON(w, status, body)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Parcel Planner</title></head>
<body style="margin:0;background:#f4f1ea;color:#222;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Parcel Planner</h1>
<p><img src="/api/plan.png?size=640" alt="site plan" style="border:1px solid #ccc"></p>
<p><a href="/api/plan">plan</a> &middot; <a href="/api/validation">validation</a> &middot;
<a href="/api/cost">cost</a> &middot; <a href="/api/services">services</a> &middot;
<a href="/api/plan.geojson">geojson</a> &middot; <a href="/api/model.obj">obj</a></p>
</div>
</body></html>`)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if res := s.run(w, r, nil); res != nil {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if res := s.run(w, r, nil); res != nil {
		writeJSON(w, http.StatusOK, res.Scene)
	}
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	if res := s.run(w, r, nil); res != nil {
		writeJSON(w, http.StatusOK, res.Services)
	}
}

func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	if res := s.run(w, r, nil); res != nil {
		writeJSON(w, http.StatusOK, res.Cost)
	}
}

// handleValidation answers 200 for any project that could be loaded, valid
// or not; the report says which.
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	p, err := site.Open(s.projectPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	res, err := s.runner.Run(r.Context(), p)
	if res == nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Report)
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	res := s.run(w, r, nil)
	if res == nil {
		return
	}
	if res.Site.IsEmpty() {
		writeError(w, http.StatusUnprocessableEntity, errors.New("project has no parcel geometry to georeference"))
		return
	}
	fc := scene2d.GeoJSON(res.SitePlan(), res.Frame)
	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	size := defaultPlanSize
	if q := r.URL.Query().Get("size"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 32 || n > maxPlanSize {
			writeError(w, http.StatusBadRequest, errors.Errorf("size must be an integer in (32, %d]", maxPlanSize))
			return
		}
		size = n
	}
	res := s.run(w, r, nil)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := scene2d.RenderPNG(w, res.SitePlan(), size); err != nil {
		s.logger.Error("render failed", "err", err)
	}
}

func (s *Server) handleOBJ(w http.ResponseWriter, r *http.Request) {
	res := s.run(w, r, nil)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := mesh.WriteOBJ(w, res.Scene); err != nil {
		s.logger.Error("obj export failed", "err", err)
	}
}

func (s *Server) handleSTL(w http.ResponseWriter, r *http.Request) {
	res := s.run(w, r, nil)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", `attachment; filename="model.stl"`)
	if err := mesh.WriteSTL(w, res.Scene); err != nil {
		s.logger.Error("stl export failed", "err", err)
	}
}

// handleSolve reruns the project with the building program in the request
// body.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var cfg site.BuildingConfig
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding building config"))
		return
	}
	if res := s.run(w, r, &cfg); res != nil {
		writeJSON(w, http.StatusOK, res)
	}
}

type compareEntry struct {
	Config site.BuildingConfig `json:"config"`
	Units  int                 `json:"units"`
	Result *pipeline.Result    `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// handleCompare plans every building program in the request body against
// the same project.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var configs []site.BuildingConfig
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&configs); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding building configs"))
		return
	}
	if len(configs) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no building configs given"))
		return
	}
	p, err := site.Open(s.projectPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	outcomes := s.runner.RunMany(r.Context(), p, configs)
	out := make([]compareEntry, len(outcomes))
	for i, o := range outcomes {
		out[i] = compareEntry{Config: o.Config}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
			continue
		}
		out[i].Result = o.Result
		out[i].Units = len(o.Result.Layout.Units())
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
