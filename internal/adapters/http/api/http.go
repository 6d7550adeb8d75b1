// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/launchdash/internal/adapters/cache"
	"github.com/okian/launchdash/internal/adapters/render"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ControlDependencies
	ChartDependencies
	ShellDependencies
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	controlHandler *ControlHandler
	chartHandler   *ChartHandler
	shellHandler   *ShellHandler
	imageHandler   *ImageHandler
}

// ServerOption configures optional server collaborators.
type ServerOption func(*serverOptions)

type serverOptions struct {
	imageCache cache.ImageCache
}

// WithImageCache serves repeated chart image requests from c.
func WithImageCache(c cache.ImageCache) ServerOption {
	return func(o *serverOptions) {
		o.imageCache = c
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, renderer Renderer, opts ...ServerOption) *Server {
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		controlHandler: NewControlHandler(deps),
		chartHandler:   NewChartHandler(deps),
		shellHandler:   NewShellHandler(deps),
		imageHandler:   NewImageHandler(deps, renderer, o.imageCache),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/options", MetricsMiddleware(s.controlHandler.HandleOptions, "options"))
	mux.HandleFunc("/api/slider", MetricsMiddleware(s.controlHandler.HandleSlider, "slider"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.controlHandler.HandleSummary, "summary"))
	mux.HandleFunc("/api/pie", MetricsMiddleware(s.chartHandler.HandlePie, "pie"))
	mux.HandleFunc("/api/scatter", MetricsMiddleware(s.chartHandler.HandleScatter, "scatter"))
	mux.HandleFunc("/api/layout", MetricsMiddleware(s.shellHandler.HandleLayout, "layout"))
	mux.HandleFunc("/api/dependencies", MetricsMiddleware(s.shellHandler.HandleDependencies, "dependencies"))
	mux.HandleFunc("/api/update", MetricsMiddleware(s.shellHandler.HandleUpdate, "update"))
	mux.HandleFunc("/charts/", MetricsMiddleware(s.imageHandler.HandleChart, "charts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure answers with the status the error's kind maps to.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// Renderer draws a figure as an image.
type Renderer interface {
	Render(w io.Writer, figure any, format render.Format) error
}
