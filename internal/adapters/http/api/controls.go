package api

import (
	"context"
	"net/http"

	"github.com/okian/launchdash/internal/domain/types"
)

// ControlDependencies exposes the dashboard control definitions.
type ControlDependencies interface {
	SiteOptions(ctx context.Context) ([]types.SiteOption, error)
	Slider(ctx context.Context) (types.RangeSlider, error)
	Summary(ctx context.Context) (types.Summary, error)
}

// ControlHandler serves the site selector and payload slider definitions.
type ControlHandler struct {
	deps ControlDependencies
}

// NewControlHandler creates a new control handler.
func NewControlHandler(deps ControlDependencies) *ControlHandler {
	return &ControlHandler{deps: deps}
}

// HandleOptions handles GET /api/options requests.
func (h *ControlHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.options"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.SiteOptions(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleSlider handles GET /api/slider requests.
func (h *ControlHandler) HandleSlider(w http.ResponseWriter, r *http.Request) {
	const op = "api.slider"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sl, err := h.deps.Slider(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

// HandleSummary handles GET /api/summary requests.
func (h *ControlHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sum, err := h.deps.Summary(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
