package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
)

// ChartDependencies derives chart figures.
type ChartDependencies interface {
	Bounds(ctx context.Context) (model.PayloadRange, error)
	Pie(ctx context.Context, site string) (types.PieChart, error)
	Scatter(ctx context.Context, site string, rng model.PayloadRange) (types.ScatterChart, error)
}

// ChartHandler serves chart figures as JSON.
type ChartHandler struct {
	deps ChartDependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ChartDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandlePie handles GET /api/pie?site= requests. A missing site means all sites.
func (h *ChartHandler) HandlePie(w http.ResponseWriter, r *http.Request) {
	const op = "api.pie"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	pie, err := h.deps.Pie(r.Context(), siteParam(r.URL.Query()))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pie)
}

// HandleScatter handles GET /api/scatter?site=&low=&high= requests. Missing
// bounds default to the payload range of the whole table.
func (h *ChartHandler) HandleScatter(w http.ResponseWriter, r *http.Request) {
	const op = "api.scatter"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	rng, err := h.deps.Bounds(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if rng.Low, err = floatParam(q, "low", rng.Low); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if rng.High, err = floatParam(q, "high", rng.High); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	sc, err := h.deps.Scatter(r.Context(), siteParam(q), rng)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func siteParam(q url.Values) string {
	if !q.Has("site") {
		return model.AllSites
	}
	return q.Get("site")
}

func floatParam(q url.Values, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}
