package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/okian/launchdash/internal/adapters/cache"
	"github.com/okian/launchdash/internal/adapters/render"
	"github.com/okian/launchdash/internal/shell"
)

// ImageHandler dispatches an output with the query's control values and
// renders the resulting figure.
type ImageHandler struct {
	deps     ShellDependencies
	renderer Renderer
	cache    cache.ImageCache
}

// NewImageHandler creates a new image handler. A nil cache renders every request.
func NewImageHandler(deps ShellDependencies, renderer Renderer, c cache.ImageCache) *ImageHandler {
	return &ImageHandler{deps: deps, renderer: renderer, cache: c}
}

// HandleChart handles GET /charts/{output}.{png|svg}?{input-id}=value requests.
// Inputs absent from the query take their layout defaults; keys that name no
// layout control are ignored.
func (h *ImageHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart_image"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/charts/")
	ext := path.Ext(name)
	output := strings.TrimSuffix(name, ext)
	if output == "" || ext == "" || strings.Contains(output, "/") {
		writeFailure(w, NewKind(op, ErrNotFound))
		return
	}
	format, err := render.ParseFormat(ext)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	layout, err := h.deps.Layout(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	// Only layout controls are inputs; other query keys are ignored so they
	// never reach the cache key.
	values := defaults(layout)
	for key, vals := range r.URL.Query() {
		if _, ok := values[key]; ok && len(vals) > 0 {
			values[key] = shell.RawFromQuery(vals[0])
		}
	}

	key := cache.Key(output, string(format), canonical(values))
	if h.cache != nil {
		if e, ok := h.cache.Get(r.Context(), key); ok {
			writeImage(w, e)
			return
		}
	}

	fig, err := h.deps.Dispatch(r.Context(), output, values)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, fig, format); err != nil {
		writeFailure(w, WrapKind(op, ErrRender, err))
		return
	}
	e := cache.Entry{Body: buf.Bytes(), ContentType: format.ContentType()}
	if h.cache != nil {
		h.cache.Put(r.Context(), key, e)
	}
	writeImage(w, e)
}

func writeImage(w http.ResponseWriter, e cache.Entry) {
	w.Header().Set("Content-Type", e.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Body)
}

// canonical compacts each raw value so equivalent inputs share a cache key.
func canonical(values map[string]json.RawMessage) map[string]string {
	out := make(map[string]string, len(values))
	for k, raw := range values {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			out[k] = string(raw)
			continue
		}
		out[k] = buf.String()
	}
	return out
}

// defaults collects the initial value of every control in the layout.
func defaults(l shell.Layout) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage)
	for _, c := range l.Components {
		switch v := c.(type) {
		case shell.Dropdown:
			if raw, err := json.Marshal(v.Value); err == nil {
				out[v.ID] = raw
			}
		case shell.Slider:
			if raw, err := json.Marshal(v.Value); err == nil {
				out[v.ID] = raw
			}
		}
	}
	return out
}
