package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/launchdash/internal/shell"
)

// ShellDependencies exposes the page layout and the callback wiring.
type ShellDependencies interface {
	Layout(ctx context.Context) (shell.Layout, error)
	Bindings(ctx context.Context) ([]shell.Binding, error)
	Dispatch(ctx context.Context, output string, values map[string]json.RawMessage) (any, error)
}

// ShellHandler serves the layout, the wiring table and callback dispatch.
type ShellHandler struct {
	deps ShellDependencies
}

// NewShellHandler creates a new shell handler.
func NewShellHandler(deps ShellDependencies) *ShellHandler {
	return &ShellHandler{deps: deps}
}

// updateRequest is the body of POST /api/update.
type updateRequest struct {
	Output string                     `json:"output"`
	Inputs map[string]json.RawMessage `json:"inputs"`
}

type updateResponse struct {
	Output string `json:"output"`
	Figure any    `json:"figure"`
}

type dependencyView struct {
	Output string   `json:"output"`
	Inputs []string `json:"inputs"`
}

// HandleLayout handles GET /api/layout requests.
func (h *ShellHandler) HandleLayout(w http.ResponseWriter, r *http.Request) {
	const op = "api.layout"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	l, err := h.deps.Layout(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// HandleDependencies handles GET /api/dependencies requests.
func (h *ShellHandler) HandleDependencies(w http.ResponseWriter, r *http.Request) {
	const op = "api.dependencies"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	bindings, err := h.deps.Bindings(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := make([]dependencyView, 0, len(bindings))
	for _, b := range bindings {
		v := dependencyView{Output: b.Output.String(), Inputs: make([]string, 0, len(b.Inputs))}
		for _, in := range b.Inputs {
			v.Inputs = append(v.Inputs, in.String())
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleUpdate handles POST /api/update requests.
func (h *ShellHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	// Dash-style "graph.figure" output names are accepted too.
	output := strings.TrimSuffix(strings.TrimSpace(req.Output), "."+shell.PropFigure)
	if output == "" {
		writeFailure(w, WrapKind(op, ErrBadRequest, errors.New("missing output")))
		return
	}
	fig, err := h.deps.Dispatch(r.Context(), output, req.Inputs)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{Output: output, Figure: fig})
}
