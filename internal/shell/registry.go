package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Property names used in dependencies.
const (
	PropValue  = "value"
	PropFigure = "figure"
)

// Dependency names a property of a layout component.
type Dependency struct {
	ID       string `json:"id"`
	Property string `json:"property"`
}

// String renders the dependency as "id.property".
func (d Dependency) String() string { return d.ID + "." + d.Property }

// Callback recomputes an output from the input values, given in the order the
// inputs were registered.
type Callback func(ctx context.Context, inputs []json.RawMessage) (any, error)

// Binding is one row of the wiring table.
type Binding struct {
	Output Dependency   `json:"output"`
	Inputs []Dependency `json:"inputs"`
}

type binding struct {
	Binding
	fn Callback
}

// Registry is the wiring table. Bindings are written during setup and read on
// every dispatch.
type Registry struct {
	mu       sync.RWMutex
	byOutput map[string]binding
}

// NewRegistry returns an empty wiring table.
func NewRegistry() *Registry {
	return &Registry{byOutput: make(map[string]binding)}
}

// Register binds fn to output. Each output may be bound only once.
func (r *Registry) Register(output Dependency, inputs []Dependency, fn Callback) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: %s", ErrNoInputs, output)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byOutput[output.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOutput, output)
	}
	in := make([]Dependency, len(inputs))
	copy(in, inputs)
	r.byOutput[output.ID] = binding{Binding: Binding{Output: output, Inputs: in}, fn: fn}
	return nil
}

// Bindings lists the wiring table sorted by output ID.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.byOutput))
	for _, b := range r.byOutput {
		in := make([]Dependency, len(b.Inputs))
		copy(in, b.Inputs)
		out = append(out, Binding{Output: b.Output, Inputs: in})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Output.ID < out[j].Output.ID })
	return out
}

// Dependents returns the outputs that list inputID among their inputs.
func (r *Registry) Dependents(inputID string) []string {
	var ids []string
	for _, b := range r.Bindings() {
		for _, in := range b.Inputs {
			if in.ID == inputID {
				ids = append(ids, b.Output.ID)
				break
			}
		}
	}
	return ids
}

// Dispatch runs the callback bound to outputID with the current values of its
// inputs, keyed by input component ID.
func (r *Registry) Dispatch(ctx context.Context, outputID string, values map[string]json.RawMessage) (any, error) {
	r.mu.RLock()
	b, ok := r.byOutput[outputID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, outputID)
	}
	args := make([]json.RawMessage, len(b.Inputs))
	for i, in := range b.Inputs {
		v, ok := values[in.ID]
		if !ok || len(v) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, in)
		}
		args[i] = v
	}
	return b.fn(ctx, args)
}
