// Package shell is the presentation runtime the dashboard page talks to: a
// declarative layout of controls and graphs, plus a wiring table that maps
// each graph to the callback recomputing it from the current control values.
package shell

import (
	"encoding/json"

	"github.com/okian/launchdash/internal/domain/types"
)

// Component kinds in the layout tree.
const (
	KindHeading     = "heading"
	KindParagraph   = "paragraph"
	KindBreak       = "break"
	KindDropdown    = "dropdown"
	KindRangeSlider = "range_slider"
	KindGraph       = "graph"
)

// Component is a node of the page layout.
type Component interface {
	Kind() string
}

// Heading is the page title.
type Heading struct {
	Text  string            `json:"text"`
	Style map[string]string `json:"style,omitempty"`
}

// Paragraph is a line of static text.
type Paragraph struct {
	Text string `json:"text"`
}

// Break is a vertical gap.
type Break struct{}

// Dropdown is a single-choice selector.
type Dropdown struct {
	ID      string             `json:"id"`
	Options []types.SiteOption `json:"options"`
	Value   string             `json:"value"`
}

// Slider is a two-handle numeric range selector.
type Slider struct {
	types.RangeSlider
}

// Graph is a chart output slot.
type Graph struct {
	ID string `json:"id"`
}

func (Heading) Kind() string   { return KindHeading }
func (Paragraph) Kind() string { return KindParagraph }
func (Break) Kind() string     { return KindBreak }
func (Dropdown) Kind() string  { return KindDropdown }
func (Slider) Kind() string    { return KindRangeSlider }
func (Graph) Kind() string     { return KindGraph }

// Layout is an ordered list of components rendered top to bottom.
type Layout struct {
	Title      string      `json:"title"`
	Components []Component `json:"-"`
}

// MarshalJSON writes every component with a "type" discriminator.
func (l Layout) MarshalJSON() ([]byte, error) {
	nodes := make([]json.RawMessage, 0, len(l.Components))
	for _, c := range l.Components {
		body, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		if fields == nil {
			fields = map[string]json.RawMessage{}
		}
		kind, _ := json.Marshal(c.Kind())
		fields["type"] = kind
		node, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return json.Marshal(struct {
		Title      string            `json:"title"`
		Components []json.RawMessage `json:"components"`
	}{Title: l.Title, Components: nodes})
}

// Graphs returns the IDs of all graph slots in layout order.
func (l Layout) Graphs() []string {
	var ids []string
	for _, c := range l.Components {
		if g, ok := c.(Graph); ok {
			ids = append(ids, g.ID)
		}
	}
	return ids
}
