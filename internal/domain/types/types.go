// Package types contains the chart and control shapes returned to clients.
package types

// SiteOption is one entry of the site selector.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Mark is a labelled tick on the payload slider.
type Mark struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// RangeSlider describes the payload range control.
type RangeSlider struct {
	ID    string `json:"id"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Step  int    `json:"step"`
	Value [2]int `json:"value"`
	Marks []Mark `json:"marks"`
}

// PieSlice is one labelled wedge of a pie chart.
type PieSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PieChart is the pie figure for the selected site.
type PieChart struct {
	Title  string     `json:"title"`
	Site   string     `json:"site"`
	Slices []PieSlice `json:"slices"`
	Empty  bool       `json:"empty"`
}

// Total returns the sum of all slice values.
func (p PieChart) Total() float64 {
	var sum float64
	for _, s := range p.Slices {
		sum += s.Value
	}
	return sum
}

// ScatterPoint is one launch plotted as payload against outcome class.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     int     `json:"y"`
	Group string  `json:"group"`
	Site  string  `json:"site"`
}

// ScatterChart is the payload/outcome figure for the selected site and range.
type ScatterChart struct {
	Title  string         `json:"title"`
	Site   string         `json:"site"`
	XTitle string         `json:"x_title"`
	YTitle string         `json:"y_title"`
	Low    float64        `json:"low"`
	High   float64        `json:"high"`
	Groups []string       `json:"groups"`
	Points []ScatterPoint `json:"points"`
	Empty  bool           `json:"empty"`
}

// SiteSummary counts launches and successes at one site.
type SiteSummary struct {
	Site      string `json:"site" yaml:"site"`
	Launches  int    `json:"launches" yaml:"launches"`
	Successes int    `json:"successes" yaml:"successes"`
}

// Summary is an overview of the loaded launch table.
type Summary struct {
	Records    int           `json:"records" yaml:"records"`
	Successes  int           `json:"successes" yaml:"successes"`
	MinPayload float64       `json:"min_payload_kg" yaml:"min_payload_kg"`
	MaxPayload float64       `json:"max_payload_kg" yaml:"max_payload_kg"`
	Sites      []SiteSummary `json:"sites" yaml:"sites"`
	Boosters   []string      `json:"boosters" yaml:"boosters"`
}
