// Package render draws chart figures as PNG or SVG images with go-chart.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/pkg/metrics"
)

// Default image geometry.
const (
	defaultWidth    = 800
	defaultHeight   = 480
	defaultDotWidth = 5

	// classPadding keeps the 0/1 rows off the plot edges; go-chart sizes
	// the y axis to the outermost ticks.
	classPadding = 0.25
)

// Format is an output image encoding.
type Format string

// Supported formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat maps a file extension or format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Renderer draws figures at a fixed size.
type Renderer struct {
	width    int
	height   int
	dotWidth float64
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:    defaultWidth,
		height:   defaultHeight,
		dotWidth: defaultDotWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws a pie or scatter figure to w.
func (r *Renderer) Render(w io.Writer, figure any, format Format) error {
	switch f := figure.(type) {
	case types.PieChart:
		return r.Pie(w, f, format)
	case *types.PieChart:
		return r.Pie(w, *f, format)
	case types.ScatterChart:
		return r.Scatter(w, f, format)
	case *types.ScatterChart:
		return r.Scatter(w, *f, format)
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedFigure, figure)
}

// Pie draws a pie chart. Zero-valued slices are skipped; a chart with no
// positive slice is drawn as a single grey "No data" disc.
func (r *Renderer) Pie(w io.Writer, p types.PieChart, format Format) error {
	start := time.Now()
	values := make([]chart.Value, 0, len(p.Slices))
	for i, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%g)", s.Label, s.Value),
			Value: s.Value,
			Style: chart.Style{FillColor: chart.GetDefaultColor(i), StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		values = []chart.Value{{
			Label: "No data",
			Value: 1,
			Style: chart.Style{FillColor: drawing.ColorFromHex("e0e0e0"), StrokeColor: drawing.ColorWhite},
		}}
	}

	pc := chart.PieChart{
		Title:  p.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	if err := pc.Render(format.provider(), w); err != nil {
		metrics.RecordChartRenderError("pie", string(format))
		return fmt.Errorf("%w: pie: %w", ErrRender, err)
	}
	metrics.RecordChartRender("pie", string(format), float64(time.Since(start).Milliseconds()))
	return nil
}

// pointStyle renders markers only, no connecting line.
func (r *Renderer) pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    r.dotWidth,
		DotColor:    col,
	}
}

// Scatter draws payload against outcome class, one colored series per
// booster category. The x axis spans the requested payload range so an empty
// selection still draws its axes.
func (r *Renderer) Scatter(w io.Writer, s types.ScatterChart, format Format) error {
	start := time.Now()

	groups := append([]string(nil), s.Groups...)
	index := make(map[string]int, len(groups))
	xs := make([][]float64, len(groups))
	ys := make([][]float64, len(groups))
	for i, g := range groups {
		index[g] = i
	}
	for _, p := range s.Points {
		i, ok := index[p.Group]
		if !ok {
			i = len(xs)
			index[p.Group] = i
			groups = append(groups, p.Group)
			xs = append(xs, nil)
			ys = append(ys, nil)
		}
		xs[i] = append(xs[i], p.X)
		ys[i] = append(ys[i], float64(p.Y))
	}
	series := make([]chart.Series, 0, len(groups))
	for i, g := range groups {
		if len(xs[i]) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g,
			XValues: xs[i],
			YValues: ys[i],
			Style:   r.pointStyle(chart.GetDefaultColor(i)),
		})
	}

	low, high := s.Low, s.High
	if high <= low {
		low, high = low-1, low+1
	}
	if len(series) == 0 {
		// go-chart refuses a chart without series; draw an invisible one.
		series = append(series, chart.ContinuousSeries{
			Name:    "no matching launches",
			XValues: []float64{low, high},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: chart.Disabled},
		})
	}

	c := chart.Chart{
		Title:  s.Title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  s.XTitle,
			Range: &chart.ContinuousRange{Min: low, Max: high},
		},
		YAxis: chart.YAxis{
			Name: s.YTitle,
			Ticks: []chart.Tick{
				{Value: -classPadding},
				{Value: 0, Label: "0"},
				{Value: 1, Label: "1"},
				{Value: 1 + classPadding},
			},
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}

	if err := c.Render(format.provider(), w); err != nil {
		metrics.RecordChartRenderError("scatter", string(format))
		return fmt.Errorf("%w: scatter: %w", ErrRender, err)
	}
	metrics.RecordChartRender("scatter", string(format), float64(time.Since(start).Milliseconds()))
	return nil
}
