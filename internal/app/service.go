// Package service owns the launch table and wires the dashboard controls to
// the chart derivations the HTTP API and CLI call into.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/launchdash/internal/domain/dataset"
	"github.com/okian/launchdash/internal/domain/derive"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/internal/shell"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"
)

// Component IDs of the dashboard page.
const (
	SiteDropdownID  = "site-dropdown"
	PayloadSliderID = "payload-slider"
	PieGraphID      = "success-pie-chart"
	ScatterGraphID  = "success-payload-scatter-chart"
)

// Defaults.
const (
	DefaultTitle    = "SpaceX Launch Records Dashboard"
	DefaultDataPath = "spacex_launch_dash.csv"
	sliderCaption   = "Payload range (Kg):"
)

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Configuration
	dataPath   string
	title      string
	sliderStep int
	preloaded  *dataset.Dataset

	// State, fixed after Start.
	ds       *dataset.Dataset
	options  []types.SiteOption
	slider   types.RangeSlider
	layout   shell.Layout
	registry *shell.Registry
	started  bool
	loadedAt time.Time

	pieCalls      atomic.Int64
	scatterCalls  atomic.Int64
	dispatchCalls atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataPath sets the CSV file loaded on Start.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithDataset uses an already built table instead of reading a file.
func WithDataset(ds *dataset.Dataset) Option {
	return func(s *Service) {
		s.preloaded = ds
	}
}

// WithSliderStep sets the spacing of payload slider marks.
func WithSliderStep(step int) Option {
	return func(s *Service) {
		if step > 0 {
			s.sliderStep = step
		}
	}
}

// WithTitle sets the dashboard heading.
func WithTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath:   DefaultDataPath,
		title:      DefaultTitle,
		sliderStep: derive.DefaultMarkStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the launch table, derives the control options, builds the page
// layout and registers the chart callbacks. A load failure is returned and
// leaves the service stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	start := time.Now()
	ds := s.preloaded
	if ds == nil {
		s.logger.Info(ctx, "loading launch records", logger.String("path", s.dataPath))
		loaded, err := dataset.Load(ctx, s.dataPath)
		if err != nil {
			metrics.RecordErrorByType("dataset_load", "fatal")
			return fmt.Errorf("%w: %w", ErrLoadDataset, err)
		}
		ds = loaded
	}
	took := time.Since(start)

	s.ds = ds
	s.options = derive.SiteOptions(ds)
	s.slider = derive.PayloadSlider(ds, PayloadSliderID, s.sliderStep)
	s.layout = s.buildLayout()

	reg := shell.NewRegistry()
	site := shell.Dependency{ID: SiteDropdownID, Property: shell.PropValue}
	payload := shell.Dependency{ID: PayloadSliderID, Property: shell.PropValue}
	if err := reg.Register(shell.Dependency{ID: PieGraphID, Property: shell.PropFigure},
		[]shell.Dependency{site}, s.pieCallback); err != nil {
		return err
	}
	if err := reg.Register(shell.Dependency{ID: ScatterGraphID, Property: shell.PropFigure},
		[]shell.Dependency{site, payload}, s.scatterCallback); err != nil {
		return err
	}
	s.registry = reg
	s.loadedAt = time.Now()
	s.started = true

	metrics.UpdateDataset(ds.Len(), len(ds.Sites()), ds.MinPayload(), ds.MaxPayload())
	metrics.UpdateDatasetLoadDuration(float64(took.Microseconds()) / 1000)

	s.logger.Info(ctx, "dashboard service started",
		logger.Int("records", ds.Len()),
		logger.Int("sites", len(ds.Sites())),
		logger.Float64("min_payload_kg", ds.MinPayload()),
		logger.Float64("max_payload_kg", ds.MaxPayload()),
		logger.Duration("load_time", took),
	)
	return nil
}

// Stop marks the service stopped. The table stays loaded until the next Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) buildLayout() shell.Layout {
	return shell.Layout{
		Title: s.title,
		Components: []shell.Component{
			shell.Heading{Text: s.title, Style: map[string]string{
				"textAlign": "center", "color": "#503D36", "fontSize": "40px",
			}},
			shell.Dropdown{ID: SiteDropdownID, Options: s.options, Value: model.AllSites},
			shell.Break{},
			shell.Graph{ID: PieGraphID},
			shell.Break{},
			shell.Paragraph{Text: sliderCaption},
			shell.Slider{RangeSlider: s.slider},
			shell.Graph{ID: ScatterGraphID},
		},
	}
}

// snapshot returns the table if the service is running.
func (s *Service) snapshot() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.ds, nil
}

// SiteOptions returns the site selector entries.
func (s *Service) SiteOptions(_ context.Context) ([]types.SiteOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	out := make([]types.SiteOption, len(s.options))
	copy(out, s.options)
	return out, nil
}

// Slider returns the payload range control.
func (s *Service) Slider(_ context.Context) (types.RangeSlider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.RangeSlider{}, ErrNotStarted
	}
	out := s.slider
	out.Marks = append([]types.Mark(nil), s.slider.Marks...)
	return out, nil
}

// Bounds returns the payload range spanning the whole table.
func (s *Service) Bounds(_ context.Context) (model.PayloadRange, error) {
	ds, err := s.snapshot()
	if err != nil {
		return model.PayloadRange{}, err
	}
	return ds.Bounds(), nil
}

// Layout returns the page layout.
func (s *Service) Layout(_ context.Context) (shell.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return shell.Layout{}, ErrNotStarted
	}
	return s.layout, nil
}

// Bindings returns the control-to-graph wiring table.
func (s *Service) Bindings(_ context.Context) ([]shell.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.registry.Bindings(), nil
}

// Summary returns per-site launch counts for the loaded table.
func (s *Service) Summary(_ context.Context) (types.Summary, error) {
	ds, err := s.snapshot()
	if err != nil {
		return types.Summary{}, err
	}
	return derive.Summary(ds), nil
}

// Pie derives the pie chart for a site selector.
func (s *Service) Pie(ctx context.Context, site string) (types.PieChart, error) {
	ds, err := s.snapshot()
	if err != nil {
		return types.PieChart{}, err
	}
	start := time.Now()
	pie := derive.PieChart(ds, site)
	s.pieCalls.Add(1)
	metrics.RecordDerivation("pie", msSince(start), len(pie.Slices), pie.Empty)
	if pie.Empty {
		s.logger.Debug(ctx, "pie selector matched no launches", logger.String("site", site))
	}
	return pie, nil
}

// Scatter derives the scatter chart for a site selector and payload range.
func (s *Service) Scatter(ctx context.Context, site string, rng model.PayloadRange) (types.ScatterChart, error) {
	ds, err := s.snapshot()
	if err != nil {
		return types.ScatterChart{}, err
	}
	start := time.Now()
	sc, err := derive.ScatterChart(ds, site, rng)
	if err != nil {
		s.logger.Debug(ctx, "rejected payload range",
			logger.Float64("low", rng.Low),
			logger.Float64("high", rng.High),
			logger.Error(err),
		)
		return types.ScatterChart{}, err
	}
	s.scatterCalls.Add(1)
	metrics.RecordDerivation("scatter", msSince(start), len(sc.Points), sc.Empty)
	return sc, nil
}

// Dispatch recomputes the figure of one output from the current control values.
func (s *Service) Dispatch(ctx context.Context, output string, values map[string]json.RawMessage) (any, error) {
	s.mu.RLock()
	reg, started := s.registry, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	s.dispatchCalls.Add(1)
	fig, err := reg.Dispatch(ctx, output, values)
	if err != nil {
		metrics.RecordDispatchError(output)
		return nil, err
	}
	metrics.RecordDispatch(output)
	return fig, nil
}

func (s *Service) pieCallback(ctx context.Context, in []json.RawMessage) (any, error) {
	site, err := shell.DecodeString(in[0])
	if err != nil {
		return nil, err
	}
	return s.Pie(ctx, site)
}

func (s *Service) scatterCallback(ctx context.Context, in []json.RawMessage) (any, error) {
	site, err := shell.DecodeString(in[0])
	if err != nil {
		return nil, err
	}
	low, high, err := shell.DecodeRange(in[1])
	if err != nil {
		return nil, err
	}
	return s.Scatter(ctx, site, model.PayloadRange{Low: low, High: high})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"dataPath":      s.dataPath,
		"sliderStep":    s.sliderStep,
		"pieCalls":      s.pieCalls.Load(),
		"scatterCalls":  s.scatterCalls.Load(),
		"dispatchCalls": s.dispatchCalls.Load(),
	}
	if s.started {
		stats["records"] = s.ds.Len()
		stats["sites"] = len(s.ds.Sites())
		stats["minPayload"] = s.ds.MinPayload()
		stats["maxPayload"] = s.ds.MaxPayload()
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["outputs"] = len(s.registry.Bindings())
	}
	return stats
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
