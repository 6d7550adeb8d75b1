// Package config defines the dashboard configuration and how it is loaded.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DataPath is the launch records CSV read at startup.
	DataPath string `koanf:"data_path"`

	// Title is the dashboard heading.
	Title string `koanf:"title"`

	// SliderStep is the spacing of payload slider marks in kg.
	SliderStep int `koanf:"slider_step"`

	// ChartWidth and ChartHeight size rendered chart images in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// ImageCacheEntries bounds the rendered image cache; 0 disables it.
	ImageCacheEntries int `koanf:"image_cache_entries"`

	// MetricsRefreshSeconds is how often system gauges are refreshed.
	MetricsRefreshSeconds int `koanf:"metrics_refresh_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":8050",
		DataPath:              "spacex_launch_dash.csv",
		Title:                 "SpaceX Launch Records Dashboard",
		SliderStep:            1000,
		ChartWidth:            800,
		ChartHeight:           480,
		ImageCacheEntries:     256,
		MetricsRefreshSeconds: 10,
	}
}
