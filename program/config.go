package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// input
	InputPath string `yaml:"in"`
	Format    string `yaml:"format"`
	Demo      int    `yaml:"demo"`
	Seed      uint64 `yaml:"seed"`

	// minimap
	BinCount         int            `yaml:"bin_count"`
	MinimapHeight    int            `yaml:"minimap_height"`
	MinViewportWidth float64        `yaml:"min_viewport_width"`
	Heatmap          DensityOptions `yaml:"heatmap"`
	Curve            bool           `yaml:"curve"`

	// rail
	RailHeight int     `yaml:"rail_height"`
	Zoom       float64 `yaml:"zoom"`
	Smooth     bool    `yaml:"smooth"`

	// render
	Neon        string `yaml:"neon"`
	Background  string `yaml:"background"`
	CellPx      int    `yaml:"cell_px"`
	Stats       bool   `yaml:"stats"`
	StatsWindow int    `yaml:"stats_window"`
	AltScreen   bool   `yaml:"alt_screen"`

	// tags
	TopTags          int `yaml:"top_tags"`
	TrendWindowYears int `yaml:"trend_window_years"`

	// plain output
	Width int `yaml:"width"`

	LogFile string `yaml:"log_file"`
}

const (
	minZoom     = 0.6
	maxZoom     = 1.6
	defaultZoom = 1.0
)

func defaultConfig() Config {
	return Config{
		Format: FormatAuto,
		Seed:   1,

		MinimapHeight:    48,
		MinViewportWidth: 24,
		Heatmap:          defaultDensityOptions,

		Zoom:   defaultZoom,
		Smooth: true,

		Neon:        "#00f0ff",
		Background:  "#101018",
		CellPx:      8,
		StatsWindow: 256,
		AltScreen:   true,

		TopTags:          5,
		TrendWindowYears: 3,

		Width: 960,
	}
}

var config = defaultConfig()

// loadConfigFile overlays a YAML file onto cfg. Missing keys keep their
// current values.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func validateAndNormalizeConfig(cfg *Config) error {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "":
		cfg.Format = FormatAuto
	case FormatAuto, FormatJSON, FormatJSONL, FormatYAML, FormatCSV:
	default:
		return fmt.Errorf("--format must be one of auto, json, jsonl, yaml, csv")
	}
	if cfg.Demo < 0 {
		return fmt.Errorf("--demo must be >= 0")
	}
	if cfg.BinCount < 0 {
		return fmt.Errorf("--bin-count must be >= 0 (0 = derive from width)")
	}
	if cfg.MinimapHeight < 1 {
		return fmt.Errorf("--minimap-height must be >= 1")
	}
	if cfg.MinViewportWidth < 0 {
		return fmt.Errorf("--min-viewport-width must be >= 0")
	}
	if cfg.RailHeight < 0 {
		return fmt.Errorf("--rail-height must be >= 0 (0 = fill)")
	}
	if cfg.Zoom < minZoom || cfg.Zoom > maxZoom {
		return fmt.Errorf("--zoom must be in [%.1f,%.1f]", minZoom, maxZoom)
	}
	if _, err := colorful.Hex(cfg.Neon); err != nil {
		return fmt.Errorf("--neon must be a hex color like #00f0ff (got %q)", cfg.Neon)
	}
	if _, err := colorful.Hex(cfg.Background); err != nil {
		return fmt.Errorf("--background must be a hex color like #101018 (got %q)", cfg.Background)
	}
	if cfg.CellPx < 1 {
		return fmt.Errorf("--cell-px must be >= 1")
	}
	if cfg.StatsWindow < 16 {
		cfg.StatsWindow = 16
	}
	if cfg.TopTags < 1 {
		return fmt.Errorf("--top-tags must be >= 1")
	}
	if cfg.TrendWindowYears < 1 {
		return fmt.Errorf("--trend-window must be >= 1")
	}
	if cfg.Width < 1 {
		return fmt.Errorf("--width must be >= 1")
	}

	h := &cfg.Heatmap
	if h.PixelsPerBin <= 0 {
		return fmt.Errorf("heatmap.pixels_per_bin must be > 0")
	}
	if h.MinBins < 1 || h.MaxBins < h.MinBins {
		return fmt.Errorf("heatmap bins must satisfy 1 <= min_bins <= max_bins (got %d, %d)", h.MinBins, h.MaxBins)
	}
	if h.AlphaFloor < 0 || h.AlphaRange < 0 || h.AlphaFloor+h.AlphaRange > 1 {
		return fmt.Errorf("heatmap alpha_floor + alpha_range must stay within [0,1]")
	}
	if h.AlphaGamma <= 0 {
		return fmt.Errorf("heatmap.alpha_gamma must be > 0")
	}
	return nil
}
