package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, validateAndNormalizeConfig(&cfg))
	assert.Equal(t, FormatAuto, cfg.Format)
}

func TestValidateAndNormalizeConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "format", mutate: func(c *Config) { c.Format = "xml" }, errMsg: "--format"},
		{name: "demo", mutate: func(c *Config) { c.Demo = -1 }, errMsg: "--demo"},
		{name: "bin count", mutate: func(c *Config) { c.BinCount = -2 }, errMsg: "--bin-count"},
		{name: "minimap height", mutate: func(c *Config) { c.MinimapHeight = 0 }, errMsg: "--minimap-height"},
		{name: "zoom", mutate: func(c *Config) { c.Zoom = 3 }, errMsg: "--zoom"},
		{name: "neon", mutate: func(c *Config) { c.Neon = "cyan" }, errMsg: "--neon"},
		{name: "background", mutate: func(c *Config) { c.Background = "navy" }, errMsg: "--background must be a hex color"},
		{name: "cell px", mutate: func(c *Config) { c.CellPx = 0 }, errMsg: "--cell-px"},
		{name: "top tags", mutate: func(c *Config) { c.TopTags = 0 }, errMsg: "--top-tags"},
		{name: "alpha", mutate: func(c *Config) { c.Heatmap.AlphaFloor = 0.5 }, errMsg: "alpha_floor"},
		{name: "bins", mutate: func(c *Config) { c.Heatmap.MaxBins = 10 }, errMsg: "min_bins <= max_bins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, validateAndNormalizeConfig(&cfg), tt.errMsg)
		})
	}
}

func TestValidateRaisesStatsWindow(t *testing.T) {
	cfg := defaultConfig()
	cfg.StatsWindow = 2
	cfg.Format = " JSON "
	require.NoError(t, validateAndNormalizeConfig(&cfg))
	assert.Equal(t, 16, cfg.StatsWindow)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filmstrip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "zoom: 1.4\nheatmap:\n  alpha_floor: 0.2\n")
	cfg := defaultConfig()
	require.NoError(t, loadConfigFile(path, &cfg))
	assert.Equal(t, 1.4, cfg.Zoom)
	assert.Equal(t, 0.2, cfg.Heatmap.AlphaFloor)
	assert.Equal(t, defaultDensityOptions.MaxBins, cfg.Heatmap.MaxBins, "missing keys keep defaults")

	assert.ErrorContains(t, loadConfigFile(writeConfig(t, "zoom: [\n"), &cfg), "error parsing config file")
	assert.ErrorContains(t, loadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg), "error reading config file")
}

func TestApplyConfigFileKeepsExplicitFlags(t *testing.T) {
	path := writeConfig(t, "zoom: 1.4\nseed: 9\n")
	cfg := defaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "")
	fs.Float64Var(&cfg.Zoom, "zoom", cfg.Zoom, "")
	require.NoError(t, fs.Parse([]string{"--seed", "3"}))

	require.NoError(t, applyConfigFile(fs, path, &cfg))
	assert.EqualValues(t, 3, cfg.Seed)
	assert.Equal(t, 1.4, cfg.Zoom)
}

func TestBinsCommand(t *testing.T) {
	cfg := defaultConfig()
	cmd, closeLog := newRootCmd(&cfg)
	defer func() { assert.NoError(t, closeLog()) }()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"bins", "--demo", "50", "--width", "600", "--bin-count", "10"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "10 bins, 50 events binned")
}

func TestGroupsCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
  {"date": "2021-03-01", "title": "Later"},
  {"date": "2019-05-05", "title": "Earlier", "category": "research"}
]`), 0o644))

	cfg := defaultConfig()
	cmd, closeLog := newRootCmd(&cfg)
	defer func() { assert.NoError(t, closeLog()) }()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"groups", "--in", path})

	require.NoError(t, cmd.Execute())
	got := out.String()
	assert.Contains(t, got, "2019")
	assert.Contains(t, got, "Earlier")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Earlier")), bytes.Index(out.Bytes(), []byte("Later")))
}

func TestRootCommandRejectsBadFlags(t *testing.T) {
	cfg := defaultConfig()
	cmd, closeLog := newRootCmd(&cfg)
	defer func() { assert.NoError(t, closeLog()) }()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"tags", "--demo", "5", "--top-tags", "0"})
	assert.ErrorContains(t, cmd.Execute(), "--top-tags must be >= 1")
}

func TestFailedCommandStillClosesLog(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	dir := t.TempDir()
	logPath := filepath.Join(dir, "filmstrip.log")
	cfg := defaultConfig()
	cmd, closeLog := newRootCmd(&cfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"bins", "--in", filepath.Join(dir, "missing.json"), "--log-file", logPath})

	require.Error(t, cmd.Execute())
	logger.Info("after failure")
	require.NoError(t, closeLog())
	assert.NoError(t, closeLog(), "closing twice is a no-op")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"after failure"`)
}

func TestBackgroundFlag(t *testing.T) {
	cfg := defaultConfig()
	cmd, closeLog := newRootCmd(&cfg)
	defer func() { assert.NoError(t, closeLog()) }()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"bins", "--demo", "5", "--background", "#000000"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "#000000", cfg.Background)
}
