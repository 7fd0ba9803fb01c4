package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmindex/tradeoff/src/perf"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig.Sources, cfg.Sources)
	assert.Equal(t, "scatter_plot_tradeoff.png", cfg.Outputs.Scatter)
	assert.Equal(t, "heatmap_tradeoff.png", cfg.Outputs.Heatmap)
	assert.Equal(t, 500, cfg.Bench.ChunkSize)
	assert.Equal(t, []string{"ACG", "TGCA", "GATTACA", "TTAGGC"}, cfg.Bench.Patterns)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tradeoff.yaml")
	yaml := `
data_dir: /data/runs
sources:
  - group: Human
    file: h.csv
chart:
  width: 640
bench:
  chunk_size: 250
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("TRADEOFF_CHART_HEIGHT", "480")

	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("out-dir", ".", "")
	fs.Int("width", 800, "")
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--out-dir", "/tmp/charts"}))

	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, "/data/runs", cfg.DataDir)
	assert.Equal(t, "/tmp/charts", cfg.OutDir)
	assert.Equal(t, []Source{{Group: "Human", File: "h.csv"}}, cfg.Sources)
	// unchanged flag default must not shadow the file value
	assert.Equal(t, 640, cfg.Chart.Width)
	assert.Equal(t, 480, cfg.Chart.Height)
	assert.Equal(t, 250, cfg.Bench.ChunkSize)
	assert.Equal(t, "/data/runs/h.csv", cfg.DataPath("h.csv"))
	assert.Equal(t, "/abs/x.png", cfg.OutPath("/abs/x.png"))
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig
	require.NoError(t, cfg.Validate())

	bad := DefaultConfig
	bad.Sources = nil
	assert.Error(t, bad.Validate())

	bad = DefaultConfig
	bad.Sources = []Source{{Group: "Dog"}}
	assert.Error(t, bad.Validate())

	bad = DefaultConfig
	bad.Chart.Height = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig
	bad.Bench.ChunkSize = -1
	assert.Error(t, bad.Validate())
}

func TestPerfSources(t *testing.T) {
	cfg := DefaultConfig
	cfg.DataDir = "/data"
	cfg.Sources = []Source{
		{Group: "human", File: "h.csv"},
		{Group: "Dog", File: "/abs/d.csv"},
	}
	srcs, err := cfg.PerfSources()
	require.NoError(t, err)
	assert.Equal(t, []perf.Source{
		{Group: perf.Human, Path: filepath.Join("/data", "h.csv")},
		{Group: perf.Dog, Path: "/abs/d.csv"},
	}, srcs)

	cfg.Sources = []Source{{Group: "Cat", File: "c.csv"}}
	_, err = cfg.PerfSources()
	require.Error(t, err)
	assert.ErrorIs(t, err, perf.ErrUnknownGroup)
}
