// Package config holds the tradeoff tool configuration. Values come from built-in defaults,
// an optional tradeoff.yaml, TRADEOFF_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fmindex/tradeoff/src/perf"
)

const (
	ConfigName = "tradeoff"
	EnvPrefix  = "TRADEOFF"
)

// Source maps a group label to the file holding its measurements.
type Source struct {
	Group string `mapstructure:"group"`
	File  string `mapstructure:"file"`
}

// Outputs names the four chart artifacts.
type Outputs struct {
	Scatter  string `mapstructure:"scatter"`
	Line     string `mapstructure:"line"`
	DualAxis string `mapstructure:"dual_axis"`
	Heatmap  string `mapstructure:"heatmap"`
}

type Chart struct {
	Width         int `mapstructure:"width"`
	Height        int `mapstructure:"height"`
	HeatmapWidth  int `mapstructure:"heatmap_width"`
	HeatmapHeight int `mapstructure:"heatmap_height"`
}

// Bench configures the FM-index benchmark that produces the performance CSVs.
type Bench struct {
	ChunkSize int      `mapstructure:"chunk_size"`
	Patterns  []string `mapstructure:"patterns"`
	Inputs    []Source `mapstructure:"inputs"`
	// Report writes a <stem>_output.txt next to each CSV listing match positions.
	Report bool `mapstructure:"report"`
}

type Config struct {
	DataDir  string   `mapstructure:"data_dir"`
	OutDir   string   `mapstructure:"out_dir"`
	Sources  []Source `mapstructure:"sources"`
	Outputs  Outputs  `mapstructure:"outputs"`
	Chart    Chart    `mapstructure:"chart"`
	Bench    Bench    `mapstructure:"bench"`
	LogLevel string   `mapstructure:"log_level"`
	LogFile  string   `mapstructure:"log_file"`
}

var DefaultConfig = Config{
	DataDir: ".",
	OutDir:  ".",
	Sources: []Source{
		{Group: "Chimpanzee", File: "chimpanzee_performance.csv"},
		{Group: "Dog", File: "dog_performance.csv"},
		{Group: "Human", File: "human_performance.csv"},
	},
	Outputs: Outputs{
		Scatter:  "scatter_plot_tradeoff.png",
		Line:     "line_plot_tradeoff.png",
		DualAxis: "dual_axis_plot_tradeoff.png",
		Heatmap:  "heatmap_tradeoff.png",
	},
	Chart: Chart{
		Width:         800,
		Height:        600,
		HeatmapWidth:  1000,
		HeatmapHeight: 600,
	},
	Bench: Bench{
		ChunkSize: 500,
		Patterns:  []string{"ACG", "TGCA", "GATTACA", "TTAGGC"},
		Inputs: []Source{
			{Group: "Chimpanzee", File: "chimpanzee.txt"},
			{Group: "Dog", File: "dog.txt"},
			{Group: "Human", File: "human.txt"},
		},
		Report: true,
	},
	LogLevel: "info",
}

// setDefaults registers every default so env vars and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("sources", d.Sources)
	v.SetDefault("outputs.scatter", d.Outputs.Scatter)
	v.SetDefault("outputs.line", d.Outputs.Line)
	v.SetDefault("outputs.dual_axis", d.Outputs.DualAxis)
	v.SetDefault("outputs.heatmap", d.Outputs.Heatmap)
	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)
	v.SetDefault("chart.heatmap_width", d.Chart.HeatmapWidth)
	v.SetDefault("chart.heatmap_height", d.Chart.HeatmapHeight)
	v.SetDefault("bench.chunk_size", d.Bench.ChunkSize)
	v.SetDefault("bench.patterns", d.Bench.Patterns)
	v.SetDefault("bench.inputs", d.Bench.Inputs)
	v.SetDefault("bench.report", d.Bench.Report)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"data-dir":   "data_dir",
	"out-dir":    "out_dir",
	"width":      "chart.width",
	"height":     "chart.height",
	"log-level":  "log_level",
	"log-file":   "log_file",
	"chunk-size": "bench.chunk_size",
	"patterns":   "bench.patterns",
	"report":     "bench.report",
}

// BindFlags binds every known flag present in fs to its config key. Flags absent from fs are skipped,
// so each command only needs to declare the flags it uses.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}

// Load reads configuration into a fresh Config. An explicit path must exist; otherwise
// tradeoff.yaml is looked up in . and ./config and silently skipped when absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside rendering or benchmarking.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("config: no sources configured")
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Group) == "" || strings.TrimSpace(s.File) == "" {
			return errors.Errorf("config: sources[%d] needs both group and file", i)
		}
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 || c.Chart.HeatmapWidth <= 0 || c.Chart.HeatmapHeight <= 0 {
		return errors.New("config: chart dimensions must be positive")
	}
	if c.Bench.ChunkSize <= 0 {
		return errors.New("config: bench.chunk_size must be positive")
	}
	return nil
}

// PerfSources resolves the configured group → file mappings against DataDir.
func (c *Config) PerfSources() ([]perf.Source, error) {
	out := make([]perf.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		g, err := perf.ParseGroup(s.Group)
		if err != nil {
			return nil, errors.Wrapf(err, "config: source %s", s.File)
		}
		out = append(out, perf.Source{Group: g, Path: c.DataPath(s.File)})
	}
	return out, nil
}

// DataPath resolves a data file against DataDir unless it is already absolute.
func (c *Config) DataPath(file string) string {
	if filepath.IsAbs(file) || c.DataDir == "" {
		return file
	}
	return filepath.Join(c.DataDir, file)
}

// OutPath resolves an output file against OutDir unless it is already absolute.
func (c *Config) OutPath(file string) string {
	if filepath.IsAbs(file) || c.OutDir == "" {
		return file
	}
	return filepath.Join(c.OutDir, file)
}
