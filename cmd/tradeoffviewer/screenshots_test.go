package main

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/fmindex/tradeoff/src/charts"
	"github.com/fmindex/tradeoff/src/config"
)

func writeInputs(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"chimpanzee_performance.csv": "BlockingFactor,MemoryUsage,QueryTime,Pattern\n500,1000,4000,ACG\n500,1600,4200,TGCA\n",
		"dog_performance.csv":        "BlockingFactor,MemoryUsage,QueryTime,Pattern\n500,1100,3800,ACG\n",
		"human_performance.csv":      "BlockingFactor,MemoryUsage,QueryTime,Pattern\n500,900,3000,ACG\n500,bad,3100,TGCA\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func decodeSize(t *testing.T, p string) (int, int) {
	t.Helper()
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open %s: %v", p, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", p, err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

// TestScreenshotSizes checks the headless renderer uses the configured chart sizes.
func TestScreenshotSizes(t *testing.T) {
	for _, chart := range []config.Chart{
		config.DefaultConfig.Chart,
		{Width: 500, Height: 350, HeatmapWidth: 700, HeatmapHeight: 420},
	} {
		dir := t.TempDir()
		writeInputs(t, dir)
		cfg := config.DefaultConfig
		cfg.DataDir = dir
		cfg.OutDir = filepath.Join(dir, "shots")
		cfg.Chart = chart

		paths, err := RunScreenshotsMode(&cfg, true)
		if err != nil {
			t.Fatalf("RunScreenshotsMode: %v", err)
		}
		if len(paths) != len(charts.Kinds) {
			t.Fatalf("expected %d screenshots, got %d", len(charts.Kinds), len(paths))
		}
		for _, p := range paths {
			w, h := chart.Width, chart.Height
			if filepath.Base(p) == cfg.Outputs.Heatmap {
				w, h = chart.HeatmapWidth, chart.HeatmapHeight
			}
			if gw, gh := decodeSize(t, p); gw != w || gh != h {
				t.Fatalf("%s: got %dx%d want %dx%d", p, gw, gh, w, h)
			}
		}
	}
}

func TestExportWithoutWindowIsNoop(t *testing.T) {
	exportChartPNG(nil, nil, "scatter_plot_tradeoff.png")
	exportChartPNG(&uiState{}, nil, "scatter_plot_tradeoff.png")
}

func TestScreenshotMissingData(t *testing.T) {
	cfg := config.DefaultConfig
	cfg.DataDir = t.TempDir()
	cfg.OutDir = cfg.DataDir
	if _, err := RunScreenshotsMode(&cfg, false); err == nil {
		t.Fatalf("expected error for missing CSVs")
	}
}

func TestDefaultFileName(t *testing.T) {
	cfg := config.DefaultConfig
	want := map[charts.Kind]string{
		charts.KindScatter:  "scatter_plot_tradeoff.png",
		charts.KindLine:     "line_plot_tradeoff.png",
		charts.KindDualAxis: "dual_axis_plot_tradeoff.png",
		charts.KindHeatmap:  "heatmap_tradeoff.png",
	}
	for k, name := range want {
		if got := defaultFileName(&cfg, k); got != name {
			t.Fatalf("%s: got %q want %q", k, got, name)
		}
	}
}
