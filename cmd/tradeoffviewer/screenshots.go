package main

import (
	"github.com/fmindex/tradeoff/src/charts"
	"github.com/fmindex/tradeoff/src/config"
)

// RunScreenshotsMode renders all four charts into cfg.OutDir at the configured chart sizes and
// returns the written paths. It runs headlessly without creating a UI window.
func RunScreenshotsMode(cfg *config.Config, hints bool) ([]string, error) {
	tbl, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}
	opts := charts.Options{
		Size:        charts.Size{Width: cfg.Chart.Width, Height: cfg.Chart.Height},
		HeatmapSize: charts.Size{Width: cfg.Chart.HeatmapWidth, Height: cfg.Chart.HeatmapHeight},
		Hints:       hints,
		Paths:       map[charts.Kind]string{},
	}
	for _, k := range charts.Kinds {
		opts.Paths[k] = cfg.OutPath(defaultFileName(cfg, k))
	}
	return charts.RenderAll(tbl, opts)
}
