// Package charts renders the tradeoff charts from a coerced performance table. The three
// blocking-factor charts use go-chart; the heatmap uses gonum/plot.
package charts

import (
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fmindex/tradeoff/src/logging"
	"github.com/fmindex/tradeoff/src/perf"
)

type Size struct {
	Width  int
	Height int
}

var (
	DefaultSize        = Size{Width: 800, Height: 600}
	DefaultHeatmapSize = Size{Width: 1000, Height: 600}
)

func (s Size) orDefault(d Size) Size {
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	return s
}

// Kind identifies one of the four tradeoff charts.
type Kind int

const (
	KindScatter Kind = iota
	KindLine
	KindDualAxis
	KindHeatmap
)

// Kinds lists every chart in output order.
var Kinds = []Kind{KindScatter, KindLine, KindDualAxis, KindHeatmap}

func (k Kind) String() string {
	switch k {
	case KindScatter:
		return "Scatter"
	case KindLine:
		return "Line"
	case KindDualAxis:
		return "Dual Axis"
	case KindHeatmap:
		return "Heatmap"
	}
	return "unknown"
}

var hints = map[Kind]string{
	KindScatter:  "Hint: one dot per query; memory is heap growth since the benchmark started.",
	KindLine:     "Hint: lines follow file order, so steps show memory growing chunk by chunk.",
	KindDualAxis: "Hint: solid = memory (left axis), dashed = query time (right axis).",
	KindHeatmap:  "Hint: cells average every query at that blocking factor; blank = no data.",
}

// Options sizes the charts and names their output files.
type Options struct {
	Size        Size
	HeatmapSize Size
	// Paths maps each chart to its output file. Kinds without a path are skipped by RenderAll.
	Paths map[Kind]string
	// Hints overlays a one-line reading hint at the bottom of each chart.
	Hints bool
}

// Render draws one chart.
func Render(k Kind, t *perf.Table, o Options) (image.Image, error) {
	if t == nil {
		return nil, errors.Wrap(perf.ErrNoRows, "render")
	}
	var (
		img image.Image
		err error
	)
	switch k {
	case KindScatter:
		img, err = Scatter(t, o.Size.orDefault(DefaultSize))
	case KindLine:
		img, err = Line(t, o.Size.orDefault(DefaultSize))
	case KindDualAxis:
		img, err = DualAxis(t, o.Size.orDefault(DefaultSize))
	case KindHeatmap:
		img, err = Heatmap(t, o.HeatmapSize.orDefault(DefaultHeatmapSize))
	default:
		return nil, errors.Errorf("unknown chart kind %d", int(k))
	}
	if err != nil {
		return nil, err
	}
	if o.Hints {
		img = drawHint(img, hints[k])
	}
	return img, nil
}

// RenderAll renders and writes every chart that has a path. A failing chart does not stop the
// others; the returned error combines every failure and paths lists the files written.
func RenderAll(t *perf.Table, o Options) (paths []string, err error) {
	defer logging.TimeTrack(time.Now(), "[charts] render all")
	for _, k := range Kinds {
		path, ok := o.Paths[k]
		if !ok || path == "" {
			continue
		}
		img, rerr := Render(k, t, o)
		if rerr == nil {
			rerr = WritePNG(path, img)
		}
		if rerr != nil {
			logging.Errorf("[charts] %s: %v", k, rerr)
			err = multierr.Append(err, errors.Wrapf(rerr, "%s chart", k))
			continue
		}
		logging.Infof("[charts] wrote %s", path)
		paths = append(paths, path)
	}
	return paths, err
}
