package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/fmindex/tradeoff/src/logging"
	"github.com/fmindex/tradeoff/src/perf"
)

const (
	TitleTradeoff = "Data Structure Space vs Pattern Matching Query Size Tradeoff"
	TitleHeatmap  = "Query Time Heatmap"

	LabelBlockingFactor = "Blocking Factor"
	LabelMemory         = "Memory Usage (bytes)"
	LabelQueryTime      = "Query Time (ns)"
	LabelDataset        = "Dataset"
)

var (
	memoryAxisColor = drawing.ColorFromHex("1f3fbf")
	queryAxisColor  = drawing.ColorFromHex("c0392b")
	gridStyle       = chart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1.0}
)

// groupColors follows the matplotlib default colour cycle.
var groupColors = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
}

func groupColor(i int) drawing.Color { return groupColors[i%len(groupColors)] }

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 2}
}

func dashedStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: 2, StrokeDashArray: []float64{6, 4}}
}

// groupXY is one group's finite (x, y) pairs in table order.
type groupXY struct {
	group perf.Group
	color drawing.Color
	xs    []float64
	ys    []float64
}

// collect splits t by group (first-appearance order) and keeps the finite pairs of yCol against
// BlockingFactor. Groups without any finite pair are dropped; colours stay bound to the group's
// position so a missing group does not shift the others.
func collect(t *perf.Table, yCol string) []groupXY {
	var out []groupXY
	for i, g := range t.Groups() {
		xs, ys := perf.XY(t.Filter(g), perf.ColBlockingFactor, yCol)
		if len(xs) == 0 {
			logging.Debugf("[charts] %s: no finite %s values", g, yCol)
			continue
		}
		out = append(out, groupXY{group: g, color: groupColor(i), xs: xs, ys: ys})
	}
	return out
}

// pad duplicates a lone point; go-chart needs at least two values per series.
func pad(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 1 {
		return []float64{xs[0], xs[0]}, []float64{ys[0], ys[0]}
	}
	return xs, ys
}

func allX(gs []groupXY) [][]float64 {
	out := make([][]float64, len(gs))
	for i, g := range gs {
		out[i] = g.xs
	}
	return out
}

func allY(gs []groupXY) [][]float64 {
	out := make([][]float64, len(gs))
	for i, g := range gs {
		out[i] = g.ys
	}
	return out
}

func baseChart(title string, size Size) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
	}
}

func xAxis(gs ...[]groupXY) chart.XAxis {
	var vals [][]float64
	for _, g := range gs {
		vals = append(vals, allX(g)...)
	}
	rng, ticks := axisRange(vals...)
	return chart.XAxis{Name: LabelBlockingFactor, Range: rng, Ticks: ticks, GridMajorStyle: gridStyle}
}

func renderChart(ch *chart.Chart) (image.Image, error) {
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrapf(err, "render %q", ch.Title)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %q", ch.Title)
	}
	return img, nil
}

// memorySeries plots memory usage against blocking factor, one series per group, as dots or lines.
func memorySeries(t *perf.Table, size Size, dots bool) (image.Image, error) {
	gs := collect(t, perf.ColMemoryUsage)
	if len(gs) == 0 {
		return placeholder(size.Width, size.Height, TitleTradeoff, "no memory usage data"), nil
	}
	series := make([]chart.Series, 0, len(gs))
	for _, g := range gs {
		st := lineStyle(g.color)
		if dots {
			st = pointStyle(g.color)
		}
		xs, ys := pad(g.xs, g.ys)
		series = append(series, chart.ContinuousSeries{Name: string(g.group), XValues: xs, YValues: ys, Style: st})
	}
	yRange, yTicks := axisRange(allY(gs)...)
	ch := baseChart(TitleTradeoff, size)
	ch.XAxis = xAxis(gs)
	ch.YAxis = chart.YAxis{Name: LabelMemory, Range: yRange, Ticks: yTicks, GridMajorStyle: gridStyle}
	ch.Series = series
	return renderChart(&ch)
}

// Scatter plots memory usage against blocking factor as dots.
func Scatter(t *perf.Table, size Size) (image.Image, error) {
	return memorySeries(t, size, true)
}

// Line plots memory usage against blocking factor as lines in table order.
func Line(t *perf.Table, size Size) (image.Image, error) {
	return memorySeries(t, size, false)
}

// DualAxis plots memory usage (solid, primary axis) and query time (dashed, secondary axis)
// against blocking factor for every group.
func DualAxis(t *perf.Table, size Size) (image.Image, error) {
	ch, ok := dualAxisChart(t, size)
	if !ok {
		return placeholder(size.Width, size.Height, TitleTradeoff, "no memory usage or query time data"), nil
	}
	return renderChart(&ch)
}

// tickValue formats axis values the same way as the explicit ticks of the other axes.
func tickValue(v interface{}) string {
	if f, ok := v.(float64); ok {
		return formatTick(f)
	}
	return fmt.Sprintf("%v", v)
}

// dualAxisChart builds the dual-axis chart; ok is false when no group has plottable values.
// The secondary axis gets a range but no explicit ticks: go-chart derives the secondary range
// from the primary ticks whenever secondary ticks are set.
func dualAxisChart(t *perf.Table, size Size) (ch chart.Chart, ok bool) {
	mem := collect(t, perf.ColMemoryUsage)
	qt := collect(t, perf.ColQueryTime)
	if len(mem) == 0 && len(qt) == 0 {
		return ch, false
	}
	series := make([]chart.Series, 0, len(mem)+len(qt))
	for _, g := range mem {
		xs, ys := pad(g.xs, g.ys)
		series = append(series, chart.ContinuousSeries{
			Name:    string(g.group) + " Memory Usage",
			XValues: xs, YValues: ys,
			Style: lineStyle(g.color),
		})
	}
	for _, g := range qt {
		xs, ys := pad(g.xs, g.ys)
		series = append(series, chart.ContinuousSeries{
			Name:    string(g.group) + " Query Time",
			XValues: xs, YValues: ys,
			Style: dashedStyle(g.color),
			YAxis: chart.YAxisSecondary,
		})
	}
	memRange, memTicks := axisRange(allY(mem)...)
	qtRange, _ := axisRange(allY(qt)...)
	ch = baseChart(TitleTradeoff, size)
	ch.XAxis = xAxis(mem, qt)
	ch.YAxis = chart.YAxis{
		Name:           LabelMemory,
		NameStyle:      chart.Style{FontColor: memoryAxisColor},
		Style:          chart.Style{FontColor: memoryAxisColor},
		Range:          memRange,
		Ticks:          memTicks,
		GridMajorStyle: gridStyle,
	}
	ch.YAxisSecondary = chart.YAxis{
		Name:           LabelQueryTime,
		NameStyle:      chart.Style{FontColor: queryAxisColor},
		Style:          chart.Style{FontColor: queryAxisColor},
		Range:          qtRange,
		ValueFormatter: tickValue,
	}
	ch.Series = series
	return ch, true
}
