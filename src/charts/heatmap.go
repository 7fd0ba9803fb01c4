package charts

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/fmindex/tradeoff/src/perf"
)

const colorBarWidth = 110

// pivotGrid adapts a pivot to plotter.GridXYZ. Columns and rows sit at integer coordinates so
// uneven blocking factors still get equal-width cells; the first group is drawn at the top.
type pivotGrid struct{ p *perf.Pivot }

func (g pivotGrid) Dims() (c, r int)      { return len(g.p.Columns), len(g.p.Index) }
func (g pivotGrid) Z(c, r int) float64    { return g.p.Cells[g.row(r)][c] }
func (g pivotGrid) X(c int) float64       { return float64(c) }
func (g pivotGrid) Y(r int) float64       { return float64(r) }
func (g pivotGrid) row(r int) int         { return len(g.p.Index) - 1 - r }
func (g pivotGrid) yOf(index int) float64 { return float64(len(g.p.Index) - 1 - index) }

// colors is a fixed palette.Palette.
type colors []color.Color

func (c colors) Colors() []color.Color { return c }

// steppedMap is a palette.ColorMap that maps [min, max] onto a fixed list of colours using the
// same bucketing as plotter.HeatMap, so the colour bar matches the cells.
type steppedMap struct {
	pal      []color.Color
	min, max float64
	alpha    float64
}

func newSteppedMap(pal []color.Color, min, max float64) *steppedMap {
	return &steppedMap{pal: pal, min: min, max: max, alpha: 1}
}

func (m *steppedMap) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, palette.ErrNaN
	}
	if m.max <= m.min {
		return m.pal[0], nil
	}
	idx := int((v-m.min)*float64(len(m.pal)-1)/(m.max-m.min) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.pal) {
		idx = len(m.pal) - 1
	}
	return m.pal[idx], nil
}

func (m *steppedMap) Max() float64       { return m.max }
func (m *steppedMap) Min() float64       { return m.min }
func (m *steppedMap) SetMax(v float64)   { m.max = v }
func (m *steppedMap) SetMin(v float64)   { m.min = v }
func (m *steppedMap) Alpha() float64     { return m.alpha }
func (m *steppedMap) SetAlpha(a float64) { m.alpha = a }
func (m *steppedMap) Palette(n int) palette.Palette {
	if n <= 0 {
		return colors(nil)
	}
	out := make(colors, n)
	for i := range out {
		v := m.min
		if n > 1 {
			v = m.min + (m.max-m.min)*float64(i)/float64(n-1)
		}
		out[i], _ = m.At(v)
	}
	return out
}

// textColorFor picks black or white for legible annotations on top of c.
func textColorFor(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
	if lum < 140 {
		return color.White
	}
	return color.Black
}

// Heatmap draws the mean query time per (group, blocking factor) cell with YlOrRd colouring,
// per-cell annotations and a colour bar.
func Heatmap(t *perf.Table, size Size) (image.Image, error) {
	pv, err := t.Pivot(perf.ColQueryTime)
	if err != nil {
		if errors.Is(err, perf.ErrNoRows) {
			return placeholder(size.Width, size.Height, TitleHeatmap, "no rows"), nil
		}
		return nil, err
	}
	lo, hi, ok := pv.Range()
	if !ok || len(pv.Columns) == 0 {
		return placeholder(size.Width, size.Height, TitleHeatmap, "no finite query times"), nil
	}
	if hi <= lo {
		hi = lo + 1
	}

	br, err := brewer.GetPalette(brewer.TypeSequential, "YlOrRd", 9)
	if err != nil {
		return nil, errors.Wrap(err, "heatmap palette")
	}
	pal := br.Colors()
	cmap := newSteppedMap(pal, lo, hi)

	grid := pivotGrid{p: pv}
	hm := plotter.NewHeatMap(grid, colors(pal))
	hm.Min, hm.Max = lo, hi
	hm.NaN = color.White

	p := plot.New()
	p.Title.Text = TitleHeatmap
	p.X.Label.Text = LabelBlockingFactor
	p.Y.Label.Text = LabelDataset
	p.Add(hm)

	xTicks := make([]plot.Tick, len(pv.Columns))
	for c, bf := range pv.Columns {
		xTicks[c] = plot.Tick{Value: float64(c), Label: formatFactor(bf)}
	}
	yTicks := make([]plot.Tick, len(pv.Index))
	for i, g := range pv.Index {
		yTicks[i] = plot.Tick{Value: grid.yOf(i), Label: string(g)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	var xys plotter.XYs
	var labels []string
	var cellColors []color.Color
	for i := range pv.Index {
		for c := range pv.Columns {
			v := pv.Cells[i][c]
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: grid.yOf(i)})
			labels = append(labels, fmt.Sprintf("%.1f", v))
			col, _ := cmap.At(v)
			cellColors = append(cellColors, col)
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, errors.Wrap(err, "heatmap annotations")
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YCenter
		annotations.TextStyle[i].Color = textColorFor(cellColors[i])
	}
	p.Add(annotations)

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = LabelQueryTime
	bar.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true})

	w, h := vg.Points(float64(size.Width)), vg.Points(float64(size.Height))
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(72))
	dc := draw.New(c)
	barW := vg.Points(colorBarWidth)
	p.Draw(draw.Crop(dc, 0, -barW, 0, 0))
	// align the bar with the heat map body: skip the title on top and the tick labels below
	bar.Draw(draw.Crop(dc, w-barW+vg.Points(10), 0, vg.Points(48), -vg.Points(36)))
	return c.Image(), nil
}

func formatFactor(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
