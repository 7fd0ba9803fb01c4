package main

import (
	"fmt"
	"image/color"
	png "image/png"
	"os"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fmindex/tradeoff/cmd/tradeoffviewer/uihelpers"
	"github.com/fmindex/tradeoff/src/charts"
	"github.com/fmindex/tradeoff/src/config"
	"github.com/fmindex/tradeoff/src/logging"
	"github.com/fmindex/tradeoff/src/perf"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    *config.Config

	table     *perf.Table
	images    map[charts.Kind]*canvas.Image
	tabs      *container.AppTabs
	showHints bool
	dirLabel  *widget.Label
	status    *widget.Label
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	fs := pflag.NewFlagSet("tradeoffviewer", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to a tradeoff.yaml")
	fs.String("data-dir", config.DefaultConfig.DataDir, "Directory holding the performance CSVs")
	fs.String("out-dir", config.DefaultConfig.OutDir, "Directory for --screenshots output")
	fs.String("log-level", config.DefaultConfig.LogLevel, "Log level (debug|info|warn|error)")
	screenshots := fs.Bool("screenshots", false, "Render the charts to --out-dir headlessly and exit")
	hints := fs.Bool("hints", false, "Overlay reading hints on the charts")
	_ = fs.Parse(os.Args[1:])

	v := viper.New()
	if err := config.BindFlags(v, fs); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v, *cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logging.SetLogLevel(cfg.LogLevel)

	if *screenshots {
		paths, err := RunScreenshotsMode(cfg, *hints)
		for _, p := range paths {
			fmt.Println(p)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.fmindex.tradeoff.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Tradeoff Viewer")
	w.Resize(fyne.NewSize(1100, 800))

	state := &uiState{
		app:       a,
		window:    w,
		cfg:       cfg,
		images:    map[charts.Kind]*canvas.Image{},
		showHints: a.Preferences().BoolWithFallback("showHints", *hints),
	}
	if !fs.Changed("data-dir") {
		if d := a.Preferences().String("lastDataDir"); d != "" {
			state.cfg.DataDir = d
		}
	}

	state.dirLabel = widget.NewLabel(uihelpers.TruncatePath(state.cfg.DataDir, 60))
	state.status = widget.NewLabel("")
	hintsChk := widget.NewCheck("Hints", func(b bool) {
		state.showHints = b
		a.Preferences().SetBool("showHints", b)
		redrawCharts(state)
	})
	hintsChk.SetChecked(state.showHints)

	state.tabs = container.NewAppTabs()
	for _, k := range charts.Kinds {
		img := canvas.NewImageFromImage(nil)
		img.FillMode = canvas.ImageFillContain
		state.images[k] = img
		state.tabs.Append(container.NewTabItem(k.String(), container.NewScroll(img)))
	}
	state.tabs.OnSelected = func(*container.TabItem) {
		a.Preferences().SetInt("selectedTabIndex", state.tabs.SelectedIndex())
	}
	if idx := a.Preferences().IntWithFallback("selectedTabIndex", 0); idx >= 0 && idx < len(state.tabs.Items) {
		state.tabs.SelectIndex(idx)
	}

	top := container.NewHBox(
		widget.NewButton("Open folder…", func() { openDirDialog(state) }),
		widget.NewButton("Reload", func() { loadAll(state) }),
		hintsChk,
		state.dirLabel,
	)
	w.SetContent(container.NewBorder(top, state.status, nil, nil, state.tabs))
	buildMenus(state)
	loadAll(state)
	w.ShowAndRun()
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil {
		return
	}
	var exports []*fyne.MenuItem
	for _, k := range charts.Kinds {
		k := k
		exports = append(exports, fyne.NewMenuItem(fmt.Sprintf("Export %s Chart…", k), func() {
			exportChartPNG(state, state.images[k], defaultFileName(state.cfg, k))
		}))
	}
	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Open Folder…", func() { openDirDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
	}
	items = append(items, exports...)
	items = append(items, fyne.NewMenuItemSeparator(), fyne.NewMenuItem("Quit", func() { state.window.Close() }))
	state.window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", items...)))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openDirDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openDirDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state) })
	}
}

func defaultFileName(cfg *config.Config, k charts.Kind) string {
	switch k {
	case charts.KindScatter:
		return cfg.Outputs.Scatter
	case charts.KindLine:
		return cfg.Outputs.Line
	case charts.KindDualAxis:
		return cfg.Outputs.DualAxis
	default:
		return cfg.Outputs.Heatmap
	}
}

func openDirDialog(state *uiState) {
	d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil || lu == nil {
			return
		}
		state.cfg.DataDir = lu.Path()
		state.dirLabel.SetText(uihelpers.TruncatePath(state.cfg.DataDir, 60))
		state.app.Preferences().SetString("lastDataDir", state.cfg.DataDir)
		loadAll(state)
	}, state.window)
	d.Show()
}

// loadAll reads the configured CSVs and redraws every tab.
func loadAll(state *uiState) {
	tbl, err := loadTable(state.cfg)
	if err != nil {
		state.table = nil
		state.status.SetText("load failed")
		dialog.ShowError(err, state.window)
		return
	}
	state.table = tbl
	parts := ""
	for _, s := range perf.Summarize(tbl) {
		parts += fmt.Sprintf("  %s=%d", s.Group, s.Rows)
	}
	state.status.SetText(fmt.Sprintf("%d rows:%s", tbl.Len(), parts))
	logging.Infof("[viewer] loaded %d rows from %s", tbl.Len(), state.cfg.DataDir)
	redrawCharts(state)
}

func loadTable(cfg *config.Config) (*perf.Table, error) {
	srcs, err := cfg.PerfSources()
	if err != nil {
		return nil, err
	}
	return perf.LoadAll(srcs)
}

// chartOptions sizes the charts from the window width.
func chartOptions(state *uiState) charts.Options {
	raw := 0
	if state != nil && state.window != nil && state.window.Canvas() != nil {
		raw = int(state.window.Canvas().Size().Width*0.95) - 12
	}
	w, h := uihelpers.ComputeChartDimensions(raw)
	hw, hh := uihelpers.ComputeHeatmapDimensions(raw)
	return charts.Options{
		Size:        charts.Size{Width: w, Height: h},
		HeatmapSize: charts.Size{Width: hw, Height: hh},
		Hints:       state != nil && state.showHints,
	}
}

func redrawCharts(state *uiState) {
	if state.table == nil {
		return
	}
	opts := chartOptions(state)
	for _, k := range charts.Kinds {
		img, err := charts.Render(k, state.table, opts)
		if err != nil {
			logging.Errorf("[viewer] %s chart: %v", k, err)
			continue
		}
		c := state.images[k]
		if c == nil {
			continue
		}
		c.Image = img
		b := img.Bounds()
		c.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		c.Refresh()
	}
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}
