// tradeoff main entrypoint.
//
// Three commands:
//  1. plot (default): load the per-group performance CSVs, tag rows with their group, coerce the
//     numeric columns and write the scatter, line, dual-axis and heatmap PNGs.
//  2. bench: build an FM-index per sequence chunk for each configured FASTA input and write the
//     performance CSVs the plot command consumes.
//  3. summary: print per-group statistics of the loaded measurements.
//
// Configuration precedence: flags > TRADEOFF_* environment > tradeoff.yaml > built-in defaults.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fmindex/tradeoff/src/bench"
	"github.com/fmindex/tradeoff/src/charts"
	"github.com/fmindex/tradeoff/src/config"
	"github.com/fmindex/tradeoff/src/logging"
	"github.com/fmindex/tradeoff/src/perf"
)

// app carries state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgPath string
	cfg     *config.Config
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}
	root := &cobra.Command{
		Use:           "tradeoff",
		Short:         "Chart FM-index space/time tradeoff measurements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		RunE: a.runPlot,
	}
	root.SetOut(out)
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "Path to a tradeoff.yaml (default: search . and ./config)")
	pf.String("data-dir", config.DefaultConfig.DataDir, "Directory holding the performance CSVs and sequence inputs")
	pf.String("out-dir", config.DefaultConfig.OutDir, "Directory receiving generated files")
	pf.String("log-level", config.DefaultConfig.LogLevel, "Log level (debug|info|warn|error)")
	pf.String("log-file", "", "Also write JSON logs to this file (rotated)")
	addPlotFlags(root)

	plot := &cobra.Command{
		Use:   "plot",
		Short: "Render the four tradeoff charts",
		Args:  cobra.NoArgs,
		RunE:  a.runPlot,
	}
	addPlotFlags(plot)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark FM-index pattern queries and write the performance CSVs",
		Args:  cobra.NoArgs,
		RunE:  a.runBench,
	}
	benchCmd.Flags().Int("chunk-size", config.DefaultConfig.Bench.ChunkSize, "Sequence chunk size (the blocking factor)")
	benchCmd.Flags().StringSlice("patterns", config.DefaultConfig.Bench.Patterns, "Patterns to query in every chunk")
	benchCmd.Flags().Bool("report", config.DefaultConfig.Bench.Report, "Write <input>_output.txt match reports")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print per-group statistics",
		Args:  cobra.NoArgs,
		RunE:  a.runSummary,
	}
	summary.Flags().Bool("json", false, "Emit JSON instead of a table")

	root.AddCommand(plot, benchCmd, summary)
	return root
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", config.DefaultConfig.Chart.Width, "Width of the scatter, line and dual-axis charts")
	cmd.Flags().Int("height", config.DefaultConfig.Chart.Height, "Height of the scatter, line and dual-axis charts")
	cmd.Flags().Bool("hints", false, "Overlay a reading hint on each chart")
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgPath)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	logging.Debugf("[init] config: data_dir=%s out_dir=%s sources=%d", cfg.DataDir, cfg.OutDir, len(cfg.Sources))
	a.cfg = cfg
	return nil
}

func (a *app) loadTable() (*perf.Table, error) {
	srcs, err := a.cfg.PerfSources()
	if err != nil {
		return nil, err
	}
	return perf.LoadAll(srcs)
}

func (a *app) runPlot(cmd *cobra.Command, _ []string) error {
	tbl, err := a.loadTable()
	if err != nil {
		return err
	}
	hints, _ := cmd.Flags().GetBool("hints")
	c := a.cfg
	opts := charts.Options{
		Size:        charts.Size{Width: c.Chart.Width, Height: c.Chart.Height},
		HeatmapSize: charts.Size{Width: c.Chart.HeatmapWidth, Height: c.Chart.HeatmapHeight},
		Hints:       hints,
		Paths: map[charts.Kind]string{
			charts.KindScatter:  c.OutPath(c.Outputs.Scatter),
			charts.KindLine:     c.OutPath(c.Outputs.Line),
			charts.KindDualAxis: c.OutPath(c.Outputs.DualAxis),
			charts.KindHeatmap:  c.OutPath(c.Outputs.Heatmap),
		},
	}
	paths, err := charts.RenderAll(tbl, opts)
	for _, p := range paths {
		fmt.Fprintln(a.out, p)
	}
	return err
}

// benchJobs pairs every configured input with the CSV the plot command reads for the same group,
// falling back to <stem>_performance.csv when the group has no configured source.
func benchJobs(cfg *config.Config) ([]bench.Job, error) {
	targets := map[perf.Group]string{}
	for _, s := range cfg.Sources {
		g, err := perf.ParseGroup(s.Group)
		if err != nil {
			return nil, err
		}
		targets[g] = cfg.DataPath(s.File)
	}
	jobs := make([]bench.Job, 0, len(cfg.Bench.Inputs))
	for _, in := range cfg.Bench.Inputs {
		g, err := perf.ParseGroup(in.Group)
		if err != nil {
			return nil, err
		}
		input := cfg.DataPath(in.File)
		output, ok := targets[g]
		if !ok {
			stem := strings.TrimSuffix(filepath.Base(in.File), filepath.Ext(in.File))
			output = cfg.OutPath(stem + "_performance.csv")
		}
		j := bench.Job{Group: g, Input: input, Output: output}
		if cfg.Bench.Report {
			j.Report = bench.ReportPath(input)
		}
		jobs = append(jobs, j)
	}
	if len(jobs) == 0 {
		return nil, errors.New("bench: no inputs configured")
	}
	return jobs, nil
}

func (a *app) runBench(cmd *cobra.Command, _ []string) error {
	jobs, err := benchJobs(a.cfg)
	if err != nil {
		return err
	}
	opts := bench.Options{ChunkSize: a.cfg.Bench.ChunkSize, Patterns: a.cfg.Bench.Patterns}
	err = bench.RunAll(cmd.Context(), jobs, opts)
	for _, j := range jobs {
		if _, serr := os.Stat(j.Output); serr == nil {
			fmt.Fprintln(a.out, j.Output)
		}
	}
	return err
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

func writeSummaryTable(w io.Writer, sums []perf.GroupSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tROWS\tMISSING\tAVG_QT_NS\tMEDIAN_QT_NS\tMIN_QT_NS\tMAX_QT_NS\tAVG_MEM_B\tMAX_MEM_B\tBLOCKING_FACTORS")
	for _, s := range sums {
		bfs := make([]string, len(s.BlockFactors))
		for i, bf := range s.BlockFactors {
			bfs[i] = fmt.Sprintf("%g", bf)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Group, s.Rows, s.MissingRows,
			fmtStat(s.AvgQueryNs), fmtStat(s.MedianNs), fmtStat(s.MinQueryNs), fmtStat(s.MaxQueryNs),
			fmtStat(s.AvgMemBytes), fmtStat(s.MaxMemBytes), strings.Join(bfs, ","))
	}
	return tw.Flush()
}

func (a *app) runSummary(cmd *cobra.Command, _ []string) error {
	tbl, err := a.loadTable()
	if err != nil {
		return err
	}
	sums := perf.Summarize(tbl)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}
	return writeSummaryTable(a.out, sums)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	_ = logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
