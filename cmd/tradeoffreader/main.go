// tradeoffreader loads performance CSVs and prints row counts per group. Useful to check inputs
// before rendering.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/fmindex/tradeoff/src/logging"
	"github.com/fmindex/tradeoff/src/perf"
)

func main() {
	fs := pflag.NewFlagSet("tradeoffreader", pflag.ExitOnError)
	chimp := fs.String("chimpanzee", "chimpanzee_performance.csv", "Chimpanzee measurements")
	dog := fs.String("dog", "dog_performance.csv", "Dog measurements")
	human := fs.String("human", "human_performance.csv", "Human measurements")
	logLevel := fs.String("log-level", "warn", "Log level (debug|info|warn|error)")
	_ = fs.Parse(os.Args[1:])
	logging.SetLogLevel(*logLevel)

	srcs := []perf.Source{
		{Group: perf.Chimpanzee, Path: *chimp},
		{Group: perf.Dog, Path: *dog},
		{Group: perf.Human, Path: *human},
	}
	if err := run(os.Stdout, srcs); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, srcs []perf.Source) error {
	tbl, err := perf.LoadAll(srcs)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Total rows: %d\n", tbl.Len())
	for _, s := range perf.Summarize(tbl) {
		fmt.Fprintf(w, "%s: %d (missing values: %d)\n", s.Group, s.Rows, s.MissingRows)
	}
	return nil
}
