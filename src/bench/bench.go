// Package bench produces the per-group performance CSVs by indexing a DNA sequence chunk by chunk
// and timing pattern queries against each chunk's FM-index.
package bench

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fmindex/tradeoff/src/fmindex"
	"github.com/fmindex/tradeoff/src/logging"
	"github.com/fmindex/tradeoff/src/perf"
)

const DefaultChunkSize = 500

var DefaultPatterns = []string{"ACG", "TGCA", "GATTACA", "TTAGGC"}

var ErrEmptySequence = errors.New("empty sequence")

// Header is the CSV header consumed by perf.LoadGroup.
var Header = []string{perf.ColBlockingFactor, perf.ColMemoryUsage, perf.ColQueryTime, perf.ColPattern}

type Options struct {
	ChunkSize int
	Patterns  []string
	// Label names the input in the report trailer and log lines.
	Label string
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if len(o.Patterns) == 0 {
		o.Patterns = DefaultPatterns
	}
	return o
}

// Measurement is one timed query against one chunk.
type Measurement struct {
	Chunk          int
	BlockingFactor int
	// MemoryUsage is live heap growth since the run started, in bytes. It can be negative when
	// the collector reclaims memory that was live at the start.
	MemoryUsage int64
	QueryTime   time.Duration
	Pattern     string
	Positions   []int
}

func (m Measurement) record() []string {
	return []string{
		strconv.Itoa(m.BlockingFactor),
		strconv.FormatInt(m.MemoryUsage, 10),
		strconv.FormatInt(m.QueryTime.Nanoseconds(), 10),
		m.Pattern,
	}
}

// Stats summarises a completed run.
type Stats struct {
	Chunks      int
	Queries     int
	Matches     int
	InitialHeap uint64
	FinalHeap   uint64
	Elapsed     time.Duration
}

// ReadFASTA concatenates the sequence lines of r, skipping '>' header lines and trimming
// whitespace around each line.
func ReadFASTA(r io.Reader) (string, error) {
	var sb strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lines := 0
	for sc.Scan() {
		lines++
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			continue
		}
		sb.WriteString(strings.TrimSpace(line))
		if lines%1000 == 0 {
			logging.Debugf("[bench] read %d lines", lines)
		}
	}
	if err := sc.Err(); err != nil {
		return "", errors.Wrap(err, "read sequence")
	}
	if sb.Len() == 0 {
		return "", ErrEmptySequence
	}
	return sb.String(), nil
}

func liveHeap() uint64 {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func preview(chunk string) string {
	if len(chunk) > 50 {
		return chunk[:50]
	}
	return chunk
}

func formatPositions(pos []int) string {
	parts := make([]string, len(pos))
	for i, p := range pos {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Run indexes seq in chunks of opts.ChunkSize and times every pattern against each chunk. Rows go
// to out as CSV (header first); report, when non-nil, receives the human-readable match listing.
// Cancellation is checked between chunks.
func Run(ctx context.Context, seq string, opts Options, out io.Writer, report io.Writer) (Stats, error) {
	opts = opts.withDefaults()
	var st Stats
	if seq == "" {
		return st, ErrEmptySequence
	}
	start := time.Now()
	defer logging.TimeTrack(start, "[bench] run "+opts.Label)

	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return st, errors.Wrap(err, "write header")
	}
	rep := func(format string, a ...interface{}) {
		if report != nil {
			fmt.Fprintf(report, format+"\n", a...)
		}
	}

	st.InitialHeap = liveHeap()
	for off := 0; off < len(seq); off += opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			w.Flush()
			return st, err
		}
		end := off + opts.ChunkSize
		if end > len(seq) {
			end = len(seq)
		}
		chunk := seq[off:end]
		rep("Processing chunk: %s...", preview(chunk))

		ix := fmindex.New(chunk)
		var results []Measurement
		for _, p := range opts.Patterns {
			qs := time.Now()
			pos := ix.Locate(p)
			qt := time.Since(qs)
			results = append(results, Measurement{
				Chunk:          st.Chunks,
				BlockingFactor: opts.ChunkSize,
				QueryTime:      qt,
				Pattern:        p,
				Positions:      pos,
			})
		}
		mem := int64(liveHeap()) - int64(st.InitialHeap)
		runtime.KeepAlive(ix)

		for _, m := range results {
			m.MemoryUsage = mem
			rep("Pattern '%s' found at positions: %s (Query Time: %d ns)", m.Pattern, formatPositions(m.Positions), m.QueryTime.Nanoseconds())
			if err := w.Write(m.record()); err != nil {
				return st, errors.Wrap(err, "write row")
			}
			st.Queries++
			st.Matches += len(m.Positions)
		}
		st.Chunks++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return st, errors.Wrap(err, "flush csv")
	}

	st.FinalHeap = liveHeap()
	st.Elapsed = time.Since(start)
	used := int64(st.FinalHeap) - int64(st.InitialHeap)
	if used < 0 {
		used = -used
	}
	if opts.Label != "" {
		rep("File: %s", opts.Label)
	}
	rep("Initial Memory: %d bytes", st.InitialHeap)
	rep("Final Memory: %d bytes", st.FinalHeap)
	rep("Memory Used: %d bytes", used)
	rep("Total Time Taken: %d ms", st.Elapsed.Milliseconds())
	logging.Infof("[bench] %s: %d chunks, %d queries, %d matches in %s", opts.Label, st.Chunks, st.Queries, st.Matches, st.Elapsed)
	return st, nil
}

// ReportPath derives "<stem>_output.txt" next to a sequence file.
func ReportPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_output.txt"
}

// RunFile benchmarks one FASTA file into csvPath. An empty reportPath skips the report.
func RunFile(ctx context.Context, fastaPath, csvPath, reportPath string, opts Options) (st Stats, err error) {
	in, err := os.Open(fastaPath)
	if err != nil {
		return st, errors.Wrap(err, "open sequence")
	}
	defer in.Close()
	seq, err := ReadFASTA(in)
	if err != nil {
		return st, errors.Wrapf(err, "%s", fastaPath)
	}
	logging.Infof("[bench] %s: sequence length %d", fastaPath, len(seq))

	out, err := os.Create(csvPath)
	if err != nil {
		return st, errors.Wrap(err, "create csv")
	}
	defer func() { err = multierr.Append(err, out.Close()) }()

	var report io.Writer
	if reportPath != "" {
		rf, cerr := os.Create(reportPath)
		if cerr != nil {
			return st, errors.Wrap(cerr, "create report")
		}
		bw := bufio.NewWriter(rf)
		defer func() {
			err = multierr.Append(err, bw.Flush())
			err = multierr.Append(err, rf.Close())
		}()
		report = bw
	}

	if opts.Label == "" {
		opts.Label = fastaPath
	}
	return Run(ctx, seq, opts, out, report)
}

// Job pairs one input sequence with its CSV destination.
type Job struct {
	Group  perf.Group
	Input  string
	Output string
	Report string
}

// RunAll runs every job, continuing past failures so one unreadable input does not block the
// others. The returned error combines every failure.
func RunAll(ctx context.Context, jobs []Job, opts Options) error {
	var errs error
	for _, j := range jobs {
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		o := opts
		o.Label = string(j.Group)
		if _, err := RunFile(ctx, j.Input, j.Output, j.Report, o); err != nil {
			logging.Errorf("[bench] %s: %v", j.Group, err)
			errs = multierr.Append(errs, errors.Wrapf(err, "%s", j.Group))
		}
	}
	return errs
}
