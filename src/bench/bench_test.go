package bench

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmindex/tradeoff/src/perf"
)

func TestReadFASTA(t *testing.T) {
	in := ">chr1 test\nACGT \n  GATTACA\n>chr2\nTTAGGC\n"
	seq, err := ReadFASTA(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "ACGTGATTACATTAGGC", seq)

	_, err = ReadFASTA(strings.NewReader(">only header\n\n"))
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestRun_WritesOneRowPerPatternPerChunk(t *testing.T) {
	seq := strings.Repeat("GATTACAACGT", 10) // 110 bases
	var csvOut, report bytes.Buffer
	st, err := Run(context.Background(), seq, Options{ChunkSize: 50, Patterns: []string{"GATTACA", "ZZZ"}, Label: "Dog"}, &csvOut, &report)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Chunks)
	assert.Equal(t, 6, st.Queries)

	raw, err := perf.ReadGroup(&csvOut, perf.Dog)
	require.NoError(t, err)
	assert.Equal(t, Header, raw.Header)
	require.Len(t, raw.Rows, 6)

	tbl, err := raw.Coerce()
	require.NoError(t, err)
	for i, r := range tbl.Rows {
		assert.Equal(t, 50.0, r.BlockingFactor)
		assert.GreaterOrEqual(t, r.QueryTime, 0.0)
		assert.False(t, math.IsNaN(r.MemoryUsage))
		if i%2 == 0 {
			assert.Equal(t, "GATTACA", r.Pattern)
		} else {
			assert.Equal(t, "ZZZ", r.Pattern)
		}
	}

	rep := report.String()
	assert.Contains(t, rep, "Processing chunk: GATTACAACGT")
	assert.Contains(t, rep, "Pattern 'GATTACA' found at positions: [0, 11, 22, 33]")
	assert.Contains(t, rep, "Pattern 'ZZZ' found at positions: []")
	assert.Contains(t, rep, "File: Dog")
	assert.Contains(t, rep, "Total Time Taken:")
}

func TestRun_DefaultsAndEmptyInput(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), "", Options{}, &out, nil)
	assert.ErrorIs(t, err, ErrEmptySequence)

	st, err := Run(context.Background(), "ACGTGCA", Options{}, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Chunks)
	assert.Equal(t, len(DefaultPatterns), st.Queries)
	assert.Contains(t, out.String(), "500,")
}

func TestRun_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	st, err := Run(ctx, strings.Repeat("ACGT", 100), Options{ChunkSize: 10}, &out, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, st.Chunks)
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "dog_output.txt"), ReportPath(filepath.Join("data", "dog.txt")))
}

func TestRunAll_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "human.txt")
	require.NoError(t, os.WriteFile(good, []byte(">h\nACGTACGTGATTACA\n"), 0o644))

	jobs := []Job{
		{Group: perf.Chimpanzee, Input: filepath.Join(dir, "missing.txt"), Output: filepath.Join(dir, "chimpanzee_performance.csv")},
		{Group: perf.Human, Input: good, Output: filepath.Join(dir, "human_performance.csv"), Report: ReportPath(good)},
	}
	err := RunAll(context.Background(), jobs, Options{ChunkSize: 8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Chimpanzee")

	tbl, lerr := perf.LoadGroup(filepath.Join(dir, "human_performance.csv"), perf.Human)
	require.NoError(t, lerr)
	assert.Len(t, tbl.Rows, 2*len(DefaultPatterns))

	rep, rerr := os.ReadFile(filepath.Join(dir, "human_output.txt"))
	require.NoError(t, rerr)
	assert.Contains(t, string(rep), "File: Human")
}
