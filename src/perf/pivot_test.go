package perf

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	nan := math.NaN()
	return &Table{Rows: []Row{
		{Group: Chimpanzee, BlockingFactor: 500, MemoryUsage: 100, QueryTime: 10},
		{Group: Chimpanzee, BlockingFactor: 500, MemoryUsage: 120, QueryTime: 20},
		{Group: Chimpanzee, BlockingFactor: 250, MemoryUsage: 90, QueryTime: 6},
		{Group: Dog, BlockingFactor: 500, MemoryUsage: 200, QueryTime: nan},
		{Group: Human, BlockingFactor: 250, MemoryUsage: 300, QueryTime: 40},
		{Group: Human, BlockingFactor: nan, MemoryUsage: 310, QueryTime: 99},
		{Group: Human, BlockingFactor: 1000, MemoryUsage: 320, QueryTime: 50},
	}}
}

func TestPivot_MeansDuplicatesAndSortsColumns(t *testing.T) {
	p, err := sampleTable().Pivot(ColQueryTime)
	require.NoError(t, err)

	assert.Equal(t, []Group{Chimpanzee, Dog, Human}, p.Index)
	assert.Equal(t, []float64{250, 500, 1000}, p.Columns)

	assert.Equal(t, 6.0, p.Cells[0][0])
	assert.Equal(t, 15.0, p.Cells[0][1])
	assert.True(t, math.IsNaN(p.Cells[0][2]))
	assert.Equal(t, 2, p.Counts[0][1])

	// Dog only has a NaN query time.
	for _, v := range p.Cells[1] {
		assert.True(t, math.IsNaN(v))
	}

	assert.Equal(t, 40.0, p.Cells[2][0])
	assert.True(t, math.IsNaN(p.Cells[2][1]))
	assert.Equal(t, 50.0, p.Cells[2][2])

	lo, hi, ok := p.Range()
	require.True(t, ok)
	assert.Equal(t, 6.0, lo)
	assert.Equal(t, 50.0, hi)
}

func TestPivot_Errors(t *testing.T) {
	_, err := sampleTable().Pivot(ColBlockingFactor)
	assert.Error(t, err)

	_, err = (&Table{}).Pivot(ColQueryTime)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestPivot_AllNaNRange(t *testing.T) {
	tbl := &Table{Rows: []Row{{Group: Dog, BlockingFactor: 500, QueryTime: math.NaN()}}}
	p, err := tbl.Pivot(ColQueryTime)
	require.NoError(t, err)
	_, _, ok := p.Range()
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	sums := Summarize(sampleTable())
	require.Len(t, sums, 3)

	c := sums[0]
	assert.Equal(t, Chimpanzee, c.Group)
	assert.Equal(t, 3, c.Rows)
	assert.Equal(t, 0, c.MissingRows)
	assert.Equal(t, 12.0, c.AvgQueryNs)
	assert.Equal(t, 10.0, c.MedianNs)
	assert.Equal(t, 6.0, c.MinQueryNs)
	assert.Equal(t, 20.0, c.MaxQueryNs)
	assert.InDelta(t, 103.333, c.AvgMemBytes, 0.001)
	assert.Equal(t, 120.0, c.MaxMemBytes)
	assert.Equal(t, []float64{250, 500}, c.BlockFactors)

	d := sums[1]
	assert.Equal(t, 1, d.MissingRows)
	assert.True(t, math.IsNaN(d.AvgQueryNs))
	assert.Equal(t, 200.0, d.MaxMemBytes)

	h := sums[2]
	assert.Equal(t, 1, h.MissingRows)
	assert.Equal(t, []float64{250, 1000}, h.BlockFactors)
	assert.Equal(t, 99.0, h.MaxQueryNs)
}

func TestSummarize_EvenCountMedianAveragesMiddle(t *testing.T) {
	tbl := &Table{Rows: []Row{
		{Group: Chimpanzee, BlockingFactor: 500, MemoryUsage: 1, QueryTime: 5100},
		{Group: Chimpanzee, BlockingFactor: 500, MemoryUsage: 1, QueryTime: 4300},
		{Group: Dog, BlockingFactor: 500, MemoryUsage: 1, QueryTime: 40},
		{Group: Dog, BlockingFactor: 500, MemoryUsage: 1, QueryTime: 10},
		{Group: Dog, BlockingFactor: 500, MemoryUsage: 1, QueryTime: 30},
		{Group: Dog, BlockingFactor: 500, MemoryUsage: 1, QueryTime: 20},
	}}
	sums := Summarize(tbl)
	require.Len(t, sums, 2)
	assert.Equal(t, 4700.0, sums[0].MedianNs)
	assert.Equal(t, 25.0, sums[1].MedianNs)
}

func TestGroupSummary_MarshalJSONNullsNaN(t *testing.T) {
	sums := Summarize(sampleTable())
	b, err := json.Marshal(sums[1])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"avg_query_ns":null`)
	assert.Contains(t, string(b), `"max_memory_bytes":200`)
	assert.Contains(t, string(b), `"group":"Dog"`)
}
