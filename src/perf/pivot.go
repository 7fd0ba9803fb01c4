package perf

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Pivot is a group × blocking-factor matrix of one measured column.
type Pivot struct {
	Value string
	// Index holds the row labels in order of first appearance in the table.
	Index []Group
	// Columns holds the distinct finite blocking factors, ascending.
	Columns []float64
	// Cells[i][j] is the mean of Value for Index[i] at Columns[j], NaN when no finite samples exist.
	Cells [][]float64
	// Counts[i][j] is the number of samples averaged into Cells[i][j].
	Counts [][]int
}

// Pivot reshapes the table with groups as rows and blocking factors as columns. Several samples
// for the same cell are averaged; rows with a NaN blocking factor or value are skipped.
func (t *Table) Pivot(value string) (*Pivot, error) {
	switch value {
	case ColMemoryUsage, ColQueryTime:
	default:
		return nil, errors.Errorf("pivot: unsupported value column %q", value)
	}
	p := &Pivot{Value: value, Index: t.Groups()}
	if len(p.Index) == 0 {
		return nil, errors.Wrap(ErrNoRows, "pivot")
	}

	colSet := map[float64]bool{}
	for _, r := range t.Rows {
		if finite(r.BlockingFactor) {
			colSet[r.BlockingFactor] = true
		}
	}
	for c := range colSet {
		p.Columns = append(p.Columns, c)
	}
	sort.Float64s(p.Columns)
	colIdx := make(map[float64]int, len(p.Columns))
	for i, c := range p.Columns {
		colIdx[c] = i
	}
	rowIdx := make(map[Group]int, len(p.Index))
	for i, g := range p.Index {
		rowIdx[g] = i
	}

	samples := make([][][]float64, len(p.Index))
	for i := range samples {
		samples[i] = make([][]float64, len(p.Columns))
	}
	for _, r := range t.Rows {
		v := r.Value(value)
		if !finite(r.BlockingFactor) || !finite(v) {
			continue
		}
		i, j := rowIdx[r.Group], colIdx[r.BlockingFactor]
		samples[i][j] = append(samples[i][j], v)
	}

	p.Cells = make([][]float64, len(p.Index))
	p.Counts = make([][]int, len(p.Index))
	for i := range p.Index {
		p.Cells[i] = make([]float64, len(p.Columns))
		p.Counts[i] = make([]int, len(p.Columns))
		for j := range p.Columns {
			xs := samples[i][j]
			p.Counts[i][j] = len(xs)
			if len(xs) == 0 {
				p.Cells[i][j] = math.NaN()
				continue
			}
			p.Cells[i][j] = stat.Mean(xs, nil)
		}
	}
	return p, nil
}

// Range returns the min and max finite cell, ok=false when every cell is NaN.
func (p *Pivot) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range p.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			ok = true
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, ok
}
