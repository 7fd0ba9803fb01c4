// Package perf loads FM-index benchmark measurements and shapes them for charting.
//
// The pipeline is LoadGroup per input file, Concat into one RawTable, then Coerce into a typed
// Table. Rows keep the order of their source files; every row carries the group label of the file
// it was read from.
package perf

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fmindex/tradeoff/src/logging"
)

// Column names written by the benchmark producer.
const (
	ColBlockingFactor = "BlockingFactor"
	ColMemoryUsage    = "MemoryUsage"
	ColQueryTime      = "QueryTime"
	ColPattern        = "Pattern"
	// ColDataset is the synthetic column holding the group label.
	ColDataset = "Dataset"
)

// NumericColumns are coerced to float64 by Coerce.
var NumericColumns = []string{ColBlockingFactor, ColMemoryUsage, ColQueryTime}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoRows        = errors.New("no rows")
	ErrUnknownGroup  = errors.New("unknown group")
)

// Group labels the subject a measurement file belongs to.
type Group string

const (
	Chimpanzee Group = "Chimpanzee"
	Dog        Group = "Dog"
	Human      Group = "Human"
)

// Groups lists the known labels in canonical order.
var Groups = []Group{Chimpanzee, Dog, Human}

// ParseGroup matches s case-insensitively against the known labels.
func ParseGroup(s string) (Group, error) {
	t := strings.TrimSpace(s)
	for _, g := range Groups {
		if strings.EqualFold(string(g), t) {
			return g, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownGroup, "%q", s)
}

// RawTable is a group-tagged CSV held as strings.
type RawTable struct {
	Header []string
	Rows   [][]string
	// Groups[i] is the label of Rows[i].
	Groups []Group
}

// Len returns the number of data rows.
func (t *RawTable) Len() int { return len(t.Rows) }

func (t *RawTable) columnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// LoadGroup reads a CSV file with a header row and tags every row with g.
func LoadGroup(path string, g Group) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	t, err := ReadGroup(f, g)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	logging.Debugf("[load] %s: %d rows tagged %s", path, t.Len(), g)
	return t, nil
}

// ReadGroup parses CSV from r and tags every row with g. Short rows are padded with empty cells.
func ReadGroup(r io.Reader, g Group) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrNoRows, "empty file without header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	t := &RawTable{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read row %d", len(t.Rows)+1)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" && len(header) > 1 {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
		t.Groups = append(t.Groups, g)
	}
	return t, nil
}

// Concat stacks tables in argument order. The result header is the union of the input headers in
// first-seen order; cells for columns a table lacks are empty.
func Concat(tables ...*RawTable) *RawTable {
	out := &RawTable{}
	seen := map[string]int{}
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := seen[h]; !ok {
				seen[h] = len(out.Header)
				out.Header = append(out.Header, h)
			}
		}
	}
	for _, t := range tables {
		pos := make([]int, len(t.Header))
		for i, h := range t.Header {
			pos[i] = seen[h]
		}
		for i, src := range t.Rows {
			row := make([]string, len(out.Header))
			for j, cell := range src {
				row[pos[j]] = cell
			}
			out.Rows = append(out.Rows, row)
			out.Groups = append(out.Groups, t.Groups[i])
		}
	}
	return out
}

// Row is one coerced measurement. Missing or malformed numbers are NaN.
type Row struct {
	Group          Group
	BlockingFactor float64
	MemoryUsage    float64
	QueryTime      float64
	Pattern        string
	// Extra holds any additional CSV columns verbatim.
	Extra map[string]string
}

// Value returns the numeric column by name, NaN for unknown names.
func (r Row) Value(col string) float64 {
	switch col {
	case ColBlockingFactor:
		return r.BlockingFactor
	case ColMemoryUsage:
		return r.MemoryUsage
	case ColQueryTime:
		return r.QueryTime
	}
	return math.NaN()
}

// Table is the unified, coerced dataset.
type Table struct {
	Rows []Row
}

// ToNumeric parses a cell as float64, returning NaN for empty or malformed input.
func ToNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Coerce converts the numeric columns to float64. Every required column must be present in the
// header; individual bad cells only become NaN.
func (t *RawTable) Coerce() (*Table, error) {
	idx := map[string]int{}
	for _, c := range NumericColumns {
		i := t.columnIndex(c)
		if i < 0 {
			return nil, errors.Wrapf(ErrMissingColumn, "%s", c)
		}
		idx[c] = i
	}
	patIdx := t.columnIndex(ColPattern)
	known := map[int]bool{idx[ColBlockingFactor]: true, idx[ColMemoryUsage]: true, idx[ColQueryTime]: true, patIdx: true}

	out := &Table{Rows: make([]Row, 0, len(t.Rows))}
	invalid := 0
	for i, rec := range t.Rows {
		r := Row{
			Group:          t.Groups[i],
			BlockingFactor: ToNumeric(rec[idx[ColBlockingFactor]]),
			MemoryUsage:    ToNumeric(rec[idx[ColMemoryUsage]]),
			QueryTime:      ToNumeric(rec[idx[ColQueryTime]]),
		}
		if patIdx >= 0 {
			r.Pattern = rec[patIdx]
		}
		for j, h := range t.Header {
			if known[j] {
				continue
			}
			if r.Extra == nil {
				r.Extra = map[string]string{}
			}
			r.Extra[h] = rec[j]
		}
		if math.IsNaN(r.BlockingFactor) || math.IsNaN(r.MemoryUsage) || math.IsNaN(r.QueryTime) {
			invalid++
		}
		out.Rows = append(out.Rows, r)
	}
	if invalid > 0 {
		logging.Debugf("[load] %d of %d rows have missing numeric values", invalid, len(out.Rows))
	}
	return out, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Groups returns the distinct labels in order of first appearance.
func (t *Table) Groups() []Group {
	var out []Group
	seen := map[Group]bool{}
	for _, r := range t.Rows {
		if !seen[r.Group] {
			seen[r.Group] = true
			out = append(out, r.Group)
		}
	}
	return out
}

// Filter returns the rows of one group, preserving order.
func (t *Table) Filter(g Group) []Row {
	var out []Row
	for _, r := range t.Rows {
		if r.Group == g {
			out = append(out, r)
		}
	}
	return out
}

// Column returns a numeric column for the given rows.
func Column(rows []Row, col string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value(col)
	}
	return out
}

// XY returns paired x/y values from rows, dropping pairs where either side is NaN or infinite.
func XY(rows []Row, xCol, yCol string) ([]float64, []float64) {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, r := range rows {
		x, y := r.Value(xCol), r.Value(yCol)
		if !finite(x) || !finite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Source pairs a group with the CSV file holding its rows.
type Source struct {
	Group Group
	Path  string
}

// LoadAll loads, concatenates and coerces the given sources.
func LoadAll(sources []Source) (*Table, error) {
	if len(sources) == 0 {
		return nil, errors.Wrap(ErrNoRows, "no sources")
	}
	parts := make([]*RawTable, 0, len(sources))
	for _, s := range sources {
		t, err := LoadGroup(s.Path, s.Group)
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
	}
	raw := Concat(parts...)
	tbl, err := raw.Coerce()
	if err != nil {
		return nil, err
	}
	logging.Infof("[load] %d rows from %d sources, groups=%v", tbl.Len(), len(sources), tbl.Groups())
	return tbl, nil
}
