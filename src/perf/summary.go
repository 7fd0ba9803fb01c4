package perf

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GroupSummary captures aggregate metrics for one group.
type GroupSummary struct {
	Group        Group
	Rows         int
	MissingRows  int
	AvgQueryNs   float64
	MedianNs     float64
	MinQueryNs   float64
	MaxQueryNs   float64
	AvgMemBytes  float64
	MaxMemBytes  float64
	BlockFactors []float64
}

func nullable(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}

// MarshalJSON writes NaN statistics as null; encoding/json rejects NaN.
func (s GroupSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Group        Group     `json:"group"`
		Rows         int       `json:"rows"`
		MissingRows  int       `json:"missing_rows"`
		AvgQueryNs   *float64  `json:"avg_query_ns"`
		MedianNs     *float64  `json:"median_query_ns"`
		MinQueryNs   *float64  `json:"min_query_ns"`
		MaxQueryNs   *float64  `json:"max_query_ns"`
		AvgMemBytes  *float64  `json:"avg_memory_bytes"`
		MaxMemBytes  *float64  `json:"max_memory_bytes"`
		BlockFactors []float64 `json:"blocking_factors"`
	}{
		Group:        s.Group,
		Rows:         s.Rows,
		MissingRows:  s.MissingRows,
		AvgQueryNs:   nullable(s.AvgQueryNs),
		MedianNs:     nullable(s.MedianNs),
		MinQueryNs:   nullable(s.MinQueryNs),
		MaxQueryNs:   nullable(s.MaxQueryNs),
		AvgMemBytes:  nullable(s.AvgMemBytes),
		MaxMemBytes:  nullable(s.MaxMemBytes),
		BlockFactors: s.BlockFactors,
	})
}

// median of sorted values; an even count averages the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}

// Summarize computes per-group statistics in order of first appearance. Statistics that have no
// finite input are NaN.
func Summarize(t *Table) []GroupSummary {
	var out []GroupSummary
	for _, g := range t.Groups() {
		rows := t.Filter(g)
		s := GroupSummary{Group: g, Rows: len(rows)}
		var qt, mem []float64
		bf := map[float64]bool{}
		for _, r := range rows {
			if !finite(r.BlockingFactor) || !finite(r.MemoryUsage) || !finite(r.QueryTime) {
				s.MissingRows++
			}
			if finite(r.QueryTime) {
				qt = append(qt, r.QueryTime)
			}
			if finite(r.MemoryUsage) {
				mem = append(mem, r.MemoryUsage)
			}
			if finite(r.BlockingFactor) {
				bf[r.BlockingFactor] = true
			}
		}
		s.AvgQueryNs, s.MedianNs, s.MinQueryNs, s.MaxQueryNs = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		if len(qt) > 0 {
			sort.Float64s(qt)
			s.AvgQueryNs = stat.Mean(qt, nil)
			s.MedianNs = median(qt)
			s.MinQueryNs = floats.Min(qt)
			s.MaxQueryNs = floats.Max(qt)
		}
		s.AvgMemBytes, s.MaxMemBytes = math.NaN(), math.NaN()
		if len(mem) > 0 {
			s.AvgMemBytes = stat.Mean(mem, nil)
			s.MaxMemBytes = floats.Max(mem)
		}
		for v := range bf {
			s.BlockFactors = append(s.BlockFactors, v)
		}
		sort.Float64s(s.BlockFactors)
		out = append(out, s)
	}
	return out
}
