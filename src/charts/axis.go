package charts

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	// measurements are never negative; keep the baseline at zero when the data starts there
	if min >= 0 && a < 0 {
		a = 0
	}
	return a, b
}

// niceTicks generates up to n desired tick marks between [min, max] using 1/2/2.5/5 steps.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Ceil(min/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= max+bestStep/1e6; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 10_000_000:
		return fmt.Sprintf("%.3g", v)
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// bounds returns the min and max over every value in vals, ok=false when there are none.
func bounds(vals ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, vs := range vals {
		for _, v := range vs {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			ok = true
		}
	}
	return lo, hi, ok
}

// axisRange returns a padded range and matching ticks for the given values. go-chart resets an
// axis range to the extent of its explicit ticks, so the ticks are extended until they cover every
// value and the range is set to their extent.
func axisRange(vals ...[]float64) (*chart.ContinuousRange, []chart.Tick) {
	lo, hi, ok := bounds(vals...)
	if !ok {
		lo, hi = 0, 1
	}
	nMin, nMax := niceAxisBounds(lo, hi)
	ticks := coverTicks(niceTicks(nMin, nMax, 6), lo, hi)
	if len(ticks) < 2 {
		return &chart.ContinuousRange{Min: nMin, Max: nMax}, ticks
	}
	return &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}, ticks
}

// coverTicks adds evenly spaced ticks below and above ticks until [lo, hi] lies within them.
func coverTicks(ticks []chart.Tick, lo, hi float64) []chart.Tick {
	if len(ticks) < 2 {
		return ticks
	}
	step := ticks[1].Value - ticks[0].Value
	if step <= 0 {
		return ticks
	}
	for ticks[0].Value > lo {
		v := ticks[0].Value - step
		if v == ticks[0].Value {
			break
		}
		ticks = append([]chart.Tick{{Value: v, Label: formatTick(v)}}, ticks...)
	}
	for ticks[len(ticks)-1].Value < hi {
		v := ticks[len(ticks)-1].Value + step
		if v == ticks[len(ticks)-1].Value {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}
