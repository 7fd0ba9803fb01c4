package uihelpers

import "path/filepath"

// ComputeChartDimensions applies width/height clamp rules used for the blocking-factor charts.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height at ~4:3.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	if w > 1600 {
		w = 1600
	}
	h := int(float32(w) * 0.75)
	if h < 420 {
		h = 420
	}
	if h > 900 {
		h = 900
	}
	return w, h
}

// ComputeHeatmapDimensions is ComputeChartDimensions for the heatmap, which is wider (~5:3) to
// leave room for the colour bar.
func ComputeHeatmapDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	if w > 1800 {
		w = 1800
	}
	h := int(float32(w) * 0.6)
	if h < 420 {
		h = 420
	}
	if h > 900 {
		h = 900
	}
	return w, h
}

// TruncatePath shortens p to about n characters, keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
