package fmindex

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
)

// Sentinel terminates every indexed text. It must occur exactly once.
const Sentinel byte = '$'

var ErrSentinel = errors.New("bwt must contain exactly one sentinel")

// SuffixArray returns the starting offsets of all suffixes of text in lexicographic order.
// Plain comparison sort; chunks are small (hundreds of bytes) so O(n² log n) worst case is fine.
func SuffixArray(text []byte) []int {
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(a, b int) bool {
		return bytes.Compare(text[sa[a]:], text[sa[b]:]) < 0
	})
	return sa
}

// BWT returns the Burrows-Wheeler transform of a sentinel-terminated text given its suffix array.
func BWT(text []byte, sa []int) []byte {
	n := len(text)
	out := make([]byte, n)
	for i, idx := range sa {
		out[i] = text[(idx-1+n)%n]
	}
	return out
}

// InverseBWT reconstructs the original sentinel-terminated text using LF mapping.
func InverseBWT(bwt []byte) ([]byte, error) {
	n := len(bwt)
	if n == 0 {
		return nil, nil
	}
	if bytes.Count(bwt, []byte{Sentinel}) != 1 {
		return nil, ErrSentinel
	}
	var counts [256]int
	for _, c := range bwt {
		counts[c]++
	}
	var c [256]int
	sum := 0
	for s := 0; s < 256; s++ {
		c[s] = sum
		sum += counts[s]
	}
	// lf[i] = C[L[i]] + occurrences of L[i] in L[0:i]
	lf := make([]int, n)
	var seen [256]int
	for i, ch := range bwt {
		lf[i] = c[ch] + seen[ch]
		seen[ch]++
	}
	out := make([]byte, n)
	out[n-1] = Sentinel
	// the row whose last symbol is the sentinel is the rotation starting at offset 0
	row := bytes.IndexByte(bwt, Sentinel)
	row = lf[row]
	for k := n - 2; k >= 0; k-- {
		out[k] = bwt[row]
		row = lf[row]
	}
	return out, nil
}
