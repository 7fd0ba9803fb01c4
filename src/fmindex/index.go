// Package fmindex implements an FM-index over small text chunks: suffix array, Burrows-Wheeler
// transform, a wavelet tree for rank queries and backward search for counting and locating
// patterns.
package fmindex

import (
	"sort"
	"strings"
)

// Index is an FM-index over one sentinel-terminated text.
type Index struct {
	text []byte
	sa   []int
	bwt  []byte
	wt   *WaveletTree
	// c[s] is the number of symbols in the text strictly smaller than s.
	c [256]int
}

// Normalize prepares raw text for indexing: spaces become '(' and a trailing sentinel is
// appended when missing.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, " ", "(")
	if !strings.HasSuffix(s, string(Sentinel)) {
		s += string(Sentinel)
	}
	return s
}

// New builds an index over Normalize(text).
func New(text string) *Index {
	t := []byte(Normalize(text))
	ix := &Index{text: t, sa: SuffixArray(t)}
	ix.bwt = BWT(t, ix.sa)

	low, high := byte(255), byte(0)
	var counts [256]int
	for _, ch := range ix.bwt {
		counts[ch]++
		if ch < low {
			low = ch
		}
		if ch > high {
			high = ch
		}
	}
	sum := 0
	for s := 0; s < 256; s++ {
		ix.c[s] = sum
		sum += counts[s]
	}
	ix.wt = NewWaveletTree(ix.bwt, low, high)
	return ix
}

// Len returns the indexed text length including the sentinel.
func (ix *Index) Len() int { return len(ix.text) }

func (ix *Index) Text() string { return string(ix.text) }

func (ix *Index) BWT() []byte { return ix.bwt }

func (ix *Index) SuffixArray() []int { return ix.sa }

// occ returns the occurrences of ch in bwt[0:i).
func (ix *Index) occ(ch byte, i int) int { return ix.wt.Rank(ch, i-1) }

// search narrows the suffix-array interval [sp, ep) to suffixes prefixed by pattern.
func (ix *Index) search(pattern string) (sp, ep int) {
	sp, ep = 0, len(ix.bwt)
	for k := len(pattern) - 1; k >= 0; k-- {
		ch := pattern[k]
		sp = ix.c[ch] + ix.occ(ch, sp)
		ep = ix.c[ch] + ix.occ(ch, ep)
		if sp >= ep {
			return 0, 0
		}
	}
	return sp, ep
}

// Count returns how many times pattern occurs. The empty pattern matches every suffix.
func (ix *Index) Count(pattern string) int {
	sp, ep := ix.search(pattern)
	return ep - sp
}

// Locate returns the ascending start offsets of every occurrence of pattern.
func (ix *Index) Locate(pattern string) []int {
	sp, ep := ix.search(pattern)
	if ep <= sp {
		return nil
	}
	out := make([]int, ep-sp)
	copy(out, ix.sa[sp:ep])
	sort.Ints(out)
	return out
}
