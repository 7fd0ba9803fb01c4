package fmindex

import "math/bits"

// BitVector is a fixed-length bit array with a rank directory. Call Build after the last Set and
// before any Rank or Select.
type BitVector struct {
	words []uint64
	n     int
	// ranks[w] is the number of ones in words[0:w].
	ranks []int
}

func NewBitVector(n int) *BitVector {
	return &BitVector{words: make([]uint64, (n+63)/64), n: n}
}

func (b *BitVector) Len() int { return b.n }

func (b *BitVector) Set(i int) { b.words[i>>6] |= 1 << (uint(i) & 63) }

func (b *BitVector) Get(i int) bool { return b.words[i>>6]&(1<<(uint(i)&63)) != 0 }

// Build computes the rank directory.
func (b *BitVector) Build() {
	b.ranks = make([]int, len(b.words)+1)
	for w, word := range b.words {
		b.ranks[w+1] = b.ranks[w] + bits.OnesCount64(word)
	}
}

// Rank1 returns the number of ones in positions [0, i]. i < 0 yields 0; i past the end counts all.
func (b *BitVector) Rank1(i int) int {
	if i < 0 {
		return 0
	}
	if i >= b.n {
		return b.ranks[len(b.words)]
	}
	w := i >> 6
	// shifting by 64 yields 0, so the mask is all ones for the last bit of a word
	mask := uint64(1)<<(uint(i)&63+1) - 1
	return b.ranks[w] + bits.OnesCount64(b.words[w]&mask)
}

// Rank0 returns the number of zeros in positions [0, i].
func (b *BitVector) Rank0(i int) int {
	if i < 0 {
		return 0
	}
	if i >= b.n {
		i = b.n - 1
	}
	return i + 1 - b.Rank1(i)
}

// Select returns the position of the k-th (1-based) occurrence of bit, or -1.
func (b *BitVector) Select(bit bool, k int) int {
	if k <= 0 {
		return -1
	}
	count := func(w int) int {
		if bit {
			return b.ranks[w]
		}
		return w*64 - b.ranks[w]
	}
	// binary search for the first word whose prefix count reaches k
	lo, hi := 0, len(b.words)
	for lo < hi {
		mid := (lo + hi) / 2
		if count(mid+1) < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(b.words) {
		return -1
	}
	remaining := k - count(lo)
	word := b.words[lo]
	if !bit {
		word = ^word
	}
	for j := 0; j < 64; j++ {
		if word&(1<<uint(j)) == 0 {
			continue
		}
		remaining--
		if remaining == 0 {
			pos := lo*64 + j
			if pos >= b.n {
				return -1
			}
			return pos
		}
	}
	return -1
}
