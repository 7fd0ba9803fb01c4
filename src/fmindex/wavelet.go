package fmindex

// WaveletTree answers rank/select/access over a byte sequence whose symbols lie in [low, high].
// Each internal node splits the alphabet at mid = (low+high)/2; a set bit routes the symbol left.
type WaveletTree struct {
	low, high   byte
	n           int
	bits        *BitVector
	left, right *WaveletTree
}

// NewWaveletTree builds a tree over seq. Every symbol of seq must lie in [low, high].
func NewWaveletTree(seq []byte, low, high byte) *WaveletTree {
	w := &WaveletTree{low: low, high: high, n: len(seq)}
	if low >= high || len(seq) == 0 {
		return w
	}
	mid := byte((int(low) + int(high)) / 2)
	w.bits = NewBitVector(len(seq))
	leftSeq := make([]byte, 0, len(seq))
	rightSeq := make([]byte, 0, len(seq))
	for i, c := range seq {
		if c <= mid {
			leftSeq = append(leftSeq, c)
			w.bits.Set(i)
		} else {
			rightSeq = append(rightSeq, c)
		}
	}
	w.bits.Build()
	if len(leftSeq) > 0 {
		w.left = NewWaveletTree(leftSeq, low, mid)
	}
	if len(rightSeq) > 0 {
		w.right = NewWaveletTree(rightSeq, mid+1, high)
	}
	return w
}

func (w *WaveletTree) Len() int { return w.n }

func (w *WaveletTree) leaf() bool { return w.bits == nil }

func (w *WaveletTree) mid() byte { return byte((int(w.low) + int(w.high)) / 2) }

// Rank returns the number of occurrences of c in positions [0, i].
func (w *WaveletTree) Rank(c byte, i int) int {
	if w == nil || i < 0 || w.n == 0 || c < w.low || c > w.high {
		return 0
	}
	if i >= w.n {
		i = w.n - 1
	}
	if w.leaf() {
		return i + 1
	}
	if c <= w.mid() {
		ones := w.bits.Rank1(i)
		if ones == 0 {
			return 0
		}
		return w.left.Rank(c, ones-1)
	}
	zeros := w.bits.Rank0(i)
	if zeros == 0 {
		return 0
	}
	return w.right.Rank(c, zeros-1)
}

// Select returns the position of the k-th (1-based) occurrence of c, or -1.
func (w *WaveletTree) Select(c byte, k int) int {
	if w == nil || k <= 0 || c < w.low || c > w.high {
		return -1
	}
	if w.leaf() {
		if k > w.n {
			return -1
		}
		return k - 1
	}
	if c <= w.mid() {
		pos := w.left.Select(c, k)
		if pos < 0 {
			return -1
		}
		return w.bits.Select(true, pos+1)
	}
	pos := w.right.Select(c, k)
	if pos < 0 {
		return -1
	}
	return w.bits.Select(false, pos+1)
}

// Access returns the symbol at position i.
func (w *WaveletTree) Access(i int) byte {
	node := w
	for !node.leaf() {
		if node.bits.Get(i) {
			i = node.bits.Rank1(i) - 1
			node = node.left
		} else {
			i = node.bits.Rank0(i) - 1
			node = node.right
		}
	}
	return node.low
}
