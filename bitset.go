package bloomz

import (
	"math/bits"
	"sync/atomic"
)

// BitSet is packed fixed-size bit storage over uint64 words.
//
// Bit j lives at bit (j % 64) of word (j / 64). The last word may carry
// padding bits beyond the declared length; they are never set by any
// operation and are never counted.
//
// Index arguments must be below BitLen. All call sites inside this package
// bound indices by reducing modulo the filter size, so range checks are left
// to the runtime's slice bounds check.
type BitSet struct {
	words []uint64
	bits  uint64
}

// NewBitSet allocates a zeroed BitSet holding the given number of bits.
func NewBitSet(bitLen uint64) (*BitSet, error) {
	if bitLen == 0 {
		return nil, ErrZeroBitLength
	}
	nwords := (bitLen + WordBits - 1) / WordBits
	return &BitSet{
		words: make([]uint64, nwords),
		bits:  bitLen,
	}, nil
}

// Set turns on the bit at idx.
func (b *BitSet) Set(idx uint64) {
	b.words[idx/WordBits] |= 1 << (idx % WordBits)
}

// setAtomic turns on the bit at idx with a word-level atomic OR. Used by the
// batch layer where concurrent writers may touch the same word.
func (b *BitSet) setAtomic(idx uint64) {
	atomic.OrUint64(&b.words[idx/WordBits], 1<<(idx%WordBits))
}

// Get reports whether the bit at idx is set.
func (b *BitSet) Get(idx uint64) bool {
	return b.words[idx/WordBits]>>(idx%WordBits)&1 == 1
}

// Clear turns off the bit at idx.
func (b *BitSet) Clear(idx uint64) {
	b.words[idx/WordBits] &^= 1 << (idx % WordBits)
}

// ClearAll zeroes every word.
func (b *BitSet) ClearAll() {
	clear(b.words)
}

// OrWith merges other into b with a per-word bitwise OR. The bit lengths
// must match exactly.
func (b *BitSet) OrWith(other *BitSet) error {
	if b.bits != other.bits {
		return ErrBitLengthMismatch
	}
	for i, w := range other.words {
		b.words[i] |= w
	}
	return nil
}

// AndWith intersects other into b with a per-word bitwise AND. The bit
// lengths must match exactly.
func (b *BitSet) AndWith(other *BitSet) error {
	if b.bits != other.bits {
		return ErrBitLengthMismatch
	}
	for i, w := range other.words {
		b.words[i] &= w
	}
	return nil
}

// Count returns the number of set bits. Padding bits in the last word are
// never set, so a plain popcount over the words is exact.
func (b *BitSet) Count() uint64 {
	var n uint64
	for _, w := range b.words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// BitLen returns the total number of addressable bits.
func (b *BitSet) BitLen() uint64 {
	return b.bits
}

// Words exposes the backing words without copying. Mutating the returned
// slice mutates the BitSet.
func (b *BitSet) Words() []uint64 {
	return b.words
}

// Clone returns an independent copy.
func (b *BitSet) Clone() *BitSet {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return &BitSet{words: words, bits: b.bits}
}
