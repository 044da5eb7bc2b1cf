package bloomz

import (
	"encoding/binary"
	"fmt"
)

// Binary layout, all fields little-endian, no padding:
//
//	offset 0   m          uint64
//	offset 8   k          uint32
//	offset 12  items      uint64
//	offset 20  wordCount  uint32
//	offset 24  words      wordCount * uint64
//
// wordCount must equal ceil(m/64), and the input must be exactly
// headerBytes + 8*wordCount long; anything else means the input was
// truncated, padded, or assembled against a different m.

// MarshalBinary serializes the filter state. It never fails; the error
// return satisfies encoding.BinaryMarshaler.
func (f *Filter) MarshalBinary() ([]byte, error) {
	words := f.bits.Words()
	out := make([]byte, headerBytes+8*len(words))
	binary.LittleEndian.PutUint64(out[0:8], f.m)
	binary.LittleEndian.PutUint32(out[8:12], f.k)
	binary.LittleEndian.PutUint64(out[12:20], f.items)
	binary.LittleEndian.PutUint32(out[20:24], uint32(len(words)))
	for i, w := range words {
		binary.LittleEndian.PutUint64(out[headerBytes+8*i:], w)
	}
	return out, nil
}

// FromBytes decodes a filter serialized by MarshalBinary, attaching a fresh
// default seeded hasher.
//
// The default hasher's seeds are new, so the decoded filter answers
// membership consistently with the encoder only if the encoder's hasher
// happened to behave identically, which a SeededHasher never does across
// instances. Filters that round-trip through bytes should be built with a
// stable hasher and decoded with FromBytesHasher.
func FromBytes(data []byte) (*Filter, error) {
	return FromBytesHasher(data, NewSeededHasher())
}

// FromBytesHasher decodes a filter serialized by MarshalBinary, attaching
// the caller's hasher. The decoded bits are reused as-is; the caller is
// responsible for supplying a hasher that matches the one used at encode
// time, since bit interpretation silently changes otherwise.
func FromBytesHasher(data []byte, hasher Hasher) (*Filter, error) {
	if len(data) < headerBytes {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrCorruptData, len(data), headerBytes)
	}
	m := binary.LittleEndian.Uint64(data[0:8])
	k := binary.LittleEndian.Uint32(data[8:12])
	items := binary.LittleEndian.Uint64(data[12:20])
	wordCount := binary.LittleEndian.Uint32(data[20:24])

	// Check the declared length against the input before decodeState sizes
	// any allocation to it, so a corrupt header cannot demand an
	// attacker-controlled amount of memory.
	if uint64(len(data)-headerBytes) != 8*uint64(wordCount) {
		return nil, fmt.Errorf("%w: header declares %d words, body holds %d bytes", ErrCorruptData, wordCount, len(data)-headerBytes)
	}
	bits, err := decodeState(m, k, uint64(wordCount))
	if err != nil {
		return nil, err
	}
	words := bits.Words()
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(data[headerBytes+8*i:])
	}
	return &Filter{
		bits:   bits,
		m:      m,
		k:      k,
		items:  items,
		hasher: hasher,
	}, nil
}

// decodeState re-validates the construction invariants against decoded
// parameters and allocates the backing BitSet.
func decodeState(m uint64, k uint32, wordCount uint64) (*BitSet, error) {
	if m == 0 {
		return nil, fmt.Errorf("%w: decoded m is 0", ErrCorruptData)
	}
	if k == 0 {
		return nil, fmt.Errorf("%w: decoded k is 0", ErrCorruptData)
	}
	if expected := (m + WordBits - 1) / WordBits; wordCount != expected {
		return nil, fmt.Errorf("%w: m %d requires %d words, got %d", ErrCorruptData, m, expected, wordCount)
	}
	return NewBitSet(m)
}
