package bloomz

import "errors"

const (
	// WordBits is the width of one backing BitSet word.
	WordBits = 64

	// headerBytes is the fixed size of the serialized header:
	// m(8) + k(4) + items(8) + wordCount(4).
	headerBytes = 8 + 4 + 8 + 4
)

var (
	ErrInvalidParameter  = errors.New("bloomz: invalid parameter")
	ErrParameterMismatch = errors.New("bloomz: filter parameters do not match")
	ErrCorruptData       = errors.New("bloomz: corrupt serialized data")

	ErrZeroBitLength     = errors.New("bloomz: bit length must be at least 1")
	ErrBitLengthMismatch = errors.New("bloomz: bitset lengths do not match")
)

// Hasher derives two base hash values from a key. The two values seed the
// double-hashing scheme that spreads each key over k bit positions, so they
// must be independent enough for the combination (h1 + i*h2) to vary with i.
//
// Implementations must be deterministic within a process run: the same key
// yields the same pair for the lifetime of the Hasher instance. They need not
// be stable across processes; only hashers documented as stable (for example
// Murmur3Hasher) are safe to pair with serialized filters.
type Hasher interface {
	HashPair(key []byte) (h1, h2 uint64)
}
