package bloomz

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// SeededHasher is the default Hasher. It draws two random seeds at
// construction, so hash values are unpredictable to an attacker who cannot
// read process memory (DOS-resistant, like the runtime's map hashing), and
// deterministic for the lifetime of the instance.
//
// Seeds are not portable: a SeededHasher cannot be reconstructed in another
// process, so filters meant to be serialized and reloaded elsewhere should
// use a stable Hasher instead.
type SeededHasher struct {
	s1, s2 maphash.Seed
}

// NewSeededHasher returns a SeededHasher with fresh random seeds.
func NewSeededHasher() *SeededHasher {
	return &SeededHasher{s1: maphash.MakeSeed(), s2: maphash.MakeSeed()}
}

func (h *SeededHasher) HashPair(key []byte) (uint64, uint64) {
	return maphash.Bytes(h.s1, key), maphash.Bytes(h.s2, key)
}

// Murmur3Hasher derives both base hashes from a single 128-bit MurmurHash3
// pass. It is stable across processes and platforms, which makes it the
// hasher of choice for filters that round-trip through serialization.
type Murmur3Hasher struct{}

func (Murmur3Hasher) HashPair(key []byte) (uint64, uint64) {
	return murmur3.Sum128(key)
}

// XXHasher derives the base hashes from xxHash64: h1 is the plain digest of
// the key, h2 is the digest of h1 followed by the key. Stable across
// processes, and typically the fastest option for long keys.
type XXHasher struct{}

func (XXHasher) HashPair(key []byte) (uint64, uint64) {
	h1 := xxhash.Sum64(key)

	var chain [8]byte
	binary.LittleEndian.PutUint64(chain[:], h1)
	d := xxhash.New()
	_, _ = d.Write(chain[:])
	_, _ = d.Write(key)
	return h1, d.Sum64()
}

// hashPair runs the hasher and guards the stride: an even or zero h2 can
// shorten the cycle of (h1 + i*h2) mod m, so a zero stride is replaced with
// 1. A stride that is a nonzero multiple of m still collapses all k
// positions onto one; that is a documented property of double hashing and is
// not corrected here.
func hashPair(h Hasher, key []byte) (uint64, uint64) {
	h1, h2 := h.HashPair(key)
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

// setBits sets the k double-hashed positions for (h1, h2) in bs.
func setBits(bs *BitSet, m uint64, k uint32, h1, h2 uint64) {
	for i := uint64(0); i < uint64(k); i++ {
		bs.Set((h1 + i*h2) % m)
	}
}

// setBitsAtomic is setBits with word-level atomic OR, for concurrent batch
// writers.
func setBitsAtomic(bs *BitSet, m uint64, k uint32, h1, h2 uint64) {
	for i := uint64(0); i < uint64(k); i++ {
		bs.setAtomic((h1 + i*h2) % m)
	}
}

// testBits reports whether all k double-hashed positions for (h1, h2) are
// set in bs.
func testBits(bs *BitSet, m uint64, k uint32, h1, h2 uint64) bool {
	for i := uint64(0); i < uint64(k); i++ {
		if !bs.Get((h1 + i*h2) % m) {
			return false
		}
	}
	return true
}
