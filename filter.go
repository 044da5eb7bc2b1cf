package bloomz

import "fmt"

// Filter is a Bloom filter over m bits with k hash positions per key.
//
// m and k are fixed for the lifetime of the filter; there is no resizing.
// Single-key operations are not synchronized: a Filter may be read by many
// goroutines only while no goroutine mutates it.
type Filter struct {
	bits   *BitSet
	m      uint64
	k      uint32
	items  uint64
	hasher Hasher
}

// New returns a filter with explicit parameters and the default seeded
// hasher.
func New(m uint64, k uint32) (*Filter, error) {
	return WithHasher(m, k, NewSeededHasher())
}

// WithHasher returns a filter with explicit parameters and a caller-supplied
// hasher.
func WithHasher(m uint64, k uint32, hasher Hasher) (*Filter, error) {
	if m == 0 {
		return nil, fmt.Errorf("%w: m must be at least 1", ErrInvalidParameter)
	}
	if k == 0 {
		return nil, fmt.Errorf("%w: k must be at least 1", ErrInvalidParameter)
	}
	bits, err := NewBitSet(m)
	if err != nil {
		return nil, err
	}
	return &Filter{
		bits:   bits,
		m:      m,
		k:      k,
		hasher: hasher,
	}, nil
}

// NewForCapacity sizes a filter for n expected items at target
// false-positive probability p, using the default seeded hasher.
func NewForCapacity(n uint64, p float64) (*Filter, error) {
	return WithHasherForCapacity(n, p, NewSeededHasher())
}

// WithHasherForCapacity sizes a filter for n expected items at target
// false-positive probability p, using a caller-supplied hasher.
func WithHasherForCapacity(n uint64, p float64, hasher Hasher) (*Filter, error) {
	if n == 0 {
		return nil, fmt.Errorf("%w: n must be at least 1", ErrInvalidParameter)
	}
	if p <= 0 || p >= 1 {
		return nil, fmt.Errorf("%w: p must be in (0,1), got %v", ErrInvalidParameter, p)
	}
	m := OptimalM(n, p)
	return WithHasher(m, OptimalK(m, n), hasher)
}

// Insert adds key to the filter. It cannot fail once the filter is
// constructed.
func (f *Filter) Insert(key []byte) {
	h1, h2 := hashPair(f.hasher, key)
	setBits(f.bits, f.m, f.k, h1, h2)
	f.items++
}

// Contains reports whether key may be present. A false result is definitive;
// a true result is correct up to the filter's false-positive rate. A key
// inserted through this filter is never reported absent.
func (f *Filter) Contains(key []byte) bool {
	h1, h2 := hashPair(f.hasher, key)
	return testBits(f.bits, f.m, f.k, h1, h2)
}

// Clear zeroes all bits and resets the insert counter.
func (f *Filter) Clear() {
	f.bits.ClearAll()
	f.items = 0
}

// ApproximateItems returns the number of Insert calls, not a distinct-key
// cardinality: inserting the same key twice counts twice. After UnionInPlace
// it is the sum of both counters (an upper bound); after IntersectInPlace it
// is reset to 0. Neither merged value is exact.
func (f *Filter) ApproximateItems() uint64 {
	return f.items
}

// M returns the bit-array length.
func (f *Filter) M() uint64 { return f.m }

// K returns the number of hash positions per key.
func (f *Filter) K() uint32 { return f.k }

// UnionInPlace merges other into f with a bitwise OR. Both filters must have
// identical m and k, and the union is only meaningful when both were built
// with hashers behaving identically. The receiver is unchanged on error.
func (f *Filter) UnionInPlace(other *Filter) error {
	if err := f.checkMergeable(other); err != nil {
		return err
	}
	if err := f.bits.OrWith(other.bits); err != nil {
		return err
	}
	f.items += other.items
	return nil
}

// IntersectInPlace intersects other into f with a bitwise AND, under the
// same parameter requirements as UnionInPlace. The no-false-negative
// guarantee does not extend through intersection: a key present in only one
// operand may or may not remain positive. The receiver is unchanged on
// error.
func (f *Filter) IntersectInPlace(other *Filter) error {
	if err := f.checkMergeable(other); err != nil {
		return err
	}
	if err := f.bits.AndWith(other.bits); err != nil {
		return err
	}
	f.items = 0
	return nil
}

func (f *Filter) checkMergeable(other *Filter) error {
	if f.m != other.m {
		return fmt.Errorf("%w: m %d vs %d", ErrParameterMismatch, f.m, other.m)
	}
	if f.k != other.k {
		return fmt.Errorf("%w: k %d vs %d", ErrParameterMismatch, f.k, other.k)
	}
	return nil
}

// Clone returns an independent copy sharing the same hasher instance.
func (f *Filter) Clone() *Filter {
	return &Filter{
		bits:   f.bits.Clone(),
		m:      f.m,
		k:      f.k,
		items:  f.items,
		hasher: f.hasher,
	}
}

// EstimatedFalsePositiveRate returns the expected false-positive probability
// at the current insert count, treating ApproximateItems as n.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimatedFalsePositiveRate(f.m, f.k, f.items)
}
