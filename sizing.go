package bloomz

import "math"

// OptimalM returns the optimal bit-array length for n expected items at
// target false-positive probability p:
//
//	m = ceil(-n * ln(p) / ln(2)^2)
//
// The result is clamped to at least 1. Degenerate inputs (n == 0, p outside
// (0,1)) would otherwise yield m == 0, and an m of 0 makes every query
// trivially positive; clamping preserves the no-false-negative guarantee at
// the cost of space. Public capacity constructors reject such inputs before
// calling here.
func OptimalM(n uint64, p float64) uint64 {
	ln2sq := math.Ln2 * math.Ln2
	m := math.Ceil(-float64(n) * math.Log(p) / ln2sq)
	if m < 1 || math.IsNaN(m) || math.IsInf(m, 0) {
		return 1
	}
	return uint64(m)
}

// OptimalK returns the optimal hash-function count for m bits and n expected
// items:
//
//	k = round(m/n * ln(2))
//
// clamped to at least 1.
func OptimalK(m, n uint64) uint32 {
	if n == 0 {
		return 1
	}
	k := math.Round(float64(m) / float64(n) * math.Ln2)
	if k < 1 {
		return 1
	}
	return uint32(k)
}

// EstimatedFalsePositiveRate returns the expected false-positive probability
// of a filter with m bits and k hash functions after n insertions:
//
//	(1 - e^(-k*n/m))^k
func EstimatedFalsePositiveRate(m uint64, k uint32, n uint64) float64 {
	if m == 0 {
		return 1
	}
	return math.Pow(1-math.Exp(-float64(k)*float64(n)/float64(m)), float64(k))
}
