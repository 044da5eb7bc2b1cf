package bloomz

/*

# bloomz: a Bloom filter with pluggable hashing

This package provides a classic Bloom filter: a probabilistic set-membership
structure over a fixed-size bit array.

## What Bloom filters are (and are not)

Bloom filters provide a *probabilistic prefilter*:

- If the filter says "definitely not present", then the element is not present.
- If the filter says "maybe present", then the element may or may not be present
  (false positives are possible).

There are no false negatives for keys inserted through the same filter with the
same hasher and parameters. Bloom filters are NOT cryptographic commitments and
do not provide proofs of exclusion.

## Sizing

OptimalM and OptimalK compute the standard capacity formulas from an expected
item count n and a target false-positive probability p:

	m = ceil(-n * ln(p) / ln(2)^2)
	k = round(m/n * ln(2))

Both clamp to at least 1 so that degenerate inputs cannot produce a filter that
trivially answers "maybe present" for everything. The capacity constructors
reject n == 0 and p outside (0, 1) outright.

## Indexing and bit numbering

We use deterministic double hashing (Kirsch-Mitzenmacher): a Hasher produces
two base values h1, h2 per key, and the i-th of k bit positions is

	(h1 + i*h2) mod m

Bit j of the filter is bit (j mod 64) of word (j / 64) in the backing BitSet,
so the bit order is LSB-first within little-endian words. If a poorly chosen
hash pair yields h2 = 0 mod m for all keys, all k positions collapse to one
and the false-positive rate inflates; the filter trusts hash quality and does
not detect or correct this.

## Serialization

MarshalBinary and FromBytes exchange a little-endian layout:

	m uint64 | k uint32 | items uint64 | wordCount uint32 | words ...uint64

MarshalCBOR and UnmarshalCBOR expose the same four logical fields with integer
keys for interchange with CBOR tooling. Decoding re-validates the construction
invariants and returns ErrCorruptData on truncated or inconsistent input.

The bits are reused as-is on decode: the caller must supply a hasher behaving
identically to the one used at encode time, or membership answers silently
change. The default hasher is seeded per process and is therefore unsuitable
for persisted filters; use a stable hasher such as Murmur3Hasher for those.

## Concurrency

Single-key operations take no locks and are intended for single-threaded or
externally synchronized use. The batch operations (InsertBatch, ContainsBatch,
ContainsAll) partition their input across worker goroutines per call;
InsertBatch sets bits with word-level atomic OR so the final state is
identical to the sequential result. Batch and single-key operations must not
run concurrently on the same filter.

*/
