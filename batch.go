package bloomz

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// The batch operations partition keys into contiguous chunks, one per
// worker goroutine, and join before returning. Workers live for the single
// call; no pool is retained between calls.

// InsertBatch inserts every key, fanning the work out across up to
// GOMAXPROCS workers. Bits are set with word-level atomic OR, so concurrent
// writers racing on a word cannot lose updates and the final state is
// identical to inserting the keys sequentially.
//
// The filter must not be read or otherwise mutated while InsertBatch runs.
func (f *Filter) InsertBatch(keys [][]byte) {
	if len(keys) == 0 {
		return
	}
	f.forEachChunk(keys, func(chunk [][]byte, _ int) {
		for _, key := range chunk {
			h1, h2 := hashPair(f.hasher, key)
			setBitsAtomic(f.bits, f.m, f.k, h1, h2)
		}
	})
	f.items += uint64(len(keys))
}

// ContainsBatch returns one membership answer per key, in input order.
//
// The filter must not be mutated while ContainsBatch runs.
func (f *Filter) ContainsBatch(keys [][]byte) []bool {
	results := make([]bool, len(keys))
	if len(keys) == 0 {
		return results
	}
	f.forEachChunk(keys, func(chunk [][]byte, offset int) {
		for i, key := range chunk {
			h1, h2 := hashPair(f.hasher, key)
			results[offset+i] = testBits(f.bits, f.m, f.k, h1, h2)
		}
	})
	return results
}

// ContainsAll reports whether every key may be present. Workers stop early
// once any worker finds a definite negative; early exit never turns a
// negative into a positive, it only skips work whose outcome no longer
// matters.
//
// The filter must not be mutated while ContainsAll runs.
func (f *Filter) ContainsAll(keys [][]byte) bool {
	if len(keys) == 0 {
		return true
	}
	var missing atomic.Bool
	f.forEachChunk(keys, func(chunk [][]byte, _ int) {
		for _, key := range chunk {
			if missing.Load() {
				return
			}
			h1, h2 := hashPair(f.hasher, key)
			if !testBits(f.bits, f.m, f.k, h1, h2) {
				missing.Store(true)
				return
			}
		}
	})
	return !missing.Load()
}

// forEachChunk splits keys into near-equal contiguous chunks and runs fn on
// each in its own goroutine, passing the chunk's offset into keys. It
// returns after all workers complete.
func (f *Filter) forEachChunk(keys [][]byte, fn func(chunk [][]byte, offset int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(keys) {
		workers = len(keys)
	}
	if workers <= 1 {
		fn(keys, 0)
		return
	}

	chunk := (len(keys) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(keys); start += chunk {
		end := min(start+chunk, len(keys))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(keys[start:end], start)
		}(start, end)
	}
	wg.Wait()
}
