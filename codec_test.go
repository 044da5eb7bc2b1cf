package bloomz

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	f, err := WithHasher(1_000, 4, Murmur3Hasher{})
	require.NoError(t, err)

	keys := testKeys("rt", 0, 200)
	for _, key := range keys {
		f.Insert(key)
	}

	data, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, headerBytes+8*len(f.bits.Words()))

	g, err := FromBytesHasher(data, Murmur3Hasher{})
	require.NoError(t, err)
	require.Equal(t, f.M(), g.M())
	require.Equal(t, f.K(), g.K())
	require.Equal(t, f.ApproximateItems(), g.ApproximateItems())
	require.Equal(t, f.bits.Words(), g.bits.Words())

	// Membership answers are identical for present and probe keys alike.
	for _, key := range keys {
		require.True(t, g.Contains(key))
	}
	for _, key := range testKeys("probe", 0, 200) {
		require.Equal(t, f.Contains(key), g.Contains(key))
	}
}

func TestFromBytesRejectsTruncatedInput(t *testing.T) {
	f, err := WithHasher(1_000, 4, Murmur3Hasher{})
	require.NoError(t, err)
	f.Insert([]byte("x"))

	data, err := f.MarshalBinary()
	require.NoError(t, err)

	// Shorter than the header.
	_, err = FromBytes(data[:headerBytes-1])
	require.ErrorIs(t, err, ErrCorruptData)

	// Header intact, word data missing.
	_, err = FromBytes(data[:headerBytes+3])
	require.ErrorIs(t, err, ErrCorruptData)

	_, err = FromBytes(nil)
	require.ErrorIs(t, err, ErrCorruptData)

	// Trailing bytes beyond the declared words are corrupt too; the layout
	// requires the exact length.
	_, err = FromBytes(append(data, 0))
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestFromBytesRejectsHugeDeclaredWordCount(t *testing.T) {
	// A header-only input whose (m, wordCount) pair is self-consistent but
	// vastly larger than the input must be rejected on the declared length
	// alone; the decoder may not size an allocation to the header's claim.
	wordCount := uint32(1 << 28)
	data := make([]byte, headerBytes)
	binary.LittleEndian.PutUint64(data[0:8], uint64(wordCount)*WordBits)
	binary.LittleEndian.PutUint32(data[8:12], 4)
	binary.LittleEndian.PutUint32(data[20:24], wordCount)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := FromBytesHasher(data, Murmur3Hasher{})
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, ErrCorruptData)
	// The header claims 2 GiB of words; rejection must cost no more than
	// the error value itself.
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestFromBytesRejectsInvalidParameters(t *testing.T) {
	header := func(m uint64, k, wordCount uint32) []byte {
		data := make([]byte, headerBytes+8*int(wordCount))
		binary.LittleEndian.PutUint64(data[0:8], m)
		binary.LittleEndian.PutUint32(data[8:12], k)
		binary.LittleEndian.PutUint32(data[20:24], wordCount)
		return data
	}

	_, err := FromBytes(header(0, 4, 0))
	require.ErrorIs(t, err, ErrCorruptData)

	_, err = FromBytes(header(100, 0, 2))
	require.ErrorIs(t, err, ErrCorruptData)

	// Declared word count inconsistent with m.
	_, err = FromBytes(header(100, 4, 5))
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestCBORRoundTrip(t *testing.T) {
	f, err := WithHasher(1_000, 4, Murmur3Hasher{})
	require.NoError(t, err)

	keys := testKeys("cbor", 0, 150)
	for _, key := range keys {
		f.Insert(key)
	}

	data, err := cbor.Marshal(f)
	require.NoError(t, err)

	// Pre-set the stable hasher before decoding, per the documented contract.
	g := &Filter{hasher: Murmur3Hasher{}}
	require.NoError(t, cbor.Unmarshal(data, g))

	require.Equal(t, f.M(), g.M())
	require.Equal(t, f.K(), g.K())
	require.Equal(t, f.ApproximateItems(), g.ApproximateItems())
	for _, key := range keys {
		require.True(t, g.Contains(key))
	}
	for _, key := range testKeys("cbor-probe", 0, 150) {
		require.Equal(t, f.Contains(key), g.Contains(key))
	}
}

func TestCBORRejectsInvalidState(t *testing.T) {
	garbage := []byte{0xff, 0x00, 0x13}
	var f Filter
	require.ErrorIs(t, f.UnmarshalCBOR(garbage), ErrCorruptData)

	zeroM, err := cbor.Marshal(filterState{M: 0, K: 4})
	require.NoError(t, err)
	require.ErrorIs(t, f.UnmarshalCBOR(zeroM), ErrCorruptData)

	badWords, err := cbor.Marshal(filterState{M: 100, K: 4, Words: make([]uint64, 7)})
	require.NoError(t, err)
	require.ErrorIs(t, f.UnmarshalCBOR(badWords), ErrCorruptData)
}

// End-to-end: a small filter holding 100 known keys keeps every one, stays
// under a 5% observed false-positive rate for 100 known-absent keys, and
// answers identically after a serialize/deserialize cycle.
func TestScenarioSerializeDeserialize(t *testing.T) {
	f, err := WithHasher(1_000, 5, Murmur3Hasher{})
	require.NoError(t, err)

	present := testKeys("present", 0, 100)
	absent := testKeys("absent", 0, 100)
	for _, key := range present {
		f.Insert(key)
	}

	for _, key := range present {
		require.True(t, f.Contains(key))
	}
	require.Equal(t, uint64(100), f.ApproximateItems())

	fp := 0
	for _, key := range absent {
		if f.Contains(key) {
			fp++
		}
	}
	require.Less(t, fp, 5, "false positives among 100 absent keys")

	data, err := f.MarshalBinary()
	require.NoError(t, err)
	g, err := FromBytesHasher(data, Murmur3Hasher{})
	require.NoError(t, err)

	for _, key := range present {
		require.True(t, g.Contains(key))
	}
	for _, key := range absent {
		require.Equal(t, f.Contains(key), g.Contains(key))
	}
	require.Equal(t, uint64(100), g.ApproximateItems())
}
