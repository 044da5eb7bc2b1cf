package bloomz

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// filterState is the schema-keyed representation of a filter: the same four
// logical fields as the binary layout, keyed by small integers for compact
// interchange with CBOR tooling.
type filterState struct {
	M     uint64   `cbor:"1,keyasint"`
	K     uint32   `cbor:"2,keyasint"`
	Items uint64   `cbor:"3,keyasint"`
	Words []uint64 `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalCBOR encodes the filter state as a canonical CBOR map.
func (f *Filter) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(filterState{
		M:     f.m,
		K:     f.k,
		Items: f.items,
		Words: f.bits.Words(),
	})
}

// UnmarshalCBOR decodes state produced by MarshalCBOR into f, applying the
// same validation as binary decoding. A hasher already present on f is kept;
// otherwise a fresh default seeded hasher is attached, with the same caveat
// as FromBytes: pre-set a stable hasher before decoding persisted filters.
func (f *Filter) UnmarshalCBOR(data []byte) error {
	var state filterState
	if err := decMode.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	bits, err := decodeState(state.M, state.K, uint64(len(state.Words)))
	if err != nil {
		return err
	}
	copy(bits.Words(), state.Words)

	f.bits = bits
	f.m = state.M
	f.k = state.K
	f.items = state.Items
	if f.hasher == nil {
		f.hasher = NewSeededHasher()
	}
	return nil
}
