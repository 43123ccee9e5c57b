package bhp

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
)

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bhp: cbor encoder: %v", err))
	}
}

// tableRecord is the persisted form of a BaseTable: only the generators are
// stored, everything else is expanded on decode.
type tableRecord struct {
	NumWindows int                 `cbor:"1,keyasint"`
	WindowSize int                 `cbor:"2,keyasint"`
	Domain     string              `cbor:"3,keyasint"`
	Generators []*bls12377te.Point `cbor:"4,keyasint"`
	RandomBase *bls12377te.Point   `cbor:"5,keyasint"`
}

// MarshalCBOR encodes the table generators deterministically.
func (t *BaseTable) MarshalCBOR() ([]byte, error) {
	rec := tableRecord{
		NumWindows: t.params.NumWindows,
		WindowSize: t.params.WindowSize,
		Domain:     t.domain,
		Generators: make([]*bls12377te.Point, len(t.generators)),
		RandomBase: bls12377te.NewPoint(&t.randomBase),
	}
	for w := range t.generators {
		rec.Generators[w] = bls12377te.NewPoint(&t.generators[w])
	}
	return encMode.Marshal(rec)
}

// DecodeTable decodes a table encoded with MarshalCBOR and rebuilds it. It
// fails with ParameterMismatchError when the record was built for other
// parameters, and with SetupError when any stored generator is invalid or is
// not the one derived from domain.
func DecodeTable(data []byte, params Parameters, domain string) (*BaseTable, error) {
	var rec tableRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode base table: %w", err)
	}
	got := Parameters{NumWindows: rec.NumWindows, WindowSize: rec.WindowSize}
	if got != params {
		return nil, &ParameterMismatchError{Expected: params, Got: got}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rec.Domain != domain {
		return nil, fmt.Errorf("decode base table: domain %q, expected %q", rec.Domain, domain)
	}
	if rec.RandomBase == nil {
		return nil, fmt.Errorf("decode base table: missing randomizer base")
	}
	if len(rec.Generators) != params.NumWindows {
		return nil, &ParameterMismatchError{
			Expected: params,
			Got:      Parameters{NumWindows: len(rec.Generators), WindowSize: params.WindowSize},
		}
	}
	generators, randomBase, err := deriveGenerators(params, domain)
	if err != nil {
		return nil, err
	}
	for w, p := range rec.Generators {
		if p == nil {
			return nil, fmt.Errorf("decode base table: missing generator %d", w)
		}
		if !p.Affine().Equal(&generators[w]) {
			return nil, &SetupError{Domain: domain, Window: w, Err: ErrForeignBase}
		}
	}
	if !rec.RandomBase.Affine().Equal(&randomBase) {
		return nil, &SetupError{Domain: domain, Window: RandomizerIndex, Err: ErrForeignBase}
	}
	return NewBaseTable(params, domain, generators, randomBase)
}
