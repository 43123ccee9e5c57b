// Package bhp is the gnark gadget of the BHP windowed hash and commitment. It
// evaluates the same base table as the native crypto/bhp package and produces
// identical outputs for constant, public and secret inputs. Operations on
// compile-time constants are folded natively, so a fully constant evaluation
// adds no constraint and no wire.
package bhp

import (
	"fmt"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/math/bits"
	nativebhp "github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
)

// Hasher evaluates the hash and the commitment inside a circuit.
type Hasher struct {
	table *nativebhp.BaseTable
}

// NewHasher returns a gadget reading the given table.
func NewHasher(table *nativebhp.BaseTable) *Hasher {
	return &Hasher{table: table}
}

// NewHasherFor returns a gadget for params, failing with a
// ParameterMismatchError when the table was built for other parameters.
func NewHasherFor(params nativebhp.Parameters, table *nativebhp.BaseTable) (*Hasher, error) {
	if got := table.Parameters(); got != params {
		return nil, &nativebhp.ParameterMismatchError{Expected: params, Got: got}
	}
	return NewHasher(table), nil
}

// Parameters returns the parameterization of the underlying table.
func (h *Hasher) Parameters() nativebhp.Parameters { return h.table.Parameters() }

// HashUncompressed returns the hash point of the input bits. Every bit is
// asserted boolean; absent trailing chunks contribute nothing.
func (h *Hasher) HashUncompressed(api frontend.API, input []frontend.Variable) (twistededwards.Point, error) {
	params := h.table.Parameters()
	if err := params.CheckInputLength(len(input)); err != nil {
		return twistededwards.Point{}, err
	}
	for i, b := range input {
		if v, ok := api.Compiler().ConstantValue(b); ok && v.BitLen() > 1 {
			return twistededwards.Point{}, fmt.Errorf("input bit %d is the non boolean constant %s", i, v)
		}
		api.AssertIsBoolean(b)
	}
	curve, err := twistededwards.NewEdCurve(api, tedwards.BLS12_377)
	if err != nil {
		return twistededwards.Point{}, fmt.Errorf("new edwards curve: %w", err)
	}

	acc := identity()
	ws := params.WindowSize
	nbChunks := len(input) / nativebhp.ChunkSize
	for w := 0; w*ws < nbChunks; w++ {
		var window montPoint
		for j := 0; j < ws && w*ws+j < nbChunks; j++ {
			c := (w*ws + j) * nativebhp.ChunkSize
			term := h.lookup(api, w, j, input[c], input[c+1], input[c+2])
			if j == 0 {
				window = term
				continue
			}
			// Partial window sums are never ± the next term, the chord
			// formula is safe here.
			if window, err = montAdd(api, window, term); err != nil {
				return twistededwards.Point{}, fmt.Errorf("window %d chunk %d: %w", w, j, err)
			}
		}
		p, err := toEdwards(api, window)
		if err != nil {
			return twistededwards.Point{}, fmt.Errorf("window %d: %w", w, err)
		}
		acc = addEdwards(api, curve, acc, p)
	}
	return acc, nil
}

// Hash returns the x-coordinate of HashUncompressed.
func (h *Hasher) Hash(api frontend.API, input []frontend.Variable) (frontend.Variable, error) {
	p, err := h.HashUncompressed(api, input)
	if err != nil {
		return nil, err
	}
	return p.X, nil
}

// CommitUncompressed returns HashUncompressed(input) + r·H. The randomizer
// must lie in [0, order): a constant one is checked at compile time, a
// variable one is constrained to it.
func (h *Hasher) CommitUncompressed(api frontend.API, input []frontend.Variable, randomizer frontend.Variable) (twistededwards.Point, error) {
	hash, err := h.HashUncompressed(api, input)
	if err != nil {
		return twistededwards.Point{}, err
	}
	curve, err := twistededwards.NewEdCurve(api, tedwards.BLS12_377)
	if err != nil {
		return twistededwards.Point{}, fmt.Errorf("new edwards curve: %w", err)
	}
	rh, err := h.randomizerTerm(api, curve, randomizer)
	if err != nil {
		return twistededwards.Point{}, err
	}
	return addEdwards(api, curve, hash, rh), nil
}

// Commit returns the x-coordinate of CommitUncompressed.
func (h *Hasher) Commit(api frontend.API, input []frontend.Variable, randomizer frontend.Variable) (frontend.Variable, error) {
	p, err := h.CommitUncompressed(api, input, randomizer)
	if err != nil {
		return nil, err
	}
	return p.X, nil
}

// randomizerTerm returns r·H as a fixed-base scalar multiplication over the
// precomputed powers 2^i·H.
func (h *Hasher) randomizerTerm(api frontend.API, curve twistededwards.Curve, r frontend.Variable) (twistededwards.Point, error) {
	if v, ok := api.Compiler().ConstantValue(r); ok {
		if v.Cmp(bls12377te.Order()) >= 0 {
			return twistededwards.Point{}, &nativebhp.RandomizerError{Value: v}
		}
		base := h.table.RandomBase()
		rh := bls12377te.ScalarMult(&base, v)
		return constEdwards(&rh), nil
	}
	rBits := bits.ToBinary(api, r, bits.WithNbDigits(bls12377te.ScalarBits))
	assertLessOrEqualConst(api, rBits, new(big.Int).Sub(bls12377te.Order(), big.NewInt(1)))
	acc := identity()
	for i, b := range rBits {
		pow := h.table.RandomPower(i)
		x, y := bigOf(&pow.X), bigOf(&pow.Y)
		// b selects between the identity (0, 1) and 2^i·H.
		term := twistededwards.Point{
			X: api.Mul(b, x),
			Y: api.Add(1, api.Mul(b, api.Sub(y, 1))),
		}
		acc = addEdwards(api, curve, acc, term)
	}
	return acc, nil
}

// assertLessOrEqualConst asserts that the little endian boolean vector a
// encodes a value at most bound. prefix[i] is 1 while the bits above i equal
// those of bound; where bound has a 0 such a prefix forces a 0 bit.
func assertLessOrEqualConst(api frontend.API, a []frontend.Variable, bound *big.Int) {
	n := len(a)
	prefix := make([]frontend.Variable, n+1)
	prefix[n] = 1
	for i := n - 1; i >= 0; i-- {
		if bound.Bit(i) == 0 {
			prefix[i] = prefix[i+1]
			// (1 - prefix[i+1] - a[i]) · a[i] == 0
			api.AssertIsEqual(api.Mul(api.Sub(1, prefix[i+1], a[i]), a[i]), 0)
		} else {
			prefix[i] = api.Mul(prefix[i+1], a[i])
		}
	}
}
