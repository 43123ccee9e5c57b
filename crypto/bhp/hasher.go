// Package bhp implements the Bowe-Hopwood-Pedersen windowed hash and the
// randomized commitment built on it, over the twisted Edwards curve of the
// BLS12-377 scalar field. The input bits are split in windows of 3-bit chunks;
// every chunk selects a signed small multiple of its own precomputed base and
// all contributions are summed.
package bhp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
)

// Hasher evaluates the hash and the commitment natively.
type Hasher struct {
	table *BaseTable
}

// NewHasher returns a Hasher reading the given table.
func NewHasher(table *BaseTable) *Hasher {
	return &Hasher{table: table}
}

// Parameters returns the parameterization of the underlying table.
func (h *Hasher) Parameters() Parameters { return h.table.params }

// Table returns the underlying base table.
func (h *Hasher) Table() *BaseTable { return h.table }

// HashUncompressed returns the hash of input as a curve point. Inputs shorter
// than MaxBits are not extended: absent chunks contribute nothing, and the
// empty input hashes to the identity.
func (h *Hasher) HashUncompressed(input []bool) (twistededwards.PointAffine, error) {
	if err := h.table.params.CheckInputLength(len(input)); err != nil {
		return twistededwards.PointAffine{}, err
	}
	identity := bls12377te.Identity()
	var acc twistededwards.PointExtended
	acc.FromAffine(&identity)

	ws := h.table.params.WindowSize
	var term twistededwards.PointAffine
	for c := 0; c*ChunkSize < len(input); c++ {
		b := input[c*ChunkSize : (c+1)*ChunkSize]
		idx := ChunkIndex(b[0], b[1], b[2])
		term = h.table.lookup[c/ws][c%ws][idx&^SignBit]
		if ChunkTable[idx] < 0 {
			term.Neg(&term)
		}
		acc.MixedAdd(&acc, &term)
	}
	var res twistededwards.PointAffine
	res.FromExtended(&acc)
	return res, nil
}

// Hash returns the x-coordinate of HashUncompressed.
func (h *Hasher) Hash(input []bool) (fr.Element, error) {
	p, err := h.HashUncompressed(input)
	if err != nil {
		return fr.Element{}, err
	}
	return bls12377te.XCoordinate(&p), nil
}

// CommitUncompressed returns HashUncompressed(input) + r·H, where H is the
// randomizer base and r lies in [0, order).
func (h *Hasher) CommitUncompressed(input []bool, r *big.Int) (twistededwards.PointAffine, error) {
	if r == nil || r.Sign() < 0 || r.Cmp(bls12377te.Order()) >= 0 {
		return twistededwards.PointAffine{}, &RandomizerError{Value: r}
	}
	p, err := h.HashUncompressed(input)
	if err != nil {
		return twistededwards.PointAffine{}, err
	}
	rh := bls12377te.ScalarMult(&h.table.randomBase, r)
	p.Add(&p, &rh)
	return p, nil
}

// Commit returns the x-coordinate of CommitUncompressed.
func (h *Hasher) Commit(input []bool, r *big.Int) (fr.Element, error) {
	p, err := h.CommitUncompressed(input, r)
	if err != nil {
		return fr.Element{}, err
	}
	return bls12377te.XCoordinate(&p), nil
}
