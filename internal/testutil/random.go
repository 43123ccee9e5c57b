// Package testutil provides deterministic random inputs for the hash and
// circuit tests.
package testutil

import (
	"encoding/binary"
	"math/big"
	"math/rand/v2"

	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
)

// Domain is the domain separation string shared by the tests.
const Domain = "BHPCircuit0"

// NewRand returns a ChaCha8 stream seeded with seed, so failing cases can be
// replayed.
func NewRand(seed uint64) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return rand.New(rand.NewChaCha8(s))
}

// RandomBits returns n uniformly random bits.
func RandomBits(rng *rand.Rand, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rng.IntN(2) == 1
	}
	return bits
}

// RandomScalar returns a uniformly random scalar in [0, order).
func RandomScalar(rng *rand.Rand) *big.Int {
	order := bls12377te.Order()
	buf := make([]byte, (order.BitLen()+7)/8+8)
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}
	return new(big.Int).Mod(new(big.Int).SetBytes(buf), order)
}

// FlipBit returns a copy of bits with position i negated.
func FlipBit(bits []bool, i int) []bool {
	out := append([]bool(nil), bits...)
	out[i] = !out[i]
	return out
}
