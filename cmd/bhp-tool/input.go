package main

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
	"github.com/vocdoni/gnark-bhp/types"
	"github.com/vocdoni/gnark-bhp/util"
)

// parseInput reads a bit string, or hex bytes expanded least significant bit
// first. With pad, zero bits are appended up to a multiple of the chunk size.
func parseInput(s string, pad bool) (types.Bits, error) {
	var bits types.Bits
	if util.HasHexPrefix(s) {
		b, err := types.HexStringToHexBytes(s)
		if err != nil {
			return nil, err
		}
		bits = bhp.BytesToBits(b)
	} else {
		var err error
		if bits, err = types.ParseBits(s); err != nil {
			return nil, err
		}
	}
	if pad {
		for len(bits)%bhp.ChunkSize != 0 {
			bits = append(bits, false)
		}
	}
	return bits, nil
}

// parseRandomizer parses s, or draws a uniform scalar when s is empty.
func parseRandomizer(s string) (*big.Int, error) {
	if s == "" {
		return util.RandomBigInt(big.NewInt(0), bls12377te.Order()), nil
	}
	r, err := types.ParseBigInt(s)
	if err != nil {
		return nil, fmt.Errorf("randomizer: %w", err)
	}
	return r.MathBigInt(), nil
}

func randomBits(n int) []bool {
	bits := bhp.BytesToBits(util.RandomBytes((n + 7) / 8))
	return bits[:n]
}
