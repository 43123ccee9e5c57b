package bls12377te

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/gnark-bhp/types"
)

// ErrInvalidPoint is returned by Validate for points outside the prime
// order subgroup or equal to the identity.
var ErrInvalidPoint = errors.New("invalid subgroup point")

// Point is an affine point with JSON and CBOR encodings of its coordinates.
type Point twistededwards.PointAffine

// NewPoint wraps p.
func NewPoint(p *twistededwards.PointAffine) *Point {
	return (*Point)(p)
}

// Affine returns the underlying gnark-crypto point.
func (p *Point) Affine() *twistededwards.PointAffine {
	return (*twistededwards.PointAffine)(p)
}

// Validate checks that p is a non identity point of the prime order subgroup.
func (p *Point) Validate() error {
	if IsIdentity(p.Affine()) {
		return fmt.Errorf("%w: identity", ErrInvalidPoint)
	}
	if !IsInSubgroup(p.Affine()) {
		return fmt.Errorf("%w: %s", ErrInvalidPoint, p)
	}
	return nil
}

// BigInts returns affine coordinates as []*big.Int.
func (p *Point) BigInts() []*big.Int {
	x, y := Coordinates(p.Affine())
	return []*big.Int{x, y}
}

// String returns a comma separated affine representation.
func (p *Point) String() string {
	x, y := Coordinates(p.Affine())
	return fmt.Sprintf("%s,%s", x.String(), y.String())
}

// MarshalJSON serialises the point to JSON.
func (p *Point) MarshalJSON() ([]byte, error) {
	x, y := Coordinates(p.Affine())
	return json.Marshal([]*types.BigInt{(*types.BigInt)(x), (*types.BigInt)(y)})
}

// UnmarshalJSON deserialises the point from JSON.
func (p *Point) UnmarshalJSON(buf []byte) error {
	var coords []types.BigInt
	if err := json.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	p.X.SetBigInt(coords[0].MathBigInt())
	p.Y.SetBigInt(coords[1].MathBigInt())
	return nil
}

// MarshalCBOR serialises the point using CBOR.
func (p *Point) MarshalCBOR() ([]byte, error) {
	x, y := Coordinates(p.Affine())
	return cbor.Marshal([]*big.Int{x, y})
}

// UnmarshalCBOR deserialises the point from CBOR.
func (p *Point) UnmarshalCBOR(buf []byte) error {
	var coords []*big.Int
	if err := cbor.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	p.X.SetBigInt(coords[0])
	p.Y.SetBigInt(coords[1])
	return nil
}
