// Package bls12377te collects the arithmetic helpers over the twisted Edwards
// curve defined on the BLS12-377 scalar field that the windowed hash needs on
// top of gnark-crypto: subgroup checks, cofactor clearing, the birationally
// equivalent Montgomery form and a deterministic hash-to-curve.
package bls12377te

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
)

// CurveType identifies the BLS12-377 twisted Edwards curve implementation.
const CurveType = "bls12377_te"

// ScalarBits is the bit length of the prime subgroup order.
const ScalarBits = 251

var params twistededwards.CurveParams

func init() {
	params = twistededwards.GetEdwardsCurve()
	initMontgomery()
}

// Params returns a copy of the curve parameters.
func Params() twistededwards.CurveParams {
	return params
}

// Order returns the prime subgroup order.
func Order() *big.Int {
	return new(big.Int).Set(&params.Order)
}

// Identity returns the neutral element (0, 1).
func Identity() twistededwards.PointAffine {
	var p twistededwards.PointAffine
	p.X.SetZero()
	p.Y.SetOne()
	return p
}

// IsIdentity reports whether p is the neutral element.
func IsIdentity(p *twistededwards.PointAffine) bool {
	return p.X.IsZero() && p.Y.IsOne()
}

// ClearCofactor returns cofactor·p.
func ClearCofactor(p *twistededwards.PointAffine) twistededwards.PointAffine {
	var q twistededwards.PointAffine
	q.Double(p)
	q.Double(&q)
	return q
}

// IsInSubgroup reports whether p lies on the curve and in the prime order
// subgroup.
func IsInSubgroup(p *twistededwards.PointAffine) bool {
	if !p.IsOnCurve() {
		return false
	}
	var q twistededwards.PointAffine
	q.ScalarMultiplication(p, &params.Order)
	return IsIdentity(&q)
}

// ScalarMult returns scalar·p, the identity for a nil or zero scalar.
func ScalarMult(p *twistededwards.PointAffine, scalar *big.Int) twistededwards.PointAffine {
	if scalar == nil || scalar.Sign() == 0 {
		return Identity()
	}
	var q twistededwards.PointAffine
	q.ScalarMultiplication(p, scalar)
	return q
}

// MulSmall returns k·p for a small signed k using double-and-add.
func MulSmall(p *twistededwards.PointAffine, k int) twistededwards.PointAffine {
	neg := k < 0
	if neg {
		k = -k
	}
	acc := Identity()
	var base twistededwards.PointAffine
	base.Set(p)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			acc.Add(&acc, &base)
		}
		base.Double(&base)
	}
	if neg {
		acc.Neg(&acc)
	}
	return acc
}

// XCoordinate returns the compressed form used as hash output.
func XCoordinate(p *twistededwards.PointAffine) fr.Element {
	return p.X
}

// Coordinates returns the affine coordinates as big integers.
func Coordinates(p *twistededwards.PointAffine) (*big.Int, *big.Int) {
	x, y := new(big.Int), new(big.Int)
	p.X.BigInt(x)
	p.Y.BigInt(y)
	return x, y
}
