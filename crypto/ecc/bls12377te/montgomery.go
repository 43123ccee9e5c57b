package bls12377te

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
)

// ErrNotMappable is returned when an Edwards point has no affine Montgomery
// image (the identity and the point of order two) or vice versa.
var ErrNotMappable = errors.New("point is not mappable between Edwards and Montgomery form")

// ErrIncompleteAdd is returned by MontgomeryAdd when the operands are equal or
// opposite, where the chord formula is undefined.
var ErrIncompleteAdd = errors.New("montgomery addition of equal or opposite points")

// Montgomery curve coefficients of B·v² = u³ + A·u² + u, birationally
// equivalent to a·x² + y² = 1 + d·x²·y².
var (
	montA fr.Element
	montB fr.Element
)

func initMontgomery() {
	var aMinusD, aPlusD, two, four fr.Element
	aMinusD.Sub(&params.A, &params.D)
	aPlusD.Add(&params.A, &params.D)
	two.SetUint64(2)
	four.SetUint64(4)
	montA.Mul(&two, &aPlusD).Div(&montA, &aMinusD)
	montB.Div(&four, &aMinusD)
}

// MontgomeryA returns the A coefficient of the Montgomery form.
func MontgomeryA() fr.Element { return montA }

// MontgomeryB returns the B coefficient of the Montgomery form.
func MontgomeryB() fr.Element { return montB }

// MontgomeryPoint is an affine point on the Montgomery form of the curve.
type MontgomeryPoint struct {
	U, V fr.Element
}

// ToMontgomery maps an Edwards point to Montgomery form:
// u = (1+y)/(1-y), v = u/x.
func ToMontgomery(p *twistededwards.PointAffine) (MontgomeryPoint, error) {
	var one, num, den fr.Element
	one.SetOne()
	num.Add(&one, &p.Y)
	den.Sub(&one, &p.Y)
	if den.IsZero() || p.X.IsZero() {
		return MontgomeryPoint{}, ErrNotMappable
	}
	var m MontgomeryPoint
	m.U.Div(&num, &den)
	m.V.Div(&m.U, &p.X)
	return m, nil
}

// FromMontgomery maps a Montgomery point back to Edwards form:
// x = u/v, y = (u-1)/(u+1).
func FromMontgomery(m *MontgomeryPoint) (twistededwards.PointAffine, error) {
	var one, num, den fr.Element
	one.SetOne()
	num.Sub(&m.U, &one)
	den.Add(&m.U, &one)
	if den.IsZero() || m.V.IsZero() {
		return twistededwards.PointAffine{}, ErrNotMappable
	}
	var p twistededwards.PointAffine
	p.X.Div(&m.U, &m.V)
	p.Y.Div(&num, &den)
	return p, nil
}

// MontgomeryAdd returns p + q with the incomplete chord formula.
func MontgomeryAdd(p, q *MontgomeryPoint) (MontgomeryPoint, error) {
	var du, dv fr.Element
	du.Sub(&q.U, &p.U)
	if du.IsZero() {
		return MontgomeryPoint{}, ErrIncompleteAdd
	}
	dv.Sub(&q.V, &p.V)
	var lambda, lambda2 fr.Element
	lambda.Div(&dv, &du)
	lambda2.Square(&lambda)
	var r MontgomeryPoint
	// u3 = B·λ² - A - u1 - u2
	r.U.Mul(&montB, &lambda2).
		Sub(&r.U, &montA).
		Sub(&r.U, &p.U).
		Sub(&r.U, &q.U)
	// v3 = λ·(u1 - u3) - v1
	r.V.Sub(&p.U, &r.U).
		Mul(&r.V, &lambda).
		Sub(&r.V, &p.V)
	return r, nil
}

// Neg returns -m.
func (m MontgomeryPoint) Neg() MontgomeryPoint {
	var r MontgomeryPoint
	r.U.Set(&m.U)
	r.V.Neg(&m.V)
	return r
}

// IsOnCurve reports whether m satisfies B·v² = u³ + A·u² + u.
func (m *MontgomeryPoint) IsOnCurve() bool {
	var lhs, rhs, u2 fr.Element
	lhs.Square(&m.V).Mul(&lhs, &montB)
	u2.Square(&m.U)
	rhs.Mul(&u2, &m.U)
	u2.Mul(&u2, &montA)
	rhs.Add(&rhs, &u2).Add(&rhs, &m.U)
	return lhs.Equal(&rhs)
}
