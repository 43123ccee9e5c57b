package bls12377te

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	qt "github.com/frankban/quicktest"
)

func multiple(k int64) twistededwards.PointAffine {
	p := Params()
	return ScalarMult(&p.Base, big.NewInt(k))
}

func TestMontgomeryCoefficients(t *testing.T) {
	c := qt.New(t)
	a, b := MontgomeryA(), MontgomeryB()
	c.Assert(a.String(), qt.Equals, "3990301581132929505568273333084066329187552697088022219156688740916631500114")
	c.Assert(b.String(), qt.Equals, "4454160168295440918680551605697480202188346638066041608778544715000777738925")
}

func TestMontgomeryRoundTrip(t *testing.T) {
	c := qt.New(t)
	for k := int64(1); k < 20; k++ {
		p := multiple(k)
		m, err := ToMontgomery(&p)
		c.Assert(err, qt.IsNil)
		c.Assert(m.IsOnCurve(), qt.IsTrue)
		back, err := FromMontgomery(&m)
		c.Assert(err, qt.IsNil)
		c.Assert(back.Equal(&p), qt.IsTrue)

		var neg twistededwards.PointAffine
		neg.Neg(&p)
		mn, err := ToMontgomery(&neg)
		c.Assert(err, qt.IsNil)
		c.Assert(mn, qt.Equals, m.Neg())
	}

	identity := Identity()
	_, err := ToMontgomery(&identity)
	c.Assert(errors.Is(err, ErrNotMappable), qt.IsTrue)
}

func TestMontgomeryAdd(t *testing.T) {
	c := qt.New(t)
	for k := int64(1); k < 10; k++ {
		p, q := multiple(k), multiple(3*k+1)
		mp, err := ToMontgomery(&p)
		c.Assert(err, qt.IsNil)
		mq, err := ToMontgomery(&q)
		c.Assert(err, qt.IsNil)
		sum, err := MontgomeryAdd(&mp, &mq)
		c.Assert(err, qt.IsNil)
		got, err := FromMontgomery(&sum)
		c.Assert(err, qt.IsNil)
		want := multiple(4*k + 1)
		c.Assert(got.Equal(&want), qt.IsTrue)
	}

	p := multiple(5)
	mp, err := ToMontgomery(&p)
	c.Assert(err, qt.IsNil)
	_, err = MontgomeryAdd(&mp, &mp)
	c.Assert(errors.Is(err, ErrIncompleteAdd), qt.IsTrue)
	neg := mp.Neg()
	_, err = MontgomeryAdd(&mp, &neg)
	c.Assert(errors.Is(err, ErrIncompleteAdd), qt.IsTrue)
}

func TestMulSmall(t *testing.T) {
	c := qt.New(t)
	g := multiple(1)
	for k := -4; k <= 4; k++ {
		got := MulSmall(&g, k)
		want := ScalarMult(&g, big.NewInt(int64(k)).Mod(big.NewInt(int64(k)), Order()))
		c.Assert(got.Equal(&want), qt.IsTrue, qt.Commentf("k=%d", k))
	}
}

func TestHashToCurve(t *testing.T) {
	c := qt.New(t)
	p1, n1, err := HashToCurve([]byte("BHP.1.1.test.0"), 256)
	c.Assert(err, qt.IsNil)
	c.Assert(n1 >= 1, qt.IsTrue)
	c.Assert(IsIdentity(&p1), qt.IsFalse)
	c.Assert(IsInSubgroup(&p1), qt.IsTrue)

	p2, n2, err := HashToCurve([]byte("BHP.1.1.test.0"), 256)
	c.Assert(err, qt.IsNil)
	c.Assert(n2, qt.Equals, n1)
	c.Assert(p2.Equal(&p1), qt.IsTrue)

	p3, _, err := HashToCurve([]byte("BHP.1.1.test.1"), 256)
	c.Assert(err, qt.IsNil)
	c.Assert(p3.Equal(&p1), qt.IsFalse)

	_, n, err := HashToCurve([]byte("BHP.1.1.test.0"), 0)
	c.Assert(errors.Is(err, ErrHashToCurveExhausted), qt.IsTrue)
	c.Assert(n, qt.Equals, 0)
}

func TestSubgroup(t *testing.T) {
	c := qt.New(t)
	g := multiple(7)
	c.Assert(IsInSubgroup(&g), qt.IsTrue)

	// (0, -1) has order two and is cleared by the cofactor.
	var t2 twistededwards.PointAffine
	t2.Y.SetOne()
	t2.Y.Neg(&t2.Y)
	c.Assert(t2.IsOnCurve(), qt.IsTrue)
	c.Assert(IsInSubgroup(&t2), qt.IsFalse)
	cleared := ClearCofactor(&t2)
	c.Assert(IsIdentity(&cleared), qt.IsTrue)
	c.Assert(NewPoint(&t2).Validate(), qt.ErrorIs, ErrInvalidPoint)
}

func TestPointJSON(t *testing.T) {
	c := qt.New(t)
	g := multiple(3)
	data, err := json.Marshal(NewPoint(&g))
	c.Assert(err, qt.IsNil)
	x, y := Coordinates(&g)
	c.Assert(string(data), qt.Equals, `["`+x.String()+`","`+y.String()+`"]`)

	var p Point
	c.Assert(json.Unmarshal(data, &p), qt.IsNil)
	c.Assert(p.Affine().Equal(&g), qt.IsTrue)
	c.Assert(json.Unmarshal([]byte(`["1"]`), &p), qt.ErrorMatches, "expected 2 coordinates, got 1")
}
