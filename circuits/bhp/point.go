package bhp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	gtwistededwards "github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
)

// montPoint is a Montgomery form point whose coordinates may be circuit
// constants, linear expressions or wires.
type montPoint struct {
	U, V frontend.Variable
}

var (
	montA = bls12377te.MontgomeryA()
	montB = bls12377te.MontgomeryB()
)

func bigOf(e *fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}

func constMont(m *bls12377te.MontgomeryPoint) montPoint {
	return montPoint{U: bigOf(&m.U), V: bigOf(&m.V)}
}

func constEdwards(p *gtwistededwards.PointAffine) twistededwards.Point {
	return twistededwards.Point{X: bigOf(&p.X), Y: bigOf(&p.Y)}
}

func identity() twistededwards.Point {
	return twistededwards.Point{X: 0, Y: 1}
}

// constantOf reports the value of v when it is known at compile time.
func constantOf(api frontend.API, v frontend.Variable) (fr.Element, bool) {
	var e fr.Element
	b, ok := api.Compiler().ConstantValue(v)
	if !ok {
		return e, false
	}
	e.SetBigInt(b)
	return e, true
}

func montConstant(api frontend.API, p montPoint) (bls12377te.MontgomeryPoint, bool) {
	var m bls12377te.MontgomeryPoint
	var ok bool
	if m.U, ok = constantOf(api, p.U); !ok {
		return m, false
	}
	m.V, ok = constantOf(api, p.V)
	return m, ok
}

func edwardsConstant(api frontend.API, p twistededwards.Point) (gtwistededwards.PointAffine, bool) {
	var q gtwistededwards.PointAffine
	var ok bool
	if q.X, ok = constantOf(api, p.X); !ok {
		return q, false
	}
	q.Y, ok = constantOf(api, p.Y)
	return q, ok
}

// montAdd adds two Montgomery points with the incomplete chord formula. The
// caller guarantees p ≠ ±q. Constant operands are folded natively.
func montAdd(api frontend.API, p, q montPoint) (montPoint, error) {
	if cp, ok := montConstant(api, p); ok {
		if cq, ok := montConstant(api, q); ok {
			r, err := bls12377te.MontgomeryAdd(&cp, &cq)
			if err != nil {
				return montPoint{}, err
			}
			return constMont(&r), nil
		}
	}
	lambda := api.DivUnchecked(api.Sub(q.V, p.V), api.Sub(q.U, p.U))
	// u3 = B·λ² - A - u1 - u2
	u := api.Sub(api.Mul(bigOf(&montB), lambda, lambda), bigOf(&montA), p.U, q.U)
	// v3 = λ·(u1 - u3) - v1
	v := api.Sub(api.Mul(lambda, api.Sub(p.U, u)), p.V)
	return montPoint{U: u, V: v}, nil
}

// toEdwards maps a Montgomery point to Edwards form, x = u/v and
// y = (u-1)/(u+1).
func toEdwards(api frontend.API, p montPoint) (twistededwards.Point, error) {
	if cp, ok := montConstant(api, p); ok {
		e, err := bls12377te.FromMontgomery(&cp)
		if err != nil {
			return twistededwards.Point{}, err
		}
		return constEdwards(&e), nil
	}
	return twistededwards.Point{
		X: api.DivUnchecked(p.U, p.V),
		Y: api.DivUnchecked(api.Sub(p.U, 1), api.Add(p.U, 1)),
	}, nil
}

// addEdwards adds two Edwards points with the complete formula, skipping
// constant identities and folding constant operands natively.
func addEdwards(api frontend.API, curve twistededwards.Curve, p, q twistededwards.Point) twistededwards.Point {
	cp, pConst := edwardsConstant(api, p)
	cq, qConst := edwardsConstant(api, q)
	switch {
	case pConst && qConst:
		var r gtwistededwards.PointAffine
		r.Add(&cp, &cq)
		return constEdwards(&r)
	case pConst && bls12377te.IsIdentity(&cp):
		return q
	case qConst && bls12377te.IsIdentity(&cq):
		return p
	}
	return curve.Add(p, q)
}
