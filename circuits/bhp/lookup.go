package bhp

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark/frontend"
	nativebhp "github.com/vocdoni/gnark-bhp/crypto/bhp"
)

// lookup returns ChunkTable[b0|b1<<1|b2<<2]·B_{w,j} in Montgomery form. The
// magnitude is a bilinear interpolation of the four precomputed multiples,
// which needs the product b0·b1, and b2 negates the v-coordinate: two
// constraints for secret bits, none for constant ones.
func (h *Hasher) lookup(api frontend.API, w, j int, b0, b1, b2 frontend.Variable) montPoint {
	entries := h.table.MontgomeryLookup(w, j)

	c0, ok0 := api.Compiler().ConstantValue(b0)
	c1, ok1 := api.Compiler().ConstantValue(b1)
	c2, ok2 := api.Compiler().ConstantValue(b2)
	if ok0 && ok1 && ok2 {
		idx := nativebhp.ChunkIndex(c0.Sign() != 0, c1.Sign() != 0, c2.Sign() != 0)
		m := entries[idx&^nativebhp.SignBit]
		if nativebhp.ChunkTable[idx] < 0 {
			m = m.Neg()
		}
		return constMont(&m)
	}

	// f(b0, b1) = e0 + b0·(e1-e0) + b1·(e2-e0) + b0·b1·(e3-e2-e1+e0)
	interp := func(e0, e1, e2, e3 *fr.Element) (d0, d1, d2, d3 fr.Element) {
		d0.Set(e0)
		d1.Sub(e1, e0)
		d2.Sub(e2, e0)
		d3.Sub(e3, e2).Sub(&d3, e1).Add(&d3, e0)
		return
	}
	b0b1 := api.Mul(b0, b1)
	u0, u1, u2, u3 := interp(&entries[0].U, &entries[1].U, &entries[2].U, &entries[3].U)
	v0, v1, v2, v3 := interp(&entries[0].V, &entries[1].V, &entries[2].V, &entries[3].V)
	u := api.Add(bigOf(&u0), api.Mul(b0, bigOf(&u1)), api.Mul(b1, bigOf(&u2)), api.Mul(b0b1, bigOf(&u3)))
	v := api.Add(bigOf(&v0), api.Mul(b0, bigOf(&v1)), api.Mul(b1, bigOf(&v2)), api.Mul(b0b1, bigOf(&v3)))

	// The sign bit maps to the factor 1 - 2·b2.
	sign := api.Sub(1, api.Mul(2, b2))
	return montPoint{U: u, V: api.Mul(v, sign)}
}
