package bls12377te

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"golang.org/x/crypto/blake2s"
)

// ErrHashToCurveExhausted is returned when no attempt produced a valid point.
var ErrHashToCurveExhausted = errors.New("hash to curve: attempts exhausted")

// candidateSize is the Blake2Xs output consumed per attempt: a y-coordinate
// and a sign byte.
const candidateSize = fr.Bytes + 1

// HashToCurve maps msg to a point of the prime order subgroup with
// try-and-increment over Blake2Xs. It returns the point and the number of
// attempts consumed; the result never is the identity.
func HashToCurve(msg []byte, maxAttempts int) (twistededwards.PointAffine, int, error) {
	for attempt := range maxAttempts {
		buf, err := blake2xs(msg, uint32(attempt))
		if err != nil {
			return twistededwards.PointAffine{}, attempt + 1, err
		}
		p, ok := pointFromCandidate(buf)
		if !ok {
			continue
		}
		q := ClearCofactor(&p)
		if IsIdentity(&q) || !IsInSubgroup(&q) {
			continue
		}
		return q, attempt + 1, nil
	}
	return twistededwards.PointAffine{}, maxAttempts, ErrHashToCurveExhausted
}

func blake2xs(msg []byte, counter uint32) ([]byte, error) {
	xof, err := blake2s.NewXOF(candidateSize, nil)
	if err != nil {
		return nil, fmt.Errorf("blake2xs: %w", err)
	}
	if _, err := xof.Write(msg); err != nil {
		return nil, err
	}
	var ctr [4]byte
	binary.LittleEndian.PutUint32(ctr[:], counter)
	if _, err := xof.Write(ctr[:]); err != nil {
		return nil, err
	}
	out := make([]byte, candidateSize)
	if _, err := xof.Read(out); err != nil {
		return nil, fmt.Errorf("blake2xs: %w", err)
	}
	return out, nil
}

// pointFromCandidate recovers x from y on a·x² + y² = 1 + d·x²·y², so
// x² = (1 - y²) / (a - d·y²), and picks the root with the requested sign.
func pointFromCandidate(buf []byte) (twistededwards.PointAffine, bool) {
	var p twistededwards.PointAffine
	p.Y.SetBytes(buf[:fr.Bytes])

	var y2, num, den, one fr.Element
	one.SetOne()
	y2.Square(&p.Y)
	num.Sub(&one, &y2)
	den.Mul(&params.D, &y2)
	den.Sub(&params.A, &den)
	if den.IsZero() {
		return p, false
	}
	num.Div(&num, &den)
	if p.X.Sqrt(&num) == nil {
		return p, false
	}
	if (buf[fr.Bytes]&1 == 1) != p.X.LexicographicallyLargest() {
		p.X.Neg(&p.X)
	}
	return p, p.IsOnCurve()
}
