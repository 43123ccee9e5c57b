package bhp

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMaxWindowSize(t *testing.T) {
	qt.Assert(t, MaxWindowSize, qt.Equals, 62)
}

func TestParametersValidate(t *testing.T) {
	c := qt.New(t)
	for _, p := range []Parameters{Params8x32, Params16x32, Params24x62, Params32x48, Params33x48, Params48x50, {1, 1}} {
		c.Assert(p.Validate(), qt.IsNil, qt.Commentf("params %s", p))
	}
	for _, p := range []Parameters{{0, 1}, {1, 0}, {4, 63}, {-1, 8}} {
		c.Assert(errors.Is(p.Validate(), ErrInvalidParameters), qt.IsTrue, qt.Commentf("params %s", p))
	}
}

func TestCheckInputLength(t *testing.T) {
	c := qt.New(t)
	p := Params32x48
	c.Assert(p.MaxBits(), qt.Equals, 4608)
	c.Assert(p.CheckInputLength(0), qt.IsNil)
	c.Assert(p.CheckInputLength(3), qt.IsNil)
	c.Assert(p.CheckInputLength(4608), qt.IsNil)

	for _, n := range []int{1, 2, 4607, 4609, 4611} {
		err := p.CheckInputLength(n)
		c.Assert(errors.Is(err, ErrInputLength), qt.IsTrue, qt.Commentf("length %d", n))
		var lerr *InputLengthError
		c.Assert(errors.As(err, &lerr), qt.IsTrue)
		c.Assert(lerr.Length, qt.Equals, n)
		c.Assert(lerr.Max, qt.Equals, 4608)
	}
}

func TestParseParameters(t *testing.T) {
	c := qt.New(t)
	p, err := ParseParameters(Params32x48.String())
	c.Assert(err, qt.IsNil)
	c.Assert(p, qt.Equals, Params32x48)

	for _, s := range []string{"", "32", "32x", "x48", "32x63", "0x1", "ax4"} {
		_, err := ParseParameters(s)
		c.Assert(err, qt.ErrorIs, ErrInvalidParameters, qt.Commentf("%q", s))
	}
}
