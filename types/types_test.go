package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
)

func TestBigMarshalUnmarshalJSON(t *testing.T) {
	c := qt.New(t)
	bi := (*BigInt)(big.NewInt(1234567890))
	bBigInt, err := json.Marshal(map[string]*BigInt{"bi": bi})
	c.Assert(err, qt.IsNil)
	c.Assert(string(bBigInt), qt.Equals, `{"bi":"1234567890"}`)

	var unmarshaled map[string]*BigInt
	c.Assert(json.Unmarshal(bBigInt, &unmarshaled), qt.IsNil)
	c.Assert(unmarshaled["bi"].Equal(bi), qt.IsTrue)

	var numeric BigInt
	c.Assert(json.Unmarshal([]byte(`123456789`), &numeric), qt.IsNil)
	c.Assert(numeric.String(), qt.Equals, "123456789")
}

func TestBigMarshalUnmarshalCBOR(t *testing.T) {
	c := qt.New(t)
	bi := (*BigInt)(big.NewInt(1234567890))
	bBigInt, err := cbor.Marshal(map[string]*BigInt{"bi": bi})
	c.Assert(err, qt.IsNil)

	var unmarshaled map[string]*BigInt
	c.Assert(cbor.Unmarshal(bBigInt, &unmarshaled), qt.IsNil)
	c.Assert(unmarshaled["bi"].Equal(bi), qt.IsTrue)
}

func TestParseBigInt(t *testing.T) {
	c := qt.New(t)
	for in, want := range map[string]int64{"42": 42, "0x2a": 42, "0": 0} {
		n, err := ParseBigInt(in)
		c.Assert(err, qt.IsNil)
		c.Assert(n.Equal(NewInt(want)), qt.IsTrue, qt.Commentf("%s", in))
	}
	_, err := ParseBigInt("4x2")
	c.Assert(err, qt.ErrorMatches, `invalid number "4x2"`)

	var e fr.Element
	e.SetInt64(-1)
	want := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	c.Assert(FromElement(&e).MathBigInt().Cmp(want), qt.Equals, 0)
}

func TestHexBytes(t *testing.T) {
	c := qt.New(t)
	hb := HexBytes{0xde, 0xad, 0xbe, 0xef}
	c.Assert(hb.String(), qt.Equals, "0xdeadbeef")
	b, err := json.Marshal(hb)
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, `"0xdeadbeef"`)

	var decoded HexBytes
	c.Assert(json.Unmarshal([]byte(`"0Xdeadbeef"`), &decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, hb)
	c.Assert(json.Unmarshal([]byte(`123`), &decoded), qt.ErrorMatches, `invalid JSON string: "123"`)

	got, err := HexStringToHexBytes("deadbeef")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, hb)
	_, err = HexStringToHexBytes("0xzz")
	c.Assert(err, qt.ErrorMatches, `invalid hex string "zz": .*`)
}

func TestBits(t *testing.T) {
	c := qt.New(t)
	bits, err := ParseBits("101_001")
	c.Assert(err, qt.IsNil)
	c.Assert(bits, qt.DeepEquals, Bits{true, false, true, false, false, true})
	c.Assert(bits.String(), qt.Equals, "101001")

	b, err := json.Marshal(bits)
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, `"101001"`)
	var decoded Bits
	c.Assert(json.Unmarshal(b, &decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, bits)

	_, err = ParseBits("10a")
	c.Assert(err, qt.ErrorMatches, `invalid bit 'a' at offset 2`)

	empty, err := ParseBits("")
	c.Assert(err, qt.IsNil)
	c.Assert(empty, qt.HasLen, 0)
}
