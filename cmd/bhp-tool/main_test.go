package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/types"
)

var smallParams = []string{"--bhp.windows=2", "--bhp.windowsize=3", "--bhp.domain=cli-test", "--log.level=error"}

func runJSON(c *qt.C, name string, args []string, out any) {
	var buf bytes.Buffer
	c.Assert(run(name, append(append([]string{}, smallParams...), args...), &buf), qt.IsNil)
	c.Assert(json.Unmarshal(buf.Bytes(), out), qt.IsNil, qt.Commentf("%s", buf.String()))
}

func nativeHasher(c *qt.C) *bhp.Hasher {
	table, err := bhp.Derive(bhp.Parameters{NumWindows: 2, WindowSize: 3}, "cli-test")
	c.Assert(err, qt.IsNil)
	return bhp.NewHasher(table)
}

func TestHashCommand(t *testing.T) {
	c := qt.New(t)
	var got output
	runJSON(c, "hash", []string{"--store.backend=none", "--input=101001110"}, &got)
	c.Assert(got.Params, qt.Equals, "2x3")
	c.Assert(got.Input.String(), qt.Equals, "101001110")

	want, err := nativeHasher(c).Hash(got.Input)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Hash.Equal(types.FromElement(&want)), qt.IsTrue)
	c.Assert(got.Point.Affine().X.Equal(&want), qt.IsTrue)
}

func TestCommitCommand(t *testing.T) {
	c := qt.New(t)
	var got output
	dir := filepath.Join(t.TempDir(), "db")
	runJSON(c, "commit", []string{"--store.datadir=" + dir, "--input=0xab", "--pad", "--randomizer=0x2a"}, &got)
	c.Assert(got.Input, qt.HasLen, 9)
	c.Assert(got.Randomizer.MathBigInt().Int64(), qt.Equals, int64(42))

	want, err := nativeHasher(c).Commit(got.Input, big.NewInt(42))
	c.Assert(err, qt.IsNil)
	c.Assert(got.Hash.Equal(types.FromElement(&want)), qt.IsTrue)

	// The table was stored on the first run.
	var tables []map[string]any
	runJSON(c, "tables", []string{"--store.datadir=" + dir}, &tables)
	c.Assert(tables, qt.HasLen, 1)
	c.Assert(tables[0]["domain"], qt.Equals, "cli-test")
}

func TestStatsCommand(t *testing.T) {
	c := qt.New(t)
	var got statsOutput
	runJSON(c, "stats", []string{"--store.backend=inmem", "--op=hash", "--mode=constant"}, &got)
	c.Assert(got.Bits, qt.Equals, 18)
	c.Assert(got.Cost.Constraints, qt.Equals, 0)

	runJSON(c, "stats", []string{"--store.backend=inmem", "--op=commit", "--mode=public", "--bits=9"}, &got)
	c.Assert(got.Bits, qt.Equals, 9)
	c.Assert(got.Cost.Constraints > 0, qt.IsTrue)
	c.Assert(got.Cost.Public, qt.Equals, 0)
}

func TestCommandErrors(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(run("nope", nil, &buf), qt.ErrorMatches, `unknown command "nope"`)

	args := append(append([]string{}, smallParams...), "--store.backend=none")
	c.Assert(run("hash", append(args, "--input=1010"), &buf), qt.ErrorMatches, `.*input of 4 bits.*`)
	c.Assert(run("hash", append(args, "--input=0xzz"), &buf), qt.ErrorMatches, `invalid hex string.*`)
	c.Assert(run("commit", append(args, "--input=101", "--randomizer=x"), &buf), qt.ErrorMatches, `randomizer: invalid number "x"`)
	c.Assert(run("stats", append(args, "--mode=secret"), &buf), qt.ErrorMatches, `unknown mode "secret"`)
	c.Assert(run("tables", args, &buf), qt.ErrorMatches, `no base table store configured`)
	c.Assert(run("hash", append(args, "--bhp.windowsize=99"), &buf), qt.ErrorMatches, `invalid configuration: .*`)
}

func TestParseInput(t *testing.T) {
	c := qt.New(t)
	bits, err := parseInput("0x01", false)
	c.Assert(err, qt.IsNil)
	c.Assert(bits.String(), qt.Equals, "10000000")
	bits, err = parseInput("0x01", true)
	c.Assert(err, qt.IsNil)
	c.Assert(bits.String(), qt.Equals, "100000000")
	bits, err = parseInput("", true)
	c.Assert(err, qt.IsNil)
	c.Assert(bits, qt.HasLen, 0)
	c.Assert(randomBits(11), qt.HasLen, 11)
}
