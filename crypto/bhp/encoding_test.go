package bhp

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestChunkTable(t *testing.T) {
	c := qt.New(t)
	c.Assert(checkChunkTable(), qt.IsNil)

	c.Assert(EncodeChunk(false, false, false), qt.Equals, 1)
	c.Assert(EncodeChunk(true, false, false), qt.Equals, 2)
	c.Assert(EncodeChunk(false, true, false), qt.Equals, 3)
	c.Assert(EncodeChunk(true, true, false), qt.Equals, 4)
	c.Assert(EncodeChunk(false, false, true), qt.Equals, -1)
	c.Assert(EncodeChunk(true, true, true), qt.Equals, -4)

	// Every chunk maps to a distinct value.
	seen := map[int]bool{}
	for i := range 8 {
		v := EncodeChunk(i&1 == 1, i&2 == 2, i&4 == 4)
		c.Assert(seen[v], qt.IsFalse)
		seen[v] = true
	}
}

func TestChunkTableBroken(t *testing.T) {
	c := qt.New(t)
	saved := ChunkTable
	defer func() { ChunkTable = saved }()

	ChunkTable[5] = 2
	c.Assert(checkChunkTable(), qt.ErrorMatches, `.*not sign symmetric`)
	ChunkTable = saved
	ChunkTable[3] = 0
	c.Assert(checkChunkTable(), qt.ErrorMatches, `.*zero or repeated`)
}

func TestBytesToBits(t *testing.T) {
	c := qt.New(t)
	bits := BytesToBits([]byte{0x01, 0x80})
	c.Assert(bits, qt.HasLen, 16)
	c.Assert(bits[0], qt.IsTrue)
	c.Assert(bits[7], qt.IsFalse)
	c.Assert(bits[8], qt.IsFalse)
	c.Assert(bits[15], qt.IsTrue)
}
