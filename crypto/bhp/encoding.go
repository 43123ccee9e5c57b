package bhp

import "fmt"

// ChunkTable maps a chunk, indexed by b0 | b1<<1 | b2<<2, to its signed
// multiplier: the low bits select a magnitude in 1..4 and b2 the sign. The
// native evaluator and the circuit gadget both read it.
var ChunkTable = [1 << ChunkSize]int8{1, 2, 3, 4, -1, -2, -3, -4}

// SignBit is the chunk index bit that negates the multiplier.
const SignBit = 1 << (ChunkSize - 1)

func init() {
	if err := checkChunkTable(); err != nil {
		panic(err)
	}
}

// checkChunkTable verifies the shape both evaluators assume: nonzero
// distinct entries, positive without the sign bit and negated with it.
func checkChunkTable() error {
	seen := map[int8]bool{}
	for i, v := range ChunkTable {
		if v == 0 || seen[v] {
			return fmt.Errorf("bhp: chunk table entry %d (%d) is zero or repeated", i, v)
		}
		seen[v] = true
		if i < SignBit && (v < 0 || ChunkTable[i|SignBit] != -v) {
			return fmt.Errorf("bhp: chunk table entry %d (%d) is not sign symmetric", i, v)
		}
	}
	return nil
}

// ChunkIndex packs a chunk into its ChunkTable index.
func ChunkIndex(b0, b1, b2 bool) int {
	idx := 0
	if b0 {
		idx |= 1
	}
	if b1 {
		idx |= 2
	}
	if b2 {
		idx |= SignBit
	}
	return idx
}

// EncodeChunk returns the signed multiplier of a chunk.
func EncodeChunk(b0, b1, b2 bool) int {
	return int(ChunkTable[ChunkIndex(b0, b1, b2)])
}

// BytesToBits expands b into little-endian bits, least significant bit of
// each byte first.
func BytesToBits(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for _, v := range b {
		for i := range 8 {
			bits = append(bits, v>>i&1 == 1)
		}
	}
	return bits
}
