package bhp

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
)

const (
	// ChunkSize is the number of input bits consumed by one table lookup.
	ChunkSize = 3
	// MaxHashToCurveAttempts bounds the try-and-increment loop of every
	// generator derivation.
	MaxHashToCurveAttempts = 256
)

// MaxWindowSize is the largest number of chunks per window for which every
// window sum Σ c_j·16^j (c_j ∈ ±{1..4}) stays below half the subgroup order.
// It keeps window sums injective and every partial sum distinct from ± the
// next term, which the in-window incomplete addition relies on.
var MaxWindowSize = maxWindowSize(bls12377te.Order())

// Parameterizations used by the network profiles.
var (
	Params8x32  = Parameters{NumWindows: 8, WindowSize: 32}
	Params16x32 = Parameters{NumWindows: 16, WindowSize: 32}
	Params24x62 = Parameters{NumWindows: 24, WindowSize: 62}
	Params32x48 = Parameters{NumWindows: 32, WindowSize: 48}
	Params33x48 = Parameters{NumWindows: 33, WindowSize: 48}
	Params48x50 = Parameters{NumWindows: 48, WindowSize: 50}
)

// Parameters describes the shape of a base table.
type Parameters struct {
	NumWindows int `mapstructure:"windows" json:"windows"`
	WindowSize int `mapstructure:"windowSize" json:"windowSize"`
}

// NumChunks returns the number of chunk bases.
func (p Parameters) NumChunks() int {
	return p.NumWindows * p.WindowSize
}

// MaxBits returns the longest accepted input, in bits.
func (p Parameters) MaxBits() int {
	return p.NumChunks() * ChunkSize
}

// Validate checks the parameters are usable.
func (p Parameters) Validate() error {
	if p.NumWindows < 1 {
		return fmt.Errorf("%w: %d windows", ErrInvalidParameters, p.NumWindows)
	}
	if p.WindowSize < 1 || p.WindowSize > MaxWindowSize {
		return fmt.Errorf("%w: window size %d not in [1, %d]",
			ErrInvalidParameters, p.WindowSize, MaxWindowSize)
	}
	return nil
}

// CheckInputLength returns an InputLengthError unless n is a multiple of
// ChunkSize no larger than MaxBits.
func (p Parameters) CheckInputLength(n int) error {
	if n%ChunkSize != 0 || n > p.MaxBits() {
		return &InputLengthError{Length: n, Max: p.MaxBits()}
	}
	return nil
}

func (p Parameters) String() string {
	return fmt.Sprintf("%dx%d", p.NumWindows, p.WindowSize)
}

// ParseParameters parses the "<windows>x<window size>" form printed by
// String and validates the result.
func ParseParameters(s string) (Parameters, error) {
	nw, ws, ok := strings.Cut(s, "x")
	if !ok {
		return Parameters{}, fmt.Errorf("%w: %q is not <windows>x<window size>", ErrInvalidParameters, s)
	}
	var p Parameters
	var err error
	if p.NumWindows, err = strconv.Atoi(nw); err != nil {
		return Parameters{}, fmt.Errorf("%w: windows %q", ErrInvalidParameters, nw)
	}
	if p.WindowSize, err = strconv.Atoi(ws); err != nil {
		return Parameters{}, fmt.Errorf("%w: window size %q", ErrInvalidParameters, ws)
	}
	return p, p.Validate()
}

func maxWindowSize(order *big.Int) int {
	half := new(big.Int).Rsh(new(big.Int).Sub(order, big.NewInt(1)), 1)
	sixteen := big.NewInt(16)
	pow := big.NewInt(16)
	fifteen := big.NewInt(15)
	for w := 1; ; w++ {
		// 4·(16^w - 1)/15
		bound := new(big.Int).Sub(pow, big.NewInt(1))
		bound.Lsh(bound, 2).Quo(bound, fifteen)
		if bound.Cmp(half) >= 0 {
			return w - 1
		}
		pow.Mul(pow, sixteen)
	}
}
