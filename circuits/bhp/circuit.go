package bhp

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Field is the native field of the circuits, the base field of the curve.
var Field = ecc.BLS12_377.ScalarField()

// Mode selects how the inputs of a Circuit are allocated.
type Mode int

const (
	// Constant inputs are compile-time values.
	Constant Mode = iota
	// Public inputs are public wires.
	Public
	// Private inputs are secret wires.
	Private
)

// Modes lists every allocation mode.
var Modes = []Mode{Constant, Public, Private}

func (m Mode) String() string {
	switch m {
	case Constant:
		return "constant"
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses the name of a mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Op selects the operation evaluated by a Circuit.
type Op int

const (
	OpHash Op = iota
	OpCommit
)

func (o Op) String() string {
	if o == OpCommit {
		return "commit"
	}
	return "hash"
}

// ParseOp parses the name of an operation.
func ParseOp(s string) (Op, error) {
	for _, o := range []Op{OpHash, OpCommit} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// Inputs are the native values fed to a Circuit.
type Inputs struct {
	Bits       []bool
	Randomizer *big.Int
}

// Circuit evaluates the hash or the commitment of its inputs. Exactly one of
// the bit slices is populated, according to the Mode; the randomizer is
// used by OpCommit only. When Expected holds a value the output is asserted
// equal to it.
type Circuit struct {
	PublicBits        []frontend.Variable `gnark:",public"`
	PrivateBits       []frontend.Variable
	PublicRandomizer  []frontend.Variable `gnark:",public"`
	PrivateRandomizer []frontend.Variable
	Expected          []frontend.Variable `gnark:",public"`

	ConstantBits       []frontend.Variable `gnark:"-"`
	ConstantRandomizer frontend.Variable   `gnark:"-"`

	// Output is set by Define when the result is a compile-time constant.
	Output *big.Int `gnark:"-"`

	hasher   *Hasher
	op       Op
	baseline bool
}

// NewCircuit returns a circuit evaluating op over in, allocated in mode. It
// serves both as the compile placeholder and as the witness assignment.
func NewCircuit(h *Hasher, op Op, mode Mode, in Inputs) *Circuit {
	c := &Circuit{hasher: h, op: op}
	bits := make([]frontend.Variable, len(in.Bits))
	for i, b := range in.Bits {
		if b {
			bits[i] = 1
		} else {
			bits[i] = 0
		}
	}
	var r []frontend.Variable
	if op == OpCommit && in.Randomizer != nil {
		r = []frontend.Variable{new(big.Int).Set(in.Randomizer)}
	}
	switch mode {
	case Constant:
		c.ConstantBits = bits
		c.ConstantRandomizer = first(r)
	case Public:
		c.PublicBits, c.PublicRandomizer = bits, r
	case Private:
		c.PrivateBits, c.PrivateRandomizer = bits, r
	}
	return c
}

// WithExpected asserts the output equals expected.
func (c *Circuit) WithExpected(expected *big.Int) *Circuit {
	c.Expected = []frontend.Variable{expected}
	return c
}

// Baseline returns a copy allocating the same inputs without evaluating the
// gadget, used to isolate its cost.
func (c *Circuit) Baseline() *Circuit {
	b := *c
	b.Expected = nil
	b.baseline = true
	return &b
}

func (c *Circuit) inputs() ([]frontend.Variable, frontend.Variable) {
	switch {
	case len(c.PublicBits) > 0 || len(c.PublicRandomizer) > 0:
		return c.PublicBits, first(c.PublicRandomizer)
	case len(c.PrivateBits) > 0 || len(c.PrivateRandomizer) > 0:
		return c.PrivateBits, first(c.PrivateRandomizer)
	default:
		return c.ConstantBits, c.ConstantRandomizer
	}
}

func first(v []frontend.Variable) frontend.Variable {
	if len(v) == 0 {
		return nil
	}
	return v[0]
}

// Define declares the circuit constraints.
func (c *Circuit) Define(api frontend.API) error {
	bits, r := c.inputs()
	// Allocated input bits are boolean, in the baseline too.
	for _, b := range bits {
		if _, ok := api.Compiler().ConstantValue(b); !ok {
			api.AssertIsBoolean(b)
		}
	}
	if c.baseline {
		return nil
	}
	var out frontend.Variable
	var err error
	switch c.op {
	case OpCommit:
		if r == nil {
			return fmt.Errorf("commit circuit without randomizer")
		}
		out, err = c.hasher.Commit(api, bits, r)
	default:
		out, err = c.hasher.Hash(api, bits)
	}
	if err != nil {
		return err
	}
	if v, ok := api.Compiler().ConstantValue(out); ok {
		c.Output = v
	}
	for _, e := range c.Expected {
		api.AssertIsEqual(out, e)
	}
	return nil
}

// Compile compiles c to R1CS over Field.
func Compile(c *Circuit, opts ...frontend.CompileOption) (constraint.ConstraintSystem, error) {
	return frontend.Compile(Field, r1cs.NewBuilder, c, opts...)
}

// Stats are the size figures of a constraint system.
type Stats struct {
	Constraints int `json:"constraints"`
	Internal    int `json:"internal"`
	Public      int `json:"public"`
	Secret      int `json:"secret"`
}

// StatsOf returns the size figures of ccs.
func StatsOf(ccs constraint.ConstraintSystem) Stats {
	return Stats{
		Constraints: ccs.GetNbConstraints(),
		Internal:    ccs.GetNbInternalVariables(),
		Public:      ccs.GetNbPublicVariables(),
		Secret:      ccs.GetNbSecretVariables(),
	}
}

// Sub returns s - o.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Constraints: s.Constraints - o.Constraints,
		Internal:    s.Internal - o.Internal,
		Public:      s.Public - o.Public,
		Secret:      s.Secret - o.Secret,
	}
}

// Measure returns the cost of the gadget alone for op over in allocated in
// mode: the circuit is compiled with and without the gadget and the input
// allocation cost is subtracted.
func Measure(h *Hasher, op Op, mode Mode, in Inputs) (Stats, error) {
	c := NewCircuit(h, op, mode, in)
	full, err := Compile(c)
	if err != nil {
		return Stats{}, fmt.Errorf("compile %s circuit: %w", op, err)
	}
	// The baseline leaves the randomizer unconstrained.
	base, err := Compile(c.Baseline(), frontend.IgnoreUnconstrainedInputs())
	if err != nil {
		return Stats{}, fmt.Errorf("compile baseline circuit: %w", err)
	}
	return StatsOf(full).Sub(StatsOf(base)), nil
}
