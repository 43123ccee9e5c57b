package bhp

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrSetup is matched by every SetupError.
	ErrSetup = errors.New("bhp: setup failed")
	// ErrInputLength is matched by every InputLengthError.
	ErrInputLength = errors.New("bhp: invalid input length")
	// ErrParameterMismatch is matched by every ParameterMismatchError.
	ErrParameterMismatch = errors.New("bhp: parameter mismatch")
	// ErrRandomizer is matched by every RandomizerError.
	ErrRandomizer = errors.New("bhp: randomizer out of range")
	// ErrInvalidParameters is returned for malformed Parameters.
	ErrInvalidParameters = errors.New("bhp: invalid parameters")
	// ErrRelatedBase flags a generator equal, up to sign, to another one.
	ErrRelatedBase = errors.New("related base")
	// ErrForeignBase flags a stored generator that is not the hash to curve
	// of its domain message.
	ErrForeignBase = errors.New("base not derived from the domain")
	// ErrTableNotFound is returned by a TableStore without a stored table.
	ErrTableNotFound = errors.New("bhp: base table not found")
)

// RandomizerIndex is the SetupError window index of the randomizer base.
const RandomizerIndex = -1

// SetupError reports a failed or degenerate generator derivation. It is
// fatal: the table must not be used.
type SetupError struct {
	Domain   string
	Window   int
	Attempts int
	Err      error
}

func (e *SetupError) Error() string {
	what := fmt.Sprintf("window %d", e.Window)
	if e.Window == RandomizerIndex {
		what = "randomizer base"
	}
	if e.Attempts > 0 {
		return fmt.Sprintf("bhp: setup %q %s after %d attempts: %v", e.Domain, what, e.Attempts, e.Err)
	}
	return fmt.Sprintf("bhp: setup %q %s: %v", e.Domain, what, e.Err)
}

func (e *SetupError) Is(target error) bool { return target == ErrSetup }

func (e *SetupError) Unwrap() error { return e.Err }

// InputLengthError reports an input that is not a multiple of ChunkSize or
// longer than the parameterization allows.
type InputLengthError struct {
	Length int
	Max    int
}

func (e *InputLengthError) Error() string {
	return fmt.Sprintf("bhp: input of %d bits must be a multiple of %d and at most %d bits",
		e.Length, ChunkSize, e.Max)
}

func (e *InputLengthError) Is(target error) bool { return target == ErrInputLength }

// ParameterMismatchError reports a base table built for other parameters.
type ParameterMismatchError struct {
	Expected Parameters
	Got      Parameters
}

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("bhp: base table built for %s, expected %s", e.Got, e.Expected)
}

func (e *ParameterMismatchError) Is(target error) bool { return target == ErrParameterMismatch }

// RandomizerError reports a commitment randomizer outside [0, order).
type RandomizerError struct {
	Value *big.Int
}

func (e *RandomizerError) Error() string {
	return fmt.Sprintf("bhp: randomizer %v not in [0, order)", e.Value)
}

func (e *RandomizerError) Is(target error) bool { return target == ErrRandomizer }
