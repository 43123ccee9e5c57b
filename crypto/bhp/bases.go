package bhp

import (
	"fmt"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
	"github.com/vocdoni/gnark-bhp/log"
	"golang.org/x/sync/errgroup"
)

// lookupSize is the number of precomputed multiples per chunk base, one per
// unsigned ChunkTable entry.
const lookupSize = SignBit

// chunkShift is log2 of the spacing between consecutive chunk bases of a
// window: B_{w,j+1} = 16·B_{w,j}.
const chunkShift = 4

// BaseTable holds the generators of one parameterization and domain together
// with every multiple the evaluators read. It is immutable once built and
// safe for concurrent use.
type BaseTable struct {
	params     Parameters
	domain     string
	generators []twistededwards.PointAffine
	randomBase twistededwards.PointAffine

	bases        [][]twistededwards.PointAffine
	lookup       [][][lookupSize]twistededwards.PointAffine
	montLookup   [][][lookupSize]bls12377te.MontgomeryPoint
	randomPowers []twistededwards.PointAffine
}

// GeneratorMessage returns the hash-to-curve input of window w.
func GeneratorMessage(params Parameters, domain string, w int) []byte {
	return fmt.Appendf(nil, "BHP.%d.%d.%s.%d", params.NumWindows, params.WindowSize, domain, w)
}

// RandomizerMessage returns the hash-to-curve input of the randomizer base.
func RandomizerMessage(params Parameters, domain string) []byte {
	return fmt.Appendf(nil, "BHP.%d.%d.%s.Randomizer", params.NumWindows, params.WindowSize, domain)
}

// Derive deterministically builds the base table of params and domain. The
// windows are derived concurrently; the result does not depend on scheduling.
func Derive(params Parameters, domain string) (*BaseTable, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	generators, randomBase, err := deriveGenerators(params, domain)
	if err != nil {
		return nil, err
	}
	table, err := NewBaseTable(params, domain, generators, randomBase)
	if err != nil {
		return nil, err
	}
	log.Debugw("bhp base table derived",
		"params", params.String(),
		"domain", domain,
		"elapsed", time.Since(start).String())
	return table, nil
}

// deriveGenerators hashes the window and randomizer messages of params and
// domain to the curve.
func deriveGenerators(params Parameters, domain string) ([]twistededwards.PointAffine, twistededwards.PointAffine, error) {
	generators := make([]twistededwards.PointAffine, params.NumWindows)
	var randomBase twistededwards.PointAffine

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for w := range generators {
		g.Go(func() error {
			p, attempts, err := bls12377te.HashToCurve(GeneratorMessage(params, domain, w), MaxHashToCurveAttempts)
			if err != nil {
				return &SetupError{Domain: domain, Window: w, Attempts: attempts, Err: err}
			}
			generators[w] = p
			return nil
		})
	}
	g.Go(func() error {
		p, attempts, err := bls12377te.HashToCurve(RandomizerMessage(params, domain), MaxHashToCurveAttempts)
		if err != nil {
			return &SetupError{Domain: domain, Window: RandomizerIndex, Attempts: attempts, Err: err}
		}
		randomBase = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, twistededwards.PointAffine{}, err
	}
	return generators, randomBase, nil
}

// NewBaseTable validates the window generators and the randomizer base and
// expands them into a full table. Generators must be non identity subgroup
// points pairwise distinct up to sign.
func NewBaseTable(params Parameters, domain string, generators []twistededwards.PointAffine, randomBase twistededwards.PointAffine) (*BaseTable, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(generators) != params.NumWindows {
		return nil, &ParameterMismatchError{
			Expected: params,
			Got:      Parameters{NumWindows: len(generators), WindowSize: params.WindowSize},
		}
	}
	// P and -P share their y-coordinate.
	seen := make(map[fr.Element]int, len(generators)+1)
	check := func(idx int, p *twistededwards.PointAffine) error {
		if err := bls12377te.NewPoint(p).Validate(); err != nil {
			return &SetupError{Domain: domain, Window: idx, Err: err}
		}
		if prev, ok := seen[p.Y]; ok {
			return &SetupError{Domain: domain, Window: idx,
				Err: fmt.Errorf("%w: equals window %d up to sign", ErrRelatedBase, prev)}
		}
		seen[p.Y] = idx
		return nil
	}
	for w := range generators {
		if err := check(w, &generators[w]); err != nil {
			return nil, err
		}
	}
	if err := check(RandomizerIndex, &randomBase); err != nil {
		return nil, err
	}

	t := &BaseTable{
		params:       params,
		domain:       domain,
		generators:   append([]twistededwards.PointAffine(nil), generators...),
		randomBase:   randomBase,
		bases:        make([][]twistededwards.PointAffine, params.NumWindows),
		lookup:       make([][][lookupSize]twistededwards.PointAffine, params.NumWindows),
		montLookup:   make([][][lookupSize]bls12377te.MontgomeryPoint, params.NumWindows),
		randomPowers: make([]twistededwards.PointAffine, bls12377te.ScalarBits),
	}
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for w := range t.generators {
		g.Go(func() error {
			return t.expandWindow(w)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	pow := randomBase
	for i := range t.randomPowers {
		t.randomPowers[i] = pow
		pow.Double(&pow)
	}
	return t, nil
}

// expandWindow fills the chunk bases of window w and their multiples.
func (t *BaseTable) expandWindow(w int) error {
	ws := t.params.WindowSize
	t.bases[w] = make([]twistededwards.PointAffine, ws)
	t.lookup[w] = make([][lookupSize]twistededwards.PointAffine, ws)
	t.montLookup[w] = make([][lookupSize]bls12377te.MontgomeryPoint, ws)
	base := t.generators[w]
	for j := range ws {
		t.bases[w][j] = base
		for k := range lookupSize {
			t.lookup[w][j][k] = bls12377te.MulSmall(&base, int(ChunkTable[k]))
			m, err := bls12377te.ToMontgomery(&t.lookup[w][j][k])
			if err != nil {
				return &SetupError{Domain: t.domain, Window: w, Err: fmt.Errorf("chunk %d: %w", j, err)}
			}
			t.montLookup[w][j][k] = m
		}
		for range chunkShift {
			base.Double(&base)
		}
	}
	return nil
}

// Parameters returns the parameterization of the table.
func (t *BaseTable) Parameters() Parameters { return t.params }

// Domain returns the domain separation string of the table.
func (t *BaseTable) Domain() string { return t.domain }

// Len returns the number of bases, chunk bases plus the randomizer base.
func (t *BaseTable) Len() int { return t.params.NumChunks() + 1 }

// Generators returns a copy of the window generators.
func (t *BaseTable) Generators() []twistededwards.PointAffine {
	return append([]twistededwards.PointAffine(nil), t.generators...)
}

// Bases returns a copy of the chunk bases, window-major.
func (t *BaseTable) Bases() [][]twistededwards.PointAffine {
	out := make([][]twistededwards.PointAffine, len(t.bases))
	for w := range t.bases {
		out[w] = append([]twistededwards.PointAffine(nil), t.bases[w]...)
	}
	return out
}

// Base returns the chunk base of window w, chunk j.
func (t *BaseTable) Base(w, j int) twistededwards.PointAffine { return t.bases[w][j] }

// RandomBase returns the randomizer base.
func (t *BaseTable) RandomBase() twistededwards.PointAffine { return t.randomBase }

// RandomPower returns 2^i times the randomizer base.
func (t *BaseTable) RandomPower(i int) twistededwards.PointAffine { return t.randomPowers[i] }

// Lookup returns the Edwards multiples ChunkTable[k]·B_{w,j} for k < 4.
func (t *BaseTable) Lookup(w, j int) [lookupSize]twistededwards.PointAffine {
	return t.lookup[w][j]
}

// MontgomeryLookup returns Lookup(w, j) in Montgomery form.
func (t *BaseTable) MontgomeryLookup(w, j int) [lookupSize]bls12377te.MontgomeryPoint {
	return t.montLookup[w][j]
}

// Equal reports whether both tables hold the same generators for the same
// parameters and domain.
func (t *BaseTable) Equal(o *BaseTable) bool {
	if t.params != o.params || t.domain != o.domain || !t.randomBase.Equal(&o.randomBase) {
		return false
	}
	for w := range t.generators {
		if !t.generators[w].Equal(&o.generators[w]) {
			return false
		}
	}
	return true
}
