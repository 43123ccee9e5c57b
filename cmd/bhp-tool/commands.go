package main

import (
	"fmt"
	"math/big"
	"time"

	flag "github.com/spf13/pflag"
	circuit "github.com/vocdoni/gnark-bhp/circuits/bhp"
	"github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/crypto/ecc/bls12377te"
	"github.com/vocdoni/gnark-bhp/log"
	"github.com/vocdoni/gnark-bhp/storage"
	"github.com/vocdoni/gnark-bhp/types"
	"github.com/vocdoni/gnark-bhp/util"
)

// output is printed by hash and commit.
type output struct {
	Params     string            `json:"params"`
	Domain     string            `json:"domain"`
	Input      types.Bits        `json:"input"`
	Randomizer *types.BigInt     `json:"randomizer,omitempty"`
	Hash       *types.BigInt     `json:"hash"`
	Point      *bls12377te.Point `json:"point"`
}

func hashCommand(fs *flag.FlagSet) func(env *environment) error {
	input := fs.StringP("input", "i", "", "input as a bit string (101...) or 0x prefixed hex bytes")
	pad := fs.Bool("pad", false, "append zero bits up to a whole number of chunks")
	return func(env *environment) error {
		bits, err := parseInput(*input, *pad)
		if err != nil {
			return err
		}
		table, err := env.table()
		if err != nil {
			return err
		}
		point, err := bhp.NewHasher(table).HashUncompressed(bits)
		if err != nil {
			return err
		}
		return env.print(output{
			Params: table.Parameters().String(),
			Domain: table.Domain(),
			Input:  bits,
			Hash:   types.FromElement(&point.X),
			Point:  bls12377te.NewPoint(&point),
		})
	}
}

func commitCommand(fs *flag.FlagSet) func(env *environment) error {
	input := fs.StringP("input", "i", "", "input as a bit string (101...) or 0x prefixed hex bytes")
	pad := fs.Bool("pad", false, "append zero bits up to a whole number of chunks")
	randomizer := fs.StringP("randomizer", "r", "", "randomizer, decimal or 0x prefixed hex (random when empty)")
	return func(env *environment) error {
		bits, err := parseInput(*input, *pad)
		if err != nil {
			return err
		}
		r, err := parseRandomizer(*randomizer)
		if err != nil {
			return err
		}
		table, err := env.table()
		if err != nil {
			return err
		}
		point, err := bhp.NewHasher(table).CommitUncompressed(bits, r)
		if err != nil {
			return err
		}
		return env.print(output{
			Params:     table.Parameters().String(),
			Domain:     table.Domain(),
			Input:      bits,
			Randomizer: (*types.BigInt)(r),
			Hash:       types.FromElement(&point.X),
			Point:      bls12377te.NewPoint(&point),
		})
	}
}

// statsOutput is printed by stats.
type statsOutput struct {
	Params string        `json:"params"`
	Op     string        `json:"op"`
	Mode   string        `json:"mode"`
	Bits   int           `json:"bits"`
	Cost   circuit.Stats `json:"cost"`
}

func statsCommand(fs *flag.FlagSet) func(env *environment) error {
	op := fs.String("op", circuit.OpCommit.String(), "operation to measure (hash or commit)")
	mode := fs.StringP("mode", "m", circuit.Private.String(), "input allocation (constant, public or private)")
	nbits := fs.IntP("bits", "b", -1, "input length in bits (the maximum when negative)")
	return func(env *environment) error {
		o, err := circuit.ParseOp(*op)
		if err != nil {
			return err
		}
		m, err := circuit.ParseMode(*mode)
		if err != nil {
			return err
		}
		table, err := env.table()
		if err != nil {
			return err
		}
		params := table.Parameters()
		n := *nbits
		if n < 0 {
			n = params.MaxBits()
		}
		if err := params.CheckInputLength(n); err != nil {
			return err
		}
		in := circuit.Inputs{
			Bits:       randomBits(n),
			Randomizer: util.RandomBigInt(big.NewInt(0), bls12377te.Order()),
		}
		start := time.Now()
		stats, err := circuit.Measure(circuit.NewHasher(table), o, m, in)
		if err != nil {
			return err
		}
		log.Infow("gadget measured", "op", o.String(), "mode", m.String(), "elapsed", time.Since(start).String())
		return env.print(statsOutput{
			Params: params.String(),
			Op:     o.String(),
			Mode:   m.String(),
			Bits:   n,
			Cost:   stats,
		})
	}
}

func tablesCommand(_ *flag.FlagSet) func(env *environment) error {
	return func(env *environment) error {
		if env.store == nil {
			return fmt.Errorf("no base table store configured")
		}
		tables, err := env.store.List()
		if err != nil {
			return err
		}
		if tables == nil {
			tables = []storage.TableInfo{}
		}
		return env.print(tables)
	}
}
