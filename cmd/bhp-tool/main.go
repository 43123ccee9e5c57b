package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/vocdoni/gnark-bhp/config"
	"github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/log"
	"github.com/vocdoni/gnark-bhp/storage"
)

// command is a bhp-tool subcommand. flags registers its own flags on the
// shared flag set and returns the function running it.
type command struct {
	name  string
	usage string
	flags func(fs *flag.FlagSet) func(env *environment) error
}

var commands = []command{
	{"hash", "hash an input and print the x-coordinate and the point", hashCommand},
	{"commit", "commit to an input with a randomizer", commitCommand},
	{"stats", "compile the gadget and print its constraint and wire counts", statsCommand},
	{"tables", "list the base tables of the store", tablesCommand},
}

// environment is what every command runs against.
type environment struct {
	cfg      *config.Config
	registry *bhp.Registry
	store    *storage.BaseStore
	out      io.Writer
}

// table returns the configured base table, deriving or loading it.
func (e *environment) table() (*bhp.BaseTable, error) {
	return e.registry.Setup(e.cfg.BHP.Parameters(), e.cfg.BHP.Domain)
}

func (e *environment) print(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: bhp-tool <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
	fmt.Fprintf(os.Stderr, "  upper cased, prefixed by %s_ and with dots (.) replaced by underscores (_).\n", config.EnvPrefix)
	fmt.Fprintf(os.Stderr, "  For example, %s_BHP_DOMAIN or %s_STORE_BACKEND\n", config.EnvPrefix, config.EnvPrefix)
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  bhp-tool hash --input=0xdeadbeef --pad\n")
	fmt.Fprintf(os.Stderr, "  bhp-tool commit --bhp.windows=8 --bhp.windowsize=32 --input=101110 --randomizer=42\n")
	fmt.Fprintf(os.Stderr, "  bhp-tool stats --op=commit --mode=private\n")
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(name string, args []string, out io.Writer) error {
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		usage()
		return fmt.Errorf("unknown command %q", name)
	}

	fs := config.NewFlagSet("bhp-tool " + name)
	exec := cmd.flags(fs)
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	env := &environment{cfg: cfg, out: out}
	if cfg.Store.Backend != config.StoreNone {
		env.store, err = storage.Open(cfg.Store.Backend, cfg.Store.Datadir, cfg.Store.CacheSize)
		if err != nil {
			return fmt.Errorf("opening base table store: %w", err)
		}
		defer func() {
			if err := env.store.Close(); err != nil {
				log.Warnw("failed to close base table store", "error", err)
			}
		}()
		env.registry = bhp.NewRegistry(env.store)
	} else {
		env.registry = bhp.NewRegistry(nil)
	}
	log.Debugw("running command", "command", name,
		"params", cfg.BHP.Parameters().String(), "domain", cfg.BHP.Domain, "store", cfg.Store.Backend)
	return exec(env)
}
