// Package config loads the configuration of the command line tools from
// flags, BHP_ prefixed environment variables and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/gnark-bhp/crypto/bhp"
	"github.com/vocdoni/gnark-bhp/db"
	"github.com/vocdoni/gnark-bhp/db/metadb"
	"github.com/vocdoni/gnark-bhp/log"
)

const (
	// EnvPrefix prefixes every environment variable, so bhp.domain is read
	// from BHP_BHP_DOMAIN.
	EnvPrefix = "BHP"

	DefaultDomain    = "BHP"
	DefaultBackend   = db.TypePebble
	DefaultLogLevel  = log.LogLevelInfo
	DefaultLogOutput = "stderr"
	defaultDatadir   = ".bhp" // Will be prefixed with user's home directory

	// StoreNone disables the base table store.
	StoreNone = "none"
)

// Config holds the application configuration
type Config struct {
	BHP   BHPConfig
	Store StoreConfig
	Log   LogConfig
}

// BHPConfig selects the base table.
type BHPConfig struct {
	Domain     string `mapstructure:"domain"`
	NumWindows int    `mapstructure:"windows"`
	WindowSize int    `mapstructure:"windowsize"`
}

// Parameters returns the configured table shape.
func (c BHPConfig) Parameters() bhp.Parameters {
	return bhp.Parameters{NumWindows: c.NumWindows, WindowSize: c.WindowSize}
}

// StoreConfig holds the base table store configuration
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	Datadir   string `mapstructure:"datadir"`
	CacheSize int    `mapstructure:"cachesize"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

func defaultDatadirPath() string {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	return filepath.Join(userHomeDir, defaultDatadir)
}

// NewFlagSet returns a flag set with every configuration flag registered.
// Callers may add their own flags before passing it to Load.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	fs.String("bhp.domain", DefaultDomain, "domain separation string of the base table")
	fs.Int("bhp.windows", bhp.Params32x48.NumWindows, "number of windows")
	fs.Int("bhp.windowsize", bhp.Params32x48.WindowSize, fmt.Sprintf("chunks per window (at most %d)", bhp.MaxWindowSize))
	fs.String("store.backend", DefaultBackend, fmt.Sprintf("base table store backend %v or %q", metadb.Types, StoreNone))
	fs.StringP("store.datadir", "d", defaultDatadirPath(), "data directory of the base table store")
	fs.Int("store.cachesize", 0, "decoded base tables kept in memory (0 for the default)")
	fs.StringP("log.level", "l", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringP("log.output", "o", DefaultLogOutput, "log output (stdout, stderr or filepath)")
	return fs
}

// Load parses args into fs and resolves the configuration.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()

	// Configure Viper to use environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind flags to Viper
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.BHP.Domain == "" {
		return fmt.Errorf("empty domain")
	}
	if err := c.BHP.Parameters().Validate(); err != nil {
		return err
	}
	if c.Store.Backend != StoreNone && !slices.Contains(metadb.Types, c.Store.Backend) {
		return fmt.Errorf("invalid store backend %q, available backends: %v", c.Store.Backend, metadb.Types)
	}
	if c.Store.Backend != StoreNone && c.Store.Backend != db.TypeInMem && c.Store.Datadir == "" {
		return fmt.Errorf("store backend %s needs a data directory", c.Store.Backend)
	}
	if c.Store.CacheSize < 0 {
		return fmt.Errorf("negative cache size %d", c.Store.CacheSize)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
