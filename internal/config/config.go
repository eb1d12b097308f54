// Package config loads the optional multi-setup configuration file.
// Every field has a default, so a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// ErrConfig marks an unreadable or invalid configuration file.
var ErrConfig = errors.New("config error")

const (
	DefaultBinDir   = "~/.local/bin"
	DefaultLinkName = "multi"
)

// Config is the top-level structure of setup.toml.
type Config struct {
	// BinDir is the user-local binary directory; "~" and "$HOME" expand.
	BinDir string `toml:"bin_dir"`
	// LinkName is the name of the symlink placed in BinDir.
	LinkName string `toml:"link_name"`
	// Source is the companion script. Empty means auto-detect.
	Source       string   `toml:"source"`
	Dependencies []string `toml:"dependencies"`
	// SmokeArgs are passed to the installed command by the smoke test.
	SmokeArgs []string `toml:"smoke_args"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// DefaultPath returns $XDG_CONFIG_HOME/multi/setup.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "multi", "setup.toml")
}

// Load parses path. An empty path or a missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w: %w", ErrConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config.Load: %w: unknown keys: %s", ErrConfig, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BinDir == "" {
		c.BinDir = DefaultBinDir
	}
	if c.LinkName == "" {
		c.LinkName = DefaultLinkName
	}
	if c.Dependencies == nil {
		c.Dependencies = []string{"tmux", "git"}
	}
	if c.SmokeArgs == nil {
		c.SmokeArgs = []string{"help"}
	}
}

func (c *Config) validate() error {
	if strings.ContainsAny(c.LinkName, `/\`) || c.LinkName == "." || c.LinkName == ".." {
		return fmt.Errorf("config.Load: %w: link_name must be a file name, got %q", ErrConfig, c.LinkName)
	}
	for _, d := range c.Dependencies {
		if d == "" || strings.ContainsAny(d, `/\`) {
			return fmt.Errorf("config.Load: %w: invalid dependency %q", ErrConfig, d)
		}
	}
	return nil
}

// Expander expands a leading home reference in a path.
type Expander interface {
	ExpandHome(p string) string
}

// ResolveBinDir returns BinDir with the home reference expanded.
func (c *Config) ResolveBinDir(e Expander) string {
	return filepath.Clean(e.ExpandHome(c.BinDir))
}

// ResolveSource returns Source with the home reference expanded, or "".
func (c *Config) ResolveSource(e Expander) string {
	if c.Source == "" {
		return ""
	}
	return filepath.Clean(e.ExpandHome(c.Source))
}

// LinkPath returns the full path of the installed link.
func (c *Config) LinkPath(e Expander) string {
	return filepath.Join(c.ResolveBinDir(e), c.LinkName)
}
