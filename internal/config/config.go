// Package config loads editor configuration from TOML and can watch the
// file for live reload.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkline/internal/extension"
	"github.com/dshills/inkline/internal/luaext"
	"github.com/dshills/inkline/internal/syntax"
)

// Config is the editor's on-disk configuration.
type Config struct {
	Extensions Extensions `toml:"extensions"`
	Scripts    Scripts    `toml:"scripts"`
}

// Extensions controls which built-in syntax rules are active.
type Extensions struct {
	// Disabled lists built-in rule names to leave out of the registry.
	Disabled []string `toml:"disabled"`
}

// Scripts configures Lua-scripted extensions.
type Scripts struct {
	// Paths lists script files to load, in registry order after the
	// built-ins.
	Paths []string `toml:"paths"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{}
}

// Load reads a TOML configuration file. A missing file is not an error;
// it yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// BuildRegistry assembles the extension registry the configuration
// describes: built-ins minus the disabled set, then scripted extensions
// in path order. The returned closer releases the script states.
func BuildRegistry(cfg Config) (*extension.Registry, func(), error) {
	disabled := make(map[string]bool, len(cfg.Extensions.Disabled))
	for _, name := range cfg.Extensions.Disabled {
		disabled[name] = true
	}

	var scripted []*luaext.Ext
	var extra []extension.Extension
	for _, path := range cfg.Scripts.Paths {
		e, err := luaext.Load(path)
		if err != nil {
			for _, s := range scripted {
				s.Close()
			}
			return nil, nil, err
		}
		scripted = append(scripted, e)
		extra = append(extra, e)
	}

	closer := func() {
		for _, s := range scripted {
			s.Close()
		}
	}
	return syntax.Select(disabled, extra...), closer, nil
}
