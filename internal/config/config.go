// Package config loads the fuzz/bench driver's settings the way the
// teacher's server/settings package loads its own: defaults from a
// struct, overridden by an optional YAML file, overridden by
// environment variables, all merged through koanf.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Settings controls one fuzz/bench run.
type Settings struct {
	// Workers is the number of independent heap instances to fuzz
	// concurrently, each single-threaded on its own.
	Workers int `koanf:"workers"`
	// Iterations is the number of operations each worker performs.
	Iterations int `koanf:"iterations"`
	// Seed seeds the per-worker random sources; 0 means derive one from
	// the wall clock at startup.
	Seed int64 `koanf:"seed"`
	// DebugAssertions toggles fibheap.Options.DebugAssertions for every
	// worker heap.
	DebugAssertions bool `koanf:"debug_assertions"`
	// StatsAddr is the address the live stats HTTP server listens on;
	// empty disables it.
	StatsAddr string `koanf:"stats_addr"`
	// ConfigPath is an optional YAML file merged over the defaults
	// below and under any environment variables.
	ConfigPath string `koanf:"config_path"`
}

// Defaults mirrors the teacher's package-level Settings var: sane
// out-of-the-box values a caller can override selectively.
var Defaults = Settings{
	Workers:         8,
	Iterations:      50_000,
	Seed:            0,
	DebugAssertions: true,
	StatsAddr:       ":6061",
	ConfigPath:      "",
}

// Load resolves Settings from Defaults, an optional YAML file and
// environment variables prefixed FIBHEAP_, in that precedence order.
func Load() (Settings, error) {
	cfg := Defaults
	k := koanf.New(".")

	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return cfg, err
	}

	if cfg.ConfigPath != "" {
		if err := k.Load(file.Provider(cfg.ConfigPath), yaml.Parser()); err != nil {
			return cfg, err
		}
	}

	err := k.Load(env.Provider("FIBHEAP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FIBHEAP_"))
	}), nil)
	if err != nil {
		return cfg, err
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
