// Package config loads the optional TOML configuration file. The
// configuration is read once at startup and never mutated afterwards;
// the zero value works, every field has a compiled-in default.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sekai-tl/sekai-core/core/chardet"
	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

// Config is the full engine configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Detector DetectorConfig `toml:"detector"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is debug, info, warn, or error. Empty means info.
	Level string `toml:"level"`
	// Format is text or json. Empty means text.
	Format string `toml:"format"`
}

// DetectorConfig tunes the encoding detector.
type DetectorConfig struct {
	// Weights overrides the per-family signal weights. Families not
	// listed keep the built-in constants.
	Weights map[string]chardet.Weights `toml:"weights"`
}

// FamilyWeights converts the TOML weight table into detector overrides.
func (d DetectorConfig) FamilyWeights() map[chardet.Family]chardet.Weights {
	if len(d.Weights) == 0 {
		return nil
	}
	out := make(map[chardet.Family]chardet.Weights, len(d.Weights))
	for fam, w := range d.Weights {
		out[chardet.Family(fam)] = w
	}
	return out
}

// Load reads a TOML config file. An empty path returns the zero config.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, coreerrors.NewIO("read", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, coreerrors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}
