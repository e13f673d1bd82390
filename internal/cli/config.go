package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/knotworks/forcemap/pkg/pipeline"
)

// configFile is the config file name under the XDG config directory.
const configFile = "config.toml"

// Config holds user defaults loaded from ~/.config/forcemap/config.toml.
// Every field is optional; zero values defer to the pipeline defaults.
// Command-line flags always win over config values.
//
// Example:
//
//	width = 1200
//	height = 900
//	engine = "barneshut"
//	attrs = ["classification", "family"]
//
//	[simulation]
//	iterations = 200
//	damping = 0.85
type Config struct {
	Width      float64          `toml:"width"`
	Height     float64          `toml:"height"`
	Engine     string           `toml:"engine"`
	Seed       uint64           `toml:"seed"`
	Attrs      []string         `toml:"attrs"`
	Formats    []string         `toml:"formats"`
	Simulation SimulationConfig `toml:"simulation"`
}

// SimulationConfig holds force simulation tuning defaults.
type SimulationConfig struct {
	Iterations int     `toml:"iterations"`
	Damping    float64 `toml:"damping"`
	Repulsion  float64 `toml:"repulsion"`
	Attraction float64 `toml:"attraction"`
	Theta      float64 `toml:"theta"`
}

// loadConfig reads the user config file. A missing file is not an error
// and yields a zero Config.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// apply copies config values into options for fields the user did not
// set on the command line (still at their zero value).
func (cfg Config) apply(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = cfg.Width
	}
	if opts.Height == 0 {
		opts.Height = cfg.Height
	}
	if opts.Engine == "" {
		opts.Engine = cfg.Engine
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Seed
	}
	if len(opts.Attrs) == 0 {
		opts.Attrs = cfg.Attrs
	}
	if opts.Iterations == 0 {
		opts.Iterations = cfg.Simulation.Iterations
	}
	if opts.Damping == 0 {
		opts.Damping = cfg.Simulation.Damping
	}
	if opts.Repulsion == 0 {
		opts.Repulsion = cfg.Simulation.Repulsion
	}
	if opts.Attraction == 0 {
		opts.Attraction = cfg.Simulation.Attraction
	}
	if opts.Theta == 0 {
		opts.Theta = cfg.Simulation.Theta
	}
}
