package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/riverlab/internal/erosion"
	"github.com/san-kum/riverlab/internal/lab"
)

const (
	DefaultPreset   = "default"
	DefaultSeed     = 42
	DefaultTicks    = 500
	DefaultInterval = lab.DefaultInterval
	DefaultTheme    = "ocean"
)

// ErrInvalidConfig indicates a value outside its range.
var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Preset       string         `yaml:"preset"`
	Seed         int64          `yaml:"seed"`
	Rain         float64        `yaml:"rain"`
	Ticks        int            `yaml:"ticks"`
	TickInterval time.Duration  `yaml:"tick_interval"`
	Theme        string         `yaml:"theme"`
	Params       erosion.Params `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:       DefaultPreset,
		Seed:         DefaultSeed,
		Rain:         lab.DefaultRain,
		Ticks:        DefaultTicks,
		TickInterval: DefaultInterval,
		Theme:        DefaultTheme,
		Params:       erosion.DefaultParams(),
	}
}

// Load reads a YAML file. Keys absent from the file keep the values of the
// named preset, or of DefaultConfig when no preset is given.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if head.Preset != "" {
		p, err := GetPreset(head.Preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings and the engine parameters.
func (c *Config) Validate() error {
	if math.IsNaN(c.Rain) || c.Rain < lab.RainMin || c.Rain > lab.RainMax {
		return fmt.Errorf("%w: rain %g outside [%g, %g]", ErrInvalidConfig, c.Rain, lab.RainMin, lab.RainMax)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: ticks %d", ErrInvalidConfig, c.Ticks)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("%w: tick_interval %s", ErrInvalidConfig, c.TickInterval)
	}
	return c.Params.Validate()
}
