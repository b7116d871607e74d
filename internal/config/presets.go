package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/san-kum/riverlab/internal/erosion"
)

// ErrUnknownPreset indicates a preset name that does not exist.
var ErrUnknownPreset = errors.New("config: unknown preset")

// maxSuggestDistance bounds how far a typo may be from a preset name.
const maxSuggestDistance = 3

// Preset is a named starting point for a run.
type Preset struct {
	Description string
	apply       func(c *Config)
}

var Presets = map[string]Preset{
	"default": {
		Description: "sinusoidal river on a gentle slope, light rain",
		apply:       func(*Config) {},
	},
	"gentle": {
		Description: "slow erosion for watching deposition build up",
		apply: func(c *Config) {
			c.Rain = 0.005
			c.Params.ErosionRate = 0.02
			c.Params.SlopeFactor = 0.05
		},
	},
	"storm": {
		Description: "maximum rain and fast flow",
		apply: func(c *Config) {
			c.Rain = 0.05
			c.Params.FlowFactor = 0.5
			c.Params.ErosionRate = 0.08
		},
	},
	"drought": {
		Description: "no rain, shallow river drying out",
		apply: func(c *Config) {
			c.Rain = 0
			c.Params.RiverFill = 0.15
			c.Params.Infiltration = 0.002
		},
	},
	"canyon": {
		Description: "deep narrow channel on a steep slope",
		apply: func(c *Config) {
			c.Rain = 0.02
			c.Params.RiverWidth = 4
			c.Params.ChannelDepth = 0.6
			c.Params.SlopeDrop = 0.9
			c.Params.ErosionRate = 0.1
			c.Params.SlopeFactor = 0.3
			c.Params.SmoothAmount = 0.05
		},
	},
	"classic": {
		Description: "small rough slope without a river, as in the first lab",
		apply: func(c *Config) {
			c.TickInterval = 200 * time.Millisecond
			c.Params.Size = 32
			c.Params.Layout = erosion.LayoutSlope
			c.Params.SlopeDrop = 0.8
			c.Params.JitterMax = 0.2
		},
	},
}

// GetPreset returns a fresh Config for name. Unknown names yield an error
// that suggests the closest preset.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		if s := SuggestPreset(name); s != "" {
			return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownPreset, name, s)
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	p.apply(cfg)
	return cfg, nil
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuggestPreset returns the preset closest to name by edit distance, or ""
// when nothing is close.
func SuggestPreset(name string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, candidate := range ListPresets() {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
