package erosion

import (
	"fmt"
	"math"

	"github.com/san-kum/riverlab/internal/terrain"
)

// JitterMode selects the height noise used by the initializer.
type JitterMode string

const (
	// JitterUniform adds independent uniform noise per cell.
	JitterUniform JitterMode = "uniform"
	// JitterSimplex adds coherent simplex noise scaled to the same range.
	JitterSimplex JitterMode = "simplex"
)

// Layout selects the starting landscape.
type Layout string

const (
	// LayoutRiver carves a sinusoidal river channel pre-filled with water.
	LayoutRiver Layout = "river"
	// LayoutSlope is a dry tilted plane without a channel.
	LayoutSlope Layout = "slope"
)

// Params holds every tunable of the initializer and the step function.
type Params struct {
	Size int `yaml:"size" json:"size"`

	// Initializer.
	Layout       Layout     `yaml:"layout" json:"layout"`
	Jitter       JitterMode `yaml:"jitter" json:"jitter"`
	RiverWidth   float64    `yaml:"river_width" json:"river_width"`
	Amplitude    float64    `yaml:"amplitude" json:"amplitude"` // fraction of Size
	Frequency    float64    `yaml:"frequency" json:"frequency"` // waves top to bottom
	SlopeDrop    float64    `yaml:"slope_drop" json:"slope_drop"`
	ChannelDepth float64    `yaml:"channel_depth" json:"channel_depth"`
	JitterMax    float64    `yaml:"jitter_max" json:"jitter_max"`
	RiverFill    float64    `yaml:"river_fill" json:"river_fill"`

	// Step function.
	FlowFactor     float64 `yaml:"flow_factor" json:"flow_factor"`
	Infiltration   float64 `yaml:"infiltration" json:"infiltration"`
	ErosionRate    float64 `yaml:"erosion_rate" json:"erosion_rate"`
	SlopeFactor    float64 `yaml:"slope_factor" json:"slope_factor"`
	DepositionRate float64 `yaml:"deposition_rate" json:"deposition_rate"`
	SmoothAmount   float64 `yaml:"smooth_amount" json:"smooth_amount"`

	// Mutation hook.
	RaiseAmount float64 `yaml:"raise_amount" json:"raise_amount"`
	MaxHeight   float64 `yaml:"max_height" json:"max_height"`
}

// DefaultParams returns the lab's standard tuning.
func DefaultParams() Params {
	return Params{
		Size:           terrain.DefaultSize,
		Layout:         LayoutRiver,
		Jitter:         JitterUniform,
		RiverWidth:     6,
		Amplitude:      0.1,
		Frequency:      2,
		SlopeDrop:      0.6,
		ChannelDepth:   0.3,
		JitterMax:      0.05,
		RiverFill:      0.3,
		FlowFactor:     0.4,
		Infiltration:   0.0005,
		ErosionRate:    0.05,
		SlopeFactor:    0.15,
		DepositionRate: 0.01,
		SmoothAmount:   0.1,
		RaiseAmount:    0.2,
		MaxHeight:      2,
	}
}

type paramField struct {
	name     string
	ptr      *float64
	min, max float64
	openMin  bool
}

func (p *Params) fields() []paramField {
	inf := math.Inf(1)
	return []paramField{
		{name: "river_width", ptr: &p.RiverWidth, max: inf},
		{name: "amplitude", ptr: &p.Amplitude, max: inf},
		{name: "frequency", ptr: &p.Frequency, max: inf},
		{name: "slope_drop", ptr: &p.SlopeDrop, max: inf},
		{name: "channel_depth", ptr: &p.ChannelDepth, max: inf},
		{name: "jitter_max", ptr: &p.JitterMax, max: inf},
		{name: "river_fill", ptr: &p.RiverFill, max: inf},
		{name: "flow_factor", ptr: &p.FlowFactor, max: 1, openMin: true},
		{name: "infiltration", ptr: &p.Infiltration, max: inf},
		{name: "erosion_rate", ptr: &p.ErosionRate, max: inf},
		{name: "slope_factor", ptr: &p.SlopeFactor, max: inf},
		{name: "deposition_rate", ptr: &p.DepositionRate, max: 1},
		{name: "smooth_amount", ptr: &p.SmoothAmount, max: 1},
		{name: "raise_amount", ptr: &p.RaiseAmount, max: inf},
		{name: "max_height", ptr: &p.MaxHeight, max: inf, openMin: true},
	}
}

func (f paramField) check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v > f.max || v < f.min || (f.openMin && v == f.min) {
		return &ParamError{Name: f.name, Value: v, Wrapped: ErrInvalidParam}
	}
	return nil
}

// Validate reports the first tunable outside its documented range.
func (p Params) Validate() error {
	if p.Size <= 0 {
		return &ParamError{Name: "size", Value: float64(p.Size), Wrapped: ErrInvalidParam}
	}
	switch p.Layout {
	case LayoutRiver, LayoutSlope:
	default:
		return fmt.Errorf("%w: layout %q", ErrInvalidParam, p.Layout)
	}
	switch p.Jitter {
	case JitterUniform, JitterSimplex:
	default:
		return fmt.Errorf("%w: jitter %q", ErrInvalidParam, p.Jitter)
	}
	for _, f := range p.fields() {
		if err := f.check(*f.ptr); err != nil {
			return err
		}
	}
	return nil
}

// GetParams returns the live-tunable floats keyed by their YAML names.
func (p *Params) GetParams() map[string]float64 {
	fields := p.fields()
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f.name] = *f.ptr
	}
	return out
}

// SetParam updates one tunable, rejecting unknown names and out-of-range values.
func (p *Params) SetParam(name string, value float64) error {
	for _, f := range p.fields() {
		if f.name != name {
			continue
		}
		if err := f.check(value); err != nil {
			return err
		}
		*f.ptr = value
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}
