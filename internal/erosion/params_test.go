package erosion

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	if p.Size != 80 {
		t.Errorf("expected size 80, got %d", p.Size)
	}
	if p.FlowFactor != 0.4 || p.Infiltration != 0.0005 || p.SmoothAmount != 0.1 {
		t.Errorf("unexpected step defaults: %+v", p)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero size", func(p *Params) { p.Size = 0 }},
		{"negative size", func(p *Params) { p.Size = -3 }},
		{"zero flow factor", func(p *Params) { p.FlowFactor = 0 }},
		{"flow factor above one", func(p *Params) { p.FlowFactor = 1.5 }},
		{"negative infiltration", func(p *Params) { p.Infiltration = -0.1 }},
		{"smooth above one", func(p *Params) { p.SmoothAmount = 1.1 }},
		{"negative smooth", func(p *Params) { p.SmoothAmount = -0.1 }},
		{"NaN erosion", func(p *Params) { p.ErosionRate = math.NaN() }},
		{"zero max height", func(p *Params) { p.MaxHeight = 0 }},
		{"unknown layout", func(p *Params) { p.Layout = "lake" }},
		{"unknown jitter", func(p *Params) { p.Jitter = "perlin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParam) {
				t.Errorf("expected ErrInvalidParam, got %v", err)
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	p := DefaultParams()

	if err := p.SetParam("erosion_rate", 0.2); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if p.ErosionRate != 0.2 {
		t.Errorf("expected erosion_rate 0.2, got %f", p.ErosionRate)
	}
	if got := p.GetParams()["erosion_rate"]; got != 0.2 {
		t.Errorf("GetParams returned %f", got)
	}

	err := p.SetParam("smooth_amount", 2)
	var pe *ParamError
	if !errors.As(err, &pe) || pe.Name != "smooth_amount" {
		t.Errorf("expected ParamError for smooth_amount, got %v", err)
	}
	if p.SmoothAmount != 0.1 {
		t.Error("rejected value was stored")
	}

	if err := p.SetParam("gravity", 9.81); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
