package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/darwinio/config"
	"github.com/pthm-cable/darwinio/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	x := pv.Normalize(pv.ExtractFromConfig(cfg))
	for i, v := range x {
		if v < 0 || v > 1 {
			t.Errorf("default %s normalises to %v, outside [0,1]", pv.Specs[i].Name, v)
		}
	}

	got := config.Default()
	pv.ApplyToConfig(got, pv.Denormalize(x))
	if got.Rules.TemperatureRadius != cfg.Rules.TemperatureRadius ||
		got.Rules.ReproductionMultiplier != cfg.Rules.ReproductionMultiplier ||
		got.Rules.DecompositionDivisor != cfg.Rules.DecompositionDivisor {
		t.Errorf("rules = %+v, want %+v", got.Rules, cfg.Rules)
	}
	if math.Abs(got.Rules.MovementScale-cfg.Rules.MovementScale) > 1e-9 {
		t.Errorf("movement scale = %v, want %v", got.Rules.MovementScale, cfg.Rules.MovementScale)
	}
	if math.Abs(got.World.MutationFactor-cfg.World.MutationFactor) > 1e-9 {
		t.Errorf("mutation factor = %v, want %v", got.World.MutationFactor, cfg.World.MutationFactor)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestClampRoundsIntegers(t *testing.T) {
	pv := NewParamVector()
	v := pv.Clamp([]float64{1000, 2.6, -5, 10, 1.5, 0})
	want := []float64{400, 3, 1, 4, 1, 0.02}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("%s clamped to %v, want %v", pv.Specs[i].Name, v[i], want[i])
		}
	}
}

func TestComputeQuality(t *testing.T) {
	steady := func(asexual, sexual, lineages int) []telemetry.WindowStats {
		ws := make([]telemetry.WindowStats, 10)
		for i := range ws {
			ws[i] = telemetry.WindowStats{Population: asexual + sexual, Asexual: asexual, Sexual: sexual, ActiveLineages: lineages}
		}
		return ws
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		min     float64
		max     float64
	}{
		{"too short", steady(50, 50, 20)[:3], 0, 0},
		{"extinct", steady(0, 0, 0), 0, 0},
		{"balanced and diverse", steady(50, 50, 100), 0.95, 1},
		{"monoculture", steady(100, 0, 100), 0.65, 0.71},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := computeQuality(tt.windows)
			if q < tt.min || q > tt.max {
				t.Errorf("quality = %v, want in [%v, %v]", q, tt.min, tt.max)
			}
		})
	}
}

func TestComputeFitness(t *testing.T) {
	if f := computeFitness(&runResult{failed: true}, 1); f != 0 {
		t.Errorf("failed run fitness = %v, want 0", f)
	}
	a := computeFitness(&runResult{survivalTicks: 100}, 0)
	b := computeFitness(&runResult{survivalTicks: 100}, 1)
	if !(b < a) || math.Abs(a+100) > 1e-9 {
		t.Errorf("fitness a=%v b=%v", a, b)
	}
}
