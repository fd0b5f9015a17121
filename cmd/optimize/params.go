// Package main provides CMA-ES optimization for darwinio rule constants.
package main

import (
	"math"

	"github.com/pthm-cable/darwinio/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Rules
			{Name: "temperature_radius", Path: "rules.temperature_radius", Min: 20, Max: 400, Default: 150, Integer: true},
			{Name: "reproduction_multiplier", Path: "rules.reproduction_multiplier", Min: 1, Max: 6, Default: 2, Integer: true},
			{Name: "decomposition_divisor", Path: "rules.decomposition_divisor", Min: 1, Max: 40, Default: 10, Integer: true},
			{Name: "movement_scale", Path: "rules.movement_scale", Min: 0.5, Max: 4.0, Default: 1.0},
			// World
			{Name: "mutation_factor", Path: "world.mutation_factor", Min: 0, Max: 1, Default: 0.3},
			// Population
			{Name: "occupancy_probability", Path: "population.occupancy_probability", Min: 0.02, Max: 0.6, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and integer parameters are whole.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Rules.TemperatureRadius = int(clamped[0])
	cfg.Rules.ReproductionMultiplier = int(clamped[1])
	cfg.Rules.DecompositionDivisor = int(clamped[2])
	cfg.Rules.MovementScale = clamped[3]
	cfg.World.MutationFactor = clamped[4]
	cfg.Population.OccupancyProbability = clamped[5]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Rules.TemperatureRadius),
		float64(cfg.Rules.ReproductionMultiplier),
		float64(cfg.Rules.DecompositionDivisor),
		cfg.Rules.MovementScale,
		cfg.World.MutationFactor,
		cfg.Population.OccupancyProbability,
	}
}
