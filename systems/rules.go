package systems

import (
	"github.com/pthm-cable/darwinio/components"
	"github.com/pthm-cable/darwinio/config"
)

// CellState is the outcome class of one organism visit.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellStarved
	CellFed
)

func (s CellState) String() string {
	switch s {
	case CellStarved:
		return "starved"
	case CellFed:
		return "fed"
	}
	return "empty"
}

// DeathCause distinguishes the two ways a visit can end in death.
type DeathCause uint8

const (
	DeathNone DeathCause = iota
	DeathStarvation
	DeathTemperature
)

// Rules holds the tunable constants of the per-cell update.
type Rules struct {
	TemperatureRadius      int
	ReproductionMultiplier int
	DecompositionDivisor   int
	MovementScale          float64
}

// DefaultRules returns the reference constants.
func DefaultRules() Rules {
	return Rules{
		TemperatureRadius:      150,
		ReproductionMultiplier: 2,
		DecompositionDivisor:   10,
		MovementScale:          1,
	}
}

// RulesFromConfig copies the rule section of cfg.
func RulesFromConfig(cfg config.RulesConfig) Rules {
	return Rules{
		TemperatureRadius:      cfg.TemperatureRadius,
		ReproductionMultiplier: cfg.ReproductionMultiplier,
		DecompositionDivisor:   cfg.DecompositionDivisor,
		MovementScale:          cfg.MovementScale,
	}
}

// HasEnoughFood reports whether food covers the organism's energy requirement.
func (r Rules) HasEnoughFood(c components.Characteristics, food int) bool {
	return food >= c.EnergyRequirement
}

// IdealTemperature reports whether temp lies within the symmetric window
// around the preferred temperature, bounds inclusive.
func (r Rules) IdealTemperature(c components.Characteristics, temp int) bool {
	return temp >= c.PreferredTemperature-r.TemperatureRadius &&
		temp <= c.PreferredTemperature+r.TemperatureRadius
}

// Classify decides whether an organism survives its visit.
func (r Rules) Classify(c components.Characteristics, food, temp int) (CellState, DeathCause) {
	switch {
	case !r.HasEnoughFood(c, food):
		return CellStarved, DeathStarvation
	case !r.IdealTemperature(c, temp):
		return CellStarved, DeathTemperature
	}
	return CellFed, DeathNone
}

// CanReproduce reports whether a fed organism also has the surplus to breed.
func (r Rules) CanReproduce(c components.Characteristics, food, temp int) bool {
	return food >= r.ReproductionMultiplier*c.EnergyRequirement && r.IdealTemperature(c, temp)
}

// DecompositionYield is the food returned to the cell when an organism dies.
func (r Rules) DecompositionYield(c components.Characteristics) int {
	if r.DecompositionDivisor <= 0 {
		return 0
	}
	return c.EnergyRequirement / r.DecompositionDivisor
}

// Displacement converts controller output into an integer step,
// truncating toward zero after scaling.
func (r Rules) Displacement(output []float64) (dRow, dCol int) {
	if len(output) > 0 {
		dRow = int(output[0] * r.MovementScale)
	}
	if len(output) > 1 {
		dCol = int(output[1] * r.MovementScale)
	}
	return dRow, dCol
}
