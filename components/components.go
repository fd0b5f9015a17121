// Package components defines ECS components for the simulation.
package components

import (
	"math/rand"
)

// Lineage tracks identity and ancestry of an organism entity.
type Lineage struct {
	ID         uint32
	ParentID   uint32 // 0 for founders
	FounderID  uint32
	Generation uint32
	BirthTick  int32
}

// Range is a half-open integer interval [Min, Max).
type Range struct {
	Min, Max int
}

// Draw returns a uniform value in [Min, Max).
func (r Range) Draw(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min)
}

// CharacteristicRanges bounds the traits of randomly generated founders.
type CharacteristicRanges struct {
	Temperature  Range
	Trophic      Range
	Energy       Range
	Reproductive Range
}

// Draw samples a characteristic set within the ranges.
func (r CharacteristicRanges) Draw(rng *rand.Rand) Characteristics {
	return Characteristics{
		PreferredTemperature: r.Temperature.Draw(rng),
		TrophicLevel:         r.Trophic.Draw(rng),
		EnergyRequirement:    r.Energy.Draw(rng),
		ReproductiveType:     r.Reproductive.Draw(rng),
	}
}

// RandomOrganism builds a founder with traits drawn from ranges.
func RandomOrganism(rng *rand.Rand, ranges CharacteristicRanges, p GenomeParams) (*Organism, error) {
	return FromCharacteristics(rng, ranges.Draw(rng), p)
}
