// Package telemetry provides population statistics, bookmarks, a hall of
// fame of successful genomes, and CSV experiment output.
package telemetry

import "github.com/pthm-cable/darwinio/systems"

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	births             int
	starvationDeaths   int
	temperatureDeaths  int
	moves              int
	lostNoPartner      int
	lostTargetOccupied int
	lostInvalidGenome  int

	// Running totals since construction
	totalBirths int
	totalDeaths int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// RecordBirth records an offspring placed on the grid.
func (c *Collector) RecordBirth() {
	c.births++
	c.totalBirths++
}

// RecordDeath records an organism removed from the grid.
func (c *Collector) RecordDeath(cause systems.DeathCause) {
	switch cause {
	case systems.DeathStarvation:
		c.starvationDeaths++
	case systems.DeathTemperature:
		c.temperatureDeaths++
	}
	c.totalDeaths++
}

// RecordMove records an organism that changed cells.
func (c *Collector) RecordMove() {
	c.moves++
}

// RecordLostOffspring records a reproduction attempt that produced nothing.
func (c *Collector) RecordLostOffspring(reason systems.OffspringLoss) {
	switch reason {
	case systems.LossNoPartner:
		c.lostNoPartner++
	case systems.LossTargetOccupied:
		c.lostTargetOccupied++
	case systems.LossInvalidGenome:
		c.lostInvalidGenome++
	}
}

// TotalBirths returns births since the collector was created.
func (c *Collector) TotalBirths() int { return c.totalBirths }

// TotalDeaths returns deaths since the collector was created.
func (c *Collector) TotalDeaths() int { return c.totalDeaths }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats from the window's counters and the census,
// then resets the counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	food := Summarize(census.Food)
	temp := Summarize(census.Temp)
	energy := Summarize(census.EnergyRequirements)
	preferred := Summarize(census.PreferredTemperatures)
	gen := Summarize(census.Generations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population:        census.Population(),
		Asexual:           census.Asexual,
		Sexual:            census.Sexual,
		ReproductionRatio: ReproductionRatio(census.Asexual, census.Sexual),

		Births:             c.births,
		StarvationDeaths:   c.starvationDeaths,
		TemperatureDeaths:  c.temperatureDeaths,
		Moves:              c.moves,
		LostNoPartner:      c.lostNoPartner,
		LostTargetOccupied: c.lostTargetOccupied,
		LostInvalidGenome:  c.lostInvalidGenome,

		FoodTotal: sum(census.Food),
		FoodMean:  food.Mean,
		FoodStd:   food.Std,
		TempMean:  temp.Mean,
		TempStd:   temp.Std,

		EnergyMean:        energy.Mean,
		EnergyP10:         energy.P10,
		EnergyP50:         energy.P50,
		EnergyP90:         energy.P90,
		PreferredTempMean: preferred.Mean,
		PreferredTempStd:  preferred.Std,

		MaxGeneration:  int(maxOf(census.Generations)),
		MeanGeneration: gen.Mean,
		ActiveLineages: census.ActiveLineages,
	}

	c.windowStartTick = currentTick
	c.births = 0
	c.starvationDeaths = 0
	c.temperatureDeaths = 0
	c.moves = 0
	c.lostNoPartner = 0
	c.lostTargetOccupied = 0
	c.lostInvalidGenome = 0

	return stats
}
