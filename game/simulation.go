package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/darwinio/components"
	"github.com/pthm-cable/darwinio/systems"
	"github.com/pthm-cable/darwinio/telemetry"
)

// UpdateState advances the simulation by exactly one tick.
func (w *World) UpdateState() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.perfCollector.StartTick()
	w.perfCollector.StartPhase(telemetry.PhaseSweep)
	w.sweep()
	w.tick++

	w.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	w.flushTelemetry()
	w.perfCollector.EndTick()
}

// sweep visits every occupied cell once in row-major order.
func (w *World) sweep() {
	read := w.policy.Begin(w.layers())
	for r := 0; r < w.shape.Rows; r++ {
		for c := 0; c < w.shape.Cols; c++ {
			p := systems.Point{Row: r, Col: c}
			if !read.Occupancy.Occupied(p) {
				continue
			}
			e := read.Occupancy.Get(p)
			// Skip organisms that died or moved since the read view was taken.
			if w.occupancy.Get(p) != e {
				continue
			}
			w.visit(e, p, read)
		}
	}
}

// visit applies the per-cell rule to the organism e at p. Conditions are
// evaluated on the values read at the start of the visit.
func (w *World) visit(e ecs.Entity, p systems.Point, read systems.Layers) {
	org := w.orgMap.Get(e)
	c := org.Characteristics()
	food := read.Food.At(p)
	temp := read.Temp.At(p)

	state, cause := w.rules.Classify(c, food, temp)
	if state == systems.CellStarved {
		w.food.Add(p, w.rules.DecompositionYield(c))
		w.kill(e, p)
		w.collector.RecordDeath(cause)
		return
	}

	w.food.Add(p, -c.EnergyRequirement)

	foodDir := read.Food.Neighbours(p).Argmax()
	tempDir := read.Temp.Neighbours(p).Argmax()
	dest := p
	out, err := org.Controller().Evaluate([]float64{float64(foodDir), float64(tempDir)})
	if err != nil {
		// The organism holds its cell.
		slog.Debug("controller evaluation failed", "id", w.lineageMap.Get(e).ID, "tick", w.tick, "error", err)
	} else {
		dr, dc := w.rules.Displacement(out)
		dest = systems.Move(w.occupancy, e, p, p.Add(dr, dc))
	}
	if dest != p {
		w.collector.RecordMove()
		w.lifetimes.RecordMove(w.lineageMap.Get(e).ID)
	}

	if w.rules.CanReproduce(c, food, temp) {
		w.reproduceAt(e, p, org.IsAsexual())
	}
}

// reproduceAt tries to place an offspring of e next to p.
func (w *World) reproduceAt(e ecs.Entity, p systems.Point, asexual bool) {
	plan := systems.PlanBrood(w.rng, w.occupancy, e, p, asexual)
	if plan.Loss != systems.LossNone {
		w.collector.RecordLostOffspring(plan.Loss)
		return
	}

	child, err := components.Reproduce(w.rng, w.orgMap.Get(e), w.orgMap.Get(plan.Partner), w.mutationFactor, w.params)
	if err != nil {
		w.collector.RecordLostOffspring(systems.LossInvalidGenome)
		return
	}
	if w.occupancy.Occupied(plan.Target) {
		w.collector.RecordLostOffspring(systems.LossTargetOccupied)
		return
	}

	// Copy before spawning: adding an entity invalidates component pointers.
	parent := *w.lineageMap.Get(e)
	w.spawn(child, plan.Target, &parent)
	w.lifetimes.RecordChild(parent.ID)
	w.collector.RecordBirth()
}
