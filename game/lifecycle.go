package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/darwinio/components"
	"github.com/pthm-cable/darwinio/genome"
	"github.com/pthm-cable/darwinio/systems"
)

// populate places a random founder in each cell with the configured probability.
func (w *World) populate() error {
	for r := 0; r < w.shape.Rows; r++ {
		for c := 0; c < w.shape.Cols; c++ {
			if w.rng.Float64() >= w.occupancyProbability {
				continue
			}
			org, err := components.RandomOrganism(w.rng, w.ranges, w.params)
			if err != nil {
				return fmt.Errorf("creating founder at (%d,%d): %w", r, c, err)
			}
			w.spawn(org, systems.Point{Row: r, Col: c}, nil)
		}
	}
	return nil
}

// spawn adds org to the arena and the grid. parent is nil for founders.
// The cell must be empty.
func (w *World) spawn(org *components.Organism, p systems.Point, parent *components.Lineage) ecs.Entity {
	id := w.nextID
	w.nextID++

	lineage := components.Lineage{ID: id, FounderID: id, BirthTick: w.tick}
	if parent != nil {
		lineage.ParentID = parent.ID
		lineage.FounderID = parent.FounderID
		lineage.Generation = parent.Generation + 1
	}

	entity := w.organismMapper.NewEntity(org, &lineage)
	w.occupancy.Set(p, entity)
	w.lifetimes.Register(id, w.tick, lineage.FounderID, lineage.Generation)
	return entity
}

// kill removes the organism at p from the grid and the arena.
func (w *World) kill(e ecs.Entity, p systems.Point) {
	org := w.orgMap.Get(e)
	lineage := w.lineageMap.Get(e)
	w.hallOfFame.Consider(string(org.Genome()), org.IsAsexual(), lineage.ID, w.lifetimes.Remove(lineage.ID), w.tick)

	w.occupancy.Clear(p)
	w.ecs.RemoveEntity(e)
}

// clearOrganisms empties the grid and the arena.
func (w *World) clearOrganisms() {
	var dead []ecs.Entity
	w.occupancy.Each(func(_ systems.Point, e ecs.Entity) {
		dead = append(dead, e)
	})
	for _, e := range dead {
		w.ecs.RemoveEntity(e)
	}
	w.occupancy.Reset()
	w.lifetimes.Reset()
}

// RegenerateOrganisms replaces every organism with fresh founders drawn
// from the current characteristic ranges.
func (w *World) RegenerateOrganisms() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.clearOrganisms()
	if err := w.populate(); err != nil {
		return err
	}
	slog.Debug("organisms regenerated", "population", w.occupancy.Population(), "tick", w.tick)
	return nil
}

// Place puts org on an empty cell.
func (w *World) Place(org *components.Organism, p systems.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.shape.InBounds(p) {
		return &genome.ValidationError{Field: "position", Reason: fmt.Sprintf("%v outside %dx%d grid", p, w.shape.Rows, w.shape.Cols)}
	}
	if w.occupancy.Occupied(p) {
		return &genome.ValidationError{Field: "position", Reason: fmt.Sprintf("%v already occupied", p)}
	}
	w.spawn(org, p, nil)
	return nil
}

// ClearOrganisms removes every organism.
func (w *World) ClearOrganisms() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clearOrganisms()
}

// SeedGenomes places up to n organisms decoded from genomes drawn by sample
// on random empty cells and returns how many were placed. Genomes of the wrong
// length or that do not decode are skipped.
func (w *World) SeedGenomes(n int, sample func() string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	var free []systems.Point
	for r := 0; r < w.shape.Rows; r++ {
		for c := 0; c < w.shape.Cols; c++ {
			p := systems.Point{Row: r, Col: c}
			if !w.occupancy.Occupied(p) {
				free = append(free, p)
			}
		}
	}
	w.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	placed := 0
	for _, p := range free {
		if placed == n {
			break
		}
		g := sample()
		if g == "" {
			break
		}
		if len(g) != w.params.Length {
			slog.Warn("skipping seed genome", "genome", g, "length", len(g), "want", w.params.Length)
			continue
		}
		org, err := components.FromGenome(genome.Genome(g), w.params)
		if err != nil {
			slog.Warn("skipping seed genome", "genome", g, "error", err)
			continue
		}
		w.spawn(org, p, nil)
		placed++
	}
	return placed
}
