// Package game owns the simulated world: the three grids, the organism
// arena and the per-tick update.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/darwinio/components"
	"github.com/pthm-cable/darwinio/config"
	"github.com/pthm-cable/darwinio/genome"
	"github.com/pthm-cable/darwinio/neural"
	"github.com/pthm-cable/darwinio/systems"
	"github.com/pthm-cable/darwinio/telemetry"
)

// World aggregates the food, temperature and organism grids. Organisms live
// in an ECS world; occupancy cells hold their entity handles.
//
// All exported methods are safe to call from multiple goroutines, but only
// one update runs at a time.
type World struct {
	mu sync.Mutex

	cfg *config.Config
	rng *rand.Rand

	// ECS
	ecs            *ecs.World
	organismMapper *ecs.Map2[components.Organism, components.Lineage]
	organismFilter *ecs.Filter2[components.Organism, components.Lineage]
	orgMap         *ecs.Map1[components.Organism]
	lineageMap     *ecs.Map1[components.Lineage]

	// Grids
	shape     systems.Shape
	food      *systems.Distribution
	temp      *systems.Distribution
	occupancy *systems.OccupancyGrid

	// Rules and parameters
	params               components.GenomeParams
	rules                systems.Rules
	policy               systems.SweepPolicy
	ranges               components.CharacteristicRanges
	occupancyProbability float64
	mutationFactor       float64

	// State
	tick   int32
	nextID uint32

	// Telemetry
	collector        *telemetry.Collector
	lifetimes        *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	lastStats        *telemetry.WindowStats
}

// NewWorld builds a world from cfg: environment grids drawn from the
// configured generator and organisms placed per cell with the configured
// occupancy probability.
func NewWorld(cfg *config.Config, rng *rand.Rand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()
	policy, err := systems.NewSweepPolicy(cfg.Rules.Sweep)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	w := &World{
		cfg: cfg,
		rng: rng,

		ecs:            world,
		organismMapper: ecs.NewMap2[components.Organism, components.Lineage](world),
		organismFilter: ecs.NewFilter2[components.Organism, components.Lineage](world),
		orgMap:         ecs.NewMap1[components.Organism](world),
		lineageMap:     ecs.NewMap1[components.Lineage](world),

		shape:     systems.Shape{Rows: cfg.World.Rows, Cols: cfg.World.Cols},
		occupancy: systems.NewOccupancyGrid(cfg.World.Rows, cfg.World.Cols),

		params: components.GenomeParams{
			Length:              cfg.Genome.Length,
			LettersPerCharacter: cfg.Genome.LettersPerCharacter,
			Structure:           neural.Structure(cfg.Neural.Structure),
			CenterWeights:       cfg.Neural.CenterWeights,
		},
		rules:                systems.RulesFromConfig(cfg.Rules),
		policy:               policy,
		ranges:               rangesFromConfig(cfg.Population),
		occupancyProbability: cfg.Population.OccupancyProbability,
		mutationFactor:       cfg.World.MutationFactor,
		nextID:               1,

		collector:        telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		lifetimes:        telemetry.NewLifetimeTracker(),
		hallOfFame:       telemetry.NewHallOfFame(cfg.Telemetry.HallOfFame, rng),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
	}

	w.food = w.generateField(cfg.World.FoodAvg, cfg.World.FoodStd)
	w.temp = w.generateField(cfg.World.TempAvg, cfg.World.TempStd)

	if err := w.populate(); err != nil {
		return nil, err
	}
	return w, nil
}

func rangesFromConfig(p config.PopulationConfig) components.CharacteristicRanges {
	return components.CharacteristicRanges{
		Temperature:  components.Range{Min: p.TemperatureRange.Min, Max: p.TemperatureRange.Max},
		Trophic:      components.Range{Min: p.TrophicRange.Min, Max: p.TrophicRange.Max},
		Energy:       components.Range{Min: p.EnergyRange.Min, Max: p.EnergyRange.Max},
		Reproductive: components.Range{Min: p.ReproductiveRange.Min, Max: p.ReproductiveRange.Max},
	}
}

func (w *World) generateField(avg, std float64) *systems.Distribution {
	if w.cfg.World.Generator == config.GeneratorSimplex {
		return systems.GenerateSimplex(w.rng, w.shape.Rows, w.shape.Cols, avg, std, w.cfg.World.SimplexScale)
	}
	return systems.GenerateNormal(w.rng, w.shape.Rows, w.shape.Cols, avg, std)
}

// SetOutputManager routes flushed windows, bookmarks and perf samples to CSV.
func (w *World) SetOutputManager(om *telemetry.OutputManager) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outputManager = om
}

// SetLogStats enables slog output of every flushed window.
func (w *World) SetLogStats(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logStats = enabled
}

// SetStatsCallback registers fn to receive every flushed window.
func (w *World) SetStatsCallback(fn func(telemetry.WindowStats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statsCallback = fn
}

// Shape returns the grid extent.
func (w *World) Shape() systems.Shape { return w.shape }

// Tick returns the number of completed updates.
func (w *World) Tick() int32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

// Population returns the number of occupied cells.
func (w *World) Population() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.occupancy.Population()
}

// ReproductionRatio returns asexual over sexual organism count, NaN if
// there are no sexual organisms.
func (w *World) ReproductionRatio() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	asexual, sexual := w.strategyCounts()
	return telemetry.ReproductionRatio(asexual, sexual)
}

func (w *World) strategyCounts() (asexual, sexual int) {
	query := w.organismFilter.Query()
	for query.Next() {
		org, _ := query.Get()
		if org.IsAsexual() {
			asexual++
		} else {
			sexual++
		}
	}
	return asexual, sexual
}

// MutationFactor returns the current mutation probability.
func (w *World) MutationFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mutationFactor
}

// SetMutationFactor replaces the mutation probability used for offspring.
func (w *World) SetMutationFactor(m float64) error {
	if m < 0 || m > 1 {
		return &genome.ValidationError{Field: "mutation_factor", Reason: fmt.Sprintf("%v outside [0,1]", m)}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mutationFactor = m
	return nil
}

// SetFoodDistribution replaces the food grid. The shape must match the world.
func (w *World) SetFoodDistribution(d *systems.Distribution) error {
	if err := w.checkShape("food", d); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.food = d.Clone()
	slog.Debug("food distribution replaced", "total", w.food.Sum())
	return nil
}

// SetTempDistribution replaces the temperature grid. The shape must match the world.
func (w *World) SetTempDistribution(d *systems.Distribution) error {
	if err := w.checkShape("temperature", d); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.temp = d.Clone()
	slog.Debug("temperature distribution replaced")
	return nil
}

func (w *World) checkShape(name string, d *systems.Distribution) error {
	if d == nil || !d.SameShape(w.shape) || len(d.Data) != w.shape.Len() {
		got := systems.Shape{}
		if d != nil {
			got = d.Shape
		}
		return &genome.ValidationError{
			Field:  name + "_distribution",
			Reason: fmt.Sprintf("shape %dx%d does not match world %dx%d", got.Rows, got.Cols, w.shape.Rows, w.shape.Cols),
		}
	}
	return nil
}

// FoodDistribution returns a copy of the food grid.
func (w *World) FoodDistribution() *systems.Distribution {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.food.Clone()
}

// TempDistribution returns a copy of the temperature grid.
func (w *World) TempDistribution() *systems.Distribution {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.temp.Clone()
}

// SetOrganismRanges replaces the characteristic ranges and placement
// probability used by RegenerateOrganisms.
func (w *World) SetOrganismRanges(ranges components.CharacteristicRanges, occupancyProbability float64) error {
	if occupancyProbability < 0 || occupancyProbability > 1 {
		return &genome.ValidationError{Field: "occupancy_probability", Reason: fmt.Sprintf("%v outside [0,1]", occupancyProbability)}
	}
	limit := genome.MaxBasePair(w.params.LettersPerCharacter)
	for name, r := range map[string]components.Range{
		"temperature":  ranges.Temperature,
		"trophic":      ranges.Trophic,
		"energy":       ranges.Energy,
		"reproductive": ranges.Reproductive,
	} {
		if r.Min < 0 || r.Max <= r.Min || r.Max-1 > limit {
			return &genome.ValidationError{Field: name + "_range", Reason: fmt.Sprintf("[%d,%d) not within [0,%d]", r.Min, r.Max, limit)}
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ranges = ranges
	w.occupancyProbability = occupancyProbability
	return nil
}

// SetSweepPolicy swaps how the next ticks read the grids.
func (w *World) SetSweepPolicy(p systems.SweepPolicy) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.policy = p
}

// HallOfFame returns the hall of fame of dead organisms.
func (w *World) HallOfFame() *telemetry.HallOfFame { return w.hallOfFame }

// Collector returns the event collector.
func (w *World) Collector() *telemetry.Collector { return w.collector }

// LastStats returns the most recently flushed window, or nil.
func (w *World) LastStats() *telemetry.WindowStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastStats
}

func (w *World) layers() systems.Layers {
	return systems.Layers{Food: w.food, Temp: w.temp, Occupancy: w.occupancy}
}
