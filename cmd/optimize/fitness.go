package main

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/darwinio/config"
	"github.com/pthm-cable/darwinio/game"
	"github.com/pthm-cable/darwinio/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastQuality    float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via stats callback each window
	hallOfFame    *telemetry.HallOfFame
	failed        bool // the config could not build a world
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness    float64
	quality    float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(cfg, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:    computeFitness(result, quality),
				quality:    quality,
				hallOfFame: result.hallOfFame,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run until extinction
// or maxTicks, whichever comes first. cfg is only read.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	w, err := game.NewWorld(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		result.failed = true
		return result
	}
	w.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	res := game.Run(context.Background(), w, game.Options{MaxTicks: fe.maxTicks, StopOnExtinction: true})
	result.survivalTicks = res.Ticks
	result.hallOfFame = w.HallOfFame()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(r *runResult, quality float64) float64 {
	if r.failed {
		return 0
	}
	return -(float64(r.survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.40
	qualityWeightStrategy  = 0.30
	qualityWeightLineages  = 0.30

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows below this population
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
// It rewards a steady population, coexisting reproductive strategies and
// many surviving founder lineages.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var strategySum, lineageSum float64
	counts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Population < qualityMinPop {
			continue
		}
		counts = append(counts, float64(w.Population))

		// Balanced strategies score 1, a monoculture scores 0.
		minority := math.Min(float64(w.Asexual), float64(w.Sexual))
		strategySum += 2 * minority / float64(w.Population)

		lineageSum += 1 - math.Exp(-float64(w.ActiveLineages)/5.0)
	}
	if len(counts) == 0 {
		return 0
	}
	n := float64(len(counts))

	stabilityScore := 0.0
	if len(counts) >= 2 {
		c := cv(counts)
		stabilityScore = math.Exp(-c * c)
	}

	quality := qualityWeightStability*stabilityScore +
		qualityWeightStrategy*strategySum/n +
		qualityWeightLineages*lineageSum/n

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
