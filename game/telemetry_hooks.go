package game

import (
	"log/slog"

	"github.com/pthm-cable/darwinio/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (w *World) flushTelemetry() {
	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	w.perfCollector.StartPhase(telemetry.PhaseCensus)
	census := w.census()
	w.perfCollector.StartPhase(telemetry.PhaseTelemetry)

	stats := w.collector.Flush(w.tick, census)
	w.lastStats = &stats
	perfStats := w.perfCollector.Stats()

	if w.statsCallback != nil {
		w.statsCallback(stats)
	}

	if w.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if w.outputManager != nil {
		if err := w.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := w.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range w.bookmarkDetector.Check(stats) {
		if w.logStats {
			bm.LogBookmark()
		}
		if w.outputManager != nil {
			if err := w.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// census samples the grids and the living population.
func (w *World) census() telemetry.Census {
	census := telemetry.Census{
		Food:           w.food.Float64s(),
		Temp:           w.temp.Float64s(),
		ActiveLineages: w.lifetimes.ActiveLineageCount(),
	}

	query := w.organismFilter.Query()
	for query.Next() {
		org, lineage := query.Get()
		c := org.Characteristics()
		if org.IsAsexual() {
			census.Asexual++
		} else {
			census.Sexual++
		}
		census.EnergyRequirements = append(census.EnergyRequirements, float64(c.EnergyRequirement))
		census.PreferredTemperatures = append(census.PreferredTemperatures, float64(c.PreferredTemperature))
		census.Generations = append(census.Generations, float64(lineage.Generation))
	}
	return census
}
