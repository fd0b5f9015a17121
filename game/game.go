package game

import (
	"context"
	"log/slog"
)

// StopReason says why Run returned.
type StopReason string

const (
	StopMaxTicks   StopReason = "max_ticks"
	StopExtinction StopReason = "extinction"
	StopCancelled  StopReason = "cancelled"
)

// RunResult summarises a finished batch run.
type RunResult struct {
	Reason     StopReason
	Ticks      int32
	Population int
	Births     int
	Deaths     int
}

// Run updates w until a stop condition in opts holds or ctx is cancelled.
func Run(ctx context.Context, w *World, opts Options) RunResult {
	reason := StopCancelled
	for ctx.Err() == nil {
		if opts.MaxTicks > 0 && w.Tick() >= opts.MaxTicks {
			reason = StopMaxTicks
			break
		}
		if opts.StopOnExtinction && w.Population() == 0 {
			reason = StopExtinction
			break
		}

		w.UpdateState()

		if tick := w.Tick(); opts.ProgressEvery > 0 && tick%opts.ProgressEvery == 0 {
			slog.Info("progress", "tick", tick, "population", w.Population())
		}
	}

	res := RunResult{
		Reason:     reason,
		Ticks:      w.Tick(),
		Population: w.Population(),
		Births:     w.collector.TotalBirths(),
		Deaths:     w.collector.TotalDeaths(),
	}
	slog.Info("run finished",
		"reason", res.Reason,
		"ticks", res.Ticks,
		"population", res.Population,
		"births", res.Births,
		"deaths", res.Deaths,
	)
	return res
}
