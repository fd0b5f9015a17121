package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Census at window end
	Population        int     `csv:"population"`
	Asexual           int     `csv:"asexual"`
	Sexual            int     `csv:"sexual"`
	ReproductionRatio float64 `csv:"reproduction_ratio"` // NaN without sexual organisms

	// Events during window
	Births             int `csv:"births"`
	StarvationDeaths   int `csv:"starvation_deaths"`
	TemperatureDeaths  int `csv:"temperature_deaths"`
	Moves              int `csv:"moves"`
	LostNoPartner      int `csv:"lost_no_partner"`
	LostTargetOccupied int `csv:"lost_target_occupied"`
	LostInvalidGenome  int `csv:"lost_invalid_genome"`

	// Environment
	FoodTotal float64 `csv:"food_total"`
	FoodMean  float64 `csv:"food_mean"`
	FoodStd   float64 `csv:"food_std"`
	TempMean  float64 `csv:"temp_mean"`
	TempStd   float64 `csv:"temp_std"`

	// Trait distribution of the living population
	EnergyMean        float64 `csv:"energy_mean"`
	EnergyP10         float64 `csv:"energy_p10"`
	EnergyP50         float64 `csv:"energy_p50"`
	EnergyP90         float64 `csv:"energy_p90"`
	PreferredTempMean float64 `csv:"preferred_temp_mean"`
	PreferredTempStd  float64 `csv:"preferred_temp_std"`

	// Lineage
	MaxGeneration  int     `csv:"max_generation"`
	MeanGeneration float64 `csv:"mean_generation"`
	ActiveLineages int     `csv:"active_lineages"`
}

// Census is the world state sampled when a window is flushed.
type Census struct {
	Asexual, Sexual int

	Food, Temp []float64 // one value per cell

	// One value per living organism
	EnergyRequirements    []float64
	PreferredTemperatures []float64
	Generations           []float64

	ActiveLineages int
}

// Population is the number of living organisms.
func (c Census) Population() int { return c.Asexual + c.Sexual }

// ReproductionRatio is asexual over sexual count, NaN if there are no sexual organisms.
func ReproductionRatio(asexual, sexual int) float64 {
	if sexual == 0 {
		return math.NaN()
	}
	return float64(asexual) / float64(sexual)
}

// Summary holds the moments and percentiles of a sample.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes a Summary. An empty sample yields zeros and a single
// value has zero spread.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	return s
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}

// ratioAttr keeps NaN out of JSON output, which cannot encode it.
func ratioAttr(key string, v float64) slog.Attr {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return slog.String(key, "NaN")
	}
	return slog.Float64(key, v)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("asexual", s.Asexual),
		slog.Int("sexual", s.Sexual),
		ratioAttr("reproduction_ratio", s.ReproductionRatio),
		slog.Int("births", s.Births),
		slog.Int("starvation_deaths", s.StarvationDeaths),
		slog.Int("temperature_deaths", s.TemperatureDeaths),
		slog.Int("moves", s.Moves),
		slog.Int("lost_no_partner", s.LostNoPartner),
		slog.Int("lost_target_occupied", s.LostTargetOccupied),
		slog.Int("lost_invalid_genome", s.LostInvalidGenome),
		slog.Float64("food_total", s.FoodTotal),
		slog.Float64("food_mean", s.FoodMean),
		slog.Float64("food_std", s.FoodStd),
		slog.Float64("temp_mean", s.TempMean),
		slog.Float64("temp_std", s.TempStd),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("preferred_temp_mean", s.PreferredTempMean),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Float64("mean_generation", s.MeanGeneration),
		slog.Int("active_lineages", s.ActiveLineages),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
