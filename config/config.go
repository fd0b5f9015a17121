// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Genome     GenomeConfig     `yaml:"genome"`
	Neural     NeuralConfig     `yaml:"neural"`
	Rules      RulesConfig      `yaml:"rules"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// WorldConfig holds grid dimensions and the initial environmental fields.
type WorldConfig struct {
	Rows           int     `yaml:"rows"`
	Cols           int     `yaml:"cols"`
	MutationFactor float64 `yaml:"mutation_factor"` // probability of one point mutation per birth
	FoodAvg        float64 `yaml:"food_avg"`
	FoodStd        float64 `yaml:"food_std"`
	TempAvg        float64 `yaml:"temp_avg"`
	TempStd        float64 `yaml:"temp_std"`
	Generator      string  `yaml:"generator"`     // "normal" or "simplex"
	SimplexScale   float64 `yaml:"simplex_scale"` // noise frequency per cell (simplex only)
}

// maxLettersPerCharacter keeps a base pair value within an int.
const maxLettersPerCharacter = 15

// GenomeConfig holds genome codec parameters.
type GenomeConfig struct {
	Length              int `yaml:"length"`                // digits per genome
	LettersPerCharacter int `yaml:"letters_per_character"` // digits per base pair
}

// NeuralConfig holds controller parameters.
type NeuralConfig struct {
	Structure     []int `yaml:"structure"`      // layer widths, e.g. [2, 2]
	CenterWeights bool  `yaml:"center_weights"` // shift digits into a signed range before normalising
}

// RulesConfig holds the tunable constants of the per-tick rule.
type RulesConfig struct {
	TemperatureRadius      int     `yaml:"temperature_radius"`      // half-width of the ideal temperature window
	ReproductionMultiplier int     `yaml:"reproduction_multiplier"` // food must reach this multiple of energy requirement
	DecompositionDivisor   int     `yaml:"decomposition_divisor"`   // food returned on death = requirement / divisor
	MovementScale          float64 `yaml:"movement_scale"`          // controller output multiplier before truncation
	Sweep                  string  `yaml:"sweep"`                   // "in_place" or "double_buffered"
}

// Range is a half-open integer interval [Min, Max).
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// PopulationConfig holds the initial organism distribution parameters.
type PopulationConfig struct {
	OccupancyProbability float64 `yaml:"occupancy_probability"`
	TemperatureRange     Range   `yaml:"temperature_range"`
	TrophicRange         Range   `yaml:"trophic_range"`
	EnergyRange          Range   `yaml:"energy_range"`
	ReproductiveRange    Range   `yaml:"reproductive_range"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks         int `yaml:"window_ticks"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`

	HallOfFame HallOfFameConfig `yaml:"hall_of_fame"`
}

// HallOfFameConfig controls which dead organisms are remembered and how they rank.
type HallOfFameConfig struct {
	Size           int     `yaml:"size"`
	MinChildren    int     `yaml:"min_children"`
	MinAgeTicks    int     `yaml:"min_age_ticks"`
	ChildrenWeight float64 `yaml:"children_weight"`
	AgeWeight      float64 `yaml:"age_weight"`
}

// Sweep policy names.
const (
	SweepInPlace        = "in_place"
	SweepDoubleBuffered = "double_buffered"
)

// Field generator names.
const (
	GeneratorNormal  = "normal"
	GeneratorSimplex = "simplex"
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Neural.Structure = append([]int(nil), c.Neural.Structure...)
	return &clone
}

// Validate checks cross-field constraints that the engine relies on.
func (c *Config) Validate() error {
	var errs []error

	if c.World.Rows <= 0 || c.World.Cols <= 0 {
		errs = append(errs, fmt.Errorf("world: rows and cols must be positive, got %dx%d", c.World.Rows, c.World.Cols))
	}
	if c.World.MutationFactor < 0 || c.World.MutationFactor > 1 {
		errs = append(errs, fmt.Errorf("world: mutation_factor must be in [0,1], got %v", c.World.MutationFactor))
	}
	switch c.World.Generator {
	case GeneratorNormal, GeneratorSimplex:
	default:
		errs = append(errs, fmt.Errorf("world: unknown generator %q", c.World.Generator))
	}

	if c.Genome.LettersPerCharacter <= 0 || c.Genome.LettersPerCharacter > maxLettersPerCharacter {
		errs = append(errs, fmt.Errorf("genome: letters_per_character must be in [1,%d], got %d",
			maxLettersPerCharacter, c.Genome.LettersPerCharacter))
	} else if c.Genome.Length%c.Genome.LettersPerCharacter != 0 {
		errs = append(errs, fmt.Errorf("genome: length %d is not a multiple of letters_per_character %d",
			c.Genome.Length, c.Genome.LettersPerCharacter))
	}

	s := c.Neural.Structure
	if len(s) < 2 {
		errs = append(errs, fmt.Errorf("neural: structure needs at least two layers, got %v", s))
	} else if s[0] != 2 || s[len(s)-1] != 2 {
		// inputs are (food direction, temperature direction), outputs are (dx, dy)
		errs = append(errs, fmt.Errorf("neural: structure must start and end with width 2, got %v", s))
	}

	if c.Rules.TemperatureRadius < 0 {
		errs = append(errs, fmt.Errorf("rules: temperature_radius must be non-negative"))
	}
	if c.Rules.ReproductionMultiplier < 1 {
		errs = append(errs, fmt.Errorf("rules: reproduction_multiplier must be at least 1"))
	}
	if c.Rules.DecompositionDivisor < 1 {
		errs = append(errs, fmt.Errorf("rules: decomposition_divisor must be at least 1"))
	}
	switch c.Rules.Sweep {
	case SweepInPlace, SweepDoubleBuffered:
	default:
		errs = append(errs, fmt.Errorf("rules: unknown sweep %q", c.Rules.Sweep))
	}

	p := c.Population
	if p.OccupancyProbability < 0 || p.OccupancyProbability > 1 {
		errs = append(errs, fmt.Errorf("population: occupancy_probability must be in [0,1]"))
	}
	for name, r := range map[string]Range{
		"temperature_range":  p.TemperatureRange,
		"trophic_range":      p.TrophicRange,
		"energy_range":       p.EnergyRange,
		"reproductive_range": p.ReproductiveRange,
	} {
		if r.Max <= r.Min {
			errs = append(errs, fmt.Errorf("population: %s is empty [%d,%d)", name, r.Min, r.Max))
		}
	}

	if c.Telemetry.WindowTicks < 1 {
		errs = append(errs, fmt.Errorf("telemetry: window_ticks must be at least 1"))
	}
	if c.Telemetry.HallOfFame.Size < 0 {
		errs = append(errs, fmt.Errorf("telemetry: hall_of_fame.size must be non-negative"))
	}

	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
