package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/darwinio/config"
)

// HallEntry is a remembered genome of a successful organism.
type HallEntry struct {
	Genome     string  `json:"genome"`
	Fitness    float64 `json:"fitness"`
	ID         uint32  `json:"id"`
	FounderID  uint32  `json:"founder_id"`
	Generation uint32  `json:"generation"`
	Children   int     `json:"children"`
	AgeTicks   int32   `json:"age_ticks"`
	Asexual    bool    `json:"asexual"`
}

// HallOfFame keeps the fittest genomes seen so far, sorted by descending fitness.
type HallOfFame struct {
	entries []HallEntry
	cfg     config.HallOfFameConfig
	rng     *rand.Rand
}

// NewHallOfFame creates an empty hall.
func NewHallOfFame(cfg config.HallOfFameConfig, rng *rand.Rand) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, cfg.Size),
		cfg:     cfg,
		rng:     rng,
	}
}

// Consider evaluates a dead organism for entry and reports whether it was added.
func (hof *HallOfFame) Consider(genome string, asexual bool, id uint32, stats *LifetimeStats, deathTick int32) bool {
	if stats == nil || hof.cfg.Size == 0 {
		return false
	}
	age := stats.Age(deathTick)
	if stats.Children < hof.cfg.MinChildren && int(age) < hof.cfg.MinAgeTicks {
		return false
	}

	entry := HallEntry{
		Genome:     genome,
		Fitness:    float64(stats.Children)*hof.cfg.ChildrenWeight + float64(age)*hof.cfg.AgeWeight,
		ID:         id,
		FounderID:  stats.FounderID,
		Generation: stats.Generation,
		Children:   stats.Children,
		AgeTicks:   age,
		Asexual:    asexual,
	}
	return hof.insert(entry)
}

func (hof *HallOfFame) insert(entry HallEntry) bool {
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})
	if idx >= hof.cfg.Size {
		return false
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry
	if len(hof.entries) > hof.cfg.Size {
		hof.entries = hof.entries[:hof.cfg.Size]
	}
	return true
}

// Sample picks a genome by tournament selection, or "" if the hall is empty.
func (hof *HallOfFame) Sample() string {
	if len(hof.entries) == 0 {
		return ""
	}
	const tournamentSize = 3
	best := -1
	for i := 0; i < tournamentSize; i++ {
		idx := hof.rng.Intn(len(hof.entries))
		if best < 0 || hof.entries[idx].Fitness > hof.entries[best].Fitness {
			best = idx
		}
	}
	return hof.entries[best].Genome
}

// Entries returns a copy of the hall, fittest first.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.entries...)
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int { return len(hof.entries) }

// TopFitness returns the best fitness, or 0 if the hall is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall as a list, fittest first.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall written by MarshalJSON.
func LoadHallOfFameFromFile(path string, cfg config.HallOfFameConfig, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	if len(entries) > cfg.Size {
		cfg.Size = len(entries)
	}
	hof := NewHallOfFame(cfg, rng)
	for _, e := range entries {
		hof.insert(e)
	}
	return hof, nil
}
