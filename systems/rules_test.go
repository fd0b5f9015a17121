package systems

import (
	"testing"

	"github.com/pthm-cable/darwinio/components"
)

func TestClassify(t *testing.T) {
	r := DefaultRules()
	c := components.Characteristics{PreferredTemperature: 300, EnergyRequirement: 50}

	tests := []struct {
		name       string
		food, temp int
		state      CellState
		cause      DeathCause
	}{
		{"fed", 50, 300, CellFed, DeathNone},
		{"upper temperature bound", 80, 450, CellFed, DeathNone},
		{"lower temperature bound", 80, 150, CellFed, DeathNone},
		{"too hot", 80, 451, CellStarved, DeathTemperature},
		{"too cold", 80, 149, CellStarved, DeathTemperature},
		{"hungry", 49, 300, CellStarved, DeathStarvation},
		{"hungry and cold", 0, 0, CellStarved, DeathStarvation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, cause := r.Classify(c, tt.food, tt.temp)
			if state != tt.state || cause != tt.cause {
				t.Errorf("Classify(food=%d, temp=%d) = %v/%d, want %v/%d",
					tt.food, tt.temp, state, cause, tt.state, tt.cause)
			}
		})
	}
}

func TestCanReproduce(t *testing.T) {
	r := DefaultRules()
	c := components.Characteristics{PreferredTemperature: 300, EnergyRequirement: 5}
	if !r.CanReproduce(c, 10, 300) {
		t.Error("food at exactly twice the requirement should allow reproduction")
	}
	if r.CanReproduce(c, 9, 300) {
		t.Error("reproduced without surplus")
	}
	if r.CanReproduce(c, 100, 600) {
		t.Error("reproduced at the wrong temperature")
	}

	r.ReproductionMultiplier = 3
	if r.CanReproduce(c, 10, 300) {
		t.Error("multiplier not honoured")
	}
}

func TestDecompositionYield(t *testing.T) {
	r := DefaultRules()
	tests := []struct{ energy, want int }{
		{5, 0},
		{10, 1},
		{457, 45},
	}
	for _, tt := range tests {
		c := components.Characteristics{EnergyRequirement: tt.energy}
		if got := r.DecompositionYield(c); got != tt.want {
			t.Errorf("DecompositionYield(%d) = %d, want %d", tt.energy, got, tt.want)
		}
	}

	r.DecompositionDivisor = 0
	if got := r.DecompositionYield(components.Characteristics{EnergyRequirement: 100}); got != 0 {
		t.Errorf("zero divisor yielded %d", got)
	}
}

func TestDisplacement(t *testing.T) {
	tests := []struct {
		name   string
		scale  float64
		output []float64
		dr, dc int
	}{
		{"reference truncation", 1, []float64{0.99, -0.99}, 0, 0},
		{"saturated", 1, []float64{1, -1}, 1, -1},
		{"scaled", 3, []float64{0.7, -0.4}, 2, -1},
		{"short output", 2, []float64{0.9}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			r.MovementScale = tt.scale
			dr, dc := r.Displacement(tt.output)
			if dr != tt.dr || dc != tt.dc {
				t.Errorf("Displacement(%v) = (%d,%d), want (%d,%d)", tt.output, dr, dc, tt.dr, tt.dc)
			}
		})
	}
}

func TestSweepPolicies(t *testing.T) {
	es := testEntities(1)
	live := Layers{
		Food:      NewUniformDistribution(2, 2, 10),
		Temp:      NewUniformDistribution(2, 2, 300),
		Occupancy: NewOccupancyGrid(2, 2),
	}
	live.Occupancy.Set(Point{0, 0}, es[0])

	if view := (InPlace{}).Begin(live); view.Food != live.Food {
		t.Error("InPlace should read the live grids")
	}

	db := &DoubleBuffered{}
	view := db.Begin(live)
	live.Food.Add(Point{0, 0}, -10)
	live.Occupancy.Clear(Point{0, 0})
	if view.Food.At(Point{0, 0}) != 10 || !view.Occupancy.Occupied(Point{0, 0}) {
		t.Error("DoubleBuffered view changed with live writes")
	}

	view = db.Begin(live)
	if view.Food.At(Point{0, 0}) != 0 || view.Occupancy.Occupied(Point{0, 0}) {
		t.Error("DoubleBuffered did not refresh at the next tick")
	}
}

func TestNewSweepPolicy(t *testing.T) {
	for _, name := range []string{"", "in_place", "double_buffered"} {
		if _, err := NewSweepPolicy(name); err != nil {
			t.Errorf("NewSweepPolicy(%q) failed: %v", name, err)
		}
	}
	if _, err := NewSweepPolicy("diagonal"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
