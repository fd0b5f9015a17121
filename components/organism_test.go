package components

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/darwinio/genome"
	"github.com/pthm-cable/darwinio/neural"
)

func testParams() GenomeParams {
	return GenomeParams{
		Length:              48,
		LettersPerCharacter: 3,
		Structure:           neural.Structure{2, 2},
	}
}

func TestFromCharacteristics(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := Characteristics{PreferredTemperature: 300, TrophicLevel: 2, EnergyRequirement: 450, ReproductiveType: Sexual}

	o, err := FromCharacteristics(rng, c, testParams())
	if err != nil {
		t.Fatalf("FromCharacteristics failed: %v", err)
	}
	if o.Characteristics() != c {
		t.Errorf("characteristics = %+v, want %+v", o.Characteristics(), c)
	}
	if o.Genome().Len() != 48 {
		t.Errorf("genome length = %d, want 48", o.Genome().Len())
	}
	if o.Controller() == nil {
		t.Fatal("controller not derived")
	}
	if got := len(o.Controller().Weights()); got != 4 {
		t.Errorf("controller has %d weights, want 4", got)
	}
	if o.IsAsexual() {
		t.Error("sexual organism reported as asexual")
	}
}

func TestFromGenomeMatchesEncoding(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := Characteristics{PreferredTemperature: 4095, TrophicLevel: 0, EnergyRequirement: 17, ReproductiveType: Asexual}

	a, err := FromCharacteristics(rng, c, testParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromGenome(a.Genome(), testParams())
	if err != nil {
		t.Fatalf("FromGenome failed: %v", err)
	}
	if b.Characteristics() != c {
		t.Errorf("decoded %+v, want %+v", b.Characteristics(), c)
	}
	wa, wb := a.Controller().Weights(), b.Controller().Weights()
	for i := range wa {
		if wa[i] != wb[i] {
			t.Fatalf("controllers differ: %v vs %v", wa, wb)
		}
	}
}

func TestFromCharacteristicsRejectsOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := Characteristics{PreferredTemperature: 5000}
	if _, err := FromCharacteristics(rng, c, testParams()); !errors.Is(err, genome.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestFromGenomeErrors(t *testing.T) {
	tests := []struct {
		name string
		g    genome.Genome
		want error
	}{
		{"non hex", "xyz000000000", genome.ErrValidation},
		{"partial base pair", "0000000000000", genome.ErrValidation},
		{"too short for traits", "000000", genome.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromGenome(tt.g, testParams()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromGenomeInsufficientCapacity(t *testing.T) {
	p := testParams()
	p.Structure = neural.Structure{2, 8, 2}
	// 4 base pairs cover the traits but not 32 weights
	_, err := FromGenome("000111222333", p)
	if !errors.Is(err, genome.ErrInsufficientCapacity) {
		t.Errorf("expected ErrInsufficientCapacity, got %v", err)
	}
}

func TestReproduceIsPure(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ranges := CharacteristicRanges{
		Temperature:  Range{200, 400},
		Trophic:      Range{0, 4},
		Energy:       Range{100, 1000},
		Reproductive: Range{0, 2},
	}
	a, err := RandomOrganism(rng, ranges, testParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := RandomOrganism(rng, ranges, testParams())
	if err != nil {
		t.Fatal(err)
	}
	ga, gb := a.Genome(), b.Genome()

	child, err := Reproduce(rng, a, b, 1, testParams())
	if err != nil {
		t.Fatalf("Reproduce failed: %v", err)
	}
	if a.Genome() != ga || b.Genome() != gb {
		t.Error("Reproduce modified a parent")
	}
	if child.Genome().Len() != ga.Len() {
		t.Errorf("child genome length = %d, want %d", child.Genome().Len(), ga.Len())
	}
}

func TestAsexualReproductionWithoutMutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := Characteristics{PreferredTemperature: 300, TrophicLevel: 1, EnergyRequirement: 200, ReproductiveType: Asexual}
	parent, err := FromCharacteristics(rng, c, testParams())
	if err != nil {
		t.Fatal(err)
	}

	child, err := Reproduce(rng, parent, parent, 0, testParams())
	if err != nil {
		t.Fatal(err)
	}
	if child.Genome() != parent.Genome() {
		t.Errorf("clone differs from parent: %q vs %q", child.Genome(), parent.Genome())
	}
}

func TestRangesDrawWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ranges := CharacteristicRanges{
		Temperature:  Range{30, 150},
		Trophic:      Range{0, 4},
		Energy:       Range{100, 1000},
		Reproductive: Range{0, 2},
	}
	for i := 0; i < 1000; i++ {
		c := ranges.Draw(rng)
		if c.PreferredTemperature < 30 || c.PreferredTemperature >= 150 {
			t.Fatalf("temperature %d outside [30,150)", c.PreferredTemperature)
		}
		if c.ReproductiveType != Asexual && c.ReproductiveType != Sexual {
			t.Fatalf("reproductive type %d outside [0,2)", c.ReproductiveType)
		}
		if c.EnergyRequirement < 100 || c.EnergyRequirement >= 1000 {
			t.Fatalf("energy %d outside [100,1000)", c.EnergyRequirement)
		}
	}
}

func TestCenterWeightsProducesSignedWeights(t *testing.T) {
	p := testParams()
	p.CenterWeights = true
	// Traits 0 and 4095 land on opposite sides of zero once centred.
	o, err := FromGenome("000fff000fff"+"000000000000000000000000000000000000", p)
	if err != nil {
		t.Fatal(err)
	}
	w := o.Controller().Weights()
	if w[0] >= 0 || w[1] <= 0 {
		t.Errorf("expected signed weights, got %v", w)
	}
}
