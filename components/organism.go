package components

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/darwinio/genome"
	"github.com/pthm-cable/darwinio/neural"
)

// NumCharacteristics is the number of leading base pairs decoded as traits.
const NumCharacteristics = 4

// Reproductive types.
const (
	Asexual = 0
	Sexual  = 1
)

// Characteristics are the decoded heritable traits of an organism.
type Characteristics struct {
	PreferredTemperature int
	TrophicLevel         int
	EnergyRequirement    int
	ReproductiveType     int // 0 asexual, anything else sexual
}

// Vector returns the traits in genome order.
func (c Characteristics) Vector() []int {
	return []int{c.PreferredTemperature, c.TrophicLevel, c.EnergyRequirement, c.ReproductiveType}
}

// CharacteristicsFromVector is the inverse of Vector.
func CharacteristicsFromVector(v []int) (Characteristics, error) {
	if len(v) != NumCharacteristics {
		return Characteristics{}, &genome.ValidationError{
			Field:  "characteristics",
			Reason: fmt.Sprintf("need %d values, got %d", NumCharacteristics, len(v)),
		}
	}
	return Characteristics{
		PreferredTemperature: v[0],
		TrophicLevel:         v[1],
		EnergyRequirement:    v[2],
		ReproductiveType:     v[3],
	}, nil
}

// GenomeParams fixes how genomes are laid out and turned into controllers.
type GenomeParams struct {
	Length              int
	LettersPerCharacter int
	Structure           neural.Structure
	CenterWeights       bool
}

// Organism binds a genome to its decoded traits and derived controller.
// Values are never mutated after construction.
type Organism struct {
	genome          genome.Genome
	characteristics Characteristics
	controller      *neural.Controller
}

// FromCharacteristics encodes c into a fresh genome and builds the organism.
func FromCharacteristics(rng *rand.Rand, c Characteristics, p GenomeParams) (*Organism, error) {
	g, err := genome.EncodeCharacteristics(rng, c.Vector(), p.Length, p.LettersPerCharacter)
	if err != nil {
		return nil, fmt.Errorf("encoding characteristics: %w", err)
	}
	ctrl, err := deriveController(g, p)
	if err != nil {
		return nil, err
	}
	return &Organism{genome: g, characteristics: c, controller: ctrl}, nil
}

// FromGenome decodes g and builds the organism.
func FromGenome(g genome.Genome, p GenomeParams) (*Organism, error) {
	if err := genome.Validate(g, p.LettersPerCharacter); err != nil {
		return nil, err
	}
	vec, err := genome.DecodeCharacteristics(g, NumCharacteristics, p.LettersPerCharacter)
	if err != nil {
		return nil, fmt.Errorf("decoding characteristics: %w", err)
	}
	c, _ := CharacteristicsFromVector(vec)
	ctrl, err := deriveController(g, p)
	if err != nil {
		return nil, err
	}
	return &Organism{genome: g, characteristics: c, controller: ctrl}, nil
}

// deriveController feeds the decoded base pairs of g to the controller.
func deriveController(g genome.Genome, p GenomeParams) (*neural.Controller, error) {
	values, err := genome.Decode(g, p.LettersPerCharacter)
	if err != nil {
		return nil, fmt.Errorf("decoding genome: %w", err)
	}
	digits := make([]float64, len(values))
	for i, v := range values {
		digits[i] = float64(v)
	}
	if p.CenterWeights {
		digits = neural.CenterDigits(digits, genome.MaxBasePair(p.LettersPerCharacter))
	}
	return neural.NewController(digits, p.Structure)
}

// Reproduce builds an offspring from two parents. Neither parent is modified.
// Passing the same organism twice yields asexual reproduction.
func Reproduce(rng *rand.Rand, a, b *Organism, mutationFactor float64, p GenomeParams) (*Organism, error) {
	g, err := genome.Reproduce(rng, a.genome, b.genome, mutationFactor, p.LettersPerCharacter)
	if err != nil {
		return nil, fmt.Errorf("combining genomes: %w", err)
	}
	return FromGenome(g, p)
}

// Genome returns the organism's genome.
func (o *Organism) Genome() genome.Genome { return o.genome }

// Characteristics returns the decoded traits.
func (o *Organism) Characteristics() Characteristics { return o.characteristics }

// Controller returns the organism's controller.
func (o *Organism) Controller() *neural.Controller { return o.controller }

// IsAsexual reports whether the organism reproduces on its own.
func (o *Organism) IsAsexual() bool {
	return o.characteristics.ReproductiveType == Asexual
}
