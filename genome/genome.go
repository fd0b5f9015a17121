// Package genome encodes organism characteristics as hexadecimal digit strings
// and produces offspring genomes by crossover and point mutation.
//
// A genome is read in fixed-width base pairs of lettersPerCharacter digits.
// Each base pair decodes to an integer in [0, 16^lettersPerCharacter-1].
package genome

import (
	"math/rand"
	"strconv"
	"strings"
)

const hexDigits = "0123456789abcdef"

// MaxLettersPerCharacter is the widest base pair whose value fits in an int.
const MaxLettersPerCharacter = 15

// Genome is an immutable sequence of lowercase hexadecimal digits.
type Genome string

// Len returns the number of digits.
func (g Genome) Len() int { return len(g) }

// BasePair returns the i-th base pair as a substring.
func (g Genome) BasePair(i, lettersPerCharacter int) string {
	return string(g[i*lettersPerCharacter : (i+1)*lettersPerCharacter])
}

// checkWidth rejects base pair widths outside [1, MaxLettersPerCharacter].
func checkWidth(lettersPerCharacter int) error {
	if lettersPerCharacter <= 0 || lettersPerCharacter > MaxLettersPerCharacter {
		return invalid("letters_per_character", "must be in [1,%d], got %d", MaxLettersPerCharacter, lettersPerCharacter)
	}
	return nil
}

// MaxBasePair returns the largest value a base pair of the given width can hold.
// The width must be at most MaxLettersPerCharacter.
func MaxBasePair(lettersPerCharacter int) int {
	max := 1
	for i := 0; i < lettersPerCharacter; i++ {
		max *= 16
	}
	return max - 1
}

// Random returns length digits drawn uniformly from the hexadecimal alphabet.
func Random(rng *rand.Rand, length int) Genome {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(hexDigits[rng.Intn(16)])
	}
	return Genome(b.String())
}

// EncodeCharacteristics writes one zero-padded base pair per characteristic
// followed by random filler digits up to totalLength.
func EncodeCharacteristics(rng *rand.Rand, vector []int, totalLength, lettersPerCharacter int) (Genome, error) {
	if err := checkWidth(lettersPerCharacter); err != nil {
		return "", err
	}
	if need := len(vector) * lettersPerCharacter; totalLength < need {
		return "", invalid("total_length", "%d cannot hold %d characteristics of width %d", totalLength, len(vector), lettersPerCharacter)
	}
	max := MaxBasePair(lettersPerCharacter)
	for i, v := range vector {
		if v < 0 || v > max {
			return "", invalid("characteristic", "index %d value %d outside [0,%d]", i, v, max)
		}
	}

	var b strings.Builder
	b.Grow(totalLength)
	for _, v := range vector {
		digits := strconv.FormatInt(int64(v), 16)
		b.WriteString(strings.Repeat("0", lettersPerCharacter-len(digits)))
		b.WriteString(digits)
	}
	b.WriteString(string(Random(rng, totalLength-b.Len())))
	return Genome(b.String()), nil
}

// DecodeCharacteristics parses the leading count base pairs of g.
func DecodeCharacteristics(g Genome, count, lettersPerCharacter int) ([]int, error) {
	if err := checkWidth(lettersPerCharacter); err != nil {
		return nil, err
	}
	if count < 0 || count*lettersPerCharacter > len(g) {
		return nil, invalid("genome", "%d base pairs of width %d exceed length %d", count, lettersPerCharacter, len(g))
	}

	values := make([]int, count)
	for i := range values {
		v, err := strconv.ParseUint(g.BasePair(i, lettersPerCharacter), 16, 64)
		if err != nil {
			return nil, invalid("genome", "base pair %d %q is not hexadecimal", i, g.BasePair(i, lettersPerCharacter))
		}
		values[i] = int(v)
	}
	return values, nil
}

// Decode parses every complete base pair of g. Trailing digits that do not
// fill a base pair are ignored.
func Decode(g Genome, lettersPerCharacter int) ([]int, error) {
	if err := checkWidth(lettersPerCharacter); err != nil {
		return nil, err
	}
	return DecodeCharacteristics(g, len(g)/lettersPerCharacter, lettersPerCharacter)
}

// Validate reports whether g is a well-formed genome of the given base pair width.
func Validate(g Genome, lettersPerCharacter int) error {
	if err := checkWidth(lettersPerCharacter); err != nil {
		return err
	}
	if len(g)%lettersPerCharacter != 0 {
		return invalid("genome", "length %d is not a multiple of %d", len(g), lettersPerCharacter)
	}
	for i := 0; i < len(g); i++ {
		if strings.IndexByte(hexDigits, g[i]) < 0 {
			return invalid("genome", "digit %d %q is not lowercase hexadecimal", i, g[i])
		}
	}
	return nil
}

// Reproduce combines two parent genomes.
// Each base pair is taken from a or b with equal probability. Then, with
// probability mutationFactor, exactly one base pair is replaced by a random
// value different from the one chosen by crossover.
func Reproduce(rng *rand.Rand, a, b Genome, mutationFactor float64, lettersPerCharacter int) (Genome, error) {
	if err := checkWidth(lettersPerCharacter); err != nil {
		return "", err
	}
	if mutationFactor < 0 || mutationFactor > 1 {
		return "", invalid("mutation_factor", "%v outside [0,1]", mutationFactor)
	}
	if len(a) != len(b) {
		return "", invalid("genome", "parent lengths differ: %d and %d", len(a), len(b))
	}
	if err := Validate(a, lettersPerCharacter); err != nil {
		return "", err
	}
	if err := Validate(b, lettersPerCharacter); err != nil {
		return "", err
	}

	pairs := len(a) / lettersPerCharacter
	child := []byte(a)
	for i := 0; i < pairs; i++ {
		if rng.Intn(2) == 1 {
			copy(child[i*lettersPerCharacter:], b[i*lettersPerCharacter:(i+1)*lettersPerCharacter])
		}
	}

	if pairs > 0 && rng.Float64() < mutationFactor {
		mutateBasePair(rng, child, rng.Intn(pairs), lettersPerCharacter)
	}
	return Genome(child), nil
}

// mutateBasePair overwrites base pair idx with a uniformly drawn different value.
func mutateBasePair(rng *rand.Rand, g []byte, idx, lettersPerCharacter int) {
	max := MaxBasePair(lettersPerCharacter)
	segment := g[idx*lettersPerCharacter : (idx+1)*lettersPerCharacter]
	current, _ := strconv.ParseUint(string(segment), 16, 64)

	// Draw from max values and skip over the current one.
	v := rng.Intn(max)
	if v >= int(current) {
		v++
	}
	digits := strconv.FormatInt(int64(v), 16)
	copy(segment, strings.Repeat("0", lettersPerCharacter-len(digits))+digits)
}
