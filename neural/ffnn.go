// Package neural provides the genome-derived feed-forward controllers that
// steer organisms.
package neural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/darwinio/genome"
)

// Epsilon keeps normalisation defined for all-zero vectors.
const Epsilon = 1e-16

// Structure lists layer widths from input to output, e.g. [2, 2].
type Structure []int

// Validate checks that the structure has at least two positive layers.
func (s Structure) Validate() error {
	if len(s) < 2 {
		return &genome.ValidationError{Field: "structure", Reason: fmt.Sprintf("need at least two layers, got %v", []int(s))}
	}
	for i, w := range s {
		if w <= 0 {
			return &genome.ValidationError{Field: "structure", Reason: fmt.Sprintf("layer %d has width %d", i, w)}
		}
	}
	return nil
}

// Connections returns the number of weights the structure needs.
func (s Structure) Connections() int {
	n := 0
	for i := 0; i+1 < len(s); i++ {
		n += s[i] * s[i+1]
	}
	return n
}

// Inputs returns the width of the input layer.
func (s Structure) Inputs() int { return s[0] }

// Outputs returns the width of the output layer.
func (s Structure) Outputs() int { return s[len(s)-1] }

// Normalize returns v divided by its Euclidean norm plus Epsilon.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	floats.Scale(1/(floats.Norm(v, 2)+Epsilon), out)
	return out
}

// CenterDigits maps digits in [0, max] into [-max/2, max/2].
func CenterDigits(digits []float64, max int) []float64 {
	out := make([]float64, len(digits))
	copy(out, digits)
	floats.AddConst(-float64(max)/2, out)
	return out
}

// DeriveWeights takes the leading Connections() digits as raw weights and
// unit-normalises them.
func DeriveWeights(digits []float64, s Structure) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	need := s.Connections()
	if len(digits) < need {
		return nil, &genome.InsufficientCapacityError{Need: need, Have: len(digits)}
	}
	return Normalize(digits[:need]), nil
}

// Evaluate propagates input through the network described by weights and s.
// The input is unit-normalised first; each layer is tanh(layer · W_k) with
// W_k the next s[k]*s[k+1] weights in row-major (s[k], s[k+1]) shape.
func Evaluate(weights []float64, s Structure, input []float64) ([]float64, error) {
	act, err := evaluate(weights, s, input, false)
	if err != nil {
		return nil, err
	}
	return act.Outputs(), nil
}

// EvaluateWithCapture is like Evaluate but returns every layer's values.
func EvaluateWithCapture(weights []float64, s Structure, input []float64) (*Activations, error) {
	return evaluate(weights, s, input, true)
}

// Activations holds captured layer values, input layer first.
type Activations struct {
	Layers [][]float64
}

// Outputs returns the final layer.
func (a *Activations) Outputs() []float64 {
	return a.Layers[len(a.Layers)-1]
}

func evaluate(weights []float64, s Structure, input []float64, capture bool) (*Activations, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(input) != s.Inputs() {
		return nil, &genome.ValidationError{Field: "input", Reason: fmt.Sprintf("length %d, structure wants %d", len(input), s.Inputs())}
	}
	if len(weights) != s.Connections() {
		return nil, &genome.ValidationError{Field: "weights", Reason: fmt.Sprintf("length %d, structure wants %d", len(weights), s.Connections())}
	}

	act := &Activations{}
	layer := mat.NewVecDense(len(input), Normalize(input))
	if capture {
		act.Layers = append(act.Layers, mat.Col(nil, 0, layer))
	}

	offset := 0
	for k := 0; k+1 < len(s); k++ {
		rows, cols := s[k], s[k+1]
		w := make([]float64, rows*cols)
		copy(w, weights[offset:offset+rows*cols])
		offset += rows * cols

		// layer is a row vector: layer · W == Wᵀ · layer
		next := mat.NewVecDense(cols, nil)
		next.MulVec(mat.NewDense(rows, cols, w).T(), layer)
		for i := 0; i < cols; i++ {
			next.SetVec(i, math.Tanh(next.AtVec(i)))
		}
		layer = next
		if capture {
			act.Layers = append(act.Layers, mat.Col(nil, 0, layer))
		}
	}

	if !capture {
		act.Layers = [][]float64{mat.Col(nil, 0, layer)}
	}
	return act, nil
}

// Controller is a fixed-weight network owned by one organism.
type Controller struct {
	structure Structure
	weights   []float64
}

// NewController derives a controller from decoded genome digits.
func NewController(digits []float64, s Structure) (*Controller, error) {
	w, err := DeriveWeights(digits, s)
	if err != nil {
		return nil, fmt.Errorf("deriving weights: %w", err)
	}
	return &Controller{
		structure: append(Structure(nil), s...),
		weights:   w,
	}, nil
}

// Structure returns a copy of the layer widths.
func (c *Controller) Structure() Structure {
	return append(Structure(nil), c.structure...)
}

// Weights returns a copy of the normalised weight vector.
func (c *Controller) Weights() []float64 {
	return append([]float64(nil), c.weights...)
}

// Evaluate runs the network on input.
func (c *Controller) Evaluate(input []float64) ([]float64, error) {
	return Evaluate(c.weights, c.structure, input)
}

// EvaluateWithCapture runs the network and captures all layer values.
func (c *Controller) EvaluateWithCapture(input []float64) (*Activations, error) {
	return EvaluateWithCapture(c.weights, c.structure, input)
}
