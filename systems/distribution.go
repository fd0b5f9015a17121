// Package systems provides the grid primitives and per-cell rules of the
// world update.
package systems

import (
	"fmt"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
)

// Point is a grid coordinate.
type Point struct {
	Row, Col int
}

// Add returns p offset by (dRow, dCol).
func (p Point) Add(dRow, dCol int) Point {
	return Point{Row: p.Row + dRow, Col: p.Col + dCol}
}

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) int {
	dr, dc := p.Row-q.Row, p.Col-q.Col
	return dr*dr + dc*dc
}

// Shape is the (rows, cols) extent shared by all world grids.
type Shape struct {
	Rows, Cols int
}

// Len returns the number of cells.
func (s Shape) Len() int { return s.Rows * s.Cols }

// InBounds reports whether p lies on the grid.
func (s Shape) InBounds(p Point) bool {
	return p.Row >= 0 && p.Row < s.Rows && p.Col >= 0 && p.Col < s.Cols
}

// Clamp moves p onto the nearest cell of the grid.
func (s Shape) Clamp(p Point) Point {
	return Point{Row: clampInt(p.Row, 0, s.Rows-1), Col: clampInt(p.Col, 0, s.Cols-1)}
}

// SameShape reports whether o has the same extent.
func (s Shape) SameShape(o Shape) bool { return s == o }

func (s Shape) index(p Point) int { return p.Row*s.Cols + p.Col }

// window returns the edge-clamped 3x3 bounds around p, inclusive.
func (s Shape) window(p Point) (r0, r1, c0, c1 int) {
	return max(p.Row-1, 0), min(p.Row+1, s.Rows-1), max(p.Col-1, 0), min(p.Col+1, s.Cols-1)
}

// Distribution is a row-major grid of integer cell values (food or temperature).
type Distribution struct {
	Shape
	Data []int
}

// NewDistribution returns a zeroed grid.
func NewDistribution(rows, cols int) *Distribution {
	return &Distribution{Shape: Shape{Rows: rows, Cols: cols}, Data: make([]int, rows*cols)}
}

// NewUniformDistribution returns a grid with every cell set to v.
func NewUniformDistribution(rows, cols, v int) *Distribution {
	d := NewDistribution(rows, cols)
	for i := range d.Data {
		d.Data[i] = v
	}
	return d
}

// DistributionFrom builds a grid from nested rows. All rows must share a length.
func DistributionFrom(rows [][]int) (*Distribution, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("distribution: empty grid")
	}
	d := NewDistribution(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != d.Cols {
			return nil, fmt.Errorf("distribution: row %d has %d cells, want %d", i, len(row), d.Cols)
		}
		copy(d.Data[i*d.Cols:], row)
	}
	return d, nil
}

// GenerateNormal samples every cell independently from N(avg, std),
// truncated toward zero.
func GenerateNormal(rng *rand.Rand, rows, cols int, avg, std float64) *Distribution {
	d := NewDistribution(rows, cols)
	for i := range d.Data {
		d.Data[i] = int(avg + rng.NormFloat64()*std)
	}
	return d
}

// GenerateSimplex builds a spatially coherent field around avg with
// amplitude std, using 2D simplex noise at the given frequency per cell.
func GenerateSimplex(rng *rand.Rand, rows, cols int, avg, std, scale float64) *Distribution {
	noise := opensimplex.New(rng.Int63())
	d := NewDistribution(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			n := noise.Eval2(float64(c)*scale, float64(r)*scale)
			d.Data[r*cols+c] = int(avg + n*std)
		}
	}
	return d
}

// At returns the value at p. p must be in bounds.
func (d *Distribution) At(p Point) int { return d.Data[d.index(p)] }

// Set stores v at p.
func (d *Distribution) Set(p Point, v int) { d.Data[d.index(p)] = v }

// Add adds delta to the value at p.
func (d *Distribution) Add(p Point, delta int) { d.Data[d.index(p)] += delta }

// Neighbours returns the edge-clamped 3x3 window around p.
func (d *Distribution) Neighbours(p Point) Window {
	r0, r1, c0, c1 := d.window(p)
	w := Window{Origin: Point{Row: r0, Col: c0}, Rows: r1 - r0 + 1, Cols: c1 - c0 + 1}
	if w.Rows <= 0 || w.Cols <= 0 {
		return Window{Origin: p}
	}
	w.Values = make([]int, 0, w.Rows*w.Cols)
	for r := r0; r <= r1; r++ {
		w.Values = append(w.Values, d.Data[r*d.Cols+c0:r*d.Cols+c1+1]...)
	}
	return w
}

// Population counts non-zero cells.
func (d *Distribution) Population() int {
	n := 0
	for _, v := range d.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Sum returns the total of all cells.
func (d *Distribution) Sum() int {
	total := 0
	for _, v := range d.Data {
		total += v
	}
	return total
}

// Float64s returns the cell values as float64 for statistics.
func (d *Distribution) Float64s() []float64 {
	out := make([]float64, len(d.Data))
	for i, v := range d.Data {
		out[i] = float64(v)
	}
	return out
}

// Clone returns a deep copy.
func (d *Distribution) Clone() *Distribution {
	c := &Distribution{Shape: d.Shape, Data: make([]int, len(d.Data))}
	copy(c.Data, d.Data)
	return c
}

// CopyFrom overwrites d with src. Shapes must match.
func (d *Distribution) CopyFrom(src *Distribution) {
	copy(d.Data, src.Data)
}

// Window is a rectangular excerpt of a grid, flattened row-major.
type Window struct {
	Origin     Point
	Rows, Cols int
	Values     []int
}

// Argmax returns the flat index of the first maximum, or -1 for an empty window.
func (w Window) Argmax() int {
	if len(w.Values) == 0 {
		return -1
	}
	best := 0
	for i, v := range w.Values {
		if v > w.Values[best] {
			best = i
		}
	}
	return best
}

// PointAt maps a flat window index back to a grid coordinate.
func (w Window) PointAt(i int) Point {
	return Point{Row: w.Origin.Row + i/w.Cols, Col: w.Origin.Col + i%w.Cols}
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
