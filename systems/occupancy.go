package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// OccupancyGrid maps each cell to the organism entity living there.
// The zero entity marks an empty cell.
type OccupancyGrid struct {
	Shape
	Cells []ecs.Entity
}

var empty ecs.Entity

// NewOccupancyGrid returns an empty grid.
func NewOccupancyGrid(rows, cols int) *OccupancyGrid {
	return &OccupancyGrid{Shape: Shape{Rows: rows, Cols: cols}, Cells: make([]ecs.Entity, rows*cols)}
}

// Get returns the occupant of p, or the zero entity.
func (g *OccupancyGrid) Get(p Point) ecs.Entity { return g.Cells[g.index(p)] }

// Occupied reports whether p holds an organism.
func (g *OccupancyGrid) Occupied(p Point) bool { return g.Cells[g.index(p)] != empty }

// Set places e at p.
func (g *OccupancyGrid) Set(p Point, e ecs.Entity) { g.Cells[g.index(p)] = e }

// Clear empties p.
func (g *OccupancyGrid) Clear(p Point) { g.Cells[g.index(p)] = empty }

// Population counts occupied cells.
func (g *OccupancyGrid) Population() int {
	n := 0
	for _, e := range g.Cells {
		if e != empty {
			n++
		}
	}
	return n
}

// Neighbours returns the occupied cells of the edge-clamped 3x3 window
// around p in row-major order, p included.
func (g *OccupancyGrid) Neighbours(p Point) []Point {
	r0, r1, c0, c1 := g.window(p)
	var out []Point
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if g.Cells[r*g.Cols+c] != empty {
				out = append(out, Point{Row: r, Col: c})
			}
		}
	}
	return out
}

// Each calls fn for every occupied cell in row-major order.
func (g *OccupancyGrid) Each(fn func(p Point, e ecs.Entity)) {
	for i, e := range g.Cells {
		if e != empty {
			fn(Point{Row: i / g.Cols, Col: i % g.Cols}, e)
		}
	}
}

// Reset empties every cell.
func (g *OccupancyGrid) Reset() {
	clear(g.Cells)
}

// Clone returns a deep copy.
func (g *OccupancyGrid) Clone() *OccupancyGrid {
	c := &OccupancyGrid{Shape: g.Shape, Cells: make([]ecs.Entity, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// CopyFrom overwrites g with src. Shapes must match.
func (g *OccupancyGrid) CopyFrom(src *OccupancyGrid) {
	copy(g.Cells, src.Cells)
}
