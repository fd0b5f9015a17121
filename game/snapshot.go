package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/darwinio/components"
	"github.com/pthm-cable/darwinio/systems"
)

// CellView describes one organism cell in a Snapshot.
type CellView struct {
	Occupied        bool
	Characteristics components.Characteristics
	Genome          string
	LineageID       uint32
	Generation      uint32
}

// Snapshot is an independent copy of the world state. It can be read while
// the world keeps updating.
type Snapshot struct {
	Tick  int32
	Food  *systems.Distribution
	Temp  *systems.Distribution
	Cells []CellView // row-major, one per grid cell
}

// At returns the organism cell at p.
func (s *Snapshot) At(p systems.Point) CellView {
	return s.Cells[p.Row*s.Food.Cols+p.Col]
}

// Population returns the number of occupied cells.
func (s *Snapshot) Population() int {
	n := 0
	for _, c := range s.Cells {
		if c.Occupied {
			n++
		}
	}
	return n
}

// Snapshot copies the grids and the organism traits.
func (w *World) Snapshot() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := &Snapshot{
		Tick:  w.tick,
		Food:  w.food.Clone(),
		Temp:  w.temp.Clone(),
		Cells: make([]CellView, w.shape.Len()),
	}
	w.occupancy.Each(func(p systems.Point, e ecs.Entity) {
		org := w.orgMap.Get(e)
		lineage := w.lineageMap.Get(e)
		s.Cells[p.Row*w.shape.Cols+p.Col] = CellView{
			Occupied:        true,
			Characteristics: org.Characteristics(),
			Genome:          string(org.Genome()),
			LineageID:       lineage.ID,
			Generation:      lineage.Generation,
		}
	})
	return s
}
