package systems

import (
	"fmt"

	"github.com/pthm-cable/darwinio/config"
)

// Layers groups the three same-shaped world grids.
type Layers struct {
	Food      *Distribution
	Temp      *Distribution
	Occupancy *OccupancyGrid
}

// SweepPolicy chooses which grids a tick reads from. Writes always go to
// the live grids.
type SweepPolicy interface {
	Name() string
	// Begin is called once at the start of a tick and returns the read view.
	Begin(live Layers) Layers
}

// InPlace reads the live grids, so cells visited later in a tick see
// writes made by earlier ones. An organism that moves forward in row-major
// order can be visited twice in the same tick.
type InPlace struct{}

func (InPlace) Name() string { return config.SweepInPlace }

func (InPlace) Begin(live Layers) Layers { return live }

// DoubleBuffered reads a copy of the grids taken at the start of the tick,
// which makes each visit independent of the order cells are processed in.
type DoubleBuffered struct {
	buf Layers
}

func (*DoubleBuffered) Name() string { return config.SweepDoubleBuffered }

func (d *DoubleBuffered) Begin(live Layers) Layers {
	if d.buf.Food == nil || !d.buf.Food.SameShape(live.Food.Shape) {
		d.buf = Layers{
			Food:      live.Food.Clone(),
			Temp:      live.Temp.Clone(),
			Occupancy: live.Occupancy.Clone(),
		}
		return d.buf
	}
	d.buf.Food.CopyFrom(live.Food)
	d.buf.Temp.CopyFrom(live.Temp)
	d.buf.Occupancy.CopyFrom(live.Occupancy)
	return d.buf
}

// NewSweepPolicy resolves a configured policy name.
func NewSweepPolicy(name string) (SweepPolicy, error) {
	switch name {
	case "", config.SweepInPlace:
		return InPlace{}, nil
	case config.SweepDoubleBuffered:
		return &DoubleBuffered{}, nil
	}
	return nil, fmt.Errorf("unknown sweep policy %q", name)
}
