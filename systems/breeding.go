package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
)

// OffspringLoss says why a reproduction attempt produced no organism.
type OffspringLoss uint8

const (
	LossNone OffspringLoss = iota
	LossNoPartner
	LossTargetOccupied
	LossInvalidGenome
)

func (l OffspringLoss) String() string {
	switch l {
	case LossNoPartner:
		return "no_partner"
	case LossTargetOccupied:
		return "target_occupied"
	case LossInvalidGenome:
		return "invalid_genome"
	}
	return "none"
}

// Brood is a planned birth next to a parent.
type Brood struct {
	Target  Point
	Partner ecs.Entity // parent itself for asexual organisms
	Loss    OffspringLoss
}

// PlanBrood picks the birth cell and the partner for the organism e at pos.
// The preferred cell is one step diagonally in a random direction per axis,
// reduced to a feasible position against the occupancy grid. A sexual
// organism mates with the first other occupant of its 3x3 neighbourhood in
// row-major order.
func PlanBrood(rng *rand.Rand, grid *OccupancyGrid, e ecs.Entity, pos Point, asexual bool) Brood {
	preferred := pos.Add(randomStep(rng), randomStep(rng))
	b := Brood{Target: FeasiblePosition(grid, pos, preferred), Partner: e}
	if asexual {
		return b
	}
	partner, ok := FindPartner(grid, e, pos)
	if !ok {
		b.Partner = empty
		b.Loss = LossNoPartner
		return b
	}
	b.Partner = partner
	return b
}

// FindPartner returns the first occupant of the neighbourhood of pos that is
// neither the cell itself nor e.
func FindPartner(grid *OccupancyGrid, e ecs.Entity, pos Point) (ecs.Entity, bool) {
	for _, p := range grid.Neighbours(pos) {
		if p == pos {
			continue
		}
		if other := grid.Get(p); other != e {
			return other, true
		}
	}
	return empty, false
}

func randomStep(rng *rand.Rand) int {
	if rng.Intn(2) == 0 {
		return -1
	}
	return 1
}
