package systems

import (
	"math/rand"
	"testing"
)

func TestFindPartner(t *testing.T) {
	es := testEntities(3)
	g := NewOccupancyGrid(3, 3)
	g.Set(Point{1, 1}, es[0])

	if _, ok := FindPartner(g, es[0], Point{1, 1}); ok {
		t.Error("found a partner in an empty neighbourhood")
	}

	g.Set(Point{2, 0}, es[1])
	g.Set(Point{0, 2}, es[2])
	got, ok := FindPartner(g, es[0], Point{1, 1})
	if !ok || got != es[2] {
		t.Errorf("FindPartner = %v, want the first occupant in row-major order", got)
	}
}

func TestFindPartnerSkipsSelf(t *testing.T) {
	es := testEntities(1)
	g := NewOccupancyGrid(1, 3)
	// The parent has already moved next to the cell it was visited at.
	g.Set(Point{0, 2}, es[0])
	if _, ok := FindPartner(g, es[0], Point{0, 1}); ok {
		t.Error("organism chose itself as partner")
	}
}

func TestPlanBrood(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	es := testEntities(2)

	g := NewOccupancyGrid(5, 5)
	g.Set(Point{2, 2}, es[0])

	for i := 0; i < 100; i++ {
		b := PlanBrood(rng, g, es[0], Point{2, 2}, true)
		if b.Loss != LossNone || b.Partner != es[0] {
			t.Fatalf("asexual brood = %+v", b)
		}
		if dr, dc := abs(b.Target.Row-2), abs(b.Target.Col-2); dr != 1 || dc != 1 {
			t.Fatalf("target %v is not diagonal to the parent", b.Target)
		}
	}

	b := PlanBrood(rng, g, es[0], Point{2, 2}, false)
	if b.Loss != LossNoPartner {
		t.Errorf("lonely sexual brood loss = %v, want no_partner", b.Loss)
	}

	g.Set(Point{1, 2}, es[1])
	b = PlanBrood(rng, g, es[0], Point{2, 2}, false)
	if b.Loss != LossNone || b.Partner != es[1] {
		t.Errorf("sexual brood = %+v, want partner %v", b, es[1])
	}
}

func TestPlanBroodClampedAtCorner(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	es := testEntities(1)
	g := NewOccupancyGrid(1, 1)
	g.Set(Point{0, 0}, es[0])

	b := PlanBrood(rng, g, es[0], Point{0, 0}, true)
	if b.Target != (Point{0, 0}) {
		t.Errorf("target %v off a 1x1 grid", b.Target)
	}
}
