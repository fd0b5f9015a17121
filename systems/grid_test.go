package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

type tag struct{ N int }

func testEntities(n int) []ecs.Entity {
	w := ecs.NewWorld()
	m := ecs.NewMap1[tag](w)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = m.NewEntity(&tag{N: i})
	}
	return out
}

func TestNeighboursClamped(t *testing.T) {
	d, err := DistributionFrom([][]int{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		p          Point
		rows, cols int
		values     []int
	}{
		{"corner", Point{0, 0}, 2, 2, []int{1, 2, 5, 6}},
		{"interior", Point{1, 1}, 3, 3, []int{1, 2, 3, 5, 6, 7, 9, 10, 11}},
		{"right edge", Point{1, 3}, 3, 2, []int{3, 4, 7, 8, 11, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := d.Neighbours(tt.p)
			if w.Rows != tt.rows || w.Cols != tt.cols {
				t.Fatalf("window %dx%d, want %dx%d", w.Rows, w.Cols, tt.rows, tt.cols)
			}
			for i, v := range tt.values {
				if w.Values[i] != v {
					t.Fatalf("values = %v, want %v", w.Values, tt.values)
				}
			}
		})
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		values []int
		want   int
	}{
		{[]int{1, 9, 3, 9}, 1},
		{[]int{-5, -2, -9}, 1},
		{[]int{7}, 0},
		{nil, -1},
	}
	for _, tt := range tests {
		if got := (Window{Values: tt.values, Cols: 1}).Argmax(); got != tt.want {
			t.Errorf("Argmax(%v) = %d, want %d", tt.values, got, tt.want)
		}
	}
}

func TestWindowPointAt(t *testing.T) {
	d := NewDistribution(5, 5)
	w := d.Neighbours(Point{2, 2})
	if got := w.PointAt(5); got != (Point{2, 3}) {
		t.Errorf("PointAt(5) = %v, want {2 3}", got)
	}
}

func TestDistributionFromRagged(t *testing.T) {
	if _, err := DistributionFrom([][]int{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := DistributionFrom(nil); err == nil {
		t.Error("expected error for empty grid")
	}
}

func TestGenerateNormalDeterministic(t *testing.T) {
	a := GenerateNormal(rand.New(rand.NewSource(42)), 40, 40, 500, 100)
	b := GenerateNormal(rand.New(rand.NewSource(42)), 40, 40, 500, 100)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatal("same seed produced different grids")
		}
	}

	mean := float64(a.Sum()) / float64(a.Len())
	if math.Abs(mean-500) > 15 {
		t.Errorf("mean = %.1f, want ~500", mean)
	}
}

func TestGenerateSimplexBounded(t *testing.T) {
	d := GenerateSimplex(rand.New(rand.NewSource(42)), 30, 30, 315, 50, 0.08)
	lo, hi := d.Data[0], d.Data[0]
	for _, v := range d.Data {
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo < 315-55 || hi > 315+55 {
		t.Errorf("values span [%d,%d], want within about 315±50", lo, hi)
	}
	if lo == hi {
		t.Error("simplex field is flat")
	}

	// Neighbouring cells of a coherent field differ far less than the amplitude.
	for r := 0; r < d.Rows; r++ {
		for c := 1; c < d.Cols; c++ {
			if diff := abs(d.At(Point{r, c}) - d.At(Point{r, c - 1})); diff > 40 {
				t.Fatalf("adjacent cells differ by %d", diff)
			}
		}
	}
}

func TestCloneIndependent(t *testing.T) {
	d := NewUniformDistribution(3, 3, 10)
	c := d.Clone()
	c.Add(Point{1, 1}, 5)
	if d.At(Point{1, 1}) != 10 {
		t.Error("Clone shares storage")
	}
	if d.Population() != 9 || d.Sum() != 90 {
		t.Errorf("population=%d sum=%d, want 9 and 90", d.Population(), d.Sum())
	}
}

func TestOccupancyGrid(t *testing.T) {
	es := testEntities(3)
	g := NewOccupancyGrid(3, 3)
	g.Set(Point{0, 0}, es[0])
	g.Set(Point{1, 1}, es[1])
	g.Set(Point{2, 2}, es[2])

	if g.Population() != 3 {
		t.Errorf("Population = %d, want 3", g.Population())
	}
	if !g.Occupied(Point{1, 1}) || g.Occupied(Point{0, 1}) {
		t.Error("Occupied reports wrong cells")
	}

	got := g.Neighbours(Point{0, 1})
	want := []Point{{0, 0}, {1, 1}}
	if len(got) != len(want) {
		t.Fatalf("Neighbours = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Neighbours = %v, want %v", got, want)
		}
	}

	g.Clear(Point{1, 1})
	if g.Occupied(Point{1, 1}) || g.Population() != 2 {
		t.Error("Clear did not empty the cell")
	}

	c := g.Clone()
	g.Reset()
	if g.Population() != 0 || c.Population() != 2 {
		t.Errorf("after Reset: live=%d clone=%d, want 0 and 2", g.Population(), c.Population())
	}
}
