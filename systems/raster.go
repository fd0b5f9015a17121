package systems

import (
	"sort"
)

// LinePoints rasterises the segment from a to b with Bresenham's algorithm.
// Points are unique and ordered by distance from a, so a comes first and b last.
func LinePoints(a, b Point) []Point {
	dr, dc := abs(b.Row-a.Row), abs(b.Col-a.Col)
	sr, sc := sign(b.Row-a.Row), sign(b.Col-a.Col)

	points := make([]Point, 0, max(dr, dc)+1)
	seen := make(map[Point]struct{}, cap(points))
	add := func(p Point) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}

	r, c := a.Row, a.Col
	err := dc - dr
	for {
		add(Point{Row: r, Col: c})
		if r == b.Row && c == b.Col {
			break
		}
		e2 := 2 * err
		if e2 > -dr {
			err -= dr
			c += sc
		}
		if e2 < dc {
			err += dc
			r += sr
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].DistSq(a) < points[j].DistSq(a)
	})
	return points
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
