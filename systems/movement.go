package systems

import (
	"github.com/mlange-42/ark/ecs"
)

// FeasiblePosition walks the line from start toward preferred and returns
// the last free cell before the first obstruction. start itself never
// obstructs. Points off the grid are clamped before the occupancy check,
// and the result always lies on the grid.
func FeasiblePosition(grid *OccupancyGrid, start, preferred Point) Point {
	points := LinePoints(start, preferred)
	for i := 1; i < len(points)-1; i++ {
		p := grid.Clamp(points[i])
		if p != start && grid.Occupied(p) {
			return grid.Clamp(points[i-1])
		}
	}
	return grid.Clamp(preferred)
}

// Move relocates the occupant of from toward to and returns its new cell.
// If the feasible target is taken the organism stays where it is.
func Move(grid *OccupancyGrid, e ecs.Entity, from, to Point) Point {
	target := FeasiblePosition(grid, from, to)
	if target != from && grid.Occupied(target) {
		target = from
	}
	grid.Clear(from)
	grid.Set(target, e)
	return target
}
