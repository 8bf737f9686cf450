package motionplan

import (
	"github.com/golang/geo/r3"

	"github.com/skyfield-uas/flightplan/environment"
)

// Shortcut removes unnecessary interior waypoints from a collision-free path
// while keeping it collision-free. Working backward from the goal, each kept
// waypoint is replaced by the earliest predecessor it can see through free
// space, so long straight stretches collapse to single segments. Paths with
// fewer than three points are returned unchanged.
func Shortcut(env *environment.Environment, path Path) Path {
	if len(path) < 3 {
		return path
	}
	keep := []int{len(path) - 1}
	for end := len(path) - 1; end > 0; {
		begin := 0
		for begin < end-1 && !env.IsSegmentFree(path[begin], path[end]) {
			begin++
		}
		keep = append(keep, begin)
		end = begin
	}
	shorter := make([]r3.Vector, 0, len(keep))
	for i := len(keep) - 1; i >= 0; i-- {
		shorter = append(shorter, path[keep[i]])
	}
	return newPath(shorter)
}
