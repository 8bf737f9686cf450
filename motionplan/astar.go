package motionplan

import (
	"container/heap"

	"github.com/pkg/errors"
)

// frontierItem is one entry in the A* priority queue. seq records insertion
// order so that ties in priority resolve to the earlier-pushed candidate,
// keeping search results deterministic.
type frontierItem struct {
	id       int
	priority float64
	seq      int
}

type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// Search runs A* over the graph from the start vertex to the goal vertex and
// returns the minimum-cost path. The heuristic is Euclidean distance to the
// goal, which is admissible and consistent for Euclidean-weighted graphs, so
// the returned path is optimal. A missing start or goal vertex is a data
// error reported before any search work; a search that drains the frontier
// without reaching the goal returns ErrNoPath.
func Search(graph *Graph, start, goal int) (Path, error) {
	if !graph.HasNode(start) {
		return nil, newVertexNotFoundError(start)
	}
	if !graph.HasNode(goal) {
		return nil, newVertexNotFoundError(goal)
	}

	goalPos := graph.Position(goal)
	bestCost := map[int]float64{start: 0}
	cameFrom := map[int]int{}
	visited := map[int]bool{}

	open := &frontier{}
	heap.Init(open)
	seq := 0
	heap.Push(open, frontierItem{id: start, priority: graph.Position(start).Sub(goalPos).Norm(), seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(frontierItem)
		if visited[current.id] {
			continue
		}
		visited[current.id] = true
		if current.id == goal {
			return extractSearchPath(graph, cameFrom, start, goal), nil
		}
		for _, e := range graph.Neighbors(current.id) {
			if visited[e.To] {
				continue
			}
			tentative := bestCost[current.id] + e.Weight
			if known, seen := bestCost[e.To]; seen && tentative >= known {
				continue
			}
			bestCost[e.To] = tentative
			cameFrom[e.To] = current.id
			seq++
			heap.Push(open, frontierItem{
				id:       e.To,
				priority: tentative + graph.Position(e.To).Sub(goalPos).Norm(),
				seq:      seq,
			})
		}
	}
	return nil, errors.Wrap(ErrNoPath, "frontier emptied before reaching goal")
}

func extractSearchPath(graph *Graph, cameFrom map[int]int, start, goal int) Path {
	var reversed []int
	for id := goal; id != start; id = cameFrom[id] {
		reversed = append(reversed, id)
	}
	reversed = append(reversed, start)
	path := make(Path, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, graph.Position(reversed[i]))
	}
	return newPath(path)
}
