package motionplan

import (
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// indexedPoint is a node position tagged with its graph ID so kd-tree query
// results can be mapped back to nodes.
type indexedPoint struct {
	pos r3.Vector
	id  int
}

func (p indexedPoint) coord(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.pos.X
	case 1:
		return p.pos.Y
	default:
		return p.pos.Z
	}
}

// Compare returns the signed distance of p from the plane through c normal to d.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	return p.coord(d) - q.coord(d)
}

// Dims returns the number of dimensions described by p.
func (p indexedPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between p and c.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	return p.pos.Sub(q.pos).Norm2()
}

// indexedPoints implements kdtree.Interface over a slice of indexedPoint.
type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }

func (p indexedPoints) Len() int { return len(p) }

func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, indexedPoints: p}.Pivot()
}

func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane is a helping type to allow pivoting on a particular dimension.
type plane struct {
	kdtree.Dim
	indexedPoints
}

func (p plane) Less(i, j int) bool {
	return p.indexedPoints[i].coord(p.Dim) < p.indexedPoints[j].coord(p.Dim)
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.indexedPoints = p.indexedPoints[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}

// newPositionTree builds a kd-tree over the given positions, with each tree
// point tagged with its slice index.
func newPositionTree(positions []r3.Vector) *kdtree.Tree {
	pts := make(indexedPoints, len(positions))
	for i, pos := range positions {
		pts[i] = indexedPoint{pos: pos, id: i}
	}
	return kdtree.New(pts, false)
}

// nearestPosition returns the ID of the tree point nearest pt.
func nearestPosition(tree *kdtree.Tree, pt r3.Vector) int {
	got, _ := tree.Nearest(indexedPoint{pos: pt, id: -1})
	return got.(indexedPoint).id
}

// kNearestPositions returns the IDs of up to k tree points nearest pt in
// increasing distance order, excluding the point whose ID equals skip.
// Pass skip = -1 to exclude nothing.
func kNearestPositions(tree *kdtree.Tree, pt r3.Vector, k, skip int) []int {
	keep := kdtree.NewNKeeper(k + 1)
	tree.NearestSet(keep, indexedPoint{pos: pt, id: -1})

	type result struct {
		id   int
		dist float64
	}
	results := make([]result, 0, keep.Heap.Len())
	for _, c := range keep.Heap {
		p, ok := c.Comparable.(indexedPoint)
		if !ok || p.id == skip {
			// The unfilled sentinel, or the excluded point.
			continue
		}
		results = append(results, result{id: p.id, dist: c.Dist})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].dist != results[j].dist {
			return results[i].dist < results[j].dist
		}
		return results[i].id < results[j].id
	})
	if len(results) > k {
		results = results[:k]
	}
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids
}
