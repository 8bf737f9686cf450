package motionplan

import (
	"math"
	"runtime"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/skyfield-uas/flightplan/environment"
)

// Connectivity selects the neighbor pattern used when wiring lattice cells.
type Connectivity int

const (
	// ConnectivityFace connects each interior cell to its 6 face-adjacent neighbors.
	ConnectivityFace Connectivity = iota
	// ConnectivityFull connects each interior cell to all 26 surrounding neighbors.
	ConnectivityFull
)

// ParseConnectivity maps the configuration strings "partial"/"face" and
// "full" onto a Connectivity value.
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "partial", "face":
		return ConnectivityFace, nil
	case "full":
		return ConnectivityFull, nil
	default:
		return 0, errors.Errorf("unknown connectivity %q, want \"partial\" or \"full\"", s)
	}
}

var faceOffsets = [][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

func fullOffsets() [][3]int {
	offsets := make([][3]int, 0, 26)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for dk := -1; dk <= 1; dk++ {
				if di == 0 && dj == 0 && dk == 0 {
					continue
				}
				offsets = append(offsets, [3]int{di, dj, dk})
			}
		}
	}
	return offsets
}

// BuildLattice discretizes the volume spanned by center±halfSizes into a
// regular grid at the given resolution and returns a graph whose vertex set
// is exactly the collision-free cells. Neighboring free cells are connected,
// weighted by Euclidean distance, only when the straight segment between them
// is itself collision-free; a diagonal edge can clip an obstacle corner even
// though both of its endpoints are free. The build is deterministic: fixed
// inputs always produce an identical graph.
func BuildLattice(
	env *environment.Environment,
	center, halfSizes r3.Vector,
	resolution float64,
	connectivity Connectivity,
) (*Graph, error) {
	if resolution <= 0 {
		return nil, errors.Errorf("lattice resolution must be positive, got %v", resolution)
	}
	if halfSizes.X <= 0 || halfSizes.Y <= 0 || halfSizes.Z <= 0 {
		return nil, errors.Errorf("lattice half sizes must be positive, got %v", halfSizes)
	}

	xs := axisPositions(center.X, halfSizes.X, resolution)
	ys := axisPositions(center.Y, halfSizes.Y, resolution)
	zs := axisPositions(center.Z, halfSizes.Z, resolution)
	nx, ny, nz := len(xs), len(ys), len(zs)
	total := nx * ny * nz

	cellAt := func(flat int) r3.Vector {
		i := flat / (ny * nz)
		j := (flat / nz) % ny
		k := flat % nz
		return r3.Vector{X: xs[i], Y: ys[j], Z: zs[k]}
	}

	// The per-cell freedom checks are independent, so they are fanned out
	// across workers writing disjoint slices of a preallocated mask. The
	// resulting graph does not depend on worker scheduling.
	free := make([]bool, total)
	workers := runtime.NumCPU()
	if workers > total {
		workers = 1
	}
	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		begin := w * chunk
		end := begin + chunk
		if end > total {
			end = total
		}
		if begin >= end {
			break
		}
		wg.Add(1)
		goutils.PanicCapturingGo(func() {
			defer wg.Done()
			for flat := begin; flat < end; flat++ {
				free[flat] = env.IsFree(cellAt(flat))
			}
		})
	}
	wg.Wait()

	graph := NewGraph()
	nodeID := make([]int, total)
	for flat := 0; flat < total; flat++ {
		if free[flat] {
			nodeID[flat] = graph.AddNode(cellAt(flat))
		} else {
			nodeID[flat] = -1
		}
	}

	offsets := faceOffsets
	if connectivity == ConnectivityFull {
		offsets = fullOffsets()
	}
	for flat := 0; flat < total; flat++ {
		if !free[flat] {
			continue
		}
		i := flat / (ny * nz)
		j := (flat / nz) % ny
		k := flat % nz
		a := graph.Position(nodeID[flat])
		for _, off := range offsets {
			ni, nj, nk := i+off[0], j+off[1], k+off[2]
			if ni < 0 || ni >= nx || nj < 0 || nj >= ny || nk < 0 || nk >= nz {
				continue
			}
			neighborFlat := (ni*ny+nj)*nz + nk
			// Each unordered pair is considered once.
			if neighborFlat <= flat || !free[neighborFlat] {
				continue
			}
			b := graph.Position(nodeID[neighborFlat])
			if env.IsSegmentFree(a, b) {
				graph.AddEdge(nodeID[flat], nodeID[neighborFlat], a.Sub(b).Norm())
			}
		}
	}
	return graph, nil
}

// axisPositions returns grid coordinates from center-half to center+half
// inclusive at the given spacing. The count is computed up front so repeated
// float addition cannot drop the final position.
func axisPositions(center, half, resolution float64) []float64 {
	n := int(math.Floor(2*half/resolution+1e-9)) + 1
	positions := make([]float64, n)
	for i := range positions {
		positions[i] = center - half + float64(i)*resolution
	}
	return positions
}
