package motionplan

import (
	"errors"
	"fmt"
)

// ErrNoPath indicates a search or tree growth completed without reaching the
// goal. It is a normal outcome the caller must check, not a fault.
var ErrNoPath = errors.New("no path found between start and goal")

// ErrSamplingExhausted indicates roadmap construction could not reach its
// target sample count within the retry budget.
var ErrSamplingExhausted = errors.New("sampling retry budget exhausted before reaching target roadmap size")

// ErrVertexNotFound indicates a search endpoint is not present in the graph.
var ErrVertexNotFound = errors.New("vertex not present in graph")

func newVertexNotFoundError(id int) error {
	return fmt.Errorf("vertex %d: %w", id, ErrVertexNotFound)
}
