package graphs

import "fmt"

// BoundsViolationError reports an edge endpoint index outside [0, NumNodes).
// It is thrown (as a panic, wrapped with a stack trace) by New and by
// consumers that re-validate edge indices before gathering node data.
//
// Catch it at the library boundary with exceptions.TryCatch, e.g.:
//
//	err := exceptions.TryCatch[error](func() { g = graphs.New(n, sources, targets) })
type BoundsViolationError struct {
	// Edge is the position of the offending edge in the edge list.
	Edge int

	// Side is "source" or "target".
	Side string

	// Index is the offending endpoint index.
	Index int

	// NumNodes is the valid index range: [0, NumNodes).
	NumNodes int
}

// Error implements the error interface.
func (e *BoundsViolationError) Error() string {
	return fmt.Sprintf("graphs: %s index %d of edge %d out of range [0, %d)",
		e.Side, e.Index, e.Edge, e.NumNodes)
}
