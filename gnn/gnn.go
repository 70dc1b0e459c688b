// Package gnn implements the message-passing engine underlying the graphnn
// layer catalog (see gnn/layers).
//
// Message passing is the generic graph-neural-network computation pattern: for
// every edge a message is computed from the endpoints' data (and the edge's
// features, when present); for every node the messages of its incoming edges are
// reduced with an associative, commutative Aggregator; and each node's features
// are then updated from that aggregate. Propagate runs one such round.
//
// The engine is generic over two types: the element type T (float32 or float64)
// and the message payload M. Plain layers use Vector[T] messages; layers that
// carry several quantities per edge (e.g. attention layers pair an unnormalized
// weight with a weighted value) define a small struct implementing Payload, and
// the reduction maps elementwise over its fields.
//
// # Degenerate aggregation
//
// A node with no incoming edges aggregates to MessagePasser.NeutralMessage() --
// a zero-valued message -- under EVERY aggregator, including max and min. This
// zero-fill convention mirrors segment-reduction semantics of array libraries
// (an empty segment takes the fill value, a non-empty one folds from its first
// element) and is deliberate: an isolated node must not produce ±Inf or NaN.
// Mean divides by the in-degree only when it is positive.
//
// # Errors
//
// Shape disagreements and edge index violations are programmer errors: they
// panic before any computation, carrying *ShapeMismatchError or
// *graphs.BoundsViolationError values (with stack traces). Catch them at the
// library boundary with exceptions.TryCatch if needed.
package gnn

import (
	"fmt"

	"github.com/pkg/errors"
)

// Aggregator is the reduction combining the per-edge messages arriving at a
// node. All choices are associative and commutative, so the edge order does not
// change the result beyond floating-point rounding.
type Aggregator int

const (
	// AggregatorSum adds the incoming messages. This is the neutral default of
	// most layers.
	AggregatorSum Aggregator = iota

	// AggregatorProduct multiplies the incoming messages elementwise.
	AggregatorProduct

	// AggregatorMax takes the elementwise maximum.
	AggregatorMax

	// AggregatorMin takes the elementwise minimum.
	AggregatorMin

	// AggregatorMean averages the incoming messages: the sum divided by the
	// in-degree. Nodes with in-degree 0 take the neutral message, never NaN.
	AggregatorMean
)

//go:generate go tool enumer -type Aggregator -trimprefix=Aggregator -transform=snake -output=gen_aggregator_enumer.go gnn.go

// ShapeMismatchError reports a disagreement between an input's dimensions and
// what a layer or the engine was configured for. It is thrown (as a panic,
// wrapped with a stack trace) before any computation starts; no partial results
// are ever produced.
type ShapeMismatchError struct {
	// Layer is the layer descriptor or operation reporting the mismatch.
	Layer string

	// What names the dimension that disagrees, e.g. "input feature dimension".
	What string

	// Want and Got are the expected and actual sizes.
	Want, Got int
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s is %d, want %d", e.Layer, e.What, e.Got, e.Want)
}

// ThrowShapeMismatch panics with a *ShapeMismatchError carrying a stack trace.
func ThrowShapeMismatch(layer, what string, want, got int) {
	panic(errors.WithStack(&ShapeMismatchError{Layer: layer, What: what, Want: want, Got: got}))
}
