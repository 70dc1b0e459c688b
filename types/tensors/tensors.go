// Package tensors implements the dense and sparse matrices used by the graphnn
// library, generic over the float element type.
//
// The central type is Dense[T], a column-major matrix: in graphnn column i always
// holds the feature vector of node i (or of edge i, for edge features), so a node's
// features are a contiguous slice, cheap to hand to message closures.
//
// Sparse[T] is a compressed sparse column matrix, used for the normalized
// adjacency and scaled Laplacian operators of large graphs. Both implement
// Operator[T], the right-multiplication abstraction consumed by the dense-algebra
// convolution path (GCN and Chebyshev layers).
//
// ## Element types
//
// The element type is an explicit Go type parameter (Float = float32 | float64),
// chosen once per forward pass by the caller. There is no runtime dtype inference:
// graph-derived matrices and layer parameters agree on T at compile time. The
// corresponding runtime DType (see github.com/gomlx/gopjrt/dtypes) is still
// reported by DTypeOf and in diagnostics messages.
package tensors

import (
	"github.com/gomlx/gopjrt/dtypes"
)

// Float constrains the element types supported by graphnn matrices.
type Float interface {
	float32 | float64
}

// DTypeOf returns the runtime DType corresponding to the Go type T.
func DTypeOf[T Float]() dtypes.DType {
	return dtypes.FromGenericsType[T]()
}

// Operator is an n×n linear operator applied on the right of a feature matrix,
// computing X·A. It is implemented by both Dense and Sparse, so the layers built
// on whole-graph matrix algebra work on either representation.
type Operator[T Float] interface {
	// Rows returns the number of rows of the operator.
	Rows() int

	// Cols returns the number of columns of the operator.
	Cols() int

	// RightMul returns the product x·op, a new matrix shaped
	// (x.Rows(), op.Cols()). It panics if x.Cols() != op.Rows().
	RightMul(x *Dense[T]) *Dense[T]
}
