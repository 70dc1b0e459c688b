package layers

import (
	"fmt"

	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// GCNConv is the graph convolutional layer of Kipf & Welling:
//
//	output = σ(W · X · Ã + bias)
//
// where Ã is the self-loop-augmented, symmetric degree-normalized adjacency.
// It takes the dense-algebra path rather than per-edge message passing: the
// normalization term is global (it needs both endpoints' degrees) and the whole
// layer batches as one matrix multiplication chain. The result is
// mathematically the same as propagating m = x_j with a sum aggregator between
// the pre/post degree scalings (see the package tests).
type GCNConv[T tensors.Float] struct {
	// W is the weight matrix, shaped (out, in).
	W *tensors.Dense[T]

	// Bias is the per-output-feature bias, broadcast over nodes.
	Bias []T

	in, out       int
	activation    Activation[T]
	denseOperator bool
}

// NewGCNConv creates a GCNConv layer mapping `in` features to `out` features.
// Parameters are allocated zeroed.
func NewGCNConv[T tensors.Float](in, out int) *GCNConv[T] {
	validatePositive("GCNConv", "in", in)
	validatePositive("GCNConv", "out", out)
	return &GCNConv[T]{
		W:    tensors.New[T](out, in),
		Bias: make([]T, out),
		in:   in,
		out:  out,
	}
}

// WithActivation sets the activation σ. Default is the identity.
func (l *GCNConv[T]) WithActivation(activation Activation[T]) *GCNConv[T] {
	l.activation = activation
	return l
}

// WithDenseOperator materializes Ã densely instead of the default sparse
// representation. Worth it only for small or near-complete graphs.
func (l *GCNConv[T]) WithDenseOperator(enabled bool) *GCNConv[T] {
	l.denseOperator = enabled
	return l
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()).
func (l *GCNConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	adjacency := graphs.NormalizedAdjacency[T](g).
		WithSelfLoops(true).
		Dense(l.denseOperator).
		Done()
	return l.W.MatMul(adjacency.RightMul(x)).
		AddToColumns(l.Bias).
		Map(l.activation)
}

// String implements fmt.Stringer.
func (l *GCNConv[T]) String() string {
	return fmt.Sprintf("GCNConv(%d=>%d, %s)", l.in, l.out, countParams(l.out*l.in+l.out))
}
