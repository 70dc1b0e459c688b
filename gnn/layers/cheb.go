package layers

import (
	"fmt"

	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// ChebConv is the Chebyshev spectral graph convolution of Defferrard et al.:
// a K-term Chebyshev polynomial of the scaled graph Laplacian L̃ = 2·L/λmax − I,
// applied to the node features:
//
//	Z₀ = X,  Z₁ = X·L̃,  Zₖ = 2·Zₖ₋₁·L̃ − Zₖ₋₂
//	output = Σₖ W[k]·Zₖ + bias
//
// The recursion is a matrix-valued recurrence over the whole graph, so like
// GCNConv this layer takes the dense-algebra path instead of per-edge message
// passing. The rescaling of L keeps the recursion numerically stable (its
// spectrum stays within [−1, 1]).
type ChebConv[T tensors.Float] struct {
	// W holds the K weight matrices, each shaped (out, in).
	W []*tensors.Dense[T]

	// Bias is the per-output-feature bias, broadcast over nodes.
	Bias []T

	in, out, k     int
	denseOperator  bool
	exactLambdaMax bool
}

// NewChebConv creates a ChebConv layer mapping `in` features to `out` features
// with a Chebyshev polynomial of order k ≥ 1. Parameters are allocated zeroed.
func NewChebConv[T tensors.Float](in, out, k int) *ChebConv[T] {
	validatePositive("ChebConv", "in", in)
	validatePositive("ChebConv", "out", out)
	validatePositive("ChebConv", "k", k)
	weights := make([]*tensors.Dense[T], k)
	for i := range weights {
		weights[i] = tensors.New[T](out, in)
	}
	return &ChebConv[T]{
		W:    weights,
		Bias: make([]T, out),
		in:   in,
		out:  out,
		k:    k,
	}
}

// WithDenseOperator materializes L̃ densely instead of the default sparse
// representation.
func (l *ChebConv[T]) WithDenseOperator(enabled bool) *ChebConv[T] {
	l.denseOperator = enabled
	return l
}

// WithExactLambdaMax computes λmax with an eigendecomposition instead of the
// fixed upper bound 2. See graphs.ScaledLaplacian.
func (l *ChebConv[T]) WithExactLambdaMax(enabled bool) *ChebConv[T] {
	l.exactLambdaMax = enabled
	return l
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()).
func (l *ChebConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	builder := graphs.ScaledLaplacian[T](g).Dense(l.denseOperator)
	if l.exactLambdaMax {
		builder.ExactLambdaMax()
	}
	laplacian := builder.Done()

	zPrev := x // Z₀
	output := l.W[0].MatMul(zPrev)
	if l.k > 1 {
		zCurrent := laplacian.RightMul(x) // Z₁
		output.Add(l.W[1].MatMul(zCurrent))
		for k := 2; k < l.k; k++ {
			zNext := laplacian.RightMul(zCurrent).Scale(2).Sub(zPrev)
			output.Add(l.W[k].MatMul(zNext))
			zPrev, zCurrent = zCurrent, zNext
		}
	}
	return output.AddToColumns(l.Bias)
}

// String implements fmt.Stringer.
func (l *ChebConv[T]) String() string {
	return fmt.Sprintf("ChebConv(%d=>%d, k=%d, %s)",
		l.in, l.out, l.k, countParams(l.k*l.out*l.in+l.out))
}
