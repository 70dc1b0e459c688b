package layers

import (
	"fmt"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// ResGatedGraphConv is the residual gated graph convolution of Bresson &
// Laurent: each edge carries a learned sigmoid gate deciding how much of the
// neighbor's value passes through,
//
//	η_ij = sigmoid(A·x_i + B·x_j)
//	m_ij = η_ij ⊙ (V·x_j)
//	output_i = σ(U·x_i + agg_i + bias)
//
// The per-edge quantities A·x_i, B·x_j and V·x_j depend only on one endpoint
// each, so they are computed once per node as whole-matrix products and
// threaded through the engine as stacked auxiliary node data; the message
// closure just slices them back out.
type ResGatedGraphConv[T tensors.Float] struct {
	// A gates on the target, B on the source; V produces the gated value and U
	// the residual self term. All shaped (out, in).
	A, B, U, V *tensors.Dense[T]

	// Bias is the per-output-feature bias, broadcast over nodes.
	Bias []T

	in, out    int
	activation Activation[T]
}

// NewResGatedGraphConv creates a ResGatedGraphConv layer mapping `in` features
// to `out` features. Parameters are allocated zeroed.
func NewResGatedGraphConv[T tensors.Float](in, out int) *ResGatedGraphConv[T] {
	validatePositive("ResGatedGraphConv", "in", in)
	validatePositive("ResGatedGraphConv", "out", out)
	return &ResGatedGraphConv[T]{
		A:    tensors.New[T](out, in),
		B:    tensors.New[T](out, in),
		U:    tensors.New[T](out, in),
		V:    tensors.New[T](out, in),
		Bias: make([]T, out),
		in:   in,
		out:  out,
	}
}

// WithActivation sets the activation σ. Default is the identity.
func (l *ResGatedGraphConv[T]) WithActivation(activation Activation[T]) *ResGatedGraphConv[T] {
	l.activation = activation
	return l
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()).
func (l *ResGatedGraphConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	out := l.out

	// Auxiliary node data: rows [0, out) hold A·x, [out, 2·out) hold B·x and
	// [2·out, 3·out) hold V·x.
	auxiliary := tensors.ConcatRows(l.A.MatMul(x), l.B.MatMul(x), l.V.MatMul(x))

	passer := &vectorPasser[T]{
		messageDim: out,
		message: func(xTarget, xSource, _ []T) gnn.Vector[T] {
			message := make(gnn.Vector[T], out)
			for r := 0; r < out; r++ {
				gate := sigmoid(xTarget[r] + xSource[out+r])
				message[r] = gate * xSource[2*out+r]
			}
			return message
		},
		update: func(aggregates []gnn.Vector[T], _ *tensors.Dense[T]) *tensors.Dense[T] {
			return l.U.MatMul(x).
				Add(gnn.VectorsToDense(out, aggregates)).
				AddToColumns(l.Bias).
				Map(l.activation)
		},
	}
	updated, _ := gnn.Propagate(g, gnn.AggregatorSum, passer, auxiliary, nil)
	return updated
}

// String implements fmt.Stringer.
func (l *ResGatedGraphConv[T]) String() string {
	return fmt.Sprintf("ResGatedGraphConv(%d=>%d, %s)",
		l.in, l.out, countParams(4*l.out*l.in+l.out))
}
