package layers

import (
	"fmt"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// GraphConv is the neighborhood convolution of Morris et al. ("Weisfeiler and
// Leman go neural"): the message is the raw neighbor feature and the update
// keeps separate weights for the node itself and for the aggregate,
//
//	output_i = σ(W1·x_i + W2·agg_i + bias)
//
// The aggregator is configurable; the default is sum.
type GraphConv[T tensors.Float] struct {
	// W1 weighs the node's own features, W2 the aggregated neighborhood;
	// both shaped (out, in).
	W1, W2 *tensors.Dense[T]

	// Bias is the per-output-feature bias, broadcast over nodes.
	Bias []T

	in, out    int
	aggregator gnn.Aggregator
	activation Activation[T]
}

// NewGraphConv creates a GraphConv layer mapping `in` features to `out`
// features. Parameters are allocated zeroed.
func NewGraphConv[T tensors.Float](in, out int) *GraphConv[T] {
	validatePositive("GraphConv", "in", in)
	validatePositive("GraphConv", "out", out)
	return &GraphConv[T]{
		W1:         tensors.New[T](out, in),
		W2:         tensors.New[T](out, in),
		Bias:       make([]T, out),
		in:         in,
		out:        out,
		aggregator: gnn.AggregatorSum,
	}
}

// WithAggregator sets the neighborhood aggregator. Default is sum.
func (l *GraphConv[T]) WithAggregator(aggregator gnn.Aggregator) *GraphConv[T] {
	l.aggregator = aggregator
	return l
}

// WithActivation sets the activation σ. Default is the identity.
func (l *GraphConv[T]) WithActivation(activation Activation[T]) *GraphConv[T] {
	l.activation = activation
	return l
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()).
func (l *GraphConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	passer := &vectorPasser[T]{
		messageDim: l.in,
		message: func(_, xSource, _ []T) gnn.Vector[T] {
			return xSource
		},
		update: func(aggregates []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T] {
			neighborhood := gnn.VectorsToDense(l.in, aggregates)
			return l.W1.MatMul(x).
				Add(l.W2.MatMul(neighborhood)).
				AddToColumns(l.Bias).
				Map(l.activation)
		},
	}
	updated, _ := gnn.Propagate(g, l.aggregator, passer, x, nil)
	return updated
}

// String implements fmt.Stringer.
func (l *GraphConv[T]) String() string {
	return fmt.Sprintf("GraphConv(%d=>%d, aggr=%s, %s)",
		l.in, l.out, l.aggregator, countParams(2*l.out*l.in+l.out))
}
