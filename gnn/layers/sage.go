package layers

import (
	"fmt"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// SAGEConv is the GraphSAGE layer of Hamilton et al.: the node's own features
// and the aggregated neighborhood are concatenated before the linear map,
//
//	output_i = σ(W·[x_i ‖ agg_i] + bias)
//
// The aggregator is configurable; the default is mean, as in the paper.
type SAGEConv[T tensors.Float] struct {
	// W is the weight matrix over the concatenation, shaped (out, 2·in).
	W *tensors.Dense[T]

	// Bias is the per-output-feature bias, broadcast over nodes.
	Bias []T

	in, out    int
	aggregator gnn.Aggregator
	activation Activation[T]
}

// NewSAGEConv creates a SAGEConv layer mapping `in` features to `out` features.
// Parameters are allocated zeroed.
func NewSAGEConv[T tensors.Float](in, out int) *SAGEConv[T] {
	validatePositive("SAGEConv", "in", in)
	validatePositive("SAGEConv", "out", out)
	return &SAGEConv[T]{
		W:          tensors.New[T](out, 2*in),
		Bias:       make([]T, out),
		in:         in,
		out:        out,
		aggregator: gnn.AggregatorMean,
	}
}

// WithAggregator sets the neighborhood aggregator. Default is mean.
func (l *SAGEConv[T]) WithAggregator(aggregator gnn.Aggregator) *SAGEConv[T] {
	l.aggregator = aggregator
	return l
}

// WithActivation sets the activation σ. Default is the identity.
func (l *SAGEConv[T]) WithActivation(activation Activation[T]) *SAGEConv[T] {
	l.activation = activation
	return l
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()).
func (l *SAGEConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	passer := &vectorPasser[T]{
		messageDim: l.in,
		message: func(_, xSource, _ []T) gnn.Vector[T] {
			return xSource
		},
		update: func(aggregates []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T] {
			concatenated := tensors.ConcatRows(x, gnn.VectorsToDense(l.in, aggregates))
			return l.W.MatMul(concatenated).
				AddToColumns(l.Bias).
				Map(l.activation)
		},
	}
	updated, _ := gnn.Propagate(g, l.aggregator, passer, x, nil)
	return updated
}

// String implements fmt.Stringer.
func (l *SAGEConv[T]) String() string {
	return fmt.Sprintf("SAGEConv(%d=>%d, aggr=%s, %s)",
		l.in, l.out, l.aggregator, countParams(2*l.out*l.in+l.out))
}
