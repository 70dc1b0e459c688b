package layers

import (
	"fmt"

	. "github.com/gomlx/exceptions"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// EdgeConv is the edge convolution of Wang et al. (dynamic graph CNN): the
// message is an opaque sub-network of the node's features and the neighbor's
// relative displacement,
//
//	m_ij = nn(x_i ‖ (x_j − x_i))
//
// and the update passes the aggregate straight through. The default aggregator
// is max, as in the paper.
type EdgeConv[T tensors.Float] struct {
	// NN is the injected sub-network applied per edge to the concatenation of
	// the target's features and the source-minus-target difference.
	NN VectorFunc[T]

	aggregator gnn.Aggregator
}

// NewEdgeConv creates an EdgeConv layer around the given sub-network.
func NewEdgeConv[T tensors.Float](nn VectorFunc[T]) *EdgeConv[T] {
	if nn == nil {
		Panicf("layers.EdgeConv: nn must not be nil")
	}
	return &EdgeConv[T]{NN: nn, aggregator: gnn.AggregatorMax}
}

// WithAggregator sets the neighborhood aggregator. Default is max.
func (l *EdgeConv[T]) WithAggregator(aggregator gnn.Aggregator) *EdgeConv[T] {
	l.aggregator = aggregator
	return l
}

// Forward computes one pass. The input feature dimension is dictated by the
// sub-network, whose input is twice the node feature dimension.
func (l *EdgeConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	in := x.Rows()
	outDim := l.NN.OutputDim(2 * in)
	passer := &vectorPasser[T]{
		messageDim: outDim,
		message: func(xTarget, xSource, _ []T) gnn.Vector[T] {
			concatenated := make([]T, 2*in)
			copy(concatenated, xTarget)
			for r := range xSource {
				concatenated[in+r] = xSource[r] - xTarget[r]
			}
			message := l.NN.Apply(concatenated)
			if len(message) != outDim {
				gnn.ThrowShapeMismatch(l.String(), "nn output dimension", outDim, len(message))
			}
			return message
		},
		update: func(aggregates []gnn.Vector[T], _ *tensors.Dense[T]) *tensors.Dense[T] {
			return gnn.VectorsToDense(outDim, aggregates)
		},
	}
	updated, _ := gnn.Propagate(g, l.aggregator, passer, x, nil)
	return updated
}

// String implements fmt.Stringer.
func (l *EdgeConv[T]) String() string {
	return fmt.Sprintf("EdgeConv(aggr=%s)", l.aggregator)
}
