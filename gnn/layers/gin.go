package layers

import (
	"fmt"

	. "github.com/gomlx/exceptions"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// GINConv is the graph isomorphism layer of Xu et al.: the neighborhood sum is
// blended with the node's own features and pushed through an opaque learnable
// sub-network,
//
//	output_i = nn((1 + ϵ)·x_i + agg_i)
//
// With ϵ=0, an identity nn and the default sum aggregator this reduces to
// x_i + Σ_j x_j, which is how the package tests pin its semantics down.
type GINConv[T tensors.Float] struct {
	// NN is the injected sub-network applied per node after blending.
	NN VectorFunc[T]

	// Epsilon is the self-weighting term ϵ.
	Epsilon float64

	aggregator gnn.Aggregator
}

// NewGINConv creates a GINConv layer around the given sub-network, with ϵ=0.
func NewGINConv[T tensors.Float](nn VectorFunc[T]) *GINConv[T] {
	if nn == nil {
		Panicf("layers.GINConv: nn must not be nil")
	}
	return &GINConv[T]{NN: nn, aggregator: gnn.AggregatorSum}
}

// WithEpsilon sets ϵ. Default is 0.
func (l *GINConv[T]) WithEpsilon(epsilon float64) *GINConv[T] {
	l.Epsilon = epsilon
	return l
}

// WithAggregator sets the neighborhood aggregator. Default is sum.
func (l *GINConv[T]) WithAggregator(aggregator gnn.Aggregator) *GINConv[T] {
	l.aggregator = aggregator
	return l
}

// Forward computes one pass. The input feature dimension is dictated by the
// sub-network, not by the layer.
func (l *GINConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	in := x.Rows()
	outDim := l.NN.OutputDim(in)
	passer := &vectorPasser[T]{
		messageDim: in,
		message: func(_, xSource, _ []T) gnn.Vector[T] {
			return xSource
		},
		update: func(aggregates []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T] {
			blended := x.Clone().Scale(T(1.0 + l.Epsilon)).Add(gnn.VectorsToDense(in, aggregates))
			output := tensors.New[T](outDim, x.Cols())
			for c := 0; c < x.Cols(); c++ {
				mapped := l.NN.Apply(blended.Col(c))
				if len(mapped) != outDim {
					gnn.ThrowShapeMismatch(l.String(), "nn output dimension", outDim, len(mapped))
				}
				copy(output.Col(c), mapped)
			}
			return output
		},
	}
	updated, _ := gnn.Propagate(g, l.aggregator, passer, x, nil)
	return updated
}

// String implements fmt.Stringer.
func (l *GINConv[T]) String() string {
	return fmt.Sprintf("GINConv(ϵ=%g, aggr=%s)", l.Epsilon, l.aggregator)
}
