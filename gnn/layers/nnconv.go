package layers

import (
	"fmt"

	. "github.com/gomlx/exceptions"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// NNConv is the edge-conditioned convolution of Gilmer et al. (neural message
// passing): an opaque sub-network maps each edge's feature vector to a full
// (out, in) kernel, which is applied to the neighbor's features,
//
//	K_e = reshape(nn(e_ij), out, in)
//	m_ij = K_e · x_j
//	output_i = σ(W·x_i + agg_i + bias)
//
// This is the one catalog layer whose Forward requires edge features, so its
// signature takes them explicitly instead of implementing Layer.
type NNConv[T tensors.Float] struct {
	// W weighs the node's own features, shaped (out, in).
	W *tensors.Dense[T]

	// Bias is the per-output-feature bias, broadcast over nodes.
	Bias []T

	// NN maps an edge feature vector to a flattened (out, in) kernel, laid out
	// column-major (the in columns of length out, concatenated).
	NN VectorFunc[T]

	in, out, edgeDim int
	aggregator       gnn.Aggregator
	activation       Activation[T]
}

// NewNNConv creates an NNConv layer mapping `in` node features to `out`
// features, conditioned on `edgeDim`-dimensional edge features through the
// given sub-network. The sub-network must produce out·in values per edge;
// this is validated eagerly against its declared output dimension.
func NewNNConv[T tensors.Float](in, out, edgeDim int, nn VectorFunc[T]) *NNConv[T] {
	validatePositive("NNConv", "in", in)
	validatePositive("NNConv", "out", out)
	validatePositive("NNConv", "edgeDim", edgeDim)
	if nn == nil {
		Panicf("layers.NNConv: nn must not be nil")
	}
	if got := nn.OutputDim(edgeDim); got != out*in {
		gnn.ThrowShapeMismatch(fmt.Sprintf("NNConv(%d=>%d)", in, out),
			"nn kernel output dimension", out*in, got)
	}
	return &NNConv[T]{
		W:          tensors.New[T](out, in),
		Bias:       make([]T, out),
		NN:         nn,
		in:         in,
		out:        out,
		edgeDim:    edgeDim,
		aggregator: gnn.AggregatorSum,
	}
}

// WithAggregator sets the neighborhood aggregator. Default is sum.
func (l *NNConv[T]) WithAggregator(aggregator gnn.Aggregator) *NNConv[T] {
	l.aggregator = aggregator
	return l
}

// WithActivation sets the activation σ. Default is the identity.
func (l *NNConv[T]) WithActivation(activation Activation[T]) *NNConv[T] {
	l.activation = activation
	return l
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()) and
// edgeFeatures (edgeDim, g.NumEdges()).
func (l *NNConv[T]) Forward(g *graphs.Graph, x, edgeFeatures *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	if edgeFeatures == nil {
		gnn.ThrowShapeMismatch(l.String(), "edge feature dimension", l.edgeDim, 0)
	}
	if edgeFeatures.Rows() != l.edgeDim {
		gnn.ThrowShapeMismatch(l.String(), "edge feature dimension", l.edgeDim, edgeFeatures.Rows())
	}

	passer := &vectorPasser[T]{
		messageDim: l.out,
		message: func(_, xSource, edge []T) gnn.Vector[T] {
			// Per-edge kernel, flattened column-major: kernel·x_j without the
			// reshape, one column of length `out` per input feature.
			kernel := l.NN.Apply(edge)
			if len(kernel) != l.out*l.in {
				gnn.ThrowShapeMismatch(l.String(), "nn kernel output dimension", l.out*l.in, len(kernel))
			}
			message := make(gnn.Vector[T], l.out)
			for c, alpha := range xSource {
				if alpha == 0 {
					continue
				}
				column := kernel[c*l.out : (c+1)*l.out]
				for r, v := range column {
					message[r] += alpha * v
				}
			}
			return message
		},
		update: func(aggregates []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T] {
			return l.W.MatMul(x).
				Add(gnn.VectorsToDense(l.out, aggregates)).
				AddToColumns(l.Bias).
				Map(l.activation)
		},
	}
	updated, _ := gnn.Propagate(g, l.aggregator, passer, x, edgeFeatures)
	return updated
}

// String implements fmt.Stringer.
func (l *NNConv[T]) String() string {
	return fmt.Sprintf("NNConv(%d=>%d, edgeDim=%d, aggr=%s, %s)",
		l.in, l.out, l.edgeDim, l.aggregator, countParams(l.out*l.in+l.out))
}
