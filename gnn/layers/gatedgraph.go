package layers

import (
	"fmt"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// GatedGraphConv is the gated graph sequence layer of Li et al.: the hidden
// state is propagated over the full graph for a fixed number of sequential
// rounds, each round projecting the neighbors' states with that round's weight
// matrix and folding the aggregate into the state through a gated recurrent
// (GRU) cell:
//
//	h⁰ = [x ‖ 0]                      (zero-padded when in < out)
//	aᵗ_i = aggregate of W[t]·hᵗ_j over incoming edges
//	hᵗ⁺¹ = GRU(aᵗ, hᵗ)
//
// The input feature dimension must not exceed the state dimension `out`; the
// first round pads the state with zeros when it is smaller.
type GatedGraphConv[T tensors.Float] struct {
	// W holds one (out, out) projection per round.
	W []*tensors.Dense[T]

	// GRU cell parameters: update gate (Wz, Uz, Bz), reset gate (Wr, Ur, Br)
	// and candidate state (Wh, Uh, Bh). The W· act on the aggregate, the U· on
	// the previous state; all matrices shaped (out, out), biases (out).
	Wz, Uz, Wr, Ur, Wh, Uh *tensors.Dense[T]
	Bz, Br, Bh             []T

	out, steps int
	aggregator gnn.Aggregator
}

// NewGatedGraphConv creates a GatedGraphConv layer with state dimension `out`
// and `steps` sequential propagation rounds. Parameters are allocated zeroed.
func NewGatedGraphConv[T tensors.Float](out, steps int) *GatedGraphConv[T] {
	validatePositive("GatedGraphConv", "out", out)
	validatePositive("GatedGraphConv", "steps", steps)
	weights := make([]*tensors.Dense[T], steps)
	for i := range weights {
		weights[i] = tensors.New[T](out, out)
	}
	return &GatedGraphConv[T]{
		W:          weights,
		Wz:         tensors.New[T](out, out),
		Uz:         tensors.New[T](out, out),
		Wr:         tensors.New[T](out, out),
		Ur:         tensors.New[T](out, out),
		Wh:         tensors.New[T](out, out),
		Uh:         tensors.New[T](out, out),
		Bz:         make([]T, out),
		Br:         make([]T, out),
		Bh:         make([]T, out),
		out:        out,
		steps:      steps,
		aggregator: gnn.AggregatorSum,
	}
}

// WithAggregator sets the neighborhood aggregator. Default is sum.
func (l *GatedGraphConv[T]) WithAggregator(aggregator gnn.Aggregator) *GatedGraphConv[T] {
	l.aggregator = aggregator
	return l
}

// Forward computes one pass. x must have at most `out` features per node; a
// larger input is a shape mismatch, a smaller one is zero-padded into the
// initial state.
func (l *GatedGraphConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	if x.Rows() > l.out {
		gnn.ThrowShapeMismatch(l.String(), "input feature dimension (must be ≤ state dimension)",
			l.out, x.Rows())
	}
	state := tensors.New[T](l.out, x.Cols())
	for c := 0; c < x.Cols(); c++ {
		copy(state.Col(c), x.Col(c))
	}

	passer := &vectorPasser[T]{
		messageDim: l.out,
		message: func(_, xSource, _ []T) gnn.Vector[T] {
			return xSource
		},
		update: func(aggregates []gnn.Vector[T], _ *tensors.Dense[T]) *tensors.Dense[T] {
			return gnn.VectorsToDense(l.out, aggregates)
		},
	}
	for t := 0; t < l.steps; t++ {
		projected := l.W[t].MatMul(state)
		aggregate, _ := gnn.Propagate(g, l.aggregator, passer, projected, nil)
		state = l.gruCell(aggregate, state)
	}
	return state
}

// gruCell folds one round's aggregate into the hidden state:
//
//	z = sigmoid(Wz·a + Uz·h + Bz)
//	r = sigmoid(Wr·a + Ur·h + Br)
//	h̃ = tanh(Wh·a + Uh·(r ⊙ h) + Bh)
//	h' = (1 − z) ⊙ h + z ⊙ h̃
func (l *GatedGraphConv[T]) gruCell(a, h *tensors.Dense[T]) *tensors.Dense[T] {
	z := l.Wz.MatMul(a).Add(l.Uz.MatMul(h)).AddToColumns(l.Bz).Map(sigmoid[T])
	r := l.Wr.MatMul(a).Add(l.Ur.MatMul(h)).AddToColumns(l.Br).Map(sigmoid[T])
	candidate := l.Wh.MatMul(a).
		Add(l.Uh.MatMul(r.MulElem(h))).
		AddToColumns(l.Bh).
		Map(tanh[T])
	keep := z.Clone().Map(func(v T) T { return 1 - v }).MulElem(h)
	return keep.Add(z.MulElem(candidate))
}

// String implements fmt.Stringer.
func (l *GatedGraphConv[T]) String() string {
	perRound := l.out * l.out
	gru := 6*perRound + 3*l.out
	return fmt.Sprintf("GatedGraphConv(out=%d, steps=%d, aggr=%s, %s)",
		l.out, l.steps, l.aggregator, countParams(l.steps*perRound+gru))
}
