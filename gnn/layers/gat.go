package layers

import (
	"fmt"
	"math"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// GATConv is the graph attention layer of Veličković et al.: every neighbor's
// contribution is weighted by a learned, softmax-normalized attention
// coefficient, per head,
//
//	e_ij = LeakyReLU(aᵗ[W·x_i ‖ W·x_j])
//	α_ij = exp(e_ij) / Σ_j' exp(e_ij')
//	output_i = σ(Σ_j α_ij·W·x_j + bias)      (heads concatenated)
//
// Self-loops are always added internally before propagation, so every node
// attends to itself. The softmax runs "online" over the neighborhood: each edge
// carries the (exp-weight, exp-weighted value) pair as one message bundle, a
// sum aggregator accumulates both, and the update divides. For numeric
// stability the per-node maximum logit is subtracted before exponentiating -- a
// mathematically equivalent rewrite -- which costs one extra propagation round
// with a max aggregator.
type GATConv[T tensors.Float] struct {
	// W is the shared projection, shaped (heads·out, in); rows
	// [h·out, (h+1)·out) belong to head h.
	W *tensors.Dense[T]

	// A holds the attention vectors, shaped (2·out, heads): column h is
	// [a_target ‖ a_source] for head h.
	A *tensors.Dense[T]

	// Bias is broadcast over nodes, shaped (heads·out).
	Bias []T

	in, out, heads int
	negativeSlope  T
	activation     Activation[T]
}

// NewGATConv creates a GATConv layer mapping `in` features to `out` features
// per head; the heads' outputs are concatenated, so Forward produces
// heads·out features per node. Parameters are allocated zeroed.
func NewGATConv[T tensors.Float](in, out, heads int) *GATConv[T] {
	validatePositive("GATConv", "in", in)
	validatePositive("GATConv", "out", out)
	validatePositive("GATConv", "heads", heads)
	return &GATConv[T]{
		W:             tensors.New[T](heads*out, in),
		A:             tensors.New[T](2*out, heads),
		Bias:          make([]T, heads*out),
		in:            in,
		out:           out,
		heads:         heads,
		negativeSlope: T(0.2),
	}
}

// WithNegativeSlope sets the LeakyReLU slope of the attention logits.
// Default is 0.2.
func (l *GATConv[T]) WithNegativeSlope(slope T) *GATConv[T] {
	l.negativeSlope = slope
	return l
}

// WithActivation sets the activation σ. Default is the identity.
func (l *GATConv[T]) WithActivation(activation Activation[T]) *GATConv[T] {
	l.activation = activation
	return l
}

// Auxiliary node data layout used during propagation: the projected features,
// then the target-side and source-side logit halves (one per head), then --
// for the second pass -- the per-node maximum logits.
func (l *GATConv[T]) auxOffsets() (left, right, maximum int) {
	return l.heads * l.out, l.heads*l.out + l.heads, l.heads*l.out + 2*l.heads
}

// Forward computes one pass. x must be shaped (in, g.NumNodes()); the output
// is shaped (heads·out, g.NumNodes()).
func (l *GATConv[T]) Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T] {
	checkInputDim(l.String(), l.in, x)
	withLoops := g.AddSelfLoops()

	projected := l.W.MatMul(x) // (heads·out, numNodes)

	// The logit of edge i←j decomposes as aᵗ[Wx_i ‖ Wx_j] =
	// a_targetᵗ·Wx_i + a_sourceᵗ·Wx_j, so each half is a per-node quantity,
	// computed once here instead of per edge.
	numNodes := x.Cols()
	left := tensors.New[T](l.heads, numNodes)
	right := tensors.New[T](l.heads, numNodes)
	for i := 0; i < numNodes; i++ {
		wx := projected.Col(i)
		for h := 0; h < l.heads; h++ {
			var lv, rv T
			for r := 0; r < l.out; r++ {
				lv += l.A.At(r, h) * wx[h*l.out+r]
				rv += l.A.At(l.out+r, h) * wx[h*l.out+r]
			}
			left.Set(h, i, lv)
			right.Set(h, i, rv)
		}
	}
	auxiliary := tensors.ConcatRows(projected, left, right)

	// First pass: per-node maximum logit, one per head, used to stabilize the
	// exponentials of the second pass.
	leftOff, rightOff, _ := l.auxOffsets()
	maxPasser := &vectorPasser[T]{
		messageDim: l.heads,
		message: func(xTarget, xSource, _ []T) gnn.Vector[T] {
			logits := make(gnn.Vector[T], l.heads)
			for h := 0; h < l.heads; h++ {
				logits[h] = leakyRelu(xTarget[leftOff+h]+xSource[rightOff+h], l.negativeSlope)
			}
			return logits
		},
		update: func(_ []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T] {
			return x
		},
	}
	_, maxLogits := gnn.Propagate(withLoops, gnn.AggregatorMax, maxPasser, auxiliary, nil)

	// Second pass: accumulate (exp-weight, exp-weighted value) bundles.
	stacked := tensors.ConcatRows(auxiliary, gnn.VectorsToDense(l.heads, maxLogits))
	_, attention := gnn.Propagate(withLoops, gnn.AggregatorSum, &gatPasser[T]{layer: l}, stacked, nil)

	// Normalize: the summed weighted values divided by the summed exponentials
	// give the convex combination of the neighborhood.
	output := tensors.New[T](l.heads*l.out, numNodes)
	for k := 0; k < numNodes; k++ {
		bundle := attention[k]
		column := output.Col(k)
		for h := 0; h < l.heads; h++ {
			denominator := bundle.expWeight[h]
			if denominator == 0 {
				// Unreachable for nodes with the self-loop in place, kept so
				// an empty neighborhood yields zeros, not NaN.
				denominator = 1
			}
			for r := 0; r < l.out; r++ {
				column[h*l.out+r] = bundle.weighted[h*l.out+r] / denominator
			}
		}
	}
	return output.AddToColumns(l.Bias).Map(l.activation)
}

// String implements fmt.Stringer.
func (l *GATConv[T]) String() string {
	return fmt.Sprintf("GATConv(%d=>%d, heads=%d, %s)", l.in, l.out, l.heads,
		countParams(l.heads*l.out*l.in+2*l.out*l.heads+l.heads*l.out))
}

// gatMessage is the per-edge attention bundle: the exponentiated logit and the
// exponentiated-logit-weighted projected features, per head. Reduction maps
// elementwise over both fields.
type gatMessage[T tensors.Float] struct {
	expWeight gnn.Vector[T] // (heads)
	weighted  gnn.Vector[T] // (heads·out)
}

// Clone implements gnn.Payload.
func (m gatMessage[T]) Clone() gatMessage[T] {
	return gatMessage[T]{expWeight: m.expWeight.Clone(), weighted: m.weighted.Clone()}
}

// Combine implements gnn.Payload.
func (m gatMessage[T]) Combine(agg gnn.Aggregator, other gatMessage[T]) gatMessage[T] {
	m.expWeight.Combine(agg, other.expWeight)
	m.weighted.Combine(agg, other.weighted)
	return m
}

// Scale implements gnn.Payload.
func (m gatMessage[T]) Scale(alpha float64) gatMessage[T] {
	m.expWeight.Scale(alpha)
	m.weighted.Scale(alpha)
	return m
}

// gatPasser computes the attention bundles of GATConv's second pass over the
// stacked auxiliary node data.
type gatPasser[T tensors.Float] struct {
	layer *GATConv[T]
}

func (p *gatPasser[T]) ComputeMessage(xTarget, xSource, _ []T) gatMessage[T] {
	l := p.layer
	leftOff, rightOff, maxOff := l.auxOffsets()
	message := gatMessage[T]{
		expWeight: make(gnn.Vector[T], l.heads),
		weighted:  make(gnn.Vector[T], l.heads*l.out),
	}
	for h := 0; h < l.heads; h++ {
		logit := leakyRelu(xTarget[leftOff+h]+xSource[rightOff+h], l.negativeSlope)
		weight := T(math.Exp(float64(logit - xTarget[maxOff+h])))
		message.expWeight[h] = weight
		for r := 0; r < l.out; r++ {
			message.weighted[h*l.out+r] = weight * xSource[h*l.out+r]
		}
	}
	return message
}

func (p *gatPasser[T]) NeutralMessage() gatMessage[T] {
	l := p.layer
	return gatMessage[T]{
		expWeight: make(gnn.Vector[T], l.heads),
		weighted:  make(gnn.Vector[T], l.heads*l.out),
	}
}

func (p *gatPasser[T]) UpdateNodes(_ []gatMessage[T], x *tensors.Dense[T]) *tensors.Dense[T] {
	return x
}
