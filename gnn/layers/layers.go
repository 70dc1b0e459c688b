// Package layers implements the graphnn layer catalog: parameterized,
// differentiable-by-an-external-engine transformations computing new node
// features from a graph and its current features.
//
// Most layers are thin instantiations of the message-passing engine
// (gnn.Propagate), supplying their message and update functions as closures
// over their parameters. GCNConv and ChebConv instead take the dense-algebra
// path, operating on the whole graph through a normalized-adjacency or
// scaled-Laplacian operator (see the graphs package), which is both the natural
// formulation of their math and the better-batching one.
//
// Conventions shared by the catalog:
//
//   - A layer is constructed once (New<Layer>), owns its parameter matrices as
//     exported fields (allocated zeroed; initialization schemes are the
//     caller's concern) and is reused across forward passes. Parameters are
//     read-only during Forward.
//   - Constructors validate their dimensions and hyperparameters eagerly and
//     panic on nonsense (non-positive sizes).
//   - Forward validates the input's feature dimension against the layer's
//     configured input size and throws *gnn.ShapeMismatchError BEFORE any
//     computation; inputs are never silently reshaped or truncated.
//   - Activations are opaque unary maps (Activation); nil means identity.
//   - Every layer has a String() descriptor with its shape hyperparameters and
//     parameter count.
package layers

import (
	"math"

	"github.com/dustin/go-humanize"
	. "github.com/gomlx/exceptions"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// Layer is the callable every catalog entry exposes: one forward pass over the
// graph. NNConv is the exception, its Forward additionally takes the per-edge
// feature matrix.
type Layer[T tensors.Float] interface {
	Forward(g *graphs.Graph, x *tensors.Dense[T]) *tensors.Dense[T]
	String() string
}

// Activation is an opaque elementwise unary map applied after a layer's affine
// part. The catalog treats activations as external collaborators; nil is the
// identity.
type Activation[T tensors.Float] func(T) T

// VectorFunc is an opaque learnable sub-function injected into EdgeConv,
// GINConv and NNConv: a vector-to-vector map with a declared output dimension,
// so the host layer can validate shape contracts eagerly. The layers never
// inspect its internals.
type VectorFunc[T tensors.Float] interface {
	// Apply maps an input vector to the output vector. It must not retain or
	// modify the input slice. EdgeConv and NNConv call Apply per edge, which
	// the engine runs concurrently on large graphs, so implementations must be
	// safe for concurrent use.
	Apply(in []T) []T

	// OutputDim returns the output vector length for the given input length.
	OutputDim(inputDim int) int
}

// FuncOf wraps a plain function and a fixed output dimension into a VectorFunc.
func FuncOf[T tensors.Float](outputDim int, fn func(in []T) []T) VectorFunc[T] {
	if outputDim <= 0 {
		Panicf("layers.FuncOf: outputDim must be positive, got %d", outputDim)
	}
	if fn == nil {
		Panicf("layers.FuncOf: fn must not be nil")
	}
	return &fixedDimFunc[T]{outputDim: outputDim, fn: fn}
}

type fixedDimFunc[T tensors.Float] struct {
	outputDim int
	fn        func(in []T) []T
}

func (f *fixedDimFunc[T]) Apply(in []T) []T    { return f.fn(in) }
func (f *fixedDimFunc[T]) OutputDim(_ int) int { return f.outputDim }

// vectorPasser adapts a pair of closures into a gnn.MessagePasser with plain
// Vector messages -- the injected-closure shape most layers take.
type vectorPasser[T tensors.Float] struct {
	messageDim int
	message    func(xTarget, xSource, edgeFeatures []T) gnn.Vector[T]
	update     func(aggregates []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T]
}

func (p *vectorPasser[T]) ComputeMessage(xTarget, xSource, edgeFeatures []T) gnn.Vector[T] {
	return p.message(xTarget, xSource, edgeFeatures)
}

func (p *vectorPasser[T]) NeutralMessage() gnn.Vector[T] {
	return make(gnn.Vector[T], p.messageDim)
}

func (p *vectorPasser[T]) UpdateNodes(aggregates []gnn.Vector[T], x *tensors.Dense[T]) *tensors.Dense[T] {
	return p.update(aggregates, x)
}

// validatePositive panics if the named constructor dimension is not positive.
func validatePositive(layer, name string, value int) {
	if value <= 0 {
		Panicf("layers.%s: %s must be a positive integer, got %d", layer, name, value)
	}
}

// checkInputDim throws a shape mismatch unless x carries `in` features per node.
func checkInputDim[T tensors.Float](layer string, in int, x *tensors.Dense[T]) {
	if x.Rows() != in {
		gnn.ThrowShapeMismatch(layer, "input feature dimension", in, x.Rows())
	}
}

// countParams humanizes a parameter count for the String descriptors.
func countParams(n int) string {
	return humanize.Comma(int64(n)) + " params"
}

func sigmoid[T tensors.Float](v T) T {
	return T(1.0 / (1.0 + math.Exp(-float64(v))))
}

func tanh[T tensors.Float](v T) T {
	return T(math.Tanh(float64(v)))
}

func leakyRelu[T tensors.Float](v, negativeSlope T) T {
	if v < 0 {
		return negativeSlope * v
	}
	return v
}
