package graphs

import (
	"math"

	. "github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/gomlx/graphnn/types/tensors"
)

// This file builds the whole-graph linear operators consumed by the
// dense-algebra convolution path: the degree-normalized adjacency and the
// scaled Laplacian. Both are returned as tensors.Operator, sparse (CSC) by
// default, dense on request.

// AdjacencyBuilder configures NormalizedAdjacency. Create it with
// NormalizedAdjacency, configure with the chained methods and call Done.
type AdjacencyBuilder[T tensors.Float] struct {
	g            *Graph
	addSelfLoops bool
	dense        bool
}

// NormalizedAdjacency returns a builder for the symmetric degree-normalized
// adjacency Ã of the graph, with Ã[j, k] = A[j, k] / sqrt(deg(j)·deg(k)), where
// A[j, k] counts the edges j→k (so row is source, column is target, matching
// X·Ã aggregation by incoming edges) and deg is the in-degree after the optional
// self-loop augmentation.
//
// The element type T is chosen explicitly by the caller; there is no inference
// from the input data.
//
// Example, the operator the GCN layer uses:
//
//	adj := graphs.NormalizedAdjacency[float32](g).WithSelfLoops(true).Done()
func NormalizedAdjacency[T tensors.Float](g *Graph) *AdjacencyBuilder[T] {
	return &AdjacencyBuilder[T]{g: g}
}

// WithSelfLoops sets whether to append one self-loop per node before
// normalizing. Default is false.
func (b *AdjacencyBuilder[T]) WithSelfLoops(enabled bool) *AdjacencyBuilder[T] {
	b.addSelfLoops = enabled
	return b
}

// Dense sets whether to materialize a dense operator instead of the default
// sparse (CSC) one.
func (b *AdjacencyBuilder[T]) Dense(enabled bool) *AdjacencyBuilder[T] {
	b.dense = enabled
	return b
}

// Done builds the operator.
func (b *AdjacencyBuilder[T]) Done() tensors.Operator[T] {
	g := b.g
	if b.addSelfLoops {
		g = g.AddSelfLoops()
	}
	rows, cols, values := normalizedAdjacencyTriplets[T](g)
	klog.V(2).Infof("graphs.NormalizedAdjacency: %d nodes, %d entries, selfLoops=%v, dense=%v",
		g.NumNodes(), len(values), b.addSelfLoops, b.dense)
	return assemble(g.NumNodes(), rows, cols, values, b.dense)
}

// normalizedAdjacencyTriplets returns one (source, target, weight) triplet per
// edge, weighted by 1/sqrt(deg(source)·deg(target)). Degrees are in-degrees;
// for the symmetrized graphs this operator is meant for, in- and out-degrees
// coincide.
func normalizedAdjacencyTriplets[T tensors.Float](g *Graph) (rows, cols []int32, values []T) {
	degrees := g.Degree(DegreeIn)
	invSqrtDeg := make([]float64, g.NumNodes())
	for i, d := range degrees {
		if d > 0 {
			invSqrtDeg[i] = 1.0 / math.Sqrt(float64(d))
		}
	}
	sources, targets := g.EdgeIndex()
	values = make([]T, len(sources))
	for e := range sources {
		values[e] = T(invSqrtDeg[sources[e]] * invSqrtDeg[targets[e]])
	}
	return sources, targets, values
}

func assemble[T tensors.Float](numNodes int, rows, cols []int32, values []T, dense bool) tensors.Operator[T] {
	if !dense {
		return tensors.NewSparse(numNodes, numNodes, rows, cols, values)
	}
	out := tensors.New[T](numNodes, numNodes)
	for i := range values {
		r, c := int(rows[i]), int(cols[i])
		out.Set(r, c, out.At(r, c)+values[i])
	}
	return out
}

// LaplacianBuilder configures ScaledLaplacian. Create it with ScaledLaplacian,
// configure with the chained methods and call Done.
type LaplacianBuilder[T tensors.Float] struct {
	g              *Graph
	dense          bool
	exactLambdaMax bool
}

// ScaledLaplacian returns a builder for the scaled graph Laplacian
// 2·L/λmax − I, where L = I − Ã is the symmetric normalized Laplacian (Ã the
// self-loop-free normalized adjacency) and λmax its largest eigenvalue.
//
// By default λmax is taken as its upper bound 2, which keeps the spectrum of
// the result inside [−1, 1] without an eigendecomposition; ExactLambdaMax
// computes it instead. The operator feeds Chebyshev polynomial recursions
// (see the ChebConv layer), which are stable exactly because of this rescaling.
func ScaledLaplacian[T tensors.Float](g *Graph) *LaplacianBuilder[T] {
	return &LaplacianBuilder[T]{g: g}
}

// Dense sets whether to materialize a dense operator instead of the default
// sparse (CSC) one.
func (b *LaplacianBuilder[T]) Dense(enabled bool) *LaplacianBuilder[T] {
	b.dense = enabled
	return b
}

// ExactLambdaMax computes λmax with an eigendecomposition of L (always in
// float64) instead of using the fixed upper bound 2. The graph must be
// symmetrized, as L is only symmetric then.
func (b *LaplacianBuilder[T]) ExactLambdaMax() *LaplacianBuilder[T] {
	b.exactLambdaMax = true
	return b
}

// Done builds the operator.
func (b *LaplacianBuilder[T]) Done() tensors.Operator[T] {
	g := b.g
	numNodes := g.NumNodes()
	adjRows, adjCols, adjValues := normalizedAdjacencyTriplets[float64](g)

	lambdaMax := 2.0
	if b.exactLambdaMax {
		lambdaMax = largestLaplacianEigenvalue(numNodes, adjRows, adjCols, adjValues)
	}
	klog.V(2).Infof("graphs.ScaledLaplacian: %d nodes, λmax=%g (exact=%v), dense=%v",
		numNodes, lambdaMax, b.exactLambdaMax, b.dense)

	// 2·L/λmax − I = (2/λmax)·(I − Ã) − I: a diagonal of 2/λmax − 1 plus the
	// adjacency entries scaled by −2/λmax. Self-loop edges land on the diagonal
	// and are accumulated there.
	scale := 2.0 / lambdaMax
	entries := len(adjValues) + numNodes
	rows := make([]int32, 0, entries)
	cols := make([]int32, 0, entries)
	values := make([]T, 0, entries)
	for i := 0; i < numNodes; i++ {
		rows = append(rows, int32(i))
		cols = append(cols, int32(i))
		values = append(values, T(scale-1.0))
	}
	for e := range adjValues {
		rows = append(rows, adjRows[e])
		cols = append(cols, adjCols[e])
		values = append(values, T(-scale*adjValues[e]))
	}
	return assemble(numNodes, rows, cols, values, b.dense)
}

// largestLaplacianEigenvalue materializes L = I − Ã densely and returns its
// largest eigenvalue, via gonum's symmetric eigendecomposition.
func largestLaplacianEigenvalue(numNodes int, adjRows, adjCols []int32, adjValues []float64) float64 {
	if numNodes == 0 {
		return 2.0
	}
	laplacian := mat.NewSymDense(numNodes, nil)
	for i := 0; i < numNodes; i++ {
		laplacian.SetSym(i, i, 1.0)
	}
	for e := range adjValues {
		r, c := int(adjRows[e]), int(adjCols[e])
		if r > c {
			// SymDense keeps the upper triangle; the lower mirror of a
			// symmetrized graph carries the same weights.
			continue
		}
		laplacian.SetSym(r, c, laplacian.At(r, c)-adjValues[e])
	}
	var eigen mat.EigenSym
	if ok := eigen.Factorize(laplacian, false); !ok {
		Panicf("graphs.ScaledLaplacian: eigendecomposition of the %d-node Laplacian failed", numNodes)
	}
	eigenvalues := eigen.Values(nil)
	lambdaMax := eigenvalues[0]
	for _, v := range eigenvalues[1:] {
		lambdaMax = math.Max(lambdaMax, v)
	}
	return lambdaMax
}
