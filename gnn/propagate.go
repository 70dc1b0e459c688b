package gnn

import (
	"runtime"
	"sync"

	"k8s.io/klog/v2"

	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// MessagePasser is what a layer plugs into Propagate: the per-edge message
// computation and the per-node update, both closing over the layer's
// parameters. The engine never inspects parameters, it only invokes these.
type MessagePasser[T tensors.Float, M Payload[M]] interface {
	// ComputeMessage computes the message of one edge from the target node's
	// data (xTarget), the source node's data (xSource) and the edge's feature
	// vector (nil when the graph carries no edge features). The slices are
	// views into the input matrices and must not be modified; the returned
	// message may alias them (the engine clones before accumulating).
	//
	// On large graphs the engine calls ComputeMessage concurrently from
	// multiple goroutines, so implementations must be safe for concurrent use.
	ComputeMessage(xTarget, xSource, edgeFeatures []T) M

	// NeutralMessage returns the zero-valued message assigned to nodes with no
	// incoming edges, under every aggregator.
	NeutralMessage() M

	// UpdateNodes combines the per-node aggregates with the original node data
	// into the new feature matrix. It is called once, vectorized over all
	// nodes: aggregates[k] belongs to node k.
	UpdateNodes(aggregates []M, x *tensors.Dense[T]) *tensors.Dense[T]
}

// minEdgesForParallelism is the edge count below which messages are computed on
// the calling goroutine; chunking overhead dominates under this.
const minEdgesForParallelism = 256

// Propagate runs one round of message passing over the graph: one message per
// edge via mp.ComputeMessage, a scatter-reduction of the messages by edge
// target under the given aggregator, and one mp.UpdateNodes call. It returns
// the updated node features and the raw per-node aggregates, for the layers
// that need both.
//
// x must have one column per node; edgeFeatures, when non-nil, one column per
// edge -- otherwise Propagate throws a *ShapeMismatchError before any
// computation. Messages and aggregates are transient: they are recomputed every
// call and never retained by the engine.
//
// Message computation is data-parallel over edge chunks; the reduction is a
// sequential segmented fold, so given the same edge order the result is
// deterministic. Reordering the edge list changes the result only by
// floating-point rounding, since every aggregator is associative and
// commutative.
func Propagate[T tensors.Float, M Payload[M]](
	g *graphs.Graph, aggregator Aggregator, mp MessagePasser[T, M],
	x *tensors.Dense[T], edgeFeatures *tensors.Dense[T]) (updated *tensors.Dense[T], aggregates []M) {

	numNodes, numEdges := g.NumNodes(), g.NumEdges()
	if x.Cols() != numNodes {
		ThrowShapeMismatch("gnn.Propagate", "node feature columns", numNodes, x.Cols())
	}
	if edgeFeatures != nil && edgeFeatures.Cols() != numEdges {
		ThrowShapeMismatch("gnn.Propagate", "edge feature columns", numEdges, edgeFeatures.Cols())
	}
	klog.V(2).Infof("gnn.Propagate: %d nodes, %d edges, aggregator=%s, edgeFeatures=%v",
		numNodes, numEdges, aggregator, edgeFeatures != nil)

	sources, targets := g.EdgeIndex()
	messages := computeMessages(mp, sources, targets, x, edgeFeatures)

	// Segmented reduction by edge target: the first message of a segment seeds
	// the accumulator (cloned, messages may alias x), later ones fold in place.
	combineOp := aggregator
	if combineOp == AggregatorMean {
		combineOp = AggregatorSum
	}
	aggregates = make([]M, numNodes)
	inDegree := make([]int32, numNodes)
	for e, m := range messages {
		k := targets[e]
		if inDegree[k] == 0 {
			aggregates[k] = m.Clone()
		} else {
			aggregates[k] = aggregates[k].Combine(combineOp, m)
		}
		inDegree[k]++
	}
	for k := range aggregates {
		if inDegree[k] == 0 {
			aggregates[k] = mp.NeutralMessage()
		} else if aggregator == AggregatorMean {
			aggregates[k] = aggregates[k].Scale(1.0 / float64(inDegree[k]))
		}
	}

	updated = mp.UpdateNodes(aggregates, x)
	return updated, aggregates
}

// computeMessages evaluates mp.ComputeMessage for every edge, in parallel
// chunks for large edge lists. Each edge writes only its own slot, so no
// synchronization is needed beyond the final wait.
func computeMessages[T tensors.Float, M Payload[M]](
	mp MessagePasser[T, M], sources, targets []int32,
	x *tensors.Dense[T], edgeFeatures *tensors.Dense[T]) []M {

	numEdges := len(sources)
	messages := make([]M, numEdges)
	oneEdge := func(e int) {
		var features []T
		if edgeFeatures != nil {
			features = edgeFeatures.Col(e)
		}
		messages[e] = mp.ComputeMessage(x.Col(int(targets[e])), x.Col(int(sources[e])), features)
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numEdges < minEdgesForParallelism || numWorkers <= 1 {
		for e := 0; e < numEdges; e++ {
			oneEdge(e)
		}
		return messages
	}

	chunk := (numEdges + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for start := 0; start < numEdges; start += chunk {
		end := min(start+chunk, numEdges)
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for e := from; e < to; e++ {
				oneEdge(e)
			}
		}(start, end)
	}
	wg.Wait()
	return messages
}
