// Package graphs implements the graph container consumed by the graphnn layers:
// a node count plus an ordered edge list, with the derived quantities the layers
// need -- degrees, self-loop augmentation, the degree-normalized adjacency and the
// scaled Laplacian.
//
// The primary representation is the edge list, as two aligned sequences of
// endpoint indices (EdgeIndex): edge e goes from sources[e] to targets[e].
// Multiple edges
// between the same pair of nodes are allowed (multigraphs). Per-edge feature
// vectors, when a layer uses them, travel separately alongside node features (see
// gnn.Propagate); the container itself is independent of the numeric element type.
//
// Graphs are immutable: transforms such as AddSelfLoops return a new Graph. The
// package performs no implicit symmetrization -- for an undirected graph the
// caller concatenates the reversed edge list before construction.
package graphs

import (
	. "github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Graph is an immutable directed multigraph: a node count and an ordered list of
// edges. Construct it with New.
type Graph struct {
	numNodes int
	sources  []int32
	targets  []int32
}

// DegreeDirection selects which endpoint Degree counts.
type DegreeDirection int

const (
	// DegreeIn counts, for each node, the edges that have it as target.
	DegreeIn DegreeDirection = iota

	// DegreeOut counts, for each node, the edges that have it as source.
	DegreeOut
)

//go:generate go tool enumer -type DegreeDirection -trimprefix=Degree -transform=snake -output=gen_degreedirection_enumer.go graphs.go

// New creates a graph with numNodes nodes and the edges
// (sources[e], targets[e]) for every position e. The endpoint slices must be
// aligned (same length) and every index must be in [0, numNodes); a violation
// panics with a *BoundsViolationError before the graph is built.
//
// The slices are copied, the caller keeps ownership of its own.
func New(numNodes int, sources, targets []int32) *Graph {
	if numNodes < 0 {
		Panicf("graphs.New: numNodes must be non-negative, got %d", numNodes)
	}
	if len(sources) != len(targets) {
		Panicf("graphs.New: endpoint slices must be aligned, got %d sources and %d targets",
			len(sources), len(targets))
	}
	for e := range sources {
		if sources[e] < 0 || int(sources[e]) >= numNodes {
			panic(errors.WithStack(&BoundsViolationError{
				Edge: e, Side: "source", Index: int(sources[e]), NumNodes: numNodes}))
		}
		if targets[e] < 0 || int(targets[e]) >= numNodes {
			panic(errors.WithStack(&BoundsViolationError{
				Edge: e, Side: "target", Index: int(targets[e]), NumNodes: numNodes}))
		}
	}
	g := &Graph{
		numNodes: numNodes,
		sources:  make([]int32, len(sources)),
		targets:  make([]int32, len(targets)),
	}
	copy(g.sources, sources)
	copy(g.targets, targets)
	return g
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return g.numNodes }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.sources) }

// EdgeIndex returns the aligned (sources, targets) endpoint sequences.
// The returned slices are views and must not be modified.
func (g *Graph) EdgeIndex() (sources, targets []int32) {
	return g.sources, g.targets
}

// Degree returns the per-node degree for the given direction: the number of
// edges having the node as target (DegreeIn) or as source (DegreeOut).
// Self-loops count once each.
func (g *Graph) Degree(direction DegreeDirection) []int32 {
	degrees := make([]int32, g.numNodes)
	endpoints := g.targets
	if direction == DegreeOut {
		endpoints = g.sources
	}
	for _, node := range endpoints {
		degrees[node]++
	}
	return degrees
}

// AddSelfLoops returns a new graph with one (i, i) edge appended per node, after
// the existing edges.
//
// It is NOT idempotent: calling it on a graph that already has self-loops (from
// construction or from a previous call) appends another full set. Layers that
// declare self-loop augmentation call it exactly once per forward pass, on the
// graph the caller handed in.
func (g *Graph) AddSelfLoops() *Graph {
	numEdges := len(g.sources)
	augmented := &Graph{
		numNodes: g.numNodes,
		sources:  make([]int32, numEdges+g.numNodes),
		targets:  make([]int32, numEdges+g.numNodes),
	}
	copy(augmented.sources, g.sources)
	copy(augmented.targets, g.targets)
	for i := 0; i < g.numNodes; i++ {
		augmented.sources[numEdges+i] = int32(i)
		augmented.targets[numEdges+i] = int32(i)
	}
	return augmented
}
