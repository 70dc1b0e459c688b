package layers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

// symmetrize builds an undirected graph by concatenating the reversed edge
// list, the caller-side convention.
func symmetrize(numNodes int, sources, targets []int32) *graphs.Graph {
	allSources := append(append([]int32{}, sources...), targets...)
	allTargets := append(append([]int32{}, targets...), sources...)
	return graphs.New(numNodes, allSources, allTargets)
}

// setAll fills a parameter matrix from row-major values, the readable layout
// for hand-written fixtures.
func setAll[T tensors.Float](m *tensors.Dense[T], rowMajor ...T) {
	if len(rowMajor) != m.Rows()*m.Cols() {
		panic("setAll: wrong number of values for the matrix")
	}
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			m.Set(r, c, rowMajor[r*m.Cols()+c])
		}
	}
}

// Every layer must accept the valid zero-node graph and produce an empty
// matrix with the right output dimension, on the engine path as well as the
// dense-algebra one.
func TestLayersEmptyGraph(t *testing.T) {
	g := graphs.New(0, nil, nil)
	x := tensors.New[float64](3, 0)

	nn4 := FuncOf(4, func(_ []float64) []float64 { return make([]float64, 4) })
	kernel := FuncOf(12, func(_ []float64) []float64 { return make([]float64, 12) })
	edgeFeatures := tensors.New[float64](1, 0)

	cases := []struct {
		name    string
		rows    int
		forward func() *tensors.Dense[float64]
	}{
		{"GCNConv", 4, func() *tensors.Dense[float64] {
			return NewGCNConv[float64](3, 4).Forward(g, x)
		}},
		{"ChebConv", 4, func() *tensors.Dense[float64] {
			return NewChebConv[float64](3, 4, 3).Forward(g, x)
		}},
		{"GraphConv", 4, func() *tensors.Dense[float64] {
			return NewGraphConv[float64](3, 4).Forward(g, x)
		}},
		{"GATConv", 4, func() *tensors.Dense[float64] {
			return NewGATConv[float64](3, 2, 2).Forward(g, x)
		}},
		{"GINConv", 4, func() *tensors.Dense[float64] {
			return NewGINConv[float64](nn4).Forward(g, x)
		}},
		{"EdgeConv", 4, func() *tensors.Dense[float64] {
			return NewEdgeConv[float64](nn4).Forward(g, x)
		}},
		{"NNConv", 4, func() *tensors.Dense[float64] {
			return NewNNConv[float64](3, 4, 1, kernel).Forward(g, x, edgeFeatures)
		}},
		{"SAGEConv", 4, func() *tensors.Dense[float64] {
			return NewSAGEConv[float64](3, 4).Forward(g, x)
		}},
		{"ResGatedGraphConv", 4, func() *tensors.Dense[float64] {
			return NewResGatedGraphConv[float64](3, 4).Forward(g, x)
		}},
		{"GatedGraphConv", 4, func() *tensors.Dense[float64] {
			return NewGatedGraphConv[float64](4, 2).Forward(g, x)
		}},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			output := test.forward()
			require.Equal(t, test.rows, output.Rows())
			require.Equal(t, 0, output.Cols())
		})
	}
}

func TestFuncOf(t *testing.T) {
	doubler := FuncOf(2, func(in []float64) []float64 {
		return []float64{2 * in[0], 2 * in[0]}
	})
	require.Equal(t, 2, doubler.OutputDim(1))
	require.Equal(t, []float64{6, 6}, doubler.Apply([]float64{3}))

	require.Panics(t, func() { FuncOf[float64](0, func(in []float64) []float64 { return in }) })
	require.Panics(t, func() { FuncOf[float64](1, nil) })
}
