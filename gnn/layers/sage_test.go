package layers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

func TestSAGEConvMeanDefault(t *testing.T) {
	// Node 0 receives from 1 and 2; W acts on [x_i ‖ mean_i].
	g := graphs.New(3, []int32{1, 2}, []int32{0, 0})
	x := tensors.FromColumns([]float64{1}, []float64{4}, []float64{6})

	layer := NewSAGEConv[float64](1, 1)
	setAll(layer.W, 2, 3)
	layer.Bias[0] = 1

	got := layer.Forward(g, x)
	require.InDelta(t, 2*1+3*(4+6)/2+1, got.At(0, 0), 1e-12)
	require.InDelta(t, 2*4+0+1, got.At(0, 1), 1e-12) // Neutral aggregate.
	require.InDelta(t, 2*6+0+1, got.At(0, 2), 1e-12)
}

func TestSAGEConvSumAggregator(t *testing.T) {
	g := graphs.New(3, []int32{1, 2}, []int32{0, 0})
	x := tensors.FromColumns([]float64{1}, []float64{4}, []float64{6})

	layer := NewSAGEConv[float64](1, 1).WithAggregator(gnn.AggregatorSum)
	setAll(layer.W, 0, 1)

	got := layer.Forward(g, x)
	require.InDelta(t, 4.0+6.0, got.At(0, 0), 1e-12)
}

func TestSAGEConvValidation(t *testing.T) {
	require.Panics(t, func() { NewSAGEConv[float64](0, 1) })

	layer := NewSAGEConv[float64](2, 3)
	g := graphs.New(2, []int32{0}, []int32{1})
	require.Panics(t, func() { layer.Forward(g, tensors.New[float64](4, 2)) })
	require.Contains(t, layer.String(), "aggr=mean")
}
