package layers

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

func TestChebConvOrderTwo(t *testing.T) {
	// Single undirected pair: with the λmax=2 bound L̃ = −Ã = [[0,−1],[−1,0]],
	// so Z₁ swaps and negates the two columns.
	g := symmetrize(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{2}, []float64{5})

	layer := NewChebConv[float64](1, 1, 2)
	setAll(layer.W[0], 1)
	setAll(layer.W[1], 1)

	got := layer.Forward(g, x)
	require.InDelta(t, 2.0-5.0, got.At(0, 0), 1e-12)
	require.InDelta(t, 5.0-2.0, got.At(0, 1), 1e-12)
}

func TestChebConvOrderOneIsLinear(t *testing.T) {
	// K=1 never touches the graph structure: output = W₀·X + bias.
	g := symmetrize(3, []int32{0, 1}, []int32{1, 2})
	x := tensors.FromColumns([]float64{1, 2}, []float64{3, 4}, []float64{5, 6})

	layer := NewChebConv[float64](2, 1, 1)
	setAll(layer.W[0], 1, 10)
	layer.Bias[0] = 0.5

	got := layer.Forward(g, x)
	require.InDelta(t, 1+10*2+0.5, got.At(0, 0), 1e-12)
	require.InDelta(t, 3+10*4+0.5, got.At(0, 1), 1e-12)
	require.InDelta(t, 5+10*6+0.5, got.At(0, 2), 1e-12)
}

func TestChebConvDenseOperatorAgrees(t *testing.T) {
	g := symmetrize(4, []int32{0, 1, 2, 3}, []int32{1, 2, 3, 0})
	x := tensors.FromColumns([]float64{1}, []float64{-2}, []float64{3}, []float64{-4})

	layer := NewChebConv[float64](1, 1, 3)
	setAll(layer.W[0], 0.5)
	setAll(layer.W[1], -1)
	setAll(layer.W[2], 2)

	viaSparse := layer.Forward(g, x)
	viaDense := layer.WithDenseOperator(true).Forward(g, x)
	require.InDeltaSlice(t, viaSparse.Flat(), viaDense.Flat(), 1e-12)
}

func TestChebConvValidation(t *testing.T) {
	require.Panics(t, func() { NewChebConv[float64](1, 1, 0) })

	layer := NewChebConv[float64](2, 3, 2)
	g := graphs.New(2, []int32{0}, []int32{1})
	err := exceptions.TryCatch[error](func() { layer.Forward(g, tensors.New[float64](4, 2)) })
	var shapeErr *gnn.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, 2, shapeErr.Want)
	require.Equal(t, 4, shapeErr.Got)

	require.Contains(t, layer.String(), "k=2")
}
