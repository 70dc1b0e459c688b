package layers

import (
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

func TestGatedGraphConvZeroParameters(t *testing.T) {
	// All-zero parameters: z = r = sigmoid(0) = 0.5 and the candidate is
	// tanh(0) = 0, so one round halves the state.
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{4}, []float64{-6})

	layer := NewGatedGraphConv[float64](1, 1)
	got := layer.Forward(g, x)
	require.InDelta(t, 2.0, got.At(0, 0), 1e-12)
	require.InDelta(t, -3.0, got.At(0, 1), 1e-12)

	// Two rounds halve twice.
	twice := NewGatedGraphConv[float64](1, 2).Forward(g, x)
	require.InDelta(t, 1.0, twice.At(0, 0), 1e-12)
	require.InDelta(t, -1.5, twice.At(0, 1), 1e-12)
}

func TestGatedGraphConvStateFollowsAggregate(t *testing.T) {
	// Saturate the update gate (z ≈ 1) and route the candidate straight from
	// the aggregate: after one round h'_i = tanh(Σ incoming states).
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{0.7}, []float64{5})

	layer := NewGatedGraphConv[float64](1, 1)
	setAll(layer.W[0], 1)
	setAll(layer.Wh, 1)
	layer.Bz[0] = 50

	got := layer.Forward(g, x)
	require.InDelta(t, math.Tanh(0), got.At(0, 0), 1e-9)
	require.InDelta(t, math.Tanh(0.7), got.At(0, 1), 1e-9)
}

func TestGatedGraphConvPadsNarrowInput(t *testing.T) {
	// in=1 < out=2: the initial state zero-pads the missing feature, and with
	// zero parameters each round halves both rows.
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{3}, []float64{4})

	got := NewGatedGraphConv[float64](2, 1).Forward(g, x)
	require.Equal(t, 2, got.Rows())
	require.InDelta(t, 1.5, got.At(0, 0), 1e-12)
	require.InDelta(t, 0.0, got.At(1, 0), 1e-12)
	require.InDelta(t, 2.0, got.At(0, 1), 1e-12)
	require.InDelta(t, 0.0, got.At(1, 1), 1e-12)
}

func TestGatedGraphConvRejectsWideInput(t *testing.T) {
	layer := NewGatedGraphConv[float64](2, 3)
	g := graphs.New(2, []int32{0}, []int32{1})
	err := exceptions.TryCatch[error](func() { layer.Forward(g, tensors.New[float64](3, 2)) })
	var shapeErr *gnn.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, 2, shapeErr.Want)
	require.Equal(t, 3, shapeErr.Got)

	require.Contains(t, layer.String(), "steps=3")
}
