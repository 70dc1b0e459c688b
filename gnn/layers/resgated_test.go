package layers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

func TestResGatedGraphConvHalfOpenGate(t *testing.T) {
	// With A=B=0 every gate is sigmoid(0)=0.5, so the layer reduces to
	// U·x_i + 0.5·Σ V·x_j.
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{3}, []float64{4})

	layer := NewResGatedGraphConv[float64](1, 1)
	setAll(layer.U, 1)
	setAll(layer.V, 2)

	got := layer.Forward(g, x)
	require.InDelta(t, 3.0, got.At(0, 0), 1e-12)
	require.InDelta(t, 4.0+0.5*2*3.0, got.At(0, 1), 1e-12)
}

func TestResGatedGraphConvGateSaturation(t *testing.T) {
	// Large positive gate logits open the gate to ~1; large negative close it.
	g := graphs.New(2, []int32{0, 0}, []int32{1, 1})
	x := tensors.FromColumns([]float64{1}, []float64{0})

	layer := NewResGatedGraphConv[float64](1, 1)
	setAll(layer.B, 50) // Gate logit 50·x_j.
	setAll(layer.V, 1)

	got := layer.Forward(g, x)
	openGate := 1.0 / (1.0 + math.Exp(-50))
	require.InDelta(t, 2*openGate*1.0, got.At(0, 1), 1e-9)

	setAll(layer.B, -50)
	closed := layer.Forward(g, x)
	require.InDelta(t, 0.0, closed.At(0, 1), 1e-9)
}

func TestResGatedGraphConvValidation(t *testing.T) {
	require.Panics(t, func() { NewResGatedGraphConv[float64](1, 0) })

	layer := NewResGatedGraphConv[float64](2, 2)
	g := graphs.New(2, []int32{0}, []int32{1})
	require.Panics(t, func() { layer.Forward(g, tensors.New[float64](3, 2)) })
}
