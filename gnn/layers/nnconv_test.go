package layers

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/graphnn/gnn"
	"github.com/gomlx/graphnn/graphs"
	"github.com/gomlx/graphnn/types/tensors"
)

func TestNNConvScalarKernel(t *testing.T) {
	// Scalar features everywhere and nn(e) = e: the message is e·x_j, so
	// output_i = W·x_i + Σ e_ij·x_j.
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{3}, []float64{4})
	edgeFeatures := tensors.FromColumns([]float64{2})

	kernel := FuncOf(1, func(in []float64) []float64 { return in })
	layer := NewNNConv[float64](1, 1, 1, kernel)
	setAll(layer.W, 1)

	got := layer.Forward(g, x, edgeFeatures)
	require.InDelta(t, 3.0, got.At(0, 0), 1e-12)
	require.InDelta(t, 4.0+2.0*3.0, got.At(0, 1), 1e-12)
}

func TestNNConvColumnMajorKernel(t *testing.T) {
	// in=2, out=2: the flattened kernel is the two columns concatenated. A
	// constant nn producing the column-major form of [[1,3],[2,4]] turns the
	// message into that matrix times x_j.
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{5, 7}, []float64{0, 0})
	edgeFeatures := tensors.FromColumns([]float64{1})

	constantKernel := FuncOf(4, func(_ []float64) []float64 {
		return []float64{1, 2, 3, 4}
	})
	layer := NewNNConv[float64](2, 2, 1, constantKernel)

	got := layer.Forward(g, x, edgeFeatures)
	require.InDelta(t, 1*5.0+3*7.0, got.At(0, 1), 1e-12)
	require.InDelta(t, 2*5.0+4*7.0, got.At(1, 1), 1e-12)
}

func TestNNConvKernelDimValidatedEagerly(t *testing.T) {
	wrong := FuncOf(2, func(in []float64) []float64 { return []float64{0, 0} })
	err := exceptions.TryCatch[error](func() {
		NewNNConv[float64](1, 1, 1, wrong)
	})
	var shapeErr *gnn.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, 1, shapeErr.Want)
	require.Equal(t, 2, shapeErr.Got)
}

func TestNNConvRequiresEdgeFeatures(t *testing.T) {
	kernel := FuncOf(1, func(in []float64) []float64 { return in })
	layer := NewNNConv[float64](1, 1, 1, kernel)
	g := graphs.New(2, []int32{0}, []int32{1})
	x := tensors.FromColumns([]float64{1}, []float64{2})

	err := exceptions.TryCatch[error](func() { layer.Forward(g, x, nil) })
	var shapeErr *gnn.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)

	badDim := tensors.New[float64](3, 1)
	err = exceptions.TryCatch[error](func() { layer.Forward(g, x, badDim) })
	require.ErrorAs(t, err, &shapeErr)
	require.Equal(t, 1, shapeErr.Want)
	require.Equal(t, 3, shapeErr.Got)
}
