package tensors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenseBasics(t *testing.T) {
	m := New[float64](2, 3)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 3, m.Cols())
	m.Set(1, 2, 5)
	require.Equal(t, 5.0, m.At(1, 2))

	// Col returns a view.
	col := m.Col(2)
	col[0] = 7
	require.Equal(t, 7.0, m.At(0, 2))

	fromCols := FromColumns([]float32{1, 2}, []float32{3, 4})
	require.Equal(t, float32(1), fromCols.At(0, 0))
	require.Equal(t, float32(4), fromCols.At(1, 1))

	clone := fromCols.Clone()
	clone.Set(0, 0, 9)
	require.Equal(t, float32(1), fromCols.At(0, 0))
}

func TestDenseMatMul(t *testing.T) {
	// (2, 3) x (3, 2)
	w := FromColumns([]float64{1, 4}, []float64{2, 5}, []float64{3, 6})
	x := FromColumns([]float64{1, 0, 1}, []float64{0, 2, 0})
	got := w.MatMul(x)
	require.Equal(t, 2, got.Rows())
	require.Equal(t, 2, got.Cols())
	require.Equal(t, []float64{4, 10}, got.Col(0))
	require.Equal(t, []float64{4, 10}, got.Col(1))

	require.Panics(t, func() { x.MatMul(x) })
}

func TestDenseMulVec(t *testing.T) {
	w := FromColumns([]float64{1, 3}, []float64{2, 4})
	require.Equal(t, []float64{5, 11}, w.MulVec([]float64{1, 2}))
	require.Panics(t, func() { w.MulVec([]float64{1, 2, 3}) })
}

func TestDenseElementwise(t *testing.T) {
	m := FromColumns([]float64{1, 2}, []float64{3, 4})
	m.Scale(2)
	require.Equal(t, []float64{2, 4, 6, 8}, m.Flat())

	m.AddToColumns([]float64{10, 20})
	require.Equal(t, []float64{12, 24, 16, 28}, m.Flat())

	m.Map(func(v float64) float64 { return -v })
	require.Equal(t, []float64{-12, -24, -16, -28}, m.Flat())

	other := FromColumns([]float64{1, 1}, []float64{1, 1})
	m.Add(other)
	require.Equal(t, []float64{-11, -23, -15, -27}, m.Flat())
	m.Sub(other)
	m.MulElem(other.Scale(0))
	require.Equal(t, []float64{0, 0, 0, 0}, m.Flat())
}

func TestConcatRowsAndRowSlice(t *testing.T) {
	top := FromColumns([]float64{1}, []float64{2})
	bottom := FromColumns([]float64{3, 4}, []float64{5, 6})
	stacked := ConcatRows(top, bottom)
	require.Equal(t, 3, stacked.Rows())
	require.Equal(t, []float64{1, 3, 4}, stacked.Col(0))
	require.Equal(t, []float64{2, 5, 6}, stacked.Col(1))

	back := stacked.RowSlice(1, 3)
	require.Equal(t, []float64{3, 4}, back.Col(0))
	require.Equal(t, []float64{5, 6}, back.Col(1))

	require.Panics(t, func() { ConcatRows(top, FromColumns([]float64{1})) })
}
