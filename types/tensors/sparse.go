package tensors

import (
	"sort"

	. "github.com/gomlx/exceptions"
)

// Sparse is a sparse matrix in compressed sparse column (CSC) layout.
//
// The column layout matches how it is consumed: RightMul(x) computes X·A one
// output column at a time, touching only the non-zero entries of the
// corresponding column of A.
//
// Build it with NewSparse from triplets; duplicate (row, col) entries are
// accumulated, which is what multigraph adjacency construction needs.
type Sparse[T Float] struct {
	rows, cols int

	// colPtr has cols+1 entries: column c occupies positions
	// [colPtr[c], colPtr[c+1]) of rowIdx and values, with rowIdx sorted
	// within each column.
	colPtr []int32
	rowIdx []int32
	values []T
}

// NewSparse builds a CSC matrix from triplets (rowIndices[i], colIndices[i],
// values[i]). The two index slices and values must have the same length, and
// every index must be within range. Duplicate coordinates are summed.
func NewSparse[T Float](rows, cols int, rowIndices, colIndices []int32, values []T) *Sparse[T] {
	if rows < 0 || cols < 0 {
		Panicf("tensors.NewSparse: dimensions must be non-negative, got (%d, %d)", rows, cols)
	}
	if len(rowIndices) != len(values) || len(colIndices) != len(values) {
		Panicf("tensors.NewSparse: triplet slices disagree in length: %d rows, %d cols, %d values",
			len(rowIndices), len(colIndices), len(values))
	}
	for i := range values {
		if rowIndices[i] < 0 || int(rowIndices[i]) >= rows {
			Panicf("tensors.NewSparse: row index %d of entry %d out of range [0, %d)", rowIndices[i], i, rows)
		}
		if colIndices[i] < 0 || int(colIndices[i]) >= cols {
			Panicf("tensors.NewSparse: column index %d of entry %d out of range [0, %d)", colIndices[i], i, cols)
		}
	}

	// Order entries by (column, row), then merge duplicates.
	perm := make([]int, len(values))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		ea, eb := perm[a], perm[b]
		if colIndices[ea] != colIndices[eb] {
			return colIndices[ea] < colIndices[eb]
		}
		return rowIndices[ea] < rowIndices[eb]
	})

	s := &Sparse[T]{
		rows:   rows,
		cols:   cols,
		colPtr: make([]int32, cols+1),
		rowIdx: make([]int32, 0, len(values)),
		values: make([]T, 0, len(values)),
	}
	currentCol := int32(0)
	for _, e := range perm {
		r, c, v := rowIndices[e], colIndices[e], values[e]
		for currentCol < c {
			currentCol++
			s.colPtr[currentCol] = int32(len(s.values))
		}
		n := len(s.values)
		if n > int(s.colPtr[currentCol]) && s.rowIdx[n-1] == r {
			s.values[n-1] += v // Duplicate coordinate: accumulate.
			continue
		}
		s.rowIdx = append(s.rowIdx, r)
		s.values = append(s.values, v)
	}
	for currentCol < int32(cols) {
		currentCol++
		s.colPtr[currentCol] = int32(len(s.values))
	}
	return s
}

// Rows returns the number of rows.
func (s *Sparse[T]) Rows() int { return s.rows }

// Cols returns the number of columns.
func (s *Sparse[T]) Cols() int { return s.cols }

// NumNonZero returns the number of stored entries.
func (s *Sparse[T]) NumNonZero() int { return len(s.values) }

// At returns the entry at row r, column c, zero if not stored.
func (s *Sparse[T]) At(r, c int) T {
	if r < 0 || r >= s.rows || c < 0 || c >= s.cols {
		Panicf("tensors.Sparse: index (%d, %d) out of range for (%d, %d) matrix", r, c, s.rows, s.cols)
	}
	start, end := int(s.colPtr[c]), int(s.colPtr[c+1])
	pos := start + sort.Search(end-start, func(i int) bool { return s.rowIdx[start+i] >= int32(r) })
	if pos < end && s.rowIdx[pos] == int32(r) {
		return s.values[pos]
	}
	return 0
}

// RightMul implements Operator: it returns x·s, shaped (x.Rows(), s.Cols()).
func (s *Sparse[T]) RightMul(x *Dense[T]) *Dense[T] {
	if x.Cols() != s.rows {
		Panicf("tensors.Sparse.RightMul: x is (%d, %d), operator is (%d, %d)",
			x.Rows(), x.Cols(), s.rows, s.cols)
	}
	out := New[T](x.Rows(), s.cols)
	for c := 0; c < s.cols; c++ {
		outCol := out.Col(c)
		for pos := s.colPtr[c]; pos < s.colPtr[c+1]; pos++ {
			alpha := s.values[pos]
			xCol := x.Col(int(s.rowIdx[pos]))
			for r, v := range xCol {
				outCol[r] += alpha * v
			}
		}
	}
	return out
}

// ToDense materializes the sparse matrix as a Dense one.
func (s *Sparse[T]) ToDense() *Dense[T] {
	out := New[T](s.rows, s.cols)
	for c := 0; c < s.cols; c++ {
		col := out.Col(c)
		for pos := s.colPtr[c]; pos < s.colPtr[c+1]; pos++ {
			col[s.rowIdx[pos]] = s.values[pos]
		}
	}
	return out
}
