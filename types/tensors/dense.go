package tensors

import (
	"fmt"
	"strings"

	. "github.com/gomlx/exceptions"
)

// Dense is a column-major dense matrix of element type T.
//
// Column-major means column c is the contiguous slice data[c*rows : (c+1)*rows];
// Col returns that slice as a view, without copying.
//
// The zero value is not usable, use New or FromColumns.
type Dense[T Float] struct {
	rows, cols int
	data       []T
}

// New returns a zero-initialized matrix with the given dimensions.
// Dimensions must be non-negative; rows must be positive if cols > 0.
func New[T Float](rows, cols int) *Dense[T] {
	if rows < 0 || cols < 0 {
		Panicf("tensors.New: dimensions must be non-negative, got (%d, %d)", rows, cols)
	}
	return &Dense[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// FromColumns builds a matrix from its columns. All columns must have the same
// length, and at least one column must be given.
func FromColumns[T Float](columns ...[]T) *Dense[T] {
	if len(columns) == 0 {
		Panicf("tensors.FromColumns: at least one column required")
	}
	rows := len(columns[0])
	m := New[T](rows, len(columns))
	for c, col := range columns {
		if len(col) != rows {
			Panicf("tensors.FromColumns: column %d has %d elements, want %d", c, len(col), rows)
		}
		copy(m.Col(c), col)
	}
	return m
}

// FromFlat builds a matrix from a column-major flat slice, which must have
// exactly rows*cols elements. The slice is copied.
func FromFlat[T Float](rows, cols int, flat []T) *Dense[T] {
	if len(flat) != rows*cols {
		Panicf("tensors.FromFlat: got %d elements for a (%d, %d) matrix", len(flat), rows, cols)
	}
	m := New[T](rows, cols)
	copy(m.data, flat)
	return m
}

// Rows returns the number of rows.
func (m *Dense[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense[T]) Cols() int { return m.cols }

// At returns the element at row r, column c.
func (m *Dense[T]) At(r, c int) T {
	m.checkIndex(r, c)
	return m.data[c*m.rows+r]
}

// Set assigns the element at row r, column c.
func (m *Dense[T]) Set(r, c int, value T) {
	m.checkIndex(r, c)
	m.data[c*m.rows+r] = value
}

func (m *Dense[T]) checkIndex(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		Panicf("tensors.Dense: index (%d, %d) out of range for (%d, %d) matrix", r, c, m.rows, m.cols)
	}
}

// Col returns column c as a mutable view: changes to the returned slice are
// reflected in the matrix.
func (m *Dense[T]) Col(c int) []T {
	if c < 0 || c >= m.cols {
		Panicf("tensors.Dense: column %d out of range, matrix has %d columns", c, m.cols)
	}
	return m.data[c*m.rows : (c+1)*m.rows]
}

// Flat returns the column-major backing slice as a view.
func (m *Dense[T]) Flat() []T { return m.data }

// Clone returns a deep copy.
func (m *Dense[T]) Clone() *Dense[T] {
	clone := New[T](m.rows, m.cols)
	copy(clone.data, m.data)
	return clone
}

// MatMul returns the matrix product m·other, shaped (m.rows, other.cols).
// It panics if m.cols != other.rows.
func (m *Dense[T]) MatMul(other *Dense[T]) *Dense[T] {
	if m.cols != other.rows {
		Panicf("tensors.MatMul: inner dimensions disagree, (%d, %d) x (%d, %d)",
			m.rows, m.cols, other.rows, other.cols)
	}
	out := New[T](m.rows, other.cols)
	for c := 0; c < other.cols; c++ {
		outCol := out.Col(c)
		otherCol := other.Col(c)
		for k := 0; k < m.cols; k++ {
			alpha := otherCol[k]
			if alpha == 0 {
				continue
			}
			mCol := m.data[k*m.rows : (k+1)*m.rows]
			for r, v := range mCol {
				outCol[r] += alpha * v
			}
		}
	}
	return out
}

// MulVec returns the matrix-vector product m·v as a new slice of length m.Rows().
func (m *Dense[T]) MulVec(v []T) []T {
	if len(v) != m.cols {
		Panicf("tensors.MulVec: vector has %d elements, matrix is (%d, %d)", len(v), m.rows, m.cols)
	}
	out := make([]T, m.rows)
	for k, alpha := range v {
		if alpha == 0 {
			continue
		}
		mCol := m.data[k*m.rows : (k+1)*m.rows]
		for r, value := range mCol {
			out[r] += alpha * value
		}
	}
	return out
}

// RightMul implements Operator: it returns x·m.
func (m *Dense[T]) RightMul(x *Dense[T]) *Dense[T] {
	return x.MatMul(m)
}

// Add accumulates other into m, elementwise, and returns m.
func (m *Dense[T]) Add(other *Dense[T]) *Dense[T] {
	m.assertSameShape("Add", other)
	for i, v := range other.data {
		m.data[i] += v
	}
	return m
}

// Sub subtracts other from m, elementwise, and returns m.
func (m *Dense[T]) Sub(other *Dense[T]) *Dense[T] {
	m.assertSameShape("Sub", other)
	for i, v := range other.data {
		m.data[i] -= v
	}
	return m
}

// MulElem multiplies m by other elementwise (Hadamard product) and returns m.
func (m *Dense[T]) MulElem(other *Dense[T]) *Dense[T] {
	m.assertSameShape("MulElem", other)
	for i, v := range other.data {
		m.data[i] *= v
	}
	return m
}

// Scale multiplies every element by alpha and returns m.
func (m *Dense[T]) Scale(alpha T) *Dense[T] {
	for i := range m.data {
		m.data[i] *= alpha
	}
	return m
}

// AddToColumns adds the vector bias to every column of m and returns m.
// len(bias) must equal m.Rows().
func (m *Dense[T]) AddToColumns(bias []T) *Dense[T] {
	if len(bias) != m.rows {
		Panicf("tensors.AddToColumns: bias has %d elements, matrix has %d rows", len(bias), m.rows)
	}
	for c := 0; c < m.cols; c++ {
		col := m.Col(c)
		for r, v := range bias {
			col[r] += v
		}
	}
	return m
}

// Map applies fn to every element in place and returns m.
func (m *Dense[T]) Map(fn func(T) T) *Dense[T] {
	if fn == nil {
		return m
	}
	for i, v := range m.data {
		m.data[i] = fn(v)
	}
	return m
}

func (m *Dense[T]) assertSameShape(op string, other *Dense[T]) {
	if m.rows != other.rows || m.cols != other.cols {
		Panicf("tensors.%s: shapes disagree, (%d, %d) vs (%d, %d)", op, m.rows, m.cols, other.rows, other.cols)
	}
}

// ConcatRows stacks the given matrices vertically: all must have the same number
// of columns, and the result has the sum of their rows.
func ConcatRows[T Float](parts ...*Dense[T]) *Dense[T] {
	if len(parts) == 0 {
		Panicf("tensors.ConcatRows: at least one matrix required")
	}
	cols := parts[0].cols
	totalRows := 0
	for _, p := range parts {
		if p.cols != cols {
			Panicf("tensors.ConcatRows: column counts disagree, %d vs %d", p.cols, cols)
		}
		totalRows += p.rows
	}
	out := New[T](totalRows, cols)
	for c := 0; c < cols; c++ {
		outCol := out.Col(c)
		offset := 0
		for _, p := range parts {
			copy(outCol[offset:offset+p.rows], p.Col(c))
			offset += p.rows
		}
	}
	return out
}

// RowSlice returns a copy of rows [from, to) of m, keeping all columns.
func (m *Dense[T]) RowSlice(from, to int) *Dense[T] {
	if from < 0 || to > m.rows || from > to {
		Panicf("tensors.RowSlice: range [%d, %d) out of bounds for %d rows", from, to, m.rows)
	}
	out := New[T](to-from, m.cols)
	for c := 0; c < m.cols; c++ {
		copy(out.Col(c), m.Col(c)[from:to])
	}
	return out
}

// String returns a compact human-readable rendering, with the DType and
// dimensions followed by the rows.
func (m *Dense[T]) String() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "(%s)[%d %d]:", DTypeOf[T](), m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		sb.WriteString(" [")
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			_, _ = fmt.Fprintf(&sb, "%g", m.At(r, c))
		}
		sb.WriteByte(']')
	}
	return sb.String()
}
