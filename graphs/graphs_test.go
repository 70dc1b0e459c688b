package graphs

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesBounds(t *testing.T) {
	err := exceptions.TryCatch[error](func() {
		New(3, []int32{0, 3}, []int32{1, 2})
	})
	require.Error(t, err)
	var bounds *BoundsViolationError
	require.ErrorAs(t, err, &bounds)
	require.Equal(t, 1, bounds.Edge)
	require.Equal(t, "source", bounds.Side)
	require.Equal(t, 3, bounds.Index)
	require.Equal(t, 3, bounds.NumNodes)

	err = exceptions.TryCatch[error](func() {
		New(3, []int32{0}, []int32{-1})
	})
	var targetBounds *BoundsViolationError
	require.ErrorAs(t, err, &targetBounds)
	require.Equal(t, "target", targetBounds.Side)

	require.Panics(t, func() { New(2, []int32{0, 1}, []int32{1}) })
}

func TestDegree(t *testing.T) {
	// 0→1, 1→2, 2→0, 2→0 (parallel), 1→1 (self-loop).
	g := New(3, []int32{0, 1, 2, 2, 1}, []int32{1, 2, 0, 0, 1})
	require.Equal(t, []int32{2, 2, 1}, g.Degree(DegreeIn))
	require.Equal(t, []int32{1, 2, 2}, g.Degree(DegreeOut))
}

func TestAddSelfLoopsIsNotIdempotent(t *testing.T) {
	g := New(4, []int32{0, 1, 2, 3}, []int32{1, 2, 3, 0})

	once := g.AddSelfLoops()
	require.Equal(t, 4, g.NumEdges()) // Original untouched.
	require.Equal(t, 8, once.NumEdges())
	sources, targets := once.EdgeIndex()
	for i := 0; i < 4; i++ {
		require.Equal(t, int32(i), sources[4+i])
		require.Equal(t, int32(i), targets[4+i])
	}

	// A second call appends duplicates: callers must call at most once per
	// forward pass.
	twice := once.AddSelfLoops()
	require.Equal(t, 12, twice.NumEdges())
	require.Equal(t, []int32{3, 3, 3, 3}, twice.Degree(DegreeIn))
}

func TestDegreeDirectionStrings(t *testing.T) {
	require.Equal(t, "in", DegreeIn.String())
	require.Equal(t, "out", DegreeOut.String())
	parsed, err := DegreeDirectionString("out")
	require.NoError(t, err)
	require.Equal(t, DegreeOut, parsed)
}
