package gnn

import (
	. "github.com/gomlx/exceptions"

	"github.com/gomlx/graphnn/types/tensors"
)

// Payload is the constraint on message types: anything supporting an
// elementwise associative combine, cloning and scaling.
//
// Combine and Scale mutate the receiver and return it, so the engine can fold
// messages into an accumulator without per-step allocations; the accumulator is
// always a Clone of the first message of the segment, so ComputeMessage is free
// to return views of the input data.
type Payload[M any] interface {
	// Clone returns a deep copy, used to seed a reduction segment.
	Clone() M

	// Combine folds other into the receiver with the given aggregator
	// (AggregatorMean combines as sum; the engine divides afterwards) and
	// returns the receiver.
	Combine(agg Aggregator, other M) M

	// Scale multiplies every element by alpha and returns the receiver.
	// The engine uses it for the mean division.
	Scale(alpha float64) M
}

// Vector is the plain message payload: one vector per edge. It implements
// Payload; most layers need nothing else.
type Vector[T tensors.Float] []T

// Clone implements Payload.
func (v Vector[T]) Clone() Vector[T] {
	clone := make(Vector[T], len(v))
	copy(clone, v)
	return clone
}

// Combine implements Payload: it folds other into v elementwise and returns v.
func (v Vector[T]) Combine(agg Aggregator, other Vector[T]) Vector[T] {
	if len(other) != len(v) {
		Panicf("gnn.Vector.Combine: message lengths disagree, %d vs %d", len(v), len(other))
	}
	switch agg {
	case AggregatorSum, AggregatorMean:
		for i, o := range other {
			v[i] += o
		}
	case AggregatorProduct:
		for i, o := range other {
			v[i] *= o
		}
	case AggregatorMax:
		for i, o := range other {
			if o > v[i] {
				v[i] = o
			}
		}
	case AggregatorMin:
		for i, o := range other {
			if o < v[i] {
				v[i] = o
			}
		}
	default:
		Panicf("gnn.Vector.Combine: unknown aggregator %s", agg)
	}
	return v
}

// Scale implements Payload.
func (v Vector[T]) Scale(alpha float64) Vector[T] {
	for i := range v {
		v[i] = T(float64(v[i]) * alpha)
	}
	return v
}

// VectorsToDense stacks per-node vector aggregates into a (dim, numNodes)
// matrix. Every vector must have exactly dim elements. An empty aggregate list
// (a zero-node graph) yields a (dim, 0) matrix, keeping the feature dimension.
func VectorsToDense[T tensors.Float](dim int, aggregates []Vector[T]) *tensors.Dense[T] {
	out := tensors.New[T](dim, len(aggregates))
	for c, v := range aggregates {
		if len(v) != dim {
			Panicf("gnn.VectorsToDense: aggregate %d has %d elements, want %d", c, len(v), dim)
		}
		copy(out.Col(c), v)
	}
	return out
}
