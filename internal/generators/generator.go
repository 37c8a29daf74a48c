package generators

import (
	"errors"
	"math/rand"
)

// Field produces one aligned tuple of values per call, one value for each of
// its output columns.
type Field interface {
	Columns() []string
	Produce() ([]interface{}, error)
}

// RowSource is a read-only view over rows that were already generated. Table
// samplers hold a RowSource; they never own it.
type RowSource interface {
	Name() string
	Len() int
	Project(i int, columns []string) []interface{}
}

var ErrEmptySource = errors.New("source has no rows to sample")

// Values turns a typed list into a value set for Combinator.
func Values[T any](vs ...T) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// IntRange returns the value set from..to, both inclusive.
func IntRange(from, to int) []interface{} {
	if to < from {
		return []interface{}{}
	}
	out := make([]interface{}, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func replicate(v interface{}, n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func pick[T any](rng *rand.Rand, set []T) T {
	return set[rng.Intn(len(set))]
}
