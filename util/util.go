package util

import (
	"cmp"
	"slices"
)

/*
Utility functions.
*/

////////////////////////////////////////////////////////////////////////////////

// Pointer returns a pointer to x.
func Pointer[T any](x T) *T {
	return &x
}

// When returns a if cond is true, otherwise b.
func When[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}

// Map applies a function to each element of a slice, returning a new slice.
func Map[T any, U any](f func(T) U, xs []T) []U {
	ys := make([]U, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	return ys
}

// Okeys returns the keys of a map in sorted order.
func Okeys[T cmp.Ordered, K any](m map[T]K) []T {
	keys := make([]T, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// GroupBy groups records by the result of f.
func GroupBy[T any, K comparable](records []T, f func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, record := range records {
		key := f(record)
		groups[key] = append(groups[key], record)
	}
	return groups
}

// Align rounds n up to the nearest multiple of alignment, which must be a
// power of two.
func Align(n, alignment int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}
