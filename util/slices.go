package util

import (
	"cmp"
	"slices"
)

// Map applies f to every element of slice and returns the results in order.
func Map[T, R any](slice []T, f func(T) R) []R {
	out := make([]R, len(slice))

	for i, elem := range slice {
		out[i] = f(elem)
	}

	return out
}

// Filter returns the elements of slice for which keep returns true.
func Filter[T any](slice []T, keep func(T) bool) []T {
	var out []T

	for _, elem := range slice {
		if keep(elem) {
			out = append(out, elem)
		}
	}

	return out
}

// SortedKeys returns the keys of m in ascending order.  Walks over maps which
// produce output must use this so that compilation is deterministic.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)
	return keys
}
