package common

import (
	"cmp"
	"slices"
)

// IsSingle returns true if the slice has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// AppendUnique appends every element of add not already in seen, recording it.
func AppendUnique[E comparable](dst []E, seen map[E]struct{}, add ...E) []E {
	for _, e := range add {
		if _, ok := seen[e]; ok {
			continue
		}

		seen[e] = struct{}{}
		dst = append(dst, e)
	}

	return dst
}
