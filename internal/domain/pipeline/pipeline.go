// Package pipeline provides the composable stages the query catalog is built
// from: filter, stable sort, limit, group, unwind and small reducers.
//
// Every stage is pure. Inputs are never modified and outputs are never nil,
// so an empty collection flows through a pipeline as an empty result.
package pipeline

import (
	"slices"
)

// Group is one bucket produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// Filter keeps the items for which keep returns true, in input order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// SortStable returns a sorted copy of items. Items comparing equal keep
// their input order, which makes ties deterministic for a given input.
func SortStable[T any](items []T, cmp func(a, b T) int) []T {
	out := make([]T, len(items))
	copy(out, items)
	slices.SortStableFunc(out, cmp)
	return out
}

// Limit returns at most the first n items. A negative n means no limit.
func Limit[T any](items []T, n int) []T {
	if n < 0 || n >= len(items) {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}

// GroupBy buckets items by key. Groups are returned in first-seen order and
// items keep their input order within a group.
func GroupBy[K comparable, T any](items []T, key func(T) K) []Group[K, T] {
	index := make(map[K]int)
	groups := make([]Group[K, T], 0)
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// Map projects every item through f.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}

// Unwind expands every item into zero or more rows and concatenates them.
func Unwind[T, U any](items []T, f func(T) []U) []U {
	out := make([]U, 0, len(items))
	for _, it := range items {
		out = append(out, f(it)...)
	}
	return out
}

// Mean averages the values reported by value, skipping items for which it
// reports false. ok is false when no item contributed.
func Mean[T any](items []T, value func(T) (float64, bool)) (mean float64, ok bool) {
	var (
		sum float64
		n   int
	)
	for _, it := range items {
		v, present := value(it)
		if !present {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Distinct returns the distinct keys of items in first-seen order.
func Distinct[T any, K comparable](items []T, key func(T) K) []K {
	seen := make(map[K]struct{}, len(items))
	out := make([]K, 0)
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
