package relhist

import (
	"maps"
	"slices"
)

type empty = struct{}

// PathSet is simply a map from slash-separated path strings to [empty]
type PathSet = map[string]empty

// NewPathSet creates a new set of paths
func NewPathSet(paths ...string) PathSet {
	result := make(map[string]empty)

	for _, v := range paths {
		result[v] = empty{}
	}

	return result
}

// UnionPathSets merges the input sets into a newly allocated [PathSet].
// Duplicates across sets collapse naturally.
func UnionPathSets(sets ...PathSet) PathSet {
	result := make(PathSet)

	for _, s := range sets {
		for v := range s {
			result[v] = empty{}
		}
	}

	return result
}

// SortedPaths returns the contents of the set as a sorted slice.
func SortedPaths(set PathSet) []string {
	return slices.Sorted(maps.Keys(set))
}
