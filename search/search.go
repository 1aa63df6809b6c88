package search

import (
	"github.com/jsphweid/melodex/model"
)

// ContainsSubsequence reports whether seq contains query as a contiguous run
// of equal note numbers. An empty query matches nothing.
func ContainsSubsequence(seq model.PitchSequence, query model.PitchSequence) bool {
	if len(query) == 0 || len(query) > len(seq) {
		return false
	}
outer:
	for i := 0; i+len(query) <= len(seq); i++ {
		for j, q := range query {
			if seq[i+j] != q {
				continue outer
			}
		}
		return true
	}
	return false
}

// HardMatch returns the paths of every indexed entry whose melody contains
// query, in index order.
func HardMatch(idx model.Index, query model.PitchSequence) []string {
	matches := make([]string, 0)
	if len(query) == 0 {
		return matches
	}
	for _, entry := range idx.Entries {
		if ContainsSubsequence(entry.MelodySequence, query) {
			matches = append(matches, entry.Path)
		}
	}
	return matches
}
