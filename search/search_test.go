package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/melodex/model"
)

func testIndex() model.Index {
	return model.Index{
		DatabaseRoot: "/data",
		Entries: []model.IndexEntry{
			{Path: "/data/a.mid", MelodySequence: []int{60, 62, 64, 65}},
			{Path: "/data/b.mid", MelodySequence: []int{60, 62, 64, 65, 67, 69}},
		},
	}
}

func TestContainsSubsequence(t *testing.T) {
	seq := []int{60, 62, 64, 65}

	assert.True(t, ContainsSubsequence(seq, []int{64, 65}))
	assert.True(t, ContainsSubsequence(seq, []int{60}))
	assert.True(t, ContainsSubsequence(seq, seq))
	assert.False(t, ContainsSubsequence(seq, []int{64, 66}))
	assert.False(t, ContainsSubsequence(seq, []int{65, 64}))
	assert.False(t, ContainsSubsequence(seq, []int{60, 62, 64, 65, 67}))
	assert.False(t, ContainsSubsequence(seq, nil))
	assert.False(t, ContainsSubsequence(nil, []int{60}))
}

func TestHardMatchBothEntries(t *testing.T) {
	matches := HardMatch(testIndex(), []int{64, 65})
	assert.Equal(t, []string{"/data/a.mid", "/data/b.mid"}, matches)
}

func TestHardMatchSecondEntryOnly(t *testing.T) {
	matches := HardMatch(testIndex(), []int{67, 69})
	assert.Equal(t, []string{"/data/b.mid"}, matches)
}

func TestHardMatchNone(t *testing.T) {
	matches := HardMatch(testIndex(), []int{64, 66})
	assert.Empty(t, matches)
}

func TestHardMatchEmptyQuery(t *testing.T) {
	matches := HardMatch(testIndex(), nil)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestHardMatchPreservesIndexOrder(t *testing.T) {
	idx := model.Index{Entries: []model.IndexEntry{
		{Path: "/z.mid", MelodySequence: []int{1, 2, 3}},
		{Path: "/a.mid", MelodySequence: []int{1, 2, 3}},
	}}
	assert.Equal(t, []string{"/z.mid", "/a.mid"}, HardMatch(idx, []int{2, 3}))
}
