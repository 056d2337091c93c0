package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskPrefilterSoundness(t *testing.T) {
	patternMask := Mask("sm")
	textMask := Mask("SearchModule")
	require.True(t, PassesMask(patternMask, textMask))

	_, _, matched := Match("SearchModule", "SM", true)
	require.True(t, matched)
}

func TestCamelCaseBoundary(t *testing.T) {
	score, indices, matched := Match("SearchModule", "SM", true)
	require.True(t, matched)
	require.Greater(t, score, 0.0)
	require.Equal(t, []int{0, 6}, indices)
}

func TestNonMatch(t *testing.T) {
	_, _, matched := Match("hello", "xyz", false)
	require.False(t, matched)
}

func TestSubsequenceIndicesAreIncreasingAndEqual(t *testing.T) {
	text := "internal/budget/allocator.go"
	pattern := "balloc"
	score, indices, matched := Match(text, pattern, false)
	require.True(t, matched)
	require.Greater(t, score, 0.0)
	for i := 1; i < len(indices); i++ {
		require.Less(t, indices[i-1], indices[i])
	}
	for i, idx := range indices {
		require.Equal(t, toLower(pattern[i]), toLower(text[idx]))
	}
}

func TestContiguousSubstringFastPath(t *testing.T) {
	score, indices, matched := Match("api.rs", "api", false)
	require.True(t, matched)
	require.Equal(t, []int{0, 1, 2}, indices)
	require.Greater(t, score, 0.0)
}

func TestIsCaseSensitive(t *testing.T) {
	require.True(t, IsCaseSensitive("Foo"))
	require.False(t, IsCaseSensitive("foo"))
}

func TestMatcherMonotonicityPrependAppend(t *testing.T) {
	text := "actor.h"
	pattern := "actor"
	_, _, matched := Match(text, pattern, false)
	require.True(t, matched)

	_, _, matchedPrepended := Match("x"+text, pattern, false)
	require.True(t, matchedPrepended)

	_, _, matchedAppended := Match(text+"x", pattern, false)
	require.True(t, matchedAppended)
}
