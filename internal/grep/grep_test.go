package grep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreSingleTermSkipsCoverageStep(t *testing.T) {
	hit := Hit{MatchCount: 3, TotalLines: 10, LowerFilename: "widget.go", TermsMatched: 1, FirstLine: 0}
	score := Score(hit, []string{"widget"}, []float64{2.0})
	require.Greater(t, score, 0.0)
}

func TestScoreFilenameBonusAppliesWhenTermInFilename(t *testing.T) {
	base := Hit{MatchCount: 2, TotalLines: 20, LowerFilename: "helper.go", FirstLine: 5, TermsMatched: 1}
	withTerm := Score(base, []string{"helper"}, []float64{1.5})

	noTerm := base
	noTerm.LowerFilename = "other.go"
	without := Score(noTerm, []string{"helper"}, []float64{1.5})

	require.Greater(t, withTerm, without)
	require.InDelta(t, 15.0, withTerm-without, 0.001)
}

func TestScoreDefinitionExtensionBonus(t *testing.T) {
	header := Hit{MatchCount: 1, TotalLines: 5, LowerFilename: "a.h", Extension: "h", TermsMatched: 1}
	impl := Hit{MatchCount: 1, TotalLines: 5, LowerFilename: "a.c", Extension: "c", TermsMatched: 1}
	require.InDelta(t, 5.0, Score(header, []string{"x"}, nil)-Score(impl, []string{"x"}, nil), 0.001)
}

func TestScorePositionBonusOnlyForEarlyMatchInLongFile(t *testing.T) {
	early := Hit{MatchCount: 1, TotalLines: 100, FirstLine: 0, TermsMatched: 1}
	late := Hit{MatchCount: 1, TotalLines: 100, FirstLine: 50, TermsMatched: 1}
	shortEarly := Hit{MatchCount: 1, TotalLines: 10, FirstLine: 0, TermsMatched: 1}

	require.Greater(t, Score(early, nil, nil), Score(late, nil, nil))
	// total_lines <= 30 never earns the position bonus, even at first_line 0.
	wantDensityOnlyDelta := 1/math.Sqrt(10) - 1/math.Sqrt(100)
	require.InDelta(t, wantDensityOnlyDelta, Score(shortEarly, nil, nil)-Score(late, nil, nil), 0.001)
}

func TestCoverageFactorFullCoverageEqualsOne(t *testing.T) {
	require.InDelta(t, 1.0, coverageFactor(3, []float64{1, 2, 3}), 0.0001)
}

func TestCoverageFactorPartialCoverageUsesLowestIDFFirst(t *testing.T) {
	c := coverageFactor(1, []float64{1, 2, 3})
	require.InDelta(t, 1.0/6.0, c, 0.0001)
}

func TestScoreMultiTermAppliesCoverageFactor(t *testing.T) {
	hit := Hit{MatchCount: 5, TotalLines: 10, TermsMatched: 1}
	full := hit
	full.TermsMatched = 2
	partial := Score(hit, []string{"a", "b"}, []float64{1, 1})
	complete := Score(full, []string{"a", "b"}, []float64{1, 1})
	require.Less(t, partial, complete)
}
