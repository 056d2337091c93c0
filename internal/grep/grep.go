// Package grep implements a BM25-lite grep relevance scorer:
// term-frequency saturation, density, filename/definition-file bonuses,
// early-match position bonus, and a multi-term coverage factor.
//
// Grounded on a line-scanner's match-count/total-lines/first-line
// contract for what a grep hit carries; the scoring formula itself is
// new code, generalizing a position-only ranking into a weighted
// relevance score.
package grep

import (
	"math"
	"sort"
	"strings"
)

// definitionExtensions are file extensions treated as declaration/header
// files, earning a small relevance bonus.
var definitionExtensions = map[string]bool{
	"h": true, "hpp": true, "hxx": true, "d.ts": true, "pyi": true,
}

// Hit carries everything Score needs about one matched file.
type Hit struct {
	MatchCount    int
	TotalLines    int
	LowerFilename string
	Extension     string
	TermsMatched  int // distinct query terms actually seen in the file
	FirstLine     int // zero-based index of first matching line
}

// Score computes the relevance score for hit given the lower-cased
// query terms and their per-term IDF weights.
func Score(hit Hit, terms []string, idfWeights []float64) float64 {
	m := float64(hit.MatchCount)
	tf := m / (m + 1.5)

	avgIDF := 1.0
	if len(idfWeights) > 0 {
		sum := 0.0
		for _, w := range idfWeights {
			sum += w
		}
		avgIDF = sum / float64(len(idfWeights))
	}

	density := m / math.Max(1, math.Sqrt(float64(hit.TotalLines)))

	filenameBonus := 0.0
	for _, term := range terms {
		if term != "" && strings.Contains(hit.LowerFilename, term) {
			filenameBonus = 15
			break
		}
	}

	defBonus := 0.0
	if definitionExtensions[hit.Extension] {
		defBonus = 5
	}

	positionBonus := 0.0
	if hit.TotalLines > 30 && hit.FirstLine < 30 {
		positionBonus = 3 * (1 - float64(hit.FirstLine)/30)
	}

	base := tf*15*avgIDF + filenameBonus + defBonus + density + positionBonus

	if len(terms) <= 1 {
		return base
	}

	coverage := coverageFactor(hit.TermsMatched, idfWeights)
	return base * (0.3 + 0.7*coverage*coverage)
}

// coverageFactor implements the multi-term coverage step: sort IDF
// weights ascending, assume the matched terms are the termsMatched
// lowest-IDF entries, and return the fraction of total IDF mass covered.
func coverageFactor(termsMatched int, idfWeights []float64) float64 {
	if len(idfWeights) == 0 {
		return 1.0
	}
	sorted := append([]float64{}, idfWeights...)
	sort.Float64s(sorted)

	total := 0.0
	for _, w := range sorted {
		total += w
	}
	if total == 0 {
		return 1.0
	}

	if termsMatched > len(sorted) {
		termsMatched = len(sorted)
	}
	covered := 0.0
	for i := 0; i < termsMatched; i++ {
		covered += sorted[i]
	}
	return covered / total
}

