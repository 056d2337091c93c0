package repo

import (
	"context"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/localcode/lci/internal/grep"
	"github.com/localcode/lci/internal/lcierrors"
	"github.com/localcode/lci/internal/search"
)

// MatchMode selects how Find's content grep builds its per-line test.
type MatchMode string

const (
	MatchAll   MatchMode = "all"
	MatchAny   MatchMode = "any"
	MatchExact MatchMode = "exact"
	MatchRegex MatchMode = "regex"
)

const maxParallelGreps = 8

// FindResult is one path's blended name+content match, the merge
// original_source's cs_find performs rather than returning two lists.
type FindResult struct {
	Repo         string
	Path         string
	NameScore    float64
	GrepScore    float64
	GrepCount    int
	TopMatch     string
	TermsMatched int
	TotalTerms   int
	blended      float64
}

// FindOptions configures one Find call.
type FindOptions struct {
	Query     string
	Mode      MatchMode // default MatchAny
	FileLimit int
}

// Find runs a unified name+content search: internal/search ranks
// filenames, internal/grep scores per-file content hits, and the two
// are merged by path, normalized, and blended with a dual-match boost,
// grounded on original_source's cs_find merge step in server/src/mcp.rs.
func (r *Repo) Find(opts FindOptions) ([]FindResult, []search.ModuleMatch, error) {
	const op = "repo.Find"
	terms := strings.Fields(strings.ToLower(opts.Query))
	if len(terms) == 0 {
		return nil, nil, lcierrors.New(lcierrors.InvalidQuery, op)
	}
	if opts.Mode == "" {
		opts.Mode = MatchAny
	}

	searchResults, err := search.Search(opts.Query, r.fileRecords, r.moduleRecords, opts.FileLimit, opts.FileLimit)
	if err != nil {
		return nil, nil, err
	}

	merged := map[string]*FindResult{}
	for _, m := range searchResults.Files {
		merged[m.Record.Path] = &FindResult{Repo: r.Name, Path: m.Record.Path, NameScore: m.Score}
	}

	matcher, err := buildMatcher(opts.Mode, opts.Query, terms)
	if err != nil {
		return nil, nil, lcierrors.New(lcierrors.InvalidPattern, op).WithCause(err)
	}

	idfWeights := make([]float64, len(terms))
	for i, t := range terms {
		idfWeights[i] = r.Scan.Terms.IDF(t)
	}

	hits, err := r.grepAllFiles(terms, matcher, idfWeights)
	if err != nil {
		return nil, nil, err
	}
	for path, h := range hits {
		fr, ok := merged[path]
		if !ok {
			fr = &FindResult{Repo: r.Name, Path: path}
			merged[path] = fr
		}
		fr.GrepScore = h.score
		fr.GrepCount = h.matchCount
		fr.TopMatch = h.snippet
		fr.TermsMatched = h.termsMatched
		fr.TotalTerms = len(terms)
	}

	ranked := make([]*FindResult, 0, len(merged))
	for _, fr := range merged {
		ranked = append(ranked, fr)
	}
	blendAndRank(ranked, len(terms))

	if opts.FileLimit > 0 && len(ranked) > opts.FileLimit {
		ranked = ranked[:opts.FileLimit]
	}

	out := make([]FindResult, len(ranked))
	for i, fr := range ranked {
		out[i] = *fr
	}
	return out, searchResults.Modules, nil
}

// blendAndRank applies the adaptive-weight, normalized, dual-match-boost
// scoring original_source's cs_find uses to combine name and grep
// scores into one ranked list, sorted in place.
func blendAndRank(results []*FindResult, termCount int) {
	nameWeight, grepWeight := 0.6, 0.4
	if termCount > 1 {
		nameWeight, grepWeight = 0.4, 0.6
	}

	maxName, maxGrep := 1.0, 1.0
	for _, r := range results {
		maxName = math.Max(maxName, r.NameScore)
		maxGrep = math.Max(maxGrep, r.GrepScore)
	}

	for _, r := range results {
		norm := (r.NameScore/maxName)*nameWeight + (r.GrepScore/maxGrep)*grepWeight
		boost := 1.0
		if r.NameScore > 0 && r.GrepCount > 0 {
			boost = 1.25
		}
		r.blended = norm * boost
	}

	sort.Slice(results, func(i, j int) bool { return results[i].blended > results[j].blended })
}

type grepHit struct {
	score        float64
	matchCount   int
	snippet      string
	termsMatched int
}

type grepSlot struct {
	path string
	hit  grepHit
	ok   bool
}

// grepAllFiles scans every scanned file's content for terms in parallel,
// bounded by maxParallelGreps, and returns a hit per file with at least
// one match.
func (r *Repo) grepAllFiles(terms []string, matcher lineMatcher, idfWeights []float64) (map[string]grepHit, error) {
	results := make([]grepSlot, len(r.Scan.AllFiles))

	g, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, maxParallelGreps)

	for i, f := range r.Scan.AllFiles {
		i, f := i, f
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(f.AbsPath)
			if err != nil {
				return nil
			}
			lines := strings.Split(string(data), "\n")

			matchCount := 0
			firstLine := -1
			snippet := ""
			termsSeen := map[string]bool{}
			lowerFilename := strings.ToLower(f.RelPath)

			for li, line := range lines {
				lowerLine := strings.ToLower(line)
				for _, t := range terms {
					if t != "" && strings.Contains(lowerLine, t) {
						termsSeen[t] = true
					}
				}
				if matcher(lowerLine) {
					matchCount++
					if firstLine < 0 {
						firstLine = li
						snippet = truncateSnippet(strings.TrimSpace(line))
					}
				}
			}
			if matchCount == 0 {
				return nil
			}

			hit := grep.Hit{
				MatchCount:    matchCount,
				TotalLines:    len(lines),
				LowerFilename: lowerFilename,
				Extension:     f.Ext,
				TermsMatched:  len(termsSeen),
				FirstLine:     firstLine,
			}
			score := grep.Score(hit, terms, idfWeights)
			results[i] = grepSlot{path: f.RelPath, hit: grepHit{score: score, matchCount: matchCount, snippet: snippet, termsMatched: len(termsSeen)}, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := map[string]grepHit{}
	for _, r := range results {
		if r.ok {
			out[r.path] = r.hit
		}
	}
	return out, nil
}

func truncateSnippet(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

type lineMatcher func(lowerLine string) bool

// buildMatcher returns the per-line test for mode. RE2 (Go's regexp) has
// no lookahead, so "all" mode cannot be expressed as a single pattern
// the way Rust's regex crate's lookahead trick can: it is implemented as
// a plain substring-contains-every-term check instead.
func buildMatcher(mode MatchMode, rawQuery string, terms []string) (lineMatcher, error) {
	switch mode {
	case MatchAll:
		return func(line string) bool {
			for _, t := range terms {
				if t != "" && !strings.Contains(line, t) {
					return false
				}
			}
			return true
		}, nil

	case MatchExact:
		pattern := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(rawQuery)))
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil

	case MatchRegex:
		re, err := regexp.Compile("(?i)" + rawQuery)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil

	case MatchAny:
		fallthrough
	default:
		escaped := make([]string, len(terms))
		for i, t := range terms {
			escaped[i] = regexp.QuoteMeta(t)
		}
		re, err := regexp.Compile(strings.Join(escaped, "|"))
		if err != nil {
			return nil, fmt.Errorf("building any-mode pattern: %w", err)
		}
		return re.MatchString, nil
	}
}
