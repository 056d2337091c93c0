// Package budget implements the token-budget allocator: a parallel
// tier-1 loader, importance scoring, dependency-connectivity bonus,
// water-fill allocation across file budgets, and per-file block pruning
// down to whatever each file's share actually buys.
//
// Grounded on the parallel-loader shape common to this codebase's other
// scanners (errgroup + bounded semaphore, consult-cache-then-read); the
// water-fill allocation and block-pruning phases are new code, since a
// flat per-file byte budget doesn't capture a weighted, multi-pass
// share.
package budget

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/lcierrors"
	"github.com/localcode/lci/internal/pathutil"
	"github.com/localcode/lci/internal/scan"
	"github.com/localcode/lci/internal/stub"
	"github.com/localcode/lci/internal/token"
)

const maxParallelLoads = 8

var structuralKeywords = []string{
	"MOD", "MODULE", "INTERFACE", "BASE", "TYPES", "INDEX",
	"LIB", "MAIN", "API", "SCHEMA", "MODEL",
}

// extWeight is the small static per-extension importance bonus: headers
// and type-definition files outrank primary source, which outranks
// implementation/secondary source, config, and docs.
var extWeight = map[string]float64{
	"h": 0.30, "hpp": 0.30, "hxx": 0.30, "d.ts": 0.30, "pyi": 0.30,

	"cs": 0.20, "csproj": 0.20, "sln": 0.20, "cmake": 0.20, "gradle": 0.20,

	"rs": 0.15, "go": 0.15, "java": 0.15, "kt": 0.15, "scala": 0.15,
	"swift": 0.15, "ts": 0.15, "tsx": 0.15,

	"cpp": 0.12, "cxx": 0.12, "cc": 0.12, "c": 0.12,
	"js": 0.12, "jsx": 0.12, "mjs": 0.12, "cjs": 0.12, "py": 0.12, "rb": 0.12,
	"usf": 0.12, "ush": 0.12, "hlsl": 0.12, "glsl": 0.12,
	"vert": 0.12, "frag": 0.12, "comp": 0.12, "wgsl": 0.12,

	"ini": 0.05, "cfg": 0.05, "toml": 0.05, "yaml": 0.05, "yml": 0.05,
	"json": 0.05, "xml": 0.05,

	"md": 0.03, "rst": 0.03, "txt": 0.03, "adoc": 0.03,
}

const defaultExtWeight = 0.08

const (
	structuralKeywordStep = 0.1
	structuralKeywordCap  = 0.2
	firstKBWindow         = 4096
	connectivityBonus     = 5.0
	minUsefulShare        = 30.0
	maxWaterFillPasses    = 5
)

// Tier identifies how much of a file survived allocation.
type Tier int

const (
	TierError Tier = 0
	Tier1     Tier = 1
	Tier2     Tier = 2
	Tier4     Tier = 4
)

// Input bundles everything Allocate needs to run the allocation.
type Input struct {
	Root        string
	Paths       []string
	AllFiles    []scan.File
	Budget      int
	Unit        string // "tokens" or "chars"
	Query       string
	Deps        map[string]scan.DepEntry
	ReverseDeps map[string][]string
	Cache       *StubCache
	Counter     token.Counter
	Config      *config.Config
}

// FileResult is one file's allocation outcome.
type FileResult struct {
	Content    string
	Tier       Tier
	Tokens     int
	Importance float64
	Order      int
}

// Summary aggregates the allocation outcome across all files.
type Summary struct {
	TotalTokens int
	TotalChars  int
	Budget      int
	Unit        string
	TierCounts  map[Tier]int
	FileCount   int
}

type loaded struct {
	relPath      string
	absPath      string
	ext          string
	desc         string
	category     string
	rawText      string
	tier1        string
	tier1Cost    int
	manifest     string
	manifestCost int
	importance   float64
	loadErr      error
}

// Allocate runs the five-phase allocation algorithm: parallel load,
// dependency-connectivity bonus, trivial-fit short circuit, water-fill
// across file shares, and a final safety-valve demotion pass.
func Allocate(in Input) (map[string]FileResult, Summary, error) {
	files, err := loadPhase1(in)
	if err != nil {
		return nil, Summary{}, err
	}

	applyPhase1bConnectivity(in, files)

	results := make(map[string]FileResult, len(files))
	errOrder := 0
	for _, f := range files {
		if f.loadErr != nil {
			results[f.relPath] = FileResult{Tier: TierError, Order: 1<<31 - 1 - errOrder}
			errOrder++
		}
	}

	live := make([]*loaded, 0, len(files))
	for _, f := range files {
		if f.loadErr == nil {
			live = append(live, f)
		}
	}

	if trivialFit(live, in.Budget) {
		for _, f := range live {
			results[f.relPath] = FileResult{Content: f.tier1, Tier: Tier1, Tokens: cost(f.tier1, in.Unit, in.Counter), Importance: f.importance}
		}
		return finalize(results, live, in)
	}

	shares := waterFill(live, in.Budget)

	for _, f := range live {
		content, tier := applyPhase4(f, shares[f.relPath], in)
		results[f.relPath] = FileResult{Content: content, Tier: tier, Tokens: cost(content, in.Unit, in.Counter), Importance: f.importance}
	}

	applyPhase5SafetyValve(results, live, in)

	return finalize(results, live, in)
}

func cost(text, unit string, counter token.Counter) int {
	if unit == "chars" {
		return len(text)
	}
	return counter.Count(text)
}

// loadPhase1 validates, reads, and stub-extracts every requested path in
// parallel, consulting the cache first and scoring base importance.
func loadPhase1(in Input) ([]*loaded, error) {
	queryTerms := strings.Fields(strings.ToLower(in.Query))

	results := make([]*loaded, len(in.Paths))
	g, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, maxParallelLoads)

	for i, p := range in.Paths {
		i, p := i, p
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			abs, verr := pathutil.Validate(in.Root, p)
			if verr != nil {
				results[i] = &loaded{relPath: p, loadErr: verr}
				return nil
			}

			rec := &loaded{relPath: filepath.ToSlash(p), absPath: abs, ext: strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))}
			rec.desc = scan.Describe(p)

			if cached, ok := in.Cache.Get(abs); ok {
				rec.rawText = cached.RawText
				rec.tier1 = cached.Tier1
				rec.tier1Cost = costFor(cached.Tier1, in, cached.Tier1Tokens)
			} else {
				data, rerr := os.ReadFile(abs)
				if rerr != nil {
					rec.loadErr = lcierrors.New(lcierrors.ReadError, "budget.Allocate").WithPath(p).WithCause(rerr)
					results[i] = rec
					return nil
				}
				rec.rawText = string(data)
				rec.tier1 = stub.Extract(rec.ext, rec.rawText)
				tokens := in.Counter.Count(rec.tier1)
				rec.tier1Cost = costFor(rec.tier1, in, tokens)
				in.Cache.Put(abs, CachedStub{RawText: rec.rawText, Tier1: rec.tier1, Tier1Tokens: tokens})
			}

			rec.category = scanCategory(in, rec.relPath)
			rec.manifest = stub.ManifestLine(rec.relPath, rec.desc)
			rec.manifestCost = cost(rec.manifest, in.Unit, in.Counter)
			rec.importance = scoreImportance(rec, queryTerms)

			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func costFor(text string, in Input, tokens int) int {
	if in.Unit == "chars" {
		return len(text)
	}
	return tokens
}

func scanCategory(in Input, relPath string) string {
	if in.Config == nil {
		return "Other"
	}
	return scan.CategoryPath(relPath, in.Config.Scan.ScanDirs, in.Config.Scan.NoiseDirs)
}

// scoreImportance computes a file's base importance from query-term
// hits in its path and first content window, a small static extension
// bonus, a structural-filename bonus, and a size bonus.
func scoreImportance(f *loaded, queryTerms []string) float64 {
	importance := 0.0
	if w, ok := extWeight[f.ext]; ok {
		importance += w
	} else {
		importance += defaultExtWeight
	}

	lowerPath := strings.ToLower(f.relPath)

	window := f.rawText
	if len(window) > firstKBWindow {
		window = window[:firstKBWindow]
	}
	lowerWindow := strings.ToLower(window)

	for _, term := range queryTerms {
		if term == "" {
			continue
		}
		if strings.Contains(lowerPath, term) {
			importance += 10
		}
		if strings.Contains(lowerWindow, term) {
			importance += 3
		}
	}

	filename := strings.ToUpper(filepath.Base(f.relPath))
	keywordBonus := 0.0
	for _, kw := range structuralKeywords {
		if strings.Contains(filename, kw) {
			keywordBonus += structuralKeywordStep
		}
	}
	if keywordBonus > structuralKeywordCap {
		keywordBonus = structuralKeywordCap
	}
	importance += keywordBonus

	size := len(f.rawText)
	switch {
	case size < 5*1024:
		importance += 0.05
	case size < 20*1024:
		importance += 0.02
	}

	return importance
}
