package search

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	filenameWeight    = 2.0
	pathWeight        = 1.0
	descriptionWeight = 0.5

	exactFilenameScore = 10000.0
	stemPrefixBase     = 5000.0
	stemPrefixScale    = 1000.0
	minStemPrefixLen   = 3

	moduleNameWeight = 2.0
	moduleIDWeight   = 1.0
)

// FileMatch is a scored file result.
type FileMatch struct {
	Record          FileRecord
	Score           float64
	FilenameIndices []int
}

// ModuleMatch is a scored module result.
type ModuleMatch struct {
	Record ModuleRecord
	Score  float64
}

// scoreFile applies the filename/path/description cascade per token and
// sums the per-token scores. A file with any non-matching token is
// dropped.
func scoreFile(tokens []Token, rec FileRecord) (FileMatch, bool) {
	total := 0.0
	var filenameIndices []int

	for _, tok := range tokens {
		if ok, add, indices := scoreFilenameFastPath(tok, rec); ok {
			total += add
			if indices != nil {
				filenameIndices = append(filenameIndices, indices...)
			}
			continue
		}

		if score, indices, ok := tok.matchText(rec.filename, rec.lowerFilename, rec.filenameMask); ok {
			total += score * filenameWeight
			filenameIndices = append(filenameIndices, indices...)
			continue
		}

		if score, _, ok := tok.matchText(rec.Path, rec.lowerPath, rec.pathMask); ok {
			total += score * pathWeight
			continue
		}

		if score, _, ok := tok.matchText(rec.Description, rec.lowerDesc, rec.descMask); ok {
			total += score * descriptionWeight
			continue
		}

		return FileMatch{}, false
	}

	return FileMatch{Record: rec, Score: total, FilenameIndices: filenameIndices}, true
}

// scoreFilenameFastPath tests the two fast rules against the
// stem-without-extension before falling back to the matcher.
func scoreFilenameFastPath(tok Token, rec FileRecord) (ok bool, add float64, indices []int) {
	stem, filename := rec.lowerStem, rec.lowerFilename
	pattern := tok.lower
	if tok.caseSensitive {
		stem, filename = rec.stem, rec.filename
		pattern = tok.raw
	}

	if pattern == stem || pattern == filename {
		full := make([]int, len(rec.filename))
		for i := range full {
			full[i] = i
		}
		return true, exactFilenameScore, full
	}

	if len(pattern) >= minStemPrefixLen && len(stem) > 0 && strings.HasPrefix(stem, pattern) {
		bonus := stemPrefixBase + (float64(len(pattern))/float64(len(stem)))*stemPrefixScale
		prefix := make([]int, len(pattern))
		for i := range prefix {
			prefix[i] = i
		}
		return true, bonus, prefix
	}

	return false, 0, nil
}

// scoreModule applies the name/id cascade, adding a log-scaled tie-break
// bonus for file count.
func scoreModule(tokens []Token, rec ModuleRecord) (ModuleMatch, bool) {
	total := 0.0
	for _, tok := range tokens {
		if score, _, ok := tok.matchText(rec.Name, rec.lowerName, rec.nameMask); ok {
			total += score * moduleNameWeight
			continue
		}
		if score, _, ok := tok.matchText(rec.ID, rec.lowerID, rec.idMask); ok {
			total += score * moduleIDWeight
			continue
		}
		return ModuleMatch{}, false
	}
	total += math.Log2(float64(rec.FileCount)+1) * 2
	return ModuleMatch{Record: rec, Score: total}, true
}

// Results is the ranked outcome of a Search call.
type Results struct {
	Files   []FileMatch   `json:"files"`
	Modules []ModuleMatch `json:"modules"`
}

// Search scores every file and module record against query in parallel,
// then ranks and truncates to the given limits.
func Search(query string, files []FileRecord, modules []ModuleRecord, fileLimit, moduleLimit int) (Results, error) {
	tokens := CompileQuery(query)
	if len(tokens) == 0 {
		return Results{}, nil
	}

	fileMatches := make([]*FileMatch, len(files))
	moduleMatches := make([]*ModuleMatch, len(modules))

	var g errgroup.Group
	for i := range files {
		i := i
		g.Go(func() error {
			if m, ok := scoreFile(tokens, files[i]); ok {
				fileMatches[i] = &m
			}
			return nil
		})
	}
	for i := range modules {
		i := i
		g.Go(func() error {
			if m, ok := scoreModule(tokens, modules[i]); ok {
				moduleMatches[i] = &m
			}
			return nil
		})
	}
	_ = g.Wait()

	var fr []FileMatch
	for _, m := range fileMatches {
		if m != nil {
			fr = append(fr, *m)
		}
	}
	var mr []ModuleMatch
	for _, m := range moduleMatches {
		if m != nil {
			mr = append(mr, *m)
		}
	}

	sort.Slice(mr, func(a, b int) bool { return mr[a].Score > mr[b].Score })
	if moduleLimit > 0 && len(mr) > moduleLimit {
		mr = mr[:moduleLimit]
	}

	sort.Slice(fr, func(a, b int) bool { return fr[a].Score > fr[b].Score })
	if fileLimit > 0 && len(fr) > fileLimit {
		fr = fr[:fileLimit]
	}

	return Results{Files: fr, Modules: mr}, nil
}
