package scan

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/lcierrors"
	"github.com/localcode/lci/internal/scan/depscan"
)

const binaryPreCheckBytes = 8192

var wordRe = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Scan walks root per cfg and produces the scanner's full output:
// all_files, manifest, dep-entries, import graph, and term frequency.
func Scan(root string, cfg *config.Config) (*Result, error) {
	const op = "scan.Scan"
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, lcierrors.New(lcierrors.InvalidScanRoot, op).WithPath(root).WithCause(err)
	}

	candidates, err := walkCandidates(root, cfg)
	if err != nil {
		return nil, err
	}

	type processed struct {
		file    File
		size    int64
		content string
		isText  bool
	}

	results := make([]processed, len(candidates))
	g, _ := errgroup.WithContext(context.Background())
	sem := make(chan struct{}, maxParallelism())

	for i, relPath := range candidates {
		i, relPath := i, relPath
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			absPath := filepath.Join(root, relPath)
			data, err := os.ReadFile(absPath)
			if err != nil {
				// Per-file read errors are skipped rather than aborting the whole scan.
				return nil
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relPath), "."))
			isText := true
			if len(cfg.Scan.Extensions) == 0 {
				isText = looksLikeText(data)
			}
			if !isText {
				return nil
			}

			results[i] = processed{
				file: File{
					RelPath:     filepath.ToSlash(relPath),
					AbsPath:     absPath,
					Ext:         ext,
					Description: Describe(relPath),
				},
				size:    int64(len(data)),
				content: string(data),
				isText:  true,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Manifest:     Manifest{},
		Deps:         map[string]DepEntry{},
		Graph:        NewGraph(),
		Terms:        &TermFrequency{DF: map[string]int{}},
		Unresolved:   map[string][]string{},
		stemIndex:    map[string][]string{},
		filenameIdx:  map[string][]string{},
		namespaceIdx: map[string][]string{},
	}

	contents := make(map[string]string, len(results))
	for _, p := range results {
		if !p.isText {
			continue
		}
		res.AllFiles = append(res.AllFiles, p.file)
		contents[p.file.RelPath] = p.content

		cat := CategoryPath(p.file.RelPath, cfg.Scan.ScanDirs, cfg.Scan.NoiseDirs)
		res.Manifest[cat] = append(res.Manifest[cat], ManifestEntry{
			Path:        p.file.RelPath,
			Description: p.file.Description,
			Size:        p.size,
		})

		base := filepath.Base(p.file.RelPath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		res.stemIndex[stem] = append(res.stemIndex[stem], p.file.RelPath)
		res.filenameIdx[base] = append(res.filenameIdx[base], p.file.RelPath)

		addTermFrequency(res.Terms, p.content)
	}

	for cat := range res.Manifest {
		entries := res.Manifest[cat]
		sort.Slice(entries, func(a, b int) bool { return entries[a].Path < entries[b].Path })
		res.Manifest[cat] = entries
	}
	sort.Slice(res.AllFiles, func(a, b int) bool { return res.AllFiles[a].RelPath < res.AllFiles[b].RelPath })

	buildNamespaceIndex(res, contents)
	buildImportGraph(res, contents)

	var mu sync.Mutex
	depRegistry := depscan.Registry()
	var depGroup errgroup.Group
	for relPath, content := range contents {
		relPath, content := relPath, content
		depGroup.Go(func() error {
			for _, scanner := range depRegistry {
				if !scanner.Handles(relPath) {
					continue
				}
				mod, pub, priv, ok := scanner.Parse(relPath, content)
				if !ok {
					continue
				}
				cat := CategoryPath(relPath, cfg.Scan.ScanDirs, cfg.Scan.NoiseDirs)
				mu.Lock()
				res.Deps[mod] = DepEntry{Module: mod, Public: pub, Private: priv, Category: cat}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = depGroup.Wait()

	return res, nil
}

func maxParallelism() int {
	n := 8
	return n
}

func looksLikeText(data []byte) bool {
	n := len(data)
	if n > binaryPreCheckBytes {
		n = binaryPreCheckBytes
	}
	return !bytes.ContainsRune(data[:n], 0)
}

// walkCandidates performs the parallel-friendly directory traversal:
// collect the list of relative file paths to process, respecting
// hidden-file and skip-dir filters. The expensive per-file work (read,
// binary sniff, regex mining) happens concurrently afterward.
func walkCandidates(root string, cfg *config.Config) ([]string, error) {
	var out []string
	skip := cfg.Scan.SkipDirs

	roots := cfg.Scan.ScanDirs
	if len(roots) == 0 {
		roots = []string{"."}
	}

	for _, sd := range roots {
		start := filepath.Join(root, sd)
		err := filepath.Walk(start, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // per-file errors are skipped, not fatal
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			if rel == "." {
				return nil
			}
			base := filepath.Base(path)

			if info.IsDir() {
				if strings.HasPrefix(base, ".") && base != "." {
					return filepath.SkipDir
				}
				if matchesAnyGlob(skip, base) || matchesAnyGlob(skip, filepath.ToSlash(rel)) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(base, ".") {
				return nil
			}

			if len(cfg.Scan.Extensions) > 0 {
				ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
				if !containsFold(cfg.Scan.Extensions, ext) {
					return nil
				}
			}

			out = append(out, rel)
			return nil
		})
		if err != nil {
			continue
		}
	}
	return out, nil
}

func matchesAnyGlob(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, x := range list {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}

func addTermFrequency(tf *TermFrequency, content string) {
	tf.TotalDocs++
	seen := map[string]bool{}
	for _, tok := range wordRe.FindAllString(content, -1) {
		if len(tok) < 2 {
			continue
		}
		lower := strings.ToLower(tok)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		tf.DF[lower]++
	}
}
