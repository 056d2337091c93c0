package scan

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	reCInclude       = regexp.MustCompile(`#include\s+"([^"]+)"`)
	rePyFrom         = regexp.MustCompile(`(?m)^\s*from\s+([\w\.]+)\s+import`)
	rePyImport       = regexp.MustCompile(`(?m)^\s*import\s+([\w\.]+)`)
	reJSFrom         = regexp.MustCompile(`from\s+['"]([^'"]+)['"]`)
	reJSRequire      = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	reRustUseCrate   = regexp.MustCompile(`use\s+(?:crate|super)::([\w:]+)`)
	reRustMod        = regexp.MustCompile(`(?m)^\s*mod\s+(\w+)\s*;`)
	reGoImportSingle = regexp.MustCompile(`import\s+"([^"]+)"`)
	reGoImportGroup  = regexp.MustCompile(`(?s)import\s*\(([^)]*)\)`)
	reGoImportQuoted = regexp.MustCompile(`"([^"]+)"`)
	reCSUsing        = regexp.MustCompile(`(?m)^\s*using\s+([\w\.]+)\s*;`)
	reCSNamespace    = regexp.MustCompile(`(?m)^\s*namespace\s+([\w\.]+)`)
	rePS1DotSource   = regexp.MustCompile(`(?m)^\s*\.\s+\.\\([\w\.\-\\]+\.ps1)`)
	rePS1ImportMod   = regexp.MustCompile(`Import-Module\s+([\w\.\-]+)`)
)

var braceFamilyExts = map[string]bool{
	"c": true, "h": true, "cc": true, "cpp": true, "cxx": true, "hpp": true, "hxx": true,
	"glsl": true, "hlsl": true, "frag": true, "vert": true, "shader": true,
}

func buildNamespaceIndex(res *Result, contents map[string]string) {
	for relPath, content := range contents {
		if filepath.Ext(relPath) != ".cs" {
			continue
		}
		for _, m := range reCSNamespace.FindAllStringSubmatch(content, -1) {
			ns := m[1]
			res.namespaceIdx[ns] = append(res.namespaceIdx[ns], relPath)
		}
	}
}

// buildImportGraph extracts per-language raw import strings and
// resolves them into the bidirectional graph.
func buildImportGraph(res *Result, contents map[string]string) {
	for relPath, content := range contents {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relPath), "."))
		var raw []string

		switch {
		case braceFamilyExts[ext]:
			for _, m := range reCInclude.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
		case ext == "py" || ext == "pyi":
			for _, m := range rePyFrom.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
			for _, m := range rePyImport.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
		case ext == "js" || ext == "jsx" || ext == "ts" || ext == "tsx" || ext == "mjs" || ext == "cjs":
			for _, m := range reJSFrom.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
			for _, m := range reJSRequire.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
		case ext == "rs":
			for _, m := range reRustUseCrate.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
			for _, m := range reRustMod.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
		case ext == "go":
			for _, m := range reGoImportSingle.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
			for _, grp := range reGoImportGroup.FindAllStringSubmatch(content, -1) {
				for _, q := range reGoImportQuoted.FindAllStringSubmatch(grp[1], -1) {
					raw = append(raw, q[1])
				}
			}
		case ext == "cs":
			for _, m := range reCSUsing.FindAllStringSubmatch(content, -1) {
				ns := m[1]
				if strings.HasPrefix(ns, "System") || strings.HasPrefix(ns, "Microsoft") {
					continue
				}
				if resolved, ok := resolveCSharpNamespace(res, ns, relPath); ok {
					addEdge(res.Graph, relPath, resolved)
					continue
				}
				raw = append(raw, ns)
			}
		case ext == "ps1" || ext == "psm1" || ext == "psd1":
			for _, m := range rePS1DotSource.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
			for _, m := range rePS1ImportMod.FindAllStringSubmatch(content, -1) {
				raw = append(raw, m[1])
			}
		}

		for _, r := range raw {
			if resolved, ok := resolveStemImport(res, r); ok && resolved != relPath {
				addEdge(res.Graph, relPath, resolved)
				continue
			}
			res.Unresolved[relPath] = append(res.Unresolved[relPath], r)
		}
	}
}

func addEdge(g *Graph, from, to string) {
	g.Imports[from] = appendUniqueSorted(g.Imports[from], to)
	g.ImportedBy[to] = appendUniqueSorted(g.ImportedBy[to], from)
}

func appendUniqueSorted(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	list = append(list, v)
	sort.Strings(list)
	return list
}

func resolveCSharpNamespace(res *Result, ns, from string) (string, bool) {
	if candidates, ok := res.namespaceIdx[ns]; ok && len(candidates) > 0 {
		return pickCandidate(candidates, from), true
	}

	namespaces := make([]string, 0, len(res.namespaceIdx))
	for namespace := range res.namespaceIdx {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)
	for _, namespace := range namespaces {
		candidates := res.namespaceIdx[namespace]
		if strings.HasPrefix(namespace, ns) && len(candidates) > 0 {
			return pickCandidate(candidates, from), true
		}
	}
	return "", false
}

// resolveStemImport resolves a raw import string by (1) full-filename
// match, favoring the candidate whose path ends with the import string
// when several share a basename, else (2) last path-component stem match.
func resolveStemImport(res *Result, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "./")
	for strings.HasPrefix(raw, "../") {
		raw = strings.TrimPrefix(raw, "../")
	}
	base := filepath.Base(filepath.ToSlash(raw))

	if candidates, ok := res.filenameIdx[base]; ok && len(candidates) > 0 {
		return pickCandidate(candidates, raw), true
	}

	stem := lastComponent(raw)
	if candidates, ok := res.stemIndex[stem]; ok && len(candidates) > 0 {
		return pickCandidate(candidates, raw), true
	}
	return "", false
}

func lastComponent(raw string) string {
	raw = strings.TrimSuffix(raw, "/")
	idx := strings.LastIndexAny(raw, "/.")
	if idx < 0 {
		return raw
	}
	return raw[idx+1:]
}

func pickCandidate(candidates []string, hint string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, c := range candidates {
		if strings.HasSuffix(c, hint) {
			return c
		}
	}
	sorted := append([]string{}, candidates...)
	sort.Strings(sorted)
	return sorted[0]
}

// ResolveCrossRepo resolves each repo's locally-unresolved imports
// against every other loaded repo's filename/stem index, producing
// cross-repo edges. Ambiguous matches (a stem present in more than one
// sibling repo) are skipped rather than guessed.
func ResolveCrossRepo(repos map[string]*Result) []CrossRepoEdge {
	var edges []CrossRepoEdge

	for fromRepo, r := range repos {
		for fromFile, rawImports := range r.Unresolved {
			for _, raw := range rawImports {
				base := filepath.Base(filepath.ToSlash(strings.TrimPrefix(raw, "./")))
				stem := lastComponent(raw)

				var toRepo, toFile string
				matches := 0
				for repoName, other := range repos {
					if repoName == fromRepo {
						continue
					}
					if candidates, ok := other.filenameIdx[base]; ok && len(candidates) > 0 {
						toRepo, toFile = repoName, pickCandidate(candidates, raw)
						matches++
						continue
					}
					if candidates, ok := other.stemIndex[stem]; ok && len(candidates) > 0 {
						toRepo, toFile = repoName, pickCandidate(candidates, raw)
						matches++
					}
				}
				if matches == 1 {
					edges = append(edges, CrossRepoEdge{
						FromRepo: fromRepo, FromFile: fromFile,
						ToRepo: toRepo, ToFile: toFile,
					})
				}
			}
		}
	}

	sort.Slice(edges, func(a, b int) bool {
		if edges[a].FromRepo != edges[b].FromRepo {
			return edges[a].FromRepo < edges[b].FromRepo
		}
		if edges[a].FromFile != edges[b].FromFile {
			return edges[a].FromFile < edges[b].FromFile
		}
		if edges[a].ToRepo != edges[b].ToRepo {
			return edges[a].ToRepo < edges[b].ToRepo
		}
		return edges[a].ToFile < edges[b].ToFile
	})
	return edges
}
