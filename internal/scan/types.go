// Package scan implements the repository scanner: a directory walk
// followed by parallel per-file processing that produces scanned files, a
// manifest, per-language import edges, a term-frequency table, and mined
// dependency entries. The directory traversal itself runs on a single
// goroutine; only the per-file reads and dependency mining run in parallel.
//
// Grounded on a parallel-walk pipeline (parallel walk helpers, binary
// pre-check, glob matching against skip dirs); dependency mining
// and import-graph resolution are new code, since regex-based import
// mining has no tree-sitter-based analogue here.
package scan

// File is a single scanned file.
type File struct {
	RelPath     string
	AbsPath     string
	Ext         string // lower-cased, no leading dot
	Description string
}

// ManifestEntry is one row under a category path in the manifest.
type ManifestEntry struct {
	Path        string
	Description string
	Size        int64
}

// Manifest maps a category path string to its ordered file entries.
type Manifest map[string][]ManifestEntry

// DepEntry is a per-module dependency record.
type DepEntry struct {
	Module   string
	Public   []string
	Private  []string
	Category string
}

// Graph is the bidirectional import graph.
type Graph struct {
	Imports    map[string][]string
	ImportedBy map[string][]string
}

// NewGraph returns an empty, initialized Graph.
func NewGraph() *Graph {
	return &Graph{Imports: map[string][]string{}, ImportedBy: map[string][]string{}}
}

// CrossRepoEdge is an immutable 4-tuple cross-repo import edge.
type CrossRepoEdge struct {
	FromRepo string
	FromFile string
	ToRepo   string
	ToFile   string
}

// TermFrequency is the per-repo document-frequency table.
type TermFrequency struct {
	TotalDocs int
	DF        map[string]int
}

// IDF returns the Laplace-smoothed inverse document frequency for term:
// idf(t) = max(1.0, ln((N+1)/(df+1)) + 1); unknown terms default to
// df = N.
func (tf *TermFrequency) IDF(term string) float64 {
	df, ok := tf.DF[term]
	if !ok {
		df = tf.TotalDocs
	}
	return idf(tf.TotalDocs, df)
}

// Result is everything the scanner produces for one repo.
type Result struct {
	AllFiles []File
	Manifest Manifest
	Deps     map[string]DepEntry
	Graph    *Graph
	Terms    *TermFrequency

	// Unresolved holds, per source file, the raw import strings that
	// could not be resolved against this repo's own index. Cross-repo
	// resolution consults these against sibling repos' indexes.
	Unresolved map[string][]string

	stemIndex    map[string][]string // stem (no ext) -> rel paths
	filenameIdx  map[string][]string // full filename -> rel paths
	namespaceIdx map[string][]string // C# namespace -> rel paths
}
