// Package repo owns repo and server state: named repos, resolution by
// name, and the session state a caller accumulates across queries.
//
// Grounded on an IndexServer shape owning the indexer/search engine
// behind an RWMutex with repo-resolution-by-name, plus a per-repo bundle
// and session/frontier shape; the socket/RPC transport such a server
// normally carries is dropped here since that plumbing lives above this
// package.
package repo

import (
	"sort"
	"strings"
	"sync"

	"github.com/localcode/lci/internal/budget"
	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/lcierrors"
	"github.com/localcode/lci/internal/scan"
	"github.com/localcode/lci/internal/search"
	"github.com/localcode/lci/internal/token"
)

// Repo bundles a scanned repository with everything derived from it: the
// search index, the stub cache, and its configuration.
type Repo struct {
	Name    string
	Root    string
	Config  *config.Config
	Scan    *scan.Result
	Cache   *budget.StubCache
	Counter token.Counter

	fileRecords   []search.FileRecord
	moduleRecords []search.ModuleRecord
}

// Server owns the named map of repos plus a default-repo pointer.
// Rescan/add-repo operations take the exclusive lock; query operations
// only ever take the shared one.
type Server struct {
	mu         sync.RWMutex
	repos      map[string]*Repo
	def        string
	counter    token.Counter
	crossEdges []scan.CrossRepoEdge
}

// NewServer returns an empty server using counter for token accounting.
func NewServer(counter token.Counter) *Server {
	if counter == nil {
		counter = token.NewByteEstimator()
	}
	return &Server{repos: map[string]*Repo{}, counter: counter}
}

// AddRepo scans root under name, indexes it, and rebuilds cross-repo
// import edges under the server's exclusive lock. The first repo added
// becomes the default.
func (s *Server) AddRepo(name, root string, cfg *config.Config) (*Repo, error) {
	if cfg == nil {
		cfg = config.Default(root)
	}
	res, err := scan.Scan(root, cfg)
	if err != nil {
		return nil, err
	}

	r := &Repo{
		Name:    name,
		Root:    root,
		Config:  cfg,
		Scan:    res,
		Cache:   budget.NewStubCache(),
		Counter: s.counter,
	}
	r.buildIndex()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos[name] = r
	if s.def == "" {
		s.def = name
	}
	s.rebuildCrossRepoLocked()
	return r, nil
}

// RemoveRepo drops a repo from the server and rebuilds cross-repo edges.
func (s *Server) RemoveRepo(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.repos, name)
	if s.def == name {
		s.def = ""
	}
	s.rebuildCrossRepoLocked()
}

// rebuildCrossRepoLocked recomputes every repo's unresolved-import
// resolution against its siblings. Caller must hold the write lock.
func (s *Server) rebuildCrossRepoLocked() {
	results := make(map[string]*scan.Result, len(s.repos))
	for name, r := range s.repos {
		results[name] = r.Scan
	}
	s.crossEdges = scan.ResolveCrossRepo(results)
}

// CrossRepoEdges returns the cross-repo import edges computed the last
// time the repo set changed.
func (s *Server) CrossRepoEdges() []scan.CrossRepoEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.crossEdges
}

// Resolve applies the repo-resolution rule: a named request uses that
// repo or fails with UnknownRepo; an unnamed request uses the sole
// indexed repo, else the default, else fails with AmbiguousRepo.
func (s *Server) Resolve(name string) (*Repo, error) {
	const op = "repo.Resolve"
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name != "" {
		r, ok := s.repos[name]
		if !ok {
			return nil, lcierrors.New(lcierrors.UnknownRepo, op).WithPath(name)
		}
		return r, nil
	}
	if len(s.repos) == 1 {
		for _, r := range s.repos {
			return r, nil
		}
	}
	if s.def != "" {
		if r, ok := s.repos[s.def]; ok {
			return r, nil
		}
	}
	return nil, lcierrors.New(lcierrors.AmbiguousRepo, op)
}

// All returns every indexed repo, sorted by name, for fan-out requests
// that don't name a repo.
func (s *Server) All() []*Repo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Repo, 0, len(s.repos))
	for _, r := range s.repos {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Counter returns the server-wide tokenizer.
func (s *Server) Counter() token.Counter { return s.counter }

// buildIndex constructs the search records a Repo's find/search
// operations score against: one file record per scanned file and one
// module record per manifest category.
func (r *Repo) buildIndex() {
	r.fileRecords = make([]search.FileRecord, 0, len(r.Scan.AllFiles))
	for _, f := range r.Scan.AllFiles {
		r.fileRecords = append(r.fileRecords, search.NewFileRecord(f.RelPath, f.Description))
	}

	r.moduleRecords = make([]search.ModuleRecord, 0, len(r.Scan.Manifest))
	for category, entries := range r.Scan.Manifest {
		r.moduleRecords = append(r.moduleRecords, search.NewModuleRecord(categoryLeaf(category), category, len(entries)))
	}
}

// categoryLeaf returns a breadcrumb category path's final segment, e.g.
// "internal > search" -> "search".
func categoryLeaf(category string) string {
	idx := strings.LastIndex(category, " > ")
	if idx < 0 {
		return category
	}
	return category[idx+len(" > "):]
}

// FileRecords returns the repo's indexed file records.
func (r *Repo) FileRecords() []search.FileRecord { return r.fileRecords }

// ModuleRecords returns the repo's indexed module records.
func (r *Repo) ModuleRecords() []search.ModuleRecord { return r.moduleRecords }
