package repo

import (
	"github.com/localcode/lci/internal/budget"
	"github.com/localcode/lci/internal/scan"
)

// ReadContext runs the token-budget allocator against this repo's scan
// state and stub cache, then (when session is non-nil) records every
// successfully read path, with its token count, in the session.
//
// ordering=attention and any session-seen deprioritization are not
// implemented: Find takes no session, and, per the decision recorded in
// DESIGN.md, budget.Allocate stays pure to its
// five-phase algorithm and this wrapper only adds read-tracking.
func (r *Repo) ReadContext(paths []string, budgetSize int, unit, query string, session *Session) (map[string]budget.FileResult, budget.Summary, error) {
	in := budget.Input{
		Root:        r.Root,
		Paths:       paths,
		AllFiles:    r.Scan.AllFiles,
		Budget:      budgetSize,
		Unit:        unit,
		Query:       query,
		Deps:        r.Scan.Deps,
		ReverseDeps: buildReverseDeps(r.Scan.Deps),
		Cache:       r.Cache,
		Counter:     r.Counter,
		Config:      r.Config,
	}

	results, summary, err := budget.Allocate(in)
	if err != nil {
		return nil, budget.Summary{}, err
	}

	if session != nil {
		for path, entry := range results {
			if entry.Tier == budget.TierError {
				continue
			}
			session.RecordRead(path, entry.Tokens, r.Scan.Graph)
		}
	}

	return results, summary, nil
}

// buildReverseDeps inverts a module's public+private dependency lists
// into "who depends on me", matching the connectivity bonus's need for
// both directions.
func buildReverseDeps(deps map[string]scan.DepEntry) map[string][]string {
	rev := map[string][]string{}
	for name, d := range deps {
		for _, p := range d.Public {
			rev[p] = append(rev[p], name)
		}
		for _, p := range d.Private {
			rev[p] = append(rev[p], name)
		}
	}
	return rev
}
