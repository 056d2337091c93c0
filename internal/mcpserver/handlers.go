package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/localcode/lci/internal/repo"
	"github.com/localcode/lci/internal/search"
)

type searchParams struct {
	Repo        string `json:"repo,omitempty"`
	Query       string `json:"query"`
	FileLimit   int    `json:"file_limit,omitempty"`
	ModuleLimit int    `json:"module_limit,omitempty"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p searchParams
	if err := unmarshalParams(req, &p); err != nil {
		return createErrorResponse("search", err)
	}
	r, err := s.repos.Resolve(p.Repo)
	if err != nil {
		return createErrorResponse("search", err)
	}
	if p.FileLimit <= 0 {
		p.FileLimit = 20
	}
	if p.ModuleLimit <= 0 {
		p.ModuleLimit = 10
	}
	results, err := search.Search(p.Query, r.FileRecords(), r.ModuleRecords(), p.FileLimit, p.ModuleLimit)
	if err != nil {
		return createErrorResponse("search", err)
	}
	return createJSONResponse(results)
}

type findParams struct {
	Repo      string `json:"repo,omitempty"`
	Query     string `json:"query"`
	Mode      string `json:"mode,omitempty"`
	FileLimit int    `json:"file_limit,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleFind(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findParams
	if err := unmarshalParams(req, &p); err != nil {
		return createErrorResponse("find", err)
	}
	r, err := s.repos.Resolve(p.Repo)
	if err != nil {
		return createErrorResponse("find", err)
	}
	if p.FileLimit <= 0 {
		p.FileLimit = 20
	}
	sess := s.session(p.SessionID)
	sess.RecordQuery(p.Query)

	files, modules, err := r.Find(repo.FindOptions{
		Query:     p.Query,
		Mode:      repo.MatchMode(p.Mode),
		FileLimit: p.FileLimit,
	})
	if err != nil {
		return createErrorResponse("find", err)
	}
	return createJSONResponse(map[string]interface{}{
		"files":   files,
		"modules": modules,
	})
}

type readParams struct {
	Repo      string   `json:"repo,omitempty"`
	Paths     []string `json:"paths"`
	Budget    int      `json:"budget"`
	Unit      string   `json:"unit,omitempty"`
	Query     string   `json:"query,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

func (s *Server) handleRead(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p readParams
	if err := unmarshalParams(req, &p); err != nil {
		return createErrorResponse("read", err)
	}
	r, err := s.repos.Resolve(p.Repo)
	if err != nil {
		return createErrorResponse("read", err)
	}
	if p.Unit == "" {
		p.Unit = "tokens"
	}
	sess := s.session(p.SessionID)

	files, summary, err := r.ReadContext(p.Paths, p.Budget, p.Unit, p.Query, sess)
	if err != nil {
		return createErrorResponse("read", err)
	}
	return createJSONResponse(map[string]interface{}{
		"files":   files,
		"summary": summary,
	})
}

type resolveImportsParams struct {
	Repo      string `json:"repo,omitempty"`
	Path      string `json:"path"`
	Direction string `json:"direction,omitempty"`
}

func (s *Server) handleResolveImports(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p resolveImportsParams
	if err := unmarshalParams(req, &p); err != nil {
		return createErrorResponse("resolve_imports", err)
	}
	r, err := s.repos.Resolve(p.Repo)
	if err != nil {
		return createErrorResponse("resolve_imports", err)
	}
	direction := repo.Direction(p.Direction)
	if direction == "" {
		direction = repo.DirectionBoth
	}
	result := r.ResolveImports(p.Path, direction)
	return createJSONResponse(result)
}

func (s *Server) handleRepos(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []map[string]interface{}
	for _, r := range s.repos.All() {
		out = append(out, map[string]interface{}{
			"name":     r.Name,
			"root":     r.Root,
			"files":    len(r.FileRecords()),
			"modules":  len(r.ModuleRecords()),
			"crossRef": len(s.repos.CrossRepoEdges()),
		})
	}
	return createJSONResponse(map[string]interface{}{"repos": out})
}
