// Package mcpserver exposes the core's operations (search, find, read,
// resolve_imports) as MCP tools over a stdio transport.
//
// Grounded on an MCP tool-registration shape built from mcp.NewServer
// plus server.AddTool(&mcp.Tool{...}, handler) calls, a single
// createJSONResponse helper for marshaling tool results, and Start
// running the server over &mcp.StdioTransport{}; each tool takes a flat
// JSON params object rather than one tool dispatching on a mode field.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/localcode/lci/internal/repo"
)

// Server wires a repo.Server behind a set of MCP tools, tracking one
// Session per caller-supplied session id (an empty id shares one
// default session, matching a single-client stdio caller).
type Server struct {
	repos    *repo.Server
	mcp      *mcp.Server
	sessions map[string]*repo.Session
}

// NewServer builds the MCP tool surface over repos.
func NewServer(repos *repo.Server) *Server {
	s := &Server{
		repos:    repos,
		sessions: map[string]*repo.Session{},
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "lci-mcp-server",
			Version: "0.1.0",
		}, nil),
	}
	s.registerTools()
	return s
}

// Start runs the server over stdio until ctx is cancelled or the
// transport closes.
func (s *Server) Start(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) session(id string) *repo.Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = repo.NewSession()
		s.sessions[id] = sess
	}
	return sess
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Rank indexed files and modules by filename/path fuzzy match against query.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"repo":         {Type: "string", Description: "repo name, omit if only one repo or a default is set"},
				"query":        {Type: "string", Description: "search query"},
				"file_limit":   {Type: "integer", Description: "max file results (default 20)"},
				"module_limit": {Type: "integer", Description: "max module results (default 10)"},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "find",
		Description: "Unified name+content search: blends filename match score with per-file grep relevance.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"repo":       {Type: "string", Description: "repo name, omit if only one repo or a default is set"},
				"query":      {Type: "string", Description: "search query, space-separated terms"},
				"mode":       {Type: "string", Description: "match mode: all, any, exact, regex (default any)"},
				"file_limit": {Type: "integer", Description: "max results (default 20)"},
				"session_id": {Type: "string", Description: "opaque session id whose query history records this query"},
			},
			Required: []string{"query"},
		},
	}, s.handleFind)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "read",
		Description: "Allocate a token/char budget across the given paths, returning tiered content for each.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"repo":       {Type: "string", Description: "repo name, omit if only one repo or a default is set"},
				"paths":      {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "relative file paths to read"},
				"budget":     {Type: "integer", Description: "total budget to allocate"},
				"unit":       {Type: "string", Description: "tokens or chars (default tokens)"},
				"query":      {Type: "string", Description: "optional query biasing importance scoring"},
				"session_id": {Type: "string", Description: "opaque session id to record reads against"},
			},
			Required: []string{"paths", "budget"},
		},
	}, s.handleRead)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "resolve_imports",
		Description: "Look up a file's import-graph neighbors.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"repo":      {Type: "string", Description: "repo name, omit if only one repo or a default is set"},
				"path":      {Type: "string", Description: "relative file path"},
				"direction": {Type: "string", Description: "imports, imported_by, or both (default both)"},
			},
			Required: []string{"path"},
		},
	}, s.handleResolveImports)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "repos",
		Description: "List indexed repos and their file/module counts.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleRepos)
}

func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	resp, marshalErr := createJSONResponse(map[string]interface{}{
		"success":   false,
		"operation": operation,
		"error":     err.Error(),
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	resp.IsError = true
	return resp, nil
}

func unmarshalParams(req *mcp.CallToolRequest, dst interface{}) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, dst)
}
