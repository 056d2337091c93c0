package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/localcode/lci/internal/repo"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "widget.go", "package widget\n\nfunc Widget() {\n\tdoWidgetWork()\n}\n")

	repos := repo.NewServer(nil)
	_, err := repos.AddRepo("proj", root, nil)
	require.NoError(t, err)
	return NewServer(repos)
}

func callTool(t *testing.T, handler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), params interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)

	result, err := handler(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

func TestHandleSearchReturnsFileMatch(t *testing.T) {
	s := newTestServer(t)
	out := callTool(t, s.handleSearch, searchParams{Query: "widget"})
	require.NotNil(t, out["files"])
}

func TestHandleFindBlendsNameAndGrep(t *testing.T) {
	s := newTestServer(t)
	out := callTool(t, s.handleFind, findParams{Query: "widget"})
	files, ok := out["files"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, files)
}

func TestHandleReadAllocatesBudget(t *testing.T) {
	s := newTestServer(t)
	out := callTool(t, s.handleRead, readParams{Paths: []string{"widget.go"}, Budget: 100000})
	require.NotNil(t, out["summary"])
}

func TestHandleResolveImportsUnknownPath(t *testing.T) {
	s := newTestServer(t)
	out := callTool(t, s.handleResolveImports, resolveImportsParams{Path: "nonexistent.go"})
	require.Contains(t, out, "Imports")
}

func TestHandleReposLists(t *testing.T) {
	s := newTestServer(t)
	out := callTool(t, s.handleRepos, struct{}{})
	reposList, ok := out["repos"].([]interface{})
	require.True(t, ok)
	require.Len(t, reposList, 1)
}

func TestUnknownRepoReturnsErrorResult(t *testing.T) {
	s := newTestServer(t)
	raw, err := json.Marshal(searchParams{Repo: "nonexistent", Query: "widget"})
	require.NoError(t, err)
	result, err := s.handleSearch(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
}
