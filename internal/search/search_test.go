package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileQueryStripsWellKnownExtension(t *testing.T) {
	tokens := CompileQuery("Foo.rs bar")
	require.Len(t, tokens, 2)
	require.Equal(t, "foo", tokens[0].lower)
	require.Equal(t, "bar", tokens[1].lower)
}

func TestCompileQueryKeepsUnknownExtension(t *testing.T) {
	tokens := CompileQuery("weird.xyz")
	require.Equal(t, "weird.xyz", tokens[0].lower)
}

func TestScoreFileExactFilenameFastPath(t *testing.T) {
	rec := NewFileRecord("src/widget.go", "widget impl")
	tokens := CompileQuery("widget")
	m, ok := scoreFile(tokens, rec)
	require.True(t, ok)
	require.Equal(t, exactFilenameScore, m.Score)
}

func TestScoreFileStemPrefixFastPath(t *testing.T) {
	rec := NewFileRecord("src/widgetfactory.go", "widget factory impl")
	tokens := CompileQuery("widg")
	m, ok := scoreFile(tokens, rec)
	require.True(t, ok)
	require.Greater(t, m.Score, stemPrefixBase)
	require.Less(t, m.Score, exactFilenameScore)
}

func TestScoreFileFallsBackToPathThenDescription(t *testing.T) {
	rec := NewFileRecord("internal/alpha/beta.go", "gizmo helper")
	tokens := CompileQuery("gizmo")
	m, ok := scoreFile(tokens, rec)
	require.True(t, ok)
	require.Greater(t, m.Score, 0.0)
}

func TestScoreFileDropsOnUnmatchedToken(t *testing.T) {
	rec := NewFileRecord("src/widget.go", "widget impl")
	tokens := CompileQuery("widget zzzznotfound")
	_, ok := scoreFile(tokens, rec)
	require.False(t, ok)
}

func TestScoreModulePrefersMoreFiles(t *testing.T) {
	small := NewModuleRecord("widget", "widget", 1)
	large := NewModuleRecord("widget", "widget", 50)
	tokens := CompileQuery("widget")

	sm, ok := scoreModule(tokens, small)
	require.True(t, ok)
	lm, ok := scoreModule(tokens, large)
	require.True(t, ok)
	require.Greater(t, lm.Score, sm.Score)
}

func TestSearchRanksAndTruncates(t *testing.T) {
	files := []FileRecord{
		NewFileRecord("src/widget.go", "widget impl"),
		NewFileRecord("src/widgetfactory.go", "widget factory"),
		NewFileRecord("docs/unrelated.md", "totally unrelated doc"),
	}
	modules := []ModuleRecord{
		NewModuleRecord("widget", "widget", 3),
	}

	res, err := Search("widget", files, modules, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, "src/widget.go", res.Files[0].Record.Path)
	require.Len(t, res.Modules, 1)
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	res, err := Search("", []FileRecord{NewFileRecord("a.go", "a")}, nil, 10, 10)
	require.NoError(t, err)
	require.Empty(t, res.Files)
}
