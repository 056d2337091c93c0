package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/localcode/lci/internal/lcierrors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestResolveNamedRepoFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	s := NewServer(nil)
	_, err := s.AddRepo("widget", root, nil)
	require.NoError(t, err)

	r, err := s.Resolve("widget")
	require.NoError(t, err)
	require.Equal(t, "widget", r.Name)
}

func TestResolveUnknownRepoFails(t *testing.T) {
	s := NewServer(nil)
	_, err := s.Resolve("missing")
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.UnknownRepo))
}

func TestResolveSoleRepoWithoutName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	s := NewServer(nil)
	_, err := s.AddRepo("widget", root, nil)
	require.NoError(t, err)

	r, err := s.Resolve("")
	require.NoError(t, err)
	require.Equal(t, "widget", r.Name)
}

func TestResolveAmbiguousWithoutDefault(t *testing.T) {
	rootA, rootB := t.TempDir(), t.TempDir()
	writeFile(t, rootA, "a.go", "package a\n")
	writeFile(t, rootB, "b.go", "package b\n")
	s := NewServer(nil)
	_, err := s.AddRepo("a", rootA, nil)
	require.NoError(t, err)
	_, err = s.AddRepo("b", rootB, nil)
	require.NoError(t, err)

	// both exist, no default set explicitly beyond the first add, but
	// removing the default leaves genuine ambiguity
	s.def = ""
	_, err = s.Resolve("")
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.AmbiguousRepo))
}

func TestFindRanksNameAndContentMatches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "widget.go", "package widget\n\nfunc Widget() {\n\tdoWidgetWork()\n}\n")
	writeFile(t, root, "unrelated.go", "package unrelated\n\nfunc Other() {}\n")

	s := NewServer(nil)
	r, err := s.AddRepo("proj", root, nil)
	require.NoError(t, err)

	results, _, err := r.Find(FindOptions{Query: "widget", FileLimit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "widget.go", results[0].Path)
	require.Greater(t, results[0].NameScore, 0.0)
	require.Greater(t, results[0].GrepCount, 0)
}

func TestFindAllModeRequiresEveryTerm(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "both.go", "package both\n\n// alpha beta\nfunc Both() {}\n")
	writeFile(t, root, "onlyalpha.go", "package onlyalpha\n\n// alpha only\nfunc Only() {}\n")

	s := NewServer(nil)
	r, err := s.AddRepo("proj", root, nil)
	require.NoError(t, err)

	results, _, err := r.Find(FindOptions{Query: "alpha beta", Mode: MatchAll, FileLimit: 10})
	require.NoError(t, err)

	var sawBoth, sawOnlyAlpha bool
	for _, res := range results {
		if res.Path == "both.go" && res.GrepCount > 0 {
			sawBoth = true
		}
		if res.Path == "onlyalpha.go" && res.GrepCount > 0 {
			sawOnlyAlpha = true
		}
	}
	require.True(t, sawBoth)
	require.False(t, sawOnlyAlpha)
}

func TestFindRejectsEmptyQuery(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	s := NewServer(nil)
	r, err := s.AddRepo("proj", root, nil)
	require.NoError(t, err)

	_, _, err = r.Find(FindOptions{Query: "   "})
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.InvalidQuery))
}

func TestReadContextRecordsSessionReads(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.go", "package small\n\nfunc Small() {}\n")

	s := NewServer(nil)
	r, err := s.AddRepo("proj", root, nil)
	require.NoError(t, err)

	sess := NewSession()
	_, _, err = r.ReadContext([]string{"small.go"}, 100000, "tokens", "", sess)
	require.NoError(t, err)

	require.True(t, sess.SeenPaths()["small.go"])
	require.Greater(t, sess.TokensServed(), 0)
}

func TestServerTracksCrossRepoEdges(t *testing.T) {
	rootA, rootB := t.TempDir(), t.TempDir()
	writeFile(t, rootA, "cmd/main.go", "package main\n\nimport \"helper.go\"\n\nfunc main() {}\n")
	writeFile(t, rootB, "pkg/helper.go", "package pkg\n\nfunc Helper() {}\n")

	s := NewServer(nil)
	_, err := s.AddRepo("app", rootA, nil)
	require.NoError(t, err)
	_, err = s.AddRepo("lib", rootB, nil)
	require.NoError(t, err)

	edges := s.CrossRepoEdges()
	require.NotEmpty(t, edges)
}

func TestSessionQueryRingBufferBounded(t *testing.T) {
	sess := NewSession()
	for i := 0; i < 75; i++ {
		sess.RecordQuery("query")
	}
	require.Len(t, sess.Queries(), queryHistoryCapacity)
}
