package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/lcierrors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanInvalidRootReturnsInvalidScanRoot(t *testing.T) {
	cfg := config.Default("/does/not/exist")
	_, err := Scan("/does/not/exist/at/all", cfg)
	require.Error(t, err)
	require.True(t, lcierrors.IsKind(err, lcierrors.InvalidScanRoot))
}

func TestScanBuildsManifestAndAllFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/widget.go", "package src\n\nfunc DoWork() {}\n")
	writeFile(t, root, "docs/readme.md", "# Title\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}\n")

	cfg := config.Default(root)
	res, err := Scan(root, cfg)
	require.NoError(t, err)

	var paths []string
	for _, f := range res.AllFiles {
		paths = append(paths, f.RelPath)
	}
	require.Contains(t, paths, "src/widget.go")
	require.Contains(t, paths, "docs/readme.md")
	require.NotContains(t, paths, "node_modules/dep/index.js")
	require.NotEmpty(t, res.Manifest)
}

func TestScanBuildsImportGraphForGo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/helper.go", "package pkg\n\nfunc Helper() {}\n")
	writeFile(t, root, "cmd/main.go", `package main

import "helper.go"

func main() {}
`)

	cfg := config.Default(root)
	res, err := Scan(root, cfg)
	require.NoError(t, err)
	require.Contains(t, res.Graph.Imports["cmd/main.go"], "pkg/helper.go")
	require.Contains(t, res.Graph.ImportedBy["pkg/helper.go"], "cmd/main.go")
}

func TestScanMinesGoModDependency(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/widget\n\nrequire (\n\tgithub.com/stretchr/testify v1.9.0\n\tgithub.com/foo/bar v0.1.0 // indirect\n)\n")

	cfg := config.Default(root)
	res, err := Scan(root, cfg)
	require.NoError(t, err)

	dep, ok := res.Deps["widget"]
	require.True(t, ok)
	require.Contains(t, dep.Public, "testify")
	require.Contains(t, dep.Private, "bar")
}

func TestScanSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bin/app", "\x00\x01\x02binarygarbage")
	writeFile(t, root, "main.go", "package main\n")

	cfg := config.Default(root)
	res, err := Scan(root, cfg)
	require.NoError(t, err)

	var paths []string
	for _, f := range res.AllFiles {
		paths = append(paths, f.RelPath)
	}
	require.Contains(t, paths, "main.go")
	require.NotContains(t, paths, "bin/app")
}

func TestResolveCrossRepoMatchesUniqueStem(t *testing.T) {
	repoA := &Result{
		Graph:      NewGraph(),
		Unresolved: map[string][]string{"main.rs": {"shared_utils"}},
	}
	repoB := &Result{
		Graph:     NewGraph(),
		stemIndex: map[string][]string{"shared_utils": {"src/shared_utils.rs"}},
	}
	repoA.filenameIdx = map[string][]string{}
	repoA.stemIndex = map[string][]string{}
	repoB.filenameIdx = map[string][]string{}
	repoB.Unresolved = map[string][]string{}

	edges := ResolveCrossRepo(map[string]*Result{"a": repoA, "b": repoB})
	require.Len(t, edges, 1)
	require.Equal(t, CrossRepoEdge{FromRepo: "a", FromFile: "main.rs", ToRepo: "b", ToFile: "src/shared_utils.rs"}, edges[0])
}

func TestIDFLaplaceSmoothing(t *testing.T) {
	require.InDelta(t, 1.0, idf(100, 100), 0.01)
	require.Greater(t, idf(100, 1), idf(100, 50))
}
