package budget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/localcode/lci/internal/config"
	"github.com/localcode/lci/internal/token"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func baseInput(t *testing.T, root string, paths []string, budget int) Input {
	return Input{
		Root:    root,
		Paths:   paths,
		Budget:  budget,
		Unit:    "tokens",
		Cache:   NewStubCache(),
		Counter: token.NewByteEstimator(),
		Config:  config.Default(root),
	}
}

func TestAllocateTrivialFitReturnsFullTier1(t *testing.T) {
	root := t.TempDir()
	writeTemp(t, root, "small.go", "package main\n\nfunc main() {}\n")

	in := baseInput(t, root, []string{"small.go"}, 100000)
	results, summary, err := Allocate(in)
	require.NoError(t, err)
	require.Equal(t, Tier1, results["small.go"].Tier)
	require.Equal(t, 1, summary.FileCount)
}

func TestAllocateRejectsPathTraversal(t *testing.T) {
	root := t.TempDir()
	in := baseInput(t, root, []string{"../escape.go"}, 1000)
	results, _, err := Allocate(in)
	require.NoError(t, err)
	require.Equal(t, TierError, results["../escape.go"].Tier)
}

func TestAllocateMissingFileIsReadError(t *testing.T) {
	root := t.TempDir()
	in := baseInput(t, root, []string{"missing.go"}, 1000)
	results, _, err := Allocate(in)
	require.NoError(t, err)
	r, ok := results["missing.go"]
	require.True(t, ok)
	require.Equal(t, TierError, r.Tier)
}

func TestAllocateTightBudgetDemotesToTier4(t *testing.T) {
	root := t.TempDir()
	big := "package widget\n\n"
	for i := 0; i < 200; i++ {
		big += "func Helper() {\n\tdoWork()\n}\n\n"
	}
	writeTemp(t, root, "widget.go", big)

	in := baseInput(t, root, []string{"widget.go"}, 5)
	results, _, err := Allocate(in)
	require.NoError(t, err)
	require.Equal(t, Tier4, results["widget.go"].Tier)
}

func TestAllocateOrdersByDescendingImportance(t *testing.T) {
	root := t.TempDir()
	writeTemp(t, root, "alpha_module.go", "package alpha\n\nfunc Alpha() {}\n")
	writeTemp(t, root, "zzz.go", "package zzz\n\nfunc Zzz() {}\n")

	in := baseInput(t, root, []string{"alpha_module.go", "zzz.go"}, 100000)
	in.Query = "alpha"
	results, _, err := Allocate(in)
	require.NoError(t, err)
	require.Less(t, results["alpha_module.go"].Order, results["zzz.go"].Order)
}

func TestAllocateBlockPrunesWhenBudgetBetweenManifestAndTier1(t *testing.T) {
	root := t.TempDir()
	src := `package widget

func First() {
	doWork()
}

func Second() {
	doMore()
}
`
	writeTemp(t, root, "widget.go", src)

	in := baseInput(t, root, []string{"widget.go"}, 20)
	in.Query = "first"
	results, _, err := Allocate(in)
	require.NoError(t, err)
	require.Equal(t, Tier2, results["widget.go"].Tier)
}
