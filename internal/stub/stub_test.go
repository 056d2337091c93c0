package stub

import (
	"strings"
	"testing"

	"github.com/localcode/lci/internal/token"
	"github.com/stretchr/testify/require"
)

func TestExtractBraceCollapsesFunctionBody(t *testing.T) {
	src := `#include "foo.h"

class Widget {
public:
	void Render() {
		doWork();
		doMore();
	}
};
`
	got := Extract("h", src)
	require.Contains(t, got, `#include "foo.h"`)
	require.Contains(t, got, "class Widget {")
	require.Contains(t, got, "void Render() { /* ... */ }")
	require.NotContains(t, got, "doWork")
}

func TestExtractBraceCollapsesBlankRuns(t *testing.T) {
	src := "a\n\n\n\n\nb\n"
	got := Extract("go", src)
	require.Equal(t, "a\n\n\nb\n", got)
}

func TestExtractIndentCollapsesFunctionBody(t *testing.T) {
	src := `import os

def run():
    x = 1
    return x

class Thing:
    def method(self):
        return 1
`
	got := Extract("py", src)
	require.Contains(t, got, "import os")
	require.Contains(t, got, "def run():")
	require.Contains(t, got, "...")
	require.NotContains(t, got, "return x")
	require.Contains(t, got, "class Thing:")
	require.Contains(t, got, "def method(self):")
}

func TestExtractINIKeepsAtMostFiveEntries(t *testing.T) {
	src := "[section]\n" + strings.Repeat("k=v\n", 8)
	got := Extract("ini", src)
	require.Equal(t, 5, strings.Count(got, "k=v"))
	require.Contains(t, got, "...")
}

func TestExtractJSONKeepsKeysToDepthTwo(t *testing.T) {
	src := `{
  "name": "widget",
  "config": {
    "retries": 3,
    "nested": {
      "deep": "value"
    }
  },
  "tags": ["a", "b", "c"]
}`
	got := Extract("json", src)
	require.Contains(t, got, `"name": "widget"`)
	require.Contains(t, got, `"config": {`)
	require.Contains(t, got, `"retries": 3`)
	require.Contains(t, got, `"nested": {...}`)
	require.NotContains(t, got, `"deep"`)
	require.Contains(t, got, `"tags": [...3 items]`)
}

func TestExtractJSONTopLevelArrayIsSummarized(t *testing.T) {
	got := Extract("json", `[{"a": 1}, {"b": 2}]`)
	require.Equal(t, "[...2 items]", got)
}

func TestExtractJSONFallsBackOnParseError(t *testing.T) {
	src := "{not valid json,\n" + strings.Repeat("garbage line\n", 150)
	got := Extract("json", src)
	require.Contains(t, got, "more lines truncated")
}

func TestParseBlocksNonBraceIsSingleMisc(t *testing.T) {
	counter := token.NewByteEstimator()
	blocks := ParseBlocks("import os\ndef run():\n    ...\n", FamilyIndent, counter)
	require.Len(t, blocks, 1)
	require.Equal(t, BlockMisc, blocks[0].Kind)
}

func TestParseBlocksBraceDecomposesFunctionAndClass(t *testing.T) {
	counter := token.NewByteEstimator()
	tier1 := `#include "a.h"

class Widget {
	void Render() { /* ... */ }
};

void freeFn() { /* ... */ }
`
	blocks := ParseBlocks(tier1, FamilyBrace, counter)
	var kinds []BlockKind
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	require.Contains(t, kinds, BlockIncludeGroup)
	require.Contains(t, kinds, BlockClassDecl)
	require.Contains(t, kinds, BlockFunctionSig)
}
