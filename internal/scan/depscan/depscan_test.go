package depscan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoModScannerShortensModuleAndDepsToLastSegment(t *testing.T) {
	content := "module example.com/widget\n\nrequire (\n\tgithub.com/stretchr/testify v1.9.0\n\tgithub.com/foo/bar v0.1.0 // indirect\n)\n"
	module, public, private, ok := GoModScanner{}.Parse("go.mod", content)
	require.True(t, ok)
	require.Equal(t, "widget", module)
	require.Contains(t, public, "testify")
	require.Contains(t, private, "bar")
}

func TestCargoScannerFallsBackToDirNameWhenUnnamed(t *testing.T) {
	content := "[dependencies]\nserde = \"1\"\n"
	module, public, _, ok := CargoScanner{}.Parse("crates/widget/Cargo.toml", content)
	require.True(t, ok)
	require.Equal(t, "widget", module)
	require.Contains(t, public, "serde")
}

func TestNPMScannerFallsBackToDirNameWhenUnnamed(t *testing.T) {
	content := `{"dependencies": {"lodash": "^4"}}`
	module, public, _, ok := NPMScanner{}.Parse("packages/widget/package.json", content)
	require.True(t, ok)
	require.Equal(t, "widget", module)
	require.Contains(t, public, "lodash")
}

func TestNPMScannerUsesDeclaredNameWhenPresent(t *testing.T) {
	content := `{"name": "@scope/widget", "dependencies": {}}`
	module, _, _, ok := NPMScanner{}.Parse("packages/widget/package.json", content)
	require.True(t, ok)
	require.Equal(t, "@scope/widget", module)
}
