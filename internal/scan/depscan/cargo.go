package depscan

import (
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// CargoScanner mines Cargo.toml: [dependencies] are public, everything
// under [dev-dependencies] and [build-dependencies] is private.
type CargoScanner struct{}

func (CargoScanner) Handles(relPath string) bool {
	return filepath.Base(relPath) == "Cargo.toml"
}

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func (CargoScanner) Parse(relPath, content string) (string, []string, []string, bool) {
	var m cargoManifest
	if err := toml.Unmarshal([]byte(content), &m); err != nil {
		return "", nil, nil, false
	}

	name := m.Package.Name
	if name == "" {
		name = manifestDirName(relPath)
	}

	public := keysOf(m.Dependencies)
	private := append(keysOf(m.DevDependencies), keysOf(m.BuildDependencies)...)
	return name, public, private, true
}

func keysOf(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
