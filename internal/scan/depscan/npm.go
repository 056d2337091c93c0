package depscan

import (
	"encoding/json"
	"path/filepath"
)

// NPMScanner mines package.json: "dependencies" are public,
// "devDependencies" and "peerDependencies" are private.
type NPMScanner struct{}

func (NPMScanner) Handles(relPath string) bool {
	return filepath.Base(relPath) == "package.json"
}

type npmManifest struct {
	Name             string            `json:"name"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func (NPMScanner) Parse(relPath, content string) (string, []string, []string, bool) {
	var m npmManifest
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return "", nil, nil, false
	}

	name := m.Name
	if name == "" {
		name = manifestDirName(relPath)
	}

	public := keysOfString(m.Dependencies)
	private := append(keysOfString(m.DevDependencies), keysOfString(m.PeerDependencies)...)
	return name, public, private, true
}

func keysOfString(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
