// Package depscan mines dependency-manifest files (Cargo.toml,
// package.json, go.mod) into dependency entries.
//
// Grounded on a line-based go.mod module/require parsing style; the
// Cargo and npm scanners are new code that decode their manifests with
// go-toml and encoding/json rather than scanning lines.
package depscan

import "path/filepath"

// manifestDirName returns the containing directory's base name, the
// fallback module name a manifest with no declared name resolves to
// (e.g. a Cargo.toml/package.json with an empty "name" field).
func manifestDirName(relPath string) string {
	return filepath.Base(filepath.Dir(relPath))
}

// Scanner mines one dependency-manifest family into a DepEntry's fields.
type Scanner interface {
	// Handles reports whether relPath names a manifest this scanner parses.
	Handles(relPath string) bool
	// Parse extracts the module name plus its public (runtime) and
	// private (dev/build-only) dependency lists. The Cargo and npm
	// scanners fall back to relPath's containing directory name when the
	// manifest declares no name of its own; the go.mod scanner reports
	// ok=false when there is no module directive. ok is also false when
	// content cannot be parsed as this manifest family at all.
	Parse(relPath, content string) (module string, public, private []string, ok bool)
}

// Registry returns the dependency-manifest scanners used by Scan, in
// the order they are tried.
func Registry() []Scanner {
	return []Scanner{
		GoModScanner{},
		CargoScanner{},
		NPMScanner{},
	}
}
