// Package config loads per-repo scan and budget configuration: a KDL-backed
// loading shape (Config struct + LoadKDL/parseKDL + defaults) overlaying
// scan-dir, skip-dir, extension, and noise-dir settings on top of sane
// built-in defaults.
package config

import (
	"path/filepath"
)

// Config is the per-repo scan and budget configuration.
type Config struct {
	Project Project
	Scan    Scan
	Budget  Budget
}

type Project struct {
	Root string
	Name string
}

// Scan holds the scan scope: root (via Project), scan_dirs, skip_dirs,
// extensions, noise_dirs.
type Scan struct {
	ScanDirs   []string // empty means scan root
	SkipDirs   []string
	Extensions []string // empty means all text files
	NoiseDirs  []string
}

// Budget holds defaults for allocate_budget callers that don't specify one.
type Budget struct {
	DefaultTokens int
	Unit          string // "tokens" or "chars"
}

func defaultSkipDirs() []string {
	return []string{".git", "node_modules", "__pycache__", "target", "dist", "build", ".next", "vendor"}
}

func defaultNoiseDirs() []string {
	return []string{"Private", "Public", "Internal", "Source", "Src", "Include", "src", "lib"}
}

// Default returns the configuration to apply with no KDL file present:
// scan the whole root, default skip/noise sets, no extension allow-list.
func Default(root string) *Config {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Config{
		Project: Project{Root: abs},
		Scan: Scan{
			ScanDirs:   nil,
			SkipDirs:   defaultSkipDirs(),
			Extensions: nil,
			NoiseDirs:  defaultNoiseDirs(),
		},
		Budget: Budget{
			DefaultTokens: 8000,
			Unit:          "tokens",
		},
	}
}
