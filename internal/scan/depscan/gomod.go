package depscan

import (
	"path/filepath"
	"strings"
)

// GoModScanner mines go.mod: the module directive becomes the module
// name, direct (non-// indirect) requires are public, indirect requires
// are private.
type GoModScanner struct{}

func (GoModScanner) Handles(relPath string) bool {
	return filepath.Base(relPath) == "go.mod"
}

func (GoModScanner) Parse(_, content string) (string, []string, []string, bool) {
	var module string
	var public, private []string
	inRequireBlock := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "module "):
			module = shortenModulePath(strings.TrimSpace(strings.TrimPrefix(line, "module")))
		case strings.HasPrefix(line, "require ("):
			inRequireBlock = true
		case inRequireBlock && line == ")":
			inRequireBlock = false
		case inRequireBlock:
			addRequireLine(line, &public, &private)
		case strings.HasPrefix(line, "require "):
			addRequireLine(strings.TrimPrefix(line, "require "), &public, &private)
		}
	}

	if module == "" {
		return "", nil, nil, false
	}
	return module, public, private, true
}

func addRequireLine(line string, public, private *[]string) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return
	}
	path := shortenModulePath(fields[0])
	if strings.Contains(line, "// indirect") {
		*private = append(*private, path)
	} else {
		*public = append(*public, path)
	}
}

// shortenModulePath reduces a full module/import path to its last
// '/'-segment, e.g. "github.com/stretchr/testify" -> "testify".
func shortenModulePath(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
