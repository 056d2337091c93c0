// Package pathutil converts between absolute and relative paths and
// validates caller-supplied relative paths against a repo root.
//
// Lci uses absolute paths internally for consistency and exposes relative
// paths at its boundaries. This package is the conversion and validation
// layer between the two.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/localcode/lci/internal/lcierrors"
)

// ToRelative converts an absolute path to relative based on a root
// directory. Falls back to the original path if conversion fails or the
// path is already relative.
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}
	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// Validate checks a caller-supplied relative path against root and
// returns the resolved absolute path. Empty paths, absolute paths, and
// any path that escapes root are rejected.
func Validate(root, relative string) (string, error) {
	const op = "pathutil.Validate"
	if relative == "" {
		return "", lcierrors.New(lcierrors.InvalidPath, op).WithPath(relative)
	}
	if filepath.IsAbs(relative) {
		return "", lcierrors.New(lcierrors.InvalidPath, op).WithPath(relative)
	}
	cleanedRoot := filepath.Clean(root)
	candidate := filepath.Join(cleanedRoot, relative)
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(cleanedRoot, candidate)
	if err != nil {
		return "", lcierrors.New(lcierrors.InvalidPath, op).WithPath(relative).WithCause(err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", lcierrors.New(lcierrors.PathTraversal, op).WithPath(relative)
	}
	return candidate, nil
}
