// Package search implements the in-memory search index and ranked query
// engine: pre-lowercased, pre-masked file and module records scored in
// parallel against a tokenized query.
//
// Grounded on the parallel-map-then-filter shape and field-weighting
// style of a symbol/trigram search index, adapted to a
// filename/path/description + name/id field model.
package search

import (
	"strings"

	"github.com/localcode/lci/internal/fuzzy"
)

// FileRecord is one indexed file, pre-lowercased and pre-masked so a
// query only needs to mask-test and, on a pass, run the matcher.
type FileRecord struct {
	Path        string // original-case relative path
	Description string

	filename string // original-case stem+ext
	stem     string // original-case, no extension

	lowerFilename string
	lowerStem     string
	lowerPath     string
	lowerDesc     string

	filenameMask uint64
	pathMask     uint64
	descMask     uint64
}

// NewFileRecord builds a FileRecord from a relative path and description.
func NewFileRecord(path, description string) FileRecord {
	filename := basename(path)
	ext := extOf(filename)
	stem := strings.TrimSuffix(filename, ext)

	lowerFilename := strings.ToLower(filename)
	lowerPath := strings.ToLower(path)
	lowerDesc := strings.ToLower(description)

	return FileRecord{
		Path:          path,
		Description:   description,
		filename:      filename,
		stem:          stem,
		lowerFilename: lowerFilename,
		lowerStem:     strings.ToLower(stem),
		lowerPath:     lowerPath,
		lowerDesc:     lowerDesc,
		filenameMask:  fuzzy.Mask(lowerFilename),
		pathMask:      fuzzy.Mask(lowerPath),
		descMask:      fuzzy.Mask(lowerDesc),
	}
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func extOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[i:]
	}
	return ""
}

// ModuleRecord is one indexed module (dependency or logical package).
type ModuleRecord struct {
	Name      string
	ID        string
	FileCount int

	lowerName string
	lowerID   string
	nameMask  uint64
	idMask    uint64
}

// NewModuleRecord builds a ModuleRecord from its name, id, and file count.
func NewModuleRecord(name, id string, fileCount int) ModuleRecord {
	lowerName := strings.ToLower(name)
	lowerID := strings.ToLower(id)
	return ModuleRecord{
		Name:      name,
		ID:        id,
		FileCount: fileCount,
		lowerName: lowerName,
		lowerID:   lowerID,
		nameMask:  fuzzy.Mask(lowerName),
		idMask:    fuzzy.Mask(lowerID),
	}
}
