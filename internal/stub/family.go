// Package stub implements the structural stub extractor: a
// language-classified reduction of source text to its declarations, plus
// the finer-grained block decomposition the budget allocator prunes.
//
// AST/tree-sitter parsing is out of scope here in favor of a
// line-classification algorithm, not an AST walk, so this package is
// plain-text classification, grounded on a parser package's file-family
// shape rather than grammar-level parsing.
package stub

import "strings"

// Family is the extension-derived file family that determines reduction
// rules.
type Family int

const (
	FamilyBrace Family = iota
	FamilyIndent
	FamilyINI
	FamilyJSON
	FamilyYAML
	FamilyTOML
	FamilyXML
	FamilyUnknown
)

var braceExtensions = map[string]bool{
	"c": true, "h": true, "cc": true, "cpp": true, "cxx": true,
	"hpp": true, "hxx": true, "rs": true, "go": true,
	"js": true, "jsx": true, "mjs": true, "cjs": true,
	"ts": true, "tsx": true, "mts": true, "cts": true,
	"java": true, "cs": true, "kt": true, "scala": true,
	"glsl": true, "hlsl": true, "frag": true, "vert": true, "shader": true,
	"ps1": true, "psm1": true, "psd1": true,
	"swift": true, "dart": true, "groovy": true, "m": true, "mm": true,
}

var indentExtensions = map[string]bool{
	"py": true, "pyi": true, "rb": true,
}

var iniExtensions = map[string]bool{
	"ini": true, "cfg": true, "conf": true, "properties": true,
}

// ClassifyFamily maps a lower-cased, leading-dot-stripped extension to its
// reduction family.
func ClassifyFamily(ext string) Family {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch {
	case braceExtensions[ext]:
		return FamilyBrace
	case indentExtensions[ext]:
		return FamilyIndent
	case iniExtensions[ext]:
		return FamilyINI
	case ext == "json":
		return FamilyJSON
	case ext == "yaml" || ext == "yml":
		return FamilyYAML
	case ext == "toml":
		return FamilyTOML
	case ext == "xml":
		return FamilyXML
	default:
		return FamilyUnknown
	}
}
