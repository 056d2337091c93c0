package scan

import (
	"path/filepath"
	"strings"
	"unicode"
)

var extHints = map[string]string{
	"h": "header", "hpp": "header", "hxx": "header",
	"c": "impl", "cpp": "impl", "cc": "impl", "cxx": "impl",
	"rs": "impl", "go": "impl", "java": "impl", "cs": "impl",
	"py": "impl", "rb": "impl", "js": "impl", "ts": "impl", "tsx": "impl", "jsx": "impl",
	"json": "config", "yaml": "config", "yml": "config", "toml": "config",
	"ini": "config", "cfg": "config", "conf": "config", "kdl": "config", "xml": "config",
	"md": "doc", "txt": "doc", "rst": "doc",
}

// Describe derives a short human-readable description from a file's
// relative path alone: a pure function of the path, no I/O required.
func Describe(relPath string) string {
	base := filepath.Base(relPath)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	words := splitWords(stem)
	desc := strings.Join(words, " ")
	if desc == "" {
		desc = base
	}
	if hint, ok := extHints[ext]; ok {
		desc = desc + " " + hint
	}
	return desc
}

// splitWords splits a stem into words on CamelCase, '_', and '-'
// boundaries.
func splitWords(stem string) []string {
	runes := []rune(stem)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur = append(cur, r)
		case unicode.IsUpper(r) && i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()

	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

// CategoryPath derives the breadcrumb trail for relPath: drop the
// filename, strip a configured scan-dir prefix, drop noise segments,
// cap to five leading parts, collapse empty to "Other".
func CategoryPath(relPath string, scanDirs []string, noiseDirs []string) string {
	dir := filepath.Dir(filepath.ToSlash(relPath))
	if dir == "." {
		dir = ""
	}
	var segments []string
	if dir != "" {
		segments = strings.Split(dir, "/")
	}

	segments = stripScanDirPrefix(segments, scanDirs)

	noise := make(map[string]bool, len(noiseDirs))
	for _, n := range noiseDirs {
		noise[n] = true
	}
	filtered := segments[:0:0]
	for _, s := range segments {
		if !noise[s] {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) > 5 {
		filtered = filtered[:5]
	}
	if len(filtered) == 0 {
		return "Other"
	}
	return strings.Join(filtered, " > ")
}

func stripScanDirPrefix(segments []string, scanDirs []string) []string {
	if len(scanDirs) == 0 || len(segments) == 0 {
		return segments
	}
	for _, sd := range scanDirs {
		sdParts := strings.Split(strings.Trim(filepath.ToSlash(sd), "/"), "/")
		if len(sdParts) == 0 || len(sdParts) > len(segments) {
			continue
		}
		match := true
		for i, p := range sdParts {
			if segments[i] != p {
				match = false
				break
			}
		}
		if match {
			return segments[len(sdParts):]
		}
	}
	return segments
}
