package search

import (
	"strings"

	"github.com/localcode/lci/internal/fuzzy"
)

// wellKnownExtensions is the curated suffix list query preprocessing
// strips, so "Foo.rs" matches against the stem "Foo".
var wellKnownExtensions = map[string]bool{
	"go": true, "rs": true, "py": true, "pyi": true, "js": true, "jsx": true,
	"ts": true, "tsx": true, "mjs": true, "cjs": true, "java": true, "c": true,
	"h": true, "cpp": true, "cc": true, "cxx": true, "hpp": true, "hxx": true,
	"cs": true, "rb": true, "php": true, "swift": true, "kt": true, "m": true,
	"mm": true, "sh": true, "md": true, "json": true, "yaml": true, "yml": true,
	"toml": true, "html": true, "css": true, "kdl": true, "ini": true, "xml": true,
}

// Token is one compiled query word.
type Token struct {
	raw           string
	lower         string
	caseSensitive bool
	mask          uint64
}

// CompileQuery splits query on whitespace and compiles each word into a
// Token, stripping a trailing well-known extension first.
func CompileQuery(query string) []Token {
	fields := strings.Fields(query)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, compileToken(f))
	}
	return tokens
}

func compileToken(word string) Token {
	if i := strings.LastIndexByte(word, '.'); i > 0 {
		ext := strings.ToLower(word[i+1:])
		if wellKnownExtensions[ext] {
			word = word[:i]
		}
	}
	lower := strings.ToLower(word)
	return Token{
		raw:           word,
		lower:         lower,
		caseSensitive: fuzzy.IsCaseSensitive(word),
		mask:          fuzzy.Mask(lower),
	}
}

// matchText runs the token against a field, given both the field's
// original-case and lower-cased text and its precomputed mask.
func (t Token) matchText(original, lower string, mask uint64) (score float64, indices []int, ok bool) {
	if !fuzzy.PassesMask(t.mask, mask) {
		return 0, nil, false
	}
	if t.caseSensitive {
		return fuzzy.Match(original, t.raw, true)
	}
	return fuzzy.Match(lower, t.lower, false)
}
