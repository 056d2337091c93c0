package stub

import (
	"fmt"
	"strings"

	"github.com/localcode/lci/internal/token"
)

// BlockKind classifies a block of tier-1 stub text for the budget
// allocator's block-pruning phase.
type BlockKind int

const (
	BlockIncludeGroup BlockKind = iota
	BlockAnnotated
	BlockClassDecl
	BlockFunctionSig
	BlockMacroDecl
	BlockMisc
)

// Block is one unit of the finer-grained decomposition the allocator
// selects from when tier-1 doesn't fit a file's budget.
type Block struct {
	Kind          BlockKind
	Identifier    string // lower-cased, empty if n/a
	FullText      string
	SummaryText   string
	FullTokens    int
	SummaryTokens int
}

// ParseBlocks decomposes tier-1 stub text into an ordered block sequence.
// Non-brace-based families collapse to a single Misc block equal to the
// whole tier-1 text.
func ParseBlocks(tier1 string, family Family, counter token.Counter) []Block {
	if family != FamilyBrace {
		return []Block{miscBlock(tier1, counter)}
	}

	lines := splitLines(tier1)
	var blocks []Block

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			i++
			continue
		}

		if isPreprocessorOrImport(trimmed) {
			start := i
			for i < len(lines) && isPreprocessorOrImport(strings.TrimSpace(lines[i])) {
				i++
			}
			blocks = append(blocks, includeGroupBlock(lines[start:i], counter))
			continue
		}

		if isAnnotationOrAttribute(trimmed) && !strings.Contains(line, "{") {
			start := i
			for i < len(lines) && isAnnotationOrAttribute(strings.TrimSpace(lines[i])) {
				i++
			}
			// An annotation run immediately followed by a declaration line
			// (class or collapsed function) is folded into that block instead.
			if i < len(lines) && (strings.Contains(lines[i], "{") || isMacroCallStyle(strings.TrimSpace(lines[i]))) {
				// fall through: re-scan from start together with the decl line
				declEnd := i
				if strings.Contains(lines[i], "{") {
					declEnd = i + 1
				} else {
					declEnd = i + 1
				}
				blocks = append(blocks, annotatedBlock(lines[start:declEnd], counter))
				i = declEnd
				continue
			}
			blocks = append(blocks, annotatedBlock(lines[start:i], counter))
			continue
		}

		if isMacroCallStyle(trimmed) {
			blocks = append(blocks, macroBlock(line, counter))
			i++
			continue
		}

		if strings.Contains(line, "{") && isStructuralOpening(lines, i) {
			end := matchingBraceLine(lines, i)
			blocks = append(blocks, classDeclBlock(lines[i:end+1], counter))
			i = end + 1
			continue
		}

		if strings.Contains(line, "{ /* ... */ }") {
			blocks = append(blocks, functionSigBlock(line, counter))
			i++
			continue
		}

		// Misc: comments, stray lines, closing braces left over.
		start := i
		for i < len(lines) {
			t := strings.TrimSpace(lines[i])
			if t == "" || isPreprocessorOrImport(t) || isMacroCallStyle(t) ||
				(strings.Contains(lines[i], "{") && isStructuralOpening(lines, i)) ||
				strings.Contains(lines[i], "{ /* ... */ }") {
				break
			}
			i++
		}
		if i > start {
			blocks = append(blocks, miscLinesBlock(lines[start:i], counter))
		} else {
			i++
		}
	}

	return blocks
}

func matchingBraceLine(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if depth == 0 && i > start {
			return i
		}
		if depth == 0 && i == start && strings.Contains(lines[i], "}") {
			return i
		}
	}
	return len(lines) - 1
}

func identifierFromHeader(header string) string {
	fields := strings.Fields(strings.TrimSpace(header))
	for idx, f := range fields {
		lf := strings.ToLower(f)
		for _, kw := range structuralKeywords {
			if lf == kw && idx+1 < len(fields) {
				name := fields[idx+1]
				name = strings.TrimRight(name, "{:,")
				return strings.ToLower(name)
			}
		}
	}
	return ""
}

func countNonBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}

func classDeclBlock(lines []string, counter token.Counter) Block {
	full := strings.Join(lines, "\n")
	header := strings.TrimSpace(lines[0])
	braceIdx := strings.IndexByte(lines[0], '{')
	headerText := lines[0]
	if braceIdx >= 0 {
		headerText = strings.TrimRight(lines[0][:braceIdx], " \t") + " {"
	}
	members := countNonBlank(lines) - 2
	if members < 0 {
		members = 0
	}
	summary := fmt.Sprintf("%s /* %d members */ };", headerText, members)
	return Block{
		Kind:          BlockClassDecl,
		Identifier:    identifierFromHeader(header),
		FullText:      full,
		SummaryText:   summary,
		FullTokens:    counter.Count(full),
		SummaryTokens: counter.Count(summary),
	}
}

func functionSigBlock(line string, counter token.Counter) Block {
	trimmed := strings.TrimSpace(line)
	name := functionIdentifier(trimmed)
	return Block{
		Kind:          BlockFunctionSig,
		Identifier:    name,
		FullText:      line,
		SummaryText:   line,
		FullTokens:    counter.Count(line),
		SummaryTokens: counter.Count(line),
	}
}

func functionIdentifier(sig string) string {
	braceIdx := strings.Index(sig, "(")
	if braceIdx <= 0 {
		return ""
	}
	before := strings.TrimSpace(sig[:braceIdx])
	fields := strings.FieldsFunc(before, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '*' || r == '&'
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

func macroBlock(line string, counter token.Counter) Block {
	trimmed := strings.TrimSpace(line)
	idx := strings.IndexByte(trimmed, '(')
	name := trimmed
	if idx > 0 {
		name = trimmed[:idx]
	}
	return Block{
		Kind:          BlockMacroDecl,
		Identifier:    strings.ToLower(name),
		FullText:      line,
		SummaryText:   line,
		FullTokens:    counter.Count(line),
		SummaryTokens: counter.Count(line),
	}
}

func annotatedBlock(lines []string, counter token.Counter) Block {
	full := strings.Join(lines, "\n")
	return Block{
		Kind:          BlockAnnotated,
		FullText:      full,
		SummaryText:   full,
		FullTokens:    counter.Count(full),
		SummaryTokens: counter.Count(full),
	}
}

func includeGroupBlock(lines []string, counter token.Counter) Block {
	full := strings.Join(lines, "\n")
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, importTarget(strings.TrimSpace(l)))
	}
	shown := names
	if len(shown) > 3 {
		shown = shown[:3]
	}
	summary := fmt.Sprintf("// %d imports (%s)", len(lines), strings.Join(shown, ", "))
	return Block{
		Kind:          BlockIncludeGroup,
		FullText:      full,
		SummaryText:   summary,
		FullTokens:    counter.Count(full),
		SummaryTokens: counter.Count(summary),
	}
}

func importTarget(line string) string {
	line = strings.TrimSuffix(line, ";")
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return line
	}
	return strings.Trim(parts[len(parts)-1], `"'()`)
}

func miscLinesBlock(lines []string, counter token.Counter) Block {
	full := strings.Join(lines, "\n")
	return miscBlock(full, counter)
}

func miscBlock(text string, counter token.Counter) Block {
	return Block{
		Kind:          BlockMisc,
		FullText:      text,
		SummaryText:   text,
		FullTokens:    counter.Count(text),
		SummaryTokens: counter.Count(text),
	}
}
