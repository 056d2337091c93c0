package stub

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extract reduces content to its tier-1 stub text, given the file's
// extension.
func Extract(ext string, content string) string {
	switch ClassifyFamily(ext) {
	case FamilyBrace:
		return extractBrace(content)
	case FamilyIndent:
		return extractIndent(content)
	case FamilyINI, FamilyTOML:
		return extractINI(content)
	case FamilyJSON:
		return extractJSON(content)
	case FamilyYAML:
		return extractYAML(content)
	case FamilyXML:
		return extractXML(content)
	default:
		return extractUnknown(content)
	}
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func collapseBlankRuns(lines []string) []string {
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			blankRun++
			if blankRun <= 2 {
				out = append(out, l)
			}
			continue
		}
		blankRun = 0
		out = append(out, l)
	}
	return out
}

var preservedPrefixes = []string{
	"#include", "#define", "#pragma", "#if", "#ifdef", "#ifndef", "#endif", "#else", "#elif",
	"import ", "import(", "using ", "use ", "mod ", "package ", "require(", "require (",
	"extern crate", "from __future__",
}

func isPreprocessorOrImport(trimmed string) bool {
	for _, p := range preservedPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return trimmed == "import" || trimmed == "use" || strings.HasPrefix(trimmed, "namespace ") && strings.HasSuffix(trimmed, ";")
}

func isAnnotationOrAttribute(trimmed string) bool {
	if strings.HasPrefix(trimmed, "#[") {
		return true
	}
	if strings.HasPrefix(trimmed, "@") && len(trimmed) > 1 {
		return true
	}
	if strings.HasPrefix(trimmed, "[") && len(trimmed) > 1 && (isLetter(trimmed[1]) || trimmed[1] == '_') {
		return true
	}
	return isMacroCallStyle(trimmed)
}

// isMacroCallStyle matches ALL_CAPS( style macro invocations.
func isMacroCallStyle(trimmed string) bool {
	idx := strings.IndexByte(trimmed, '(')
	if idx <= 0 {
		return false
	}
	name := trimmed[:idx]
	if name == "" {
		return false
	}
	sawUpper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			sawUpper = true
		case c == '_' || (c >= '0' && c <= '9'):
			// allowed
		default:
			return false
		}
	}
	return sawUpper
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isStandaloneComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "*/")
}

var structuralKeywords = []string{
	"class", "struct", "enum", "union", "namespace", "interface",
	"trait", "impl", "extern", "module", "package", "object",
}

func containsStructuralKeyword(sig string) bool {
	lower := strings.ToLower(sig)
	for _, kw := range structuralKeywords {
		idx := strings.Index(lower, kw)
		for idx >= 0 {
			before := idx == 0 || !isIdentByte(lower[idx-1])
			after := idx+len(kw) >= len(lower) || !isIdentByte(lower[idx+len(kw)])
			if before && after {
				return true
			}
			next := strings.Index(lower[idx+1:], kw)
			if next < 0 {
				break
			}
			idx = idx + 1 + next
		}
	}
	return false
}

func isIdentByte(b byte) bool {
	return isLetter(b) || (b >= '0' && b <= '9') || b == '_'
}

func looksLikeFunctionSignature(sig string) bool {
	trimmed := strings.TrimSpace(sig)
	switch {
	case strings.HasSuffix(trimmed, ")"):
		return true
	case strings.HasSuffix(trimmed, "const"):
		return true
	case strings.HasSuffix(trimmed, "override"):
		return true
	case strings.HasSuffix(trimmed, "final"):
		return true
	case strings.HasSuffix(trimmed, "noexcept"):
		return true
	case strings.HasSuffix(trimmed, "= 0"):
		return true
	case strings.HasSuffix(trimmed, "= default"):
		return true
	case strings.HasSuffix(trimmed, "= delete"):
		return true
	case strings.Contains(trimmed, ") :"):
		return true
	case isLambdaSignature(trimmed):
		return true
	case strings.HasPrefix(trimmed, "fn "), strings.HasPrefix(trimmed, "func "), strings.HasPrefix(trimmed, "function "):
		return true
	}
	return false
}

func isLambdaSignature(trimmed string) bool {
	idx := strings.IndexByte(trimmed, ']')
	if idx < 0 {
		return false
	}
	rest := strings.TrimLeft(trimmed[idx+1:], " \t")
	return strings.HasPrefix(rest, "(")
}

// isStructuralOpening classifies a brace-based line opening a scope as
// structural (type/function-level) or not.
func isStructuralOpening(lines []string, i int) bool {
	line := lines[i]
	braceIdx := strings.IndexByte(line, '{')
	sig := line
	if braceIdx >= 0 {
		sig = line[:braceIdx]
	}
	trimmedSig := strings.TrimSpace(sig)

	if containsStructuralKeyword(trimmedSig) {
		return true
	}

	if trimmedSig == "" {
		j := i - 1
		for j >= 0 {
			prevTrim := strings.TrimSpace(lines[j])
			if prevTrim == "" {
				j--
				continue
			}
			if strings.HasPrefix(prevTrim, ":") || strings.HasPrefix(prevTrim, ",") {
				j--
				continue
			}
			return containsStructuralKeyword(prevTrim)
		}
		return false
	}

	return !looksLikeFunctionSignature(trimmedSig)
}

func extractBrace(content string) string {
	lines := splitLines(content)
	var out []string
	depth := 0
	structuralStack := make([]bool, 0, 8)

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			out = append(out, line)
			i++
			continue
		}

		if isPreprocessorOrImport(trimmed) || isAnnotationOrAttribute(trimmed) || isStandaloneComment(trimmed) {
			out = append(out, line)
			i++
			continue
		}

		if strings.TrimSpace(trimmed) == "}" || strings.HasPrefix(trimmed, "}") {
			out = append(out, line)
			if depth > 0 {
				depth--
				structuralStack = structuralStack[:len(structuralStack)-1]
			}
			i++
			continue
		}

		if strings.Contains(line, "{") {
			if isStructuralOpening(lines, i) {
				out = append(out, line)
				depth++
				structuralStack = append(structuralStack, true)
				i++
				continue
			}

			braceIdx := strings.IndexByte(line, '{')
			sigPart := strings.TrimRight(line[:braceIdx], " \t")
			out = append(out, sigPart+" { /* ... */ }")

			skipDepth := 1
			i++
			for i < len(lines) && skipDepth > 0 {
				skipDepth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
				i++
			}
			continue
		}

		if depth == 0 || structuralStack[len(structuralStack)-1] {
			out = append(out, line)
		}
		i++
	}

	return strings.Join(collapseBlankRuns(out), "\n")
}

func extractIndent(content string) string {
	lines := splitLines(content)
	var out []string

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "@") ||
			strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			out = append(out, line)
			i++
			continue
		}

		if (strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "class ") ||
			strings.HasPrefix(trimmed, "async def ")) && strings.HasSuffix(strings.TrimRight(trimmed, " "), ":") {
			out = append(out, line)
			headerIndent := indentWidth(line)
			out, i = skipIndentBody(lines, i+1, headerIndent, out, strings.HasPrefix(trimmed, "class "))
			continue
		}

		out = append(out, line)
		i++
	}
	return strings.Join(collapseBlankRuns(out), "\n")
}

func indentWidth(line string) int {
	n := 0
	for _, c := range line {
		if c == ' ' {
			n++
		} else if c == '\t' {
			n += 8
		} else {
			break
		}
	}
	return n
}

// skipIndentBody replaces a def/class body with "..." (for functions) while
// recursing into nested defs for class bodies, per the indent family's
// reduction rule.
func skipIndentBody(lines []string, i, headerIndent int, out []string, isClass bool) ([]string, int) {
	bodyIndent := -1
	replaced := false

	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if isClass {
				out = append(out, line)
			}
			i++
			continue
		}
		w := indentWidth(line)
		if w <= headerIndent {
			break
		}
		if bodyIndent == -1 {
			bodyIndent = w
		}

		if isClass {
			if (strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "async def ")) &&
				strings.HasSuffix(strings.TrimRight(trimmed, " "), ":") {
				out = append(out, line)
				out, i = skipIndentBody(lines, i+1, w, out, false)
				continue
			}
			out = append(out, line)
			i++
			continue
		}

		if !replaced {
			out = append(out, strings.Repeat(" ", bodyIndent)+"...")
			replaced = true
		}
		i++
	}
	return out, i
}

func extractINI(content string) string {
	lines := splitLines(content)
	var out []string
	entriesInSection := 0
	inSection := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			out = append(out, line)
			inSection = true
			entriesInSection = 0
			continue
		}
		if inSection {
			if entriesInSection < 5 {
				out = append(out, line)
				entriesInSection++
				if entriesInSection == 5 {
					out = append(out, "...")
				}
			}
			continue
		}
		out = append(out, line)
	}
	return strings.Join(collapseBlankRuns(out), "\n")
}

// extractJSON prints keys to depth 2, summarizing deeper object/array
// values as "{...}" or "[...N items]"; arrays are always summarized by
// count rather than expanded, at any depth. Falls back to line
// truncation if the content doesn't parse as JSON.
func extractJSON(content string) string {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var out strings.Builder
	if err := formatJSONDepth(dec, &out, 0, 2); err != nil {
		return extractUnknown(content)
	}
	return out.String()
}

func formatJSONDepth(dec *json.Decoder, out *strings.Builder, depth, maxDepth int) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		out.WriteString(jsonScalarString(tok))
		return nil
	}
	switch delim {
	case '{':
		return formatJSONObject(dec, out, depth, maxDepth)
	case '[':
		n, err := countJSONArrayItems(dec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[...%d items]", n)
		return nil
	}
	return nil
}

func formatJSONObject(dec *json.Decoder, out *strings.Builder, depth, maxDepth int) error {
	out.WriteString("{\n")
	indent := strings.Repeat("  ", depth+1)
	first := true
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		if !first {
			out.WriteString(",\n")
		}
		first = false
		out.WriteString(indent)
		fmt.Fprintf(out, "%q: ", key)

		if depth+1 >= maxDepth {
			if err := summarizeJSONValue(dec, out); err != nil {
				return err
			}
		} else if err := formatJSONDepth(dec, out, depth+1, maxDepth); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return err
	}
	out.WriteString("\n")
	out.WriteString(strings.Repeat("  ", depth))
	out.WriteString("}")
	return nil
}

// summarizeJSONValue consumes one JSON value without descending further:
// objects become "{...}", arrays become "[...N items]", scalars print as-is.
func summarizeJSONValue(dec *json.Decoder, out *strings.Builder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		out.WriteString(jsonScalarString(tok))
		return nil
	}
	switch delim {
	case '{':
		if err := skipJSONObject(dec); err != nil {
			return err
		}
		out.WriteString("{...}")
	case '[':
		n, err := countJSONArrayItems(dec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[...%d items]", n)
	}
	return nil
}

func jsonScalarString(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		b, _ := json.Marshal(v)
		return string(b)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// skipJSONValue discards one full JSON value (the '{'/'[' token, if any,
// must not yet have been consumed).
func skipJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return nil
	}
	switch delim {
	case '{':
		return skipJSONObject(dec)
	case '[':
		return skipJSONArray(dec)
	}
	return nil
}

func skipJSONObject(dec *json.Decoder) error {
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return err
		}
		if err := skipJSONValue(dec); err != nil {
			return err
		}
	}
	_, err := dec.Token() // consume '}'
	return err
}

func skipJSONArray(dec *json.Decoder) error {
	for dec.More() {
		if err := skipJSONValue(dec); err != nil {
			return err
		}
	}
	_, err := dec.Token() // consume ']'
	return err
}

// countJSONArrayItems consumes an array's remaining elements (the
// opening '[' must already be consumed) and returns its length.
func countJSONArrayItems(dec *json.Decoder) (int, error) {
	n := 0
	for dec.More() {
		if err := skipJSONValue(dec); err != nil {
			return n, err
		}
		n++
	}
	_, err := dec.Token() // consume ']'
	return n, err
}

func extractYAML(content string) string {
	lines := splitLines(content)
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, line)
			continue
		}
		w := indentWidth(line)
		if w == 0 {
			out = append(out, line)
			continue
		}
		// keep first indent level only
		if w <= firstIndentLevel(lines) {
			out = append(out, line)
		}
	}
	return strings.Join(collapseBlankRuns(out), "\n")
}

func firstIndentLevel(lines []string) int {
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		w := indentWidth(l)
		if w > 0 {
			return w
		}
	}
	return 0
}

func extractXML(content string) string {
	lines := splitLines(content)
	limit := len(lines)
	if limit > 100 {
		limit = 100
	}
	out := append([]string{}, lines[:limit]...)
	if len(lines) > 100 {
		out = append(out, fmt.Sprintf("<!-- %d more lines truncated -->", len(lines)-100))
	}
	return strings.Join(out, "\n")
}

func extractUnknown(content string) string {
	lines := splitLines(content)
	limit := len(lines)
	if limit > 100 {
		limit = 100
	}
	out := append([]string{}, lines[:limit]...)
	if len(lines) > 100 {
		out = append(out, fmt.Sprintf("... (%d more lines truncated)", len(lines)-100))
	}
	return strings.Join(out, "\n")
}

// ManifestLine renders the tier-4 one-line form: "// <path> — <desc>".
func ManifestLine(path, desc string) string {
	return fmt.Sprintf("// %s — %s", path, desc)
}
