package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Math placeholders use Unicode Private Use Area characters around the
// span's extraction index. These are guaranteed to not conflict with any
// standard characters and pass through Goldmark unchanged, so restoration
// by index is collision-free.
const (
	mathStartPlaceholder = ""
	mathEndPlaceholder   = ""
)

// Precompiled patterns for math span extraction and delimiter scanning.
var (
	// Display math \[...\] or inline math \(...\), non-overlapping, in
	// document order, matching across lines.
	mathSpanPattern = regexp.MustCompile(`(?s)\\\[.*?\\\]|\\\(.*?\\\)`)

	// \left and \right delimiter tokens within a single span.
	delimiterTokenPattern = regexp.MustCompile(`\\left|\\right`)
)

// ProtectMath extracts LaTeX math spans from content, balances each span's
// delimiters, and replaces the spans with positional placeholder tokens.
// The returned slice is ordered by extraction position; RestoreMath
// substitutes spans back by index.
func ProtectMath(content string) (protected string, spans []string) {
	protected = mathSpanPattern.ReplaceAllStringFunc(content, func(span string) string {
		spans = append(spans, BalanceDelimiters(span))
		return mathStartPlaceholder + strconv.Itoa(len(spans)-1) + mathEndPlaceholder
	})
	return protected, spans
}

// RestoreMath substitutes each placeholder token with its balanced span,
// HTML-escaping the content so angle brackets and ampersands inside math
// are not interpreted as markup.
func RestoreMath(htmlContent string, spans []string) string {
	for i, span := range spans {
		token := mathStartPlaceholder + strconv.Itoa(i) + mathEndPlaceholder
		htmlContent = strings.ReplaceAll(htmlContent, token, html.EscapeString(span))
	}
	return htmlContent
}

// BalanceDelimiters rewrites a LaTeX span so every \left has a matching
// \right. The math renderer refuses to render anything past the first
// imbalance, and OCR output frequently drops one side of a pair.
//
// A left-to-right scan keeps a depth counter: \left increments, \right
// decrements when depth is positive. A \right at depth zero is unmatched
// and is deleted outright, surrounding text preserved. After the scan, one
// invisible closing delimiter (\right.) is appended per still-open \left.
// Balancing an already-balanced span returns it unchanged.
func BalanceDelimiters(latex string) string {
	tokens := delimiterTokenPattern.FindAllStringIndex(latex, -1)
	if len(tokens) == 0 {
		return latex
	}

	depth := 0
	var b strings.Builder
	last := 0

	for _, tok := range tokens {
		if latex[tok[0]:tok[1]] == `\left` {
			depth++
			continue
		}
		if depth > 0 {
			depth--
			continue
		}
		// Unmatched \right: skip the token, keep the text around it.
		b.WriteString(latex[last:tok[0]])
		last = tok[1]
	}
	b.WriteString(latex[last:])

	balanced := b.String()
	if depth > 0 {
		balanced += strings.Repeat(` \right.`, depth)
	}
	return balanced
}
