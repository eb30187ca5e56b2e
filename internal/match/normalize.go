// Package match implements the record matching and deduplication engine:
// text normalization, fuzzy title and author similarity, weighted
// multi-signal confidence scoring and duplicate-group construction.
package match

import (
	"regexp"
	"strings"
)

var (
	// LaTeX markup: \textbf{x}, \emph{x} and any other \command{x} keep
	// their inner text; leftover braces and bare commands are dropped.
	latexCmdRe  = regexp.MustCompile(`\\[a-zA-Z]+\{([^{}]*)\}`)
	braceRe     = regexp.MustCompile(`[{}]`)
	bareCmdRe   = regexp.MustCompile(`\\[a-zA-Z]+`)
	htmlEntRe   = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)
	htmlTagRe   = regexp.MustCompile(`<[^<>]*>`)
	nonWordRe   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	multiSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeText prepares a title or journal name for comparison: lowercase,
// LaTeX and HTML markup stripped, punctuation replaced by spaces, whitespace
// collapsed. It never fails; empty input yields "".
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ToLower(text)

	// Innermost commands first so nested markup unwraps fully.
	for latexCmdRe.MatchString(s) {
		s = latexCmdRe.ReplaceAllString(s, "$1")
	}
	s = braceRe.ReplaceAllString(s, "")
	s = bareCmdRe.ReplaceAllString(s, "")

	s = htmlEntRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")

	s = nonWordRe.ReplaceAllString(s, " ")
	s = multiSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
