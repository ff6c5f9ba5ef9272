package engine

import (
	"regexp"
	"strings"
)

// The sibling script dialect shares constraint storage with the OCL dialect.
// Expressions routed to the wrong evaluator are caught twice: by the
// immutable dialect tag on every constraint, and by this heuristic scan for
// tokens that never occur in well-formed OCL.
//
// The token list is a blacklist and can misfire on legitimate text that
// happens to contain a flagged substring; it backs up the tag, it does not
// replace it.

// scriptKeywords are script-dialect keywords matched on word boundaries.
var scriptKeywords = regexp.MustCompile(`\b(function|return|var|let|const)\b`)

// scriptSymbols are script-dialect operators and punctuation foreign to OCL.
var scriptSymbols = []string{"=>", ";", "{", "}", "&&", "||", "===", "!=="}

// ScanForeignDialect scans expression text for tokens characteristic of the
// script dialect. It returns the first offending token and true when one is
// found.
func ScanForeignDialect(expression string) (string, bool) {
	if m := scriptKeywords.FindString(expression); m != "" {
		return m, true
	}
	for _, sym := range scriptSymbols {
		if strings.Contains(expression, sym) {
			return sym, true
		}
	}
	return "", false
}
