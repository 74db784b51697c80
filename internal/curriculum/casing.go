package curriculum

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCase converts s to title case using Portuguese casing rules.
// A Caser keeps state, so a new one is created per call.
func titleCase(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(s)
}

// isUpper reports whether s has at least one letter and no lowercase letters.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// collapseSpace trims s and folds internal whitespace runs into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
