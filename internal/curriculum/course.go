package curriculum

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sectionBoundary ends a multi-line title capture: a blank line, a line that
// opens a semester/module/period/structure section, or the end of the text.
const sectionBoundary = `(?:\n[ \t]*\n|\n[ \t]*(?:\d+\s*[ºª°o]?\s*)?(?:semestre|m[óo]dulo|per[íi]odo|estrutura|disciplinas?|matriz|grade|carga)|\z)`

// coursePatterns are tried in order; the first match wins.
var coursePatterns = []*regexp.Regexp{
	// "Técnico em Enfermagem", "Bacharelado em Direito", ...
	regexp.MustCompile(`(?i)\b((?:t[ée]cnico|tecn[óo]logo|superior\s+de\s+tecnologia|bacharelado|licenciatura)\s+(?:em|de)\s+[\p{L}\p{N}][\p{L}\p{N}\s.,\-–]*?)` + sectionBoundary),
	// "PROJETO ALFABETIZAR PREMIUM" banner on its own line, any case.
	regexp.MustCompile(`(?im)^[ \t]*PROJETO[ \t]+([\p{L}\p{N}][\p{L}\p{N} \t]*?)(?:[ \t]+(?:PREMIUM|FOMENTANDO)|[ \t]*$)`),
	// "Curso de Inglês", "Curso em Gestão".
	regexp.MustCompile(`(?i)\bcurso\s+(?:de|em)\s+([\p{L}\p{N}][\p{L}\p{N}\s.,\-–]*?)` + sectionBoundary),
}

// CourseName returns the course title found in text, or UnidentifiedCourse.
func CourseName(text string) string {
	for _, re := range coursePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if name := collapseSpace(titleLines(m[1])); name != "" {
			return name
		}
	}
	return UnidentifiedCourse
}

// titleConnectors may appear in lower case inside a title line.
var titleConnectors = map[string]bool{
	"a": true, "o": true, "e": true, "em": true, "com": true, "para": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true,
}

// titleLines keeps the first line of a captured title and the continuation
// lines that still read as a title, stopping at the first prose line.
func titleLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:1]
	for _, line := range lines[1:] {
		if !isTitleLine(line) {
			break
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

// isTitleLine reports whether every word of line is capitalized or a
// connector: "Empresarial", "em Segurança do Trabalho".
func isTitleLine(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsLetter(r) && !unicode.IsUpper(r) && !titleConnectors[strings.ToLower(w)] {
			return false
		}
	}
	return true
}
