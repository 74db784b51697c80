package curriculum

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// "1º SEMESTRE", "SEMESTRE 2", "3o Período", "PRIMEIRO SEMESTRE",
	// "2º SEMESTRE - 400h", "3º PERÍODO (360 horas)", "SEMESTRE"
	reSection     = regexp.MustCompile(`(?i)^(?:(\d+)\s*[ºª°o.]?\s*|(primeiro|segundo|terceiro|quarto|quinto|sexto|s[ée]timo|oitavo|nono|d[ée]cimo)\s+)?(?:semestre|per[íi]odo)(.*)$`)
	reSectionTail = regexp.MustCompile(`^[\s:.\-–]*(\d+)\s*(\p{L}*)`)

	reSectionDash  = regexp.MustCompile(`^(\p{L}[\p{L}\p{N}\s.,()/]*?)\s*[-–—]\s*(\d+)\s*[hH]`)
	reSectionPlain = regexp.MustCompile(`^(\p{L}[\p{L}\p{N}\s.,()/\-–]*?)\s+(\d+)\s*[hH]`)
)

var hourUnits = map[string]bool{"h": true, "hs": true, "hr": true, "hrs": true, "hora": true, "horas": true}

var ordinalWords = map[string]int{
	"primeiro": 1, "segundo": 2, "terceiro": 3, "quarto": 4, "quinto": 5,
	"sexto": 6, "sétimo": 7, "setimo": 7, "oitavo": 8, "nono": 9,
	"décimo": 10, "decimo": 10,
}

// SemesterSections recognizes flat subject lists partitioned by explicit
// SEMESTRE / PERÍODO markers.
type SemesterSections struct{}

func (SemesterSections) Format() Format { return FormatSemesterSections }

func (SemesterSections) Recognize(lines []string) []Subject {
	var subjects []Subject
	current := 0

	for _, line := range lines {
		if n, ok := sectionMarker(line); ok {
			if n > 0 {
				current = n
			} else {
				current++
			}
			continue
		}
		if current == 0 {
			continue
		}
		if s, ok := parseSectionSubject(line, current); ok {
			subjects = append(subjects, s)
		}
	}
	return subjects
}

// sectionMarker reports whether line opens a section and, when it carries
// one, its explicit number (0 otherwise). The number comes from either side
// of the keyword or from a leading ordinal word; a trailing workload such as
// "- 400h" is not a number.
func sectionMarker(line string) (int, bool) {
	m := reSection.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	if n, ok := atoi(m[1]); ok && n > 0 {
		return n, true
	}
	if n, ok := ordinalWords[strings.ToLower(m[2])]; ok {
		return n, true
	}
	tail := strings.TrimLeft(m[3], " \t")
	if r, _ := utf8.DecodeRuneInString(tail); tail != "" && unicode.IsLetter(r) {
		// "Semestres", "Período de estágio"
		return 0, false
	}
	if t := reSectionTail.FindStringSubmatch(tail); t != nil && !hourUnits[strings.ToLower(t[2])] {
		if n, ok := atoi(t[1]); ok && n > 0 {
			return n, true
		}
	}
	return 0, true
}

func parseSectionSubject(line string, semester int) (Subject, bool) {
	for _, re := range []*regexp.Regexp{reSectionDash, reSectionPlain} {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := collapseSpace(strings.TrimRight(m[1], " \t-–—,"))
		if IsNoise(name) {
			continue
		}
		workload, ok := atoi(m[2])
		if !ok {
			continue
		}
		if isUpper(name) {
			name = titleCase(name)
		}
		return Subject{
			Semester:    semester,
			SubjectName: name,
			Workload:    workload,
		}, true
	}
	return Subject{}, false
}
