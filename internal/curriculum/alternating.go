package curriculum

import (
	"regexp"
	"strings"
)

var (
	// The keyword must stand alone, and a number must be followed by a
	// separator: RE2's \b is ASCII-only and would split "VÍDEO" after the V.
	reModule        = regexp.MustCompile(`(?i)^m[óo]dulo(?:$|[\s:\-–])\s*[:\-–]?\s*(?:(\d+|[ivx]+)(?:$|[\s:.\-–]))?`)
	reStructure     = regexp.MustCompile(`(?i)^(?:estrutura|matriz|grade|organiza[çc][ãa]o)\s+curricular`)
	reAlternatedEnd = regexp.MustCompile(`(?i)^(?:carga hor[áa]ria total|total de horas|total geral)`)
	reBareInt       = regexp.MustCompile(`^\d+$`)
	reBareHours     = regexp.MustCompile(`(?i)^\d+\s*h$`)
	reWorkloadLine  = regexp.MustCompile(`(?i)^(\d+)\s*(?:h|hs|hrs?|horas?)?\.?$`)
)

// AlternatingLines recognizes layouts where a subject name sits on one line
// and its workload alone on the next, grouped under MÓDULO markers.
type AlternatingLines struct{}

func (AlternatingLines) Format() Format { return FormatAlternatingLines }

func (AlternatingLines) Recognize(lines []string) []Subject {
	var subjects []Subject
	inCurriculum := false
	module := 0

	for i := 0; i < len(lines); {
		line := lines[i]

		if m := reModule.FindStringSubmatch(line); m != nil && isModuleHeading(lines, i, m) {
			// A titled heading without a number ("MÓDULO VÍDEO E SOM") opens
			// the next module. A bare "MÓDULO" is left to the noise check.
			if n, ok := parseModuleNumber(m[1]); ok {
				module = n
			} else {
				module++
			}
			inCurriculum = true
			i++
			continue
		}
		if reStructure.MatchString(line) {
			inCurriculum = true
			i++
			continue
		}
		if !inCurriculum {
			i++
			continue
		}
		if reAlternatedEnd.MatchString(line) {
			break
		}
		if !isCandidateLine(line) {
			i++
			continue
		}

		semester := 1
		if module > 0 {
			semester = module
		}
		s := Subject{
			Semester:    semester,
			SubjectName: titleCase(collapseSpace(line)),
		}

		// One line of lookahead: a bare number is this subject's workload.
		if i+1 < len(lines) {
			if m := reWorkloadLine.FindStringSubmatch(lines[i+1]); m != nil {
				if n, ok := atoi(m[1]); ok {
					s.Workload = n
					i++
				}
			}
		}
		subjects = append(subjects, s)
		i++
	}
	return subjects
}

// isModuleHeading reports whether the reModule match m on lines[i] opens a
// module. An unnumbered, mixed-case line followed by a workload is a subject
// ("Módulo de Libras" / "40"), not a heading.
func isModuleHeading(lines []string, i int, m []string) bool {
	if m[1] != "" {
		return true
	}
	line := lines[i]
	if strings.TrimSpace(line[len(m[0]):]) == "" {
		return false
	}
	if isUpper(line) {
		return true
	}
	return i+1 >= len(lines) || !reWorkloadLine.MatchString(lines[i+1])
}

func isCandidateLine(line string) bool {
	if !startsWithLetter(line) {
		return false
	}
	if IsNoise(line) {
		return false
	}
	return !reBareInt.MatchString(line) && !reBareHours.MatchString(line)
}

var romanValues = map[byte]int{'i': 1, 'v': 5, 'x': 10}

// parseModuleNumber accepts decimal or small roman numerals (I to XXXIX).
func parseModuleNumber(s string) (int, bool) {
	if n, ok := atoi(s); ok {
		return n, n > 0
	}
	s = strings.ToLower(s)
	total := 0
	for i := 0; i < len(s); i++ {
		v := romanValues[s[i]]
		if i+1 < len(s) && v < romanValues[s[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	return total, total > 0
}
