package curriculum

import (
	"regexp"
	"strings"
)

var (
	reTableStart = regexp.MustCompile(`(?i)^disciplinas?`)
	reTableEnd   = regexp.MustCompile(`(?i)^(?:avalia[çc][ãa]o|certifica[çc][ãa]o|cada disciplina|carga hor[áa]ria total)`)

	// NAME 350h 37 3 (trailing text after the exam count is ignored)
	reInline4 = regexp.MustCompile(`^(\p{L}[\p{L}\s.\-]*?)\s+(\d+)\s*[hH]\s+(\d+)\s+(\d+)`)
	// NAME 72h
	reInline2 = regexp.MustCompile(`^(\p{L}[\p{L}\s.\-]*?)\s+(\d+)\s*[hH]\s*$`)
)

// InlineTable recognizes single flat tables where the subject name and its
// numeric columns share a line, below a DISCIPLINAS header.
type InlineTable struct{}

func (InlineTable) Format() Format { return FormatInlineTable }

func (InlineTable) Recognize(lines []string) []Subject {
	var subjects []Subject
	inTable := false

	for _, line := range lines {
		if inTable && reTableEnd.MatchString(line) {
			break
		}
		if reTableStart.MatchString(line) {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}

		if s, ok := parseInline4(line); ok {
			subjects = append(subjects, s)
			continue
		}
		if s, ok := parseInline2(line); ok {
			subjects = append(subjects, s)
		}
	}
	return subjects
}

func parseInline4(line string) (Subject, bool) {
	m := reInline4.FindStringSubmatch(line)
	if m == nil {
		return Subject{}, false
	}
	name := strings.TrimSpace(m[1])
	if IsNoise(name) {
		return Subject{}, false
	}
	workload, ok1 := atoi(m[2])
	classes, ok2 := atoi(m[3])
	exams, ok3 := atoi(m[4])
	if !ok1 || !ok2 || !ok3 {
		return Subject{}, false
	}
	return Subject{
		Semester:    1,
		SubjectName: titleCase(collapseSpace(name)),
		Workload:    workload,
		NumClasses:  intPtr(classes),
		NumExams:    intPtr(exams),
	}, true
}

func parseInline2(line string) (Subject, bool) {
	m := reInline2.FindStringSubmatch(line)
	if m == nil {
		return Subject{}, false
	}
	name := strings.TrimSpace(m[1])
	if IsNoise(name) {
		return Subject{}, false
	}
	workload, ok := atoi(m[2])
	if !ok {
		return Subject{}, false
	}
	return Subject{
		Semester:    1,
		SubjectName: titleCase(collapseSpace(name)),
		Workload:    workload,
	}, true
}
