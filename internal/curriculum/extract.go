package curriculum

import (
	"strings"
)

// Candidate is the raw output of one recognizer.
type Candidate struct {
	Format   Format
	Subjects []Subject
}

// Analysis is a successful extraction together with how it was decided.
type Analysis struct {
	Result Result
	// Format is the layout whose recognizer won arbitration.
	Format Format
	// Candidates holds every recognizer's raw, non-deduplicated output in
	// priority order.
	Candidates []Candidate
}

// Counts returns the raw subject count of each recognizer.
func (a Analysis) Counts() map[Format]int {
	counts := make(map[Format]int, len(a.Candidates))
	for _, c := range a.Candidates {
		counts[c.Format] = len(c.Subjects)
	}
	return counts
}

// Extract recovers the curriculum contained in text.
func Extract(text string) (Result, error) {
	a, err := Analyze(text)
	if err != nil {
		return Result{}, err
	}
	return a.Result, nil
}

// Analyze runs every recognizer over text, arbitrates between their outputs
// and assembles the deduplicated result.
func Analyze(text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyDocument
	}

	courseName := CourseName(text)
	lines := splitLines(text)

	recognizers := Recognizers()
	candidates := make([]Candidate, 0, len(recognizers))
	for _, r := range recognizers {
		candidates = append(candidates, Candidate{
			Format:   r.Format(),
			Subjects: r.Recognize(lines),
		})
	}

	winner, ok := Arbitrate(candidates)
	if !ok {
		return Analysis{Candidates: candidates}, ErrNoSubjects
	}

	subjects := Dedupe(winner.Subjects)
	return Analysis{
		Result: Result{
			CourseName:     courseName,
			TotalSemesters: TotalSemesters(subjects),
			Subjects:       subjects,
		},
		Format:     winner.Format,
		Candidates: candidates,
	}, nil
}

// Arbitrate picks the candidate with strictly the most subjects; earlier
// candidates win ties. It reports false when every candidate is empty.
func Arbitrate(candidates []Candidate) (Candidate, bool) {
	best := -1
	for i, c := range candidates {
		if len(c.Subjects) == 0 {
			continue
		}
		if best < 0 || len(c.Subjects) > len(candidates[best].Subjects) {
			best = i
		}
	}
	if best < 0 {
		return Candidate{}, false
	}
	return candidates[best], true
}

type dedupeKey struct {
	semester int
	name     string
}

// Dedupe keeps the first subject for each (semester, lowercased name) pair and
// preserves input order.
func Dedupe(subjects []Subject) []Subject {
	seen := make(map[dedupeKey]struct{}, len(subjects))
	out := make([]Subject, 0, len(subjects))
	for _, s := range subjects {
		k := dedupeKey{semester: s.Semester, name: strings.ToLower(s.SubjectName)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// TotalSemesters is the highest semester among subjects, or 1 when there are
// none.
func TotalSemesters(subjects []Subject) int {
	total := 0
	for _, s := range subjects {
		if s.Semester > total {
			total = s.Semester
		}
	}
	if total == 0 {
		return 1
	}
	return total
}
