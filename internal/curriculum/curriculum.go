// Package curriculum recovers a structured curriculum from plain text
// extracted from course-catalog documents.
//
// Three independent recognizers scan the same text, each tuned to one
// layout. The recognizer that yields the most subjects wins, its subjects
// are deduplicated and the result is assembled.
package curriculum

// UnidentifiedCourse is the course name reported when no title pattern matched.
const UnidentifiedCourse = "Curso Não Identificado"

// Subject is a single curriculum entry.
type Subject struct {
	// Semester is the grouping unit (semester, module or period).
	Semester int `json:"semester" yaml:"semester"`
	// SubjectName is the trimmed, case-normalized subject name.
	SubjectName string `json:"subjectName" yaml:"subjectName"`
	// Workload is the number of instruction hours, 0 when unknown.
	Workload int `json:"workload" yaml:"workload"`
	// NumClasses is only set by the 4-column inline layout.
	NumClasses *int `json:"numClasses,omitempty" yaml:"numClasses,omitempty"`
	// NumExams is only set by the 4-column inline layout.
	NumExams *int `json:"numExams,omitempty" yaml:"numExams,omitempty"`
}

// Result is the normalized curriculum of one document.
type Result struct {
	CourseName     string    `json:"courseName" yaml:"courseName"`
	TotalSemesters int       `json:"totalSemesters" yaml:"totalSemesters"`
	Subjects       []Subject `json:"subjects" yaml:"subjects"`
}

// Format identifies the layout a recognizer understands.
type Format string

const (
	FormatInlineTable      Format = "inline_table"
	FormatAlternatingLines Format = "alternating_lines"
	FormatSemesterSections Format = "semester_sections"
)

func intPtr(v int) *int {
	return &v
}
