package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/akashicode/grade/internal/curriculum"
)

// Row is one line of a curriculum table.
type Row struct {
	Semester int
	Name     string
	Workload int
	Classes  *int
	Exams    *int
}

// RowsOf converts extracted subjects into table rows.
func RowsOf(subjects []curriculum.Subject) []Row {
	rows := make([]Row, len(subjects))
	for i, s := range subjects {
		rows[i] = Row{
			Semester: s.Semester,
			Name:     s.SubjectName,
			Workload: s.Workload,
			Classes:  s.NumClasses,
			Exams:    s.NumExams,
		}
	}
	return rows
}

// Table writes rows grouped under one heading per semester, followed by the
// workload total. Color codes are emitted only when color is true.
func Table(w io.Writer, rows []Row, color bool) error {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + reset
	}

	nameWidth := len("Disciplina")
	withCounts := false
	for _, r := range rows {
		if n := len([]rune(r.Name)); n > nameWidth {
			nameWidth = n
		}
		if r.Classes != nil || r.Exams != nil {
			withCounts = true
		}
	}

	header := "  " + padRight("Disciplina", nameWidth) + "  " + fmt.Sprintf("%8s", "Horas")
	if withCounts {
		header += fmt.Sprintf("  %5s  %5s", "Aulas", "Provas")
	}
	if _, err := fmt.Fprintln(w, paint(bold, header)); err != nil {
		return err
	}

	semester, total := 0, 0
	for _, r := range rows {
		if r.Semester != semester {
			semester = r.Semester
			if _, err := fmt.Fprintln(w, paint(bold+brightYellow, fmt.Sprintf("%dº Semestre", semester))); err != nil {
				return err
			}
		}
		line := "  " + padRight(r.Name, nameWidth) + "  " + fmt.Sprintf("%7dh", r.Workload)
		if withCounts {
			line += fmt.Sprintf("  %5s  %5s", optional(r.Classes), optional(r.Exams))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		total += r.Workload
	}

	footer := "  " + padRight("Total", nameWidth) + "  " + fmt.Sprintf("%7dh", total)
	_, err := fmt.Fprintln(w, paint(bold+brightGreen, footer))
	return err
}

func optional(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
