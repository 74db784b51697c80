package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/akashicode/grade/internal/curriculum"
)

// SheetName is the worksheet holding the exported curriculum.
const SheetName = "Curriculum"

var sheetHeader = []interface{}{"Semestre", "Disciplina", "Carga Horária", "Aulas", "Provas"}

// writeXLSX writes a workbook with the course name in A1, a header row and
// one row per subject.
func writeXLSX(w io.Writer, result curriculum.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{{result.CourseName}, sheetHeader}
	for _, s := range result.Subjects {
		row := []interface{}{s.Semester, s.SubjectName, s.Workload}
		if s.NumClasses != nil || s.NumExams != nil {
			row = append(row, countCell(s.NumClasses), countCell(s.NumExams))
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func countCell(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}
