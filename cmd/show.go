package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashicode/grade/internal/catalog"
	"github.com/akashicode/grade/internal/display"
	"github.com/akashicode/grade/internal/export"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show [course-id]",
	Short: "Print the stored curriculum of a course",
	Long: `Prints the stored curriculum of a course. Without a course id, lists the
courses that have a stored curriculum.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "table", "output format (table, json, yaml)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(showFormat)
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return showCourses(cmd, store, format)
	}

	courseID, err := parseCourseID(args[0])
	if err != nil {
		return err
	}
	entries, err := store.List(cmd.Context(), courseID)
	if err != nil {
		return err
	}

	if format != export.FormatTable {
		return export.Encode(os.Stdout, format, entries)
	}
	if len(entries) == 0 {
		display.Warn(fmt.Sprintf("Course %d has no stored curriculum", courseID))
		return nil
	}

	display.Header(fmt.Sprintf("Course %d", courseID))
	rows := make([]display.Row, len(entries))
	for i, e := range entries {
		rows[i] = display.Row{Semester: e.Semester, Name: e.SubjectName, Workload: e.Workload}
	}
	return display.Table(os.Stdout, rows, true)
}

func showCourses(cmd *cobra.Command, store catalog.Store, format export.Format) error {
	ids, err := store.Courses(cmd.Context())
	if err != nil {
		return err
	}
	if format != export.FormatTable {
		return export.Encode(os.Stdout, format, ids)
	}

	display.Header("Stored curricula")
	for _, id := range ids {
		entries, err := store.List(cmd.Context(), id)
		if err != nil {
			return err
		}
		display.KeyValue(fmt.Sprintf("Course %d", id), fmt.Sprintf("%d subjects", len(entries)))
	}
	if len(ids) == 0 {
		display.Warn("No curricula stored yet")
	}
	return nil
}
