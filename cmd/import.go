package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akashicode/grade/internal/catalog"
	"github.com/akashicode/grade/internal/curriculum"
	"github.com/akashicode/grade/internal/display"
	"github.com/akashicode/grade/internal/export"
	"github.com/akashicode/grade/internal/importer"
	"github.com/akashicode/grade/internal/reader"
)

var importCmd = &cobra.Command{
	Use:   "import <course-id> <file>",
	Short: "Extract a document and store it as the curriculum of a course",
	Long: `Extracts the curriculum of <file> and replaces the stored curriculum of
<course-id> with it. Subjects keep the order in which they were extracted.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	courseID, err := parseCourseID(args[0])
	if err != nil {
		return err
	}
	backend, err := reader.ParseBackend(cfg.Reader.Backend)
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	im := importer.New(reader.Options{Backend: backend}, store)

	display.Step(1, 2, "Extracting "+args[1])
	a, err := im.ExtractFile(cmd.Context(), args[1])
	if err != nil {
		return reportFailure(os.Stdout, args[1], err)
	}
	display.StepResult("course:", a.Result.CourseName)
	display.StepResult("layout:", a.Format)
	display.StepResult("subjects:", len(a.Result.Subjects))
	display.StepResult("semesters:", a.Result.TotalSemesters)

	display.Step(2, 2, fmt.Sprintf("Saving curriculum of course %d (%s)", courseID, cfg.Store.Driver))
	if err := im.Save(cmd.Context(), courseID, catalog.EntriesFrom(a.Result.Subjects)); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("Stored %d subjects for course %d", len(a.Result.Subjects), courseID))
	return nil
}

func parseCourseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", catalog.ErrInvalidCourse, s)
	}
	return id, nil
}

// reportFailure prints the failure object of doc to w and returns a short
// error for the exit status. The failure details go to w only.
func reportFailure(w io.Writer, doc string, err error) error {
	if werr := export.WriteFailure(w, curriculum.NewFailure(err)); werr != nil {
		return werr
	}
	return fmt.Errorf("extraction of %q failed", doc)
}
