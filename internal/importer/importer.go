// Package importer runs the extraction engine over documents and saves the
// resulting curricula to the catalog.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/akashicode/grade/internal/catalog"
	"github.com/akashicode/grade/internal/curriculum"
	"github.com/akashicode/grade/internal/reader"
)

// ErrEmptyCurriculum is returned when saving a curriculum with no subjects.
var ErrEmptyCurriculum = errors.New("curriculum has no subjects")

// Importer ties document reading, extraction and storage together.
type Importer struct {
	opts  reader.Options
	store catalog.Store
}

// New creates an Importer. store may be nil when only extraction is needed.
func New(opts reader.Options, store catalog.Store) *Importer {
	return &Importer{opts: opts, store: store}
}

// ExtractFile reads the document at path and extracts its curriculum.
func (im *Importer) ExtractFile(ctx context.Context, path string) (curriculum.Analysis, error) {
	doc, err := reader.LoadFile(path, im.opts)
	if err != nil {
		return curriculum.Analysis{}, curriculum.Unavailable(err)
	}
	return im.ExtractDocument(ctx, doc)
}

// ExtractBytes extracts the curriculum of an in-memory document. name
// selects the decoder by extension.
func (im *Importer) ExtractBytes(ctx context.Context, name string, data []byte) (curriculum.Analysis, error) {
	doc, err := reader.LoadBytes(name, data, im.opts)
	if err != nil {
		return curriculum.Analysis{}, curriculum.Unavailable(err)
	}
	return im.ExtractDocument(ctx, doc)
}

// ExtractDocument extracts the curriculum of an already loaded document.
func (im *Importer) ExtractDocument(ctx context.Context, doc reader.Document) (curriculum.Analysis, error) {
	log.Debug().
		Str("document", doc.Name).
		Int("pages", doc.Pages).
		Int("chars", len(doc.Content)).
		Msg("document loaded")
	return im.ExtractText(ctx, doc.Content)
}

// ExtractText extracts the curriculum contained in text.
func (im *Importer) ExtractText(ctx context.Context, text string) (curriculum.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return curriculum.Analysis{}, err
	}

	a, err := curriculum.Analyze(text)

	counts := a.Counts()
	event := log.Debug().
		Int(string(curriculum.FormatInlineTable), counts[curriculum.FormatInlineTable]).
		Int(string(curriculum.FormatAlternatingLines), counts[curriculum.FormatAlternatingLines]).
		Int(string(curriculum.FormatSemesterSections), counts[curriculum.FormatSemesterSections])
	if err != nil {
		event.Str("kind", string(curriculum.KindOf(err))).Msg("extraction failed")
		return a, err
	}
	event.
		Str("winner", string(a.Format)).
		Str("course", a.Result.CourseName).
		Int("subjects", len(a.Result.Subjects)).
		Msg("curriculum extracted")
	return a, nil
}

// Save replaces the stored curriculum of a course with entries, numbering
// them in list order. Descriptions are stored as given.
func (im *Importer) Save(ctx context.Context, courseID int64, entries []catalog.Entry) error {
	if im.store == nil {
		return errors.New("importer has no catalog store")
	}
	if courseID <= 0 {
		return fmt.Errorf("%w: %d", catalog.ErrInvalidCourse, courseID)
	}
	if len(entries) == 0 {
		return ErrEmptyCurriculum
	}

	ordered := make([]catalog.Entry, len(entries))
	for i, e := range entries {
		e.Order = i
		ordered[i] = e
	}
	if err := im.store.Replace(ctx, courseID, ordered); err != nil {
		return fmt.Errorf("save curriculum: %w", err)
	}
	log.Info().Int64("course", courseID).Int("subjects", len(ordered)).Msg("curriculum saved")
	return nil
}

// Load returns the stored curriculum of a course.
func (im *Importer) Load(ctx context.Context, courseID int64) ([]catalog.Entry, error) {
	if im.store == nil {
		return nil, errors.New("importer has no catalog store")
	}
	entries, err := im.store.List(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}
	return entries, nil
}
