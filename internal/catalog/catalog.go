// Package catalog persists the curriculum of each course as an ordered list
// of subject entries.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akashicode/grade/internal/config"
	"github.com/akashicode/grade/internal/curriculum"
)

var (
	// ErrInvalidCourse is returned for course ids that are not positive.
	ErrInvalidCourse = errors.New("invalid course id")
	// ErrInvalidEntry is returned when an entry fails validation.
	ErrInvalidEntry = errors.New("invalid curriculum entry")
	// ErrUnknownDriver is returned by Open for unsupported store drivers.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Entry is one stored subject of a course curriculum.
type Entry struct {
	Order       int    `json:"order" yaml:"order"`
	Semester    int    `json:"semester" yaml:"semester"`
	SubjectName string `json:"subjectName" yaml:"subjectName"`
	Workload    int    `json:"workload" yaml:"workload"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Store is a curriculum catalog backend.
type Store interface {
	// Replace drops every entry of the course and stores entries in its place.
	Replace(ctx context.Context, courseID int64, entries []Entry) error
	// List returns the entries of a course sorted by Order.
	List(ctx context.Context, courseID int64) ([]Entry, error)
	// Courses returns the ids of courses with at least one entry, ascending.
	Courses(ctx context.Context) ([]int64, error)
	Close() error
}

// EntriesFrom numbers subjects in list order.
func EntriesFrom(subjects []curriculum.Subject) []Entry {
	entries := make([]Entry, len(subjects))
	for i, s := range subjects {
		entries[i] = Entry{
			Order:       i,
			Semester:    s.Semester,
			SubjectName: s.SubjectName,
			Workload:    s.Workload,
		}
	}
	return entries
}

// Open returns the store selected by cfg.Driver.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "graph":
		return NewGraphStore(cfg.Path)
	case "memory":
		return NewMemoryStore()
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Validate checks a course id and its entries before they are written.
func Validate(courseID int64, entries []Entry) error {
	if courseID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCourse, courseID)
	}
	for i, e := range entries {
		switch {
		case strings.TrimSpace(e.SubjectName) == "":
			return fmt.Errorf("%w: entry %d has no subject name", ErrInvalidEntry, i)
		case e.Semester <= 0:
			return fmt.Errorf("%w: entry %d has semester %d", ErrInvalidEntry, i, e.Semester)
		case e.Workload < 0:
			return fmt.Errorf("%w: entry %d has workload %d", ErrInvalidEntry, i, e.Workload)
		}
	}
	return nil
}
