package curriculum

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the source document could not be
	// located or read.
	ErrSourceUnavailable = errors.New("source document unavailable")

	// ErrEmptyDocument is returned when the extracted text is empty or only
	// whitespace.
	ErrEmptyDocument = errors.New("no text could be extracted from the document; it may be scanned or protected")

	// ErrNoSubjects is returned when no recognizer found any subject.
	ErrNoSubjects = errors.New("no subjects found; check that the document contains a valid curriculum")
)

// Kind is the stable, machine-readable name of an extraction failure.
type Kind string

const (
	KindSourceUnavailable Kind = "source_unavailable"
	KindEmptyDocument     Kind = "empty_document"
	KindNoSubjects        Kind = "no_subjects_found"
	KindInternal          Kind = "internal"
)

// KindOf classifies err into one of the extraction failure kinds.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, ErrEmptyDocument):
		return KindEmptyDocument
	case errors.Is(err, ErrNoSubjects):
		return KindNoSubjects
	default:
		return KindInternal
	}
}

// Failure is the structured, user-facing form of an extraction error.
type Failure struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// NewFailure converts err into a Failure. It returns nil for a nil error.
func NewFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindOf(err), Message: err.Error()}
}

// Unavailable marks err as a source failure so that KindOf reports
// KindSourceUnavailable while the original cause stays in the chain.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}
