package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrUnsupportedFormat is returned when a file format is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrUnknownBackend is returned when an unknown PDF backend is requested.
var ErrUnknownBackend = errors.New("unknown PDF backend")

// Backend selects how PDF text is recovered.
type Backend string

const (
	// BackendText reads each page's plain text with ledongthuc/pdf.
	BackendText Backend = "text"
	// BackendContent decodes string operands from page content streams
	// extracted by pdfcpu.
	BackendContent Backend = "content"
)

// ParseBackend validates a backend name. An empty name selects BackendText.
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case "", BackendText:
		return BackendText, nil
	case BackendContent:
		return BackendContent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Options configures document loading.
type Options struct {
	Backend Backend
}

// Document represents a loaded document.
type Document struct {
	// Path is the source file path
	Path string
	// Name is the base filename
	Name string
	// Content is the extracted text, pages joined by a newline
	Content string
	// Pages is the number of pages read, 0 for plain text files
	Pages int
}

// LoadDirectory reads all supported documents from a directory.
// PDFs that cannot be read are logged and skipped.
func LoadDirectory(dir string, opts Options) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		switch kindOf(path) {
		case kindText:
			doc, err := loadTextFile(path)
			if err != nil {
				return nil, fmt.Errorf("load text file %q: %w", path, err)
			}
			docs = append(docs, doc)

		case kindPDF:
			doc, err := loadPDF(path, opts)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping PDF")
				continue
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// LoadFile reads a single document from the given path.
func LoadFile(path string, opts Options) (Document, error) {
	switch kindOf(path) {
	case kindText:
		return loadTextFile(path)
	case kindPDF:
		return loadPDF(path, opts)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadBytes reads a document held in memory. name is only used to pick the
// format and label the result.
func LoadBytes(name string, data []byte, opts Options) (Document, error) {
	switch kindOf(name) {
	case kindText:
		return Document{Path: name, Name: filepath.Base(name), Content: string(data)}, nil
	case kindPDF:
		content, pages, err := extractPDFBytes(data, opts.Backend)
		if err != nil {
			return Document{}, fmt.Errorf("extract PDF text from %q: %w", name, err)
		}
		return Document{Path: name, Name: filepath.Base(name), Content: content, Pages: pages}, nil
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindText
	kindPDF
)

func kindOf(path string) fileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt", ".markdown":
		return kindText
	case ".pdf":
		return kindPDF
	default:
		return kindUnsupported
	}
}

func loadTextFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read file %q: %w", path, err)
	}
	return Document{
		Path:    path,
		Name:    filepath.Base(path),
		Content: string(data),
	}, nil
}

func loadPDF(path string, opts Options) (Document, error) {
	content, pages, err := extractPDFFile(path, opts.Backend)
	if err != nil {
		return Document{}, fmt.Errorf("extract PDF text from %q: %w", path, err)
	}
	return Document{
		Path:    path,
		Name:    filepath.Base(path),
		Content: content,
		Pages:   pages,
	}, nil
}
