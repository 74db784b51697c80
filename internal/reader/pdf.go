package reader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDFFile returns the text of every page of the PDF at path, pages
// joined by a newline, and the number of pages read.
func extractPDFFile(path string, backend Backend) (string, int, error) {
	switch backend {
	case "", BackendText:
		f, r, err := pdf.Open(path)
		if err != nil {
			return "", 0, fmt.Errorf("open PDF: %w", err)
		}
		defer f.Close()
		return plainText(r)
	case BackendContent:
		return contentStreamText(path)
	default:
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func extractPDFBytes(data []byte, backend Backend) (string, int, error) {
	switch backend {
	case "", BackendText:
		r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return "", 0, fmt.Errorf("open PDF: %w", err)
		}
		return plainText(r)
	case BackendContent:
		// pdfcpu extracts content streams from files only
		tmp, err := os.CreateTemp("", "grade-upload-*.pdf")
		if err != nil {
			return "", 0, fmt.Errorf("create temp file: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return "", 0, fmt.Errorf("write temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return "", 0, fmt.Errorf("close temp file: %w", err)
		}
		return contentStreamText(tmp.Name())
	default:
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// plainText reads the plain text layer page by page. Pages that fail to
// decode are skipped. The pdf package panics on some malformed files, so the
// panic is turned into an error.
func plainText(r *pdf.Reader) (text string, pages int, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, pages, err = "", 0, fmt.Errorf("read PDF: %v", p)
		}
	}()

	total := r.NumPage()
	parts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n"), total, nil
}

var rePageNumber = regexp.MustCompile(`page_(\d+)`)

// contentStreamText extracts page content streams with pdfcpu and decodes
// the strings shown by their text operators.
func contentStreamText(path string) (string, int, error) {
	tmpDir, err := os.MkdirTemp("", "grade-pdf-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ExtractContentFile(path, tmpDir, nil, conf); err != nil {
		return "", 0, fmt.Errorf("extract PDF content: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", 0, fmt.Errorf("read temp dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	// ReadDir sorts by name, which puts page_10 before page_2.
	sort.SliceStable(files, func(i, j int) bool {
		return pageNumber(files[i]) < pageNumber(files[j])
	})

	pages := make([]string, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(tmpDir, name))
		if err != nil {
			continue
		}
		pages = append(pages, decodeContentStream(data))
	}
	return strings.Join(pages, "\n"), len(pages), nil
}

func pageNumber(name string) int {
	m := rePageNumber.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
