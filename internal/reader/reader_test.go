package reader

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestPDF renders one text line per cell, one slice per page.
func writeTestPDF(t *testing.T, dir string, pages [][]string) string {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 11)
	for _, lines := range pages {
		doc.AddPage()
		for _, l := range lines {
			doc.CellFormat(0, 8, l, "", 1, "L", false, 0, "")
		}
	}

	path := filepath.Join(dir, "curriculum.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

var testPages = [][]string{
	{"DISCIPLINAS", "HISTORIA 72h"},
	{"MATEMATICA 60h"},
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr bool
	}{
		{input: "", want: BackendText},
		{input: "text", want: BackendText},
		{input: " CONTENT ", want: BackendContent},
		{input: "ocr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grade.txt")
	require.NoError(t, os.WriteFile(path, []byte("MÓDULO 1\nARTES\n30\n"), 0644))

	doc, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "grade.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, "MÓDULO 1\nARTES\n30\n", doc.Content)
	assert.Zero(t, doc.Pages)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "grade.docx"), Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"), Options{})
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = LoadFile(writeTestPDF(t, dir, testPages), Options{Backend: "ocr"})
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestLoadFile_PDF(t *testing.T) {
	path := writeTestPDF(t, t.TempDir(), testPages)

	for _, backend := range []Backend{BackendText, BackendContent} {
		t.Run(string(backend), func(t *testing.T) {
			doc, err := LoadFile(path, Options{Backend: backend})
			require.NoError(t, err)
			assert.Equal(t, "curriculum.pdf", doc.Name)
			assert.Contains(t, doc.Content, "DISCIPLINAS")
			assert.Contains(t, doc.Content, "MATEMATICA")
			assert.Equal(t, 2, doc.Pages)
		})
	}
}

func TestLoadBytes(t *testing.T) {
	data, err := os.ReadFile(writeTestPDF(t, t.TempDir(), testPages))
	require.NoError(t, err)

	doc, err := LoadBytes("upload.pdf", data, Options{})
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "HISTORIA")

	doc, err = LoadBytes("notes.txt", []byte("SEMESTRE 1"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "SEMESTRE 1", doc.Content)

	_, err = LoadBytes("upload.pdf", []byte("not a pdf"), Options{})
	require.Error(t, err)

	_, err = LoadBytes("sheet.xlsx", data, Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.pdf"), []byte("not a pdf"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.csv"), []byte("d"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	docs, err := LoadDirectory(dir, Options{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].Name)
	assert.Equal(t, "b.md", docs[1].Name)

	_, err = LoadDirectory(filepath.Join(dir, "missing"), Options{})
	require.Error(t, err)
}

func TestDecodeContentStream(t *testing.T) {
	stream := "BT /F1 12 Tf 72 700 Td (L\\315NGUA PORTUGUESA 350h 37 3) Tj ET\n" +
		"BT 72 680 Td [(HIST) -20 (\\323RIA) -300 (72h)] TJ ET\n" +
		"% comment (ignored) Tj\n" +
		"BT 72 660 Td (A\\(B\\)) Tj 0 -14 Td (C\\101) Tj ET\n" +
		"BT 1 0 0 1 72 640 Tm (X) Tj 50 0 Td (Y) Tj 1 0 0 1 72 620 Tm <48656c6c6f> Tj (Z) Tj ET\n"

	want := "LÍNGUA PORTUGUESA 350h 37 3\n" +
		"HISTÓRIA 72h\n" +
		"A(B)\n" +
		"CA\n" +
		"X Y\n" +
		"Z\n"
	assert.Equal(t, want, decodeContentStream([]byte(stream)))
}

func TestPageNumber(t *testing.T) {
	assert.Equal(t, 10, pageNumber("doc_Content_page_10.txt"))
	assert.Equal(t, 2, pageNumber("doc_Content_page_2.txt"))
	assert.Equal(t, 0, pageNumber("other.txt"))
}
