package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akashicode/grade/internal/curriculum"
	"github.com/akashicode/grade/internal/display"
	"github.com/akashicode/grade/internal/export"
	"github.com/akashicode/grade/internal/importer"
	"github.com/akashicode/grade/internal/reader"
)

var (
	extractFormat  string
	extractOutput  string
	extractBackend string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file|dir>...",
	Short: "Extract the curriculum of one or more documents",
	Long: `Reads each document (PDF, .txt or .md), recognizes its curriculum layout
and prints the result. Directories are scanned for supported documents.

With a single input, --output names the file to write. With several inputs,
--output names a directory that receives one file per document.

Failed documents are reported as {"error", "kind"} JSON and make the command
exit with a non-zero status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "output format (json, yaml, table, xlsx)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output file, or directory for several inputs")
	extractCmd.Flags().StringVar(&extractBackend, "backend", "", "PDF text backend (text, content); overrides reader.backend")
	rootCmd.AddCommand(extractCmd)
}

// extraction is the outcome for one document.
type extraction struct {
	path     string
	analysis curriculum.Analysis
	err      error
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(extractFormat)
	if err != nil {
		return err
	}
	if format.Binary() && extractOutput == "" {
		return fmt.Errorf("--format %s requires --output", format)
	}

	backendName := cfg.Reader.Backend
	if extractBackend != "" {
		backendName = extractBackend
	}
	backend, err := reader.ParseBackend(backendName)
	if err != nil {
		return err
	}
	opts := reader.Options{Backend: backend}
	im := importer.New(opts, nil)

	var results []extraction
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			a, err := im.ExtractFile(cmd.Context(), arg)
			results = append(results, extraction{path: arg, analysis: a, err: err})
			continue
		}

		docs, err := reader.LoadDirectory(arg, opts)
		if err != nil {
			results = append(results, extraction{path: arg, err: curriculum.Unavailable(err)})
			continue
		}
		for _, doc := range docs {
			a, err := im.ExtractDocument(cmd.Context(), doc)
			results = append(results, extraction{path: doc.Path, analysis: a, err: err})
		}
	}
	if len(results) == 0 {
		return errors.New("no supported documents found")
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			if err := export.WriteFailure(os.Stdout, curriculum.NewFailure(r.err)); err != nil {
				return err
			}
			continue
		}
		if err := writeExtraction(r, format, len(results) > 1); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func writeExtraction(r extraction, format export.Format, many bool) error {
	if extractOutput == "" {
		if many && format == export.FormatTable {
			display.Header(r.path)
		}
		return export.Write(os.Stdout, format, r.analysis.Result)
	}

	path := extractOutput
	if many {
		if err := os.MkdirAll(extractOutput, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		base := strings.TrimSuffix(filepath.Base(r.path), filepath.Ext(r.path))
		path = filepath.Join(extractOutput, base+"."+extensionOf(format))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := export.Write(f, format, r.analysis.Result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	display.FileCreated(path)
	return nil
}

func extensionOf(format export.Format) string {
	if format == export.FormatTable {
		return "txt"
	}
	return string(format)
}
