// Package export renders extraction results as JSON, YAML, a spreadsheet or
// a terminal table.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/akashicode/grade/internal/curriculum"
	"github.com/akashicode/grade/internal/display"
)

// ErrUnknownFormat is returned for output formats that are not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
	FormatTable Format = "table"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatXLSX, FormatTable:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Binary reports whether the format must not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Write encodes result to w in the given format.
func Write(w io.Writer, format Format, result curriculum.Result) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatXLSX:
		return writeXLSX(w, result)
	case FormatTable:
		return writeTable(w, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encode writes an arbitrary value as JSON or YAML.
func Encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("%w: %q cannot encode %T", ErrUnknownFormat, format, v)
	}
}

// failureBody is the structured error printed for failed extractions.
type failureBody struct {
	Error string          `json:"error"`
	Kind  curriculum.Kind `json:"kind"`
}

// WriteFailure prints the structured form of a failed extraction as JSON.
func WriteFailure(w io.Writer, failure *curriculum.Failure) error {
	if failure == nil {
		return nil
	}
	return writeJSON(w, failureBody{Error: failure.Message, Kind: failure.Kind})
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, result curriculum.Result) error {
	if _, err := fmt.Fprintf(w, "%s (%d semestres)\n", result.CourseName, result.TotalSemesters); err != nil {
		return err
	}
	return display.Table(w, display.RowsOf(result.Subjects), false)
}
