package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ANSI color codes
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	white  = "\033[37m"

	brightRed     = "\033[91m"
	brightGreen   = "\033[92m"
	brightYellow  = "\033[93m"
	brightBlue    = "\033[94m"
	brightMagenta = "\033[95m"
	brightCyan    = "\033[96m"
	brightWhite   = "\033[97m"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ServerInfo holds all the information to display in the startup banner.
type ServerInfo struct {
	Version string

	// Store
	StoreDriver string
	StorePath   string
	Courses     int

	// Extraction
	ReaderBackend  string
	ExtractTimeout string
	MaxUploadBytes int64

	Port int
}

// PrintBanner prints the startup banner of the HTTP API.
func PrintBanner(info ServerInfo) {
	w := os.Stdout
	host := fmt.Sprintf("http://localhost:%d", info.Port)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s%s📚 grade curriculum server%s\n", bold, brightCyan, reset)
	fmt.Fprintf(w, "  %s%s%s%s\n", dim, cyan, rule, reset)
	fmt.Fprintln(w)

	printSectionHeader(w, "🗄  Catalog")
	printKV(w, "Driver", info.StoreDriver, brightMagenta)
	if info.StorePath != "" {
		printKV(w, "Path", info.StorePath, dim+white)
	}
	printKVColored(w, "Courses", formatCount(info.Courses), brightGreen)
	fmt.Fprintln(w)

	printSectionHeader(w, "⚙️  Extraction")
	printKV(w, "Reader", info.ReaderBackend, brightMagenta)
	printKV(w, "Timeout", info.ExtractTimeout, white)
	printKV(w, "Max Upload", formatBytes(info.MaxUploadBytes), white)
	if info.Version != "" {
		printKV(w, "Version", info.Version, white)
	}
	fmt.Fprintln(w)

	printSectionHeader(w, "🌐 Endpoints")
	printEndpoint(w, "Extract", "POST", host+"/v1/curricula/extract", brightBlue)
	printEndpoint(w, "Catalog", "GET ", host+"/v1/courses/{id}/curriculum", brightCyan)
	printEndpoint(w, "Catalog", "PUT ", host+"/v1/courses/{id}/curriculum", brightMagenta)
	printEndpoint(w, "Health", "GET ", host+"/health", green)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s%s%s%s\n", dim, cyan, rule, reset)
	fmt.Fprintf(w, "  %s%s🚀 Server listening on %s%s%s%s\n", dim, white, reset, bold+brightGreen, host, reset)
	fmt.Fprintf(w, "  %s%s%s%s\n", dim, cyan, rule, reset)
	fmt.Fprintln(w)
}

func printSectionHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "  %s%s%s%s\n", bold, brightYellow, title, reset)
}

func printKV(w io.Writer, key, value, valueColor string) {
	fmt.Fprintf(w, "    %s%s%s  %s%s%s\n", dim, padRight(key, 18), reset, valueColor, value, reset)
}

func printKVColored(w io.Writer, key, value, valueColor string) {
	fmt.Fprintf(w, "    %s%s%s  %s%s%s%s\n", dim, padRight(key, 18), reset, bold, valueColor, value, reset)
}

func printEndpoint(w io.Writer, label, method, url, color string) {
	fmt.Fprintf(w, "    %s%s%s %s%s%-5s%s %s%s%s\n",
		dim, padRight(label, 8), reset,
		bold, brightWhite, method, reset,
		color, url, reset,
	)
}

// padRight pads s with spaces to n runes.
func padRight(s string, n int) string {
	width := utf8.RuneCountInString(s)
	if width >= n {
		return s
	}
	return s + strings.Repeat(" ", n-width)
}

func formatCount(n int) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%d (%0.1fM)", n, float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%d (%0.1fK)", n, float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
