package curriculum

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Recognizer extracts subjects from the lines of a document laid out in one
// particular format. Implementations keep all scan state local to a call.
type Recognizer interface {
	Format() Format
	Recognize(lines []string) []Subject
}

// Recognizers returns the built-in recognizers in arbitration priority order.
func Recognizers() []Recognizer {
	return []Recognizer{
		InlineTable{},
		AlternatingLines{},
		SemesterSections{},
	}
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsLetter(r)
}

// atoi parses a non-negative decimal, rejecting values that overflow int.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
