package reader

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// kerningSpace is the TJ adjustment (thousandths of text space) below which
// a gap between two strings is read as a word space.
const kerningSpace = -200

// decodeContentStream returns the text shown by a page content stream, one
// output line per text line. Literal strings are decoded as WinAnsi; hex
// strings are skipped since they need the font's encoding tables.
func decodeContentStream(stream []byte) string {
	var (
		out      strings.Builder
		line     strings.Builder
		pending  []byte
		operands []float64
		inArray  bool
		lastY    float64
		haveY    bool
	)

	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}
	show := func() {
		if len(pending) == 0 {
			return
		}
		if line.Len() > 0 && pending[0] != ' ' && !strings.HasSuffix(line.String(), " ") {
			line.WriteByte(' ')
		}
		line.WriteString(winAnsi(pending))
		pending = pending[:0]
	}

	for i := 0; i < len(stream); {
		c := stream[i]
		switch {
		case c == '(':
			s, n := readLiteral(stream[i:])
			pending = append(pending, s...)
			i += n
			continue
		case c == '<':
			i = skipPast(stream, i, '>')
			continue
		case c == '%':
			i = skipPast(stream, i, '\n')
			continue
		case c == '/':
			i++
			for i < len(stream) && !isDelimiter(stream[i]) {
				i++
			}
			continue
		case c == '[':
			inArray = true
			i++
			continue
		case c == ']':
			inArray = false
			i++
			continue
		case isNumberStart(c):
			j := i + 1
			for j < len(stream) && (isDigit(stream[j]) || stream[j] == '.') {
				j++
			}
			if v, err := strconv.ParseFloat(string(stream[i:j]), 64); err == nil {
				if inArray {
					if v < kerningSpace && len(pending) > 0 {
						pending = append(pending, ' ')
					}
				} else {
					operands = append(operands, v)
				}
			}
			i = j
			continue
		case isOperatorChar(c):
			j := i + 1
			for j < len(stream) && isOperatorChar(stream[j]) {
				j++
			}
			op := string(stream[i:j])
			i = j

			switch op {
			case "Tj", "TJ":
				show()
			case "'", "\"":
				flush()
				show()
			case "T*":
				flush()
			case "Td", "TD":
				if len(operands) >= 2 && operands[len(operands)-1] != 0 {
					flush()
				}
			case "Tm":
				if len(operands) >= 6 {
					y := operands[len(operands)-1]
					if !haveY || y != lastY {
						flush()
					}
					lastY, haveY = y, true
				}
			}
			operands = operands[:0]
			continue
		}
		i++
	}
	show()
	flush()
	return out.String()
}

// readLiteral decodes a PDF literal string starting at b[0] == '(' and
// returns its bytes and the number of input bytes consumed.
func readLiteral(b []byte) ([]byte, int) {
	var out []byte
	depth := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '(':
			depth++
			if depth > 1 {
				out = append(out, c)
			}
		case ')':
			depth--
			if depth == 0 {
				return out, i + 1
			}
			out = append(out, c)
		case '\\':
			if i+1 >= len(b) {
				return out, len(b)
			}
			i++
			switch e := b[i]; e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
				// line continuation
				if e == '\r' && i+1 < len(b) && b[i+1] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					v := 0
					k := 0
					for k < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7' {
						v = v*8 + int(b[i]-'0')
						i++
						k++
					}
					i--
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out, len(b)
}

func winAnsi(b []byte) string {
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func skipPast(b []byte, i int, end byte) int {
	for i < len(b) && b[i] != end {
		i++
	}
	return i + 1
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberStart(c byte) bool { return isDigit(c) || c == '-' || c == '+' || c == '.' }

func isOperatorChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*' || c == '\'' || c == '"'
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
