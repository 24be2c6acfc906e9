package shell

import "strings"

// ProcessEscapes decodes backslash escape sequences in a single left-to-right
// pass. Unrecognized sequences pass through untouched, backslash included,
// and a short or invalid \xHH sequence is emitted literally.
func ProcessEscapes(text string) string {
	if !strings.ContainsRune(text, '\\') {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			out.WriteByte(c)
			continue
		}

		i++
		switch text[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case 'a':
			out.WriteByte('\a')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case 'v':
			out.WriteByte('\v')
		case 'e':
			out.WriteByte(0x1b)
		case '\\':
			out.WriteByte('\\')
		case '\'':
			out.WriteByte('\'')
		case '"':
			out.WriteByte('"')
		case '0':
			out.WriteByte(0)
		case 'x':
			hi, okHi := hexDigit(byteAt(text, i+1))
			lo, okLo := hexDigit(byteAt(text, i+2))
			if okHi && okLo {
				out.WriteByte(hi<<4 | lo)
				i += 2
			} else {
				// Defensive: emit what was consumed rather than guessing.
				out.WriteString(`\x`)
			}
		default:
			out.WriteByte('\\')
			out.WriteByte(text[i])
		}
	}

	return out.String()
}

func byteAt(s string, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
