package shell

import "strings"

// Lexer splits a raw command line into typed tokens.
//
// The lexer never fails: malformed input produces a best-effort token stream
// and hard validation is left to the parser. An unclosed quote at end of
// input flushes the accumulated text as a final word and is reported through
// Unclosed so interactive callers can request a continuation line.
type Lexer struct {
	input    string
	tracker  QuoteTracker
	unclosed bool
}

// NewLexer returns a lexer over a single command line.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize is a convenience wrapper around NewLexer(line).Tokenize().
func Tokenize(line string) []Token {
	return NewLexer(line).Tokenize()
}

// Tokenize scans the whole line. The result always ends with exactly one EOF
// token; whitespace-only input yields just the EOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	var buf strings.Builder

	inWord := false
	plainText := false // any character outside single quotes
	wordStart := 0

	flush := func() {
		if !inWord {
			return
		}
		tokens = append(tokens, Token{
			Type:     TokenWord,
			Value:    buf.String(),
			Position: wordStart,
			Literal:  !plainText,
		})
		buf.Reset()
		inWord = false
		plainText = false
	}

	parenDepth := 0   // inside $(...) or $((...))
	inBacktick := false

	input := l.input
	for i := 0; i < len(input); i++ {
		c := input[i]

		// Multibyte sequences are always ordinary word content.
		if c >= 0x80 {
			if !inWord {
				inWord = true
				wordStart = i
			}
			plainText = plainText || l.tracker.quote != '\''
			buf.WriteByte(c)
			continue
		}

		// Inside a substitution, whitespace and operators are ordinary word
		// content; the expander re-parses the inner text at expansion time.
		if parenDepth > 0 {
			buf.WriteByte(c)
			if c == '(' {
				parenDepth++
			} else if c == ')' {
				parenDepth--
			}
			continue
		}
		if inBacktick {
			buf.WriteByte(c)
			if c == '`' {
				inBacktick = false
			}
			continue
		}

		wasEscaped := l.tracker.Escaped()
		inSingle := l.tracker.quote == '\''
		if l.tracker.ProcessChar(rune(c)) {
			// Quote or escape syntax: consumed, not content. An opening
			// quote still starts a word so that '' yields an empty word.
			if !inWord {
				inWord = true
				wordStart = i
			}
			continue
		}

		if wasEscaped || l.tracker.InQuotes() {
			if !inWord {
				inWord = true
				wordStart = i
			}
			if !inSingle || wasEscaped {
				plainText = true
			}
			buf.WriteByte(c)
			continue
		}

		// Unquoted, unescaped character.
		switch {
		case c == ' ' || c == '\t':
			flush()

		case c == '|':
			flush()
			tokens = append(tokens, Token{Type: TokenPipe, Value: "|", Position: i})

		case c == '#' && !inWord:
			// Comments start only at a word boundary; mid-word '#' is
			// literal.
			tokens = append(tokens, Token{Type: TokenComment, Value: input[i:], Position: i})
			i = len(input)

		default:
			if op, n := matchRedirect(input, i, inWord); n > 0 {
				flush()
				tokens = append(tokens, Token{Type: TokenRedirect, Value: op, Position: i})
				i += n - 1
				continue
			}
			if !inWord {
				inWord = true
				wordStart = i
			}
			plainText = true
			if c == '(' && strings.HasSuffix(buf.String(), "$") {
				parenDepth = 1
			}
			if c == '`' {
				inBacktick = true
			}
			buf.WriteByte(c)
		}
	}

	if l.tracker.InQuotes() || l.tracker.Escaped() || parenDepth > 0 || inBacktick {
		l.unclosed = true
	}
	flush()

	tokens = append(tokens, Token{Type: TokenEOF, Position: len(input)})
	return tokens
}

// Unclosed reports whether the last Tokenize call ended inside a quote or
// trailing escape. Callers running interactively use it to prompt for more
// input.
func (l *Lexer) Unclosed() bool {
	return l.unclosed
}

// matchRedirect recognizes the longest redirect operator starting at i, or
// returns n == 0 when input[i] does not begin one. Digit-prefixed forms
// (2>, 2>>, 2>&1) are only operators when the digit starts a new word.
func matchRedirect(input string, i int, inWord bool) (op string, n int) {
	rest := input[i:]

	if !inWord && len(rest) >= 2 && rest[0] >= '0' && rest[0] <= '9' {
		if sub, m := matchRedirect(rest, 1, false); m > 0 && sub[0] != '<' {
			return rest[:1] + sub, m + 1
		}
	}

	switch {
	case strings.HasPrefix(rest, ">&") && len(rest) > 2 && rest[2] >= '0' && rest[2] <= '9':
		return rest[:3], 3
	case strings.HasPrefix(rest, ">>"):
		return ">>", 2
	case strings.HasPrefix(rest, ">"):
		return ">", 1
	case strings.HasPrefix(rest, "<<"):
		return "<<", 2
	case strings.HasPrefix(rest, "<"):
		return "<", 1
	case strings.HasPrefix(rest, "&>"):
		return "&>", 2
	}
	return "", 0
}
