package shell

import "fmt"

// TokenType classifies lexer output.
type TokenType string

const (
	TokenWord     TokenType = "word"
	TokenPipe     TokenType = "pipe"
	TokenRedirect TokenType = "redirect"
	TokenComment  TokenType = "comment"
	TokenEOF      TokenType = "eof"
)

// Token is a single lexeme. Position is the byte offset of the token's first
// character in the source line; it and Literal are metadata only and excluded
// from equality.
type Token struct {
	Type     TokenType
	Value    string
	Position int

	// Literal marks a word whose every character came from inside single
	// quotes. Such words bypass variable and command substitution.
	Literal bool
}

// Equal reports whether two tokens match by type and value.
func (t Token) Equal(other Token) bool {
	return t.Type == other.Type && t.Value == other.Value
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, pos=%d)", t.Type, t.Value, t.Position)
}

// QuoteTracker follows quote and escape state character by character.
//
// Invariant: escaped is true only for the single character immediately
// following an unescaped backslash outside single quotes; single quotes
// suppress escape processing entirely.
type QuoteTracker struct {
	quote   rune // 0, '\'' or '"'
	escaped bool
}

// ProcessChar advances the tracker by one character and reports whether the
// character is quote/escape syntax (true) or ordinary content (false).
func (q *QuoteTracker) ProcessChar(c rune) bool {
	if q.escaped {
		q.escaped = false
		return false
	}

	switch c {
	case '\\':
		if q.quote != '\'' {
			q.escaped = true
			return true
		}
	case '\'':
		switch q.quote {
		case 0:
			q.quote = '\''
			return true
		case '\'':
			q.quote = 0
			return true
		}
	case '"':
		switch q.quote {
		case 0:
			q.quote = '"'
			return true
		case '"':
			q.quote = 0
			return true
		}
	}
	return false
}

// InQuotes reports whether the tracker is inside a quoted region.
func (q *QuoteTracker) InQuotes() bool {
	return q.quote != 0
}

// Escaped reports whether the next character is escaped.
func (q *QuoteTracker) Escaped() bool {
	return q.escaped
}

// AllowsVariableExpansion reports whether $VAR expansion applies at the
// current position. Disabled only inside single quotes.
func (q *QuoteTracker) AllowsVariableExpansion() bool {
	return q.quote != '\''
}

// AllowsCommandSubstitution reports whether $(cmd) substitution applies at
// the current position. Disabled only inside single quotes.
func (q *QuoteTracker) AllowsCommandSubstitution() bool {
	return q.quote != '\''
}

// AllowsGlobExpansion reports whether glob patterns expand at the current
// position. Disabled inside any quote.
func (q *QuoteTracker) AllowsGlobExpansion() bool {
	return q.quote == 0
}

// Reset returns the tracker to its initial unquoted state.
func (q *QuoteTracker) Reset() {
	q.quote = 0
	q.escaped = false
}
