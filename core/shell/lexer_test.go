package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordValues(tokens []Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Type == TokenWord {
			out = append(out, tok.Value)
		}
	}
	return out
}

func countType(tokens []Token, tt TokenType) int {
	n := 0
	for _, tok := range tokens {
		if tok.Type == tt {
			n++
		}
	}
	return n
}

func TestTokenize_Empty(t *testing.T) {
	for _, input := range []string{"", " ", "\t", "   \t  "} {
		tokens := Tokenize(input)
		require.Len(t, tokens, 1, "input %q", input)
		assert.Equal(t, TokenEOF, tokens[0].Type)
	}
}

func TestTokenize_Words(t *testing.T) {
	tokens := Tokenize("a b c")
	require.Len(t, tokens, 4)
	assert.Equal(t, []string{"a", "b", "c"}, wordValues(tokens))
	assert.Equal(t, TokenEOF, tokens[3].Type)
}

func TestTokenize_WhitespaceCollapses(t *testing.T) {
	tokens := Tokenize("  echo   hello  ")
	assert.Equal(t, []string{"echo", "hello"}, wordValues(tokens))
}

func TestTokenize_Positions(t *testing.T) {
	tokens := Tokenize("echo hello")
	require.Len(t, tokens, 3)
	assert.Equal(t, 0, tokens[0].Position)
	assert.Equal(t, 5, tokens[1].Position)
	assert.Equal(t, 10, tokens[2].Position)
}

func TestTokenize_Pipe(t *testing.T) {
	tokens := Tokenize("echo | cat")
	assert.Equal(t, 1, countType(tokens, TokenPipe))
	assert.Equal(t, []string{"echo", "cat"}, wordValues(tokens))

	// No spaces around the pipe.
	tokens = Tokenize("echo|cat")
	assert.Equal(t, 1, countType(tokens, TokenPipe))
	assert.Equal(t, []string{"echo", "cat"}, wordValues(tokens))
}

func TestTokenize_Quotes(t *testing.T) {
	tokens := Tokenize("'hello world'")
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenWord, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Value)
	assert.True(t, tokens[0].Literal)

	tokens = Tokenize(`"hello world"`)
	require.Len(t, tokens, 2)
	assert.Equal(t, "hello world", tokens[0].Value)
	assert.False(t, tokens[0].Literal)

	tokens = Tokenize(`echo 'hello' "world"`)
	assert.Equal(t, []string{"echo", "hello", "world"}, wordValues(tokens))
}

func TestTokenize_EmptyQuotesMakeEmptyWord(t *testing.T) {
	tokens := Tokenize("echo ''")
	assert.Equal(t, []string{"echo", ""}, wordValues(tokens))
}

func TestTokenize_QuotedOperatorsAreLiteral(t *testing.T) {
	tokens := Tokenize(`echo "a | b" '>'`)
	assert.Zero(t, countType(tokens, TokenPipe))
	assert.Zero(t, countType(tokens, TokenRedirect))
	assert.Equal(t, []string{"echo", "a | b", ">"}, wordValues(tokens))
}

func TestTokenize_Escapes(t *testing.T) {
	// Escaped quote inside double quotes stays part of the word.
	tokens := Tokenize(`"hello\"world"`)
	assert.Equal(t, []string{`hello"world`}, wordValues(tokens))

	// Escaped space joins words.
	tokens = Tokenize(`hello\ world`)
	assert.Equal(t, []string{"hello world"}, wordValues(tokens))

	// Escaped pipe is literal.
	tokens = Tokenize(`echo \|`)
	assert.Zero(t, countType(tokens, TokenPipe))
	assert.Equal(t, []string{"echo", "|"}, wordValues(tokens))
}

func TestTokenize_Redirects(t *testing.T) {
	cases := []struct {
		input string
		ops   []string
		words []string
	}{
		{"echo > file.txt", []string{">"}, []string{"echo", "file.txt"}},
		{"echo >> file.txt", []string{">>"}, []string{"echo", "file.txt"}},
		{"cat < in.txt", []string{"<"}, []string{"cat", "in.txt"}},
		{"cmd < in.txt > out.txt 2>&1", []string{"<", ">", "2>&1"}, []string{"cmd", "in.txt", "out.txt"}},
		{"cmd 2> err.log", []string{"2>"}, []string{"cmd", "err.log"}},
		{"cmd 2>> err.log", []string{"2>>"}, []string{"cmd", "err.log"}},
		{"echo>out", []string{">"}, []string{"echo", "out"}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			var ops []string
			for _, tok := range Tokenize(tc.input) {
				if tok.Type == TokenRedirect {
					ops = append(ops, tok.Value)
				}
			}
			assert.Equal(t, tc.ops, ops)
			assert.Equal(t, tc.words, wordValues(Tokenize(tc.input)))
		})
	}
}

func TestTokenize_MaximalMunch(t *testing.T) {
	tokens := Tokenize("echo >> f")
	require.Equal(t, 1, countType(tokens, TokenRedirect))
	for _, tok := range tokens {
		if tok.Type == TokenRedirect {
			assert.Equal(t, ">>", tok.Value)
		}
	}
}

func TestTokenize_Comments(t *testing.T) {
	tokens := Tokenize("echo hello # trailing comment")
	assert.Equal(t, 1, countType(tokens, TokenComment))
	assert.Equal(t, []string{"echo", "hello"}, wordValues(tokens))

	// A comment consumes the rest of the line.
	for _, tok := range tokens {
		if tok.Type == TokenComment {
			assert.Equal(t, "# trailing comment", tok.Value)
		}
	}

	// Mid-word '#' is literal.
	tokens = Tokenize("echo foo#bar")
	assert.Zero(t, countType(tokens, TokenComment))
	assert.Equal(t, []string{"echo", "foo#bar"}, wordValues(tokens))

	// Start of line.
	tokens = Tokenize("# whole line")
	assert.Equal(t, 1, countType(tokens, TokenComment))
	assert.Empty(t, wordValues(tokens))
}

func TestTokenize_UnclosedQuoteRecovers(t *testing.T) {
	lexer := NewLexer(`echo "unterminated`)
	tokens := lexer.Tokenize()
	assert.True(t, lexer.Unclosed())
	assert.Equal(t, []string{"echo", "unterminated"}, wordValues(tokens))
	assert.Equal(t, TokenEOF, tokens[len(tokens)-1].Type)
}

func TestTokenize_DollarFormsStayInWords(t *testing.T) {
	tokens := Tokenize("echo $HOME ${USER} $((1 + 2))")
	words := wordValues(tokens)
	assert.Contains(t, words, "$HOME")
	assert.Contains(t, words, "${USER}")
	assert.Contains(t, words, "$((1 + 2))", "substitutions keep their internal spaces")
}

func TestTokenize_SubstitutionsGlueWords(t *testing.T) {
	tokens := Tokenize("echo $(cat f | wc) tail")
	assert.Equal(t, []string{"echo", "$(cat f | wc)", "tail"}, wordValues(tokens))
	assert.Equal(t, 0, countType(tokens, TokenPipe), "pipes inside substitutions are content")

	tokens = Tokenize("N=$(($N + 1))")
	assert.Equal(t, []string{"N=$(($N + 1))"}, wordValues(tokens))

	tokens = Tokenize("echo `date +%s` done")
	assert.Equal(t, []string{"echo", "`date +%s`", "done"}, wordValues(tokens))

	tokens = Tokenize("echo $(pwd)/sub")
	assert.Equal(t, []string{"echo", "$(pwd)/sub"}, wordValues(tokens))
}

func TestTokenize_UnclosedSubstitutionFlagged(t *testing.T) {
	for _, input := range []string{"echo $(pwd", "echo $((1 + 2", "echo `date"} {
		lexer := NewLexer(input)
		lexer.Tokenize()
		assert.True(t, lexer.Unclosed(), input)
	}
}

func TestToken_Equal(t *testing.T) {
	a := Token{Type: TokenWord, Value: "hello"}
	b := Token{Type: TokenWord, Value: "hello", Position: 42}
	c := Token{Type: TokenWord, Value: "world"}
	d := Token{Type: TokenPipe, Value: "hello"}

	assert.True(t, a.Equal(b), "position is excluded from equality")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestQuoteTracker(t *testing.T) {
	t.Run("initial state", func(t *testing.T) {
		var q QuoteTracker
		assert.False(t, q.InQuotes())
		assert.True(t, q.AllowsVariableExpansion())
		assert.True(t, q.AllowsCommandSubstitution())
		assert.True(t, q.AllowsGlobExpansion())
	})

	t.Run("single quotes gate everything", func(t *testing.T) {
		var q QuoteTracker
		q.ProcessChar('\'')
		assert.True(t, q.InQuotes())
		assert.False(t, q.AllowsVariableExpansion())
		assert.False(t, q.AllowsCommandSubstitution())
		assert.False(t, q.AllowsGlobExpansion())

		q.ProcessChar('\'')
		assert.False(t, q.InQuotes())
		assert.True(t, q.AllowsVariableExpansion())
	})

	t.Run("double quotes allow expansion but not glob", func(t *testing.T) {
		var q QuoteTracker
		q.ProcessChar('"')
		assert.True(t, q.InQuotes())
		assert.True(t, q.AllowsVariableExpansion())
		assert.True(t, q.AllowsCommandSubstitution())
		assert.False(t, q.AllowsGlobExpansion())
	})

	t.Run("expansion stays off inside unterminated single quote", func(t *testing.T) {
		var q QuoteTracker
		q.ProcessChar('\'')
		for _, c := range "echo $HOME $(pwd) *" {
			q.ProcessChar(c)
			assert.False(t, q.AllowsVariableExpansion())
		}
	})

	t.Run("escaped quote does not open a region", func(t *testing.T) {
		var q QuoteTracker
		q.ProcessChar('\\')
		assert.True(t, q.Escaped())
		q.ProcessChar('"')
		assert.False(t, q.InQuotes())
		assert.False(t, q.Escaped())
	})

	t.Run("no escape handling inside single quotes", func(t *testing.T) {
		var q QuoteTracker
		q.ProcessChar('\'')
		q.ProcessChar('\\')
		assert.False(t, q.Escaped())
	})

	t.Run("reset", func(t *testing.T) {
		var q QuoteTracker
		q.ProcessChar('\'')
		q.Reset()
		assert.False(t, q.InQuotes())
	})

	t.Run("mixed sequence ends unquoted", func(t *testing.T) {
		var q QuoteTracker
		for _, c := range `echo 'hello' "world"` {
			q.ProcessChar(c)
		}
		assert.False(t, q.InQuotes())
	})
}
