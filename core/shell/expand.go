package shell

import (
	"strconv"
	"strings"
)

// maxExpandDepth bounds recursive expansion of nested constructs so that
// adversarial input (deeply nested ${} or $(( ))) cannot blow the stack.
// Past the limit the remaining text passes through literally.
const maxExpandDepth = 32

// VarSource provides variable values to the expander.
type VarSource interface {
	Get(name string) string
	Has(name string) bool
}

// Executor runs a command line and captures its standard output for command
// substitution. Expansion blocks until the command completes.
type Executor interface {
	Execute(command string) (exitCode int, stdout []byte)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(command string) (int, []byte)

func (f ExecutorFunc) Execute(command string) (int, []byte) {
	return f(command)
}

// Expander resolves $VAR, ${VAR}, ${VAR:-default}, $((arith)), $(cmd) and
// backtick substitution in a string. It is quote-agnostic: quote gating is
// the lexer's responsibility, applied before expansion.
type Expander struct {
	vars   VarSource
	exec   Executor
	strict bool
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// StrictVars makes references to undefined variables an error instead of an
// empty string.
func StrictVars() ExpanderOption {
	return func(e *Expander) { e.strict = true }
}

// NewExpander builds an expander over the given variable source and command
// executor. exec may be nil, in which case command substitution yields the
// empty string.
func NewExpander(vars VarSource, exec Executor, opts ...ExpanderOption) *Expander {
	e := &Expander{vars: vars, exec: exec}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand resolves every recognized construct in text. Literal text outside
// recognized constructs passes through unchanged. An arithmetic failure or a
// strict-mode undefined variable fails the whole expansion.
func (e *Expander) Expand(text string) (string, error) {
	return e.expand(text, 0)
}

func (e *Expander) expand(text string, depth int) (string, error) {
	if depth > maxExpandDepth {
		return text, nil
	}

	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		switch text[i] {
		case '$':
			consumed, err := e.expandDollar(&out, text, i, depth)
			if err != nil {
				return "", err
			}
			if consumed == 0 {
				out.WriteByte('$')
				i++
				continue
			}
			i += consumed

		case '`':
			end := strings.IndexByte(text[i+1:], '`')
			if end < 0 {
				out.WriteString(text[i:])
				i = len(text)
				continue
			}
			inner := text[i+1 : i+1+end]
			if err := e.substituteCommand(&out, inner, depth); err != nil {
				return "", err
			}
			i += end + 2

		default:
			out.WriteByte(text[i])
			i++
		}
	}

	return out.String(), nil
}

// expandDollar handles the construct starting with '$' at text[i]. It
// returns the number of bytes consumed, or 0 when the '$' is literal.
func (e *Expander) expandDollar(out *strings.Builder, text string, i, depth int) (int, error) {
	rest := text[i:]

	switch {
	case strings.HasPrefix(rest, "$(("):
		inner, total, ok := matchDelimited(rest, 3, '(', ')', 2)
		if !ok {
			return 0, nil
		}
		expanded, err := e.expand(inner, depth+1)
		if err != nil {
			return 0, err
		}
		value, err := evalArithmetic(expanded)
		if err != nil {
			return 0, err
		}
		out.WriteString(strconv.FormatInt(value, 10))
		return total, nil

	case strings.HasPrefix(rest, "$("):
		inner, total, ok := matchDelimited(rest, 2, '(', ')', 1)
		if !ok {
			return 0, nil
		}
		if err := e.substituteCommand(out, inner, depth); err != nil {
			return 0, err
		}
		return total, nil

	case strings.HasPrefix(rest, "${"):
		inner, total, ok := matchDelimited(rest, 2, '{', '}', 1)
		if !ok {
			return 0, nil
		}
		value, err := e.expandBraced(inner, depth)
		if err != nil {
			return 0, err
		}
		out.WriteString(value)
		return total, nil

	default:
		name := identRun(rest[1:])
		if name == "" {
			// Single-character specials share the variable lookup path.
			if len(rest) > 1 && isSpecialVar(rest[1]) {
				name = rest[1:2]
			} else {
				return 0, nil
			}
		}
		value, err := e.lookup(name)
		if err != nil {
			return 0, err
		}
		out.WriteString(value)
		return 1 + len(name), nil
	}
}

// expandBraced resolves the inside of a ${...} construct: a bare name or
// NAME:-default, where the default may itself contain nested expansions.
func (e *Expander) expandBraced(inner string, depth int) (string, error) {
	if sep := strings.Index(inner, ":-"); sep >= 0 {
		name := inner[:sep]
		if e.vars.Has(name) && e.vars.Get(name) != "" {
			return e.vars.Get(name), nil
		}
		return e.expand(inner[sep+2:], depth+1)
	}
	return e.lookup(inner)
}

func (e *Expander) lookup(name string) (string, error) {
	if e.strict && !e.vars.Has(name) {
		return "", &UndefinedVariableError{Name: name}
	}
	return e.vars.Get(name), nil
}

// substituteCommand expands the inner text, runs it, and writes the captured
// stdout with exactly one trailing newline stripped. The captured output is
// substituted literally, never re-expanded.
func (e *Expander) substituteCommand(out *strings.Builder, inner string, depth int) error {
	expanded, err := e.expand(inner, depth+1)
	if err != nil {
		return err
	}
	if e.exec == nil {
		return nil
	}

	_, stdout := e.exec.Execute(expanded)
	out.Write(stripTrailingNewline(stdout))
	return nil
}

func stripTrailingNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}

// matchDelimited extracts the text between rest[skip:] and the matching
// closer run, tracking nesting depth so nested constructs survive. closers
// is the number of consecutive close bytes that terminate the construct
// (2 for "))", 1 otherwise). Returns ok=false when unterminated; callers
// then treat the '$' literally.
func matchDelimited(rest string, skip int, open, close byte, closers int) (inner string, total int, ok bool) {
	depth := closers
	for i := skip; i < len(rest); i++ {
		switch rest[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return rest[skip : i+1-closers], i + 1, true
			}
		}
	}
	return "", 0, false
}

// identRun returns the maximal identifier prefix ([a-zA-Z_][a-zA-Z0-9_]*).
func identRun(s string) string {
	i := 0
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return s[:i]
		}
	}
	return s[:i]
}

func isSpecialVar(c byte) bool {
	switch {
	case c == '?', c == '#', c == '$', c == '!', c == '@', c == '*':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return false
}
