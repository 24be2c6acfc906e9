package shell

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// CommandFunc is the entry point of a builtin command. It reads and writes
// through the Process and returns an exit code.
type CommandFunc func(p *Process) int

// CommandLookup resolves a command name to its builtin implementation. The
// commands package supplies this so the interpreter stays import-cycle free.
type CommandLookup func(name string) (CommandFunc, bool)

// Process is one command invocation inside a pipeline: resolved arguments,
// the standard streams, and the session context it runs against.
type Process struct {
	Shell  *Shell
	Ctx    *CommandContext
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Name returns argv[0].
func (p *Process) Name() string {
	if len(p.Args) == 0 {
		return ""
	}
	return p.Args[0]
}

// stage is one pipeline segment with its arguments expanded and redirects
// collected.
type stage struct {
	args      []string
	redirects []redirect
}

type redirect struct {
	op     string
	target string
}

// needsTarget reports whether the redirect operator takes a filename operand.
func needsTarget(op string) bool {
	switch op {
	case "2>&1", ">&1", ">&2":
		return false
	}
	return true
}

// splitStages divides a token stream into pipeline segments at PIPE tokens.
// Comment and EOF tokens are dropped.
func splitStages(tokens []Token) [][]Token {
	var stages [][]Token
	var current []Token
	for _, tok := range tokens {
		switch tok.Type {
		case TokenPipe:
			stages = append(stages, current)
			current = nil
		case TokenComment, TokenEOF:
			// skip
		default:
			current = append(current, tok)
		}
	}
	if len(current) > 0 || len(stages) > 0 {
		stages = append(stages, current)
	}
	return stages
}

// buildStage expands the words of one pipeline segment and pairs redirect
// operators with their targets. Words that expand to nothing vanish unless
// they were quoted empties.
func (s *Shell) buildStage(tokens []Token) (stage, error) {
	var st stage

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Type {
		case TokenRedirect:
			op := tok.Value
			if !needsTarget(op) {
				st.redirects = append(st.redirects, redirect{op: op})
				continue
			}
			if i+1 >= len(tokens) || tokens[i+1].Type != TokenWord {
				return st, &ParseError{Message: "syntax error near '" + op + "'"}
			}
			target, err := s.expandWord(tokens[i+1])
			if err != nil {
				return st, err
			}
			st.redirects = append(st.redirects, redirect{op: op, target: target})
			i++

		case TokenWord:
			value, err := s.expandWord(tok)
			if err != nil {
				return st, err
			}
			if value == "" && tok.Value != "" {
				continue
			}
			st.args = append(st.args, value)
		}
	}

	return st, nil
}

// expandWord applies expression expansion to a word token. Single-quoted
// words pass through untouched.
func (s *Shell) expandWord(tok Token) (string, error) {
	if tok.Literal {
		return tok.Value, nil
	}
	return s.expander.Expand(tok.Value)
}

// fileWriter buffers command output and flushes it to the virtual filesystem
// once the stage finishes. Writing through a buffer keeps partial output off
// the remote when the command fails mid-stream.
type fileWriter struct {
	buf      bytes.Buffer
	ctx      *CommandContext
	path     string
	appendTo bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *fileWriter) flush() error {
	return w.ctx.FS.WriteFile(w.ctx.ResolvePath(w.path), w.buf.Bytes(), w.appendTo)
}

// runPipeline executes a token stream as a pipeline, connecting stages with
// in-memory buffers and applying redirects per stage. Returns the exit code
// of the last stage.
func (s *Shell) runPipeline(tokens []Token, stdin io.Reader, stdout, stderr io.Writer) int {
	stages := splitStages(tokens)
	if len(stages) == 0 {
		return ExitSuccess
	}

	input := stdin
	code := ExitSuccess

	for i, group := range stages {
		st, err := s.buildStage(group)
		if err != nil {
			fmt.Fprintf(stderr, "agsh: %v\n", err)
			return ExitCode(err)
		}

		last := i == len(stages)-1
		var pipeBuf *bytes.Buffer
		var out io.Writer = stdout
		if !last {
			pipeBuf = &bytes.Buffer{}
			out = pipeBuf
		}

		code = s.runStage(st, input, out, stderr)

		if pipeBuf != nil {
			input = pipeBuf
		}
	}

	return code
}

// runStage applies redirects, then dispatches to an assignment, a function,
// or a builtin. Unknown names exit 127.
func (s *Shell) runStage(st stage, stdin io.Reader, stdout, stderr io.Writer) int {
	var flushes []*fileWriter
	var stdoutW io.Writer = stdout
	var stderrW io.Writer = stderr
	stdinR := stdin

	for _, r := range st.redirects {
		switch r.op {
		case "<":
			data, err := s.Ctx.FS.ReadFile(s.Ctx.ResolvePath(r.target))
			if err != nil {
				fmt.Fprintf(stderr, "agsh: %s: %v\n", r.target, err)
				return ExitFailure
			}
			stdinR = bytes.NewReader(data)
		case ">", ">>":
			fw := &fileWriter{ctx: s.Ctx, path: r.target, appendTo: r.op == ">>"}
			stdoutW = fw
			flushes = append(flushes, fw)
		case "2>", "2>>":
			fw := &fileWriter{ctx: s.Ctx, path: r.target, appendTo: r.op == "2>>"}
			stderrW = fw
			flushes = append(flushes, fw)
		case "&>":
			fw := &fileWriter{ctx: s.Ctx, path: r.target}
			stdoutW = fw
			stderrW = fw
			flushes = append(flushes, fw)
		case "2>&1":
			stderrW = stdoutW
		case ">&2":
			stdoutW = stderrW
		case ">&1":
			// already the default
		case "<<":
			fmt.Fprintln(stderr, "agsh: here-documents are not supported")
			return ExitSyntaxError
		default:
			fmt.Fprintf(stderr, "agsh: unsupported redirect %q\n", r.op)
			return ExitSyntaxError
		}
	}

	code := s.dispatch(st, stdinR, stdoutW, stderrW)

	for _, fw := range flushes {
		if err := fw.flush(); err != nil {
			fmt.Fprintf(stderr, "agsh: %v\n", err)
			if code == ExitSuccess {
				code = ExitFailure
			}
		}
	}
	return code
}

func (s *Shell) dispatch(st stage, stdin io.Reader, stdout, stderr io.Writer) int {
	args, assigns := splitAssignments(st.args)

	if len(args) == 0 {
		// Pure assignment line: the variables persist in the session.
		for _, a := range assigns {
			s.Ctx.Vars.Set(a.name, a.value, false)
		}
		return ExitSuccess
	}

	// Command-scoped assignments live in a scope popped after the command.
	if len(assigns) > 0 {
		s.Ctx.Vars.PushScope()
		defer s.Ctx.Vars.PopScope()
		for _, a := range assigns {
			s.Ctx.Vars.Set(a.name, a.value, true)
		}
	}

	p := &Process{
		Shell:  s,
		Ctx:    s.Ctx,
		Args:   args,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	if def, ok := s.Ctx.Funcs.Get(args[0]); ok {
		return s.callFunction(def, args[1:], p)
	}

	if s.Lookup != nil {
		if fn, ok := s.Lookup(args[0]); ok {
			return fn(p)
		}
	}

	fmt.Fprintf(stderr, "agsh: %s: command not found\n", args[0])
	return ExitNotFound
}

type assignment struct {
	name  string
	value string
}

// splitAssignments strips leading NAME=value words from an argument list.
func splitAssignments(words []string) ([]string, []assignment) {
	var assigns []assignment
	for i, w := range words {
		name, value, ok := parseAssignment(w)
		if !ok {
			return words[i:], assigns
		}
		assigns = append(assigns, assignment{name: name, value: value})
	}
	return nil, assigns
}

func parseAssignment(word string) (name, value string, ok bool) {
	eq := strings.IndexByte(word, '=')
	if eq <= 0 {
		return "", "", false
	}
	name = word[:eq]
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return "", "", false
			}
		default:
			return "", "", false
		}
	}
	return name, word[eq+1:], true
}

// ReadAll drains a process's stdin. Nil stdin reads as empty.
func (p *Process) ReadAll() ([]byte, error) {
	if p.Stdin == nil {
		return nil, nil
	}
	return io.ReadAll(p.Stdin)
}
