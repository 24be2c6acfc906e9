package shell

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"

	"github.com/agfs-io/agfs-shell/core/jobs"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPrompt   = "PS1"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"
	EnvHistFile = "HISTFILE"

	DefaultColorPrompt = `\e[01;32m\u@\h\e[00m:\e[01;34m\w\e[00m\$ `
	DefaultPrompt      = `\u@\h:\w\$ `
	continuePrompt     = "> "
)

// Shell is one interactive session: the command context, the builtin table,
// background jobs, and the standard streams.
type Shell struct {
	Ctx    *CommandContext
	Lookup CommandLookup
	Jobs   *jobs.Manager

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// HostFS is the local machine's filesystem, used only for the history
	// file. Everything else goes through Ctx.FS.
	HostFS afero.Fs

	expander  *Expander
	history   []string
	funcDepth int
	quit      bool
	quitCode  int
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithIO replaces the standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) ShellOption {
	return func(s *Shell) {
		s.Stdin = stdin
		s.Stdout = stdout
		s.Stderr = stderr
	}
}

// WithLookup installs the builtin command table.
func WithLookup(lookup CommandLookup) ShellOption {
	return func(s *Shell) { s.Lookup = lookup }
}

// WithHostFS replaces the local filesystem used for the history file.
func WithHostFS(fs afero.Fs) ShellOption {
	return func(s *Shell) { s.HostFS = fs }
}

// NewShell builds a session around the given context.
func NewShell(ctx *CommandContext, opts ...ShellOption) *Shell {
	s := &Shell{
		Ctx:    ctx,
		Jobs:   jobs.NewManager(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		HostFS: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.expander = NewExpander(ctx.Vars, s)

	if !ctx.Vars.Has(EnvPrompt) {
		ctx.Vars.Set(EnvPrompt, DefaultPrompt, false)
	}
	ctx.Vars.Set(EnvPWD, ctx.Cwd, false)
	return s
}

// RequestExit flags the session for shutdown with the given exit code. The
// interactive loop and script runners check the flag between commands.
func (s *Shell) RequestExit(code int) {
	s.quit = true
	s.quitCode = code
}

// Exiting reports whether exit has been requested.
func (s *Shell) Exiting() bool {
	return s.quit
}

// ExitCode returns the requested exit code.
func (s *Shell) ExitCode() int {
	return s.quitCode
}

// History returns the lines entered this session.
func (s *Shell) History() []string {
	return s.history
}

// Expand resolves variables, arithmetic and command substitution in text
// against the session state.
func (s *Shell) Expand(text string) (string, error) {
	return s.expander.Expand(text)
}

// Execute satisfies the Executor contract for command substitution: run the
// line, capture stdout.
func (s *Shell) Execute(command string) (int, []byte) {
	var buf bytes.Buffer
	code := s.runLine(command, s.Stdin, &buf, s.Stderr)
	return code, buf.Bytes()
}

// RunLine executes one command line against the session streams: alias
// expansion, background detach, pipeline construction. Returns the exit
// code, which is also recorded in $?.
func (s *Shell) RunLine(line string) int {
	return s.runLine(line, s.Stdin, s.Stdout, s.Stderr)
}

func (s *Shell) runLine(line string, stdin io.Reader, stdout, stderr io.Writer) int {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return s.Ctx.Vars.ExitCode()
	}

	expanded := s.Ctx.Aliases.Expand(trimmed)

	if strings.HasSuffix(expanded, "&") && !strings.HasSuffix(expanded, ">&") {
		s.startBackground(strings.TrimSpace(strings.TrimSuffix(expanded, "&")))
		return ExitSuccess
	}

	tokens := Tokenize(expanded)
	code := s.runPipeline(tokens, stdin, stdout, stderr)
	s.Ctx.Vars.SetExitCode(code)
	return code
}

// RunScript executes a multi-line script: control-flow blocks are parsed and
// interpreted, plain lines run as pipelines.
func (s *Shell) RunScript(content string) int {
	res := s.ExecBody(RawBody(strings.Split(content, "\n")))
	s.Ctx.Vars.SetExitCode(res.code)
	return res.code
}

// startBackground runs a command line on a detached session that expands
// against a snapshot of the current variables, so the job is isolated from
// later changes in the foreground session.
func (s *Shell) startBackground(line string) {
	bg := s.backgroundShell()
	job := s.Jobs.Start(line, func() int {
		return bg.RunLine(line)
	})
	fmt.Fprintf(s.Stdout, "[%d] %s\n", job.ID, line)
}

func (s *Shell) backgroundShell() *Shell {
	ctx := &CommandContext{
		Cwd:        s.Ctx.Cwd,
		Vars:       s.Ctx.Vars.Snapshot(),
		Aliases:    s.Ctx.Aliases,
		Funcs:      s.Ctx.Funcs,
		FS:         s.Ctx.FS,
		ChrootRoot: s.Ctx.ChrootRoot,
	}
	bg := &Shell{
		Ctx:    ctx,
		Lookup: s.Lookup,
		Jobs:   s.Jobs,
		Stdin:  strings.NewReader(""),
		Stdout: s.Stdout,
		Stderr: s.Stderr,
		HostFS: s.HostFS,
	}
	bg.expander = NewExpander(ctx.Vars, bg)
	return bg
}

// RunInteractive drives the readline REPL until exit or EOF. Control-flow
// blocks and unclosed quotes continue onto following lines.
func (s *Shell) RunInteractive() int {
	cfg := &readline.Config{
		Prompt: s.Prompt(),
		Stdin:  readline.NewCancelableStdin(s.Stdin),
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	}
	if err := cfg.Init(); err != nil {
		fmt.Fprintf(s.Stderr, "agsh: %v\n", err)
		return ExitFailure
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		fmt.Fprintf(s.Stderr, "agsh: %v\n", err)
		return ExitFailure
	}
	defer rl.Close()

	s.loadHistory(rl)

	var block []string
	for !s.quit {
		if len(block) > 0 {
			rl.SetPrompt(continuePrompt)
		} else {
			rl.SetPrompt(s.Prompt())
		}

		line, err := rl.Readline()
		switch {
		case err == io.EOF:
			return s.quitCode
		case err == readline.ErrInterrupt:
			// Ctrl-C abandons the pending block but keeps the session.
			block = nil
			continue
		case err != nil:
			fmt.Fprintf(s.Stderr, "agsh: %v\n", err)
			continue
		}

		if len(block) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		s.appendHistory(line)

		block = append(block, line)
		if s.needsContinuation(block) {
			continue
		}

		lines := block
		block = nil
		s.runBlock(lines)
	}
	return s.quitCode
}

// runBlock executes an accumulated input block. Single plain lines take the
// pipeline fast path; everything else goes through the statement interpreter.
func (s *Shell) runBlock(lines []string) {
	if len(lines) == 1 && !startsControlBlock(lines[0]) {
		s.RunLine(lines[0])
		return
	}
	res := s.ExecBody(RawBody(lines))
	s.Ctx.Vars.SetExitCode(res.code)
}

// needsContinuation reports whether the accumulated block is still waiting
// for a closing keyword or quote. One-line constructs close themselves.
func (s *Shell) needsContinuation(block []string) bool {
	block = normalizeLines(block)
	i, t, ok := firstStructural(block, 0)
	if !ok {
		return false
	}

	switch {
	case firstWord(t) == "for", firstWord(t) == "while", firstWord(t) == "until":
		_, err := doBlockEnd(block, i)
		return err != nil
	case firstWord(t) == "if":
		_, err := ifBlockEnd(block, i)
		return err != nil
	case looksLikeFunctionDef(t):
		_, err := braceBlockEnd(block, i)
		return err != nil
	}

	lexer := NewLexer(strings.Join(block, "\n"))
	lexer.Tokenize()
	return lexer.Unclosed()
}

func startsControlBlock(line string) bool {
	t, ok := structural(line)
	if !ok {
		return false
	}
	switch firstWord(t) {
	case "for", "while", "until", "if":
		return true
	}
	return looksLikeFunctionDef(t)
}

// Prompt renders $PS1 with the bash-style escapes \u, \h, \w and \$.
func (s *Shell) Prompt() string {
	prompt := s.Ctx.Vars.GetDefault(EnvPrompt, DefaultPrompt)

	prompt = strings.ReplaceAll(prompt, `\u`, s.Ctx.Vars.Get(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, s.Ctx.Vars.Get(EnvHostname))

	pwd := s.Ctx.Cwd
	if home := s.Ctx.Vars.Get(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if s.Ctx.Vars.Get(EnvUser) == "root" {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return ProcessEscapes(prompt)
}

// loadHistory seeds the session and readline history from $HISTFILE.
func (s *Shell) loadHistory(rl *readline.Instance) {
	path := s.Ctx.Vars.Get(EnvHistFile)
	if path == "" {
		return
	}
	data, err := afero.ReadFile(s.HostFS, path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		s.history = append(s.history, line)
		rl.SaveHistory(line)
	}
}

// appendHistory records a line in memory and appends it to $HISTFILE.
func (s *Shell) appendHistory(line string) {
	s.history = append(s.history, line)

	path := s.Ctx.Vars.Get(EnvHistFile)
	if path == "" {
		return
	}
	f, err := s.HostFS.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
