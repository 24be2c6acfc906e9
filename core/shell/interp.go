package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// maxFunctionDepth caps nested function calls so mutually recursive
// definitions cannot blow the stack.
const maxFunctionDepth = 100

// ctrl is the control-flow result threaded up through statement execution.
// Loops and function bodies pattern-match on the kind instead of relying on
// sentinel exit codes.
type ctrl struct {
	kind ctrlKind
	code int
}

type ctrlKind int

const (
	ctrlNormal ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

func normal(code int) ctrl {
	return ctrl{kind: ctrlNormal, code: code}
}

// ExecBody runs a statement or function body. Raw bodies are parsed first;
// a parse failure reports on stderr and exits 2 without running anything.
func (s *Shell) ExecBody(b Body) ctrl {
	if b.IsAST() {
		return s.execStatements(b.Parsed())
	}

	stmts, err := ParseStatements(b.Raw())
	if err != nil {
		fmt.Fprintf(s.Stderr, "agsh: %v\n", err)
		return normal(ExitSyntaxError)
	}
	return s.execStatements(stmts)
}

func (s *Shell) execStatements(stmts []Statement) ctrl {
	res := normal(ExitSuccess)
	for _, st := range stmts {
		if s.quit {
			return res
		}
		res = s.execStatement(st)
		if res.kind != ctrlNormal {
			return res
		}
	}
	return res
}

func (s *Shell) execStatement(st Statement) ctrl {
	switch st := st.(type) {
	case *CommandStatement:
		return s.execCommandLine(st.Line)
	case *ForStatement:
		return s.execFor(st)
	case *WhileStatement:
		return s.execWhile(st)
	case *IfStatement:
		return s.execIf(st)
	case *FunctionDefStatement:
		if st.Body.IsAST() {
			s.Ctx.Funcs.DefineParsed(st.Name, st.Params, st.Body.Parsed())
		} else {
			s.Ctx.Funcs.Define(st.Name, st.Params, st.Body.Raw())
		}
		return normal(ExitSuccess)
	default:
		fmt.Fprintf(s.Stderr, "agsh: unknown statement type %T\n", st)
		return normal(ExitFailure)
	}
}

// execCommandLine runs one command line, intercepting the loop and function
// control keywords before pipeline dispatch.
func (s *Shell) execCommandLine(line string) ctrl {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return normal(ExitSuccess)
	}

	switch fields[0] {
	case "break":
		return ctrl{kind: ctrlBreak}
	case "continue":
		return ctrl{kind: ctrlContinue}
	case "return":
		return ctrl{kind: ctrlReturn, code: s.optionalCode(fields, s.Ctx.Vars.ExitCode())}
	case "exit":
		s.RequestExit(s.optionalCode(fields, s.Ctx.Vars.ExitCode()))
		return ctrl{kind: ctrlReturn, code: s.quitCode}
	}

	return normal(s.RunLine(line))
}

func (s *Shell) optionalCode(fields []string, fallback int) int {
	if len(fields) < 2 {
		return fallback
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		fmt.Fprintf(s.Stderr, "agsh: %s: numeric argument required\n", fields[0])
		return ExitSyntaxError
	}
	return code
}

// execFor expands the items expression at run time, splits on whitespace,
// and iterates. An empty expansion is a zero-iteration loop.
func (s *Shell) execFor(st *ForStatement) ctrl {
	expanded, err := s.expander.Expand(st.Items)
	if err != nil {
		fmt.Fprintf(s.Stderr, "agsh: %v\n", err)
		return normal(ExitCode(err))
	}

	code := ExitSuccess
	for _, item := range strings.Fields(expanded) {
		s.Ctx.Vars.Set(st.Var, item, false)

		res := s.ExecBody(st.Body)
		switch res.kind {
		case ctrlBreak:
			return normal(res.code)
		case ctrlContinue:
			continue
		case ctrlReturn:
			return res
		}
		code = res.code
		if s.quit {
			break
		}
	}
	return normal(code)
}

// execWhile re-evaluates the condition before every pass. Until loops negate
// the truth test here, at execution time.
func (s *Shell) execWhile(st *WhileStatement) ctrl {
	code := ExitSuccess
	for !s.quit {
		condCode := s.RunLine(st.Condition)
		truthy := condCode == ExitSuccess
		if st.Until {
			truthy = !truthy
		}
		if !truthy {
			break
		}

		res := s.ExecBody(st.Body)
		switch res.kind {
		case ctrlBreak:
			return normal(res.code)
		case ctrlContinue:
			continue
		case ctrlReturn:
			return res
		}
		code = res.code
	}
	return normal(code)
}

// execIf runs the first branch whose condition exits zero, else the else
// body when present.
func (s *Shell) execIf(st *IfStatement) ctrl {
	for _, branch := range st.Branches {
		if s.RunLine(branch.Condition) == ExitSuccess {
			return s.ExecBody(branch.Body)
		}
	}
	if st.Else != nil {
		return s.ExecBody(*st.Else)
	}
	return normal(ExitSuccess)
}

// callFunction invokes a user-defined function with positional parameters in
// a fresh local scope. The scope pops on every exit path.
func (s *Shell) callFunction(def *FunctionDefinition, args []string, p *Process) int {
	if s.funcDepth >= maxFunctionDepth {
		fmt.Fprintf(p.Stderr, "agsh: %s: maximum function depth exceeded\n", def.Name)
		return ExitFailure
	}
	s.funcDepth++
	defer func() { s.funcDepth-- }()

	// The body executes through the session streams; point them at the
	// calling process so functions compose inside pipelines and redirects.
	oldIn, oldOut, oldErr := s.Stdin, s.Stdout, s.Stderr
	s.Stdin, s.Stdout, s.Stderr = p.Stdin, p.Stdout, p.Stderr
	defer func() { s.Stdin, s.Stdout, s.Stderr = oldIn, oldOut, oldErr }()

	s.Ctx.PushLocalScope()
	defer s.Ctx.PopLocalScope()

	vars := s.Ctx.Vars
	vars.Set("0", def.Name, true)
	vars.Set("#", strconv.Itoa(len(args)), true)
	vars.Set("_function_depth", strconv.Itoa(s.funcDepth), true)
	for i, arg := range args {
		vars.Set(strconv.Itoa(i+1), arg, true)
	}
	for i, name := range def.Params {
		if i < len(args) {
			vars.Set(name, args[i], true)
		} else {
			vars.Set(name, "", true)
		}
	}

	res := s.ExecBody(def.Body)
	return res.code
}
