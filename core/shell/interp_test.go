package shell

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agfs-io/agfs-shell/core/vfs"
)

// testLookup is a minimal builtin table for interpreter tests. The real
// builtins live in the commands package; using a local table keeps these
// tests free of import cycles.
func testLookup() CommandLookup {
	table := map[string]CommandFunc{
		"echo": func(p *Process) int {
			fmt.Fprintln(p.Stdout, strings.Join(p.Args[1:], " "))
			return ExitSuccess
		},
		"cat": func(p *Process) int {
			data, err := p.ReadAll()
			if err != nil {
				return ExitFailure
			}
			p.Stdout.Write(data)
			return ExitSuccess
		},
		"true":  func(p *Process) int { return ExitSuccess },
		"false": func(p *Process) int { return ExitFailure },
		"upper": func(p *Process) int {
			data, _ := p.ReadAll()
			p.Stdout.Write(bytes.ToUpper(data))
			return ExitSuccess
		},
		"complain": func(p *Process) int {
			fmt.Fprintln(p.Stderr, "complaint")
			return ExitFailure
		},
		"getvar": func(p *Process) int {
			if len(p.Args) != 2 {
				return ExitSyntaxError
			}
			fmt.Fprintln(p.Stdout, p.Ctx.Vars.Get(p.Args[1]))
			return ExitSuccess
		},
		// lt N M exits 0 when N < M, the loop-counter workhorse.
		"lt": func(p *Process) int {
			if len(p.Args) != 3 {
				return ExitSyntaxError
			}
			a, err1 := strconv.Atoi(p.Args[1])
			b, err2 := strconv.Atoi(p.Args[2])
			if err1 != nil || err2 != nil {
				return ExitSyntaxError
			}
			if a < b {
				return ExitSuccess
			}
			return ExitFailure
		},
	}
	return func(name string) (CommandFunc, bool) {
		fn, ok := table[name]
		return fn, ok
	}
}

type shellFixture struct {
	shell  *Shell
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newShellFixture(t *testing.T) *shellFixture {
	t.Helper()
	fs := vfs.NewMock()
	require.NoError(t, fs.Mkdir("/home/alice"))

	ctx := NewCommandContext(fs, map[string]string{
		"USER":     "alice",
		"HOSTNAME": "agfs",
		"HOME":     "/home/alice",
		"HISTFILE": "",
	})

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	sh := NewShell(ctx,
		WithIO(strings.NewReader(""), stdout, stderr),
		WithLookup(testLookup()),
	)
	return &shellFixture{shell: sh, stdout: stdout, stderr: stderr}
}

func TestRunLine_Simple(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunLine("echo hello world")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "hello world\n", f.stdout.String())
	assert.Equal(t, "0", f.shell.Ctx.Vars.Get(ExitCodeVar))
}

func TestRunLine_ExitCodeRecorded(t *testing.T) {
	f := newShellFixture(t)

	assert.Equal(t, ExitFailure, f.shell.RunLine("false"))
	assert.Equal(t, "1", f.shell.Ctx.Vars.Get(ExitCodeVar))

	assert.Equal(t, ExitNotFound, f.shell.RunLine("no-such-command"))
	assert.Contains(t, f.stderr.String(), "command not found")
}

func TestRunLine_VariableExpansion(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("echo $USER lives in $HOME")
	assert.Equal(t, "alice lives in /home/alice\n", f.stdout.String())
}

func TestRunLine_SingleQuotesSuppressExpansion(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine(`echo '$USER' "$USER"`)
	assert.Equal(t, "$USER alice\n", f.stdout.String())
}

func TestRunLine_Pipeline(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunLine("echo hello | upper")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "HELLO\n", f.stdout.String())
}

func TestRunLine_MultiStagePipeline(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("echo abc | upper | cat")
	assert.Equal(t, "ABC\n", f.stdout.String())
}

func TestRunLine_Redirects(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("echo first > /home/alice/out.txt")
	f.shell.RunLine("echo second >> /home/alice/out.txt")

	data, err := f.shell.Ctx.FS.ReadFile("/home/alice/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	f.shell.RunLine("cat < /home/alice/out.txt")
	assert.Equal(t, "first\nsecond\n", f.stdout.String())
}

func TestRunLine_StderrRedirects(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("complain 2> /home/alice/err.txt")
	data, err := f.shell.Ctx.FS.ReadFile("/home/alice/err.txt")
	require.NoError(t, err)
	assert.Equal(t, "complaint\n", string(data))
	assert.Empty(t, f.stderr.String())

	// 2>&1 folds stderr into the redirected stdout.
	f.shell.RunLine("complain > /home/alice/both.txt 2>&1")
	data, err = f.shell.Ctx.FS.ReadFile("/home/alice/both.txt")
	require.NoError(t, err)
	assert.Equal(t, "complaint\n", string(data))
}

func TestRunLine_Assignments(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("GREETING=hello")
	f.shell.RunLine("echo $GREETING")
	assert.Equal(t, "hello\n", f.stdout.String())

	// A command-scoped assignment is visible to the command but does not
	// leak into the session.
	f.stdout.Reset()
	f.shell.RunLine("TMP=scoped getvar TMP")
	assert.Equal(t, "scoped\n", f.stdout.String())
	assert.False(t, f.shell.Ctx.Vars.Has("TMP"))
}

func TestRunLine_AliasExpansion(t *testing.T) {
	f := newShellFixture(t)
	f.shell.Ctx.Aliases.Define("greet", "echo hi")

	f.shell.RunLine("greet there")
	assert.Equal(t, "hi there\n", f.stdout.String())
}

func TestRunLine_CommandSubstitution(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("echo [$(echo inner)]")
	assert.Equal(t, "[inner]\n", f.stdout.String())
}

func TestRunLine_Arithmetic(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunLine("N=4")
	f.shell.RunLine("echo $(($N * 10 + 2))")
	assert.Equal(t, "42\n", f.stdout.String())
}

func TestRunLine_Background(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunLine("echo detached &")
	assert.Equal(t, ExitSuccess, code)
	f.shell.Jobs.WaitAll()

	out := f.stdout.String()
	assert.Contains(t, out, "[1] echo detached")
	assert.Contains(t, out, "detached\n")
}

func TestRunScript_ForLoop(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript(`
for i in 1 2 3
do
    echo item $i
done
`)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "item 1\nitem 2\nitem 3\n", f.stdout.String())
}

func TestRunScript_ForLoopExpandsItems(t *testing.T) {
	f := newShellFixture(t)
	f.shell.Ctx.Vars.Set("FILES", "a b", false)

	f.shell.RunScript("for f in $FILES; do\necho got $f\ndone")
	assert.Equal(t, "got a\ngot b\n", f.stdout.String())
}

func TestRunScript_ForLoopZeroIterations(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript("for x in $EMPTY; do\necho never\ndone")
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, f.stdout.String())
}

func TestRunScript_WhileLoop(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
N=0
while lt $N 3
do
    echo tick $N
    N=$(($N + 1))
done
`)
	assert.Equal(t, "tick 0\ntick 1\ntick 2\n", f.stdout.String())
}

func TestRunScript_UntilLoop(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
N=0
until lt 2 $N
do
    echo round $N
    N=$(($N + 1))
done
`)
	assert.Equal(t, "round 0\nround 1\nround 2\n", f.stdout.String())
}

func TestRunScript_BreakAndContinue(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
for i in 1 2 3 4 5
do
    if lt $i 2; then
        continue
    fi
    if lt 3 $i; then
        break
    fi
    echo kept $i
done
`)
	assert.Equal(t, "kept 2\nkept 3\n", f.stdout.String())
}

func TestRunScript_IfElifElse(t *testing.T) {
	f := newShellFixture(t)

	script := `
if lt $X 10
then
    echo small
elif lt $X 100
then
    echo medium
else
    echo large
fi
`
	f.shell.Ctx.Vars.Set("X", "5", false)
	f.shell.RunScript(script)
	f.shell.Ctx.Vars.Set("X", "50", false)
	f.shell.RunScript(script)
	f.shell.Ctx.Vars.Set("X", "500", false)
	f.shell.RunScript(script)

	assert.Equal(t, "small\nmedium\nlarge\n", f.stdout.String())
}

func TestRunScript_OneLineIf(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript("if true; then echo hi; fi")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "hi\n", f.stdout.String())

	f.stdout.Reset()
	f.shell.RunScript("if false; then echo a; else echo b; fi")
	assert.Equal(t, "b\n", f.stdout.String())
}

func TestRunScript_OneLineFor(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript("for i in 1 2; do echo n=$i; done")
	assert.Equal(t, "n=1\nn=2\n", f.stdout.String())
}

func TestRunScript_OneLineIfWithoutThen(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript("if true; echo hi; fi")
	assert.Equal(t, ExitSyntaxError, code)
	assert.Contains(t, f.stderr.String(), "then")
}

func TestRunScript_NestedLoops(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
for i in 1 2
do
    for j in a b
    do
        echo $i$j
    done
done
`)
	assert.Equal(t, "1a\n1b\n2a\n2b\n", f.stdout.String())
}

func TestRunScript_FunctionDefinitionAndCall(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
greet() {
    echo hello $1, you passed $# args
}
greet world extra
`)
	assert.Equal(t, "hello world, you passed 2 args\n", f.stdout.String())
	assert.True(t, f.shell.Ctx.Funcs.Exists("greet"))
}

func TestRunScript_FunctionNamedParams(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
function pair(first, second) {
    echo $first and $second
}
pair one two
`)
	assert.Equal(t, "one and two\n", f.stdout.String())
}

func TestRunScript_FunctionReturn(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript(`
check() {
    return 3
    echo unreachable
}
check
`)
	assert.Equal(t, 3, code)
	assert.Empty(t, f.stdout.String())
}

func TestRunScript_FunctionLocalsRestored(t *testing.T) {
	f := newShellFixture(t)
	f.shell.Ctx.Vars.Set("1", "outer", false)

	f.shell.RunScript(`
show() {
    echo inside $1
}
show inner
echo outside $1
`)
	assert.Equal(t, "inside inner\noutside outer\n", f.stdout.String())
}

func TestRunScript_FunctionWithNestedControlFlow(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
count() {
    for i in $1 $2
    do
        echo n=$i
    done
}
count 7 9
`)
	assert.Equal(t, "n=7\nn=9\n", f.stdout.String())
}

func TestRunScript_FunctionDepthVariable(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
inner() {
    echo inner=$_function_depth
}
outer() {
    echo outer=$_function_depth
    inner
}
outer
echo after=$_function_depth
`)
	assert.Equal(t, "outer=1\ninner=2\nafter=\n", f.stdout.String())
}

func TestRunScript_FunctionDepthCap(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript(`
loop() {
    loop
}
loop
`)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, f.stderr.String(), "maximum function depth")
}

func TestRunScript_Exit(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript(`
echo before
exit 7
echo after
`)
	assert.Equal(t, "before\n", f.stdout.String())
	assert.True(t, f.shell.Exiting())
	assert.Equal(t, 7, f.shell.ExitCode())
}

func TestRunScript_ParseErrorReported(t *testing.T) {
	f := newShellFixture(t)

	code := f.shell.RunScript("while true; do\necho never closed")
	assert.Equal(t, ExitSyntaxError, code)
	assert.Contains(t, f.stderr.String(), "done")
}

func TestRunScript_CommentsAndBlanks(t *testing.T) {
	f := newShellFixture(t)

	f.shell.RunScript("# header comment\n\necho ran\n# trailing\n")
	assert.Equal(t, "ran\n", f.stdout.String())
}

func TestExecute_CapturesStdout(t *testing.T) {
	f := newShellFixture(t)

	code, out := f.shell.Execute("echo captured")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "captured\n", string(out))
	assert.Empty(t, f.stdout.String(), "substitution output stays out of the session stream")
}
