package commands

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

func ExampleBytesToHuman() {

	// < 1k is presented directly
	fmt.Println(BytesToHuman(512))

	// Multiples > 10 are shown without decimal.
	fmt.Println(BytesToHuman(23 * 10e8))

	// Multiples < 10 are shown with decimal.
	fmt.Println(BytesToHuman(5 * 1024))

	// Output: 512
	// 23G
	// 5.1K
}

func TestAllBuiltins(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			fn, ok := Lookup(name)
			require.True(t, ok)
			require.NotNil(t, fn)
		})
	}
}

// fixture wires a shell over an in-memory filesystem with a small tree so
// command behavior is reproducible.
type fixture struct {
	Shell *shell.Shell
	FS    vfs.FileSystem

	Stdin  bytes.Buffer
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fs := vfs.NewMock()
	require.NoError(t, fs.Mkdir("/home/alice"))
	require.NoError(t, fs.Mkdir("/srv"))
	require.NoError(t, fs.WriteFile("/README.md", []byte("welcome\n"), false))
	require.NoError(t, fs.WriteFile("/home/alice/notes.txt", []byte("remember the milk\n"), false))
	require.NoError(t, fs.WriteFile("/home/alice/.hidden", []byte("secret\n"), false))

	ctx := shell.NewCommandContext(fs, map[string]string{
		"USER":     "alice",
		"HOSTNAME": "agfs",
		"HOME":     "/home/alice",
		"HISTFILE": "",
	})

	f := &fixture{FS: fs}
	f.Shell = shell.NewShell(ctx,
		shell.WithIO(&f.Stdin, &f.Stdout, &f.Stderr),
		shell.WithLookup(Lookup),
		shell.WithHostFS(afero.NewMemMapFs()))
	return f
}

// Run invokes a command function directly, bypassing the lexer.
func (f *fixture) Run(fn shell.CommandFunc, args ...string) int {
	p := &shell.Process{
		Shell:  f.Shell,
		Ctx:    f.Shell.Ctx,
		Args:   args,
		Stdin:  &f.Stdin,
		Stdout: &f.Stdout,
		Stderr: &f.Stderr,
	}
	return fn(p)
}

// CombinedOutput returns stdout followed by stderr.
func (f *fixture) CombinedOutput() []byte {
	return append(f.Stdout.Bytes(), f.Stderr.Bytes()...)
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args []string
}

func (gts goldenTestSuite) Run(t *testing.T, fn shell.CommandFunc) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			f := newFixture(t)
			f.Run(fn, tc.Args...)
			g.Assert(t, tn, f.CombinedOutput())
		})
	}
}
