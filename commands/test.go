package commands

import (
	"fmt"
	"strconv"

	"github.com/agfs-io/agfs-shell/core/shell"
	"github.com/agfs-io/agfs-shell/core/vfs"
)

// Test implements the `test` and `[` builtins. Operators look like flags,
// so arguments are evaluated directly rather than through getopt.
func Test(p *shell.Process) int {
	args := p.Args[1:]

	if p.Name() == "[" {
		if len(args) == 0 || args[len(args)-1] != "]" {
			fmt.Fprintln(p.Stderr, "[: missing `]'")
			return shell.ExitSyntaxError
		}
		args = args[:len(args)-1]
	}

	ok, err := evalTest(p, args)
	if err != nil {
		fmt.Fprintf(p.Stderr, "%s: %v\n", p.Name(), err)
		return shell.ExitSyntaxError
	}
	if ok {
		return shell.ExitSuccess
	}
	return shell.ExitFailure
}

func evalTest(p *shell.Process, args []string) (bool, error) {
	switch len(args) {
	case 0:
		return false, nil
	case 1:
		return args[0] != "", nil
	case 2:
		if args[0] == "!" {
			ok, err := evalTest(p, args[1:])
			return !ok, err
		}
		return evalUnary(p, args[0], args[1])
	case 3:
		if args[0] == "!" {
			ok, err := evalTest(p, args[1:])
			return !ok, err
		}
		return evalBinary(args[0], args[1], args[2])
	case 4:
		if args[0] == "!" {
			ok, err := evalTest(p, args[1:])
			return !ok, err
		}
	}
	return false, fmt.Errorf("too many arguments")
}

func evalUnary(p *shell.Process, op, operand string) (bool, error) {
	switch op {
	case "-z":
		return operand == "", nil
	case "-n":
		return operand != "", nil
	case "-e":
		return vfs.Exists(p.Ctx.FS, p.Ctx.ResolvePath(operand)), nil
	case "-d":
		return vfs.IsDir(p.Ctx.FS, p.Ctx.ResolvePath(operand)), nil
	case "-f":
		info, err := p.Ctx.FS.Stat(p.Ctx.ResolvePath(operand))
		return err == nil && !info.IsDir, nil
	case "-s":
		info, err := p.Ctx.FS.Stat(p.Ctx.ResolvePath(operand))
		return err == nil && info.Size > 0, nil
	case "-L", "-h":
		info, err := p.Ctx.FS.Stat(p.Ctx.ResolvePath(operand))
		return err == nil && info.Symlink, nil
	}
	return false, fmt.Errorf("%s: unary operator expected", op)
}

func evalBinary(lhs, op, rhs string) (bool, error) {
	switch op {
	case "=", "==":
		return lhs == rhs, nil
	case "!=":
		return lhs != rhs, nil
	}

	l, lerr := strconv.ParseInt(lhs, 10, 64)
	r, rerr := strconv.ParseInt(rhs, 10, 64)
	if lerr != nil || rerr != nil {
		return false, fmt.Errorf("integer expression expected: %s %s %s", lhs, op, rhs)
	}

	switch op {
	case "-eq":
		return l == r, nil
	case "-ne":
		return l != r, nil
	case "-lt":
		return l < r, nil
	case "-le":
		return l <= r, nil
	case "-gt":
		return l > r, nil
	case "-ge":
		return l >= r, nil
	}
	return false, fmt.Errorf("%s: binary operator expected", op)
}

func init() {
	addCmd("test", Test)
	addCmd("[", Test)
}
