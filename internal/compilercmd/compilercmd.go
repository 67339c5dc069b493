// Package compilercmd implements the compiler binary: it reads one source
// file, runs it through the compiler core's two passes, and writes the
// fixed-width binary program the virtual machine loads -- or, with -f or
// -i, one of the two intermediate textual forms.
package compilercmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/styock/lang/compiler"
	"github.com/mna/styock/lang/parser"
)

const binName = "compiler"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <file>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <file>
       %[1]s -h|--help

Compiles a single source file to the virtual machine's binary program
format.

Valid flag options are:
       -h --help                 Show this help and exit.
       -o --output <path>        Write the result to <path> instead of
                                  stdout.
       -f --only-frontend        Stop after the front-end pass: emit
                                  symbolic textual assembly (labels not
                                  yet resolved) instead of a binary
                                  program.
       -i --intermediate         Stop after linking: emit resolved
                                  textual assembly (labels replaced by
                                  relative displacements) instead of a
                                  binary program.
`, binName)
)

// Cmd holds the compiler binary's flags and positional arguments.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help         bool   `flag:"h,help"`
	Version      bool   `flag:"v,version"`
	Output       string `flag:"o,output"`
	OnlyFrontend bool   `flag:"f,only-frontend"`
	Intermediate bool   `flag:"i,intermediate"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(map[string]bool)       {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if c.OnlyFrontend && c.Intermediate {
		return errors.New("cannot combine -f/--only-frontend with -i/--intermediate")
	}
	if len(c.args) != 1 {
		return errors.New("exactly one source file must be provided")
	}
	return nil
}

// Main is the compiler binary's entry point, called directly from main().
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	return c.compile(ctx, stdio)
}

func (c *Cmd) compile(_ context.Context, stdio mainer.Stdio) mainer.ExitCode {
	path := c.args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(stdio.Stderr, "file %s not found\n", path)
			return mainer.ExitCode(2)
		}
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}

	file, err := parser.ParseFile(src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}

	var out []byte
	switch {
	case c.OnlyFrontend:
		symbolic, err := compiler.Compile(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return mainer.Failure
		}
		out = []byte(symbolic)
	case c.Intermediate:
		resolved, err := compiler.CompileAndLink(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return mainer.Failure
		}
		out = []byte(resolved)
	default:
		program, err := compiler.Assemble(file)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return mainer.Failure
		}
		out = program
	}

	if c.Output == "" {
		if _, err := stdio.Stdout.Write(out); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return mainer.Failure
		}
		return mainer.Success
	}
	if err := os.WriteFile(c.Output, out, 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}
	return mainer.Success
}
