// Package toolkitcmd implements the toolkit binary: a single executable
// exposing the virtual machine core's run/encode/decode operations over
// already-compiled programs, independent of the compiler.
package toolkitcmd

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "toolkit"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Runs, encodes and decodes already-compiled virtual machine programs.

The <command> can be one of:
       run <path>                 Load and execute a binary program.
       encode <src> <dst>         Parse resolved textual assembly from
                                   <src> and write its binary encoding
                                   to <dst>.
       decode <path>              Disassemble a binary program back to
                                   resolved textual assembly.

Valid flag options are:
       -h --help                  Show this help and exit.
       -v --version               Print version and exit.

Valid flag options for the <run> command are:
       --verbose                  Print the operand stack after the
                                   program halts.

Valid flag options for the <encode> command are:
       -p --print-parse           Print the parsed instruction sequence
                                   before encoding it.

Valid flag options for the <decode> command are:
       -o --output <path>         Write the result to <path> instead of
                                   stdout.
`, binName)
)

// Cmd holds the toolkit binary's flags and dispatches to one of its
// subcommands.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Verbose    bool   `flag:"verbose"`
	PrintParse bool   `flag:"p,print-parse"`
	Output     string `flag:"o,output"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)       { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	switch cmdName {
	case "run":
		if len(c.args[1:]) != 1 {
			return errors.New("run: exactly one bytecode file must be provided")
		}
	case "encode":
		if len(c.args[1:]) != 2 {
			return errors.New("encode: a source and a destination file must be provided")
		}
	case "decode":
		if len(c.args[1:]) != 1 {
			return errors.New("decode: exactly one bytecode file must be provided")
		}
	}

	if c.Verbose && cmdName != "run" {
		return fmt.Errorf("%s: invalid flag --verbose", cmdName)
	}
	if c.PrintParse && cmdName != "encode" {
		return fmt.Errorf("%s: invalid flag -p/--print-parse", cmdName)
	}
	if c.Output != "" && cmdName != "decode" {
		return fmt.Errorf("%s: invalid flag -o/--output", cmdName)
	}
	return nil
}

// Main is the toolkit binary's entry point, called directly from main().
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

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	err := c.cmdFn(ctx, stdio, c.args[1:])
	switch {
	case err == nil:
		return mainer.Success
	case errors.Is(err, errAborted):
		fmt.Fprintln(stdio.Stderr, "Aborted!")
		return mainer.ExitCode(1)
	case errors.Is(err, errFileNotFound):
		return mainer.ExitCode(2)
	default:
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}
}

// valid commands are those that take a context, a mainer.Stdio and a slice
// of strings as input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
