package toolkitcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/styock/lang/codec"
)

// Decode disassembles a binary program back to resolved textual assembly.
func (c *Cmd) Decode(_ context.Context, stdio mainer.Stdio, args []string) error {
	raw, err := readFile(args[0])
	if err != nil {
		return err
	}

	instructions, err := codec.DecodeProgram(raw)
	if err != nil {
		return err
	}
	out := codec.FormatProgram(instructions)

	if c.Output == "" {
		fmt.Fprint(stdio.Stdout, out)
		return nil
	}
	return os.WriteFile(c.Output, []byte(out), 0o644)
}
