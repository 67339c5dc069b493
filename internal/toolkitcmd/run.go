package toolkitcmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/styock/lang/codec"
	"github.com/mna/styock/lang/vm"
)

// Run loads a binary program and executes it to completion, one instruction
// at a time so an interrupt can abort a runaway program between steps.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	raw, err := readFile(args[0])
	if err != nil {
		return err
	}
	program, err := codec.DecodeProgram(raw)
	if err != nil {
		return err
	}

	m := vm.New()
	m.LoadProgram(program)
	for !m.Halted() {
		select {
		case <-ctx.Done():
			return errAborted
		default:
		}
		if err := m.Step(1); err != nil {
			return fmt.Errorf("%w at address %d", err, m.IP())
		}
	}

	if c.Verbose {
		fmt.Fprintln(stdio.Stdout, m.InfoOperands())
	}
	return nil
}
