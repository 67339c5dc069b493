package toolkitcmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/styock/lang/codec"
)

// Encode parses resolved textual assembly and writes its binary encoding.
func (c *Cmd) Encode(_ context.Context, stdio mainer.Stdio, args []string) error {
	src, dst := args[0], args[1]
	raw, err := readFile(src)
	if err != nil {
		return err
	}

	instructions, err := codec.ParseProgram(string(raw))
	if err != nil {
		return err
	}
	if c.PrintParse {
		fmt.Fprint(stdio.Stdout, codec.FormatProgram(instructions))
	}

	return os.WriteFile(dst, codec.EncodeProgram(instructions), 0o644)
}
