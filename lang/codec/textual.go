package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/styock/lang/isa"
)

// ParseProgram parses resolved textual assembly (one instruction per
// non-blank line, labels already folded into relative displacements by the
// linker) into a decoded instruction sequence. Comments starting with '#'
// run to the end of the line.
func ParseProgram(src string) ([]Instruction, error) {
	var program []Instruction
	for n, rawLine := range strings.Split(src, "\n") {
		line := stripComment(rawLine)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ins, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("codec: line %d: %w", n+1, err)
		}
		program = append(program, ins)
	}
	return program, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseLine(line string) (Instruction, error) {
	fields := strings.Fields(line)
	mnemonic := fields[0]
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown mnemonic %q", mnemonic)
	}

	if !op.HasArg() {
		if len(fields) > 1 {
			return Instruction{}, fmt.Errorf("%s: takes no argument, got %q", mnemonic, fields[1])
		}
		return Instruction{Op: op}, nil
	}
	if len(fields) < 2 {
		return Instruction{}, fmt.Errorf("%s: missing argument", mnemonic)
	}

	if op.SignedArg() {
		v, err := strconv.ParseInt(fields[1], 0, 64)
		if err != nil {
			return Instruction{}, fmt.Errorf("%s: invalid argument %q: %w", mnemonic, fields[1], err)
		}
		return Instruction{Op: op, Arg: uint64(v)}, nil
	}

	v, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return Instruction{}, fmt.Errorf("%s: invalid argument %q: %w", mnemonic, fields[1], err)
	}
	return Instruction{Op: op, Arg: v}, nil
}

// FormatProgram renders a decoded instruction sequence back to resolved
// textual assembly, one instruction per line. Used by the disassembler.
func FormatProgram(program []Instruction) string {
	var sb strings.Builder
	for _, ins := range program {
		if ins.Op.HasArg() {
			if ins.Op.SignedArg() {
				fmt.Fprintf(&sb, "%s %d\n", ins.Op, int64(ins.Arg))
			} else {
				fmt.Fprintf(&sb, "%s %d\n", ins.Op, ins.Arg)
			}
		} else {
			fmt.Fprintf(&sb, "%s\n", ins.Op)
		}
	}
	return sb.String()
}
