package compiler

import (
	"strconv"
	"strings"

	"github.com/mna/styock/lang/isa"
	"github.com/mna/styock/lang/token"
)

// Link performs the compiler core's second pass: it takes symbolic textual
// assembly (instructions plus `name:` labels, as produced by Compile) and
// resolves every label reference on a control-transfer instruction
// (call/jmp/jift) to a displacement relative to that instruction's own
// address, in instruction-word units. The result is resolved textual
// assembly with no labels left, ready for codec.ParseProgram.
//
// Linking is two passes over the same line list: the first assigns every
// label the address (a synthetic instruction-pointer counter, incremented
// once per non-label line) of the instruction that follows it; the second
// rewrites each control-transfer instruction's operand from a label name to
// "ip_of(label) - ip_of(this instruction)".
func Link(src string) (string, error) {
	lines := splitLines(src)

	labels := make(map[string]uint64)
	var ip uint64
	for _, ln := range lines {
		if name, isLabel := labelName(ln); isLabel {
			if _, dup := labels[name]; dup {
				return "", newError(DuplicateLabel, token.Pos(0), "label %q already defined", name)
			}
			labels[name] = ip
			continue
		}
		ip++
	}

	var out strings.Builder
	ip = 0
	for _, ln := range lines {
		if _, isLabel := labelName(ln); isLabel {
			continue
		}
		resolved, err := resolveLine(ln, ip, labels)
		if err != nil {
			return "", err
		}
		out.WriteString(resolved)
		out.WriteByte('\n')
		ip++
	}
	return out.String(), nil
}

func splitLines(src string) []string {
	raw := strings.Split(src, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func labelName(line string) (string, bool) {
	if strings.HasSuffix(line, ":") {
		return strings.TrimSuffix(line, ":"), true
	}
	return "", false
}

func resolveLine(line string, ip uint64, labels map[string]uint64) (string, error) {
	fields := strings.Fields(line)
	mnemonic := fields[0]
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return "", newError(UnknownMnemonic, token.Pos(0), "unknown mnemonic %q", mnemonic)
	}
	if !op.SignedArg() || len(fields) < 2 {
		return line, nil
	}

	target := fields[1]
	// an operand that already parses as a number (e.g. hand-written
	// relative-displacement assembly) is passed through unresolved.
	if _, err := strconv.ParseInt(target, 0, 64); err == nil {
		return line, nil
	}

	addr, ok := labels[target]
	if !ok {
		return "", newError(UndefinedLabel, token.Pos(0), "undefined label %q", target)
	}
	disp := int64(addr) - int64(ip)
	return mnemonic + " " + strconv.FormatInt(disp, 10), nil
}
