package compiler

import (
	"testing"

	"github.com/mna/styock/lang/codec"
	"github.com/mna/styock/lang/isa"
	"github.com/mna/styock/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndLinkEmptyMain(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { }"))
	require.NoError(t, err)
	resolved, err := CompileAndLink(file)
	require.NoError(t, err)
	assert.Equal(t, "call 2\nstop\npush 0\nret\n", resolved)
}

func TestAssembleEmptyMainIs32Bytes(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { }"))
	require.NoError(t, err)
	program, err := Assemble(file)
	require.NoError(t, err)
	assert.Len(t, program, 32)

	decoded, err := codec.DecodeProgram(program)
	require.NoError(t, err)
	assert.Equal(t, []codec.Instruction{
		{Op: isa.CALL, Arg: 2},
		{Op: isa.STOP},
		{Op: isa.PUSH, Arg: 0},
		{Op: isa.RET},
	}, decoded)
}

func TestAssembleArithmeticExpression(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { 6 + 8 }"))
	require.NoError(t, err)
	program, err := Assemble(file)
	require.NoError(t, err)

	decoded, err := codec.DecodeProgram(program)
	require.NoError(t, err)

	var ops []isa.Opcode
	for _, ins := range decoded {
		ops = append(ops, ins.Op)
	}
	assert.Contains(t, ops, isa.ADD)
}

func TestAssembleCallsIntoFunction(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn add(a, b) { a + b } fn main() { add(1, 2) }"))
	require.NoError(t, err)
	program, err := Assemble(file)
	require.NoError(t, err)
	require.NotEmpty(t, program)

	decoded, err := codec.DecodeProgram(program)
	require.NoError(t, err)
	require.NotEmpty(t, decoded)
	assert.Equal(t, isa.CALL, decoded[0].Op)
}

func TestAssemblePropagatesUndefinedLabel(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { ghost() }"))
	require.NoError(t, err)
	_, err = Assemble(file)
	require.Error(t, err)
}
