package compiler

import (
	"strings"
	"testing"

	"github.com/mna/styock/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyMainPrologueAndEpilogue(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { }"))
	require.NoError(t, err)
	asm, err := Compile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(asm, "\n"), "\n")
	assert.Equal(t, "\tcall main", lines[0])
	assert.Equal(t, "\tstop", lines[1])
	assert.Equal(t, "main:", lines[2])
	assert.Equal(t, "\tpush 0", lines[3])
	assert.Equal(t, "\tret", lines[4])
}

func TestCompileIntLiteralPushesDecimal(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { 0xff }"))
	require.NoError(t, err)
	asm, err := Compile(file)
	require.NoError(t, err)
	assert.Contains(t, asm, "\tpush 255\n")
}

func TestCompileBinaryOperatorMapping(t *testing.T) {
	cases := map[string]string{
		"+":  "add",
		"-":  "sub",
		"*":  "mul",
		"/":  "div",
		"%":  "mod",
		"<<": "shl",
		">>": "shr",
		"&":  "and",
		"|":  "or",
		"^":  "xor",
		"==": "eq",
		"!=": "neq",
		"<":  "lt",
		">":  "gt",
		"<=": "le",
		">=": "ge",
		"&&": "and",
		"||": "or",
	}
	for op, mnemonic := range cases {
		file, err := parser.ParseFile([]byte("fn main() { 1 " + op + " 2 }"))
		require.NoError(t, err, op)
		asm, err := Compile(file)
		require.NoError(t, err, op)
		assert.Contains(t, asm, "\t"+mnemonic+"\n", "operator %s", op)
	}
}

func TestCompileMissingMain(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn foo() { }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, MissingMain, cerr.Kind)
}

func TestCompileDuplicateFunction(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { } fn main() { }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, DuplicateFunction, cerr.Kind)
}

func TestCompileDuplicateParameter(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn f(a, a) { } fn main() { f(1, 2) }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, DuplicateParameter, cerr.Kind)
}

func TestCompileDuplicateLocal(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { let x = 1; let x = 2; }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, DuplicateLocal, cerr.Kind)
}

func TestCompileUndeclaredVariable(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { y }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UndeclaredVariable, cerr.Kind)
}

func TestCompileImmutableAssignment(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { let x = 1; x = 2; }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ImmutableAssignment, cerr.Kind)
}

func TestCompileBreakOutsideLoop(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { break; }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, BreakOutsideLoop, cerr.Kind)
}

func TestCompileContinueOutsideLoop(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn main() { continue; }"))
	require.NoError(t, err)
	_, err = Compile(file)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ContinueOutsideLoop, cerr.Kind)
}

func TestCompileParamPrologueDescendingOrder(t *testing.T) {
	file, err := parser.ParseFile([]byte("fn add(a, b) { a + b } fn main() { add(1, 2) }"))
	require.NoError(t, err)
	asm, err := Compile(file)
	require.NoError(t, err)

	idx1 := strings.Index(asm, "\tstore 1\n")
	idx0 := strings.Index(asm, "\tstore 0\n")
	require.NotEqual(t, -1, idx1)
	require.NotEqual(t, -1, idx0)
	assert.Less(t, idx1, idx0, "store 1 (last-declared param) must be emitted before store 0")
}

func TestCompileLoopLabelNesting(t *testing.T) {
	file, err := parser.ParseFile([]byte(`fn main() {
		loop {
			loop {
				break;
			}
			break;
		}
	}`))
	require.NoError(t, err)
	_, err = Compile(file)
	require.NoError(t, err)
}
