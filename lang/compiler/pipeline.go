package compiler

import (
	"github.com/mna/styock/lang/ast"
	"github.com/mna/styock/lang/codec"
)

// CompileAndLink runs both compiler-core passes: Compile emits symbolic
// assembly from the parse tree, Link resolves its labels to relative
// displacements. The result is resolved textual assembly.
func CompileAndLink(file *ast.File) (string, error) {
	symbolic, err := Compile(file)
	if err != nil {
		return "", err
	}
	return Link(symbolic)
}

// Assemble runs the full pipeline from parse tree to the VM's fixed-width
// binary encoding.
func Assemble(file *ast.File) ([]byte, error) {
	resolved, err := CompileAndLink(file)
	if err != nil {
		return nil, err
	}
	program, err := codec.ParseProgram(resolved)
	if err != nil {
		return nil, err
	}
	return codec.EncodeProgram(program), nil
}
