// Package ast defines the parse tree handed by the front-end to the
// compiler. Lexing and parsing are themselves outside the compiler core's
// documented scope (see the parser package for a reference front-end), but
// this node shape is the contract the compiler's tree walker depends on.
package ast

import "github.com/mna/styock/lang/token"

// Node is implemented by every parse tree node, mostly so error messages can
// report a source position.
type Node interface {
	Pos() token.Pos
}

// File is the root of a parsed source file: an ordered sequence of
// top-level function declarations. A valid program must contain exactly one
// function named "main".
type File struct {
	Functions []*Function
}

// Param is a single function parameter.
type Param struct {
	Name    string
	Mutable bool
	NamePos token.Pos
}

// Function is a top-level `fn name(params) { body }` declaration.
type Function struct {
	Name    string
	Params  []Param
	Body    *Block
	NamePos token.Pos
}

func (f *Function) Pos() token.Pos { return f.NamePos }

// Block is a brace-delimited sequence of statements, optionally ending in a
// tail expression (no trailing semicolon) whose value becomes the block's
// value.
type Block struct {
	Stmts     []Stmt
	Tail      Expr // may be nil
	LBracePos token.Pos
}

func (b *Block) Pos() token.Pos { return b.LBracePos }
