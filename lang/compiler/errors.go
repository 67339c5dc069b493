// Package compiler implements the compiler core: a tree-walking code
// generator that turns an *ast.File into textual assembly with symbolic
// labels, and a linker that resolves those labels into the relative
// displacements the virtual machine's control-transfer instructions expect.
package compiler

import (
	"fmt"

	"github.com/mna/styock/lang/token"
)

// ErrorKind enumerates the closed set of compile-time failures the compiler
// core can report. There is no open-ended diagnostic channel: every failure
// is one of these.
type ErrorKind uint8

const (
	DuplicateLabel ErrorKind = iota
	UndefinedLabel
	DuplicateFunction
	MissingMain
	DuplicateParameter
	DuplicateLocal
	UndeclaredVariable
	ImmutableAssignment
	BreakOutsideLoop
	ContinueOutsideLoop
	UnknownMnemonic
	MalformedProgram
)

var errorKindNames = [...]string{
	DuplicateLabel:       "duplicate label",
	UndefinedLabel:       "undefined label",
	DuplicateFunction:    "duplicate function",
	MissingMain:          "missing main function",
	DuplicateParameter:   "duplicate parameter",
	DuplicateLocal:       "duplicate local",
	UndeclaredVariable:   "undeclared variable",
	ImmutableAssignment:  "assignment to immutable variable",
	BreakOutsideLoop:     "break outside loop",
	ContinueOutsideLoop:  "continue outside loop",
	UnknownMnemonic:      "unknown mnemonic",
	MalformedProgram:     "malformed program",
}

func (k ErrorKind) String() string { return errorKindNames[k] }

// Error is a single compile-time failure.
type Error struct {
	Kind ErrorKind
	Pos  token.Pos // zero value if not applicable (e.g. linker errors)
	Detail string
}

func (e *Error) Error() string {
	if e.Pos.Unknown() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Detail)
}

func newError(kind ErrorKind, pos token.Pos, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Detail: fmt.Sprintf(format, args...)}
}
