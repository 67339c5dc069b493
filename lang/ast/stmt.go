package ast

import "github.com/mna/styock/lang/token"

// Stmt is any statement that appears before a block's tail expression: a
// `;`-terminated statement, or a block-form expression (if/loop/while/block)
// that is followed by more statements, with or without a `;`.
type Stmt interface {
	Node
	stmtNode()
}

// NopStmt is a bare `;` with no expression.
type NopStmt struct {
	SemiPos token.Pos
}

func (s *NopStmt) Pos() token.Pos { return s.SemiPos }
func (*NopStmt) stmtNode()        {}

// LetStmt is `let [mut] name [= init];`.
type LetStmt struct {
	Name    string
	Mutable bool
	Init    Expr // may be nil, in which case the variable is 0-initialized
	LetPos  token.Pos
}

func (s *LetStmt) Pos() token.Pos { return s.LetPos }
func (*LetStmt) stmtNode()        {}

// ExprStmt wraps an expression used for its side effect, its value
// discarded. A block-form expression used as a statement (if/loop/while)
// also takes this form.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Pos() token.Pos { return s.X.Pos() }
func (*ExprStmt) stmtNode()        {}
