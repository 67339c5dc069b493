package ast

import "github.com/mna/styock/lang/token"

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// IntLit is an integer literal. Value is its numeric value, with base
// prefix, digit separators and type suffix already resolved by the scanner.
type IntLit struct {
	Value   int64
	ValuePos token.Pos
}

func (e *IntLit) Pos() token.Pos { return e.ValuePos }
func (*IntLit) exprNode()        {}

// FloatLit is a float literal. Text is the literal with digit separators
// and type suffix removed. The core does not compute with floats; the
// compiler emits the value truncated to an integer.
type FloatLit struct {
	Text    string
	ValuePos token.Pos
}

func (e *FloatLit) Pos() token.Pos { return e.ValuePos }
func (*FloatLit) exprNode()        {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value   bool
	ValuePos token.Pos
}

func (e *BoolLit) Pos() token.Pos { return e.ValuePos }
func (*BoolLit) exprNode()        {}

// Ident is a variable reference (a "path" expression restricted to a bare
// name, since paths/modules are out of scope).
type Ident struct {
	Name    string
	NamePos token.Pos
}

func (e *Ident) Pos() token.Pos { return e.NamePos }
func (*Ident) exprNode()        {}

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	Op    token.Token // MINUS or NOT
	X     Expr
	OpPos token.Pos
}

func (e *UnaryExpr) Pos() token.Pos { return e.OpPos }
func (*UnaryExpr) exprNode()        {}

// BinaryExpr covers arithmetic, bitwise, shift, comparison and lazy-boolean
// binary operators. Lazy booleans are compiled eagerly (see opMnemonics in
// the compiler package).
type BinaryExpr struct {
	Op    token.Token
	X, Y  Expr
	OpPos token.Pos
}

func (e *BinaryExpr) Pos() token.Pos { return e.X.Pos() }
func (*BinaryExpr) exprNode()        {}

// AssignExpr is `name = value`.
type AssignExpr struct {
	Name    string
	Value   Expr
	NamePos token.Pos
}

func (e *AssignExpr) Pos() token.Pos { return e.NamePos }
func (*AssignExpr) exprNode()        {}

// CompoundAssignExpr is `name op= value`.
type CompoundAssignExpr struct {
	Name    string
	Op      token.Token // the underlying binary op, e.g. PLUS for PLUSEQ
	Value   Expr
	NamePos token.Pos
}

func (e *CompoundAssignExpr) Pos() token.Pos { return e.NamePos }
func (*CompoundAssignExpr) exprNode()        {}

// CallExpr is `name(args...)`. Only calls to top-level functions by bare
// name are supported (no first-class function values).
type CallExpr struct {
	Name    string
	Args    []Expr
	NamePos token.Pos
}

func (e *CallExpr) Pos() token.Pos { return e.NamePos }
func (*CallExpr) exprNode()        {}

// IfExpr is `if cond { then } [else elseBranch]`. Else is nil, a
// *Block, or another *IfExpr (chained `else if`).
type IfExpr struct {
	Cond   Expr
	Then   *Block
	Else   Node // nil, *Block, or *IfExpr
	IfPos  token.Pos
}

func (e *IfExpr) Pos() token.Pos { return e.IfPos }
func (*IfExpr) exprNode()        {}

// LoopExpr is an unconditional `loop { body }`.
type LoopExpr struct {
	Body    *Block
	LoopPos token.Pos
}

func (e *LoopExpr) Pos() token.Pos { return e.LoopPos }
func (*LoopExpr) exprNode()        {}

// WhileExpr is a predicate-controlled `while cond { body }`.
type WhileExpr struct {
	Cond     Expr
	Body     *Block
	WhilePos token.Pos
}

func (e *WhileExpr) Pos() token.Pos { return e.WhilePos }
func (*WhileExpr) exprNode()        {}

// BreakExpr is `break`, binding to the innermost enclosing loop.
type BreakExpr struct {
	BreakPos token.Pos
}

func (e *BreakExpr) Pos() token.Pos { return e.BreakPos }
func (*BreakExpr) exprNode()        {}

// ContinueExpr is `continue`, binding to the innermost enclosing loop.
type ContinueExpr struct {
	ContinuePos token.Pos
}

func (e *ContinueExpr) Pos() token.Pos { return e.ContinuePos }
func (*ContinueExpr) exprNode()        {}

// ReturnExpr is `return [value]`.
type ReturnExpr struct {
	Value     Expr // may be nil
	ReturnPos token.Pos
}

func (e *ReturnExpr) Pos() token.Pos { return e.ReturnPos }
func (*ReturnExpr) exprNode()        {}

// BlockExpr wraps a *Block used in expression position (if/loop/while are
// their own node kinds; this covers a bare `{ ... }` used as a statement).
type BlockExpr struct {
	Block *Block
}

func (e *BlockExpr) Pos() token.Pos { return e.Block.Pos() }
func (*BlockExpr) exprNode()        {}
