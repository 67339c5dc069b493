package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/styock/lang/ast"
	"github.com/mna/styock/lang/token"
)

// opMnemonics maps a binary/unary source operator to the instruction that
// implements it. Lazily evaluated booleans (&&, ||) compile to the same
// eager bitwise AND/OR as any other binary operator: both operands are
// always evaluated, and the result equals the logical one only when both
// operand values are 0 or 1.
var opMnemonics = map[token.Token]string{
	token.PLUS:      "add",
	token.MINUS:     "sub",
	token.STAR:      "mul",
	token.SLASH:     "div",
	token.PERCENT:   "mod",
	token.SHL:       "shl",
	token.SHR:       "shr",
	token.AMPERSAND: "and",
	token.PIPE:      "or",
	token.CARET:     "xor",
	token.ANDAND:    "and",
	token.OROR:      "or",
	token.EQEQ:      "eq",
	token.NEQ:       "neq",
	token.LT:        "lt",
	token.LE:        "le",
	token.GT:        "gt",
	token.GE:        "ge",
}

type loopLabels struct {
	continueLabel string
	breakLabel    string
}

// compiler holds the state threaded through a single Compile call.
type compiler struct {
	fns   map[string]*FnMeta
	order []string

	cur *FnMeta

	labelCounter int
	loops        []loopLabels

	sb   strings.Builder
	errs []*Error
}

// Compile walks file and emits symbolic textual assembly: one `call main` /
// `stop` prologue followed by every function's code, with labels left
// unresolved for the linker. The returned error, if non-nil, is a *Error
// when there is a single failure, or a plain error listing every failure's
// message when there are several. Compilation stops after the declaration
// pass if it found any structural error (duplicate function/parameter) or
// if main is missing, but collects per-statement errors across every
// function body so more than one mistake can be reported per run.
func Compile(file *ast.File) (string, error) {
	c := &compiler{fns: make(map[string]*FnMeta)}

	for _, fn := range file.Functions {
		if _, exists := c.fns[fn.Name]; exists {
			c.errs = append(c.errs, newError(DuplicateFunction, fn.NamePos, "function %q already defined", fn.Name))
			continue
		}
		meta := newFnMeta(fn.Name)
		for _, p := range fn.Params {
			if _, ok := meta.addParam(p.Name, p.Mutable); !ok {
				c.errs = append(c.errs, newError(DuplicateParameter, p.NamePos, "parameter %q already declared in %q", p.Name, fn.Name))
			}
		}
		c.fns[fn.Name] = meta
		c.order = append(c.order, fn.Name)
	}
	if len(c.errs) > 0 {
		return "", combine(c.errs)
	}
	if _, ok := c.fns["main"]; !ok {
		return "", newError(MissingMain, token.Pos(0), "program has no \"main\" function")
	}

	c.emit("call main")
	c.emit("stop")

	byName := make(map[string]*ast.Function, len(file.Functions))
	for _, fn := range file.Functions {
		byName[fn.Name] = fn
	}
	for _, name := range c.order {
		c.compileFunction(byName[name])
	}

	if len(c.errs) > 0 {
		return "", combine(c.errs)
	}
	return c.sb.String(), nil
}

func combine(errs []*Error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d errors:\n%s", len(errs), strings.Join(msgs, "\n"))
}

func (c *compiler) nextLabel(purpose string) string {
	lbl := fmt.Sprintf(".%d_%s_utlbl", c.labelCounter, purpose)
	c.labelCounter++
	return lbl
}

func (c *compiler) emit(format string, args ...interface{}) {
	fmt.Fprintf(&c.sb, "\t%s\n", fmt.Sprintf(format, args...))
}

func (c *compiler) label(name string) {
	fmt.Fprintf(&c.sb, "%s:\n", name)
}

func (c *compiler) fail(kind ErrorKind, pos token.Pos, format string, args ...interface{}) {
	c.errs = append(c.errs, newError(kind, pos, format, args...))
}

func (c *compiler) compileFunction(fn *ast.Function) {
	c.cur = c.fns[fn.Name]
	c.label(fn.Name)

	// Parameters arrive on the operand stack in declaration order, so the
	// last-declared parameter is on top; storing ids in descending order
	// drains the stack into the right slots.
	for id := c.cur.numParams() - 1; id >= 0; id-- {
		c.emit("store %d", id)
	}

	c.compileBlockValue(fn.Body)
	c.emit("ret")
}

// compileBlockStmts emits every statement in b in order, but does not
// produce a value for the block as a whole: used where a block appears in
// a non-value context (loop/while bodies).
func (c *compiler) compileBlockStmts(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.compileStmt(stmt)
	}
}

// compileBlockValue emits a block used as an expression: its statements,
// then its tail expression's value, or a 0 (this language's unit value) if
// there is none.
func (c *compiler) compileBlockValue(b *ast.Block) {
	c.compileBlockStmts(b)
	if b.Tail != nil {
		c.compileExpr(b.Tail)
	} else {
		c.emit("push 0")
	}
}

// compileBlockDiscard emits a block whose tail value, if any, is
// not needed (loop/while bodies): the tail expression still runs for its
// side effects, but its value is popped rather than retained.
func (c *compiler) compileBlockDiscard(b *ast.Block) {
	c.compileBlockStmts(b)
	if b.Tail != nil {
		c.compileExpr(b.Tail)
		c.emit("pop")
	}
}

func (c *compiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.NopStmt:
		c.emit("nop")
	case *ast.LetStmt:
		if s.Init != nil {
			c.compileExpr(s.Init)
		} else {
			c.emit("push 0")
		}
		vm, ok := c.cur.addLocal(s.Name, s.Mutable)
		if !ok {
			c.fail(DuplicateLocal, s.LetPos, "%q already declared in %q", s.Name, c.cur.Name)
			return
		}
		c.emit("store %d", vm.ID)
	case *ast.ExprStmt:
		switch s.X.(type) {
		case *ast.BreakExpr, *ast.ContinueExpr, *ast.ReturnExpr:
			// control never falls through to a point where the value (if any)
			// would be consumed; emitting a pop after would be dead code.
			c.compileExpr(s.X)
		default:
			c.compileExpr(s.X)
			c.emit("pop")
		}
	default:
		c.fail(MalformedProgram, stmt.Pos(), "unknown statement node %T", stmt)
	}
}

func (c *compiler) compileExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.IntLit:
		c.emit("push %d", uint64(e.Value))
	case *ast.FloatLit:
		// The core does no float arithmetic; a float literal passes through
		// as its truncated integer value, which is all a pure stack-of-uint64
		// machine can represent.
		f, _ := strconv.ParseFloat(e.Text, 64)
		c.emit("push %d", uint64(int64(f)))
	case *ast.BoolLit:
		if e.Value {
			c.emit("push 1")
		} else {
			c.emit("push 0")
		}
	case *ast.Ident:
		vm, ok := c.cur.lookup(e.Name)
		if !ok {
			c.fail(UndeclaredVariable, e.NamePos, "undeclared variable %q", e.Name)
			return
		}
		c.emit("load %d", vm.ID)
	case *ast.UnaryExpr:
		c.compileExpr(e.X)
		switch e.Op {
		case token.MINUS:
			c.emit("neg")
		case token.NOT:
			c.emit("not")
		default:
			c.fail(MalformedProgram, e.OpPos, "unknown unary operator %s", e.Op)
		}
	case *ast.BinaryExpr:
		c.compileExpr(e.X)
		c.compileExpr(e.Y)
		mnemonic, ok := opMnemonics[e.Op]
		if !ok {
			c.fail(MalformedProgram, e.OpPos, "unknown binary operator %s", e.Op)
			return
		}
		c.emit(mnemonic)
	case *ast.AssignExpr:
		c.compileAssign(e.Name, e.NamePos, e.Value)
	case *ast.CompoundAssignExpr:
		vm, ok := c.cur.lookup(e.Name)
		if !ok {
			c.fail(UndeclaredVariable, e.NamePos, "undeclared variable %q", e.Name)
			return
		}
		if !vm.Mutable {
			c.fail(ImmutableAssignment, e.NamePos, "cannot assign to immutable variable %q", e.Name)
			return
		}
		c.emit("load %d", vm.ID)
		c.compileExpr(e.Value)
		mnemonic, ok := opMnemonics[e.Op]
		if !ok {
			c.fail(MalformedProgram, e.NamePos, "unknown compound-assignment operator %s", e.Op)
			return
		}
		c.emit(mnemonic)
		c.emit("store %d", vm.ID)
		c.emit("push 0")
	case *ast.CallExpr:
		for _, arg := range e.Args {
			c.compileExpr(arg)
		}
		c.emit("call %s", e.Name)
	case *ast.IfExpr:
		c.compileIf(e)
	case *ast.LoopExpr:
		c.compileLoop(e)
	case *ast.WhileExpr:
		c.compileWhile(e)
	case *ast.BreakExpr:
		if len(c.loops) == 0 {
			c.fail(BreakOutsideLoop, e.BreakPos, "break outside any loop")
			return
		}
		c.emit("jmp %s", c.loops[len(c.loops)-1].breakLabel)
	case *ast.ContinueExpr:
		if len(c.loops) == 0 {
			c.fail(ContinueOutsideLoop, e.ContinuePos, "continue outside any loop")
			return
		}
		c.emit("jmp %s", c.loops[len(c.loops)-1].continueLabel)
	case *ast.ReturnExpr:
		if e.Value != nil {
			c.compileExpr(e.Value)
		} else {
			c.emit("push 0")
		}
		c.emit("ret")
	case *ast.BlockExpr:
		c.compileBlockValue(e.Block)
	default:
		c.fail(MalformedProgram, expr.Pos(), "unknown expression node %T", expr)
	}
}

func (c *compiler) compileAssign(name string, pos token.Pos, value ast.Expr) {
	vm, ok := c.cur.lookup(name)
	if !ok {
		c.fail(UndeclaredVariable, pos, "undeclared variable %q", name)
		return
	}
	if !vm.Mutable {
		c.fail(ImmutableAssignment, pos, "cannot assign to immutable variable %q", name)
		return
	}
	c.compileExpr(value)
	c.emit("store %d", vm.ID)
	c.emit("push 0")
}

func (c *compiler) compileIf(e *ast.IfExpr) {
	thenLbl := c.nextLabel("if_then")
	fiLbl := c.nextLabel("if_fi")

	c.compileExpr(e.Cond)
	c.emit("jift %s", thenLbl)

	switch els := e.Else.(type) {
	case nil:
		c.emit("push 0")
	case *ast.Block:
		c.compileBlockValue(els)
	case *ast.IfExpr:
		c.compileIf(els)
	default:
		c.fail(MalformedProgram, e.IfPos, "unknown else-branch node %T", e.Else)
	}
	c.emit("jmp %s", fiLbl)

	c.label(thenLbl)
	c.compileBlockValue(e.Then)

	c.label(fiLbl)
}

func (c *compiler) compileLoop(e *ast.LoopExpr) {
	enterLbl := c.nextLabel("loop_enter")
	exitLbl := c.nextLabel("loop_exit")

	c.loops = append(c.loops, loopLabels{continueLabel: enterLbl, breakLabel: exitLbl})
	c.label(enterLbl)
	c.compileBlockDiscard(e.Body)
	c.emit("jmp %s", enterLbl)
	c.label(exitLbl)
	c.loops = c.loops[:len(c.loops)-1]

	// A loop only exits via `break`, which never carries a value in this
	// language; the loop expression's own value is always unit.
	c.emit("push 0")
}

func (c *compiler) compileWhile(e *ast.WhileExpr) {
	condLbl := c.nextLabel("while_cond")
	enterLbl := c.nextLabel("while_enter")
	exitLbl := c.nextLabel("while_exit")

	c.loops = append(c.loops, loopLabels{continueLabel: condLbl, breakLabel: exitLbl})
	c.emit("jmp %s", condLbl)
	c.label(enterLbl)
	c.compileBlockDiscard(e.Body)
	c.label(condLbl)
	c.compileExpr(e.Cond)
	c.emit("jift %s", enterLbl)
	c.label(exitLbl)
	c.loops = c.loops[:len(c.loops)-1]

	c.emit("push 0")
}
