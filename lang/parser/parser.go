// Package parser implements a recursive-descent parser that turns a token
// stream from the scanner package into the ast package's tree shape. Like
// the scanner, it sits outside the compiler core's documented boundary: the
// compiler accepts any *ast.File, however it was produced.
package parser

import (
	"fmt"

	"github.com/mna/styock/lang/ast"
	"github.com/mna/styock/lang/scanner"
	"github.com/mna/styock/lang/token"
)

// Error is a single parse failure with its source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// ErrorList collects every error encountered while parsing a file, so a
// single run can report more than the first failure.
type ErrorList []*Error

func (errs ErrorList) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", errs[0], len(errs)-1)
	}
}

// ParseFile parses a complete source file into an *ast.File.
func ParseFile(src []byte) (*ast.File, error) {
	var p parser
	p.sc.Init(src)
	p.next()

	file := &ast.File{}
	for p.tok != token.EOF {
		fn := p.parseFunction()
		if fn != nil {
			file.Functions = append(file.Functions, fn)
		}
	}
	if len(p.errs) > 0 {
		return file, p.errs
	}
	return file, nil
}

type parser struct {
	sc  scanner.Scanner
	errs ErrorList

	tok token.Token
	val token.Value
}

func (p *parser) next() {
	tok, val, err := p.sc.Scan()
	if err != nil {
		p.errs = append(p.errs, &Error{Pos: val.Pos, Msg: err.Error()})
	}
	p.tok = tok
	p.val = val
}

func (p *parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.errs = append(p.errs, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// expect consumes tok if it matches the current token, else records an error
// and leaves the cursor in place so callers can attempt to resynchronize.
func (p *parser) expect(tok token.Token) token.Value {
	val := p.val
	if p.tok != tok {
		p.errorf(p.val.Pos, "expected %s, got %s", tok, p.tok)
		return val
	}
	p.next()
	return val
}

func (p *parser) parseFunction() *ast.Function {
	pos := p.val.Pos
	p.expect(token.FN)
	name := p.expect(token.IDENT).Raw

	p.expect(token.LPAREN)
	var params []ast.Param
	for p.tok != token.RPAREN && p.tok != token.EOF {
		mutable := false
		if p.tok == token.MUT {
			mutable = true
			p.next()
		}
		pv := p.expect(token.IDENT)
		params = append(params, ast.Param{Name: pv.Raw, Mutable: mutable, NamePos: pv.Pos})
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)

	// optional `-> ty` return annotation: accepted and discarded, since the
	// core has no type system beyond mutability.
	if p.tok == token.ARROW {
		p.next()
		p.expect(token.IDENT)
	}

	body := p.parseBlock()
	return &ast.Function{Name: name, Params: params, Body: body, NamePos: pos}
}

func (p *parser) parseBlock() *ast.Block {
	pos := p.expect(token.LBRACE).Pos
	block := &ast.Block{LBracePos: pos}

	for p.tok != token.RBRACE && p.tok != token.EOF {
		// A bare block-form expression (if/loop/while/{) followed directly by
		// `}` is the block's tail value; the same expression followed by more
		// statements or a `;` is an expression statement.
		if isBlockExprStart(p.tok) {
			expr := p.parseBlockExpr()
			if p.tok == token.RBRACE {
				block.Tail = expr
				break
			}
			if p.tok == token.SEMI {
				p.next()
			}
			block.Stmts = append(block.Stmts, &ast.ExprStmt{X: expr})
			continue
		}

		stmt, tailExpr := p.parseStmt()
		if tailExpr != nil {
			block.Tail = tailExpr
			break
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	p.expect(token.RBRACE)
	return block
}

func isBlockExprStart(tok token.Token) bool {
	switch tok {
	case token.IF, token.LOOP, token.WHILE, token.LBRACE:
		return true
	}
	return false
}

func (p *parser) parseBlockExpr() ast.Expr {
	switch p.tok {
	case token.IF:
		return p.parseIf()
	case token.LOOP:
		return p.parseLoop()
	case token.WHILE:
		return p.parseWhile()
	case token.LBRACE:
		return &ast.BlockExpr{Block: p.parseBlock()}
	default:
		p.errorf(p.val.Pos, "expected block expression, got %s", p.tok)
		p.next()
		return &ast.BlockExpr{Block: &ast.Block{}}
	}
}

// parseStmt parses one statement. If the statement turns out to be a bare
// expression with no trailing `;` immediately before `}`, it is returned as
// the block's tail expression instead (second return value).
func (p *parser) parseStmt() (ast.Stmt, ast.Expr) {
	pos := p.val.Pos
	switch p.tok {
	case token.SEMI:
		p.next()
		return &ast.NopStmt{SemiPos: pos}, nil
	case token.LET:
		return p.parseLet(), nil
	default:
		expr := p.parseExpr()
		if p.tok == token.SEMI {
			p.next()
			return &ast.ExprStmt{X: expr}, nil
		}
		if p.tok == token.RBRACE {
			return nil, expr
		}
		p.errorf(p.val.Pos, "expected ';' or '}', got %s", p.tok)
		return &ast.ExprStmt{X: expr}, nil
	}
}

func (p *parser) parseLet() *ast.LetStmt {
	pos := p.expect(token.LET).Pos
	mutable := false
	if p.tok == token.MUT {
		mutable = true
		p.next()
	}
	name := p.expect(token.IDENT).Raw

	// optional `: ty` annotation: accepted and discarded.
	if p.tok == token.COLON {
		p.next()
		p.expect(token.IDENT)
	}

	var init ast.Expr
	if p.tok == token.EQ {
		p.next()
		init = p.parseExpr()
	}
	p.expect(token.SEMI)
	return &ast.LetStmt{Name: name, Mutable: mutable, Init: init, LetPos: pos}
}

func (p *parser) parseIf() *ast.IfExpr {
	pos := p.expect(token.IF).Pos
	cond := p.parseExpr()
	then := p.parseBlock()
	ifExpr := &ast.IfExpr{Cond: cond, Then: then, IfPos: pos}
	if p.tok == token.ELSE {
		p.next()
		if p.tok == token.IF {
			ifExpr.Else = p.parseIf()
		} else {
			ifExpr.Else = p.parseBlock()
		}
	}
	return ifExpr
}

func (p *parser) parseLoop() *ast.LoopExpr {
	pos := p.expect(token.LOOP).Pos
	return &ast.LoopExpr{Body: p.parseBlock(), LoopPos: pos}
}

func (p *parser) parseWhile() *ast.WhileExpr {
	pos := p.expect(token.WHILE).Pos
	cond := p.parseExpr()
	return &ast.WhileExpr{Cond: cond, Body: p.parseBlock(), WhilePos: pos}
}
