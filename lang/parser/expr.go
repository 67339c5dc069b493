package parser

import (
	"github.com/mna/styock/lang/ast"
	"github.com/mna/styock/lang/token"
)

// compoundOps maps a `op=` token to the underlying binary operator it
// expands to, e.g. PLUSEQ -> PLUS.
var compoundOps = map[token.Token]token.Token{
	token.PLUSEQ:    token.PLUS,
	token.MINUSEQ:   token.MINUS,
	token.STAREQ:    token.STAR,
	token.SLASHEQ:   token.SLASH,
	token.PERCENTEQ: token.PERCENT,
	token.ANDEQ:     token.AMPERSAND,
	token.OREQ:      token.PIPE,
	token.CARETEQ:   token.CARET,
	token.SHLEQ:     token.SHL,
	token.SHREQ:     token.SHR,
}

// binPrec gives the binding power of each left-associative binary operator,
// lowest to highest. Operators not listed are not binary operators.
var binPrec = map[token.Token]int{
	token.OROR:      1,
	token.ANDAND:    2,
	token.EQEQ:      3,
	token.NEQ:       3,
	token.LT:        3,
	token.GT:        3,
	token.LE:        3,
	token.GE:        3,
	token.PIPE:      4,
	token.CARET:     5,
	token.AMPERSAND: 6,
	token.SHL:       7,
	token.SHR:       7,
	token.PLUS:      8,
	token.MINUS:     8,
	token.STAR:      9,
	token.SLASH:     9,
	token.PERCENT:   9,
}

// parseExpr parses a full expression, including assignment, which binds
// weaker than every other operator and is right-associative.
func (p *parser) parseExpr() ast.Expr {
	left := p.parseBinary(1)

	switch p.tok {
	case token.EQ:
		pos := p.val.Pos
		p.next()
		ident, ok := left.(*ast.Ident)
		if !ok {
			p.errorf(pos, "left-hand side of assignment must be a variable")
			p.parseExpr()
			return left
		}
		value := p.parseExpr()
		return &ast.AssignExpr{Name: ident.Name, Value: value, NamePos: ident.NamePos}
	default:
		if base, ok := compoundOps[p.tok]; ok {
			pos := p.val.Pos
			p.next()
			ident, ok := left.(*ast.Ident)
			if !ok {
				p.errorf(pos, "left-hand side of compound assignment must be a variable")
				p.parseExpr()
				return left
			}
			value := p.parseExpr()
			return &ast.CompoundAssignExpr{Name: ident.Name, Op: base, Value: value, NamePos: ident.NamePos}
		}
	}
	return left
}

// parseBinary implements precedence climbing over binPrec.
func (p *parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := binPrec[p.tok]
		if !ok || prec < minPrec {
			return left
		}
		op := p.tok
		pos := p.val.Pos
		p.next()
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{Op: op, X: left, Y: right, OpPos: pos}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok == token.MINUS || p.tok == token.NOT {
		op := p.tok
		pos := p.val.Pos
		p.next()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: op, X: x, OpPos: pos}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() ast.Expr {
	pos := p.val.Pos
	switch p.tok {
	case token.INT:
		v := p.val
		p.next()
		return &ast.IntLit{Value: v.Int, ValuePos: pos}
	case token.FLOAT:
		v := p.val
		p.next()
		return &ast.FloatLit{Text: v.FloatText, ValuePos: pos}
	case token.TRUE:
		p.next()
		return &ast.BoolLit{Value: true, ValuePos: pos}
	case token.FALSE:
		p.next()
		return &ast.BoolLit{Value: false, ValuePos: pos}
	case token.IDENT:
		name := p.val.Raw
		p.next()
		if p.tok == token.LPAREN {
			return p.parseCall(name, pos)
		}
		return &ast.Ident{Name: name, NamePos: pos}
	case token.LPAREN:
		p.next()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x
	case token.BREAK:
		p.next()
		return &ast.BreakExpr{BreakPos: pos}
	case token.CONTINUE:
		p.next()
		return &ast.ContinueExpr{ContinuePos: pos}
	case token.RETURN:
		p.next()
		var value ast.Expr
		if p.tok != token.SEMI && p.tok != token.RBRACE {
			value = p.parseExpr()
		}
		return &ast.ReturnExpr{Value: value, ReturnPos: pos}
	case token.IF:
		return p.parseIf()
	case token.LOOP:
		return p.parseLoop()
	case token.WHILE:
		return p.parseWhile()
	case token.LBRACE:
		return &ast.BlockExpr{Block: p.parseBlock()}
	default:
		p.errorf(pos, "unexpected token %s in expression", p.tok)
		p.next()
		return &ast.IntLit{Value: 0, ValuePos: pos}
	}
}

func (p *parser) parseCall(name string, pos token.Pos) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
		if p.tok == token.COMMA {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Name: name, Args: args, NamePos: pos}
}
