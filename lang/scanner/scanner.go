// Package scanner tokenizes source text for the parser. It is part of the
// front-end, which the compiler core treats as an external collaborator:
// only the parser imports this package, and the compiler accepts any
// *ast.File, but it gives the toolchain an end-to-end path from source text
// to a running program.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mna/styock/lang/token"
)

// Error is a single scanning failure with its source position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Scanner tokenizes a single source file held fully in memory.
type Scanner struct {
	src  []byte
	off  int
	line int
	col  int

	cur rune
	w   int // width in bytes of cur
}

// Init resets the scanner to the start of src.
func (s *Scanner) Init(src []byte) {
	s.src = src
	s.off = 0
	s.line = 1
	s.col = 0
	s.advance()
}

func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	s.off += s.w
	if s.off >= len(s.src) {
		s.cur = -1
		s.w = 0
		return
	}
	r, w := rune(s.src[s.off]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.off:])
	}
	s.cur = r
	s.w = w
	s.col++
}

func (s *Scanner) peek() byte {
	if s.off+s.w < len(s.src) {
		return s.src[s.off+s.w]
	}
	return 0
}

func (s *Scanner) pos() token.Pos { return token.MakePos(s.line, s.col) }

// Scan returns the next token and its decoded value.
func (s *Scanner) Scan() (token.Token, token.Value, error) {
	s.skipWhitespaceAndComments()

	pos := s.pos()
	switch {
	case s.cur == -1:
		return token.EOF, token.Value{Pos: pos}, nil
	case isLetter(s.cur):
		lit := s.ident()
		tok := token.LookupIdent(lit)
		return tok, token.Value{Raw: lit, Pos: pos}, nil
	case isDigit(s.cur):
		return s.number(pos)
	default:
		return s.punct(pos)
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		for s.cur == ' ' || s.cur == '\t' || s.cur == '\n' || s.cur == '\r' {
			s.advance()
		}
		if s.cur == '/' && s.peek() == '/' {
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		if s.cur == '/' && s.peek() == '*' {
			s.advance()
			s.advance()
			for !(s.cur == '*' && s.peek() == '/') && s.cur != -1 {
				s.advance()
			}
			s.advance()
			s.advance()
			continue
		}
		break
	}
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number(pos token.Pos) (token.Token, token.Value, error) {
	start := s.off
	base := 10
	if s.cur == '0' && (s.peek() == 'x' || s.peek() == 'X') {
		base = 16
		s.advance()
		s.advance()
		for isHex(s.cur) || s.cur == '_' {
			s.advance()
		}
	} else if s.cur == '0' && (s.peek() == 'o' || s.peek() == 'O') {
		base = 8
		s.advance()
		s.advance()
		for (s.cur >= '0' && s.cur <= '7') || s.cur == '_' {
			s.advance()
		}
	} else if s.cur == '0' && (s.peek() == 'b' || s.peek() == 'B') {
		base = 2
		s.advance()
		s.advance()
		for s.cur == '0' || s.cur == '1' || s.cur == '_' {
			s.advance()
		}
	} else {
		for isDigit(s.cur) || s.cur == '_' {
			s.advance()
		}
	}

	isFloat := false
	if base == 10 && s.cur == '.' && isDigit(rune(s.peek())) {
		isFloat = true
		s.advance()
		for isDigit(s.cur) || s.cur == '_' {
			s.advance()
		}
	}
	if base == 10 && (s.cur == 'e' || s.cur == 'E') {
		isFloat = true
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		for isDigit(s.cur) {
			s.advance()
		}
	}

	numText := string(s.src[start:s.off])

	// strip a trailing type suffix (i32, u64, f32, f64, ...), which is
	// syntactically accepted and semantically discarded.
	suffixStart := s.off
	if isLetter(s.cur) {
		for isLetter(s.cur) || isDigit(s.cur) {
			s.advance()
		}
	}
	suffix := string(s.src[suffixStart:s.off])
	if suffix == "f32" || suffix == "f64" {
		isFloat = true
	}

	raw := string(s.src[start:s.off])
	clean := strings.ReplaceAll(numText, "_", "")

	if isFloat {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return token.ILLEGAL, token.Value{Raw: raw, Pos: pos}, &Error{Pos: pos, Msg: "invalid float literal: " + raw}
		}
		return token.FLOAT, token.Value{Raw: raw, Pos: pos, Float: f, FloatText: clean}, nil
	}

	var text string
	switch base {
	case 16:
		text = clean[2:]
	case 8:
		text = clean[2:]
	case 2:
		text = clean[2:]
	default:
		text = clean
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return token.ILLEGAL, token.Value{Raw: raw, Pos: pos}, &Error{Pos: pos, Msg: "invalid integer literal: " + raw}
	}
	return token.INT, token.Value{Raw: raw, Pos: pos, Int: int64(v), IntText: clean}, nil
}

func (s *Scanner) punct(pos token.Pos) (token.Token, token.Value, error) {
	cur := s.cur
	s.advance()

	mk := func(tok token.Token) (token.Token, token.Value, error) {
		return tok, token.Value{Raw: tok.String(), Pos: pos}, nil
	}

	switch cur {
	case '+':
		if s.cur == '=' {
			s.advance()
			return mk(token.PLUSEQ)
		}
		return mk(token.PLUS)
	case '-':
		if s.cur == '=' {
			s.advance()
			return mk(token.MINUSEQ)
		}
		if s.cur == '>' {
			s.advance()
			return mk(token.ARROW)
		}
		return mk(token.MINUS)
	case '*':
		if s.cur == '=' {
			s.advance()
			return mk(token.STAREQ)
		}
		return mk(token.STAR)
	case '/':
		if s.cur == '=' {
			s.advance()
			return mk(token.SLASHEQ)
		}
		return mk(token.SLASH)
	case '%':
		if s.cur == '=' {
			s.advance()
			return mk(token.PERCENTEQ)
		}
		return mk(token.PERCENT)
	case '&':
		if s.cur == '&' {
			s.advance()
			return mk(token.ANDAND)
		}
		if s.cur == '=' {
			s.advance()
			return mk(token.ANDEQ)
		}
		return mk(token.AMPERSAND)
	case '|':
		if s.cur == '|' {
			s.advance()
			return mk(token.OROR)
		}
		if s.cur == '=' {
			s.advance()
			return mk(token.OREQ)
		}
		return mk(token.PIPE)
	case '^':
		if s.cur == '=' {
			s.advance()
			return mk(token.CARETEQ)
		}
		return mk(token.CARET)
	case '<':
		if s.cur == '<' {
			s.advance()
			if s.cur == '=' {
				s.advance()
				return mk(token.SHLEQ)
			}
			return mk(token.SHL)
		}
		if s.cur == '=' {
			s.advance()
			return mk(token.LE)
		}
		return mk(token.LT)
	case '>':
		if s.cur == '>' {
			s.advance()
			if s.cur == '=' {
				s.advance()
				return mk(token.SHREQ)
			}
			return mk(token.SHR)
		}
		if s.cur == '=' {
			s.advance()
			return mk(token.GE)
		}
		return mk(token.GT)
	case '=':
		if s.cur == '=' {
			s.advance()
			return mk(token.EQEQ)
		}
		return mk(token.EQ)
	case '!':
		if s.cur == '=' {
			s.advance()
			return mk(token.NEQ)
		}
		return mk(token.NOT)
	case '(':
		return mk(token.LPAREN)
	case ')':
		return mk(token.RPAREN)
	case '{':
		return mk(token.LBRACE)
	case '}':
		return mk(token.RBRACE)
	case ',':
		return mk(token.COMMA)
	case ';':
		return mk(token.SEMI)
	case ':':
		return mk(token.COLON)
	default:
		return token.ILLEGAL, token.Value{Raw: string(cur), Pos: pos}, &Error{Pos: pos, Msg: fmt.Sprintf("illegal character %q", cur)}
	}
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
