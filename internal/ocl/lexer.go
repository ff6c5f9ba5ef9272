package ocl

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokSymbol
)

type token struct {
	kind tokenKind
	text string
	pos  int // rune offset of the first rune of the token
}

// lexer walks expression text rune by rune.
type lexer struct {
	in      []byte
	offset  int
	no      int
	current rune
}

func newLexer(in string) *lexer {
	l := &lexer{in: []byte(in)}
	l.next()
	return l
}

func (l *lexer) next() rune {
	if l.offset >= len(l.in) {
		l.current = 0
		return 0
	}
	r, size := utf8.DecodeRune(l.in[l.offset:])
	l.current = r
	if r == utf8.RuneError {
		return r
	}
	l.offset += size
	l.no++
	return r
}

func (l *lexer) skipBlank() rune {
	n := l.current
	for unicode.IsSpace(n) {
		n = l.next()
	}
	return n
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scan produces the next token.
func (l *lexer) scan() (token, error) {
	n := l.skipBlank()
	pos := l.no - 1
	if n == 0 {
		return token{kind: tokEOF, pos: l.no}, nil
	}

	switch {
	case isIdentStart(n):
		name := ""
		for isIdentPart(n) {
			name += string(n)
			n = l.next()
		}
		return token{kind: tokIdent, text: name, pos: pos}, nil

	case unicode.IsDigit(n):
		num := ""
		for unicode.IsDigit(n) {
			num += string(n)
			n = l.next()
		}
		if n == '.' {
			// a bare dot after digits may be navigation ("1.abs()") or a
			// decimal fraction; only consume it when a digit follows
			if l.offset < len(l.in) {
				r, _ := utf8.DecodeRune(l.in[l.offset:])
				if unicode.IsDigit(r) {
					num += "."
					n = l.next()
					for unicode.IsDigit(n) {
						num += string(n)
						n = l.next()
					}
				}
			}
		}
		return token{kind: tokNumber, text: num, pos: pos}, nil

	case n == '\'':
		s := ""
		n = l.next()
		for n != '\'' {
			if n == 0 {
				return token{}, &ParseError{Pos: pos, Message: "unterminated string literal"}
			}
			s += string(n)
			n = l.next()
		}
		l.next()
		return token{kind: tokString, text: s, pos: pos}, nil

	case n == '-':
		if l.next() == '>' {
			l.next()
			return token{kind: tokSymbol, text: "->", pos: pos}, nil
		}
		return token{kind: tokSymbol, text: "-", pos: pos}, nil

	case n == '<':
		switch l.next() {
		case '=':
			l.next()
			return token{kind: tokSymbol, text: "<=", pos: pos}, nil
		case '>':
			l.next()
			return token{kind: tokSymbol, text: "<>", pos: pos}, nil
		}
		return token{kind: tokSymbol, text: "<", pos: pos}, nil

	case n == '>':
		if l.next() == '=' {
			l.next()
			return token{kind: tokSymbol, text: ">=", pos: pos}, nil
		}
		return token{kind: tokSymbol, text: ">", pos: pos}, nil

	case n == '+' || n == '*' || n == '/' || n == '(' || n == ')' ||
		n == ',' || n == '|' || n == '.' || n == ':' || n == '=':
		l.next()
		return token{kind: tokSymbol, text: string(n), pos: pos}, nil

	default:
		return token{}, &ParseError{Pos: pos, Message: "unexpected character " + string('\'') + string(n) + string('\'')}
	}
}
