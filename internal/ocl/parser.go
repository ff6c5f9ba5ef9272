package ocl

import "strconv"

// parser is a recursive-descent parser with one token of lookahead beyond
// the current token (needed to spot `v |` iterator declarations).
type parser struct {
	lx   *lexer
	tok  token
	peek token
}

func newParser(in string) (*parser, error) {
	p := &parser{lx: newLexer(in)}
	var err error
	if p.tok, err = p.lx.scan(); err != nil {
		return nil, err
	}
	if p.peek, err = p.lx.scan(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	p.tok = p.peek
	next, err := p.lx.scan()
	if err != nil {
		return err
	}
	p.peek = next
	return nil
}

func (p *parser) errorf(msg string) error {
	return &ParseError{Pos: p.tok.pos, Message: msg}
}

func (p *parser) isSymbol(text string) bool {
	return p.tok.kind == tokSymbol && p.tok.text == text
}

func (p *parser) isKeyword(text string) bool {
	return p.tok.kind == tokIdent && p.tok.text == text
}

func (p *parser) expectSymbol(text string) error {
	if !p.isSymbol(text) {
		return p.errorf("expected " + strconv.Quote(text) + ", found " + strconv.Quote(p.tok.text))
	}
	return p.advance()
}

// ParseExpression parses a complete expression and rejects trailing input.
func ParseExpression(in string) (Expr, error) {
	p, err := newParser(in)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected input " + strconv.Quote(p.tok.text) + " after expression")
	}
	return expr, nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseImplies()
}

func (p *parser) parseImplies() (Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("implies") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: "implies", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseXor() (Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("xor") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: "xor", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: "and", Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokSymbol && comparisonOps[p.tok.text] {
		op, pos := p.tok.text, p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isSymbol("+") || p.isSymbol("-") {
		op, pos := p.tok.text, p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isSymbol("*") || p.isSymbol("/") {
		op, pos := p.tok.text, p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{node: node{pos}, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.isKeyword("not") || p.isSymbol("-") {
		op, pos := p.tok.text, p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{node: node{pos}, Op: op, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isSymbol("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokIdent {
				return nil, p.errorf("expected property or operation name after '.'")
			}
			name, pos := p.tok.text, p.tok.pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.isSymbol("(") {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &Call{node: node{pos}, Recv: expr, Name: name, Args: args}
			} else {
				expr = &Property{node: node{pos}, Recv: expr, Name: name}
			}

		case p.isSymbol("->"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokIdent {
				return nil, p.errorf("expected collection operation name after '->'")
			}
			name, pos := p.tok.text, p.tok.pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			op := &CollectionOp{node: node{pos}, Recv: expr, Name: name}
			if iteratorOps[name] {
				if err := p.parseIterator(op); err != nil {
					return nil, err
				}
			} else {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				op.Args = args
			}
			expr = op

		default:
			return expr, nil
		}
	}
}

// parseIterator parses `( [var |] body )` for forAll/exists/select/reject/collect.
func (p *parser) parseIterator(op *CollectionOp) error {
	if err := p.expectSymbol("("); err != nil {
		return err
	}
	if p.tok.kind == tokIdent && p.peek.kind == tokSymbol && p.peek.text == "|" {
		op.IterVar = p.tok.text
		if err := p.advance(); err != nil { // iterator variable
			return err
		}
		if err := p.advance(); err != nil { // '|'
			return err
		}
	}
	body, err := p.parseExpression()
	if err != nil {
		return err
	}
	op.Body = body
	return p.expectSymbol(")")
}

func (p *parser) parseArgs() ([]Expr, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var args []Expr
	if p.isSymbol(")") {
		return args, p.advance()
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.isSymbol(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		return args, p.expectSymbol(")")
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	pos := p.tok.pos
	switch p.tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return nil, p.errorf("malformed number " + strconv.Quote(p.tok.text))
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberLit{node: node{pos}, Value: v}, nil

	case tokString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StringLit{node: node{pos}, Value: s}, nil

	case tokIdent:
		name := p.tok.text
		switch name {
		case "true", "false":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &BoolLit{node: node{pos}, Value: name == "true"}, nil
		case "null":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &NullLit{node: node{pos}}, nil
		case "self":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &SelfRef{node: node{pos}}, nil
		case "if":
			return p.parseIf()
		case "and", "or", "xor", "implies", "not", "then", "else", "endif":
			return nil, p.errorf("unexpected keyword " + strconv.Quote(name))
		default:
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &Ident{node: node{pos}, Name: name}, nil
		}

	case tokSymbol:
		if p.tok.text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return expr, p.expectSymbol(")")
		}
		return nil, p.errorf("unexpected symbol " + strconv.Quote(p.tok.text))

	default:
		return nil, p.errorf("unexpected end of expression")
	}
}

func (p *parser) parseIf() (Expr, error) {
	pos := p.tok.pos
	if err := p.advance(); err != nil { // 'if'
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("then") {
		return nil, p.errorf("expected 'then' in if expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("else") {
		return nil, p.errorf("expected 'else' in if expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("endif") {
		return nil, p.errorf("expected 'endif' to close if expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &If{node: node{pos}, Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}
