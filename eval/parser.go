package eval

import (
	"fmt"
)

// parser is a recursive-descent, precedence-climbing parser over the
// Solidity expression grammar (spec §4.10). Precedence mirrors solc's own
// table, lowest to highest: ternary, ||, &&, |, ^, &, equality, relational,
// shift, additive, multiplicative, exponent, unary, postfix.
type parser struct {
	toks []token
	pos  int
}

func parseExpr(src string) (expr, error) {
	lx := newLexer(src)
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	p := &parser{toks: toks}
	e, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("eval: unexpected trailing token %q at %d", p.cur().text, p.cur().pos)
	}
	return e, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(s string) bool { return p.cur().kind == tokPunct && p.cur().text == s }

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return fmt.Errorf("eval: expected %q, got %q at %d", s, p.cur().text, p.cur().pos)
	}
	p.advance()
	return nil
}

func (p *parser) parseTernary() (expr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.isPunct("?") {
		p.advance()
		then, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return ternaryExpr{cond: cond, then: then, els: els}, nil
	}
	return cond, nil
}

// binOpLevels lists operators by ascending precedence; parseBinary recurses
// by level index.
var binOpLevels = [][]string{
	{"||"},
	{"&&"},
	{"|"},
	{"^"},
	{"&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
	{"**"},
}

func (p *parser) parseBinary(level int) (expr, error) {
	if level >= len(binOpLevels) {
		return p.parseUnary()
	}
	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(binOpLevels[level])
		if !ok {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		lhs = binaryExpr{op: op, x: lhs, y: rhs}
	}
}

func (p *parser) matchAny(ops []string) (string, bool) {
	if p.cur().kind != tokPunct {
		return "", false
	}
	for _, op := range ops {
		if p.cur().text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseUnary() (expr, error) {
	if p.cur().kind == tokPunct {
		switch p.cur().text {
		case "-", "!", "~":
			op := p.advance().text
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return unaryExpr{op: op, x: x}, nil
		}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			if p.cur().kind != tokIdent {
				return nil, fmt.Errorf("eval: expected member name at %d", p.cur().pos)
			}
			name := p.advance().text
			e = memberAccess{base: e, name: name}
		case p.isPunct("("):
			p.advance()
			args, err := p.parseArgList(")")
			if err != nil {
				return nil, err
			}
			e = callExpr{callee: e, args: args}
		case p.isPunct("["):
			p.advance()
			idxOrSlice, err := p.parseIndexOrSlice(e)
			if err != nil {
				return nil, err
			}
			e = idxOrSlice
		default:
			return e, nil
		}
	}
}

func (p *parser) parseIndexOrSlice(root expr) (expr, error) {
	if p.isPunct(":") {
		p.advance()
		end, err := p.parseOptionalSliceBound("]")
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		return sliceExpr{root: root, start: nil, end: end}, nil
	}
	first, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.isPunct(":") {
		p.advance()
		end, err := p.parseOptionalSliceBound("]")
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		return sliceExpr{root: root, start: first, end: end}, nil
	}
	indices := []expr{first}
	for p.isPunct(",") {
		p.advance()
		nxt, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		indices = append(indices, nxt)
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return indexExpr{root: root, indices: indices}, nil
}

func (p *parser) parseOptionalSliceBound(closing string) (expr, error) {
	if p.isPunct(closing) {
		return nil, nil
	}
	return p.parseTernary()
}

func (p *parser) parseArgList(closing string) ([]expr, error) {
	var args []expr
	if p.isPunct(closing) {
		p.advance()
		return args, nil
	}
	for {
		a, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return args, p.expectPunct(closing)
}

func (p *parser) parsePrimary() (expr, error) {
	t := p.cur()
	switch {
	case t.kind == tokNumber:
		p.advance()
		return litNumber{text: t.text}, nil
	case t.kind == tokHexLit:
		p.advance()
		return litNumber{text: t.text, hex: true}, nil
	case t.kind == tokString:
		p.advance()
		return litString{v: t.text}, nil
	case t.kind == tokIdent && (t.text == "true" || t.text == "false"):
		p.advance()
		return litBool{v: t.text == "true"}, nil
	case t.kind == tokIdent:
		p.advance()
		return ident{name: t.text}, nil
	case t.kind == tokPunct && t.text == "(":
		p.advance()
		first, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if p.isPunct(",") {
			elems := []expr{first}
			for p.isPunct(",") {
				p.advance()
				e, err := p.parseTernary()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return tupleExpr{elems: elems}, nil
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return first, nil
	case t.kind == tokPunct && t.text == "[":
		p.advance()
		elems, err := p.parseArgList("]")
		if err != nil {
			return nil, err
		}
		return arrayLit{elems: elems}, nil
	}
	return nil, fmt.Errorf("eval: unexpected token %q at %d", t.text, t.pos)
}
