package parser

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

var logicalOps = []operator{
	{kind: lexer.And},
	{kind: lexer.Or},
	{kind: lexer.Keyword, value: "and"},
	{kind: lexer.Keyword, value: "or"},
}

var comparisonOps = []operator{
	{kind: lexer.Equal},
	{kind: lexer.NotEqual},
	{kind: lexer.RoughEqual},
	{kind: lexer.RoughNotEqual},
	{kind: lexer.Less},
	{kind: lexer.LessEqual},
	{kind: lexer.Greater},
	{kind: lexer.GreaterEqual},
}

var additiveOps = []operator{{kind: lexer.Plus}, {kind: lexer.Minus}}

var termOps = []operator{{kind: lexer.Star}, {kind: lexer.Slash}}

var moduloOps = []operator{{kind: lexer.Percent}}

// expr := ('mut' | 'const') IDENT [':' IDENT] '=' expr | logical
func (p *Parser) expr() (ast.Node, *report.Error) {
	if p.gotKeyword("mut") || p.gotKeyword("const") {
		start := p.tok.Start
		immutable := p.gotKeyword("const")
		p.next()

		name, err := p.wantIdent()
		if err != nil {
			return nil, err
		}

		var typeName string
		if p.got(lexer.Colon) {
			p.next()
			typeTok, err := p.wantIdent()
			if err != nil {
				return nil, err
			}
			typeName = typeTok.Value
		}

		if _, err := p.want(lexer.Assign); err != nil {
			return nil, err
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		return ast.NewVarDeclare(name.Value, typeName, value, immutable, start), nil
	}

	return p.logical()
}

// logical := comparison { ('&&' | '||' | 'and' | 'or') comparison }
func (p *Parser) logical() (ast.Node, *report.Error) {
	return p.binaryOp(p.comparison, p.comparison, logicalOps)
}

// comparison := '!' comparison | additive [compOp additive]
//
// Comparisons do not chain: `a < b < c` leaves the second `<` unparsed.
func (p *Parser) comparison() (ast.Node, *report.Error) {
	if p.got(lexer.Not) {
		op := p.tok
		p.next()
		operand, err := p.comparison()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(op, operand), nil
	}

	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	if !p.gotOperator(comparisonOps) {
		return left, nil
	}
	op := p.tok
	p.next()
	right, err := p.additive()
	if err != nil {
		return nil, err
	}
	return ast.NewBinaryOp(left, op, right), nil
}

// additive := term { ('+' | '-') term }
func (p *Parser) additive() (ast.Node, *report.Error) {
	return p.binaryOp(p.term, p.term, additiveOps)
}

// term := unary { ('*' | '/') unary }
func (p *Parser) term() (ast.Node, *report.Error) {
	return p.binaryOp(p.unary, p.unary, termOps)
}

// unary := ('+' | '-') unary | modulo
func (p *Parser) unary() (ast.Node, *report.Error) {
	if p.got(lexer.Plus) || p.got(lexer.Minus) {
		op := p.tok
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(op, operand), nil
	}
	return p.modulo()
}

// modulo := call { '%' unary }
func (p *Parser) modulo() (ast.Node, *report.Error) {
	return p.binaryOp(p.call, p.unary, moduloOps)
}

// -----------------------------------------------------------------------------

// segment is one link of an access chain under construction: a root or a
// member, followed by any calls and indexes applied to it.
type segment struct {
	root     ast.Node
	member   *memberParts
	safe     bool
	trailers []trailer
}

type memberParts struct {
	name  lexer.Token
	op    lexer.Kind
	value ast.Node
	end   *report.Position
}

type trailer struct {
	args  []ast.Node
	index ast.Node
	end   *report.Position
}

// call := atom { '(' args ')' | '.' member | '?.' member | '[' expr ']' }
//
// The trailers are collected first and the chain is then built from the
// right so that every link is complete when it is constructed.
func (p *Parser) call() (ast.Node, *report.Error) {
	root, err := p.atom()
	if err != nil {
		return nil, err
	}

	segs := []*segment{{root: root}}
	for {
		cur := segs[len(segs)-1]
		switch {
		case p.got(lexer.LParen):
			args, end, err := p.callArgs()
			if err != nil {
				return nil, err
			}
			cur.trailers = append(cur.trailers, trailer{args: args, end: end})
		case p.got(lexer.LBracket):
			p.next()
			index, err := p.expr()
			if err != nil {
				return nil, err
			}
			closing, err := p.want(lexer.RBracket)
			if err != nil {
				return nil, err
			}
			cur.trailers = append(cur.trailers, trailer{index: index, end: closing.End})
		case p.got(lexer.Dot) || p.got(lexer.SafeDot):
			safe := p.got(lexer.SafeDot)
			p.next()
			member, err := p.member()
			if err != nil {
				return nil, err
			}
			segs = append(segs, &segment{member: member, safe: safe})
		default:
			return buildChain(segs), nil
		}
	}
}

// member := IDENT [modifier]
func (p *Parser) member() (*memberParts, *report.Error) {
	name, err := p.wantIdent()
	if err != nil {
		return nil, err
	}
	op, value, end, err := p.modifier()
	if err != nil {
		return nil, err
	}
	if end == nil {
		end = name.End
	}
	return &memberParts{name: name, op: op, value: value, end: end}, nil
}

// modifier := ('=' | '+=' | '-=' | '*=' | '/=') expr | '++' | '--'
//
// It returns lexer.EOF as the operator when no modifier is present.
func (p *Parser) modifier() (lexer.Kind, ast.Node, *report.Position, *report.Error) {
	switch p.tok.Kind {
	case lexer.Assign, lexer.PlusAssign, lexer.MinusAssign, lexer.StarAssign, lexer.SlashAssign:
		op := p.tok.Kind
		p.next()
		value, err := p.expr()
		if err != nil {
			return lexer.EOF, nil, nil, err
		}
		return op, value, value.End(), nil
	case lexer.PlusPlus, lexer.MinusMinus:
		op := p.tok
		p.next()
		return op.Kind, nil, op.End, nil
	}
	return lexer.EOF, nil, nil, nil
}

// callArgs := '(' [expr {',' expr}] ')'
func (p *Parser) callArgs() ([]ast.Node, *report.Position, *report.Error) {
	if _, err := p.want(lexer.LParen); err != nil {
		return nil, nil, err
	}
	var args []ast.Node
	if !p.got(lexer.RParen) {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, arg)
			if !p.got(lexer.Comma) {
				break
			}
			p.next()
		}
	}
	closing, err := p.want(lexer.RParen)
	if err != nil {
		return nil, nil, err
	}
	return args, closing.End, nil
}

func buildChain(segs []*segment) ast.Node {
	var next ast.Node
	for i := len(segs) - 1; i >= 0; i-- {
		next = segs[i].build(next)
	}
	return next
}

// build constructs the node for a segment whose following link is next.
func (s *segment) build(next ast.Node) ast.Node {
	outer := ast.Access{Next: next, Safe: s.safe}

	if len(s.trailers) == 0 {
		return s.base(outer)
	}

	node := s.base(ast.Access{})
	for i, t := range s.trailers {
		access := ast.Access{}
		if i == len(s.trailers)-1 {
			access = outer
		}
		if t.index != nil {
			node = ast.NewIndex(node, t.index, access, t.end)
		} else {
			node = ast.NewCall(node, t.args, access, t.end)
		}
	}
	return node
}

// base builds the head of the segment carrying access.
func (s *segment) base(access ast.Access) ast.Node {
	if s.member != nil {
		m := s.member
		if m.op != lexer.EOF {
			return ast.NewVarAssign(m.name.Value, m.op, m.value, access, m.name.Start, m.end)
		}
		return ast.NewVarAccess(m.name, access)
	}

	if access.Next == nil && !access.Safe {
		return s.root
	}
	if v, ok := s.root.(*ast.VarAccessNode); ok && v.Next == nil {
		return ast.NewVarAccess(lexer.Token{Kind: lexer.Identifier, Value: v.Name, Start: v.Start(), End: v.End()}, access)
	}
	return ast.NewChain(s.root, access)
}

// -----------------------------------------------------------------------------

// atom := INT | FLOAT | BYTE | STRING | 'true' | 'false' | 'null'
//
//	| '(' expr ')' | '[' list ']' | '{' dict '}' | IDENT [modifier] | task
func (p *Parser) atom() (ast.Node, *report.Error) {
	return p.choice(
		func() *report.Error { return p.reject("Expected expression") },
		p.literal,
		p.parenExpr,
		p.listExpr,
		p.dictExpr,
		p.identifier,
		p.taskDef,
	)
}

func (p *Parser) literal() (ast.Node, *report.Error) {
	tok := p.tok
	switch {
	case tok.Kind == lexer.Int || tok.Kind == lexer.Float || tok.Kind == lexer.Byte:
		p.next()
		return ast.NewNumber(tok), nil
	case tok.Kind == lexer.String:
		p.next()
		return ast.NewString(tok), nil
	case tok.IsKeyword("true"), tok.IsKeyword("false"):
		p.next()
		return ast.NewBoolean(tok.Value == "true", tok.Start, tok.End), nil
	case tok.IsKeyword("null"):
		p.next()
		return ast.NewNull(tok.Start, tok.End), nil
	}
	return nil, p.reject("Expected literal")
}

// parenExpr := '(' expr ')'
func (p *Parser) parenExpr() (ast.Node, *report.Error) {
	if _, err := p.want(lexer.LParen); err != nil {
		return nil, err
	}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.want(lexer.RParen); err != nil {
		return nil, err
	}
	return node, nil
}

// listExpr := '[' [expr {',' expr}] ']'
func (p *Parser) listExpr() (ast.Node, *report.Error) {
	open, err := p.want(lexer.LBracket)
	if err != nil {
		return nil, err
	}
	var elems []ast.Node
	if !p.got(lexer.RBracket) {
		for {
			elem, err := p.expr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if !p.got(lexer.Comma) {
				break
			}
			p.next()
		}
	}
	closing, err := p.want(lexer.RBracket)
	if err != nil {
		return nil, err
	}
	return ast.NewList(elems, open.Start, closing.End), nil
}

// dictExpr := '{' [expr ':' expr {',' expr ':' expr}] '}'
func (p *Parser) dictExpr() (ast.Node, *report.Error) {
	open, err := p.want(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	var entries []ast.DictionaryEntry
	if !p.got(lexer.RBrace) {
		for {
			key, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.want(lexer.Colon); err != nil {
				return nil, err
			}
			value, err := p.expr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictionaryEntry{Key: key, Value: value})
			if !p.got(lexer.Comma) {
				break
			}
			p.next()
		}
	}
	closing, err := p.want(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	return ast.NewDictionary(entries, open.Start, closing.End), nil
}

// identifier := IDENT [modifier]
func (p *Parser) identifier() (ast.Node, *report.Error) {
	name, err := p.wantIdent()
	if err != nil {
		return nil, err
	}
	op, value, end, err := p.modifier()
	if err != nil {
		return nil, err
	}
	if op == lexer.EOF {
		return ast.NewVarAccess(name, ast.Access{}), nil
	}
	return ast.NewVarAssign(name.Value, op, value, ast.Access{}, name.Start, end), nil
}
