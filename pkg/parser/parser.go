package parser

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// NOTE: All parsing functions (that are not utility functions) are commented
// with the EBNF notation of the grammar they parse.  Every parsing function
// begins positioned on the first token of its production and leaves the
// parser on the token after it.

// Result is the outcome of a successful parse.
type Result struct {
	Node     *ast.ProgramNode
	Warnings []*report.Warning
}

// Parser is a recursive descent parser over a token list produced by the
// lexer.  Progress is measured by the token index: an alternative that fails
// without moving the index is abandoned so the next alternative may run,
// while one that fails after moving it is authoritative.
type Parser struct {
	toks     []lexer.Token
	idx      int
	tok      lexer.Token
	prev     lexer.Token
	warnings []*report.Warning
}

// New creates a parser over toks, which must end with an EOF token.
func New(toks []lexer.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != lexer.EOF {
		toks = append(toks, lexer.Token{Kind: lexer.EOF})
	}
	return &Parser{toks: toks, tok: toks[0]}
}

// Parse parses a whole program.
func Parse(toks []lexer.Token) (*Result, *report.Error) {
	return New(toks).Parse()
}

// ParseSource lexes and parses source in one step.
func ParseSource(name, source string) (*Result, *report.Error) {
	toks, err := lexer.Lex(name, source)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// Parse parses the token list into a program.
//
// program := statements EOF
func (p *Parser) Parse() (*Result, *report.Error) {
	prog, err := p.statements()
	if err != nil {
		return nil, err
	}
	if !p.got(lexer.EOF) {
		return nil, p.reject("Expected statement")
	}
	return &Result{Node: prog, Warnings: p.warnings}, nil
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.  The parser never moves past EOF.
func (p *Parser) next() {
	p.prev = p.tok
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	p.tok = p.toks[p.idx]
}

// got returns true if the parser is on a token of a given kind.
func (p *Parser) got(kind lexer.Kind) bool {
	return p.tok.Kind == kind
}

// gotKeyword returns true if the parser is on the given keyword.
func (p *Parser) gotKeyword(word string) bool {
	return p.tok.IsKeyword(word)
}

// want asserts that the parser is on a token of a given kind, consumes it,
// and returns it.
func (p *Parser) want(kind lexer.Kind) (lexer.Token, *report.Error) {
	if !p.got(kind) {
		return lexer.Token{}, p.reject("Expected '%s'", kind)
	}
	tok := p.tok
	p.next()
	return tok, nil
}

// wantKeyword asserts and consumes a keyword.
func (p *Parser) wantKeyword(word string) (lexer.Token, *report.Error) {
	if !p.gotKeyword(word) {
		return lexer.Token{}, p.reject("Expected '%s'", word)
	}
	tok := p.tok
	p.next()
	return tok, nil
}

// wantIdent asserts and consumes an identifier.
func (p *Parser) wantIdent() (lexer.Token, *report.Error) {
	if !p.got(lexer.Identifier) {
		return lexer.Token{}, p.reject("Expected identifier")
	}
	tok := p.tok
	p.next()
	return tok, nil
}

// reject builds a syntax error on the current token.
func (p *Parser) reject(format string, args ...interface{}) *report.Error {
	return report.NewError(report.InvalidSyntax, p.tok.Start, p.tok.End, format, args...)
}

// warn records a non-fatal notice spanning start to end.
func (p *Parser) warn(name string, start, end *report.Position, format string, args ...interface{}) {
	p.warnings = append(p.warnings, report.NewWarning(name, start, end, format, args...))
}

// -----------------------------------------------------------------------------

// speculate runs a parse alternative.  It reports matched=false when the
// alternative failed without consuming any tokens, so the caller may try a
// different one.  A failure after consuming tokens is returned as is.
func (p *Parser) speculate(alt func() (ast.Node, *report.Error)) (node ast.Node, matched bool, err *report.Error) {
	start := p.idx
	node, err = alt()
	if err != nil && p.idx == start {
		return nil, false, nil
	}
	return node, true, err
}

// choice tries alternatives in order under the furthest-progress rule.  If
// none of them consumes a token, the error built by fail is returned.
func (p *Parser) choice(fail func() *report.Error, alts ...func() (ast.Node, *report.Error)) (ast.Node, *report.Error) {
	for _, alt := range alts {
		node, matched, err := p.speculate(alt)
		if matched {
			return node, err
		}
	}
	return nil, fail()
}

// operator identifies a binary operator token, optionally restricted to a
// specific keyword lexeme.
type operator struct {
	kind  lexer.Kind
	value string
}

func (p *Parser) gotOperator(ops []operator) bool {
	for _, op := range ops {
		if p.tok.Is(op.kind, op.value) {
			return true
		}
	}
	return false
}

// binaryOp parses a left associative run of operators from ops.  The left
// operand is parsed with left, each right operand with right.
//
// binary := left { op right }
func (p *Parser) binaryOp(left, right func() (ast.Node, *report.Error), ops []operator) (ast.Node, *report.Error) {
	node, err := left()
	if err != nil {
		return nil, err
	}
	for p.gotOperator(ops) {
		op := p.tok
		p.next()
		rhs, err := right()
		if err != nil {
			return nil, err
		}
		node = ast.NewBinaryOp(node, op, rhs)
	}
	return node, nil
}
