package parser

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// statements := { statement }
//
// The list ends at EOF or at a closing brace, which is left for the caller.
func (p *Parser) statements() (*ast.ProgramNode, *report.Error) {
	start := p.tok.Start
	var stmts []ast.Node
	for {
		before := p.idx
		stmt, err := p.statement()
		if err != nil {
			if p.idx == before && (p.got(lexer.EOF) || p.got(lexer.RBrace)) {
				break
			}
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	end := start
	if len(stmts) > 0 {
		end = stmts[len(stmts)-1].End()
	}
	return ast.NewProgram(stmts, start, end), nil
}

// block := '{' statements '}'
func (p *Parser) block() (*ast.ProgramNode, *report.Error) {
	open, err := p.want(lexer.LBrace)
	if err != nil {
		return nil, err
	}
	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	closing, err := p.want(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	return ast.NewProgram(body.Statements, open.Start, closing.End), nil
}

// statement := 'return' [expr] | 'continue' | 'break'
//
//	| if | for | while | try | class | container | enum
//	| import | external | native | expr
func (p *Parser) statement() (ast.Node, *report.Error) {
	if p.tok.Kind == lexer.Keyword {
		switch p.tok.Value {
		case "return":
			return p.returnStmt()
		case "continue":
			tok := p.tok
			p.next()
			return ast.NewContinue(tok.Start, tok.End), nil
		case "break":
			tok := p.tok
			p.next()
			return ast.NewBreak(tok.Start, tok.End), nil
		case "if":
			return p.ifStmt()
		case "for":
			return p.forStmt()
		case "while":
			return p.whileStmt()
		case "try":
			return p.tryStmt()
		case "class", "container":
			return p.classDef()
		case "enum":
			return p.enumDef()
		case "import":
			return p.importStmt()
		case "external":
			return p.externalStmt()
		case "native":
			return p.nativeDef()
		}
	}
	return p.expr()
}

// returnStmt := 'return' [expr]
func (p *Parser) returnStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("return")
	if err != nil {
		return nil, err
	}
	value, matched, err := p.speculate(p.expr)
	if err != nil {
		return nil, err
	}
	if !matched {
		return ast.NewReturn(nil, tok.Start, tok.End), nil
	}
	return ast.NewReturn(value, tok.Start, value.End()), nil
}

// condition := '(' expr ')'
func (p *Parser) condition() (ast.Node, *report.Error) {
	if _, err := p.want(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.want(lexer.RParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// ifStmt := 'if' condition block { 'elif' condition block } ['else' block]
func (p *Parser) ifStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("if")
	if err != nil {
		return nil, err
	}

	var cases []ast.ConditionCase
	for {
		cond, err := p.condition()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.ConditionCase{Condition: cond, Body: body})

		if !p.gotKeyword("elif") {
			break
		}
		p.next()
	}

	end := cases[len(cases)-1].Body.End()
	var elseBody *ast.ProgramNode
	if p.gotKeyword("else") {
		p.next()
		elseBody, err = p.block()
		if err != nil {
			return nil, err
		}
		end = elseBody.End()
	}
	return ast.NewCondition(cases, elseBody, tok.Start, end), nil
}

// forStmt := 'for' '(' IDENT 'in' expr ')' block
func (p *Parser) forStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("for")
	if err != nil {
		return nil, err
	}
	if _, err := p.want(lexer.LParen); err != nil {
		return nil, err
	}
	name, err := p.wantIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.wantKeyword("in"); err != nil {
		return nil, err
	}
	iterable, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.want(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(name.Value, iterable, body, tok.Start), nil
}

// whileStmt := 'while' condition block
func (p *Parser) whileStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("while")
	if err != nil {
		return nil, err
	}
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if len(body.Statements) == 0 {
		p.warn("Style", tok.Start, body.End(), "while loop has an empty body")
	}
	return ast.NewWhile(cond, body, tok.Start), nil
}

// tryStmt := 'try' block 'catch' ['(' IDENT ')'] block
func (p *Parser) tryStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("try")
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.wantKeyword("catch"); err != nil {
		return nil, err
	}

	var errorName string
	if p.got(lexer.LParen) {
		p.next()
		name, err := p.wantIdent()
		if err != nil {
			return nil, err
		}
		errorName = name.Value
		if _, err := p.want(lexer.RParen); err != nil {
			return nil, err
		}
	}

	catch, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewTryCatch(body, errorName, catch, tok.Start), nil
}

// importStmt := 'import' (STRING | IDENT {'.' IDENT}) ['as' IDENT]
func (p *Parser) importStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("import")
	if err != nil {
		return nil, err
	}

	var path []string
	end := tok.End
	if p.got(lexer.String) {
		path = []string{p.tok.Value}
		end = p.tok.End
		p.next()
	} else {
		for {
			seg, err := p.wantIdent()
			if err != nil {
				return nil, err
			}
			path = append(path, seg.Value)
			end = seg.End
			if !p.got(lexer.Dot) {
				break
			}
			p.next()
		}
	}

	var alias string
	if p.tok.Is(lexer.Identifier, "as") {
		p.next()
		name, err := p.wantIdent()
		if err != nil {
			return nil, err
		}
		alias = name.Value
		end = name.End
	}
	return ast.NewImport(path, alias, tok.Start, end), nil
}

// externalStmt := 'external' IDENT
func (p *Parser) externalStmt() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("external")
	if err != nil {
		return nil, err
	}
	name, err := p.wantIdent()
	if err != nil {
		return nil, err
	}
	return ast.NewExternal(name.Value, tok.Start, name.End), nil
}
