package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// taskDef := 'task' ['<' IDENT '>'] [IDENT] ['(' taskArgs ')'] ('=' expr | block)
func (p *Parser) taskDef() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("task")
	if err != nil {
		return nil, err
	}
	returnType, name, args, err := p.taskHeader(false)
	if err != nil {
		return nil, err
	}

	if p.got(lexer.Assign) {
		p.next()
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		return ast.NewTaskDefine(name, returnType, args, body, true, tok.Start), nil
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewTaskDefine(name, returnType, args, body, false, tok.Start), nil
}

// taskHeader := ['<' IDENT '>'] [IDENT] ['(' taskArgs ')']
//
// The name is mandatory when requireName is set.
func (p *Parser) taskHeader(requireName bool) (returnType, name string, args []ast.TaskArg, err *report.Error) {
	if p.got(lexer.Less) {
		p.next()
		typeTok, err := p.wantIdent()
		if err != nil {
			return "", "", nil, err
		}
		returnType = typeTok.Value
		if _, err := p.want(lexer.Greater); err != nil {
			return "", "", nil, err
		}
	}

	if p.got(lexer.Identifier) || requireName {
		nameTok, err := p.wantIdent()
		if err != nil {
			return "", "", nil, err
		}
		name = nameTok.Value
	}

	if p.got(lexer.LParen) {
		args, _, err = p.taskArgs()
		if err != nil {
			return "", "", nil, err
		}
	}
	return returnType, name, args, nil
}

// taskArgs := '(' [taskArg {',' taskArg}] ')'
// taskArg := IDENT [':' IDENT]
func (p *Parser) taskArgs() ([]ast.TaskArg, *report.Position, *report.Error) {
	if _, err := p.want(lexer.LParen); err != nil {
		return nil, nil, err
	}
	var args []ast.TaskArg
	if !p.got(lexer.RParen) {
		for {
			name, err := p.wantIdent()
			if err != nil {
				return nil, nil, err
			}
			arg := ast.TaskArg{Name: name.Value, Start: name.Start, End: name.End}
			if p.got(lexer.Colon) {
				p.next()
				typeTok, err := p.wantIdent()
				if err != nil {
					return nil, nil, err
				}
				arg.Type = typeTok.Value
				arg.End = typeTok.End
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

// classDef := ('class' | 'container') IDENT ['(' taskArgs ')'] block
func (p *Parser) classDef() (ast.Node, *report.Error) {
	tok := p.tok
	container := tok.IsKeyword("container")
	p.next()

	name, err := p.wantIdent()
	if err != nil {
		return nil, err
	}
	p.checkTypeName(name)

	var args []ast.TaskArg
	if p.got(lexer.LParen) {
		args, _, err = p.taskArgs()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewClassDefine(name.Value, args, body, container, tok.Start), nil
}

// enumDef := 'enum' IDENT '{' [IDENT {',' IDENT}] '}'
func (p *Parser) enumDef() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("enum")
	if err != nil {
		return nil, err
	}
	name, err := p.wantIdent()
	if err != nil {
		return nil, err
	}
	p.checkTypeName(name)

	if _, err := p.want(lexer.LBrace); err != nil {
		return nil, err
	}
	var members []string
	if !p.got(lexer.RBrace) {
		for {
			member, err := p.wantIdent()
			if err != nil {
				return nil, err
			}
			members = append(members, member.Value)
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
	return ast.NewEnumDefine(name.Value, members, tok.Start, closing.End), nil
}

// nativeDef := 'native' 'task' ['<' IDENT '>'] IDENT ['(' taskArgs ')']
func (p *Parser) nativeDef() (ast.Node, *report.Error) {
	tok, err := p.wantKeyword("native")
	if err != nil {
		return nil, err
	}
	if _, err := p.wantKeyword("task"); err != nil {
		return nil, err
	}
	returnType, name, args, err := p.taskHeader(true)
	if err != nil {
		return nil, err
	}
	return ast.NewNative(name, returnType, args, tok.Start, p.prev.End), nil
}

// checkTypeName warns when a type name does not start with an uppercase
// letter.
func (p *Parser) checkTypeName(name lexer.Token) {
	r, _ := utf8.DecodeRuneInString(name.Value)
	if !unicode.IsUpper(r) {
		p.warn("Style", name.Start, name.End, "type name '%s' should start with an uppercase letter", name.Value)
	}
}
