package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// Lexer converts source text into tokens.
type Lexer struct {
	src     string
	pos     *report.Position
	start   *report.Position
	tokBuff *strings.Builder
}

// New creates a lexer over source.  The name is used for diagnostics.
func New(name, source string) *Lexer {
	return &Lexer{
		src:     source,
		pos:     report.NewPosition(name, source),
		tokBuff: &strings.Builder{},
	}
}

// Lex tokenizes an entire source text.  The returned tokens always end with
// an EOF token.
func Lex(name, source string) ([]Token, *report.Error) {
	return New(name, source).All()
}

// All lexes the remaining input.
func (l *Lexer) All() ([]Token, *report.Error) {
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// NextToken retrieves the next token from the input.  Once the input is
// exhausted, every call returns an EOF token.
func (l *Lexer) NextToken() (Token, *report.Error) {
	for {
		c := l.peek()
		if c == -1 {
			break
		}

		switch c {
		case ' ', '\t', '\r', '\n', '\v', '\f', ';':
			l.skip()
		case '/':
			if l.peekAt(1) == '/' || l.peekAt(1) == '*' {
				l.skipComment()
				continue
			}
			return l.lexSymbol()
		case '"':
			return l.lexString(), nil
		default:
			if isDecimalDigit(c) {
				return l.lexNumber()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword(), nil
			}
			return l.lexSymbol()
		}
	}

	l.mark()
	return l.makeToken(EOF), nil
}

// -----------------------------------------------------------------------------

// lexSymbol lexes a punctuation or operator symbol, taking the longest
// matching pattern.
func (l *Lexer) lexSymbol() (Token, *report.Error) {
	l.mark()
	c := l.eat()

	if !isSymbolPart(l.tokBuff.String()) {
		return Token{}, report.NewError(report.IllegalCharacter, l.start, l.pos, "'%c'", c)
	}

	for {
		next := l.peek()
		if next == -1 || !isSymbolPart(l.tokBuff.String()+string(next)) {
			break
		}
		l.eat()
	}

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return Token{}, report.NewError(report.IllegalCharacter, l.start, l.pos, "'%s'", l.tokBuff.String())
	}
	return l.makeToken(kind), nil
}

func isSymbolPart(s string) bool {
	if _, ok := symbolPatterns[s]; ok {
		return true
	}
	_, ok := symbolPrefixes[s]
	return ok
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() Token {
	l.mark()
	l.eat()

	for {
		c := l.peek()
		if !isFirstIdentChar(c) && !isDecimalDigit(c) {
			break
		}
		l.eat()
	}

	if _, ok := Keywords[l.tokBuff.String()]; ok {
		return l.makeToken(Keyword)
	}
	return l.makeToken(Identifier)
}

// lexNumber lexes an int, float, or byte literal.  A point belongs to the
// literal only when a digit follows it.  The suffixes f/F and b/B force a
// float or byte literal respectively.
func (l *Lexer) lexNumber() (Token, *report.Error) {
	l.mark()

	hasPoint := false
	for {
		c := l.peek()
		if isDecimalDigit(c) {
			l.eat()
		} else if c == '.' && !hasPoint && isDecimalDigit(l.peekAt(1)) {
			hasPoint = true
			l.eat()
		} else {
			break
		}
	}

	switch l.peek() {
	case 'f', 'F':
		l.advance()
		if !hasPoint {
			l.tokBuff.WriteString(".0")
		}
		return l.makeToken(Float), nil
	case 'b', 'B':
		suffix := l.advance()
		if hasPoint {
			return Token{}, report.NewError(
				report.IllegalNumber, l.start, l.pos,
				"'%s%c' does not conform to byte", l.tokBuff.String(), suffix,
			)
		}
		return l.makeToken(Byte), nil
	}

	if hasPoint {
		return l.makeToken(Float), nil
	}
	return l.makeToken(Int), nil
}

// lexString lexes a double quoted string literal.  An unterminated literal
// runs to the end of the input.
func (l *Lexer) lexString() Token {
	l.mark()
	l.advance()

	escaped := false
	for {
		c := l.peek()
		if c == -1 {
			break
		}
		l.advance()

		if escaped {
			switch c {
			case 'n':
				l.tokBuff.WriteRune('\n')
			case 't':
				l.tokBuff.WriteRune('\t')
			case 'r':
				l.tokBuff.WriteRune('\r')
			case '0':
				l.tokBuff.WriteRune(0)
			default:
				l.tokBuff.WriteRune(c)
			}
			escaped = false
			continue
		}

		if c == '\\' {
			escaped = true
		} else if c == '"' {
			break
		} else {
			l.tokBuff.WriteRune(c)
		}
	}

	return l.makeToken(String)
}

// skipComment skips a line comment or a block comment.  An unterminated
// block comment runs to the end of the input.
func (l *Lexer) skipComment() {
	l.skip()
	if l.peek() == '/' {
		for c := l.peek(); c != -1 && c != '\n'; c = l.peek() {
			l.skip()
		}
		return
	}

	l.skip()
	for {
		c := l.peek()
		if c == -1 {
			return
		}
		l.skip()
		if c == '*' && l.peek() == '/' {
			l.skip()
			return
		}
	}
}

// -----------------------------------------------------------------------------

// mark begins a new token at the current position.
func (l *Lexer) mark() {
	l.tokBuff.Reset()
	l.start = l.pos.Clone()
}

// makeToken creates a token of kind from the token buffer.
func (l *Lexer) makeToken(kind Kind) Token {
	tok := Token{
		Kind:  kind,
		Value: l.tokBuff.String(),
		Start: l.start,
		End:   l.pos.Clone(),
	}
	l.tokBuff.Reset()
	return tok
}

// eat moves the lexer forward one rune and writes it to the token buffer.
func (l *Lexer) eat() rune {
	c := l.advance()
	l.tokBuff.WriteRune(c)
	return c
}

// skip moves the lexer forward one rune without buffering it.
func (l *Lexer) skip() {
	l.advance()
}

// advance moves the cursor forward one rune and returns it.
func (l *Lexer) advance() rune {
	c, width := utf8.DecodeRuneInString(l.src[l.pos.Index:])
	l.pos.Step(c, width)
	return c
}

// peek returns the current rune without consuming it, or -1 at the end.
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune offset runes ahead of the cursor, or -1.
func (l *Lexer) peekAt(offset int) rune {
	rest := l.src[l.pos.Index:]
	for ; offset > 0 && rest != ""; offset-- {
		_, width := utf8.DecodeRuneInString(rest)
		rest = rest[width:]
	}
	if rest == "" {
		return -1
	}
	c, _ := utf8.DecodeRuneInString(rest)
	return c
}

// -----------------------------------------------------------------------------

func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isFirstIdentChar(c rune) bool {
	return c == '_' || (c != -1 && unicode.IsLetter(c))
}
