package lexer

import (
	"fmt"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// Kind enumerates token kinds.
type Kind int

const (
	EOF Kind = iota

	Int
	Float
	Byte
	String
	Identifier
	Keyword

	Plus
	PlusPlus
	PlusAssign
	Minus
	MinusMinus
	MinusAssign
	Star
	StarAssign
	Slash
	SlashAssign
	Percent

	Assign
	Equal
	NotEqual
	RoughEqual
	RoughNotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	ShiftLeft
	ShiftRight
	UnsignedShiftRight
	Not
	And
	Or

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	SafeDot
	Colon
)

var kindNames = [...]string{
	EOF:                "EOF",
	Int:                "INT",
	Float:              "FLOAT",
	Byte:               "BYTE",
	String:             "STRING",
	Identifier:         "IDENTIFIER",
	Keyword:            "KEYWORD",
	Plus:               "+",
	PlusPlus:           "++",
	PlusAssign:         "+=",
	Minus:              "-",
	MinusMinus:         "--",
	MinusAssign:        "-=",
	Star:               "*",
	StarAssign:         "*=",
	Slash:              "/",
	SlashAssign:        "/=",
	Percent:            "%",
	Assign:             "=",
	Equal:              "==",
	NotEqual:           "!=",
	RoughEqual:         "~=",
	RoughNotEqual:      "~!=",
	Less:               "<",
	LessEqual:          "<=",
	Greater:            ">",
	GreaterEqual:       ">=",
	ShiftLeft:          "<<",
	ShiftRight:         ">>",
	UnsignedShiftRight: ">>>",
	Not:                "!",
	And:                "&&",
	Or:                 "||",
	LParen:             "(",
	RParen:             ")",
	LBrace:             "{",
	RBrace:             "}",
	LBracket:           "[",
	RBracket:           "]",
	Comma:              ",",
	Dot:                ".",
	SafeDot:            "?.",
	Colon:              ":",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical token.  Value holds the literal payload: the
// digits of a number, the unescaped contents of a string, or the text of an
// identifier, keyword, or symbol.
type Token struct {
	Kind  Kind
	Value string
	Start *report.Position
	End   *report.Position
}

// Is reports whether the token has the given kind and, when value is not
// empty, the given value.
func (t Token) Is(kind Kind, value string) bool {
	return t.Kind == kind && (value == "" || t.Value == value)
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && t.Value == word
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case Int, Float, Byte, Identifier, Keyword:
		return t.Value
	case String:
		return fmt.Sprintf("%q", t.Value)
	default:
		return t.Kind.String()
	}
}

// Keywords lists every reserved word.
var Keywords = map[string]struct{}{
	"mut":       {},
	"const":     {},
	"task":      {},
	"class":     {},
	"container": {},
	"enum":      {},
	"if":        {},
	"elif":      {},
	"else":      {},
	"for":       {},
	"in":        {},
	"while":     {},
	"return":    {},
	"continue":  {},
	"break":     {},
	"try":       {},
	"catch":     {},
	"import":    {},
	"external":  {},
	"native":    {},
	"true":      {},
	"false":     {},
	"null":      {},
	"and":       {},
	"or":        {},
}

// symbolPatterns maps every symbol (and each prefix of a longer symbol that
// is valid on its own) to its token kind.  Lexing is greedy: the longest
// pattern wins.
var symbolPatterns = map[string]Kind{
	"+":   Plus,
	"++":  PlusPlus,
	"+=":  PlusAssign,
	"-":   Minus,
	"--":  MinusMinus,
	"-=":  MinusAssign,
	"*":   Star,
	"*=":  StarAssign,
	"/":   Slash,
	"/=":  SlashAssign,
	"%":   Percent,
	"=":   Assign,
	"==":  Equal,
	"!":   Not,
	"!=":  NotEqual,
	"~=":  RoughEqual,
	"~!=": RoughNotEqual,
	"<":   Less,
	"<=":  LessEqual,
	">":   Greater,
	">=":  GreaterEqual,
	"<<":  ShiftLeft,
	">>":  ShiftRight,
	">>>": UnsignedShiftRight,
	"&&":  And,
	"||":  Or,
	"(":   LParen,
	")":   RParen,
	"{":   LBrace,
	"}":   RBrace,
	"[":   LBracket,
	"]":   RBracket,
	",":   Comma,
	".":   Dot,
	"?.":  SafeDot,
	":":   Colon,
}

// symbolPrefixes holds partial symbols that are not tokens on their own but
// may begin one.
var symbolPrefixes = map[string]struct{}{
	"&":  {},
	"|":  {},
	"~":  {},
	"~!": {},
	"?":  {},
}
