package lexer

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

func lexKinds(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := Lex("test.spz", src)
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	return toks
}

func TestLexEndsWithEOF(t *testing.T) {
	toks := lexKinds(t, "")
	if len(toks) != 1 || toks[0].Kind != EOF {
		t.Fatalf("expected lone EOF, got %v", toks)
	}
	toks = lexKinds(t, "mut x = 1;")
	if toks[len(toks)-1].Kind != EOF {
		t.Fatalf("expected trailing EOF, got %v", toks)
	}
}

func TestLexFloatSuffix(t *testing.T) {
	toks := lexKinds(t, "3.14f")
	if len(toks) != 2 {
		t.Fatalf("expected one token plus EOF, got %v", toks)
	}
	if toks[0].Kind != Float || toks[0].Value != "3.14" {
		t.Fatalf("expected FLOAT 3.14, got %s %q", toks[0].Kind, toks[0].Value)
	}

	toks = lexKinds(t, "3F")
	if toks[0].Kind != Float || toks[0].Value != "3.0" {
		t.Fatalf("expected FLOAT 3.0, got %s %q", toks[0].Kind, toks[0].Value)
	}
}

func TestLexNumberKinds(t *testing.T) {
	cases := []struct {
		src   string
		kind  Kind
		value string
	}{
		{"42", Int, "42"},
		{"4.5", Float, "4.5"},
		{"255b", Byte, "255"},
		{"7B", Byte, "7"},
	}
	for _, tc := range cases {
		toks := lexKinds(t, tc.src)
		if toks[0].Kind != tc.kind || toks[0].Value != tc.value {
			t.Fatalf("%q: got %s %q, want %s %q", tc.src, toks[0].Kind, toks[0].Value, tc.kind, tc.value)
		}
	}
}

func TestLexPointWithoutDigitIsMemberAccess(t *testing.T) {
	toks := lexKinds(t, "1.size")
	if toks[0].Kind != Int || toks[1].Kind != Dot || toks[2].Kind != Identifier {
		t.Fatalf("unexpected tokens %v", toks)
	}
}

func TestLexByteWithPointFails(t *testing.T) {
	_, err := Lex("test.spz", "3.5b")
	if err == nil {
		t.Fatalf("expected byte literal with point to fail")
	}
	if err.Name != report.IllegalNumber || err.Details != "'3.5b' does not conform to byte" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLexGreedySymbols(t *testing.T) {
	toks := lexKinds(t, "a ~!= b ~= c ?. d <= e == f != g ++ -- += -= *= /= 1 << 2 >> 3 >>> 4 >= 5")
	want := []Kind{
		Identifier, RoughNotEqual, Identifier, RoughEqual, Identifier, SafeDot,
		Identifier, LessEqual, Identifier, Equal, Identifier, NotEqual, Identifier,
		PlusPlus, MinusMinus, PlusAssign, MinusAssign, StarAssign, SlashAssign,
		Int, ShiftLeft, Int, ShiftRight, Int, UnsignedShiftRight, Int, GreaterEqual, Int, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexIllegalCharacter(t *testing.T) {
	_, err := Lex("test.spz", "mut x = 1 & 2")
	if err == nil {
		t.Fatalf("expected lone & to be rejected")
	}
	if err.Name != report.IllegalCharacter {
		t.Fatalf("unexpected error name %q", err.Name)
	}
	if err.Start.Column != 10 {
		t.Fatalf("expected error at column 10, got %d", err.Start.Column)
	}

	if _, err := Lex("test.spz", "#"); err == nil || err.Details != "'#'" {
		t.Fatalf("expected illegal character '#', got %v", err)
	}
}

func TestLexStringsAndEscapes(t *testing.T) {
	toks := lexKinds(t, `"a\n\"b\"\\"`)
	if toks[0].Kind != String || toks[0].Value != "a\n\"b\"\\" {
		t.Fatalf("unexpected string token %q", toks[0].Value)
	}

	toks = lexKinds(t, `"open`)
	if toks[0].Kind != String || toks[0].Value != "open" || toks[1].Kind != EOF {
		t.Fatalf("expected unterminated string to run to EOF, got %v", toks)
	}
}

func TestLexKeywordsAndComments(t *testing.T) {
	toks := lexKinds(t, "// comment\nconst total /* inline */ = true")
	if !toks[0].IsKeyword("const") || toks[1].Value != "total" || toks[2].Kind != Assign || !toks[3].IsKeyword("true") {
		t.Fatalf("unexpected tokens %v", toks)
	}
	if toks[0].Start.Line != 1 || toks[0].Start.Column != 0 {
		t.Fatalf("unexpected position %+v", toks[0].Start)
	}
}

func TestLexSpansAreIndependent(t *testing.T) {
	toks := lexKinds(t, "ab cd")
	if toks[0].Start.Index != 0 || toks[0].End.Index != 2 {
		t.Fatalf("unexpected span for first token: %d..%d", toks[0].Start.Index, toks[0].End.Index)
	}
	if toks[1].Start.Index != 3 || toks[1].End.Index != 5 {
		t.Fatalf("unexpected span for second token: %d..%d", toks[1].Start.Index, toks[1].End.Index)
	}
}

func TestLexSpansAreByteOffsets(t *testing.T) {
	src := "\"é\" abc 3.14f"
	toks := lexKinds(t, src)
	want := []string{"\"é\"", "abc", "3.14f", ""}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), toks)
	}
	for i, text := range want {
		if got := toks[i].Start.Text(toks[i].End); got != text {
			t.Fatalf("token %d (%s): span %q, want %q", i, toks[i].Kind, got, text)
		}
	}
	if toks[1].Start.Column != 4 || toks[1].Start.Index != 5 {
		t.Fatalf("expected column 4 at byte 5, got %+v", toks[1].Start)
	}
}

var unescapeString = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r", `\0`, "\x00", `\"`, `"`, `\\`, `\`)

// literalValue rebuilds a token value from its span text with the
// delimiters trimmed.
func literalValue(t *testing.T, kind Kind, span string) string {
	t.Helper()
	switch kind {
	case String:
		return unescapeString.Replace(strings.TrimSuffix(strings.TrimPrefix(span, `"`), `"`))
	case Byte:
		return strings.TrimRight(span, "bB")
	case Float:
		f, err := strconv.ParseFloat(strings.TrimRight(span, "fF"), 64)
		if err != nil {
			t.Fatalf("span %q is not a float: %v", span, err)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return span
}

type roundTripCase struct {
	src  string
	kind Kind
}

func TestLexRoundTrip(t *testing.T) {
	cases := []roundTripCase{
		{"42", Int},
		{"4.5", Float},
		{"3.14f", Float},
		{"3F", Float},
		{"255b", Byte},
		{"7B", Byte},
		{`"plain"`, String},
		{`"a\n\t\r\0\"q\"\\"`, String},
		{`"ünï çødé"`, String},
		{`""`, String},
		{"name_1", Identifier},
		{"_private", Identifier},
		{"ünï", Identifier},
	}
	for word := range Keywords {
		cases = append(cases, roundTripCase{word, Keyword})
	}
	symbols := make([]string, 0, len(symbolPatterns))
	for sym := range symbolPatterns {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		cases = append(cases, roundTripCase{sym, symbolPatterns[sym]})
	}

	const prefix = "\"é\" "
	for _, tc := range cases {
		toks := lexKinds(t, prefix+tc.src)
		if len(toks) != 3 || toks[2].Kind != EOF {
			t.Fatalf("%q: expected exactly one token, got %v", tc.src, toks[1:])
		}
		tok := toks[1]
		if tok.Kind != tc.kind {
			t.Fatalf("%q: got kind %s, want %s", tc.src, tok.Kind, tc.kind)
		}
		span := tok.Start.Text(tok.End)
		if span != tc.src {
			t.Fatalf("%q: span text %q", tc.src, span)
		}
		want := tok.Value
		if tc.kind == Float {
			want = literalValue(t, Float, tok.Value)
		}
		if got := literalValue(t, tc.kind, span); got != want {
			t.Fatalf("%q: span rebuilds %q, token value %q", tc.src, got, want)
		}
	}
}
