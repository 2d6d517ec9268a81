package parser

import (
	"strings"
	"testing"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

func mustParse(t *testing.T, src string) *Result {
	t.Helper()
	res, err := ParseSource("test.spz", src)
	if err != nil {
		t.Fatalf("parse %q: %s", src, err.Render())
	}
	return res
}

func single(t *testing.T, src string) ast.Node {
	t.Helper()
	res := mustParse(t, src)
	if len(res.Node.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(res.Node.Statements))
	}
	return res.Node.Statements[0]
}

// shape renders an expression tree in prefix form for compact assertions.
func shape(n ast.Node) string {
	switch n := n.(type) {
	case *ast.NumberNode:
		return n.Token.Value
	case *ast.VarAccessNode:
		return n.Name
	case *ast.BinaryOpNode:
		return "(" + n.Operator.Value + " " + shape(n.Left) + " " + shape(n.Right) + ")"
	case *ast.UnaryOpNode:
		return "(" + n.Operator.Value + " " + shape(n.Operand) + ")"
	default:
		return string(n.NodeType())
	}
}

func TestPrecedenceLadder(t *testing.T) {
	cases := map[string]string{
		"1 + 2 * 3":    "(+ 1 (* 2 3))",
		"(1 + 2) * 3":  "(* (+ 1 2) 3)",
		"1 - 2 - 3":    "(- (- 1 2) 3)",
		"a < b + 1":    "(< a (+ b 1))",
		"a && b == c":  "(&& a (== b c))",
		"!a == b":      "(! (== a b))",
		"a or b and c": "(and (or a b) c)",
		"-a % b":       "(- (% a b))",
		"a % -b":       "(% a (- b))",
		"a * b % c":    "(* a (% b c))",
		"x ~= y":       "(~= x y)",
		"x ~!= y":      "(~!= x y)",
	}
	for src, want := range cases {
		if got := shape(single(t, src)); got != want {
			t.Fatalf("%q: got %s, want %s", src, got, want)
		}
	}
}

func TestComparisonDoesNotChain(t *testing.T) {
	_, err := ParseSource("test.spz", "a < b < c")
	if err == nil {
		t.Fatalf("expected chained comparison to fail")
	}
	if err.Name != report.InvalidSyntax {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDeclarations(t *testing.T) {
	decl, ok := single(t, "const limit: int = 10").(*ast.VarDeclareNode)
	if !ok {
		t.Fatalf("expected declaration")
	}
	if decl.Name != "limit" || decl.Type != "int" || !decl.Immutable {
		t.Fatalf("unexpected declaration %+v", decl)
	}

	assign, ok := single(t, "total += 2").(*ast.VarAssignNode)
	if !ok || assign.Operator != lexer.PlusAssign || assign.Name != "total" {
		t.Fatalf("unexpected assignment %#v", assign)
	}

	inc, ok := single(t, "count++").(*ast.VarAssignNode)
	if !ok || inc.Operator != lexer.PlusPlus || inc.Value != nil {
		t.Fatalf("unexpected increment %#v", inc)
	}
}

func TestAccessChainLinks(t *testing.T) {
	root, ok := single(t, "a.b?.c(1)[0]").(*ast.VarAccessNode)
	if !ok || root.Name != "a" {
		t.Fatalf("expected chain rooted at a")
	}
	b, ok := root.Next.(*ast.VarAccessNode)
	if !ok || b.Name != "b" || b.Safe {
		t.Fatalf("expected plain member b, got %#v", root.Next)
	}
	idx, ok := b.Next.(*ast.IndexNode)
	if !ok || !idx.Safe || idx.Next != nil {
		t.Fatalf("expected safe index link after b, got %#v", b.Next)
	}
	call, ok := idx.Target.(*ast.CallNode)
	if !ok || len(call.Args) != 1 {
		t.Fatalf("expected call inside index, got %#v", idx.Target)
	}
	if callee, ok := call.Callee.(*ast.VarAccessNode); !ok || callee.Name != "c" {
		t.Fatalf("expected callee c, got %#v", call.Callee)
	}
}

func TestMemberAssignmentIsLink(t *testing.T) {
	root, ok := single(t, "this.x = 5").(*ast.VarAccessNode)
	if !ok || root.Name != "this" {
		t.Fatalf("expected chain rooted at this")
	}
	if assign, ok := root.Next.(*ast.VarAssignNode); !ok || assign.Name != "x" {
		t.Fatalf("expected member assignment, got %#v", root.Next)
	}
}

func TestLiteralRootChain(t *testing.T) {
	chain, ok := single(t, `"abc".size()`).(*ast.ChainNode)
	if !ok {
		t.Fatalf("expected chain node for literal root")
	}
	if _, ok := chain.Root.(*ast.StringNode); !ok {
		t.Fatalf("expected string root, got %#v", chain.Root)
	}
	if _, ok := chain.Next.(*ast.CallNode); !ok {
		t.Fatalf("expected call link, got %#v", chain.Next)
	}
}

func TestDefinitions(t *testing.T) {
	task, ok := single(t, "task<int> add(a: int, b) = a + b").(*ast.TaskDefineNode)
	if !ok {
		t.Fatalf("expected task definition")
	}
	if task.Name != "add" || task.ReturnType != "int" || !task.ExpressionBody || len(task.Args) != 2 || task.Args[0].Type != "int" {
		t.Fatalf("unexpected task %+v", task)
	}

	anon, ok := single(t, "mut f = task (x) { return x }").(*ast.VarDeclareNode)
	if !ok {
		t.Fatalf("expected declaration of anonymous task")
	}
	if def, ok := anon.Value.(*ast.TaskDefineNode); !ok || def.Name != "" || def.ExpressionBody {
		t.Fatalf("unexpected anonymous task %#v", anon.Value)
	}

	class, ok := single(t, "container Point(x, y) { }").(*ast.ClassDefineNode)
	if !ok || !class.Container || len(class.Args) != 2 {
		t.Fatalf("unexpected container %#v", class)
	}

	enum, ok := single(t, "enum Color { RED, GREEN }").(*ast.EnumDefineNode)
	if !ok || strings.Join(enum.Members, ",") != "RED,GREEN" {
		t.Fatalf("unexpected enum %#v", enum)
	}

	native, ok := single(t, "native task<int> clock()").(*ast.NativeNode)
	if !ok || native.Name != "clock" || native.ReturnType != "int" {
		t.Fatalf("unexpected native %#v", native)
	}
}

func TestControlFlow(t *testing.T) {
	cond, ok := single(t, "if (a) { 1 } elif (b) { 2 } else { 3 }").(*ast.ConditionNode)
	if !ok || len(cond.Cases) != 2 || cond.Else == nil {
		t.Fatalf("unexpected condition %#v", cond)
	}

	loop, ok := single(t, "for (x in [1, 2]) { continue }").(*ast.ForNode)
	if !ok || loop.Variable != "x" {
		t.Fatalf("unexpected for loop %#v", loop)
	}
	if _, ok := loop.Body.Statements[0].(*ast.ContinueNode); !ok {
		t.Fatalf("expected continue in loop body")
	}

	try, ok := single(t, "try { a() } catch (e) { }").(*ast.TryCatchNode)
	if !ok || try.ErrorName != "e" {
		t.Fatalf("unexpected try %#v", try)
	}

	imp, ok := single(t, "import util.strings as s").(*ast.ImportNode)
	if !ok || strings.Join(imp.Path, ".") != "util.strings" || imp.Alias != "s" {
		t.Fatalf("unexpected import %#v", imp)
	}
}

func TestReturnWithoutValue(t *testing.T) {
	task, ok := single(t, "task f { return }").(*ast.TaskDefineNode)
	if !ok {
		t.Fatalf("expected task")
	}
	body := task.Body.(*ast.ProgramNode)
	ret, ok := body.Statements[0].(*ast.ReturnNode)
	if !ok || ret.Value != nil {
		t.Fatalf("expected bare return, got %#v", body.Statements[0])
	}
}

func TestFurthestProgressErrorSurfaces(t *testing.T) {
	// The call consumes tokens before failing, so its error is reported
	// instead of the statement list quietly ending at EOF.
	_, err := ParseSource("test.spz", "print(1, 2")
	if err == nil {
		t.Fatalf("expected unterminated call to fail")
	}
	if err.Details != "Expected ')'" {
		t.Fatalf("expected the call's own error, got %q", err.Details)
	}
	if err.Start.Index != 10 {
		t.Fatalf("expected error at end of input, got index %d", err.Start.Index)
	}

	_, err = ParseSource("test.spz", "mut x = 1\nmut = 3")
	if err == nil || err.Details != "Expected identifier" {
		t.Fatalf("expected declaration error, got %v", err)
	}
	if err.Start.Line != 1 {
		t.Fatalf("expected error on second line, got line %d", err.Start.Line)
	}
}

func TestStrayTokenFails(t *testing.T) {
	if _, err := ParseSource("test.spz", "1 }"); err == nil {
		t.Fatalf("expected stray brace to fail")
	}
	if _, err := ParseSource("test.spz", "else { }"); err == nil || err.Details != "Expected expression" {
		t.Fatalf("expected stray else to fail, got %v", err)
	}
}

func TestWarnings(t *testing.T) {
	res := mustParse(t, "class point { }\nwhile (true) { }")
	if len(res.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %d", len(res.Warnings))
	}
	if !strings.Contains(res.Warnings[0].Details, "point") {
		t.Fatalf("unexpected warning %q", res.Warnings[0].Details)
	}
}

func TestDictionaryLiteral(t *testing.T) {
	dict, ok := single(t, `{"a": 1, "b": 2}`).(*ast.DictionaryNode)
	if !ok || len(dict.Entries) != 2 {
		t.Fatalf("unexpected dictionary %#v", dict)
	}
}
