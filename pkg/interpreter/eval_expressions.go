package interpreter

import (
	"strconv"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

func (i *Interpreter) visitNumber(n *ast.NumberNode, ctx *runtime.Context) Result {
	var v runtime.Value
	switch n.Token.Kind {
	case lexer.Float:
		f, err := strconv.ParseFloat(n.Token.Value, 64)
		if err != nil {
			return i.fail(runtime.NewError(runtime.ErrTypeMismatch, "'%s' does not conform to float", n.Token.Value), n, ctx)
		}
		v = runtime.NewFloat(f)
	case lexer.Byte:
		b, err := strconv.ParseUint(n.Token.Value, 10, 8)
		if err != nil {
			return i.fail(runtime.NewError(runtime.ErrTypeMismatch, "'%sb' does not conform to byte", n.Token.Value), n, ctx)
		}
		v = runtime.NewByte(byte(b))
	default:
		x, err := strconv.ParseInt(n.Token.Value, 10, 64)
		if err != nil {
			return i.fail(runtime.NewError(runtime.ErrTypeMismatch, "'%s' does not conform to int", n.Token.Value), n, ctx)
		}
		v = runtime.NewInt(x)
	}
	return success(runtime.Locate(v, n.Start(), n.End(), ctx))
}

func (i *Interpreter) visitList(n *ast.ListNode, ctx *runtime.Context) Result {
	elems := make([]runtime.Value, 0, len(n.Elements))
	for _, el := range n.Elements {
		res := i.Visit(el, ctx)
		if res.ShouldStop() {
			return res
		}
		elems = append(elems, res.Value)
	}
	return success(runtime.Locate(runtime.NewList(elems), n.Start(), n.End(), ctx))
}

func (i *Interpreter) visitDictionary(n *ast.DictionaryNode, ctx *runtime.Context) Result {
	dict := runtime.NewDictionary()
	for _, entry := range n.Entries {
		key := i.Visit(entry.Key, ctx)
		if key.ShouldStop() {
			return key
		}
		value := i.Visit(entry.Value, ctx)
		if value.ShouldStop() {
			return value
		}
		dict.Set(key.Value, value.Value)
	}
	return success(runtime.Locate(dict, n.Start(), n.End(), ctx))
}

// operatorKind maps keyword operators onto their symbolic kinds.
func operatorKind(tok lexer.Token) lexer.Kind {
	switch {
	case tok.IsKeyword("and"):
		return lexer.And
	case tok.IsKeyword("or"):
		return lexer.Or
	}
	return tok.Kind
}

// visitBinaryOp evaluates both operands before dispatching, so `&&` and
// `||` never short-circuit.
func (i *Interpreter) visitBinaryOp(n *ast.BinaryOpNode, ctx *runtime.Context) Result {
	left := i.Visit(n.Left, ctx)
	if left.ShouldStop() {
		return left
	}
	right := i.Visit(n.Right, ctx)
	if right.ShouldStop() {
		return right
	}

	v, err := runtime.Operate(operatorKind(n.Operator), left.Value, right.Value)
	if err != nil {
		return i.fail(err, n, ctx)
	}
	return success(runtime.Locate(v, n.Start(), n.End(), ctx))
}

func (i *Interpreter) visitUnaryOp(n *ast.UnaryOpNode, ctx *runtime.Context) Result {
	operand := i.Visit(n.Operand, ctx)
	if operand.ShouldStop() {
		return operand
	}

	var (
		v   runtime.Value
		err *runtime.Error
	)
	switch n.Operator.Kind {
	case lexer.Minus:
		v, err = runtime.Negate(operand.Value)
	case lexer.Plus:
		v, err = runtime.Identity(operand.Value)
	default:
		v, err = runtime.Not(operand.Value)
	}
	if err != nil {
		return i.fail(err, n, ctx)
	}
	if v == operand.Value {
		return success(v)
	}
	return success(runtime.Locate(v, n.Start(), n.End(), ctx))
}

func (i *Interpreter) visitVarDeclare(n *ast.VarDeclareNode, ctx *runtime.Context) Result {
	res := i.Visit(n.Value, ctx)
	if res.ShouldStop() {
		return res
	}
	if n.Type != "" && !i.primitives.Matches(n.Type, res.Value) {
		return i.fail(runtime.NewError(
			runtime.ErrTypeMismatch, "'%s' expects %s, got %s",
			n.Name, n.Type, runtime.Identifier(res.Value),
		), n, ctx)
	}

	sym := &runtime.Symbol{
		Name:      n.Name,
		Value:     res.Value,
		Start:     n.Start(),
		End:       n.End(),
		Immutable: n.Immutable,
	}
	v, err := ctx.Table.DeclareOrAssign(sym, true, false)
	if err != nil {
		return i.fail(err, n, ctx)
	}
	return success(v)
}

// compoundOperator returns the arithmetic operator behind an assignment
// modifier, or false for plain assignment.
func compoundOperator(op lexer.Kind) (lexer.Kind, bool) {
	switch op {
	case lexer.PlusAssign, lexer.PlusPlus:
		return lexer.Plus, true
	case lexer.MinusAssign, lexer.MinusMinus:
		return lexer.Minus, true
	case lexer.StarAssign:
		return lexer.Star, true
	case lexer.SlashAssign:
		return lexer.Slash, true
	}
	return lexer.EOF, false
}

// visitVarAssign rebinds a name in the current scope chain or, when
// receiver is set, a member of the receiver.  The right hand side is always
// evaluated in ctx.
func (i *Interpreter) visitVarAssign(n *ast.VarAssignNode, ctx *runtime.Context, receiver runtime.Value) Result {
	table := ctx.Table
	if receiver != nil {
		t, err := i.memberTable(receiver)
		if err != nil {
			return i.fail(err, n, ctx)
		}
		if _, err := t.Find(n.Name, nil, true); err != nil {
			return i.fail(missingMember(receiver, n.Name), n, ctx)
		}
		table = t
	}

	var value runtime.Value
	if n.Value != nil {
		res := i.Visit(n.Value, ctx)
		if res.ShouldStop() {
			return res
		}
		value = res.Value
	} else {
		value = runtime.NewInt(1)
	}

	if op, ok := compoundOperator(n.Operator); ok {
		current, err := table.Find(n.Name, nil, receiver != nil)
		if err != nil {
			return i.fail(err, n, ctx)
		}
		combined, err := runtime.Operate(op, current, value)
		if err != nil {
			return i.fail(err, n, ctx)
		}
		value = runtime.Locate(combined, n.Start(), n.End(), ctx)
	}

	sym := &runtime.Symbol{Name: n.Name, Value: value, Start: n.Start(), End: n.End()}
	v, err := table.DeclareOrAssign(sym, false, false)
	if err != nil {
		return i.fail(err, n, ctx)
	}
	return i.follow(n.Access, v, ctx)
}

func (i *Interpreter) visitVarAccess(n *ast.VarAccessNode, ctx *runtime.Context, receiver runtime.Value) Result {
	v, err := i.lookup(n.Name, nil, ctx, receiver)
	if err != nil {
		return i.fail(err, n, ctx)
	}
	return i.follow(n.Access, v, ctx)
}

// lookup resolves name in the scope chain of ctx, or among the members of
// receiver when it is set.
func (i *Interpreter) lookup(name string, pred runtime.Predicate, ctx *runtime.Context, receiver runtime.Value) (runtime.Value, *runtime.Error) {
	if receiver == nil {
		return ctx.Table.Find(name, pred, false)
	}
	table, err := i.memberTable(receiver)
	if err != nil {
		return nil, err
	}
	v, err := table.Find(name, pred, true)
	if err != nil && err.Kind == runtime.ErrUndefinedReference {
		return nil, missingMember(receiver, name)
	}
	return v, err
}

func missingMember(receiver runtime.Value, name string) *runtime.Error {
	return runtime.NewError(runtime.ErrMemberNotFound, "%s has no member '%s'", runtime.Identifier(receiver), name)
}
