package interpreter

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// visitStatements evaluates a statement list in ctx.  Its value is the value
// of the last statement.
func (i *Interpreter) visitStatements(prog *ast.ProgramNode, ctx *runtime.Context) Result {
	var last runtime.Value
	for _, stmt := range prog.Statements {
		res := i.Visit(stmt, ctx)
		if res.ShouldStop() {
			return res
		}
		last = res.Value
	}
	return success(settle(last, prog, ctx))
}

// visitBlock evaluates body in a lexical child of ctx.
func (i *Interpreter) visitBlock(body *ast.ProgramNode, ctx *runtime.Context) Result {
	return i.visitStatements(body, ctx.Block())
}

func (i *Interpreter) visitReturn(n *ast.ReturnNode, ctx *runtime.Context) Result {
	if n.Value == nil {
		return returned(settle(nil, n, ctx), n)
	}
	res := i.Visit(n.Value, ctx)
	if res.ShouldStop() {
		return res
	}
	return returned(res.Value, n)
}

// truth evaluates a loop or branch condition.
func (i *Interpreter) truth(cond ast.Node, ctx *runtime.Context) (bool, Result) {
	res := i.Visit(cond, ctx)
	if res.ShouldStop() {
		return false, res
	}
	b, ok := runtime.IsBool(res.Value)
	if !ok {
		return false, i.fail(runtime.NewError(runtime.ErrTypeMismatch, "condition must be bool, got %s", runtime.Identifier(res.Value)), cond, ctx)
	}
	return b, res
}

func (i *Interpreter) visitCondition(n *ast.ConditionNode, ctx *runtime.Context) Result {
	for _, c := range n.Cases {
		ok, res := i.truth(c.Condition, ctx)
		if res.ShouldStop() {
			return res
		}
		if ok {
			return i.visitBlock(c.Body, ctx)
		}
	}
	if n.Else != nil {
		return i.visitBlock(n.Else, ctx)
	}
	return success(settle(nil, n, ctx))
}

// loopBody runs one iteration and reports whether the loop must exit.  A
// consumed break or continue yields an empty result.
func loopBody(res Result) (Result, bool) {
	switch {
	case res.Err != nil, res.Returned:
		return res, true
	case res.Broke:
		return Result{}, true
	}
	return Result{}, false
}

func (i *Interpreter) visitWhile(n *ast.WhileNode, ctx *runtime.Context) Result {
	for {
		ok, res := i.truth(n.Condition, ctx)
		if res.ShouldStop() {
			return res
		}
		if !ok {
			break
		}
		if res, exit := loopBody(i.visitBlock(n.Body, ctx)); exit {
			if res.ShouldStop() {
				return res
			}
			break
		}
	}
	return success(settle(nil, n, ctx))
}

func (i *Interpreter) visitFor(n *ast.ForNode, ctx *runtime.Context) Result {
	iterable := i.Visit(n.Iterable, ctx)
	if iterable.ShouldStop() {
		return iterable
	}

	var items []runtime.Value
	switch it := iterable.Value.(type) {
	case *runtime.ListValue:
		items = append(items, it.Elements...)
	case *runtime.StringValue:
		items = characters(it.Val)
	case *runtime.DictionaryValue:
		for _, entry := range it.Entries {
			items = append(items, entry.Key)
		}
	default:
		return i.fail(runtime.NewError(runtime.ErrTypeMismatch, "%s is not iterable", runtime.Identifier(iterable.Value)), n.Iterable, ctx)
	}

	for _, item := range items {
		block := ctx.Block()
		if _, err := block.Table.Declare(n.Variable, item, false); err != nil {
			return i.fail(err, n, ctx)
		}
		if res, exit := loopBody(i.visitStatements(n.Body, block)); exit {
			if res.ShouldStop() {
				return res
			}
			break
		}
	}
	return success(settle(nil, n, ctx))
}

// visitTryCatch runs the catch body when the try body fails with a runtime
// error.  Control signals raised inside the try body pass through.
func (i *Interpreter) visitTryCatch(n *ast.TryCatchNode, ctx *runtime.Context) Result {
	res := i.visitBlock(n.Body, ctx)
	if res.Err == nil {
		return res
	}

	catch := ctx.Block()
	if n.ErrorName != "" {
		if _, err := catch.Table.Declare(n.ErrorName, errorValue(res.Err), false); err != nil {
			return i.fail(err, n, ctx)
		}
	}
	return i.visitStatements(n.Catch, catch)
}

// errorValue exposes a caught error as a dictionary.  line is one based,
// as printed in diagnostics.
func errorValue(err *runtime.Error) *runtime.DictionaryValue {
	line := 0
	if err.Start != nil {
		line = err.Start.Line + 1
	}
	d := runtime.NewDictionary()
	d.Set(runtime.NewString("name"), runtime.NewString(err.Kind.String()))
	d.Set(runtime.NewString("details"), runtime.NewString(err.Details))
	d.Set(runtime.NewString("line"), runtime.NewInt(int64(line)))
	return d
}
