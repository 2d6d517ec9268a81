package interpreter

import (
	"errors"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// call invokes a task or constructs a class instance.  node is the call
// site, recorded as the entry position of the new frame.
func (i *Interpreter) call(callee runtime.Value, args []runtime.Value, node ast.Node, ctx *runtime.Context) Result {
	if ctx.Depth() >= i.options.MaxDepth {
		return i.fail(runtime.NewError(runtime.ErrRuntime, "maximum call depth exceeded"), node, ctx)
	}

	switch c := callee.(type) {
	case *runtime.TaskValue:
		return i.callTask(c, args, node, ctx)
	case *runtime.ClassValue:
		return i.instantiate(c, args, node, ctx)
	}
	return i.fail(runtime.NewError(runtime.ErrIllegalOperation, "%s is not callable", runtime.Identifier(callee)), node, ctx)
}

func frameName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

// bindArgs checks args against params and declares them in table.
func (i *Interpreter) bindArgs(owner string, params []ast.TaskArg, args []runtime.Value, table *runtime.Table) *runtime.Error {
	if len(args) != len(params) {
		return runtime.NewError(runtime.ErrCallArguments, "%s expects %d argument(s), got %d", owner, len(params), len(args))
	}
	for idx, param := range params {
		if param.Type != "" && !i.primitives.Matches(param.Type, args[idx]) {
			return runtime.NewError(
				runtime.ErrTypeMismatch, "argument '%s' of %s expects %s, got %s",
				param.Name, owner, param.Type, runtime.Identifier(args[idx]),
			)
		}
		sym := &runtime.Symbol{Name: param.Name, Value: args[idx], Start: param.Start, End: param.End}
		if _, err := table.DeclareOrAssign(sym, true, false); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) callTask(task *runtime.TaskValue, args []runtime.Value, node ast.Node, ctx *runtime.Context) Result {
	name := frameName(task.Name)
	frame := runtime.NewContext(name, ctx, node.Start(), runtime.NewTable(task.Closure))

	if task.Native != nil {
		if !task.Variadic && len(args) != len(task.Args) {
			return i.fail(runtime.NewError(runtime.ErrCallArguments, "%s expects %d argument(s), got %d", name, len(task.Args), len(args)), node, ctx)
		}
		v, err := task.Native(frame, args)
		if err != nil {
			var rerr *runtime.Error
			if errors.As(err, &rerr) {
				return i.fail(rerr, node, frame)
			}
			return i.fail(runtime.NewError(runtime.ErrBridging, "%s: %v", name, err), node, frame)
		}
		return success(settle(v, node, ctx))
	}

	if err := i.bindArgs(name, task.Args, args, frame.Table); err != nil {
		return i.fail(err, node, ctx)
	}

	var v runtime.Value
	res := i.Visit(task.Body, frame)
	switch {
	case res.Err != nil:
		return res
	case res.Returned:
		v = settle(res.ReturnValue, node, ctx)
	case res.Signalled():
		return failure(strayLoopSignal(res, frame))
	case task.ExpressionBody:
		v = res.Value
	default:
		v = settle(nil, node, ctx)
	}

	if task.ReturnType != "" && !i.primitives.Matches(task.ReturnType, v) {
		return i.fail(runtime.NewError(
			runtime.ErrTypeMismatch, "%s must return %s, got %s",
			name, task.ReturnType, runtime.Identifier(v),
		), node, ctx)
	}
	return success(v)
}

// instantiate evaluates the class body in a fresh frame whose table becomes
// the member table of the new instance.
func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value, node ast.Node, ctx *runtime.Context) Result {
	table := runtime.NewTable(class.Closure)
	frame := runtime.NewContext(class.Name, ctx, node.Start(), table)

	if err := i.bindArgs(class.Name, class.Args, args, table); err != nil {
		return i.fail(err, node, ctx)
	}

	instance := runtime.NewInstance(class, table)
	this := &runtime.Symbol{Name: "this", Value: instance, Immutable: true}
	if _, err := table.DeclareOrAssign(this, true, true); err != nil {
		return i.fail(err, node, frame)
	}

	res := i.visitStatements(class.Body, frame)
	switch {
	case res.Err != nil:
		return res
	case res.Returned:
		return i.fail(runtime.NewError(runtime.ErrIllegalOperation, "cannot return from the body of %s", class.Name), res.origin, frame)
	case res.Signalled():
		return failure(strayLoopSignal(res, frame))
	}
	return success(runtime.Locate(instance, node.Start(), node.End(), ctx))
}
