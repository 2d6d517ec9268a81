package interpreter

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// define binds a definition immutably in the current scope.  Anonymous
// definitions are not bound.
func (i *Interpreter) define(name string, v runtime.Value, node ast.Node, ctx *runtime.Context) Result {
	v = runtime.Locate(v, node.Start(), node.End(), ctx)
	if name == "" {
		return success(v)
	}
	sym := &runtime.Symbol{Name: name, Value: v, Start: node.Start(), End: node.End(), Immutable: true}
	if _, err := ctx.Table.DeclareOrAssign(sym, true, false); err != nil {
		return i.fail(err, node, ctx)
	}
	return success(v)
}

func (i *Interpreter) visitTaskDefine(n *ast.TaskDefineNode, ctx *runtime.Context) Result {
	task := &runtime.TaskValue{
		Name:           n.Name,
		Args:           n.Args,
		ReturnType:     n.ReturnType,
		Body:           n.Body,
		ExpressionBody: n.ExpressionBody,
		Closure:        ctx.Table,
	}
	return i.define(n.Name, task, n, ctx)
}

func (i *Interpreter) visitClassDefine(n *ast.ClassDefineNode, ctx *runtime.Context) Result {
	class := &runtime.ClassValue{
		Name:      n.Name,
		Args:      n.Args,
		Body:      n.Body,
		Closure:   ctx.Table,
		Container: n.Container,
	}
	return i.define(n.Name, class, n, ctx)
}

func (i *Interpreter) visitEnumDefine(n *ast.EnumDefineNode, ctx *runtime.Context) Result {
	enum, err := runtime.NewEnum(n.Name, n.Members)
	if err != nil {
		return i.fail(err, n, ctx)
	}
	for _, name := range enum.Members {
		if sym, ok := enum.Meta().Table.Lookup(name); ok {
			runtime.Locate(sym.Value, n.Start(), n.End(), ctx)
		}
	}
	return i.define(n.Name, enum, n, ctx)
}

// visitNative binds a task declared in source to its Go implementation.
func (i *Interpreter) visitNative(n *ast.NativeNode, ctx *runtime.Context) Result {
	fn, ok := i.Natives[n.Name]
	if !ok {
		return i.fail(runtime.NewError(runtime.ErrMemberNotFound, "native task '%s' is not provided by the host", n.Name), n, ctx)
	}

	task := &runtime.TaskValue{
		Name:       n.Name,
		Args:       n.Args,
		ReturnType: n.ReturnType,
		Closure:    ctx.Table,
	}
	task.Native = i.checkedNative(task, fn)
	return i.define(n.Name, task, n, ctx)
}

// checkedNative applies the declared argument and return types of a native
// declaration around fn.
func (i *Interpreter) checkedNative(task *runtime.TaskValue, fn runtime.NativeFunc) runtime.NativeFunc {
	return func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
		if err := i.bindArgs(task.Name, task.Args, args, ctx.Table); err != nil {
			return nil, err
		}
		v, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		if v == nil {
			v = runtime.NewNothing()
		}
		if task.ReturnType != "" && !i.primitives.Matches(task.ReturnType, v) {
			return nil, runtime.NewError(
				runtime.ErrTypeMismatch, "%s must return %s, got %s",
				task.Name, task.ReturnType, runtime.Identifier(v),
			)
		}
		return v, nil
	}
}

func (i *Interpreter) visitExternal(n *ast.ExternalNode, ctx *runtime.Context) Result {
	v, ok := i.Externals[n.Name]
	if !ok {
		return i.fail(runtime.NewError(runtime.ErrExternalNotFound, "external '%s' is not provided by the host", n.Name), n, ctx)
	}
	v = settle(v, n, ctx)
	sym := &runtime.Symbol{Name: n.Name, Value: v, Start: n.Start(), End: n.End(), Immutable: true}
	if _, err := ctx.Table.DeclareOrAssign(sym, true, false); err != nil {
		return i.fail(err, n, ctx)
	}
	return success(v)
}

// warn records a diagnostic produced while loading a module.
func (i *Interpreter) warn(ws ...*report.Warning) {
	i.warnings = append(i.warnings, ws...)
}
