package interpreter

import (
	"unicode/utf8"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// visitLink evaluates one link of an access chain.  receiver is the value
// produced by the previous link, or nil at the root of the chain.
func (i *Interpreter) visitLink(node ast.Node, ctx *runtime.Context, receiver runtime.Value) Result {
	if access, ok := ast.Link(node); ok && access.Safe && receiver != nil && runtime.IsNull(receiver) {
		return success(receiver)
	}

	switch n := node.(type) {
	case *ast.VarAccessNode:
		return i.visitVarAccess(n, ctx, receiver)
	case *ast.VarAssignNode:
		return i.visitVarAssign(n, ctx, receiver)
	case *ast.CallNode:
		return i.visitCall(n, ctx, receiver)
	case *ast.IndexNode:
		return i.visitIndex(n, ctx, receiver)
	case *ast.ChainNode:
		root := i.Visit(n.Root, ctx)
		if root.ShouldStop() {
			return root
		}
		return i.follow(n.Access, root.Value, ctx)
	}
	if receiver != nil {
		return i.fail(runtime.NewError(runtime.ErrNoRule, "%s nodes cannot follow a member access", node.NodeType()), node, ctx)
	}
	return i.Visit(node, ctx)
}

// follow continues a chain into the next link, if there is one.
func (i *Interpreter) follow(access ast.Access, v runtime.Value, ctx *runtime.Context) Result {
	if access.Next == nil {
		return success(v)
	}
	return i.visitLink(access.Next, ctx, v)
}

// visitCall resolves the callee against the receiver, evaluates the
// arguments in ctx, and invokes it.  A named callee is first looked up among
// candidates accepting the given number of arguments.
func (i *Interpreter) visitCall(n *ast.CallNode, ctx *runtime.Context, receiver runtime.Value) Result {
	var callee runtime.Value
	if name, ok := n.Callee.(*ast.VarAccessNode); ok && name.Next == nil {
		v, err := i.lookup(name.Name, acceptsArity(len(n.Args)), ctx, receiver)
		if err != nil {
			v, err = i.lookup(name.Name, nil, ctx, receiver)
		}
		if err != nil {
			return i.fail(err, name, ctx)
		}
		callee = v
	} else {
		res := i.visitLink(n.Callee, ctx, receiver)
		if res.ShouldStop() {
			return res
		}
		callee = res.Value
	}

	args := make([]runtime.Value, 0, len(n.Args))
	for _, arg := range n.Args {
		res := i.Visit(arg, ctx)
		if res.ShouldStop() {
			return res
		}
		args = append(args, res.Value)
	}

	res := i.call(callee, args, n, ctx)
	if res.ShouldStop() {
		return res
	}
	return i.follow(n.Access, res.Value, ctx)
}

func acceptsArity(n int) runtime.Predicate {
	return func(v runtime.Value) bool {
		switch c := v.(type) {
		case *runtime.TaskValue:
			return c.Variadic || len(c.Args) == n
		case *runtime.ClassValue:
			return len(c.Args) == n
		}
		return true
	}
}

func (i *Interpreter) visitIndex(n *ast.IndexNode, ctx *runtime.Context, receiver runtime.Value) Result {
	target := i.visitLink(n.Target, ctx, receiver)
	if target.ShouldStop() {
		return target
	}
	index := i.Visit(n.Index, ctx)
	if index.ShouldStop() {
		return index
	}

	v, err := indexValue(target.Value, index.Value)
	if err != nil {
		return i.fail(err, n, ctx)
	}
	return i.follow(n.Access, v, ctx)
}

func indexValue(target, index runtime.Value) (runtime.Value, *runtime.Error) {
	switch t := target.(type) {
	case *runtime.ListValue:
		pos, err := position(index, len(t.Elements))
		if err != nil {
			return nil, err
		}
		return t.Elements[pos], nil
	case *runtime.StringValue:
		runes := []rune(t.Val)
		pos, err := position(index, len(runes))
		if err != nil {
			return nil, err
		}
		return runtime.NewString(string(runes[pos])), nil
	case *runtime.DictionaryValue:
		if v, ok := t.Get(index); ok {
			return v, nil
		}
		return nil, runtime.NewError(runtime.ErrMemberNotFound, "key %s not found", runtime.Repr(index))
	}
	return nil, runtime.NewError(runtime.ErrIllegalOperation, "%s cannot be indexed", runtime.Identifier(target))
}

// position converts an int or byte index into a slice offset.  Negative
// indexes count from the end.
func position(index runtime.Value, length int) (int, *runtime.Error) {
	var pos int
	switch x := index.(type) {
	case *runtime.IntValue:
		pos = int(x.Val)
	case *runtime.ByteValue:
		pos = int(x.Val)
	default:
		return 0, runtime.NewError(runtime.ErrTypeMismatch, "index must be int, got %s", runtime.Identifier(index))
	}
	if pos < 0 {
		pos += length
	}
	if pos < 0 || pos >= length {
		return 0, runtime.NewError(runtime.ErrIllegalOperation, "index %s out of range for length %d", index, length)
	}
	return pos, nil
}

// memberTable returns the table holding the members of v.
func (i *Interpreter) memberTable(v runtime.Value) (*runtime.Table, *runtime.Error) {
	if t := v.Meta().Table; t != nil {
		return t, nil
	}
	if i.Members != nil {
		if t, ok := i.Members.Members(v); ok {
			return t, nil
		}
	}
	return nil, runtime.NewError(runtime.ErrMemberNotFound, "%s has no members", runtime.Identifier(v))
}

// characters splits s into one string value per rune.
func characters(s string) []runtime.Value {
	out := make([]runtime.Value, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, runtime.NewString(string(r)))
	}
	return out
}
