package interpreter

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/parser"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// DefaultMaxDepth bounds nested calls when Options.MaxDepth is zero.
const DefaultMaxDepth = 2048

// Options configures an interpreter.
type Options struct {
	// Name labels the root context in tracebacks.
	Name string
	// MaxDepth is the maximum number of nested call frames.
	MaxDepth int
}

// MemberProvider supplies member tables for values that carry none of their
// own, such as lists and strings.
type MemberProvider interface {
	Members(v runtime.Value) (*runtime.Table, bool)
}

// Interpreter is a tree-walking evaluator.  Host code populates Natives,
// Externals, Importer, and Members before evaluation.
type Interpreter struct {
	root       *runtime.Context
	primitives *runtime.PrimitiveRegistry
	options    Options

	Importer  Importer
	Natives   map[string]runtime.NativeFunc
	Externals map[string]runtime.Value
	Members   MemberProvider

	modules  map[string]*runtime.InstanceValue
	loading  map[string]bool
	warnings []*report.Warning
}

// New returns an interpreter with default options.
func New() *Interpreter {
	return NewWithOptions(Options{})
}

// NewWithOptions returns an interpreter whose root table holds the primitive
// type markers.
func NewWithOptions(opts Options) *Interpreter {
	if opts.Name == "" {
		opts.Name = "<program>"
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	i := &Interpreter{
		primitives: runtime.NewPrimitiveRegistry(),
		options:    opts,
		Natives:    make(map[string]runtime.NativeFunc),
		Externals:  make(map[string]runtime.Value),
		modules:    make(map[string]*runtime.InstanceValue),
		loading:    make(map[string]bool),
	}
	i.root = runtime.NewContext(opts.Name, nil, nil, runtime.NewTable(nil))
	// The root table is fresh and marker names are unique, so these
	// declarations cannot fail.
	for _, marker := range i.primitives.Markers() {
		i.root.Table.Declare(marker.Name, marker, true)
	}
	return i
}

// RootContext returns the program-level context.
func (i *Interpreter) RootContext() *runtime.Context {
	return i.root
}

// Primitives returns the primitive marker registry of this interpreter.
func (i *Interpreter) Primitives() *runtime.PrimitiveRegistry {
	return i.primitives
}

// Warnings returns the parser warnings collected from imported modules.
func (i *Interpreter) Warnings() []*report.Warning {
	return i.warnings
}

// Run lexes, parses, and evaluates source in the root context.
func (i *Interpreter) Run(name, source string) (runtime.Value, []*report.Warning, error) {
	res, perr := parser.ParseSource(name, source)
	if perr != nil {
		return nil, nil, perr
	}
	val, err := i.Evaluate(res.Node, i.root)
	return val, res.Warnings, err
}

// Evaluate runs a program in ctx and returns the value of its last
// statement, or the value passed to a top-level return.
func (i *Interpreter) Evaluate(prog *ast.ProgramNode, ctx *runtime.Context) (runtime.Value, error) {
	res := i.visitStatements(prog, ctx)
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Returned {
		return settle(res.ReturnValue, prog, ctx), nil
	}
	if res.Signalled() {
		return nil, strayLoopSignal(res, ctx)
	}
	return res.Value, nil
}

// Visit evaluates node in ctx.  A value that leaves evaluation without a
// span, such as a host result or a table value created outside the source,
// is located at node; values that already carry a span keep it.
func (i *Interpreter) Visit(node ast.Node, ctx *runtime.Context) Result {
	res := i.dispatch(node, ctx)
	if res.Value != nil {
		res.Value = settle(res.Value, node, ctx)
	}
	return res
}

func (i *Interpreter) dispatch(node ast.Node, ctx *runtime.Context) Result {
	switch n := node.(type) {
	case *ast.ProgramNode:
		return i.visitStatements(n, ctx)
	case *ast.NumberNode:
		return i.visitNumber(n, ctx)
	case *ast.StringNode:
		return success(runtime.Locate(runtime.NewString(n.Value), n.Start(), n.End(), ctx))
	case *ast.BooleanNode:
		return success(runtime.Locate(runtime.NewBool(n.Value), n.Start(), n.End(), ctx))
	case *ast.NullNode:
		return success(runtime.Locate(runtime.NewNull(), n.Start(), n.End(), ctx))
	case *ast.ListNode:
		return i.visitList(n, ctx)
	case *ast.DictionaryNode:
		return i.visitDictionary(n, ctx)
	case *ast.BinaryOpNode:
		return i.visitBinaryOp(n, ctx)
	case *ast.UnaryOpNode:
		return i.visitUnaryOp(n, ctx)
	case *ast.VarDeclareNode:
		return i.visitVarDeclare(n, ctx)
	case *ast.VarAssignNode, *ast.VarAccessNode, *ast.CallNode, *ast.IndexNode, *ast.ChainNode:
		return i.visitLink(node, ctx, nil)
	case *ast.TaskDefineNode:
		return i.visitTaskDefine(n, ctx)
	case *ast.ClassDefineNode:
		return i.visitClassDefine(n, ctx)
	case *ast.EnumDefineNode:
		return i.visitEnumDefine(n, ctx)
	case *ast.NativeNode:
		return i.visitNative(n, ctx)
	case *ast.ExternalNode:
		return i.visitExternal(n, ctx)
	case *ast.ImportNode:
		return i.visitImport(n, ctx)
	case *ast.ReturnNode:
		return i.visitReturn(n, ctx)
	case *ast.ContinueNode:
		return continued(n)
	case *ast.BreakNode:
		return broke(n)
	case *ast.ConditionNode:
		return i.visitCondition(n, ctx)
	case *ast.WhileNode:
		return i.visitWhile(n, ctx)
	case *ast.ForNode:
		return i.visitFor(n, ctx)
	case *ast.TryCatchNode:
		return i.visitTryCatch(n, ctx)
	}
	return i.fail(runtime.NewError(runtime.ErrNoRule, "no evaluation rule for %s nodes", node.NodeType()), node, ctx)
}

// fail locates err at node and wraps it in a result.
func (i *Interpreter) fail(err *runtime.Error, node ast.Node, ctx *runtime.Context) Result {
	return failure(err.At(node.Start(), node.End(), ctx))
}

// settle substitutes nothing for a missing value and locates an unlocated
// value at node.
func settle(v runtime.Value, node ast.Node, ctx *runtime.Context) runtime.Value {
	if v == nil {
		v = runtime.NewNothing()
	}
	if v.Meta().Start == nil && node != nil {
		runtime.Locate(v, node.Start(), node.End(), ctx)
	}
	return v
}

// strayLoopSignal builds the error for a break or continue that escaped
// every loop.
func strayLoopSignal(res Result, ctx *runtime.Context) *runtime.Error {
	word := "break"
	if res.Continued {
		word = "continue"
	}
	err := runtime.NewError(runtime.ErrRuntime, "'%s' outside of a loop", word)
	if res.origin != nil {
		err.At(res.origin.Start(), res.origin.End(), ctx)
	}
	return err
}
