package interpreter

import (
	"errors"
	"path"
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/parser"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// ErrImportNotFound is returned (possibly wrapped) by an Importer that has
// no module for a path.
var ErrImportNotFound = errors.New("import not found")

// Source is a resolved module.  Key identifies the module across imports,
// Name labels it in diagnostics.
type Source struct {
	Key  string
	Name string
	Text string
}

// Importer locates the source of an imported module.  path holds the dotted
// segments of the import, or the single quoted path.
type Importer interface {
	Import(path []string) (*Source, error)
}

// moduleName returns the binding name for an import without an alias.
func moduleName(segments []string) string {
	last := path.Base(segments[len(segments)-1])
	return strings.TrimSuffix(last, path.Ext(last))
}

func (i *Interpreter) visitImport(n *ast.ImportNode, ctx *runtime.Context) Result {
	display := strings.Join(n.Path, ".")
	if i.Importer == nil {
		return i.fail(runtime.NewError(runtime.ErrImportNotFound, "cannot import '%s': no importer configured", display), n, ctx)
	}

	src, err := i.Importer.Import(n.Path)
	if err != nil {
		if errors.Is(err, ErrImportNotFound) {
			return i.fail(runtime.NewError(runtime.ErrImportNotFound, "cannot find module '%s'", display), n, ctx)
		}
		return i.fail(runtime.NewError(runtime.ErrBridging, "importing '%s': %v", display, err), n, ctx)
	}

	module, ok := i.modules[src.Key]
	if !ok {
		if i.loading[src.Key] {
			return i.fail(runtime.NewError(runtime.ErrRuntime, "import cycle through '%s'", display), n, ctx)
		}
		i.loading[src.Key] = true
		res := i.load(src, n, ctx)
		delete(i.loading, src.Key)
		if res.ShouldStop() {
			return res
		}
		module = res.Value.(*runtime.InstanceValue)
		i.modules[src.Key] = module
	}

	name := n.Alias
	if name == "" {
		name = moduleName(n.Path)
	}
	sym := &runtime.Symbol{Name: name, Value: module, Start: n.Start(), End: n.End(), Immutable: true}
	if _, err := ctx.Table.DeclareOrAssign(sym, true, false); err != nil {
		return i.fail(err, n, ctx)
	}
	return success(module)
}

// load parses and evaluates a module in a program-level context and wraps
// its top-level bindings in a container instance.
func (i *Interpreter) load(src *Source, n *ast.ImportNode, ctx *runtime.Context) Result {
	parsed, perr := parser.ParseSource(src.Name, src.Text)
	if perr != nil {
		err := runtime.NewError(runtime.ErrRuntime, "%s: %s", perr.Name, perr.Details)
		err.Start, err.End = perr.Start, perr.End
		return i.fail(err, n, ctx)
	}
	i.warn(parsed.Warnings...)

	name := moduleName(n.Path)
	table := runtime.NewTable(i.root.Table)
	modCtx := runtime.NewContext(name, ctx, n.Start(), table)

	res := i.visitStatements(parsed.Node, modCtx)
	if res.Err != nil {
		return res
	}
	if res.Signalled() && !res.Returned {
		return failure(strayLoopSignal(res, modCtx))
	}

	class := &runtime.ClassValue{Name: name, Closure: i.root.Table, Body: parsed.Node, Container: true}
	for _, sym := range table.Symbols() {
		class.Args = append(class.Args, ast.TaskArg{Name: sym.Name, Start: sym.Start, End: sym.End})
	}
	return success(runtime.Locate(runtime.NewInstance(class, table), n.Start(), n.End(), ctx))
}
