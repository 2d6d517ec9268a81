package interpreter

import (
	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// Result carries the outcome of visiting a node: a value, a runtime error,
// or one of the control signals raised by return, continue, and break.
// Results are passed by value; a visitor that receives one for which
// ShouldStop is true returns it unchanged.
type Result struct {
	Value       runtime.Value
	Err         *runtime.Error
	ReturnValue runtime.Value
	Returned    bool
	Continued   bool
	Broke       bool

	// origin is the statement that raised a control signal.
	origin ast.Node
}

// ShouldStop reports whether evaluation of the enclosing construct must stop.
func (r Result) ShouldStop() bool {
	return r.Err != nil || r.Returned || r.Continued || r.Broke
}

// Signalled reports whether the result carries a control signal.
func (r Result) Signalled() bool {
	return r.Returned || r.Continued || r.Broke
}

func success(v runtime.Value) Result {
	return Result{Value: v}
}

func failure(err *runtime.Error) Result {
	return Result{Err: err}
}

func returned(v runtime.Value, origin ast.Node) Result {
	return Result{ReturnValue: v, Returned: true, origin: origin}
}

func continued(origin ast.Node) Result {
	return Result{Continued: true, origin: origin}
}

func broke(origin ast.Node) Result {
	return Result{Broke: true, origin: origin}
}
