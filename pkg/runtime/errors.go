package runtime

import (
	"fmt"
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	ErrRuntime ErrorKind = iota
	ErrIllegalOperation
	ErrTypeMismatch
	ErrUndefinedReference
	ErrDualDeclaration
	ErrCallArguments
	ErrMutability
	ErrMemberNotFound
	ErrImportNotFound
	ErrExternalNotFound
	ErrBridging
	ErrNoRule
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIllegalOperation:
		return "Illegal Operation"
	case ErrTypeMismatch:
		return "Type Error"
	case ErrUndefinedReference:
		return "Undefined Reference"
	case ErrDualDeclaration:
		return "Dual Declaration"
	case ErrCallArguments:
		return "Call Argument Error"
	case ErrMutability:
		return "Mutability Error"
	case ErrMemberNotFound:
		return "Member Not Found"
	case ErrImportNotFound:
		return "Import Not Found"
	case ErrExternalNotFound:
		return "External Not Found"
	case ErrBridging:
		return "Bridging Error"
	case ErrNoRule:
		return "No Interpreter Rule"
	default:
		return "Runtime Error"
	}
}

// Error is a runtime failure.  Errors raised below the interpreter (by
// tables or operators) start unlocated; the interpreter attaches the span and
// context of the node being evaluated with At.
type Error struct {
	Kind    ErrorKind
	Details string
	Start   *report.Position
	End     *report.Position
	Context *Context
}

// NewError creates an unlocated runtime error.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Details: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Details
}

// Report converts the error into a positioned diagnostic.
func (e *Error) Report() *report.Error {
	return &report.Error{Name: e.Kind.String(), Details: e.Details, Start: e.Start, End: e.End}
}

// At locates the error if it has no location yet and returns it.
func (e *Error) At(start, end *report.Position, ctx *Context) *Error {
	if e.Start == nil {
		e.Start, e.End = start.Clone(), end.Clone()
	}
	if e.Context == nil {
		e.Context = ctx
	}
	return e
}

// Traceback lists the call frames active at the failure, innermost first.
// Lexical block frames are folded into the call frame that owns them.
func (e *Error) Traceback() []report.Frame {
	var frames []report.Frame
	pos := e.Start
	for c := e.Context; c != nil; c = c.Parent {
		if c.Lexical {
			continue
		}
		frame := report.Frame{Name: c.Name}
		if pos != nil {
			frame.File, frame.Line = pos.Name, pos.Line
		}
		frames = append(frames, frame)
		pos = c.EntryPos
	}
	return frames
}

// Render returns the traceback followed by the located error message.
func (e *Error) Render() string {
	var b strings.Builder
	b.WriteString(report.RenderTraceback(e.Traceback()))
	b.WriteString(e.Report().Render())
	return b.String()
}
