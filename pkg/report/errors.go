package report

import (
	"fmt"
	"strings"
)

// Enumeration of the error names raised before evaluation begins.
const (
	IllegalCharacter = "Illegal Character"
	IllegalNumber    = "Illegal Number"
	InvalidSyntax    = "Invalid Syntax"
)

// Error is a positioned diagnostic.  Lexing and parsing report it directly;
// runtime errors embed it.
type Error struct {
	Name    string
	Details string
	Start   *Position
	End     *Position
}

// NewError builds an error spanning start to end.  The positions are cloned.
func NewError(name string, start, end *Position, format string, args ...interface{}) *Error {
	return &Error{
		Name:    name,
		Details: fmt.Sprintf(format, args...),
		Start:   start.Clone(),
		End:     end.Clone(),
	}
}

func (e *Error) Error() string {
	return e.Name + ": " + e.Details
}

// Render returns the error message followed by its location and a source
// excerpt with the offending text underlined.
func (e *Error) Render() string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteByte('\n')
	writeLocation(&b, e.Start, e.End)
	return b.String()
}

// Warning is a non-fatal style or deprecation notice.
type Warning struct {
	Name    string
	Details string
	Start   *Position
	End     *Position
}

// NewWarning builds a warning spanning start to end.
func NewWarning(name string, start, end *Position, format string, args ...interface{}) *Warning {
	return &Warning{
		Name:    name,
		Details: fmt.Sprintf(format, args...),
		Start:   start.Clone(),
		End:     end.Clone(),
	}
}

func (w *Warning) String() string {
	return "Warning: " + w.Name + ": " + w.Details
}

// Render mirrors Error.Render for warnings.
func (w *Warning) Render() string {
	var b strings.Builder
	b.WriteString(w.String())
	b.WriteByte('\n')
	writeLocation(&b, w.Start, w.End)
	return b.String()
}

// Frame is one entry of a runtime traceback.
type Frame struct {
	Name string
	File string
	Line int
}

// RenderTraceback formats frames given innermost first.  The output lists
// the most recent call last.
func RenderTraceback(frames []Frame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		fmt.Fprintf(&b, "  File %s, line %d, in %s\n", f.File, f.Line+1, f.Name)
	}
	return b.String()
}

func writeLocation(b *strings.Builder, start, end *Position) {
	if start == nil {
		return
	}
	fmt.Fprintf(b, "File %s, line %d\n", start.Name, start.Line+1)
	if start.Source != "" {
		b.WriteString(SourceExcerpt(start, end))
	}
}
