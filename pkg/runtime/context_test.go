package runtime

import (
	"testing"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

func at(line int) *report.Position {
	return &report.Position{Name: "main.spz", Line: line}
}

func TestTracebackSkipsLexicalFrames(t *testing.T) {
	root := NewContext("<program>", nil, nil, NewTable(nil))
	outer := NewContext("outer", root, at(10), NewTable(root.Table))
	block := outer.Block()
	inner := NewContext("inner", block, at(5), NewTable(root.Table))

	err := NewError(ErrRuntime, "boom").At(at(2), at(2), inner)
	frames := err.Traceback()
	if len(frames) != 3 {
		t.Fatalf("expected three frames, got %+v", frames)
	}
	want := []report.Frame{
		{Name: "inner", File: "main.spz", Line: 2},
		{Name: "outer", File: "main.spz", Line: 5},
		{Name: "<program>", File: "main.spz", Line: 10},
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Fatalf("frame %d: got %+v, want %+v", i, frames[i], want[i])
		}
	}
	if inner.Depth() != 2 || block.Depth() != 1 {
		t.Fatalf("unexpected depths inner=%d block=%d", inner.Depth(), block.Depth())
	}
}

func TestBlockContextNestsTable(t *testing.T) {
	root := NewContext("<program>", nil, nil, NewTable(nil))
	block := root.Block()
	if block.Table.Parent() != root.Table || !block.Lexical || block.Parent != root {
		t.Fatalf("unexpected block context %+v", block)
	}
	if block.Root() != root {
		t.Fatalf("expected root lookup to reach the program context")
	}
}

func TestErrorAtKeepsFirstLocation(t *testing.T) {
	err := NewError(ErrTypeMismatch, "x").At(at(1), at(1), nil)
	err.At(at(9), at(9), nil)
	if err.Start.Line != 1 {
		t.Fatalf("expected first location to stick, got line %d", err.Start.Line)
	}
}
