package report

import "unicode/utf8"

// Position is a cursor into a named source text.  Index is a byte offset into
// Source; Line and Column count lines and runes.  All three are zero indexed
// and shifted by one only when displayed.
type Position struct {
	Name   string
	Source string
	Index  int
	Line   int
	Column int
}

// NewPosition returns a cursor at the start of the given source.
func NewPosition(name, source string) *Position {
	return &Position{Name: name, Source: source}
}

// Advance moves the cursor past r, taken to be validly encoded.
func (p *Position) Advance(r rune) {
	width := utf8.RuneLen(r)
	if width < 0 {
		width = 1
	}
	p.Step(r, width)
}

// Step moves the cursor past r, which occupies width bytes of the source.
func (p *Position) Step(r rune, width int) {
	p.Index += width
	if r == '\n' {
		p.Line++
		p.Column = 0
	} else {
		p.Column++
	}
}

// Clone returns an independent copy of the position.  Spans always hold
// clones so that advancing the lexer cursor never rewrites a recorded span.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Text returns the source text between p and end.
func (p *Position) Text(end *Position) string {
	if p == nil || end == nil || p.Index > end.Index || end.Index > len(p.Source) {
		return ""
	}
	return p.Source[p.Index:end.Index]
}
