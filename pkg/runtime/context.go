package runtime

import "github.com/SpritzLanguage/Spritz-sub000/pkg/report"

// Context is an activation record.  Parent follows the call chain, which is
// distinct from the lexical chain reachable through Table.Parent.  EntryPos
// is the call site in the parent context.
type Context struct {
	Name     string
	Parent   *Context
	EntryPos *report.Position
	Table    *Table
	Lexical  bool
	depth    int
}

// NewContext creates a call frame whose table is table.
func NewContext(name string, parent *Context, entry *report.Position, table *Table) *Context {
	c := &Context{Name: name, Parent: parent, EntryPos: entry.Clone(), Table: table}
	if parent != nil {
		c.depth = parent.depth + 1
	}
	return c
}

// Block creates a lexical child context for a block.  It shares the call
// frame of c but gets its own table nested under c's.
func (c *Context) Block() *Context {
	return &Context{
		Name:    c.Name,
		Parent:  c,
		Table:   NewTable(c.Table),
		Lexical: true,
		depth:   c.depth,
	}
}

// Depth is the number of call frames above the root.
func (c *Context) Depth() int {
	return c.depth
}

// Root returns the outermost context.
func (c *Context) Root() *Context {
	for c.Parent != nil {
		c = c.Parent
	}
	return c
}
