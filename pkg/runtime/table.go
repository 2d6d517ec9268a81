package runtime

import "github.com/SpritzLanguage/Spritz-sub000/pkg/report"

// Symbol is a named binding.  Its name and immutability never change once it
// is stored in a table; only its value slot does.
type Symbol struct {
	Name      string
	Value     Value
	Start     *report.Position
	End       *report.Position
	Immutable bool
}

// Predicate filters lookup candidates, for example to select a task by
// arity.  A nil predicate accepts every candidate.
type Predicate func(Value) bool

// Resolver overrides lookup and binding for a table.  Both hooks report
// handled=false to fall back to the table's own symbols.
type Resolver interface {
	Get(t *Table, name string, pred Predicate, top bool) (v Value, handled bool, err *Error)
	Set(t *Table, sym *Symbol, declaration, forced bool) (v Value, handled bool, err *Error)
}

// Table is one level of the lexical scope chain.  Symbols keep their
// declaration order and names are unique per level.
type Table struct {
	symbols  []*Symbol
	index    map[string]int
	parent   *Table
	Resolver Resolver
}

// NewTable creates a table, optionally nested under a parent.
func NewTable(parent *Table) *Table {
	return &Table{index: make(map[string]int), parent: parent}
}

// Parent exposes the lexical parent (nil at the root).
func (t *Table) Parent() *Table {
	return t.parent
}

// Symbols returns the symbols of this level in declaration order.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Lookup returns the symbol bound to name at this level only, bypassing any
// resolver.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	if i, ok := t.index[name]; ok {
		return t.symbols[i], true
	}
	return nil, false
}

// Find resolves name starting at this level.  Unless top is set, the search
// continues through the parents.  Candidates rejected by pred are skipped.
func (t *Table) Find(name string, pred Predicate, top bool) (Value, *Error) {
	for lvl := t; lvl != nil; lvl = lvl.parent {
		if lvl.Resolver != nil {
			v, handled, err := lvl.Resolver.Get(lvl, name, pred, top)
			if err != nil {
				return nil, err
			}
			if handled {
				return v, nil
			}
		}
		if sym, ok := lvl.Lookup(name); ok && (pred == nil || pred(sym.Value)) {
			return sym.Value, nil
		}
		if top {
			break
		}
	}
	return nil, NewError(ErrUndefinedReference, "'%s' is not defined", name)
}

// DeclareOrAssign binds sym.  A declaration goes into this level and fails if
// the name is already bound here, unless forced, in which case the existing
// binding is overwritten.  An assignment rebinds the nearest existing symbol
// of that name.  Immutable bindings may never be rebound, forced or not.
func (t *Table) DeclareOrAssign(sym *Symbol, declaration, forced bool) (Value, *Error) {
	if declaration {
		if t.Resolver != nil {
			v, handled, err := t.Resolver.Set(t, sym, declaration, forced)
			if err != nil || handled {
				return v, err
			}
		}
		return t.declare(sym, forced)
	}

	for lvl := t; lvl != nil; lvl = lvl.parent {
		if lvl.Resolver != nil {
			v, handled, err := lvl.Resolver.Set(lvl, sym, declaration, forced)
			if err != nil || handled {
				return v, err
			}
		}
		if existing, ok := lvl.Lookup(sym.Name); ok {
			if existing.Immutable {
				return nil, NewError(ErrMutability, "'%s' is immutable", sym.Name)
			}
			existing.Value = sym.Value
			return sym.Value, nil
		}
	}
	return nil, NewError(ErrUndefinedReference, "'%s' is not defined", sym.Name)
}

func (t *Table) declare(sym *Symbol, forced bool) (Value, *Error) {
	if i, ok := t.index[sym.Name]; ok {
		existing := t.symbols[i]
		if !forced {
			return nil, NewError(ErrDualDeclaration, "'%s' is already declared in this scope", sym.Name)
		}
		if existing.Immutable {
			return nil, NewError(ErrMutability, "'%s' is immutable", sym.Name)
		}
		t.symbols[i] = sym
		return sym.Value, nil
	}
	t.index[sym.Name] = len(t.symbols)
	t.symbols = append(t.symbols, sym)
	return sym.Value, nil
}

// Declare is shorthand for declaring a value without a source span.
func (t *Table) Declare(name string, value Value, immutable bool) (Value, *Error) {
	return t.DeclareOrAssign(&Symbol{Name: name, Value: value, Immutable: immutable}, true, false)
}

// Assign is shorthand for rebinding an existing name.
func (t *Table) Assign(name string, value Value) (Value, *Error) {
	return t.DeclareOrAssign(&Symbol{Name: name, Value: value}, false, false)
}
