package runtime

import "testing"

func TestTableDeclareAndFind(t *testing.T) {
	root := NewTable(nil)
	if _, err := root.Declare("x", NewInt(1), false); err != nil {
		t.Fatalf("declare: %v", err)
	}
	child := NewTable(root)
	v, err := child.Find("x", nil, false)
	if err != nil {
		t.Fatalf("find through parent: %v", err)
	}
	if v.(*IntValue).Val != 1 {
		t.Fatalf("expected 1, got %s", v)
	}
	if _, err := child.Find("x", nil, true); err == nil || err.Kind != ErrUndefinedReference {
		t.Fatalf("expected top lookup to miss, got %v", err)
	}
}

func TestTableDualDeclaration(t *testing.T) {
	tbl := NewTable(nil)
	tbl.Declare("x", NewInt(1), false)
	_, err := tbl.Declare("x", NewInt(2), false)
	if err == nil || err.Kind != ErrDualDeclaration {
		t.Fatalf("expected dual declaration, got %v", err)
	}

	// Shadowing in a child level is allowed.
	child := NewTable(tbl)
	if _, err := child.Declare("x", NewInt(3), false); err != nil {
		t.Fatalf("shadowing declare: %v", err)
	}
}

func TestTableAssignWalksParents(t *testing.T) {
	root := NewTable(nil)
	root.Declare("count", NewInt(1), false)
	child := NewTable(root)
	if _, err := child.Assign("count", NewInt(5)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	sym, _ := root.Lookup("count")
	if sym.Value.(*IntValue).Val != 5 {
		t.Fatalf("expected parent binding to change, got %s", sym.Value)
	}
	if _, ok := child.Lookup("count"); ok {
		t.Fatalf("assignment must not create a child binding")
	}

	if _, err := child.Assign("missing", NewInt(1)); err == nil || err.Kind != ErrUndefinedReference {
		t.Fatalf("expected undefined reference, got %v", err)
	}
}

func TestTableImmutability(t *testing.T) {
	tbl := NewTable(nil)
	tbl.Declare("limit", NewInt(10), true)
	if _, err := tbl.Assign("limit", NewInt(11)); err == nil || err.Kind != ErrMutability {
		t.Fatalf("expected mutability error, got %v", err)
	}

	self := &Symbol{Name: "this", Value: NewNull(), Immutable: true}
	if _, err := tbl.DeclareOrAssign(self, true, true); err != nil {
		t.Fatalf("first forced declare: %v", err)
	}
	again := &Symbol{Name: "this", Value: NewInt(1), Immutable: true}
	if _, err := tbl.DeclareOrAssign(again, true, true); err == nil || err.Kind != ErrMutability {
		t.Fatalf("expected second forced declare to fail, got %v", err)
	}
}

func TestTableForcedOverwritesMutable(t *testing.T) {
	tbl := NewTable(nil)
	tbl.Declare("x", NewInt(1), false)
	sym := &Symbol{Name: "x", Value: NewInt(2)}
	if _, err := tbl.DeclareOrAssign(sym, true, true); err != nil {
		t.Fatalf("forced declare: %v", err)
	}
	if got, _ := tbl.Find("x", nil, true); got.(*IntValue).Val != 2 {
		t.Fatalf("expected overwrite, got %s", got)
	}
	if len(tbl.Symbols()) != 1 {
		t.Fatalf("expected names to stay unique per level")
	}
}

func TestTablePredicateSkipsCandidates(t *testing.T) {
	root := NewTable(nil)
	root.Declare("f", NewString("outer"), false)
	child := NewTable(root)
	child.Declare("f", NewInt(1), false)

	isString := func(v Value) bool { return v.Kind() == KindString }
	v, err := child.Find("f", isString, false)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if v.String() != "outer" {
		t.Fatalf("expected predicate to skip inner binding, got %s", v)
	}
}

type recordingResolver struct {
	gets int
	sets int
}

func (r *recordingResolver) Get(t *Table, name string, pred Predicate, top bool) (Value, bool, *Error) {
	r.gets++
	if name == "host" {
		return NewString("bridged"), true, nil
	}
	return nil, false, nil
}

func (r *recordingResolver) Set(t *Table, sym *Symbol, declaration, forced bool) (Value, bool, *Error) {
	r.sets++
	if sym.Name == "host" {
		return nil, false, NewError(ErrBridging, "host fields are read only")
	}
	return nil, false, nil
}

func TestTableResolverHooksRunFirst(t *testing.T) {
	res := &recordingResolver{}
	tbl := NewTable(nil)
	tbl.Resolver = res

	v, err := tbl.Find("host", nil, false)
	if err != nil || v.String() != "bridged" {
		t.Fatalf("expected resolver result, got %v %v", v, err)
	}
	if _, err := tbl.Declare("local", NewInt(1), false); err != nil {
		t.Fatalf("fallback declare: %v", err)
	}
	if v, err := tbl.Find("local", nil, false); err != nil || v.(*IntValue).Val != 1 {
		t.Fatalf("fallback find: %v %v", v, err)
	}
	if _, err := tbl.Assign("host", NewInt(2)); err == nil || err.Kind != ErrBridging {
		t.Fatalf("expected resolver error, got %v", err)
	}
	if res.gets != 2 || res.sets != 2 {
		t.Fatalf("unexpected hook counts gets=%d sets=%d", res.gets, res.sets)
	}
}
