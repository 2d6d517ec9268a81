package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/ast"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindNothing
	KindBool
	KindBoolean
	KindByte
	KindInt
	KindFloat
	KindString
	KindList
	KindDictionary
	KindTask
	KindClass
	KindContainer
	KindInstance
	KindContainerInstance
	KindEnum
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNothing:
		return "nothing"
	case KindBool:
		return "bool"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDictionary:
		return "dict"
	case KindTask:
		return "task"
	case KindClass:
		return "class"
	case KindContainer:
		return "container"
	case KindInstance:
		return "instance"
	case KindContainerInstance:
		return "container_instance"
	case KindEnum:
		return "enum"
	case KindPrimitive:
		return "primitive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is implemented by every runtime value.  String returns the display
// form used by printing and string concatenation.
type Value interface {
	Kind() Kind
	Meta() *Meta
	String() string
}

// Meta holds the attributes shared by every value: an identifier, the span
// that produced it, the context that owns it, and an optional member table.
type Meta struct {
	Identifier string
	Start      *report.Position
	End        *report.Position
	Context    *Context
	Table      *Table
}

// Identifier returns the value's identifier, defaulting to its kind name.
func Identifier(v Value) string {
	if id := v.Meta().Identifier; id != "" {
		return id
	}
	return v.Kind().String()
}

// Locate records the span and owning context of v and returns it.
func Locate(v Value, start, end *report.Position, ctx *Context) Value {
	m := v.Meta()
	m.Start, m.End, m.Context = start, end, ctx
	return v
}

// Repr returns the display form used inside collections: strings are quoted.
func Repr(v Value) string {
	if s, ok := v.(*StringValue); ok {
		return strconv.Quote(s.Val)
	}
	return v.String()
}

// -----------------------------------------------------------------------------

type NullValue struct{ meta Meta }

func NewNull() *NullValue { return &NullValue{} }

func (v *NullValue) Kind() Kind     { return KindNull }
func (v *NullValue) Meta() *Meta    { return &v.meta }
func (v *NullValue) String() string { return "null" }

// NothingValue is the result of statements and tasks that produce no value.
type NothingValue struct{ meta Meta }

func NewNothing() *NothingValue { return &NothingValue{} }

func (v *NothingValue) Kind() Kind     { return KindNothing }
func (v *NothingValue) Meta() *Meta    { return &v.meta }
func (v *NothingValue) String() string { return "nothing" }

// BoolValue is a bool, or a legacy boolean when Legacy is set.  Legacy
// booleans come from the host bridge and belong to the same family.
type BoolValue struct {
	meta   Meta
	Val    bool
	Legacy bool
}

func NewBool(b bool) *BoolValue { return &BoolValue{Val: b} }

func NewLegacyBoolean(b bool) *BoolValue { return &BoolValue{Val: b, Legacy: true} }

func (v *BoolValue) Kind() Kind {
	if v.Legacy {
		return KindBoolean
	}
	return KindBool
}
func (v *BoolValue) Meta() *Meta    { return &v.meta }
func (v *BoolValue) String() string { return strconv.FormatBool(v.Val) }

type ByteValue struct {
	meta Meta
	Val  byte
}

func NewByte(b byte) *ByteValue { return &ByteValue{Val: b} }

func (v *ByteValue) Kind() Kind     { return KindByte }
func (v *ByteValue) Meta() *Meta    { return &v.meta }
func (v *ByteValue) String() string { return strconv.Itoa(int(v.Val)) }

type IntValue struct {
	meta Meta
	Val  int64
}

func NewInt(i int64) *IntValue { return &IntValue{Val: i} }

func (v *IntValue) Kind() Kind     { return KindInt }
func (v *IntValue) Meta() *Meta    { return &v.meta }
func (v *IntValue) String() string { return strconv.FormatInt(v.Val, 10) }

type FloatValue struct {
	meta Meta
	Val  float64
}

func NewFloat(f float64) *FloatValue { return &FloatValue{Val: f} }

func (v *FloatValue) Kind() Kind  { return KindFloat }
func (v *FloatValue) Meta() *Meta { return &v.meta }
func (v *FloatValue) String() string {
	if math.IsInf(v.Val, 0) || math.IsNaN(v.Val) {
		return strconv.FormatFloat(v.Val, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v.Val, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

type StringValue struct {
	meta Meta
	Val  string
}

func NewString(s string) *StringValue { return &StringValue{Val: s} }

func (v *StringValue) Kind() Kind     { return KindString }
func (v *StringValue) Meta() *Meta    { return &v.meta }
func (v *StringValue) String() string { return v.Val }

// -----------------------------------------------------------------------------

type ListValue struct {
	meta     Meta
	Elements []Value
}

func NewList(elems []Value) *ListValue { return &ListValue{Elements: elems} }

func (v *ListValue) Kind() Kind  { return KindList }
func (v *ListValue) Meta() *Meta { return &v.meta }
func (v *ListValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, el := range v.Elements {
		parts[i] = Repr(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictEntry is a key/value pair of a dictionary.
type DictEntry struct {
	Key   Value
	Value Value
}

// DictionaryValue keeps its entries in insertion order.  Keys are compared
// with Equal.
type DictionaryValue struct {
	meta    Meta
	Entries []DictEntry
}

func NewDictionary() *DictionaryValue { return &DictionaryValue{} }

func (v *DictionaryValue) Kind() Kind  { return KindDictionary }
func (v *DictionaryValue) Meta() *Meta { return &v.meta }
func (v *DictionaryValue) String() string {
	parts := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		parts[i] = Repr(e.Key) + ": " + Repr(e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value stored under key.
func (v *DictionaryValue) Get(key Value) (Value, bool) {
	for _, e := range v.Entries {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Set stores value under key, replacing any existing entry.
func (v *DictionaryValue) Set(key, value Value) {
	for i, e := range v.Entries {
		if Equal(e.Key, key) {
			v.Entries[i].Value = value
			return
		}
	}
	v.Entries = append(v.Entries, DictEntry{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (v *DictionaryValue) Delete(key Value) bool {
	for i, e := range v.Entries {
		if Equal(e.Key, key) {
			v.Entries = append(v.Entries[:i], v.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// NativeFunc implements a task in Go.  Errors it returns surface as bridging
// errors unless they already are runtime errors.
type NativeFunc func(ctx *Context, args []Value) (Value, error)

// TaskValue is a user defined task closing over the table it was defined in,
// or a native task when Native is set.
type TaskValue struct {
	meta           Meta
	Name           string
	Args           []ast.TaskArg
	ReturnType     string
	Body           ast.Node
	ExpressionBody bool
	Closure        *Table
	Native         NativeFunc
	Variadic       bool
}

func (v *TaskValue) Kind() Kind  { return KindTask }
func (v *TaskValue) Meta() *Meta { return &v.meta }
func (v *TaskValue) String() string {
	prefix := "task"
	if v.Native != nil {
		prefix = "native task"
	}
	if v.Name == "" {
		return "<" + prefix + ">"
	}
	return "<" + prefix + " " + v.Name + ">"
}

// NewNativeTask wraps fn as a task value taking the named arguments.
func NewNativeTask(name string, args []string, fn NativeFunc) *TaskValue {
	taskArgs := make([]ast.TaskArg, len(args))
	for i, a := range args {
		taskArgs[i] = ast.TaskArg{Name: a}
	}
	return &TaskValue{Name: name, Args: taskArgs, Native: fn, meta: Meta{Identifier: name}}
}

// ClassValue is a class or container definition.  Calling it constructs an
// instance.
type ClassValue struct {
	meta      Meta
	Name      string
	Args      []ast.TaskArg
	Body      *ast.ProgramNode
	Closure   *Table
	Container bool
}

func (v *ClassValue) Kind() Kind {
	if v.Container {
		return KindContainer
	}
	return KindClass
}
func (v *ClassValue) Meta() *Meta { return &v.meta }
func (v *ClassValue) String() string {
	if v.Container {
		return "<container " + v.Name + ">"
	}
	return "<class " + v.Name + ">"
}

// InstanceValue is a constructed class or container.  Its members live in
// its meta table.
type InstanceValue struct {
	meta  Meta
	Class *ClassValue
}

// NewInstance creates an instance of class with the given member table.
func NewInstance(class *ClassValue, table *Table) *InstanceValue {
	return &InstanceValue{Class: class, meta: Meta{Identifier: class.Name, Table: table}}
}

func (v *InstanceValue) Kind() Kind {
	if v.Class.Container {
		return KindContainerInstance
	}
	return KindInstance
}
func (v *InstanceValue) Meta() *Meta { return &v.meta }
func (v *InstanceValue) String() string {
	if !v.Class.Container {
		return "<" + v.Class.Name + " instance>"
	}
	parts := make([]string, 0, len(v.Class.Args))
	for _, arg := range v.Class.Args {
		if sym, ok := v.meta.Table.Lookup(arg.Name); ok {
			parts = append(parts, arg.Name+"="+Repr(sym.Value))
		}
	}
	return v.Class.Name + "(" + strings.Join(parts, ", ") + ")"
}

// EnumValue is either an enum definition (Definition is nil) or one of its
// members.
type EnumValue struct {
	meta       Meta
	Name       string
	Members    []string
	Ordinal    int
	Definition *EnumValue
}

// NewEnum builds an enum definition and its members.  The members are
// declared immutably in the definition's table, so a repeated member name is
// a dual declaration.
func NewEnum(name string, members []string) (*EnumValue, *Error) {
	def := &EnumValue{Name: name, Members: members, Ordinal: -1}
	def.meta = Meta{Identifier: name, Table: NewTable(nil)}
	for i, m := range members {
		member := &EnumValue{Name: m, Ordinal: i, Definition: def}
		member.meta = Meta{Identifier: name, Table: NewTable(nil)}
		// fresh table: name and ordinal cannot clash
		member.meta.Table.Declare("name", NewString(m), true)
		member.meta.Table.Declare("ordinal", NewInt(int64(i)), true)
		if _, err := def.meta.Table.Declare(m, member, true); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func (v *EnumValue) Kind() Kind  { return KindEnum }
func (v *EnumValue) Meta() *Meta { return &v.meta }
func (v *EnumValue) String() string {
	if v.Definition == nil {
		return "<enum " + v.Name + ">"
	}
	return v.Definition.Name + "." + v.Name
}

// PrimitiveValue is a type marker such as `int` or `any`.
type PrimitiveValue struct {
	meta Meta
	Name string
	Test func(Value) bool
}

func (v *PrimitiveValue) Kind() Kind     { return KindPrimitive }
func (v *PrimitiveValue) Meta() *Meta    { return &v.meta }
func (v *PrimitiveValue) String() string { return "<primitive " + v.Name + ">" }

// Matches reports whether v satisfies the marker.
func (v *PrimitiveValue) Matches(val Value) bool {
	return v.Name == "any" || (v.Test != nil && v.Test(val))
}

// -----------------------------------------------------------------------------

// IsBool reports whether v belongs to the bool family and returns its truth.
func IsBool(v Value) (bool, bool) {
	if b, ok := v.(*BoolValue); ok {
		return b.Val, true
	}
	return false, false
}

// IsNull reports whether v is null.
func IsNull(v Value) bool {
	_, ok := v.(*NullValue)
	return ok
}
