package stdlib

import (
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// Members supplies the member tables of lists, dictionaries, and strings.
// The tables hold no symbols; a resolver binds each method to its receiver
// on lookup.
type Members struct{}

type method struct {
	args []string
	fn   func(recv runtime.Value, args []runtime.Value) (runtime.Value, error)
}

func (Members) Members(v runtime.Value) (*runtime.Table, bool) {
	var methods map[string]method
	switch v.(type) {
	case *runtime.ListValue:
		methods = listMethods
	case *runtime.DictionaryValue:
		methods = dictMethods
	case *runtime.StringValue:
		methods = stringMethods
	default:
		return nil, false
	}
	t := runtime.NewTable(nil)
	t.Resolver = &boundResolver{recv: v, methods: methods}
	return t, true
}

type boundResolver struct {
	recv    runtime.Value
	methods map[string]method
}

func (r *boundResolver) Get(t *runtime.Table, name string, pred runtime.Predicate, top bool) (runtime.Value, bool, *runtime.Error) {
	if name == "length" {
		n, _ := length(r.recv)
		return runtime.NewInt(int64(n)), true, nil
	}
	m, ok := r.methods[name]
	if !ok {
		return nil, false, nil
	}
	recv := r.recv
	task := runtime.NewNativeTask(name, m.args, func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
		return m.fn(recv, args)
	})
	if pred != nil && !pred(task) {
		return nil, false, nil
	}
	return task, true, nil
}

func (r *boundResolver) Set(t *runtime.Table, sym *runtime.Symbol, declaration, forced bool) (runtime.Value, bool, *runtime.Error) {
	return nil, true, runtime.NewError(runtime.ErrMutability, "members of %s cannot be assigned", runtime.Identifier(r.recv))
}

func wantString(v runtime.Value, what string) (string, *runtime.Error) {
	s, ok := v.(*runtime.StringValue)
	if !ok {
		return "", runtime.NewError(runtime.ErrTypeMismatch, "%s expects a string, got %s", what, runtime.Identifier(v))
	}
	return s.Val, nil
}

var listMethods = map[string]method{
	"append": {[]string{"value"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		l := recv.(*runtime.ListValue)
		l.Elements = append(l.Elements, args[0])
		return l, nil
	}},
	"pop": {nil, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		l := recv.(*runtime.ListValue)
		if len(l.Elements) == 0 {
			return nil, runtime.NewError(runtime.ErrIllegalOperation, "pop from an empty list")
		}
		last := l.Elements[len(l.Elements)-1]
		l.Elements = l.Elements[:len(l.Elements)-1]
		return last, nil
	}},
	"contains": {[]string{"value"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		for _, el := range recv.(*runtime.ListValue).Elements {
			if runtime.Equal(el, args[0]) {
				return runtime.NewBool(true), nil
			}
		}
		return runtime.NewBool(false), nil
	}},
	"join": {[]string{"separator"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		sep, err := wantString(args[0], "join")
		if err != nil {
			return nil, err
		}
		elems := recv.(*runtime.ListValue).Elements
		parts := make([]string, len(elems))
		for idx, el := range elems {
			parts[idx] = el.String()
		}
		return runtime.NewString(strings.Join(parts, sep)), nil
	}},
}

var dictMethods = map[string]method{
	"keys": {nil, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		d := recv.(*runtime.DictionaryValue)
		keys := make([]runtime.Value, len(d.Entries))
		for idx, e := range d.Entries {
			keys[idx] = e.Key
		}
		return runtime.NewList(keys), nil
	}},
	"values": {nil, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		d := recv.(*runtime.DictionaryValue)
		values := make([]runtime.Value, len(d.Entries))
		for idx, e := range d.Entries {
			values[idx] = e.Value
		}
		return runtime.NewList(values), nil
	}},
	"has": {[]string{"key"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		_, ok := recv.(*runtime.DictionaryValue).Get(args[0])
		return runtime.NewBool(ok), nil
	}},
	"set": {[]string{"key", "value"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		recv.(*runtime.DictionaryValue).Set(args[0], args[1])
		return args[1], nil
	}},
	"remove": {[]string{"key"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewBool(recv.(*runtime.DictionaryValue).Delete(args[0])), nil
	}},
}

var stringMethods = map[string]method{
	"upper": {nil, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.ToUpper(recv.(*runtime.StringValue).Val)), nil
	}},
	"lower": {nil, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.ToLower(recv.(*runtime.StringValue).Val)), nil
	}},
	"trim": {nil, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.TrimSpace(recv.(*runtime.StringValue).Val)), nil
	}},
	"contains": {[]string{"substring"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		sub, err := wantString(args[0], "contains")
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(strings.Contains(recv.(*runtime.StringValue).Val, sub)), nil
	}},
	"split": {[]string{"separator"}, func(recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
		sep, err := wantString(args[0], "split")
		if err != nil {
			return nil, err
		}
		parts := strings.Split(recv.(*runtime.StringValue).Val, sep)
		out := make([]runtime.Value, len(parts))
		for idx, p := range parts {
			out[idx] = runtime.NewString(p)
		}
		return runtime.NewList(out), nil
	}},
}
