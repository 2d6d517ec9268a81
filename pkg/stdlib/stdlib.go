// Package stdlib provides the built-in tasks and the members of lists,
// dictionaries, and strings.
package stdlib

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/interpreter"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/runtime"
)

// Install declares the built-in tasks in the root table of i, registers the
// host natives, and installs the member provider.  print writes to w.  It
// fails if a built-in name is already bound in the root table.
func Install(i *interpreter.Interpreter, w io.Writer) error {
	table := i.RootContext().Table
	for _, task := range builtins(w) {
		if _, err := table.Declare(task.Name, task, true); err != nil {
			return fmt.Errorf("install %s: %w", task.Name, err)
		}
	}
	for name, fn := range natives {
		i.Natives[name] = fn
	}
	i.Members = Members{}
	return nil
}

func variadic(task *runtime.TaskValue) *runtime.TaskValue {
	task.Variadic = true
	return task
}

func builtins(w io.Writer) []*runtime.TaskValue {
	return []*runtime.TaskValue{
		variadic(runtime.NewNativeTask("print", nil, func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for idx, a := range args {
				parts[idx] = a.String()
			}
			_, err := fmt.Fprintln(w, strings.Join(parts, " "))
			return runtime.NewNothing(), err
		})),
		runtime.NewNativeTask("str", []string{"value"}, func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
			return runtime.NewString(args[0].String()), nil
		}),
		runtime.NewNativeTask("type", []string{"value"}, func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
			return runtime.NewString(runtime.Identifier(args[0])), nil
		}),
		runtime.NewNativeTask("len", []string{"value"}, func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
			n, ok := length(args[0])
			if !ok {
				return nil, runtime.NewError(runtime.ErrTypeMismatch, "%s has no length", runtime.Identifier(args[0]))
			}
			return runtime.NewInt(int64(n)), nil
		}),
		variadic(runtime.NewNativeTask("range", []string{"start", "stop"}, rangeTask)),
		runtime.NewNativeTask("fail", []string{"message"}, func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
			return nil, runtime.NewError(runtime.ErrRuntime, "%s", args[0].String())
		}),
	}
}

// natives back `native task` declarations.
var natives = map[string]runtime.NativeFunc{
	"clock": func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewInt(time.Now().UnixNano() / int64(time.Millisecond)), nil
	},
	"env": func(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
		name, ok := args[0].(*runtime.StringValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrTypeMismatch, "env expects a string, got %s", runtime.Identifier(args[0]))
		}
		if v, ok := os.LookupEnv(name.Val); ok {
			return runtime.NewString(v), nil
		}
		return runtime.NewNull(), nil
	},
}

func length(v runtime.Value) (int, bool) {
	switch x := v.(type) {
	case *runtime.ListValue:
		return len(x.Elements), true
	case *runtime.DictionaryValue:
		return len(x.Entries), true
	case *runtime.StringValue:
		return len([]rune(x.Val)), true
	}
	return 0, false
}

func toInt(v runtime.Value) (int64, bool) {
	switch x := v.(type) {
	case *runtime.IntValue:
		return x.Val, true
	case *runtime.ByteValue:
		return int64(x.Val), true
	}
	return 0, false
}

// rangeTask implements range(stop) and range(start, stop).
func rangeTask(ctx *runtime.Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, runtime.NewError(runtime.ErrCallArguments, "range expects 1 or 2 argument(s), got %d", len(args))
	}
	bounds := make([]int64, len(args))
	for idx, a := range args {
		n, ok := toInt(a)
		if !ok {
			return nil, runtime.NewError(runtime.ErrTypeMismatch, "range expects int bounds, got %s", runtime.Identifier(a))
		}
		bounds[idx] = n
	}
	start, stop := int64(0), bounds[0]
	if len(bounds) == 2 {
		start, stop = bounds[0], bounds[1]
	}

	var elems []runtime.Value
	for n := start; n < stop; n++ {
		elems = append(elems, runtime.NewInt(n))
	}
	return runtime.NewList(elems), nil
}
