package runtime

import (
	"math"
	"strings"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/lexer"
)

// Operate applies a binary operator.  Every combination not handled below is
// an illegal operation.
func Operate(op lexer.Kind, left, right Value) (Value, *Error) {
	switch op {
	case lexer.Equal:
		return NewBool(Equal(left, right)), nil
	case lexer.NotEqual:
		return NewBool(!Equal(left, right)), nil
	}

	switch l := left.(type) {
	case *ByteValue, *IntValue, *FloatValue:
		return numericOp(op, left, right)
	case *StringValue:
		return stringOp(op, l, right)
	case *BoolValue:
		return boolOp(op, l, right)
	}
	return nil, illegal(op, left, right)
}

// Negate applies unary minus.
func Negate(v Value) (Value, *Error) {
	switch n := v.(type) {
	case *IntValue:
		return NewInt(-n.Val), nil
	case *FloatValue:
		return NewFloat(-n.Val), nil
	case *ByteValue:
		return NewInt(-int64(n.Val)), nil
	}
	return nil, NewError(ErrIllegalOperation, "cannot apply '-' to %s", Identifier(v))
}

// Identity applies unary plus.
func Identity(v Value) (Value, *Error) {
	switch v.(type) {
	case *IntValue, *FloatValue, *ByteValue:
		return v, nil
	}
	return nil, NewError(ErrIllegalOperation, "cannot apply '+' to %s", Identifier(v))
}

// Not applies logical negation.
func Not(v Value) (Value, *Error) {
	if b, ok := IsBool(v); ok {
		return NewBool(!b), nil
	}
	return nil, NewError(ErrIllegalOperation, "cannot apply '!' to %s", Identifier(v))
}

func illegal(op lexer.Kind, left, right Value) *Error {
	return NewError(ErrIllegalOperation, "cannot apply '%s' to %s and %s", op, Identifier(left), Identifier(right))
}

// -----------------------------------------------------------------------------

type number struct {
	kind Kind
	i    int64
	f    float64
}

func toNumber(v Value) (number, bool) {
	switch n := v.(type) {
	case *ByteValue:
		return number{kind: KindByte, i: int64(n.Val), f: float64(n.Val)}, true
	case *IntValue:
		return number{kind: KindInt, i: n.Val, f: float64(n.Val)}, true
	case *FloatValue:
		return number{kind: KindFloat, i: int64(n.Val), f: n.Val}, true
	}
	return number{}, false
}

func isArithmetic(op lexer.Kind) bool {
	switch op {
	case lexer.Plus, lexer.Minus, lexer.Star, lexer.Slash, lexer.Percent:
		return true
	}
	return false
}

// numericOp promotes to float when either operand is a float and otherwise
// stays integral.  Bytes combine with bytes into bytes and with ints into
// ints, but refuse any arithmetic with a float.
func numericOp(op lexer.Kind, left, right Value) (Value, *Error) {
	l, _ := toNumber(left)
	r, ok := toNumber(right)
	if !ok {
		return nil, illegal(op, left, right)
	}

	floating := l.kind == KindFloat || r.kind == KindFloat

	if isArithmetic(op) {
		if floating && (l.kind == KindByte || r.kind == KindByte) {
			return nil, illegal(op, left, right)
		}
		if (op == lexer.Slash || op == lexer.Percent) && r.f == 0 {
			return nil, NewError(ErrIllegalOperation, "division by zero")
		}
		if floating {
			return NewFloat(floatArith(op, l.f, r.f)), nil
		}
		result := intArith(op, l.i, r.i)
		if l.kind == KindByte && r.kind == KindByte {
			return NewByte(byte(result)), nil
		}
		return NewInt(result), nil
	}

	var cmp int
	if floating {
		cmp = compareFloat(l.f, r.f)
	} else {
		cmp = compareInt(l.i, r.i)
	}
	switch op {
	case lexer.Less:
		return NewBool(cmp < 0), nil
	case lexer.LessEqual:
		return NewBool(cmp <= 0), nil
	case lexer.Greater:
		return NewBool(cmp > 0), nil
	case lexer.GreaterEqual:
		return NewBool(cmp >= 0), nil
	}
	return nil, illegal(op, left, right)
}

func floatArith(op lexer.Kind, a, b float64) float64 {
	switch op {
	case lexer.Plus:
		return a + b
	case lexer.Minus:
		return a - b
	case lexer.Star:
		return a * b
	case lexer.Slash:
		return a / b
	default:
		return math.Mod(a, b)
	}
}

func intArith(op lexer.Kind, a, b int64) int64 {
	switch op {
	case lexer.Plus:
		return a + b
	case lexer.Minus:
		return a - b
	case lexer.Star:
		return a * b
	case lexer.Slash:
		return a / b
	default:
		return a % b
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// stringOp concatenates with the display form of any right operand and
// compares against other strings.  The rough comparisons ignore case and are
// false for a non-string right operand.
func stringOp(op lexer.Kind, left *StringValue, right Value) (Value, *Error) {
	if op == lexer.Plus {
		return NewString(left.Val + right.String()), nil
	}

	r, isString := right.(*StringValue)
	switch op {
	case lexer.RoughEqual:
		return NewBool(isString && strings.EqualFold(left.Val, r.Val)), nil
	case lexer.RoughNotEqual:
		return NewBool(isString && !strings.EqualFold(left.Val, r.Val)), nil
	}
	if !isString {
		return nil, illegal(op, left, right)
	}

	cmp := strings.Compare(left.Val, r.Val)
	switch op {
	case lexer.Less:
		return NewBool(cmp < 0), nil
	case lexer.LessEqual:
		return NewBool(cmp <= 0), nil
	case lexer.Greater:
		return NewBool(cmp > 0), nil
	case lexer.GreaterEqual:
		return NewBool(cmp >= 0), nil
	}
	return nil, illegal(op, left, right)
}

func boolOp(op lexer.Kind, left *BoolValue, right Value) (Value, *Error) {
	r, ok := IsBool(right)
	if !ok {
		return nil, illegal(op, left, right)
	}
	switch op {
	case lexer.And:
		return NewBool(left.Val && r), nil
	case lexer.Or:
		return NewBool(left.Val || r), nil
	}
	return nil, illegal(op, left, right)
}

// -----------------------------------------------------------------------------

// Equal reports value equality.  Numbers compare across the numeric family,
// collections and container instances compare structurally, enum members by
// definition and ordinal, and everything else by identity.
func Equal(a, b Value) bool {
	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		if !ok {
			return false
		}
		if an.kind == KindFloat || bn.kind == KindFloat {
			return an.f == bn.f
		}
		return an.i == bn.i
	}

	switch av := a.(type) {
	case *NullValue:
		return IsNull(b)
	case *NothingValue:
		_, ok := b.(*NothingValue)
		return ok
	case *BoolValue:
		bb, ok := IsBool(b)
		return ok && av.Val == bb
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *DictionaryValue:
		bv, ok := b.(*DictionaryValue)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for _, e := range av.Entries {
			other, found := bv.Get(e.Key)
			if !found || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	case *InstanceValue:
		bv, ok := b.(*InstanceValue)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		if !av.Class.Container || av.Class != bv.Class {
			return false
		}
		for _, arg := range av.Class.Args {
			x, _ := av.meta.Table.Lookup(arg.Name)
			y, _ := bv.meta.Table.Lookup(arg.Name)
			if x == nil || y == nil || !Equal(x.Value, y.Value) {
				return false
			}
		}
		return true
	case *EnumValue:
		bv, ok := b.(*EnumValue)
		if !ok {
			return false
		}
		if av.Definition == nil || bv.Definition == nil {
			return av == bv
		}
		return av.Definition == bv.Definition && av.Ordinal == bv.Ordinal
	}
	return a == b
}
