package runtime

import "sort"

// PrimitiveRegistry owns the primitive type markers of one root environment.
type PrimitiveRegistry struct {
	markers map[string]*PrimitiveValue
}

func kindTest(kinds ...Kind) func(Value) bool {
	return func(v Value) bool {
		for _, k := range kinds {
			if v.Kind() == k {
				return true
			}
		}
		return false
	}
}

// NewPrimitiveRegistry creates a registry holding the built-in markers.
func NewPrimitiveRegistry() *PrimitiveRegistry {
	r := &PrimitiveRegistry{markers: make(map[string]*PrimitiveValue)}
	r.Register("any", nil)
	r.Register("null", kindTest(KindNull))
	r.Register("nothing", kindTest(KindNothing))
	r.Register("bool", kindTest(KindBool, KindBoolean))
	r.Register("boolean", kindTest(KindBool, KindBoolean))
	r.Register("byte", kindTest(KindByte))
	r.Register("int", kindTest(KindInt))
	r.Register("float", kindTest(KindFloat))
	r.Register("number", kindTest(KindByte, KindInt, KindFloat))
	r.Register("string", kindTest(KindString))
	r.Register("list", kindTest(KindList))
	r.Register("dict", kindTest(KindDictionary))
	r.Register("task", kindTest(KindTask))
	r.Register("class", kindTest(KindClass, KindContainer))
	r.Register("instance", kindTest(KindInstance, KindContainerInstance))
	r.Register("enum", kindTest(KindEnum))
	return r
}

// Register adds or replaces a marker.
func (r *PrimitiveRegistry) Register(name string, test func(Value) bool) *PrimitiveValue {
	p := &PrimitiveValue{Name: name, Test: test, meta: Meta{Identifier: name}}
	r.markers[name] = p
	return p
}

// Lookup returns the marker registered under name.
func (r *PrimitiveRegistry) Lookup(name string) (*PrimitiveValue, bool) {
	p, ok := r.markers[name]
	return p, ok
}

// Markers returns every marker sorted by name.
func (r *PrimitiveRegistry) Markers() []*PrimitiveValue {
	out := make([]*PrimitiveValue, 0, len(r.markers))
	for _, p := range r.markers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Matches reports whether v conforms to the named type.  Names that are not
// primitive markers match class instances, enum members, and definitions by
// identifier.
func (r *PrimitiveRegistry) Matches(typeName string, v Value) bool {
	if typeName == "" {
		return true
	}
	if p, ok := r.markers[typeName]; ok {
		return p.Matches(v)
	}
	return Identifier(v) == typeName
}
