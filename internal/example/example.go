// Package example defines the example tree produced by synthesizing a schema.
package example

// Kind identifies the variant of an Example.
type Kind int

const (
	KindUnknown Kind = iota
	KindObject
	KindArray
	KindBoolean
	KindString
	KindNumber
	KindInteger
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// Example is a synthesized placeholder value. The set of implementations is
// closed: Object, Array, Boolean, String, Number, Integer and Unknown.
type Example interface {
	Kind() Kind
	sealed()
}

// Object is an example object. Keys keep insertion order.
type Object struct {
	keys   []string
	values map[string]Example
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Example
}

// NewObject creates an object from members in order. A repeated key
// replaces the earlier value but keeps the earlier position.
func NewObject(members ...Member) *Object {
	o := &Object{values: make(map[string]Example, len(members))}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Set assigns a value to key. Only the synthesizer calls this while building.
func (o *Object) Set(key string, value Example) {
	if o.values == nil {
		o.values = make(map[string]Example)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Keys returns the object keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Example, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.keys) }

// Members returns the members in insertion order.
func (o *Object) Members() []Member {
	out := make([]Member, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, Member{Key: k, Value: o.values[k]})
	}
	return out
}

// Array is an ordered list of examples.
type Array []Example

// Boolean is a boolean leaf.
type Boolean bool

// String is a string leaf.
type String string

// Number is a floating point leaf.
type Number float64

// Integer is an integer leaf.
type Integer int64

// Unknown marks a schema node without usable type information.
type Unknown struct{}

func (*Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind   { return KindArray }
func (Boolean) Kind() Kind { return KindBoolean }
func (String) Kind() Kind  { return KindString }
func (Number) Kind() Kind  { return KindNumber }
func (Integer) Kind() Kind { return KindInteger }
func (Unknown) Kind() Kind { return KindUnknown }

func (*Object) sealed() {}
func (Array) sealed()   {}
func (Boolean) sealed() {}
func (String) sealed()  {}
func (Number) sealed()  {}
func (Integer) sealed() {}
func (Unknown) sealed() {}

// Equal reports whether two example trees have the same shape and values.
func Equal(a, b Example) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Object:
		bv := b.(*Object)
		if av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k {
				return false
			}
			if !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
