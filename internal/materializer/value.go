package materializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnsupportedNumber is returned when a number has no JSON representation.
var ErrUnsupportedNumber = errors.New("unsupported number")

// Value is a generic JSON value. The set of implementations is closed:
// Null, Sentinel, Bool, Number, Integer, String, Array and Object.
type Value interface {
	fmt.Stringer
	json.Marshaler
	value()
}

// Null is the JSON null literal.
type Null struct{}

// Sentinel stands in for an unknown example. It encodes as its token string.
type Sentinel string

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number with a fractional representation.
type Number float64

// Integer is a JSON number with an integer value.
type Integer int64

// String is a JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object whose members keep their order.
type Object []Member

func (Null) value()     {}
func (Sentinel) value() {}
func (Bool) value()     {}
func (Number) value()   {}
func (Integer) value()  {}
func (String) value()   {}
func (Array) value()    {}
func (Object) value()   {}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the member keys in order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, m := range o {
		keys = append(keys, m.Key)
	}
	return keys
}

// Encode writes the compact JSON encoding of v to buf.
func Encode(buf *bytes.Buffer, v Value) error {
	switch tv := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(tv)))
	case Integer:
		buf.WriteString(strconv.FormatInt(int64(tv), 10))
	case Number:
		f := float64(tv)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrUnsupportedNumber, f)
		}
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		buf.Write(data)
	case String:
		return encodeString(buf, string(tv))
	case Sentinel:
		return encodeString(buf, string(tv))
	case Array:
		buf.WriteByte('[')
		for i, item := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := Encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := Encode(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

// encodeString writes s as a JSON string without HTML escaping, so the
// sentinel token stays readable.
func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Null) MarshalJSON() ([]byte, error)     { return marshal(v) }
func (v Sentinel) MarshalJSON() ([]byte, error) { return marshal(v) }
func (v Bool) MarshalJSON() ([]byte, error)     { return marshal(v) }
func (v Number) MarshalJSON() ([]byte, error)   { return marshal(v) }
func (v Integer) MarshalJSON() ([]byte, error)  { return marshal(v) }
func (v String) MarshalJSON() ([]byte, error)   { return marshal(v) }
func (v Array) MarshalJSON() ([]byte, error)    { return marshal(v) }
func (v Object) MarshalJSON() ([]byte, error)   { return marshal(v) }

// The String methods give the textual representation used when a value is
// not rendered as JSON. Scalars print bare; strings nested inside arrays and
// objects are quoted.

func (Null) String() string       { return "nil" }
func (v Sentinel) String() string { return string(v) }
func (v Bool) String() string     { return strconv.FormatBool(bool(v)) }
func (v Number) String() string   { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Integer) String() string  { return strconv.FormatInt(int64(v), 10) }
func (v String) String() string   { return string(v) }

func (v Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(nested(item))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (v Object) String() string {
	if len(v) == 0 {
		return "[:]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, m := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(m.Key))
		sb.WriteString(": ")
		sb.WriteString(nested(m.Value))
	}
	sb.WriteByte(']')
	return sb.String()
}

func nested(v Value) string {
	switch tv := v.(type) {
	case nil:
		return "nil"
	case String:
		return strconv.Quote(string(tv))
	case Sentinel:
		return strconv.Quote(string(tv))
	default:
		return v.String()
	}
}
