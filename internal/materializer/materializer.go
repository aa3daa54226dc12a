// Package materializer converts example trees into generic JSON values.
package materializer

import (
	"github.com/mcncl/respexample/internal/example"
)

// DefaultUnknownToken is what example.Unknown materializes to. It is chosen
// so it cannot be mistaken for a placeholder string.
const DefaultUnknownToken = "<?>"

// Materializer converts example trees into Values.
type Materializer struct {
	unknownToken string
}

// NewMaterializer creates a materializer that maps unknown examples to token.
// An empty token selects DefaultUnknownToken.
func NewMaterializer(token string) *Materializer {
	if token == "" {
		token = DefaultUnknownToken
	}
	return &Materializer{unknownToken: token}
}

// Materialize converts tree using the default unknown token.
func Materialize(tree example.Example) Value {
	return NewMaterializer(DefaultUnknownToken).Materialize(tree)
}

// Materialize converts tree into a freshly allocated Value.
func (m *Materializer) Materialize(tree example.Example) Value {
	switch ex := tree.(type) {
	case example.Boolean:
		return Bool(ex)
	case example.String:
		return String(ex)
	case example.Number:
		return Number(ex)
	case example.Integer:
		return Integer(ex)
	case example.Array:
		out := make(Array, 0, len(ex))
		for _, item := range ex {
			out = append(out, m.Materialize(item))
		}
		return out
	case *example.Object:
		if ex == nil {
			return Sentinel(m.unknownToken)
		}
		out := make(Object, 0, ex.Len())
		for _, member := range ex.Members() {
			out = append(out, Member{Key: member.Key, Value: m.Materialize(member.Value)})
		}
		return out
	default:
		return Sentinel(m.unknownToken)
	}
}
