package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/respexample/internal/errors"
	"github.com/mcncl/respexample/internal/example"
	"github.com/mcncl/respexample/internal/materializer"
	"gopkg.in/yaml.v3"
)

// Format selects the structured encoding used for object examples.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// ParseFormat validates and normalizes a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q: use json or yaml", errors.ErrUnknownFormat, s)
	}
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithFormat sets the structured encoding.
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		if format != "" {
			f.format = format
		}
	}
}

// WithIndent sets the indentation width. Zero gives compact JSON.
func WithIndent(spaces int) Option {
	return func(f *Formatter) {
		if spaces >= 0 {
			f.indent = spaces
		}
	}
}

// WithUnknownToken sets the text used for unknown examples.
func WithUnknownToken(token string) Option {
	return func(f *Formatter) {
		f.materializer = materializer.NewMaterializer(token)
	}
}

// Formatter renders example trees as text.
type Formatter struct {
	materializer *materializer.Materializer
	format       Format
	indent       int
}

// NewFormatter creates a Formatter that renders pretty JSON by default.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		materializer: materializer.NewMaterializer(materializer.DefaultUnknownToken),
		format:       FormatJSON,
		indent:       DefaultIndent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Render returns the text for tree. Object roots are encoded in the
// configured format; any other root, or an object that cannot be encoded,
// is returned in its textual form. Render never fails.
func (f *Formatter) Render(tree example.Example) string {
	if tree == nil {
		tree = example.Unknown{}
	}

	value := f.materializer.Materialize(tree)
	if tree.Kind() != example.KindObject {
		return value.String()
	}

	data, err := f.Encode(value)
	if err != nil {
		return value.String()
	}
	return string(data)
}

// Encode encodes value in the configured format.
func (f *Formatter) Encode(value materializer.Value) ([]byte, error) {
	switch f.format {
	case FormatYAML:
		return f.encodeYAML(value)
	default:
		return f.encodeJSON(value)
	}
}

func (f *Formatter) encodeJSON(value materializer.Value) ([]byte, error) {
	var compact bytes.Buffer
	if err := materializer.Encode(&compact, value); err != nil {
		return nil, err
	}
	if f.indent == 0 {
		return compact.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", strings.Repeat(" ", f.indent)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (f *Formatter) encodeYAML(value materializer.Value) ([]byte, error) {
	node, err := yamlNode(value)
	if err != nil {
		return nil, err
	}

	indent := f.indent
	if indent < 2 {
		indent = 2
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(indent)
	if err := encoder.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// yamlNode builds a yaml.Node tree that keeps object member order.
func yamlNode(value materializer.Value) (*yaml.Node, error) {
	switch v := value.(type) {
	case nil, materializer.Null:
		return scalar("!!null", "null"), nil
	case materializer.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(v))), nil
	case materializer.Integer:
		return scalar("!!int", strconv.FormatInt(int64(v), 10)), nil
	case materializer.Number:
		n := float64(v)
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %v", materializer.ErrUnsupportedNumber, n)
		}
		return scalar("!!float", strconv.FormatFloat(n, 'g', -1, 64)), nil
	case materializer.String:
		return scalar("!!str", string(v)), nil
	case materializer.Sentinel:
		return scalar("!!str", string(v)), nil
	case materializer.Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case materializer.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v {
			child, err := yamlNode(m.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalar("!!str", m.Key), child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported value %T", value)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
