// Package synthesizer builds example trees from resolved schema type nodes.
//
// Synthesis never fails: every schema shape maps to an example, falling back
// to example.Unknown when no type information is available. Problems such as
// tuple arrays or multi-member groups are reported to a DiagnosticSink and
// synthesis continues with the first member.
package synthesizer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcncl/respexample/internal/example"
	"github.com/mcncl/respexample/internal/models"
)

// DefaultMaxDepth bounds how deeply nested schemas are followed.
const DefaultMaxDepth = 64

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithPlaceholders sets the placeholder policy.
func WithPlaceholders(p Placeholders) Option {
	return func(s *Synthesizer) {
		if p != nil {
			s.placeholders = p
		}
	}
}

// WithArrayCount uses fixed placeholders with the given array count.
func WithArrayCount(count int) Option {
	return WithPlaceholders(NewFixedPlaceholders(count))
}

// WithRandomPlaceholders switches to randomized values drawn from seed.
func WithRandomPlaceholders(seed int64) Option {
	return WithPlaceholders(NewRandomPlaceholders(seed))
}

// WithMaxDepth sets the nesting limit. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(s *Synthesizer) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithDiagnostics sets where diagnostics are reported.
func WithDiagnostics(sink DiagnosticSink) Option {
	return func(s *Synthesizer) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// Synthesizer converts schema type nodes into example trees. A Synthesizer
// holds no per-call state and may be shared between goroutines.
type Synthesizer struct {
	placeholders Placeholders
	maxDepth     int
	sink         DiagnosticSink
}

// NewSynthesizer creates a synthesizer. Without options it uses fixed
// placeholders and logs diagnostics to slog.Default().
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		placeholders: NewFixedPlaceholders(DefaultArrayCount),
		maxDepth:     DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = LogSink(slog.Default())
	}
	return s
}

// Synthesize returns an example for schema. propertyName is the name of the
// property the schema belongs to, or "" when there is none.
func (s *Synthesizer) Synthesize(schema *models.SchemaType, propertyName string) example.Example {
	w := &walk{
		Synthesizer: s,
		active:      make(map[*models.SchemaType]struct{}),
		reported:    make(map[reportKey]struct{}),
	}
	return w.synthesize(schema, propertyName, "", 0)
}

// Synthesize runs a default synthesizer and returns the example along with
// the diagnostics it produced.
func Synthesize(schema *models.SchemaType, propertyName string) (example.Example, []Diagnostic) {
	var collector Collector
	ex := NewSynthesizer(WithDiagnostics(&collector)).Synthesize(schema, propertyName)
	return ex, collector.Diagnostics()
}

// walk carries the state of one Synthesize call.
type walk struct {
	*Synthesizer
	// active holds reference targets currently being synthesized.
	active map[*models.SchemaType]struct{}
	// reported dedupes diagnostics repeated for each array element.
	reported map[reportKey]struct{}
}

func (w *walk) synthesize(schema *models.SchemaType, propertyName, path string, depth int) example.Example {
	if schema == nil {
		return example.Unknown{}
	}
	if depth > w.maxDepth {
		w.report(DiagnosticDepthLimit, schema, path, schema.Kind,
			fmt.Sprintf("schema nesting exceeds %d levels, using unknown", w.maxDepth))
		return example.Unknown{}
	}

	switch schema.Kind {
	case models.SchemaBoolean:
		return example.Boolean(w.placeholders.Boolean())
	case models.SchemaString:
		return example.String(w.placeholders.String(propertyName))
	case models.SchemaNumber:
		return example.Number(w.placeholders.Number())
	case models.SchemaInteger:
		return example.Integer(w.placeholders.Integer())
	case models.SchemaArray:
		return w.synthesizeArray(schema.Items, path, depth)
	case models.SchemaObject:
		return w.synthesizeObject(schema.Properties, path, depth)
	case models.SchemaReference:
		return w.synthesizeReference(schema.Reference, propertyName, path, depth)
	case models.SchemaGroup:
		return w.synthesizeGroup(schema.Group, propertyName, path, depth)
	default:
		return example.Unknown{}
	}
}

func (w *walk) synthesizeArray(items *models.ArrayItems, path string, depth int) example.Example {
	if items == nil {
		return example.Unknown{}
	}

	item := items.Single
	if item == nil {
		first, ok := w.first(items, items.Multiple, "array item", path)
		if !ok {
			return example.Unknown{}
		}
		item = first
	}

	count := w.placeholders.ArrayCount() + 1
	out := make(example.Array, 0, count)
	for range count {
		out = append(out, w.synthesize(item, "", path+"/[]", depth+1))
	}
	return out
}

func (w *walk) synthesizeObject(properties []models.Property, path string, depth int) example.Example {
	obj := example.NewObject()
	for _, prop := range properties {
		obj.Set(prop.Name, w.synthesize(prop.Schema, prop.Name, path+"/"+escapePointer(prop.Name), depth+1))
	}
	return obj
}

func (w *walk) synthesizeReference(ref *models.Reference, propertyName, path string, depth int) example.Example {
	if ref == nil || ref.Target == nil {
		return example.Unknown{}
	}

	if _, seen := w.active[ref.Target]; seen {
		w.report(DiagnosticCyclicReference, ref, path, models.SchemaReference,
			fmt.Sprintf("cyclic reference %q, using unknown", ref.Name))
		return example.Unknown{}
	}

	w.active[ref.Target] = struct{}{}
	defer delete(w.active, ref.Target)

	return w.synthesize(ref.Target, propertyName, path, depth+1)
}

func (w *walk) synthesizeGroup(group *models.Group, propertyName, path string, depth int) example.Example {
	if group == nil {
		return example.Unknown{}
	}

	label := "group"
	if group.Type != "" {
		label = string(group.Type)
	}

	first, ok := w.first(group, group.Schemas, label, path)
	if !ok {
		return example.Unknown{}
	}
	return w.synthesize(first, propertyName, path, depth+1)
}

// first returns the first schema of a multi-schema list owned by node,
// reporting when others are dropped.
func (w *walk) first(node any, schemas []*models.SchemaType, label, path string) (*models.SchemaType, bool) {
	if len(schemas) == 0 {
		return nil, false
	}

	first := schemas[0]
	if len(schemas) > 1 {
		kind := models.SchemaUnknown
		if first != nil {
			kind = first.Kind
		}
		w.report(DiagnosticMultipleSchemas, node, path, kind,
			fmt.Sprintf("multiple %s schemas are not supported, using first (%s)", label, first.Describe()))
	}
	return first, true
}

// reportKey identifies a diagnostic by kind, path and the schema node that
// raised it.
type reportKey struct {
	kind DiagnosticKind
	path string
	node any
}

// report sends a diagnostic once per node and path. node must be a pointer.
func (w *walk) report(kind DiagnosticKind, node any, path string, schemaKind models.SchemaKind, message string) {
	if path == "" {
		path = "/"
	}
	key := reportKey{kind: kind, path: path, node: node}
	if _, dup := w.reported[key]; dup {
		return
	}
	w.reported[key] = struct{}{}

	w.sink.Report(Diagnostic{
		Kind:       kind,
		Path:       path,
		SchemaKind: schemaKind,
		Message:    message,
	})
}

// escapePointer escapes a property name for use as a JSON pointer token.
func escapePointer(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	return strings.ReplaceAll(name, "/", "~1")
}
