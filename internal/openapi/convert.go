package openapi

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mcncl/respexample/internal/models"
	"github.com/mcncl/respexample/internal/parser"
	"gopkg.in/yaml.v3"
)

// converter turns kin-openapi schemas into schema type nodes. Each
// *openapi3.Schema is converted once, so recursive components become
// pointer cycles behind reference nodes.
//
// kin-openapi keeps properties in maps, so the decoded source document is
// walked alongside to recover declaration order.
type converter struct {
	bySchema map[*openapi3.Schema]*models.SchemaType
	source   *yaml.Node
	swagger  bool
}

func newConverter(source *yaml.Node, swagger bool) *converter {
	return &converter{
		bySchema: make(map[*openapi3.Schema]*models.SchemaType),
		source:   source,
		swagger:  swagger,
	}
}

// schemaRef converts ref. node is the source node ref was loaded from, or
// nil when unknown.
func (c *converter) schemaRef(ref *openapi3.SchemaRef, node *yaml.Node) *models.SchemaType {
	if ref == nil || ref.Value == nil {
		return models.Primitive(models.SchemaUnknown)
	}
	if ref.Ref != "" {
		return models.Ref(ref.Ref, c.schema(ref.Value, c.refNode(ref.Ref)))
	}
	return c.schema(ref.Value, node)
}

func (c *converter) schema(s *openapi3.Schema, node *yaml.Node) *models.SchemaType {
	if existing, ok := c.bySchema[s]; ok {
		return existing
	}

	target := &models.SchemaType{}
	c.bySchema[s] = target
	*target = *c.convert(s, node)
	return target
}

// refNode locates the source node of a loaded reference. Swagger component
// references are rewritten to definitions by the conversion to OpenAPI 3.
func (c *converter) refNode(ref string) *yaml.Node {
	if c.swagger && strings.HasPrefix(ref, componentPrefix) {
		return c.node("/definitions/" + strings.TrimPrefix(ref, componentPrefix))
	}
	if !strings.HasPrefix(ref, "#") {
		return nil
	}
	return c.node(strings.TrimPrefix(ref, "#"))
}

// node resolves pointer in the source document, following local $ref
// entries.
func (c *converter) node(pointer string) *yaml.Node {
	if c.source == nil {
		return nil
	}
	node, ok := parser.ResolvePointer(c.source, pointer)
	for hops := 0; ok && hops < 16; hops++ {
		ref, isRef := parser.Lookup(node, "$ref")
		if !isRef || !strings.HasPrefix(ref.Value, "#") {
			break
		}
		node, ok = parser.ResolvePointer(c.source, strings.TrimPrefix(ref.Value, "#"))
	}
	if !ok {
		return nil
	}
	return node
}

func (c *converter) convert(s *openapi3.Schema, node *yaml.Node) *models.SchemaType {
	schemaType := primaryType(s.Type)
	switch {
	case schemaType == "" && len(s.Properties) > 0:
		schemaType = openapi3.TypeObject
	case schemaType == "" && s.Items != nil:
		schemaType = openapi3.TypeArray
	}

	if groupType, members := firstGroup(s); members != nil &&
		(schemaType == "" || (schemaType == openapi3.TypeObject && len(s.Properties) == 0)) {
		memberNodes, _ := parser.Lookup(node, string(groupType))
		schemas := make([]*models.SchemaType, 0, len(members))
		for i, member := range members {
			schemas = append(schemas, c.schemaRef(member, child(memberNodes, i)))
		}
		return models.Combine(groupType, schemas...)
	}

	switch schemaType {
	case openapi3.TypeObject:
		propertyNodes, _ := parser.Lookup(node, "properties")
		props := make([]models.Property, 0, len(s.Properties))
		for _, name := range propertyOrder(s.Properties, propertyNodes) {
			propertyNode, _ := parser.Lookup(propertyNodes, name)
			props = append(props, models.Prop(name, c.schemaRef(s.Properties[name], propertyNode)))
		}
		return models.Object(props...)
	case openapi3.TypeArray:
		if s.Items == nil {
			return models.Array(models.Primitive(models.SchemaUnknown))
		}
		itemsNode, _ := parser.Lookup(node, "items")
		return models.Array(c.schemaRef(s.Items, itemsNode))
	case openapi3.TypeString:
		return models.String()
	case openapi3.TypeInteger:
		return models.Integer()
	case openapi3.TypeNumber:
		return models.Number()
	case openapi3.TypeBoolean:
		return models.Boolean()
	default:
		return models.Primitive(models.SchemaUnknown)
	}
}

// primaryType returns the first non-null type.
func primaryType(types *openapi3.Types) string {
	for _, t := range types.Slice() {
		t = strings.ToLower(t)
		if t != "" && t != openapi3.TypeNull {
			return t
		}
	}
	return ""
}

func firstGroup(s *openapi3.Schema) (models.GroupType, openapi3.SchemaRefs) {
	switch {
	case len(s.OneOf) > 0:
		return models.GroupOneOf, s.OneOf
	case len(s.AnyOf) > 0:
		return models.GroupAnyOf, s.AnyOf
	case len(s.AllOf) > 0:
		return models.GroupAllOf, s.AllOf
	}
	return "", nil
}

// propertyOrder lists property names in source order. Names missing from
// the source follow, sorted.
func propertyOrder(properties openapi3.Schemas, source *yaml.Node) []string {
	names := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))
	if source = parser.Deref(source); source != nil && source.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(source.Content); i += 2 {
			name := source.Content[i].Value
			if _, ok := properties[name]; !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	var rest []string
	for name := range properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// child returns element i of a sequence node.
func child(seq *yaml.Node, i int) *yaml.Node {
	seq = parser.Deref(seq)
	if seq == nil || seq.Kind != yaml.SequenceNode || i >= len(seq.Content) {
		return nil
	}
	return parser.Deref(seq.Content[i])
}
