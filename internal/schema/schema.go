// Package schema converts JSON Schema documents into schema type nodes.
package schema

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/respexample/internal/errors"
	"github.com/mcncl/respexample/internal/models"
	"github.com/mcncl/respexample/internal/parser"
	"gopkg.in/yaml.v3"
)

// definitionSections are the root keywords that hold named schemas.
var definitionSections = []string{"definitions", "$defs"}

// Document is a parsed JSON Schema document.
type Document struct {
	conv       *converter
	rootSchema *models.SchemaType

	// names lists definitions in declaration order; pointers maps each name
	// to its JSON pointer.
	names    []string
	pointers map[string]string
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read schema file '%s'", path), err)
	}

	return ParseBytes(data)
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Document, error) {
	return ParseBytes([]byte(s))
}

// ParseBytes parses a JSON or YAML JSON Schema document. The root schema is
// converted immediately; definitions are converted when requested.
func ParseBytes(data []byte) (*Document, error) {
	root, err := parser.DecodeNode(data)
	if err != nil {
		return nil, err
	}
	root = parser.Deref(root)

	doc := &Document{
		conv:     newConverter(root),
		pointers: make(map[string]string),
	}

	if root.Kind == yaml.MappingNode {
		for _, section := range definitionSections {
			defs, ok := parser.Lookup(root, section)
			if !ok || defs.Kind != yaml.MappingNode {
				continue
			}
			for i := 0; i+1 < len(defs.Content); i += 2 {
				name := defs.Content[i].Value
				if _, exists := doc.pointers[name]; exists {
					continue
				}
				doc.names = append(doc.names, name)
				doc.pointers[name] = "/" + parser.EscapeToken(section) + "/" + parser.EscapeToken(name)
			}
		}
	}

	doc.rootSchema, err = doc.conv.resolve("")
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Root returns the schema described by the document root.
func (d *Document) Root() *models.SchemaType {
	return d.rootSchema
}

// Definitions returns the names of all definitions in declaration order.
func (d *Document) Definitions() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Definition returns a reference to the named definition. Names are matched
// exactly first, then in CamelCase form, then ignoring case.
func (d *Document) Definition(name string) (*models.SchemaType, error) {
	resolved, ok := d.lookupName(name)
	if !ok {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("definition %q not found, available: %s", name, strings.Join(d.names, ", ")),
			errors.ErrSchemaNotFound,
		)
	}

	pointer := d.pointers[resolved]
	target, err := d.conv.resolve(pointer)
	if err != nil {
		return nil, err
	}
	return models.Ref("#"+pointer, target), nil
}

func (d *Document) lookupName(name string) (string, bool) {
	if _, ok := d.pointers[name]; ok {
		return name, true
	}
	if camel := strcase.ToCamel(name); camel != name {
		if _, ok := d.pointers[camel]; ok {
			return camel, true
		}
	}
	for _, candidate := range d.names {
		if strings.EqualFold(candidate, name) {
			return candidate, true
		}
	}
	return "", false
}

// converter turns yaml nodes into schema type nodes. Every JSON pointer is
// converted once, so references that loop back produce pointer cycles
// rather than infinite conversion.
type converter struct {
	root      *yaml.Node
	byPointer map[string]*models.SchemaType
}

func newConverter(root *yaml.Node) *converter {
	return &converter{
		root:      root,
		byPointer: make(map[string]*models.SchemaType),
	}
}

// resolve returns the schema at pointer, converting it on first use.
func (c *converter) resolve(pointer string) (*models.SchemaType, error) {
	if existing, ok := c.byPointer[pointer]; ok {
		return existing, nil
	}

	node, ok := parser.ResolvePointer(c.root, pointer)
	if !ok {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("unresolved $ref #%s", pointer),
			errors.ErrSchemaNotFound,
		)
	}

	// Register before converting so self references find this node.
	target := &models.SchemaType{}
	c.byPointer[pointer] = target

	converted, err := c.convert(node, pointer)
	if err != nil {
		delete(c.byPointer, pointer)
		return nil, err
	}
	*target = *converted
	return target, nil
}

// convert converts the schema node located at pointer.
func (c *converter) convert(node *yaml.Node, pointer string) (*models.SchemaType, error) {
	node = parser.Deref(node)
	if node == nil || node.Kind != yaml.MappingNode {
		// Boolean schemas and anything else carry no type information.
		return models.Primitive(models.SchemaUnknown), nil
	}

	if refNode, ok := parser.Lookup(node, "$ref"); ok {
		return c.convertRef(refNode.Value, pointer)
	}

	schemaType := primaryType(node)
	properties, hasProperties := parser.Lookup(node, "properties")
	_, hasItems := parser.Lookup(node, "items")
	_, hasPrefixItems := parser.Lookup(node, "prefixItems")
	groupType, groupNode := firstGroup(node)

	switch {
	case schemaType == "" && hasProperties:
		schemaType = "object"
	case schemaType == "" && (hasItems || hasPrefixItems):
		schemaType = "array"
	}

	if groupNode != nil && (schemaType == "" || (schemaType == "object" && !hasProperties)) {
		return c.convertGroup(groupType, groupNode, pointer+"/"+string(groupType))
	}

	switch schemaType {
	case "object":
		return c.convertObject(properties, pointer+"/properties")
	case "array":
		return c.convertArray(node, pointer)
	case "string":
		return models.String(), nil
	case "integer":
		return models.Integer(), nil
	case "number":
		return models.Number(), nil
	case "boolean":
		return models.Boolean(), nil
	default:
		return models.Primitive(models.SchemaUnknown), nil
	}
}

// convertRef converts a $ref found at pointer.
func (c *converter) convertRef(ref, pointer string) (*models.SchemaType, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "#") {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("only local references are supported, got %q at #%s", ref, pointer),
			errors.ErrUnsupportedReference,
		)
	}

	target, err := c.resolve(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return nil, fmt.Errorf("$ref at #%s: %w", pointer, err)
	}
	return models.Ref(ref, target), nil
}

func (c *converter) convertObject(properties *yaml.Node, pointer string) (*models.SchemaType, error) {
	properties = parser.Deref(properties)
	if properties == nil || properties.Kind != yaml.MappingNode {
		return models.Object(), nil
	}

	props := make([]models.Property, 0, len(properties.Content)/2)
	for i := 0; i+1 < len(properties.Content); i += 2 {
		name := properties.Content[i].Value
		propSchema, err := c.convert(properties.Content[i+1], pointer+"/"+parser.EscapeToken(name))
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		props = append(props, models.Prop(name, propSchema))
	}

	return models.Object(props...), nil
}

func (c *converter) convertArray(node *yaml.Node, pointer string) (*models.SchemaType, error) {
	if prefixItems, ok := parser.Lookup(node, "prefixItems"); ok && prefixItems.Kind == yaml.SequenceNode {
		return c.convertTuple(prefixItems, pointer+"/prefixItems")
	}

	items, ok := parser.Lookup(node, "items")
	if !ok {
		return models.Array(models.Primitive(models.SchemaUnknown)), nil
	}
	if items.Kind == yaml.SequenceNode {
		return c.convertTuple(items, pointer+"/items")
	}

	item, err := c.convert(items, pointer+"/items")
	if err != nil {
		return nil, fmt.Errorf("array items: %w", err)
	}
	return models.Array(item), nil
}

func (c *converter) convertTuple(seq *yaml.Node, pointer string) (*models.SchemaType, error) {
	members, err := c.convertList(seq, pointer)
	if err != nil {
		return nil, fmt.Errorf("array items: %w", err)
	}
	return models.Tuple(members...), nil
}

func (c *converter) convertGroup(groupType models.GroupType, seq *yaml.Node, pointer string) (*models.SchemaType, error) {
	members, err := c.convertList(seq, pointer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", groupType, err)
	}
	return models.Combine(groupType, members...), nil
}

func (c *converter) convertList(seq *yaml.Node, pointer string) ([]*models.SchemaType, error) {
	members := make([]*models.SchemaType, 0, len(seq.Content))
	for i, item := range seq.Content {
		member, err := c.convert(item, pointer+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

// primaryType returns the first non-null entry of the "type" keyword, or
// "null" when that is the only entry.
func primaryType(node *yaml.Node) string {
	typeNode, ok := parser.Lookup(node, "type")
	if !ok {
		return ""
	}

	switch typeNode.Kind {
	case yaml.ScalarNode:
		return strings.ToLower(typeNode.Value)
	case yaml.SequenceNode:
		nullable := false
		for _, item := range typeNode.Content {
			value := strings.ToLower(parser.Deref(item).Value)
			if value == "null" {
				nullable = true
				continue
			}
			if value != "" {
				return value
			}
		}
		if nullable {
			return "null"
		}
	}
	return ""
}

// firstGroup returns the first non-empty combinator in oneOf, anyOf, allOf
// order.
func firstGroup(node *yaml.Node) (models.GroupType, *yaml.Node) {
	for _, groupType := range []models.GroupType{models.GroupOneOf, models.GroupAnyOf, models.GroupAllOf} {
		seq, ok := parser.Lookup(node, string(groupType))
		if ok && seq.Kind == yaml.SequenceNode && len(seq.Content) > 0 {
			return groupType, seq
		}
	}
	return "", nil
}
