package models

// SchemaKind identifies which variant a SchemaType node holds.
type SchemaKind int

const (
	// SchemaUnknown means no usable type information.
	SchemaUnknown SchemaKind = iota
	SchemaBoolean
	SchemaString
	SchemaNumber
	SchemaInteger
	SchemaArray
	SchemaObject
	SchemaReference
	SchemaGroup
)

// String returns the schema keyword for the kind.
func (k SchemaKind) String() string {
	switch k {
	case SchemaBoolean:
		return "boolean"
	case SchemaString:
		return "string"
	case SchemaNumber:
		return "number"
	case SchemaInteger:
		return "integer"
	case SchemaArray:
		return "array"
	case SchemaObject:
		return "object"
	case SchemaReference:
		return "reference"
	case SchemaGroup:
		return "group"
	default:
		return "unknown"
	}
}

// GroupType records which combinator produced a group node.
type GroupType string

const (
	GroupOneOf GroupType = "oneOf"
	GroupAnyOf GroupType = "anyOf"
	GroupAllOf GroupType = "allOf"
)

// SchemaType is a resolved schema type node as produced by a schema adapter.
// Only the payload matching Kind is populated. Nodes are treated as
// read-only once built; reference targets may point back up the graph.
type SchemaType struct {
	Kind SchemaKind

	// Items is set for SchemaArray.
	Items *ArrayItems
	// Properties is set for SchemaObject, in declaration order.
	Properties []Property
	// Reference is set for SchemaReference.
	Reference *Reference
	// Group is set for SchemaGroup.
	Group *Group
}

// ArrayItems holds either a single item schema or a tuple-style list.
type ArrayItems struct {
	Single   *SchemaType
	Multiple []*SchemaType
}

// IsSingle reports whether the array is homogeneous.
func (a *ArrayItems) IsSingle() bool {
	return a != nil && a.Single != nil
}

// Property is one named member of an object schema.
type Property struct {
	Name   string
	Schema *SchemaType
}

// Reference points at the schema a $ref resolves to.
type Reference struct {
	// Name is the reference string as written in the source document.
	Name   string
	Target *SchemaType
}

// Group holds the members of a oneOf/anyOf/allOf combinator.
type Group struct {
	Type    GroupType
	Schemas []*SchemaType
}

// Primitive creates a payload-free schema node of the given kind.
func Primitive(kind SchemaKind) *SchemaType {
	return &SchemaType{Kind: kind}
}

// Boolean creates a boolean schema node.
func Boolean() *SchemaType { return Primitive(SchemaBoolean) }

// String creates a string schema node.
func String() *SchemaType { return Primitive(SchemaString) }

// Number creates a number schema node.
func Number() *SchemaType { return Primitive(SchemaNumber) }

// Integer creates an integer schema node.
func Integer() *SchemaType { return Primitive(SchemaInteger) }

// Array creates a homogeneous array schema node.
func Array(item *SchemaType) *SchemaType {
	return &SchemaType{Kind: SchemaArray, Items: &ArrayItems{Single: item}}
}

// Tuple creates a tuple-style array schema node.
func Tuple(items ...*SchemaType) *SchemaType {
	return &SchemaType{Kind: SchemaArray, Items: &ArrayItems{Multiple: items}}
}

// Object creates an object schema node with the given properties.
func Object(properties ...Property) *SchemaType {
	return &SchemaType{Kind: SchemaObject, Properties: properties}
}

// Prop pairs a property name with its schema.
func Prop(name string, schema *SchemaType) Property {
	return Property{Name: name, Schema: schema}
}

// Ref creates a reference schema node.
func Ref(name string, target *SchemaType) *SchemaType {
	return &SchemaType{Kind: SchemaReference, Reference: &Reference{Name: name, Target: target}}
}

// Combine creates a group schema node.
func Combine(groupType GroupType, schemas ...*SchemaType) *SchemaType {
	return &SchemaType{Kind: SchemaGroup, Group: &Group{Type: groupType, Schemas: schemas}}
}

// Describe returns a short human readable description of the node, used in
// diagnostics.
func (s *SchemaType) Describe() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case SchemaReference:
		if s.Reference != nil && s.Reference.Name != "" {
			return "reference " + s.Reference.Name
		}
	case SchemaGroup:
		if s.Group != nil && s.Group.Type != "" {
			return string(s.Group.Type)
		}
	}
	return s.Kind.String()
}

// DocumentKind identifies the kind of API description an input holds.
type DocumentKind string

const (
	DocumentUnknown    DocumentKind = "unknown"
	DocumentOpenAPI3   DocumentKind = "openapi3"
	DocumentSwagger2   DocumentKind = "swagger2"
	DocumentJSONSchema DocumentKind = "jsonschema"
)

// Document is raw input along with its detected kind.
type Document struct {
	Kind DocumentKind
	Data []byte
}
