// Package openapi loads OpenAPI 3 and Swagger 2 documents and exposes their
// component and response schemas as schema type nodes.
package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"
	"github.com/mcncl/respexample/internal/errors"
	"github.com/mcncl/respexample/internal/models"
	"github.com/mcncl/respexample/internal/parser"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

const (
	componentPrefix  = "#/components/schemas/"
	defaultMediaType = "application/json"
	defaultResponse  = "default"
)

// Document is a loaded OpenAPI description.
type Document struct {
	spec *openapi3.T
	conv *converter
}

// Operation summarizes one operation for listing.
type Operation struct {
	// ID is the operationId, or "METHOD /path" when the operation has none.
	ID       string
	Method   string
	Path     string
	Statuses []string
}

// Load builds a Document from parsed input. Swagger 2 documents are
// converted to OpenAPI 3 first.
func Load(doc models.Document) (*Document, error) {
	var (
		spec *openapi3.T
		err  error
	)

	switch doc.Kind {
	case models.DocumentOpenAPI3:
		loader := openapi3.NewLoader()
		loader.IsExternalRefsAllowed = false
		spec, err = loader.LoadFromData(doc.Data)
		if err != nil {
			return nil, errors.NewParsingError("failed to load OpenAPI document", err)
		}
	case models.DocumentSwagger2:
		spec, err = convertSwagger(doc.Data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewParsingError(
			fmt.Sprintf("cannot load %s document as OpenAPI", doc.Kind),
			errors.ErrUnknownDocument,
		)
	}

	// Without a source tree properties fall back to sorted order.
	source, _ := parser.DecodeNode(doc.Data)

	return &Document{spec: spec, conv: newConverter(source, doc.Kind == models.DocumentSwagger2)}, nil
}

// LoadBytes detects the document kind of data and loads it.
func LoadBytes(data []byte) (*Document, error) {
	doc, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Load(doc)
}

func convertSwagger(data []byte) (*openapi3.T, error) {
	jsonData, err := k8syaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.NewParsingError("failed to decode Swagger document", err)
	}

	var v2 openapi2.T
	if err := json.Unmarshal(jsonData, &v2); err != nil {
		return nil, errors.NewParsingError("failed to decode Swagger document", err)
	}

	spec, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, errors.NewParsingError("failed to convert Swagger document to OpenAPI 3", err)
	}
	return spec, nil
}

// Title returns the info title, if any.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// Schemas returns the component schema names, sorted.
func (d *Document) Schemas() []string {
	if d.spec.Components == nil {
		return nil
	}
	names := make([]string, 0, len(d.spec.Components.Schemas))
	for name := range d.spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComponentSchema returns a reference to the named component schema. Names
// are matched exactly first, then in CamelCase form, then ignoring case.
func (d *Document) ComponentSchema(name string) (*models.SchemaType, error) {
	names := d.Schemas()
	resolved, ok := matchName(names, name)
	if !ok {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("component schema %q not found, available: %s", name, strings.Join(names, ", ")),
			errors.ErrSchemaNotFound,
		)
	}

	ref := d.spec.Components.Schemas[resolved]
	pointer := componentPrefix + parser.EscapeToken(resolved)
	return models.Ref(pointer, d.conv.schemaRef(ref, d.conv.refNode(pointer))), nil
}

// Operations lists all operations sorted by path, then method.
func (d *Document) Operations() []Operation {
	var ops []Operation
	d.eachOperation(func(path, method string, op *openapi3.Operation) {
		var statuses []string
		if op.Responses != nil {
			for status := range op.Responses.Map() {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
		}
		ops = append(ops, Operation{
			ID:       operationKey(path, method, op),
			Method:   method,
			Path:     path,
			Statuses: statuses,
		})
	})

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops
}

// ResponseSchema returns the body schema of one response. An empty status
// selects the lowest 2xx response, falling back to "default". An empty media
// type prefers application/json, then the first declared type.
func (d *Document) ResponseSchema(operationID, status, mediaType string) (*models.SchemaType, error) {
	path, method, op := d.findOperation(operationID)
	if op == nil {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("operation %q not found", operationID),
			errors.ErrOperationNotFound,
		)
	}

	response, status, err := selectResponse(op, status)
	if err != nil {
		return nil, err
	}

	if len(response.Content) == 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("response %s of %q has no body", status, operationID),
			errors.ErrResponseNotFound,
		)
	}

	mediaKey, media := selectMedia(response.Content, mediaType)
	if media == nil {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("response %s of %q has no %q content", status, operationID, mediaType),
			errors.ErrResponseNotFound,
		)
	}

	return d.conv.schemaRef(media.Schema, d.responseNode(path, method, status, mediaKey)), nil
}

// responseNode locates the source node of a response body schema.
func (d *Document) responseNode(path, method, status, mediaType string) *yaml.Node {
	response := d.conv.node("/paths/" + parser.EscapeToken(path) + "/" + strings.ToLower(method) +
		"/responses/" + parser.EscapeToken(status))
	if d.conv.swagger {
		schema, _ := parser.Lookup(response, "schema")
		return schema
	}
	content, _ := parser.Lookup(response, "content")
	media, _ := parser.Lookup(content, mediaType)
	schema, _ := parser.Lookup(media, "schema")
	return schema
}

func (d *Document) findOperation(id string) (string, string, *openapi3.Operation) {
	var (
		foundPath, foundMethod string
		found                  *openapi3.Operation
	)
	d.eachOperation(func(path, method string, op *openapi3.Operation) {
		if found != nil {
			return
		}
		if op.OperationID == id || strings.EqualFold(operationKey(path, method, op), id) {
			foundPath, foundMethod, found = path, method, op
		}
	})
	return foundPath, foundMethod, found
}

func (d *Document) eachOperation(fn func(path, method string, op *openapi3.Operation)) {
	if d.spec.Paths == nil {
		return
	}
	paths := d.spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		operations := item.Operations()
		methods := make([]string, 0, len(operations))
		for method := range operations {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			fn(path, method, operations[method])
		}
	}
}

func operationKey(path, method string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return method + " " + path
}

func selectResponse(op *openapi3.Operation, status string) (*openapi3.Response, string, error) {
	if op.Responses == nil || op.Responses.Len() == 0 {
		return nil, status, errors.NewSchemaError("operation declares no responses", errors.ErrResponseNotFound)
	}

	var ref *openapi3.ResponseRef
	if status == "" {
		status, ref = firstSuccess(op.Responses)
	} else {
		ref = op.Responses.Value(status)
		if ref == nil {
			if code, err := strconv.Atoi(status); err == nil {
				ref = op.Responses.Status(code)
			}
		}
	}

	if ref == nil || ref.Value == nil {
		if status == "" {
			status = "2xx"
		}
		return nil, status, errors.NewSchemaError(
			fmt.Sprintf("no %s response declared", status),
			errors.ErrResponseNotFound,
		)
	}
	return ref.Value, status, nil
}

func firstSuccess(responses *openapi3.Responses) (string, *openapi3.ResponseRef) {
	statuses := make([]string, 0, responses.Len())
	for status := range responses.Map() {
		if strings.HasPrefix(status, "2") {
			statuses = append(statuses, status)
		}
	}
	sort.Strings(statuses)
	if len(statuses) > 0 {
		return statuses[0], responses.Value(statuses[0])
	}
	if ref := responses.Default(); ref != nil {
		return defaultResponse, ref
	}
	return "", nil
}

func selectMedia(content openapi3.Content, mediaType string) (string, *openapi3.MediaType) {
	if mediaType != "" {
		return contentKey(content, mediaType), content.Get(mediaType)
	}
	if media := content.Get(defaultMediaType); media != nil {
		return contentKey(content, defaultMediaType), media
	}
	types := make([]string, 0, len(content))
	for t := range content {
		types = append(types, t)
	}
	sort.Strings(types)
	return types[0], content[types[0]]
}

// contentKey returns the declared key content.Get matches for mediaType.
func contentKey(content openapi3.Content, mediaType string) string {
	if _, ok := content[mediaType]; ok {
		return mediaType
	}
	if i := strings.IndexByte(mediaType, '/'); i > 0 {
		if wildcard := mediaType[:i] + "/*"; content[wildcard] != nil {
			return wildcard
		}
	}
	if content["*/*"] != nil {
		return "*/*"
	}
	return mediaType
}

func matchName(names []string, name string) (string, bool) {
	for _, candidate := range names {
		if candidate == name {
			return candidate, true
		}
	}
	if camel := strcase.ToCamel(name); camel != name {
		for _, candidate := range names {
			if candidate == camel {
				return candidate, true
			}
		}
	}
	for _, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return candidate, true
		}
	}
	return "", false
}
