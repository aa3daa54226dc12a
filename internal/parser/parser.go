package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/respexample/internal/errors" // Custom errors package
	"github.com/mcncl/respexample/internal/models"
	"gopkg.in/yaml.v3"
)

// jsonSchemaKeywords mark a document as a JSON Schema when no OpenAPI or
// Swagger version key is present.
var jsonSchemaKeywords = []string{
	"$schema", "$id", "$ref", "$defs", "definitions", "type", "properties",
	"items", "prefixItems", "oneOf", "anyOf", "allOf",
}

// Parse reads a schema document from reader and detects its kind
func Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	kind, err := Detect(data)
	if err != nil {
		return models.Document{}, err
	}

	return models.Document{Kind: kind, Data: data}, nil
}

// ParseString parses a schema document from a string
func ParseString(document string) (models.Document, error) {
	if strings.TrimSpace(document) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(document))
}

// ParseFile parses a schema document from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

// Detect reports which kind of API description data holds
func Detect(data []byte) (models.DocumentKind, error) {
	var top map[string]any
	node, err := DecodeNode(data)
	if err != nil {
		return models.DocumentUnknown, err
	}
	if node.Kind != yaml.MappingNode {
		return models.DocumentUnknown, errors.NewParsingError("document root must be an object", errors.ErrUnknownDocument)
	}
	if err := node.Decode(&top); err != nil {
		return models.DocumentUnknown, errors.NewParsingError("failed to decode document", err)
	}

	if version, ok := top["openapi"]; ok {
		if strings.HasPrefix(fmt.Sprint(version), "3") {
			return models.DocumentOpenAPI3, nil
		}
		return models.DocumentUnknown, errors.NewParsingError(
			fmt.Sprintf("unsupported OpenAPI version %v", version),
			errors.ErrUnknownDocument,
		)
	}
	if _, ok := top["swagger"]; ok {
		return models.DocumentSwagger2, nil
	}

	if len(top) == 0 {
		return models.DocumentJSONSchema, nil
	}
	for _, keyword := range jsonSchemaKeywords {
		if _, ok := top[keyword]; ok {
			return models.DocumentJSONSchema, nil
		}
	}

	return models.DocumentUnknown, errors.NewParsingError("unrecognized document", errors.ErrUnknownDocument)
}

// DecodeNode decodes JSON or YAML into the content node of a yaml document.
// JSON input is compacted first so indentation with tabs is accepted.
func DecodeNode(data []byte) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.NewParsingError("document is empty", errors.ErrEmptyInput)
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			var syntaxError *json.SyntaxError
			if stderrors.As(err, &syntaxError) {
				return nil, errors.NewParsingError(
					fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
					err,
				)
			}
			return nil, errors.NewParsingError("failed to decode JSON", err)
		}
		trimmed = compact.Bytes()
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.NewParsingError("failed to decode YAML", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.NewParsingError("document is empty", errors.ErrEmptyInput)
	}

	return doc.Content[0], nil
}
