package openapi

import (
	"testing"

	"github.com/mcncl/respexample/internal/errors"
	"github.com/mcncl/respexample/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `
openapi: 3.0.3
info:
  title: Petstore
  version: "1.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: A list of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
        default:
          description: Error
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
    post:
      responses:
        "201":
          description: Created
          content:
            application/xml:
              schema:
                $ref: '#/components/schemas/Pet'
        "204":
          description: No body
  /pets/{petId}:
    get:
      operationId: showPetById
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        "404":
          description: Not found
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
        id:
          type: integer
        tag:
          type: string
          nullable: true
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: object
      properties:
        pets:
          type: array
          items:
            $ref: '#/components/schemas/Pet'
    Error:
      type: object
      properties:
        code:
          type: integer
        message:
          type: string
    PetOrError:
      oneOf:
        - $ref: '#/components/schemas/Pet'
        - $ref: '#/components/schemas/Error'
`

const swagger = `{
	"swagger": "2.0",
	"info": {"title": "Users", "version": "1"},
	"produces": ["application/json"],
	"paths": {
		"/users": {
			"get": {
				"operationId": "listUsers",
				"responses": {
					"200": {
						"description": "ok",
						"schema": {"type": "array", "items": {"$ref": "#/definitions/User"}}
					}
				}
			}
		}
	},
	"definitions": {
		"User": {
			"type": "object",
			"properties": {
				"userId": {"type": "string"},
				"score": {"type": "number"}
			}
		}
	}
}`

func load(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := LoadBytes([]byte(data))
	require.NoError(t, err)
	return doc
}

func propertyNames(s *models.SchemaType) []string {
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	return names
}

func TestLoad_OpenAPI3(t *testing.T) {
	doc := load(t, petstore)

	assert.Equal(t, "Petstore", doc.Title())
	assert.Equal(t, []string{"Error", "Owner", "Pet", "PetOrError"}, doc.Schemas())
}

func TestLoad_Swagger2(t *testing.T) {
	doc := load(t, swagger)

	assert.Equal(t, []string{"User"}, doc.Schemas())

	s, err := doc.ResponseSchema("listUsers", "", "")
	require.NoError(t, err)
	require.Equal(t, models.SchemaArray, s.Kind)

	item := s.Items.Single
	require.Equal(t, models.SchemaReference, item.Kind)
	assert.Equal(t, "#/components/schemas/User", item.Reference.Name)
	assert.Equal(t, []string{"userId", "score"}, propertyNames(item.Reference.Target))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("JSON Schema is not OpenAPI", func(t *testing.T) {
		_, err := LoadBytes([]byte(`{"type": "object"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnknownDocument)
	})

	t.Run("malformed OpenAPI", func(t *testing.T) {
		_, err := LoadBytes([]byte("openapi: 3.0.0\ninfo: 42\npaths: {}\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})
	})
}

func TestComponentSchema(t *testing.T) {
	doc := load(t, petstore)

	pet, err := doc.ComponentSchema("pet")
	require.NoError(t, err)
	require.Equal(t, models.SchemaReference, pet.Kind)
	assert.Equal(t, "#/components/schemas/Pet", pet.Reference.Name)

	target := pet.Reference.Target
	require.Equal(t, models.SchemaObject, target.Kind)
	assert.Equal(t, []string{"name", "id", "tag", "owner"}, propertyNames(target))
	assert.Equal(t, models.SchemaString, target.Properties[0].Schema.Kind)
	assert.Equal(t, models.SchemaInteger, target.Properties[1].Schema.Kind)

	t.Run("cycle through Owner", func(t *testing.T) {
		owner := target.Properties[3].Schema
		require.Equal(t, models.SchemaReference, owner.Kind)
		pets := owner.Reference.Target.Properties[0].Schema
		require.Equal(t, models.SchemaArray, pets.Kind)
		back := pets.Items.Single
		require.Equal(t, models.SchemaReference, back.Kind)
		assert.Same(t, target, back.Reference.Target)
	})

	t.Run("oneOf group", func(t *testing.T) {
		s, err := doc.ComponentSchema("PetOrError")
		require.NoError(t, err)
		group := s.Reference.Target
		require.Equal(t, models.SchemaGroup, group.Kind)
		assert.Equal(t, models.GroupOneOf, group.Group.Type)
		assert.Len(t, group.Group.Schemas, 2)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := doc.ComponentSchema("Order")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrSchemaNotFound)
		assert.Contains(t, err.Error(), "Pet")
	})
}

func TestResponseSchema(t *testing.T) {
	doc := load(t, petstore)

	tests := []struct {
		name      string
		operation string
		status    string
		mediaType string
		kind      models.SchemaKind
		sentinel  error
	}{
		{name: "first 2xx", operation: "listPets", kind: models.SchemaArray},
		{name: "default response", operation: "listPets", status: "default", kind: models.SchemaReference},
		{name: "method and path", operation: "POST /pets", kind: models.SchemaReference},
		{name: "explicit media type", operation: "POST /pets", status: "201", mediaType: "application/xml", kind: models.SchemaReference},
		{name: "missing media type", operation: "POST /pets", status: "201", mediaType: "application/json", sentinel: errors.ErrResponseNotFound},
		{name: "no body", operation: "POST /pets", status: "204", sentinel: errors.ErrResponseNotFound},
		{name: "no success response", operation: "showPetById", sentinel: errors.ErrResponseNotFound},
		{name: "undeclared status", operation: "listPets", status: "500", sentinel: errors.ErrResponseNotFound},
		{name: "unknown operation", operation: "deletePet", sentinel: errors.ErrOperationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := doc.ResponseSchema(tt.operation, tt.status, tt.mediaType)
			if tt.sentinel != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.sentinel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind)
		})
	}
}

func TestPropertyOrder(t *testing.T) {
	doc := load(t, `
openapi: 3.0.3
info: {title: Orders, version: "1"}
paths:
  /orders:
    get:
      operationId: listOrders
      responses:
        "200":
          $ref: '#/components/responses/OrderPage'
  /orders/{id}:
    get:
      operationId: getOrder
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  status: {type: string}
                  lines:
                    type: array
                    items:
                      type: object
                      properties:
                        sku: {type: string}
                        quantity: {type: integer}
                  createdAt: {type: string}
components:
  responses:
    OrderPage:
      description: ok
      content:
        application/json:
          schema:
            type: object
            properties:
              total: {type: integer}
              items:
                type: array
                items:
                  $ref: '#/components/schemas/Order'
  schemas:
    Order:
      allOf:
        - type: object
          properties:
            zone: {type: string}
            amount: {type: number}
`)

	t.Run("inline response", func(t *testing.T) {
		s, err := doc.ResponseSchema("getOrder", "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"status", "lines", "createdAt"}, propertyNames(s))
		assert.Equal(t, []string{"sku", "quantity"}, propertyNames(s.Properties[1].Schema.Items.Single))
	})

	t.Run("shared response and group member", func(t *testing.T) {
		s, err := doc.ResponseSchema("listOrders", "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"total", "items"}, propertyNames(s))

		order := s.Properties[1].Schema.Items.Single.Reference.Target
		require.Equal(t, models.SchemaGroup, order.Kind)
		assert.Equal(t, []string{"zone", "amount"}, propertyNames(order.Group.Schemas[0]))
	})
}

func TestOperations(t *testing.T) {
	doc := load(t, petstore)

	ops := doc.Operations()
	require.Len(t, ops, 3)

	assert.Equal(t, Operation{ID: "listPets", Method: "GET", Path: "/pets", Statuses: []string{"200", "default"}}, ops[0])
	assert.Equal(t, Operation{ID: "POST /pets", Method: "POST", Path: "/pets", Statuses: []string{"201", "204"}}, ops[1])
	assert.Equal(t, "showPetById", ops[2].ID)
}

func TestPrimaryType(t *testing.T) {
	doc := load(t, `
openapi: 3.1.0
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    MaybeCount:
      type: ["null", integer]
    Untyped:
      properties:
        a: {type: boolean}
    List:
      items: {type: number}
`)

	tests := []struct {
		name string
		kind models.SchemaKind
	}{
		{"MaybeCount", models.SchemaInteger},
		{"Untyped", models.SchemaObject},
		{"List", models.SchemaArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := doc.ComponentSchema(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Reference.Target.Kind)
		})
	}
}
