package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/sdkgen/internal/spec/builder"
	"github.com/goliatone/sdkgen/pkg/ir"
	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

func build(t *testing.T, doc string, options pkgspec.BuildOptions) (*ir.Spec, error) {
	t.Helper()
	wrapped := pkgspec.MustNewDocument(pkgspec.SourceFromFile("test.json"), []byte(doc))
	return builder.New(options).Build(context.Background(), wrapped)
}

func mustBuild(t *testing.T, doc string, options pkgspec.BuildOptions) *ir.Spec {
	t.Helper()
	spec, err := build(t, doc, options)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return spec
}

func specErrorKind(t *testing.T, err error) pkgspec.ErrorKind {
	t.Helper()
	var specErr *pkgspec.Error
	if !errors.As(err, &specErr) {
		t.Fatalf("expected *spec.Error, got %v", err)
	}
	return specErr.Kind
}

const petStoreDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "petstore", "version": "1.0.0"},
  "paths": {
    "/pets": {
      "get": {
        "operationId": "v1.pets.list",
        "tags": ["pets"],
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer", "format": "int32"}},
          {"name": "idempotency-key", "in": "header", "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {
            "description": "ok",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}
          }
        }
      },
      "post": {
        "operationId": "v1.pets.create",
        "tags": ["pets"],
        "requestBody": {
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/PetPatch"}}}
        },
        "responses": {
          "201": {
            "description": "created",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}
          }
        }
      }
    },
    "/pets/{petId}/photos/{photoId}": {
      "get": {
        "operationId": "v1.pets.getPhoto",
        "tags": ["pets"],
        "parameters": [
          {"name": "photoId", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "petId", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"204": {"description": "no content"}}
      }
    },
    "/health": {
      "get": {
        "responses": {"204": {"description": "no content"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "required": ["name", "status"],
        "properties": {
          "name": {"type": "string"},
          "nickname": {"type": "string"},
          "bornAt": {"type": "string", "format": "date-time", "nullable": true},
          "status": {"$ref": "#/components/schemas/Status"},
          "tags": {"type": "array", "uniqueItems": true, "items": {"type": "string"}}
        }
      },
      "PetPatch": {
        "type": "object",
        "properties": {
          "nickname": {"type": "string"}
        }
      },
      "Status": {
        "type": "string",
        "enum": ["sold", "available", "pending"]
      }
    }
  }
}`

func TestBuild_PetStore(t *testing.T) {
	spec := mustBuild(t, petStoreDoc, pkgspec.BuildOptions{})

	want := []string{"Pet", "PetPatch", "Status"}
	if diff := cmp.Diff(want, spec.Registry.Names()); diff != "" {
		t.Fatalf("registry names mismatch (-want +got):\n%s", diff)
	}

	pet, _ := spec.Registry.Get("Pet")
	if pet.Type.Kind != ir.KindObject {
		t.Fatalf("Pet kind = %s, want object", pet.Type.Kind)
	}

	var fieldNames []string
	for _, f := range pet.Type.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	// Fields are normalised to sorted name order.
	wantFields := []string{"bornAt", "name", "nickname", "status", "tags"}
	if diff := cmp.Diff(wantFields, fieldNames); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	byName := map[string]ir.Field{}
	for _, f := range pet.Type.Fields {
		byName[f.Name] = f
	}
	if !byName["name"].Required || byName["name"].Nullable {
		t.Fatalf("name field shape wrong: %+v", byName["name"])
	}
	if byName["nickname"].Required {
		t.Fatalf("nickname must be optional: %+v", byName["nickname"])
	}
	if !byName["bornAt"].Nullable || byName["bornAt"].Type.Scalar != ir.ScalarDateTime {
		t.Fatalf("bornAt shape wrong: %+v", byName["bornAt"])
	}
	if byName["status"].Type.Kind != ir.KindRef || byName["status"].Type.Ref != "Status" {
		t.Fatalf("status must reference Status: %+v", byName["status"])
	}
	if byName["tags"].Type.Kind != ir.KindSet {
		t.Fatalf("uniqueItems array must become a set: %+v", byName["tags"])
	}
}

func TestBuild_EnumOrderPreserved(t *testing.T) {
	spec := mustBuild(t, petStoreDoc, pkgspec.BuildOptions{})

	status, _ := spec.Registry.Get("Status")
	var values []string
	for _, v := range status.Type.Values {
		values = append(values, v.Name)
	}
	want := []string{"sold", "available", "pending"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("enum order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Resources(t *testing.T) {
	spec := mustBuild(t, petStoreDoc, pkgspec.BuildOptions{})

	var names []string
	for _, r := range spec.Resources {
		names = append(names, r.Name)
	}
	// Tagged operations group under the tag; untagged ones fall back to the
	// first path segment.
	want := []string{"health", "pets"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("resource names mismatch (-want +got):\n%s", diff)
	}

	var pets ir.Resource
	for _, r := range spec.Resources {
		if r.Name == "pets" {
			pets = r
		}
	}
	if len(pets.Operations) != 3 {
		t.Fatalf("pets operations = %d, want 3", len(pets.Operations))
	}

	byName := map[string]ir.Operation{}
	for _, op := range pets.Operations {
		byName[op.Name] = op
	}

	list := byName["list"]
	if list.ID != "v1.pets.list" || list.Method != "GET" {
		t.Fatalf("list operation wrong: %+v", list)
	}
	if len(list.QueryParams) != 1 || list.QueryParams[0].Name != "limit" {
		t.Fatalf("list query params wrong: %+v", list.QueryParams)
	}
	if len(list.HeaderParams) != 1 || list.HeaderParams[0].Name != "idempotency-key" {
		t.Fatalf("list header params wrong: %+v", list.HeaderParams)
	}
	if list.ResponseBody != "Pet" {
		t.Fatalf("list response body = %q, want Pet", list.ResponseBody)
	}

	create := byName["create"]
	if create.RequestBody != "PetPatch" {
		t.Fatalf("create request body = %q, want PetPatch", create.RequestBody)
	}
	// Every PetPatch field is optional.
	if !create.RequestBodyAllOptional {
		t.Fatal("create request body must be flagged all-optional")
	}

	photo := byName["getPhoto"]
	var order []string
	for _, p := range photo.PathParams {
		order = append(order, p.Name)
	}
	// Path parameters follow slot order, not declaration order.
	wantOrder := []string{"petId", "photoId"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Fatalf("path param order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_AllOfFlattening(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Base": {"type": "object", "required": ["id"], "properties": {"id": {"type": "string"}}},
    "Extended": {"allOf": [
      {"$ref": "#/components/schemas/Base"},
      {"type": "object", "properties": {"label": {"type": "string"}}}
    ]}
  }}
}`
	spec := mustBuild(t, doc, pkgspec.BuildOptions{})

	extended, _ := spec.Registry.Get("Extended")
	if extended.Type.Kind != ir.KindObject {
		t.Fatalf("Extended kind = %s, want object", extended.Type.Kind)
	}
	var names []string
	for _, f := range extended.Type.Fields {
		names = append(names, f.Name)
	}
	want := []string{"id", "label"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("merged fields mismatch (-want +got):\n%s", diff)
	}
	if !extended.Type.Fields[0].Required {
		t.Fatal("required carried through the merge")
	}
}

func TestBuild_AllOfCollision(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Base": {"type": "object", "properties": {"id": {"type": "string"}}},
    "Clash": {"allOf": [
      {"$ref": "#/components/schemas/Base"},
      {"type": "object", "properties": {"id": {"type": "integer"}}}
    ]}
  }}
}`
	_, err := build(t, doc, pkgspec.BuildOptions{})
	if kind := specErrorKind(t, err); kind != pkgspec.ErrorKindMalformedSchema {
		t.Fatalf("error kind = %s, want malformed_schema", kind)
	}
}

func TestBuild_PathParameterMismatch(t *testing.T) {
	missingParam := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/pets/{petId}": {"get": {"responses": {"204": {"description": "ok"}}}}}
}`
	_, err := build(t, missingParam, pkgspec.BuildOptions{})
	if kind := specErrorKind(t, err); kind != pkgspec.ErrorKindPathParameterMismatch {
		t.Fatalf("error kind = %s, want path_parameter_mismatch", kind)
	}

	extraParam := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/pets": {"get": {
    "parameters": [{"name": "petId", "in": "path", "required": true, "schema": {"type": "string"}}],
    "responses": {"204": {"description": "ok"}}
  }}}
}`
	_, err = build(t, extraParam, pkgspec.BuildOptions{})
	if kind := specErrorKind(t, err); kind != pkgspec.ErrorKindPathParameterMismatch {
		t.Fatalf("error kind = %s, want path_parameter_mismatch", kind)
	}
}

func TestBuild_OneOfUnion(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Cat": {"type": "object", "properties": {"meow": {"type": "boolean"}}},
    "Dog": {"type": "object", "properties": {"bark": {"type": "boolean"}}},
    "Animal": {"oneOf": [
      {"$ref": "#/components/schemas/Cat"},
      {"$ref": "#/components/schemas/Dog"}
    ]}
  }}
}`
	spec := mustBuild(t, doc, pkgspec.BuildOptions{})

	animal, _ := spec.Registry.Get("Animal")
	if animal.Type.Kind != ir.KindUnion {
		t.Fatalf("Animal kind = %s, want union", animal.Type.Kind)
	}
	if diff := cmp.Diff([]string{"Cat", "Dog"}, animal.Type.Members); diff != "" {
		t.Fatalf("union members mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_OneOfInlineRejected(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Animal": {"oneOf": [{"type": "string"}, {"type": "integer"}]}
  }}
}`
	_, err := build(t, doc, pkgspec.BuildOptions{})
	if kind := specErrorKind(t, err); kind != pkgspec.ErrorKindUnsupportedComposition {
		t.Fatalf("error kind = %s, want unsupported_composition", kind)
	}
}

func TestBuild_IntegerEnums(t *testing.T) {
	withNames := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Priority": {
      "type": "integer",
      "enum": [1, 5, 9],
      "x-enum-varnames": ["Low", "Medium", "High"]
    }
  }}
}`
	spec := mustBuild(t, withNames, pkgspec.BuildOptions{})
	priority, _ := spec.Registry.Get("Priority")
	want := []ir.EnumValue{
		{Name: "Low", Value: int64(1)},
		{Name: "Medium", Value: int64(5)},
		{Name: "High", Value: int64(9)},
	}
	if diff := cmp.Diff(want, priority.Type.Values); diff != "" {
		t.Fatalf("enum values mismatch (-want +got):\n%s", diff)
	}

	withoutNames := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Priority": {"type": "integer", "enum": [1, 5, 9]}
  }}
}`
	_, err := build(t, withoutNames, pkgspec.BuildOptions{})
	if kind := specErrorKind(t, err); kind != pkgspec.ErrorKindMalformedSchema {
		t.Fatalf("error kind = %s, want malformed_schema", kind)
	}
}

func TestBuild_HiddenOperations(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/public": {"get": {"tags": ["things"], "responses": {"204": {"description": "ok"}}}},
    "/secret": {"get": {"tags": ["things"], "x-hidden": true, "responses": {"204": {"description": "ok"}}}}
  }
}`
	spec := mustBuild(t, doc, pkgspec.BuildOptions{})
	if got := len(spec.Resources[0].Operations); got != 1 {
		t.Fatalf("operations = %d, want hidden one skipped", got)
	}

	spec = mustBuild(t, doc, pkgspec.BuildOptions{IncludeHidden: true})
	if got := len(spec.Resources[0].Operations); got != 2 {
		t.Fatalf("operations = %d, want hidden one included", got)
	}
}

func TestBuild_NoOperations(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {},
  "components": {"schemas": {"Pet": {"type": "object", "properties": {"name": {"type": "string"}}}}}
}`
	if _, err := build(t, doc, pkgspec.BuildOptions{}); err == nil {
		t.Fatal("expected an error for a document without operations")
	}

	spec := mustBuild(t, doc, pkgspec.BuildOptions{AllowPartialDocuments: true})
	if spec.Registry.Len() != 1 || len(spec.Resources) != 0 {
		t.Fatalf("partial document produced unexpected IR: %d components, %d resources", spec.Registry.Len(), len(spec.Resources))
	}
}

func TestBuild_InlineObjectRejected(t *testing.T) {
	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "t", "version": "1"},
  "paths": {"/x": {"get": {"responses": {"204": {"description": "ok"}}}}},
  "components": {"schemas": {
    "Wrapper": {"type": "object", "properties": {
      "inner": {"type": "object", "properties": {"x": {"type": "string"}}}
    }}
  }}
}`
	_, err := build(t, doc, pkgspec.BuildOptions{})
	if kind := specErrorKind(t, err); kind != pkgspec.ErrorKindMalformedSchema {
		t.Fatalf("error kind = %s, want malformed_schema", kind)
	}
}
