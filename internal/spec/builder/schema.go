package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/sdkgen/pkg/ir"
	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

const enumNamesExtension = "x-enum-varnames"

// converter turns one declared schema into a SchemaType tree. The visited
// set tracks schema pointers on the current descent path: a schema that
// contains itself without a $ref indirection can never produce a finite
// type, so it is rejected at load time.
type converter struct {
	path    string
	visited map[*openapi3.Schema]struct{}
}

func newConverter(path string) *converter {
	return &converter{
		path:    path,
		visited: map[*openapi3.Schema]struct{}{},
	}
}

func (c *converter) fail(kind pkgspec.ErrorKind, reason string) error {
	return pkgspec.NewError(kind, c.path, reason)
}

// declared converts a component's own schema. Unlike nested positions, a
// declared schema may be an object, enum, or union; nested positions must
// reach those through a $ref.
func (c *converter) declared(schema *openapi3.Schema) (ir.SchemaType, error) {
	switch {
	case len(schema.Enum) > 0:
		return c.enum(schema)
	case len(schema.AllOf) > 0:
		return c.flattenAllOf(schema)
	case len(schema.OneOf) > 0:
		return c.union(schema)
	case len(schema.AnyOf) > 0:
		return ir.SchemaType{}, c.fail(pkgspec.ErrorKindUnsupportedComposition, "anyOf has no canonical type mapping")
	case schema.Not != nil:
		return ir.SchemaType{}, c.fail(pkgspec.ErrorKindUnsupportedComposition, "not has no canonical type mapping")
	case schemaTypeIs(schema, openapi3.TypeObject) && len(schema.Properties) > 0:
		fields, err := c.fields(schema.Properties, schema.Required)
		if err != nil {
			return ir.SchemaType{}, err
		}
		return ir.SchemaType{Kind: ir.KindObject, Fields: fields}, nil
	default:
		return c.nested(openapi3.NewSchemaRef("", schema))
	}
}

// nested converts a schema in a field, element, value, or parameter
// position. A $ref becomes a Reference; inline object and enum shapes are
// rejected because they have no stable declaration name.
func (c *converter) nested(ref *openapi3.SchemaRef) (ir.SchemaType, error) {
	if ref == nil || ref.Value == nil {
		return ir.SchemaType{}, c.fail(pkgspec.ErrorKindUnresolvedReference, "schema reference has no resolved value")
	}
	if ref.Ref != "" {
		return ir.SchemaType{Kind: ir.KindRef, Ref: refName(ref.Ref)}, nil
	}

	schema := ref.Value
	if _, seen := c.visited[schema]; seen {
		return ir.SchemaType{}, c.fail(pkgspec.ErrorKindMalformedSchema, "schema contains itself without a reference indirection")
	}
	c.visited[schema] = struct{}{}
	defer delete(c.visited, schema)

	switch {
	case len(schema.Enum) > 0:
		return ir.SchemaType{}, c.fail(pkgspec.ErrorKindMalformedSchema, "inline enums must be declared as named components")
	case len(schema.AllOf) > 0 || len(schema.OneOf) > 0 || len(schema.AnyOf) > 0 || schema.Not != nil:
		return ir.SchemaType{}, c.fail(pkgspec.ErrorKindUnsupportedComposition, "composition constructs must be declared as named components")
	}

	switch {
	case schemaTypeIs(schema, openapi3.TypeString):
		switch schema.Format {
		case "date-time":
			return scalar(ir.ScalarDateTime), nil
		case "uri":
			return scalar(ir.ScalarURI), nil
		default:
			return scalar(ir.ScalarString), nil
		}
	case schemaTypeIs(schema, openapi3.TypeInteger):
		switch schema.Format {
		case "int32":
			return scalar(ir.ScalarInt32), nil
		case "uint64":
			return scalar(ir.ScalarUInt64), nil
		default:
			return scalar(ir.ScalarInt64), nil
		}
	case schemaTypeIs(schema, openapi3.TypeNumber):
		return scalar(ir.ScalarFloat64), nil
	case schemaTypeIs(schema, openapi3.TypeBoolean):
		return scalar(ir.ScalarBool), nil
	case schemaTypeIs(schema, openapi3.TypeArray):
		if schema.Items == nil {
			return ir.SchemaType{}, c.fail(pkgspec.ErrorKindMalformedSchema, "array schema declares no items")
		}
		elem, err := c.nested(schema.Items)
		if err != nil {
			return ir.SchemaType{}, err
		}
		kind := ir.KindArray
		if schema.UniqueItems {
			kind = ir.KindSet
		}
		return ir.SchemaType{Kind: kind, Elem: &elem}, nil
	case schemaTypeIs(schema, openapi3.TypeObject):
		if len(schema.Properties) > 0 {
			return ir.SchemaType{}, c.fail(pkgspec.ErrorKindMalformedSchema, "inline objects must be declared as named components")
		}
		if schema.AdditionalProperties.Schema != nil {
			value, err := c.nested(schema.AdditionalProperties.Schema)
			if err != nil {
				return ir.SchemaType{}, err
			}
			return ir.SchemaType{Kind: ir.KindMap, Value: &value}, nil
		}
		return scalar(ir.ScalarJSON), nil
	default:
		// No declared type: an arbitrary JSON value.
		return scalar(ir.ScalarJSON), nil
	}
}

// fields converts an object's property map into an ordered field list.
// Properties are sorted by name so output is deterministic regardless of
// document key order.
func (c *converter) fields(properties openapi3.Schemas, required []string) ([]ir.Field, error) {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	requiredSet := make(map[string]struct{}, len(required))
	for _, name := range required {
		requiredSet[name] = struct{}{}
	}

	fields := make([]ir.Field, 0, len(names))
	for _, name := range names {
		ref := properties[name]
		fieldType, err := c.nested(ref)
		if err != nil {
			return nil, err
		}

		field := ir.Field{Name: name, Type: fieldType}
		if _, ok := requiredSet[name]; ok {
			field.Required = true
		}
		if ref.Value != nil {
			field.Nullable = ref.Value.Nullable
			field.Description = ref.Value.Description
			field.Deprecated = ref.Value.Deprecated
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// flattenAllOf merges every allOf member's field list into one object. Field
// name collisions across merged schemas are a load error.
func (c *converter) flattenAllOf(schema *openapi3.Schema) (ir.SchemaType, error) {
	var merged []ir.Field
	seen := make(map[string]struct{})

	var merge func(refs openapi3.SchemaRefs) error
	merge = func(refs openapi3.SchemaRefs) error {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				return c.fail(pkgspec.ErrorKindUnresolvedReference, "allOf member has no resolved value")
			}
			member := ref.Value
			if len(member.AllOf) > 0 {
				if err := merge(member.AllOf); err != nil {
					return err
				}
				continue
			}
			if !schemaTypeIs(member, openapi3.TypeObject) || len(member.Properties) == 0 {
				return c.fail(pkgspec.ErrorKindUnsupportedComposition, "allOf members must be object schemas with properties")
			}
			fields, err := c.fields(member.Properties, member.Required)
			if err != nil {
				return err
			}
			for _, f := range fields {
				if _, dup := seen[f.Name]; dup {
					return c.fail(pkgspec.ErrorKindMalformedSchema, fmt.Sprintf("field %q collides across merged schemas", f.Name))
				}
				seen[f.Name] = struct{}{}
				merged = append(merged, f)
			}
		}
		return nil
	}

	if err := merge(schema.AllOf); err != nil {
		return ir.SchemaType{}, err
	}

	// Merged field order is normalised the same way plain objects are.
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return ir.SchemaType{Kind: ir.KindObject, Fields: merged}, nil
}

// union converts a oneOf over component references. oneOf over inline
// schemas has no stable member names and is rejected.
func (c *converter) union(schema *openapi3.Schema) (ir.SchemaType, error) {
	members := make([]string, 0, len(schema.OneOf))
	for _, ref := range schema.OneOf {
		if ref == nil || ref.Ref == "" {
			return ir.SchemaType{}, c.fail(pkgspec.ErrorKindUnsupportedComposition, "oneOf members must all be component references")
		}
		members = append(members, refName(ref.Ref))
	}
	return ir.SchemaType{Kind: ir.KindUnion, Members: members}, nil
}

// enum converts an enum schema. String enums name variants after their
// literals; integer enums require x-enum-varnames to supply variant names.
func (c *converter) enum(schema *openapi3.Schema) (ir.SchemaType, error) {
	values := make([]ir.EnumValue, 0, len(schema.Enum))

	if schemaTypeIs(schema, openapi3.TypeInteger) {
		names, err := c.enumVariantNames(schema)
		if err != nil {
			return ir.SchemaType{}, err
		}
		for i, raw := range schema.Enum {
			num, ok := raw.(float64)
			if !ok {
				return ir.SchemaType{}, c.fail(pkgspec.ErrorKindMalformedSchema, "integer enum carries a non-numeric value")
			}
			values = append(values, ir.EnumValue{Name: names[i], Value: int64(num)})
		}
		return ir.SchemaType{Kind: ir.KindEnum, Values: values}, nil
	}

	for _, raw := range schema.Enum {
		s, ok := raw.(string)
		if !ok {
			return ir.SchemaType{}, c.fail(pkgspec.ErrorKindMalformedSchema, "string enum carries a non-string value")
		}
		values = append(values, ir.EnumValue{Name: s, Value: s})
	}
	return ir.SchemaType{Kind: ir.KindEnum, Values: values}, nil
}

func (c *converter) enumVariantNames(schema *openapi3.Schema) ([]string, error) {
	raw, ok := schema.Extensions[enumNamesExtension]
	if !ok {
		return nil, c.fail(pkgspec.ErrorKindMalformedSchema, "integer enums require "+enumNamesExtension)
	}
	list, ok := raw.([]any)
	if !ok || len(list) != len(schema.Enum) {
		return nil, c.fail(pkgspec.ErrorKindMalformedSchema, enumNamesExtension+" must list one name per enum value")
	}
	names := make([]string, len(list))
	for i, entry := range list {
		name, ok := entry.(string)
		if !ok || name == "" {
			return nil, c.fail(pkgspec.ErrorKindMalformedSchema, enumNamesExtension+" entries must be non-empty strings")
		}
		names[i] = name
	}
	return names, nil
}

func scalar(s ir.Scalar) ir.SchemaType {
	return ir.SchemaType{Kind: ir.KindScalar, Scalar: s}
}

func schemaTypeIs(schema *openapi3.Schema, want string) bool {
	return schema.Type != nil && schema.Type.Is(want)
}

// refName extracts the component name from a $ref token.
func refName(ref string) string {
	if idx := strings.LastIndexByte(ref, '/'); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
