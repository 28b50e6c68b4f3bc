// Package ir holds the canonical, language-agnostic type model built once
// from an API description. Everything in this package is read-only after the
// builder phase: downstream components (type mappers, dependency resolution,
// template rendering) share the same instances without copying or locking.
package ir

// Kind discriminates the SchemaType variants. Exactly one variant's payload
// fields are meaningful for a given kind.
type Kind string

const (
	KindScalar Kind = "scalar"
	KindArray  Kind = "array"
	KindSet    Kind = "set"
	KindMap    Kind = "map"
	KindObject Kind = "object"
	KindEnum   Kind = "enum"
	KindUnion  Kind = "union"
	KindRef    Kind = "ref"
)

// Scalar enumerates the primitive kinds a KindScalar type can carry.
type Scalar string

const (
	ScalarBool     Scalar = "bool"
	ScalarInt32    Scalar = "int32"
	ScalarInt64    Scalar = "int64"
	ScalarUInt64   Scalar = "uint64"
	ScalarFloat64  Scalar = "float64"
	ScalarString   Scalar = "string"
	ScalarDateTime Scalar = "datetime"
	ScalarURI      Scalar = "uri"
	// ScalarJSON is an arbitrary JSON object with no declared shape.
	ScalarJSON Scalar = "json"
)

// SchemaType is the tagged variant at the heart of the IR. Ownership is
// strictly tree-shaped: KindRef carries only a component name, so mutually
// recursive components never form cyclic ownership.
type SchemaType struct {
	Kind Kind

	// Scalar is set when Kind == KindScalar.
	Scalar Scalar
	// Elem is the element type for KindArray and KindSet.
	Elem *SchemaType
	// Value is the value type for KindMap; map keys are always strings.
	Value *SchemaType
	// Fields is the ordered field list for KindObject.
	Fields []Field
	// Values is the ordered value list for KindEnum, preserving declaration
	// order from the source document.
	Values []EnumValue
	// Members lists the referenced component names for KindUnion.
	Members []string
	// Ref is the component name for KindRef.
	Ref string
}

// IsScalar reports whether the type is a primitive.
func (t SchemaType) IsScalar() bool { return t.Kind == KindScalar }

// IsContainer reports whether the type wraps an element or value type.
func (t SchemaType) IsContainer() bool {
	return t.Kind == KindArray || t.Kind == KindSet || t.Kind == KindMap
}

// IsObject reports whether the type is a named-field object.
func (t SchemaType) IsObject() bool { return t.Kind == KindObject }

// IsEnum reports whether the type is an enum.
func (t SchemaType) IsEnum() bool { return t.Kind == KindEnum }

// IsUnion reports whether the type is a union of component references.
func (t SchemaType) IsUnion() bool { return t.Kind == KindUnion }

// IsStringEnum reports whether the enum's values are string literals.
// Integer and string values never mix within one enum.
func (t SchemaType) IsStringEnum() bool {
	return len(t.Values) > 0 && t.Values[0].IsString()
}

// HasScalar reports whether the named scalar appears anywhere in the type
// tree, without following component references. Templates use this to decide
// which runtime imports a generated file needs.
func (t SchemaType) HasScalar(name string) bool {
	if t.Kind == KindScalar {
		return string(t.Scalar) == name
	}
	if t.Elem != nil && t.Elem.HasScalar(name) {
		return true
	}
	if t.Value != nil && t.Value.HasScalar(name) {
		return true
	}
	for _, f := range t.Fields {
		if f.Type.HasScalar(name) {
			return true
		}
	}
	return false
}

// EnumValue is one enum member. Name is the identifier used in generated
// code; Value is the underlying literal (string for string enums, int64 for
// integer enums).
type EnumValue struct {
	Name  string
	Value any
}

// IsString reports whether the value is a string literal. Templates branch on
// this to quote string values and leave integer values bare.
func (v EnumValue) IsString() bool {
	_, ok := v.Value.(string)
	return ok
}

// Field is a single named member of an object component.
//
// Required and Nullable combine into exactly three declaration shapes:
// required non-nullable (bare), required nullable (wrapped optional, no
// default), and non-required (wrapped optional, absent by default).
type Field struct {
	Name        string
	Type        SchemaType
	Required    bool
	Nullable    bool
	Description string
	Deprecated  bool
}

// Component is a named, registry-resident type definition.
type Component struct {
	Name        string
	Description string
	Deprecated  bool
	Type        SchemaType
}

// Parameter is an operation input: a path, query, or header parameter.
type Parameter struct {
	Name        string
	Type        SchemaType
	Required    bool
	Description string
}

// Operation is one HTTP method bound to one path template.
type Operation struct {
	// ID is the raw operation identifier from the source document.
	ID string
	// Name is the identifier used for the operation in generated code.
	Name        string
	Method      string
	Path        string
	Description string
	Deprecated  bool

	PathParams   []Parameter
	QueryParams  []Parameter
	HeaderParams []Parameter

	// RequestBody names the component used as the request payload, empty
	// when the operation takes no body.
	RequestBody string
	// RequestBodyAllOptional is set when every field of the request body
	// component is optional, letting generated signatures omit the argument.
	RequestBodyAllOptional bool
	// ResponseBody names the component returned on success, empty when the
	// operation returns nothing.
	ResponseBody string
}

// HasQueryOrHeaderParams reports whether the operation needs an options
// aggregate type in generated code.
func (op Operation) HasQueryOrHeaderParams() bool {
	return len(op.QueryParams) > 0 || len(op.HeaderParams) > 0
}

// HasRequiredQueryOrHeaderParams reports whether any query or header
// parameter is required.
func (op Operation) HasRequiredQueryOrHeaderParams() bool {
	for _, p := range op.QueryParams {
		if p.Required {
			return true
		}
	}
	for _, p := range op.HeaderParams {
		if p.Required {
			return true
		}
	}
	return false
}

// Resource is a named group of operations sharing a generated namespace.
type Resource struct {
	Name       string
	Operations []Operation
}

// HasPathParams reports whether any operation interpolates a path parameter.
func (r Resource) HasPathParams() bool {
	for _, op := range r.Operations {
		if len(op.PathParams) > 0 {
			return true
		}
	}
	return false
}

// Spec is the root of the IR: the component registry plus the ordered
// resource list. It is built once per run and never mutated afterwards.
type Spec struct {
	Registry  *Registry
	Resources []Resource
}
