package typemap

import (
	"fmt"

	"github.com/goliatone/sdkgen/pkg/ir"
	"github.com/goliatone/sdkgen/pkg/target"
)

// Shape is one of the three declaration shapes a (required, nullable) pair
// resolves to, consistently across all targets.
type Shape int

const (
	// ShapeRequired: bare type, no default. The value must be supplied and
	// may not be null.
	ShapeRequired Shape = iota
	// ShapeRequiredNullable: wrapped-optional type, no default. The value
	// must still be supplied but may carry null.
	ShapeRequiredNullable
	// ShapeOptional: wrapped-optional type with an absent-by-default value.
	ShapeOptional
)

// ShapeOf resolves the declaration shape from a field's (required, nullable)
// pair. A non-required field is always treated as nullable-or-absent.
func ShapeOf(required, nullable bool) Shape {
	switch {
	case !required:
		return ShapeOptional
	case nullable:
		return ShapeRequiredNullable
	default:
		return ShapeRequired
	}
}

// Decl is a field or parameter declaration ready for template interpolation.
type Decl struct {
	// Type is the full type expression, including the target's optional
	// wrapper when the shape calls for one.
	Type  string
	Shape Shape
	// Optional is set for ShapeOptional, the only shape that carries an
	// absent-by-default value.
	Optional bool
	// Default is the absent-by-default literal, empty when the target
	// expresses absence structurally (pointer types, serde attributes).
	Default string
}

// FieldDecl resolves the declaration for a field in the given target.
func FieldDecl(t target.Target, f ir.Field) (Decl, error) {
	return declare(t, f.Type, ShapeOf(f.Required, f.Nullable), f.Name)
}

// ParamDecl resolves the declaration for an operation parameter. Parameters
// have no nullable marker: a parameter is either required or optional.
func ParamDecl(t target.Target, p ir.Parameter) (Decl, error) {
	return declare(t, p.Type, ShapeOf(p.Required, false), p.Name)
}

func declare(t target.Target, st ir.SchemaType, shape Shape, name string) (Decl, error) {
	expr, err := TypeExpr(t, st)
	if err != nil {
		return Decl{}, fmt.Errorf("typemap: declare %q: %w", name, err)
	}

	decl := Decl{Type: expr, Shape: shape, Optional: shape == ShapeOptional}
	if shape == ShapeRequired {
		return decl, nil
	}

	switch t.Name {
	case "go":
		decl.Type = "*" + expr
	case "typescript":
		decl.Type = expr + " | null"
	case "python":
		decl.Type = "t.Optional[" + expr + "]"
		if decl.Optional {
			decl.Default = "None"
		}
	case "rust":
		decl.Type = "Option<" + expr + ">"
	}
	return decl, nil
}
