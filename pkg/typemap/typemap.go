// Package typemap maps IR types into target-language type expressions. The
// mapping is pure: the same SchemaType and target always produce the same
// expression. Schemas a target cannot express surface as
// *UnsupportedSchemaError, which is fatal for that target only.
package typemap

import (
	"fmt"
	"strings"

	"github.com/goliatone/sdkgen/pkg/ir"
	"github.com/goliatone/sdkgen/pkg/target"
)

// UnsupportedSchemaError marks a schema shape with no defined mapping for a
// target. Other targets continue unaffected.
type UnsupportedSchemaError struct {
	Target string
	Path   string
	Reason string
}

func (e *UnsupportedSchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("typemap: unsupported schema for target %s: %s", e.Target, e.Reason)
	}
	return fmt.Sprintf("typemap: unsupported schema at %s for target %s: %s", e.Path, e.Target, e.Reason)
}

// TypeExpr renders the target-language type expression for a schema type.
// Object and enum variants have no inline expression: they only exist as
// named component declarations, which templates render structurally.
func TypeExpr(t target.Target, st ir.SchemaType) (string, error) {
	switch t.Name {
	case "go":
		return goType(t, st)
	case "typescript":
		return tsType(t, st)
	case "python":
		return pythonType(t, st)
	case "rust":
		return rustType(t, st)
	default:
		return "", fmt.Errorf("typemap: unknown target %q", t.Name)
	}
}

func goType(t target.Target, st ir.SchemaType) (string, error) {
	switch st.Kind {
	case ir.KindScalar:
		switch st.Scalar {
		case ir.ScalarBool:
			return "bool", nil
		case ir.ScalarInt32:
			return "int32", nil
		case ir.ScalarInt64:
			return "int64", nil
		case ir.ScalarUInt64:
			return "uint64", nil
		case ir.ScalarFloat64:
			return "float64", nil
		case ir.ScalarString, ir.ScalarURI:
			return "string", nil
		case ir.ScalarDateTime:
			return "time.Time", nil
		case ir.ScalarJSON:
			return "map[string]any", nil
		}
	case ir.KindArray, ir.KindSet:
		elem, err := goType(t, *st.Elem)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case ir.KindMap:
		value, err := goType(t, *st.Value)
		if err != nil {
			return "", err
		}
		return "map[string]" + value, nil
	case ir.KindRef:
		return t.TypeName(st.Ref), nil
	case ir.KindUnion:
		return "", &UnsupportedSchemaError{Target: t.Name, Reason: "go has no sum types; union components cannot be expressed"}
	}
	return "", unsupported(t, st)
}

func tsType(t target.Target, st ir.SchemaType) (string, error) {
	switch st.Kind {
	case ir.KindScalar:
		switch st.Scalar {
		case ir.ScalarBool:
			return "boolean", nil
		case ir.ScalarInt32, ir.ScalarInt64, ir.ScalarUInt64, ir.ScalarFloat64:
			return "number", nil
		case ir.ScalarString, ir.ScalarURI:
			return "string", nil
		case ir.ScalarDateTime:
			return "Date", nil
		case ir.ScalarJSON:
			return "any", nil
		}
	case ir.KindArray, ir.KindSet:
		elem, err := tsType(t, *st.Elem)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	case ir.KindMap:
		value, err := tsType(t, *st.Value)
		if err != nil {
			return "", err
		}
		return "{ [key: string]: " + value + " }", nil
	case ir.KindRef:
		return t.TypeName(st.Ref), nil
	case ir.KindUnion:
		names := make([]string, 0, len(st.Members))
		for _, m := range st.Members {
			names = append(names, t.TypeName(m))
		}
		return strings.Join(names, " | "), nil
	}
	return "", unsupported(t, st)
}

func pythonType(t target.Target, st ir.SchemaType) (string, error) {
	switch st.Kind {
	case ir.KindScalar:
		switch st.Scalar {
		case ir.ScalarBool:
			return "bool", nil
		case ir.ScalarInt32, ir.ScalarInt64, ir.ScalarUInt64:
			return "int", nil
		case ir.ScalarFloat64:
			return "float", nil
		case ir.ScalarString, ir.ScalarURI:
			return "str", nil
		case ir.ScalarDateTime:
			return "datetime", nil
		case ir.ScalarJSON:
			return "t.Dict[str, t.Any]", nil
		}
	case ir.KindArray, ir.KindSet:
		elem, err := pythonType(t, *st.Elem)
		if err != nil {
			return "", err
		}
		return "t.List[" + elem + "]", nil
	case ir.KindMap:
		value, err := pythonType(t, *st.Value)
		if err != nil {
			return "", err
		}
		return "t.Dict[str, " + value + "]", nil
	case ir.KindRef:
		return t.TypeName(st.Ref), nil
	case ir.KindUnion:
		names := make([]string, 0, len(st.Members))
		for _, m := range st.Members {
			names = append(names, t.TypeName(m))
		}
		return "t.Union[" + strings.Join(names, ", ") + "]", nil
	}
	return "", unsupported(t, st)
}

func rustType(t target.Target, st ir.SchemaType) (string, error) {
	switch st.Kind {
	case ir.KindScalar:
		switch st.Scalar {
		case ir.ScalarBool:
			return "bool", nil
		case ir.ScalarInt32:
			return "i32", nil
		case ir.ScalarInt64:
			return "i64", nil
		case ir.ScalarUInt64:
			return "u64", nil
		case ir.ScalarFloat64:
			return "f64", nil
		case ir.ScalarString, ir.ScalarURI:
			return "String", nil
		case ir.ScalarDateTime:
			return "DateTime<Utc>", nil
		case ir.ScalarJSON:
			return "serde_json::Value", nil
		}
	case ir.KindArray, ir.KindSet:
		elem, err := rustType(t, *st.Elem)
		if err != nil {
			return "", err
		}
		return "Vec<" + elem + ">", nil
	case ir.KindMap:
		value, err := rustType(t, *st.Value)
		if err != nil {
			return "", err
		}
		return "std::collections::HashMap<String, " + value + ">", nil
	case ir.KindRef:
		return t.TypeName(st.Ref), nil
	case ir.KindUnion:
		// Unions render as named enum declarations; they have no inline
		// expression in rust.
		return "", unsupported(t, st)
	}
	return "", unsupported(t, st)
}

func unsupported(t target.Target, st ir.SchemaType) error {
	return &UnsupportedSchemaError{
		Target: t.Name,
		Reason: fmt.Sprintf("no inline type expression for %s schema", st.Kind),
	}
}
