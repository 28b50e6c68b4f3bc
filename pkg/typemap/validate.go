package typemap

import (
	"github.com/goliatone/sdkgen/pkg/ir"
	"github.com/goliatone/sdkgen/pkg/target"
)

// ValidateSpec walks every component and operation of the spec and reports
// the first schema shape the target cannot express. A non-nil result is an
// *UnsupportedSchemaError carrying the offending component or operation
// path; it is fatal for this target only.
func ValidateSpec(t target.Target, spec *ir.Spec) error {
	for _, c := range spec.Registry.Components() {
		if err := validateType(t, c.Type, c.Name); err != nil {
			return err
		}
	}
	for _, res := range spec.Resources {
		for _, op := range res.Operations {
			path := res.Name + "." + op.Name
			params := make([]ir.Parameter, 0, len(op.PathParams)+len(op.QueryParams)+len(op.HeaderParams))
			params = append(params, op.PathParams...)
			params = append(params, op.QueryParams...)
			params = append(params, op.HeaderParams...)
			for _, p := range params {
				if err := validateType(t, p.Type, path+"."+p.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateType(t target.Target, st ir.SchemaType, path string) error {
	switch st.Kind {
	case ir.KindObject:
		for _, f := range st.Fields {
			if err := validateType(t, f.Type, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	case ir.KindEnum:
		return nil
	case ir.KindUnion:
		// Declaration-level support: targets with sum types (or type
		// aliases over unions) accept union components even though the
		// union has no inline expression.
		switch t.Name {
		case "typescript", "python", "rust":
			return nil
		}
		return &UnsupportedSchemaError{
			Target: t.Name,
			Path:   path,
			Reason: "union components have no mapping for this target",
		}
	case ir.KindArray, ir.KindSet:
		return validateType(t, *st.Elem, path)
	case ir.KindMap:
		return validateType(t, *st.Value, path)
	default:
		if _, err := TypeExpr(t, st); err != nil {
			if u, ok := err.(*UnsupportedSchemaError); ok {
				u.Path = path
				return u
			}
			return err
		}
		return nil
	}
}
