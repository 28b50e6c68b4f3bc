package render

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/sdkgen/pkg/doccomment"
	"github.com/goliatone/sdkgen/pkg/ir"
	"github.com/goliatone/sdkgen/pkg/naming"
	"github.com/goliatone/sdkgen/pkg/target"
	"github.com/goliatone/sdkgen/pkg/typemap"

	"strings"
)

var filterSetup sync.Once

// registerFilters installs the generator filter surface into pongo2's
// process-wide filter table. Registration is idempotent; the filter set is
// closed and identical for every template that invokes it.
func registerFilters() {
	filterSetup.Do(func() {
		// Output is source text, not HTML; entity escaping would corrupt
		// quotes and generic type brackets.
		pongo2.SetAutoescape(false)

		register := func(name string, fn pongo2.FilterFunction) {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}

		register("to_snake_case", caseFilter(naming.ToSnake))
		register("to_upper_snake_case", caseFilter(naming.ToUpperSnake))
		register("to_lower_camel_case", caseFilter(naming.ToLowerCamel))
		register("to_upper_camel_case", caseFilter(naming.ToUpperCamel))

		register("type_name", identFilter(target.Target.TypeName))
		register("field_name", identFilter(target.Target.FieldName))
		register("func_name", identFilter(target.Target.FuncName))
		register("var_name", identFilter(target.Target.VarName))
		register("const_name", identFilter(target.Target.ConstName))
		register("file_name", identFilter(target.Target.FileName))

		register("path_expr", filterPathExpr)

		register("to_doc_comment", filterDocComment)
		register("with_deprecation", filterWithDeprecation)

		register("type_expr", filterTypeExpr)
		register("field_decl", filterFieldDecl)
		register("param_decl", filterParamDecl)

		register("has_query_or_header_params", filterHasParams)
		register("has_required_query_or_header_params", filterHasRequiredParams)

		register("strip_trailing_comma", filterStripTrailingComma)
	})
}

func caseFilter(convert func(string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(convert(in.String())), nil
	}
}

func identFilter(convert func(target.Target, string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		tgt, perr := targetParam(param)
		if perr != nil {
			return nil, perr
		}
		return pongo2.AsValue(convert(tgt, in.String())), nil
	}
}

func filterDocComment(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	style := doccomment.Style(strings.TrimSpace(param.String()))
	switch style {
	case doccomment.StyleLine, doccomment.StyleHash, doccomment.StyleBlock, doccomment.StyleDocstring:
	default:
		return nil, filterError("to_doc_comment", fmt.Errorf("unsupported comment style %q", param.String()))
	}
	return pongo2.AsValue(doccomment.Format(in.String(), style, false)), nil
}

func filterWithDeprecation(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(doccomment.WithDeprecation(in.String(), param.IsTrue())), nil
}

func filterTypeExpr(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tgt, perr := targetParam(param)
	if perr != nil {
		return nil, perr
	}
	st, ok := schemaTypeOf(in)
	if !ok {
		return nil, filterError("type_expr", fmt.Errorf("input is not a schema type"))
	}
	expr, err := typemap.TypeExpr(tgt, st)
	if err != nil {
		return nil, filterError("type_expr", err)
	}
	return pongo2.AsValue(expr), nil
}

func filterFieldDecl(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tgt, perr := targetParam(param)
	if perr != nil {
		return nil, perr
	}
	field, ok := in.Interface().(ir.Field)
	if !ok {
		return nil, filterError("field_decl", fmt.Errorf("input is not a field"))
	}
	decl, err := typemap.FieldDecl(tgt, field)
	if err != nil {
		return nil, filterError("field_decl", err)
	}
	return pongo2.AsValue(decl), nil
}

func filterParamDecl(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tgt, perr := targetParam(param)
	if perr != nil {
		return nil, perr
	}
	p, ok := in.Interface().(ir.Parameter)
	if !ok {
		return nil, filterError("param_decl", fmt.Errorf("input is not a parameter"))
	}
	decl, err := typemap.ParamDecl(tgt, p)
	if err != nil {
		return nil, filterError("param_decl", err)
	}
	return pongo2.AsValue(decl), nil
}

func filterHasParams(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	op, ok := operationOf(in)
	if !ok {
		return nil, filterError("has_query_or_header_params", fmt.Errorf("input is not an operation"))
	}
	return pongo2.AsValue(op.HasQueryOrHeaderParams()), nil
}

func filterHasRequiredParams(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	op, ok := operationOf(in)
	if !ok {
		return nil, filterError("has_required_query_or_header_params", fmt.Errorf("input is not an operation"))
	}
	return pongo2.AsValue(op.HasRequiredQueryOrHeaderParams()), nil
}

// filterPathExpr turns a path template like /apps/{appId}/users into the
// target language's string-interpolation expression, converting each
// placeholder to the target's local-variable convention. A path with no
// placeholders renders as a plain string literal in every target.
func filterPathExpr(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tgt, perr := targetParam(param)
	if perr != nil {
		return nil, perr
	}

	path := in.String()
	segments, names, err := splitPathTemplate(path)
	if err != nil {
		return nil, filterError("path_expr", err)
	}

	if len(names) == 0 {
		return pongo2.AsValue(`"` + path + `"`), nil
	}

	vars := make([]string, len(names))
	for i, name := range names {
		vars[i] = tgt.VarName(name)
	}

	var b strings.Builder
	switch tgt.Name {
	case "go":
		b.WriteString(`fmt.Sprintf("`)
		for i, seg := range segments {
			b.WriteString(seg)
			if i < len(vars) {
				b.WriteString("%v")
			}
		}
		b.WriteString(`"`)
		for _, v := range vars {
			b.WriteString(", ")
			b.WriteString(v)
		}
		b.WriteString(")")
	case "typescript":
		b.WriteString("`")
		for i, seg := range segments {
			b.WriteString(seg)
			if i < len(vars) {
				b.WriteString("${")
				b.WriteString(vars[i])
				b.WriteString("}")
			}
		}
		b.WriteString("`")
	case "python":
		b.WriteString(`f"`)
		for i, seg := range segments {
			b.WriteString(seg)
			if i < len(vars) {
				b.WriteString("{")
				b.WriteString(vars[i])
				b.WriteString("}")
			}
		}
		b.WriteString(`"`)
	case "rust":
		b.WriteString(`format!("`)
		for i, seg := range segments {
			b.WriteString(seg)
			if i < len(vars) {
				b.WriteString("{")
				b.WriteString(vars[i])
				b.WriteString("}")
			}
		}
		b.WriteString(`")`)
	default:
		return nil, filterError("path_expr", fmt.Errorf("no interpolation form for target %q", tgt.Name))
	}
	return pongo2.AsValue(b.String()), nil
}

// splitPathTemplate separates a path template into the literal text around
// each placeholder and the ordered placeholder names.
func splitPathTemplate(path string) (segments []string, names []string, err error) {
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			segments = append(segments, rest)
			return segments, names, nil
		}
		close := strings.IndexByte(rest[open:], '}')
		if close < 0 {
			return nil, nil, fmt.Errorf("unterminated placeholder in path %q", path)
		}
		name := rest[open+1 : open+close]
		if name == "" {
			return nil, nil, fmt.Errorf("empty placeholder in path %q", path)
		}
		segments = append(segments, rest[:open])
		names = append(names, name)
		rest = rest[open+close+1:]
	}
}

func filterStripTrailingComma(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := strings.TrimRight(in.String(), " \t\n")
	s = strings.TrimSuffix(s, ",")
	return pongo2.AsValue(s), nil
}

func targetParam(param *pongo2.Value) (target.Target, *pongo2.Error) {
	name := strings.TrimSpace(param.String())
	tgt, ok := target.Lookup(name)
	if !ok {
		return target.Target{}, filterError("target", fmt.Errorf("unknown target %q", name))
	}
	return tgt, nil
}

func schemaTypeOf(in *pongo2.Value) (ir.SchemaType, bool) {
	switch v := in.Interface().(type) {
	case ir.SchemaType:
		return v, true
	case *ir.SchemaType:
		if v == nil {
			return ir.SchemaType{}, false
		}
		return *v, true
	default:
		return ir.SchemaType{}, false
	}
}

func operationOf(in *pongo2.Value) (ir.Operation, bool) {
	switch v := in.Interface().(type) {
	case ir.Operation:
		return v, true
	case *ir.Operation:
		if v == nil {
			return ir.Operation{}, false
		}
		return *v, true
	default:
		return ir.Operation{}, false
	}
}

func filterError(sender string, err error) *pongo2.Error {
	return &pongo2.Error{Sender: sender, OrigError: err}
}
