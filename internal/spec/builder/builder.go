// Package builder turns a raw API-description document into the immutable
// IR: a component registry plus an ordered resource list. All load-time
// failures surface as *spec.Error; no partial IR is ever returned.
package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/sdkgen/pkg/ir"
	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

// Builder implements spec.Builder using kin-openapi for document parsing and
// reference resolution.
type Builder struct {
	options pkgspec.BuildOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgspec.Builder = (*Builder)(nil)

// New constructs a Builder with the given options.
func New(options pkgspec.BuildOptions) *Builder {
	return &Builder{options: options}
}

// Build parses the document and produces the IR.
func (b *Builder) Build(ctx context.Context, doc pkgspec.Document) (*ir.Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, pkgspec.NewError(pkgspec.ErrorKindMalformedSchema, doc.Location(), "document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: true,
	}
	parsed, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, pkgspec.NewError(pkgspec.ErrorKindMalformedSchema, doc.Location(), err.Error())
	}

	components, err := b.buildComponents(parsed)
	if err != nil {
		return nil, err
	}

	registry, err := ir.NewRegistry(components)
	if err != nil {
		return nil, pkgspec.NewError(pkgspec.ErrorKindMalformedSchema, doc.Location(), err.Error())
	}

	resources, err := b.buildResources(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 && !b.options.AllowPartialDocuments {
		return nil, pkgspec.NewError(pkgspec.ErrorKindMalformedSchema, doc.Location(), "document declares no operations")
	}

	spec := &ir.Spec{Registry: registry, Resources: resources}
	if err := validateReferences(spec); err != nil {
		return nil, err
	}
	markAllOptionalBodies(spec)

	return spec, nil
}

// buildComponents converts every declared schema into a named component, in
// sorted name order so registry construction is deterministic.
func (b *Builder) buildComponents(parsed *openapi3.T) ([]ir.Component, error) {
	if parsed.Components == nil || len(parsed.Components.Schemas) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(parsed.Components.Schemas))
	for name := range parsed.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make([]ir.Component, 0, len(names))
	for _, name := range names {
		ref := parsed.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			return nil, pkgspec.NewError(pkgspec.ErrorKindUnresolvedReference, "#/components/schemas/"+name, "schema has no resolved value")
		}

		conv := newConverter("#/components/schemas/" + name)
		schemaType, err := conv.declared(ref.Value)
		if err != nil {
			return nil, err
		}

		components = append(components, ir.Component{
			Name:        name,
			Description: ref.Value.Description,
			Deprecated:  ref.Value.Deprecated,
			Type:        schemaType,
		})
	}
	return components, nil
}

// validateReferences checks that every Reference in the graph points at a
// registry entry. Dangling references are a load-time error.
func validateReferences(spec *ir.Spec) error {
	check := func(name, where string) error {
		if name == "" || spec.Registry.Has(name) {
			return nil
		}
		return pkgspec.NewError(pkgspec.ErrorKindUnresolvedReference, where, fmt.Sprintf("no component named %q", name))
	}

	var walk func(t ir.SchemaType, where string) error
	walk = func(t ir.SchemaType, where string) error {
		switch t.Kind {
		case ir.KindRef:
			return check(t.Ref, where)
		case ir.KindArray, ir.KindSet:
			if t.Elem != nil {
				return walk(*t.Elem, where)
			}
		case ir.KindMap:
			if t.Value != nil {
				return walk(*t.Value, where)
			}
		case ir.KindObject:
			for _, f := range t.Fields {
				if err := walk(f.Type, where+"/"+f.Name); err != nil {
					return err
				}
			}
		case ir.KindUnion:
			for _, m := range t.Members {
				if err := check(m, where); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, c := range spec.Registry.Components() {
		if err := walk(c.Type, "#/components/schemas/"+c.Name); err != nil {
			return err
		}
	}
	for _, r := range spec.Resources {
		for _, op := range r.Operations {
			where := op.Method + " " + op.Path
			for _, params := range [][]ir.Parameter{op.PathParams, op.QueryParams, op.HeaderParams} {
				for _, p := range params {
					if err := walk(p.Type, where+"/"+p.Name); err != nil {
						return err
					}
				}
			}
			if err := check(op.RequestBody, where); err != nil {
				return err
			}
			if err := check(op.ResponseBody, where); err != nil {
				return err
			}
		}
	}
	return nil
}

// markAllOptionalBodies sets RequestBodyAllOptional on operations whose
// request-body component is an object with no required fields. Templates use
// the flag to make the body argument omittable.
func markAllOptionalBodies(spec *ir.Spec) {
	for ri := range spec.Resources {
		ops := spec.Resources[ri].Operations
		for oi := range ops {
			name := ops[oi].RequestBody
			if name == "" {
				continue
			}
			c, ok := spec.Registry.Get(name)
			if !ok || c.Type.Kind != ir.KindObject || len(c.Type.Fields) == 0 {
				continue
			}
			allOptional := true
			for _, f := range c.Type.Fields {
				if f.Required {
					allOptional = false
					break
				}
			}
			ops[oi].RequestBodyAllOptional = allOptional
		}
	}
}
