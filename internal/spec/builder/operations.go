package builder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/sdkgen/pkg/ir"
	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

const hiddenExtension = "x-hidden"

// methodOrder fixes the per-path iteration order so resource contents are
// deterministic regardless of document key order.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// buildResources walks every path item, converts each method into an
// Operation, and groups operations into resources keyed by the operation's
// first tag, falling back to the first path segment.
func (b *Builder) buildResources(ctx context.Context, parsed *openapi3.T) ([]ir.Resource, error) {
	if parsed.Paths == nil || parsed.Paths.Len() == 0 {
		return nil, nil
	}

	pathMap := parsed.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for path := range pathMap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	grouped := make(map[string][]ir.Operation)
	var order []string

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := pathMap[path]
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			rawOp := item.GetOperation(method)
			if rawOp == nil {
				continue
			}
			if hidden(rawOp.Extensions) && !b.options.IncludeHidden {
				continue
			}

			op, err := b.buildOperation(method, path, item, rawOp)
			if err != nil {
				return nil, err
			}

			resource := resourceName(rawOp, path)
			if _, seen := grouped[resource]; !seen {
				order = append(order, resource)
			}
			grouped[resource] = append(grouped[resource], op)
		}
	}

	sort.Strings(order)
	resources := make([]ir.Resource, 0, len(order))
	for _, name := range order {
		resources = append(resources, ir.Resource{Name: name, Operations: grouped[name]})
	}
	return resources, nil
}

func (b *Builder) buildOperation(method, path string, item *openapi3.PathItem, rawOp *openapi3.Operation) (ir.Operation, error) {
	where := method + " " + path

	id := rawOp.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	op := ir.Operation{
		ID:          id,
		Name:        operationName(id),
		Method:      method,
		Path:        path,
		Description: rawOp.Description,
		Deprecated:  rawOp.Deprecated,
	}
	if op.Description == "" {
		op.Description = rawOp.Summary
	}

	params := make(openapi3.Parameters, 0, len(item.Parameters)+len(rawOp.Parameters))
	params = append(params, item.Parameters...)
	params = append(params, rawOp.Parameters...)

	byName := make(map[string]ir.Parameter)
	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			return ir.Operation{}, pkgspec.NewError(pkgspec.ErrorKindUnresolvedReference, where, "parameter has no resolved value")
		}
		raw := ref.Value

		conv := newConverter(where + "/" + raw.Name)
		paramType, err := conv.nested(raw.Schema)
		if err != nil {
			return ir.Operation{}, err
		}

		param := ir.Parameter{
			Name:        raw.Name,
			Type:        paramType,
			Required:    raw.Required,
			Description: raw.Description,
		}

		switch raw.In {
		case openapi3.ParameterInPath:
			byName[raw.Name] = param
		case openapi3.ParameterInQuery:
			op.QueryParams = append(op.QueryParams, param)
		case openapi3.ParameterInHeader:
			op.HeaderParams = append(op.HeaderParams, param)
		}
	}

	// Path parameters are ordered by their slot position in the template,
	// and the declared set must match the template's slots exactly.
	slots, err := pathSlots(path)
	if err != nil {
		return ir.Operation{}, pkgspec.NewError(pkgspec.ErrorKindMalformedSchema, where, err.Error())
	}
	for _, slot := range slots {
		param, ok := byName[slot]
		if !ok {
			return ir.Operation{}, pkgspec.NewError(pkgspec.ErrorKindPathParameterMismatch, where, fmt.Sprintf("path slot %q has no declared parameter", slot))
		}
		op.PathParams = append(op.PathParams, param)
		delete(byName, slot)
	}
	for name := range byName {
		return ir.Operation{}, pkgspec.NewError(pkgspec.ErrorKindPathParameterMismatch, where, fmt.Sprintf("parameter %q has no slot in the path template", name))
	}

	op.RequestBody = bodyComponent(rawOp.RequestBody)
	op.ResponseBody = responseComponent(rawOp.Responses)

	return op, nil
}

// bodyComponent extracts the named component used as the JSON request
// payload. Inline request schemas have no stable declaration name and are
// ignored.
func bodyComponent(body *openapi3.RequestBodyRef) string {
	if body == nil || body.Value == nil {
		return ""
	}
	mt, ok := body.Value.Content["application/json"]
	if !ok || mt.Schema == nil || mt.Schema.Ref == "" {
		return ""
	}
	return refName(mt.Schema.Ref)
}

// responseComponent extracts the named component returned by the first 2xx
// JSON response, in status order.
func responseComponent(responses *openapi3.Responses) string {
	if responses == nil || responses.Len() == 0 {
		return ""
	}

	statuses := make([]string, 0, responses.Len())
	for status := range responses.Map() {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	for _, status := range statuses {
		if !strings.HasPrefix(status, "2") {
			continue
		}
		ref := responses.Map()[status]
		if ref == nil || ref.Value == nil {
			continue
		}
		mt, ok := ref.Value.Content["application/json"]
		if !ok || mt.Schema == nil || mt.Schema.Ref == "" {
			continue
		}
		return refName(mt.Schema.Ref)
	}
	return ""
}

// operationName derives the code name from the operation id: the last
// dot-separated segment, so "v1.pets.list" names the operation "list".
func operationName(id string) string {
	if idx := strings.LastIndexByte(id, '.'); idx >= 0 && idx+1 < len(id) {
		return id[idx+1:]
	}
	return id
}

// resourceName picks the grouping key: the first tag when present, the first
// path segment otherwise.
func resourceName(rawOp *openapi3.Operation, path string) string {
	if len(rawOp.Tags) > 0 && rawOp.Tags[0] != "" {
		return rawOp.Tags[0]
	}
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// hidden reports whether the operation opts out of generation through the
// x-hidden extension.
func hidden(extensions map[string]any) bool {
	raw, ok := extensions[hiddenExtension]
	if !ok {
		return false
	}
	flag, ok := raw.(bool)
	return ok && flag
}

// pathSlots returns the named placeholders of a path template in order.
func pathSlots(path string) ([]string, error) {
	var slots []string
	rest := path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return slots, nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated placeholder in path template %q", path)
		}
		name := rest[open+1 : open+end]
		if name == "" {
			return nil, fmt.Errorf("empty placeholder in path template %q", path)
		}
		slots = append(slots, name)
		rest = rest[open+end+1:]
	}
}
