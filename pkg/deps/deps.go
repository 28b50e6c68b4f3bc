// Package deps computes, for each emitted unit, the set of named components
// it references. Consumers use the result to emit only the imports a file
// actually needs and, where a target requires declaration-before-use, to
// order sibling declarations. Cycles among named types are flagged rather
// than silently reordered; each target breaks them with its own mechanism.
package deps

import (
	"sort"

	"github.com/goliatone/sdkgen/pkg/ir"
)

// ForComponent returns the names of every component the given component
// references, directly or transitively, in first-encounter depth-first
// order. The component's own name is never included. The walk never
// re-descends into a name it has already visited, so it terminates on
// arbitrarily deep or mutually recursive graphs.
func ForComponent(reg *ir.Registry, c ir.Component) []string {
	w := newWalker(reg, c.Name)
	w.walkType(c.Type)
	return w.found
}

// ForResource returns the referenced component names for every operation of
// a resource, in first-encounter order across parameters, request bodies,
// and response bodies.
func ForResource(reg *ir.Registry, r ir.Resource) []string {
	w := newWalker(reg, "")
	for _, op := range r.Operations {
		for _, p := range op.PathParams {
			w.walkType(p.Type)
		}
		for _, p := range op.QueryParams {
			w.walkType(p.Type)
		}
		for _, p := range op.HeaderParams {
			w.walkType(p.Type)
		}
		if op.RequestBody != "" {
			w.walkRef(op.RequestBody)
		}
		if op.ResponseBody != "" {
			w.walkRef(op.ResponseBody)
		}
	}
	return w.found
}

type walker struct {
	reg     *ir.Registry
	self    string
	visited map[string]struct{}
	found   []string
}

func newWalker(reg *ir.Registry, self string) *walker {
	return &walker{
		reg:     reg,
		self:    self,
		visited: map[string]struct{}{},
	}
}

func (w *walker) walkRef(name string) {
	if _, seen := w.visited[name]; seen {
		return
	}
	w.visited[name] = struct{}{}
	if name != w.self {
		w.found = append(w.found, name)
	}
	if c, ok := w.reg.Get(name); ok {
		w.walkType(c.Type)
	}
}

func (w *walker) walkType(t ir.SchemaType) {
	switch t.Kind {
	case ir.KindRef:
		w.walkRef(t.Ref)
	case ir.KindArray, ir.KindSet:
		if t.Elem != nil {
			w.walkType(*t.Elem)
		}
	case ir.KindMap:
		if t.Value != nil {
			w.walkType(*t.Value)
		}
	case ir.KindObject:
		for _, f := range t.Fields {
			w.walkType(f.Type)
		}
	case ir.KindUnion:
		for _, m := range t.Members {
			w.walkRef(m)
		}
	}
}

// Cycles reports every group of components that reference each other
// cyclically, including self-referencing components. Groups and their
// members are returned in sorted order. A cycle through Reference nodes is
// legal in the IR; this function only flags it so per-target policy can
// apply the right forward-reference mechanism.
func Cycles(reg *ir.Registry) [][]string {
	names := reg.Names()
	edges := make(map[string][]string, len(names))
	for _, name := range names {
		c, _ := reg.Get(name)
		edges[name] = directRefs(c.Type)
	}

	scc := tarjan(names, edges)

	var cycles [][]string
	for _, group := range scc {
		if len(group) > 1 {
			sort.Strings(group)
			cycles = append(cycles, group)
			continue
		}
		// A singleton is a cycle only if it references itself.
		name := group[0]
		for _, ref := range edges[name] {
			if ref == name {
				cycles = append(cycles, group)
				break
			}
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func directRefs(t ir.SchemaType) []string {
	var refs []string
	var walk func(ir.SchemaType)
	walk = func(t ir.SchemaType) {
		switch t.Kind {
		case ir.KindRef:
			refs = append(refs, t.Ref)
		case ir.KindArray, ir.KindSet:
			if t.Elem != nil {
				walk(*t.Elem)
			}
		case ir.KindMap:
			if t.Value != nil {
				walk(*t.Value)
			}
		case ir.KindObject:
			for _, f := range t.Fields {
				walk(f.Type)
			}
		case ir.KindUnion:
			refs = append(refs, t.Members...)
		}
	}
	walk(t)
	return refs
}

func tarjan(names []string, edges map[string][]string) [][]string {
	index := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	var next int
	var out [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			if _, known := edges[w]; !known {
				continue
			}
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var group []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				group = append(group, w)
				if w == v {
					break
				}
			}
			out = append(out, group)
		}
	}

	for _, v := range names {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return out
}
