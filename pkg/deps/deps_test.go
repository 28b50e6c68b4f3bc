package deps_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/sdkgen/pkg/deps"
	"github.com/goliatone/sdkgen/pkg/ir"
)

func ref(name string) ir.SchemaType {
	return ir.SchemaType{Kind: ir.KindRef, Ref: name}
}

func object(fields ...ir.Field) ir.SchemaType {
	return ir.SchemaType{Kind: ir.KindObject, Fields: fields}
}

func mustRegistry(t *testing.T, components ...ir.Component) *ir.Registry {
	t.Helper()
	reg, err := ir.NewRegistry(components)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestForComponent_TwoNodeCycleTerminates(t *testing.T) {
	reg := mustRegistry(t,
		ir.Component{Name: "A", Type: object(ir.Field{Name: "b", Type: ref("B")})},
		ir.Component{Name: "B", Type: object(ir.Field{Name: "a", Type: ref("A")})},
	)

	a, _ := reg.Get("A")
	got := deps.ForComponent(reg, a)
	want := []string{"B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestForComponent_ExcludesSelf(t *testing.T) {
	reg := mustRegistry(t,
		ir.Component{Name: "Node", Type: object(
			ir.Field{Name: "next", Type: ref("Node")},
			ir.Field{Name: "payload", Type: ref("Payload")},
		)},
		ir.Component{Name: "Payload", Type: object(ir.Field{Name: "value", Type: ir.SchemaType{Kind: ir.KindScalar, Scalar: ir.ScalarString}})},
	)

	node, _ := reg.Get("Node")
	got := deps.ForComponent(reg, node)
	want := []string{"Payload"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestForComponent_TransitiveThroughContainers(t *testing.T) {
	elem := ref("Inner")
	reg := mustRegistry(t,
		ir.Component{Name: "Outer", Type: object(
			ir.Field{Name: "items", Type: ir.SchemaType{Kind: ir.KindArray, Elem: &elem}},
		)},
		ir.Component{Name: "Inner", Type: object(ir.Field{Name: "leaf", Type: ref("Leaf")})},
		ir.Component{Name: "Leaf", Type: object()},
	)

	outer, _ := reg.Get("Outer")
	got := deps.ForComponent(reg, outer)
	want := []string{"Inner", "Leaf"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestForResource(t *testing.T) {
	reg := mustRegistry(t,
		ir.Component{Name: "PetIn", Type: object(ir.Field{Name: "kind", Type: ref("Kind")})},
		ir.Component{Name: "PetOut", Type: object()},
		ir.Component{Name: "Kind", Type: ir.SchemaType{Kind: ir.KindEnum, Values: []ir.EnumValue{{Name: "dog", Value: "dog"}}}},
	)

	resource := ir.Resource{Name: "pets", Operations: []ir.Operation{{
		Name:         "create",
		Method:       "POST",
		Path:         "/pets",
		RequestBody:  "PetIn",
		ResponseBody: "PetOut",
	}}}

	got := deps.ForResource(reg, resource)
	want := []string{"PetIn", "Kind", "PetOut"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestCycles(t *testing.T) {
	reg := mustRegistry(t,
		ir.Component{Name: "A", Type: object(ir.Field{Name: "b", Type: ref("B")})},
		ir.Component{Name: "B", Type: object(ir.Field{Name: "a", Type: ref("A")})},
		ir.Component{Name: "Selfish", Type: object(ir.Field{Name: "me", Type: ref("Selfish")})},
		ir.Component{Name: "Plain", Type: object(ir.Field{Name: "a", Type: ref("A")})},
	)

	got := deps.Cycles(reg)
	want := [][]string{{"A", "B"}, {"Selfish"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cycles mismatch (-want +got):\n%s", diff)
	}
}
