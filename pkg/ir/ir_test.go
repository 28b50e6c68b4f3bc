package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/sdkgen/pkg/ir"
)

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := ir.NewRegistry([]ir.Component{
		{Name: "Pet", Type: ir.SchemaType{Kind: ir.KindObject}},
		{Name: "Pet", Type: ir.SchemaType{Kind: ir.KindObject}},
	})
	if err == nil {
		t.Fatal("expected duplicate component error")
	}
}

func TestRegistry_DeterministicOrder(t *testing.T) {
	reg, err := ir.NewRegistry([]ir.Component{
		{Name: "Zebra", Type: ir.SchemaType{Kind: ir.KindObject}},
		{Name: "Ant", Type: ir.SchemaType{Kind: ir.KindObject}},
		{Name: "Moth", Type: ir.SchemaType{Kind: ir.KindObject}},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	want := []string{"Ant", "Moth", "Zebra"}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	got := make([]string, 0, reg.Len())
	for _, c := range reg.Components() {
		got = append(got, c.Name)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestOperationParamPredicates(t *testing.T) {
	str := ir.SchemaType{Kind: ir.KindScalar, Scalar: ir.ScalarString}

	op := ir.Operation{
		QueryParams:  []ir.Parameter{{Name: "limit", Type: str}},
		HeaderParams: []ir.Parameter{{Name: "idempotency-key", Type: str}},
	}
	if !op.HasQueryOrHeaderParams() {
		t.Fatal("expected query/header params to be detected")
	}
	if op.HasRequiredQueryOrHeaderParams() {
		t.Fatal("no required params declared")
	}

	op.QueryParams[0].Required = true
	if !op.HasRequiredQueryOrHeaderParams() {
		t.Fatal("required query param not detected")
	}

	bare := ir.Operation{PathParams: []ir.Parameter{{Name: "id", Type: str, Required: true}}}
	if bare.HasQueryOrHeaderParams() {
		t.Fatal("path params must not count as query/header params")
	}
}

func TestSchemaTypeHelpers(t *testing.T) {
	dt := ir.SchemaType{Kind: ir.KindScalar, Scalar: ir.ScalarDateTime}
	list := ir.SchemaType{Kind: ir.KindArray, Elem: &dt}
	obj := ir.SchemaType{Kind: ir.KindObject, Fields: []ir.Field{{Name: "at", Type: list}}}

	if !obj.HasScalar("datetime") {
		t.Fatal("datetime scalar not found through nested containers")
	}
	if obj.HasScalar("uri") {
		t.Fatal("uri scalar reported but never declared")
	}

	stringEnum := ir.SchemaType{Kind: ir.KindEnum, Values: []ir.EnumValue{{Name: "dog", Value: "dog"}}}
	intEnum := ir.SchemaType{Kind: ir.KindEnum, Values: []ir.EnumValue{{Name: "Low", Value: int64(1)}}}
	if !stringEnum.IsStringEnum() || intEnum.IsStringEnum() {
		t.Fatal("enum value kind detection wrong")
	}
}
