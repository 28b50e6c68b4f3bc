package target_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/sdkgen/pkg/target"
)

func TestNames(t *testing.T) {
	want := []string{"go", "python", "rust", "typescript"}
	if diff := cmp.Diff(want, target.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentifierConventions(t *testing.T) {
	cases := []struct {
		target string
		field  string
		fn     string
		tn     string
		cn     string
		file   string
	}{
		{"go", "PetName", "ListPets", "PetOwner", "PET_NAME", "pet_owner.go"},
		{"typescript", "petName", "listPets", "PetOwner", "PET_NAME", "pet_owner.ts"},
		{"python", "pet_name", "list_pets", "PetOwner", "PET_NAME", "pet_owner.py"},
		{"rust", "pet_name", "list_pets", "PetOwner", "PET_NAME", "pet_owner.rs"},
	}

	for _, tc := range cases {
		tgt, ok := target.Lookup(tc.target)
		if !ok {
			t.Fatalf("unknown target %q", tc.target)
		}
		if got := tgt.FieldName("petName"); got != tc.field {
			t.Errorf("%s FieldName = %q, want %q", tc.target, got, tc.field)
		}
		if got := tgt.FuncName("listPets"); got != tc.fn {
			t.Errorf("%s FuncName = %q, want %q", tc.target, got, tc.fn)
		}
		if got := tgt.TypeName("pet-owner"); got != tc.tn {
			t.Errorf("%s TypeName = %q, want %q", tc.target, got, tc.tn)
		}
		if got := tgt.ConstName("petName"); got != tc.cn {
			t.Errorf("%s ConstName = %q, want %q", tc.target, got, tc.cn)
		}
		if got := tgt.FileName("PetOwner"); got != tc.file {
			t.Errorf("%s FileName = %q, want %q", tc.target, got, tc.file)
		}
	}
}

func TestReservedWordEscaping(t *testing.T) {
	cases := []struct {
		target string
		in     string
		want   string
	}{
		{"go", "type", "type_"},
		{"typescript", "class", "class_"},
		{"python", "import", "import_"},
		{"rust", "impl", "impl_"},
		{"go", "name", "name"},
	}
	for _, tc := range cases {
		tgt, _ := target.Lookup(tc.target)
		if got := tgt.Escape(tc.in); got != tc.want {
			t.Errorf("%s Escape(%q) = %q, want %q", tc.target, tc.in, got, tc.want)
		}
	}
}

func TestFieldNameEscapesReservedWords(t *testing.T) {
	python, _ := target.Lookup("python")
	if got := python.FieldName("import"); got != "import_" {
		t.Fatalf("FieldName(import) = %q, want import_", got)
	}
}

func TestIndexFiles(t *testing.T) {
	want := map[string]string{
		"go":         "api/doc.go",
		"typescript": "index.ts",
		"python":     "__init__.py",
		"rust":       "mod.rs",
	}
	for name, index := range want {
		tgt, _ := target.Lookup(name)
		if tgt.IndexFile != index {
			t.Errorf("%s IndexFile = %q, want %q", name, tgt.IndexFile, index)
		}
	}
}
