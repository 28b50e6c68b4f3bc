// Package target describes the supported output ecosystems: file naming,
// identifier conventions, comment framing, reserved words, and the mechanism
// each language offers for breaking reference cycles between named types.
package target

import (
	"sort"

	"github.com/goliatone/sdkgen/pkg/doccomment"
	"github.com/goliatone/sdkgen/pkg/naming"
)

// ForwardRefPolicy names the target-language mechanism used when named types
// reference each other cyclically. The dependency resolver flags cycles; the
// policy records how the target's templates absorb them.
type ForwardRefPolicy string

const (
	// PolicyNone: declarations may reference each other freely within a
	// package/module scope (go, typescript).
	PolicyNone ForwardRefPolicy = "none"
	// PolicyPostponedAnnotations: annotations resolve lazily, so cyclic
	// references are legal as long as evaluation is deferred (python).
	PolicyPostponedAnnotations ForwardRefPolicy = "postponed_annotations"
	// PolicyBoxedReference: cyclic references must go through an indirection
	// so types keep a finite size (rust).
	PolicyBoxedReference ForwardRefPolicy = "boxed_reference"
)

type identCase int

const (
	caseSnake identCase = iota
	caseLowerCamel
	caseUpperCamel
)

// Target is one supported output language.
type Target struct {
	Name         string
	FileExt      string
	CommentStyle doccomment.Style
	ForwardRef   ForwardRefPolicy
	// IndexFile is the path of the per-target module index artifact,
	// relative to the target's output root.
	IndexFile string

	fieldCase identCase
	funcCase  identCase
	varCase   identCase
	reserved  map[string]struct{}
}

// TypeName converts a component name to the target's type declaration name.
// All supported targets declare types in UpperCamelCase.
func (t Target) TypeName(raw string) string {
	return t.Escape(naming.ToUpperCamel(raw))
}

// FieldName converts a raw field name to the target's field convention.
func (t Target) FieldName(raw string) string {
	return t.Escape(convert(t.fieldCase, raw))
}

// FuncName converts a raw operation name to the target's function convention.
func (t Target) FuncName(raw string) string {
	return t.Escape(convert(t.funcCase, raw))
}

// VarName converts a raw parameter name to the target's local-variable
// convention.
func (t Target) VarName(raw string) string {
	return t.Escape(convert(t.varCase, raw))
}

// ConstName converts an enum variant name to the target's constant
// convention (UPPER_SNAKE for every supported target).
func (t Target) ConstName(raw string) string {
	return t.Escape(naming.ToUpperSnake(raw))
}

// FileName derives the relative output file name for an entity.
func (t Target) FileName(raw string) string {
	return naming.ToSnake(raw) + "." + t.FileExt
}

// Escape appends a disambiguating suffix when the identifier collides with a
// reserved word of the target language.
func (t Target) Escape(ident string) string {
	if _, ok := t.reserved[ident]; ok {
		return ident + "_"
	}
	return ident
}

func convert(c identCase, raw string) string {
	switch c {
	case caseLowerCamel:
		return naming.ToLowerCamel(raw)
	case caseUpperCamel:
		return naming.ToUpperCamel(raw)
	default:
		return naming.ToSnake(raw)
	}
}

var registry = map[string]Target{
	"go": {
		Name:         "go",
		FileExt:      "go",
		CommentStyle: doccomment.StyleLine,
		ForwardRef:   PolicyNone,
		IndexFile:    "api/doc.go",
		fieldCase:    caseUpperCamel,
		funcCase:     caseUpperCamel,
		varCase:      caseLowerCamel,
		reserved:     goReserved,
	},
	"typescript": {
		Name:         "typescript",
		FileExt:      "ts",
		CommentStyle: doccomment.StyleBlock,
		ForwardRef:   PolicyNone,
		IndexFile:    "index.ts",
		fieldCase:    caseLowerCamel,
		funcCase:     caseLowerCamel,
		varCase:      caseLowerCamel,
		reserved:     typescriptReserved,
	},
	"python": {
		Name:         "python",
		FileExt:      "py",
		CommentStyle: doccomment.StyleHash,
		ForwardRef:   PolicyPostponedAnnotations,
		IndexFile:    "__init__.py",
		fieldCase:    caseSnake,
		funcCase:     caseSnake,
		varCase:      caseSnake,
		reserved:     pythonReserved,
	},
	"rust": {
		Name:         "rust",
		FileExt:      "rs",
		CommentStyle: doccomment.StyleLine,
		ForwardRef:   PolicyBoxedReference,
		IndexFile:    "mod.rs",
		fieldCase:    caseSnake,
		funcCase:     caseSnake,
		varCase:      caseSnake,
		reserved:     rustReserved,
	},
}

// Lookup returns the target registered under name.
func Lookup(name string) (Target, bool) {
	t, ok := registry[name]
	return t, ok
}

// All returns every supported target in name order.
func All() []Target {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Target, 0, len(names))
	for _, name := range names {
		out = append(out, registry[name])
	}
	return out
}

// Names returns the supported target names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
