// Package spec defines the public surface of the document-loading stage:
// sources, raw documents, the loader and builder contracts, and the
// load-time error taxonomy. Concrete implementations live under
// internal/spec and are constructed through the root sdkgen package.
package spec

import (
	"context"
	"errors"

	"github.com/goliatone/sdkgen/pkg/ir"
)

// Document wraps the raw API-description payload and its origin. Exposing
// this type instead of kin-openapi structs keeps the public API decoupled
// from the parsing library.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("spec: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("spec: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source { return d.source }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Loader fetches a raw document from a source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Builder turns a raw document into the immutable IR. Load-time failures are
// reported as *Error; nothing downstream ever sees a partial ir.Spec.
type Builder interface {
	Build(ctx context.Context, doc Document) (*ir.Spec, error)
}

// BuildOptions tunes builder behavior.
type BuildOptions struct {
	// IncludeHidden keeps operations marked with the x-hidden extension.
	IncludeHidden bool
	// AllowPartialDocuments accepts documents without paths or operations,
	// producing an IR with an empty resource list.
	AllowPartialDocuments bool
}
