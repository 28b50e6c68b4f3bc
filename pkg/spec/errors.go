package spec

import "fmt"

// ErrorKind classifies load-time failures. Every kind is fatal to the whole
// run: no partial IR is exposed downstream.
type ErrorKind string

const (
	// ErrorKindUnresolvedReference marks a $ref with no matching component.
	ErrorKindUnresolvedReference ErrorKind = "unresolved_reference"
	// ErrorKindMalformedSchema marks structurally invalid input: field name
	// collisions after composition merging, self-containing schemas, path
	// templates that cannot be parsed, and similar.
	ErrorKindMalformedSchema ErrorKind = "malformed_schema"
	// ErrorKindUnsupportedComposition marks composition constructs the
	// pipeline cannot flatten (anyOf/not, oneOf over inline schemas).
	ErrorKindUnsupportedComposition ErrorKind = "unsupported_composition"
	// ErrorKindPathParameterMismatch marks operations whose declared path
	// parameters disagree with the path template's named slots.
	ErrorKindPathParameterMismatch ErrorKind = "path_parameter_mismatch"
)

// Error is the load-time error type. Path points at the offending document
// location (a schema pointer or a method+path pair).
type Error struct {
	Kind   ErrorKind
	Path   string
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("spec: %s at %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("spec: %s at %s: %s", e.Kind, e.Path, e.Reason)
}

// NewError constructs a load-time error.
func NewError(kind ErrorKind, path, reason string) *Error {
	return &Error{Kind: kind, Path: path, Reason: reason}
}
