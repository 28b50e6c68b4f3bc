package sdkgen

import (
	internalBuilder "github.com/goliatone/sdkgen/internal/spec/builder"
	internalLoader "github.com/goliatone/sdkgen/internal/spec/loader"
	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

// NewLoader constructs a document loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgspec.LoaderOption) pkgspec.Loader {
	cfg := pkgspec.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewBuilder constructs an IR builder backed by the internal implementation.
func NewBuilder(options ...pkgspec.BuildOption) pkgspec.Builder {
	cfg := pkgspec.NewBuildOptions(options...)
	return internalBuilder.New(cfg)
}
