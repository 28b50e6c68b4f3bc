package spec

import (
	"io/fs"
	"net/http"
	"time"
)

// LoaderOptions carries the pre-resolved configuration for the document
// loader. The root sdkgen package exposes functional options that populate
// this struct.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient, when set, is used for SourceKindURL sources. The client is
	// cloned so caller mutations never leak into the loader.
	HTTPClient *http.Client
	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is provided.
	AllowHTTPFallback bool
	// RequestTimeout bounds HTTP fetches when the client has no timeout of
	// its own.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions during construction.
type LoaderOption func(*LoaderOptions)

// NewLoaderOptions resolves a LoaderOptions from functional options.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	var cfg LoaderOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithFileSystem backs fs sources with the given filesystem.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(cfg *LoaderOptions) {
		cfg.FileSystem = fsys
	}
}

// WithHTTPClient enables URL sources using the supplied client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(cfg *LoaderOptions) {
		cfg.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources with a default client.
func WithHTTPFallback() LoaderOption {
	return func(cfg *LoaderOptions) {
		cfg.AllowHTTPFallback = true
	}
}

// WithRequestTimeout bounds HTTP fetches.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(cfg *LoaderOptions) {
		if timeout > 0 {
			cfg.RequestTimeout = timeout
		}
	}
}

// BuildOption mutates BuildOptions during construction.
type BuildOption func(*BuildOptions)

// NewBuildOptions resolves a BuildOptions from functional options.
func NewBuildOptions(options ...BuildOption) BuildOptions {
	var cfg BuildOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithHiddenOperations keeps operations marked with the x-hidden extension.
func WithHiddenOperations() BuildOption {
	return func(cfg *BuildOptions) {
		cfg.IncludeHidden = true
	}
}

// WithPartialDocuments accepts documents that declare no operations.
func WithPartialDocuments() BuildOption {
	return func(cfg *BuildOptions) {
		cfg.AllowPartialDocuments = true
	}
}
