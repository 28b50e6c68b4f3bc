// Package sdkgen generates client-SDK source code for multiple target
// languages from an OpenAPI document. The root package wires the pipeline
// stages together: document loading, IR construction, and template-driven
// emission. Each stage is usable on its own through its package.
package sdkgen

import (
	"context"
	"errors"
	"io/fs"

	"github.com/goliatone/sdkgen/pkg/emit"
	"github.com/goliatone/sdkgen/pkg/render"
	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

// Request describes one generation run.
type Request struct {
	// Source locates the document; ignored when Document is set.
	Source pkgspec.Source
	// Document is a pre-loaded document, bypassing the loader stage.
	Document *pkgspec.Document

	// Targets restricts emission to the named target languages. Empty means
	// every supported target.
	Targets []string
	// TemplateDir overrides the embedded templates with a directory on disk.
	TemplateDir string
	// Templates overrides the embedded templates with an fs.FS. TemplateDir
	// wins when both are set.
	Templates fs.FS
	// Workers bounds the parallel render workers; zero keeps the default.
	Workers int

	// IncludeHidden keeps operations marked with the x-hidden extension.
	IncludeHidden bool
	// AllowPartialDocuments accepts documents that declare no operations.
	AllowPartialDocuments bool

	// LoaderOptions configure the document loader used when Document is nil.
	LoaderOptions []pkgspec.LoaderOption
}

// Generate loads the document, builds the IR, and renders every requested
// (entity, target) pair. Load-time failures abort the run; per-target and
// per-entity failures are collected in the Result.
func Generate(ctx context.Context, req Request) (emit.Result, error) {
	doc := req.Document
	if doc == nil {
		if req.Source == nil {
			return emit.Result{}, errors.New("sdkgen: a source or document is required")
		}
		loaded, err := NewLoader(req.LoaderOptions...).Load(ctx, req.Source)
		if err != nil {
			return emit.Result{}, err
		}
		doc = &loaded
	}

	var buildOpts []pkgspec.BuildOption
	if req.IncludeHidden {
		buildOpts = append(buildOpts, pkgspec.WithHiddenOperations())
	}
	if req.AllowPartialDocuments {
		buildOpts = append(buildOpts, pkgspec.WithPartialDocuments())
	}

	spec, err := NewBuilder(buildOpts...).Build(ctx, *doc)
	if err != nil {
		return emit.Result{}, err
	}

	engineOpts := []render.Option{render.WithFS(EmbeddedTemplates())}
	if req.Templates != nil {
		engineOpts = []render.Option{render.WithFS(req.Templates)}
	}
	if req.TemplateDir != "" {
		engineOpts = []render.Option{render.WithBaseDir(req.TemplateDir)}
	}
	engine, err := render.New(engineOpts...)
	if err != nil {
		return emit.Result{}, err
	}

	orchestrator := emit.New(
		emit.WithEngine(engine),
		emit.WithTargets(req.Targets...),
		emit.WithWorkers(req.Workers),
	)
	return orchestrator.Emit(ctx, spec)
}
