// Package render evaluates pongo2 templates against IR nodes. Rendering is
// deterministic: the same IR, template, and target always produce
// byte-identical output. The naming engine, type mapper, dependency
// resolver, and doc-comment formatter are exposed to templates as a fixed,
// closed set of filters and named functions registered once per engine.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/sdkgen/pkg/deps"
	"github.com/goliatone/sdkgen/pkg/ir"
)

// Error is the template-evaluation failure mode: an undefined operation or
// variable, an arity mismatch, or a filter error. It is fatal for one
// (entity, target) pair only.
type Error struct {
	TemplateID string
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: template %q: %s", e.TemplateID, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	extension string
}

// WithBaseDir loads templates from a directory on disk, overriding the
// embedded defaults.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// Engine renders templates from a pongo2 template set with the generator
// filter surface installed.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	tplExt    string
}

// New constructs an Engine from the provided options. At least one template
// source (base dir or fs.FS) is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("render: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	registerFilters()

	return &Engine{
		set:       pongo2.NewSet("sdkgen", loaders...),
		templates: make(map[string]*pongo2.Template),
		tplExt:    cfg.extension,
	}, nil
}

// BindRegistry installs the dependency resolver as a template-callable
// function scoped to this engine's template set. Templates invoke it as
// referenced_components(component) or referenced_components(resource).
func (e *Engine) BindRegistry(reg *ir.Registry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals["referenced_components"] = func(in *pongo2.Value) *pongo2.Value {
		switch v := in.Interface().(type) {
		case ir.Component:
			return pongo2.AsValue(deps.ForComponent(reg, v))
		case *ir.Component:
			return pongo2.AsValue(deps.ForComponent(reg, *v))
		case ir.Resource:
			return pongo2.AsValue(deps.ForResource(reg, v))
		case *ir.Resource:
			return pongo2.AsValue(deps.ForResource(reg, *v))
		default:
			return pongo2.AsValue([]string(nil))
		}
	}
}

// Render evaluates the named template with the given context and returns the
// produced source text. Context values are passed through as typed IR nodes
// so filters can inspect them without conversion.
func (e *Engine) Render(templateID string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("render: engine is nil")
	}

	path := templateID
	if !strings.HasSuffix(path, e.tplExt) {
		path += e.tplExt
	}

	tmpl, err := e.template(path)
	if err != nil {
		return "", &Error{TemplateID: templateID, Reason: err.Error(), Err: err}
	}

	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		ctx[key] = value
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", &Error{TemplateID: templateID, Reason: err.Error(), Err: err}
	}
	return buf.String(), nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}
