// Package emit drives the Cartesian product of {declared types, declared
// resources} × {configured targets} through the template renderer and
// collects the resulting files. Work items are mutually independent: each
// reads the shared immutable IR and produces one output file, so they run in
// parallel with aggregation as the only synchronization point. A per-target
// or per-item failure is recorded and never prevents other targets from
// completing.
package emit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/sdkgen/pkg/deps"
	"github.com/goliatone/sdkgen/pkg/ir"
	"github.com/goliatone/sdkgen/pkg/render"
	"github.com/goliatone/sdkgen/pkg/target"
	"github.com/goliatone/sdkgen/pkg/typemap"
)

const defaultWorkers = 4

// File is one generated source file: target name, relative output path, and
// rendered text. Writing to disk is the caller's concern.
type File struct {
	Target  string
	Path    string
	Content []byte
}

// Failure records a per-target or per-(entity, target) error.
type Failure struct {
	Target string
	Entity string
	Err    error
}

// Result aggregates every produced file and every recorded failure. Partial
// success is reported, never silently swallowed.
type Result struct {
	Files    []File
	Failures []Failure
}

// Err returns a summary error when any failure was recorded, nil otherwise.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("emit: %d failure(s) across targets", len(r.Failures))
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithEngine injects the template engine.
func WithEngine(engine *render.Engine) Option {
	return func(o *Orchestrator) {
		o.engine = engine
	}
}

// WithTargets restricts emission to the named targets. Unknown names are
// reported when Emit runs.
func WithTargets(names ...string) Option {
	return func(o *Orchestrator) {
		o.targetNames = append(o.targetNames, names...)
	}
}

// WithWorkers bounds the number of parallel render workers.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Orchestrator coordinates template selection, rendering, and result
// aggregation for a run.
type Orchestrator struct {
	engine      *render.Engine
	targetNames []string
	workers     int
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{workers: defaultWorkers}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

type workItem struct {
	target     target.Target
	templateID string
	entity     string
	path       string
	data       map[string]any
}

// Emit renders every (entity × target) pair and returns the collected files
// and failures. The returned error is non-nil only for configuration
// problems or context cancellation; rendering failures live in the Result.
func (o *Orchestrator) Emit(ctx context.Context, spec *ir.Spec) (Result, error) {
	if o.engine == nil {
		return Result{}, errors.New("emit: template engine is required")
	}
	if spec == nil || spec.Registry == nil {
		return Result{}, errors.New("emit: spec with registry is required")
	}

	targets, result := o.resolveTargets()
	o.engine.BindRegistry(spec.Registry)

	var items []workItem
	for _, tgt := range targets {
		if err := typemap.ValidateSpec(tgt, spec); err != nil {
			entity := ""
			var unsupported *typemap.UnsupportedSchemaError
			if errors.As(err, &unsupported) {
				entity = unsupported.Path
			}
			result.Failures = append(result.Failures, Failure{Target: tgt.Name, Entity: entity, Err: err})
			continue
		}
		items = append(items, o.plan(tgt, spec, &result)...)
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.workers)

	for _, item := range items {
		item := item
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			text, err := o.engine.Render(item.templateID, item.data)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, Failure{
					Target: item.target.Name,
					Entity: item.entity,
					Err:    err,
				})
				return nil
			}
			result.Files = append(result.Files, File{
				Target:  item.target.Name,
				Path:    item.path,
				Content: []byte(text),
			})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	sort.Slice(result.Files, func(i, j int) bool {
		if result.Files[i].Target != result.Files[j].Target {
			return result.Files[i].Target < result.Files[j].Target
		}
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		if result.Failures[i].Target != result.Failures[j].Target {
			return result.Failures[i].Target < result.Failures[j].Target
		}
		return result.Failures[i].Entity < result.Failures[j].Entity
	})

	return result, nil
}

// plan expands one target into its work items: one per component under
// models/, one per resource under api/, plus the module index. Output paths
// are keyed by the entity's target-language declaration name; two entities
// must never share a path within one target.
func (o *Orchestrator) plan(tgt target.Target, spec *ir.Spec, result *Result) []workItem {
	var items []workItem
	assigned := make(map[string]string)

	claim := func(path, entity string) bool {
		if prev, dup := assigned[path]; dup {
			result.Failures = append(result.Failures, Failure{
				Target: tgt.Name,
				Entity: entity,
				Err:    fmt.Errorf("emit: output path %q already assigned to %s", path, prev),
			})
			return false
		}
		assigned[path] = entity
		return true
	}

	// A component that sits on a reference cycle needs the target's
	// forward-reference mechanism for refs into its own cycle group.
	cycleGroup := make(map[string][]string)
	for _, group := range deps.Cycles(spec.Registry) {
		for _, name := range group {
			cycleGroup[name] = group
		}
	}

	for _, c := range spec.Registry.Components() {
		c := c
		path := tgt.Name + "/models/" + tgt.FileName(tgt.TypeName(c.Name))
		if !claim(path, c.Name) {
			continue
		}
		items = append(items, workItem{
			target:     tgt,
			templateID: tgt.Name + "/component",
			entity:     c.Name,
			path:       path,
			data: map[string]any{
				"component": c,
				"target":    tgt,
				"imports":   deps.ForComponent(spec.Registry, c),
				"cycle":     cycleGroup[c.Name],
			},
		})
	}

	for _, r := range spec.Resources {
		r := r
		path := tgt.Name + "/api/" + tgt.FileName(tgt.TypeName(r.Name))
		if !claim(path, r.Name) {
			continue
		}
		items = append(items, workItem{
			target:     tgt,
			templateID: tgt.Name + "/resource",
			entity:     r.Name,
			path:       path,
			data: map[string]any{
				"resource": r,
				"target":   tgt,
				"imports":  deps.ForResource(spec.Registry, r),
			},
		})
	}

	indexPath := tgt.Name + "/" + tgt.IndexFile
	if claim(indexPath, "index") {
		items = append(items, workItem{
			target:     tgt,
			templateID: tgt.Name + "/index",
			entity:     "index",
			path:       indexPath,
			data: map[string]any{
				"target":     tgt,
				"components": spec.Registry.Names(),
				"resources":  spec.Resources,
			},
		})
	}

	return items
}

func (o *Orchestrator) resolveTargets() ([]target.Target, Result) {
	var result Result
	if len(o.targetNames) == 0 {
		return target.All(), result
	}

	var targets []target.Target
	seen := make(map[string]struct{}, len(o.targetNames))
	for _, name := range o.targetNames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tgt, ok := target.Lookup(name)
		if !ok {
			result.Failures = append(result.Failures, Failure{
				Target: name,
				Err:    fmt.Errorf("emit: unknown target %q", name),
			})
			continue
		}
		targets = append(targets, tgt)
	}
	return targets, result
}
