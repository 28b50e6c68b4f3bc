package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/goliatone/sdkgen"
	"github.com/goliatone/sdkgen/pkg/spec"
	"github.com/goliatone/sdkgen/pkg/target"
)

func main() {
	app := cli.App{
		Name:  "sdkgen",
		Usage: "generate client SDK source code from an OpenAPI document",
	}
	app.Commands = []*cli.Command{
		{
			Name:      "generate",
			Usage:     "render SDK sources for one or more targets",
			ArgsUsage: "<openapi document path or URL>",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:    "target",
					Aliases: []string{"t"},
					Usage:   "target language to emit (repeatable; defaults to all)",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "generated",
					Usage:   "directory to write generated files into",
				},
				&cli.StringFlag{
					Name:  "templates",
					Usage: "directory of template overrides",
				},
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"c"},
					Usage:   "YAML config file (flags win over config values)",
				},
				&cli.IntFlag{
					Name:  "workers",
					Usage: "parallel render workers",
				},
				&cli.BoolFlag{
					Name:  "include-hidden",
					Usage: "generate operations marked x-hidden",
				},
			},
			Action: runGenerate,
		},
		{
			Name:   "targets",
			Usage:  "list supported target languages",
			Action: runTargets,
		},
	}
	app.RunAndExitOnError()
}

func runGenerate(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx.String("config"))
	if err != nil {
		return err
	}
	cfg.apply(cctx)

	if cfg.Source == "" {
		return fmt.Errorf("sdkgen: a document path or URL is required")
	}

	req := sdkgen.Request{
		Source:        parseSource(cfg.Source),
		Targets:       cfg.Targets,
		TemplateDir:   cfg.Templates,
		Workers:       cfg.Workers,
		IncludeHidden: cfg.IncludeHidden,
		LoaderOptions: []spec.LoaderOption{spec.WithHTTPFallback()},
	}

	result, err := sdkgen.Generate(cctx.Context, req)
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		path := filepath.Join(cfg.Output, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("sdkgen: create output dir: %w", err)
		}
		if err := os.WriteFile(path, file.Content, 0o644); err != nil {
			return fmt.Errorf("sdkgen: write %s: %w", path, err)
		}
	}
	fmt.Printf("wrote %d files to %s\n", len(result.Files), cfg.Output)

	for _, failure := range result.Failures {
		entity := failure.Entity
		if entity == "" {
			entity = "-"
		}
		fmt.Fprintf(os.Stderr, "error: target=%s entity=%s: %v\n", failure.Target, entity, failure.Err)
	}
	return result.Err()
}

func runTargets(cctx *cli.Context) error {
	for _, tgt := range target.All() {
		fmt.Printf("%-12s .%s\n", tgt.Name, tgt.FileExt)
	}
	return nil
}

func parseSource(raw string) spec.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return spec.SourceFromURL(path)
	}
	return spec.SourceFromFile(path)
}
