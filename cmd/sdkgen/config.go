package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// config mirrors the generate command's flags so runs can be described in a
// checked-in YAML file. Explicit flags always win over file values.
type config struct {
	Source        string   `yaml:"source"`
	Targets       []string `yaml:"targets"`
	Output        string   `yaml:"output"`
	Templates     string   `yaml:"templates"`
	Workers       int      `yaml:"workers"`
	IncludeHidden bool     `yaml:"include_hidden"`
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Output: "generated"}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sdkgen: read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("sdkgen: parse config %q: %w", path, err)
	}
	if cfg.Output == "" {
		cfg.Output = "generated"
	}
	return cfg, nil
}

// apply overlays command-line flags onto the file-sourced values.
func (c *config) apply(cctx *cli.Context) {
	if arg := cctx.Args().First(); arg != "" {
		c.Source = arg
	}
	if targets := cctx.StringSlice("target"); len(targets) > 0 {
		c.Targets = targets
	}
	if cctx.IsSet("output") {
		c.Output = cctx.String("output")
	}
	if dir := cctx.String("templates"); dir != "" {
		c.Templates = dir
	}
	if workers := cctx.Int("workers"); workers > 0 {
		c.Workers = workers
	}
	if cctx.Bool("include-hidden") {
		c.IncludeHidden = true
	}
}
