// Package hcl_adapter reads the toolkit's HCL settings file into the
// format-agnostic config.Model.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/config"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
)

// DefaultFileName is the settings file looked up at the workspace root.
const DefaultFileName = "tsmono.hcl"

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot mirrors the attributes and blocks allowed in a settings file.
type fileRoot struct {
	TSConfigPath     *string        `hcl:"tsconfig_path,optional"`
	Concurrency      *int           `hcl:"concurrency,optional"`
	LogLevel         *string        `hcl:"log_level,optional"`
	LogFormat        *string        `hcl:"log_format,optional"`
	GenerateBuildAll *bool          `hcl:"generate_build_all,optional"`
	BuildAllFile     *string        `hcl:"build_all_file,optional"`
	Ignore           []string       `hcl:"ignore,optional"`
	Topology         *topologyBlock `hcl:"topology,block"`
}

type topologyBlock struct {
	Command []string `hcl:"command,optional"`
	File    *string  `hcl:"file,optional"`
}

// Load parses the settings file at path. Expressions may read environment
// variables through the env object, e.g. env.CI. A missing file is reported
// with an error wrapping fs.ErrNotExist.
func (l *Loader) Load(ctx context.Context, path string, env map[string]string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}

	model := &config.Model{
		TSConfigPath:     root.TSConfigPath,
		Concurrency:      root.Concurrency,
		LogLevel:         root.LogLevel,
		LogFormat:        root.LogFormat,
		GenerateBuildAll: root.GenerateBuildAll,
		BuildAllFile:     root.BuildAllFile,
		Ignore:           root.Ignore,
	}
	if root.Topology != nil {
		model.Topology = &config.Topology{
			Command: root.Topology.Command,
			File:    root.Topology.File,
		}
	}
	logger.Debug("Settings file loaded.", "path", path, "ignore", len(model.Ignore))
	return model, nil
}

// evalContext exposes env as the "env" object and a few string helpers.
func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		if !utf8.ValidString(k) || !utf8.ValidString(v) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"coalesce": stdlib.CoalesceFunc,
			"concat":   stdlib.ConcatFunc,
			"lower":    stdlib.LowerFunc,
			"upper":    stdlib.UpperFunc,
		},
	}
}
