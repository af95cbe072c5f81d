package topology

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// DefaultCommand lists workspace packages as JSON with yarn v1.
var DefaultCommand = []string{"yarn", "-s", "workspaces", "info", "--json"}

// Source produces the package mapping of the workspace rooted at root.
type Source interface {
	Load(ctx context.Context, root string) (map[string]workspace.PackageRecord, error)
}

// CommandSource runs an external command in the workspace root and decodes
// its standard output.
type CommandSource struct {
	// Command is the program and its arguments; empty means DefaultCommand.
	Command []string
}

// Load implements Source.
func (s CommandSource) Load(ctx context.Context, root string) (map[string]workspace.PackageRecord, error) {
	logger := ctxlog.FromContext(ctx)
	command := s.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	name := strings.Join(command, " ")
	logger.Debug("Running topology command.", "command", name, "dir", root)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &Error{Source: name, Err: err}
	}

	mapping, err := Decode(stdout.Bytes())
	if err != nil {
		return nil, &Error{Source: name, Err: err}
	}
	logger.Debug("Topology command finished.", "packages", len(mapping))
	return mapping, nil
}

// FileSource reads a saved `workspaces info --json` payload, or the same
// mapping as YAML when the file ends in .yaml or .yml. A relative path is
// resolved against the workspace root.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context, root string) (map[string]workspace.PackageRecord, error) {
	path := s.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	ctxlog.FromContext(ctx).Debug("Reading topology file.", "path", path)

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Source: path, Err: err}
	}
	decode := Decode
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = DecodeYAML
	}
	mapping, err := decode(b)
	if err != nil {
		return nil, &Error{Source: path, Err: err}
	}
	return mapping, nil
}

// StaticSource returns a fixed mapping. It serves callers that already hold
// the topology.
type StaticSource map[string]workspace.PackageRecord

// Load implements Source.
func (s StaticSource) Load(context.Context, string) (map[string]workspace.PackageRecord, error) {
	out := make(map[string]workspace.PackageRecord, len(s))
	for name, rec := range s {
		rec.Name = name
		out[name] = rec
	}
	return out, nil
}
