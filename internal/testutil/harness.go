// Package testutil holds fixtures shared by the command-level tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// WorkspaceInfoFile is the topology file NewWorkspace writes at the root.
const WorkspaceInfoFile = "workspace-info.json"

// NewWorkspace creates a temporary workspace root holding files, keyed by
// slash-separated paths relative to the root, and a topology file for
// packages. It returns the root.
func NewWorkspace(t *testing.T, packages map[string]workspace.PackageRecord, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
	if packages != nil {
		b, err := json.MarshalIndent(packages, "", "  ")
		require.NoError(t, err)
		WriteFile(t, filepath.Join(root, WorkspaceInfoFile), string(b))
	}
	return root
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// ReadFile returns the content of the slash-separated path under root.
func ReadFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(b)
}
