package topology

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource_RelativeToRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "info.json"), []byte(sampleInfo), 0o644))

	got, err := FileSource{Path: "info.json"}.Load(context.Background(), root)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "packages/app", got["app"].Location)
}

func TestFileSource_MissingFileIsTopologyError(t *testing.T) {
	t.Parallel()

	_, err := FileSource{Path: "nope.json"}.Load(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopology))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCommandSource(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "info.json"), []byte(sampleInfo), 0o644))

	got, err := CommandSource{Command: []string{"sh", "-c", "cat info.json"}}.Load(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = CommandSource{Command: []string{"sh", "-c", "echo boom >&2; exit 3"}}.Load(context.Background(), root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopology))
	assert.Contains(t, err.Error(), "boom")
}

func TestStaticSource_FillsNames(t *testing.T) {
	t.Parallel()

	src := StaticSource{"a": {Location: "a"}}

	got, err := src.Load(context.Background(), "/ws")

	require.NoError(t, err)
	assert.Equal(t, "a", got["a"].Name)
}

func TestFileSource_YAML(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	content := `
ui:
  location: packages/ui
  workspaceDependencies: []
web:
  location: apps/web
  workspaceDependencies: [ui]
  mismatchedWorkspaceDependencies: []
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "workspace.yaml"), []byte(content), 0o644))

	// --- Act ---
	got, err := FileSource{Path: "workspace.yaml"}.Load(context.Background(), root)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "web", got["web"].Name)
	assert.Equal(t, "apps/web", got["web"].Location)
	assert.Equal(t, []string{"ui"}, got["web"].WorkspaceDependencies)
}

func TestFileSource_EmptyYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "workspace.yml"), []byte("# nothing\n"), 0o644))

	_, err := FileSource{Path: "workspace.yml"}.Load(context.Background(), root)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopology))
}
