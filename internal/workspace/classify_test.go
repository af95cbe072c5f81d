package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestClassify_PartitionsByConfigFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "packages/a/tsconfig.json"), "{}")
	writeFile(t, filepath.Join(root, "packages/b/tsconfig.json"), "{}")
	writeFile(t, filepath.Join(root, "packages/docs/README.md"), "docs")
	// A directory named like the config file is not a config file.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages/weird/tsconfig.json"), 0o755))

	g, err := New(map[string]PackageRecord{
		"a":     {Location: "packages/a"},
		"b":     {Location: "packages/b", WorkspaceDependencies: []string{"a", "docs"}},
		"docs":  {Location: "packages/docs", WorkspaceDependencies: []string{"a"}},
		"weird": {Location: "packages/weird"},
	})
	require.NoError(t, err)

	// --- Act ---
	units, ignored, err := Classifier{}.Classify(context.Background(), root, g)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, units.Names())
	require.Len(t, ignored, 2)
	assert.Equal(t, "docs", ignored[0].Name)
	assert.Equal(t, "weird", ignored[1].Name)
	assert.Equal(t, g.Len(), units.Len()+len(ignored))
}

func TestClassify_CustomConfigPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a/tsconfig.json"), "{}")
	writeFile(t, filepath.Join(root, "b/test/tsconfig.json"), "{}")

	g, err := New(map[string]PackageRecord{
		"a": {Location: "a"},
		"b": {Location: "b"},
	})
	require.NoError(t, err)

	units, ignored, err := Classifier{ConfigPath: "test/tsconfig.json"}.Classify(context.Background(), root, g)

	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, units.Names())
	require.Len(t, ignored, 1)
	assert.Equal(t, "a", ignored[0].Name)
}

func TestClassify_ProbeErrorsAreNotFatal(t *testing.T) {
	t.Parallel()

	g, err := New(map[string]PackageRecord{
		"a": {Location: "a"},
		"b": {Location: "b"},
	})
	require.NoError(t, err)

	probe := func(path string) error {
		if filepath.Base(filepath.Dir(path)) == "a" {
			return os.ErrPermission
		}
		return nil
	}

	units, ignored, err := Classifier{Probe: probe}.Classify(context.Background(), "/ws", g)

	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, units.Names())
	require.Len(t, ignored, 1)
}

func TestClassify_RespectsProbeLimit(t *testing.T) {
	t.Parallel()

	mapping := make(map[string]PackageRecord)
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		mapping[n] = PackageRecord{Location: "packages/" + n}
	}
	g, err := New(mapping)
	require.NoError(t, err)

	var inFlight, peak atomic.Int32
	probe := func(string) error {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	units, _, err := Classifier{Limit: 2, Probe: probe}.Classify(context.Background(), "/ws", g)

	require.NoError(t, err)
	assert.Equal(t, 10, units.Len())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestClassify_CancelledContext(t *testing.T) {
	t.Parallel()

	g, err := New(map[string]PackageRecord{"a": {Location: "a"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = Classifier{Probe: func(string) error { return nil }}.Classify(ctx, "/ws", g)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
