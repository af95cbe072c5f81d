package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/cli"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/testutil"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag prints usage and succeeds.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag is a usage error.
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, err.Error(), "this-is-not-a-valid-flag")
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := testutil.NewWorkspace(t,
		map[string]workspace.PackageRecord{"lib": {Location: "packages/lib"}},
		map[string]string{"packages/lib/tsconfig.json": "{}"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	err := run(ctx, &bytes.Buffer{}, &bytes.Buffer{}, []string{"inject-refs", root, "--workspace-info", testutil.WorkspaceInfoFile})

	// --- Assert ---
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, "{}", testutil.ReadFile(t, root, "packages/lib/tsconfig.json"))
}

func TestRun_InjectRefs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := testutil.NewWorkspace(t,
		map[string]workspace.PackageRecord{
			"core": {Location: "packages/core"},
			"api":  {Location: "services/api", WorkspaceDependencies: []string{"core", "left-pad"}},
			"site": {Location: "apps/site", WorkspaceDependencies: []string{"core"}},
		},
		map[string]string{
			"packages/core/tsconfig.json": "{}",
			"services/api/tsconfig.json":  "{\n  // service\n  \"compilerOptions\": { \"strict\": true }\n}\n",
			"apps/site/tsconfig.json":     "{}",
		},
	)
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"inject-refs", root, "--workspace-info", testutil.WorkspaceInfoFile, "--generate-build-all"})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Top Level Packages Count: 2")
	testutil.AssertReferences(t, root, "services/api/tsconfig.json", "../../packages/core")
	testutil.AssertReferences(t, root, "apps/site/tsconfig.json", "../../packages/core")
	testutil.AssertReferences(t, root, "packages/core/tsconfig.json")
	require.Contains(t, testutil.ReadFile(t, root, "services/api/tsconfig.json"), "// service")
	require.Contains(t, testutil.ReadFile(t, root, "build-all-tsconfig.json"), `"path": "apps/site"`)
}
