package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/tsconfig"
)

// AssertReferences checks that the configuration file at the slash-separated
// path under root is composite and references exactly want, in order.
func AssertReferences(t *testing.T, root, name string, want ...string) {
	t.Helper()

	doc, _, err := tsconfig.Load(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	require.True(t, tsconfig.IsComposite(doc), "%s is not composite", name)
	got := tsconfig.References(doc)
	if len(want) == 0 {
		require.Empty(t, got, "unexpected references in %s", name)
		return
	}
	require.Equal(t, want, got, "references of %s", name)
}
