package topology

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

const sampleInfo = `{
  "app": {
    "location": "packages/app",
    "workspaceDependencies": ["core", "ui"],
    "mismatchedWorkspaceDependencies": ["legacy"]
  },
  "core": {
    "location": "packages/core",
    "workspaceDependencies": [],
    "mismatchedWorkspaceDependencies": []
  }
}`

func sampleWant() map[string]workspace.PackageRecord {
	return map[string]workspace.PackageRecord{
		"app": {
			Name:                            "app",
			Location:                        "packages/app",
			WorkspaceDependencies:           []string{"core", "ui"},
			MismatchedWorkspaceDependencies: []string{"legacy"},
		},
		"core": {
			Name:                            "core",
			Location:                        "packages/core",
			WorkspaceDependencies:           []string{},
			MismatchedWorkspaceDependencies: []string{},
		},
	}
}

func TestDecode_Direct(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte(sampleInfo))

	require.NoError(t, err)
	if diff := cmp.Diff(sampleWant(), got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_StringEncodedEnvelope(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// yarn without -s wraps the mapping in a log line with a string field.
	data, err := json.Marshal(sampleInfo)
	require.NoError(t, err)
	payload := `{"type":"log","data":` + string(data) + `}` + "\n"

	// --- Act ---
	got, err := Decode([]byte(payload))

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(sampleWant(), got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: "   "},
		{name: "not json", payload: "yarn: command failed"},
		{name: "null", payload: "null"},
		{name: "envelope with bad data", payload: `{"type":"log","data":"{not json"}`},
		{name: "array", payload: `[1,2,3]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tc.payload))
			require.Error(t, err)
		})
	}
}
