package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/config"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/hcl_adapter"
)

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing root", mutate: func(c *Config) { c.Root = "" }, wantErr: "workspace root"},
		{name: "empty tsconfig path", mutate: func(c *Config) { c.TSConfigPath = "" }, wantErr: "tsconfig path"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "log-level"},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log-format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig("/ws")
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)

			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "build-all-tsconfig.json", got.BuildAllFile)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Apply(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig("/ws")
	cfg.Apply(&config.Model{
		TSConfigPath:     config.Ptr("tsconfig.build.json"),
		Concurrency:      config.Ptr(2),
		GenerateBuildAll: config.Ptr(true),
		Ignore:           []string{"legacy"},
		Topology:         &config.Topology{Command: []string{"pnpm", "ls"}, File: config.Ptr("deps.json")},
	})

	assert.Equal(t, "tsconfig.build.json", cfg.TSConfigPath)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.True(t, cfg.GenerateBuildAll)
	assert.Equal(t, []string{"legacy"}, cfg.Ignore)
	assert.Equal(t, []string{"pnpm", "ls"}, cfg.TopologyCommand)
	assert.Equal(t, "deps.json", cfg.WorkspaceInfo)
	assert.Equal(t, "info", cfg.LogLevel)
}

// Precedence tests touch the process environment, so they do not run in
// parallel.
func TestLoadSettings_Precedence(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	writeFile(t, filepath.Join(root, hcl_adapter.DefaultFileName), `
tsconfig_path = "tsconfig.file.json"
concurrency   = 8
log_level     = "warn"
ignore        = ["legacy"]
`)
	writeFile(t, filepath.Join(root, ".env"), "TSMONO_CONCURRENCY=6\n")
	t.Setenv(config.EnvLogLevel, "error")
	flags := &config.Model{TSConfigPath: config.Ptr("tsconfig.flag.json")}

	// --- Act ---
	m, err := LoadSettings(context.Background(), root, "", flags, hcl_adapter.NewLoader())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "tsconfig.flag.json", *m.TSConfigPath)
	assert.Equal(t, 6, *m.Concurrency)
	assert.Equal(t, "error", *m.LogLevel)
	assert.Equal(t, []string{"legacy"}, m.Ignore)
}

func TestLoadSettings_DefaultFileIsOptional(t *testing.T) {
	root := t.TempDir()

	m, err := LoadSettings(context.Background(), root, "", nil, hcl_adapter.NewLoader())

	require.NoError(t, err)
	assert.Nil(t, m.TSConfigPath)
}

func TestLoadSettings_ExplicitFileMustExist(t *testing.T) {
	root := t.TempDir()

	_, err := LoadSettings(context.Background(), root, filepath.Join(root, "custom.hcl"), nil, hcl_adapter.NewLoader())

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
