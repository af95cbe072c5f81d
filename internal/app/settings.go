package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/config"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/ctxlog"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/hcl_adapter"
)

// LoadSettings merges the configuration layers for the workspace at root:
// the settings file, then the environment (.env included), then flags. An
// empty settingsFile means the default file at the root, which may be
// absent; an explicit one must exist.
func LoadSettings(ctx context.Context, root, settingsFile string, flags *config.Model, loader config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	env, err := config.Environ(root)
	if err != nil {
		return nil, err
	}

	path, optional := settingsFile, false
	if path == "" {
		path, optional = filepath.Join(root, hcl_adapter.DefaultFileName), true
	}
	fileLayer, err := loader.Load(ctx, path, env)
	switch {
	case err == nil:
	case optional && errors.Is(err, fs.ErrNotExist):
		logger.Debug("No settings file found.", "path", path)
		fileLayer = nil
	default:
		return nil, err
	}

	envLayer, err := config.FromEnv(env)
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return config.Merge(fileLayer, envLayer, flags), nil
}
