package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read into the environment layer.
const (
	EnvTSConfigPath = "TSMONO_TSCONFIG_PATH"
	EnvConcurrency  = "TSMONO_CONCURRENCY"
	EnvLogLevel     = "TSMONO_LOG_LEVEL"
	EnvLogFormat    = "TSMONO_LOG_FORMAT"
)

// DotEnvFile is read from the workspace root when present.
const DotEnvFile = ".env"

// Environ returns the process environment overlaid on the variables of the
// .env file in root. Process variables win over the file.
func Environ(root string) (map[string]string, error) {
	env, err := godotenv.Read(filepath.Join(root, DotEnvFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", DotEnvFile, err)
		}
		env = map[string]string{}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

// FromEnv builds the environment layer. Empty variables count as unset.
func FromEnv(env map[string]string) (*Model, error) {
	m := &Model{}
	if v := env[EnvTSConfigPath]; v != "" {
		m.TSConfigPath = Ptr(v)
	}
	if v := env[EnvConcurrency]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		m.Concurrency = Ptr(n)
	}
	if v := env[EnvLogLevel]; v != "" {
		m.LogLevel = Ptr(v)
	}
	if v := env[EnvLogFormat]; v != "" {
		m.LogFormat = Ptr(v)
	}
	return m, nil
}
