package config

import "context"

// Loader reads one settings file into a Model layer. env holds the
// variables the file may reference.
type Loader interface {
	Load(ctx context.Context, path string, env map[string]string) (*Model, error)
}
