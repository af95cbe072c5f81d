package tsconfig

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/Bnaya/typescript-monorepo-toolkit/internal/configdoc"
	"github.com/Bnaya/typescript-monorepo-toolkit/internal/workspace"
)

// Transform edits the configuration document of one unit.
type Transform func(ctx context.Context, doc *configdoc.Document, unit workspace.PackageRecord) error

// Load parses a configuration file. New "extends" and "compilerOptions"
// members are placed at the top of the file.
func Load(path string) (*configdoc.Document, []byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := configdoc.Parse(b)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.LeadWith(ExtendsKey, CompilerOptionsKey)
	return doc, b, nil
}

// ApplyFile loads the configuration at path, runs transform on it and
// writes the result back when it differs from what was read. With dryRun
// the file is never written. changed reports whether the bytes differ.
func ApplyFile(ctx context.Context, path string, unit workspace.PackageRecord, transform Transform, dryRun bool) (changed bool, err error) {
	doc, before, err := Load(path)
	if err != nil {
		return false, err
	}
	if err := transform(ctx, doc, unit); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	after := doc.Bytes()
	if bytes.Equal(before, after) {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, after, mode); err != nil {
		return false, err
	}
	return true, nil
}
